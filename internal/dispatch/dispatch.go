// Package dispatch 提供单工作协程的 FIFO 事件分发器。
// 网关回调线程只做入队，真正的宿主回调全部在同一个工作协程里按
// 入队顺序执行，保证宿主观察到的事件顺序与网关推送顺序一致。
package dispatch

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/atpbot/goatp/pkg/sigchan"
	"github.com/atpbot/goatp/pkg/syncgroup"
)

var log = logrus.WithField("component", "dispatch")

// Task 一次待执行的宿主回调
type Task func()

// Dispatcher FIFO 事件分发器
type Dispatcher struct {
	mu    sync.Mutex
	queue []Task

	wake *sigchan.Chan
	sg   *syncgroup.SyncGroup

	cancel  context.CancelFunc
	started bool
}

// New 创建分发器（未启动）
func New() *Dispatcher {
	return &Dispatcher{
		wake: sigchan.New(1),
		sg:   syncgroup.NewSyncGroup(),
	}
}

// Start 启动工作协程，重复调用无效果
func (d *Dispatcher) Start(ctx context.Context) {
	d.mu.Lock()
	if d.started {
		d.mu.Unlock()
		return
	}
	d.started = true
	d.mu.Unlock()

	ctx, d.cancel = context.WithCancel(ctx)
	d.sg.Add(func() { d.run(ctx) })
	d.sg.Run()
}

// Stop 停止工作协程并等待退出，队列中未执行的任务被丢弃
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if !d.started {
		d.mu.Unlock()
		return
	}
	d.started = false
	d.mu.Unlock()

	d.cancel()
	d.sg.WaitAndClear()
}

// Post 入队一个任务，永不阻塞。
// 网关回调线程调用，nil 任务直接忽略。
func (d *Dispatcher) Post(t Task) {
	if t == nil {
		return
	}
	d.mu.Lock()
	d.queue = append(d.queue, t)
	d.mu.Unlock()
	d.wake.Emit()
}

// Pending 当前排队任务数
func (d *Dispatcher) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.queue)
}

// run 工作循环：被唤醒或超时后把队列整批取出依次执行。
// 定时兜底轮询是为了防御 Emit 信号丢失（满缓冲时 Emit 不阻塞）。
func (d *Dispatcher) run(ctx context.Context) {
	ticker := time.NewTicker(2 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Debug("分发器退出")
			return
		case <-d.wake.C():
		case <-ticker.C:
		}

		d.drain()
	}
}

func (d *Dispatcher) drain() {
	d.mu.Lock()
	if len(d.queue) == 0 {
		d.mu.Unlock()
		return
	}
	batch := d.queue
	d.queue = nil
	d.mu.Unlock()

	for _, t := range batch {
		t()
	}
}
