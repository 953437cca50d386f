// Package shutdown 管理进程退出时的有序回收：
// 会话登出、流水落盘等清理动作注册为回调，退出时限时执行。
package shutdown

import (
	"context"
	"sync"

	"github.com/atpbot/goatp/pkg/logger"
)

// Handler 退出回调。ctx 到期后应放弃未完成的清理直接返回。
type Handler func(ctx context.Context, wg *sync.WaitGroup)

// Manager 收集退出回调并在 Shutdown 时并发执行
type Manager struct {
	callbacks []Handler
	mu        sync.Mutex
}

func NewManager() *Manager {
	return &Manager{}
}

// OnShutdown 注册一个退出回调
func (m *Manager) OnShutdown(handler Handler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callbacks = append(m.callbacks, handler)
}

// Shutdown 并发执行所有退出回调并等待完成。
// 阻塞直到全部回调返回或 ctx 到期，到期即放弃等待。
func (m *Manager) Shutdown(ctx context.Context) {
	m.mu.Lock()
	callbacks := m.callbacks
	m.mu.Unlock()

	if len(callbacks) == 0 {
		return
	}

	logger.Infof("开始退出清理，共 %d 个回调", len(callbacks))

	var wg sync.WaitGroup
	wg.Add(len(callbacks))
	for _, cb := range callbacks {
		go func(handler Handler) {
			defer wg.Done()
			handler(ctx, &wg)
		}(cb)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logger.Infof("退出清理完成")
	case <-ctx.Done():
		logger.Warnf("退出清理超时: %v", ctx.Err())
	}
}
