// Package syncgroup 管理一组 goroutine 的启停。
package syncgroup

import "sync"

// SyncGroup 包装 sync.WaitGroup：Add 注册函数，Run 统一启动，
// WaitAndClear 等全部退出后复位重用。Add/Done 由内部代劳。
type SyncGroup struct {
	wg sync.WaitGroup

	mu      sync.Mutex
	fns     []func()
	hasRun  bool
	running int
}

func NewSyncGroup() *SyncGroup {
	return &SyncGroup{}
}

// Add 注册一个 goroutine 函数。上一轮还有 goroutine 在跑时
// 拒绝注册，必须先 WaitAndClear。
func (w *SyncGroup) Add(fn func()) {
	if fn == nil {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.hasRun && w.running > 0 {
		return
	}
	w.fns = append(w.fns, fn)
}

// Run 启动所有已注册的函数并清空注册列表。
// 上一轮还有 goroutine 在跑时本次调用被跳过。
func (w *SyncGroup) Run() {
	w.mu.Lock()
	if w.hasRun && w.running > 0 {
		w.mu.Unlock()
		return
	}
	fns := w.fns
	w.fns = nil
	w.hasRun = true
	w.running = len(fns)
	w.mu.Unlock()

	for _, fn := range fns {
		w.wg.Add(1)
		go func(do func()) {
			defer func() {
				w.wg.Done()
				w.mu.Lock()
				w.running--
				w.mu.Unlock()
			}()
			do()
		}(fn)
	}
}

// WaitAndClear 等待全部 goroutine 退出并复位，之后可再次 Add/Run
func (w *SyncGroup) WaitAndClear() {
	w.wg.Wait()

	w.mu.Lock()
	w.fns = nil
	w.hasRun = false
	w.running = 0
	w.mu.Unlock()
}

// Wait 等待全部 goroutine 退出（不复位）
func (w *SyncGroup) Wait() {
	w.wg.Wait()
}
