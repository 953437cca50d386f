package dispatch

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestFIFOOrder(t *testing.T) {
	d := New()
	d.Start(context.Background())
	defer d.Stop()

	const n = 200
	var mu sync.Mutex
	var got []int
	done := make(chan struct{})

	for i := 0; i < n; i++ {
		i := i
		d.Post(func() {
			mu.Lock()
			got = append(got, i)
			if len(got) == n {
				close(done)
			}
			mu.Unlock()
		})
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("任务未在期限内执行完")
	}

	mu.Lock()
	defer mu.Unlock()
	for i := 0; i < n; i++ {
		if got[i] != i {
			t.Fatalf("第 %d 个任务乱序: %d", i, got[i])
		}
	}
}

func TestPostNeverBlocks(t *testing.T) {
	d := New()
	// 未启动时入队也不能阻塞
	for i := 0; i < 1000; i++ {
		d.Post(func() {})
	}
	if d.Pending() != 1000 {
		t.Fatalf("排队任务数应为 1000，实际 %d", d.Pending())
	}

	d.Start(context.Background())
	defer d.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for d.Pending() > 0 {
		if time.Now().After(deadline) {
			t.Fatal("积压任务未被消化")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestPostNil(t *testing.T) {
	d := New()
	d.Post(nil)
	if d.Pending() != 0 {
		t.Error("nil 任务不应入队")
	}
}

func TestStopIdempotent(t *testing.T) {
	d := New()
	d.Start(context.Background())
	d.Stop()
	d.Stop() // 重复调用不应 panic
}
