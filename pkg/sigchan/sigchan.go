// Package sigchan 提供非阻塞的信号 channel。
package sigchan

// Chan 只承载“有事发生”语义的信号 channel，不传递数据。
// 缓冲满时信号直接丢弃，Emit 永不阻塞，适合做唤醒通知。
type Chan struct {
	c chan struct{}
}

// New 创建缓冲大小为 bufferSize 的信号 channel
func New(bufferSize int) *Chan {
	return &Chan{c: make(chan struct{}, bufferSize)}
}

// Emit 发送一个信号；缓冲已满时丢弃
func (c *Chan) Emit() {
	select {
	case c.c <- struct{}{}:
	default:
	}
}

// C 暴露内部 channel 供 select 使用
func (c *Chan) C() <-chan struct{} {
	return c.c
}
