package adapter

import (
	"sync"
	"time"
)

// BaseSocket holds the plumbing shared by every adapter: the receive
// FIFO, the close latch and the bound flag. Adapters embed it and only
// implement the hardware specific parts.
type BaseSocket struct {
	cfg       *Config
	rxChan    chan []byte
	closeChan chan struct{}
	closeOnce sync.Once

	mu    sync.Mutex
	bound bool
}

func NewBaseSocket(cfg *Config) BaseSocket {
	return BaseSocket{
		cfg:       cfg,
		rxChan:    make(chan []byte, 1024),
		closeChan: make(chan struct{}),
	}
}

func (base *BaseSocket) Bound() bool {
	base.mu.Lock()
	defer base.mu.Unlock()
	return base.bound
}

func (base *BaseSocket) setBound(v bool) {
	base.mu.Lock()
	base.bound = v
	base.mu.Unlock()
}

// Recv pops the next payload from the receive FIFO. A nil payload with
// nil error means nothing arrived within timeout.
func (base *BaseSocket) Recv(timeout time.Duration) ([]byte, error) {
	base.mu.Lock()
	closing := base.closeChan
	base.mu.Unlock()
	select {
	case data := <-base.rxChan:
		return data, nil
	case <-closing:
		return nil, nil
	case <-time.After(timeout):
		return nil, nil
	}
}

// deliver pushes a received payload into the FIFO, dropping on overflow.
func (base *BaseSocket) deliver(data []byte) {
	select {
	case base.rxChan <- data:
	default:
		base.cfg.OnError(errDroppedPayload(len(data)))
	}
}

func (base *BaseSocket) closeLatch() {
	base.closeOnce.Do(func() {
		close(base.closeChan)
	})
}

// rearm resets the close latch so a closed socket can be bound again.
func (base *BaseSocket) rearm() {
	base.mu.Lock()
	defer base.mu.Unlock()
	select {
	case <-base.closeChan:
		base.closeChan = make(chan struct{})
		base.closeOnce = sync.Once{}
	default:
	}
}
