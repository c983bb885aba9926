package uds

import (
	"log"
	"sync"
	"sync/atomic"
	"time"
)

const (
	defaultQueueDepth  = 64
	defaultPollTimeout = 100 * time.Millisecond
)

// Connection pumps ISO-TP payloads from a Socket into a FIFO that the
// protocol caller drains with WaitFrame. There is exactly one producer
// (the receive goroutine) and one consumer (the caller); the channel is
// the only synchronization point between them.
type Connection struct {
	sock        Socket
	iface       string
	rxid, txid  uint32
	pollTimeout time.Duration
	queueDepth  int

	mu            sync.Mutex
	opened        bool
	exitRequested atomic.Bool
	rxQueue       chan []byte

	errOnce sync.Once
	errChan chan error
}

type ConnectionOpt func(*Connection)

// WithQueueDepth sets the receive FIFO capacity.
func WithQueueDepth(n int) ConnectionOpt {
	return func(c *Connection) { c.queueDepth = n }
}

// WithPollTimeout sets how long the receiver blocks on each socket read.
// Close latency is bounded by this value.
func WithPollTimeout(d time.Duration) ConnectionOpt {
	return func(c *Connection) { c.pollTimeout = d }
}

func NewConnection(sock Socket, iface string, rxid, txid uint32, opts ...ConnectionOpt) *Connection {
	c := &Connection{
		sock:        sock,
		iface:       iface,
		rxid:        rxid,
		txid:        txid,
		pollTimeout: defaultPollTimeout,
		queueDepth:  defaultQueueDepth,
		errChan:     make(chan error, 1),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Open binds the socket and starts the background receiver. A closed
// connection can be reopened.
func (c *Connection) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.opened {
		return ErrAlreadyOpen
	}
	if err := c.sock.Bind(c.iface, c.rxid, c.txid); err != nil {
		return err
	}
	c.exitRequested.Store(false)
	c.rxQueue = make(chan []byte, c.queueDepth)
	c.errOnce = sync.Once{}
	c.errChan = make(chan error, 1)
	go c.rxLoop(c.rxQueue)
	c.opened = true
	return nil
}

// WithOpen opens the connection, runs fn and guarantees Close on every
// exit path.
func (c *Connection) WithOpen(fn func(*Connection) error) error {
	if err := c.Open(); err != nil {
		return err
	}
	defer c.Close()
	return fn(c)
}

// rxLoop is the background receiver. A read timeout is a normal loop
// iteration; any other receive error terminates the loop for good and
// the caller must detect the dead connection through IsOpen or Err.
func (c *Connection) rxLoop(queue chan<- []byte) {
	for !c.exitRequested.Load() {
		data, err := c.sock.Recv(c.pollTimeout)
		if err != nil {
			c.exitRequested.Store(true)
			c.fatal(err)
			return
		}
		if data == nil {
			continue
		}
		select {
		case queue <- data:
		default:
			log.Printf("rx queue full, dropping %d byte frame", len(data))
		}
	}
}

func (c *Connection) fatal(err error) {
	c.errOnce.Do(func() {
		select {
		case c.errChan <- err:
		default:
		}
	})
}

// Err reports the receive error that terminated the background loop, if
// any. It is never delivered into a blocked WaitFrame call.
func (c *Connection) Err() <-chan error {
	return c.errChan
}

// IsOpen reflects the transport socket's bound state, not just the local
// flag.
func (c *Connection) IsOpen() bool {
	return c.sock.Bound()
}

// Close asks the receiver to stop at its next poll boundary and releases
// the socket. Advisory: an in-flight read is not interrupted, so
// shutdown takes at most one poll timeout. Safe to call twice.
func (c *Connection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.opened {
		return nil
	}
	c.exitRequested.Store(true)
	err := c.sock.Close()
	c.opened = false
	return err
}

// Send serializes a Request or Response and forwards it to the transport.
func (c *Connection) Send(msg PayloadMarshaler) error {
	payload, err := msg.Payload()
	if err != nil {
		return err
	}
	return c.SendRaw(payload)
}

// SendRaw forwards raw bytes to the transport untouched.
func (c *Connection) SendRaw(payload []byte) error {
	if !c.isOpened() {
		return ErrNotOpen
	}
	return c.sock.Send(payload)
}

func (c *Connection) isOpened() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.opened
}

// WaitFrame blocks up to timeout for the next received payload. A nil
// frame with nil error means no frame arrived; that is an expected
// outcome, not a failure. Frames come out in exact arrival order.
func (c *Connection) WaitFrame(timeout time.Duration) ([]byte, error) {
	if !c.isOpened() {
		return nil, nil
	}
	select {
	case frame := <-c.rxQueue:
		return frame, nil
	case <-time.After(timeout):
		return nil, nil
	}
}

// MustWaitFrame is WaitFrame with strict semantics: a closed connection
// and an expired timeout are errors.
func (c *Connection) MustWaitFrame(timeout time.Duration) ([]byte, error) {
	if !c.isOpened() {
		return nil, ErrNotOpen
	}
	select {
	case frame := <-c.rxQueue:
		return frame, nil
	case <-time.After(timeout):
		return nil, &TimeoutError{Timeout: timeout}
	}
}

// EmptyRxQueue drops every frame received so far without blocking. Used
// to discard stale responses before issuing a new request.
func (c *Connection) EmptyRxQueue() {
	if !c.isOpened() {
		return
	}
	for {
		select {
		case <-c.rxQueue:
		default:
			return
		}
	}
}
