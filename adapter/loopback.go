package adapter

import (
	"github.com/openveh/uds"
)

func init() {
	if err := Register(&Info{
		Name:        "Loopback",
		Description: "in-memory echo adapter used for testing",
		New:         NewLoopback,
	}); err != nil {
		panic(err)
	}
}

// Loopback is an in-memory Socket. On its own it echoes every sent
// payload back; paired through NewLoopbackPair each side receives what
// the other sends, which lets tests stand in a fake ECU for a client.
type Loopback struct {
	BaseSocket
	peer *Loopback
}

func NewLoopback(cfg *Config) (uds.Socket, error) {
	return &Loopback{BaseSocket: NewBaseSocket(cfg)}, nil
}

// NewLoopbackPair returns two connected endpoints. A nil cfg gets
// silent defaults.
func NewLoopbackPair(cfg *Config) (*Loopback, *Loopback) {
	if cfg == nil {
		cfg = &Config{}
	}
	if cfg.OnMessage == nil {
		cfg.OnMessage = func(string) {}
	}
	if cfg.OnError == nil {
		cfg.OnError = func(error) {}
	}
	a := &Loopback{BaseSocket: NewBaseSocket(cfg)}
	b := &Loopback{BaseSocket: NewBaseSocket(cfg)}
	a.peer = b
	b.peer = a
	return a, b
}

func (l *Loopback) Bind(iface string, rxid, txid uint32) error {
	l.rearm()
	l.setBound(true)
	return nil
}

func (l *Loopback) Send(payload []byte) error {
	data := make([]byte, len(payload))
	copy(data, payload)
	if l.peer != nil {
		l.peer.deliver(data)
		return nil
	}
	l.deliver(data)
	return nil
}

func (l *Loopback) Close() error {
	l.closeLatch()
	l.setBound(false)
	return nil
}
