package uds

import "time"

// Socket is the ISO-TP transport contract consumed by Connection. The
// implementation owns framing and segmentation of the underlying bus;
// this layer only sees complete payloads.
//
// Recv returns (nil, nil) when the timeout elapses with no payload.
// Bound reports whether the socket is attached to its interface, so a
// transport level disconnect is observable through it.
type Socket interface {
	Bind(iface string, rxid, txid uint32) error
	Send(payload []byte) error
	Recv(timeout time.Duration) ([]byte, error)
	Close() error
	Bound() bool
}

// PayloadMarshaler is anything that can serialize itself to a transport
// payload. Request and Response both qualify.
type PayloadMarshaler interface {
	Payload() ([]byte, error)
}
