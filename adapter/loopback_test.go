package adapter

import (
	"bytes"
	"testing"
	"time"
)

func TestLoopbackEcho(t *testing.T) {
	sock, err := NewLoopback(&Config{OnError: func(error) {}, OnMessage: func(string) {}})
	if err != nil {
		t.Fatalf("NewLoopback: %v", err)
	}
	if err := sock.Bind("any", 0x7E8, 0x7E0); err != nil {
		t.Fatalf("Bind: %v", err)
	}
	if !sock.Bound() {
		t.Fatal("not bound after Bind")
	}

	if err := sock.Send([]byte{0x3E, 0x00}); err != nil {
		t.Fatalf("Send: %v", err)
	}
	data, err := sock.Recv(time.Second)
	if err != nil {
		t.Fatalf("Recv: %v", err)
	}
	if !bytes.Equal(data, []byte{0x3E, 0x00}) {
		t.Fatalf("got % X", data)
	}

	if err := sock.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if sock.Bound() {
		t.Fatal("still bound after Close")
	}
}

func TestLoopbackPair(t *testing.T) {
	a, b := NewLoopbackPair(nil)
	a.Bind("any", 0x7E8, 0x7E0)
	b.Bind("any", 0x7E0, 0x7E8)

	if err := a.Send([]byte{0x22, 0xF1, 0x90}); err != nil {
		t.Fatalf("Send: %v", err)
	}
	got, err := b.Recv(time.Second)
	if err != nil {
		t.Fatalf("Recv: %v", err)
	}
	if !bytes.Equal(got, []byte{0x22, 0xF1, 0x90}) {
		t.Fatalf("b got % X", got)
	}

	// nothing came back to the sender
	if got, _ := a.Recv(20 * time.Millisecond); got != nil {
		t.Fatalf("a got % X", got)
	}

	if err := b.Send([]byte{0x62, 0xF1, 0x90, 0x01}); err != nil {
		t.Fatalf("Send: %v", err)
	}
	got, err = a.Recv(time.Second)
	if err != nil {
		t.Fatalf("Recv: %v", err)
	}
	if !bytes.Equal(got, []byte{0x62, 0xF1, 0x90, 0x01}) {
		t.Fatalf("a got % X", got)
	}
}

func TestLoopbackRecvTimeout(t *testing.T) {
	a, _ := NewLoopbackPair(nil)
	a.Bind("any", 1, 2)
	data, err := a.Recv(20 * time.Millisecond)
	if err != nil {
		t.Fatalf("Recv: %v", err)
	}
	if data != nil {
		t.Fatalf("got % X", data)
	}
}

func TestLoopbackReopen(t *testing.T) {
	a, b := NewLoopbackPair(nil)
	a.Bind("any", 1, 2)
	b.Bind("any", 2, 1)

	a.Close()
	if err := a.Bind("any", 1, 2); err != nil {
		t.Fatalf("rebind: %v", err)
	}
	if !a.Bound() {
		t.Fatal("not bound after rebind")
	}
	b.Send([]byte{0x50, 0x01})
	got, err := a.Recv(time.Second)
	if err != nil {
		t.Fatalf("Recv: %v", err)
	}
	if !bytes.Equal(got, []byte{0x50, 0x01}) {
		t.Fatalf("got % X", got)
	}
}
