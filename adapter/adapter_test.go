package adapter

import (
	"testing"
)

func TestRegistry(t *testing.T) {
	names := Names()
	if len(names) == 0 {
		t.Fatal("no adapters registered")
	}
	seen := make(map[string]bool)
	for _, n := range names {
		seen[n] = true
	}
	for _, want := range []string{"ELM327", "OBDLink SX", "Loopback"} {
		if !seen[want] {
			t.Errorf("adapter %q not registered", want)
		}
	}

	if err := Register(&Info{Name: "Loopback"}); err == nil {
		t.Fatal("duplicate registration accepted")
	}
}

func TestNewLookup(t *testing.T) {
	// lookup is case insensitive
	sock, err := New("loopback", &Config{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if sock == nil {
		t.Fatal("nil socket")
	}

	if _, err := New("does-not-exist", &Config{}); err == nil {
		t.Fatal("unknown adapter accepted")
	}
}

func TestList(t *testing.T) {
	list := List()
	if len(list) != len(Names()) {
		t.Fatalf("List returned %d entries, Names %d", len(list), len(Names()))
	}
	for _, info := range list {
		if info.New == nil {
			t.Errorf("adapter %q has no constructor", info.Name)
		}
		if info.String() == "" {
			t.Errorf("adapter %q has empty description", info.Name)
		}
	}
}
