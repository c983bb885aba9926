package uds

import (
	"strings"
	"testing"
)

func TestDump(t *testing.T) {
	out := Dump("in", []byte{0x62, 0xF1, 0x90, 'A', 'B'})
	if !strings.HasPrefix(out, "<in> ||  5 || ") {
		t.Fatalf("got %q", out)
	}
	if !strings.Contains(out, "62 F1 90 41 42") {
		t.Fatalf("hex view missing: %q", out)
	}
	if !strings.HasSuffix(out, "b..AB") {
		t.Fatalf("printable view wrong: %q", out)
	}
}

func TestColorDumpMarksNegative(t *testing.T) {
	neg := ColorDump("in", []byte{0x62, 0x7F, 0x31})
	pos := ColorDump("in", []byte{0x62, 0x01, 0x02})
	if !strings.Contains(neg, "62 7F 31") || !strings.Contains(pos, "62 01 02") {
		t.Fatalf("hex views missing:\n%q\n%q", neg, pos)
	}
}
