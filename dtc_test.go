package uds

import "testing"

func TestDtcStatusBijection(t *testing.T) {
	for b := 0; b <= 0xFF; b++ {
		var d Dtc
		d.SetStatus(byte(b))
		if got := d.Status(); got != byte(b) {
			t.Fatalf("pack(unpack(0x%02X)) = 0x%02X", b, got)
		}
	}
}

func TestDtcStatusBits(t *testing.T) {
	var d Dtc
	d.SetStatus(DtcTestFailed | DtcConfirmed | DtcWarningIndicatorRequested)
	if !d.TestFailed || !d.Confirmed || !d.WarningIndicatorRequested {
		t.Fatal("set bits not reflected")
	}
	if d.Pending || d.TestFailedThisOperationCycle || d.TestNotCompletedSinceLastClear ||
		d.TestFailedSinceLastClear || d.TestNotCompletedThisOperationCycle {
		t.Fatal("clear bits not reflected")
	}

	// SetStatus is a total overwrite, not a merge
	d.SetStatus(0)
	if d.Status() != 0 {
		t.Fatal("stale bits survived SetStatus(0)")
	}
}

func TestDtcUpdateStatusPartial(t *testing.T) {
	var d Dtc
	d.SetStatus(0xFF)

	d.UpdateStatus(WithPending(false), WithTestFailed(false))

	if d.Pending || d.TestFailed {
		t.Fatal("updated flags not applied")
	}
	if !d.Confirmed || !d.WarningIndicatorRequested || !d.TestFailedSinceLastClear {
		t.Fatal("untouched flags were modified")
	}
}

func TestDtcCode(t *testing.T) {
	tests := []struct {
		id   uint32
		want string
	}{
		{0x030200, "P0302"},
		{0x430000, "C0300"},
		{0xE10300, "U2103"},
		{0x030212, "P0302-12"},
	}
	for _, tt := range tests {
		d := Dtc{ID: tt.id}
		if got := d.Code(); got != tt.want {
			t.Errorf("Code(0x%06X) = %q, want %q", tt.id, got, tt.want)
		}
	}
}

func TestSeverityString(t *testing.T) {
	if SeverityCheckImmediately.String() != "CheckImmediately" {
		t.Fatalf("got %q", SeverityCheckImmediately.String())
	}
	if SeverityNotAvailable.String() != "NotAvailable" {
		t.Fatalf("got %q", SeverityNotAvailable.String())
	}
}
