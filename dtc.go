package uds

import "fmt"

// DTC status byte bit masks, bit 0 through bit 7.
const (
	DtcTestFailed                         = 0x01
	DtcTestFailedThisOperationCycle       = 0x02
	DtcPending                            = 0x04
	DtcConfirmed                          = 0x08
	DtcTestNotCompletedSinceLastClear     = 0x10
	DtcTestFailedSinceLastClear           = 0x20
	DtcTestNotCompletedThisOperationCycle = 0x40
	DtcWarningIndicatorRequested          = 0x80
)

// Severity classifies a trouble code. It is reported separately from the
// status byte and never packed into it.
type Severity byte

const (
	SeverityNotAvailable     Severity = 0
	SeverityMaintenanceOnly  Severity = 1
	SeverityCheckAtNextHalt  Severity = 2
	SeverityCheckImmediately Severity = 4
)

func (s Severity) String() string {
	switch s {
	case SeverityNotAvailable:
		return "NotAvailable"
	case SeverityMaintenanceOnly:
		return "MaintenanceOnly"
	case SeverityCheckAtNextHalt:
		return "CheckAtNextHalt"
	case SeverityCheckImmediately:
		return "CheckImmediately"
	default:
		return fmt.Sprintf("Severity(%d)", byte(s))
	}
}

// Dtc is one diagnostic trouble code: a 3-byte identifier plus the eight
// status bits the vehicle reports for it.
type Dtc struct {
	ID       uint32
	Severity Severity

	TestFailed                         bool
	TestFailedThisOperationCycle       bool
	Pending                            bool
	Confirmed                          bool
	TestNotCompletedSinceLastClear     bool
	TestFailedSinceLastClear           bool
	TestNotCompletedThisOperationCycle bool
	WarningIndicatorRequested          bool
}

// Status packs the eight status flags into the wire byte.
func (d *Dtc) Status() byte {
	var b byte
	if d.TestFailed {
		b |= DtcTestFailed
	}
	if d.TestFailedThisOperationCycle {
		b |= DtcTestFailedThisOperationCycle
	}
	if d.Pending {
		b |= DtcPending
	}
	if d.Confirmed {
		b |= DtcConfirmed
	}
	if d.TestNotCompletedSinceLastClear {
		b |= DtcTestNotCompletedSinceLastClear
	}
	if d.TestFailedSinceLastClear {
		b |= DtcTestFailedSinceLastClear
	}
	if d.TestNotCompletedThisOperationCycle {
		b |= DtcTestNotCompletedThisOperationCycle
	}
	if d.WarningIndicatorRequested {
		b |= DtcWarningIndicatorRequested
	}
	return b
}

// SetStatus overwrites all eight flags from the wire byte. Total
// overwrite, so no stale bits survive.
func (d *Dtc) SetStatus(b byte) {
	d.TestFailed = b&DtcTestFailed > 0
	d.TestFailedThisOperationCycle = b&DtcTestFailedThisOperationCycle > 0
	d.Pending = b&DtcPending > 0
	d.Confirmed = b&DtcConfirmed > 0
	d.TestNotCompletedSinceLastClear = b&DtcTestNotCompletedSinceLastClear > 0
	d.TestFailedSinceLastClear = b&DtcTestFailedSinceLastClear > 0
	d.TestNotCompletedThisOperationCycle = b&DtcTestNotCompletedThisOperationCycle > 0
	d.WarningIndicatorRequested = b&DtcWarningIndicatorRequested > 0
}

// StatusOpt updates one status flag, for incremental reports.
type StatusOpt func(*Dtc)

func WithTestFailed(v bool) StatusOpt { return func(d *Dtc) { d.TestFailed = v } }
func WithTestFailedThisOperationCycle(v bool) StatusOpt {
	return func(d *Dtc) { d.TestFailedThisOperationCycle = v }
}
func WithPending(v bool) StatusOpt   { return func(d *Dtc) { d.Pending = v } }
func WithConfirmed(v bool) StatusOpt { return func(d *Dtc) { d.Confirmed = v } }
func WithTestNotCompletedSinceLastClear(v bool) StatusOpt {
	return func(d *Dtc) { d.TestNotCompletedSinceLastClear = v }
}
func WithTestFailedSinceLastClear(v bool) StatusOpt {
	return func(d *Dtc) { d.TestFailedSinceLastClear = v }
}
func WithTestNotCompletedThisOperationCycle(v bool) StatusOpt {
	return func(d *Dtc) { d.TestNotCompletedThisOperationCycle = v }
}
func WithWarningIndicatorRequested(v bool) StatusOpt {
	return func(d *Dtc) { d.WarningIndicatorRequested = v }
}

// UpdateStatus applies the given flag updates and leaves every other
// flag untouched.
func (d *Dtc) UpdateStatus(opts ...StatusOpt) {
	for _, o := range opts {
		o(d)
	}
}

// Code renders the identifier as the familiar letter code, "P0302" style.
// The first two ID bytes select system letter and digits, the third byte
// is appended as the failure type when non-zero.
func (d *Dtc) Code() string {
	systemChars := [4]byte{'P', 'C', 'B', 'U'}
	hexDigits := "0123456789ABCDEF"

	a := byte(d.ID >> 16)
	b := byte(d.ID >> 8)
	ftb := byte(d.ID)

	code := make([]byte, 5)
	code[0] = systemChars[(a>>6)&0x03]
	code[1] = '0' + (a>>4)&0x03
	code[2] = hexDigits[a&0x0F]
	code[3] = hexDigits[(b>>4)&0x0F]
	code[4] = hexDigits[b&0x0F]

	if ftb != 0 {
		return fmt.Sprintf("%s-%02X", code, ftb)
	}
	return string(code)
}

func (d *Dtc) String() string {
	return fmt.Sprintf("%s status=%08b", d.Code(), d.Status())
}
