package uds

import "fmt"

// Address length selectors for the addressAndLengthFormatIdentifier byte
// used by the memory access services. 1-indexed per ISO-14229.
const (
	Addr256B   = 1
	Addr64KB   = 2
	Addr16MB   = 3
	Addr4GB    = 4
	Addr1024GB = 5
)

// Memory size selectors, same encoding one nibble up.
const (
	Size256B = 1
	Size64KB = 2
	Size16MB = 3
	Size4GB  = 4
)

// MakeALI packs the size and address length selectors into the single
// addressAndLengthFormatIdentifier byte: high nibble size, low nibble
// address.
func MakeALI(size, addr int) (byte, error) {
	if size < 1 || size > 4 {
		return 0, fmt.Errorf("size selector must be between 1 and 4, got %d", size)
	}
	if addr < 1 || addr > 5 {
		return 0, fmt.Errorf("address selector must be between 1 and 5, got %d", addr)
	}
	return byte(size<<4 | addr), nil
}
