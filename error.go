package uds

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrNoService          = errors.New("no service specified")
	ErrUnknownService     = errors.New("service is not in the registry")
	ErrNotOpen            = errors.New("connection is not open")
	ErrAlreadyOpen        = errors.New("connection is already open")
	ErrNotImplemented     = errors.New("codec has no layout")
	ErrInvalidCodecConfig = errors.New("codec config must hold exactly one of instance, constructor or pack string")
)

// TimeoutError is returned by MustWaitFrame when no frame arrived in time.
type TimeoutError struct {
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("did not receive ISO-TP frame in time (timeout=%s)", e.Timeout)
}

// NegativeResponseError carries a parsed negative response up through call
// sites that expected a positive one. The response stays inspectable for
// protocol logic like busy retries.
type NegativeResponseError struct {
	Response *Response
}

func (e *NegativeResponseError) Error() string {
	return fmt.Sprintf("negative response from %s: %s (0x%02X)",
		e.Response.Service, e.Response.CodeName, e.Response.Code)
}
