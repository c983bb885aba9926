package uds

import (
	"fmt"
	"strings"
)

// SuppressPositiveResponseBit is the high bit of the subfunction byte,
// set when the client does not want an acknowledgment on success.
const SuppressPositiveResponseBit = 0x80

// Request is a client to server diagnostic request. Built once per call,
// serialized with Payload and discarded after send.
type Request struct {
	Service                  *Service
	Subfunction              byte
	SuppressPositiveResponse bool
	Data                     []byte
}

// Payload serializes the request to its wire form:
// [serviceID][subfunction|0x80 if suppressed]?[data...]. Frame boundaries
// are transport defined, there is no padding or length field.
func (r *Request) Payload() ([]byte, error) {
	if r.Service == nil {
		return nil, ErrNoService
	}
	payload := make([]byte, 0, 2+len(r.Data))
	payload = append(payload, r.Service.RequestID)
	if r.Service.UsesSubfunction {
		subfunction := r.Subfunction
		if r.SuppressPositiveResponse {
			subfunction |= SuppressPositiveResponseBit
		}
		payload = append(payload, subfunction)
	}
	payload = append(payload, r.Data...)
	return payload, nil
}

// ParseRequest rebuilds a Request from a received payload, server side.
// It never fails: an empty payload or an unknown service ID yields a
// request with a nil Service and nothing else parsed.
func ParseRequest(reg *Registry, payload []byte) *Request {
	req := &Request{}
	if len(payload) < 1 {
		return req
	}
	req.Service = reg.ByRequestID(payload[0])
	if req.Service == nil {
		return req
	}
	offset := 0
	if req.Service.UsesSubfunction {
		offset = 1
		if len(payload) >= 2 {
			req.Subfunction = payload[1] & 0x7F
			req.SuppressPositiveResponse = payload[1]&SuppressPositiveResponseBit > 0
		}
	}
	if len(payload) > offset+1 {
		req.Data = payload[offset+1:]
	}
	return req
}

func (r *Request) String() string {
	var out strings.Builder
	out.WriteString("<Request: [")
	out.WriteString(r.Service.String())
	out.WriteString("]")
	if r.Service != nil && r.Service.UsesSubfunction {
		fmt.Fprintf(&out, " (subfunction=%d)", r.Subfunction)
	}
	fmt.Fprintf(&out, " - %d data bytes", len(r.Data))
	if r.SuppressPositiveResponse {
		out.WriteString(" [SuppressPosResponse]")
	}
	out.WriteString(">")
	return out.String()
}
