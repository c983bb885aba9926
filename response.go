package uds

import (
	"fmt"
	"strings"
)

// NegativeResponseMarker follows the service response ID in every
// negative response, before the response code byte.
const NegativeResponseMarker = 0x7F

// Response is a server to client reply. Produced by ParseResponse on the
// client side or built directly and serialized on the server side.
//
// Valid reports structural well-formedness; when it is false every other
// field is suspect and InvalidReason says why. Malformed frames are
// values, not errors, so a single bad frame cannot crash the receive
// path and negative-response driven logic stays possible above.
type Response struct {
	Service       *Service
	Positive      bool
	Code          byte
	CodeName      string
	Data          []byte
	Valid         bool
	InvalidReason string
}

// NewResponse builds a server side response ready for serialization.
// Data is only accepted when the service declares response data.
func NewResponse(svc *Service, code byte, data []byte) (*Response, error) {
	if svc == nil {
		return nil, ErrNoService
	}
	if data != nil && !svc.HasResponseData {
		return nil, fmt.Errorf("service %s does not carry response data", svc)
	}
	return &Response{
		Service:  svc,
		Positive: !IsNegative(code),
		Code:     code,
		CodeName: CodeName(code),
		Data:     data,
		Valid:    true,
	}, nil
}

// Payload serializes the response, server side.
// Positive: [responseID][data...]? with data only when the service
// declares it. Negative: [responseID][0x7F][code], never any data.
func (r *Response) Payload() ([]byte, error) {
	if r.Service == nil {
		return nil, ErrNoService
	}
	payload := []byte{r.Service.ResponseID}
	if !r.Positive {
		payload = append(payload, NegativeResponseMarker, r.Code)
		return payload, nil
	}
	if r.Service.HasResponseData {
		payload = append(payload, r.Data...)
	}
	return payload, nil
}

// ParseResponse analyzes a received transport payload, client side. It
// never fails; malformed input yields Valid=false with a reason. Callers
// must check Valid before trusting any other field.
func ParseResponse(reg *Registry, payload []byte) *Response {
	resp := &Response{InvalidReason: "object not initialized"}
	if len(payload) < 1 {
		resp.InvalidReason = "first payload byte is not a known service"
		return resp
	}
	resp.Service = reg.ByResponseID(payload[0])
	if resp.Service == nil {
		resp.InvalidReason = "first payload byte is not a known service"
		return resp
	}
	if len(payload) == 1 {
		if resp.Service.HasResponseData {
			resp.InvalidReason = "payload too short, service carries response data"
			return resp
		}
		resp.markPositive()
		return resp
	}
	if payload[1] != NegativeResponseMarker {
		resp.markPositive()
		if len(payload) > 1 {
			resp.Data = payload[1:]
		}
		return resp
	}
	resp.Positive = false
	if len(payload) < 3 {
		resp.InvalidReason = "incomplete negative response code (7Fxx)"
		return resp
	}
	resp.Code = payload[2]
	resp.CodeName = CodeName(resp.Code)
	resp.Valid = true
	resp.InvalidReason = ""
	// the standard prohibits trailing bytes after the code but we keep
	// them for inspection rather than rejecting the frame
	if len(payload) > 3 {
		resp.Data = payload[3:]
	}
	return resp
}

func (r *Response) markPositive() {
	r.Positive = true
	r.Code = PositiveResponse
	r.CodeName = CodeName(PositiveResponse)
	r.Valid = true
	r.InvalidReason = ""
}

func (r *Response) String() string {
	var out strings.Builder
	if r.Positive {
		out.WriteString("<PositiveResponse: [")
	} else {
		fmt.Fprintf(&out, "<NegativeResponse(%s): [", r.CodeName)
	}
	out.WriteString(r.Service.String())
	fmt.Fprintf(&out, "] - %d data bytes", len(r.Data))
	if !r.Valid {
		fmt.Fprintf(&out, " (invalid: %s)", r.InvalidReason)
	}
	out.WriteString(">")
	return out.String()
}
