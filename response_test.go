package uds

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseResponsePositiveWithData(t *testing.T) {
	reg := ISO14229()

	// 0x62 is the ReadDataByIdentifier response ID, remaining bytes are data
	resp := ParseResponse(reg, []byte{0x62, 0x01, 0x02, 0x03})
	if !resp.Valid {
		t.Fatalf("invalid: %s", resp.InvalidReason)
	}
	if !resp.Positive {
		t.Fatal("expected positive response")
	}
	if resp.Service != reg.ByRequestID(ServiceReadDataByIdentifier) {
		t.Fatalf("wrong service: %v", resp.Service)
	}
	if resp.Code != PositiveResponse {
		t.Fatalf("code: got 0x%02X", resp.Code)
	}
	if !bytes.Equal(resp.Data, []byte{0x01, 0x02, 0x03}) {
		t.Fatalf("data: got % X", resp.Data)
	}
}

func TestParseResponseNegative(t *testing.T) {
	reg := ISO14229()

	resp := ParseResponse(reg, []byte{0x62, 0x7F, 0x31})
	if !resp.Valid {
		t.Fatalf("invalid: %s", resp.InvalidReason)
	}
	if resp.Positive {
		t.Fatal("expected negative response")
	}
	if resp.Code != RequestOutOfRange {
		t.Fatalf("code: got 0x%02X, want 0x31", resp.Code)
	}
	if resp.CodeName != "RequestOutOfRange" {
		t.Fatalf("code name: got %q", resp.CodeName)
	}
	if resp.Data != nil {
		t.Fatalf("unexpected data: % X", resp.Data)
	}
}

func TestParseResponseIncompleteNegative(t *testing.T) {
	reg := ISO14229()

	resp := ParseResponse(reg, []byte{0x62, 0x7F})
	if resp.Valid {
		t.Fatal("expected invalid response")
	}
	if !strings.Contains(resp.InvalidReason, "7Fxx") {
		t.Fatalf("reason %q should mention the incomplete negative response", resp.InvalidReason)
	}
	if resp.Positive {
		t.Fatal("incomplete negative must not read as positive")
	}
}

func TestParseResponseShortPayloads(t *testing.T) {
	reg := ISO14229()

	if resp := ParseResponse(reg, nil); resp.Valid {
		t.Fatal("empty payload must be invalid")
	}
	if resp := ParseResponse(reg, []byte{0xBA}); resp.Valid || resp.Service != nil {
		t.Fatal("unknown response ID must be invalid with nil service")
	}

	// single byte, service without response data: complete positive response
	resp := ParseResponse(reg, []byte{0x7E})
	if !resp.Valid || !resp.Positive {
		t.Fatalf("single byte TesterPresent response must be positive: %+v", resp)
	}
	if resp.Code != PositiveResponse {
		t.Fatalf("code: got 0x%02X", resp.Code)
	}

	// single byte, service that declares response data: too short
	resp = ParseResponse(reg, []byte{0x62})
	if resp.Valid {
		t.Fatal("single byte ReadDataByIdentifier response must be invalid")
	}
	if !strings.Contains(resp.InvalidReason, "too short") {
		t.Fatalf("reason %q should mention payload too short", resp.InvalidReason)
	}
}

// trailing bytes after the negative response code are kept, not rejected
func TestParseResponseNegativeTrailingData(t *testing.T) {
	reg := ISO14229()

	resp := ParseResponse(reg, []byte{0x62, 0x7F, 0x31, 0xAA, 0xBB})
	if !resp.Valid {
		t.Fatalf("invalid: %s", resp.InvalidReason)
	}
	if !bytes.Equal(resp.Data, []byte{0xAA, 0xBB}) {
		t.Fatalf("data: got % X", resp.Data)
	}
}

func TestResponseRoundTrip(t *testing.T) {
	reg := ISO14229()

	tests := []struct {
		name string
		svc  byte
		code byte
		data []byte
	}{
		{"positive with data", ServiceReadDataByIdentifier, PositiveResponse, []byte{0xF1, 0x90, 0x01}},
		{"positive without data", ServiceTesterPresent, PositiveResponse, nil},
		{"negative busy", ServiceReadDataByIdentifier, BusyRepeatRequest, nil},
		{"negative security", ServiceSecurityAccess, SecurityAccessDenied, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orig, err := NewResponse(reg.ByRequestID(tt.svc), tt.code, tt.data)
			if err != nil {
				t.Fatalf("NewResponse: %v", err)
			}
			payload, err := orig.Payload()
			if err != nil {
				t.Fatalf("Payload: %v", err)
			}
			got := ParseResponse(reg, payload)
			if !got.Valid {
				t.Fatalf("round trip invalid: %s", got.InvalidReason)
			}
			if got.Service != orig.Service {
				t.Fatalf("service: got %v, want %v", got.Service, orig.Service)
			}
			if got.Positive != orig.Positive {
				t.Fatalf("positive: got %v, want %v", got.Positive, orig.Positive)
			}
			if got.Code != orig.Code {
				t.Fatalf("code: got 0x%02X, want 0x%02X", got.Code, orig.Code)
			}
			if !bytes.Equal(got.Data, orig.Data) {
				t.Fatalf("data: got % X, want % X", got.Data, orig.Data)
			}
		})
	}
}

func TestResponsePayloadNegativeNeverCarriesData(t *testing.T) {
	reg := ISO14229()

	resp := &Response{
		Service:  reg.ByRequestID(ServiceReadDataByIdentifier),
		Positive: false,
		Code:     ConditionsNotCorrect,
		Data:     []byte{0x01, 0x02},
	}
	payload, err := resp.Payload()
	if err != nil {
		t.Fatalf("Payload: %v", err)
	}
	want := []byte{0x62, 0x7F, 0x22}
	if !bytes.Equal(payload, want) {
		t.Fatalf("got % X, want % X", payload, want)
	}
}

func TestNewResponseRejectsDataWithoutDeclaration(t *testing.T) {
	reg := ISO14229()

	if _, err := NewResponse(reg.ByRequestID(ServiceTesterPresent), PositiveResponse, []byte{0x00}); err == nil {
		t.Fatal("TesterPresent declares no response data, expected error")
	}
	if _, err := NewResponse(nil, PositiveResponse, nil); err == nil {
		t.Fatal("expected error for nil service")
	}
}
