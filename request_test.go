package uds

import (
	"bytes"
	"testing"
)

func TestRequestPayload(t *testing.T) {
	reg := ISO14229()

	tests := []struct {
		name string
		req  Request
		want []byte
	}{
		{
			name: "subfunction service",
			req:  Request{Service: reg.ByRequestID(ServiceECUReset), Subfunction: 0x01},
			want: []byte{0x11, 0x01},
		},
		{
			name: "suppress bit set",
			req: Request{
				Service:                  reg.ByRequestID(ServiceTesterPresent),
				Subfunction:              0x00,
				SuppressPositiveResponse: true,
			},
			want: []byte{0x3E, 0x80},
		},
		{
			name: "no subfunction with data",
			req: Request{
				Service: reg.ByRequestID(ServiceReadDataByIdentifier),
				Data:    []byte{0xF1, 0x90},
			},
			want: []byte{0x22, 0xF1, 0x90},
		},
		{
			name: "subfunction and data",
			req: Request{
				Service:     reg.ByRequestID(ServiceReadDTCInformation),
				Subfunction: 0x02,
				Data:        []byte{0xFF},
			},
			want: []byte{0x19, 0x02, 0xFF},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.req.Payload()
			if err != nil {
				t.Fatalf("Payload: %v", err)
			}
			if !bytes.Equal(got, tt.want) {
				t.Fatalf("got % X, want % X", got, tt.want)
			}
		})
	}
}

func TestRequestPayloadNoService(t *testing.T) {
	req := Request{}
	if _, err := req.Payload(); err == nil {
		t.Fatal("expected error for request without service")
	}
}

func TestParseRequestRoundTrip(t *testing.T) {
	reg := ISO14229()

	reqs := []Request{
		{Service: reg.ByRequestID(ServiceECUReset), Subfunction: 0x03},
		{Service: reg.ByRequestID(ServiceTesterPresent), SuppressPositiveResponse: true},
		{Service: reg.ByRequestID(ServiceReadDataByIdentifier), Data: []byte{0xF1, 0x90}},
		{Service: reg.ByRequestID(ServiceRoutineControl), Subfunction: 0x01, Data: []byte{0x02, 0x03}},
	}

	for _, orig := range reqs {
		payload, err := orig.Payload()
		if err != nil {
			t.Fatalf("Payload: %v", err)
		}
		got := ParseRequest(reg, payload)
		if got.Service != orig.Service {
			t.Fatalf("service: got %v, want %v", got.Service, orig.Service)
		}
		if got.Subfunction != orig.Subfunction {
			t.Fatalf("subfunction: got %d, want %d", got.Subfunction, orig.Subfunction)
		}
		if got.SuppressPositiveResponse != orig.SuppressPositiveResponse {
			t.Fatalf("suppress flag: got %v, want %v", got.SuppressPositiveResponse, orig.SuppressPositiveResponse)
		}
		if !bytes.Equal(got.Data, orig.Data) {
			t.Fatalf("data: got % X, want % X", got.Data, orig.Data)
		}
	}
}

func TestParseRequestMalformed(t *testing.T) {
	reg := ISO14229()

	if got := ParseRequest(reg, nil); got.Service != nil {
		t.Fatal("empty payload must give nil service")
	}
	if got := ParseRequest(reg, []byte{0xBA, 0x01}); got.Service != nil {
		t.Fatal("unknown service ID must give nil service")
	}

	// byte 1 onward is plain data when the service has no subfunction
	got := ParseRequest(reg, []byte{0x22, 0xF1, 0x90})
	if !bytes.Equal(got.Data, []byte{0xF1, 0x90}) {
		t.Fatalf("data: got % X", got.Data)
	}
}
