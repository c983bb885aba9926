package uds

import "testing"

func TestRegistryLookupBothDirections(t *testing.T) {
	reg := ISO14229()

	svc := reg.ByRequestID(0x22)
	if svc == nil {
		t.Fatal("ReadDataByIdentifier missing from catalog")
	}
	if svc.ResponseID != 0x62 {
		t.Fatalf("response ID: got 0x%02X, want 0x62", svc.ResponseID)
	}
	if reg.ByResponseID(0x62) != svc {
		t.Fatal("response ID lookup must return the same descriptor")
	}
	if reg.ByRequestID(0xBA) != nil {
		t.Fatal("unknown request ID must return nil")
	}
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	reg := NewRegistry()
	svc := &Service{Name: "First", RequestID: 0x10, ResponseID: 0x50}
	if err := reg.Register(svc); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := reg.Register(&Service{Name: "DupReq", RequestID: 0x10, ResponseID: 0x51}); err == nil {
		t.Fatal("duplicate request ID accepted")
	}
	if err := reg.Register(&Service{Name: "DupResp", RequestID: 0x11, ResponseID: 0x50}); err == nil {
		t.Fatal("duplicate response ID accepted")
	}
	if err := reg.Register(nil); err == nil {
		t.Fatal("nil service accepted")
	}
}

func TestCatalogFlags(t *testing.T) {
	reg := ISO14229()

	tests := []struct {
		id           byte
		subfunction  bool
		responseData bool
	}{
		{ServiceDiagnosticSessionControl, true, true},
		{ServiceReadDataByIdentifier, false, true},
		{ServiceTesterPresent, true, false},
		{ServiceClearDiagnosticInformation, false, false},
		{ServiceSecurityAccess, true, true},
	}
	for _, tt := range tests {
		svc := reg.ByRequestID(tt.id)
		if svc == nil {
			t.Fatalf("service 0x%02X missing", tt.id)
		}
		if svc.UsesSubfunction != tt.subfunction {
			t.Errorf("%s UsesSubfunction = %v", svc.Name, svc.UsesSubfunction)
		}
		if svc.HasResponseData != tt.responseData {
			t.Errorf("%s HasResponseData = %v", svc.Name, svc.HasResponseData)
		}
	}
}
