package uds

import "fmt"

// ResponseIDOffset is added to a request service ID to form the positive
// response service ID, per ISO-14229.
const ResponseIDOffset = 0x40

// Service describes the identity of a diagnostic service: its request and
// response IDs, whether the request carries a subfunction byte and whether
// a positive response carries payload data.
type Service struct {
	Name            string
	RequestID       byte
	ResponseID      byte
	UsesSubfunction bool
	HasResponseData bool
}

func (s *Service) String() string {
	if s == nil {
		return "unknown service"
	}
	return fmt.Sprintf("%s (0x%02X)", s.Name, s.RequestID)
}

// Registry maps service IDs to descriptors in both directions. It is
// passed explicitly to the framers so tests and protocol variants can
// carry their own catalog.
type Registry struct {
	byRequest  map[byte]*Service
	byResponse map[byte]*Service
}

func NewRegistry() *Registry {
	return &Registry{
		byRequest:  make(map[byte]*Service),
		byResponse: make(map[byte]*Service),
	}
}

// Register adds a service descriptor. Request and response IDs must be
// unique within the registry.
func (r *Registry) Register(svc *Service) error {
	if svc == nil {
		return ErrNoService
	}
	if _, ok := r.byRequest[svc.RequestID]; ok {
		return fmt.Errorf("duplicate request ID 0x%02X", svc.RequestID)
	}
	if _, ok := r.byResponse[svc.ResponseID]; ok {
		return fmt.Errorf("duplicate response ID 0x%02X", svc.ResponseID)
	}
	r.byRequest[svc.RequestID] = svc
	r.byResponse[svc.ResponseID] = svc
	return nil
}

// MustRegister is Register for static catalogs.
func (r *Registry) MustRegister(svc *Service) {
	if err := r.Register(svc); err != nil {
		panic(err)
	}
}

// ByRequestID returns the service with the given request ID or nil.
func (r *Registry) ByRequestID(id byte) *Service {
	return r.byRequest[id]
}

// ByResponseID returns the service with the given response ID or nil.
func (r *Registry) ByResponseID(id byte) *Service {
	return r.byResponse[id]
}

// Known tells if the registry holds a service with this exact descriptor.
func (r *Registry) Known(svc *Service) bool {
	if svc == nil {
		return false
	}
	return r.byRequest[svc.RequestID] == svc
}

// Standard ISO-14229 service IDs.
const (
	ServiceDiagnosticSessionControl        byte = 0x10
	ServiceECUReset                        byte = 0x11
	ServiceClearDiagnosticInformation      byte = 0x14
	ServiceReadDTCInformation              byte = 0x19
	ServiceReadDataByIdentifier            byte = 0x22
	ServiceReadMemoryByAddress             byte = 0x23
	ServiceReadScalingDataByIdentifier     byte = 0x24
	ServiceSecurityAccess                  byte = 0x27
	ServiceCommunicationControl            byte = 0x28
	ServiceReadDataByPeriodicIdentifier    byte = 0x2A
	ServiceDynamicallyDefineDataIdentifier byte = 0x2C
	ServiceWriteDataByIdentifier           byte = 0x2E
	ServiceInputOutputControlByIdentifier  byte = 0x2F
	ServiceRoutineControl                  byte = 0x31
	ServiceRequestDownload                 byte = 0x34
	ServiceRequestUpload                   byte = 0x35
	ServiceTransferData                    byte = 0x36
	ServiceRequestTransferExit             byte = 0x37
	ServiceWriteMemoryByAddress            byte = 0x3D
	ServiceTesterPresent                   byte = 0x3E
	ServiceAccessTimingParameter           byte = 0x83
	ServiceSecuredDataTransmission         byte = 0x84
	ServiceControlDTCSetting               byte = 0x85
	ServiceResponseOnEvent                 byte = 0x86
	ServiceLinkControl                     byte = 0x87
)

func std(name string, id byte, subfunction, responseData bool) *Service {
	return &Service{
		Name:            name,
		RequestID:       id,
		ResponseID:      id + ResponseIDOffset,
		UsesSubfunction: subfunction,
		HasResponseData: responseData,
	}
}

// ISO14229 returns a registry loaded with the standard diagnostic service
// catalog. Identity only, response ID = request ID + 0x40.
func ISO14229() *Registry {
	r := NewRegistry()
	for _, svc := range []*Service{
		std("DiagnosticSessionControl", ServiceDiagnosticSessionControl, true, true),
		std("ECUReset", ServiceECUReset, true, true),
		std("ClearDiagnosticInformation", ServiceClearDiagnosticInformation, false, false),
		std("ReadDTCInformation", ServiceReadDTCInformation, true, true),
		std("ReadDataByIdentifier", ServiceReadDataByIdentifier, false, true),
		std("ReadMemoryByAddress", ServiceReadMemoryByAddress, false, true),
		std("ReadScalingDataByIdentifier", ServiceReadScalingDataByIdentifier, false, true),
		std("SecurityAccess", ServiceSecurityAccess, true, true),
		std("CommunicationControl", ServiceCommunicationControl, true, false),
		std("ReadDataByPeriodicIdentifier", ServiceReadDataByPeriodicIdentifier, false, true),
		std("DynamicallyDefineDataIdentifier", ServiceDynamicallyDefineDataIdentifier, true, true),
		std("WriteDataByIdentifier", ServiceWriteDataByIdentifier, false, true),
		std("InputOutputControlByIdentifier", ServiceInputOutputControlByIdentifier, false, true),
		std("RoutineControl", ServiceRoutineControl, true, true),
		std("RequestDownload", ServiceRequestDownload, false, true),
		std("RequestUpload", ServiceRequestUpload, false, true),
		std("TransferData", ServiceTransferData, false, true),
		std("RequestTransferExit", ServiceRequestTransferExit, false, true),
		std("WriteMemoryByAddress", ServiceWriteMemoryByAddress, false, true),
		std("TesterPresent", ServiceTesterPresent, true, false),
		std("AccessTimingParameter", ServiceAccessTimingParameter, true, true),
		std("SecuredDataTransmission", ServiceSecuredDataTransmission, false, true),
		std("ControlDTCSetting", ServiceControlDTCSetting, true, false),
		std("ResponseOnEvent", ServiceResponseOnEvent, true, true),
		std("LinkControl", ServiceLinkControl, true, false),
	} {
		r.MustRegister(svc)
	}
	return r
}
