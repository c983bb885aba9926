package uds

import "strconv"

// Response codes defined by ISO-14229. PositiveResponse is the sentinel
// for "no error", every other registered value is a negative response
// code following the 0x7F marker byte.
const (
	PositiveResponse                          byte = 0x00
	GeneralReject                             byte = 0x10
	ServiceNotSupported                       byte = 0x11
	SubFunctionNotSupported                   byte = 0x12
	IncorrectMessageLengthOrInvalidFormat     byte = 0x13
	ResponseTooLong                           byte = 0x14
	BusyRepeatRequest                         byte = 0x21
	ConditionsNotCorrect                      byte = 0x22
	RequestSequenceError                      byte = 0x24
	NoResponseFromSubnetComponent             byte = 0x25
	FailurePreventsExecutionOfRequestedAction byte = 0x26
	RequestOutOfRange                         byte = 0x31
	SecurityAccessDenied                      byte = 0x33
	InvalidKey                                byte = 0x35
	ExceedNumberOfAttempts                    byte = 0x36
	RequiredTimeDelayNotExpired               byte = 0x37
	UploadDownloadNotAccepted                 byte = 0x70
	TransferDataSuspended                     byte = 0x71
	GeneralProgrammingFailure                 byte = 0x72
	WrongBlockSequenceCounter                 byte = 0x73
	RequestCorrectlyReceivedResponsePending   byte = 0x78
	SubFunctionNotSupportedInActiveSession    byte = 0x7E
	ServiceNotSupportedInActiveSession        byte = 0x7F
	RpmTooHigh                                byte = 0x81
	RpmTooLow                                 byte = 0x82
	EngineIsRunning                           byte = 0x83
	EngineIsNotRunning                        byte = 0x84
	EngineRunTimeTooLow                       byte = 0x85
	TemperatureTooHigh                        byte = 0x86
	TemperatureTooLow                         byte = 0x87
	VehicleSpeedTooHigh                       byte = 0x88
	VehicleSpeedTooLow                        byte = 0x89
	ThrottlePedalTooHigh                      byte = 0x8A
	ThrottlePedalTooLow                       byte = 0x8B
	TransmissionRangeNotInNeutral             byte = 0x8C
	TransmissionRangeNotInGear                byte = 0x8D
	ISOSAEReserved                            byte = 0x8E
	BrakeSwitchNotClosed                      byte = 0x8F
	ShifterLeverNotInPark                     byte = 0x90
	TorqueConverterClutchLocked               byte = 0x91
	VoltageTooHigh                            byte = 0x92
	VoltageTooLow                             byte = 0x93
)

// Security extension codes defined by ISO-15764. The 0x38 offset is
// reserved for them within the ISO-14229 code space.
const (
	securityExtensionOffset byte = 0x38

	GeneralSecurityViolation          = securityExtensionOffset + 0
	SecuredModeRequested              = securityExtensionOffset + 1
	InsufficientProtection            = securityExtensionOffset + 2
	TerminationWithSignatureRequested = securityExtensionOffset + 3
	AccessDenied                      = securityExtensionOffset + 4
	VersionNotSupported               = securityExtensionOffset + 5
	SecuredLinkNotSupported           = securityExtensionOffset + 6
	CertificateNotAvailable           = securityExtensionOffset + 7
	AuditTrailInformationNotAvailable = securityExtensionOffset + 8
)

var codeNames = map[byte]string{
	PositiveResponse:                          "PositiveResponse",
	GeneralReject:                             "GeneralReject",
	ServiceNotSupported:                       "ServiceNotSupported",
	SubFunctionNotSupported:                   "SubFunctionNotSupported",
	IncorrectMessageLengthOrInvalidFormat:     "IncorrectMessageLengthOrInvalidFormat",
	ResponseTooLong:                           "ResponseTooLong",
	BusyRepeatRequest:                         "BusyRepeatRequest",
	ConditionsNotCorrect:                      "ConditionsNotCorrect",
	RequestSequenceError:                      "RequestSequenceError",
	NoResponseFromSubnetComponent:             "NoResponseFromSubnetComponent",
	FailurePreventsExecutionOfRequestedAction: "FailurePreventsExecutionOfRequestedAction",
	RequestOutOfRange:                         "RequestOutOfRange",
	SecurityAccessDenied:                      "SecurityAccessDenied",
	InvalidKey:                                "InvalidKey",
	ExceedNumberOfAttempts:                    "ExceedNumberOfAttempts",
	RequiredTimeDelayNotExpired:               "RequiredTimeDelayNotExpired",
	GeneralSecurityViolation:                  "GeneralSecurityViolation",
	SecuredModeRequested:                      "SecuredModeRequested",
	InsufficientProtection:                    "InsufficientProtection",
	TerminationWithSignatureRequested:         "TerminationWithSignatureRequested",
	AccessDenied:                              "AccessDenied",
	VersionNotSupported:                       "VersionNotSupported",
	SecuredLinkNotSupported:                   "SecuredLinkNotSupported",
	CertificateNotAvailable:                   "CertificateNotAvailable",
	AuditTrailInformationNotAvailable:         "AuditTrailInformationNotAvailable",
	UploadDownloadNotAccepted:                 "UploadDownloadNotAccepted",
	TransferDataSuspended:                     "TransferDataSuspended",
	GeneralProgrammingFailure:                 "GeneralProgrammingFailure",
	WrongBlockSequenceCounter:                 "WrongBlockSequenceCounter",
	RequestCorrectlyReceivedResponsePending:   "RequestCorrectlyReceivedResponsePending",
	SubFunctionNotSupportedInActiveSession:    "SubFunctionNotSupportedInActiveSession",
	ServiceNotSupportedInActiveSession:        "ServiceNotSupportedInActiveSession",
	RpmTooHigh:                                "RpmTooHigh",
	RpmTooLow:                                 "RpmTooLow",
	EngineIsRunning:                           "EngineIsRunning",
	EngineIsNotRunning:                        "EngineIsNotRunning",
	EngineRunTimeTooLow:                       "EngineRunTimeTooLow",
	TemperatureTooHigh:                        "TemperatureTooHigh",
	TemperatureTooLow:                         "TemperatureTooLow",
	VehicleSpeedTooHigh:                       "VehicleSpeedTooHigh",
	VehicleSpeedTooLow:                        "VehicleSpeedTooLow",
	ThrottlePedalTooHigh:                      "ThrottlePedalTooHigh",
	ThrottlePedalTooLow:                       "ThrottlePedalTooLow",
	TransmissionRangeNotInNeutral:             "TransmissionRangeNotInNeutral",
	TransmissionRangeNotInGear:                "TransmissionRangeNotInGear",
	ISOSAEReserved:                            "ISOSAEReserved",
	BrakeSwitchNotClosed:                      "BrakeSwitchNotClosed",
	ShifterLeverNotInPark:                     "ShifterLeverNotInPark",
	TorqueConverterClutchLocked:               "TorqueConverterClutchLocked",
	VoltageTooHigh:                            "VoltageTooHigh",
	VoltageTooLow:                             "VoltageTooLow",
}

// CodeName returns the symbolic name of a response code, or its decimal
// value as a string when unregistered. Never fails, always printable.
func CodeName(code byte) string {
	if name, ok := codeNames[code]; ok {
		return name
	}
	return strconv.Itoa(int(code))
}

// IsNegative tells if a code is a registered negative response code.
// Unregistered codes are not treated as negative even though they follow
// the 0x7F marker on the wire; see the tests for the consequence.
func IsNegative(code byte) bool {
	if code == PositiveResponse {
		return false
	}
	_, ok := codeNames[code]
	return ok
}
