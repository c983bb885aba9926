package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avast/retry-go"
	"github.com/openveh/uds"
)

const (
	DefaultTimeout        = 500 * time.Millisecond
	DefaultPendingTimeout = 5 * time.Second

	// granularity of the receive wait, bounds how late a context
	// cancellation is noticed
	pollInterval = 20 * time.Millisecond

	busyRetryAttempts = 3
	busyRetryDelay    = 100 * time.Millisecond
)

// Client runs diagnostic services over an open Connection. One request
// in flight at a time; stale frames from earlier exchanges are drained
// before every send.
type Client struct {
	conn           *uds.Connection
	reg            *uds.Registry
	dids           map[uint16]uds.CodecConfig
	timeout        time.Duration
	pendingTimeout time.Duration
}

type Opt func(*Client)

// WithRegistry swaps the service catalog.
func WithRegistry(reg *uds.Registry) Opt {
	return func(c *Client) { c.reg = reg }
}

// WithTimeout sets how long a single exchange waits for the response.
func WithTimeout(d time.Duration) Opt {
	return func(c *Client) { c.timeout = d }
}

// WithPendingTimeout sets the extended wait entered when the server
// answers RequestCorrectlyReceivedResponsePending.
func WithPendingTimeout(d time.Duration) Opt {
	return func(c *Client) { c.pendingTimeout = d }
}

// WithDIDCodecs installs the data identifier codec table used by
// ReadDID and WriteDID.
func WithDIDCodecs(dids map[uint16]uds.CodecConfig) Opt {
	return func(c *Client) { c.dids = dids }
}

func New(conn *uds.Connection, opts ...Opt) *Client {
	c := &Client{
		conn:           conn,
		reg:            uds.ISO14229(),
		timeout:        DefaultTimeout,
		pendingTimeout: DefaultPendingTimeout,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Registry exposes the catalog the client parses against.
func (c *Client) Registry() *uds.Registry {
	return c.reg
}

// SendRequest performs one request/response exchange. BusyRepeatRequest
// answers are retried a few times before giving up; every other negative
// response surfaces as a *uds.NegativeResponseError with the parsed
// response attached. A request with the suppress bit set returns
// (nil, nil) right after the send.
func (c *Client) SendRequest(ctx context.Context, req *uds.Request) (*uds.Response, error) {
	var resp *uds.Response
	err := retry.Do(func() error {
		var err error
		resp, err = c.exchange(ctx, req)
		return err
	},
		retry.Context(ctx),
		retry.Attempts(busyRetryAttempts),
		retry.Delay(busyRetryDelay),
		retry.RetryIf(func(err error) bool {
			var nre *uds.NegativeResponseError
			return errors.As(err, &nre) && nre.Response.Code == uds.BusyRepeatRequest
		}),
		retry.LastErrorOnly(true),
	)
	return resp, err
}

func (c *Client) exchange(ctx context.Context, req *uds.Request) (*uds.Response, error) {
	payload, err := req.Payload()
	if err != nil {
		return nil, err
	}
	c.conn.EmptyRxQueue()
	if err := c.conn.SendRaw(payload); err != nil {
		return nil, err
	}
	if req.SuppressPositiveResponse {
		return nil, nil
	}

	deadline := time.Now().Add(c.timeout)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil, &uds.TimeoutError{Timeout: c.timeout}
		}
		wait := remaining
		if wait > pollInterval {
			wait = pollInterval
		}
		frame, err := c.conn.MustWaitFrame(wait)
		if err != nil {
			var te *uds.TimeoutError
			if errors.As(err, &te) {
				continue
			}
			return nil, err
		}

		resp := uds.ParseResponse(c.reg, frame)
		if !resp.Valid {
			return resp, fmt.Errorf("invalid response: %s", resp.InvalidReason)
		}
		if req.Service != nil && resp.Service.RequestID != req.Service.RequestID {
			// leftover frame from an earlier exchange
			continue
		}
		if !resp.Positive {
			if resp.Code == uds.RequestCorrectlyReceivedResponsePending {
				deadline = time.Now().Add(c.pendingTimeout)
				continue
			}
			return resp, &uds.NegativeResponseError{Response: resp}
		}
		return resp, nil
	}
}

func (c *Client) service(id byte) (*uds.Service, error) {
	svc := c.reg.ByRequestID(id)
	if svc == nil {
		return nil, uds.ErrUnknownService
	}
	return svc, nil
}

// DiagnosticSessionControl switches the server to the given session.
func (c *Client) DiagnosticSessionControl(ctx context.Context, session byte) error {
	svc, err := c.service(uds.ServiceDiagnosticSessionControl)
	if err != nil {
		return err
	}
	_, err = c.SendRequest(ctx, &uds.Request{Service: svc, Subfunction: session})
	return err
}

// ECUReset requests the given reset type.
func (c *Client) ECUReset(ctx context.Context, resetType byte) error {
	svc, err := c.service(uds.ServiceECUReset)
	if err != nil {
		return err
	}
	_, err = c.SendRequest(ctx, &uds.Request{Service: svc, Subfunction: resetType})
	return err
}

// TesterPresent keeps the current session alive. The positive response
// is suppressed, so the call returns right after the send.
func (c *Client) TesterPresent(ctx context.Context) error {
	svc, err := c.service(uds.ServiceTesterPresent)
	if err != nil {
		return err
	}
	_, err = c.SendRequest(ctx, &uds.Request{Service: svc, SuppressPositiveResponse: true})
	return err
}

// SecurityAccessRequestSeed asks for the seed of the given security
// level. Level must be odd per ISO-14229.
func (c *Client) SecurityAccessRequestSeed(ctx context.Context, level byte) ([]byte, error) {
	if level&0x01 == 0 {
		return nil, fmt.Errorf("seed request level 0x%02X must be odd", level)
	}
	svc, err := c.service(uds.ServiceSecurityAccess)
	if err != nil {
		return nil, err
	}
	resp, err := c.SendRequest(ctx, &uds.Request{Service: svc, Subfunction: level})
	if err != nil {
		return nil, err
	}
	if len(resp.Data) < 2 {
		return nil, fmt.Errorf("seed response too short: % X", resp.Data)
	}
	return resp.Data[1:], nil
}

// SecurityAccessSendKey answers a seed with the computed key at
// level+1.
func (c *Client) SecurityAccessSendKey(ctx context.Context, level byte, key []byte) error {
	svc, err := c.service(uds.ServiceSecurityAccess)
	if err != nil {
		return err
	}
	_, err = c.SendRequest(ctx, &uds.Request{Service: svc, Subfunction: level + 1, Data: key})
	return err
}

// ReadDID reads one data identifier. With a codec configured for the
// identifier the decoded value comes back; without one the raw record
// bytes do.
func (c *Client) ReadDID(ctx context.Context, did uint16) (any, error) {
	svc, err := c.service(uds.ServiceReadDataByIdentifier)
	if err != nil {
		return nil, err
	}
	req := &uds.Request{Service: svc, Data: []byte{byte(did >> 8), byte(did)}}
	resp, err := c.SendRequest(ctx, req)
	if err != nil {
		return nil, err
	}
	record, err := didRecord(resp.Data, did)
	if err != nil {
		return nil, err
	}
	cfg, ok := c.dids[did]
	if !ok {
		return record, nil
	}
	codec, err := uds.CodecFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	return codec.Decode(record)
}

// WriteDID encodes value with the identifier's codec and writes it.
func (c *Client) WriteDID(ctx context.Context, did uint16, value any) error {
	svc, err := c.service(uds.ServiceWriteDataByIdentifier)
	if err != nil {
		return err
	}
	cfg, ok := c.dids[did]
	if !ok {
		return fmt.Errorf("no codec configured for identifier 0x%04X", did)
	}
	codec, err := uds.CodecFromConfig(cfg)
	if err != nil {
		return err
	}
	encoded, err := codec.Encode(value)
	if err != nil {
		return err
	}
	data := append([]byte{byte(did >> 8), byte(did)}, encoded...)
	resp, err := c.SendRequest(ctx, &uds.Request{Service: svc, Data: data})
	if err != nil {
		return err
	}
	if _, err := didRecord(resp.Data, did); err != nil {
		return err
	}
	return nil
}

// didRecord checks the identifier echo and returns the bytes after it.
func didRecord(data []byte, did uint16) ([]byte, error) {
	if len(data) < 2 {
		return nil, fmt.Errorf("response too short for identifier echo: % X", data)
	}
	echo := uint16(data[0])<<8 | uint16(data[1])
	if echo != did {
		return nil, fmt.Errorf("identifier mismatch: requested 0x%04X, got 0x%04X", did, echo)
	}
	return data[2:], nil
}

// reportDTCByStatusMask, ISO-14229 19 02
const subReportDTCByStatusMask = 0x02

// ReadDTCs fetches the stored trouble codes matching the status mask.
// Each record is 3 identifier bytes followed by 1 status byte.
func (c *Client) ReadDTCs(ctx context.Context, statusMask byte) ([]*uds.Dtc, error) {
	svc, err := c.service(uds.ServiceReadDTCInformation)
	if err != nil {
		return nil, err
	}
	req := &uds.Request{Service: svc, Subfunction: subReportDTCByStatusMask, Data: []byte{statusMask}}
	resp, err := c.SendRequest(ctx, req)
	if err != nil {
		return nil, err
	}
	// data: [subfunction echo][availability mask][records...]
	if len(resp.Data) < 2 {
		return nil, fmt.Errorf("response too short: % X", resp.Data)
	}
	records := resp.Data[2:]
	if len(records)%4 != 0 {
		return nil, fmt.Errorf("truncated trouble code record, %d trailing bytes", len(records)%4)
	}
	var out []*uds.Dtc
	for i := 0; i < len(records); i += 4 {
		dtc := &uds.Dtc{
			ID: uint32(records[i])<<16 | uint32(records[i+1])<<8 | uint32(records[i+2]),
		}
		dtc.SetStatus(records[i+3])
		out = append(out, dtc)
	}
	return out, nil
}

// ClearDTCs erases diagnostic information for the given group. Use
// 0xFFFFFF for all groups.
func (c *Client) ClearDTCs(ctx context.Context, group uint32) error {
	svc, err := c.service(uds.ServiceClearDiagnosticInformation)
	if err != nil {
		return err
	}
	data := []byte{byte(group >> 16), byte(group >> 8), byte(group)}
	_, err = c.SendRequest(ctx, &uds.Request{Service: svc, Data: data})
	return err
}

// ReadMemoryByAddress reads size bytes starting at addr. addrLen and
// sizeLen pick the wire width of the two fields.
func (c *Client) ReadMemoryByAddress(ctx context.Context, addr uint64, size uint32, addrLen, sizeLen int) ([]byte, error) {
	svc, err := c.service(uds.ServiceReadMemoryByAddress)
	if err != nil {
		return nil, err
	}
	ali, err := uds.MakeALI(sizeLen, addrLen)
	if err != nil {
		return nil, err
	}
	data := []byte{ali}
	for i := addrLen - 1; i >= 0; i-- {
		data = append(data, byte(addr>>(8*i)))
	}
	for i := sizeLen - 1; i >= 0; i-- {
		data = append(data, byte(size>>(8*i)))
	}
	resp, err := c.SendRequest(ctx, &uds.Request{Service: svc, Data: data})
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}
