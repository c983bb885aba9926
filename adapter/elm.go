package adapter

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/avast/retry-go"
	"github.com/openveh/uds"
	"go.bug.st/serial"
	"golang.org/x/sync/errgroup"
)

func init() {
	for _, name := range []string{"ELM327", "OBDLink SX", "OBDLink EX"} {
		if err := Register(&Info{
			Name:               name,
			Description:        "serial ELM327 compatible, firmware handles ISO-TP",
			RequiresSerialPort: true,
			New:                NewELM327,
		}); err != nil {
			panic(err)
		}
	}
}

// ELM327 talks to an ELM327 or STN11xx adapter over a serial port. The
// firmware runs the ISO-TP layer, so Send and Recv carry whole service
// payloads, never individual CAN frames.
type ELM327 struct {
	BaseSocket
	port       serial.Port
	txid, rxid uint32
	closed     bool
	semChan    chan struct{}
}

func NewELM327(cfg *Config) (uds.Socket, error) {
	return &ELM327{
		BaseSocket: NewBaseSocket(cfg),
		semChan:    make(chan struct{}, 1),
	}, nil
}

// Bind opens the serial port, resets the adapter and programs the CAN
// headers. iface is unused, serial adapters are addressed by com port.
func (elm *ELM327) Bind(iface string, rxid, txid uint32) error {
	elm.rearm()
	elm.closed = false
	elm.rxid = rxid
	elm.txid = txid

	portName, err := portInfo(elm.cfg.Port, elm.cfg.OnMessage)
	if err != nil {
		return err
	}

	mode := &serial.Mode{
		BaudRate: elm.cfg.PortBaudrate,
		Parity:   serial.NoParity,
		DataBits: 8,
		StopBits: serial.OneStopBit,
	}
	p, err := serial.Open(portName, mode)
	if err != nil {
		return fmt.Errorf("failed to open com port %q : %v", elm.cfg.Port, err)
	}
	p.SetReadTimeout(10 * time.Millisecond)
	p.ResetOutputBuffer()
	p.ResetInputBuffer()
	elm.port = p

	err = retry.Do(func() error {
		return elm.reset(p)
	},
		retry.Attempts(3),
		retry.OnRetry(func(n uint, err error) {
			elm.cfg.OnError(fmt.Errorf("retry #%d: %w", n, err))
		}),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		p.Close()
		return err
	}

	initCmds := []string{
		"ATE0",   // turn off echo
		"ATS0",   // turn off spaces
		"ATH0",   // headers off, lines carry payload only
		"ATAT2",  // adaptive timing, aggressive mode
		"ATCAF1", // automatic formatting on, adapter firmware segments and reassembles
		"ATAL",   // allow long messages
		"ATSP6",  // ISO 15765-4 CAN 11bit 500kbit
		fmt.Sprintf("ATSH%03X", txid),
		fmt.Sprintf("ATCRA%03X", rxid),
		fmt.Sprintf("ATFCSH%03X", txid),
		"ATFCSD300000", // flow control: continue to send, no delay
		"ATFCSM1",
	}

	delay := 15 * time.Millisecond
	time.Sleep(delay)
	for _, c := range initCmds {
		if elm.cfg.Debug {
			elm.cfg.OnMessage(c)
		}
		if _, err := p.Write([]byte(c + "\r")); err != nil {
			elm.cfg.OnError(err)
		}
		time.Sleep(delay)
	}
	p.ResetInputBuffer()

	go elm.recvManager()

	elm.setBound(true)
	return nil
}

// reset issues ATZ and waits for the firmware banner.
func (elm *ELM327) reset(p serial.Port) error {
	p.ResetInputBuffer()

	errg, _ := errgroup.WithContext(context.Background())
	errg.Go(func() error {
		start := time.Now()
		readbuff := make([]byte, 8)
		buff := bytes.NewBuffer(nil)
		for time.Since(start) < 2*time.Second {
			n, err := p.Read(readbuff)
			if err != nil {
				if err == io.EOF {
					break
				}
				return err
			}
			if n == 0 {
				continue
			}
			for _, b := range readbuff[:n] {
				if b == '\r' {
					if buff.Len() == 0 {
						continue
					}
					if strings.HasPrefix(buff.String(), "ELM327") || strings.HasPrefix(buff.String(), "STN") {
						elm.cfg.OnMessage(buff.String())
						return nil
					}
					buff.Reset()
					continue
				}
				buff.WriteByte(b)
			}
		}
		return errors.New("adapter did not identify itself")
	})

	if _, err := p.Write([]byte("ATZ\r")); err != nil {
		return err
	}
	return errg.Wait()
}

// Send writes one service payload. The adapter blocks further writes
// until the firmware prompt comes back.
func (elm *ELM327) Send(payload []byte) error {
	elm.semChan <- struct{}{}
	out := strings.ToUpper(hex.EncodeToString(payload)) + "\r"
	if elm.cfg.Debug {
		elm.cfg.OnMessage("<o> " + strings.TrimSuffix(out, "\r"))
	}
	if _, err := elm.port.Write([]byte(out)); err != nil {
		return fmt.Errorf("failed to write to com port: %w", err)
	}
	return nil
}

func (elm *ELM327) recvManager() {
	elm.mu.Lock()
	closing := elm.closeChan
	elm.mu.Unlock()
	buff := bytes.NewBuffer(nil)
	readBuffer := make([]byte, 21)
	for {
		select {
		case <-closing:
			return
		default:
		}
		n, err := elm.port.Read(readBuffer)
		if err != nil {
			if !elm.closed {
				elm.cfg.OnError(fmt.Errorf("failed to read com port: %w", err))
			}
			return
		}
		if n == 0 {
			continue
		}
		for _, b := range readBuffer[:n] {
			if b == '>' {
				select {
				case <-elm.semChan:
				default:
				}
				continue
			}
			if b == 0x0D {
				if buff.Len() == 0 {
					continue
				}
				elm.handleLine(buff.String())
				buff.Reset()
				continue
			}
			buff.WriteByte(b)
		}
	}
}

func (elm *ELM327) handleLine(line string) {
	if elm.cfg.Debug {
		elm.cfg.OnMessage("<i> " + line)
	}
	switch line {
	case "OK", "STOPPED", "NO DATA", "BUFFER FULL":
	case "?":
		elm.cfg.OnError(errors.New("UNKNOWN COMMAND"))
	case "CAN ERROR":
		elm.cfg.OnError(errors.New("CAN ERROR"))
	default:
		data, err := hex.DecodeString(strings.ReplaceAll(line, " ", ""))
		if err != nil {
			elm.cfg.OnError(fmt.Errorf("failed to decode payload: %s %w", line, err))
			return
		}
		elm.deliver(data)
	}
}

func (elm *ELM327) Close() error {
	if elm.port == nil {
		return nil
	}
	elm.closed = true
	elm.closeLatch()
	elm.setBound(false)
	time.Sleep(100 * time.Millisecond)
	elm.port.ResetOutputBuffer()
	elm.port.Write([]byte("ATSP00\r"))
	elm.port.Write([]byte("ATZ\r"))
	time.Sleep(50 * time.Millisecond)
	elm.port.ResetInputBuffer()
	return elm.port.Close()
}
