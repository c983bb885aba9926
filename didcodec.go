package uds

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/albenik/bcd"
)

// DidCodec translates a single Data Identifier's value to and from its
// fixed-length binary form. Implementations are stateless after
// construction.
type DidCodec interface {
	Encode(value any) ([]byte, error)
	Decode(data []byte) (any, error)
	// Len is the encoded byte length, also expected for decoding.
	Len() (int, error)
}

// CodecConfig selects a codec for one DID. Exactly one field must be
// set: a ready instance, a constructor, or a compact pack format string.
type CodecConfig struct {
	Codec DidCodec
	New   func() DidCodec
	Pack  string
}

// CodecFromConfig resolves a CodecConfig into a usable codec. Invalid
// shapes are rejected here, at setup, not at use.
func CodecFromConfig(cfg CodecConfig) (DidCodec, error) {
	set := 0
	if cfg.Codec != nil {
		set++
	}
	if cfg.New != nil {
		set++
	}
	if cfg.Pack != "" {
		set++
	}
	if set != 1 {
		return nil, ErrInvalidCodecConfig
	}
	switch {
	case cfg.Codec != nil:
		return cfg.Codec, nil
	case cfg.New != nil:
		return cfg.New(), nil
	default:
		c := &PackCodec{Format: cfg.Pack}
		if _, err := c.Len(); err != nil {
			return nil, err
		}
		return c, nil
	}
}

// PackCodec encodes values from a compact format string, one letter per
// field with an optional repeat count and an endianness prefix:
//
//	<  little-endian      >  big-endian (default)
//	b/B int8/uint8        h/H int16/uint16
//	l/L int32/uint32      q/Q int64/uint64
//	f/d float32/float64   Ns  N raw bytes
//
// A zero-value PackCodec has no layout and fails every operation with
// ErrNotImplemented.
type PackCodec struct {
	Format string
}

type packField struct {
	kind  byte
	count int
}

func (p *PackCodec) fields() ([]packField, binary.ByteOrder, error) {
	if p.Format == "" {
		return nil, nil, ErrNotImplemented
	}
	var order binary.ByteOrder = binary.BigEndian
	layout := p.Format
	switch layout[0] {
	case '<':
		order = binary.LittleEndian
		layout = layout[1:]
	case '>':
		layout = layout[1:]
	}
	var out []packField
	count := 0
	hasCount := false
	for i := 0; i < len(layout); i++ {
		c := layout[i]
		if c >= '0' && c <= '9' {
			count = count*10 + int(c-'0')
			hasCount = true
			continue
		}
		n := 1
		if hasCount {
			n = count
		}
		switch c {
		case 'b', 'B', 'h', 'H', 'l', 'L', 'q', 'Q', 'f', 'd':
			for j := 0; j < n; j++ {
				out = append(out, packField{kind: c, count: 1})
			}
		case 's':
			out = append(out, packField{kind: 's', count: n})
		default:
			return nil, nil, fmt.Errorf("pack format %q: unknown field %q", p.Format, string(c))
		}
		count = 0
		hasCount = false
	}
	if len(out) == 0 {
		return nil, nil, fmt.Errorf("pack format %q has no fields", p.Format)
	}
	return out, order, nil
}

func fieldSize(f packField) int {
	switch f.kind {
	case 'b', 'B':
		return 1
	case 'h', 'H':
		return 2
	case 'l', 'L', 'f':
		return 4
	case 'q', 'Q', 'd':
		return 8
	case 's':
		return f.count
	}
	return 0
}

func (p *PackCodec) Len() (int, error) {
	fields, _, err := p.fields()
	if err != nil {
		return 0, err
	}
	size := 0
	for _, f := range fields {
		size += fieldSize(f)
	}
	return size, nil
}

func (p *PackCodec) Encode(value any) ([]byte, error) {
	fields, order, err := p.fields()
	if err != nil {
		return nil, err
	}
	values, ok := value.([]any)
	if !ok {
		values = []any{value}
	}
	if len(values) != len(fields) {
		return nil, fmt.Errorf("pack format %q wants %d values, got %d", p.Format, len(fields), len(values))
	}
	var out []byte
	for i, f := range fields {
		out, err = appendField(out, order, f, values[i])
		if err != nil {
			return nil, fmt.Errorf("pack format %q field %d: %w", p.Format, i, err)
		}
	}
	return out, nil
}

func (p *PackCodec) Decode(data []byte) (any, error) {
	fields, order, err := p.fields()
	if err != nil {
		return nil, err
	}
	size, _ := p.Len()
	if len(data) != size {
		return nil, fmt.Errorf("pack format %q wants %d bytes, got %d", p.Format, size, len(data))
	}
	values := make([]any, 0, len(fields))
	pos := 0
	for _, f := range fields {
		n := fieldSize(f)
		values = append(values, readField(data[pos:pos+n], order, f))
		pos += n
	}
	if len(values) == 1 {
		return values[0], nil
	}
	return values, nil
}

func appendField(out []byte, order binary.ByteOrder, f packField, value any) ([]byte, error) {
	switch f.kind {
	case 'b', 'h', 'l', 'q':
		v, err := toInt64(value)
		if err != nil {
			return nil, err
		}
		return appendUint(out, order, fieldSize(f), uint64(v)), nil
	case 'B', 'H', 'L', 'Q':
		v, err := toUint64(value)
		if err != nil {
			return nil, err
		}
		return appendUint(out, order, fieldSize(f), v), nil
	case 'f':
		v, err := toFloat64(value)
		if err != nil {
			return nil, err
		}
		return appendUint(out, order, 4, uint64(math.Float32bits(float32(v)))), nil
	case 'd':
		v, err := toFloat64(value)
		if err != nil {
			return nil, err
		}
		return appendUint(out, order, 8, math.Float64bits(v)), nil
	case 's':
		var b []byte
		switch s := value.(type) {
		case []byte:
			b = s
		case string:
			b = []byte(s)
		default:
			return nil, fmt.Errorf("want bytes or string, got %T", value)
		}
		if len(b) != f.count {
			return nil, fmt.Errorf("want %d bytes, got %d", f.count, len(b))
		}
		return append(out, b...), nil
	}
	return nil, fmt.Errorf("unknown field %q", string(f.kind))
}

func appendUint(out []byte, order binary.ByteOrder, size int, v uint64) []byte {
	buf := make([]byte, 8)
	order.PutUint64(buf, v)
	if order == binary.BigEndian {
		return append(out, buf[8-size:]...)
	}
	return append(out, buf[:size]...)
}

func readField(data []byte, order binary.ByteOrder, f packField) any {
	switch f.kind {
	case 'b':
		return int8(data[0])
	case 'B':
		return data[0]
	case 'h':
		return int16(order.Uint16(data))
	case 'H':
		return order.Uint16(data)
	case 'l':
		return int32(order.Uint32(data))
	case 'L':
		return order.Uint32(data)
	case 'q':
		return int64(order.Uint64(data))
	case 'Q':
		return order.Uint64(data)
	case 'f':
		return math.Float32frombits(order.Uint32(data))
	case 'd':
		return math.Float64frombits(order.Uint64(data))
	case 's':
		out := make([]byte, len(data))
		copy(out, data)
		return out
	}
	return nil
}

func toInt64(value any) (int64, error) {
	switch v := value.(type) {
	case int:
		return int64(v), nil
	case int8:
		return int64(v), nil
	case int16:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case int64:
		return v, nil
	}
	u, err := toUint64(value)
	if err != nil {
		return 0, fmt.Errorf("want integer, got %T", value)
	}
	return int64(u), nil
}

func toUint64(value any) (uint64, error) {
	switch v := value.(type) {
	case uint:
		return uint64(v), nil
	case uint8:
		return uint64(v), nil
	case uint16:
		return uint64(v), nil
	case uint32:
		return uint64(v), nil
	case uint64:
		return v, nil
	case int:
		if v >= 0 {
			return uint64(v), nil
		}
	}
	return 0, fmt.Errorf("want unsigned integer, got %T", value)
}

func toFloat64(value any) (float64, error) {
	switch v := value.(type) {
	case float32:
		return float64(v), nil
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	}
	return 0, fmt.Errorf("want float, got %T", value)
}

// BCDCodec holds a numeric DID as packed binary-coded decimal, two
// digits per byte. ECUs commonly store serial and part numbers this way.
type BCDCodec struct {
	// Width is the encoded size in bytes, 1 to 8.
	Width int
}

func (c *BCDCodec) Len() (int, error) {
	if c.Width < 1 || c.Width > 8 {
		return 0, fmt.Errorf("bcd codec width must be 1-8, got %d", c.Width)
	}
	return c.Width, nil
}

func (c *BCDCodec) Encode(value any) ([]byte, error) {
	width, err := c.Len()
	if err != nil {
		return nil, err
	}
	v, err := toUint64(value)
	if err != nil {
		return nil, err
	}
	if v >= pow10(2*width) {
		return nil, fmt.Errorf("%d does not fit in %d BCD digits", v, 2*width)
	}
	full := bcd.FromUint64(v)
	return full[len(full)-width:], nil
}

func (c *BCDCodec) Decode(data []byte) (any, error) {
	width, err := c.Len()
	if err != nil {
		return nil, err
	}
	if len(data) != width {
		return nil, fmt.Errorf("bcd codec wants %d bytes, got %d", width, len(data))
	}
	buf := make([]byte, 8)
	copy(buf[8-width:], data)
	return bcd.ToUint64(buf), nil
}

func pow10(n int) uint64 {
	v := uint64(1)
	for i := 0; i < n && i < 20; i++ {
		v *= 10
	}
	return v
}
