// Package structcodec provides a declarative fixed-width little-endian
// record codec, the Go analogue of the original toolkit's NamedStruct:
// a codec is built once from an ordered list of (Kind, name) fields and
// packs/unpacks records of exactly that many bytes.
package structcodec

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// Kind identifies the wire representation of a single field.
type Kind int

const (
	I8 Kind = iota
	U8
	I16
	U16
	I32
	U32
	F32
)

func (k Kind) size() int {
	switch k {
	case I8, U8:
		return 1
	case I16, U16:
		return 2
	case I32, U32, F32:
		return 4
	default:
		panic(fmt.Sprintf("structcodec: unknown kind %d", k))
	}
}

// Field is one named entry in a record's declared layout.
type Field struct {
	Kind Kind
	Name string
}

// Record is a named set of decoded field values. Integer kinds decode to
// int8/uint8/int16/uint16/int32/uint32 (not a single widened type) so
// that two's-complement range and overflow behavior match the wire
// format exactly; F32 decodes to float32.
type Record map[string]any

// ErrShortRead is returned by Unpack when fewer than Size() bytes remain
// in the buffer at the given offset.
var ErrShortRead = errors.New("structcodec: short read")

// Codec is a compiled (Kind, name) field list.
type Codec struct {
	fields []Field
	size   int
}

// New compiles a field list into a Codec. Field order is the wire order.
func New(fields ...Field) *Codec {
	c := &Codec{fields: append([]Field(nil), fields...)}
	for _, f := range c.fields {
		c.size += f.Kind.size()
	}
	return c
}

// Size returns the exact byte length of one record.
func (c *Codec) Size() int {
	return c.size
}

// Unpack decodes one record starting at offset. It fails with
// ErrShortRead if fewer than Size() bytes remain.
func (c *Codec) Unpack(buf []byte, offset int) (Record, error) {
	if offset < 0 || offset+c.size > len(buf) {
		return nil, fmt.Errorf("%w: need %d bytes at offset %d, have %d", ErrShortRead, c.size, offset, len(buf)-offset)
	}

	rec := make(Record, len(c.fields))
	pos := offset
	for _, f := range c.fields {
		n := f.Kind.size()
		b := buf[pos : pos+n]
		switch f.Kind {
		case I8:
			rec[f.Name] = int8(b[0])
		case U8:
			rec[f.Name] = b[0]
		case I16:
			rec[f.Name] = int16(binary.LittleEndian.Uint16(b))
		case U16:
			rec[f.Name] = binary.LittleEndian.Uint16(b)
		case I32:
			rec[f.Name] = int32(binary.LittleEndian.Uint32(b))
		case U32:
			rec[f.Name] = binary.LittleEndian.Uint32(b)
		case F32:
			rec[f.Name] = math.Float32frombits(binary.LittleEndian.Uint32(b))
		}
		pos += n
	}
	return rec, nil
}

// Pack serializes fields in declared order into exactly Size() bytes.
// Pack returns an error if a field is missing or of the wrong Go type
// for its Kind.
func (c *Codec) Pack(rec Record) ([]byte, error) {
	buf := make([]byte, c.size)
	pos := 0
	for _, f := range c.fields {
		n := f.Kind.size()
		v, ok := rec[f.Name]
		if !ok {
			return nil, fmt.Errorf("structcodec: missing field %q", f.Name)
		}
		b := buf[pos : pos+n]
		switch f.Kind {
		case I8:
			x, ok := v.(int8)
			if !ok {
				return nil, typeErr(f, v)
			}
			b[0] = byte(x)
		case U8:
			x, ok := v.(uint8)
			if !ok {
				return nil, typeErr(f, v)
			}
			b[0] = x
		case I16:
			x, ok := v.(int16)
			if !ok {
				return nil, typeErr(f, v)
			}
			binary.LittleEndian.PutUint16(b, uint16(x))
		case U16:
			x, ok := v.(uint16)
			if !ok {
				return nil, typeErr(f, v)
			}
			binary.LittleEndian.PutUint16(b, x)
		case I32:
			x, ok := v.(int32)
			if !ok {
				return nil, typeErr(f, v)
			}
			binary.LittleEndian.PutUint32(b, uint32(x))
		case U32:
			x, ok := v.(uint32)
			if !ok {
				return nil, typeErr(f, v)
			}
			binary.LittleEndian.PutUint32(b, x)
		case F32:
			x, ok := v.(float32)
			if !ok {
				return nil, typeErr(f, v)
			}
			binary.LittleEndian.PutUint32(b, math.Float32bits(x))
		}
		pos += n
	}
	return buf, nil
}

func typeErr(f Field, v any) error {
	return fmt.Errorf("structcodec: field %q: unexpected Go type %T for kind %d", f.Name, v, f.Kind)
}
