// Package wire encodes bitmap-indexed card network messages.
//
// Layout: a 4-byte MTI, an 8-byte primary bitmap, then each field as
// [number:1][length:2 big-endian][value:length UTF-8], in insertion order.
// Field n sets bit (n-1)%8 of byte (n-1)/8, most significant bit first.
package wire

import (
	"encoding/binary"
	"fmt"
	"unicode/utf8"

	"github.com/api-sage/card-payment-engine/src/internal/domain"
)

const (
	MTILength    = 4
	BitmapLength = 8
	HeaderLength = MTILength + BitmapLength
	MaxField     = 64
	MaxValueLen  = 0xFFFF

	fieldHeaderLength = 3
)

type Field struct {
	Number int
	Value  string
}

// Message keeps fields in insertion order. The zero value is not usable; use
// NewMessage.
type Message struct {
	MTI    string
	fields []Field
}

func NewMessage(mti string) *Message {
	return &Message{MTI: mti}
}

// SetField sets field n. Setting an existing field replaces its value in
// place.
func (m *Message) SetField(n int, value string) error {
	if n < 1 || n > MaxField {
		return fmt.Errorf("%w: %d", domain.ErrInvalidFieldNumber, n)
	}
	for i := range m.fields {
		if m.fields[i].Number == n {
			m.fields[i].Value = value
			return nil
		}
	}
	m.fields = append(m.fields, Field{Number: n, Value: value})
	return nil
}

func (m *Message) Field(n int) (string, bool) {
	for _, f := range m.fields {
		if f.Number == n {
			return f.Value, true
		}
	}
	return "", false
}

func (m *Message) Fields() []Field {
	return append([]Field(nil), m.fields...)
}

// Bitmap is derived from the fields present.
func (m *Message) Bitmap() [BitmapLength]byte {
	var bitmap [BitmapLength]byte
	for _, f := range m.fields {
		bitmap[(f.Number-1)/8] |= 0x80 >> uint((f.Number-1)%8)
	}
	return bitmap
}

func (m *Message) Encode() ([]byte, error) {
	if len(m.MTI) != MTILength {
		return nil, fmt.Errorf("%w: mti %q must be %d bytes", domain.ErrInvalidEncoding, m.MTI, MTILength)
	}
	if !utf8.ValidString(m.MTI) {
		return nil, fmt.Errorf("%w: mti", domain.ErrInvalidEncoding)
	}

	size := HeaderLength
	for _, f := range m.fields {
		if len(f.Value) > MaxValueLen {
			return nil, fmt.Errorf("%w: field %d is %d bytes", domain.ErrInvalidFieldLength, f.Number, len(f.Value))
		}
		if !utf8.ValidString(f.Value) {
			return nil, fmt.Errorf("%w: field %d", domain.ErrInvalidEncoding, f.Number)
		}
		size += fieldHeaderLength + len(f.Value)
	}

	out := make([]byte, 0, size)
	out = append(out, m.MTI...)
	bitmap := m.Bitmap()
	out = append(out, bitmap[:]...)
	for _, f := range m.fields {
		out = append(out, byte(f.Number))
		out = binary.BigEndian.AppendUint16(out, uint16(len(f.Value)))
		out = append(out, f.Value...)
	}
	return out, nil
}

// Decode parses data. The bitmap on the wire is skipped and recomputed from
// the fields.
func Decode(data []byte) (*Message, error) {
	if len(data) < HeaderLength {
		return nil, fmt.Errorf("%w: %d bytes", domain.ErrTruncatedMessage, len(data))
	}
	if !utf8.Valid(data[:MTILength]) {
		return nil, fmt.Errorf("%w: mti", domain.ErrInvalidEncoding)
	}

	m := NewMessage(string(data[:MTILength]))
	seen := make(map[int]struct{})
	pos := HeaderLength
	for pos < len(data) {
		if len(data)-pos < fieldHeaderLength {
			return nil, fmt.Errorf("%w: partial field header at offset %d", domain.ErrTruncatedMessage, pos)
		}

		n := int(data[pos])
		length := int(binary.BigEndian.Uint16(data[pos+1 : pos+fieldHeaderLength]))
		pos += fieldHeaderLength

		if n < 1 || n > MaxField {
			return nil, fmt.Errorf("%w: %d", domain.ErrInvalidFieldNumber, n)
		}
		if _, dup := seen[n]; dup {
			return nil, fmt.Errorf("%w: %d", domain.ErrDuplicateField, n)
		}
		if pos+length > len(data) {
			return nil, fmt.Errorf("%w: field %d wants %d bytes, %d left", domain.ErrInvalidFieldLength, n, length, len(data)-pos)
		}

		value := data[pos : pos+length]
		if !utf8.Valid(value) {
			return nil, fmt.Errorf("%w: field %d", domain.ErrInvalidEncoding, n)
		}

		seen[n] = struct{}{}
		m.fields = append(m.fields, Field{Number: n, Value: string(value)})
		pos += length
	}

	return m, nil
}
