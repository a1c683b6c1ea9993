package wire

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/api-sage/card-payment-engine/src/internal/domain"
)

func TestEncodeDecode_RoundTrip(t *testing.T) {
	m := NewMessage(MTIAuthorizationRequest)
	if err := m.SetField(2, "4111"); err != nil {
		t.Fatalf("set field: %v", err)
	}
	if err := m.SetField(7, "100.00"); err != nil {
		t.Fatalf("set field: %v", err)
	}

	data, err := m.Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	wantBitmap := []byte{0x42, 0, 0, 0, 0, 0, 0, 0}
	if !bytes.Equal(data[4:12], wantBitmap) {
		t.Fatalf("expected bitmap %x, got %x", wantBitmap, data[4:12])
	}

	decoded, err := Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.MTI != "0100" {
		t.Fatalf("expected mti 0100, got %s", decoded.MTI)
	}
	if v, _ := decoded.Field(2); v != "4111" {
		t.Fatalf("expected field 2 4111, got %q", v)
	}
	if v, _ := decoded.Field(7); v != "100.00" {
		t.Fatalf("expected field 7 100.00, got %q", v)
	}
	if decoded.Bitmap() != m.Bitmap() {
		t.Fatalf("expected identical bitmaps")
	}

	again, err := decoded.Encode()
	if err != nil {
		t.Fatalf("re-encode: %v", err)
	}
	if !bytes.Equal(again, data) {
		t.Fatalf("expected byte-identical re-encoding")
	}
}

func TestBitmap_HighFields(t *testing.T) {
	m := NewMessage("0200")
	_ = m.SetField(1, "a")
	_ = m.SetField(64, "b")
	_ = m.SetField(9, "c")

	bitmap := m.Bitmap()
	if bitmap[0] != 0x80 || bitmap[1] != 0x80 || bitmap[7] != 0x01 {
		t.Fatalf("unexpected bitmap %x", bitmap)
	}
}

func TestSetField_ReplacesInPlace(t *testing.T) {
	m := NewMessage("0100")
	_ = m.SetField(3, "first")
	_ = m.SetField(4, "amount")
	_ = m.SetField(3, "second")

	fields := m.Fields()
	if len(fields) != 2 || fields[0].Number != 3 || fields[0].Value != "second" {
		t.Fatalf("unexpected fields %+v", fields)
	}
	if err := m.SetField(0, "x"); !errors.Is(err, domain.ErrInvalidFieldNumber) {
		t.Fatalf("expected ErrInvalidFieldNumber, got %v", err)
	}
	if err := m.SetField(65, "x"); !errors.Is(err, domain.ErrInvalidFieldNumber) {
		t.Fatalf("expected ErrInvalidFieldNumber, got %v", err)
	}
}

func TestEncode_Rejections(t *testing.T) {
	if _, err := NewMessage("100").Encode(); !errors.Is(err, domain.ErrInvalidEncoding) {
		t.Fatalf("expected ErrInvalidEncoding for short mti, got %v", err)
	}

	m := NewMessage("0100")
	_ = m.SetField(2, strings.Repeat("x", MaxValueLen+1))
	if _, err := m.Encode(); !errors.Is(err, domain.ErrInvalidFieldLength) {
		t.Fatalf("expected ErrInvalidFieldLength, got %v", err)
	}

	m = NewMessage("0100")
	_ = m.SetField(2, strings.Repeat("x", MaxValueLen))
	if _, err := m.Encode(); err != nil {
		t.Fatalf("expected max length value to encode, got %v", err)
	}

	m = NewMessage("0100")
	_ = m.SetField(2, "4111")
	_ = m.SetField(43, "\xff\xfe")
	if _, err := m.Encode(); !errors.Is(err, domain.ErrInvalidEncoding) {
		t.Fatalf("expected ErrInvalidEncoding for non UTF-8 value, got %v", err)
	}

	m = NewMessage("01\xff0")
	if _, err := m.Encode(); !errors.Is(err, domain.ErrInvalidEncoding) {
		t.Fatalf("expected ErrInvalidEncoding for non UTF-8 mti, got %v", err)
	}
}

func encoded(t *testing.T) []byte {
	t.Helper()
	m := NewMessage("0100")
	_ = m.SetField(2, "4111")
	_ = m.SetField(7, "100.00")
	data, err := m.Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	return data
}

func TestDecode_Errors(t *testing.T) {
	header := append([]byte("0100"), make([]byte, 8)...)
	withField := func(field ...byte) []byte {
		return append(append([]byte(nil), header...), field...)
	}

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{name: "truncated to 10 bytes", data: encoded(t)[:10], want: domain.ErrTruncatedMessage},
		{name: "empty", data: nil, want: domain.ErrTruncatedMessage},
		{name: "partial field header", data: withField(2, 0), want: domain.ErrTruncatedMessage},
		{name: "length past end", data: withField(2, 0, 5, 'a', 'b'), want: domain.ErrInvalidFieldLength},
		{name: "field zero", data: withField(0, 0, 1, 'a'), want: domain.ErrInvalidFieldNumber},
		{name: "field 65", data: withField(65, 0, 1, 'a'), want: domain.ErrInvalidFieldNumber},
		{name: "duplicate field", data: withField(2, 0, 1, 'a', 2, 0, 1, 'b'), want: domain.ErrDuplicateField},
		{name: "invalid utf8 value", data: withField(2, 0, 1, 0xff), want: domain.ErrInvalidEncoding},
		{name: "invalid utf8 mti", data: append([]byte{0xff, 0xfe, 0xfd, 0xfc}, make([]byte, 8)...), want: domain.ErrInvalidEncoding},
		{name: "truncated value", data: encoded(t)[:len(encoded(t))-1], want: domain.ErrInvalidFieldLength},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Decode(tc.data); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestDecode_IgnoresWireBitmap(t *testing.T) {
	data := encoded(t)
	for i := 4; i < 12; i++ {
		data[i] = 0xff
	}

	m, err := Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if bitmap := m.Bitmap(); bitmap[0] != 0x42 {
		t.Fatalf("expected recomputed bitmap, got %x", bitmap)
	}
}

func TestDecode_HeaderOnly(t *testing.T) {
	m, err := Decode(append([]byte("0800"), make([]byte, 8)...))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if m.MTI != "0800" || len(m.Fields()) != 0 {
		t.Fatalf("unexpected message %+v", m)
	}
}
