package bytearray

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestUTFRoundTrip(t *testing.T) {
	tests := []string{"", "a", "hello", "한글 테스트", "emoji 🎥", strings.Repeat("x", MaxUTFLength)}

	for _, s := range tests {
		b := NewDefault()
		if err := b.WriteUTF(s); err != nil {
			t.Fatalf("WriteUTF(%d bytes): %v", len(s), err)
		}
		if b.Len() != 2+len(s) {
			t.Errorf("expected %d bytes written, got %d", 2+len(s), b.Len())
		}
		got, err := b.ReadUTF()
		if err != nil {
			t.Fatal(err)
		}
		if got != s {
			t.Errorf("expected %q, got %q", s, got)
		}
	}
}

func TestUTFPrefixIsBigEndian(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Endian = LittleEndian
	b := New(cfg)
	if err := b.WriteUTF("ab"); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(b.Bytes(), []byte{0x00, 0x02, 'a', 'b'}) {
		t.Errorf("expected big endian prefix, got % x", b.Bytes())
	}
}

func TestWriteUTFTooLong(t *testing.T) {
	b := NewDefault()
	err := b.WriteUTF(strings.Repeat("x", MaxUTFLength+1))
	if !errors.Is(err, ErrRange) {
		t.Fatalf("expected ErrRange, got %v", err)
	}
	if b.Len() != 0 {
		t.Errorf("failed write must not emit bytes, got %d", b.Len())
	}

	// 바이트 길이 기준: 3바이트 문자 21846개 = 65538 바이트
	err = b.WriteUTF(strings.Repeat("가", 21846))
	if !errors.Is(err, ErrRange) {
		t.Fatalf("expected ErrRange for multi-byte overflow, got %v", err)
	}
}

func TestReadUTFTruncated(t *testing.T) {
	b := NewFromBytes([]byte{0x00, 0x05, 'a', 'b'})
	_, err := b.ReadUTF()
	if !errors.Is(err, ErrRange) {
		t.Fatalf("expected ErrRange, got %v", err)
	}

	b = NewFromBytes([]byte{0x00})
	if _, err := b.ReadUTF(); !errors.Is(err, ErrRange) {
		t.Fatalf("expected ErrRange for missing prefix, got %v", err)
	}
}

func TestUTFBytes(t *testing.T) {
	b := NewDefault()
	b.WriteUTFBytes("abc")
	b.WriteUTFBytes("déf")
	if b.Len() != 7 {
		t.Fatalf("expected 7 bytes, got %d", b.Len())
	}
	s, err := b.ReadUTFBytes(3)
	if err != nil || s != "abc" {
		t.Errorf("expected abc, got %q, %v", s, err)
	}
	s, err = b.ReadUTFBytes(4)
	if err != nil || s != "déf" {
		t.Errorf("expected déf, got %q, %v", s, err)
	}
	if _, err := b.ReadUTFBytes(1); !errors.Is(err, ErrRange) {
		t.Errorf("expected ErrRange, got %v", err)
	}
}

func TestMultiByte(t *testing.T) {
	tests := []struct {
		charset  string
		text     string
		expected []byte
	}{
		{"utf-8", "é", []byte{0xC3, 0xA9}},
		{"UTF8", "é", []byte{0xC3, 0xA9}},
		{"iso-8859-1", "é", []byte{0xE9}},
		{"windows-1252", "€", []byte{0x80}},
		{"Shift_JIS", "あ", []byte{0x82, 0xA0}},
	}

	for _, tt := range tests {
		b := NewDefault()
		if err := b.WriteMultiByte(tt.text, tt.charset); err != nil {
			t.Fatalf("%s: %v", tt.charset, err)
		}
		if !bytes.Equal(b.Bytes(), tt.expected) {
			t.Errorf("%s: expected % x, got % x", tt.charset, tt.expected, b.Bytes())
		}
		got, err := b.ReadMultiByte(len(tt.expected), tt.charset)
		if err != nil {
			t.Fatalf("%s: %v", tt.charset, err)
		}
		if got != tt.text {
			t.Errorf("%s: expected %q, got %q", tt.charset, tt.text, got)
		}
	}
}

func TestMultiByteUnknownCharset(t *testing.T) {
	b := NewDefault()
	if err := b.WriteMultiByte("x", "no-such-charset"); !errors.Is(err, ErrCharset) {
		t.Errorf("expected ErrCharset, got %v", err)
	}
	b.WriteUTFBytes("x")
	if _, err := b.ReadMultiByte(1, "no-such-charset"); !errors.Is(err, ErrCharset) {
		t.Errorf("expected ErrCharset, got %v", err)
	}
	// 실패 시 읽기 커서는 그대로
	if b.BytesAvailable() != 1 {
		t.Errorf("expected 1 byte available, got %d", b.BytesAvailable())
	}
}
