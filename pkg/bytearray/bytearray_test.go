package bytearray

import (
	"bytes"
	"errors"
	"io"
	"math"
	"strings"
	"testing"
)

func TestNewDefault(t *testing.T) {
	b := NewDefault()
	if b.Len() != 0 || b.BytesAvailable() != 0 {
		t.Errorf("expected empty buffer, got len %d available %d", b.Len(), b.BytesAvailable())
	}
	if b.Endian() != BigEndian {
		t.Errorf("expected big endian, got %v", b.Endian())
	}
	if b.ObjectEncoding() != AMF3 {
		t.Errorf("expected AMF3 encoding, got %d", b.ObjectEncoding())
	}
	if b.CompressionLevel() != DefaultCompressionLevel {
		t.Errorf("expected compression level %d, got %d", DefaultCompressionLevel, b.CompressionLevel())
	}
}

func TestPrimitivesBigEndian(t *testing.T) {
	b := NewDefault()
	b.WriteInt8(-2)
	b.WriteUint8(0xFE)
	b.WriteInt16(-2)
	b.WriteUint16(0x1234)
	b.WriteInt32(-2)
	b.WriteUint32(0xDEADBEEF)
	b.WriteFloat32(1.5)
	b.WriteFloat64(math.Pi)
	b.WriteBoolean(true)
	b.WriteBoolean(false)

	expected := []byte{
		0xFE,
		0xFE,
		0xFF, 0xFE,
		0x12, 0x34,
		0xFF, 0xFF, 0xFF, 0xFE,
		0xDE, 0xAD, 0xBE, 0xEF,
		0x3F, 0xC0, 0x00, 0x00,
		0x40, 0x09, 0x21, 0xFB, 0x54, 0x44, 0x2D, 0x18,
		0x01,
		0x00,
	}
	if !bytes.Equal(b.Bytes(), expected) {
		t.Fatalf("expected % x, got % x", expected, b.Bytes())
	}

	if v, err := b.ReadInt8(); err != nil || v != -2 {
		t.Errorf("ReadInt8: got %d, %v", v, err)
	}
	if v, err := b.ReadUint8(); err != nil || v != 0xFE {
		t.Errorf("ReadUint8: got %d, %v", v, err)
	}
	if v, err := b.ReadInt16(); err != nil || v != -2 {
		t.Errorf("ReadInt16: got %d, %v", v, err)
	}
	if v, err := b.ReadUint16(); err != nil || v != 0x1234 {
		t.Errorf("ReadUint16: got %#x, %v", v, err)
	}
	if v, err := b.ReadInt32(); err != nil || v != -2 {
		t.Errorf("ReadInt32: got %d, %v", v, err)
	}
	if v, err := b.ReadUint32(); err != nil || v != 0xDEADBEEF {
		t.Errorf("ReadUint32: got %#x, %v", v, err)
	}
	if v, err := b.ReadFloat32(); err != nil || v != 1.5 {
		t.Errorf("ReadFloat32: got %v, %v", v, err)
	}
	if v, err := b.ReadFloat64(); err != nil || v != math.Pi {
		t.Errorf("ReadFloat64: got %v, %v", v, err)
	}
	if v, err := b.ReadBoolean(); err != nil || !v {
		t.Errorf("ReadBoolean: got %v, %v", v, err)
	}
	if v, err := b.ReadBoolean(); err != nil || v {
		t.Errorf("ReadBoolean: got %v, %v", v, err)
	}
	if b.BytesAvailable() != 0 {
		t.Errorf("expected 0 bytes available, got %d", b.BytesAvailable())
	}
}

func TestPrimitivesLittleEndian(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Endian = LittleEndian
	b := New(cfg)

	b.WriteUint16(0x1234)
	b.WriteUint32(0xDEADBEEF)
	b.WriteFloat64(1.0)

	expected := []byte{
		0x34, 0x12,
		0xEF, 0xBE, 0xAD, 0xDE,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0xF0, 0x3F,
	}
	if !bytes.Equal(b.Bytes(), expected) {
		t.Fatalf("expected % x, got % x", expected, b.Bytes())
	}

	v16, _ := b.ReadUint16()
	v32, _ := b.ReadUint32()
	f64, _ := b.ReadFloat64()
	if v16 != 0x1234 || v32 != 0xDEADBEEF || f64 != 1.0 {
		t.Errorf("little endian round trip mismatch: %#x %#x %v", v16, v32, f64)
	}
}

func TestEndianSwitchMidStream(t *testing.T) {
	b := NewDefault()
	b.WriteUint16(0x0102)
	b.SetEndian(LittleEndian)
	b.WriteUint16(0x0102)

	if !bytes.Equal(b.Bytes(), []byte{0x01, 0x02, 0x02, 0x01}) {
		t.Errorf("unexpected bytes % x", b.Bytes())
	}
}

func TestReadPastWriteCursor(t *testing.T) {
	b := NewDefault()
	b.WriteUint16(7)

	if _, err := b.ReadUint32(); !errors.Is(err, ErrRange) {
		t.Fatalf("expected ErrRange, got %v", err)
	}
	// 실패한 읽기는 커서를 움직이지 않음
	if b.ReadPosition() != 0 {
		t.Errorf("expected read cursor 0, got %d", b.ReadPosition())
	}

	if _, err := b.ReadUint16(); err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name string
		read func() error
	}{
		{"uint8", func() error { _, err := b.ReadUint8(); return err }},
		{"int16", func() error { _, err := b.ReadInt16(); return err }},
		{"float32", func() error { _, err := b.ReadFloat32(); return err }},
		{"float64", func() error { _, err := b.ReadFloat64(); return err }},
		{"boolean", func() error { _, err := b.ReadBoolean(); return err }},
	}
	for _, tt := range tests {
		if err := tt.read(); !errors.Is(err, ErrRange) {
			t.Errorf("%s: expected ErrRange, got %v", tt.name, err)
		}
	}
}

func TestGrowthPolicy(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ChunkSize = 100
	b := New(cfg)

	if b.Cap() != 0 {
		t.Fatalf("expected no storage before first write, got %d", b.Cap())
	}

	b.WriteUint32(1)
	// 0 + 100 + 4 bytes requested, rounded up to the pool tier
	if b.Cap() < 104 {
		t.Errorf("expected capacity >= 104, got %d", b.Cap())
	}

	before := b.Cap()
	payload := bytes.Repeat([]byte{0xAB}, before)
	b.Write(payload)
	if b.Cap() < before+100+len(payload) {
		t.Errorf("expected capacity >= %d, got %d", before+100+len(payload), b.Cap())
	}
	if b.Len() != 4+len(payload) {
		t.Errorf("expected len %d, got %d", 4+len(payload), b.Len())
	}

	v, err := b.ReadUint32()
	if err != nil || v != 1 {
		t.Errorf("content lost during growth: %d, %v", v, err)
	}
	if !bytes.Equal(b.Unread(), payload) {
		t.Error("payload lost during growth")
	}
}

func TestInvariantReadWriteCapacity(t *testing.T) {
	b := NewDefault()
	for i := 0; i < 5000; i++ {
		b.WriteUint8(byte(i))
		if b.ReadPosition() > b.WritePosition() || b.WritePosition() > b.Cap() {
			t.Fatalf("invariant broken at %d: read %d write %d cap %d",
				i, b.ReadPosition(), b.WritePosition(), b.Cap())
		}
	}
}

func TestNewFromBytes(t *testing.T) {
	b := NewFromBytes([]byte{0x00, 0x2A})
	if b.BytesAvailable() != 2 {
		t.Fatalf("expected 2 bytes available, got %d", b.BytesAvailable())
	}
	v, err := b.ReadUint16()
	if err != nil || v != 42 {
		t.Errorf("expected 42, got %d, %v", v, err)
	}

	// 원본 용량을 넘으면 풀에서 새 버퍼를 할당
	b.WriteUint32(7)
	if b.Len() != 6 {
		t.Errorf("expected len 6, got %d", b.Len())
	}
}

func TestSetReadPosition(t *testing.T) {
	b := NewFromBytes([]byte{1, 2, 3})
	if err := b.SetReadPosition(2); err != nil {
		t.Fatal(err)
	}
	v, _ := b.ReadUint8()
	if v != 3 {
		t.Errorf("expected 3, got %d", v)
	}
	if err := b.SetReadPosition(4); !errors.Is(err, ErrRange) {
		t.Errorf("expected ErrRange, got %v", err)
	}
	if err := b.SetReadPosition(-1); !errors.Is(err, ErrRange) {
		t.Errorf("expected ErrRange, got %v", err)
	}
}

func TestSetLengthAndClear(t *testing.T) {
	b := NewDefault()
	b.WriteUTFBytes("abcdef")
	b.ReadUTFBytes(5)

	if err := b.SetLength(3); err != nil {
		t.Fatal(err)
	}
	if string(b.Bytes()) != "abc" {
		t.Errorf("expected abc, got %q", b.Bytes())
	}
	if b.ReadPosition() != 3 {
		t.Errorf("expected read cursor clamped to 3, got %d", b.ReadPosition())
	}

	if err := b.SetLength(6); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(b.Bytes(), []byte{'a', 'b', 'c', 0, 0, 0}) {
		t.Errorf("expected zero extension, got % x", b.Bytes())
	}
	if err := b.SetLength(-1); !errors.Is(err, ErrRange) {
		t.Errorf("expected ErrRange, got %v", err)
	}

	b.Clear()
	if b.Len() != 0 || b.ReadPosition() != 0 {
		t.Errorf("expected cleared buffer, got len %d read %d", b.Len(), b.ReadPosition())
	}
}

func TestRelease(t *testing.T) {
	b := NewDefault()
	b.WriteUint32(1)
	b.Release()
	if b.Len() != 0 || b.Cap() != 0 {
		t.Errorf("expected released buffer, got len %d cap %d", b.Len(), b.Cap())
	}

	// Release 이후에도 재사용 가능
	b.WriteUint8(9)
	if v, _ := b.ReadUint8(); v != 9 {
		t.Errorf("expected 9, got %d", v)
	}
}

func TestReadBytes(t *testing.T) {
	src := NewFromBytes([]byte("hello world"))
	dst := NewDefault()
	dst.WriteUTFBytes("XX")

	if err := src.ReadBytes(dst, 2, 5); err != nil {
		t.Fatal(err)
	}
	if string(dst.Bytes()) != "XXhello" {
		t.Errorf("expected XXhello, got %q", dst.Bytes())
	}
	if src.BytesAvailable() != 6 {
		t.Errorf("expected 6 bytes left, got %d", src.BytesAvailable())
	}

	// length 0 = 남은 전부
	if err := src.ReadBytes(dst, 0, 0); err != nil {
		t.Fatal(err)
	}
	if string(dst.Bytes()) != " worldo" {
		t.Errorf("expected overwrite at offset 0, got %q", dst.Bytes())
	}
}

func TestReadBytesErrors(t *testing.T) {
	src := NewFromBytes([]byte("abc"))
	dst := NewDefault()

	tests := []struct {
		name   string
		dst    *ByteArray
		offset int
		length int
	}{
		{"negative offset", dst, -1, 1},
		{"negative length", dst, 0, -1},
		{"too long", dst, 0, 4},
		{"nil destination", nil, 0, 1},
	}
	for _, tt := range tests {
		if err := src.ReadBytes(tt.dst, tt.offset, tt.length); !errors.Is(err, ErrRange) {
			t.Errorf("%s: expected ErrRange, got %v", tt.name, err)
		}
	}
	if src.BytesAvailable() != 3 {
		t.Errorf("failed reads must not consume, %d available", src.BytesAvailable())
	}
}

func TestWriteBytes(t *testing.T) {
	src := NewFromBytes([]byte("0123456789"))
	dst := NewDefault()

	if err := dst.WriteBytes(src, 2, 3); err != nil {
		t.Fatal(err)
	}
	if err := dst.WriteBytes(src, 8, 0); err != nil {
		t.Fatal(err)
	}
	if string(dst.Bytes()) != "23489" {
		t.Errorf("expected 23489, got %q", dst.Bytes())
	}
	if src.ReadPosition() != 0 {
		t.Errorf("source cursor moved to %d", src.ReadPosition())
	}

	// self copy
	if err := dst.WriteBytes(dst, 0, 2); err != nil {
		t.Fatal(err)
	}
	if string(dst.Bytes()) != "2348923" {
		t.Errorf("expected 2348923, got %q", dst.Bytes())
	}

	bad := []struct {
		offset, length int
	}{
		{-1, 0}, {0, -1}, {11, 0}, {5, 6},
	}
	for _, tt := range bad {
		if err := dst.WriteBytes(src, tt.offset, tt.length); !errors.Is(err, ErrRange) {
			t.Errorf("WriteBytes(%d, %d): expected ErrRange, got %v", tt.offset, tt.length, err)
		}
	}
}

func TestIOInterfaces(t *testing.T) {
	var _ io.Reader = (*ByteArray)(nil)
	var _ io.Writer = (*ByteArray)(nil)
	var _ io.ByteReader = (*ByteArray)(nil)
	var _ io.ByteWriter = (*ByteArray)(nil)
	var _ io.ReaderFrom = (*ByteArray)(nil)
	var _ io.WriterTo = (*ByteArray)(nil)

	b := NewDefault()
	n, err := b.ReadFrom(strings.NewReader(strings.Repeat("z", 5000)))
	if err != nil || n != 5000 {
		t.Fatalf("ReadFrom: %d, %v", n, err)
	}

	c, err := b.ReadByte()
	if err != nil || c != 'z' {
		t.Errorf("ReadByte: %q, %v", c, err)
	}

	var out bytes.Buffer
	m, err := b.WriteTo(&out)
	if err != nil || m != 4999 {
		t.Errorf("WriteTo: %d, %v", m, err)
	}
	if _, err := b.ReadByte(); err != io.EOF {
		t.Errorf("expected io.EOF, got %v", err)
	}
	if _, err := b.Read(make([]byte, 1)); err != io.EOF {
		t.Errorf("expected io.EOF, got %v", err)
	}
}
