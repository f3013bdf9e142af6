package amf

import (
	"bytes"
	"errors"
	"testing"

	"github.com/ssungk/eamf/pkg/bytearray"
)

func TestWriteObject_Dispatch(t *testing.T) {
	testCases := []struct {
		encoding bytearray.ObjectEncoding
		expected []byte
	}{
		{bytearray.AMF0, []byte{numberMarker, 0x3F, 0xF0, 0, 0, 0, 0, 0, 0}},
		{bytearray.AMF3, []byte{amf3IntegerMarker, 0x01}},
	}

	for _, tc := range testCases {
		ba := bytearray.NewDefault()
		ba.SetObjectEncoding(tc.encoding)
		if err := WriteObject(ba, Number(1)); err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(ba.Bytes(), tc.expected) {
			t.Errorf("encoding %d: expected %x, got %x", tc.encoding, tc.expected, ba.Bytes())
		}

		v, err := ReadObject(ba)
		if err != nil {
			t.Fatal(err)
		}
		if v != Number(1) {
			t.Errorf("encoding %d: expected 1, got %v", tc.encoding, v)
		}
	}
}

func TestWriteObject_UnknownEncoding(t *testing.T) {
	ba := bytearray.NewDefault()
	ba.SetObjectEncoding(1)
	if err := WriteObject(ba, Null{}); !errors.Is(err, ErrFormat) {
		t.Errorf("expected ErrFormat, got %v", err)
	}
	if _, err := ReadObject(ba); !errors.Is(err, ErrFormat) {
		t.Errorf("expected ErrFormat, got %v", err)
	}
}

func TestWriteObject_FreshReferencesPerCall(t *testing.T) {
	ba := bytearray.NewDefault()
	WriteObject(ba, String("x"))
	WriteObject(ba, String("x"))

	expected := []byte{amf3StringMarker, 0x03, 'x', amf3StringMarker, 0x03, 'x'}
	if !bytes.Equal(ba.Bytes(), expected) {
		t.Errorf("expected %x, got %x", expected, ba.Bytes())
	}
}

func TestEncodeAMF0Sequence(t *testing.T) {
	data, err := EncodeAMF0Sequence("connect", 1, map[string]any{"app": "live"})
	if err != nil {
		t.Fatal(err)
	}

	values, err := DecodeAMF0Sequence(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if len(values) != 3 {
		t.Fatalf("expected 3 values, got %d", len(values))
	}
	if values[0] != String("connect") || values[1] != Number(1) {
		t.Errorf("unexpected values %v", values)
	}
	if app, _ := values[2].(*Object).Get("app"); app != String("live") {
		t.Errorf("expected app=live, got %v", app)
	}
}

func TestEncodeAMF0Sequence_Error(t *testing.T) {
	_, err := EncodeAMF0Sequence(struct{}{})
	if !errors.Is(err, ErrType) {
		t.Errorf("expected ErrType, got %v", err)
	}
}

func TestEncodeAMF3Sequence_SharedMap(t *testing.T) {
	shared := map[string]any{"k": 1}
	data, err := EncodeAMF3Sequence([]any{shared, shared}, shared)
	if err != nil {
		t.Fatal(err)
	}

	// 바깥 배열이 0번, 공유 맵이 1번
	expected := []byte{amf3ObjectMarker, 0x02, amf3ObjectMarker, 0x02}
	if !bytes.HasSuffix(data, expected) {
		t.Errorf("expected trailing references %x, got %x", expected, data)
	}

	values, err := DecodeAMF3Sequence(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	arr := values[0].(*Array)
	if arr.Dense[0] != arr.Dense[1] || values[1] != arr.Dense[0] {
		t.Error("expected every occurrence to decode to the same object")
	}
}

func TestEncodeAMF0Sequence_CyclicMap(t *testing.T) {
	m := map[string]any{}
	m["self"] = m
	data, err := EncodeAMF0Sequence(m)
	if err != nil {
		t.Fatal(err)
	}

	values, err := DecodeAMF0Sequence(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	obj := values[0].(*Object)
	if self, _ := obj.Get("self"); self != obj {
		t.Errorf("expected a self reference, got %#v", self)
	}
}
