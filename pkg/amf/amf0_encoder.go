package amf

import (
	"fmt"
	"strconv"

	"github.com/ssungk/eamf/pkg/bytearray"
)

// AMF0Context holds the state for a single AMF0 encoding or decoding session:
// the object reference table and, for avmplus switches, an AMF3 context.
type AMF0Context struct {
	cfg Config

	objectIndex map[Value]int // encode: identity -> index
	objectCount int           // encode: next index
	objectTable []Value       // decode: index -> value

	amf3 *AMF3Context
}

// NewAMF0Context creates and initializes a new AMF0Context.
func NewAMF0Context(cfg Config) *AMF0Context {
	return &AMF0Context{
		cfg:         cfg,
		objectIndex: make(map[Value]int),
	}
}

// Reset clears the reference tables so the context can start a new session.
func (ctx *AMF0Context) Reset() {
	clear(ctx.objectIndex)
	ctx.objectCount = 0
	ctx.objectTable = ctx.objectTable[:0]
	ctx.amf3 = nil
}

func (ctx *AMF0Context) amf3Context() *AMF3Context {
	if ctx.amf3 == nil {
		ctx.amf3 = NewAMF3Context(ctx.cfg)
	}
	return ctx.amf3
}

// Encode writes v to ba, sharing references with earlier calls on ctx.
func (ctx *AMF0Context) Encode(ba *bytearray.ByteArray, v Value) error {
	defer bigEndian(ba)()
	return ctx.encodeValue(ba, v)
}

// EncodeAVMPlus writes the avmplus marker followed by v in AMF3.
func (ctx *AMF0Context) EncodeAVMPlus(ba *bytearray.ByteArray, v Value) error {
	defer bigEndian(ba)()
	ba.WriteUint8(avmPlusMarker)
	return ctx.amf3Context().encodeValue(ba, v)
}

// encodeValue encodes a single value of any supported type.
func (ctx *AMF0Context) encodeValue(ba *bytearray.ByteArray, value Value) error {
	if isNil(value) {
		ba.WriteUint8(nullMarker)
		return nil
	}
	switch v := value.(type) {
	case Null:
		ba.WriteUint8(nullMarker)
	case Undefined:
		ba.WriteUint8(undefinedMarker)
	case Boolean:
		ba.WriteUint8(booleanMarker)
		ba.WriteBoolean(bool(v))
	case Number:
		ba.WriteUint8(numberMarker)
		ba.WriteFloat64(float64(v))
	case String:
		return ctx.encodeString(ba, string(v))
	case *Date:
		ctx.encodeDate(ba, v)
	case *Array:
		return ctx.encodeArray(ba, v)
	case *Object:
		return ctx.encodeObject(ba, v)
	case Typed:
		return ctx.encodeTyped(ba, v)
	default:
		return fmt.Errorf("%w: %T has no AMF0 mapping", ErrType, value)
	}
	return nil
}

func (ctx *AMF0Context) encodeString(ba *bytearray.ByteArray, s string) error {
	if len(s) <= bytearray.MaxUTFLength {
		ba.WriteUint8(stringMarker)
		return ba.WriteUTF(s)
	}
	ba.WriteUint8(longStringMarker)
	ba.WriteUint32(uint32(len(s)))
	ba.WriteUTFBytes(s)
	return nil
}

// encodeDate writes epoch milliseconds and a zero timezone offset.
func (ctx *AMF0Context) encodeDate(ba *bytearray.ByteArray, d *Date) {
	ba.WriteUint8(dateMarker)
	ba.WriteFloat64(d.Millis())
	ba.WriteInt16(0)
}

// writeReference emits a reference marker if v was already serialised and
// its index fits 16 bits. Otherwise v takes the next index and the caller
// writes the body.
func (ctx *AMF0Context) writeReference(ba *bytearray.ByteArray, v Value) bool {
	idx, seen := ctx.objectIndex[v]
	if seen && idx <= maxAMF0Reference {
		ba.WriteUint8(referenceMarker)
		ba.WriteUint16(uint16(idx))
		return true
	}
	if !seen {
		ctx.objectIndex[v] = ctx.objectCount
	}
	ctx.objectCount++
	return false
}

func (ctx *AMF0Context) encodeArray(ba *bytearray.ByteArray, arr *Array) error {
	if ctx.writeReference(ba, arr) {
		return nil
	}

	if arr.IsStrict() {
		ba.WriteUint8(strictArrayMarker)
		ba.WriteUint32(uint32(len(arr.Dense)))
		for _, item := range arr.Dense {
			if err := ctx.encodeValue(ba, item); err != nil {
				return err
			}
		}
		return nil
	}

	ba.WriteUint8(ecmaArrayMarker)
	ba.WriteUint32(uint32(len(arr.Dense)))
	for i, item := range arr.Dense {
		if err := ctx.encodeProperty(ba, strconv.Itoa(i), item); err != nil {
			return err
		}
	}
	if err := ctx.encodeProperties(ba, arr.Assoc); err != nil {
		return err
	}
	return ctx.encodeObjectEnd(ba)
}

func (ctx *AMF0Context) encodeObject(ba *bytearray.ByteArray, obj *Object) error {
	if ctx.writeReference(ba, obj) {
		return nil
	}
	if err := ctx.encodeObjectHeader(ba, obj.ClassName()); err != nil {
		return err
	}
	if err := ctx.encodeProperties(ba, obj.Properties); err != nil {
		return err
	}
	return ctx.encodeObjectEnd(ba)
}

func (ctx *AMF0Context) encodeTyped(ba *bytearray.ByteArray, obj Typed) error {
	if ctx.writeReference(ba, obj) {
		return nil
	}
	if err := ctx.encodeObjectHeader(ba, obj.ClassName()); err != nil {
		return err
	}
	if err := ctx.encodeProperties(ba, obj.Properties()); err != nil {
		return err
	}
	return ctx.encodeObjectEnd(ba)
}

// encodeObjectHeader writes the typed-object marker and alias when the class
// is registered, the plain object marker otherwise.
func (ctx *AMF0Context) encodeObjectHeader(ba *bytearray.ByteArray, className string) error {
	if className != "" && ctx.cfg.registry().Has(className) {
		ba.WriteUint8(typedObjectMarker)
		return ba.WriteUTF(className)
	}
	ba.WriteUint8(objectMarker)
	return nil
}

func (ctx *AMF0Context) encodeProperties(ba *bytearray.ByteArray, props []Property) error {
	for _, p := range props {
		if err := ctx.encodeProperty(ba, p.Name, p.Value); err != nil {
			return err
		}
	}
	return nil
}

func (ctx *AMF0Context) encodeProperty(ba *bytearray.ByteArray, key string, val Value) error {
	if key == "" {
		return fmt.Errorf("%w: empty property name", ErrType)
	}
	if err := ba.WriteUTF(key); err != nil {
		return fmt.Errorf("object key: %w", err)
	}
	return ctx.encodeValue(ba, val)
}

// object end marker: 0x00 0x00 0x09
func (ctx *AMF0Context) encodeObjectEnd(ba *bytearray.ByteArray) error {
	ba.WriteUint16(0)
	ba.WriteUint8(objectEndMarker)
	return nil
}
