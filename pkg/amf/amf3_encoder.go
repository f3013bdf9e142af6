package amf

import (
	"fmt"
	"math"

	"github.com/ssungk/eamf/pkg/bytearray"
)

// anonymousTraits is used for *Object values without traits.
var anonymousTraits = &Traits{Dynamic: true}

// writeU29 encodes a value below 2^30 as a variable-length U29 integer.
// The first three bytes carry 7 bits each; a fourth byte carries 8.
func writeU29(ba *bytearray.ByteArray, value uint32) error {
	switch {
	case value < 0x80:
		ba.WriteUint8(byte(value))
	case value < 0x4000:
		ba.WriteUint8(byte(value>>7) | 0x80)
		ba.WriteUint8(byte(value & 0x7F))
	case value < 0x200000:
		ba.WriteUint8(byte(value>>14) | 0x80)
		ba.WriteUint8(byte(value>>7) | 0x80)
		ba.WriteUint8(byte(value & 0x7F))
	case value < 0x40000000:
		ba.WriteUint8(byte(value>>22) | 0x80)
		ba.WriteUint8(byte(value>>15) | 0x80)
		ba.WriteUint8(byte(value>>8) | 0x80)
		ba.WriteUint8(byte(value))
	default:
		return fmt.Errorf("%w: U29 out of range: %d", ErrRange, value)
	}
	return nil
}

// encodeValue encodes a single value of any supported type.
func (ctx *AMF3Context) encodeValue(ba *bytearray.ByteArray, value Value) error {
	if isNil(value) {
		ba.WriteUint8(amf3NullMarker)
		return nil
	}
	switch v := value.(type) {
	case Null:
		ba.WriteUint8(amf3NullMarker)
	case Undefined:
		ba.WriteUint8(amf3UndefinedMarker)
	case Boolean:
		if v {
			ba.WriteUint8(amf3TrueMarker)
		} else {
			ba.WriteUint8(amf3FalseMarker)
		}
	case Number:
		return ctx.encodeNumber(ba, float64(v))
	case String:
		ba.WriteUint8(amf3StringMarker)
		return ctx.encodeStringValue(ba, string(v))
	case *Date:
		return ctx.encodeDate(ba, v)
	case *Array:
		return ctx.encodeArray(ba, v)
	case *Object:
		return ctx.encodeObject(ba, v)
	case Typed:
		return ctx.encodeTyped(ba, v)
	default:
		return fmt.Errorf("%w: %T has no AMF3 mapping", ErrType, value)
	}
	return nil
}

// encodeNumber uses the integer marker for exact integers in the 29-bit
// signed range and a double otherwise.
func (ctx *AMF3Context) encodeNumber(ba *bytearray.ByteArray, f float64) error {
	if f == math.Trunc(f) && f >= amf3IntMin && f <= amf3IntMax {
		ba.WriteUint8(amf3IntegerMarker)
		return writeU29(ba, uint32(int32(f))&0x1FFFFFFF)
	}
	ba.WriteUint8(amf3DoubleMarker)
	ba.WriteFloat64(f)
	return nil
}

// encodeStringValue encodes the string payload, using the string reference
// table. The empty string is always inline and never cached.
func (ctx *AMF3Context) encodeStringValue(ba *bytearray.ByteArray, value string) error {
	if value == "" {
		return writeU29(ba, 1) // Length 0, inline
	}

	idx, seen := ctx.stringIndex[value]
	if seen && idx <= maxReference {
		return writeU29(ba, uint32(idx)<<1) // Reference
	}

	if len(value) > u29Max>>1 {
		return fmt.Errorf("%w: string of %d bytes", ErrRange, len(value))
	}
	if !seen {
		ctx.stringIndex[value] = ctx.stringCount
	}
	ctx.stringCount++

	if err := writeU29(ba, uint32(len(value))<<1|1); err != nil {
		return err
	}
	ba.WriteUTFBytes(value)
	return nil
}

// writeObjectReference writes a back-reference for values already in the
// object table. Otherwise it assigns the next index and reports false so the
// caller serialises the body.
func (ctx *AMF3Context) writeObjectReference(ba *bytearray.ByteArray, v Value) (bool, error) {
	idx, seen := ctx.objectIndex[v]
	if seen && idx <= maxReference {
		return true, writeU29(ba, uint32(idx)<<1)
	}
	if !seen {
		ctx.objectIndex[v] = ctx.objectCount
	}
	ctx.objectCount++
	return false, nil
}

// encodeDate encodes a Date through the object reference table.
func (ctx *AMF3Context) encodeDate(ba *bytearray.ByteArray, d *Date) error {
	ba.WriteUint8(amf3DateMarker)
	if ref, err := ctx.writeObjectReference(ba, d); ref || err != nil {
		return err
	}
	if err := writeU29(ba, 1); err != nil { // Inline, not a reference
		return err
	}
	ba.WriteFloat64(d.Millis())
	return nil
}

// encodeArray writes the dense count, the associative pairs terminated by an
// empty key, then the dense elements.
func (ctx *AMF3Context) encodeArray(ba *bytearray.ByteArray, arr *Array) error {
	ba.WriteUint8(amf3ArrayMarker)
	if ref, err := ctx.writeObjectReference(ba, arr); ref || err != nil {
		return err
	}

	if len(arr.Dense) > u29Max>>1 {
		return fmt.Errorf("%w: array of %d elements", ErrRange, len(arr.Dense))
	}
	if err := writeU29(ba, uint32(len(arr.Dense))<<1|1); err != nil {
		return err
	}

	for _, p := range arr.Assoc {
		if p.Name == "" {
			return fmt.Errorf("%w: empty associative array key", ErrType)
		}
		if err := ctx.encodeStringValue(ba, p.Name); err != nil {
			return err
		}
		if err := ctx.encodeValue(ba, p.Value); err != nil {
			return err
		}
	}
	if err := ctx.encodeStringValue(ba, ""); err != nil {
		return err
	}

	for _, item := range arr.Dense {
		if err := ctx.encodeValue(ba, item); err != nil {
			return err
		}
	}
	return nil
}

// encodeTraits writes a trait reference if an identical trait was already
// sent, the inline trait definition otherwise.
func (ctx *AMF3Context) encodeTraits(ba *bytearray.ByteArray, t *Traits) error {
	key := traitKey(t)
	idx, seen := ctx.traitIndex[key]
	if seen && idx <= u29Max>>2 {
		return writeU29(ba, uint32(idx)<<2|0x01)
	}
	if !seen {
		ctx.traitIndex[key] = ctx.traitCount
	}
	ctx.traitCount++

	if len(t.Sealed) > u29Max>>4 {
		return fmt.Errorf("%w: %d sealed members", ErrRange, len(t.Sealed))
	}
	header := uint32(len(t.Sealed))<<4 | 0x03
	if t.Dynamic {
		header |= 0x08
	}
	if t.Externalizable {
		header |= 0x04
	}
	if err := writeU29(ba, header); err != nil {
		return err
	}
	if err := ctx.encodeStringValue(ba, t.ClassName); err != nil {
		return err
	}
	for _, name := range t.Sealed {
		if err := ctx.encodeStringValue(ba, name); err != nil {
			return err
		}
	}
	return nil
}

// encodeObject encodes a generic object: sealed members in trait order, then
// the remaining properties as dynamic members when the trait allows them.
func (ctx *AMF3Context) encodeObject(ba *bytearray.ByteArray, obj *Object) error {
	traits := obj.Traits
	if traits == nil {
		traits = anonymousTraits
	}
	if traits.Externalizable && traits.ClassName != ArrayCollectionClass {
		return fmt.Errorf("%w: unsupported externalizable class %q", ErrFormat, traits.ClassName)
	}

	ba.WriteUint8(amf3ObjectMarker)
	if ref, err := ctx.writeObjectReference(ba, obj); ref || err != nil {
		return err
	}
	if err := ctx.encodeTraits(ba, traits); err != nil {
		return err
	}

	if traits.Externalizable {
		source, ok := obj.Get("source")
		if !ok {
			source = NewArray()
		}
		return ctx.encodeValue(ba, source)
	}

	for _, name := range traits.Sealed {
		v, ok := obj.Get(name)
		if !ok {
			v = Undefined{}
		}
		if err := ctx.encodeValue(ba, v); err != nil {
			return err
		}
	}

	if !traits.Dynamic {
		return nil
	}
	for _, p := range obj.Properties {
		if isSealed(traits, p.Name) {
			continue
		}
		if p.Name == "" {
			return fmt.Errorf("%w: empty dynamic property name", ErrType)
		}
		if err := ctx.encodeStringValue(ba, p.Name); err != nil {
			return err
		}
		if err := ctx.encodeValue(ba, p.Value); err != nil {
			return err
		}
	}
	// End of dynamic properties (empty key)
	return ctx.encodeStringValue(ba, "")
}

// encodeTyped encodes a registry-built instance as a sealed, non-dynamic
// object whose members are its Properties.
func (ctx *AMF3Context) encodeTyped(ba *bytearray.ByteArray, obj Typed) error {
	ba.WriteUint8(amf3ObjectMarker)
	if ref, err := ctx.writeObjectReference(ba, obj); ref || err != nil {
		return err
	}

	props := obj.Properties()
	traits := &Traits{ClassName: obj.ClassName(), Sealed: make([]string, len(props))}
	for i, p := range props {
		traits.Sealed[i] = p.Name
	}
	if err := ctx.encodeTraits(ba, traits); err != nil {
		return err
	}

	for _, p := range props {
		if err := ctx.encodeValue(ba, p.Value); err != nil {
			return err
		}
	}
	return nil
}

func isSealed(t *Traits, name string) bool {
	for _, s := range t.Sealed {
		if s == name {
			return true
		}
	}
	return false
}
