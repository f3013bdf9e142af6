package amf

import (
	"fmt"
	"reflect"
	"time"
)

// Kind identifies the variant held by a Value.
type Kind uint8

const (
	KindUndefined Kind = iota
	KindNull
	KindBoolean
	KindNumber
	KindString
	KindDate
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindUndefined:
		return "undefined"
	case KindNull:
		return "null"
	case KindBoolean:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindDate:
		return "date"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Value is one node of an AMF value graph.
//
// The codecs switch on the concrete type: Undefined, Null, Boolean, Number,
// String, *Date, *Array, *Object, or a Typed instance built from the alias
// registry. Containers are pointers; sharing a pointer shares the node, and
// the codecs preserve that identity on the wire.
type Value interface {
	Kind() Kind
}

type Undefined struct{}

func (Undefined) Kind() Kind { return KindUndefined }

type Null struct{}

func (Null) Kind() Kind { return KindNull }

type Boolean bool

func (Boolean) Kind() Kind { return KindBoolean }

// Number is the single numeric type; AMF3 picks the integer encoding when
// the value allows it.
type Number float64

func (Number) Kind() Kind { return KindNumber }

type String string

func (String) Kind() Kind { return KindString }

// Date is a point in time with millisecond precision. The AMF0 timezone field
// is not carried.
type Date struct {
	Time time.Time
}

// NewDate returns a Date for t.
func NewDate(t time.Time) *Date {
	return &Date{Time: t}
}

func (*Date) Kind() Kind { return KindDate }

// Millis returns milliseconds since the Unix epoch as sent on the wire.
func (d *Date) Millis() float64 {
	return float64(d.Time.UnixMilli())
}

func dateFromMillis(ms float64) *Date {
	return &Date{Time: time.UnixMilli(int64(ms)).UTC()}
}

// Property is a named member of an Object or an associative Array entry.
type Property struct {
	Name  string
	Value Value
}

// Array has a dense part indexed from 0 and an ordered associative part.
// An Array without associative entries is strict.
type Array struct {
	Dense []Value
	Assoc []Property
}

// NewArray returns a strict Array holding values.
func NewArray(values ...Value) *Array {
	return &Array{Dense: values}
}

func (*Array) Kind() Kind { return KindArray }

// IsStrict reports whether the array has only dense elements.
func (a *Array) IsStrict() bool { return len(a.Assoc) == 0 }

// Get returns the associative entry name.
func (a *Array) Get(name string) (Value, bool) {
	return getProperty(a.Assoc, name)
}

// Set adds or replaces the associative entry name.
func (a *Array) Set(name string, v Value) {
	a.Assoc = setProperty(a.Assoc, name, v)
}

// Traits describe the class of an AMF3 object.
type Traits struct {
	ClassName      string
	Sealed         []string
	Dynamic        bool
	Externalizable bool
}

// anonymous reports whether t matches a plain dynamic object with no class.
func (t *Traits) anonymous() bool {
	return t.ClassName == "" && t.Dynamic && !t.Externalizable && len(t.Sealed) == 0
}

// Object is a generic object: ordered properties plus optional traits.
// A nil Traits means an anonymous dynamic object.
type Object struct {
	Traits     *Traits
	Properties []Property
}

// NewObject returns an empty anonymous object.
func NewObject() *Object {
	return &Object{}
}

// NewArrayCollection wraps source in the externalizable ArrayCollection class.
func NewArrayCollection(source *Array) *Object {
	return &Object{
		Traits:     &Traits{ClassName: ArrayCollectionClass, Externalizable: true},
		Properties: []Property{{Name: "source", Value: source}},
	}
}

func (*Object) Kind() Kind { return KindObject }

// ClassName returns the trait class name, or "" for anonymous objects.
func (o *Object) ClassName() string {
	if o.Traits == nil {
		return ""
	}
	return o.Traits.ClassName
}

// Get returns the property name.
func (o *Object) Get(name string) (Value, bool) {
	return getProperty(o.Properties, name)
}

// Set adds or replaces the property name, keeping insertion order.
func (o *Object) Set(name string, v Value) {
	o.Properties = setProperty(o.Properties, name, v)
}

func getProperty(props []Property, name string) (Value, bool) {
	for _, p := range props {
		if p.Name == name {
			return p.Value, true
		}
	}
	return nil, false
}

func setProperty(props []Property, name string, v Value) []Property {
	for i := range props {
		if props[i].Name == name {
			props[i].Value = v
			return props
		}
	}
	return append(props, Property{Name: name, Value: v})
}

// Typed is a registry-built object. Implementations must be pointer types so
// that instances can be tracked by identity, and must report KindObject.
type Typed interface {
	Value
	// ClassName is the alias the type is registered under.
	ClassName() string
	// Properties lists the members to serialise, in wire order.
	Properties() []Property
	// SetProperty assigns a decoded member.
	SetProperty(name string, v Value) error
}

// isNil reports whether v is nil or a nil pointer, including a nil Typed
// implementation. Such values encode as null.
func isNil(v Value) bool {
	switch v := v.(type) {
	case nil:
		return true
	case *Array:
		return v == nil
	case *Object:
		return v == nil
	case *Date:
		return v == nil
	case Typed:
		rv := reflect.ValueOf(v)
		return rv.Kind() == reflect.Pointer && rv.IsNil()
	}
	return false
}
