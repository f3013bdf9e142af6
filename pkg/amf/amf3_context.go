package amf

import (
	"strings"

	"github.com/ssungk/eamf/pkg/bytearray"
)

// AMF3Context holds the state for a single AMF3 encoding or decoding session,
// managing the string, object and trait reference tables.
//
// Encoder and decoder must cache exactly the same things in the same order:
// every non-empty string, every array, object and date, and every inline
// trait. The empty string is never cached.
type AMF3Context struct {
	cfg Config

	// encode side
	stringIndex map[string]int
	stringCount int
	objectIndex map[Value]int
	objectCount int
	traitIndex  map[string]int
	traitCount  int

	// decode side
	stringTable []string
	objectTable []Value
	traitTable  []*Traits
}

// NewAMF3Context creates and initializes a new AMF3Context.
func NewAMF3Context(cfg Config) *AMF3Context {
	return &AMF3Context{
		cfg:         cfg,
		stringIndex: make(map[string]int),
		objectIndex: make(map[Value]int),
		traitIndex:  make(map[string]int),
	}
}

// Reset clears all three reference tables.
func (ctx *AMF3Context) Reset() {
	clear(ctx.stringIndex)
	clear(ctx.objectIndex)
	clear(ctx.traitIndex)
	ctx.stringCount = 0
	ctx.objectCount = 0
	ctx.traitCount = 0
	ctx.stringTable = ctx.stringTable[:0]
	ctx.objectTable = ctx.objectTable[:0]
	ctx.traitTable = ctx.traitTable[:0]
}

// Encode writes v to ba, sharing references with earlier calls on ctx.
func (ctx *AMF3Context) Encode(ba *bytearray.ByteArray, v Value) error {
	defer bigEndian(ba)()
	return ctx.encodeValue(ba, v)
}

// Decode reads one value from ba, resolving references against earlier
// calls on ctx.
func (ctx *AMF3Context) Decode(ba *bytearray.ByteArray) (Value, error) {
	defer bigEndian(ba)()
	return ctx.decodeValue(ba)
}

// traitKey identifies a trait for the encoder's cache. Two objects share a
// trait reference only if class, flags and sealed names all match.
func traitKey(t *Traits) string {
	var sb strings.Builder
	sb.WriteString(t.ClassName)
	sb.WriteByte(0)
	if t.Dynamic {
		sb.WriteByte('d')
	}
	if t.Externalizable {
		sb.WriteByte('e')
	}
	for _, name := range t.Sealed {
		sb.WriteByte(0)
		sb.WriteString(name)
	}
	return sb.String()
}
