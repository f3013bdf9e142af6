package bytearray_test

import (
	"fmt"
	"strings"

	"github.com/ssungk/eamf/pkg/bytearray"
)

// Example of writing and reading primitives
func ExampleByteArray() {
	b := bytearray.NewDefault()
	defer b.Release()

	b.WriteUint16(0xCAFE)
	if err := b.WriteUTF("hello"); err != nil {
		panic(err)
	}

	v, _ := b.ReadUint16()
	s, _ := b.ReadUTF()
	fmt.Printf("%#x %s %d\n", v, s, b.BytesAvailable())

	// Output: 0xcafe hello 0
}

// Example of compressing the whole content
func ExampleByteArray_Compress() {
	b := bytearray.NewDefault()
	b.WriteUTFBytes(strings.Repeat("a", 64))

	if err := b.Compress(bytearray.Zlib); err != nil {
		panic(err)
	}
	compressed := b.Len()

	if err := b.Uncompress(bytearray.Zlib); err != nil {
		panic(err)
	}
	fmt.Println(compressed < b.Len(), b.Len())

	// Output: true 64
}
