package amf_test

import (
	"fmt"

	"github.com/ssungk/eamf/pkg/amf"
	"github.com/ssungk/eamf/pkg/bytearray"
)

func ExampleWriteObject() {
	obj := amf.NewObject()
	obj.Set("a", amf.Number(1))
	obj.Set("b", amf.String("x"))

	ba := bytearray.NewDefault()
	ba.SetObjectEncoding(bytearray.AMF0)
	if err := amf.WriteObject(ba, obj); err != nil {
		panic(err)
	}
	fmt.Printf("% x\n", ba.Bytes())

	v, err := amf.ReadObject(ba)
	if err != nil {
		panic(err)
	}
	b, _ := v.(*amf.Object).Get("b")
	fmt.Println(b)
	// Output:
	// 03 00 01 61 00 3f f0 00 00 00 00 00 00 00 01 62 02 00 01 78 00 00 09
	// x
}

func ExampleEncodeAMF3() {
	x := amf.String("x")
	data, err := amf.EncodeAMF3(amf.NewArray(x, x, amf.String(""), amf.String("")))
	if err != nil {
		panic(err)
	}
	fmt.Printf("% x\n", data)
	// Output:
	// 09 09 01 06 03 78 06 00 06 01 06 01
}

func ExampleToNative() {
	v, err := amf.FromNative(map[string]any{"list": []any{1, "two"}, "ok": true})
	if err != nil {
		panic(err)
	}
	data, err := amf.EncodeAMF3(v)
	if err != nil {
		panic(err)
	}
	decoded, err := amf.DecodeAMF3(data)
	if err != nil {
		panic(err)
	}
	fmt.Println(amf.ToNative(decoded))
	// Output:
	// map[list:[1 two] ok:true]
}
