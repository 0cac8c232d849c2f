package primitive_test

import (
	"fmt"

	"mapgen/primitive"
)

func Example() {
	fmt.Println(primitive.FromIdent("", "int"))
	fmt.Println(primitive.FromIdent("", "string"))
	fmt.Println(primitive.FromIdent("", "byte"))
	fmt.Println(primitive.FromIdent("time", "Duration"))
	fmt.Println(primitive.FromIdent("time", "Time"))
	fmt.Println(primitive.FromIdent("mapgen/store", "OrderStatus"))
	fmt.Println(primitive.KindUint16.GoName())
	// Output:
	// KindInt
	// KindString
	// KindUint8
	// KindDuration
	// KindTime
	// KindEnum(0)
	// uint16
}
