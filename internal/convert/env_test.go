package convert

import (
	"mapgen/internal/analyze"
)

var (
	statusRef = analyze.Named("mapgen/store", "OrderStatus")
	labelRef  = analyze.Named("mapgen/store", "Label")
	centsRef  = analyze.Named("mapgen/store", "Cents")
	stampRef  = analyze.Named("mapgen/store", "Stamp")
	orderRef  = analyze.Named("mapgen/store", "Order")
	dtoRef    = analyze.Named("mapgen/warehouse", "Order")
	timeRef   = analyze.Ref(analyze.TimeID)
	int32Ref  = analyze.Basic("int32")
	int64Ref  = analyze.Basic("int64")
	stringRef = analyze.Basic("string")
)

func testEnv() *analyze.TypeGraph {
	g := analyze.NewTypeGraph()

	g.AddType(&analyze.TypeInfo{
		ID:         statusRef.ID,
		Kind:       analyze.TypeKindEnum,
		Underlying: analyze.Basic("int"),
		EnumValues: []string{"StatusPending", "StatusPaid"},
	})
	g.AddType(&analyze.TypeInfo{
		ID:         labelRef.ID,
		Kind:       analyze.TypeKindEnum,
		Underlying: stringRef,
		EnumValues: []string{"LabelRed", "LabelBlue"},
	})
	g.AddType(&analyze.TypeInfo{
		ID:         centsRef.ID,
		Kind:       analyze.TypeKindDefined,
		Underlying: int64Ref,
	})
	g.AddType(&analyze.TypeInfo{
		ID:         stampRef.ID,
		Kind:       analyze.TypeKindStruct,
		Supertypes: []analyze.TypeID{analyze.TimeID},
	})
	g.AddType(&analyze.TypeInfo{ID: orderRef.ID, Kind: analyze.TypeKindStruct})
	g.AddType(&analyze.TypeInfo{ID: dtoRef.ID, Kind: analyze.TypeKindStruct})

	return g
}
