package plan

import (
	"mapgen/internal/analyze"
	"mapgen/internal/mapping"
)

const (
	storePkg     = "mapgen/store"
	warehousePkg = "mapgen/warehouse"
)

var (
	stringRef = analyze.Basic("string")
	int32Ref  = analyze.Basic("int32")
	int64Ref  = analyze.Basic("int64")
)

func mutable(name string, t analyze.TypeRef) analyze.PropertyInfo {
	return analyze.PropertyInfo{Name: name, Type: t, Mutable: true}
}

func readonly(name string, t analyze.TypeRef) analyze.PropertyInfo {
	return analyze.PropertyInfo{Name: name, Type: t}
}

func ctor(name string, params ...analyze.ParamInfo) analyze.ConstructorInfo {
	return analyze.ConstructorInfo{Name: name, Params: params, Visible: true}
}

func param(name string, t analyze.TypeRef) analyze.ParamInfo {
	return analyze.ParamInfo{Name: name, Type: t}
}

func structType(pkg, name string, props []analyze.PropertyInfo, ctors ...analyze.ConstructorInfo) *analyze.TypeInfo {
	return &analyze.TypeInfo{
		ID:           analyze.TypeID{PkgPath: pkg, Name: name},
		Kind:         analyze.TypeKindStruct,
		Properties:   props,
		Constructors: ctors,
	}
}

// scenarioGraph holds the types of the constructor selection cases.
func scenarioGraph() *analyze.TypeGraph {
	g := analyze.NewTypeGraph()

	g.AddType(structType(storePkg, "Source", []analyze.PropertyInfo{
		mutable("SourceProperty1", stringRef),
		mutable("SourceProperty2", stringRef),
		mutable("SourceProperty3", stringRef),
	}))

	// Primary constructor plus mutable properties.
	g.AddType(structType(warehousePkg, "Target", []analyze.PropertyInfo{
		readonly("TargetProperty1", stringRef),
		mutable("TargetProperty2", stringRef),
		mutable("TargetProperty3", stringRef),
	}, ctor("NewTarget", param("TargetProperty1", stringRef))))

	// Zero-argument constructor and immutable fields only.
	g.AddType(structType(warehousePkg, "Frozen", []analyze.PropertyInfo{
		readonly("SourceProperty1", stringRef),
		readonly("SourceProperty2", stringRef),
	}, ctor("NewFrozen")))

	// A three-argument and a zero-argument constructor.
	g.AddType(structType(warehousePkg, "Account", []analyze.PropertyInfo{
		mutable("SourceProperty1", stringRef),
		mutable("SourceProperty2", stringRef),
		mutable("SourceProperty3", stringRef),
	},
		ctor("NewAccount",
			param("SourceProperty1", stringRef),
			param("SourceProperty2", stringRef),
			param("Owner", stringRef)),
		ctor("NewEmptyAccount"),
	))

	// Two constructors qualifying equally.
	g.AddType(structType(warehousePkg, "Pair", []analyze.PropertyInfo{
		mutable("SourceProperty1", stringRef),
		mutable("SourceProperty2", stringRef),
	},
		ctor("NewPairFirst", param("SourceProperty1", stringRef)),
		ctor("NewPairSecond", param("SourceProperty2", stringRef)),
	))

	return g
}

func request(g *analyze.TypeGraph, target string, directives ...mapping.Directive) Request {
	src := analyze.Named(storePkg, "Source")
	dst := analyze.Named(warehousePkg, target)

	return Request{
		Kind:       mapping.KindMapper,
		Func:       DefaultFunc(mapping.KindMapper, src.ID, dst.ID),
		Param:      DefaultParam,
		Source:     src,
		Target:     dst,
		Directives: directives,
		Priority:   4000,
	}
}

var (
	orderRef    = analyze.Named(storePkg, "Order")
	orderDTORef = analyze.Named(warehousePkg, "Order")
)

// orderGraph holds nested structs, slices and a self reference.
func orderGraph() *analyze.TypeGraph {
	g := analyze.NewTypeGraph()

	for _, pkg := range []string{storePkg, warehousePkg} {
		qty := int32Ref
		if pkg == warehousePkg {
			qty = int64Ref
		}

		g.AddType(structType(pkg, "Customer", []analyze.PropertyInfo{
			mutable("Name", stringRef),
		}))
		g.AddType(structType(pkg, "Item", []analyze.PropertyInfo{
			mutable("SKU", stringRef),
			mutable("Qty", qty),
		}))
		g.AddType(structType(pkg, "Order", []analyze.PropertyInfo{
			mutable("ID", int64Ref),
			mutable("Customer", analyze.Named(pkg, "Customer")),
			mutable("Items", analyze.SliceOf(analyze.Named(pkg, "Item"))),
			mutable("Parent", analyze.Named(pkg, "Order").Ptr()),
		}))
	}

	return g
}

func orderRequest() Request {
	return Request{
		Kind:     mapping.KindMapper,
		Func:     DefaultFunc(mapping.KindMapper, orderRef.ID, orderDTORef.ID),
		Param:    DefaultParam,
		Source:   orderRef,
		Target:   orderDTORef,
		Priority: 4000,
	}
}
