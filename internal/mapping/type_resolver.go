package mapping

import (
	"fmt"
	"slices"
	"strings"

	"mapgen/internal/analyze"
)

// ResolveTypeID resolves a type ID string like:
// - "store.Order" (short)
// - "mapgen/store.Order" (full)
// - "Order" (name only).
//
// Several candidates are resolved to the lexically smallest package path.
func ResolveTypeID(typeIDStr string, graph *analyze.TypeGraph) *analyze.TypeInfo {
	if graph == nil || typeIDStr == "" {
		return nil
	}

	pkgStr, name := splitTypeName(typeIDStr)
	if name == "" {
		return nil
	}

	// 1) exact match (for fully qualified import path)
	if t := graph.GetType(analyze.TypeID{PkgPath: pkgStr, Name: name}); t != nil && pkgStr != "" {
		return t
	}

	// 2) suffix match (for short forms like "store.Order" vs "mapgen/store.Order"),
	// or any package for a bare name.
	var matches []analyze.TypeID

	for id := range graph.Types {
		if id.Name != name {
			continue
		}

		if pkgStr == "" || id.PkgPath == pkgStr || strings.HasSuffix(id.PkgPath, "/"+pkgStr) {
			matches = append(matches, id)
		}
	}

	if len(matches) == 0 {
		return nil
	}

	slices.SortFunc(matches, func(a, b analyze.TypeID) int {
		return strings.Compare(a.PkgPath, b.PkgPath)
	})

	return graph.Types[matches[0]]
}

func splitTypeName(s string) (pkg, name string) {
	lastDot := strings.LastIndex(s, ".")
	if lastDot < 0 || lastDot < strings.LastIndex(s, "/") {
		return "", s
	}

	return s[:lastDot], s[lastDot+1:]
}

// ResolveTypeRef parses a type reference and qualifies every short or bare
// named type found in the graph. Unknown named types are kept as written,
// which is what external types like time.Time need.
func ResolveTypeRef(s string, graph *analyze.TypeGraph) (analyze.TypeRef, error) {
	ref, err := analyze.ParseTypeRef(s)
	if err != nil {
		return analyze.TypeRef{}, err
	}

	return qualify(ref, graph), nil
}

// ResolveTypeRefs resolves every entry of list.
func ResolveTypeRefs(list []string, graph *analyze.TypeGraph) ([]analyze.TypeRef, error) {
	out := make([]analyze.TypeRef, 0, len(list))

	for _, s := range list {
		ref, err := ResolveTypeRef(s, graph)
		if err != nil {
			return nil, err
		}

		out = append(out, ref)
	}

	return out, nil
}

func qualify(ref analyze.TypeRef, graph *analyze.TypeGraph) analyze.TypeRef {
	switch {
	case ref.ID == analyze.SliceID || ref.ID == analyze.MapID:
	case ref.ID.PkgPath == "" && isPredeclared(ref.ID.Name):
	default:
		if info := ResolveTypeID(ref.ID.String(), graph); info != nil {
			ref.ID = info.ID
		}
	}

	if len(ref.Args) > 0 {
		args := make([]analyze.TypeRef, len(ref.Args))
		for i, a := range ref.Args {
			args[i] = qualify(a, graph)
		}

		ref.Args = args
	}

	return ref
}

func isPredeclared(name string) bool {
	switch name {
	case "bool", "string", "error", "any", "byte", "rune",
		"int", "int8", "int16", "int32", "int64",
		"uint", "uint8", "uint16", "uint32", "uint64", "uintptr",
		"float32", "float64", "complex64", "complex128":
		return true
	default:
		return false
	}
}

// LookupType is ResolveTypeID returning an error when nothing matches.
func LookupType(typeIDStr string, graph *analyze.TypeGraph) (*analyze.TypeInfo, error) {
	info := ResolveTypeID(typeIDStr, graph)
	if info == nil {
		return nil, fmt.Errorf("type %q not found", typeIDStr)
	}

	return info, nil
}
