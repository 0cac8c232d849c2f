package analyze

import (
	"fmt"
	"slices"
	"strings"

	"mapgen/internal/common"
)

// TypeID uniquely identifies a type by its package path and name.
type TypeID struct {
	PkgPath string `msgpack:"pkg"`  // e.g., "mapgen/store"
	Name    string `msgpack:"name"` // e.g., "Order"
}

// String returns a human-readable representation of the TypeID.
func (t TypeID) String() string {
	if t.PkgPath == "" {
		return t.Name
	}

	return t.PkgPath + "." + t.Name
}

// Well known identities. Slices and maps are modelled as generic built-ins.
var (
	SliceID    = TypeID{Name: "[]"}
	MapID      = TypeID{Name: "map"}
	TimeID     = TypeID{PkgPath: "time", Name: "Time"}
	DurationID = TypeID{PkgPath: "time", Name: "Duration"}
)

// TypeRef is a reference to a type: identity, nullability and type arguments.
// A nullable TypeRef is rendered as a pointer.
type TypeRef struct {
	ID       TypeID    `msgpack:"id"`
	Nullable bool      `msgpack:"nullable"`
	Args     []TypeRef `msgpack:"args"`
}

// Ref builds a non-null TypeRef.
func Ref(id TypeID, args ...TypeRef) TypeRef {
	return TypeRef{ID: id, Args: args}
}

// Named builds a non-null reference to a named type.
func Named(pkgPath, name string, args ...TypeRef) TypeRef {
	return Ref(TypeID{PkgPath: pkgPath, Name: name}, args...)
}

// Basic builds a reference to a predeclared type such as "int" or "string".
func Basic(name string) TypeRef {
	return Ref(TypeID{Name: name})
}

// SliceOf builds a reference to []elem.
func SliceOf(elem TypeRef) TypeRef {
	return Ref(SliceID, elem)
}

// MapOf builds a reference to map[key]value.
func MapOf(key, value TypeRef) TypeRef {
	return Ref(MapID, key, value)
}

// Ptr returns the nullable form of r.
func (r TypeRef) Ptr() TypeRef {
	r.Nullable = true
	return r
}

// Core returns the non-null form of r.
func (r TypeRef) Core() TypeRef {
	r.Nullable = false
	return r
}

// IsZero reports whether r references nothing.
func (r TypeRef) IsZero() bool {
	return r.ID == TypeID{} && len(r.Args) == 0
}

// IsBasic reports whether r references a predeclared type.
func (r TypeRef) IsBasic() bool {
	return r.ID.PkgPath == "" && r.ID != SliceID && r.ID != MapID && r.ID.Name != ""
}

// Equal reports whether r and o share identity and type arguments.
// Top-level nullability is ignored, type arguments must be identical.
func (r TypeRef) Equal(o TypeRef) bool {
	if r.ID != o.ID || len(r.Args) != len(o.Args) {
		return false
	}

	for i := range r.Args {
		if !r.Args[i].Identical(o.Args[i]) {
			return false
		}
	}

	return true
}

// Identical is Equal plus matching top-level nullability.
func (r TypeRef) Identical(o TypeRef) bool {
	return r.Nullable == o.Nullable && r.Equal(o)
}

// String renders r in Go-like syntax: "*mapgen/store.Order", "[]int",
// "map[string]*int". The output is accepted by ParseTypeRef.
func (r TypeRef) String() string {
	var sb strings.Builder
	r.write(&sb)

	return sb.String()
}

func (r TypeRef) write(sb *strings.Builder) {
	if r.Nullable {
		sb.WriteByte('*')
	}

	switch {
	case r.ID == SliceID && len(r.Args) == 1:
		sb.WriteString("[]")
		r.Args[0].write(sb)
	case r.ID == MapID && len(r.Args) == 2:
		sb.WriteString("map[")
		r.Args[0].write(sb)
		sb.WriteByte(']')
		r.Args[1].write(sb)
	default:
		sb.WriteString(r.ID.String())

		if len(r.Args) > 0 {
			sb.WriteByte('[')

			for i, a := range r.Args {
				if i > 0 {
					sb.WriteString(", ")
				}

				a.write(sb)
			}

			sb.WriteByte(']')
		}
	}
}

// ShortName returns the type name without package path or arguments.
func (r TypeRef) ShortName() string {
	switch r.ID {
	case SliceID:
		if len(r.Args) == 1 {
			return r.Args[0].ShortName() + "Slice"
		}
	case MapID:
		if len(r.Args) == 2 {
			return r.Args[1].ShortName() + "Map"
		}
	}

	return common.ExportedName(r.ID.Name)
}

// TypeKind represents the kind of a named type.
type TypeKind int

const (
	TypeKindUnknown  TypeKind = iota
	TypeKindBasic             // int, string, bool, etc.
	TypeKindStruct            // struct type
	TypeKindEnum              // named basic type with declared constants
	TypeKindDefined           // named type over another type, without constants
	TypeKindAlias             // type alias (type A = B)
	TypeKindExternal          // external/opaque type (e.g., time.Time)
)

// String returns a human-readable representation of the TypeKind.
func (k TypeKind) String() string {
	switch k {
	case TypeKindBasic:
		return "basic"
	case TypeKindStruct:
		return "struct"
	case TypeKindEnum:
		return "enum"
	case TypeKindDefined:
		return "defined"
	case TypeKindAlias:
		return "alias"
	case TypeKindExternal:
		return "external"
	default:
		return common.UnknownStr
	}
}

// TypeInfo describes a named type in the type graph.
type TypeInfo struct {
	ID           TypeID            // Unique identifier
	Kind         TypeKind          // Kind of type
	Underlying   TypeRef           // For enums, defined types and aliases
	Properties   []PropertyInfo    // For structs, in declaration order
	Constructors []ConstructorInfo // Declared constructors, in declaration order
	Supertypes   []TypeID          // Embedded types
	EnumValues   []string          // For enums, constant names in declaration order
}

// Ref returns a non-null reference to the type.
func (t *TypeInfo) Ref() TypeRef {
	return Ref(t.ID)
}

// Property returns the named property.
func (t *TypeInfo) Property(name string) (*PropertyInfo, bool) {
	for i := range t.Properties {
		if t.Properties[i].Name == name {
			return &t.Properties[i], true
		}
	}

	return nil, false
}

// HasParam reports whether any constructor declares a parameter with the name.
func (t *TypeInfo) HasParam(name string) bool {
	for _, c := range t.Constructors {
		if _, ok := c.Param(name); ok {
			return true
		}
	}

	return false
}

// PropertyInfo describes a property of a struct type.
type PropertyInfo struct {
	Name          string  // Go field name
	Type          TypeRef // Declared type
	Mutable       bool    // False for fields tagged mapgen:"readonly"
	InConstructor bool    // Some constructor has a parameter with the same name and type
}

// ParamInfo describes a constructor parameter.
type ParamInfo struct {
	Name     string  `yaml:"name"               msgpack:"name"`
	Type     TypeRef `yaml:"type"               msgpack:"type"`
	Optional bool    `yaml:"optional,omitempty" msgpack:"optional"`
}

// ConstructorInfo describes a constructor function of a type.
type ConstructorInfo struct {
	Name    string      `yaml:"name"             msgpack:"name"`
	Params  []ParamInfo `yaml:"params,omitempty" msgpack:"params"`
	Visible bool        `yaml:"-"                msgpack:"visible"`
}

// Param returns the named parameter.
func (c ConstructorInfo) Param(name string) (ParamInfo, bool) {
	for _, p := range c.Params {
		if p.Name == name {
			return p, true
		}
	}

	return ParamInfo{}, false
}

// ParamTypes returns the parameter types in declaration order.
func (c ConstructorInfo) ParamTypes() []TypeRef {
	out := make([]TypeRef, len(c.Params))
	for i, p := range c.Params {
		out[i] = p.Type
	}

	return out
}

// FuncRef identifies a package-level function or a method of a mapper type.
type FuncRef struct {
	PkgPath string `yaml:"pkg"            msgpack:"pkg"`
	Recv    string `yaml:"recv,omitempty" msgpack:"recv"`
	Name    string `yaml:"name"           msgpack:"name"`
}

// String returns the fully qualified entry-point reference, e.g.
// "mapgen/mappers.ToOrder" or "mapgen/mappers.OrderMapper.ToDTO".
func (f FuncRef) String() string {
	name := f.Name
	if f.Recv != "" {
		name = f.Recv + "." + name
	}

	if f.PkgPath == "" {
		return name
	}

	return f.PkgPath + "." + name
}

// ParseFuncRef parses the String form of a FuncRef.
func ParseFuncRef(s string) (FuncRef, error) {
	slash := strings.LastIndex(s, "/")
	parts := strings.Split(s[slash+1:], ".")

	prefix := s[:slash+1]

	switch {
	case len(parts) == 2 && parts[0] != "" && parts[1] != "":
		return FuncRef{PkgPath: prefix + parts[0], Name: parts[1]}, nil
	case len(parts) == 3 && parts[0] != "" && parts[1] != "" && parts[2] != "":
		return FuncRef{PkgPath: prefix + parts[0], Recv: parts[1], Name: parts[2]}, nil
	default:
		return FuncRef{}, fmt.Errorf("invalid function reference %q", s)
	}
}

// IsZero reports whether f references nothing.
func (f FuncRef) IsZero() bool {
	return f == FuncRef{}
}

// SameOwner reports whether f and o are methods of the same mapper type.
func (f FuncRef) SameOwner(o FuncRef) bool {
	return f.Recv != "" && f.PkgPath == o.PkgPath && f.Recv == o.Recv
}

// FuncInfo describes a function mapping one value to another.
type FuncInfo struct {
	Ref    FuncRef
	Param  string  // Parameter name
	Source TypeRef // Parameter type
	Result TypeRef // Result type
}

// PackageInfo holds information about a loaded package.
type PackageInfo struct {
	Path  string   // Import path
	Name  string   // Package name
	Types []TypeID // Named types defined in this package
	Funcs []FuncRef
	Dir   string // Source directory, empty unless loaded from source
}

// TypeGraph holds all analyzed types from loaded packages.
// It is read-only during a pass apart from its memo maps.
type TypeGraph struct {
	// Types maps TypeID to TypeInfo for all named types.
	Types map[TypeID]*TypeInfo
	// Funcs maps function references to their signatures.
	Funcs map[FuncRef]*FuncInfo
	// Packages maps package paths to their package info.
	Packages map[string]*PackageInfo

	supertypes map[TypeID][]TypeID
	resolved   map[TypeID]TypeRef
}

// NewTypeGraph creates a new empty TypeGraph.
func NewTypeGraph() *TypeGraph {
	g := &TypeGraph{
		Types:    make(map[TypeID]*TypeInfo),
		Funcs:    make(map[FuncRef]*FuncInfo),
		Packages: make(map[string]*PackageInfo),
	}
	g.ResetMemo()

	return g
}

// ResetMemo drops the memoized lookups. Called at pass boundaries.
func (g *TypeGraph) ResetMemo() {
	g.supertypes = make(map[TypeID][]TypeID)
	g.resolved = make(map[TypeID]TypeRef)
}

// AddType registers a type and flags properties that a constructor receives.
func (g *TypeGraph) AddType(info *TypeInfo) {
	for i := range info.Properties {
		p := &info.Properties[i]
		p.InConstructor = false

		for _, c := range info.Constructors {
			if param, ok := c.Param(p.Name); ok && param.Type.Identical(p.Type) {
				p.InConstructor = true
				break
			}
		}
	}

	g.Types[info.ID] = info
	g.pkg(info.ID.PkgPath).Types = append(g.pkg(info.ID.PkgPath).Types, info.ID)
	g.ResetMemo()
}

// AddFunc registers a mapping function.
func (g *TypeGraph) AddFunc(fn *FuncInfo) {
	g.Funcs[fn.Ref] = fn
	g.pkg(fn.Ref.PkgPath).Funcs = append(g.pkg(fn.Ref.PkgPath).Funcs, fn.Ref)
}

func (g *TypeGraph) pkg(path string) *PackageInfo {
	p, ok := g.Packages[path]
	if !ok {
		p = &PackageInfo{Path: path, Name: common.PkgAlias(path)}
		g.Packages[path] = p
	}

	return p
}

// Dirs returns the sorted source directories of the loaded packages.
func (g *TypeGraph) Dirs() []string {
	var dirs []string

	for _, p := range g.Packages {
		if p.Dir != "" {
			dirs = append(dirs, p.Dir)
		}
	}

	slices.Sort(dirs)

	return slices.Compact(dirs)
}

// GetType returns the TypeInfo for a given TypeID, or nil if not found.
func (g *TypeGraph) GetType(id TypeID) *TypeInfo {
	return g.Types[id]
}

// Lookup resolves a reference, ignoring nullability, to its TypeInfo.
func (g *TypeGraph) Lookup(ref TypeRef) (*TypeInfo, bool) {
	info, ok := g.Types[ref.ID]
	return info, ok
}

// Func returns the signature of a registered function.
func (g *TypeGraph) Func(ref FuncRef) (*FuncInfo, bool) {
	fn, ok := g.Funcs[ref]
	return fn, ok
}

// Supertypes returns the transitive closure of embedded types of id, sorted.
func (g *TypeGraph) Supertypes(id TypeID) []TypeID {
	if cached, ok := g.supertypes[id]; ok {
		return cached
	}

	// Pre-cache to stop on embedding cycles.
	g.supertypes[id] = nil

	seen := make(map[TypeID]bool)

	var out []TypeID

	if info, ok := g.Types[id]; ok {
		for _, st := range info.Supertypes {
			for _, s := range append([]TypeID{st}, g.Supertypes(st)...) {
				if !seen[s] && s != id {
					seen[s] = true
					out = append(out, s)
				}
			}
		}
	}

	slices.SortFunc(out, func(a, b TypeID) int {
		return strings.Compare(a.String(), b.String())
	})

	g.supertypes[id] = out

	return out
}

// Resolve follows alias chains and returns the aliased reference.
func (g *TypeGraph) Resolve(ref TypeRef) TypeRef {
	target, ok := g.resolved[ref.ID]
	if !ok {
		target = Ref(ref.ID)
		seen := map[TypeID]bool{}

		for {
			info, found := g.Types[target.ID]
			if !found || info.Kind != TypeKindAlias || seen[target.ID] {
				break
			}

			seen[target.ID] = true
			target = info.Underlying.Core()
		}

		g.resolved[ref.ID] = target
	}

	if target.ID == ref.ID {
		return ref
	}

	target.Nullable = target.Nullable || ref.Nullable

	return target
}

// Assignable reports whether a value of type src can be used where dst is
// expected. Nullable values are not assignable to non-null targets. Aliases
// are transparent and a struct is assignable to any type it embeds.
func (g *TypeGraph) Assignable(src, dst TypeRef) bool {
	if src.Nullable && !dst.Nullable {
		return false
	}

	s, d := g.Resolve(src.Core()), g.Resolve(dst.Core())
	if s.Equal(d) {
		return true
	}

	if len(d.Args) > 0 || len(s.Args) > 0 {
		return false
	}

	return slices.Contains(g.Supertypes(s.ID), d.ID)
}
