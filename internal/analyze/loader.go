package analyze

import (
	"fmt"
	"go/types"
	"log/slog"
	"path/filepath"
	"reflect"
	"slices"
	"strings"

	"golang.org/x/tools/go/packages"

	"mapgen/internal/common"
)

// LoadMode specifies what information to load from packages.
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedImports

// ReadonlyTag marks a struct field as immutable: `mapgen:"readonly"`.
const ReadonlyTag = "mapgen"

// Analyzer loads Go packages and builds a type graph.
type Analyzer struct {
	graph  *TypeGraph
	logger *slog.Logger
}

// NewAnalyzer creates a new Analyzer.
func NewAnalyzer(logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}

	return &Analyzer{
		graph:  NewTypeGraph(),
		logger: logger,
	}
}

// LoadPackages loads the specified packages and builds the type graph.
// Patterns are standard Go package patterns (e.g., "./store", "mapgen/warehouse").
func (a *Analyzer) LoadPackages(dir string, patterns ...string) (*TypeGraph, error) {
	cfg := &packages.Config{
		Mode: LoadMode,
		Dir:  dir,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}

	// Check for package errors
	var errs []error
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			errs = append(errs, e)
		}
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("package errors: %v", errs)
	}

	for _, pkg := range pkgs {
		a.AddPackage(pkg.Types)

		if len(pkg.GoFiles) > 0 {
			a.graph.pkg(pkg.PkgPath).Dir = filepath.Dir(pkg.GoFiles[0])
		}
	}

	return a.graph, nil
}

// Graph returns the current type graph.
func (a *Analyzer) Graph() *TypeGraph {
	return a.graph
}

// AddPackage extracts named types, constructors and mapping functions from a
// type-checked package.
func (a *Analyzer) AddPackage(pkg *types.Package) {
	scope := pkg.Scope()

	var (
		infos = make(map[string]*TypeInfo)
		funcs []*types.Func
		names []*types.TypeName
	)

	for _, name := range scope.Names() {
		switch obj := scope.Lookup(name).(type) {
		case *types.TypeName:
			if obj.Exported() {
				names = append(names, obj)
			}
		case *types.Func:
			funcs = append(funcs, obj)
		}
	}

	for _, tn := range names {
		info := a.analyzeTypeName(tn)
		infos[tn.Name()] = info
	}

	a.collectEnumValues(scope, infos)

	for _, fn := range funcs {
		if owner, ctor, ok := a.constructorOf(fn, infos); ok {
			owner.Constructors = append(owner.Constructors, ctor)
			continue
		}

		if fn.Exported() {
			a.addFunc(fn, "")
		}
	}

	// Methods of exported mapper types.
	for _, tn := range names {
		named, ok := tn.Type().(*types.Named)
		if !ok {
			continue
		}

		for m := range named.Methods() {
			if m.Exported() {
				a.addFunc(m, tn.Name())
			}
		}
	}

	for _, tn := range names {
		info := infos[tn.Name()]
		slices.SortStableFunc(info.Constructors, func(x, y ConstructorInfo) int {
			return strings.Compare(x.Name, y.Name)
		})
		a.graph.AddType(info)
	}

	a.logger.Debug("package analyzed", "path", pkg.Path(), "types", len(names))
}

func (a *Analyzer) analyzeTypeName(tn *types.TypeName) *TypeInfo {
	info := &TypeInfo{
		ID: TypeID{PkgPath: tn.Pkg().Path(), Name: tn.Name()},
	}

	if tn.IsAlias() {
		info.Kind = TypeKindAlias
		info.Underlying = RefOf(types.Unalias(tn.Type()))

		return info
	}

	switch ut := tn.Type().Underlying().(type) {
	case *types.Struct:
		info.Kind = TypeKindStruct
		a.analyzeStructFields(ut, info)

	case *types.Basic:
		// Promoted to an enum once constants of the type are found.
		info.Kind = TypeKindDefined
		info.Underlying = Basic(ut.Name())

	default:
		info.Kind = TypeKindDefined
		info.Underlying = RefOf(ut)
	}

	return info
}

// analyzeStructFields extracts properties and embedded supertypes.
func (a *Analyzer) analyzeStructFields(st *types.Struct, info *TypeInfo) {
	for i := range st.NumFields() {
		field := st.Field(i)

		if field.Embedded() {
			if ref := RefOf(field.Type()); !ref.IsBasic() {
				info.Supertypes = append(info.Supertypes, ref.ID)
			}

			continue
		}

		if !field.Exported() {
			continue
		}

		tag := reflect.StructTag(st.Tag(i))

		info.Properties = append(info.Properties, PropertyInfo{
			Name:    field.Name(),
			Type:    RefOf(field.Type()),
			Mutable: !slices.Contains(strings.Split(tag.Get(ReadonlyTag), ","), "readonly"),
		})
	}
}

func (a *Analyzer) collectEnumValues(scope *types.Scope, infos map[string]*TypeInfo) {
	var consts []*types.Const

	for _, name := range scope.Names() {
		if c, ok := scope.Lookup(name).(*types.Const); ok && c.Exported() {
			consts = append(consts, c)
		}
	}

	// Declaration order, not alphabetical.
	slices.SortFunc(consts, func(x, y *types.Const) int {
		return int(x.Pos() - y.Pos())
	})

	for _, c := range consts {
		named, ok := c.Type().(*types.Named)
		if !ok || named.Obj().Pkg() != c.Pkg() {
			continue
		}

		info, ok := infos[named.Obj().Name()]
		if !ok || info.Underlying.IsZero() || !info.Underlying.IsBasic() {
			continue
		}

		info.Kind = TypeKindEnum
		info.EnumValues = append(info.EnumValues, c.Name())
	}
}

// constructorOf recognizes New<Type>... functions returning T or *T.
func (a *Analyzer) constructorOf(fn *types.Func, infos map[string]*TypeInfo) (*TypeInfo, ConstructorInfo, bool) {
	sig, ok := fn.Type().(*types.Signature)
	if !ok || sig.Recv() != nil || sig.Results().Len() != 1 {
		return nil, ConstructorInfo{}, false
	}

	name := strings.TrimPrefix(strings.TrimPrefix(fn.Name(), "New"), "new")
	if name == fn.Name() {
		return nil, ConstructorInfo{}, false
	}

	result := RefOf(sig.Results().At(0).Type())

	owner, ok := infos[result.ID.Name]
	if !ok || result.ID != owner.ID || !strings.HasPrefix(name, owner.ID.Name) {
		return nil, ConstructorInfo{}, false
	}

	ctor := ConstructorInfo{Name: fn.Name(), Visible: fn.Exported()}

	for i := range sig.Params().Len() {
		p := sig.Params().At(i)
		param := ParamInfo{Name: paramName(owner, p.Name()), Type: RefOf(p.Type())}

		if sig.Variadic() && i == sig.Params().Len()-1 {
			param.Optional = true
		}

		ctor.Params = append(ctor.Params, param)
	}

	return owner, ctor, true
}

// paramName moves a parameter name into the property namespace: "id" binds
// the ID property, an unmatched "extra" becomes "Extra".
func paramName(owner *TypeInfo, name string) string {
	for _, p := range owner.Properties {
		if strings.EqualFold(p.Name, name) {
			return p.Name
		}
	}

	return common.ExportedName(name)
}

// addFunc records single-argument, single-result functions as mapping functions.
func (a *Analyzer) addFunc(fn *types.Func, recv string) {
	sig, ok := fn.Type().(*types.Signature)
	if !ok || sig.Params().Len() != 1 || sig.Results().Len() != 1 || sig.Variadic() {
		return
	}

	param := sig.Params().At(0)

	a.graph.AddFunc(&FuncInfo{
		Ref:    FuncRef{PkgPath: fn.Pkg().Path(), Recv: recv, Name: fn.Name()},
		Param:  param.Name(),
		Source: RefOf(param.Type()),
		Result: RefOf(sig.Results().At(0).Type()),
	})
}

// RefOf converts a go/types type to a TypeRef. Pointers become nullable.
func RefOf(t types.Type) TypeRef {
	switch tt := types.Unalias(t).(type) {
	case *types.Pointer:
		return RefOf(tt.Elem()).Ptr()

	case *types.Basic:
		// byte and rune are reported under their canonical names.
		return Basic(types.Typ[tt.Kind()].Name())

	case *types.Named:
		obj := tt.Obj()
		ref := Basic(obj.Name())

		if obj.Pkg() != nil {
			ref = Named(obj.Pkg().Path(), obj.Name())
		}

		for arg := range tt.TypeArgs().Types() {
			ref.Args = append(ref.Args, RefOf(arg))
		}

		return ref

	case *types.Slice:
		return SliceOf(RefOf(tt.Elem()))

	case *types.Array:
		return SliceOf(RefOf(tt.Elem()))

	case *types.Map:
		return MapOf(RefOf(tt.Key()), RefOf(tt.Elem()))

	default:
		// Interfaces, channels, funcs and literals are opaque.
		return Basic(t.String())
	}
}
