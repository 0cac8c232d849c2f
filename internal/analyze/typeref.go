package analyze

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"gopkg.in/yaml.v3"

	"mapgen/internal/common"
)

// TypeRefLexer tokenizes type references as written in mapping files.
var TypeRefLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "MapOpen", Pattern: `map\[`},
	{Name: "Ident", Pattern: `[\p{L}_][\p{L}\p{N}_.\-/]*`},
	{Name: "Punct", Pattern: `[*\[\],]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

type typeExpr struct {
	Pointer bool       `parser:"@\"*\"?"`
	Slice   *typeExpr  `parser:"( \"[\" \"]\" @@"`
	Map     *mapExpr   `parser:"| @@"`
	Named   *namedExpr `parser:"| @@ )"`
}

type mapExpr struct {
	Key   *typeExpr `parser:"MapOpen @@ \"]\""`
	Value *typeExpr `parser:"@@"`
}

type namedExpr struct {
	Path string      `parser:"@Ident"`
	Args []*typeExpr `parser:"( \"[\" @@ ( \",\" @@ )* \"]\" )?"`
}

var typeRefParser = participle.MustBuild[typeExpr](
	participle.Lexer(TypeRefLexer),
	participle.Elide("Whitespace"),
)

// ParseTypeRef parses a type reference such as "*mapgen/store.Order",
// "[]int", "map[string]*time.Time" or "mapgen/store.Page[mapgen/store.Order]".
func ParseTypeRef(s string) (TypeRef, error) {
	if strings.TrimSpace(s) == "" {
		return TypeRef{}, fmt.Errorf("empty type reference")
	}

	expr, err := typeRefParser.ParseString("", strings.TrimSpace(s))
	if err != nil {
		return TypeRef{}, fmt.Errorf("invalid type reference %q: %w", s, err)
	}

	return expr.ref(), nil
}

// MustParseTypeRef is like ParseTypeRef but panics on error.
func MustParseTypeRef(s string) TypeRef {
	ref, err := ParseTypeRef(s)
	if err != nil {
		panic(err)
	}

	return ref
}

// ParseTypeRefs parses each entry of list.
func ParseTypeRefs(list []string) ([]TypeRef, error) {
	out := make([]TypeRef, 0, len(list))

	for _, s := range list {
		ref, err := ParseTypeRef(s)
		if err != nil {
			return nil, err
		}

		out = append(out, ref)
	}

	return out, nil
}

// MarshalYAML renders the reference in its string form.
func (r TypeRef) MarshalYAML() (any, error) {
	return r.String(), nil
}

// UnmarshalYAML parses the string form of a reference.
func (r *TypeRef) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}

	ref, err := ParseTypeRef(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}

	*r = ref

	return nil
}

func (e *typeExpr) ref() TypeRef {
	var ref TypeRef

	switch {
	case e.Slice != nil:
		ref = SliceOf(e.Slice.ref())
	case e.Map != nil:
		ref = MapOf(e.Map.Key.ref(), e.Map.Value.ref())
	default:
		pkg, name := common.SplitQualified(e.Named.Path)
		ref = Named(pkg, name)

		for _, a := range e.Named.Args {
			ref.Args = append(ref.Args, a.ref())
		}
	}

	ref.Nullable = e.Pointer

	return ref
}
