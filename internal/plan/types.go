package plan

import (
	"fmt"

	"mapgen/internal/analyze"
	"mapgen/internal/common"
	"mapgen/internal/convert"
	"mapgen/internal/mapping"
)

// Request asks for one mapping function from Source to Target.
type Request struct {
	Kind  mapping.Kind
	Func  analyze.FuncRef
	Param string

	Source analyze.TypeRef
	Target analyze.TypeRef

	Directives  []mapping.Directive
	ExtraParams []analyze.ParamInfo

	// Constructor pins the constructor by parameter types. Nil selects it
	// automatically, an empty list forces the zero-argument constructor.
	Constructor *[]analyze.TypeRef

	// Priority of the delegate calling Func.
	Priority int

	// Derived is set for requests created while planning another request.
	Derived bool
}

// String returns "Func(Source) Target".
func (r *Request) String() string {
	return fmt.Sprintf("%s(%s) %s", r.Func, r.Source, r.Target)
}

// Pair returns the "Source->Target" form used in diagnostics.
func (r *Request) Pair() string {
	return r.Source.String() + "->" + r.Target.String()
}

// Record describes the function the request generates.
func (r *Request) Record() convert.Record {
	return convert.Record{
		Kind:     r.Kind,
		Func:     r.Func,
		Param:    r.Param,
		Source:   r.Source,
		Target:   r.Target,
		Priority: r.Priority,
	}
}

// Provenance tells where a resolved mapping comes from.
type Provenance int

const (
	// ProvenanceExplicit - from a directive.
	ProvenanceExplicit Provenance = iota
	// ProvenanceImplicit - same name on both sides.
	ProvenanceImplicit
	// ProvenanceExtraParam - from a parameter passed besides the source.
	ProvenanceExtraParam
)

// String returns a human-readable provenance name.
func (p Provenance) String() string {
	switch p {
	case ProvenanceExplicit:
		return "explicit"
	case ProvenanceImplicit:
		return "implicit"
	case ProvenanceExtraParam:
		return "extra"
	default:
		return common.UnknownStr
	}
}

// SourceKind describes the value bound to a target property.
type SourceKind int

const (
	// SourceProperty - a property of the source value.
	SourceProperty SourceKind = iota
	// SourceConstant - literal text, or the name of an extra parameter.
	SourceConstant
	// SourceExpression - a user expression.
	SourceExpression
	// SourceIgnored - no assignment.
	SourceIgnored
)

// String returns a human-readable source kind name.
func (k SourceKind) String() string {
	switch k {
	case SourceProperty:
		return "property"
	case SourceConstant:
		return "constant"
	case SourceExpression:
		return "expression"
	case SourceIgnored:
		return "ignored"
	default:
		return common.UnknownStr
	}
}

// ResolvedPropertyMapping binds one target property, or constructor
// parameter, to its value.
type ResolvedPropertyMapping struct {
	Target     string
	Provenance Provenance
	Source     SourceKind
	// Value is the source property name, the constant, the expression or the
	// extra parameter name.
	Value string
	// Type is the type of the value. It is zero for constants and
	// expressions, which are emitted as written.
	Type analyze.TypeRef
	// Enable lists force-enabled strategy IDs, sorted.
	Enable []string
}

// Ignored reports whether the mapping assigns nothing.
func (m *ResolvedPropertyMapping) Ignored() bool {
	return m.Source == SourceIgnored
}

// Expr returns the unconverted value of the mapping.
func (m *ResolvedPropertyMapping) Expr() convert.Expr {
	switch {
	case m.Provenance == ProvenanceExtraParam:
		return convert.ParamExpr(m.Value)
	case m.Source == SourceProperty:
		return convert.SourceExpr(m.Value)
	case m.Source == SourceExpression:
		return convert.UserExpr(m.Value)
	default:
		return convert.ConstantExpr(m.Value)
	}
}

// String renders the mapping for diagnostics.
func (m ResolvedPropertyMapping) String() string {
	return fmt.Sprintf("%s <- %s %s (%s)", m.Target, m.Source, m.Value, m.Provenance)
}

// Binding is a converted value for a constructor argument or an assignment.
type Binding struct {
	// Name of the constructor parameter or target property.
	Name string `msgpack:"name"`
	// Type of the parameter or property.
	Type  analyze.TypeRef `msgpack:"type"`
	Value convert.Expr    `msgpack:"value"`
}

// Plan is the assignment plan of one mapping function.
type Plan struct {
	Kind  mapping.Kind    `msgpack:"kind"`
	Func  analyze.FuncRef `msgpack:"func"`
	Param string          `msgpack:"param"`

	Source analyze.TypeRef `msgpack:"source"`
	Target analyze.TypeRef `msgpack:"target"`

	ExtraParams []analyze.ParamInfo `msgpack:"extra"`

	// Constructor is nil when the target is built as a zero value literal.
	Constructor *analyze.ConstructorInfo `msgpack:"constructor"`
	// Args are the constructor arguments in declared parameter order.
	Args []Binding `msgpack:"args"`
	// Assignments are applied after construction, in resolution order.
	Assignments []Binding `msgpack:"assignments"`

	// Mappings is the resolved list the plan was built from.
	Mappings []ResolvedPropertyMapping `msgpack:"mappings"`
	// Dropped lists immutable properties no constructor argument covers.
	Dropped []string `msgpack:"dropped"`
	// NullAssertions lists the bindings that may fail on nil at run time.
	NullAssertions []string `msgpack:"null_assertions"`

	// Derived is set for nested mapping functions derived by the builder.
	Derived bool `msgpack:"derived"`
}

// String returns "Func(Source) Target".
func (p *Plan) String() string {
	return fmt.Sprintf("%s(%s) %s", p.Func, p.Source, p.Target)
}

// Binding returns the argument or assignment for name.
func (p *Plan) Binding(name string) (Binding, bool) {
	for _, list := range [][]Binding{p.Args, p.Assignments} {
		for _, b := range list {
			if b.Name == name {
				return b, true
			}
		}
	}

	return Binding{}, false
}
