package convert

import (
	"strings"

	"mapgen/internal/analyze"
	"mapgen/internal/common"
)

// ExprKind tells the emitter how to render an Expr.
type ExprKind int

const (
	// ExprSource reads a property of the source value; Text is the property name.
	ExprSource ExprKind = iota
	// ExprConstant is literal text.
	ExprConstant
	// ExprExpression is a user expression, rendered verbatim.
	ExprExpression
	// ExprParam references an extra parameter by name.
	ExprParam
	// ExprCall calls Func with Arg bound to Param.
	ExprCall
	// ExprTemplate applies the template Lines to Arg.
	ExprTemplate
	// ExprElement is the current element inside an ExprCollect.
	ExprElement
	// ExprCollect builds a slice by applying Elem to every element of Arg.
	ExprCollect
)

// String returns a human-readable kind name.
func (k ExprKind) String() string {
	switch k {
	case ExprSource:
		return "source"
	case ExprConstant:
		return "constant"
	case ExprExpression:
		return "expression"
	case ExprParam:
		return "param"
	case ExprCall:
		return "call"
	case ExprTemplate:
		return "template"
	case ExprElement:
		return "element"
	case ExprCollect:
		return "collect"
	default:
		return common.UnknownStr
	}
}

// Expr is an opaque value fragment handed to the emitter. Conversions wrap
// their input in Arg, so a chain of conversions is a chain of Exprs.
type Expr struct {
	Kind ExprKind `msgpack:"kind"`
	Text string   `msgpack:"text,omitempty"`

	// Lines is the template of an ExprTemplate, see primitive.Template.
	Lines     []string `msgpack:"lines,omitempty"`
	Statement bool     `msgpack:"statement,omitempty"`

	// Func and Param describe the callee of an ExprCall. Self is set when
	// the callee belongs to the function or mapper being generated.
	Func  *analyze.FuncRef `msgpack:"func,omitempty"`
	Param string           `msgpack:"param,omitempty"`
	Self  bool             `msgpack:"self,omitempty"`

	Arg *Expr `msgpack:"arg,omitempty"`
	// Elem converts one element of a collection, see ExprCollect.
	Elem *Expr `msgpack:"elem,omitempty"`

	// NullSafe short-circuits a nil input to a nil result.
	NullSafe bool `msgpack:"null_safe,omitempty"`
	// AssertNotNull marks a runtime failure point: the value is dereferenced
	// even though it may be nil.
	AssertNotNull bool `msgpack:"assert_not_null,omitempty"`

	// Strategy is the ID of the strategy that produced the Expr.
	Strategy string `msgpack:"strategy,omitempty"`
}

// SourceExpr reads the named source property.
func SourceExpr(property string) Expr {
	return Expr{Kind: ExprSource, Text: property}
}

// ConstantExpr is literal text.
func ConstantExpr(text string) Expr {
	return Expr{Kind: ExprConstant, Text: text}
}

// UserExpr is a user expression.
func UserExpr(text string) Expr {
	return Expr{Kind: ExprExpression, Text: text}
}

// ElementExpr is the element placeholder of a collection conversion.
func ElementExpr() Expr {
	return Expr{Kind: ExprElement}
}

// ParamExpr references an extra parameter.
func ParamExpr(name string) Expr {
	return Expr{Kind: ExprParam, Text: name}
}

// Asserts reports whether e or any of its inputs carries a null assertion.
func (e Expr) Asserts() bool {
	switch {
	case e.AssertNotNull:
		return true
	case e.Elem != nil && e.Elem.Asserts():
		return true
	default:
		return e.Arg != nil && e.Arg.Asserts()
	}
}

// String renders e in a compact, emitter independent form used by
// diagnostics and tests, e.g. "primitive.int32-int64(src.Quantity)".
func (e Expr) String() string {
	var sb strings.Builder

	e.write(&sb)

	return sb.String()
}

func (e Expr) write(sb *strings.Builder) {
	switch e.Kind {
	case ExprSource:
		sb.WriteString("src.")
		sb.WriteString(e.Text)
	case ExprConstant, ExprExpression, ExprParam:
		sb.WriteString(e.Text)
	case ExprCall:
		switch {
		case e.Self:
			sb.WriteString("self.")
			sb.WriteString(e.Func.Name)
		case e.Func != nil:
			sb.WriteString(e.Func.String())
		}

		e.writeArg(sb)
	case ExprTemplate:
		sb.WriteString(e.Strategy)
		e.writeArg(sb)
	case ExprElement:
		sb.WriteString("it")
	case ExprCollect:
		sb.WriteString("collect")
		e.writeArg(sb)
		sb.WriteString("{")

		if e.Elem != nil {
			e.Elem.write(sb)
		}

		sb.WriteString("}")
	}

	if e.NullSafe {
		sb.WriteString("?")
	}

	if e.AssertNotNull {
		sb.WriteString("!!")
	}
}

func (e Expr) writeArg(sb *strings.Builder) {
	sb.WriteString("(")

	if e.Arg != nil {
		e.Arg.write(sb)
	}

	sb.WriteString(")")
}
