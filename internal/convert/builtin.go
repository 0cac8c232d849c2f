package convert

import (
	"fmt"

	"mapgen/internal/analyze"
	"mapgen/primitive"
)

// SameType passes a value through when its core is assignable to the target
// core, following aliases and embedded supertypes.
type SameType struct{}

// SameTypeID is the ID of the SameType strategy.
const SameTypeID = "same-type"

func (SameType) ID() string { return SameTypeID }
func (SameType) Family() Family { return FamilySameType }
func (SameType) Priority() int { return PrioritySameType }
func (SameType) EnabledByDefault() bool { return true }
func (SameType) sealed() {}

func (SameType) Matches(env Env, src, dst analyze.TypeRef) bool {
	return env.Assignable(src.Core(), dst.Core())
}

func (s SameType) Convert(_ *Context, in Expr, src, dst analyze.TypeRef) (Expr, error) {
	out := in
	out.Strategy = s.ID()

	if src.Nullable && !dst.Nullable {
		out.AssertNotNull = true
	}

	return out, nil
}

// Primitive converts between basic kinds, or between time values and basic
// kinds, using a template of package primitive.
type Primitive struct {
	pair    primitive.ConversionPair
	family  Family
	enabled bool
	lines   []string
}

// NewPrimitive returns the strategy of pair, or false when package primitive
// has no template for it.
func NewPrimitive(pair primitive.ConversionPair) (Primitive, bool) {
	lines, ok := primitive.Template(pair)
	if !ok || pair.From == pair.To {
		return Primitive{}, false
	}

	family := FamilyPrimitive
	if isTemporal(pair.From) || isTemporal(pair.To) {
		family = FamilyTemporal
	}

	return Primitive{
		pair:    pair,
		family:  family,
		enabled: primitive.DefaultEnabled(pair),
		lines:   lines,
	}, true
}

func (p Primitive) ID() string {
	prefix := "primitive."
	if p.family == FamilyTemporal {
		prefix = "temporal."
	}

	return prefix + kindLabel(p.pair.From) + "-" + kindLabel(p.pair.To)
}

func (p Primitive) Family() Family { return p.family }
func (p Primitive) Priority() int { return PriorityBuiltin }
func (p Primitive) EnabledByDefault() bool { return p.enabled }
func (p Primitive) Pair() primitive.ConversionPair { return p.pair }
func (p Primitive) Category() primitive.CategoryEnum { return primitive.CategoryOf(p.pair) }
func (Primitive) sealed() {}

// Matches compares basic kinds, looking through defined types. Temporal
// sources are matched by assignability so a struct embedding time.Time
// converts like a time.Time.
func (p Primitive) Matches(env Env, src, dst analyze.TypeRef) bool {
	if src.Core().Equal(dst.Core()) || kindOf(env, dst.Core()) != p.pair.To {
		return false
	}

	if isTemporal(p.pair.From) {
		return env.Assignable(src.Core(), kindRef(p.pair.From))
	}

	return kindOf(env, src.Core()) == p.pair.From
}

func (p Primitive) Convert(_ *Context, in Expr, src, dst analyze.TypeRef) (Expr, error) {
	out := wrap(p, ExprTemplate, in)
	out.Lines = append([]string(nil), p.lines...)
	out.Statement = primitive.IsStatement(p.lines)

	return reconcile(out, src, dst, false, false), nil
}

// EnumMode selects the direction of an Enum strategy.
type EnumMode int

const (
	// EnumToString renders an enum by name.
	EnumToString EnumMode = iota
	// EnumToInteger renders an enum by its ordinal value.
	EnumToInteger
	// StringToEnum parses a string-based enum.
	StringToEnum
)

// Enum converts enums to strings or integers and string-based enums back.
type Enum struct {
	mode EnumMode
}

// NewEnum returns the enum strategy of mode.
func NewEnum(mode EnumMode) Enum {
	return Enum{mode: mode}
}

func (e Enum) ID() string {
	switch e.mode {
	case EnumToString:
		return "enum.to-string"
	case EnumToInteger:
		return "enum.to-integer"
	default:
		return "enum.from-string"
	}
}

func (Enum) Family() Family { return FamilyEnum }
func (Enum) Priority() int { return PriorityBuiltin }
func (e Enum) EnabledByDefault() bool { return e.mode == EnumToString }
func (Enum) sealed() {}

func (e Enum) Matches(env Env, src, dst analyze.TypeRef) bool {
	switch e.mode {
	case EnumToString:
		_, ok := enumOf(env, src.Core())
		return ok && kindOf(env, dst.Core()) == primitive.KindString
	case EnumToInteger:
		under, ok := enumOf(env, src.Core())
		return ok && under.IsInteger() && kindOf(env, dst.Core()).IsInteger()
	default:
		under, ok := enumOf(env, dst.Core())
		return ok && under == primitive.KindString && kindOf(env, src.Core()) == primitive.KindString
	}
}

func (e Enum) Convert(ctx *Context, in Expr, src, dst analyze.TypeRef) (Expr, error) {
	out := wrap(e, ExprTemplate, in)
	out.Lines = []string{"{{.dstType}}({{.src}})"}

	if e.mode == EnumToString && ctx != nil && ctx.Env != nil {
		if under, _ := enumOf(ctx.Env, src.Core()); under != primitive.KindString {
			out.Lines = []string{"{{.src}}.String()"}
		}
	}

	return reconcile(out, src, dst, false, false), nil
}

// Builtins returns the static table of built-in strategies in registration
// order.
func Builtins() []Strategy {
	res := []Strategy{SameType{}}

	numeric := primitive.CategorySafeNumber | primitive.CategoryUnsafeNumber | primitive.CategoryTextNumber |
		primitive.CategoryNumericBool | primitive.CategoryTextualBool
	temporal := primitive.CategoryDatetime | primitive.CategoryTimestamp | primitive.CategoryDuration |
		primitive.CategoryNanoseconds | primitive.CategorySeconds

	for _, pair := range primitive.Pairs(numeric | temporal) {
		if s, ok := NewPrimitive(pair); ok {
			res = append(res, s)
		}
	}

	return append(res, NewEnum(EnumToString), NewEnum(EnumToInteger), NewEnum(StringToEnum))
}

func isTemporal(k primitive.KindEnum) bool {
	return k == primitive.KindTime || k == primitive.KindDuration
}

func kindLabel(k primitive.KindEnum) string {
	switch k {
	case primitive.KindTime:
		return "time"
	case primitive.KindDuration:
		return "duration"
	default:
		return k.GoName()
	}
}

func kindRef(k primitive.KindEnum) analyze.TypeRef {
	switch k {
	case primitive.KindTime:
		return analyze.Ref(analyze.TimeID)
	case primitive.KindDuration:
		return analyze.Ref(analyze.DurationID)
	default:
		return analyze.Basic(k.GoName())
	}
}

// kindOf returns the basic kind of ref. Defined types report the kind of
// their underlying type; enums, structs and generic types report 0.
func kindOf(env Env, ref analyze.TypeRef) primitive.KindEnum {
	if len(ref.Args) > 0 {
		return 0
	}

	if k := primitive.FromIdent(ref.ID.PkgPath, ref.ID.Name); k != 0 {
		return k
	}

	info, ok := env.Lookup(ref)
	if !ok || info.Kind != analyze.TypeKindDefined && info.Kind != analyze.TypeKindAlias {
		return 0
	}

	under := info.Underlying.Core()
	if under.ID == ref.ID {
		return 0
	}

	return primitive.FromIdent(under.ID.PkgPath, under.ID.Name)
}

// enumOf returns the underlying kind of an enum type.
func enumOf(env Env, ref analyze.TypeRef) (primitive.KindEnum, bool) {
	info, ok := env.Lookup(ref)
	if !ok || info.Kind != analyze.TypeKindEnum {
		return 0, false
	}

	under := info.Underlying.Core()

	return primitive.FromIdent(under.ID.PkgPath, under.ID.Name), true
}

// String renders a strategy for logs and the strategies command.
func String(s Strategy) string {
	enabled := "disabled"
	if s.EnabledByDefault() {
		enabled = "enabled"
	}

	return fmt.Sprintf("%s [%s, priority %d, %s]", s.ID(), s.Family(), s.Priority(), enabled)
}
