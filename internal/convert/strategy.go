package convert

import (
	"errors"

	"mapgen/internal/analyze"
)

// ErrNoMatch is returned by Convert when called with a pair the strategy
// does not match.
var ErrNoMatch = errors.New("strategy does not match the type pair")

// Env is the part of the type graph strategies need.
type Env interface {
	Lookup(ref analyze.TypeRef) (*analyze.TypeInfo, bool)
	Assignable(src, dst analyze.TypeRef) bool
}

// Strategy converts values of one type pair. The set of implementations is
// closed: SameType, Primitive, Enum, Delegate and Custom.
type Strategy interface {
	// ID is unique within a registry and names the strategy in enable lists.
	ID() string
	Family() Family
	Priority() int
	EnabledByDefault() bool
	// Matches reports whether the strategy converts src to dst.
	Matches(env Env, src, dst analyze.TypeRef) bool
	// Convert wraps in, a value of type src, into an Expr of type dst.
	Convert(ctx *Context, in Expr, src, dst analyze.TypeRef) (Expr, error)

	sealed()
}

// reconcile applies the nullability rules to out. declSrc and declDst are
// the declared nullability of the strategy domain.
func reconcile(out Expr, src, dst analyze.TypeRef, declSrc, declDst bool) Expr {
	if src.Nullable && !declSrc {
		out.NullSafe = true

		if !dst.Nullable {
			out.AssertNotNull = true
		}
	}

	if declDst && !dst.Nullable {
		out.AssertNotNull = true
	}

	return out
}

// wrap builds the Expr of a strategy consuming in.
func wrap(s Strategy, kind ExprKind, in Expr) Expr {
	arg := in

	return Expr{Kind: kind, Arg: &arg, Strategy: s.ID()}
}
