package convert

import (
	"fmt"

	"mapgen/internal/analyze"
	"mapgen/internal/mapping"
)

// Record describes a mapping function that can be called by reference: one
// generated in this pass, one recorded in a manifest by a previous pass or
// one written by hand.
type Record struct {
	Kind     mapping.Kind    `msgpack:"kind"`
	Func     analyze.FuncRef `msgpack:"func"`
	Param    string          `msgpack:"param"`
	Source   analyze.TypeRef `msgpack:"source"`
	Target   analyze.TypeRef `msgpack:"target"`
	Priority int             `msgpack:"priority"`
	// AlreadyGenerated is set for records loaded from a manifest.
	AlreadyGenerated bool `msgpack:"already_generated"`
	// Disabled records are only used when force-enabled.
	Disabled bool `msgpack:"disabled"`
}

// String returns "Func(Source) Target".
func (r Record) String() string {
	return fmt.Sprintf("%s(%s) %s", r.Func, r.Source, r.Target)
}

// Delegate calls the function of a Record.
type Delegate struct {
	rec Record
}

// NewDelegate returns the delegate strategy of rec.
func NewDelegate(rec Record) Delegate {
	return Delegate{rec: rec}
}

// DelegateID is the strategy ID of the delegate calling fn.
func DelegateID(fn analyze.FuncRef) string {
	return "delegate." + fn.String()
}

func (d Delegate) ID() string { return DelegateID(d.rec.Func) }
func (Delegate) Family() Family { return FamilyDelegate }
func (d Delegate) Priority() int { return d.rec.Priority }
func (d Delegate) EnabledByDefault() bool { return !d.rec.Disabled }
func (d Delegate) Record() Record { return d.rec }
func (Delegate) sealed() {}

// Matches ignores nullability: the source core must be accepted by the
// function and the result core must be usable as the target.
func (d Delegate) Matches(env Env, src, dst analyze.TypeRef) bool {
	return env.Assignable(src.Core(), d.rec.Source.Core()) && env.Assignable(d.rec.Target.Core(), dst.Core())
}

func (d Delegate) Convert(ctx *Context, in Expr, src, dst analyze.TypeRef) (Expr, error) {
	fn := d.rec.Func

	out := wrap(d, ExprCall, in)
	out.Func = &fn
	out.Param = d.rec.Param
	out.Self = ctx.IsSelf(fn)

	return reconcile(out, src, dst, d.rec.Source.Nullable, d.rec.Target.Nullable), nil
}

// MatchFunc is the match predicate of a Custom strategy.
type MatchFunc func(env Env, src, dst analyze.TypeRef) bool

// ConvertFunc is the conversion of a Custom strategy. The nullability rules
// are applied to its result.
type ConvertFunc func(ctx *Context, in Expr, src, dst analyze.TypeRef) (Expr, error)

// Custom wraps a caller supplied match/convert pair.
type Custom struct {
	id       string
	priority int
	enabled  bool
	match    MatchFunc
	convert  ConvertFunc
}

// NewCustom returns a custom strategy. The ID is prefixed with "custom.".
func NewCustom(id string, priority int, enabled bool, match MatchFunc, convert ConvertFunc) Custom {
	return Custom{
		id:       "custom." + id,
		priority: priority,
		enabled:  enabled,
		match:    match,
		convert:  convert,
	}
}

func (c Custom) ID() string { return c.id }
func (Custom) Family() Family { return FamilyCustom }
func (c Custom) Priority() int { return c.priority }
func (c Custom) EnabledByDefault() bool { return c.enabled }
func (Custom) sealed() {}

func (c Custom) Matches(env Env, src, dst analyze.TypeRef) bool {
	return c.match != nil && c.match(env, src, dst)
}

func (c Custom) Convert(ctx *Context, in Expr, src, dst analyze.TypeRef) (Expr, error) {
	if c.convert == nil {
		return Expr{}, fmt.Errorf("%s: %w", c.id, ErrNoMatch)
	}

	out, err := c.convert(ctx, in, src, dst)
	if err != nil {
		return Expr{}, fmt.Errorf("%s: %w", c.id, err)
	}

	if out.Strategy == "" {
		out.Strategy = c.id
	}

	return reconcile(out, src, dst, false, false), nil
}
