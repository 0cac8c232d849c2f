package plan

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"

	"mapgen/internal/analyze"
	"mapgen/internal/convert"
	"mapgen/internal/diagnostic"
)

var (
	// ErrNotStruct is returned when a request source or target is not a
	// struct type of the graph.
	ErrNotStruct = errors.New("not a struct type of the type graph")
	// ErrDuplicateFunc is returned for a second request generating the
	// same function.
	ErrDuplicateFunc = errors.New("function is generated by another request")
)

// CollectID is the Strategy of an ExprCollect.
const CollectID = "collect"

// Config holds configuration for plan building.
type Config struct {
	// DeriveNested derives mapping functions for nested struct pairs no
	// strategy converts.
	DeriveNested bool
	// MaxRecursionDepth limits the nesting of derived functions (0 = unlimited).
	MaxRecursionDepth int
	// Strict fails a request when a mutable target property receives no value.
	Strict bool
}

// DefaultConfig returns the default build configuration.
func DefaultConfig() Config {
	return Config{
		DeriveNested:      true,
		MaxRecursionDepth: 10,
	}
}

// Result is the output of a pass.
type Result struct {
	// Plans holds one plan per successful request, each followed by the
	// plans derived for it.
	Plans    []Plan
	Failures []Failure
	// Diagnostics contains all warnings, lints and errors of the pass.
	Diagnostics diagnostic.Diagnostics
}

// Plan returns the plan generating fn.
func (r *Result) Plan(fn analyze.FuncRef) (*Plan, bool) {
	for i := range r.Plans {
		if r.Plans[i].Func == fn {
			return &r.Plans[i], true
		}
	}

	return nil, false
}

// Builder runs passes over a type graph.
type Builder struct {
	graph      *analyze.TypeGraph
	config     Config
	logger     *slog.Logger
	strategies []convert.Strategy
}

// NewBuilder creates a Builder. A nil logger logs to slog.Default().
func NewBuilder(graph *analyze.TypeGraph, config Config, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}

	return &Builder{
		graph:      graph,
		config:     config,
		logger:     logger,
		strategies: convert.Builtins(),
	}
}

// AddStrategies registers custom strategies in every following pass.
func (b *Builder) AddStrategies(strategies ...convert.Strategy) {
	b.strategies = append(b.strategies, strategies...)
}

// pass is the state of one Run. The registry is created at its start and
// discarded at its end.
type pass struct {
	*Builder

	registry *convert.Registry
	resolver *Resolver
	diags    *diagnostic.Diagnostics

	// derived maps a pair key to the function derived for it.
	derived map[string]analyze.FuncRef
	// pending holds the derived plans of the current top-level request.
	pending []Plan
}

// Run plans every request. Records are mapping functions that exist
// already: hand-written ones and those generated by a previous pass. A
// request generating the function of an already generated record is skipped.
func (b *Builder) Run(requests []Request, records []convert.Record) *Result {
	res := &Result{}

	b.graph.ResetMemo()

	p := &pass{
		Builder:  b,
		registry: convert.NewRegistry(b.logger, b.strategies...),
		diags:    &res.Diagnostics,
		derived:  make(map[string]analyze.FuncRef),
	}
	p.resolver = NewResolver(b.logger, p.diags)
	p.resolver.Strict = b.config.Strict

	generated := make(map[analyze.FuncRef]struct{})
	lift := recordLift(requests)

	for _, rec := range records {
		rec.Priority += lift
		p.registry.Register(convert.NewDelegate(rec))

		if rec.AlreadyGenerated {
			generated[rec.Func] = struct{}{}
		}
	}

	for i := range requests {
		p.registry.Register(convert.NewDelegate(requests[i].Record()))
	}

	planned := make(map[analyze.FuncRef]struct{})

	for i := range requests {
		req := &requests[i]

		if _, ok := generated[req.Func]; ok {
			p.diags.AddInfo(diagnostic.CodeAlreadyGenerated, fmt.Sprintf("%s exists already", req.Func), req.Pair(), "")
			b.logger.Debug("skipping already generated function", "func", req.Func.String())

			continue
		}

		if _, dup := planned[req.Func]; dup {
			p.fail(res, req, ErrDuplicateFunc)
			continue
		}

		planned[req.Func] = struct{}{}

		snapshot := p.registry.Strategies()
		derived := maps.Clone(p.derived)

		plan, err := p.build(convert.NewContext(b.graph, req.Func), req)
		if err != nil {
			p.registry.Reset(snapshot...)
			p.derived = derived
			p.pending = nil
			p.fail(res, req, err)

			continue
		}

		res.Plans = append(res.Plans, *plan)
		res.Plans = append(res.Plans, p.pending...)
		p.pending = nil
	}

	return res
}

func (p *pass) fail(res *Result, req *Request, err error) {
	res.Failures = append(res.Failures, Failure{Request: *req, Err: err})

	property := ""

	var (
		cfgErr  *ConfigError
		convErr *NoConverterError
	)

	switch {
	case errors.As(err, &cfgErr):
		property = cfgErr.Property
	case errors.As(err, &convErr):
		property = convErr.Property
	}

	p.diags.AddError(diagnostic.CodeRequestFailed, err.Error(), req.Pair(), property)
	p.logger.Error("mapping request failed", "func", req.Func.String(), "error", err)
}

// build plans one request. Plans derived on the way are appended to pending.
func (p *pass) build(ctx *convert.Context, req *Request) (*Plan, error) {
	src, err := p.structInfo(req.Source)
	if err != nil {
		return nil, fmt.Errorf("source: %w", err)
	}

	dst, err := p.structInfo(req.Target)
	if err != nil {
		return nil, fmt.Errorf("target: %w", err)
	}

	if ctx.Enter(req.Source, req.Target) {
		defer ctx.Leave(req.Source, req.Target)
	}

	mappings, err := p.resolver.DeterminePropertyMappings(src, dst, req.Directives, req.ExtraParams)
	if err != nil {
		return nil, err
	}

	sel, err := SelectConstructor(p.graph, dst, mappings, req.Constructor, p.convertible)
	if err != nil {
		return nil, err
	}

	plan := &Plan{
		Kind:        req.Kind,
		Func:        req.Func,
		Param:       req.Param,
		Source:      req.Source,
		Target:      req.Target,
		ExtraParams: req.ExtraParams,
		Constructor: sel.Constructor,
		Mappings:    mappings,
		Derived:     req.Derived,
	}

	for _, a := range sel.Args {
		b, err := p.bind(ctx, req, plan, dst, a.Param.Name, a.Param.Type, &a.Mapping)
		if err != nil {
			return nil, err
		}

		plan.Args = append(plan.Args, b)
	}

	for i := range sel.Assignments {
		m := &sel.Assignments[i]
		prop, _ := dst.Property(m.Target)

		b, err := p.bind(ctx, req, plan, dst, m.Target, prop.Type, m)
		if err != nil {
			return nil, err
		}

		plan.Assignments = append(plan.Assignments, b)
	}

	for _, m := range sel.Dropped {
		plan.Dropped = append(plan.Dropped, m.Target)
		p.diags.AddLint(diagnostic.CodeImmutableUnbound,
			fmt.Sprintf("%s is immutable and not set by the constructor, mapping dropped", m.Target),
			req.Pair(), m.Target)
	}

	p.logger.Debug("planned mapping", "func", req.Func.String(),
		"args", len(plan.Args), "assignments", len(plan.Assignments))

	return plan, nil
}

func (p *pass) structInfo(ref analyze.TypeRef) (*analyze.TypeInfo, error) {
	info, ok := p.graph.Lookup(p.graph.Resolve(ref))
	if !ok || info.Kind != analyze.TypeKindStruct {
		return nil, fmt.Errorf("%s: %w", ref, ErrNotStruct)
	}

	return info, nil
}

// bind converts the value of m into a value of type dstType.
func (p *pass) bind(
	ctx *convert.Context,
	req *Request,
	plan *Plan,
	owner *analyze.TypeInfo,
	name string,
	dstType analyze.TypeRef,
	m *ResolvedPropertyMapping,
) (Binding, error) {
	b := Binding{Name: name, Type: dstType, Value: m.Expr()}
	if m.Type.IsZero() {
		return b, nil
	}

	val, err := p.convertValue(ctx, req, b.Value, m.Type, dstType, m.Enable)
	if err != nil {
		var convErr *NoConverterError
		if errors.As(err, &convErr) && convErr.Property == "" {
			convErr.Target, convErr.Property = owner.ID, name
		}

		return Binding{}, err
	}

	b.Value = val

	if val.Asserts() {
		plan.NullAssertions = append(plan.NullAssertions, name)
		p.diags.AddInfo(diagnostic.CodeNullAssertion,
			fmt.Sprintf("%s fails at run time when %s is nil", name, m.Value), req.Pair(), name)
	}

	return b, nil
}

// convertValue wraps in, a value of type src, into a value of type dst:
// through the registry, element-wise for slices, or by deriving a nested
// mapping function.
func (p *pass) convertValue(
	ctx *convert.Context,
	req *Request,
	in convert.Expr,
	src, dst analyze.TypeRef,
	enable []string,
) (convert.Expr, error) {
	if s, ok := p.registry.FindBest(p.graph, src, dst, enable); ok {
		return s.Convert(ctx, in, src, dst)
	}

	if srcElem, dstElem, ok := sliceElems(src, dst); ok {
		elem, err := p.convertValue(ctx, req, convert.ElementExpr(), srcElem, dstElem, enable)
		if err != nil {
			return convert.Expr{}, err
		}

		arg := in
		out := convert.Expr{Kind: convert.ExprCollect, Arg: &arg, Elem: &elem, Strategy: CollectID}

		if src.Nullable {
			out.NullSafe = true
			out.AssertNotNull = !dst.Nullable
		}

		return out, nil
	}

	if p.derivable(src, dst) {
		fn, err := p.derive(ctx, req, src.Core(), dst.Core())
		if err != nil {
			return convert.Expr{}, err
		}

		s, _ := p.registry.Get(convert.DelegateID(fn))

		return s.Convert(ctx, in, src, dst)
	}

	return convert.Expr{}, &NoConverterError{Source: src, Dest: dst}
}

// convertible reports, without side effects, whether convertValue would
// find a conversion for m.
func (p *pass) convertible(m *ResolvedPropertyMapping, dst analyze.TypeRef) bool {
	if m.Type.IsZero() {
		return true
	}

	return p.canConvert(m.Type, dst, m.Enable)
}

func (p *pass) canConvert(src, dst analyze.TypeRef, enable []string) bool {
	if _, ok := p.registry.FindBest(p.graph, src, dst, enable); ok {
		return true
	}

	if srcElem, dstElem, ok := sliceElems(src, dst); ok {
		return p.canConvert(srcElem, dstElem, enable)
	}

	return p.derivable(src, dst)
}

func (p *pass) derivable(src, dst analyze.TypeRef) bool {
	if !p.config.DeriveNested {
		return false
	}

	_, srcErr := p.structInfo(src.Core())
	_, dstErr := p.structInfo(dst.Core())

	return srcErr == nil && dstErr == nil
}

// derive plans the nested mapping function of (src, dst) on behalf of
// parent. The delegate is registered before planning, so references back to
// the pair compile to calls.
func (p *pass) derive(ctx *convert.Context, parent *Request, src, dst analyze.TypeRef) (analyze.FuncRef, error) {
	key := convert.PairKey(src, dst)
	if fn, ok := p.derived[key]; ok {
		return fn, nil
	}

	if max := p.config.MaxRecursionDepth; max > 0 && ctx.Depth >= max {
		p.diags.AddError(diagnostic.CodeMaxRecursionDepth,
			fmt.Sprintf("not deriving %s: depth %d reached", key, ctx.Depth), parent.Pair(), "")

		return analyze.FuncRef{}, fmt.Errorf("%s: %w", key, ErrMaxRecursionDepth)
	}

	req := Request{
		Kind:     parent.Kind,
		Func:     derivedFunc(parent.Func, src, dst),
		Param:    "src",
		Source:   src,
		Target:   dst,
		Priority: convert.PriorityDerived,
		Derived:  true,
	}

	p.derived[key] = req.Func
	p.registry.Register(convert.NewDelegate(req.Record()))
	p.logger.Debug("deriving nested mapping", "func", req.Func.String(), "parent", parent.Func.String())

	plan, err := p.build(ctx.Child(req.Func), &req)
	if err != nil {
		return analyze.FuncRef{}, fmt.Errorf("derive %s: %w", req.Func, err)
	}

	p.pending = append(p.pending, *plan)

	return req.Func, nil
}

// derivedFunc names the nested function map<Src>To<Dst> next to parent.
func derivedFunc(parent analyze.FuncRef, src, dst analyze.TypeRef) analyze.FuncRef {
	return analyze.FuncRef{
		PkgPath: parent.PkgPath,
		Recv:    parent.Recv,
		Name:    "map" + src.ID.Name + "To" + dst.ID.Name,
	}
}

func sliceElems(src, dst analyze.TypeRef) (analyze.TypeRef, analyze.TypeRef, bool) {
	if src.ID != analyze.SliceID || dst.ID != analyze.SliceID || len(src.Args) != 1 || len(dst.Args) != 1 {
		return analyze.TypeRef{}, analyze.TypeRef{}, false
	}

	return src.Args[0], dst.Args[0], true
}

// recordLift returns how far record priorities are raised so that every
// record outranks the delegates of requests, whatever their priority.
func recordLift(requests []Request) int {
	top := convert.PriorityDerived

	for i := range requests {
		top = max(top, requests[i].Priority)
	}

	if top < convert.PriorityRecorded {
		return 0
	}

	return top - convert.PriorityRecorded + 1
}
