package plan

import (
	"fmt"
	"log/slog"

	"mapgen/internal/analyze"
	"mapgen/internal/common"
	"mapgen/internal/diagnostic"
	"mapgen/internal/mapping"
	"mapgen/internal/match"
)

// maxSuggestions bounds the "did you mean" list of a dropped directive.
const maxSuggestions = 3

// Resolver merges directives with implicit same-name matches.
type Resolver struct {
	logger *slog.Logger
	diags  *diagnostic.Diagnostics

	// Strict fails resolution when a mutable target property receives no
	// value.
	Strict bool
}

// NewResolver creates a Resolver reporting into diags. A nil logger logs to
// slog.Default().
func NewResolver(logger *slog.Logger, diags *diagnostic.Diagnostics) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}

	if diags == nil {
		diags = &diagnostic.Diagnostics{}
	}

	return &Resolver{logger: logger, diags: diags}
}

// DeterminePropertyMappings resolves the mappings of target from source:
//  1. directives without a source property: constants, expressions, ignores
//  2. directives binding a source property; unknown sources are dropped
//     with a warning
//  3. extra parameters
//  4. source properties with the name of a target property or constructor
//     parameter
//
// Later steps never override a target resolved by an earlier one. Groups are
// concatenated in this order, each in declaration order.
func (r *Resolver) DeterminePropertyMappings(
	source, target *analyze.TypeInfo,
	directives []mapping.Directive,
	extraParams []analyze.ParamInfo,
) ([]ResolvedPropertyMapping, error) {
	pair := source.ID.String() + "->" + target.ID.String()

	var whole []string

	seen := map[string]struct{}{}

	for i := range directives {
		d := &directives[i]
		if d.IsWholeMapping() {
			whole = append(whole, d.Enable...)
			continue
		}

		if err := d.Check(); err != nil {
			return nil, &ConfigError{Target: target.ID, Property: d.Target, Err: err}
		}

		if _, dup := seen[d.Target]; dup {
			return nil, &ConfigError{Target: target.ID, Property: d.Target, Err: ErrDuplicateTarget}
		}

		seen[d.Target] = struct{}{}
	}

	var (
		res      []ResolvedPropertyMapping
		resolved = map[string]struct{}{}
	)

	add := func(m ResolvedPropertyMapping) {
		res = append(res, m)
		resolved[m.Target] = struct{}{}
	}

	// 1) constants, expressions, ignores
	for _, d := range directives {
		if d.IsWholeMapping() || d.Source != "" && !d.Ignore {
			continue
		}

		m := ResolvedPropertyMapping{
			Target:     d.Target,
			Provenance: ProvenanceExplicit,
			Enable:     enableSet(whole, d.Enable),
		}

		switch {
		case d.Ignore:
			m.Source = SourceIgnored
		case d.Constant != "":
			m.Source, m.Value = SourceConstant, d.Constant
		case d.Expression != "":
			m.Source, m.Value = SourceExpression, d.Expression
		default:
			// Target only: binds the same-named source property in step 2.
			continue
		}

		add(m)
	}

	// 2) explicit source properties
	for _, d := range directives {
		if d.IsWholeMapping() || d.Ignore || d.Constant != "" || d.Expression != "" {
			continue
		}

		name := d.Source
		if name == "" {
			name = d.Target
		}

		prop, ok := source.Property(name)
		if !ok {
			r.dropUnknownSource(pair, source, name, d.Target)
			continue
		}

		add(ResolvedPropertyMapping{
			Target:     d.Target,
			Provenance: ProvenanceExplicit,
			Source:     SourceProperty,
			Value:      prop.Name,
			Type:       prop.Type,
			Enable:     enableSet(whole, d.Enable),
		})
	}

	// 3) extra parameters
	for _, p := range extraParams {
		if _, done := resolved[p.Name]; done {
			continue
		}

		add(ResolvedPropertyMapping{
			Target:     p.Name,
			Provenance: ProvenanceExtraParam,
			Source:     SourceConstant,
			Value:      p.Name,
			Type:       p.Type,
			Enable:     enableSet(whole, nil),
		})
	}

	// 4) implicit same-name properties
	for _, prop := range source.Properties {
		if _, done := resolved[prop.Name]; done {
			continue
		}

		if _, isProp := target.Property(prop.Name); !isProp && !target.HasParam(prop.Name) {
			continue
		}

		add(ResolvedPropertyMapping{
			Target:     prop.Name,
			Provenance: ProvenanceImplicit,
			Source:     SourceProperty,
			Value:      prop.Name,
			Type:       prop.Type,
			Enable:     enableSet(whole, nil),
		})
	}

	if r.Strict {
		if err := checkUnmapped(target, resolved); err != nil {
			return nil, err
		}
	}

	return res, nil
}

func (r *Resolver) dropUnknownSource(pair string, source *analyze.TypeInfo, name, target string) {
	candidates := make([]string, len(source.Properties))
	for i, p := range source.Properties {
		candidates[i] = p.Name
	}

	suggestions := match.Suggest(name, candidates, maxSuggestions)
	msg := fmt.Sprintf("Ignoring mapping: %s not existing in %s", name, source.ID.Name)

	r.diags.AddWarning(diagnostic.CodeUnknownSource, msg, pair, target, suggestions...)
	r.logger.Warn(msg, "pair", pair, "target", target, "suggestions", suggestions)
}

func checkUnmapped(target *analyze.TypeInfo, resolved map[string]struct{}) error {
	for _, p := range target.Properties {
		if _, ok := resolved[p.Name]; !ok && p.Mutable {
			return &ConfigError{Target: target.ID, Property: p.Name, Err: ErrUnmappedTarget}
		}
	}

	return nil
}

// enableSet returns the sorted union of the whole-mapping and property
// enable lists.
func enableSet(whole, own []string) []string {
	return common.SortedSet(whole, own)
}
