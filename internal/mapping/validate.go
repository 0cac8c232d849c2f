package mapping

import (
	"fmt"

	"mapgen/internal/analyze"
	"mapgen/internal/diagnostic"
	"mapgen/internal/match"
)

// maxSuggestions bounds the "did you mean" list of a diagnostic.
const maxSuggestions = 3

// Validate validates a mapping definition against the given type graph.
// This is a structural validation step only; convertibility of property
// types is decided when the plan is built.
func Validate(mf *MappingFile, graph *analyze.TypeGraph) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}
	if mf == nil {
		res.AddError("mapping_is_nil", "mapping file is nil", "", "")
		return res
	}

	if graph == nil {
		res.AddError("graph_is_nil", "type graph is nil", "", "")
		return res
	}

	validateConverters(res, mf.Converters, graph)

	for i := range mf.TypeMappings {
		validateTypeMapping(res, &mf.TypeMappings[i], graph)
	}

	return res
}

func validateConverters(res *diagnostic.Diagnostics, defs []ConverterDef, graph *analyze.TypeGraph) {
	seen := map[string]struct{}{}

	for _, def := range defs {
		if _, ok := seen[def.Func]; ok {
			res.AddError("duplicate_converter", fmt.Sprintf("duplicate converter %q", def.Func), "", def.Func)
			continue
		}

		seen[def.Func] = struct{}{}

		if _, err := analyze.ParseFuncRef(def.Func); err != nil {
			res.AddError(diagnostic.CodeConverterDef, err.Error(), "", def.Func)
		}

		for _, ts := range []string{def.Source, def.Target} {
			if _, err := ResolveTypeRef(ts, graph); err != nil {
				res.AddError(diagnostic.CodeConverterDef, err.Error(), "", def.Func)
			}
		}
	}
}

func validateTypeMapping(res *diagnostic.Diagnostics, tm *TypeMapping, graph *analyze.TypeGraph) {
	tpStr := tm.String()

	if !tm.Kind.IsValid() {
		res.AddError("invalid_kind", fmt.Sprintf("invalid kind %q", tm.Kind), tpStr, "")
	}

	if tm.Func != "" {
		if _, err := analyze.ParseFuncRef(tm.Func); err != nil {
			res.AddError("invalid_func", err.Error(), tpStr, "")
		}
	}

	srcT := ResolveTypeID(tm.Source, graph)
	if srcT == nil {
		res.AddError("source_type_not_found", fmt.Sprintf("source type %q not found", tm.Source), tpStr, "")
		return
	}

	dstT := ResolveTypeID(tm.Target, graph)
	if dstT == nil {
		res.AddError("target_type_not_found", fmt.Sprintf("target type %q not found", tm.Target), tpStr, "")
		return
	}

	if tm.Constructor != nil {
		if _, err := ResolveTypeRefs(*tm.Constructor, graph); err != nil {
			res.AddError("invalid_constructor", err.Error(), tpStr, "")
		}
	}

	extras := map[string]struct{}{}

	for _, e := range tm.Extra {
		if e.Name == "" {
			res.AddError("invalid_extra", "extra parameter without a name", tpStr, "")
			continue
		}

		extras[e.Name] = struct{}{}

		if e.Type == "" {
			continue
		}

		if _, err := ResolveTypeRef(e.Type, graph); err != nil {
			res.AddError("invalid_extra", err.Error(), tpStr, e.Name)
		}
	}

	targets := map[string]struct{}{}

	for _, d := range tm.Directives() {
		if d.IsWholeMapping() {
			continue
		}

		validateDirective(res, tpStr, &d, srcT, dstT, extras)

		if _, dup := targets[d.Target]; dup {
			res.AddError("duplicate_target",
				fmt.Sprintf("target %q is named by more than one directive", d.Target), tpStr, d.Target)
		}

		targets[d.Target] = struct{}{}
	}
}

func validateDirective(
	res *diagnostic.Diagnostics,
	tpStr string,
	d *Directive,
	srcT, dstT *analyze.TypeInfo,
	extras map[string]struct{},
) {
	if err := d.Check(); err != nil {
		res.AddError("conflicting_directive", err.Error(), tpStr, d.Target)
	}

	if d.Priority != nil {
		res.AddLint("field_priority", "priority is only honored on the whole mapping", tpStr, d.Target)
	}

	_, isExtra := extras[d.Target]
	if _, ok := dstT.Property(d.Target); !ok && !dstT.HasParam(d.Target) && !isExtra {
		res.AddWarning(diagnostic.CodeUnknownTarget,
			fmt.Sprintf("%s has no property or constructor parameter %q", dstT.ID, d.Target),
			tpStr, d.Target, match.Suggest(d.Target, propertyNames(dstT), maxSuggestions)...)
	}

	if d.Source == "" {
		return
	}

	if _, ok := srcT.Property(d.Source); !ok {
		res.AddWarning(diagnostic.CodeUnknownSource,
			fmt.Sprintf("Ignoring mapping: %s not existing in %s", d.Source, srcT.ID.Name),
			tpStr, d.Target, match.Suggest(d.Source, propertyNames(srcT), maxSuggestions)...)
	}
}

func propertyNames(t *analyze.TypeInfo) []string {
	names := make([]string, len(t.Properties))
	for i, p := range t.Properties {
		names[i] = p.Name
	}

	return names
}
