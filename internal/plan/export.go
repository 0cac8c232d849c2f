package plan

import (
	"gopkg.in/yaml.v3"

	"mapgen/internal/analyze"
	"mapgen/internal/mapping"
)

// ExportSuggestions turns plans back into a mapping file in which every
// resolved mapping is explicit. Loading the file and planning it again
// reproduces the plans, so users can review and pin implicit matches.
// Derived plans are exported as mappings of their own.
func ExportSuggestions(plans []Plan) *mapping.MappingFile {
	mf := &mapping.MappingFile{
		Version:      mapping.DefaultVersion,
		TypeMappings: make([]mapping.TypeMapping, 0, len(plans)),
	}

	for i := range plans {
		mf.TypeMappings = append(mf.TypeMappings, exportPlan(&plans[i]))
	}

	return mf
}

// ExportSuggestionsYAML is ExportSuggestions marshaled to YAML.
func ExportSuggestionsYAML(plans []Plan) ([]byte, error) {
	return mapping.Marshal(ExportSuggestions(plans))
}

func exportPlan(p *Plan) mapping.TypeMapping {
	tm := mapping.TypeMapping{
		Kind:   p.Kind,
		Func:   p.Func.String(),
		Source: p.Source.ID.String(),
		Target: p.Target.ID.String(),
		Param:  p.Param,
	}

	for _, e := range p.ExtraParams {
		tm.Extra = append(tm.Extra, mapping.ExtraParam{Name: e.Name, Type: e.Type.String()})
	}

	// A nil constructor is pinned as the empty list, which yields the zero
	// value literal again.
	types := []string{}

	if p.Constructor != nil {
		for _, t := range p.Constructor.ParamTypes() {
			types = append(types, t.String())
		}
	}

	tm.Constructor = &types

	for _, m := range p.Mappings {
		switch {
		case m.Provenance == ProvenanceExtraParam:
		case m.Ignored():
			tm.Ignore = append(tm.Ignore, m.Target)
		default:
			tm.Fields = append(tm.Fields, exportMapping(&m))
		}
	}

	return tm
}

func exportMapping(m *ResolvedPropertyMapping) mapping.Directive {
	d := mapping.Directive{Target: m.Target, Enable: m.Enable}

	switch m.Source {
	case SourceProperty:
		if m.Value != m.Target {
			d.Source = m.Value
		}
	case SourceExpression:
		d.Expression = m.Value
	default:
		d.Constant = m.Value
	}

	return d
}

// planDoc is the YAML view of a plan.
type planDoc struct {
	Func           string            `yaml:"func"`
	Kind           mapping.Kind      `yaml:"kind"`
	Source         string            `yaml:"source"`
	Target         string            `yaml:"target"`
	Derived        bool              `yaml:"derived,omitempty"`
	Constructor    *ctorDoc          `yaml:"constructor,omitempty"`
	Assignments    []bindingDoc      `yaml:"assignments,omitempty"`
	Dropped        []string          `yaml:"dropped,omitempty"`
	NullAssertions []string          `yaml:"null_assertions,omitempty"`
	Extra          map[string]string `yaml:"extra,omitempty"`
}

type ctorDoc struct {
	Name string       `yaml:"name"`
	Args []bindingDoc `yaml:"args,omitempty"`
}

type bindingDoc struct {
	Name     string `yaml:"name"`
	Type     string `yaml:"type"`
	Value    string `yaml:"value"`
	Strategy string `yaml:"strategy,omitempty"`
}

// ExportYAML renders plans as YAML for tooling and review.
func ExportYAML(plans []Plan) ([]byte, error) {
	docs := make([]planDoc, 0, len(plans))

	for i := range plans {
		p := &plans[i]
		doc := planDoc{
			Func:           p.Func.String(),
			Kind:           p.Kind,
			Source:         p.Source.String(),
			Target:         p.Target.String(),
			Derived:        p.Derived,
			Assignments:    bindingDocs(p.Assignments),
			Dropped:        p.Dropped,
			NullAssertions: p.NullAssertions,
		}

		if p.Constructor != nil {
			doc.Constructor = &ctorDoc{Name: p.Constructor.Name, Args: bindingDocs(p.Args)}
		}

		if len(p.ExtraParams) > 0 {
			doc.Extra = make(map[string]string, len(p.ExtraParams))
			for _, e := range p.ExtraParams {
				doc.Extra[e.Name] = e.Type.String()
			}
		}

		docs = append(docs, doc)
	}

	return yaml.Marshal(docs)
}

func bindingDocs(list []Binding) []bindingDoc {
	out := make([]bindingDoc, 0, len(list))
	for _, b := range list {
		out = append(out, bindingDoc{
			Name:     b.Name,
			Type:     typeString(b.Type),
			Value:    b.Value.String(),
			Strategy: b.Value.Strategy,
		})
	}

	return out
}

func typeString(t analyze.TypeRef) string {
	if t.IsZero() {
		return ""
	}

	return t.String()
}
