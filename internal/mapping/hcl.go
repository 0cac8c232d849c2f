package mapping

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
)

// hclMappingFile represents the top-level structure of an HCL mapping file:
//
//	version = "1"
//
//	mapping "mapper" {
//	  source      = "store.Order"
//	  target      = "warehouse.Order"
//	  constructor = ["int64", "warehouse.Customer"]
//
//	  field "Name" {
//	    source = "FullName"
//	  }
//	  extra "requestID" {
//	    type = "string"
//	  }
//	}
//
//	converter "mapgen/store.ParseStatus" {
//	  source = "string"
//	  target = "store.OrderStatus"
//	}
type hclMappingFile struct {
	Version    string          `hcl:"version,optional"`
	Mappings   []*hclMapping   `hcl:"mapping,block"`
	Converters []*hclConverter `hcl:"converter,block"`
}

type hclMapping struct {
	Kind        string          `hcl:"kind,label"`
	Func        string          `hcl:"func,optional"`
	Source      string          `hcl:"source"`
	Target      string          `hcl:"target"`
	Param       string          `hcl:"param,optional"`
	Priority    *int            `hcl:"priority,optional"`
	Enable      []string        `hcl:"enable,optional"`
	Constructor hcl.Expression  `hcl:"constructor,optional"`
	Ignore      []string        `hcl:"ignore,optional"`
	Fields      []*hclDirective `hcl:"field,block"`
	Extra       []*hclExtra     `hcl:"extra,block"`
}

type hclDirective struct {
	Target     string   `hcl:"target,label"`
	Source     string   `hcl:"source,optional"`
	Constant   string   `hcl:"constant,optional"`
	Expression string   `hcl:"expression,optional"`
	Ignore     bool     `hcl:"ignore,optional"`
	Enable     []string `hcl:"enable,optional"`
	Priority   *int     `hcl:"priority,optional"`
}

type hclExtra struct {
	Name string `hcl:"name,label"`
	Type string `hcl:"type"`
}

type hclConverter struct {
	Func     string `hcl:"func,label"`
	Source   string `hcl:"source"`
	Target   string `hcl:"target"`
	Priority *int   `hcl:"priority,optional"`
	Disabled bool   `hcl:"disabled,optional"`
}

// ParseHCL parses HCL data into a MappingFile.
func ParseHCL(filename string, data []byte) (*MappingFile, error) {
	parser := hclparse.NewParser()

	file, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}

	var parsed hclMappingFile

	diags = gohcl.DecodeBody(file.Body, nil, &parsed)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", filename, diags)
	}

	mf := &MappingFile{Version: parsed.Version}

	for _, m := range parsed.Mappings {
		tm, err := m.typeMapping()
		if err != nil {
			return nil, fmt.Errorf("%s: mapping %q: %w", filename, m.Kind, err)
		}

		mf.TypeMappings = append(mf.TypeMappings, tm)
	}

	for _, c := range parsed.Converters {
		mf.Converters = append(mf.Converters, ConverterDef{
			Func:     c.Func,
			Source:   c.Source,
			Target:   c.Target,
			Priority: c.Priority,
			Disabled: c.Disabled,
		})
	}

	if err := applyDefaults(mf); err != nil {
		return nil, err
	}

	return mf, nil
}

func (m *hclMapping) typeMapping() (TypeMapping, error) {
	kind := Kind(m.Kind)
	if !kind.IsValid() {
		return TypeMapping{}, fmt.Errorf("invalid kind %q (expected to, from or mapper)", m.Kind)
	}

	tm := TypeMapping{
		Kind:     kind,
		Func:     m.Func,
		Source:   m.Source,
		Target:   m.Target,
		Param:    m.Param,
		Priority: m.Priority,
		Enable:   m.Enable,
		Ignore:   m.Ignore,
	}

	ctor, err := decodeConstructor(m.Constructor)
	if err != nil {
		return TypeMapping{}, err
	}

	tm.Constructor = ctor

	for _, f := range m.Fields {
		tm.Fields = append(tm.Fields, Directive{
			Target:     f.Target,
			Source:     f.Source,
			Constant:   f.Constant,
			Expression: f.Expression,
			Ignore:     f.Ignore,
			Enable:     f.Enable,
			Priority:   f.Priority,
		})
	}

	for _, e := range m.Extra {
		tm.Extra = append(tm.Extra, ExtraParam{Name: e.Name, Type: e.Type})
	}

	return tm, nil
}

// decodeConstructor keeps the difference between an absent attribute (nil)
// and an empty list (zero-argument constructor).
func decodeConstructor(expr hcl.Expression) (*[]string, error) {
	if expr == nil {
		return nil, nil
	}

	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, fmt.Errorf("constructor: %w", diags)
	}

	if val.IsNull() {
		return nil, nil
	}

	if !val.CanIterateElements() {
		return nil, fmt.Errorf("constructor: expected a list of type names, got %s", val.Type().FriendlyName())
	}

	types := []string{}

	for it := val.ElementIterator(); it.Next(); {
		_, elem := it.Element()
		if elem.IsNull() || !elem.Type().Equals(cty.String) {
			return nil, fmt.Errorf("constructor: expected a list of type names")
		}

		types = append(types, elem.AsString())
	}

	return &types, nil
}
