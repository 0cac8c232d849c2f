package mapping

import (
	"errors"
	"fmt"
	"strings"

	"mapgen/internal/common"
)

// Kind is the directive kind a mapping request comes from.
type Kind string

const (
	// KindTo generates a function on the source side: To<Target>(src).
	KindTo Kind = "to"
	// KindFrom generates a function on the target side: From<Source>(src).
	KindFrom Kind = "from"
	// KindMapper generates a method of a mapper type.
	KindMapper Kind = "mapper"
)

// Kinds lists every kind in manifest order.
var Kinds = []Kind{KindTo, KindFrom, KindMapper}

// IsValid returns true if the kind is a recognized value.
func (k Kind) IsValid() bool {
	return k == KindTo || k == KindFrom || k == KindMapper
}

// ErrConflictingDirective is returned when a directive sets more than one of
// source, constant and expression.
var ErrConflictingDirective = errors.New("at most one of source, constant and expression may be set")

// MappingFile represents the root of a mapping definition file.
type MappingFile struct {
	// Version of the mapping schema.
	Version string `yaml:"version,omitempty"`

	// TypeMappings is a list of mapping requests.
	TypeMappings []TypeMapping `yaml:"mappings"`

	// Converters declares hand-written mapping functions usable for delegation.
	Converters []ConverterDef `yaml:"converters,omitempty"`
}

// TypeMapping defines how to map one source type to one target type.
type TypeMapping struct {
	// Kind of the generated function; defaults to mapper.
	Kind Kind `yaml:"kind,omitempty"`

	// Func is the entry point to generate. Derived from kind and types when empty.
	Func string `yaml:"func,omitempty"`

	// Source type identifier (e.g., "store.Order" or full path).
	Source string `yaml:"source"`

	// Target type identifier (e.g., "warehouse.Order" or full path).
	Target string `yaml:"target"`

	// Param is the name of the source parameter. Defaults to "src".
	Param string `yaml:"param,omitempty"`

	// Priority overrides the default priority of the generated delegate.
	Priority *int `yaml:"priority,omitempty"`

	// Enable force-enables strategies for every property of this mapping.
	Enable StringArray `yaml:"enable,omitempty"`

	// Constructor pins the constructor by parameter types; an empty list forces
	// the zero-argument constructor.
	Constructor *[]string `yaml:"constructor,omitempty"`

	// Extra lists parameters passed in besides the source value.
	Extra []ExtraParam `yaml:"extra,omitempty"`

	// OneToOne is a shorthand where keys are source properties and values
	// are target properties.
	OneToOne map[string]string `yaml:"121,omitempty"`

	// Fields holds the property directives.
	Fields []Directive `yaml:"fields,omitempty"`

	// Ignore lists target properties that receive no assignment.
	Ignore []string `yaml:"ignore,omitempty"`
}

// String returns "Source->Target".
func (tm *TypeMapping) String() string {
	return tm.Source + "->" + tm.Target
}

// Directive is a user-authored instruction for one target property. A
// directive with an empty Target applies to the whole mapping.
type Directive struct {
	Target     string      `yaml:"target,omitempty"`
	Source     string      `yaml:"source,omitempty"`
	Constant   string      `yaml:"constant,omitempty"`
	Expression string      `yaml:"expression,omitempty"`
	Ignore     bool        `yaml:"ignore,omitempty"`
	Enable     StringArray `yaml:"enable,omitempty"`
	Priority   *int        `yaml:"priority,omitempty"`
}

// IsWholeMapping reports whether d applies to every property.
func (d *Directive) IsWholeMapping() bool {
	return d.Target == ""
}

// Check enforces that at most one value source is set.
func (d *Directive) Check() error {
	set := 0
	for _, v := range []string{d.Source, d.Constant, d.Expression} {
		if v != "" {
			set++
		}
	}

	if set > 1 {
		return fmt.Errorf("directive for %q: %w", d.Target, ErrConflictingDirective)
	}

	return nil
}

// String renders the directive for diagnostics.
func (d Directive) String() string {
	var parts []string

	if d.Source != "" {
		parts = append(parts, "source="+d.Source)
	}

	if d.Constant != "" {
		parts = append(parts, "constant="+d.Constant)
	}

	if d.Expression != "" {
		parts = append(parts, "expression="+d.Expression)
	}

	if d.Ignore {
		parts = append(parts, "ignore")
	}

	if len(d.Enable) > 0 {
		parts = append(parts, "enable="+strings.Join(d.Enable, ","))
	}

	target := d.Target
	if target == "" {
		target = "*"
	}

	return target + "{" + strings.Join(parts, " ") + "}"
}

// ExtraParam is a named value in scope besides the source object.
type ExtraParam struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// ConverterDef declares a hand-written mapping function.
type ConverterDef struct {
	// Func is the fully qualified entry point, e.g. "mapgen/store.ParseStatus".
	Func string `yaml:"func"`

	// Source is the parameter type.
	Source string `yaml:"source"`

	// Target is the result type.
	Target string `yaml:"target"`

	// Priority of the delegate; defaults to the hand-written priority.
	Priority *int `yaml:"priority,omitempty"`

	// Disabled converters are only used when force-enabled.
	Disabled bool `yaml:"disabled,omitempty"`
}

// StringArray accepts a single string or a list of strings.
type StringArray []string

// Directives returns the directives of tm in canonical form: the whole-mapping
// directive first when present, then Fields, then the 121 shorthand and the
// ignore list expanded in sorted order.
func (tm *TypeMapping) Directives() []Directive {
	var out []Directive

	if tm.Priority != nil || len(tm.Enable) > 0 {
		out = append(out, Directive{Enable: tm.Enable, Priority: tm.Priority})
	}

	out = append(out, tm.Fields...)

	for _, source := range common.SortedKeys(tm.OneToOne) {
		out = append(out, Directive{Target: tm.OneToOne[source], Source: source})
	}

	for _, target := range tm.Ignore {
		out = append(out, Directive{Target: target, Ignore: true})
	}

	return out
}
