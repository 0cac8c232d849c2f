package plan

import (
	"errors"
	"fmt"
	"strings"

	"mapgen/internal/analyze"
)

var (
	// ErrDuplicateTarget is wrapped by a ConfigError when several directives
	// name the same target property.
	ErrDuplicateTarget = errors.New("target property is named by more than one directive")
	// ErrUnmappedTarget is wrapped by a ConfigError in strict mode when a
	// mutable target property receives no value.
	ErrUnmappedTarget = errors.New("target property has no mapping")
	// ErrMaxRecursionDepth is returned when derived requests nest too deep.
	ErrMaxRecursionDepth = errors.New("maximum recursion depth exceeded")
)

// ConfigError reports an invalid directive.
type ConfigError struct {
	Target   analyze.TypeID
	Property string
	Err      error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s.%s: %v", e.Target.Name, e.Property, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// AmbiguousConstructorError is returned when several constructors qualify
// equally.
type AmbiguousConstructorError struct {
	Target     analyze.TypeID
	Candidates []string
}

func (e *AmbiguousConstructorError) Error() string {
	return fmt.Sprintf("%s: ambiguous constructors: %s", e.Target, strings.Join(e.Candidates, ", "))
}

// NoMatchingConstructorError is returned when no constructor can be used.
type NoMatchingConstructorError struct {
	Target analyze.TypeID
	// Explicit is the requested parameter type list, nil when selecting
	// automatically.
	Explicit []analyze.TypeRef
	// Constructor and Missing name the best partially covered constructor
	// and its parameters without a value.
	Constructor string
	Missing     []string
}

func (e *NoMatchingConstructorError) Error() string {
	switch {
	case e.Explicit != nil:
		types := make([]string, len(e.Explicit))
		for i, t := range e.Explicit {
			types[i] = t.String()
		}

		return fmt.Sprintf("%s: no constructor with parameter types (%s)", e.Target, strings.Join(types, ", "))
	case e.Constructor != "":
		return fmt.Sprintf("%s: no matching constructor, %s is missing %s",
			e.Target, e.Constructor, strings.Join(e.Missing, ", "))
	default:
		return fmt.Sprintf("%s: no matching constructor", e.Target)
	}
}

// NoConverterError is returned when no strategy converts a property value.
type NoConverterError struct {
	Target   analyze.TypeID
	Property string
	Source   analyze.TypeRef
	Dest     analyze.TypeRef
}

func (e *NoConverterError) Error() string {
	return fmt.Sprintf("%s.%s: no converter from %s to %s", e.Target.Name, e.Property, e.Source, e.Dest)
}

// Failure is a request that produced no plan.
type Failure struct {
	Request Request
	Err     error
}

func (f Failure) Error() string {
	return fmt.Sprintf("%s: %v", f.Request.Func, f.Err)
}
