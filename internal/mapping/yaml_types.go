package mapping

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// UnmarshalYAML implements yaml.Unmarshaler for StringArray.
// Accepts either a single string or an array of strings.
func (s *StringArray) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var str string
		if err := node.Decode(&str); err != nil {
			return err
		}

		if str == "" {
			*s = nil
		} else {
			*s = StringArray{str}
		}

		return nil

	case yaml.SequenceNode:
		var arr []string
		if err := node.Decode(&arr); err != nil {
			return err
		}

		*s = arr

		return nil

	default:
		return fmt.Errorf("line %d: expected string or list of strings", node.Line)
	}
}

// MarshalYAML outputs a single string if length is 1, otherwise a list.
func (s StringArray) MarshalYAML() (any, error) {
	if len(s) == 1 {
		return s[0], nil
	}

	return []string(s), nil
}

// UnmarshalYAML accepts a kind name and rejects unknown ones.
func (k *Kind) UnmarshalYAML(node *yaml.Node) error {
	var str string
	if err := node.Decode(&str); err != nil {
		return err
	}

	kind := Kind(str)
	if str != "" && !kind.IsValid() {
		return fmt.Errorf("line %d: invalid kind %q (expected to, from or mapper)", node.Line, str)
	}

	*k = kind

	return nil
}

// UnmarshalYAML accepts a plain name as shorthand for {name: NAME, type: ""}
// and the explicit object form.
func (e *ExtraParam) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		return node.Decode(&e.Name)
	}

	type plain ExtraParam

	return node.Decode((*plain)(e))
}
