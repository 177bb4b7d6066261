package moves

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// List is a sequence of move names or path steps. Hand-written movesets use a
// JSON array, a bare string, an empty string or null interchangeably; all
// decode here. Numbers and booleans are kept in their text form.
type List []string

// UnmarshalJSON accepts an array of strings, a single string or null.
// The empty string decodes to an empty list.
func (l *List) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	items, err := stringsOf(raw)
	if err != nil {
		return err
	}
	*l = items
	return nil
}

// MarshalJSON encodes an empty list as [] rather than null.
func (l List) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(l))
}

// UnmarshalYAML accepts the same shapes as UnmarshalJSON.
func (l *List) UnmarshalYAML(value *yaml.Node) error {
	var raw any
	if err := value.Decode(&raw); err != nil {
		return err
	}
	items, err := stringsOf(raw)
	if err != nil {
		return err
	}
	*l = items
	return nil
}

// Label is a categorical value such as an area or a type. A list of labels
// collapses into a single comma-joined value, so ["Guard"] equals "Guard".
type Label string

// UnmarshalJSON accepts a string, an array of strings or null.
func (l *Label) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	items, err := stringsOf(raw)
	if err != nil {
		return err
	}
	*l = Label(strings.Join(items, ","))
	return nil
}

// UnmarshalYAML accepts the same shapes as UnmarshalJSON.
func (l *Label) UnmarshalYAML(value *yaml.Node) error {
	var raw any
	if err := value.Decode(&raw); err != nil {
		return err
	}
	items, err := stringsOf(raw)
	if err != nil {
		return err
	}
	*l = Label(strings.Join(items, ","))
	return nil
}

// String returns the label text.
func (l Label) String() string { return string(l) }

func stringsOf(raw any) ([]string, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := scalarText(item)
			if !ok {
				return nil, fmt.Errorf("expected string, got %T", item)
			}
			if s != "" {
				out = append(out, s)
			}
		}
		return out, nil
	default:
		s, ok := scalarText(raw)
		if !ok {
			return nil, fmt.Errorf("expected string or list of strings, got %T", raw)
		}
		if s == "" {
			return nil, nil
		}
		return []string{s}, nil
	}
}

// scalarText formats a decoded scalar. Maps and nested lists are rejected.
func scalarText(v any) (string, bool) {
	switch v := v.(type) {
	case nil:
		return "", true
	case string:
		return v, true
	case bool, int, int64, uint64, float64:
		return fmt.Sprint(v), true
	default:
		return "", false
	}
}
