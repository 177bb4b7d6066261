package moves

import (
	"bytes"
	"encoding/json"

	"github.com/matzehuels/movegraph/pkg/errors"
)

// Add inserts a new move. It fails if the name is invalid or already taken.
func (m Moveset) Add(name string, rec Record) error {
	if err := errors.ValidateMoveName(name); err != nil {
		return err
	}
	if _, exists := m[name]; exists {
		return errors.New(errors.ErrCodeInvalidInput, "move %q already exists", name)
	}
	m[name] = rec
	return nil
}

// Snippet renders a single moveset entry as a JSON object member, ready to
// be pasted into a moveset file:
//
//	"Top Full Guard": {
//	  "path": [],
//	  ...
//	}
func Snippet(name string, rec Record) ([]byte, error) {
	if err := errors.ValidateMoveName(name); err != nil {
		return nil, err
	}
	key, err := json.Marshal(name)
	if err != nil {
		return nil, err
	}
	body, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.Write(key)
	buf.WriteString(": ")
	buf.Write(body)
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
