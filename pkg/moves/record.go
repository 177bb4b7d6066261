package moves

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/movegraph/pkg/errors"
)

// Format names a moveset encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Record is one entry of a moveset, keyed by move name.
//
// Only Children is used to create edges. Parents and Path are carried for
// tooltips and tooling. The rating fields are optional and never affect the
// diagram.
type Record struct {
	Path     List   `json:"path" yaml:"path"`
	Parents  List   `json:"parents" yaml:"parents"`
	Children List   `json:"children" yaml:"children"`
	Area     Label  `json:"area,omitempty" yaml:"area,omitempty"`
	Type     Label  `json:"type,omitempty" yaml:"type,omitempty"`
	SubType  Label  `json:"sub_type,omitempty" yaml:"sub_type,omitempty"`
	Image    string `json:"image,omitempty" yaml:"image,omitempty"`
	Video    string `json:"video,omitempty" yaml:"video,omitempty"`

	Distance *int     `json:"distance,omitempty" yaml:"distance,omitempty"`
	NumGrips *int     `json:"num_grips,omitempty" yaml:"num_grips,omitempty"`
	Control  *float64 `json:"control,omitempty" yaml:"control,omitempty"`
}

// Moveset maps move names to their records.
type Moveset map[string]Record

// Names returns the move names in ascending order.
func (m Moveset) Names() []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Validate rejects blank move names. Any other key is a valid node ID, so
// names are only checked further where they become file names (see Add and
// Snippet). References between moves are not checked; dangling children are
// tolerated by the graph builder.
func (m Moveset) Validate() error {
	for _, name := range m.Names() {
		if strings.TrimSpace(name) == "" {
			return errors.New(errors.ErrCodeInvalidMoveset, "move name cannot be empty")
		}
	}
	return nil
}

// Decode reads a moveset in the given format from r.
func Decode(r io.Reader, format Format) (Moveset, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read moveset: %w", err)
	}
	return Parse(data, format)
}

// Parse decodes a moveset from data. An empty document yields an empty moveset.
func Parse(data []byte, format Format) (Moveset, error) {
	ms := Moveset{}
	if len(bytes.TrimSpace(data)) == 0 {
		return ms, nil
	}

	var err error
	switch format {
	case FormatJSON, "":
		err = json.Unmarshal(data, &ms)
	case FormatYAML:
		err = yaml.Unmarshal(data, &ms)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported moveset format: %s", format)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidMoveset, err, "decode %s moveset", format)
	}
	if ms == nil {
		ms = Moveset{}
	}
	return ms, nil
}

// FormatFromPath picks a format from a file extension, defaulting to JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// ReadFile decodes the moveset stored at path.
func ReadFile(path string) (Moveset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "moveset %s not found", path)
		}
		return nil, errors.Wrap(errors.ErrCodeFetch, err, "read moveset %s", path)
	}
	return Parse(data, FormatFromPath(path))
}

// WriteJSON encodes the moveset as indented JSON with keys in sorted order.
func WriteJSON(w io.Writer, m Moveset) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(m)
}
