package moves

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/movegraph/pkg/errors"
)

func TestListUnmarshalJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  List
	}{
		{"array", `["a","b"]`, List{"a", "b"}},
		{"single string", `"a"`, List{"a"}},
		{"empty string", `""`, nil},
		{"null", `null`, nil},
		{"empty array", `[]`, List{}},
		{"blank entries dropped", `["a",""]`, List{"a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got List
			if err := json.Unmarshal([]byte(tt.input), &got); err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}
			if len(got) != len(tt.want) || (len(got) > 0 && !reflect.DeepEqual(got, tt.want)) {
				t.Errorf("got %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestListUnmarshalJSONRejectsNested(t *testing.T) {
	for _, input := range []string{`[["a"]]`, `[{"a":1}]`, `{"a":1}`} {
		var l List
		if err := json.Unmarshal([]byte(input), &l); err == nil {
			t.Errorf("Unmarshal(%s): expected error", input)
		}
	}
}

func TestLabelUnmarshalJSON(t *testing.T) {
	tests := []struct {
		input string
		want  Label
	}{
		{`"Guard"`, "Guard"},
		{`["Guard"]`, "Guard"},
		{`["Guard","Pass"]`, "Guard,Pass"},
		{`null`, ""},
		{`[]`, ""},
	}

	for _, tt := range tests {
		var got Label
		if err := json.Unmarshal([]byte(tt.input), &got); err != nil {
			t.Fatalf("Unmarshal(%s): %v", tt.input, err)
		}
		if got != tt.want {
			t.Errorf("Unmarshal(%s) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestListMarshalJSON(t *testing.T) {
	data, err := json.Marshal(struct {
		A List `json:"a"`
		B List `json:"b"`
	}{B: List{"x"}})
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"a":[],"b":["x"]}` {
		t.Errorf("got %s", data)
	}
}

func TestReadFileJSON(t *testing.T) {
	ms, err := ReadFile(filepath.Join("testdata", "moveset.json"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}

	if got := ms.Names(); !reflect.DeepEqual(got, []string{"Double Leg Takedown", "Knee Slice", "Top Full Guard"}) {
		t.Errorf("Names() = %v", got)
	}

	tfg := ms["Top Full Guard"]
	if tfg.Type != "Guard" || tfg.Area != "Ground" || tfg.SubType != "None" {
		t.Errorf("labels = %q/%q/%q", tfg.Type, tfg.Area, tfg.SubType)
	}
	if len(tfg.Path) != 0 {
		t.Errorf("Path = %v, want empty", tfg.Path)
	}
	if tfg.Distance == nil || *tfg.Distance != 1 {
		t.Errorf("Distance = %v, want 1", tfg.Distance)
	}
	if tfg.Control == nil || *tfg.Control != 9.0 {
		t.Errorf("Control = %v, want 9", tfg.Control)
	}
	if ms["Knee Slice"].Video == "" {
		t.Error("Video not decoded")
	}
}

func TestReadFileYAML(t *testing.T) {
	ms, err := ReadFile(filepath.Join("testdata", "moveset.yaml"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(ms) != 2 {
		t.Fatalf("len = %d, want 2", len(ms))
	}
	if ms["Pass"].Type != "Pass" {
		t.Errorf("Pass.Type = %q", ms["Pass"].Type)
	}
	if !reflect.DeepEqual([]string(ms["Pass"].Parents), []string{"Guard"}) {
		t.Errorf("Pass.Parents = %v", ms["Pass"].Parents)
	}
	if !reflect.DeepEqual([]string(ms["Guard"].Children), []string{"Pass"}) {
		t.Errorf("Guard.Children = %v", ms["Guard"].Children)
	}
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "nope.json"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("err = %v, want FILE_NOT_FOUND", err)
	}
}

func TestParseInvalid(t *testing.T) {
	_, err := Parse([]byte(`{"Guard": {"children": {"Pass": 1}}}`), FormatJSON)
	if !errors.Is(err, errors.ErrCodeInvalidMoveset) {
		t.Errorf("err = %v, want INVALID_MOVESET", err)
	}

	_, err = Parse([]byte(`{}`), Format("toml"))
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("err = %v, want INVALID_FORMAT", err)
	}
}

func TestParseScalarListItems(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		format Format
		want   []string
	}{
		{"json numbers", `{"Guard": {"path": [1, 2.5, true]}}`, FormatJSON, []string{"1", "2.5", "true"}},
		{"json bare number", `{"Guard": {"path": 3}}`, FormatJSON, []string{"3"}},
		{"yaml numbers", "Guard:\n  path: [1, two, 3]\n", FormatYAML, []string{"1", "two", "3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ms, err := Parse([]byte(tt.data), tt.format)
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if got := []string(ms["Guard"].Path); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Path = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseEmpty(t *testing.T) {
	for _, input := range []string{"", "  \n", "{}", "null"} {
		ms, err := Parse([]byte(input), FormatJSON)
		if err != nil {
			t.Fatalf("Parse(%q): %v", input, err)
		}
		if ms == nil || len(ms) != 0 {
			t.Errorf("Parse(%q) = %v, want empty moveset", input, ms)
		}
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := map[string]Format{
		"moveset.json":                 FormatJSON,
		"moveset.YAML":                 FormatYAML,
		"moves.yml":                    FormatYAML,
		"https://example.com/moveset":  FormatJSON,
		"https://example.com/set.yaml": FormatYAML,
	}
	for path, want := range tests {
		if got := FormatFromPath(path); got != want {
			t.Errorf("FormatFromPath(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestWriteJSONRoundTrip(t *testing.T) {
	ms, err := ReadFile(filepath.Join("testdata", "moveset.json"))
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := WriteJSON(&buf, ms); err != nil {
		t.Fatal(err)
	}
	again, err := Decode(&buf, FormatJSON)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(ms.Names(), again.Names()) {
		t.Errorf("names changed: %v vs %v", ms.Names(), again.Names())
	}
	if again["Top Full Guard"].Type != "Guard" {
		t.Errorf("Type lost in round trip")
	}
}

func TestMovesetAdd(t *testing.T) {
	ms := Moveset{"Guard": {}}
	if err := ms.Add("Pass", Record{Parents: List{"Guard"}}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := ms.Add("Guard", Record{}); err == nil {
		t.Error("expected duplicate error")
	}
	if err := ms.Add("a/b", Record{}); !errors.Is(err, errors.ErrCodeInvalidMoveset) {
		t.Errorf("err = %v, want INVALID_MOVESET", err)
	}
}

func TestSnippet(t *testing.T) {
	out, err := Snippet("Knee Slice", Record{Parents: List{"Top Full Guard"}, Type: "Pass"})
	if err != nil {
		t.Fatal(err)
	}
	s := string(out)
	if !strings.HasPrefix(s, `"Knee Slice": {`) {
		t.Errorf("snippet prefix: %s", s)
	}
	if !strings.Contains(s, `"type": "Pass"`) || !strings.Contains(s, `"children": []`) {
		t.Errorf("snippet body: %s", s)
	}

	// The snippet must splice into an object and decode back.
	ms, err := Parse([]byte("{"+s+"}"), FormatJSON)
	if err != nil {
		t.Fatalf("snippet does not parse: %v", err)
	}
	if ms["Knee Slice"].Type != "Pass" {
		t.Errorf("round trip Type = %q", ms["Knee Slice"].Type)
	}
}
