package cli

import (
	"path/filepath"
	"slices"
	"testing"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty defaults to svg", "", []string{"svg"}},
		{"single format", "png", []string{"png"}},
		{"multiple formats", "svg,pdf,png", []string{"svg", "pdf", "png"}},
		{"spaces and empty items", " svg , ,cytoscape", []string{"svg", "cytoscape"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseFormats(tt.input); !slices.Equal(got, tt.want) {
				t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestOutputPaths(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		formats []string
		want    map[string]string
	}{
		{
			name:    "default base",
			formats: []string{"svg", "png"},
			want:    map[string]string{"svg": "moveset.svg", "png": "moveset.png"},
		},
		{
			name:    "single format with extension",
			output:  "out/diagram.svg",
			formats: []string{"svg"},
			want:    map[string]string{"svg": "out/diagram.svg"},
		},
		{
			name:    "stdout",
			output:  "-",
			formats: []string{"json"},
			want:    map[string]string{"json": "-"},
		},
		{
			name:    "base path",
			output:  "build/graph",
			formats: []string{"svg", "cytoscape"},
			want:    map[string]string{"svg": "build/graph.svg", "cytoscape": "build/graph.cy.json"},
		},
		{
			name:    "known extension stripped",
			output:  "graph.cy.json",
			formats: []string{"dot", "cytoscape"},
			want:    map[string]string{"dot": "graph.dot", "cytoscape": "graph.cy.json"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := outputPaths(tt.output, "moveset", tt.formats)
			if len(got) != len(tt.want) {
				t.Fatalf("outputPaths() = %v, want %v", got, tt.want)
			}
			for f, p := range tt.want {
				if got[f] != p {
					t.Errorf("outputPaths()[%q] = %q, want %q", f, got[f], p)
				}
			}
		})
	}
}

func TestTrimFormatExt(t *testing.T) {
	tests := map[string]string{
		"graph.svg":     "graph",
		"graph.cy.json": "graph",
		"graph.json":    "graph",
		"graph.txt":     "graph.txt",
		"graph":         "graph",
	}
	for in, want := range tests {
		if got := trimFormatExt(in); got != want {
			t.Errorf("trimFormatExt(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestInputBase(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{nil, "moveset"},
		{[]string{"data/bjj.yaml"}, "data/bjj"},
		{[]string{"moves.json"}, "moves"},
		{[]string{"https://example.com/sets/bjj.json"}, "bjj"},
	}
	for _, tt := range tests {
		if got := inputBase(tt.args); got != tt.want {
			t.Errorf("inputBase(%v) = %q, want %q", tt.args, got, tt.want)
		}
	}
}

func TestWriteFileCreatesParents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "out.svg")
	if err := writeFile(path, []byte("<svg/>")); err != nil {
		t.Fatalf("writeFile() error: %v", err)
	}
}
