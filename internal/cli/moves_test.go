package cli

import (
	"bytes"
	"os"
	"strings"
	"testing"

	mgerrors "github.com/matzehuels/movegraph/pkg/errors"
	"github.com/matzehuels/movegraph/pkg/moves"
)

func TestCheckMoveset(t *testing.T) {
	ms := moves.Moveset{
		"Closed Guard":  {Children: moves.List{"Scissor Sweep", "Triangle"}},
		"Scissor Sweep": {Children: moves.List{"Mount"}},
		"Mount":         {Parents: moves.List{"Scissor Sweep"}},
	}

	report, err := checkMoveset(ms)
	if err != nil {
		t.Fatalf("checkMoveset() error: %v", err)
	}
	if report.Moves != 3 || report.Edges != 2 {
		t.Errorf("moves, edges = %d, %d, want 3, 2", report.Moves, report.Edges)
	}
	if report.Problems() != 1 || report.Dangling[0].Target != "Triangle" {
		t.Errorf("Dangling = %+v, want one reference to Triangle", report.Dangling)
	}
	// Closed Guard -> Scissor Sweep is not mirrored in Scissor Sweep's parents.
	if len(report.Asymmetric) != 1 || report.Asymmetric[0].Target != "Scissor Sweep" {
		t.Errorf("Asymmetric = %+v, want Closed Guard -> Scissor Sweep", report.Asymmetric)
	}
	if report.Cyclic {
		t.Error("Cyclic = true for an acyclic moveset")
	}
}

func TestCheckMovesetInvalidName(t *testing.T) {
	_, err := checkMoveset(moves.Moveset{"": {}})
	if err == nil {
		t.Fatal("checkMoveset() accepted an empty move name")
	}
}

func TestRunMovesAddSnippet(t *testing.T) {
	var out bytes.Buffer
	err := runMovesAdd(&out, "Knee Slice", addOpts{parents: []string{"Top Full Guard"}, moveType: "Pass"})
	if err != nil {
		t.Fatalf("runMovesAdd() error: %v", err)
	}
	got := out.String()
	if !strings.HasPrefix(got, `"Knee Slice": {`) {
		t.Errorf("snippet = %q, want a JSON member for Knee Slice", got)
	}
	if !strings.Contains(got, `"Top Full Guard"`) {
		t.Errorf("snippet = %q, missing parent", got)
	}
}

func TestRunMovesAddInto(t *testing.T) {
	for _, name := range []string{"moveset.json", "moveset.yaml"} {
		t.Run(name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			seed := moves.Moveset{"Closed Guard": {Type: "Guard"}}
			if err := writeMoveset(name, seed); err != nil {
				t.Fatal(err)
			}

			opts := addOpts{into: name, parents: []string{"Closed Guard"}, moveType: "Submission"}
			if err := runMovesAdd(&bytes.Buffer{}, "Armbar", opts); err != nil {
				t.Fatalf("runMovesAdd() error: %v", err)
			}

			ms, err := moves.ReadFile(name)
			if err != nil {
				t.Fatal(err)
			}
			rec, ok := ms["Armbar"]
			if !ok {
				t.Fatalf("Armbar not added, moves = %v", ms.Names())
			}
			if rec.Type != "Submission" || len(rec.Parents) != 1 || rec.Parents[0] != "Closed Guard" {
				t.Errorf("Armbar = %+v", rec)
			}
			if ms["Closed Guard"].Type != "Guard" {
				t.Error("existing move was not preserved")
			}
		})
	}
}

func TestRunMovesAddIntoErrors(t *testing.T) {
	t.Chdir(t.TempDir())
	if err := os.WriteFile("moveset.json", []byte(`{"Armbar": {}}`), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		move string
		into string
		code mgerrors.Code
	}{
		{"absolute path", "Kimura", "/tmp/moveset.json", mgerrors.ErrCodeInvalidPath},
		{"parent directory", "Kimura", "../moveset.json", mgerrors.ErrCodeInvalidPath},
		{"duplicate", "Armbar", "moveset.json", mgerrors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := runMovesAdd(&bytes.Buffer{}, tt.move, addOpts{into: tt.into})
			if !mgerrors.Is(err, tt.code) {
				t.Errorf("runMovesAdd() error = %v, want code %s", err, tt.code)
			}
		})
	}
}
