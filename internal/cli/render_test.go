package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gauravm26/vishmaker/pkg/errors"
	"github.com/gauravm26/vishmaker/pkg/pipeline"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "empty defaults to json", input: "", want: []string{pipeline.FormatJSON}},
		{name: "single", input: "svg", want: []string{"svg"}},
		{name: "multiple", input: "json,dot,svg", want: []string{"json", "dot", "svg"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseFormats(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("parseFormats(%q)[%d] = %q, want %q", tt.input, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestArtifactExt(t *testing.T) {
	if got := artifactExt(pipeline.FormatDOTSVG); got != "dot.svg" {
		t.Errorf("artifactExt(dot-svg) = %q, want dot.svg", got)
	}
	if got := artifactExt(pipeline.FormatJSON); got != "json" {
		t.Errorf("artifactExt(json) = %q, want json", got)
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		name   string
		output string
		input  string
		want   string
	}{
		{name: "derived from input", output: "", input: "checkout.json", want: "checkout"},
		{name: "output without extension", output: "out/canvas", input: "checkout.json", want: "out/canvas"},
		{name: "output with format extension", output: "canvas.svg", input: "checkout.json", want: "canvas"},
		{name: "output with unknown extension", output: "canvas.bak", input: "checkout.json", want: "canvas.bak"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := basePath(tt.output, tt.input); got != tt.want {
				t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
			}
		})
	}
}

func TestLoadInput(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "webshop.json")
	doc := `{"flows": [{"id": "f1", "name": "Checkout", "requirements": []}]}`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	in, err := loadInput(path)
	if err != nil {
		t.Fatalf("loadInput() error = %v", err)
	}
	if in.ID != "webshop" {
		t.Errorf("ID = %q, want filename fallback %q", in.ID, "webshop")
	}
	if len(in.Flows) != 1 || in.Flows[0].ID != "f1" {
		t.Errorf("flows not decoded: %+v", in.Flows)
	}
}

func TestLoadInputExplicitID(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "anything.json")
	if err := os.WriteFile(path, []byte(`{"id": "proj-7", "flows": []}`), 0o644); err != nil {
		t.Fatal(err)
	}

	in, err := loadInput(path)
	if err != nil {
		t.Fatalf("loadInput() error = %v", err)
	}
	if in.ID != "proj-7" {
		t.Errorf("ID = %q, want proj-7", in.ID)
	}
}

func TestLoadInputMissingFile(t *testing.T) {
	_, err := loadInput(filepath.Join(t.TempDir(), "nope.json"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestLoadInputMalformed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := loadInput(path)
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("error = %v, want INVALID_INPUT", err)
	}
}
