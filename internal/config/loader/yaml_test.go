package loader

import (
	"errors"
	"strings"
	"testing"
)

func TestYAMLLoader_Load(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/rohan.yaml", `
logging:
  level: warn
  format: json
script:
  instructionLimit: 100
`)

	config, err := NewYAMLLoaderWithFS(memfs, "/rohan.yaml").Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if v, _ := getByPath(config, "logging.format"); v != "json" {
		t.Errorf("logging.format = %v, want 'json'", v)
	}
	if v, _ := getByPath(config, "script.instructionLimit"); v != 100 {
		t.Errorf("script.instructionLimit = %v (%T), want 100", v, v)
	}
}

func TestYAMLLoader_LoadNonExistent(t *testing.T) {
	config, err := NewYAMLLoaderWithFS(NewMemFS(), "/missing.yaml").Load()
	if err != nil || config != nil {
		t.Errorf("Load() = %v, %v; want nil, nil", config, err)
	}
}

func TestYAMLLoader_LoadInvalid(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/bad.yaml", "logging:\n  level: [unclosed\n")

	_, err := NewYAMLLoaderWithFS(memfs, "/bad.yaml").Load()
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ParseError, got %T: %v", err, err)
	}
	if pe.Path != "/bad.yaml" || pe.Line == 0 {
		t.Errorf("ParseError = %+v", pe)
	}
}

func TestYAMLLoader_LoadFromReader(t *testing.T) {
	config, err := NewYAMLLoader("").LoadFromReader(strings.NewReader("engine:\n  checkInvariants: true\n"))
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := getByPath(config, "engine.checkInvariants"); v != true {
		t.Errorf("engine.checkInvariants = %v", v)
	}
}
