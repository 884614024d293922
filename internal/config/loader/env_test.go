package loader

import (
	"strings"
	"testing"
	"time"
)

func envLoader(vars ...string) *EnvLoader {
	return NewEnvLoaderWithEnviron("ROHAN_", func() []string { return vars })
}

func TestEnvLoader_Load(t *testing.T) {
	loader := envLoader(
		"ROHAN_LOG_LEVEL=debug",
		"ROHAN_ENGINE_CHECK_INVARIANTS=true",
		"ROHAN_SCRIPT_INSTRUCTION_LIMIT=42",
		"ROHAN_SCRIPT_TIMEOUT=3s",
		"HOME=/root",
		"ROHANX=ignored",
	)
	config, err := loader.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	tests := []struct {
		path string
		want any
	}{
		{"logging.level", "debug"},
		{"engine.checkInvariants", true},
		{"script.instructionLimit", int64(42)},
		{"script.timeout", 3 * time.Second},
	}
	for _, tt := range tests {
		if got, ok := getByPath(config, tt.path); !ok || got != tt.want {
			t.Errorf("%s = %v (%T), want %v", tt.path, got, got, tt.want)
		}
	}
	if len(config) != 3 {
		t.Errorf("unexpected sections: %v", config)
	}
}

func TestEnvLoader_AddMapping(t *testing.T) {
	loader := envLoader("ROHAN_STRICT=yes")
	loader.AddMapping("ROHAN_STRICT", "engine.checkInvariants")

	config, err := loader.Load()
	if err != nil {
		t.Fatal(err)
	}
	if got, _ := getByPath(config, "engine.checkInvariants"); got != true {
		t.Errorf("engine.checkInvariants = %v", got)
	}
}

func TestEnvLoader_envToPath(t *testing.T) {
	loader := NewEnvLoader("ROHAN_")
	tests := []struct {
		env  string
		want string
	}{
		{"ROHAN_LOGGING_LEVEL", "logging.level"},
		{"ROHAN_ENGINE_PARAGRAPH_KIND", "engine.paragraphKind"},
		{"ROHAN_SCRIPT_INSTRUCTION_LIMIT", "script.instructionLimit"},
		{"ROHAN_VERBOSE", "verbose"},
	}
	for _, tt := range tests {
		if got := loader.envToPath(tt.env); got != tt.want {
			t.Errorf("envToPath(%q) = %q, want %q", tt.env, got, tt.want)
		}
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{"", ""},
		{"on", true},
		{"No", false},
		{"12", int64(12)},
		{"1.5", 1.5},
		{"250ms", 250 * time.Millisecond},
		{"console", "console"},
	}
	for _, tt := range tests {
		if got := parseValue(tt.in); got != tt.want {
			t.Errorf("parseValue(%q) = %v (%T), want %v", tt.in, got, got, tt.want)
		}
	}
}

// getByPath reads a value from a nested map using a dot-separated path.
func getByPath(data map[string]any, path string) (any, bool) {
	parts := strings.Split(path, ".")
	current := data
	for i, part := range parts {
		v, ok := current[part]
		if !ok {
			return nil, false
		}
		if i == len(parts)-1 {
			return v, true
		}
		if current, ok = v.(map[string]any); !ok {
			return nil, false
		}
	}
	return nil, false
}
