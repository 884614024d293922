package loader

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// EnvLoader loads configuration from environment variables.
type EnvLoader struct {
	prefix  string            // Environment variable prefix (e.g., "ROHAN_")
	mapping map[string]string // Env var -> config path
	environ func() []string
}

// NewEnvLoader creates a new environment variable loader.
// The prefix should include the trailing underscore (e.g., "ROHAN_").
func NewEnvLoader(prefix string) *EnvLoader {
	return NewEnvLoaderWithEnviron(prefix, os.Environ)
}

// NewEnvLoaderWithEnviron creates an environment loader that reads
// variables from environ instead of the process environment.
func NewEnvLoaderWithEnviron(prefix string, environ func() []string) *EnvLoader {
	return &EnvLoader{
		prefix:  prefix,
		mapping: defaultEnvMapping(prefix),
		environ: environ,
	}
}

// defaultEnvMapping returns shorthand variables that do not follow the
// SECTION_SETTING scheme.
func defaultEnvMapping(prefix string) map[string]string {
	return map[string]string{
		prefix + "LOG_LEVEL":  "logging.level",
		prefix + "LOG_FORMAT": "logging.format",
	}
}

// AddMapping adds a custom environment variable mapping.
func (l *EnvLoader) AddMapping(envVar, configPath string) {
	if l.mapping == nil {
		l.mapping = make(map[string]string)
	}
	l.mapping[envVar] = configPath
}

// Load reads environment variables and returns a configuration map.
// Note: Empty string values are treated as valid values, not as unset.
func (l *EnvLoader) Load() (map[string]any, error) {
	config := make(map[string]any)

	for _, env := range l.environ() {
		name, value, ok := strings.Cut(env, "=")
		if !ok || !strings.HasPrefix(name, l.prefix) {
			continue
		}
		path, mapped := l.mapping[name]
		if !mapped {
			// ROHAN_SCRIPT_INSTRUCTION_LIMIT -> script.instructionLimit
			path = l.envToPath(name)
		}
		setByPath(config, path, parseValue(value))
	}

	return config, nil
}

// envToPath converts ROHAN_ENGINE_CHECK_INVARIANTS to
// engine.checkInvariants.
func (l *EnvLoader) envToPath(env string) string {
	name := strings.TrimPrefix(env, l.prefix)
	section, setting, ok := strings.Cut(name, "_")
	if !ok {
		return strings.ToLower(name)
	}

	parts := strings.Split(setting, "_")
	var sb strings.Builder
	sb.WriteString(strings.ToLower(parts[0]))
	for _, part := range parts[1:] {
		if part != "" {
			sb.WriteString(strings.ToUpper(part[:1]) + strings.ToLower(part[1:]))
		}
	}
	return strings.ToLower(section) + "." + sb.String()
}

// parseValue attempts to parse the string value into an appropriate type.
func parseValue(s string) any {
	if s == "" {
		return s
	}

	switch strings.ToLower(s) {
	case "true", "yes", "on":
		return true
	case "false", "no", "off":
		return false
	}

	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}

	// Try float (only if it contains a decimal point to avoid misinterpreting ints)
	if strings.Contains(s, ".") {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}

	if d, err := time.ParseDuration(s); err == nil {
		return d
	}

	return s
}

// setByPath sets a value in a nested map using a dot-separated path.
func setByPath(data map[string]any, path string, value any) {
	parts := strings.Split(path, ".")
	current := data
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(map[string]any)
		if !ok {
			next = make(map[string]any)
			current[part] = next
		}
		current = next
	}
	current[parts[len(parts)-1]] = value
}
