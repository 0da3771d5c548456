package pipeline

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
)

// SecretNames is the closed set of secrets a workflow may reference.
// Referencing anything else is a hard error rather than an empty expansion.
var SecretNames = []string{
	"PG_DATABASE",
	"PG_USER",
	"PG_PASSWORD",
	"SLACK_WEBHOOK_URL",
	"SERVICE_ID",
	"RENDER_API_KEY",
	"DOCKER_USERNAME",
	"DOCKER_PASSWORD",
}

// Secrets holds resolved secret values keyed by name. Values must never be
// written to logs or reports; use Redact on any text that could contain them.
type Secrets map[string]string

// SecretsFromEnv reads the known secret names from the environment.
// Missing values stay absent so that only workflows which reference them fail.
func SecretsFromEnv() Secrets {
	s := make(Secrets, len(SecretNames))
	for _, name := range SecretNames {
		if v, ok := os.LookupEnv(name); ok {
			s[name] = v
		}
	}
	return s
}

var secretRefPattern = regexp.MustCompile(`\$\{\{\s*secrets\.([A-Za-z_][A-Za-z0-9_]*)\s*\}\}`)

// Interpolate replaces every ${{ secrets.NAME }} reference in input with its
// value. A reference to a name outside SecretNames, or to a secret with no
// value, fails the whole expansion.
func (s Secrets) Interpolate(input string) (string, error) {
	var refErr error
	out := secretRefPattern.ReplaceAllStringFunc(input, func(match string) string {
		name := secretRefPattern.FindStringSubmatch(match)[1]
		if !knownSecret(name) {
			if refErr == nil {
				refErr = fmt.Errorf("unknown secret %q", name)
			}
			return match
		}
		v, ok := s[name]
		if !ok {
			if refErr == nil {
				refErr = fmt.Errorf("secret %q is not set", name)
			}
			return match
		}
		return v
	})
	if refErr != nil {
		return "", refErr
	}
	return out, nil
}

// InterpolateEnv expands secret references in every value of an env map.
func (s Secrets) InterpolateEnv(env map[string]string) (map[string]string, error) {
	if len(env) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(env))
	for k, v := range env {
		expanded, err := s.Interpolate(v)
		if err != nil {
			return nil, fmt.Errorf("env %s: %w", k, err)
		}
		out[k] = expanded
	}
	return out, nil
}

// Redact masks every secret value occurring in text. Longer values are
// replaced first so overlapping secrets cannot leak a suffix.
func (s Secrets) Redact(text string) string {
	values := make([]string, 0, len(s))
	for _, v := range s {
		if v != "" {
			values = append(values, v)
		}
	}
	sort.Slice(values, func(i, j int) bool { return len(values[i]) > len(values[j]) })
	for _, v := range values {
		text = strings.ReplaceAll(text, v, "***")
	}
	return text
}

func knownSecret(name string) bool {
	for _, n := range SecretNames {
		if n == name {
			return true
		}
	}
	return false
}
