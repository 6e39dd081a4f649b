// Package match implements the name and tag filters applied during pull.
//
// Name patterns support a single '*' placeholder meaning zero or more
// characters; a pattern without '*' requires exact, case-sensitive equality.
// Tag filters are conjunctive equality checks of the form key=='value'.
package match

import (
	"fmt"
	"strings"

	kverrors "github.com/onmitsuX/key-vault-manager/internal/errors"
)

// TagExpression is a single tag filter. Comparison is exact string equality;
// there is no regex or numeric form.
type TagExpression struct {
	Key   string
	Value string
}

func (e TagExpression) String() string {
	return fmt.Sprintf("%s=='%s'", e.Key, e.Value)
}

// ValidatePattern rejects patterns with more than one '*'. Called once at flag
// parse time so match calls never fail.
func ValidatePattern(pattern string) error {
	if strings.Count(pattern, "*") > 1 {
		return kverrors.ConfigError{
			Field:      "pattern",
			Value:      pattern,
			Message:    "at most one '*' wildcard is supported",
			Suggestion: "Use a single '*' as a placeholder, e.g. 'proj-*-kv'",
		}
	}
	return nil
}

// MatchName reports whether candidate matches pattern. The pattern's single
// '*' matches zero or more characters; without one, candidate must equal
// pattern exactly. Matching is case-sensitive.
func MatchName(candidate, pattern string) bool {
	star := strings.IndexByte(pattern, '*')
	if star < 0 {
		return candidate == pattern
	}
	prefix := pattern[:star]
	suffix := pattern[star+1:]
	if len(candidate) < len(prefix)+len(suffix) {
		return false
	}
	return strings.HasPrefix(candidate, prefix) && strings.HasSuffix(candidate, suffix)
}

// MatchTags reports whether tags satisfy every expression. An empty expression
// list matches everything. A key absent from tags is a non-match, not an error.
func MatchTags(tags map[string]string, exprs []TagExpression) bool {
	for _, expr := range exprs {
		value, ok := tags[expr.Key]
		if !ok || value != expr.Value {
			return false
		}
	}
	return true
}

// ParseTagExpression parses a key=='value' filter. The single quotes around
// the value are optional. A missing '==' is a configuration error.
func ParseTagExpression(raw string) (TagExpression, error) {
	idx := strings.Index(raw, "==")
	if idx < 0 {
		return TagExpression{}, kverrors.ConfigError{
			Field:      "tags",
			Value:      raw,
			Message:    "tag filter must use the form key=='value'",
			Suggestion: "Example: --tags \"env=='prod'\"",
		}
	}
	key := strings.TrimSpace(raw[:idx])
	if key == "" {
		return TagExpression{}, kverrors.ConfigError{
			Field:      "tags",
			Value:      raw,
			Message:    "tag filter key is empty",
			Suggestion: "Example: --tags \"env=='prod'\"",
		}
	}
	value := strings.TrimSpace(raw[idx+2:])
	if len(value) >= 2 && strings.HasPrefix(value, "'") && strings.HasSuffix(value, "'") {
		value = value[1 : len(value)-1]
	}
	return TagExpression{Key: key, Value: value}, nil
}

// ParseTagExpressions parses a list of raw filters, failing on the first
// malformed one.
func ParseTagExpressions(raw []string) ([]TagExpression, error) {
	exprs := make([]TagExpression, 0, len(raw))
	for _, r := range raw {
		expr, err := ParseTagExpression(r)
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, expr)
	}
	return exprs, nil
}
