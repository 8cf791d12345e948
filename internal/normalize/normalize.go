// Package normalize maps raw CUR header tokens to canonical column names:
// lower-case, underscore separated, stable across repeated application.
package normalize

import (
	"fmt"
	"strings"
	"unicode"
)

// Func maps one raw header token to one canonical column name.
type Func func(string) string

// Policy selects the normalization variant.
type Policy string

const (
	// PolicySymbol treats ':', '/' and '.' as separators and snake-cases the
	// whole token. It is the default.
	PolicySymbol Policy = "symbol"
	// PolicySlash only rewrites tokens containing '/', snake-casing each
	// slash-delimited segment independently.
	PolicySlash Policy = "slash"
)

var symbolReplacer = strings.NewReplacer(":", "_", "/", "_", ".", "_")

// ParsePolicy accepts "", "symbol" or "slash" (case-insensitive).
func ParsePolicy(s string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolicySymbol:
		return PolicySymbol, nil
	case PolicySlash:
		return PolicySlash, nil
	default:
		return "", fmt.Errorf("normalize: unknown policy %q (use symbol or slash)", s)
	}
}

// ForPolicy returns the normalizer implementing p.
func ForPolicy(p Policy) (Func, error) {
	switch p {
	case "", PolicySymbol:
		return Symbol, nil
	case PolicySlash:
		return Slash, nil
	default:
		return nil, fmt.Errorf("normalize: unknown policy %q", p)
	}
}

// Symbol replaces every ':', '/' and '.' with '_', snake-cases the result and
// collapses repeated underscores.
//
//	resource_tags_user:kubernetes.io/cluster/name -> resource_tags_user_kubernetes_io_cluster_name
func Symbol(token string) string {
	if token == "" {
		return token
	}
	s := lowerSnake(symbolReplacer.Replace(token))
	s = collapseUnderscores(s)
	return strings.TrimPrefix(s, "_")
}

// Slash leaves tokens without '/' untouched. Otherwise every segment between
// slashes is snake-cased on its own and the segments are joined with '_'.
//
//	lineItem/UsageAmount -> line_item_usage_amount
func Slash(token string) string {
	if !strings.Contains(token, "/") {
		return token
	}
	parts := strings.Split(token, "/")
	for i, p := range parts {
		parts[i] = strings.TrimPrefix(lowerSnake(p), "_")
	}
	return strings.Join(parts, "_")
}

// Header normalizes a header row in place order. Duplicate canonical names are
// kept; each input column yields exactly one output name.
func Header(tokens []string, fn Func) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = fn(t)
	}
	return out
}

// lowerSnake inserts '_' before each upper-case letter and lower-cases it.
func lowerSnake(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 8)
	for _, r := range s {
		if unicode.IsUpper(r) {
			b.WriteByte('_')
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func collapseUnderscores(s string) string {
	if !strings.Contains(s, "__") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	prev := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '_' {
			if prev {
				continue
			}
			prev = true
		} else {
			prev = false
		}
		b.WriteByte(c)
	}
	return b.String()
}
