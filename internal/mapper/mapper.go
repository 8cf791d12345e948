package mapper

import (
	"fmt"
	"strings"

	"curfmt/internal/normalize"
	"curfmt/internal/schema"
)

// Match decides whether a required column is already present in a header.
type Match string

const (
	// MatchExact requires canonical name equality.
	MatchExact Match = "exact"
	// MatchFuzzy accepts a substring match in either direction once
	// underscores are removed. It can both over- and under-match.
	MatchFuzzy Match = "fuzzy"
)

func ParseMatch(s string) (Match, error) {
	switch Match(strings.ToLower(strings.TrimSpace(s))) {
	case "", MatchExact:
		return MatchExact, nil
	case MatchFuzzy:
		return MatchFuzzy, nil
	default:
		return "", fmt.Errorf("mapper: unknown match mode %q (use exact or fuzzy)", s)
	}
}

// Build derives the output plan from a raw header. Every input column yields
// one output column at the same position, duplicates included. When required
// is non-empty, each required name not found under match is appended.
func Build(raw []string, fn normalize.Func, required []string, match Match) *schema.Plan {
	canon := normalize.Header(raw, fn)

	p := &schema.Plan{
		Output:     canon,
		Source:     make([]int, len(canon), len(canon)+len(required)),
		Index:      make(map[string]int, len(canon)+len(required)),
		InputWidth: len(raw),
	}
	for i, name := range canon {
		p.Source[i] = i
		if _, ok := p.Index[name]; !ok {
			p.Index[name] = i
		}
	}

	for _, req := range required {
		if req == "" || present(p.Output, req, match) {
			continue
		}
		p.Index[req] = len(p.Output)
		p.Output = append(p.Output, req)
		p.Source = append(p.Source, -1)
		p.Appended = append(p.Appended, req)
	}
	return p
}

func present(header []string, req string, match Match) bool {
	if match != MatchFuzzy {
		for _, h := range header {
			if h == req {
				return true
			}
		}
		return false
	}
	r := strings.ReplaceAll(req, "_", "")
	if r == "" {
		return false
	}
	for _, h := range header {
		c := strings.ReplaceAll(h, "_", "")
		if c == "" {
			continue
		}
		if strings.Contains(c, r) || strings.Contains(r, c) {
			return true
		}
	}
	return false
}

// Map realigns one input row to the plan. Short rows are padded with empty
// strings, fields past the input header are dropped, appended columns are
// empty. The result always has p.Width() fields.
func Map(p *schema.Plan, fields []string) []string {
	out := make([]string, len(p.Output))
	for i, src := range p.Source {
		if src >= 0 && src < len(fields) {
			out[i] = fields[src]
		}
	}
	return out
}
