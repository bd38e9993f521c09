package models

import "strings"

// Preferences is the collector's declared taste, stored as JSON on the user row.
type Preferences struct {
	Budget  string   `json:"budget,omitempty"`
	Context string   `json:"context,omitempty"`
	Styles  []string `json:"styles"`
}

// Empty reports whether nothing has been declared yet.
func (p Preferences) Empty() bool {
	return strings.TrimSpace(p.Budget) == "" && strings.TrimSpace(p.Context) == "" && len(p.Styles) == 0
}

// Normalized trims every field, lowercases the context and drops blank or
// duplicate styles while keeping the first spelling seen.
func (p Preferences) Normalized() Preferences {
	out := Preferences{
		Budget:  strings.TrimSpace(p.Budget),
		Context: strings.ToLower(strings.TrimSpace(p.Context)),
		Styles:  make([]string, 0, len(p.Styles)),
	}
	seen := make(map[string]struct{}, len(p.Styles))
	for _, style := range p.Styles {
		trimmed := strings.TrimSpace(style)
		if trimmed == "" {
			continue
		}
		key := strings.ToLower(trimmed)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out.Styles = append(out.Styles, trimmed)
	}
	return out
}
