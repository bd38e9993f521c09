package recommend

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
)

// Reason strings surfaced to collectors.
const (
	ReasonFallback       = "Fits your overall aesthetic"
	tagMatchReasonPrefix = "Matches your interest in "
)

// Context names accepted in user preferences.
const (
	ContextHome       = "home"
	ContextOffice     = "office"
	ContextCollection = "collection"
)

// DefaultLimit caps the number of recommendations returned per request.
const DefaultLimit = 20

// ContextRule maps a display context onto the emotion dimensions that suit it.
type ContextRule struct {
	Dimensions []string `json:"dimensions"`
	Reason     string   `json:"reason"`
}

// Rules holds the weights and tables driving the scorer.
type Rules struct {
	// TagWeight is added once per artwork tag that matches a declared style.
	TagWeight float64 `json:"tag_weight"`
	// ContextWeight multiplies the summed emotion dimensions of a context match.
	ContextWeight float64 `json:"context_weight"`
	// ContextThreshold must be exceeded by the emotion sum before it counts.
	ContextThreshold float64                `json:"context_threshold"`
	Contexts         map[string]ContextRule `json:"contexts"`
	Limit            int                    `json:"limit"`
}

// DefaultRules returns the rule set the product ships with.
func DefaultRules() Rules {
	return Rules{
		TagWeight:        10,
		ContextWeight:    5,
		ContextThreshold: 0.5,
		Limit:            DefaultLimit,
		Contexts: map[string]ContextRule{
			ContextHome: {
				Dimensions: []string{"calm", "peaceful", "serene"},
				Reason:     "Perfect for a relaxing home environment",
			},
			ContextOffice: {
				Dimensions: []string{"energetic", "structured", "bold"},
				Reason:     "Provides energy and focus for your workspace",
			},
			ContextCollection: {
				Dimensions: []string{"majestic", "mystical", "raw"},
				Reason:     "Unique piece for high-end curation",
			},
		},
	}
}

// LoadRules reads a JSON rule file. Fields missing from the file keep their
// DefaultRules value; a contexts object replaces the default table wholesale.
func LoadRules(path string) (Rules, error) {
	rules := DefaultRules()
	if strings.TrimSpace(path) == "" {
		return rules, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, fmt.Errorf("read rules file: %w", err)
	}

	var overlay struct {
		TagWeight        *float64               `json:"tag_weight"`
		ContextWeight    *float64               `json:"context_weight"`
		ContextThreshold *float64               `json:"context_threshold"`
		Contexts         map[string]ContextRule `json:"contexts"`
		Limit            *int                   `json:"limit"`
	}
	if err := json.Unmarshal(data, &overlay); err != nil {
		return Rules{}, fmt.Errorf("decode rules file: %w", err)
	}

	if overlay.TagWeight != nil {
		rules.TagWeight = *overlay.TagWeight
	}
	if overlay.ContextWeight != nil {
		rules.ContextWeight = *overlay.ContextWeight
	}
	if overlay.ContextThreshold != nil {
		rules.ContextThreshold = *overlay.ContextThreshold
	}
	if overlay.Limit != nil {
		rules.Limit = *overlay.Limit
	}
	if len(overlay.Contexts) > 0 {
		rules.Contexts = overlay.Contexts
	}

	if err := rules.Validate(); err != nil {
		return Rules{}, err
	}
	return rules, nil
}

// Validate rejects rule sets that could produce negative scores or empty pages.
func (r Rules) Validate() error {
	if r.TagWeight < 0 || r.ContextWeight < 0 {
		return errors.New("rules: weights must not be negative")
	}
	if r.ContextThreshold < 0 {
		return errors.New("rules: context threshold must not be negative")
	}
	if r.Limit <= 0 {
		return errors.New("rules: limit must be positive")
	}
	for name, rule := range r.Contexts {
		if strings.TrimSpace(name) == "" {
			return errors.New("rules: context name must not be empty")
		}
		if len(rule.Dimensions) == 0 {
			return fmt.Errorf("rules: context %q has no emotion dimensions", name)
		}
	}
	return nil
}

// KnownContext reports whether name has a rule in the table.
func (r Rules) KnownContext(name string) bool {
	_, ok := r.Contexts[normalize(name)]
	return ok
}

// ContextNames lists the contexts in the table in alphabetical order.
func (r Rules) ContextNames() []string {
	names := make([]string, 0, len(r.Contexts))
	for name := range r.Contexts {
		names = append(names, normalize(name))
	}
	sort.Strings(names)
	return names
}

func (r Rules) clone() Rules {
	out := r
	out.Contexts = make(map[string]ContextRule, len(r.Contexts))
	for name, rule := range r.Contexts {
		dims := make([]string, len(rule.Dimensions))
		for i, dim := range rule.Dimensions {
			dims[i] = normalize(dim)
		}
		out.Contexts[normalize(name)] = ContextRule{Dimensions: dims, Reason: rule.Reason}
	}
	return out
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
