// Package recommend scores catalog artworks against a collector's declared
// preferences and ranks them.
//
// The engine is a pure function of its inputs: it performs no I/O, keeps no
// state between calls and never mutates the artworks it is given, so a single
// Engine may be shared by every request goroutine.
package recommend

import (
	"sort"
	"strings"
	"time"
)

// Artwork is the catalog view the scorer works on. Emotions is nil for records
// that were never profiled.
type Artwork struct {
	ID         uint
	Title      string
	Price      float64
	ImageURL   string
	Medium     string
	Dimensions string
	Tags       []string
	Emotions   map[string]float64
	ArtistID   uint
	ArtistName string
	CreatedAt  time.Time
}

// Preferences is what a collector declared during onboarding or in settings.
type Preferences struct {
	Budget  string
	Context string
	Styles  []string
}

// ScoredArtwork pairs an artwork with its relevance score and the single reason
// shown to the collector.
type ScoredArtwork struct {
	Artwork
	Score  float64
	Reason string
}

// Engine applies a rule set. The zero value is not usable; call NewEngine.
type Engine struct {
	rules Rules
}

// NewEngine builds an engine from rules. Context names and emotion dimensions
// are lowercased once here so matching stays case-insensitive.
func NewEngine(rules Rules) *Engine {
	if rules.Limit <= 0 {
		rules.Limit = DefaultLimit
	}
	return &Engine{rules: rules.clone()}
}

// Rules returns a copy of the engine's rule set.
func (e *Engine) Rules() Rules {
	return e.rules.clone()
}

// Bounds parses the collector's budget into the price filter for the catalog query.
func (e *Engine) Bounds(prefs Preferences) Range {
	return ParseBudget(prefs.Budget)
}

// Recommend scores artworks and returns the top results, best first.
func (e *Engine) Recommend(prefs Preferences, artworks []Artwork) []ScoredArtwork {
	return e.Rank(e.Score(prefs, artworks))
}

// Score annotates every artwork with a score and reason, preserving input order.
func (e *Engine) Score(prefs Preferences, artworks []Artwork) []ScoredArtwork {
	styles := make(map[string]struct{}, len(prefs.Styles))
	for _, style := range prefs.Styles {
		if key := normalize(style); key != "" {
			styles[key] = struct{}{}
		}
	}
	contextRule, hasContext := e.rules.Contexts[normalize(prefs.Context)]

	scored := make([]ScoredArtwork, len(artworks))
	for i, artwork := range artworks {
		var (
			score         float64
			tagReason     string
			contextReason string
		)

		if matched := matchTags(artwork.Tags, styles); len(matched) > 0 {
			score += e.rules.TagWeight * float64(len(matched))
			tagReason = tagMatchReasonPrefix + strings.Join(matched, ", ")
		}

		if hasContext && artwork.Emotions != nil {
			sum := emotionSum(artwork.Emotions, contextRule.Dimensions)
			if sum > e.rules.ContextThreshold {
				score += e.rules.ContextWeight * sum
				contextReason = contextRule.Reason
			}
		}

		scored[i] = ScoredArtwork{
			Artwork: artwork,
			Score:   score,
			Reason:  firstReason(tagReason, contextReason, ReasonFallback),
		}
	}
	return scored
}

// Rank orders scored artworks by descending score and keeps the first Limit.
// Equal scores keep their input order.
func (e *Engine) Rank(scored []ScoredArtwork) []ScoredArtwork {
	ranked := make([]ScoredArtwork, len(scored))
	copy(ranked, scored)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	if len(ranked) > e.rules.Limit {
		ranked = ranked[:e.rules.Limit]
	}
	return ranked
}

// matchTags returns the artwork tags, in their original casing, that appear in
// styles. A tag repeated with different casing is only counted once.
func matchTags(tags []string, styles map[string]struct{}) []string {
	if len(tags) == 0 || len(styles) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(tags))
	var matched []string
	for _, tag := range tags {
		key := normalize(tag)
		if _, ok := styles[key]; !ok {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		matched = append(matched, strings.TrimSpace(tag))
	}
	return matched
}

func emotionSum(emotions map[string]float64, dimensions []string) float64 {
	var sum float64
	for _, dim := range dimensions {
		sum += emotions[dim]
	}
	return sum
}

func firstReason(candidates ...string) string {
	for _, candidate := range candidates {
		if candidate != "" {
			return candidate
		}
	}
	return ReasonFallback
}
