package pages

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"

	"artmatch/internal/views/components"
	"artmatch/internal/views/layout"
)

// Option is a selectable value with a display label.
type Option struct {
	Value string
	Label string
}

// BudgetOptions are the preset ranges offered by the wizard.
var BudgetOptions = []Option{
	{Value: "0-500", Label: "Under $500"},
	{Value: "500-2000", Label: "$500 - $2,000"},
	{Value: "2000-10000", Label: "$2,000 - $10,000"},
	{Value: "10000+", Label: "$10,000+"},
}

var contextLabels = map[string]string{
	"home":       "Home · warm and personal",
	"office":     "Office · professional space",
	"collection": "Collection · curated portfolio",
}

// ContextOptions labels the configured display contexts. Contexts without a
// known label are shown by name.
func ContextOptions(names []string) []Option {
	options := make([]Option, 0, len(names))
	for _, name := range names {
		label, ok := contextLabels[name]
		if !ok && name != "" {
			label = strings.ToUpper(name[:1]) + name[1:]
		}
		options = append(options, Option{Value: name, Label: label})
	}
	return options
}

// StyleOptions are the style tags offered by the wizard.
var StyleOptions = []string{
	"Minimalist", "Pop Art", "Impressionism", "Abstract",
	"Contemporary", "Street Art", "Classic", "Surrealism",
	"Cyberpunk", "Art Deco", "Expressionism", "Renaissance",
	"Bauhaus", "Baroque", "Photography", "Sculpture",
}

// OnboardingData pre-fills the preference wizard.
type OnboardingData struct {
	UserName string
	Message  string
	Budget   string
	Context  string
	Contexts []string
	Styles   []string
	Editing  bool
}

// Onboarding renders the preference wizard.
func Onboarding(data OnboardingData) templ.Component {
	var nav templ.Component
	if data.Editing {
		nav = Navigation(SectionPreferences, data.UserName, false)
	}
	return layout.Layout("Your taste · artmatch", nav, OnboardingForm(data))
}

// OnboardingForm renders the wizard form alone.
func OnboardingForm(data OnboardingData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		selected := make(map[string]bool, len(data.Styles))
		for _, style := range data.Styles {
			selected[strings.ToLower(style)] = true
		}

		m := components.NewMarkup(ctx, w)
		m.Raw(`<section id="onboarding"><h1>Tell us about your taste</h1>`)
		m.Render(components.Flash(data.Message))
		m.Raw(`<form method="post" action="/app/onboarding" hx-post="/app/onboarding" hx-target="#onboarding" hx-swap="outerHTML">`)

		m.Raw(`<fieldset><legend>What's your preferred budget?</legend>`)
		for _, option := range BudgetOptions {
			m.Render(components.Choice("radio", "budget", option.Value, option.Label, option.Value == data.Budget))
		}
		m.Raw(`</fieldset>`)

		if len(data.Contexts) > 0 {
			m.Raw(`<fieldset><legend>Where will it hang?</legend>`)
			for _, option := range ContextOptions(data.Contexts) {
				m.Render(components.Choice("radio", "context", option.Value, option.Label, option.Value == data.Context))
			}
			m.Raw(`</fieldset>`)
		}

		m.Raw(`<fieldset><legend>Which styles do you love?</legend>`)
		for _, style := range StyleOptions {
			m.Render(components.Choice("checkbox", "styles", style, style, selected[strings.ToLower(style)]))
		}
		m.Raw(`</fieldset><button type="submit">Show my matches</button></form></section>`)
		return m.Err()
	})
}
