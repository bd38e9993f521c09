package pages

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"

	"artmatch/internal/views/components"
	"artmatch/internal/views/layout"
)

// Navigation sections.
const (
	SectionGallery     = "gallery"
	SectionPreferences = "preferences"
	SectionArtist      = "artist"
)

// DashboardData is the collector's recommendation view.
type DashboardData struct {
	UserName        string
	Budget          string
	Context         string
	Styles          []string
	Message         string
	Recommendations []components.ArtworkCardData
}

// Navigation builds the nav bar for the signed-in user.
func Navigation(active, userName string, artist bool) templ.Component {
	links := []components.NavLink{
		{Label: "Gallery", Path: "/app", Section: SectionGallery},
		{Label: "Preferences", Path: "/app/onboarding?edit=1", Section: SectionPreferences},
	}
	if artist {
		links = []components.NavLink{
			{Label: "My artworks", Path: "/app/artist", Section: SectionArtist},
		}
	}
	return components.Nav(components.NavData{Active: active, UserName: userName, Links: links})
}

// Dashboard renders the full recommendations page.
func Dashboard(data DashboardData) templ.Component {
	return layout.Layout("Your gallery · artmatch", Navigation(SectionGallery, data.UserName, false), DashboardPartial(data))
}

// DashboardPartial renders the recommendations section alone.
func DashboardPartial(data DashboardData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		m := components.NewMarkup(ctx, w)
		m.Raw(`<section id="recommendations">`)
		m.Raw(`<header><h1>Curated for you</h1><p class="summary">`)
		m.Printf(`Budget %s`, DefaultDash(data.Budget))
		if data.Context != "" {
			m.Printf(` · for your %s`, data.Context)
		}
		if len(data.Styles) > 0 {
			m.Printf(` · %s`, strings.Join(data.Styles, ", "))
		}
		m.Raw(`</p></header>`)
		m.Render(components.Flash(data.Message))
		if len(data.Recommendations) == 0 {
			m.Raw(`<p class="empty">No artworks match your budget yet. Try widening it in your preferences.</p>`)
		} else {
			m.Raw(`<div class="grid">`)
			for _, card := range data.Recommendations {
				m.Render(components.ArtworkCard(card))
			}
			m.Raw(`</div>`)
		}
		m.Raw(`</section>`)
		return m.Err()
	})
}

// DefaultDash returns a dash placeholder when value is blank.
func DefaultDash(value string) string {
	if strings.TrimSpace(value) == "" {
		return "—"
	}
	return value
}
