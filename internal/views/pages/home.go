package pages

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"artmatch/internal/views/components"
	"artmatch/internal/views/layout"
)

// Home renders the public landing page.
func Home(authenticated bool) templ.Component {
	content := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		m := components.NewMarkup(ctx, w)
		m.Raw(`<section class="hero"><h1>Find art that fits your space</h1>`)
		m.Raw(`<p>Tell us your budget, where the piece will hang and the styles you love. `)
		m.Raw(`We rank the catalogue for you and explain every match.</p>`)
		if authenticated {
			m.Raw(`<a class="button" href="/app">Open your gallery</a>`)
		} else {
			m.Raw(`<a class="button" href="/signup">Get started</a> <a href="/login">Sign in</a>`)
		}
		m.Raw(`</section><section class="features">`)
		for _, feature := range [][2]string{
			{"Budget sensitivity", "Only pieces inside your price range are considered."},
			{"Context aware", "Calm works for the home, energetic ones for the office, rare ones for a collection."},
			{"Style matching", "Every shared style tag raises a piece in your ranking."},
		} {
			m.Printf(`<article><h3>%s</h3><p>%s</p></article>`, feature[0], feature[1])
		}
		m.Raw(`</section>`)
		return m.Err()
	})
	return layout.Public("artmatch", content)
}
