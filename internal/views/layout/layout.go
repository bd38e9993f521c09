package layout

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"artmatch/internal/views/components"
)

const stylesheet = `body{font-family:system-ui,sans-serif;margin:0;color:#111;background:#fafaf9}
.nav{display:flex;gap:1rem;align-items:center;padding:1rem 2rem;border-bottom:1px solid #e7e5e4}
.nav ul{display:flex;gap:1rem;list-style:none;margin:0;padding:0;flex:1}
.nav a[data-state=active]{font-weight:700}
main{max-width:72rem;margin:0 auto;padding:2rem}
main.narrow{max-width:28rem}
.grid{display:grid;grid-template-columns:repeat(auto-fill,minmax(16rem,1fr));gap:1.5rem}
.card img{width:100%;aspect-ratio:4/5;object-fit:cover;border-radius:.75rem}
.tags{display:flex;gap:.5rem;list-style:none;padding:0;flex-wrap:wrap}
.tags li{background:#f5f5f4;border-radius:999px;padding:.125rem .625rem;font-size:.8rem}
.reason{color:#4f46e5}
.flash{background:#fef3c7;padding:.75rem 1rem;border-radius:.5rem}
.bar{display:inline-block;height:.5rem;background:#6366f1;margin-right:.5rem}`

// Layout wraps authenticated pages with the navigation bar.
func Layout(title string, nav, content templ.Component) templ.Component {
	return document(title, nav, content, mainClass(nav != nil))
}

// Public wraps pages shown to visitors without a session.
func Public(title string, content templ.Component) templ.Component {
	return document(title, nil, content, mainClass(false))
}

func mainClass(withNav bool) string {
	if withNav {
		return "wide"
	}
	return "narrow"
}

func document(title string, nav, content templ.Component, class string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		m := components.NewMarkup(ctx, w)
		m.Raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		m.Raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		m.Printf(`<title>%s</title>`, title)
		m.Raw(`<script src="https://unpkg.com/htmx.org@2.0.4" defer></script>`)
		m.Raw(`<style>` + stylesheet + `</style></head><body hx-boost="true">`)
		m.Render(nav)
		m.Printf(`<main class="%s" id="content">`, class)
		m.Render(content)
		m.Raw(`</main></body></html>`)
		return m.Err()
	})
}
