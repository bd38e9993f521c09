package pages

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"artmatch/internal/views/components"
	"artmatch/internal/views/layout"
)

// ArtistArtwork is one row of the artist's listing.
type ArtistArtwork struct {
	ID       uint
	Title    string
	Price    float64
	ImageURL string
	Medium   string
	Tags     []string
	Likes    int64
}

// ArtistDashboardData is the artist's own catalogue view.
type ArtistDashboardData struct {
	UserName string
	Message  string
	Artworks []ArtistArtwork
}

// ArtistDashboard renders the artist's listing with the create and import forms.
func ArtistDashboard(data ArtistDashboardData) templ.Component {
	content := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var likes int64
		for _, artwork := range data.Artworks {
			likes += artwork.Likes
		}

		m := components.NewMarkup(ctx, w)
		m.Raw(`<section id="artist"><h1>Your artworks</h1>`)
		m.Render(components.Flash(data.Message))
		m.Raw(`<div class="stats">`)
		m.Render(components.StatCard("Listed", strconv.Itoa(len(data.Artworks)), "artworks in the catalogue"))
		m.Render(components.StatCard("Likes", strconv.FormatInt(likes, 10), "across all your works"))
		m.Raw(`</div>`)

		if len(data.Artworks) == 0 {
			m.Raw(`<p class="empty">You have not listed any artworks yet.</p>`)
		} else {
			m.Raw(`<table><thead><tr><th>Title</th><th>Medium</th><th>Price</th><th>Tags</th><th>Likes</th></tr></thead><tbody>`)
			for _, artwork := range data.Artworks {
				m.Printf(`<tr><td><a href="/app/artworks/%d">%s</a></td><td>%s</td><td>%s</td><td>`,
					artwork.ID, artwork.Title, DefaultDash(artwork.Medium), components.FormatPrice(artwork.Price))
				m.Render(components.TagList(artwork.Tags))
				m.Printf(`</td><td>%d</td></tr>`, artwork.Likes)
			}
			m.Raw(`</tbody></table>`)
		}

		m.Raw(`<h2>List a new artwork</h2>`)
		m.Raw(`<form id="new-artwork" method="post" action="/app/api/artist/artworks">`)
		m.Raw(`<label>Title <input name="title" required></label>`)
		m.Raw(`<label>Price <input name="price" type="number" min="0" step="0.01" required></label>`)
		m.Raw(`<label>Image URL <input name="image_url" type="url"></label>`)
		m.Raw(`<label>Medium <input name="medium"></label>`)
		m.Raw(`<label>Dimensions <input name="dimensions"></label>`)
		m.Raw(`<label>Tags <input name="tags" placeholder="abstract, minimalist"></label>`)
		m.Raw(`<button type="submit">Publish</button></form>`)

		m.Raw(`<h2>Import a catalogue</h2>`)
		m.Raw(`<form method="post" action="/app/api/artist/artworks/import" enctype="multipart/form-data">`)
		m.Raw(`<input type="file" name="file" accept=".csv,.pdf" required>`)
		m.Raw(`<button type="submit">Import</button></form></section>`)
		return m.Err()
	})
	return layout.Layout("Artist studio · artmatch", Navigation(SectionArtist, data.UserName, true), content)
}
