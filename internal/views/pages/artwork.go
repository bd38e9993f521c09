package pages

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"artmatch/internal/views/components"
	"artmatch/internal/views/layout"
)

// ArtworkDetailData describes a single artwork page.
type ArtworkDetailData struct {
	UserName   string
	Artist     bool
	ID         uint
	Title      string
	ArtistName string
	Price      float64
	ImageURL   string
	Medium     string
	Dimensions string
	Tags       []string
	Emotions   map[string]float64
	Liked      bool
	LikeCount  int64
}

// ArtworkDetail renders the artwork page with its like button.
func ArtworkDetail(data ArtworkDetailData) templ.Component {
	section := SectionGallery
	if data.Artist {
		section = SectionArtist
	}
	content := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		m := components.NewMarkup(ctx, w)
		m.Printf(`<article class="artwork" data-artwork-id="%d">`, data.ID)
		if data.ImageURL != "" {
			m.Printf(`<img src="%s" alt="%s">`, templ.URL(data.ImageURL), data.Title)
		}
		m.Printf(`<div class="details"><h1>%s</h1>`, data.Title)
		if data.ArtistName != "" {
			m.Printf(`<p class="artist">by %s</p>`, data.ArtistName)
		}
		m.Printf(`<p class="price">%s</p>`, components.FormatPrice(data.Price))
		m.Printf(`<dl><dt>Medium</dt><dd>%s</dd><dt>Dimensions</dt><dd>%s</dd></dl>`, DefaultDash(data.Medium), DefaultDash(data.Dimensions))
		m.Render(components.TagList(data.Tags))
		m.Render(components.EmotionBars(data.Emotions))
		m.Render(components.LikeButton(data.ID, data.Liked, data.LikeCount))
		m.Raw(`</div></article>`)
		return m.Err()
	})
	return layout.Layout(data.Title+" · artmatch", Navigation(section, data.UserName, data.Artist), content)
}
