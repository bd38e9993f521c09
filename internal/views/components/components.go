package components

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/a-h/templ"
)

// NavLink is one entry of the top navigation.
type NavLink struct {
	Label   string
	Path    string
	Section string
}

// NavData drives the navigation bar.
type NavData struct {
	Active   string
	UserName string
	Links    []NavLink
}

// ArtworkCardData is what a gallery tile shows.
type ArtworkCardData struct {
	ID         uint
	Title      string
	ArtistName string
	Price      float64
	ImageURL   string
	Medium     string
	Tags       []string
	Score      float64
	Reason     string
	// Likeable shows the inline like toggle with Liked and Likes.
	Likeable bool
	Liked    bool
	Likes    int64
}

func linkState(section, active string) string {
	if section == active {
		return "active"
	}
	return "inactive"
}

// FormatPrice renders a whole-dollar amount with thousands separators.
func FormatPrice(value float64) string {
	whole := fmt.Sprintf("%.0f", value)
	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return "$" + b.String()
}

// Nav renders the application bar.
func Nav(data NavData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		m := NewMarkup(ctx, w)
		m.Raw(`<nav class="nav"><a class="brand" href="/app">artmatch</a><ul>`)
		for _, link := range data.Links {
			m.Printf(`<li><a href="%s" data-state="%s">%s</a></li>`, templ.URL(link.Path), linkState(link.Section, data.Active), link.Label)
		}
		m.Raw(`</ul>`)
		if data.UserName != "" {
			m.Printf(`<span class="nav-user">%s</span>`, data.UserName)
		}
		m.Raw(`<form method="post" action="/logout"><button type="submit">Sign out</button></form></nav>`)
		return m.Err()
	})
}

// Flash renders a status message, or nothing when message is empty.
func Flash(message string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if strings.TrimSpace(message) == "" {
			return nil
		}
		m := NewMarkup(ctx, w)
		m.Printf(`<p class="flash" role="status">%s</p>`, message)
		return m.Err()
	})
}

// TagList renders tags as chips.
func TagList(tags []string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if len(tags) == 0 {
			return nil
		}
		m := NewMarkup(ctx, w)
		m.Raw(`<ul class="tags">`)
		for _, tag := range tags {
			m.Printf(`<li>%s</li>`, tag)
		}
		m.Raw(`</ul>`)
		return m.Err()
	})
}

// EmotionBars renders emotion weights as percentage bars, strongest first.
func EmotionBars(emotions map[string]float64) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if len(emotions) == 0 {
			return nil
		}
		names := make([]string, 0, len(emotions))
		for name := range emotions {
			names = append(names, name)
		}
		sort.Slice(names, func(i, j int) bool {
			if emotions[names[i]] == emotions[names[j]] {
				return names[i] < names[j]
			}
			return emotions[names[i]] > emotions[names[j]]
		})

		m := NewMarkup(ctx, w)
		m.Raw(`<dl class="emotions">`)
		for _, name := range names {
			pct := int(emotions[name]*100 + 0.5)
			m.Printf(`<dt>%s</dt><dd><span class="bar" style="width:%d%%"></span>%d%%</dd>`, name, pct, pct)
		}
		m.Raw(`</dl>`)
		return m.Err()
	})
}

// StatCard renders a headline figure.
func StatCard(title, value, caption string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		m := NewMarkup(ctx, w)
		m.Printf(`<div class="stat"><p class="stat-title">%s</p><p class="stat-value">%s</p>`, title, value)
		if caption != "" {
			m.Printf(`<p class="stat-caption">%s</p>`, caption)
		}
		m.Raw(`</div>`)
		return m.Err()
	})
}

// ArtworkCard renders a gallery tile. Score and reason are shown when a reason is set.
func ArtworkCard(card ArtworkCardData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		m := NewMarkup(ctx, w)
		m.Printf(`<article class="card" data-artwork-id="%d"><a href="/app/artworks/%d">`, card.ID, card.ID)
		if card.ImageURL != "" {
			m.Printf(`<img src="%s" alt="%s" loading="lazy">`, templ.URL(card.ImageURL), card.Title)
		}
		m.Printf(`<h3>%s</h3></a>`, card.Title)
		if card.ArtistName != "" {
			m.Printf(`<p class="artist">%s</p>`, card.ArtistName)
		}
		m.Printf(`<p class="price">%s</p>`, FormatPrice(card.Price))
		if card.Medium != "" {
			m.Printf(`<p class="medium">%s</p>`, card.Medium)
		}
		m.Render(TagList(card.Tags))
		if card.Reason != "" {
			m.Printf(`<p class="reason" data-score="%g">%s</p>`, card.Score, card.Reason)
		}
		if card.Likeable {
			m.Render(LikeButton(card.ID, card.Liked, card.Likes))
		}
		m.Raw(`</article>`)
		return m.Err()
	})
}

// Choice renders a labelled radio button or checkbox.
func Choice(kind, name, value, label string, checked bool) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		m := NewMarkup(ctx, w)
		m.Printf(`<label><input type="%s" name="%s" value="%s"`, kind, name, value)
		if checked {
			m.Raw(` checked`)
		}
		m.Printf(`> %s</label>`, label)
		return m.Err()
	})
}

// LikeButton renders the like toggle. The form swaps itself after the toggle request.
func LikeButton(id uint, liked bool, count int64) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		label := "Like"
		if liked {
			label = "Liked"
		}
		m := NewMarkup(ctx, w)
		m.Printf(`<form class="like" method="post" action="/app/api/artworks/%d/like" hx-post="/app/api/artworks/%d/like" hx-swap="outerHTML" data-liked="%t">`, id, id, liked)
		m.Printf(`<button type="submit" aria-pressed="%t">%s</button>`, liked, label)
		m.Printf(`<span class="like-count">%s</span></form>`, likeLabel(count))
		return m.Err()
	})
}

func likeLabel(count int64) string {
	if count == 1 {
		return "1 like"
	}
	return fmt.Sprintf("%d likes", count)
}
