package handlers

import (
	"errors"
	"net/http"

	"github.com/a-h/templ"

	applog "artmatch/internal/log"
	"artmatch/internal/recommend"
	"artmatch/internal/views/components"
	"artmatch/internal/views/pages"
	"artmatch/models"
)

// Dashboard renders the collector's ranked recommendations. Artists are sent to their studio.
func Dashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if r.URL.Path != "/app" && r.URL.Path != "/app/" {
		http.NotFound(w, r)
		return
	}

	if sessionRole(r) == models.RoleArtist {
		redirectTo(w, r, "/app/artist")
		return
	}

	user, err := loadCurrentUser(r)
	if err != nil {
		applog.Error(r.Context(), "unable to load current user for dashboard", "error", err)
		redirectToLogin(w, r)
		return
	}

	prefs, _, ranked, err := recommendationsFor(r.Context(), user)
	if errors.Is(err, errPreferencesMissing) {
		redirectTo(w, r, "/app/onboarding")
		return
	}

	data := pages.DashboardData{
		UserName: user.Name,
		Budget:   prefs.Budget,
		Context:  prefs.Context,
		Styles:   prefs.Styles,
		Message:  popFlash(r),
	}
	if err != nil {
		data.Message = "The catalogue is unavailable right now. Please try again shortly."
	}
	data.Recommendations = withLikes(r, recommendationCards(ranked))

	var component templ.Component
	if isHTMX(r) && r.Header.Get("HX-Boosted") != "true" {
		component = pages.DashboardPartial(data)
	} else {
		component = pages.Dashboard(data)
	}
	renderComponent(w, r, component)
}

func recommendationCards(ranked []recommend.ScoredArtwork) []components.ArtworkCardData {
	cards := make([]components.ArtworkCardData, 0, len(ranked))
	for _, item := range ranked {
		cards = append(cards, components.ArtworkCardData{
			ID:         item.ID,
			Title:      item.Title,
			ArtistName: item.ArtistName,
			Price:      item.Price,
			ImageURL:   item.ImageURL,
			Medium:     item.Medium,
			Tags:       item.Tags,
			Score:      item.Score,
			Reason:     item.Reason,
		})
	}
	return cards
}

// withLikes enables the inline like toggle on each card. Cards stay read-only
// when the like state cannot be loaded.
func withLikes(r *http.Request, cards []components.ArtworkCardData) []components.ArtworkCardData {
	userID, ok := currentUserID(r)
	if !ok || len(cards) == 0 {
		return cards
	}

	ids := make([]uint, 0, len(cards))
	for _, card := range cards {
		ids = append(ids, card.ID)
	}
	counts, err := likeCounts(r, ids)
	if err != nil {
		applog.Warn(r.Context(), "unable to load like counts for gallery", "error", err)
		return cards
	}
	liked, err := likedBy(r, userID, ids)
	if err != nil {
		applog.Warn(r.Context(), "unable to load likes for gallery", "error", err)
		return cards
	}

	for i := range cards {
		cards[i].Likeable = true
		cards[i].Likes = counts[cards[i].ID]
		cards[i].Liked = liked[cards[i].ID]
	}
	return cards
}
