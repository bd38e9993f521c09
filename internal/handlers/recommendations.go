package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"artmatch/internal/db"
	applog "artmatch/internal/log"
	"artmatch/internal/recommend"
	"artmatch/internal/validation"
	"artmatch/models"
)

type recommendationResponse struct {
	ID                   uint               `json:"id"`
	Title                string             `json:"title"`
	Price                float64            `json:"price"`
	ImageURL             string             `json:"image_url"`
	Medium               string             `json:"medium"`
	Dimensions           string             `json:"dimensions"`
	Tags                 []string           `json:"tags"`
	Emotions             map[string]float64 `json:"emotions,omitempty"`
	ArtistID             uint               `json:"artist_id"`
	ArtistName           string             `json:"artist_name"`
	CreatedAt            time.Time          `json:"created_at"`
	RecommendationScore  float64            `json:"recommendation_score"`
	RecommendationReason string             `json:"recommendation_reason"`
}

type preferencesResponse struct {
	Preferences     models.Preferences       `json:"preferences"`
	Bounds          recommend.Range          `json:"bounds"`
	Recommendations []recommendationResponse `json:"recommendations"`
}

type preferencesRequest struct {
	Budget  string   `json:"budget" validate:"omitempty,budget"`
	Context string   `json:"context"`
	Styles  []string `json:"styles" validate:"max=32,dive,max=64"`
}

// Preferences serves the collector's taste profile. GET returns the stored
// preferences with the ranked recommendations they produce; PUT and POST replace them.
func Preferences(w http.ResponseWriter, r *http.Request) {
	if database == nil {
		applog.Debug(r.Context(), "preferences request without database")
		writeJSONError(w, http.StatusServiceUnavailable, "service unavailable")
		return
	}

	switch r.Method {
	case http.MethodGet, http.MethodHead:
		showRecommendations(w, r)
	case http.MethodPut, http.MethodPost:
		updatePreferences(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func showRecommendations(w http.ResponseWriter, r *http.Request) {
	user, err := loadCurrentUser(r)
	if err != nil {
		writeUserLoadError(w, r, err)
		return
	}

	prefs, bounds, ranked, err := recommendationsFor(r.Context(), user)
	switch {
	case errors.Is(err, errPreferencesMissing):
		writeJSONError(w, http.StatusNotFound, errPreferencesMissing.Error())
		return
	case errors.Is(err, errCatalogUnavailable):
		writeJSONError(w, http.StatusServiceUnavailable, errCatalogUnavailable.Error())
		return
	case err != nil:
		applog.Error(r.Context(), "failed to build recommendations", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to load recommendations")
		return
	}

	items := make([]recommendationResponse, 0, len(ranked))
	for _, item := range ranked {
		items = append(items, projectRecommendation(item))
	}
	writeJSON(w, http.StatusOK, preferencesResponse{
		Preferences:     prefs,
		Bounds:          bounds,
		Recommendations: items,
	})
}

func updatePreferences(w http.ResponseWriter, r *http.Request) {
	user, err := loadCurrentUser(r)
	if err != nil {
		writeUserLoadError(w, r, err)
		return
	}

	var req preferencesRequest
	if err := decodeJSON(r, &req); err != nil {
		applog.Debug(r.Context(), "invalid preferences payload", "error", err)
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	prefs, err := savePreferences(r, user, models.Preferences{
		Budget:  req.Budget,
		Context: req.Context,
		Styles:  req.Styles,
	})
	if err != nil {
		var validationErr *validation.RequestValidationError
		if errors.As(err, &validationErr) {
			writeJSONError(w, http.StatusBadRequest, validationErr.Error())
			return
		}
		applog.Error(r.Context(), "failed to persist preferences", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "failed to save preferences")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":     "Preferences updated",
		"preferences": prefs,
		"bounds":      engine.Bounds(db.PreferenceView(prefs)),
	})
}

// savePreferences validates and stores prefs, marking the user onboarded.
func savePreferences(r *http.Request, user *models.User, prefs models.Preferences) (models.Preferences, error) {
	prefs = prefs.Normalized()
	if err := validation.ValidateStruct(preferencesRequest{Budget: prefs.Budget, Context: prefs.Context, Styles: prefs.Styles}); err != nil {
		return models.Preferences{}, err
	}
	if prefs.Context != "" {
		if err := validation.OneOf("context", prefs.Context, engine.Rules().ContextNames()); err != nil {
			return models.Preferences{}, err
		}
	}

	updates := map[string]any{
		"preferences": datatypes.NewJSONType(prefs),
		"onboarded":   true,
	}
	if err := database.WithContext(r.Context()).Model(user).Updates(updates).Error; err != nil {
		return models.Preferences{}, fmt.Errorf("update preferences: %w", err)
	}
	if sessionManager != nil {
		sessionManager.Put(r.Context(), sessionOnboardedKey, true)
	}

	applog.Info(r.Context(), "preferences updated", "budget", prefs.Budget, "context", prefs.Context, "styles", len(prefs.Styles))
	return prefs, nil
}

// recommendationsFor runs the ranking pipeline for one user: budget bounds,
// catalog query in catalog order, scoring and capped ranking.
func recommendationsFor(ctx context.Context, user *models.User) (models.Preferences, recommend.Range, []recommend.ScoredArtwork, error) {
	prefs := user.Preferences.Data()
	if !user.Onboarded && prefs.Empty() {
		return prefs, recommend.Range{}, nil, errPreferencesMissing
	}

	view := db.PreferenceView(prefs)
	bounds := engine.Bounds(view)
	artworks, err := db.ArtworksInRange(ctx, database, bounds)
	if err != nil {
		applog.Error(ctx, "catalog query failed", "error", err)
		return prefs, bounds, nil, fmt.Errorf("%w: %v", errCatalogUnavailable, err)
	}

	ranked := engine.Recommend(view, db.CatalogView(artworks))
	applog.Debug(ctx, "recommendations ranked", "candidates", len(artworks), "returned", len(ranked))
	return prefs, bounds, ranked, nil
}

func projectRecommendation(item recommend.ScoredArtwork) recommendationResponse {
	tags := item.Tags
	if tags == nil {
		tags = []string{}
	}
	return recommendationResponse{
		ID:                   item.ID,
		Title:                item.Title,
		Price:                item.Price,
		ImageURL:             item.ImageURL,
		Medium:               item.Medium,
		Dimensions:           item.Dimensions,
		Tags:                 tags,
		Emotions:             item.Emotions,
		ArtistID:             item.ArtistID,
		ArtistName:           item.ArtistName,
		CreatedAt:            item.CreatedAt,
		RecommendationScore:  item.Score,
		RecommendationReason: item.Reason,
	}
}

func writeUserLoadError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, errUnauthenticated), errors.Is(err, gorm.ErrRecordNotFound):
		writeJSONError(w, http.StatusUnauthorized, "unauthorized")
	default:
		applog.Error(r.Context(), "unable to load current user", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to load account")
	}
}
