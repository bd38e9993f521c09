package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"gorm.io/gorm"

	applog "artmatch/internal/log"
	"artmatch/internal/views/components"
	"artmatch/internal/views/pages"
	"artmatch/models"
)

type likeResponse struct {
	Message string `json:"message"`
	Liked   bool   `json:"liked"`
	Likes   int64  `json:"likes"`
}

// ArtworkDetail renders a single artwork with the viewer's like state.
func ArtworkDetail(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if database == nil {
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	}

	artworkID, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	userID, _ := currentUserID(r)

	var artwork models.Artwork
	err := database.WithContext(r.Context()).Preload("Artist").First(&artwork, artworkID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		applog.Error(r.Context(), "failed to load artwork", "artworkID", artworkID, "error", err)
		http.Error(w, "unable to load artwork", http.StatusInternalServerError)
		return
	}

	liked, count, err := likeState(r, userID, artworkID)
	if err != nil {
		applog.Error(r.Context(), "failed to load like state", "artworkID", artworkID, "error", err)
		http.Error(w, "unable to load artwork", http.StatusInternalServerError)
		return
	}

	artistName := ""
	if artwork.Artist != nil {
		artistName = artwork.Artist.Name
	}
	renderComponent(w, r, pages.ArtworkDetail(pages.ArtworkDetailData{
		UserName:   sessionUserName(r),
		Artist:     sessionRole(r) == models.RoleArtist,
		ID:         artwork.ID,
		Title:      artwork.Title,
		ArtistName: artistName,
		Price:      artwork.Price,
		ImageURL:   artwork.ImageURL,
		Medium:     artwork.Medium,
		Dimensions: artwork.Dimensions,
		Tags:       artwork.Tags,
		Emotions:   artwork.EmotionScores(),
		Liked:      liked,
		LikeCount:  count,
	}))
}

// ToggleLike likes the artwork for the current user, or removes an existing like.
func ToggleLike(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if database == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "service unavailable")
		return
	}

	userID, ok := currentUserID(r)
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	artworkID, ok := pathID(r)
	if !ok {
		writeJSONError(w, http.StatusNotFound, "artwork not found")
		return
	}

	liked, err := toggleLike(r, userID, artworkID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		writeJSONError(w, http.StatusNotFound, "artwork not found")
		return
	}
	if err != nil {
		applog.Error(r.Context(), "failed to toggle like", "artworkID", artworkID, "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to update like")
		return
	}

	_, count, err := likeState(r, userID, artworkID)
	if err != nil {
		applog.Error(r.Context(), "failed to count likes", "artworkID", artworkID, "error", err)
	}

	if isHTMX(r) {
		renderComponent(w, r, components.LikeButton(artworkID, liked, count))
		return
	}

	message := "Unliked"
	if liked {
		message = "Liked"
	}
	writeJSON(w, http.StatusOK, likeResponse{Message: message, Liked: liked, Likes: count})
}

func toggleLike(r *http.Request, userID, artworkID uint) (bool, error) {
	liked := false
	err := database.WithContext(r.Context()).Transaction(func(tx *gorm.DB) error {
		var artwork models.Artwork
		if err := tx.Select("id").First(&artwork, artworkID).Error; err != nil {
			return err
		}

		var existing models.Like
		err := tx.Where("user_id = ? AND artwork_id = ?", userID, artworkID).First(&existing).Error
		switch {
		case err == nil:
			if err := tx.Delete(&existing).Error; err != nil {
				return fmt.Errorf("delete like: %w", err)
			}
			return nil
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := tx.Create(&models.Like{UserID: userID, ArtworkID: artworkID}).Error; err != nil {
				return fmt.Errorf("create like: %w", err)
			}
			liked = true
			return nil
		default:
			return fmt.Errorf("find like: %w", err)
		}
	})
	return liked, err
}

func likeState(r *http.Request, userID, artworkID uint) (bool, int64, error) {
	var count int64
	if err := database.WithContext(r.Context()).Model(&models.Like{}).Where("artwork_id = ?", artworkID).Count(&count).Error; err != nil {
		return false, 0, err
	}
	if userID == 0 || count == 0 {
		return false, count, nil
	}
	var mine int64
	if err := database.WithContext(r.Context()).Model(&models.Like{}).Where("artwork_id = ? AND user_id = ?", artworkID, userID).Count(&mine).Error; err != nil {
		return false, count, err
	}
	return mine > 0, count, nil
}

// likedBy reports which of ids the user has liked.
func likedBy(r *http.Request, userID uint, ids []uint) (map[uint]bool, error) {
	liked := make(map[uint]bool, len(ids))
	if len(ids) == 0 {
		return liked, nil
	}
	var artworkIDs []uint
	err := database.WithContext(r.Context()).
		Model(&models.Like{}).
		Where("user_id = ? AND artwork_id IN ?", userID, ids).
		Pluck("artwork_id", &artworkIDs).Error
	if err != nil {
		return nil, fmt.Errorf("load likes: %w", err)
	}
	for _, id := range artworkIDs {
		liked[id] = true
	}
	return liked, nil
}
