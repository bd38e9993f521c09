package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"artmatch/internal/ai"
	"artmatch/internal/catalog"
	applog "artmatch/internal/log"
	"artmatch/internal/validation"
	"artmatch/internal/views/pages"
	"artmatch/models"
)

const maxCatalogueUpload = 10 << 20

type artistArtworkResponse struct {
	ID         uint               `json:"id"`
	Title      string             `json:"title"`
	Price      float64            `json:"price"`
	ImageURL   string             `json:"image_url"`
	Medium     string             `json:"medium"`
	Dimensions string             `json:"dimensions"`
	Tags       []string           `json:"tags"`
	Emotions   map[string]float64 `json:"emotions,omitempty"`
	Likes      int64              `json:"likes"`
	CreatedAt  time.Time          `json:"created_at"`
}

type artworkRequest struct {
	Title      string             `json:"title" validate:"required,max=200"`
	Price      float64            `json:"price" validate:"gte=0"`
	ImageURL   string             `json:"image_url" validate:"omitempty,http_url"`
	Medium     string             `json:"medium" validate:"max=120"`
	Dimensions string             `json:"dimensions" validate:"max=120"`
	Tags       []string           `json:"tags" validate:"max=32,dive,max=64"`
	Emotions   map[string]float64 `json:"emotions" validate:"dive,keys,min=1,endkeys,gte=0,lte=1"`
}

type importResponse struct {
	Created int      `json:"created"`
	Updated int      `json:"updated"`
	Errors  []string `json:"errors"`
}

// ArtistDashboard renders the artist's own listing, newest first.
func ArtistDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if database == nil {
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	}

	userID, _ := currentUserID(r)
	artworks, err := listArtistArtworks(r, userID)
	if err != nil {
		applog.Error(r.Context(), "failed to load artist artworks", "error", err)
		http.Error(w, "unable to load artworks", http.StatusInternalServerError)
		return
	}

	rows := make([]pages.ArtistArtwork, 0, len(artworks))
	for _, artwork := range artworks {
		rows = append(rows, pages.ArtistArtwork{
			ID:       artwork.ID,
			Title:    artwork.Title,
			Price:    artwork.Price,
			ImageURL: artwork.ImageURL,
			Medium:   artwork.Medium,
			Tags:     artwork.Tags,
			Likes:    artwork.Likes,
		})
	}
	renderComponent(w, r, pages.ArtistDashboard(pages.ArtistDashboardData{
		UserName: sessionUserName(r),
		Message:  popFlash(r),
		Artworks: rows,
	}))
}

// ArtistArtworks lists (GET) or creates (POST) artworks owned by the current artist.
func ArtistArtworks(w http.ResponseWriter, r *http.Request) {
	if database == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "service unavailable")
		return
	}
	userID, ok := currentUserID(r)
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	switch r.Method {
	case http.MethodGet, http.MethodHead:
		artworks, err := listArtistArtworks(r, userID)
		if err != nil {
			applog.Error(r.Context(), "failed to list artist artworks", "error", err)
			writeJSONError(w, http.StatusInternalServerError, "unable to load artworks")
			return
		}
		writeJSON(w, http.StatusOK, artworks)
	case http.MethodPost:
		createArtwork(w, r, userID)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func createArtwork(w http.ResponseWriter, r *http.Request, userID uint) {
	req, err := readArtworkRequest(r)
	if err != nil {
		respondArtistError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := validation.ValidateStruct(&req); err != nil {
		respondArtistError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	row := catalog.Row{
		Title:      strings.TrimSpace(req.Title),
		Price:      req.Price,
		Tags:       models.NormalizeTags(req.Tags),
		Emotions:   lowerKeys(req.Emotions),
		ImageURL:   strings.TrimSpace(req.ImageURL),
		Medium:     strings.TrimSpace(req.Medium),
		Dimensions: strings.TrimSpace(req.Dimensions),
	}
	if len(row.Emotions) == 0 && aiClient != nil {
		scores, err := aiClient.ProfileEmotions(r.Context(), ai.ArtworkBrief{
			Title:      row.Title,
			Medium:     row.Medium,
			Dimensions: row.Dimensions,
			Tags:       row.Tags,
		})
		if err != nil {
			applog.Error(r.Context(), "emotion profiling failed", "title", row.Title, "error", err)
		} else {
			row.Emotions = scores
		}
	}

	artwork := row.Artwork(userID)
	if err := database.WithContext(r.Context()).Create(&artwork).Error; err != nil {
		applog.Error(r.Context(), "failed to create artwork", "error", err)
		respondArtistError(w, r, http.StatusInternalServerError, "unable to create artwork")
		return
	}
	applog.Info(r.Context(), "artwork created", "artworkID", artwork.ID, "tags", len(artwork.Tags))

	if !isJSONBody(r) {
		putFlash(r, fmt.Sprintf("%q is now listed.", artwork.Title))
		redirectTo(w, r, "/app/artist")
		return
	}
	writeJSON(w, http.StatusCreated, projectArtistArtwork(artwork, 0))
}

// readArtworkRequest accepts a JSON body or a regular form post.
func readArtworkRequest(r *http.Request) (artworkRequest, error) {
	var req artworkRequest
	if isJSONBody(r) {
		err := decodeJSON(r, &req)
		return req, err
	}

	if err := r.ParseForm(); err != nil {
		return req, errors.New("invalid form submission")
	}
	req.Title = r.PostFormValue("title")
	req.ImageURL = r.PostFormValue("image_url")
	req.Medium = r.PostFormValue("medium")
	req.Dimensions = r.PostFormValue("dimensions")
	req.Tags = strings.Split(r.PostFormValue("tags"), ",")
	if raw := strings.TrimSpace(r.PostFormValue("price")); raw != "" {
		price, err := catalog.ParsePrice(raw)
		if err != nil {
			return req, err
		}
		req.Price = price
	}
	emotions, err := catalog.ParseEmotions(r.PostFormValue("emotions"))
	if err != nil {
		return req, err
	}
	req.Emotions = emotions
	return req, nil
}

// ImportArtworks stores every row of an uploaded CSV or PDF catalogue under the current artist.
func ImportArtworks(w http.ResponseWriter, r *http.Request) {
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

	r.Body = http.MaxBytesReader(w, r.Body, maxCatalogueUpload)
	if err := r.ParseMultipartForm(maxCatalogueUpload); err != nil {
		respondArtistError(w, r, http.StatusBadRequest, "invalid upload")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		respondArtistError(w, r, http.StatusBadRequest, "catalogue file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respondArtistError(w, r, http.StatusBadRequest, "unable to read catalogue")
		return
	}

	rows, rowErrs, err := catalog.Parse(header.Filename, data)
	if err != nil {
		applog.Debug(r.Context(), "catalogue rejected", "filename", header.Filename, "error", err)
		respondArtistError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	opts := catalog.Options{ArtistID: userID}
	if aiClient != nil {
		opts.Profiler = aiClient
	}
	result, err := catalog.Import(r.Context(), database, rows, opts)
	if err != nil {
		applog.Error(r.Context(), "catalogue import failed", "error", err)
		respondArtistError(w, r, http.StatusInternalServerError, "unable to import catalogue")
		return
	}

	resp := importResponse{Created: result.Created, Updated: result.Updated, Errors: make([]string, 0, len(rowErrs)+len(result.Failed))}
	for _, rowErr := range rowErrs {
		resp.Errors = append(resp.Errors, rowErr.Error())
	}
	resp.Errors = append(resp.Errors, result.Errors()...)

	if strings.Contains(r.Header.Get("Accept"), "text/html") {
		putFlash(r, fmt.Sprintf("Imported %d new and %d updated artworks; %d rows skipped.", resp.Created, resp.Updated, len(resp.Errors)))
		redirectTo(w, r, "/app/artist")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func respondArtistError(w http.ResponseWriter, r *http.Request, status int, message string) {
	if !isJSONBody(r) && strings.Contains(r.Header.Get("Accept"), "text/html") {
		putFlash(r, message)
		redirectTo(w, r, "/app/artist")
		return
	}
	writeJSONError(w, status, message)
}

func listArtistArtworks(r *http.Request, artistID uint) ([]artistArtworkResponse, error) {
	var artworks []models.Artwork
	err := database.WithContext(r.Context()).
		Where("artist_id = ?", artistID).
		Order("created_at desc").
		Order("id desc").
		Find(&artworks).Error
	if err != nil {
		return nil, fmt.Errorf("query artworks: %w", err)
	}

	ids := make([]uint, 0, len(artworks))
	for _, artwork := range artworks {
		ids = append(ids, artwork.ID)
	}
	counts, err := likeCounts(r, ids)
	if err != nil {
		return nil, err
	}

	out := make([]artistArtworkResponse, 0, len(artworks))
	for _, artwork := range artworks {
		out = append(out, projectArtistArtwork(artwork, counts[artwork.ID]))
	}
	return out, nil
}

func likeCounts(r *http.Request, ids []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(ids))
	if len(ids) == 0 {
		return counts, nil
	}

	var rows []struct {
		ArtworkID uint
		Total     int64
	}
	err := database.WithContext(r.Context()).
		Model(&models.Like{}).
		Select("artwork_id, count(*) as total").
		Where("artwork_id IN ?", ids).
		Group("artwork_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("count likes: %w", err)
	}
	for _, row := range rows {
		counts[row.ArtworkID] = row.Total
	}
	return counts, nil
}

func projectArtistArtwork(artwork models.Artwork, likes int64) artistArtworkResponse {
	tags := []string(artwork.Tags)
	if tags == nil {
		tags = []string{}
	}
	return artistArtworkResponse{
		ID:         artwork.ID,
		Title:      artwork.Title,
		Price:      artwork.Price,
		ImageURL:   artwork.ImageURL,
		Medium:     artwork.Medium,
		Dimensions: artwork.Dimensions,
		Tags:       tags,
		Emotions:   artwork.EmotionScores(),
		Likes:      likes,
		CreatedAt:  artwork.CreatedAt,
	}
}

func lowerKeys(scores map[string]float64) map[string]float64 {
	if len(scores) == 0 {
		return nil
	}
	out := make(map[string]float64, len(scores))
	for name, value := range scores {
		key := strings.ToLower(strings.TrimSpace(name))
		if key != "" {
			out[key] = value
		}
	}
	return out
}
