package handlers

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"artmatch/models"
)

func uintString(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}

func TestToggleLike(t *testing.T) {
	_, smCleanup := withTestSessionManager(t)
	t.Cleanup(smCleanup)
	db, dbCleanup := withTestDatabase(t)
	t.Cleanup(dbCleanup)

	artist := seedUser(t, db, "painter@example.com", models.RoleArtist, true, models.Preferences{})
	collector := seedUser(t, db, "collector@example.com", models.RoleCollector, true, models.Preferences{})
	artwork := seedArtwork(t, db, artist.ID, "Urban Silence", 3500, []string{"Minimalist"}, nil)

	like := func() likeResponse {
		t.Helper()
		req := signedInRequest(t, http.MethodPost, "/app/api/artworks/"+uintString(artwork.ID)+"/like", "", collector)
		req.SetPathValue("id", uintString(artwork.ID))
		w := httptest.NewRecorder()
		ToggleLike(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}
		var resp likeResponse
		decodeBody(t, w.Body, &resp)
		return resp
	}

	first := like()
	if !first.Liked || first.Likes != 1 || first.Message != "Liked" {
		t.Fatalf("unexpected first toggle %+v", first)
	}
	second := like()
	if second.Liked || second.Likes != 0 || second.Message != "Unliked" {
		t.Fatalf("unexpected second toggle %+v", second)
	}

	var count int64
	if err := db.Model(&models.Like{}).Count(&count).Error; err != nil || count != 0 {
		t.Fatalf("expected no likes left, count=%d err=%v", count, err)
	}
}

func TestToggleLikeHTMX(t *testing.T) {
	_, smCleanup := withTestSessionManager(t)
	t.Cleanup(smCleanup)
	db, dbCleanup := withTestDatabase(t)
	t.Cleanup(dbCleanup)

	artist := seedUser(t, db, "painter@example.com", models.RoleArtist, true, models.Preferences{})
	collector := seedUser(t, db, "collector@example.com", models.RoleCollector, true, models.Preferences{})
	artwork := seedArtwork(t, db, artist.ID, "Urban Silence", 3500, nil, nil)

	req := signedInRequest(t, http.MethodPost, "/app/api/artworks/x/like", "", collector)
	req.SetPathValue("id", uintString(artwork.ID))
	req.Header.Set("HX-Request", "true")
	w := httptest.NewRecorder()
	ToggleLike(w, req)

	body := w.Body.String()
	if !strings.Contains(body, `data-liked="true"`) || !strings.Contains(body, "1 like") {
		t.Fatalf("expected liked button fragment, got %q", body)
	}
}

func TestToggleLikeErrors(t *testing.T) {
	_, smCleanup := withTestSessionManager(t)
	t.Cleanup(smCleanup)
	db, dbCleanup := withTestDatabase(t)
	t.Cleanup(dbCleanup)

	collector := seedUser(t, db, "collector@example.com", models.RoleCollector, true, models.Preferences{})

	tests := []struct {
		name   string
		method string
		id     string
		signed bool
		want   int
	}{
		{"wrong method", http.MethodGet, "1", true, http.StatusMethodNotAllowed},
		{"anonymous", http.MethodPost, "1", false, http.StatusUnauthorized},
		{"bad id", http.MethodPost, "abc", true, http.StatusNotFound},
		{"missing artwork", http.MethodPost, "999", true, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := withSession(t, sessionManager, httptest.NewRequest(tt.method, "/app/api/artworks/"+tt.id+"/like", nil))
			if tt.signed {
				signIn(t, req, collector)
			}
			req.SetPathValue("id", tt.id)
			w := httptest.NewRecorder()
			ToggleLike(w, req)
			if w.Code != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, w.Code)
			}
		})
	}
}

func TestArtworkDetail(t *testing.T) {
	_, smCleanup := withTestSessionManager(t)
	t.Cleanup(smCleanup)
	db, dbCleanup := withTestDatabase(t)
	t.Cleanup(dbCleanup)

	artist := seedUser(t, db, "painter@example.com", models.RoleArtist, true, models.Preferences{})
	collector := seedUser(t, db, "collector@example.com", models.RoleCollector, true, models.Preferences{})
	artwork := seedArtwork(t, db, artist.ID, "Celestial Flow", 8500, []string{"Surrealism"}, map[string]float64{"dreamy": 0.9})
	if err := db.Create(&models.Like{UserID: collector.ID, ArtworkID: artwork.ID}).Error; err != nil {
		t.Fatalf("failed to seed like: %v", err)
	}

	req := signedInRequest(t, http.MethodGet, "/app/artworks/"+uintString(artwork.ID), "", collector)
	req.SetPathValue("id", uintString(artwork.ID))
	w := httptest.NewRecorder()
	ArtworkDetail(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{"Celestial Flow", "painter", `data-liked="true"`, "surrealism"} {
		if !strings.Contains(strings.ToLower(body), strings.ToLower(want)) {
			t.Fatalf("expected %q in detail page, got %q", want, body)
		}
	}

	req = signedInRequest(t, http.MethodGet, "/app/artworks/404", "", collector)
	req.SetPathValue("id", "404")
	w = httptest.NewRecorder()
	ArtworkDetail(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for missing artwork, got %d", w.Code)
	}
}
