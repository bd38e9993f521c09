package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNewRouterRegistersHealthRoute(t *testing.T) {
	router := newRouter()
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected /healthz to return 200, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected application/json content type, got %q", ct)
	}
}

func TestNewRouterProtectsAppRoutes(t *testing.T) {
	router := newRouter()

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/app", http.StatusSeeOther},
		{http.MethodGet, "/app/onboarding", http.StatusSeeOther},
		{http.MethodGet, "/app/artworks/1", http.StatusSeeOther},
		{http.MethodGet, "/app/artist", http.StatusSeeOther},
		{http.MethodGet, "/app/api/preferences", http.StatusUnauthorized},
		{http.MethodPost, "/app/api/artworks/1/like", http.StatusUnauthorized},
		{http.MethodGet, "/app/api/artist/artworks", http.StatusUnauthorized},
		{http.MethodPost, "/app/api/artist/artworks/import", http.StatusUnauthorized},
		{http.MethodGet, "/", http.StatusOK},
		{http.MethodGet, "/nowhere", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, httptest.NewRequest(tt.method, tt.path, nil))
			if rr.Code != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, rr.Code)
			}
		})
	}
}
