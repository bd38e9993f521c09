package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alexedwards/scs/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"artmatch/models"
)

func withTestSessionManager(t *testing.T) (*scs.SessionManager, func()) {
	t.Helper()
	original := sessionManager
	sm := scs.New()
	sessionManager = sm
	return sm, func() {
		sessionManager = original
	}
}

func withTestDatabase(t *testing.T) (*gorm.DB, func()) {
	t.Helper()
	original := database
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("failed to open sqlite database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Artwork{}, &models.Like{}); err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}
	database = db
	return db, func() {
		database = original
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}
}

// withSession attaches a freshly loaded session to req.
func withSession(t *testing.T, sm *scs.SessionManager, req *http.Request) *http.Request {
	t.Helper()
	ctx, err := sm.Load(req.Context(), "")
	if err != nil {
		t.Fatalf("failed to load session context: %v", err)
	}
	return req.WithContext(ctx)
}

// signIn populates the session of req as if user had logged in.
func signIn(t *testing.T, req *http.Request, user *models.User) {
	t.Helper()
	if err := establishSession(req, user); err != nil {
		t.Fatalf("establishSession returned error: %v", err)
	}
}

func decodeBody(t *testing.T, body io.Reader, dst any) {
	t.Helper()
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
}

func TestIsHTMX(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if isHTMX(req) {
		t.Fatal("expected false when no HTMX headers present")
	}
	req.Header.Set("HX-Request", "true")
	if !isHTMX(req) {
		t.Fatal("expected true when HX-Request header present")
	}
}

func TestIsAPIRequest(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		path   string
		accept string
		want   bool
	}{
		{"api prefix", "/app/api/preferences", "", true},
		{"json accept", "/app", "application/json", true},
		{"page", "/app", "text/html", false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.accept != "" {
				req.Header.Set("Accept", tt.accept)
			}
			if got := isAPIRequest(req); got != tt.want {
				t.Fatalf("isAPIRequest(%q) = %t, want %t", tt.path, got, tt.want)
			}
		})
	}
}

func TestActiveSession(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if ActiveSession(req) {
		t.Fatal("expected inactive session when manager is nil")
	}

	sm, cleanup := withTestSessionManager(t)
	t.Cleanup(cleanup)

	req = withSession(t, sm, req)
	sm.Put(req.Context(), sessionAuthenticatedKey, true)
	sm.Put(req.Context(), sessionUserIDKey, 42)

	if !ActiveSession(req) {
		t.Fatal("expected active session when flags are set")
	}
}

func TestCurrentUserID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if _, ok := currentUserID(req); ok {
		t.Fatal("expected currentUserID to fail without session manager")
	}

	sm, cleanup := withTestSessionManager(t)
	t.Cleanup(cleanup)

	req = withSession(t, sm, req)
	if _, ok := currentUserID(req); ok {
		t.Fatal("expected false when user id not set")
	}

	sm.Put(req.Context(), sessionUserIDKey, 7)
	id, ok := currentUserID(req)
	if !ok || id != 7 {
		t.Fatalf("expected user id 7, got %d (ok=%t)", id, ok)
	}
}

func TestEstablishSession(t *testing.T) {
	sm, cleanup := withTestSessionManager(t)
	t.Cleanup(cleanup)

	req := withSession(t, sm, httptest.NewRequest(http.MethodGet, "/app", nil))

	user := &models.User{Model: gorm.Model{ID: 3}, Email: "user@example.com", Name: "User", Role: "ARTIST", Onboarded: true}
	signIn(t, req, user)

	if !sm.GetBool(req.Context(), sessionAuthenticatedKey) {
		t.Fatal("expected session authenticated flag to be true")
	}
	if got := sm.GetInt(req.Context(), sessionUserIDKey); got != 3 {
		t.Fatalf("expected session user id 3, got %d", got)
	}
	if got := sm.GetString(req.Context(), sessionUserEmailKey); got != "user@example.com" {
		t.Fatalf("unexpected email %q", got)
	}
	if got := sessionUserName(req); got != "User" {
		t.Fatalf("unexpected name %q", got)
	}
	if got := sessionRole(req); got != models.RoleArtist {
		t.Fatalf("expected normalized artist role, got %q", got)
	}
	if !sessionOnboarded(req) {
		t.Fatal("expected onboarded flag to be stored")
	}
}

func TestEstablishSessionWithoutManager(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/app", nil)
	if err := establishSession(req, &models.User{}); err == nil {
		t.Fatal("expected error when session manager is nil")
	}
}

func TestCreateUser(t *testing.T) {
	db, dbCleanup := withTestDatabase(t)
	t.Cleanup(dbCleanup)

	req := httptest.NewRequest(http.MethodPost, "/signup", nil)
	user, err := createUser(req, "Example@Email.com", "  Test User  ", "password123", "")
	if err != nil {
		t.Fatalf("createUser returned error: %v", err)
	}
	if user.Email != "example@email.com" {
		t.Fatalf("expected email to be lowercased, got %q", user.Email)
	}
	if user.Name != "Test User" {
		t.Fatalf("expected trimmed name, got %q", user.Name)
	}
	if user.Role != models.RoleCollector || user.Onboarded {
		t.Fatalf("expected a collector awaiting onboarding, got role=%q onboarded=%t", user.Role, user.Onboarded)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("password123")); err != nil {
		t.Fatalf("password hash does not match original: %v", err)
	}

	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", "example@email.com").Count(&count).Error; err != nil || count != 1 {
		t.Fatalf("expected user persisted, count=%d err=%v", count, err)
	}

	artist, err := createUser(req, "painter@example.com", "Painter", "password123", "artist")
	if err != nil {
		t.Fatalf("createUser returned error for artist: %v", err)
	}
	if artist.Role != models.RoleArtist || !artist.Onboarded {
		t.Fatalf("expected an onboarded artist, got role=%q onboarded=%t", artist.Role, artist.Onboarded)
	}
}

func TestCreateUserWithoutDatabase(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/signup", nil)
	if _, err := createUser(req, "test@example.com", "User", "password", ""); !errors.Is(err, gorm.ErrInvalidDB) {
		t.Fatalf("expected ErrInvalidDB, got %v", err)
	}
}

func TestFindUserByEmail(t *testing.T) {
	_, cleanup := withTestSessionManager(t)
	t.Cleanup(cleanup)

	_, dbCleanup := withTestDatabase(t)
	t.Cleanup(dbCleanup)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if _, err := findUserByEmail(req, "missing@example.com"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound for missing user, got %v", err)
	}

	if _, err := createUser(req, "user@example.com", "User", "password123", ""); err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}

	user, err := findUserByEmail(req, "USER@example.com")
	if err != nil {
		t.Fatalf("findUserByEmail returned error: %v", err)
	}
	if user.Email != "user@example.com" {
		t.Fatalf("expected lowercase email, got %q", user.Email)
	}
}

func TestAuthenticate(t *testing.T) {
	sm, smCleanup := withTestSessionManager(t)
	t.Cleanup(smCleanup)
	_, dbCleanup := withTestDatabase(t)
	t.Cleanup(dbCleanup)

	req := withSession(t, sm, httptest.NewRequest(http.MethodPost, "/login", nil))
	w := httptest.NewRecorder()

	if _, err := createUser(req, "user@example.com", "User", "password123", ""); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	if ok := authenticate(w, req, "user@example.com", "password123"); !ok {
		t.Fatal("expected authentication to succeed")
	}
	if !sm.GetBool(req.Context(), sessionAuthenticatedKey) {
		t.Fatal("expected session authenticated flag to be true")
	}

	w = httptest.NewRecorder()
	if ok := authenticate(w, req, "user@example.com", "wrong"); ok {
		t.Fatal("expected authentication failure with bad password")
	}
	if message := sm.PopString(req.Context(), sessionLoginMessageKey); message == "" {
		t.Fatal("expected login failure message to be set")
	}
}

func TestRedirectToLogin(t *testing.T) {
	_, cleanup := withTestSessionManager(t)
	t.Cleanup(cleanup)

	req := httptest.NewRequest(http.MethodGet, "/app", nil)
	req.Header.Set("HX-Request", "true")
	w := httptest.NewRecorder()
	redirectToLogin(w, req)
	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected 303 for HTMX redirect, got %d", w.Code)
	}
	if w.Header().Get("HX-Redirect") != "/login" {
		t.Fatalf("expected HX-Redirect header to be set")
	}

	req = httptest.NewRequest(http.MethodGet, "/app", nil)
	w = httptest.NewRecorder()
	redirectToLogin(w, req)
	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected 303 redirect, got %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/login" {
		t.Fatalf("expected redirect to /login, got %q", loc)
	}
}

func TestRedirectToAppWithoutSessions(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	req.Header.Set("HX-Boosted", "true")
	w := httptest.NewRecorder()
	redirectToApp(w, req)
	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected 303 status, got %d", w.Code)
	}
	if w.Header().Get("HX-Redirect") != "/app" {
		t.Fatalf("expected HX-Redirect header to be set")
	}
}

func TestRedirectToAppByRole(t *testing.T) {
	sm, cleanup := withTestSessionManager(t)
	t.Cleanup(cleanup)

	tests := []struct {
		name string
		user *models.User
		want string
	}{
		{"artist", &models.User{Model: gorm.Model{ID: 1}, Role: models.RoleArtist, Onboarded: true}, "/app/artist"},
		{"new collector", &models.User{Model: gorm.Model{ID: 2}, Role: models.RoleCollector}, "/app/onboarding"},
		{"onboarded collector", &models.User{Model: gorm.Model{ID: 3}, Role: models.RoleCollector, Onboarded: true}, "/app"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := withSession(t, sm, httptest.NewRequest(http.MethodGet, "/login", nil))
			signIn(t, req, tt.user)

			w := httptest.NewRecorder()
			redirectToApp(w, req)
			if loc := w.Header().Get("Location"); loc != tt.want {
				t.Fatalf("expected redirect to %q, got %q", tt.want, loc)
			}
		})
	}
}

func TestRequireAuthentication(t *testing.T) {
	sm, cleanup := withTestSessionManager(t)
	t.Cleanup(cleanup)

	called := false
	handler := RequireAuthentication(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusNoContent)
	}))

	req := withSession(t, sm, httptest.NewRequest(http.MethodGet, "/app/api/preferences", nil))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for anonymous API request, got %d", w.Code)
	}
	var payload map[string]string
	decodeBody(t, w.Body, &payload)
	if payload["error"] != "unauthorized" {
		t.Fatalf("unexpected error payload %v", payload)
	}

	req = withSession(t, sm, httptest.NewRequest(http.MethodGet, "/app", nil))
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if loc := w.Header().Get("Location"); loc != "/login" {
		t.Fatalf("expected page request to be sent to /login, got %q", loc)
	}
	if called {
		t.Fatal("expected next handler not to run without a session")
	}

	signIn(t, req, &models.User{Model: gorm.Model{ID: 9}})
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if !called || w.Code != http.StatusNoContent {
		t.Fatalf("expected next handler to run, called=%t status=%d", called, w.Code)
	}
}

func TestRequireOnboarding(t *testing.T) {
	sm, cleanup := withTestSessionManager(t)
	t.Cleanup(cleanup)

	handler := RequireOnboarding(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := withSession(t, sm, httptest.NewRequest(http.MethodGet, "/app", nil))
	signIn(t, req, &models.User{Model: gorm.Model{ID: 4}, Role: models.RoleCollector})
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if loc := w.Header().Get("Location"); loc != "/app/onboarding" {
		t.Fatalf("expected redirect to onboarding, got %q (status %d)", loc, w.Code)
	}

	sm.Put(req.Context(), sessionOnboardedKey, true)
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected onboarded user to pass, got %d", w.Code)
	}
}

func TestRequireArtist(t *testing.T) {
	sm, cleanup := withTestSessionManager(t)
	t.Cleanup(cleanup)

	handler := RequireArtist(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := withSession(t, sm, httptest.NewRequest(http.MethodGet, "/app/api/artist/artworks", nil))
	signIn(t, req, &models.User{Model: gorm.Model{ID: 5}, Role: models.RoleCollector, Onboarded: true})
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for collector, got %d", w.Code)
	}
	var payload map[string]string
	decodeBody(t, w.Body, &payload)
	if payload["error"] != errNotArtist.Error() {
		t.Fatalf("unexpected error payload %v", payload)
	}

	signIn(t, req, &models.User{Model: gorm.Model{ID: 6}, Role: models.RoleArtist, Onboarded: true})
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected artist to pass, got %d", w.Code)
	}
}

func TestFlashIsReadOnce(t *testing.T) {
	if got := popFlash(httptest.NewRequest(http.MethodGet, "/", nil)); got != "" {
		t.Fatalf("expected empty flash without session manager, got %q", got)
	}

	sm, cleanup := withTestSessionManager(t)
	t.Cleanup(cleanup)

	req := withSession(t, sm, httptest.NewRequest(http.MethodGet, "/app", nil))
	putFlash(req, "Saved")
	if got := popFlash(req); got != "Saved" {
		t.Fatalf("expected flash %q, got %q", "Saved", got)
	}
	if got := popFlash(req); got != "" {
		t.Fatalf("expected flash to be consumed, got %q", got)
	}
}

func TestLogout(t *testing.T) {
	sm, cleanup := withTestSessionManager(t)
	t.Cleanup(cleanup)

	req := withSession(t, sm, httptest.NewRequest(http.MethodPost, "/logout", nil))
	signIn(t, req, &models.User{Model: gorm.Model{ID: 8}})

	w := httptest.NewRecorder()
	Logout(w, req)
	if loc := w.Header().Get("Location"); loc != "/login" {
		t.Fatalf("expected redirect to /login, got %q", loc)
	}
	if ActiveSession(req) {
		t.Fatal("expected session to be destroyed")
	}

	w = httptest.NewRecorder()
	Logout(w, httptest.NewRequest(http.MethodDelete, "/logout", nil))
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", w.Code)
	}
}
