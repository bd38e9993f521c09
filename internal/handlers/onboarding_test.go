package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"artmatch/models"
)

func formRequest(t *testing.T, target string, form url.Values, user *models.User) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req = withSession(t, sessionManager, req)
	signIn(t, req, user)
	return req
}

func TestOnboardingRedirectsCompletedUsers(t *testing.T) {
	_, smCleanup := withTestSessionManager(t)
	t.Cleanup(smCleanup)
	db, dbCleanup := withTestDatabase(t)
	t.Cleanup(dbCleanup)

	user := seedUser(t, db, "done@example.com", models.RoleCollector, true, models.Preferences{Budget: "0-500", Styles: []string{"Abstract"}})

	w := httptest.NewRecorder()
	Onboarding(w, signedInRequest(t, http.MethodGet, "/app/onboarding", "", user))
	if loc := w.Header().Get("Location"); loc != "/app" {
		t.Fatalf("expected redirect to /app, got %q (status %d)", loc, w.Code)
	}

	w = httptest.NewRecorder()
	Onboarding(w, signedInRequest(t, http.MethodGet, "/app/onboarding?edit=1", "", user))
	if w.Code != http.StatusOK {
		t.Fatalf("expected edit form, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, `value="0-500" checked`) {
		t.Fatalf("expected stored budget to be preselected, got %q", body)
	}
	if !strings.Contains(body, `href="/app"`) {
		t.Fatalf("expected navigation while editing, got %q", body)
	}
}

func TestOnboardingRendersWizard(t *testing.T) {
	_, smCleanup := withTestSessionManager(t)
	t.Cleanup(smCleanup)
	db, dbCleanup := withTestDatabase(t)
	t.Cleanup(dbCleanup)

	user := seedUser(t, db, "new@example.com", models.RoleCollector, false, models.Preferences{})

	w := httptest.NewRecorder()
	Onboarding(w, signedInRequest(t, http.MethodGet, "/app/onboarding", "", user))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `action="/app/onboarding"`) {
		t.Fatalf("expected onboarding form, got %q", w.Body.String())
	}
}

func TestOnboardingSubmit(t *testing.T) {
	sm, smCleanup := withTestSessionManager(t)
	t.Cleanup(smCleanup)
	db, dbCleanup := withTestDatabase(t)
	t.Cleanup(dbCleanup)

	user := seedUser(t, db, "new@example.com", models.RoleCollector, false, models.Preferences{})

	tests := []struct {
		name        string
		form        url.Values
		wantMessage string
	}{
		{
			name:        "missing styles",
			form:        url.Values{"budget": {"500-2000"}},
			wantMessage: "Pick a budget and at least one style.",
		},
		{
			name:        "missing budget",
			form:        url.Values{"styles": {"Abstract"}},
			wantMessage: "Pick a budget and at least one style.",
		},
		{
			name:        "unknown context",
			form:        url.Values{"budget": {"500-2000"}, "context": {"garden"}, "styles": {"Abstract"}},
			wantMessage: "context must be one of",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			Onboarding(w, formRequest(t, "/app/onboarding", tt.form, user))
			if w.Code != http.StatusOK {
				t.Fatalf("expected form to be re-rendered, got %d", w.Code)
			}
			if !strings.Contains(w.Body.String(), tt.wantMessage) {
				t.Fatalf("expected message %q in %q", tt.wantMessage, w.Body.String())
			}
		})
	}

	form := url.Values{"budget": {"2000-10000"}, "context": {"collection"}, "styles": {"Surrealism", "Baroque"}}
	req := formRequest(t, "/app/onboarding", form, user)
	req.Header.Set("HX-Request", "true")
	w := httptest.NewRecorder()
	Onboarding(w, req)
	if w.Code != http.StatusSeeOther || w.Header().Get("HX-Redirect") != "/app" {
		t.Fatalf("expected HTMX redirect to /app, got %d %q", w.Code, w.Header().Get("HX-Redirect"))
	}
	if got := sm.PopString(req.Context(), sessionFlashKey); got != "Your gallery has been updated." {
		t.Fatalf("unexpected flash %q", got)
	}

	var stored models.User
	if err := db.First(&stored, user.ID).Error; err != nil {
		t.Fatalf("failed to reload user: %v", err)
	}
	prefs := stored.Preferences.Data()
	if !stored.Onboarded || prefs.Budget != "2000-10000" || prefs.Context != "collection" || len(prefs.Styles) != 2 {
		t.Fatalf("unexpected stored state onboarded=%t prefs=%+v", stored.Onboarded, prefs)
	}
}
