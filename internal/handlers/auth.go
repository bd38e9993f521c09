package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/alexedwards/scs/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"artmatch/internal/ai"
	applog "artmatch/internal/log"
	"artmatch/internal/recommend"
	"artmatch/models"
)

const (
	sessionAuthenticatedKey = "auth:authenticated"
	sessionLoginMessageKey  = "auth:message"
	sessionUserIDKey        = "auth:user:id"
	sessionUserEmailKey     = "auth:user:email"
	sessionUserNameKey      = "auth:user:name"
	sessionUserRoleKey      = "auth:user:role"
	sessionOnboardedKey     = "auth:user:onboarded"
	sessionFlashKey         = "app:flash"
)

var (
	sessionManager *scs.SessionManager
	database       *gorm.DB
	engine         = recommend.NewEngine(recommend.DefaultRules())
	aiClient       *ai.Client
)

// Configure installs the shared dependencies used by the HTTP handlers.
func Configure(sm *scs.SessionManager, db *gorm.DB) {
	sessionManager = sm
	database = db
}

// ConfigureRecommendations replaces the scoring engine. A nil engine restores the defaults.
func ConfigureRecommendations(e *recommend.Engine) {
	if e == nil {
		e = recommend.NewEngine(recommend.DefaultRules())
	}
	engine = e
}

// ConfigureAI installs the optional emotion profiler used when artists omit emotions.
func ConfigureAI(client *ai.Client) {
	aiClient = client
}

func createUser(r *http.Request, email, name, password, role string) (*models.User, error) {
	if database == nil {
		return nil, gorm.ErrInvalidDB
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	role = models.NormalizeRole(role)
	user := &models.User{
		Email:        strings.ToLower(strings.TrimSpace(email)),
		Name:         strings.TrimSpace(name),
		PasswordHash: string(hashed),
		Role:         role,
		// Artists have no taste profile to collect.
		Onboarded: role == models.RoleArtist,
	}

	if err := database.WithContext(r.Context()).Create(user).Error; err != nil {
		return nil, err
	}

	return user, nil
}

func findUserByEmail(r *http.Request, email string) (*models.User, error) {
	if database == nil {
		return nil, gorm.ErrInvalidDB
	}

	user := &models.User{}
	err := database.WithContext(r.Context()).Where("lower(email) = ?", strings.ToLower(strings.TrimSpace(email))).First(user).Error
	if err != nil {
		return nil, err
	}
	return user, nil
}

// authenticate verifies the provided credentials and populates the session if successful.
func authenticate(w http.ResponseWriter, r *http.Request, email, password string) bool {
	if sessionManager == nil {
		http.Error(w, "authentication not available", http.StatusServiceUnavailable)
		return false
	}

	user, err := findUserByEmail(r, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			sessionManager.Put(r.Context(), sessionLoginMessageKey, "Invalid email or password. Please try again.")
		} else {
			applog.Error(r.Context(), "failed to load user during login", "error", err)
			sessionManager.Put(r.Context(), sessionLoginMessageKey, loginFailedMessage)
		}
		return false
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		sessionManager.Put(r.Context(), sessionLoginMessageKey, "Invalid email or password. Please try again.")
		return false
	}

	if err := establishSession(r, user); err != nil {
		applog.Error(r.Context(), "failed to establish session", "error", err)
		sessionManager.Put(r.Context(), sessionLoginMessageKey, loginFailedMessage)
		return false
	}

	return true
}

func establishSession(r *http.Request, user *models.User) error {
	if sessionManager == nil {
		return errors.New("session manager not configured")
	}
	if err := sessionManager.RenewToken(r.Context()); err != nil {
		return err
	}
	sessionManager.Put(r.Context(), sessionAuthenticatedKey, true)
	sessionManager.Put(r.Context(), sessionUserIDKey, int(user.ID))
	sessionManager.Put(r.Context(), sessionUserEmailKey, user.Email)
	sessionManager.Put(r.Context(), sessionUserNameKey, user.Name)
	sessionManager.Put(r.Context(), sessionUserRoleKey, models.NormalizeRole(user.Role))
	sessionManager.Put(r.Context(), sessionOnboardedKey, user.Onboarded)
	return nil
}

// RequireAuthentication ensures the user has an active session before accessing the resource.
func RequireAuthentication(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !ActiveSession(r) {
			applog.Debug(r.Context(), "unauthenticated request", "path", r.URL.Path)
			if isAPIRequest(r) {
				writeJSONError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			redirectToLogin(w, r)
			return
		}
		if id, ok := currentUserID(r); ok {
			r = r.WithContext(applog.WithUserID(r.Context(), id))
		}
		next.ServeHTTP(w, r)
	})
}

// RequireOnboarding sends users who have not declared preferences to the wizard.
func RequireOnboarding(next http.Handler) http.Handler {
	return RequireAuthentication(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !sessionOnboarded(r) {
			applog.Debug(r.Context(), "user not onboarded, redirecting", "path", r.URL.Path)
			redirectTo(w, r, "/app/onboarding")
			return
		}
		next.ServeHTTP(w, r)
	}))
}

// RequireArtist rejects accounts that do not list artworks.
func RequireArtist(next http.Handler) http.Handler {
	return RequireAuthentication(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if sessionRole(r) != models.RoleArtist {
			applog.Debug(r.Context(), "artist route requested by non-artist", "path", r.URL.Path)
			if isAPIRequest(r) {
				writeJSONError(w, http.StatusForbidden, errNotArtist.Error())
				return
			}
			http.Error(w, errNotArtist.Error(), http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	}))
}

// Logout destroys the current session and redirects the user to the login screen.
func Logout(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet, http.MethodPost:
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	if sessionManager != nil {
		if err := sessionManager.Destroy(r.Context()); err != nil {
			applog.Error(r.Context(), "failed to destroy session", "error", err)
		}
	}

	redirectToLogin(w, r)
}

func redirectTo(w http.ResponseWriter, r *http.Request, path string) {
	if isHTMX(r) {
		w.Header().Set("HX-Redirect", path)
		w.WriteHeader(http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, path, http.StatusSeeOther)
}

func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	redirectTo(w, r, "/login")
}

// redirectToApp lands the user on the page matching their role and onboarding state.
func redirectToApp(w http.ResponseWriter, r *http.Request) {
	redirectTo(w, r, homePath(r))
}

func homePath(r *http.Request) string {
	switch {
	case sessionManager == nil:
		return "/app"
	case sessionRole(r) == models.RoleArtist:
		return "/app/artist"
	case !sessionOnboarded(r):
		return "/app/onboarding"
	default:
		return "/app"
	}
}

// ActiveSession returns true when the current request has an authenticated session.
func ActiveSession(r *http.Request) bool {
	if sessionManager == nil {
		return false
	}
	return sessionManager.GetBool(r.Context(), sessionAuthenticatedKey) && sessionManager.GetInt(r.Context(), sessionUserIDKey) > 0
}

func currentUserID(r *http.Request) (uint, bool) {
	if sessionManager == nil {
		return 0, false
	}
	id := sessionManager.GetInt(r.Context(), sessionUserIDKey)
	if id <= 0 {
		return 0, false
	}
	return uint(id), true
}

func sessionRole(r *http.Request) string {
	if sessionManager == nil {
		return ""
	}
	return sessionManager.GetString(r.Context(), sessionUserRoleKey)
}

func sessionOnboarded(r *http.Request) bool {
	if sessionManager == nil {
		return false
	}
	return sessionManager.GetBool(r.Context(), sessionOnboardedKey)
}

func sessionUserName(r *http.Request) string {
	if sessionManager == nil {
		return ""
	}
	if name := sessionManager.GetString(r.Context(), sessionUserNameKey); name != "" {
		return name
	}
	return sessionManager.GetString(r.Context(), sessionUserEmailKey)
}

// loadCurrentUser fetches the signed-in account.
func loadCurrentUser(r *http.Request) (*models.User, error) {
	if database == nil {
		return nil, gorm.ErrInvalidDB
	}
	id, ok := currentUserID(r)
	if !ok {
		return nil, errUnauthenticated
	}

	user := &models.User{}
	if err := database.WithContext(r.Context()).First(user, id).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func putFlash(r *http.Request, message string) {
	if sessionManager != nil {
		sessionManager.Put(r.Context(), sessionFlashKey, message)
	}
}

func popFlash(r *http.Request) string {
	if sessionManager == nil {
		return ""
	}
	return sessionManager.PopString(r.Context(), sessionFlashKey)
}
