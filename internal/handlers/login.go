package handlers

import (
	"net/http"
	"strings"

	"github.com/a-h/templ"

	applog "artmatch/internal/log"
	"artmatch/internal/views/pages"
)

const loginFailedMessage = "We were unable to sign you in. Please try again."

// Login renders the sign-in form and authenticates submissions. Successful
// sign-ins land on the artist studio, the onboarding wizard or the gallery.
func Login(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet, http.MethodHead:
		if ActiveSession(r) {
			redirectToApp(w, r)
			return
		}
		message := ""
		if sessionManager != nil {
			message = sessionManager.PopString(r.Context(), sessionLoginMessageKey)
		}
		renderLogin(w, r, message, "")
	case http.MethodPost:
		if sessionManager == nil || database == nil {
			applog.Warn(r.Context(), "login attempted without session store or database")
			http.Error(w, "authentication not available", http.StatusServiceUnavailable)
			return
		}
		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form submission", http.StatusBadRequest)
			return
		}

		email := strings.TrimSpace(r.PostFormValue("email"))
		password := r.PostFormValue("password")
		if email == "" || password == "" {
			renderLogin(w, r, "Email and password are required.", email)
			return
		}

		if !authenticate(w, r, email, password) {
			applog.Info(r.Context(), "sign-in rejected", "email", strings.ToLower(email))
			message := sessionManager.PopString(r.Context(), sessionLoginMessageKey)
			if message == "" {
				message = loginFailedMessage
			}
			renderLogin(w, r, message, email)
			return
		}

		applog.Info(r.Context(), "signed in", "role", sessionRole(r), "onboarded", sessionOnboarded(r))
		redirectToApp(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func renderLogin(w http.ResponseWriter, r *http.Request, message, email string) {
	var component templ.Component = pages.Login(message, email)
	if isHTMX(r) {
		component = pages.LoginPartial(message, email)
	}
	renderComponent(w, r, component)
}
