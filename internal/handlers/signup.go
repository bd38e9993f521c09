package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"gorm.io/gorm"

	applog "artmatch/internal/log"
	"artmatch/internal/views/pages"
	"artmatch/models"
)

const (
	minPasswordLength   = 8
	signupFailedMessage = "We couldn't create your account right now. Please try again."
)

type signupForm struct {
	Name     string
	Email    string
	Password string
	Confirm  string
	Role     string
}

// problem returns the first reason the form cannot be accepted, or "".
func (f signupForm) problem() string {
	switch {
	case f.Email == "" || !strings.Contains(f.Email, "@"):
		return "Please provide a valid email address."
	case len(f.Password) < minPasswordLength:
		return "Password must be at least 8 characters long."
	case f.Password != f.Confirm:
		return "Passwords do not match."
	}
	return ""
}

// Signup creates collector or artist accounts. Collectors continue to the
// onboarding wizard; artists go straight to their studio.
func Signup(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet, http.MethodHead:
		if ActiveSession(r) {
			redirectToApp(w, r)
			return
		}
		renderSignup(w, r, "", signupForm{Role: models.NormalizeRole(r.URL.Query().Get("role"))})
	case http.MethodPost:
		if sessionManager == nil || database == nil {
			applog.Warn(r.Context(), "signup attempted without session store or database")
			http.Error(w, "registration not available", http.StatusServiceUnavailable)
			return
		}
		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form submission", http.StatusBadRequest)
			return
		}

		form := signupForm{
			Name:     strings.TrimSpace(r.PostFormValue("name")),
			Email:    strings.TrimSpace(r.PostFormValue("email")),
			Password: r.PostFormValue("password"),
			Confirm:  r.PostFormValue("confirm_password"),
			Role:     models.NormalizeRole(r.PostFormValue("role")),
		}
		if message := form.problem(); message != "" {
			renderSignup(w, r, message, form)
			return
		}

		_, err := findUserByEmail(r, form.Email)
		switch {
		case err == nil:
			renderSignup(w, r, "An account with that email already exists.", form)
			return
		case !errors.Is(err, gorm.ErrRecordNotFound):
			applog.Error(r.Context(), "failed to check existing user", "error", err)
			renderSignup(w, r, signupFailedMessage, form)
			return
		}

		user, err := createUser(r, form.Email, form.Name, form.Password, form.Role)
		if err != nil {
			applog.Error(r.Context(), "failed to create user", "error", err)
			renderSignup(w, r, signupFailedMessage, form)
			return
		}
		if err := establishSession(r, user); err != nil {
			applog.Error(r.Context(), "failed to establish session after signup", "error", err)
			renderSignup(w, r, "We couldn't sign you in after creating your account. Please try again.", form)
			return
		}

		applog.Info(r.Context(), "account created", "userID", user.ID, "role", user.Role)
		redirectToApp(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func renderSignup(w http.ResponseWriter, r *http.Request, message string, form signupForm) {
	var component templ.Component = pages.Signup(message, form.Name, form.Email, form.Role)
	if isHTMX(r) {
		component = pages.SignupPartial(message, form.Name, form.Email, form.Role)
	}
	renderComponent(w, r, component)
}
