package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/a-h/templ"

	applog "artmatch/internal/log"
	"artmatch/internal/validation"
	"artmatch/internal/views/pages"
	"artmatch/models"
)

// Onboarding shows the preference wizard and stores its answers. Users who
// already completed it are sent to their dashboard unless they asked to edit.
func Onboarding(w http.ResponseWriter, r *http.Request) {
	if database == nil {
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	}

	editing := r.URL.Query().Get("edit") != ""

	switch r.Method {
	case http.MethodGet, http.MethodHead:
		if sessionOnboarded(r) && !editing {
			redirectToApp(w, r)
			return
		}
		user, err := loadCurrentUser(r)
		if err != nil {
			applog.Error(r.Context(), "unable to load current user for onboarding", "error", err)
			redirectToLogin(w, r)
			return
		}
		prefs := user.Preferences.Data()
		renderOnboarding(w, r, http.StatusOK, pages.OnboardingData{
			UserName: user.Name,
			Budget:   prefs.Budget,
			Context:  prefs.Context,
			Contexts: engine.Rules().ContextNames(),
			Styles:   prefs.Styles,
			Editing:  user.Onboarded,
		})
	case http.MethodPost:
		user, err := loadCurrentUser(r)
		if err != nil {
			applog.Error(r.Context(), "unable to load current user for onboarding", "error", err)
			redirectToLogin(w, r)
			return
		}
		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form submission", http.StatusBadRequest)
			return
		}

		submitted := models.Preferences{
			Budget:  strings.TrimSpace(r.PostFormValue("budget")),
			Context: strings.TrimSpace(r.PostFormValue("context")),
			Styles:  r.PostForm["styles"],
		}
		data := pages.OnboardingData{
			UserName: user.Name,
			Budget:   submitted.Budget,
			Context:  submitted.Context,
			Contexts: engine.Rules().ContextNames(),
			Styles:   submitted.Styles,
			Editing:  user.Onboarded,
		}

		if submitted.Budget == "" || len(submitted.Styles) == 0 {
			data.Message = "Pick a budget and at least one style."
			renderOnboarding(w, r, http.StatusOK, data)
			return
		}

		if _, err := savePreferences(r, user, submitted); err != nil {
			var validationErr *validation.RequestValidationError
			if errors.As(err, &validationErr) {
				data.Message = validationErr.Error()
				renderOnboarding(w, r, http.StatusOK, data)
				return
			}
			applog.Error(r.Context(), "failed to save onboarding preferences", "error", err)
			data.Message = "We couldn't save your preferences. Please try again."
			renderOnboarding(w, r, http.StatusInternalServerError, data)
			return
		}

		putFlash(r, "Your gallery has been updated.")
		redirectTo(w, r, "/app")
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func renderOnboarding(w http.ResponseWriter, r *http.Request, status int, data pages.OnboardingData) {
	var component templ.Component
	if isHTMX(r) && r.Header.Get("HX-Boosted") != "true" {
		component = pages.OnboardingForm(data)
	} else {
		component = pages.Onboarding(data)
	}
	renderComponentStatus(w, r, status, component)
}
