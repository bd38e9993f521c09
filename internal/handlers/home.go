package handlers

import (
	"net/http"

	"artmatch/internal/views/pages"
)

// Home renders the public landing page.
func Home(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	renderComponent(w, r, pages.Home(ActiveSession(r)))
}
