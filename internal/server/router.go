package server

import (
	"context"
	"net/http"

	"artmatch/internal/handlers"
	applog "artmatch/internal/log"
)

func newRouter() http.Handler {
	mux := http.NewServeMux()
	applog.Debug(context.Background(), "registering http routes")

	mux.HandleFunc("/healthz", handlers.Health)
	mux.HandleFunc("/login", handlers.Login)
	mux.HandleFunc("/signup", handlers.Signup)
	mux.HandleFunc("/logout", handlers.Logout)
	applog.Debug(context.Background(), "public routes registered")

	dashboard := handlers.RequireOnboarding(http.HandlerFunc(handlers.Dashboard))
	mux.Handle("/app", dashboard)
	mux.Handle("/app/", dashboard)
	mux.Handle("/app/onboarding", handlers.RequireAuthentication(http.HandlerFunc(handlers.Onboarding)))
	mux.Handle("/app/artworks/{id}", handlers.RequireAuthentication(http.HandlerFunc(handlers.ArtworkDetail)))
	mux.Handle("/app/api/preferences", handlers.RequireAuthentication(http.HandlerFunc(handlers.Preferences)))
	mux.Handle("/app/api/artworks/{id}/like", handlers.RequireAuthentication(http.HandlerFunc(handlers.ToggleLike)))
	applog.Debug(context.Background(), "collector routes registered", "protected", true)

	mux.Handle("/app/artist", handlers.RequireArtist(http.HandlerFunc(handlers.ArtistDashboard)))
	mux.Handle("/app/api/artist/artworks", handlers.RequireArtist(http.HandlerFunc(handlers.ArtistArtworks)))
	mux.Handle("/app/api/artist/artworks/import", handlers.RequireArtist(http.HandlerFunc(handlers.ImportArtworks)))
	applog.Debug(context.Background(), "artist routes registered", "protected", true)

	mux.HandleFunc("/", handlers.Home)
	return mux
}
