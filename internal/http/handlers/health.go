package handlers

import (
	"net/http"

	"wanderai/internal/middleware"
)

func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]any{
		"status":              "ok",
		"upstream_configured": a.Photos != nil && a.Photos.Configured(),
	})
}

func (a *App) Root(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]string{
		"message": localize(middleware.LocaleFromContext(r.Context()), "welcome"),
	})
}
