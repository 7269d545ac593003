package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter wires the REST and websocket surfaces.
func NewRouter(h *Handler, ws *WSHandler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	r.Post("/generate-questions", h.GenerateQuestions)

	r.Route("/games", func(r chi.Router) {
		r.Post("/", h.CreateGame)
		r.Get("/", h.ListGames)
		r.Get("/{gameID}", h.GetGame)
		r.Post("/{gameID}/ratings", h.RateGame)
		r.Post("/{gameID}/results", h.RecordResult)
	})

	r.Get("/dashboard", h.Dashboard)
	r.Get("/ws", ws.ServeWS)

	return r
}
