package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"millionenspiel-service/internal/app"
	"millionenspiel-service/internal/domain"
	"millionenspiel-service/internal/stats"

	"github.com/go-chi/chi/v5"
)

// Handler exposes the REST surface: question generation, game lifecycle,
// and the dashboard.
type Handler struct {
	games    *app.GameService
	stats    *app.StatsService
	supplier app.QuestionSupplier
}

func NewHandler(games *app.GameService, statsService *app.StatsService, supplier app.QuestionSupplier) *Handler {
	return &Handler{games: games, stats: statsService, supplier: supplier}
}

// GenerateQuestions turns source text into a validated 18-question set
// without creating a game.
func (h *Handler) GenerateQuestions(w http.ResponseWriter, r *http.Request) {
	var req domain.GenerationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Text == "" || req.Topic == "" || req.Difficulty == "" {
		writeError(w, http.StatusBadRequest, "text, difficulty and topic are required")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	questions, err := h.supplier.Generate(r.Context(), req)
	if err != nil {
		log.Printf("generate questions: %v", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"questions": questions})
}

func (h *Handler) CreateGame(w http.ResponseWriter, r *http.Request) {
	var params app.CreateGameParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	game, err := h.games.CreateGame(r.Context(), params)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, game)
}

func (h *Handler) ListGames(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	games, err := h.games.ListGames(r.Context(), limit)
	if err != nil {
		log.Printf("list games: %v", err)
		// Fail open: the archive renders an empty list on store trouble.
		games = nil
	}
	if games == nil {
		games = []domain.Game{}
	}
	writeJSON(w, http.StatusOK, games)
}

func (h *Handler) GetGame(w http.ResponseWriter, r *http.Request) {
	game, err := h.games.Game(r.Context(), chi.URLParam(r, "gameID"))
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, game)
}

func (h *Handler) RateGame(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Rating int `json:"rating"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.games.Rate(r.Context(), chi.URLParam(r, "gameID"), body.Rating); err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RecordResult accepts a finished play attempt from clients that ran the
// session locally. The writes are best-effort: store failures are logged and
// the client still gets a 202.
func (h *Handler) RecordResult(w http.ResponseWriter, r *http.Request) {
	var score domain.PlayerScore
	if err := json.NewDecoder(r.Body).Decode(&score); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	score.GameID = chi.URLParam(r, "gameID")
	if score.PlayerName == "" {
		writeError(w, http.StatusBadRequest, domain.ErrMissingPlayerName.Error())
		return
	}
	if err := h.games.FinishPlay(r.Context(), score); err != nil {
		log.Printf("record result: %v", err)
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "recorded"})
}

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := stats.Filter{
		Topic:      q.Get("topic"),
		Difficulty: q.Get("difficulty"),
		Creator:    q.Get("creator"),
		Search:     q.Get("search"),
		TopLimit:   10,
	}
	if v := q.Get("minPlays"); v != "" {
		filter.MinPlays, _ = strconv.Atoi(v)
	}
	if v := q.Get("onlyCompleted"); v != "" {
		filter.OnlyCompleted, _ = strconv.ParseBool(v)
	}
	if v := q.Get("limit"); v != "" {
		if limit, err := strconv.Atoi(v); err == nil {
			filter.TopLimit = limit
		}
	}
	dashboard := h.stats.Dashboard(r.Context(), q.Get("player"), filter)
	writeJSON(w, http.StatusOK, dashboard)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrGameNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrMissingTitle),
		errors.Is(err, domain.ErrMissingTopic),
		errors.Is(err, domain.ErrMissingDifficulty),
		errors.Is(err, domain.ErrMissingPlayerName),
		errors.Is(err, domain.ErrTextTooShort),
		errors.Is(err, domain.ErrInvalidRating):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
