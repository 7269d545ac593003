package app

import (
	"context"
	"fmt"
	"log"

	"millionenspiel-service/internal/domain"
)

// GameStore abstracts the games collection (Postgres, in-memory, ...).
type GameStore interface {
	CreateGame(ctx context.Context, game domain.Game) (string, error)
	GetGame(ctx context.Context, id string) (domain.Game, error)
	ListGames(ctx context.Context, limit int) ([]domain.Game, error)
	// IncrementPlays is atomic and a no-op for absent or empty ids.
	IncrementPlays(ctx context.Context, id string) error
	// AppendRating atomically appends and recomputes the cached mean.
	AppendRating(ctx context.Context, id string, rating int) error
}

// ScoreStore abstracts the append-only player score log.
type ScoreStore interface {
	CreateScore(ctx context.Context, score domain.PlayerScore) error
	ListScores(ctx context.Context) ([]domain.PlayerScore, error)
	ListScoresByPlayer(ctx context.Context, playerName string) ([]domain.PlayerScore, error)
}

// GameLoader is the read side used on the play path; a cache may sit in
// front of the store here.
type GameLoader interface {
	GetGame(ctx context.Context, id string) (domain.Game, error)
}

// QuestionSupplier turns source text into a validated 18-question set.
type QuestionSupplier interface {
	Generate(ctx context.Context, req domain.GenerationRequest) ([]domain.Question, error)
}

// GameService contains the game lifecycle use cases: creation, browsing,
// rating, and play finalization.
type GameService struct {
	games    GameStore
	scores   ScoreStore
	loader   GameLoader
	supplier QuestionSupplier
}

func NewGameService(games GameStore, scores ScoreStore, loader GameLoader, supplier QuestionSupplier) *GameService {
	if loader == nil {
		loader = games
	}
	return &GameService{games: games, scores: scores, loader: loader, supplier: supplier}
}

// CreateGameParams carries the creation form.
type CreateGameParams struct {
	Title      string `json:"title"`
	Topic      string `json:"topic"`
	Difficulty string `json:"difficulty"`
	Creator    string `json:"creator"`
	Text       string `json:"text"`
}

// CreateGame validates the input, asks the supplier for a question set, and
// persists the game. Supplier failures create no partial game.
func (s *GameService) CreateGame(ctx context.Context, p CreateGameParams) (domain.Game, error) {
	if p.Title == "" {
		return domain.Game{}, domain.ErrMissingTitle
	}
	req := domain.GenerationRequest{Text: p.Text, Topic: p.Topic, Difficulty: p.Difficulty}
	if err := req.Validate(); err != nil {
		return domain.Game{}, err
	}

	questions, err := s.supplier.Generate(ctx, req)
	if err != nil {
		return domain.Game{}, fmt.Errorf("generate questions: %w", err)
	}

	game := domain.Game{
		Title:      p.Title,
		Topic:      p.Topic,
		Difficulty: p.Difficulty,
		Creator:    p.Creator,
		Questions:  questions,
	}
	id, err := s.games.CreateGame(ctx, game)
	if err != nil {
		return domain.Game{}, fmt.Errorf("save game: %w", err)
	}
	return s.games.GetGame(ctx, id)
}

// Game loads one game for playing, through the cache when one is configured.
func (s *GameService) Game(ctx context.Context, id string) (domain.Game, error) {
	return s.loader.GetGame(ctx, id)
}

// ListGames returns the newest games, up to the store's fetch limit.
func (s *GameService) ListGames(ctx context.Context, limit int) ([]domain.Game, error) {
	return s.games.ListGames(ctx, limit)
}

// Rate appends one rating in 1..5 to a game.
func (s *GameService) Rate(ctx context.Context, gameID string, rating int) error {
	if rating < 1 || rating > 5 {
		return domain.ErrInvalidRating
	}
	return s.games.AppendRating(ctx, gameID, rating)
}

// FinishPlay records one completed play attempt: a plays increment on the
// game and an appended score. Both writes are best-effort; failures are
// logged and returned, and callers are free to ignore them.
func (s *GameService) FinishPlay(ctx context.Context, score domain.PlayerScore) error {
	if score.PlayerName == "" {
		return domain.ErrMissingPlayerName
	}
	var firstErr error
	if err := s.games.IncrementPlays(ctx, score.GameID); err != nil {
		log.Printf("increment plays for game %s: %v", score.GameID, err)
		firstErr = err
	}
	if err := s.scores.CreateScore(ctx, score); err != nil {
		log.Printf("save score for player %s: %v", score.PlayerName, err)
		if firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
