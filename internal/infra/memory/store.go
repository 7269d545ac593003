// Package memory provides an in-memory record store, used in tests and when
// no Postgres URL is configured.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"millionenspiel-service/internal/domain"

	"github.com/google/uuid"
)

// Store keeps games and player scores in process memory. It mirrors the
// document store's read semantics: games newest-first, scores ordered by
// earned money descending.
type Store struct {
	mu     sync.RWMutex
	clock  func() time.Time
	games  map[string]domain.Game
	order  []string // game ids in insertion order
	scores []domain.PlayerScore
}

func NewStore() *Store {
	return &Store{
		clock: time.Now,
		games: make(map[string]domain.Game),
	}
}

// NewStoreWithClock is test-only for deterministic timestamps.
func NewStoreWithClock(now func() time.Time) *Store {
	s := NewStore()
	s.clock = now
	return s
}

// CreateGame assigns an id and timestamp and resets the play statistics;
// callers cannot seed plays or ratings.
func (s *Store) CreateGame(_ context.Context, game domain.Game) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	game.ID = uuid.NewString()
	game.CreatedAt = s.clock()
	game.Plays = 0
	game.Rating = 0
	game.Ratings = nil

	s.games[game.ID] = game
	s.order = append(s.order, game.ID)
	return game.ID, nil
}

func (s *Store) GetGame(_ context.Context, id string) (domain.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	game, ok := s.games[id]
	if !ok {
		return domain.Game{}, domain.ErrGameNotFound
	}
	return game, nil
}

func (s *Store) ListGames(_ context.Context, limit int) ([]domain.Game, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	games := make([]domain.Game, 0, len(s.order))
	for _, id := range s.order {
		games = append(games, s.games[id])
	}
	// Newest first; the stable sort keeps insertion order among equal
	// timestamps.
	sort.SliceStable(games, func(i, j int) bool {
		return games[i].CreatedAt.After(games[j].CreatedAt)
	})
	if len(games) > limit {
		games = games[:limit]
	}
	return games, nil
}

// IncrementPlays is a no-op for empty or unknown ids.
func (s *Store) IncrementPlays(_ context.Context, id string) error {
	if id == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	game, ok := s.games[id]
	if !ok {
		return nil
	}
	game.Plays++
	s.games[id] = game
	return nil
}

// AppendRating appends and recomputes the cached mean under the store lock,
// so concurrent raters cannot overwrite each other's average.
func (s *Store) AppendRating(_ context.Context, id string, rating int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	game, ok := s.games[id]
	if !ok {
		return domain.ErrGameNotFound
	}
	game.Ratings = append(game.Ratings, rating)
	sum := 0
	for _, r := range game.Ratings {
		sum += r
	}
	game.Rating = float64(sum) / float64(len(game.Ratings))
	s.games[id] = game
	return nil
}

func (s *Store) CreateScore(_ context.Context, score domain.PlayerScore) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	score.ID = uuid.NewString()
	score.Timestamp = s.clock()
	s.scores = append(s.scores, score)
	return nil
}

func (s *Store) ListScores(_ context.Context) ([]domain.PlayerScore, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortScores(s.scores), nil
}

func (s *Store) ListScoresByPlayer(_ context.Context, playerName string) ([]domain.PlayerScore, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var mine []domain.PlayerScore
	for _, score := range s.scores {
		if score.PlayerName == playerName {
			mine = append(mine, score)
		}
	}
	return sortScores(mine), nil
}

func sortScores(scores []domain.PlayerScore) []domain.PlayerScore {
	out := make([]domain.PlayerScore, len(scores))
	copy(out, scores)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].EarnedMoney > out[j].EarnedMoney
	})
	return out
}
