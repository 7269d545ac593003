package app

import (
	"context"
	"log"

	"millionenspiel-service/internal/domain"
	"millionenspiel-service/internal/stats"

	"golang.org/x/sync/errgroup"
)

// FetchLimit bounds the game snapshot the dashboard works on.
const FetchLimit = 100

// StatsService assembles the dashboard: it fetches the three input snapshots
// concurrently and hands them to the pure aggregation in the stats package.
type StatsService struct {
	games  GameStore
	scores ScoreStore
}

func NewStatsService(games GameStore, scores ScoreStore) *StatsService {
	return &StatsService{games: games, scores: scores}
}

// Dashboard computes all derived views for one player and filter. Store read
// failures degrade to empty inputs; the dashboard renders what it has.
func (s *StatsService) Dashboard(ctx context.Context, player string, f stats.Filter) stats.Dashboard {
	var (
		games      []domain.Game
		scores, my []domain.PlayerScore
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if games, err = s.games.ListGames(ctx, FetchLimit); err != nil {
			log.Printf("list games: %v", err)
			games = nil
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if scores, err = s.scores.ListScores(ctx); err != nil {
			log.Printf("list scores: %v", err)
			scores = nil
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if my, err = s.scores.ListScoresByPlayer(ctx, player); err != nil {
			log.Printf("list scores for %s: %v", player, err)
			my = nil
		}
		return nil
	})
	_ = g.Wait()

	return stats.Compute(games, scores, my, player, f)
}
