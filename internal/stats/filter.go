package stats

import (
	"strings"

	"millionenspiel-service/internal/domain"
)

// All is the sentinel selector value meaning "no filter".
const All = "Alle"

// Leaderboard size bounds.
const (
	MinTopLimit = 1
	MaxTopLimit = 100
)

// Filter is the dashboard's filter/search/limit configuration. The zero
// value is permissive except for TopLimit, which Normalize clamps up to
// MinTopLimit.
type Filter struct {
	Topic         string
	Difficulty    string
	Creator       string
	Search        string
	MinPlays      int
	OnlyCompleted bool
	TopLimit      int
}

// Normalize fills empty selectors with the All sentinel, floors MinPlays at
// zero, and clamps TopLimit into [MinTopLimit, MaxTopLimit].
func (f Filter) Normalize() Filter {
	if f.Topic == "" {
		f.Topic = All
	}
	if f.Difficulty == "" {
		f.Difficulty = All
	}
	if f.Creator == "" {
		f.Creator = All
	}
	if f.MinPlays < 0 {
		f.MinPlays = 0
	}
	if f.TopLimit < MinTopLimit {
		f.TopLimit = MinTopLimit
	}
	if f.TopLimit > MaxTopLimit {
		f.TopLimit = MaxTopLimit
	}
	return f
}

// matchesGame requires g to be normalized (default topic/creator applied).
func (f Filter) matchesGame(g domain.Game) bool {
	if !f.searchMatchesGame(g) {
		return false
	}
	if f.Topic != All && g.Topic != f.Topic {
		return false
	}
	if f.Difficulty != All && g.Difficulty != f.Difficulty {
		return false
	}
	if f.Creator != All && g.Creator != f.Creator {
		return false
	}
	return g.Plays >= f.MinPlays
}

// matchesScore applies the game-level checks to the score's associated game.
// A score whose game is missing never matches; referential gaps are dropped
// silently, not reported.
func (f Filter) matchesScore(s domain.PlayerScore, gamesByID map[string]domain.Game) bool {
	g, ok := gamesByID[s.GameID]
	if !ok {
		return false
	}
	if f.OnlyCompleted && !s.Completed {
		return false
	}
	if f.Topic != All && g.Topic != f.Topic {
		return false
	}
	if f.Difficulty != All && g.Difficulty != f.Difficulty {
		return false
	}
	if f.Creator != All && g.Creator != f.Creator {
		return false
	}
	if g.Plays < f.MinPlays {
		return false
	}
	return f.searchMatchesScore(s, g)
}

func (f Filter) searchMatchesGame(g domain.Game) bool {
	if f.Search == "" {
		return true
	}
	q := strings.ToLower(f.Search)
	return contains(g.Title, q) || contains(g.Topic, q) || contains(g.Creator, q)
}

func (f Filter) searchMatchesScore(s domain.PlayerScore, g domain.Game) bool {
	if f.Search == "" {
		return true
	}
	q := strings.ToLower(f.Search)
	return contains(s.PlayerName, q) || contains(s.GameTitle, q) || contains(g.Topic, q) || contains(g.Creator, q)
}

func contains(haystack, loweredNeedle string) bool {
	return strings.Contains(strings.ToLower(haystack), loweredNeedle)
}

// FilterGames returns the games matching f, in input order. Games are
// normalized before matching.
func FilterGames(games []domain.Game, f Filter) []domain.Game {
	f = f.Normalize()
	out := make([]domain.Game, 0, len(games))
	for _, g := range games {
		g = g.Normalized()
		if f.matchesGame(g) {
			out = append(out, g)
		}
	}
	return out
}

// FilterScores returns the scores matching f, in input order. Scores whose
// game is absent from games are excluded.
func FilterScores(scores []domain.PlayerScore, games []domain.Game, f Filter) []domain.PlayerScore {
	f = f.Normalize()
	byID := indexGames(games)
	out := make([]domain.PlayerScore, 0, len(scores))
	for _, s := range scores {
		if f.matchesScore(s, byID) {
			out = append(out, s)
		}
	}
	return out
}

func indexGames(games []domain.Game) map[string]domain.Game {
	byID := make(map[string]domain.Game, len(games))
	for _, g := range games {
		byID[g.ID] = g.Normalized()
	}
	return byID
}
