// Package stats computes every dashboard view from game and score snapshots.
// All functions are pure; callers fetch the inputs and re-run the computation
// on each filter change.
package stats

import (
	"math"
	"sort"

	"millionenspiel-service/internal/domain"
)

// HistoryLimit caps the personal history view.
const HistoryLimit = 10

// Sizes of the popularity and topic rankings.
const (
	PopularLimit    = 5
	TopicShareLimit = 5
	PlayersPerTopic = 3
)

// Totals are the global counters, computed from the unfiltered inputs.
type Totals struct {
	Games       int     `json:"totalGames"`
	Plays       int     `json:"totalPlays"`
	AvgRating   float64 `json:"avgRating"`
	Players     int     `json:"totalPlayers"`
	MillionWins int     `json:"millionWins"`
}

// PersonalTotals are the current player's unfiltered counters.
type PersonalTotals struct {
	Plays    int `json:"myTotalPlays"`
	Wins     int `json:"myWins"`
	Earnings int `json:"myTotalEarnings"`
}

// LeaderboardEntry is one row of the global leaderboard.
type LeaderboardEntry struct {
	Rank            int    `json:"rank"`
	PlayerName      string `json:"playerName"`
	GameTitle       string `json:"gameTitle"`
	EarnedMoney     int    `json:"earnedMoney"`
	Completed       bool   `json:"completed"`
	IsCurrentPlayer bool   `json:"isCurrentPlayer"`
}

// PopularGame is one row of the most-played ranking.
type PopularGame struct {
	Title   string  `json:"title"`
	Topic   string  `json:"topic"`
	Creator string  `json:"creator"`
	Plays   int     `json:"plays"`
	Rating  float64 `json:"rating"`
}

// TopicPlayer is a player's best score within one topic.
type TopicPlayer struct {
	PlayerName  string `json:"playerName"`
	EarnedMoney int    `json:"earnedMoney"`
}

// TopicRanking lists the top players of one topic, best first.
type TopicRanking struct {
	Topic   string        `json:"topic"`
	Players []TopicPlayer `json:"players"`
}

// TopicShare is one topic's slice of the filtered game set.
type TopicShare struct {
	Topic string `json:"topic"`
	Count int    `json:"count"`
	Share int    `json:"share"`
}

// Dashboard bundles every derived view the dashboard renders.
type Dashboard struct {
	Totals         Totals               `json:"totals"`
	Personal       PersonalTotals       `json:"personal"`
	Leaderboard    []LeaderboardEntry   `json:"leaderboard"`
	History        []domain.PlayerScore `json:"history"`
	PopularGames   []PopularGame        `json:"popularGames"`
	TopicRankings  []TopicRanking       `json:"topicRankings"`
	TopicShares    []TopicShare         `json:"topicShares"`
	TopicOptions   []string             `json:"topicOptions"`
	CreatorOptions []string             `json:"creatorOptions"`
	FilteredGames  int                  `json:"filteredGames"`
	FilteredScores int                  `json:"filteredScores"`
}

// Compute derives the full dashboard. games, scores, and myScores are
// read-only snapshots; their order is preserved wherever no explicit sort is
// specified (leaderboard ties, personal history).
func Compute(games []domain.Game, scores, myScores []domain.PlayerScore, player string, f Filter) Dashboard {
	f = f.Normalize()

	normalized := make([]domain.Game, len(games))
	for i, g := range games {
		normalized[i] = g.Normalized()
	}
	byID := make(map[string]domain.Game, len(normalized))
	for _, g := range normalized {
		byID[g.ID] = g
	}

	filteredGames := make([]domain.Game, 0, len(normalized))
	for _, g := range normalized {
		if f.matchesGame(g) {
			filteredGames = append(filteredGames, g)
		}
	}
	filteredScores := make([]domain.PlayerScore, 0, len(scores))
	for _, s := range scores {
		if f.matchesScore(s, byID) {
			filteredScores = append(filteredScores, s)
		}
	}

	return Dashboard{
		Totals:         computeTotals(normalized, scores),
		Personal:       computePersonal(myScores),
		Leaderboard:    computeLeaderboard(filteredScores, player, f.TopLimit),
		History:        computeHistory(myScores, byID, f),
		PopularGames:   computePopular(filteredGames),
		TopicRankings:  computeTopicRankings(filteredScores, byID),
		TopicShares:    computeTopicShares(filteredGames),
		TopicOptions:   distinct(normalized, func(g domain.Game) string { return g.Topic }),
		CreatorOptions: distinct(normalized, func(g domain.Game) string { return g.Creator }),
		FilteredGames:  len(filteredGames),
		FilteredScores: len(filteredScores),
	}
}

func computeTotals(games []domain.Game, scores []domain.PlayerScore) Totals {
	t := Totals{Games: len(games)}
	ratingSum := 0.0
	for _, g := range games {
		t.Plays += g.Plays
		ratingSum += g.Rating
	}
	if len(games) > 0 {
		t.AvgRating = round1(ratingSum / float64(len(games)))
	}
	players := make(map[string]struct{})
	for _, s := range scores {
		players[s.PlayerName] = struct{}{}
		if s.Completed {
			t.MillionWins++
		}
	}
	t.Players = len(players)
	return t
}

func computePersonal(myScores []domain.PlayerScore) PersonalTotals {
	p := PersonalTotals{Plays: len(myScores)}
	for _, s := range myScores {
		if s.Completed {
			p.Wins++
		}
		p.Earnings += s.EarnedMoney
	}
	return p
}

// computeLeaderboard sorts stably by earned money so that ties keep the
// store's fetch order, then cuts to the configured limit.
func computeLeaderboard(filtered []domain.PlayerScore, player string, limit int) []LeaderboardEntry {
	ranked := make([]domain.PlayerScore, len(filtered))
	copy(ranked, filtered)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].EarnedMoney > ranked[j].EarnedMoney
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	entries := make([]LeaderboardEntry, len(ranked))
	for i, s := range ranked {
		entries[i] = LeaderboardEntry{
			Rank:            i + 1,
			PlayerName:      s.PlayerName,
			GameTitle:       s.GameTitle,
			EarnedMoney:     s.EarnedMoney,
			Completed:       s.Completed,
			IsCurrentPlayer: s.PlayerName == player,
		}
	}
	return entries
}

// computeHistory keeps the input order; unlike the leaderboard, the personal
// history is deliberately not re-sorted by money.
func computeHistory(myScores []domain.PlayerScore, byID map[string]domain.Game, f Filter) []domain.PlayerScore {
	out := make([]domain.PlayerScore, 0, HistoryLimit)
	for _, s := range myScores {
		if !f.matchesScore(s, byID) {
			continue
		}
		out = append(out, s)
		if len(out) == HistoryLimit {
			break
		}
	}
	return out
}

func computePopular(filtered []domain.Game) []PopularGame {
	ranked := make([]domain.Game, len(filtered))
	copy(ranked, filtered)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Plays > ranked[j].Plays
	})
	if len(ranked) > PopularLimit {
		ranked = ranked[:PopularLimit]
	}
	out := make([]PopularGame, len(ranked))
	for i, g := range ranked {
		out[i] = PopularGame{
			Title:   g.Title,
			Topic:   g.Topic,
			Creator: g.Creator,
			Plays:   g.Plays,
			Rating:  round1(g.Rating),
		}
	}
	return out
}

// computeTopicRankings groups the filtered scores by the associated game's
// topic, reduces each group to one best score per player, and keeps the top
// three. A player's best starts at 0 and only strictly greater values are
// recorded, so players who never earned anything in a topic are excluded; a
// topic whose scores are all zero is still emitted with an empty player list.
// Groups are emitted sorted by topic name.
func computeTopicRankings(filtered []domain.PlayerScore, byID map[string]domain.Game) []TopicRanking {
	type group struct {
		order []string
		best  map[string]int
	}
	groups := make(map[string]*group)
	var topicOrder []string

	for _, s := range filtered {
		topic := domain.DefaultTopic
		if g, ok := byID[s.GameID]; ok {
			topic = g.Topic
		}
		grp, ok := groups[topic]
		if !ok {
			grp = &group{best: make(map[string]int)}
			groups[topic] = grp
			topicOrder = append(topicOrder, topic)
		}
		if s.EarnedMoney > grp.best[s.PlayerName] {
			if _, seen := grp.best[s.PlayerName]; !seen {
				grp.order = append(grp.order, s.PlayerName)
			}
			grp.best[s.PlayerName] = s.EarnedMoney
		}
	}

	rankings := make([]TopicRanking, 0, len(groups))
	for _, topic := range topicOrder {
		grp := groups[topic]
		players := make([]TopicPlayer, 0, len(grp.order))
		for _, name := range grp.order {
			players = append(players, TopicPlayer{PlayerName: name, EarnedMoney: grp.best[name]})
		}
		sort.SliceStable(players, func(i, j int) bool {
			return players[i].EarnedMoney > players[j].EarnedMoney
		})
		if len(players) > PlayersPerTopic {
			players = players[:PlayersPerTopic]
		}
		rankings = append(rankings, TopicRanking{Topic: topic, Players: players})
	}
	sort.Slice(rankings, func(i, j int) bool {
		return rankings[i].Topic < rankings[j].Topic
	})
	return rankings
}

// computeTopicShares counts filtered games per topic and reports the top
// five with integer percentage shares. Shares of the cut need not sum to 100
// when more topics exist.
func computeTopicShares(filtered []domain.Game) []TopicShare {
	counts := make(map[string]int)
	var order []string
	for _, g := range filtered {
		if _, ok := counts[g.Topic]; !ok {
			order = append(order, g.Topic)
		}
		counts[g.Topic]++
	}
	total := len(filtered)

	shares := make([]TopicShare, 0, len(order))
	for _, topic := range order {
		count := counts[topic]
		share := 0
		if total > 0 {
			share = int(math.Round(100 * float64(count) / float64(total)))
		}
		shares = append(shares, TopicShare{Topic: topic, Count: count, Share: share})
	}
	sort.SliceStable(shares, func(i, j int) bool {
		return shares[i].Count > shares[j].Count
	})
	if len(shares) > TopicShareLimit {
		shares = shares[:TopicShareLimit]
	}
	return shares
}

// distinct lists the filter options for one game attribute, starting with
// the All sentinel so consumers can render the list as-is.
func distinct(games []domain.Game, key func(domain.Game) string) []string {
	seen := map[string]struct{}{All: {}}
	out := []string{All}
	for _, g := range games {
		k := key(g)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
