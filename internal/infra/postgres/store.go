// Package postgres implements the record store on Postgres. Questions and
// ratings live as JSONB inside the game row, keeping the document shape of
// the collections.
package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"millionenspiel-service/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) CreateGame(ctx context.Context, game domain.Game) (string, error) {
	questions, err := json.Marshal(game.Questions)
	if err != nil {
		return "", fmt.Errorf("marshal questions: %w", err)
	}
	id := uuid.NewString()
	_, err = s.pool.Exec(ctx, `
		INSERT INTO games (id, title, topic, difficulty, creator, plays, ratings, rating, questions, created_at)
		VALUES ($1, $2, $3, $4, $5, 0, '[]', 0, $6, now())`,
		id, game.Title, game.Topic, game.Difficulty, game.Creator, questions)
	if err != nil {
		return "", fmt.Errorf("insert game: %w", err)
	}
	return id, nil
}

func (s *Store) GetGame(ctx context.Context, id string) (domain.Game, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, title, topic, difficulty, creator, plays, ratings, rating, questions, created_at
		FROM games WHERE id = $1`, id)
	game, err := scanGame(row)
	if err == pgx.ErrNoRows {
		return domain.Game{}, domain.ErrGameNotFound
	}
	if err != nil {
		return domain.Game{}, fmt.Errorf("load game: %w", err)
	}
	return game, nil
}

func (s *Store) ListGames(ctx context.Context, limit int) ([]domain.Game, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	rows, err := s.pool.Query(ctx, `
		SELECT id, title, topic, difficulty, creator, plays, ratings, rating, questions, created_at
		FROM games ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	defer rows.Close()

	var games []domain.Game
	for rows.Next() {
		game, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("scan game: %w", err)
		}
		games = append(games, game)
	}
	return games, rows.Err()
}

// IncrementPlays is atomic on the database side and a no-op for empty or
// unknown ids.
func (s *Store) IncrementPlays(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	_, err := s.pool.Exec(ctx, `UPDATE games SET plays = plays + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("increment plays: %w", err)
	}
	return nil
}

// AppendRating appends to the ratings array and recomputes the cached mean
// in the same statement, so concurrent raters cannot lose updates.
func (s *Store) AppendRating(ctx context.Context, id string, rating int) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE games
		SET ratings = ratings || to_jsonb($2::int),
		    rating  = (SELECT avg(value::numeric) FROM jsonb_array_elements_text(ratings || to_jsonb($2::int)))
		WHERE id = $1`, id, rating)
	if err != nil {
		return fmt.Errorf("append rating: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrGameNotFound
	}
	return nil
}

func (s *Store) CreateScore(ctx context.Context, score domain.PlayerScore) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO player_scores (id, player_name, game_id, game_title, level, earned_money, completed, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now())`,
		uuid.NewString(), score.PlayerName, score.GameID, score.GameTitle, score.Level, score.EarnedMoney, score.Completed)
	if err != nil {
		return fmt.Errorf("insert score: %w", err)
	}
	return nil
}

func (s *Store) ListScores(ctx context.Context) ([]domain.PlayerScore, error) {
	return s.listScores(ctx, `
		SELECT id, player_name, game_id, game_title, level, earned_money, completed, created_at
		FROM player_scores ORDER BY earned_money DESC`)
}

func (s *Store) ListScoresByPlayer(ctx context.Context, playerName string) ([]domain.PlayerScore, error) {
	return s.listScores(ctx, `
		SELECT id, player_name, game_id, game_title, level, earned_money, completed, created_at
		FROM player_scores WHERE player_name = $1 ORDER BY earned_money DESC`, playerName)
}

func (s *Store) listScores(ctx context.Context, query string, args ...interface{}) ([]domain.PlayerScore, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list scores: %w", err)
	}
	defer rows.Close()

	var scores []domain.PlayerScore
	for rows.Next() {
		var score domain.PlayerScore
		err := rows.Scan(&score.ID, &score.PlayerName, &score.GameID, &score.GameTitle,
			&score.Level, &score.EarnedMoney, &score.Completed, &score.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("scan score: %w", err)
		}
		scores = append(scores, score)
	}
	return scores, rows.Err()
}

func scanGame(row pgx.Row) (domain.Game, error) {
	var (
		game         domain.Game
		rawRatings   []byte
		rawQuestions []byte
	)
	err := row.Scan(&game.ID, &game.Title, &game.Topic, &game.Difficulty, &game.Creator,
		&game.Plays, &rawRatings, &game.Rating, &rawQuestions, &game.CreatedAt)
	if err != nil {
		return domain.Game{}, err
	}
	if err := json.Unmarshal(rawRatings, &game.Ratings); err != nil {
		return domain.Game{}, fmt.Errorf("unmarshal ratings: %w", err)
	}
	if err := json.Unmarshal(rawQuestions, &game.Questions); err != nil {
		return domain.Game{}, fmt.Errorf("unmarshal questions: %w", err)
	}
	return game, nil
}
