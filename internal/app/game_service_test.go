package app_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"millionenspiel-service/internal/app"
	"millionenspiel-service/internal/domain"
	"millionenspiel-service/internal/infra/memory"
)

func TestCreateGamePersistsSupplierOutput(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	service := app.NewGameService(store, store, nil, staticSupplier{})

	game, err := service.CreateGame(ctx, app.CreateGameParams{
		Title:      "Schweizer Geschichte",
		Topic:      "Geschichte",
		Difficulty: domain.DifficultyMedium,
		Creator:    "anna",
		Text:       strings.Repeat("Die Geschichte der Schweiz. ", 5),
	})
	if err != nil {
		t.Fatalf("create game: %v", err)
	}
	if game.ID == "" {
		t.Fatalf("expected store-assigned id")
	}
	if len(game.Questions) != domain.QuestionsPerGame {
		t.Fatalf("expected %d questions, got %d", domain.QuestionsPerGame, len(game.Questions))
	}
	if game.Plays != 0 || game.Rating != 0 {
		t.Fatalf("new game carries stats: %+v", game)
	}
	if game.CreatedAt.IsZero() {
		t.Fatalf("expected creation timestamp")
	}
}

func TestCreateGameValidatesInput(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	service := app.NewGameService(store, store, nil, staticSupplier{})

	cases := []struct {
		name    string
		params  app.CreateGameParams
		wantErr error
	}{
		{"missing title", app.CreateGameParams{Topic: "T", Difficulty: "Einfach", Text: longText()}, domain.ErrMissingTitle},
		{"short text", app.CreateGameParams{Title: "T", Topic: "T", Difficulty: "Einfach", Text: "zu kurz"}, domain.ErrTextTooShort},
		{"missing topic", app.CreateGameParams{Title: "T", Difficulty: "Einfach", Text: longText()}, domain.ErrMissingTopic},
		{"missing difficulty", app.CreateGameParams{Title: "T", Topic: "T", Text: longText()}, domain.ErrMissingDifficulty},
	}
	for _, tc := range cases {
		if _, err := service.CreateGame(ctx, tc.params); !errors.Is(err, tc.wantErr) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.wantErr, err)
		}
	}
	if games, _ := store.ListGames(ctx, 100); len(games) != 0 {
		t.Fatalf("validation failure created a game")
	}
}

func TestCreateGameRejectsBadSupplierBatch(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	service := app.NewGameService(store, store, nil, brokenSupplier{})

	_, err := service.CreateGame(ctx, app.CreateGameParams{
		Title: "T", Topic: "T", Difficulty: "Einfach", Text: longText(),
	})
	if !errors.Is(err, domain.ErrInvalidQuestionSet) {
		t.Fatalf("expected ErrInvalidQuestionSet, got %v", err)
	}
	if games, _ := store.ListGames(ctx, 100); len(games) != 0 {
		t.Fatalf("partial game created on supplier failure")
	}
}

func TestRateRecomputesAverage(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	service := app.NewGameService(store, store, nil, staticSupplier{})

	game := seedGame(t, store)
	for _, r := range []int{4, 5, 3} {
		if err := service.Rate(ctx, game.ID, r); err != nil {
			t.Fatalf("rate %d: %v", r, err)
		}
	}
	got, err := store.GetGame(ctx, game.ID)
	if err != nil {
		t.Fatalf("get game: %v", err)
	}
	if got.Rating != 4.0 {
		t.Fatalf("expected rating 4.0, got %v", got.Rating)
	}
	if len(got.Ratings) != 3 {
		t.Fatalf("expected 3 ratings, got %d", len(got.Ratings))
	}

	if err := service.Rate(ctx, game.ID, 0); err != domain.ErrInvalidRating {
		t.Fatalf("expected ErrInvalidRating, got %v", err)
	}
	if err := service.Rate(ctx, game.ID, 6); err != domain.ErrInvalidRating {
		t.Fatalf("expected ErrInvalidRating, got %v", err)
	}
}

func TestFinishPlayRecordsScoreAndIncrement(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	service := app.NewGameService(store, store, nil, staticSupplier{})

	game := seedGame(t, store)
	err := service.FinishPlay(ctx, domain.PlayerScore{
		PlayerName:  "anna",
		GameID:      game.ID,
		GameTitle:   game.Title,
		Level:       3,
		EarnedMoney: 1000,
	})
	if err != nil {
		t.Fatalf("finish play: %v", err)
	}

	got, _ := store.GetGame(ctx, game.ID)
	if got.Plays != 1 {
		t.Fatalf("expected 1 play, got %d", got.Plays)
	}
	scores, _ := store.ListScores(ctx)
	if len(scores) != 1 || scores[0].Timestamp.IsZero() {
		t.Fatalf("score not recorded: %+v", scores)
	}
}

func TestFinishPlayWithoutGameStillRecordsScore(t *testing.T) {
	// A score for a deleted game keeps the play log append-only; the plays
	// increment is a no-op.
	ctx := context.Background()
	store := memory.NewStore()
	service := app.NewGameService(store, store, nil, staticSupplier{})

	err := service.FinishPlay(ctx, domain.PlayerScore{
		PlayerName: "anna",
		GameID:     "gone",
		Level:      1,
	})
	if err != nil {
		t.Fatalf("finish play: %v", err)
	}
	scores, _ := store.ListScores(ctx)
	if len(scores) != 1 {
		t.Fatalf("expected score recorded, got %d", len(scores))
	}

	if err := service.FinishPlay(ctx, domain.PlayerScore{GameID: "x"}); err != domain.ErrMissingPlayerName {
		t.Fatalf("expected ErrMissingPlayerName, got %v", err)
	}
}

func seedGame(t *testing.T, store *memory.Store) domain.Game {
	t.Helper()
	questions, _ := staticSupplier{}.Generate(context.Background(), domain.GenerationRequest{})
	id, err := store.CreateGame(context.Background(), domain.Game{
		Title: "Testspiel", Topic: "Thema", Difficulty: "Einfach", Creator: "anna", Questions: questions,
	})
	if err != nil {
		t.Fatalf("seed game: %v", err)
	}
	game, err := store.GetGame(context.Background(), id)
	if err != nil {
		t.Fatalf("load seeded game: %v", err)
	}
	return game
}

func longText() string {
	return strings.Repeat("Text über ein Thema. ", 5)
}

type staticSupplier struct{}

func (staticSupplier) Generate(_ context.Context, _ domain.GenerationRequest) ([]domain.Question, error) {
	var questions []domain.Question
	for level := 1; level <= domain.Levels; level++ {
		for n := 0; n < domain.QuestionsPerLevel; n++ {
			questions = append(questions, domain.Question{
				Level:   level,
				Q:       "Frage",
				A:       []string{"a", "b", "c", "d"},
				Correct: 0,
			})
		}
	}
	return questions, nil
}

type brokenSupplier struct{}

func (brokenSupplier) Generate(_ context.Context, _ domain.GenerationRequest) ([]domain.Question, error) {
	// Simulates a supplier response that failed structural validation.
	return nil, domain.ErrInvalidQuestionSet
}
