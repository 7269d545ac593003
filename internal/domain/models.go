package domain

import (
	"fmt"
	"time"
)

// Difficulty values as stored on games.
const (
	DifficultyEasy   = "Einfach"
	DifficultyMedium = "Mittel"
	DifficultyHard   = "Schwer"
)

// Labels substituted for missing game metadata. They are applied once at
// ingestion so that search, exact-match filters, and topic grouping all see
// the same value.
const (
	DefaultTopic   = "Ohne Thema"
	DefaultCreator = "Unbekannt"
)

const (
	Levels             = 6
	QuestionsPerLevel  = 3
	QuestionsPerGame   = Levels * QuestionsPerLevel
	AnswersPerQuestion = 4
)

// MoneyLadder is the CHF reward per level, indexed by zero-based level.
var MoneyLadder = [Levels]int{10, 100, 1000, 10000, 100000, 1000000}

// Question is one multiple-choice item embedded in a game.
type Question struct {
	Level   int      `json:"level"`
	Q       string   `json:"q"`
	A       []string `json:"a"`
	Correct int      `json:"correct"`
	Hint    string   `json:"hint,omitempty"`
}

// Game is a stored 18-question set playable by any identified user.
type Game struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Topic      string     `json:"topic"`
	Difficulty string     `json:"difficulty"`
	Creator    string     `json:"creator"`
	Plays      int        `json:"plays"`
	Ratings    []int      `json:"ratings,omitempty"`
	Rating     float64    `json:"rating"`
	Questions  []Question `json:"questions"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// Normalized returns a copy with the default labels applied to missing
// topic/creator fields.
func (g Game) Normalized() Game {
	if g.Topic == "" {
		g.Topic = DefaultTopic
	}
	if g.Creator == "" {
		g.Creator = DefaultCreator
	}
	return g
}

// PlayerScore is the append-only record of one play attempt's outcome.
// GameID is a weak reference; the game may have been deleted since.
type PlayerScore struct {
	ID          string    `json:"id"`
	PlayerName  string    `json:"playerName"`
	GameID      string    `json:"gameId"`
	GameTitle   string    `json:"gameTitle"`
	Level       int       `json:"level"`
	EarnedMoney int       `json:"earnedMoney"`
	Completed   bool      `json:"completed"`
	Timestamp   time.Time `json:"timestamp"`
}

// GenerationRequest is the input to the question supplier.
type GenerationRequest struct {
	Text       string `json:"text"`
	Topic      string `json:"topic"`
	Difficulty string `json:"difficulty"`
}

// MinTextLength is the minimum source text length for question generation.
const MinTextLength = 50

// Validate reports the first input problem, if any.
func (r GenerationRequest) Validate() error {
	if len(r.Text) < MinTextLength {
		return ErrTextTooShort
	}
	if r.Topic == "" {
		return ErrMissingTopic
	}
	if r.Difficulty == "" {
		return ErrMissingDifficulty
	}
	return nil
}

// ValidateQuestionSet enforces the strict supplier contract: exactly 18
// questions, 3 per level 1-6, 4 answers each, correct index in range.
// Any violation rejects the whole batch.
func ValidateQuestionSet(questions []Question) error {
	if len(questions) != QuestionsPerGame {
		return fmt.Errorf("%w: expected %d questions, got %d", ErrInvalidQuestionSet, QuestionsPerGame, len(questions))
	}
	perLevel := make(map[int]int, Levels)
	for i, q := range questions {
		if q.Level < 1 || q.Level > Levels {
			return fmt.Errorf("%w: question %d has level %d", ErrInvalidQuestionSet, i, q.Level)
		}
		if q.Q == "" {
			return fmt.Errorf("%w: question %d has empty text", ErrInvalidQuestionSet, i)
		}
		if len(q.A) != AnswersPerQuestion {
			return fmt.Errorf("%w: question %d has %d answers", ErrInvalidQuestionSet, i, len(q.A))
		}
		if q.Correct < 0 || q.Correct >= len(q.A) {
			return fmt.Errorf("%w: question %d has correct index %d", ErrInvalidQuestionSet, i, q.Correct)
		}
		perLevel[q.Level]++
	}
	for level := 1; level <= Levels; level++ {
		if perLevel[level] != QuestionsPerLevel {
			return fmt.Errorf("%w: level %d has %d questions, want %d", ErrInvalidQuestionSet, level, perLevel[level], QuestionsPerLevel)
		}
	}
	return nil
}
