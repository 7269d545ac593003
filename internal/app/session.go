package app

import (
	"math/rand"
	"time"

	"millionenspiel-service/internal/domain"
)

// SessionState tracks where a play-through stands.
type SessionState int

const (
	StatePlaying SessionState = iota
	StateWon
	StateLost
)

// PlaySession drives one money-ladder play-through of a game: level pointer,
// random question selection, answer shuffling, joker, terminal outcome.
// It is not safe for concurrent use; each connection owns its own session.
type PlaySession struct {
	game      domain.Game
	rnd       *rand.Rand
	state     SessionState
	level     int // zero-based
	earned    int
	jokerUsed bool

	question     domain.Question
	answers      []string
	correctIndex int
}

// QuestionView is what a player is allowed to see: the correct index stays
// server-side.
type QuestionView struct {
	Level   int      `json:"level"`
	Money   int      `json:"money"`
	Q       string   `json:"q"`
	A       []string `json:"a"`
	HasHint bool     `json:"hasHint"`
}

// AnswerOutcome reports the result of one answer.
type AnswerOutcome struct {
	Correct      bool         `json:"correct"`
	CorrectIndex int          `json:"correctIndex"`
	EarnedMoney  int          `json:"earnedMoney"`
	State        SessionState `json:"-"`
}

// NewPlaySession starts a session at level 1 with a time-seeded source.
func NewPlaySession(game domain.Game) *PlaySession {
	return NewPlaySessionWithRand(game, rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewPlaySessionWithRand allows deterministic question picks and shuffles in tests.
func NewPlaySessionWithRand(game domain.Game, rnd *rand.Rand) *PlaySession {
	s := &PlaySession{game: game, rnd: rnd}
	s.nextQuestion()
	return s
}

func (s *PlaySession) State() SessionState { return s.state }

func (s *PlaySession) EarnedMoney() int { return s.earned }

// Question returns the current question with shuffled answers.
func (s *PlaySession) Question() QuestionView {
	return QuestionView{
		Level:   s.level + 1,
		Money:   domain.MoneyLadder[s.level],
		Q:       s.question.Q,
		A:       s.answers,
		HasHint: !s.jokerUsed && s.question.Hint != "",
	}
}

// Answer applies the player's pick. A correct answer banks the level's money
// and either advances to the next level or wins the game at level 6; any
// wrong answer ends the session with the money banked so far.
func (s *PlaySession) Answer(index int) (AnswerOutcome, error) {
	if s.state != StatePlaying {
		return AnswerOutcome{}, domain.ErrSessionFinished
	}
	if index < 0 || index >= len(s.answers) {
		return AnswerOutcome{}, domain.ErrAnswerOutOfRange
	}

	correctIndex := s.correctIndex
	if index == s.correctIndex {
		s.earned = domain.MoneyLadder[s.level]
		if s.level == domain.Levels-1 {
			s.state = StateWon
		} else {
			s.level++
			s.nextQuestion()
		}
	} else {
		s.state = StateLost
	}
	return AnswerOutcome{
		Correct:      index == correctIndex,
		CorrectIndex: correctIndex,
		EarnedMoney:  s.earned,
		State:        s.state,
	}, nil
}

// UseJoker reveals the current question's hint, once per session.
func (s *PlaySession) UseJoker() (string, bool) {
	if s.state != StatePlaying || s.jokerUsed || s.question.Hint == "" {
		return "", false
	}
	s.jokerUsed = true
	return s.question.Hint, true
}

// Score builds the PlayerScore record for the session's outcome.
func (s *PlaySession) Score(playerName string) domain.PlayerScore {
	return domain.PlayerScore{
		PlayerName:  playerName,
		GameID:      s.game.ID,
		GameTitle:   s.game.Title,
		Level:       s.level + 1,
		EarnedMoney: s.earned,
		Completed:   s.state == StateWon,
	}
}

// nextQuestion picks uniformly among the questions tagged with the current
// level. Games without level tags fall back to positional slicing in
// consecutive groups of three.
func (s *PlaySession) nextQuestion() {
	level := s.level + 1
	var pool []domain.Question
	for _, q := range s.game.Questions {
		if q.Level == level {
			pool = append(pool, q)
		}
	}
	if len(pool) == 0 {
		start := s.level * domain.QuestionsPerLevel
		end := start + domain.QuestionsPerLevel
		if start >= len(s.game.Questions) {
			s.state = StateLost
			return
		}
		if end > len(s.game.Questions) {
			end = len(s.game.Questions)
		}
		pool = s.game.Questions[start:end]
	}

	q := pool[s.rnd.Intn(len(pool))]
	order := s.rnd.Perm(len(q.A))
	answers := make([]string, len(q.A))
	for pos, orig := range order {
		answers[pos] = q.A[orig]
		if orig == q.Correct {
			s.correctIndex = pos
		}
	}
	s.question = q
	s.answers = answers
}
