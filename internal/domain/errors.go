package domain

import "errors"

var (
	// ErrGameNotFound indicates the requested game does not exist in the store.
	ErrGameNotFound = errors.New("game not found")
	// ErrTextTooShort is returned when the source text is below MinTextLength.
	ErrTextTooShort = errors.New("text must be at least 50 characters")
	// ErrMissingTitle is returned when a game is created without a title.
	ErrMissingTitle = errors.New("title is required")
	// ErrMissingTopic is returned when generation is requested without a topic.
	ErrMissingTopic = errors.New("topic is required")
	// ErrMissingDifficulty is returned when generation is requested without a difficulty.
	ErrMissingDifficulty = errors.New("difficulty is required")
	// ErrMissingPlayerName is returned when a play result carries no player identity.
	ErrMissingPlayerName = errors.New("player name is required")
	// ErrInvalidRating is returned for ratings outside 1..5.
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
	// ErrInvalidQuestionSet indicates the supplier response failed structural validation.
	ErrInvalidQuestionSet = errors.New("invalid question set")
	// ErrSessionFinished is returned when acting on a won or lost play session.
	ErrSessionFinished = errors.New("play session already finished")
	// ErrAnswerOutOfRange is returned for answer indexes outside the shuffled options.
	ErrAnswerOutOfRange = errors.New("answer index out of range")
)
