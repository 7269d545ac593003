// Package generator implements the question supplier on the OpenAI chat
// completions API. A response is either a complete, valid 18-question set or
// a rejected batch; there is no partial acceptance.
package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"millionenspiel-service/internal/domain"

	openai "github.com/sashabaranov/go-openai"
)

const (
	defaultModel = openai.GPT4oMini
	temperature  = 0.7
	maxTokens    = 4000
)

// Client generates question sets from source text.
type Client struct {
	api   *openai.Client
	model string
}

// New builds a supplier client. baseURL overrides the API endpoint (used in
// tests); an empty model falls back to the default.
func New(apiKey, baseURL, model string) *Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if model == "" {
		model = defaultModel
	}
	return &Client{api: openai.NewClientWithConfig(cfg), model: model}
}

// Generate asks the model for exactly 18 questions, 3 per level, and
// validates the batch strictly.
func (c *Client) Generate(ctx context.Context, req domain.GenerationRequest) ([]domain.Question, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    []openai.ChatCompletionMessage{{Role: openai.ChatMessageRoleUser, Content: buildPrompt(req)}},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: empty completion", domain.ErrInvalidQuestionSet)
	}

	raw := stripCodeFences(resp.Choices[0].Message.Content)
	var questions []domain.Question
	if err := json.Unmarshal([]byte(raw), &questions); err != nil {
		return nil, fmt.Errorf("%w: parse response: %v", domain.ErrInvalidQuestionSet, err)
	}
	if err := domain.ValidateQuestionSet(questions); err != nil {
		return nil, err
	}
	return questions, nil
}

// stripCodeFences removes markdown code blocks some models wrap around JSON.
func stripCodeFences(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

func buildPrompt(req domain.GenerationRequest) string {
	var b strings.Builder
	b.WriteString("Du bist ein Quiz-Generator für ein Millionenspiel. Erstelle EXAKT 18 Multiple-Choice-Fragen basierend auf folgendem Text.\n\n")
	b.WriteString("WICHTIG: Die Fragen müssen in 6 Level unterteilt werden (Level 1-6), mit EXAKT 3 Fragen pro Level.\n\n")
	b.WriteString("Level-Struktur:\n")
	for i, money := range domain.MoneyLadder {
		fmt.Fprintf(&b, "- Level %d (%d CHF): 3 Fragen, Schwierigkeit steigend\n", i+1, money)
	}
	fmt.Fprintf(&b, "\nThema: %s\nSchwierigkeit: %s\n\nText:\n%s\n\n", req.Topic, req.Difficulty, req.Text)
	b.WriteString("Antworte NUR mit einem JSON-Array. Jede Frage muss EXAKT diese Struktur haben:\n")
	b.WriteString(`{"level": 1-6, "q": "Frage?", "a": ["Antwort A", "Antwort B", "Antwort C", "Antwort D"], "correct": 0-3, "hint": "Hilfreicher Hinweis"}`)
	b.WriteString("\n\nWICHTIG: Erstelle ALLE 18 Fragen (6 Level × 3 Fragen). Antworte NUR mit dem JSON-Array, ohne Markdown-Code-Blöcke oder Erklärungen.")
	return b.String()
}
