// Package briefing produces the home page market news briefing with a
// language model.
package briefing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/impoot/impoot/internal/models"
)

// Prompt asks for three one-line "keyword: summary" news items.
const Prompt = "대한민국 부동산 최신 뉴스 3개를 '키워드: 내용' 형식으로 한줄 요약해줘."

// MaxLines is the number of briefing lines kept from a response.
const MaxLines = 3

// ErrNotConfigured is returned when no API key is set.
var ErrNotConfigured = errors.New("briefing generator is not configured")

// Generator produces raw briefing text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ChatGenerator calls an OpenAI-compatible chat completions endpoint.
type ChatGenerator struct {
	client openai.Client
	model  string
	ready  bool
}

// NewChatGenerator creates a generator for baseURL. An empty apiKey yields
// a generator that always fails with ErrNotConfigured.
func NewChatGenerator(baseURL, apiKey, model string) *ChatGenerator {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &ChatGenerator{
		client: openai.NewClient(opts...),
		model:  model,
		ready:  apiKey != "",
	}
}

// Generate sends prompt as a single user message and returns the reply.
func (g *ChatGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if !g.ready {
		return "", ErrNotConfigured
	}
	resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(g.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// Parse keeps the first MaxLines lines that contain a colon. The text before
// the first colon becomes the highlight.
func Parse(text string) []models.Briefing {
	out := []models.Briefing{}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if !strings.Contains(line, ":") {
			continue
		}
		highlight, _, _ := strings.Cut(line, ":")
		out = append(out, models.Briefing{
			Text:      line,
			Highlight: strings.TrimSpace(highlight),
		})
		if len(out) == MaxLines {
			break
		}
	}
	return out
}

// Generate asks g for a fresh briefing and parses it.
func Generate(ctx context.Context, g Generator) ([]models.Briefing, error) {
	text, err := g.Generate(ctx, Prompt)
	if err != nil {
		return nil, err
	}
	lines := Parse(text)
	if len(lines) == 0 {
		return nil, errors.New("briefing response had no 'keyword: summary' lines")
	}
	return lines, nil
}
