package summarize

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/sashabaranov/go-openai"
	log "github.com/sirupsen/logrus"
	"google.golang.org/api/option"
)

// DefaultPrompt is the system instruction used when no prompt file is configured.
const DefaultPrompt = "You summarize portfolio content for site visitors. Answer with plain prose only."

// maxPromptRunes keeps very long bodies from blowing the provider's context window.
const maxPromptRunes = 12000

func buildPrompt(body, query string, maxSentences int) string {
	if maxSentences <= 0 {
		maxSentences = DefaultSentences
	}
	text := []rune(PlainText(body))
	if len(text) > maxPromptRunes {
		text = text[:maxPromptRunes]
	}
	return fmt.Sprintf("Summarize the following text in at most %d sentences, focusing on what is relevant to the search %q.\n\n%s",
		maxSentences, query, string(text))
}

type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAI asks a chat completion model for an abstractive summary.
type OpenAI struct {
	client chatCompleter
	model  string
	prompt string
}

func NewOpenAI(apiKey, model, prompt string) (*OpenAI, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai summarizer: %w (summarization.openai_api_key)", ErrNotAvailable)
	}
	if model == "" {
		model = openai.GPT4oMini
	}
	if prompt == "" {
		prompt = DefaultPrompt
	}
	return &OpenAI{client: openai.NewClient(apiKey), model: model, prompt: prompt}, nil
}

func (s *OpenAI) Summarize(ctx context.Context, body, query string, maxSentences int) (string, error) {
	if strings.TrimSpace(body) == "" {
		return "", ErrEmptyText
	}
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: s.prompt},
			{Role: openai.ChatMessageRoleUser, Content: buildPrompt(body, query, maxSentences)},
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai completion: no choices returned")
	}
	log.WithFields(log.Fields{"model": s.model, "tokens": resp.Usage.TotalTokens}).Debug("openai summary generated")
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

type contentGenerator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// Gemini asks a Google generative model for an abstractive summary.
type Gemini struct {
	client *genai.Client
	model  contentGenerator
	name   string
}

func NewGemini(ctx context.Context, apiKey, model, prompt string) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini summarizer: %w (summarization.google_api_key)", ErrNotAvailable)
	}
	if model == "" {
		model = "gemini-1.5-flash"
	}
	if prompt == "" {
		prompt = DefaultPrompt
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	gm := client.GenerativeModel(model)
	gm.SystemInstruction = genai.NewUserContent(genai.Text(prompt))
	return &Gemini{client: client, model: gm, name: model}, nil
}

func (s *Gemini) Summarize(ctx context.Context, body, query string, maxSentences int) (string, error) {
	if strings.TrimSpace(body) == "" {
		return "", ErrEmptyText
	}
	resp, err := s.model.GenerateContent(ctx, genai.Text(buildPrompt(body, query, maxSentences)))
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("gemini generate: no candidates returned")
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	log.WithField("model", s.name).Debug("gemini summary generated")
	return strings.TrimSpace(b.String()), nil
}

func (s *Gemini) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Close()
}
