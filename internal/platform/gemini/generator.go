package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"google.golang.org/genai"

	"github.com/flashdeck/flashdeck-api/internal/config"
	"github.com/flashdeck/flashdeck-api/internal/generation"
)

const (
	// defaultModelName is used when the configuration does not name a model.
	defaultModelName = "gemini-2.5-flash"

	// defaultMaxRetries bounds transient-failure retries when the
	// configuration does not choose a value.
	defaultMaxRetries = 3

	// baseRetryDelay seeds the exponential backoff between retries.
	baseRetryDelay = 2 * time.Second

	// draftTemperature keeps output varied without drifting off format.
	draftTemperature float32 = 0.7
)

// Generator implements the generation.Generator interface using Google's
// Gemini API.
type Generator struct {
	logger     *slog.Logger
	client     *genai.Client
	model      string
	maxRetries int
}

// Verify interface compliance at compile time
var _ generation.Generator = (*Generator)(nil)

// NewGenerator creates a Gemini-backed draft generator.
func NewGenerator(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*Generator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}

	model := cfg.ModelName
	if model == "" {
		model = defaultModelName
	}

	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v", generation.ErrInvalidConfig, err)
	}

	return &Generator{
		logger:     logger.With(slog.String("component", "gemini_generator")),
		client:     client,
		model:      model,
		maxRetries: maxRetries,
	}, nil
}

// GenerateCards implements generation.Generator.GenerateCards.
func (g *Generator) GenerateCards(ctx context.Context, source generation.Source, count int) ([]generation.CardDraft, error) {
	prompt, err := renderPrompt(cardPromptTemplate, source, count)
	if err != nil {
		return nil, err
	}

	text, err := g.callWithRetry(ctx, prompt)
	if err != nil {
		return nil, err
	}

	return parseCards(text, count)
}

// GenerateQuiz implements generation.Generator.GenerateQuiz.
func (g *Generator) GenerateQuiz(ctx context.Context, source generation.Source, count int) ([]generation.QuizDraft, error) {
	prompt, err := renderPrompt(quizPromptTemplate, source, count)
	if err != nil {
		return nil, err
	}

	text, err := g.callWithRetry(ctx, prompt)
	if err != nil {
		return nil, err
	}

	return parseQuiz(text, count)
}

// callWithRetry sends the prompt to the model, retrying transient failures
// with exponential backoff and jitter. Safety blocks and malformed responses
// are permanent and returned immediately.
func (g *Generator) callWithRetry(ctx context.Context, prompt string) (string, error) {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	genConfig := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		Temperature:      genai.Ptr(draftTemperature),
	}

	for attempt := 0; attempt <= g.maxRetries; attempt++ {
		resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), genConfig)

		text, classified := classifyResponse(resp, err)
		if classified == nil {
			return text, nil
		}

		g.logger.Warn("gemini call failed",
			slog.Int("attempt", attempt+1),
			slog.Int("max_attempts", g.maxRetries+1),
			slog.String("error", classified.Error()))

		if !errors.Is(classified, generation.ErrTransientFailure) {
			return "", classified
		}
		if attempt == g.maxRetries {
			return "", fmt.Errorf("%w: exceeded %d attempts", generation.ErrTransientFailure, g.maxRetries+1)
		}

		// delay = base * 2^attempt, jittered down to between half and full
		backoff := float64(baseRetryDelay) * math.Pow(2, float64(attempt))
		delay := time.Duration(backoff * (0.5 + rng.Float64()*0.5))

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return "", fmt.Errorf("%w: %v", generation.ErrTransientFailure, ctx.Err())
		}
	}

	return "", fmt.Errorf("%w: exceeded %d attempts", generation.ErrTransientFailure, g.maxRetries+1)
}

// classifyResponse sorts an API outcome into success, a permanent failure, or
// a transient one worth retrying. API transport errors are assumed transient;
// structural problems with the response are not.
func classifyResponse(resp *genai.GenerateContentResponse, err error) (string, error) {
	if err != nil {
		return "", fmt.Errorf("%w: %v", generation.ErrTransientFailure, err)
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: no content generated", generation.ErrInvalidResponse)
	}
	if resp.Candidates[0].FinishReason == genai.FinishReasonSafety {
		return "", generation.ErrContentBlocked
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("%w: empty content in response", generation.ErrInvalidResponse)
	}
	return text, nil
}
