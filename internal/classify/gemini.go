package classify

import (
	"context"
	"fmt"
	"time"

	dom "inputdash/internal/domain"

	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.0-flash"

// Gemini classifies through Google's Gemini API.
type Gemini struct {
	client   *genai.Client
	model    string
	timeout  time.Duration
	observer Observer
}

func NewGemini(ctx context.Context, cfg Config, observer Observer) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini: API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	model := cfg.Model
	if model == "" {
		model = defaultGeminiModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if observer == nil {
		observer = NoopObserver{}
	}
	return &Gemini{client: client, model: model, timeout: timeout, observer: observer}, nil
}

func (g *Gemini) Name() string { return ProviderGemini }

func (g *Gemini) Classify(ctx context.Context, text string, hint dom.Source) (dom.Classification, error) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	result, err := g.classify(ctx, text, hint)
	if err != nil && ctx.Err() != nil {
		err = fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	g.observer.OnCallComplete(CallEvent{
		Provider:  ProviderGemini,
		Model:     g.model,
		Latency:   time.Since(start),
		Success:   err == nil,
		ErrorCode: errorCode(err),
	})
	return result, err
}

func (g *Gemini) classify(ctx context.Context, text string, hint dom.Source) (dom.Classification, error) {
	user, err := userPrompt(text, hint)
	if err != nil {
		return dom.Classification{}, err
	}
	resp, err := g.client.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{genai.NewContentFromText(user, genai.RoleUser)},
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
			Temperature:       genai.Ptr[float32](0),
			ResponseMIMEType:  "application/json",
		},
	)
	if err != nil {
		return dom.Classification{}, fmt.Errorf("gemini generate: %w", err)
	}
	return parseOutput(resp.Text(), hint)
}
