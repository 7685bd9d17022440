// Package classify assigns category, intent, severity and source to free text.
package classify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	dom "inputdash/internal/domain"

	"go.uber.org/zap"
)

var (
	// ErrUnavailable indicates the model endpoint could not be reached.
	ErrUnavailable = errors.New("classifier unavailable")

	// ErrTimeout indicates the model call exceeded its deadline.
	ErrTimeout = errors.New("classifier request timed out")

	// ErrInvalidOutput indicates the model answered with something that is not
	// a classification.
	ErrInvalidOutput = errors.New("invalid classifier output")
)

const (
	ProviderKeyword = "keyword"
	ProviderOpenAI  = "openai"
	ProviderGemini  = "gemini"
)

// Classifier turns text into a Classification. hint is the source the caller
// already knows about, or "" when there is none.
type Classifier interface {
	Name() string
	Classify(ctx context.Context, text string, hint dom.Source) (dom.Classification, error)
}

// Config selects and tunes the model-backed classifier.
type Config struct {
	Provider   string
	APIKey     string
	Endpoint   string
	Model      string
	Timeout    time.Duration
	MaxRetries int
}

// New returns the classifier described by cfg. Without an API key, or with the
// keyword provider, it returns the keyword classifier alone. Model-backed
// classifiers are wrapped so that any failure falls back to keywords.
func New(ctx context.Context, cfg Config, log *zap.Logger) (Classifier, error) {
	if log == nil {
		log = zap.NewNop()
	}
	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	if provider == "" || provider == ProviderKeyword || strings.TrimSpace(cfg.APIKey) == "" {
		return Keyword{}, nil
	}
	observer := NewZapObserver(log)

	var primary Classifier
	switch provider {
	case ProviderOpenAI:
		primary = NewOpenAI(cfg, observer)
	case ProviderGemini:
		g, err := NewGemini(ctx, cfg, observer)
		if err != nil {
			return nil, err
		}
		primary = g
	default:
		return nil, fmt.Errorf("unknown classifier provider %q", cfg.Provider)
	}
	return WithFallback(primary, log), nil
}

// Fallback tries the primary classifier and uses keyword matching when it fails.
type Fallback struct {
	primary Classifier
	log     *zap.Logger
}

func WithFallback(primary Classifier, log *zap.Logger) *Fallback {
	if log == nil {
		log = zap.NewNop()
	}
	return &Fallback{primary: primary, log: log}
}

func (f *Fallback) Name() string { return f.primary.Name() + "+keyword" }

func (f *Fallback) Classify(ctx context.Context, text string, hint dom.Source) (dom.Classification, error) {
	c, err := f.primary.Classify(ctx, text, hint)
	if err == nil {
		return c, nil
	}
	f.log.Warn("classifier failed, using keyword fallback",
		zap.String("classifier", f.primary.Name()),
		zap.Error(err))
	return KeywordClassify(text, hint), nil
}
