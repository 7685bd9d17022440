package classify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	dom "inputdash/internal/domain"
)

const (
	defaultOpenAIEndpoint = "https://api.openai.com/v1"
	defaultOpenAIModel    = "gpt-4o-mini"
	defaultTimeout        = 10 * time.Second
)

// OpenAI classifies through the chat completions API.
type OpenAI struct {
	cfg      Config
	http     *http.Client
	observer Observer
}

func NewOpenAI(cfg Config, observer Observer) *OpenAI {
	if cfg.Endpoint == "" {
		cfg.Endpoint = defaultOpenAIEndpoint
	}
	cfg.Endpoint = strings.TrimRight(cfg.Endpoint, "/")
	if cfg.Model == "" {
		cfg.Model = defaultOpenAIModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if observer == nil {
		observer = NoopObserver{}
	}
	return &OpenAI{
		cfg: cfg,
		http: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{Timeout: 5 * time.Second}).DialContext,
			},
		},
		observer: observer,
	}
}

func (c *OpenAI) Name() string { return ProviderOpenAI }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (c *OpenAI) Classify(ctx context.Context, text string, hint dom.Source) (dom.Classification, error) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	user, err := userPrompt(text, hint)
	if err != nil {
		return dom.Classification{}, err
	}
	body := chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: user},
		},
		Temperature: 0,
	}

	var (
		content string
		lastErr error
	)
	for i := 0; i < 1+c.cfg.MaxRetries; i++ {
		content, lastErr = c.doRequest(ctx, body)
		if lastErr == nil || ctx.Err() != nil || !retryable(lastErr) {
			break
		}
	}

	var result dom.Classification
	if lastErr == nil {
		result, lastErr = parseOutput(content, hint)
	} else if ctx.Err() != nil {
		lastErr = fmt.Errorf("%w: %v", ErrTimeout, lastErr)
	} else if isConnectionError(lastErr) {
		lastErr = fmt.Errorf("%w: %v", ErrUnavailable, lastErr)
	}

	c.observer.OnCallComplete(CallEvent{
		Provider:  ProviderOpenAI,
		Model:     c.cfg.Model,
		Latency:   time.Since(start),
		Success:   lastErr == nil,
		ErrorCode: errorCode(lastErr),
	})
	if lastErr != nil {
		return dom.Classification{}, lastErr
	}
	return result, nil
}

func (c *OpenAI) doRequest(ctx context.Context, body chatRequest) (string, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint+"/chat/completions", bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", &statusError{code: resp.StatusCode, body: strings.TrimSpace(string(raw))}
	}

	var out chatResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("%w: decoding response: %v", ErrInvalidOutput, err)
	}
	if len(out.Choices) == 0 {
		return "{}", nil
	}
	return out.Choices[0].Message.Content, nil
}

// statusError is a non-200 answer from the provider.
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("openai returned status %d: %s", e.code, e.body)
}

// retryable reports whether another attempt may succeed: connection failures,
// rate limiting and server errors.
func retryable(err error) bool {
	var se *statusError
	if errors.As(err, &se) {
		return se.code == http.StatusTooManyRequests || se.code >= 500
	}
	return isConnectionError(err)
}
