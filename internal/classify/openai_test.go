package classify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	dom "inputdash/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingObserver struct {
	events []CallEvent
}

func (r *recordingObserver) OnCallComplete(e CallEvent) { r.events = append(r.events, e) }

func chatServer(t *testing.T, content string, calls *int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls != nil {
			atomic.AddInt32(calls, 1)
		}
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-4o-mini", req.Model)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)

		var in promptInput
		require.NoError(t, json.Unmarshal([]byte(req.Messages[1].Content), &in))
		assert.Equal(t, "db is down", in.Text)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"model":   req.Model,
			"choices": []map[string]any{{"message": map[string]string{"role": "assistant", "content": content}}},
		})
	}))
}

func TestOpenAI_Classify_Success(t *testing.T) {
	srv := chatServer(t, `{"category":"incident","intent":"warning","severity":"high","source":"machine"}`, nil)
	defer srv.Close()

	obs := &recordingObserver{}
	c := NewOpenAI(Config{APIKey: "sk-test", Endpoint: srv.URL}, obs)
	got, err := c.Classify(context.Background(), "db is down", "")

	require.NoError(t, err)
	assert.Equal(t, dom.Classification{Category: dom.CategoryIncident, Intent: dom.IntentWarning, Severity: dom.SeverityHigh, Source: dom.SourceMachine}, got)
	require.Len(t, obs.events, 1)
	assert.True(t, obs.events[0].Success)
	assert.Equal(t, ProviderOpenAI, obs.events[0].Provider)
}

func TestOpenAI_Classify_InvalidOutput(t *testing.T) {
	srv := chatServer(t, `{"category":"weather"}`, nil)
	defer srv.Close()

	obs := &recordingObserver{}
	c := NewOpenAI(Config{APIKey: "sk-test", Endpoint: srv.URL}, obs)
	_, err := c.Classify(context.Background(), "db is down", "")

	assert.ErrorIs(t, err, ErrInvalidOutput)
	require.Len(t, obs.events, 1)
	assert.Equal(t, "INVALID_OUTPUT", obs.events[0].ErrorCode)
}

func TestOpenAI_Classify_RetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewOpenAI(Config{APIKey: "sk-test", Endpoint: srv.URL, MaxRetries: 2}, nil)
	_, err := c.Classify(context.Background(), "x", "")

	require.Error(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestOpenAI_Classify_RetriesRateLimit(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"{\"category\":\"note\"}"}}]}`))
	}))
	defer srv.Close()

	c := NewOpenAI(Config{APIKey: "sk-test", Endpoint: srv.URL, MaxRetries: 2}, nil)
	got, err := c.Classify(context.Background(), "x", "")

	require.NoError(t, err)
	assert.Equal(t, dom.CategoryNote, got.Category)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestOpenAI_Classify_NoRetryOnClientErrors(t *testing.T) {
	for _, tc := range []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"unauthorized", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}},
		{"bad request", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
		}},
		{"undecodable body", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("not json"))
		}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			var calls int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				atomic.AddInt32(&calls, 1)
				tc.handler(w, r)
			}))
			defer srv.Close()

			c := NewOpenAI(Config{APIKey: "sk-test", Endpoint: srv.URL, MaxRetries: 3}, nil)
			_, err := c.Classify(context.Background(), "x", "")

			require.Error(t, err)
			assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
		})
	}
}

func TestOpenAI_Classify_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	defer srv.Close()

	c := NewOpenAI(Config{APIKey: "sk-test", Endpoint: srv.URL, Timeout: 50 * time.Millisecond}, nil)
	_, err := c.Classify(context.Background(), "x", "")

	assert.ErrorIs(t, err, ErrTimeout)
}

func TestOpenAI_Classify_Unavailable(t *testing.T) {
	c := NewOpenAI(Config{APIKey: "sk-test", Endpoint: "http://127.0.0.1:1"}, nil)
	_, err := c.Classify(context.Background(), "x", "")

	assert.ErrorIs(t, err, ErrUnavailable)
}

type failingClassifier struct{}

func (failingClassifier) Name() string { return "broken" }

func (failingClassifier) Classify(context.Context, string, dom.Source) (dom.Classification, error) {
	return dom.Classification{}, errors.New("boom")
}

func TestFallback_UsesKeywordsOnError(t *testing.T) {
	f := WithFallback(failingClassifier{}, nil)
	got, err := f.Classify(context.Background(), "urgent: outage", dom.SourceVendor)

	require.NoError(t, err)
	assert.Equal(t, KeywordClassify("urgent: outage", dom.SourceVendor), got)
	assert.Equal(t, "broken+keyword", f.Name())
}

func TestNew(t *testing.T) {
	ctx := context.Background()

	c, err := New(ctx, Config{Provider: ProviderOpenAI}, nil)
	require.NoError(t, err)
	assert.Equal(t, "keyword", c.Name(), "no API key means keyword only")

	c, err = New(ctx, Config{Provider: ProviderOpenAI, APIKey: "k"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "openai+keyword", c.Name())

	_, err = New(ctx, Config{Provider: "mystery", APIKey: "k"}, nil)
	assert.Error(t, err)
}
