package ollama

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stratuslabs/stratus/internal/config"
	"github.com/stratuslabs/stratus/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvider(t *testing.T, handler http.HandlerFunc) *Provider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewProvider(config.OllamaConfig{
		BaseURL: srv.URL,
		Model:   "llama3",
	}, 2*time.Second)
}

func TestComplete_Success(t *testing.T) {
	var gotReq chatRequest
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		json.NewEncoder(w).Encode(map[string]any{
			"message": map[string]any{"content": `{"climate_comparison": "much drier"}`},
		})
	})

	out, err := p.Complete(context.Background(), models.CompletionRequest{
		System:      "You are a helpful weather assistant.",
		Prompt:      "compare these climates",
		MaxTokens:   800,
		Temperature: 0.7,
	})
	require.NoError(t, err)
	assert.Equal(t, `{"climate_comparison": "much drier"}`, out)

	assert.Equal(t, "llama3", gotReq.Model)
	assert.False(t, gotReq.Stream)
	assert.Equal(t, 800, gotReq.Options.NumPredict)
	assert.InDelta(t, 0.7, gotReq.Options.Temperature, 0.001)
	require.Len(t, gotReq.Messages, 2)
	assert.Equal(t, "system", gotReq.Messages[0].Role)
}

func TestComplete_UpstreamStatus(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	})

	_, err := p.Complete(context.Background(), models.CompletionRequest{Prompt: "x"})
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrUpstreamStatus)
	assert.Contains(t, err.Error(), "404")
}

func TestComplete_MalformedBody(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("{not json"))
	})

	_, err := p.Complete(context.Background(), models.CompletionRequest{Prompt: "x"})
	assert.ErrorIs(t, err, models.ErrInvalidResponse)
}

func TestComplete_TimeoutClassified(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		// Drain the body so the server can detect the client abort and
		// cancel the request context; otherwise Close deadlocks.
		io.Copy(io.Discard, r.Body)
		<-r.Context().Done()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := p.Complete(ctx, models.CompletionRequest{Prompt: "x"})
	assert.ErrorIs(t, err, models.ErrInferenceTimeout)
}

func TestComplete_ServerDown(t *testing.T) {
	p := NewProvider(config.OllamaConfig{BaseURL: "http://127.0.0.1:1", Model: "llama3"}, time.Second)

	_, err := p.Complete(context.Background(), models.CompletionRequest{Prompt: "x"})
	assert.ErrorIs(t, err, models.ErrProviderUnavailable)
}
