package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAnthropicProvider(t *testing.T, handler http.HandlerFunc) *AnthropicProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := anthropic.NewClient(
		option.WithAPIKey("test-key"),
		option.WithBaseURL(server.URL),
	)
	return &AnthropicProvider{
		client: &client,
		model:  "claude-haiku-4-5",
	}
}

func TestAnthropicProvider_Complete(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":   "msg_test",
			"type": "message",
			"role": "assistant",
			"content": []map[string]any{
				{"type": "text", "text": `{"question":"Pick the synonym of rapid."}`},
			},
			"model":       "claude-haiku-4-5",
			"stop_reason": "end_turn",
			"usage":       map[string]any{"input_tokens": 50, "output_tokens": 30},
		})
	}

	p := newTestAnthropicProvider(t, handler)
	text, err := p.Complete(context.Background(), "generate a question")
	require.NoError(t, err)
	assert.Equal(t, `{"question":"Pick the synonym of rapid."}`, text)
}

func TestAnthropicProvider_OverloadedIsUnavailable(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"type":"error","error":{"type":"overloaded_error","message":"overloaded"}}`))
	}

	p := newTestAnthropicProvider(t, handler)
	_, err := p.Complete(context.Background(), "generate a question")
	require.Error(t, err)

	var unavail *ErrUnavailable
	assert.True(t, errors.As(err, &unavail))
	assert.Equal(t, "anthropic", unavail.Backend)
}

func TestNewAnthropicProvider_RequiresKey(t *testing.T) {
	_, err := NewAnthropicProvider("", "claude-haiku-4-5")
	assert.Error(t, err)
}

func TestMockProvider_FIFOAndExhaustion(t *testing.T) {
	mock := NewMockProvider("mock",
		MockResponse{Text: "first"},
		MockResponse{Text: "second"},
	)

	text, err := mock.Complete(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "first", text)

	text, err = mock.Complete(context.Background(), "p2")
	require.NoError(t, err)
	assert.Equal(t, "second", text)

	_, err = mock.Complete(context.Background(), "p3")
	var unavail *ErrUnavailable
	assert.True(t, errors.As(err, &unavail))
	assert.Equal(t, 3, mock.CallCount())
}
