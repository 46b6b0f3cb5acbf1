package generation

import (
	"context"
	"testing"
	"time"

	apperrors "github.com/architect/adaptive-tutor/internal/common/errors"
	"github.com/architect/adaptive-tutor/internal/llm"
	"github.com/architect/adaptive-tutor/internal/tutor/topics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validResponse = `{
	"question": "If a team scores 3 goals per game, how many goals in 4 games?",
	"context": "",
	"options": {"A": "12", "B": "7", "C": "9", "D": "15"},
	"correct": "A",
	"explanation": "3 goals per game times 4 games equals 12."
}`

func mathParams() QuestionParams {
	return QuestionParams{
		Topic:      topics.MathAlgebra,
		Subtopic:   "linear equations",
		Context:    "sports",
		Difficulty: 4,
		Grade:      8,
	}
}

func newTestRouter(denylist []string, responses ...llm.MockResponse) (*Router, *llm.MockProvider) {
	mock := llm.NewMockProvider("openai", responses...)
	router := NewRouter(5*time.Second, denylist)
	router.Register(mock)
	return router, mock
}

func TestRouter_GenerateHappyPath(t *testing.T) {
	router, mock := newTestRouter(nil, llm.MockResponse{Text: validResponse})

	q, err := router.Generate(context.Background(), mathParams())
	require.NoError(t, err)

	assert.Equal(t, "math_algebra", q.Topic)
	assert.Equal(t, "linear equations", q.Subtopic)
	assert.Equal(t, 4, q.Difficulty)
	assert.Equal(t, "A", q.Correct)
	assert.Len(t, q.Options, 4)
	assert.NotEmpty(t, q.Fingerprint)
	assert.Equal(t, 1, mock.CallCount())
}

func TestRouter_GenerateToleratesProseWrapping(t *testing.T) {
	router, _ := newTestRouter(nil, llm.MockResponse{
		Text: "Here's your question!\n\n" + validResponse + "\n\nGood luck!",
	})

	q, err := router.Generate(context.Background(), mathParams())
	require.NoError(t, err)
	assert.Equal(t, "A", q.Correct)
}

func TestRouter_MalformedResponses(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"no JSON at all", "I cannot help with that."},
		{"missing option", `{"question":"q?","options":{"A":"1","B":"2","C":"3"},"correct":"A","explanation":"e"}`},
		{"empty option", `{"question":"q?","options":{"A":"1","B":"2","C":"3","D":""},"correct":"A","explanation":"e"}`},
		{"wrong label set", `{"question":"q?","options":{"A":"1","B":"2","C":"3","E":"4"},"correct":"A","explanation":"e"}`},
		{"correct not a label", `{"question":"q?","options":{"A":"1","B":"2","C":"3","D":"4"},"correct":"X","explanation":"e"}`},
		{"missing question", `{"question":"","options":{"A":"1","B":"2","C":"3","D":"4"},"correct":"A","explanation":"e"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, _ := newTestRouter(nil, llm.MockResponse{Text: tt.text})
			_, err := router.Generate(context.Background(), mathParams())
			require.Error(t, err)

			gf, ok := apperrors.AsGenerationFailure(err)
			require.True(t, ok, "expected GenerationFailure, got %T", err)
			assert.Equal(t, apperrors.MalformedResponse, gf.Kind)
		})
	}
}

func TestRouter_DenylistRejection(t *testing.T) {
	router, _ := newTestRouter([]string{"goals"}, llm.MockResponse{Text: validResponse})

	_, err := router.Generate(context.Background(), mathParams())
	require.Error(t, err)

	gf, ok := apperrors.AsGenerationFailure(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.PolicyViolation, gf.Kind)
}

func TestRouter_BackendUnavailable(t *testing.T) {
	router, _ := newTestRouter(nil) // empty queue -> ErrUnavailable

	_, err := router.Generate(context.Background(), mathParams())
	require.Error(t, err)

	gf, ok := apperrors.AsGenerationFailure(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.BackendUnavailable, gf.Kind)
}

func TestRouter_UnknownTopic(t *testing.T) {
	router, _ := newTestRouter(nil, llm.MockResponse{Text: validResponse})

	params := mathParams()
	params.Topic = "underwater_basket_weaving"
	_, err := router.Generate(context.Background(), params)
	require.Error(t, err)

	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeInvalidTopic, appErr.Code)
}

func TestRouter_UnregisteredBackend(t *testing.T) {
	router := NewRouter(5*time.Second, nil)
	// math routes to openai, which is not registered

	_, err := router.Generate(context.Background(), mathParams())
	require.Error(t, err)

	gf, ok := apperrors.AsGenerationFailure(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.BackendUnavailable, gf.Kind)
}

func TestRouter_TopicRoutesToBoundBackend(t *testing.T) {
	openaiMock := llm.NewMockProvider("openai", llm.MockResponse{Text: validResponse})
	anthropicMock := llm.NewMockProvider("anthropic", llm.MockResponse{Text: validResponse})

	router := NewRouter(5*time.Second, nil)
	router.Register(openaiMock)
	router.Register(anthropicMock)

	params := mathParams()
	params.Topic = topics.EnglishSynonyms
	params.Subtopic = "exact synonyms"
	_, err := router.Generate(context.Background(), params)
	require.NoError(t, err)

	assert.Equal(t, 0, openaiMock.CallCount())
	assert.Equal(t, 1, anthropicMock.CallCount())
}

func TestRouter_CompleteRaw(t *testing.T) {
	router, mock := newTestRouter(nil, llm.MockResponse{Text: "think about inverse operations"})

	text, err := router.CompleteRaw(context.Background(), topics.MathAlgebra, "hint prompt")
	require.NoError(t, err)
	assert.Equal(t, "think about inverse operations", text)
	assert.Equal(t, []string{"hint prompt"}, mock.Prompts)
}
