package generation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	apperrors "github.com/architect/adaptive-tutor/internal/common/errors"
	"github.com/architect/adaptive-tutor/internal/llm"
	"github.com/architect/adaptive-tutor/internal/tutor/dedup"
	"github.com/architect/adaptive-tutor/internal/tutor/models"
	"github.com/architect/adaptive-tutor/internal/tutor/topics"
)

// Router binds each topic to its completion backend and normalizes raw
// backend output into the canonical question shape.
type Router struct {
	backends map[string]llm.Provider
	filter   *ContentFilter
	timeout  time.Duration
}

// NewRouter creates a router with the given per-call timeout and denylist.
func NewRouter(timeout time.Duration, denylist []string) *Router {
	return &Router{
		backends: make(map[string]llm.Provider),
		filter:   NewContentFilter(denylist),
		timeout:  timeout,
	}
}

// Register attaches a provider under its backend identity.
func (r *Router) Register(p llm.Provider) {
	r.backends[p.Name()] = p
}

// rawCandidate is the strict JSON shape requested from backends.
type rawCandidate struct {
	Question    string            `json:"question"`
	Context     string            `json:"context"`
	Options     map[string]string `json:"options"`
	Correct     string            `json:"correct"`
	Explanation string            `json:"explanation"`
}

// Generate asks the topic's backend for one candidate question. Every
// failure is classified as a GenerationFailure so the orchestrator can
// count it against the attempt budget.
func (r *Router) Generate(ctx context.Context, p QuestionParams) (*models.GeneratedQuestion, error) {
	info, ok := topics.Lookup(p.Topic)
	if !ok {
		return nil, apperrors.InvalidTopic(string(p.Topic))
	}

	provider, ok := r.backends[info.Backend]
	if !ok {
		return nil, apperrors.NewGenerationFailure(apperrors.BackendUnavailable,
			fmt.Errorf("backend %q not configured", info.Backend))
	}

	prompt := BuildQuestionPrompt(info, p)

	callCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	raw, err := provider.Complete(callCtx, prompt)
	if err != nil {
		return nil, classifyBackendError(err)
	}

	candidate, err := r.normalize(raw)
	if err != nil {
		return nil, err
	}

	question := &models.GeneratedQuestion{
		Topic:       string(p.Topic),
		Subtopic:    p.Subtopic,
		Context:     p.Context,
		Difficulty:  p.Difficulty,
		Grade:       p.Grade,
		Mood:        p.Mood,
		Question:    candidate.Question,
		Passage:     candidate.Context,
		Options:     candidate.Options,
		Correct:     candidate.Correct,
		Explanation: candidate.Explanation,
	}
	question.Fingerprint = dedup.Fingerprint(
		question.Topic, question.Subtopic, question.Context,
		question.Difficulty, question.Question,
	)
	return question, nil
}

// CompleteRaw routes a free-form prompt to the topic's backend. Used for
// hint generation where no question shape applies.
func (r *Router) CompleteRaw(ctx context.Context, topic topics.Topic, prompt string) (string, error) {
	info, ok := topics.Lookup(topic)
	if !ok {
		return "", apperrors.InvalidTopic(string(topic))
	}
	provider, ok := r.backends[info.Backend]
	if !ok {
		return "", apperrors.NewGenerationFailure(apperrors.BackendUnavailable,
			fmt.Errorf("backend %q not configured", info.Backend))
	}

	callCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	text, err := provider.Complete(callCtx, prompt)
	if err != nil {
		return "", classifyBackendError(err)
	}
	return text, nil
}

// normalize extracts, parses, validates and filters one raw response.
func (r *Router) normalize(raw string) (*rawCandidate, error) {
	payload, ok := ExtractJSON(raw)
	if !ok {
		return nil, apperrors.NewGenerationFailure(apperrors.MalformedResponse,
			errors.New("no JSON object in backend response"))
	}

	var candidate rawCandidate
	if err := json.Unmarshal([]byte(payload), &candidate); err != nil {
		return nil, apperrors.NewGenerationFailure(apperrors.MalformedResponse, err)
	}

	if err := validateCandidate(&candidate); err != nil {
		return nil, apperrors.NewGenerationFailure(apperrors.MalformedResponse, err)
	}

	fields := []string{candidate.Question, candidate.Context, candidate.Explanation}
	for _, opt := range candidate.Options {
		fields = append(fields, opt)
	}
	if err := r.filter.CheckAll(fields...); err != nil {
		return nil, apperrors.NewGenerationFailure(apperrors.PolicyViolation, err)
	}

	return &candidate, nil
}

// validateCandidate enforces the four-option invariant.
func validateCandidate(c *rawCandidate) error {
	if c.Question == "" {
		return errors.New("missing question text")
	}
	if c.Explanation == "" {
		return errors.New("missing explanation")
	}
	if len(c.Options) != 4 {
		return fmt.Errorf("expected 4 options, got %d", len(c.Options))
	}
	for _, label := range []string{"A", "B", "C", "D"} {
		if c.Options[label] == "" {
			return fmt.Errorf("option %s missing or empty", label)
		}
	}
	switch c.Correct {
	case "A", "B", "C", "D":
	default:
		return fmt.Errorf("correct label %q not in {A,B,C,D}", c.Correct)
	}
	return nil
}

// classifyBackendError maps transport errors onto the retryable
// GenerationFailure taxonomy.
func classifyBackendError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.NewGenerationFailure(apperrors.BackendTimeout, err)
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	var unavail *llm.ErrUnavailable
	if errors.As(err, &unavail) {
		return apperrors.NewGenerationFailure(apperrors.BackendUnavailable, err)
	}
	var empty *llm.ErrEmptyResponse
	if errors.As(err, &empty) {
		return apperrors.NewGenerationFailure(apperrors.MalformedResponse, err)
	}
	return apperrors.NewGenerationFailure(apperrors.BackendUnavailable, err)
}
