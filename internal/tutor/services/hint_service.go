package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/architect/adaptive-tutor/internal/common/errors"
	"github.com/architect/adaptive-tutor/internal/common/validation"
	"github.com/architect/adaptive-tutor/internal/tutor/generation"
	"github.com/architect/adaptive-tutor/internal/tutor/models"
	"github.com/architect/adaptive-tutor/internal/tutor/topics"
	"github.com/architect/adaptive-tutor/pkg/logger"
)

// GetHint asks the topic's backend for a Socratic hint at the requested
// escalation level. Backend failures degrade to a canned hint so the
// learner always gets something.
func GetHint(ctx context.Context, req models.HintRequest) (*models.HintResponse, error) {
	topic := topics.Topic(req.Topic)
	if !topics.IsValid(topic) {
		return nil, errors.InvalidTopic(req.Topic)
	}
	if err := validation.IntRange(req.HintLevel, 1, 4); err != nil {
		return nil, errors.BadRequest("hint_level: " + err.Error())
	}
	difficulty := req.Difficulty
	if err := validation.IntRange(difficulty, models.MinDifficulty, models.MaxDifficulty); err != nil {
		difficulty = models.MinDifficulty
	}

	prompt := generation.BuildHintPrompt(topic, req.Question, req.WrongAnswer, difficulty, req.HintLevel)
	hint, err := router.CompleteRaw(ctx, topic, prompt)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		logger.Warn("hint backend failed, serving fallback", zap.String("topic", req.Topic), zap.Error(err))
		return &models.HintResponse{Hint: generation.FallbackHint(req.HintLevel)}, nil
	}

	return &models.HintResponse{Hint: hint}, nil
}
