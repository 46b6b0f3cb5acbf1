package services

import (
	"context"
	"math"
	"time"

	"github.com/architect/adaptive-tutor/internal/common/errors"
	"github.com/architect/adaptive-tutor/internal/tutor/models"
	"github.com/architect/adaptive-tutor/internal/tutor/repository"
	"github.com/architect/adaptive-tutor/internal/tutor/topics"
)

// gradeMultiplier scales the mapped difficulty by grade level. Grade 8 is
// the baseline.
func gradeMultiplier(grade int) float64 {
	switch {
	case grade >= 5 && grade <= 6:
		return 0.8
	case grade == 7:
		return 0.9
	case grade == 8:
		return 1.0
	case grade == 9 || grade == 10:
		return 1.2
	case grade >= 11 && grade <= 12:
		return 1.4
	default:
		return 1.0
	}
}

// MapToDifficulty converts a proficiency score into a difficulty tier.
// Proficiency values outside [1,10] are clamped rather than rejected; the
// result always lands in [1,8].
func MapToDifficulty(proficiency, grade int) int {
	if proficiency < models.MinProficiency {
		proficiency = models.MinProficiency
	}
	if proficiency > models.MaxProficiency {
		proficiency = models.MaxProficiency
	}

	// Rescale position within [1,10] onto the tier space [1,8].
	position := float64(proficiency-models.MinProficiency) / float64(models.MaxProficiency-models.MinProficiency)
	tier := 1 + position*float64(models.MaxDifficulty-models.MinDifficulty)
	tier *= gradeMultiplier(grade)

	result := int(math.Round(tier))
	if result < models.MinDifficulty {
		result = models.MinDifficulty
	}
	if result > models.MaxDifficulty {
		result = models.MaxDifficulty
	}
	return result
}

// NextProficiency applies one graded attempt: correct answers move the
// score up one point, incorrect answers down one, clamped to [1,10].
// Abandoned attempts leave it unchanged.
func NextProficiency(current int, wasCorrect bool) int {
	next := current
	if wasCorrect {
		next++
	} else {
		next--
	}
	if next < models.MinProficiency {
		next = models.MinProficiency
	}
	if next > models.MaxProficiency {
		next = models.MaxProficiency
	}
	return next
}

// SubmitAttempt records a graded (or abandoned) attempt and adjusts the
// learner's stored proficiency for the topic. An aborted request must not
// write anything, so the context is checked before each store write.
func SubmitAttempt(ctx context.Context, learnerID string, req models.SubmitAttemptRequest) (*models.SubmitAttemptResponse, error) {
	topic := topics.Topic(req.Topic)
	if !topics.IsValid(topic) {
		return nil, errors.InvalidTopic(req.Topic)
	}

	profile, err := repository.GetOrCreateProfile(learnerID)
	if err != nil {
		return nil, errors.PersistenceFailure("failed to load learner profile")
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	attempt := &models.AttemptRecord{
		LearnerID:   learnerID,
		Topic:       req.Topic,
		IsCorrect:   *req.IsCorrect,
		TimeSpentMs: req.TimeSpentMs,
		PromptsUsed: req.PromptsUsed,
		Fingerprint: req.Fingerprint,
		SessionID:   req.SessionID,
		Abandoned:   req.Abandoned,
		CreatedAt:   time.Now(),
	}
	if err := repository.CreateAttempt(attempt); err != nil {
		return nil, errors.PersistenceFailure("failed to record attempt")
	}

	old := profile.Proficiency(req.Topic)
	next := old
	if !req.Abandoned {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		// Written even when clamping leaves the score unchanged, so the
		// last-assessment timestamp always reflects the latest grade.
		next = NextProficiency(old, *req.IsCorrect)
		if err := repository.UpdateProficiency(learnerID, req.Topic, next); err != nil {
			return nil, errors.PersistenceFailure("failed to persist proficiency")
		}
	}

	return &models.SubmitAttemptResponse{
		IsCorrect:      *req.IsCorrect,
		OldProficiency: old,
		NewProficiency: next,
		Delta:          next - old,
	}, nil
}
