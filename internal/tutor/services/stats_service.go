package services

import (
	"github.com/architect/adaptive-tutor/internal/common/errors"
	"github.com/architect/adaptive-tutor/internal/tutor/models"
	"github.com/architect/adaptive-tutor/internal/tutor/repository"
)

// GetLearnerStats combines the per-topic attempt rollup with the learner's
// current proficiency scores.
func GetLearnerStats(learnerID string) (*models.LearnerStatsResponse, error) {
	profile, err := repository.GetOrCreateProfile(learnerID)
	if err != nil {
		return nil, errors.PersistenceFailure("failed to load learner profile")
	}

	stats, err := repository.GetTopicAggregates(learnerID)
	if err != nil {
		return nil, err
	}
	for i := range stats {
		stats[i].Proficiency = profile.Proficiency(stats[i].Topic)
	}

	return &models.LearnerStatsResponse{
		LearnerID:  learnerID,
		GradeLevel: profile.GradeLevel,
		Topics:     stats,
	}, nil
}
