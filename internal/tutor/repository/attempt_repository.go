package repository

import (
	"time"

	"github.com/architect/adaptive-tutor/internal/common/database"
	"github.com/architect/adaptive-tutor/internal/common/errors"
	"github.com/architect/adaptive-tutor/internal/tutor/models"
)

// CreateAttempt appends one attempt record. Records are write-once.
func CreateAttempt(attempt *models.AttemptRecord) error {
	if err := database.DB.Create(attempt).Error; err != nil {
		return errors.PersistenceFailure(err.Error())
	}
	return nil
}

// HasFingerprintSince reports whether the learner has an attempt with the
// given fingerprint newer than the cutoff.
func HasFingerprintSince(learnerID, fingerprint string, since time.Time) (bool, error) {
	var count int64
	err := database.DB.Model(&models.AttemptRecord{}).
		Where("learner_id = ? AND fingerprint = ? AND created_at >= ?", learnerID, fingerprint, since).
		Count(&count).Error
	if err != nil {
		return false, errors.PersistenceFailure(err.Error())
	}
	return count > 0, nil
}

// AttemptHistory adapts the attempt store to the duplicate guard's
// history lookup.
type AttemptHistory struct{}

func (AttemptHistory) HasFingerprintSince(learnerID, fingerprint string, since time.Time) (bool, error) {
	return HasFingerprintSince(learnerID, fingerprint, since)
}

// topicAggregate is the scan target for the per-topic rollup query.
type topicAggregate struct {
	Topic     string
	Attempts  int64
	Correct   int64
	Abandoned int64
	AvgTimeMs float64
}

// GetTopicAggregates rolls up a learner's attempt history per topic.
func GetTopicAggregates(learnerID string) ([]models.TopicStats, error) {
	var rows []topicAggregate
	err := database.DB.Model(&models.AttemptRecord{}).
		Select(
			"topic",
			"COUNT(*) AS attempts",
			"SUM(CASE WHEN is_correct THEN 1 ELSE 0 END) AS correct",
			"SUM(CASE WHEN abandoned THEN 1 ELSE 0 END) AS abandoned",
			"AVG(time_spent_ms) AS avg_time_ms",
		).
		Where("learner_id = ?", learnerID).
		Group("topic").
		Scan(&rows).Error
	if err != nil {
		return nil, errors.PersistenceFailure(err.Error())
	}

	stats := make([]models.TopicStats, 0, len(rows))
	for _, r := range rows {
		s := models.TopicStats{
			Topic:     r.Topic,
			Attempts:  r.Attempts,
			Correct:   r.Correct,
			AvgTimeMs: r.AvgTimeMs,
		}
		if r.Attempts > 0 {
			s.Accuracy = float64(r.Correct) / float64(r.Attempts)
			s.AbandonedRate = float64(r.Abandoned) / float64(r.Attempts)
		}
		stats = append(stats, s)
	}
	return stats, nil
}
