package repository

import (
	"time"

	"github.com/architect/adaptive-tutor/internal/common/database"
	"github.com/architect/adaptive-tutor/internal/common/errors"
	"github.com/architect/adaptive-tutor/internal/tutor/models"
	"gorm.io/gorm"
)

// CreatePoolEntry stores a reusable generated question.
func CreatePoolEntry(entry *models.QuestionPoolEntry) error {
	if err := database.DB.Create(entry).Error; err != nil {
		return errors.PersistenceFailure(err.Error())
	}
	return nil
}

// GetLeastUsedPoolEntry returns the least-served unexpired entry matching
// topic, difficulty, grade and mood, or nil when the pool has none.
// An empty mood matches entries of any mood.
func GetLeastUsedPoolEntry(topic string, difficulty, grade int, mood string) (*models.QuestionPoolEntry, error) {
	query := database.DB.
		Where("topic = ? AND difficulty = ? AND grade = ?", topic, difficulty, grade).
		Where("expires_at IS NULL OR expires_at > ?", time.Now())
	if mood != "" {
		query = query.Where("mood = ?", mood)
	}

	var entry models.QuestionPoolEntry
	result := query.Order("usage_count ASC, id ASC").First(&entry)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, errors.PersistenceFailure(result.Error.Error())
	}
	return &entry, nil
}

// IncrementPoolUsage bumps the serve counter for least-used selection.
func IncrementPoolUsage(id uint) error {
	err := database.DB.Model(&models.QuestionPoolEntry{}).
		Where("id = ?", id).
		Update("usage_count", gorm.Expr("usage_count + 1")).Error
	if err != nil {
		return errors.PersistenceFailure(err.Error())
	}
	return nil
}

// CountPoolEntries reports the unexpired depth for one (topic, difficulty,
// grade) cell, used by the background populator.
func CountPoolEntries(topic string, difficulty, grade int) (int64, error) {
	var count int64
	err := database.DB.Model(&models.QuestionPoolEntry{}).
		Where("topic = ? AND difficulty = ? AND grade = ?", topic, difficulty, grade).
		Where("expires_at IS NULL OR expires_at > ?", time.Now()).
		Count(&count).Error
	if err != nil {
		return 0, errors.PersistenceFailure(err.Error())
	}
	return count, nil
}

// PurgeExpiredPoolEntries deletes entries past their expiry timestamp.
func PurgeExpiredPoolEntries() (int64, error) {
	result := database.DB.
		Where("expires_at IS NOT NULL AND expires_at <= ?", time.Now()).
		Delete(&models.QuestionPoolEntry{})
	if result.Error != nil {
		return 0, errors.PersistenceFailure(result.Error.Error())
	}
	return result.RowsAffected, nil
}
