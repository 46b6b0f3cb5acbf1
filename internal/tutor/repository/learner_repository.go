package repository

import (
	"time"

	"github.com/architect/adaptive-tutor/internal/common/database"
	"github.com/architect/adaptive-tutor/internal/common/errors"
	"github.com/architect/adaptive-tutor/internal/tutor/models"
	"gorm.io/gorm"
)

// GetOrCreateProfile fetches a learner's profile, creating a default one
// (grade 8, all topics at the default proficiency) on first contact.
func GetOrCreateProfile(learnerID string) (*models.LearnerProfile, error) {
	var profile models.LearnerProfile
	result := database.DB.Where("learner_id = ?", learnerID).First(&profile)

	if result.Error != nil {
		if result.Error != gorm.ErrRecordNotFound {
			return nil, errors.PersistenceFailure(result.Error.Error())
		}
		profile = models.LearnerProfile{
			LearnerID:  learnerID,
			GradeLevel: 8,
		}
		applyProficiencyDefaults(&profile)
		if err := database.DB.Create(&profile).Error; err != nil {
			return nil, errors.PersistenceFailure(err.Error())
		}
	}

	return &profile, nil
}

// UpdateProficiency persists a new score for one topic along with the
// last-assessment timestamp. Last-writer-wins for concurrent submissions
// by the same learner.
func UpdateProficiency(learnerID, topic string, score int) error {
	now := time.Now()
	result := database.DB.Model(&models.LearnerProfile{}).
		Where("learner_id = ?", learnerID).
		Updates(map[string]interface{}{
			topic:              score,
			"last_assessed_at": now,
		})

	if result.Error != nil {
		return errors.PersistenceFailure(result.Error.Error())
	}
	if result.RowsAffected == 0 {
		return errors.NotFound("learner profile")
	}
	return nil
}

// applyProficiencyDefaults sets every topic score to the default. Gorm
// zero-value handling would otherwise leave new columns at 0.
func applyProficiencyDefaults(p *models.LearnerProfile) {
	p.EnglishComprehension = models.DefaultProficiency
	p.EnglishGrammar = models.DefaultProficiency
	p.EnglishVocabulary = models.DefaultProficiency
	p.EnglishSentences = models.DefaultProficiency
	p.EnglishSynonyms = models.DefaultProficiency
	p.EnglishAntonyms = models.DefaultProficiency
	p.EnglishFillBlank = models.DefaultProficiency
	p.MathNumberTheory = models.DefaultProficiency
	p.MathAlgebra = models.DefaultProficiency
	p.MathGeometry = models.DefaultProficiency
	p.MathStatistics = models.DefaultProficiency
	p.MathPrecalculus = models.DefaultProficiency
	p.MathCalculus = models.DefaultProficiency
}
