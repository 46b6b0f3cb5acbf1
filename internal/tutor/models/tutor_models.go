package models

import (
	"time"
)

const (
	MinProficiency     = 1
	MaxProficiency     = 10
	DefaultProficiency = 5
	MinDifficulty      = 1
	MaxDifficulty      = 8
)

// LearnerProfile holds one learner's grade level and per-topic proficiency
// scores. Scores live in [1,10] and default to 5. Mutated only after a
// graded attempt; never deleted during normal operation.
type LearnerProfile struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	LearnerID  string `gorm:"unique;not null;index" json:"learner_id"`
	GradeLevel int    `gorm:"not null" json:"grade_level"` // 5-11

	EnglishComprehension int `gorm:"default:5" json:"english_comprehension"`
	EnglishGrammar       int `gorm:"default:5" json:"english_grammar"`
	EnglishVocabulary    int `gorm:"default:5" json:"english_vocabulary"`
	EnglishSentences     int `gorm:"default:5" json:"english_sentences"`
	EnglishSynonyms      int `gorm:"default:5" json:"english_synonyms"`
	EnglishAntonyms      int `gorm:"default:5" json:"english_antonyms"`
	EnglishFillBlank     int `gorm:"default:5" json:"english_fill_blank"`
	MathNumberTheory     int `gorm:"default:5" json:"math_number_theory"`
	MathAlgebra          int `gorm:"default:5" json:"math_algebra"`
	MathGeometry         int `gorm:"default:5" json:"math_geometry"`
	MathStatistics       int `gorm:"default:5" json:"math_statistics"`
	MathPrecalculus      int `gorm:"default:5" json:"math_precalculus"`
	MathCalculus         int `gorm:"default:5" json:"math_calculus"`

	LastAssessedAt *time.Time `json:"last_assessed_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// Proficiency returns the score for a topic key, or the default for an
// unknown key.
func (p *LearnerProfile) Proficiency(topic string) int {
	switch topic {
	case "english_comprehension":
		return p.EnglishComprehension
	case "english_grammar":
		return p.EnglishGrammar
	case "english_vocabulary":
		return p.EnglishVocabulary
	case "english_sentences":
		return p.EnglishSentences
	case "english_synonyms":
		return p.EnglishSynonyms
	case "english_antonyms":
		return p.EnglishAntonyms
	case "english_fill_blank":
		return p.EnglishFillBlank
	case "math_number_theory":
		return p.MathNumberTheory
	case "math_algebra":
		return p.MathAlgebra
	case "math_geometry":
		return p.MathGeometry
	case "math_statistics":
		return p.MathStatistics
	case "math_precalculus":
		return p.MathPrecalculus
	case "math_calculus":
		return p.MathCalculus
	default:
		return DefaultProficiency
	}
}

// SetProficiency stores a score for a topic key. Unknown keys are ignored.
func (p *LearnerProfile) SetProficiency(topic string, score int) {
	switch topic {
	case "english_comprehension":
		p.EnglishComprehension = score
	case "english_grammar":
		p.EnglishGrammar = score
	case "english_vocabulary":
		p.EnglishVocabulary = score
	case "english_sentences":
		p.EnglishSentences = score
	case "english_synonyms":
		p.EnglishSynonyms = score
	case "english_antonyms":
		p.EnglishAntonyms = score
	case "english_fill_blank":
		p.EnglishFillBlank = score
	case "math_number_theory":
		p.MathNumberTheory = score
	case "math_algebra":
		p.MathAlgebra = score
	case "math_geometry":
		p.MathGeometry = score
	case "math_statistics":
		p.MathStatistics = score
	case "math_precalculus":
		p.MathPrecalculus = score
	case "math_calculus":
		p.MathCalculus = score
	}
}

// AttemptRecord is one answered or abandoned question. Written once,
// never mutated; read by the duplicate guard and aggregate statistics.
type AttemptRecord struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	LearnerID   string    `gorm:"not null;index:idx_attempt_learner" json:"learner_id"`
	Topic       string    `gorm:"not null;index" json:"topic"`
	IsCorrect   bool      `json:"is_correct"`
	TimeSpentMs int       `json:"time_spent_ms"`
	PromptsUsed int       `json:"prompts_used"`
	Fingerprint *string   `gorm:"index:idx_attempt_learner" json:"fingerprint,omitempty"`
	SessionID   *string   `json:"session_id,omitempty"`
	Abandoned   bool      `json:"abandoned"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
}

// QuestionPoolEntry caches a generated question for reuse across learners.
// Served least-used first; entries past their expiry are purged.
type QuestionPoolEntry struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	Topic      string     `gorm:"not null;index:idx_pool_lookup" json:"topic"`
	Difficulty int        `gorm:"not null;index:idx_pool_lookup" json:"difficulty"`
	Grade      int        `gorm:"not null;index:idx_pool_lookup" json:"grade"`
	Mood       string     `json:"mood"`
	Payload    string     `gorm:"type:text;not null" json:"payload"` // serialized GeneratedQuestion
	Backend    string     `json:"backend"`
	UsageCount int        `gorm:"default:0" json:"usage_count"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// GeneratedQuestion is the canonical question shape returned to clients.
// Ephemeral; only its fingerprint is persisted (on the attempt record).
type GeneratedQuestion struct {
	Topic       string            `json:"topic"`
	Subtopic    string            `json:"subtopic"`
	Context     string            `json:"context"`
	Difficulty  int               `json:"difficulty"`
	Grade       int               `json:"grade"`
	Mood        string            `json:"mood,omitempty"`
	Question    string            `json:"question"`
	Passage     string            `json:"passage,omitempty"`
	Options     map[string]string `json:"options"` // labels A-D
	Correct     string            `json:"correct"`
	Explanation string            `json:"explanation"`
	Fingerprint string            `json:"fingerprint"`
}

// Request/Response Models

type GenerateQuestionRequest struct {
	Topic string `json:"topic" binding:"required"`
	Mood  string `json:"mood"`
}

type GenerateQuestionResponse struct {
	Question           *GeneratedQuestion `json:"question"`
	Difficulty         int                `json:"difficulty"`
	CurrentProficiency int                `json:"current_proficiency"`
	Fingerprint        string             `json:"fingerprint"`
}

type BatchQuestion struct {
	GeneratedQuestion
	Position int `json:"position"`
}

type GenerateBatchResponse struct {
	Questions          []BatchQuestion `json:"questions"`
	BatchID            string          `json:"batch_id"`
	CurrentProficiency int             `json:"current_proficiency"`
	TotalQuestions     int             `json:"total_questions"`
}

type SubmitAttemptRequest struct {
	Topic       string  `json:"topic" binding:"required"`
	IsCorrect   *bool   `json:"is_correct" binding:"required"`
	TimeSpentMs int     `json:"time_spent_ms" binding:"gte=0"`
	PromptsUsed int     `json:"prompts_used" binding:"gte=0"`
	Fingerprint *string `json:"fingerprint"`
	SessionID   *string `json:"session_id"`
	Abandoned   bool    `json:"abandoned"`
}

type SubmitAttemptResponse struct {
	IsCorrect      bool `json:"is_correct"`
	OldProficiency int  `json:"old_proficiency"`
	NewProficiency int  `json:"new_proficiency"`
	Delta          int  `json:"delta"`
}

type HintRequest struct {
	Topic       string `json:"topic" binding:"required"`
	Question    string `json:"question" binding:"required"`
	WrongAnswer string `json:"wrong_answer"`
	Difficulty  int    `json:"difficulty" binding:"gte=1,lte=8"`
	HintLevel   int    `json:"hint_level" binding:"required,gte=1,lte=4"`
}

type HintResponse struct {
	Hint string `json:"hint"`
}

// TopicStats aggregates a learner's attempt history for one topic.
type TopicStats struct {
	Topic         string  `json:"topic"`
	Attempts      int64   `json:"attempts"`
	Correct       int64   `json:"correct"`
	Accuracy      float64 `json:"accuracy"`
	AvgTimeMs     float64 `json:"avg_time_ms"`
	Proficiency   int     `json:"proficiency"`
	AbandonedRate float64 `json:"abandoned_rate"`
}

type LearnerStatsResponse struct {
	LearnerID  string       `json:"learner_id"`
	GradeLevel int          `json:"grade_level"`
	Topics     []TopicStats `json:"topics"`
}
