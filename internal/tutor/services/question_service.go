package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/architect/adaptive-tutor/internal/common/errors"
	"github.com/architect/adaptive-tutor/internal/tutor/dedup"
	"github.com/architect/adaptive-tutor/internal/tutor/generation"
	"github.com/architect/adaptive-tutor/internal/tutor/models"
	"github.com/architect/adaptive-tutor/internal/tutor/repository"
	"github.com/architect/adaptive-tutor/internal/tutor/topics"
	"github.com/architect/adaptive-tutor/pkg/config"
	"github.com/architect/adaptive-tutor/pkg/logger"
)

var (
	router    *generation.Router
	guard     *dedup.HistoryGuard
	engineCfg config.EngineConfig

	// seedFn feeds the per-request variant shuffle; tests override it for
	// deterministic orderings.
	seedFn = func() int64 { return time.Now().UnixNano() }
)

// Init wires the generation router, duplicate guard and engine settings.
// Must be called before any question operation.
func Init(r *generation.Router, g *dedup.HistoryGuard, cfg config.EngineConfig) {
	router = r
	guard = g
	engineCfg = cfg
}

// batchOffsets spreads difficulty across batch positions: slots 0, 2 and 4
// sit at the base tier, slot 1 one below, slot 3 one above.
var batchOffsets = []int{0, -1, 0, 1, 0}

// variantSequence hands out shuffled (context, subtopic) pairs so retry
// attempts vary the prompt without repeating early.
type variantSequence struct {
	contexts  []string
	subtopics []string
	next      int
}

func newVariantSequence(info topics.Info, seed int64) *variantSequence {
	rng := rand.New(rand.NewSource(seed))

	contexts := append([]string(nil), topics.Contexts...)
	rng.Shuffle(len(contexts), func(i, j int) { contexts[i], contexts[j] = contexts[j], contexts[i] })

	subtopics := append([]string(nil), info.Subtopics...)
	rng.Shuffle(len(subtopics), func(i, j int) { subtopics[i], subtopics[j] = subtopics[j], subtopics[i] })

	return &variantSequence{contexts: contexts, subtopics: subtopics}
}

func (s *variantSequence) pair() (narrative, subtopic string) {
	narrative = s.contexts[s.next%len(s.contexts)]
	subtopic = s.subtopics[s.next%len(s.subtopics)]
	s.next++
	return narrative, subtopic
}

// GenerateQuestion serves one question for the learner: pool first when
// enabled, otherwise up to SingleAttempts live generations, each checked
// against the learner's attempt history before acceptance.
func GenerateQuestion(ctx context.Context, learnerID string, req models.GenerateQuestionRequest) (*models.GenerateQuestionResponse, error) {
	topic := topics.Topic(req.Topic)
	info, ok := topics.Lookup(topic)
	if !ok {
		return nil, errors.InvalidTopic(req.Topic)
	}
	if !topics.IsValidMood(req.Mood) {
		return nil, errors.BadRequest(fmt.Sprintf("unknown mood: %s", req.Mood))
	}

	profile, err := repository.GetOrCreateProfile(learnerID)
	if err != nil {
		return nil, errors.PersistenceFailure("failed to load learner profile")
	}
	proficiency := profile.Proficiency(req.Topic)
	difficulty := MapToDifficulty(proficiency, profile.GradeLevel)

	// Fingerprints already checked during this request. A pooled entry
	// rejected as seen content short-circuits here if live generation
	// reproduces it, without a second store query.
	working := dedup.NewWorkingSet()

	if engineCfg.PoolEnabled {
		q, err := servePooled(learnerID, req.Topic, difficulty, profile.GradeLevel, req.Mood, working)
		if err != nil {
			return nil, err
		}
		if q != nil {
			return &models.GenerateQuestionResponse{
				Question:           q,
				Difficulty:         q.Difficulty,
				CurrentProficiency: proficiency,
				Fingerprint:        q.Fingerprint,
			}, nil
		}
	}

	seq := newVariantSequence(info, seedFn())
	var lastFailure error

	for attempt := 0; attempt < engineCfg.SingleAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		narrative, subtopic := seq.pair()
		q, err := router.Generate(ctx, generation.QuestionParams{
			Topic:      topic,
			Subtopic:   subtopic,
			Context:    narrative,
			Mood:       req.Mood,
			Difficulty: difficulty,
			Grade:      profile.GradeLevel,
		})
		if err != nil {
			if _, ok := errors.AsGenerationFailure(err); ok {
				lastFailure = err
				continue
			}
			return nil, err
		}

		dup, err := guard.IsDuplicate(learnerID, q.Fingerprint, working)
		if err != nil {
			// An unreadable history store means seen content could slip
			// through; fail the request rather than serve unverified.
			return nil, err
		}
		if dup {
			working.Add(q.Fingerprint)
			lastFailure = fmt.Errorf("duplicate fingerprint %s", q.Fingerprint)
			continue
		}

		if engineCfg.PoolEnabled && ctx.Err() == nil {
			storePooled(q)
		}

		return &models.GenerateQuestionResponse{
			Question:           q,
			Difficulty:         difficulty,
			CurrentProficiency: proficiency,
			Fingerprint:        q.Fingerprint,
		}, nil
	}

	detail := "all generation attempts failed"
	if lastFailure != nil {
		detail = lastFailure.Error()
	}
	return nil, errors.GenerationExhausted(detail)
}

// GenerateBatch serves a difficulty-graded set of questions. Slots run in
// parallel; a slot that exhausts its attempts is dropped rather than
// failing the batch, and only a fully empty batch is an error.
func GenerateBatch(ctx context.Context, learnerID string, req models.GenerateQuestionRequest) (*models.GenerateBatchResponse, error) {
	topic := topics.Topic(req.Topic)
	info, ok := topics.Lookup(topic)
	if !ok {
		return nil, errors.InvalidTopic(req.Topic)
	}
	if !topics.IsValidMood(req.Mood) {
		return nil, errors.BadRequest(fmt.Sprintf("unknown mood: %s", req.Mood))
	}

	profile, err := repository.GetOrCreateProfile(learnerID)
	if err != nil {
		return nil, errors.PersistenceFailure("failed to load learner profile")
	}
	proficiency := profile.Proficiency(req.Topic)
	base := MapToDifficulty(proficiency, profile.GradeLevel)

	accepted := dedup.NewBatchTextSet()
	results := make([]*models.GeneratedQuestion, engineCfg.BatchSize)

	g, gctx := errgroup.WithContext(ctx)

	for position := 0; position < engineCfg.BatchSize; position++ {
		position := position
		target := clampDifficulty(base + batchOffsets[position%len(batchOffsets)])
		seq := newVariantSequence(info, seedFn()+int64(position))

		g.Go(func() error {
			for attempt := 0; attempt < engineCfg.BatchAttempts; attempt++ {
				if gctx.Err() != nil {
					return gctx.Err()
				}

				narrative, subtopic := seq.pair()

				q, err := router.Generate(gctx, generation.QuestionParams{
					Topic:      topic,
					Subtopic:   subtopic,
					Context:    narrative,
					Mood:       req.Mood,
					Difficulty: target,
					Grade:      profile.GradeLevel,
				})
				if err != nil {
					if _, ok := errors.AsGenerationFailure(err); ok {
						continue
					}
					return err
				}
				if accepted.SeenOrAdd(q.Question) {
					continue
				}

				results[position] = q
				return nil
			}
			// slot exhausted, batch proceeds without it
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	questions := make([]models.BatchQuestion, 0, engineCfg.BatchSize)
	for position, q := range results {
		if q == nil {
			continue
		}
		questions = append(questions, models.BatchQuestion{GeneratedQuestion: *q, Position: position})
	}
	if len(questions) == 0 {
		return nil, errors.GenerationExhausted("no batch slot produced a question")
	}

	return &models.GenerateBatchResponse{
		Questions:          questions,
		BatchID:            uuid.New().String(),
		CurrentProficiency: proficiency,
		TotalQuestions:     len(questions),
	}, nil
}

func clampDifficulty(d int) int {
	if d < models.MinDifficulty {
		return models.MinDifficulty
	}
	if d > models.MaxDifficulty {
		return models.MaxDifficulty
	}
	return d
}

// servePooled returns an unexpired cached question the learner has not
// seen, or nil when the pool cannot serve this request. A history-store
// error is fatal; seen content must not slip through an outage.
func servePooled(learnerID, topic string, difficulty, grade int, mood string, working *dedup.WorkingSet) (*models.GeneratedQuestion, error) {
	entry, err := repository.GetLeastUsedPoolEntry(topic, difficulty, grade, mood)
	if err != nil || entry == nil {
		return nil, err
	}

	var q models.GeneratedQuestion
	if err := json.Unmarshal([]byte(entry.Payload), &q); err != nil {
		logger.Warn("discarding unreadable pool entry", zap.Uint("id", entry.ID))
		return nil, nil
	}

	dup, err := guard.IsDuplicate(learnerID, q.Fingerprint, working)
	if err != nil {
		return nil, err
	}
	if dup {
		working.Add(q.Fingerprint)
		return nil, nil
	}

	if err := repository.IncrementPoolUsage(entry.ID); err != nil {
		logger.Warn("failed to bump pool usage", zap.Uint("id", entry.ID))
	}
	return &q, nil
}

// storePooled opportunistically caches a freshly generated question.
func storePooled(q *models.GeneratedQuestion) {
	payload, err := json.Marshal(q)
	if err != nil {
		return
	}

	entry := &models.QuestionPoolEntry{
		Topic:      q.Topic,
		Difficulty: q.Difficulty,
		Grade:      q.Grade,
		Mood:       q.Mood,
		Payload:    string(payload),
		CreatedAt:  time.Now(),
	}
	if info, ok := topics.Lookup(topics.Topic(q.Topic)); ok {
		entry.Backend = info.Backend
	}
	if engineCfg.PoolEntryTTLDays > 0 {
		expires := time.Now().AddDate(0, 0, engineCfg.PoolEntryTTLDays)
		entry.ExpiresAt = &expires
	}
	if err := repository.CreatePoolEntry(entry); err != nil {
		logger.Warn("failed to store pool entry", zap.String("topic", q.Topic))
	}
}
