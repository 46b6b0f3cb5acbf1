package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/architect/adaptive-tutor/internal/tutor/generation"
	"github.com/architect/adaptive-tutor/internal/tutor/repository"
	"github.com/architect/adaptive-tutor/internal/tutor/topics"
	"github.com/architect/adaptive-tutor/pkg/logger"
)

// poolGrade is the profile the populator generates for. Grade 8 is the
// baseline multiplier, so pooled questions suit the widest audience.
const poolGrade = 8

// poolDifficulties are the tiers the populator keeps stocked. Learners at
// the extremes fall back to live generation.
var poolDifficulties = []int{3, 4, 5}

// StartPoolPopulator tops up shallow pool cells and purges expired entries
// on a fixed interval until the context is cancelled. Run it in its own
// goroutine.
func StartPoolPopulator(ctx context.Context) {
	ticker := time.NewTicker(engineCfg.PoolInterval)
	defer ticker.Stop()

	logger.Info("question pool populator started",
		zap.Duration("interval", engineCfg.PoolInterval),
		zap.Int("min_depth", engineCfg.PoolMinDepth))

	for {
		select {
		case <-ctx.Done():
			logger.Info("question pool populator stopped")
			return
		case <-ticker.C:
			populateOnce(ctx)
		}
	}
}

// populateOnce purges expired entries, then generates at most one question
// per shallow cell so a single tick never floods the backends.
func populateOnce(ctx context.Context) {
	if purged, err := repository.PurgeExpiredPoolEntries(); err != nil {
		logger.Warn("pool purge failed", zap.Error(err))
	} else if purged > 0 {
		logger.Debug("purged expired pool entries", zap.Int64("count", purged))
	}

	for _, topic := range topics.All() {
		info, ok := topics.Lookup(topic)
		if !ok {
			continue
		}

		for _, difficulty := range poolDifficulties {
			if ctx.Err() != nil {
				return
			}

			count, err := repository.CountPoolEntries(string(topic), difficulty, poolGrade)
			if err != nil {
				logger.Warn("pool depth check failed", zap.String("topic", string(topic)), zap.Error(err))
				continue
			}
			if count >= int64(engineCfg.PoolMinDepth) {
				continue
			}

			seq := newVariantSequence(info, seedFn())
			narrative, subtopic := seq.pair()

			q, err := router.Generate(ctx, generation.QuestionParams{
				Topic:      topic,
				Subtopic:   subtopic,
				Context:    narrative,
				Difficulty: difficulty,
				Grade:      poolGrade,
			})
			if err != nil {
				logger.Debug("pool generation attempt failed",
					zap.String("topic", string(topic)),
					zap.Int("difficulty", difficulty),
					zap.Error(err))
				continue
			}

			storePooled(q)
		}
	}
}
