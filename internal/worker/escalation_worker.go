package worker

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/feedback-service/internal/clock"
	"github.com/spec-kit/feedback-service/internal/config"
	"github.com/spec-kit/feedback-service/internal/escalation"
	"github.com/spec-kit/feedback-service/internal/persistence"
	"github.com/spec-kit/feedback-service/internal/repository"
	"github.com/spec-kit/feedback-service/internal/service"
)

// EscalationWorker periodically sweeps for overdue posts and escalates them
// through the post service. The escalation policy itself never mutates
// anything; this worker is its only consumer.
type EscalationWorker struct {
	posts  repository.PostRepository
	svc    *service.PostService
	redis  *persistence.Redis
	logger *zap.Logger
	clock  clock.Clock
	cfg    config.EscalationConfig
}

// NewEscalationWorker constructs the worker.
func NewEscalationWorker(posts repository.PostRepository, svc *service.PostService, redis *persistence.Redis, logger *zap.Logger, clk clock.Clock, cfg config.EscalationConfig) *EscalationWorker {
	return &EscalationWorker{
		posts:  posts,
		svc:    svc,
		redis:  redis,
		logger: logger,
		clock:  clk,
		cfg:    cfg,
	}
}

// Run sweeps on an interval until the context is cancelled.
func (w *EscalationWorker) Run(ctx context.Context) {
	if !w.cfg.Enabled {
		w.logger.Info("escalation sweep disabled")
		return
	}
	ticker := time.NewTicker(w.cfg.SweepInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.Sweep(ctx)
		}
	}
}

// Sweep escalates every overdue post once per notification window.
func (w *EscalationWorker) Sweep(ctx context.Context) {
	now := w.clock.Now()
	posts, err := w.posts.ListEscalatable(ctx, w.cfg.SweepBatchSize)
	if err != nil {
		w.logger.Error("escalation sweep: list posts", zap.Error(err))
		return
	}

	escalated := 0
	for i := range posts {
		post := posts[i]
		if !escalation.IsOverdue(post, now) {
			continue
		}
		if !w.claimWindow(ctx, post.ID, now, escalation.NextNotificationDue(post, now)) {
			continue
		}
		if _, err := w.svc.EscalateAsSystem(ctx, post.ID); err != nil {
			w.logger.Error("escalation sweep: escalate post", zap.String("post_id", post.ID), zap.Error(err))
			continue
		}
		escalated++
	}
	if escalated > 0 {
		w.logger.Info("escalation sweep finished", zap.Int("escalated", escalated), zap.Int("scanned", len(posts)))
	}
}

// claimWindow reserves the post's current notification window in redis so a
// post is escalated at most once per cadence boundary even across restarts.
// Immediate cadence never reserves; it fires every sweep.
func (w *EscalationWorker) claimWindow(ctx context.Context, postID string, now time.Time, due *time.Time) bool {
	if due == nil {
		return false
	}
	ttl := due.Sub(now)
	if ttl <= 0 {
		return true
	}
	if w.redis == nil || w.redis.Client == nil {
		return true
	}
	key := fmt.Sprintf("escalation:notified:%s", postID)
	ok, err := w.redis.Client.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		w.logger.Warn("escalation sweep: redis claim failed", zap.String("post_id", postID), zap.Error(err))
		return true
	}
	return ok
}
