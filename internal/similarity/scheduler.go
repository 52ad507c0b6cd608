// internal/similarity/scheduler.go

package similarity

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/sfuqua6/foodie/internal/config"
)

// Scheduler runs the similarity recompute as a periodic batch job with a
// hard wall-clock budget. A run that times out or fails is logged here
// and the previously published epoch stays live.
type Scheduler struct {
	engine *Engine
	store  *SnapshotStore
	repo   Repository
	cfg    *config.Config

	mu sync.Mutex
}

// NewScheduler creates a recompute scheduler.
func NewScheduler(engine *Engine, store *SnapshotStore, repo Repository, cfg *config.Config) *Scheduler {
	return &Scheduler{engine: engine, store: store, repo: repo, cfg: cfg}
}

// Start warm-loads the last persisted epoch, then recomputes on the
// configured interval until ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	s.warmLoad(ctx)
	s.RunOnce(ctx)

	ticker := time.NewTicker(s.cfg.RecomputeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.RunOnce(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// RunOnce performs a single budgeted recompute. Safe for concurrent
// callers; the admin trigger and the ticker serialize on one mutex.
func (s *Scheduler) RunOnce(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	runCtx, cancel := context.WithTimeout(ctx, s.cfg.RecomputeBudget)
	defer cancel()

	snap, err := s.engine.Compute(runCtx)
	if err != nil {
		recomputeFailures.Inc()
		if errors.Is(err, context.DeadlineExceeded) {
			log.Printf("similarity: recompute exceeded %s budget, keeping previous epoch", s.cfg.RecomputeBudget)
			return
		}
		log.Printf("similarity: recompute failed, keeping previous epoch: %v", err)
		return
	}

	s.store.Publish(snap)
	recomputeRuns.Inc()
	log.Printf("similarity: published epoch %s (%d pairs, %d clusters)",
		snap.Epoch, snap.PairCount(), snap.NumClusters)

	if s.repo != nil {
		if err := s.repo.SaveSnapshot(runCtx, snap); err != nil {
			log.Printf("similarity: persisting epoch %s failed: %v", snap.Epoch, err)
		}
	}
}

func (s *Scheduler) warmLoad(ctx context.Context) {
	if s.repo == nil {
		return
	}
	snap, err := s.repo.LoadLatest(ctx)
	if err != nil {
		if !errors.Is(err, ErrNoEpoch) {
			log.Printf("similarity: warm load failed: %v", err)
		}
		return
	}
	s.store.Publish(snap)
	log.Printf("similarity: warm-loaded epoch %s from %s", snap.Epoch, snap.ComputedAt.Format(time.RFC3339))
}
