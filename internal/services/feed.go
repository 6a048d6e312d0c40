package services

import (
	"context"
	"sync"

	"github.com/project-roulette/engine/internal/models"
	"github.com/project-roulette/engine/internal/repository"
	"go.uber.org/zap"
)

type LoadState int

const (
	LoadIdle LoadState = iota
	LoadLoading
	LoadLoaded
	LoadFailed
)

func (s LoadState) String() string {
	switch s {
	case LoadIdle:
		return "idle"
	case LoadLoading:
		return "loading"
	case LoadLoaded:
		return "loaded"
	case LoadFailed:
		return "failed"
	}
	return "unknown"
}

// FeedSource is satisfied by IdeaService.
type FeedSource interface {
	Feed(ctx context.Context, c repository.Criteria) ([]models.ProjectIdea, error)
}

// FeedSnapshot is the result of one load.
type FeedSnapshot struct {
	State      LoadState
	Criteria   repository.Criteria
	Ideas      []models.ProjectIdea
	Err        error
	Generation uint64
}

// FeedLoader tracks the most recently requested feed. Every Load takes a new
// generation; a load that finishes after a newer one started still answers
// its caller but does not replace the shared snapshot.
type FeedLoader struct {
	src FeedSource
	log *zap.Logger

	mu   sync.Mutex
	gen  uint64
	snap FeedSnapshot
}

func NewFeedLoader(src FeedSource, log *zap.Logger) *FeedLoader {
	if log == nil {
		log = zap.NewNop()
	}
	return &FeedLoader{src: src, log: log, snap: FeedSnapshot{Ideas: []models.ProjectIdea{}}}
}

// Load reads the feed for c. A failed read yields an empty list in the
// Failed state; the error is logged and kept on the snapshot.
func (l *FeedLoader) Load(ctx context.Context, c repository.Criteria) FeedSnapshot {
	l.mu.Lock()
	l.gen++
	token := l.gen
	l.snap = FeedSnapshot{State: LoadLoading, Criteria: c, Ideas: l.snap.Ideas, Generation: token}
	l.mu.Unlock()

	ideas, err := l.src.Feed(ctx, c)
	res := FeedSnapshot{State: LoadLoaded, Criteria: c, Ideas: ideas, Generation: token}
	if err != nil {
		l.log.Warn("feed load failed", zap.Uint64("generation", token), zap.Error(err))
		res = FeedSnapshot{State: LoadFailed, Criteria: c, Ideas: []models.ProjectIdea{}, Err: err, Generation: token}
	}
	if res.Ideas == nil {
		res.Ideas = []models.ProjectIdea{}
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if token == l.gen {
		l.snap = res
	} else {
		l.log.Debug("discarding stale feed load", zap.Uint64("generation", token), zap.Uint64("latest", l.gen))
	}
	return res
}

// Snapshot returns the latest committed state.
func (l *FeedLoader) Snapshot() FeedSnapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snap
}
