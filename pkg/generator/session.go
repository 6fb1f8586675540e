package generator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/smith-xyz/linkgraph/pkg/loader"
	"github.com/smith-xyz/linkgraph/pkg/models"
)

// Session repeats classification passes over one input. Finished passes are cached by
// snapshot digest; a new digest always triggers a full pass.
type Session struct {
	generator *Generator
	input     Input
	cache     *lru.Cache[string, *models.Snapshot]

	mu       sync.Mutex
	lastSeen string
}

// NewSession creates a session keeping up to cacheSize finished passes.
func NewSession(generator *Generator, input Input, cacheSize int) (*Session, error) {
	cache, err := lru.New[string, *models.Snapshot](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create pass cache: %w", err)
	}
	return &Session{generator: generator, input: input, cache: cache}, nil
}

// Run returns the annotated snapshot the input currently points at. changed is false when
// it is the same snapshot the previous Run returned.
func (s *Session) Run(ctx context.Context) (snapshot *models.Snapshot, changed bool, err error) {
	digest, err := s.generator.Digest(s.input)
	if err != nil {
		return nil, false, err
	}

	snapshot, cached := s.cache.Get(digest)
	if !cached {
		snapshot, err = s.generator.Generate(ctx, s.input)
		if err != nil {
			return nil, false, err
		}
		// the reply may have been replaced between hashing and loading
		digest = snapshot.Digest
		s.cache.Add(digest, snapshot)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	changed = digest != s.lastSeen
	s.lastSeen = digest
	return snapshot, changed, nil
}

// Current reports whether snapshot is still the newest one the input points at.
func (s *Session) Current(snapshot *models.Snapshot) bool {
	digest, err := s.generator.Digest(s.input)
	return err == nil && digest == snapshot.Digest
}

// Watch polls the input every interval and calls publish for each new snapshot. A pass
// whose snapshot was superseded before publishing is dropped and the newer one is
// classified instead. Watch returns nil when ctx is cancelled.
func (s *Session) Watch(ctx context.Context, interval time.Duration, publish func(*models.Snapshot) error) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		snapshot, changed, err := s.Run(ctx)
		switch {
		case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
			return nil
		case errors.Is(err, loader.ErrNoReply):
			s.generator.logger.Debug("Waiting for a reply", "input", s.input.String())
		case err != nil:
			s.generator.logger.Warn("Classification pass failed", "input", s.input.String(), "error", err)
		case changed && !s.Current(snapshot):
			s.generator.logger.Debug("Discarding stale pass", "digest", snapshot.Digest)
			s.forget(snapshot.Digest)
			continue
		case changed:
			if err := publish(snapshot); err != nil {
				return err
			}
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// forget clears lastSeen so a discarded digest is published if it comes back.
func (s *Session) forget(digest string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastSeen == digest {
		s.lastSeen = ""
	}
}
