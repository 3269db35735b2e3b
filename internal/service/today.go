package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/youngthe/gemini-demo/internal/domain"
	"github.com/youngthe/gemini-demo/internal/logger"
	"github.com/youngthe/gemini-demo/internal/prompts"
)

// TodayService owns the per-category content cache and its refresh schedule.
//
// Each category holds at most one snapshot, replaced wholesale on a
// successful refresh. Readers always observe either the previous complete
// snapshot or the new one, never a half-written list. Refresh failures are
// absorbed here: the prior snapshot stays untouched and the failure only
// delays freshness.
type TodayService struct {
	gen      Generator
	logger   *logger.Logger
	interval time.Duration

	mu        sync.RWMutex
	snapshots map[domain.Category]domain.CategorySnapshot

	// refreshing guarantees at most one refresh cycle in flight; a tick
	// that fires while a cycle is still running is skipped.
	refreshing atomic.Bool
}

// TodayConfig holds configuration for the refresh cache.
type TodayConfig struct {
	Interval time.Duration
}

// NewTodayService creates the refresh cache with empty snapshots for
// every cached category.
// Parameters:
//   - gen: generation client used for refreshes.
//   - log: logger instance.
//   - cfg: refresh configuration; nil or zero interval defaults to one hour.
// Returns:
//   - *TodayService: initialized cache.
func NewTodayService(gen Generator, log *logger.Logger, cfg *TodayConfig) *TodayService {
	interval := time.Hour
	if cfg != nil && cfg.Interval > 0 {
		interval = cfg.Interval
	}

	snapshots := make(map[domain.Category]domain.CategorySnapshot, len(domain.CachedCategories()))
	for _, c := range domain.CachedCategories() {
		snapshots[c] = domain.CategorySnapshot{Items: []domain.ContentItem{}}
	}

	return &TodayService{
		gen:       gen,
		logger:    log,
		interval:  interval,
		snapshots: snapshots,
	}
}

// log returns a logger from context if available, otherwise returns the default logger
func (s *TodayService) log(ctx context.Context) *logger.Logger {
	if l := logger.FromContext(ctx); l != nil {
		return l
	}
	return s.logger
}

// RefreshOne refreshes a single category. Generation and parse failures
// are logged and absorbed; the stored snapshot only changes on full
// success.
func (s *TodayService) RefreshOne(ctx context.Context, category domain.Category) {
	log := s.log(ctx).WithField(logger.FieldCategory, string(category))

	raw, err := s.gen.Generate(ctx, prompts.ForCategory(category))
	if err != nil {
		log.WithError(err).Warn("Category refresh failed, keeping previous snapshot")
		return
	}

	items, err := decodeContentItems(StripCodeFence(raw))
	if err != nil {
		log.WithError(err).Warn("Category output rejected, keeping previous snapshot")
		return
	}

	s.mu.Lock()
	s.snapshots[category] = domain.CategorySnapshot{
		Items:       items,
		RefreshedAt: time.Now(),
	}
	s.mu.Unlock()

	log.WithField(logger.FieldCount, len(items)).Info("Category snapshot replaced")
}

// RefreshAll refreshes every cached category concurrently and returns once
// each attempt has resolved. No category's failure affects another's
// outcome. If a cycle is already in flight the call is skipped.
// Returns:
//   - bool: true if a cycle ran, false if one was already running.
func (s *TodayService) RefreshAll(ctx context.Context) bool {
	if !s.refreshing.CompareAndSwap(false, true) {
		s.log(ctx).Warn("Refresh cycle already in flight, skipping")
		return false
	}
	defer s.refreshing.Store(false)

	start := time.Now()
	s.log(ctx).Info("Refresh cycle started")

	var wg sync.WaitGroup
	for _, category := range domain.CachedCategories() {
		wg.Add(1)
		go func(c domain.Category) {
			defer wg.Done()
			s.RefreshOne(ctx, c)
		}(category)
	}
	wg.Wait()

	s.log(ctx).WithField(logger.FieldDurationMs, time.Since(start).Milliseconds()).
		Info("Refresh cycle completed")
	return true
}

// Read returns the current items for a category. It never blocks on an
// in-flight refresh and never errors; absent data yields an empty list.
// Callers may modify the returned slice freely.
func (s *TodayService) Read(category domain.Category) []domain.ContentItem {
	return s.Snapshot(category).Items
}

// Snapshot returns a copy of the current snapshot for a category,
// including its refresh timestamp as a staleness indicator.
func (s *TodayService) Snapshot(category domain.Category) domain.CategorySnapshot {
	s.mu.RLock()
	snap, ok := s.snapshots[category]
	s.mu.RUnlock()

	if !ok {
		return domain.CategorySnapshot{Items: []domain.ContentItem{}}
	}

	cp := make([]domain.ContentItem, len(snap.Items))
	copy(cp, snap.Items)
	return domain.CategorySnapshot{Items: cp, RefreshedAt: snap.RefreshedAt}
}

// Start runs the first refresh synchronously under startTimeout so the
// service reaches a known state before accepting traffic, then keeps
// refreshing on the configured interval until ctx is done.
func (s *TodayService) Start(ctx context.Context, startTimeout time.Duration) {
	firstCtx := ctx
	if startTimeout > 0 {
		var cancel context.CancelFunc
		firstCtx, cancel = context.WithTimeout(ctx, startTimeout)
		defer cancel()
	}
	s.RefreshAll(firstCtx)

	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.RefreshAll(ctx)
			}
		}
	}()
}
