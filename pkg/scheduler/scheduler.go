// Package scheduler implements C5: the job lifecycle, the 30-second
// admission tick, the 15-minute stall sweep, and the bounded worker
// pool that drives a Comparison through DOCUMENT_MATCHING, COMPARING,
// and PROCESSING to a terminal state, per spec §4.5.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/guraa/pdf-compare-tool-sub002/pkg/config"
	"github.com/guraa/pdf-compare-tool-sub002/pkg/docmatcher"
	"github.com/guraa/pdf-compare-tool-sub002/pkg/logging"
	"github.com/guraa/pdf-compare-tool-sub002/pkg/matchcore"
	"github.com/guraa/pdf-compare-tool-sub002/pkg/matchcore/errs"
	"github.com/guraa/pdf-compare-tool-sub002/pkg/pagematcher"
	"github.com/guraa/pdf-compare-tool-sub002/pkg/pdfsource"
	"github.com/guraa/pdf-compare-tool-sub002/pkg/resource"
	"github.com/guraa/pdf-compare-tool-sub002/pkg/similarity"
	"github.com/guraa/pdf-compare-tool-sub002/pkg/store"
	"github.com/guraa/pdf-compare-tool-sub002/pkg/types"
)

// renderCacheSize bounds the per-job LRU of rendered sample pages. A
// job rarely samples more than a few dozen distinct pages, so this is
// generous headroom rather than a tuned figure.
const renderCacheSize = 256

// RendererFactory opens a Renderer for the PDF at path. The Renderer is
// an external collaborator (spec §6) that the caller supplies;
// cmd/pdfcompare supplies pdfsource.NullRenderer, which rasterises
// nothing, so its comparisons score on text alone.
type RendererFactory func(ctx context.Context, path string) (pdfsource.Renderer, error)

// Scheduler owns the active set, the tick/sweep loops, and the bounded
// worker pool. Grounded on pkg/validator.Engine's semaphore-bounded
// pool and pkg/serve.Server's context-driven background loop.
type Scheduler struct {
	cfg      config.Config
	repo     store.ComparisonRepository
	parser   pdfsource.Parser
	detector pdfsource.BoundaryDetector
	renderer RendererFactory
	kernel   similarity.SSIMKernel
	governor *resource.Governor
	logger   logging.Logger

	mu     sync.Mutex
	active map[string]string // jobID -> current lease token

	sem chan struct{}
}

// New constructs a Scheduler. detector may be nil (defaults to
// pdfsource.WholeDocumentDetector), logger may be nil (logging.Noop),
// governor may be nil (orphan scratch sweeping is skipped).
func New(
	cfg config.Config,
	repo store.ComparisonRepository,
	parser pdfsource.Parser,
	detector pdfsource.BoundaryDetector,
	renderer RendererFactory,
	kernel similarity.SSIMKernel,
	governor *resource.Governor,
	logger logging.Logger,
) *Scheduler {
	if logger == nil {
		logger = logging.Noop{}
	}
	if detector == nil {
		detector = pdfsource.WholeDocumentDetector{}
	}
	poolSize := cfg.WorkerPoolSize
	if poolSize <= 0 {
		poolSize = 1
	}
	return &Scheduler{
		cfg:      cfg,
		repo:     repo,
		parser:   parser,
		detector: detector,
		renderer: renderer,
		kernel:   kernel,
		governor: governor,
		logger:   logger,
		active:   make(map[string]string),
		sem:      make(chan struct{}, poolSize),
	}
}

// Submit creates a new PENDING Comparison for the given file pair and
// persists it, returning the new job's id. No CLI surface or submission
// API is within the matching core's scope (spec §6); this is the
// programmatic entry point cmd/pdfcompare and integration tests use.
func (s *Scheduler) Submit(ctx context.Context, basePath, comparePath string) (string, error) {
	c := types.Comparison{
		ID:          uuid.NewString(),
		Status:      types.StatusPending,
		BasePath:    basePath,
		ComparePath: comparePath,
	}
	if err := s.repo.Save(ctx, c); err != nil {
		return "", fmt.Errorf("submitting comparison: %w: %w", errs.ErrStore, err)
	}
	return c.ID, nil
}

// ActiveCount returns the current size of the active set, for tests and
// status reporting (spec invariant 6: |active| <= maxConcurrentComparisons).
func (s *Scheduler) ActiveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.active)
}

// Run drives the tick and stall-sweep loops until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	tickInterval := s.cfg.TickInterval
	if tickInterval <= 0 {
		tickInterval = 30 * time.Second
	}
	sweepInterval := s.cfg.StallSweepInterval
	if sweepInterval <= 0 {
		sweepInterval = 15 * time.Minute
	}

	tickTicker := time.NewTicker(tickInterval)
	defer tickTicker.Stop()
	sweepTicker := time.NewTicker(sweepInterval)
	defer sweepTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-tickTicker.C:
			s.Tick(ctx)
		case <-sweepTicker.C:
			s.Sweep(ctx)
		}
	}
}

type admittedJob struct {
	comparison types.Comparison
	lease      string
}

// Tick implements spec §4.5's admission tick. It is exported so
// cmd/pdfcompare and tests can drive it deterministically instead of
// waiting on the ticker.
func (s *Scheduler) Tick(ctx context.Context) {
	s.mu.Lock()
	if len(s.active) >= s.cfg.MaxConcurrentComparisons {
		s.mu.Unlock()
		return
	}

	pending, err := s.repo.FindByStatus(ctx, types.StatusPending)
	if err != nil {
		s.mu.Unlock()
		s.logger.Error("scheduler tick: loading pending jobs failed", "error", err)
		return
	}

	var admitted []admittedJob
	for _, c := range pending {
		if len(s.active) >= s.cfg.MaxConcurrentComparisons {
			break
		}
		if _, ok := s.active[c.ID]; ok {
			continue
		}
		lease := uuid.NewString()
		s.active[c.ID] = lease
		admitted = append(admitted, admittedJob{comparison: c, lease: lease})
	}
	s.mu.Unlock()

	for _, j := range admitted {
		j := j
		go func() {
			select {
			case s.sem <- struct{}{}:
			case <-ctx.Done():
				s.release(j.comparison.ID, j.lease)
				return
			}
			defer func() { <-s.sem }()
			s.runJob(ctx, j.comparison, j.lease)
		}()
	}
}

// Sweep implements spec §4.5's stall sweep: any job in a non-terminal,
// in-progress state whose startTime predates the stall threshold, and
// that is not currently in the active set, is reset to PENDING.
func (s *Scheduler) Sweep(ctx context.Context) {
	stalled, err := s.repo.FindByStatus(ctx, types.StatusDocumentMatching, types.StatusComparing, types.StatusProcessing)
	if err != nil {
		s.logger.Error("scheduler stall sweep: loading active-state jobs failed", "error", err)
		return
	}

	deadline := time.Now().Add(-s.cfg.StallThreshold)
	for _, c := range stalled {
		if !c.Stalled(deadline) {
			continue
		}

		s.mu.Lock()
		_, inActive := s.active[c.ID]
		s.mu.Unlock()
		if inActive {
			continue
		}

		c.Status = types.StatusPending
		c.StatusMessage = "Comparison was reset after being stalled"
		c.LeaseToken = ""
		if err := s.repo.Save(ctx, c); err != nil {
			s.logger.Error("scheduler stall sweep: resetting job failed", "job", c.ID, "error", err)
		}
	}

	if s.governor != nil {
		removed, err := s.governor.SweepOrphans(s.cfg.StallThreshold)
		if err != nil {
			s.logger.Warn("scheduler stall sweep: orphan scratch cleanup failed", "error", err)
		} else if removed > 0 {
			s.logger.Info("scheduler stall sweep: removed orphan scratch files", "count", removed)
		}
	}
}

func (s *Scheduler) release(id, lease string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cur, ok := s.active[id]; ok && cur == lease {
		delete(s.active, id)
	}
}

func (s *Scheduler) heldBy(id, lease string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.active[id]
	return ok && cur == lease
}

// persistIfLeased saves c only if this worker's lease still owns job
// c.ID, closing the stall-reset race flagged in spec §9 (resolution
// recorded in DESIGN.md): a worker outlived by a stall-reset loses the
// race to persist deterministically instead of clobbering the reset.
func (s *Scheduler) persistIfLeased(ctx context.Context, c *types.Comparison, lease string) bool {
	if !s.heldBy(c.ID, lease) {
		return false
	}
	c.LeaseToken = lease
	if err := s.repo.Save(ctx, *c); err != nil {
		s.logger.Error("scheduler: saving comparison failed", "job", c.ID, "error", fmt.Errorf("%w: %w", errs.ErrStore, err))
		return false
	}
	return true
}

// runJob drives one Comparison from DOCUMENT_MATCHING through to a
// terminal state, per spec §4.5 "Each worker" and §7's error taxonomy.
func (s *Scheduler) runJob(ctx context.Context, c types.Comparison, lease string) {
	defer s.release(c.ID, lease)

	c.Status = types.StatusDocumentMatching
	c.StartTime = time.Now()
	if !s.persistIfLeased(ctx, &c, lease) {
		return
	}

	baseDoc, err := s.parser.ProcessDocument(ctx, c.BasePath)
	if err != nil {
		s.fail(ctx, c, lease, err)
		return
	}
	compareDoc, err := s.parser.ProcessDocument(ctx, c.ComparePath)
	if err != nil {
		s.fail(ctx, c, lease, err)
		return
	}

	baseBoundaries := s.detector.DetectBoundaries(baseDoc)
	compareBoundaries := s.detector.DetectBoundaries(compareDoc)

	baseRenderer, err := s.renderer(ctx, c.BasePath)
	if err != nil {
		s.fail(ctx, c, lease, fmt.Errorf("opening renderer for %s: %w: %w", c.BasePath, errs.ErrInput, err))
		return
	}
	compareRenderer, err := s.renderer(ctx, c.ComparePath)
	if err != nil {
		s.fail(ctx, c, lease, fmt.Errorf("opening renderer for %s: %w: %w", c.ComparePath, errs.ErrInput, err))
		return
	}

	cache, err := matchcore.NewLRURenderCache(renderCacheSize)
	if err != nil {
		s.logger.Warn("scheduler: render cache unavailable, proceeding uncached", "job", c.ID, "error", err)
		cache = nil
	}

	baseFingerprints := pdfsource.Fingerprints(types.SourceBase, baseDoc)
	compareFingerprints := pdfsource.Fingerprints(types.SourceCompare, compareDoc)

	matches, err := docmatcher.New(s.cfg, s.kernel, s.logger, cache, s.governor).Match(ctx, docmatcher.Input{
		BaseBoundaries:      baseBoundaries,
		CompareBoundaries:   compareBoundaries,
		BaseFingerprints:    baseFingerprints,
		CompareFingerprints: compareFingerprints,
		BaseRenderer:        baseRenderer,
		CompareRenderer:     compareRenderer,
		BaseSize:            baseDoc.Size,
		CompareSize:         compareDoc.Size,
	})
	if err != nil {
		s.fail(ctx, c, lease, err)
		return
	}

	c.Status = types.StatusComparing
	if !s.persistIfLeased(ctx, &c, lease) {
		return
	}

	pm := pagematcher.New(s.cfg, s.kernel, s.logger, cache, s.governor)
	pairs := make([]types.DocumentPair, 0, len(matches))
	for _, m := range matches {
		baseRange := baseBoundaries[m.BaseDocIndex]
		compareRange := compareBoundaries[m.CompareDocIndex]

		mappings, err := pm.Match(ctx, pagematcher.Input{
			BaseRange:           baseRange,
			CompareRange:        compareRange,
			BaseFingerprints:    baseFingerprints,
			CompareFingerprints: compareFingerprints,
			BaseRenderer:        baseRenderer,
			CompareRenderer:     compareRenderer,
			BaseSize:            baseDoc.Size,
			CompareSize:         compareDoc.Size,
		})
		if err != nil {
			s.fail(ctx, c, lease, err)
			return
		}

		pairs = append(pairs, types.DocumentPair{
			BaseRange:    baseRange,
			CompareRange: compareRange,
			Score:        m.Score,
			Mappings:     mappings,
		})
	}

	c.DocumentPairs = pairs
	c.Status = types.StatusProcessing
	if !s.persistIfLeased(ctx, &c, lease) {
		return
	}

	c.BuildSummary()
	c.Status = types.StatusCompleted
	c.EndTime = time.Now()
	s.persistIfLeased(ctx, &c, lease)
}

// fail persists a FAILED comparison with cause's message, per spec §7:
// any of Input or Unknown aborts the whole job this way. Render, I/O,
// and Store failures are handled closer to their source and never
// reach here (Render/I/O degrade in place; Store aborts just the tick
// or the one save, not the job).
func (s *Scheduler) fail(ctx context.Context, c types.Comparison, lease string, cause error) {
	kind := errs.Classify(cause)
	s.logger.Error("scheduler: job failed", "job", c.ID, "kind", kind.String(), "error", cause)

	c.Status = types.StatusFailed
	c.StatusMessage = cause.Error()
	c.EndTime = time.Now()
	s.persistIfLeased(ctx, &c, lease)
}
