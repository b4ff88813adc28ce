// Package pagematcher implements C4, the page matcher: given one
// matched document pair, it produces a page-mapping list covering every
// base and compare page, per spec §4.4.
package pagematcher

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/guraa/pdf-compare-tool-sub002/pkg/config"
	"github.com/guraa/pdf-compare-tool-sub002/pkg/logging"
	"github.com/guraa/pdf-compare-tool-sub002/pkg/matchcore"
	"github.com/guraa/pdf-compare-tool-sub002/pkg/pdfsource"
	"github.com/guraa/pdf-compare-tool-sub002/pkg/resource"
	"github.com/guraa/pdf-compare-tool-sub002/pkg/similarity"
	"github.com/guraa/pdf-compare-tool-sub002/pkg/types"
)

// Matcher runs the page-mapping algorithm for one document pair.
type Matcher struct {
	cfg      config.Config
	kernel   similarity.SSIMKernel
	logger   logging.Logger
	cache    matchcore.RenderCache
	governor *resource.Governor
}

// New returns a Matcher. cache may be nil. governor may be nil, in
// which case internal concurrency falls back to the static
// cfg.WorkerPoolSize and no pacing is applied before renders.
func New(cfg config.Config, kernel similarity.SSIMKernel, logger logging.Logger, cache matchcore.RenderCache, governor *resource.Governor) *Matcher {
	if logger == nil {
		logger = logging.Noop{}
	}
	return &Matcher{cfg: cfg, kernel: kernel, logger: logger, cache: cache, governor: governor}
}

// Input bundles one document pair's page fingerprints and renderers.
type Input struct {
	BaseRange           types.DocumentBoundary
	CompareRange        types.DocumentBoundary
	BaseFingerprints    []types.PageFingerprint // indexed by absolute 0-based page index
	CompareFingerprints []types.PageFingerprint
	BaseRenderer        pdfsource.Renderer
	CompareRenderer     pdfsource.Renderer

	// BaseSize and CompareSize are the source files' byte sizes, fed to
	// the resource governor's batch-size advisor (spec §4.2). Zero is
	// accepted: with no bytes per page, OptimalBatchSize returns the
	// maximum batch size.
	BaseSize, CompareSize int64
}

// Match returns the page mappings for in, covering every base page and
// every compare page exactly once (spec invariant 3).
func (m *Matcher) Match(ctx context.Context, in Input) ([]types.PageMapping, error) {
	if m.governor != nil {
		m.governor.CheckPressure()
	}

	baseCount := in.BaseRange.PageCount()
	compareCount := in.CompareRange.PageCount()

	if baseCount == compareCount {
		return m.matchEqualCounts(ctx, in)
	}
	return m.matchUnequalCounts(ctx, in)
}

// concurrencyLimit returns how many page pairs may be scored at once.
// When a governor is present, spec §5's "the governor may approve
// internal parallelism up to optimalBatchSize" takes precedence over the
// static pool size, never exceeding it.
func (m *Matcher) concurrencyLimit(in Input) int {
	limit := m.cfg.WorkerPoolSize
	if limit <= 0 {
		limit = 1
	}
	if m.governor == nil {
		return limit
	}
	batch := m.governor.OptimalBatchSize(in.BaseSize, in.CompareSize, len(in.BaseFingerprints), len(in.CompareFingerprints))
	if batch < limit {
		return batch
	}
	return limit
}

// matchEqualCounts implements spec §4.4 Case A: strictly positional
// mapping, independent of page similarity values. Scoring itself is
// still governor-paced and concurrency-bounded since it renders and
// compares images, just like Case B.
func (m *Matcher) matchEqualCounts(ctx context.Context, in Input) ([]types.PageMapping, error) {
	n := in.BaseRange.PageCount()
	scores := make([]float64, n)

	sem := semaphore.NewWeighted(int64(m.concurrencyLimit(in)))
	g, gctx := errgroup.WithContext(ctx)

	for k := 0; k < n; k++ {
		k := k
		basePage := in.BaseRange.StartPage + k
		comparePage := in.CompareRange.StartPage + k

		g.Go(func() error {
			if err := sem.Acquire(gctx, 1); err != nil {
				return err
			}
			defer sem.Release(1)

			score, err := m.pageSimilarity(gctx, basePage, comparePage, in)
			if err != nil {
				return err
			}
			scores[k] = score
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	mappings := make([]types.PageMapping, n)
	for k := 0; k < n; k++ {
		mappings[k] = types.PageMapping{
			BasePageNumber:    in.BaseRange.StartPage + k + 1,
			ComparePageNumber: in.CompareRange.StartPage + k + 1,
			Score:             scores[k],
		}
	}
	return mappings, nil
}

// matchUnequalCounts implements spec §4.4 Case B: a full similarity
// matrix, consumed greedily by descending score, then leftover pages on
// either side are emitted with the sentinel NoPage counterpart. The
// matrix is filled by a golang.org/x/sync/semaphore-bounded pool sized
// by concurrencyLimit, so a page matcher never serialises the O(n*m)
// scoring behind a single worker the way a plain double loop would.
func (m *Matcher) matchUnequalCounts(ctx context.Context, in Input) ([]types.PageMapping, error) {
	basePages := in.BaseRange.Pages()
	comparePages := in.CompareRange.Pages()

	type cell struct {
		bi, ci int // index within basePages/comparePages
		score  float64
	}

	cells := make([]cell, len(basePages)*len(comparePages))
	sem := semaphore.NewWeighted(int64(m.concurrencyLimit(in)))
	g, gctx := errgroup.WithContext(ctx)

	idx := 0
	for bi, bp := range basePages {
		for ci, cp := range comparePages {
			bi, ci, bp, cp, slot := bi, ci, bp, cp, idx
			idx++
			g.Go(func() error {
				if err := sem.Acquire(gctx, 1); err != nil {
					return err
				}
				defer sem.Release(1)

				score, err := m.pageSimilarity(gctx, bp, cp, in)
				if err != nil {
					return err
				}
				cells[slot] = cell{bi: bi, ci: ci, score: score}
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(cells, func(i, j int) bool {
		if cells[i].score != cells[j].score {
			return cells[i].score > cells[j].score
		}
		if cells[i].bi != cells[j].bi {
			return cells[i].bi < cells[j].bi
		}
		return cells[i].ci < cells[j].ci
	})

	usedBase := make([]bool, len(basePages))
	usedCompare := make([]bool, len(comparePages))
	mappings := make([]types.PageMapping, 0, len(basePages)+len(comparePages))

	rounds := len(basePages)
	if len(comparePages) < rounds {
		rounds = len(comparePages)
	}
	accepted := 0

	for _, c := range cells {
		if accepted >= rounds {
			break
		}
		if usedBase[c.bi] || usedCompare[c.ci] {
			continue
		}
		if c.score < m.cfg.TextSimilarityThreshold {
			break
		}
		usedBase[c.bi] = true
		usedCompare[c.ci] = true
		accepted++
		mappings = append(mappings, types.PageMapping{
			BasePageNumber:    basePages[c.bi] + 1,
			ComparePageNumber: comparePages[c.ci] + 1,
			Score:             c.score,
		})
	}

	for bi, bp := range basePages {
		if !usedBase[bi] {
			mappings = append(mappings, types.PageMapping{
				BasePageNumber:    bp + 1,
				ComparePageNumber: types.NoPage,
			})
		}
	}
	for ci, cp := range comparePages {
		if !usedCompare[ci] {
			mappings = append(mappings, types.PageMapping{
				BasePageNumber:    types.NoPage,
				ComparePageNumber: cp + 1,
			})
		}
	}

	return mappings, nil
}

// pageSimilarity implements spec §4.4's pageSimilarity: an identical-hash
// short-circuit, then a text short-circuit below half the text
// threshold, otherwise a 0.6/0.4 text/visual blend with render failures
// degrading to a visual score of 0 (logged, non-fatal).
func (m *Matcher) pageSimilarity(ctx context.Context, basePage, comparePage int, in Input) (float64, error) {
	if basePage < 0 || basePage >= len(in.BaseFingerprints) || comparePage < 0 || comparePage >= len(in.CompareFingerprints) {
		return 0, fmt.Errorf("page index out of range (base=%d, compare=%d)", basePage, comparePage)
	}

	base := in.BaseFingerprints[basePage]
	compare := in.CompareFingerprints[comparePage]

	if base.Text != "" && base.TextHash == compare.TextHash {
		return 1, nil
	}

	textScore := similarity.TextSimilaritySets(base.SignificantWords, compare.SignificantWords)
	if textScore < m.cfg.TextSimilarityThreshold/2 {
		return textScore, nil
	}

	visualScore, err := m.visualScore(ctx, basePage, comparePage, in)
	if err != nil {
		return 0, err
	}
	return m.cfg.PageTextWeight*textScore + m.cfg.PageVisualWeight*visualScore, nil
}

// visualScore renders both pages and scores them under the SSIM kernel.
// Each render is paced by the resource governor (spec §2: "C2 is
// consulted by C3, C4 and the scheduler before any memory-heavy step").
func (m *Matcher) visualScore(ctx context.Context, basePage, comparePage int, in Input) (float64, error) {
	if err := m.pace(ctx); err != nil {
		return 0, err
	}

	baseImg, err := matchcore.RenderPage(ctx, m.cache, in.BaseRenderer, matchcore.RenderKey{Base: true, PageIndex: basePage, DPI: m.cfg.SampleDPI}, m.cfg.SampleDPI)
	if err != nil {
		m.logger.Warn("page matcher: base render failed", "page", basePage, "error", err)
		return 0, nil
	}
	compareImg, err := matchcore.RenderPage(ctx, m.cache, in.CompareRenderer, matchcore.RenderKey{Base: false, PageIndex: comparePage, DPI: m.cfg.SampleDPI}, m.cfg.SampleDPI)
	if err != nil {
		m.logger.Warn("page matcher: compare render failed", "page", comparePage, "error", err)
		return 0, nil
	}

	score, err := similarity.VisualSimilarity(m.kernel, baseImg, compareImg)
	if err != nil {
		m.logger.Warn("page matcher: SSIM kernel failed", "error", err)
		return 0, nil
	}
	return score, nil
}

// pace blocks until the governor admits one unit of render work, or ctx
// is done. No-op when the matcher has no governor.
func (m *Matcher) pace(ctx context.Context) error {
	if m.governor == nil {
		return nil
	}
	return m.governor.Pace(ctx)
}
