// Package docmatcher implements C3, the document matcher: given two
// lists of document boundaries and their per-page fingerprints and
// renderers, it produces a set of cross-file document matches, each a
// triple (base index, compare index, score), per spec §4.3.
package docmatcher

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

// Matcher runs the document-boundary matching algorithm. It is
// stateless across calls to Match other than the render cache, which is
// a pure performance optimisation (removing it must not change output,
// per spec §9's "memory pressure" framing).
type Matcher struct {
	cfg      config.Config
	kernel   similarity.SSIMKernel
	logger   logging.Logger
	cache    matchcore.RenderCache
	governor *resource.Governor
}

// New returns a Matcher. cache may be nil, in which case every sample
// page is rendered on demand with no reuse. governor may be nil, in
// which case internal concurrency falls back to the static
// cfg.WorkerPoolSize and no pacing is applied before renders (spec §9:
// disabling the governor changes throughput, never output).
func New(cfg config.Config, kernel similarity.SSIMKernel, logger logging.Logger, cache matchcore.RenderCache, governor *resource.Governor) *Matcher {
	if logger == nil {
		logger = logging.Noop{}
	}
	return &Matcher{cfg: cfg, kernel: kernel, logger: logger, cache: cache, governor: governor}
}

// Input bundles everything the matcher needs for one file pair.
type Input struct {
	BaseBoundaries      []types.DocumentBoundary
	CompareBoundaries   []types.DocumentBoundary
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

type candidate struct {
	baseIdx, compareIdx int
	score               float64
}

// Match runs the full algorithm of spec §4.3 and returns the admitted,
// injective set of DocumentMatch records.
func (m *Matcher) Match(ctx context.Context, in Input) ([]types.DocumentMatch, error) {
	if len(in.BaseBoundaries) == 0 || len(in.CompareBoundaries) == 0 {
		return nil, nil
	}

	if m.governor != nil {
		m.governor.CheckPressure()
	}

	candidates, err := m.buildCandidates(ctx, in)
	if err != nil {
		return nil, err
	}

	return assign(candidates), nil
}

// concurrencyLimit returns how many boundary pairs may be scored at
// once. When a governor is present, spec §5's "the governor may approve
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

// buildCandidates computes, for every (i, j) pair, the combined score
// per spec §4.3 steps 1-4. Pairs are visited concurrently, bounded by a
// golang.org/x/sync/semaphore sized by concurrencyLimit, so rendering
// many boundary pairs doesn't serialise behind a single worker.
func (m *Matcher) buildCandidates(ctx context.Context, in Input) ([]candidate, error) {
	results := make([]candidate, len(in.BaseBoundaries)*len(in.CompareBoundaries))

	limit := m.concurrencyLimit(in)
	sem := semaphore.NewWeighted(int64(limit))
	g, gctx := errgroup.WithContext(ctx)

	idx := 0
	for i, b := range in.BaseBoundaries {
		for j, c := range in.CompareBoundaries {
			i, j, b, c, slot := i, j, b, c, idx
			idx++
			g.Go(func() error {
				if err := sem.Acquire(gctx, 1); err != nil {
					return err
				}
				defer sem.Release(1)

				score, err := m.scorePair(gctx, b, c, in)
				if err != nil {
					return fmt.Errorf("scoring boundary pair (%d,%d): %w", i, j, err)
				}
				results[slot] = candidate{baseIdx: i, compareIdx: j, score: score}
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	admitted := make([]candidate, 0, len(results))
	for _, c := range results {
		if c.score > m.cfg.CombinedSimilarityThreshold {
			admitted = append(admitted, c)
		}
	}
	return admitted, nil
}

// scorePair implements spec §4.3 steps 1-4 for one boundary pair.
func (m *Matcher) scorePair(ctx context.Context, base, compare types.DocumentBoundary, in Input) (float64, error) {
	baseWords := sampleWords(in.BaseFingerprints, base, m.cfg.MaxSamplePages)
	compareWords := sampleWords(in.CompareFingerprints, compare, m.cfg.MaxSamplePages)

	textScore := similarity.TextSimilaritySets(baseWords, compareWords)
	if textScore < m.cfg.TextSimilarityThreshold/2 {
		return textScore, nil
	}

	visualScore, err := m.averageVisualScore(ctx, base, compare, in)
	if err != nil {
		return 0, err
	}

	return m.cfg.DocTextWeight*textScore + m.cfg.DocVisualWeight*visualScore, nil
}

// sampleWords unions the precomputed significant-word sets of up to
// maxSamplePages evenly chosen pages within the boundary, per spec
// §4.3 step 1.
func sampleWords(fingerprints []types.PageFingerprint, b types.DocumentBoundary, maxSamplePages int) map[string]struct{} {
	indices := matchcore.EvenSample(b.StartPage, b.PageCount(), maxSamplePages)
	out := make(map[string]struct{})
	for _, idx := range indices {
		if idx < 0 || idx >= len(fingerprints) {
			continue
		}
		for w := range fingerprints[idx].SignificantWords {
			out[w] = struct{}{}
		}
	}
	return out
}

// averageVisualScore renders up to maxSamplePages pages in index
// lock-step from each boundary and averages their pairwise visual
// similarity, per spec §4.3 step 3. A render failure degrades that
// sample's contribution to 0 and is logged, never aborting the pair.
// Each render is paced by the resource governor (spec §2: "C2 is
// consulted by C3, C4 and the scheduler before any memory-heavy step").
func (m *Matcher) averageVisualScore(ctx context.Context, base, compare types.DocumentBoundary, in Input) (float64, error) {
	baseIdx := matchcore.EvenSample(base.StartPage, base.PageCount(), m.cfg.MaxSamplePages)
	compareIdx := matchcore.EvenSample(compare.StartPage, compare.PageCount(), m.cfg.MaxSamplePages)

	samples := len(baseIdx)
	if len(compareIdx) < samples {
		samples = len(compareIdx)
	}
	if samples == 0 {
		return 0, nil
	}

	total := 0.0
	for k := 0; k < samples; k++ {
		if err := m.pace(ctx); err != nil {
			return 0, err
		}

		baseImg, err := matchcore.RenderPage(ctx, m.cache, in.BaseRenderer, matchcore.RenderKey{Base: true, PageIndex: baseIdx[k], DPI: m.cfg.SampleDPI}, m.cfg.SampleDPI)
		if err != nil {
			m.logger.Warn("document matcher: base render failed", "page", baseIdx[k], "error", err)
			continue
		}
		compareImg, err := matchcore.RenderPage(ctx, m.cache, in.CompareRenderer, matchcore.RenderKey{Base: false, PageIndex: compareIdx[k], DPI: m.cfg.SampleDPI}, m.cfg.SampleDPI)
		if err != nil {
			m.logger.Warn("document matcher: compare render failed", "page", compareIdx[k], "error", err)
			continue
		}

		score, err := similarity.VisualSimilarity(m.kernel, baseImg, compareImg)
		if err != nil {
			m.logger.Warn("document matcher: SSIM kernel failed", "error", err)
			continue
		}
		total += score
	}

	return total / float64(samples), nil
}

// pace blocks until the governor admits one unit of render work, or ctx
// is done. No-op when the matcher has no governor.
func (m *Matcher) pace(ctx context.Context) error {
	if m.governor == nil {
		return nil
	}
	return m.governor.Pace(ctx)
}

// assign implements spec §4.3 steps 5-6: admit by threshold (already
// done by the caller), sort descending by score with a stable tie-break
// on (baseIdx, compareIdx), then greedily accept non-conflicting pairs.
func assign(candidates []candidate) []types.DocumentMatch {
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		if candidates[i].baseIdx != candidates[j].baseIdx {
			return candidates[i].baseIdx < candidates[j].baseIdx
		}
		return candidates[i].compareIdx < candidates[j].compareIdx
	})

	usedBase := map[int]bool{}
	usedCompare := map[int]bool{}
	matches := make([]types.DocumentMatch, 0, len(candidates))

	for _, c := range candidates {
		if usedBase[c.baseIdx] || usedCompare[c.compareIdx] {
			continue
		}
		usedBase[c.baseIdx] = true
		usedCompare[c.compareIdx] = true
		matches = append(matches, types.DocumentMatch{
			BaseDocIndex:    c.baseIdx,
			CompareDocIndex: c.compareIdx,
			Score:           c.score,
		})
	}

	return matches
}
