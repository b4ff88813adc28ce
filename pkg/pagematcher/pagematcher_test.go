package pagematcher

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guraa/pdf-compare-tool-sub002/pkg/config"
	"github.com/guraa/pdf-compare-tool-sub002/pkg/pdfsource"
	"github.com/guraa/pdf-compare-tool-sub002/pkg/resource"
	"github.com/guraa/pdf-compare-tool-sub002/pkg/similarity"
	"github.com/guraa/pdf-compare-tool-sub002/pkg/types"
)

type fakeRenderer struct{}

func (fakeRenderer) Render(ctx context.Context, pageIndex int, dpi int, model pdfsource.ColorModel) (similarity.Image, error) {
	return similarity.Image{Width: 2, Height: 2, Channels: 1, Bytes: []byte{1, 2, 3, 4}}, nil
}

type fakeSSIM struct{ score float64 }

func (f fakeSSIM) Score(a, b similarity.Image) (float64, error) { return f.score, nil }

// fingerprintsOf builds fingerprints for a document whose pages each
// carry one of texts, in order, exercising pdfsource.Fingerprints the
// same way the scheduler does.
func fingerprintsOf(source types.SourceType, texts []string) []types.PageFingerprint {
	pages := make([]pdfsource.Page, len(texts))
	for i, t := range texts {
		pages[i] = pdfsource.Page{Index: i, Text: t}
	}
	return pdfsource.Fingerprints(source, pdfsource.Document{Pages: pages, PageCount: len(pages)})
}

func TestMatchEqualCountsPositionalNotBestScore(t *testing.T) {
	// Base [A,B,C], Compare [C,A,B] (scenario 2 of the spec): equal
	// counts must map positionally (A<->C, B<->A, C<->B), never the
	// cross-matches a similarity-driven assignment would prefer.
	cfg := config.Default()
	m := New(cfg, fakeSSIM{score: 1}, nil, nil, nil)

	baseTexts := []string{"alpha document content one", "beta document content two", "gamma document content three"}
	compareTexts := []string{"gamma document content three", "alpha document content one", "beta document content two"}

	in := Input{
		BaseRange:           types.DocumentBoundary{StartPage: 0, EndPage: 2},
		CompareRange:        types.DocumentBoundary{StartPage: 0, EndPage: 2},
		BaseFingerprints:    fingerprintsOf(types.SourceBase, baseTexts),
		CompareFingerprints: fingerprintsOf(types.SourceCompare, compareTexts),
		BaseRenderer:        fakeRenderer{},
		CompareRenderer:     fakeRenderer{},
	}

	mappings, err := m.Match(context.Background(), in)
	require.NoError(t, err)
	require.Len(t, mappings, 3)

	assert.Equal(t, 1, mappings[0].BasePageNumber)
	assert.Equal(t, 1, mappings[0].ComparePageNumber)
	assert.Equal(t, 2, mappings[1].BasePageNumber)
	assert.Equal(t, 2, mappings[1].ComparePageNumber)
	assert.Equal(t, 3, mappings[2].BasePageNumber)
	assert.Equal(t, 3, mappings[2].ComparePageNumber)
}

func TestMatchUnequalCountsLeavesUnrelatedUnmatched(t *testing.T) {
	// Base [A,B,C,D], Compare [A',C',E'] (scenario 3): expect A<->A',
	// C<->C', B and D unmatched on base, E' unmatched on compare.
	cfg := config.Default()
	m := New(cfg, fakeSSIM{score: 1}, nil, nil, nil)

	baseTexts := []string{
		"invoice alpha reference number total due",
		"shipment beta tracking carrier warehouse route",
		"contract gamma terms renewal signature date",
		"memo delta internal distribution confidential notice",
	}
	compareTexts := []string{
		"invoice alpha reference number total due owed",
		"contract gamma terms renewal signature date updated",
		"weather forecast temperature rainfall wind humidity",
	}

	in := Input{
		BaseRange:           types.DocumentBoundary{StartPage: 0, EndPage: 3},
		CompareRange:        types.DocumentBoundary{StartPage: 0, EndPage: 2},
		BaseFingerprints:    fingerprintsOf(types.SourceBase, baseTexts),
		CompareFingerprints: fingerprintsOf(types.SourceCompare, compareTexts),
		BaseRenderer:        fakeRenderer{},
		CompareRenderer:     fakeRenderer{},
	}

	mappings, err := m.Match(context.Background(), in)
	require.NoError(t, err)

	matched := map[int]int{}
	var unmatchedBase, unmatchedCompare []int
	for _, mp := range mappings {
		if mp.Matched() {
			matched[mp.BasePageNumber] = mp.ComparePageNumber
			continue
		}
		if mp.ComparePageNumber == types.NoPage {
			unmatchedBase = append(unmatchedBase, mp.BasePageNumber)
		} else {
			unmatchedCompare = append(unmatchedCompare, mp.ComparePageNumber)
		}
	}

	assert.Equal(t, 1, matched[1])
	assert.Equal(t, 2, matched[3])
	assert.ElementsMatch(t, []int{2, 4}, unmatchedBase)
	assert.ElementsMatch(t, []int{3}, unmatchedCompare)
}

func TestMatchCoversEveryPageExactlyOnce(t *testing.T) {
	cfg := config.Default()
	m := New(cfg, fakeSSIM{score: 1}, nil, nil, nil)

	in := Input{
		BaseRange:           types.DocumentBoundary{StartPage: 0, EndPage: 1},
		CompareRange:        types.DocumentBoundary{StartPage: 0, EndPage: 0},
		BaseFingerprints:    fingerprintsOf(types.SourceBase, []string{"one two three four five", "six seven eight nine ten"}),
		CompareFingerprints: fingerprintsOf(types.SourceCompare, []string{"one two three four five"}),
		BaseRenderer:        fakeRenderer{},
		CompareRenderer:     fakeRenderer{},
	}

	mappings, err := m.Match(context.Background(), in)
	require.NoError(t, err)

	seenBase := map[int]bool{}
	for _, mp := range mappings {
		if mp.BasePageNumber != types.NoPage {
			assert.False(t, seenBase[mp.BasePageNumber])
			seenBase[mp.BasePageNumber] = true
		}
	}
	assert.True(t, seenBase[1])
	assert.True(t, seenBase[2])
}

func TestMatchIdenticalTextHashShortCircuits(t *testing.T) {
	cfg := config.Default()
	// A zero-score SSIM kernel would fail this case if the text-hash
	// short-circuit in pageSimilarity weren't taken, since the 0.6/0.4
	// blend would give 0.6*1 + 0.4*0 = 0.6 instead of 1.0.
	m := New(cfg, fakeSSIM{score: 0}, nil, nil, nil)

	text := "identical page text shared by both documents"
	in := Input{
		BaseRange:           types.DocumentBoundary{StartPage: 0, EndPage: 0},
		CompareRange:        types.DocumentBoundary{StartPage: 0, EndPage: 0},
		BaseFingerprints:    fingerprintsOf(types.SourceBase, []string{text}),
		CompareFingerprints: fingerprintsOf(types.SourceCompare, []string{text}),
		BaseRenderer:        fakeRenderer{},
		CompareRenderer:     fakeRenderer{},
	}

	mappings, err := m.Match(context.Background(), in)
	require.NoError(t, err)
	require.Len(t, mappings, 1)
	assert.Equal(t, 1.0, mappings[0].Score)
}

func TestMatchUsesGovernorOptimalBatchSize(t *testing.T) {
	cfg := config.Default()
	gov := resource.New(config.Config{Memory: cfg.Memory, ScratchDir: t.TempDir()}, nil)
	m := New(cfg, fakeSSIM{score: 1}, nil, nil, gov)

	in := Input{
		BaseRange:           types.DocumentBoundary{StartPage: 0, EndPage: 1},
		CompareRange:        types.DocumentBoundary{StartPage: 0, EndPage: 0},
		BaseFingerprints:    fingerprintsOf(types.SourceBase, []string{"one two three four five", "six seven eight nine ten"}),
		CompareFingerprints: fingerprintsOf(types.SourceCompare, []string{"one two three four five"}),
		BaseRenderer:        fakeRenderer{},
		CompareRenderer:     fakeRenderer{},
		BaseSize:            1 << 20,
		CompareSize:         1 << 20,
	}

	mappings, err := m.Match(context.Background(), in)
	require.NoError(t, err)
	assert.NotEmpty(t, mappings)
}
