package types

// DocumentMatch is a cross-file correspondence between one base
// sub-document and one compare sub-document, admitted because its
// combined score cleared the configured threshold. A DocumentMatch is
// valid only as part of a set in which BaseDocIndex and CompareDocIndex
// are each injective (see Comparison invariant 2).
type DocumentMatch struct {
	BaseDocIndex    int
	CompareDocIndex int
	Score           float64
}

// PageMapping relates one base page to one compare page, or to the
// sentinel NoPage when there is no counterpart. Page numbers are
// 1-based, matching the persisted shape in spec §6; NoPage (-1) is used
// for "none" on either side.
type PageMapping struct {
	BasePageNumber    int
	ComparePageNumber int
	Score             float64
	DifferenceCount   int
}

// Matched reports whether both sides of the mapping are present.
func (m PageMapping) Matched() bool {
	return m.BasePageNumber != NoPage && m.ComparePageNumber != NoPage
}

// DifferenceCounts aggregates per-bucket difference totals for a
// DocumentPair.
type DifferenceCounts struct {
	Text  int
	Image int
	Font  int
	Style int
	Total int
}

// Add accumulates another set of counts into c, keeping Total in sync.
func (c *DifferenceCounts) Add(o DifferenceCounts) {
	c.Text += o.Text
	c.Image += o.Image
	c.Font += o.Font
	c.Style += o.Style
	c.Total += o.Total
}

// DocumentPair is a matched (base, compare) sub-document pair together
// with its page-level mappings and aggregated difference counters.
type DocumentPair struct {
	BaseRange    DocumentBoundary
	CompareRange DocumentBoundary
	Score        float64

	Mappings []PageMapping
	Counts   DifferenceCounts
}

// Summary is the flattened PageLevelComparisonSummary shape described in
// spec §9's Open Questions: the source carried two overlapping
// declarations of this type with different field names; this module
// keeps a single shape.
type Summary struct {
	MatchedPageCount      int
	UnmatchedBaseCount    int
	UnmatchedCompareCount int
	IdenticalCount        int
	WithDifferences       int
	TotalDifferences      int
	OverallSimilarity     float64
}
