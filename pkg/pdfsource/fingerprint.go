package pdfsource

import (
	"github.com/guraa/pdf-compare-tool-sub002/pkg/similarity"
	"github.com/guraa/pdf-compare-tool-sub002/pkg/types"
)

// Fingerprints builds one types.PageFingerprint per page of doc, tagged
// with source, precomputing the text hash and significant-word set once
// per page load rather than leaving the document/page matchers to
// re-tokenize the same page text on every pairwise comparison (spec §3,
// "precomputed per-page features used by matchers").
func Fingerprints(source types.SourceType, doc Document) []types.PageFingerprint {
	out := make([]types.PageFingerprint, len(doc.Pages))
	for i, p := range doc.Pages {
		out[i] = types.PageFingerprint{
			SourceType:       source,
			PageIndex:        p.Index,
			Text:             p.Text,
			TextHash:         types.FNV1a64(p.Text),
			SignificantWords: similarity.SignificantWords(p.Text),
			Fonts:            p.Fonts,
			ElementCount:     p.ElementCount,
			ImageCount:       len(p.Images),
			HasImages:        len(p.Images) > 0,
		}
	}
	return out
}
