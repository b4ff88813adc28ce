package pdfsource

import "github.com/guraa/pdf-compare-tool-sub002/pkg/types"

// BoundaryDetector splits a parsed Document into the sub-document
// boundaries the document matcher (C3) operates on. Spec §4.3 takes
// boundary lists as a given input without specifying how they are
// produced; like Renderer and SSIMKernel, this is an external
// collaborator the scheduler injects at construction.
type BoundaryDetector interface {
	DetectBoundaries(doc Document) []types.DocumentBoundary
}

// WholeDocumentDetector is the reference BoundaryDetector: it treats
// every file as a single sub-document spanning all of its pages. No
// sub-document boundary detection algorithm appears anywhere in the
// retrieval pack, so this is the minimal collaborator that satisfies the
// contract end-to-end for cmd/pdfcompare and the scheduler's own tests;
// a real splitter (e.g. one driven by bookmarks or blank-page runs) can
// be swapped in without touching the matching core.
type WholeDocumentDetector struct{}

// DetectBoundaries implements BoundaryDetector.
func (WholeDocumentDetector) DetectBoundaries(doc Document) []types.DocumentBoundary {
	if doc.PageCount == 0 {
		return nil
	}
	return []types.DocumentBoundary{{StartPage: 0, EndPage: doc.PageCount - 1}}
}
