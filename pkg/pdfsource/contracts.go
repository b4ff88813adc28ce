// Package pdfsource defines the Parser and Renderer contracts consumed
// by the matching core (spec §6) and a reference Parser implementation
// built on github.com/ledongthuc/pdf. Renderer's only reference
// implementation is NullRenderer, which rasterises nothing: no
// rasterizer exists anywhere in the retrieval pack, so callers that need
// real images inject their own (a test fake, or a production rasterizer
// service) — per spec §9, "polymorphism over collaborators."
package pdfsource

import (
	"context"

	"github.com/guraa/pdf-compare-tool-sub002/pkg/similarity"
)

// Page is one page of a parsed document, per spec §6
// (Parser.processDocument).
type Page struct {
	Index        int
	Text         string
	Fonts        map[string]int
	Images       []ImageRef
	ElementCount int
}

// ImageRef is a minimal descriptor of an image found on a page; the
// matching core only needs the count and presence, not the image
// content itself (that's Renderer's job, for whichever pages are
// actually sampled).
type ImageRef struct {
	Name string
}

// Document is the result of Parser.processDocument.
type Document struct {
	Pages     []Page
	Size      int64 // bytes, used by the resource governor's batch sizing
	PageCount int
}

// ColorModel mirrors the "colorModel" parameter of Renderer.render
// (spec §6); the core always requests RGB at the sample DPI, but the
// contract carries the parameter so a Renderer isn't tied to one value.
type ColorModel int

const (
	ColorModelRGB ColorModel = iota
)

// Parser loads a PDF file into per-page text, fonts, images and element
// counts (spec §6). A failure here is fatal to the whole comparison job
// (spec §7, "Input").
type Parser interface {
	ProcessDocument(ctx context.Context, path string) (Document, error)
}

// Renderer rasterises one page of a previously-loaded document at a
// given DPI and color model (spec §6). A render failure degrades the
// pair's visual score to 0 without failing the job (spec §7, "Render").
type Renderer interface {
	Render(ctx context.Context, pageIndex int, dpi int, model ColorModel) (similarity.Image, error)
}
