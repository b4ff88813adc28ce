package pdfsource

import (
	"context"
	"testing"

	"github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"

	"github.com/guraa/pdf-compare-tool-sub002/pkg/similarity"
)

func TestImagesFromRectsEmpty(t *testing.T) {
	assert.Nil(t, imagesFromRects(nil))
}

func TestImagesFromRectsNamesEachRect(t *testing.T) {
	refs := imagesFromRects([]pdf.Rect{{}, {}})
	assert.Len(t, refs, 2)
	assert.Equal(t, "rect-0", refs[0].Name)
	assert.Equal(t, "rect-1", refs[1].Name)
}

func TestProcessDocumentMissingFile(t *testing.T) {
	p := NewLedongthucParser()
	_, err := p.ProcessDocument(context.Background(), "/nonexistent/does-not-exist.pdf")
	assert.Error(t, err)
}

// fakeParser and fakeRenderer satisfy Parser/Renderer for consumers
// (docmatcher, pagematcher, scheduler) that only need the contracts,
// not a real PDF on disk.

type fakeParser struct {
	docs map[string]Document
	err  error
}

func (f fakeParser) ProcessDocument(ctx context.Context, path string) (Document, error) {
	if f.err != nil {
		return Document{}, f.err
	}
	return f.docs[path], nil
}

type fakeRenderer struct {
	images map[int]similarity.Image
	err    error
}

func (f fakeRenderer) Render(ctx context.Context, pageIndex int, dpi int, model ColorModel) (similarity.Image, error) {
	if f.err != nil {
		return similarity.Image{}, f.err
	}
	return f.images[pageIndex], nil
}

func TestFakeParserSatisfiesContract(t *testing.T) {
	var _ Parser = fakeParser{}
	var _ Renderer = fakeRenderer{}
}
