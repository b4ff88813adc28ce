package pdfsource

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWholeDocumentDetectorEmptyDocument(t *testing.T) {
	assert.Nil(t, WholeDocumentDetector{}.DetectBoundaries(Document{}))
}

func TestWholeDocumentDetectorSpansAllPages(t *testing.T) {
	bounds := WholeDocumentDetector{}.DetectBoundaries(Document{PageCount: 5})
	if assert.Len(t, bounds, 1) {
		assert.Equal(t, 0, bounds[0].StartPage)
		assert.Equal(t, 4, bounds[0].EndPage)
	}
}
