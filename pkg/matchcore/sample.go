// Package matchcore holds the small pieces shared by the document
// matcher (C3) and the page matcher (C4): even-page sampling and the
// cached page rendering both matchers draw from.
package matchcore

import (
	"context"
	"fmt"

	"github.com/guraa/pdf-compare-tool-sub002/pkg/pdfsource"
	"github.com/guraa/pdf-compare-tool-sub002/pkg/similarity"
)

// EvenSample returns up to k page indices evenly distributed across
// [start, start+n), per spec §4.3 step 1 ("first, middle, last if the
// range has more than maxSamplePages pages; otherwise all pages") and
// step 3 ("i * pageCount / samples" lock-step rendering).
//
// When n <= k, every page in the range is returned. Otherwise exactly k
// indices are returned, evenly spaced including the first and last page
// of the range.
func EvenSample(start, n, k int) []int {
	if n <= 0 {
		return nil
	}
	if k <= 0 {
		k = 1
	}
	if n <= k {
		out := make([]int, n)
		for i := range out {
			out[i] = start + i
		}
		return out
	}

	out := make([]int, k)
	for i := 0; i < k; i++ {
		if k == 1 {
			out[i] = start
			continue
		}
		out[i] = start + i*(n-1)/(k-1)
	}
	return out
}

// RenderKey identifies one rendered sample in the shared cache that
// document and page matching both draw from, keyed by which file the
// page belongs to so base and compare pages never collide.
type RenderKey struct {
	Base      bool
	PageIndex int
	DPI       int
}

// RenderCache is the minimal caching contract the matchers need; backed
// by a hashicorp/golang-lru cache (LRURenderCache). A nil RenderCache
// disables caching.
type RenderCache interface {
	Get(key RenderKey) (similarity.Image, bool)
	Add(key RenderKey, img similarity.Image)
}

// RenderPage renders (or fetches from cache) the page at pageIndex from
// the given renderer, recording the result under key.
func RenderPage(ctx context.Context, cache RenderCache, renderer pdfsource.Renderer, key RenderKey, dpi int) (similarity.Image, error) {
	if cache != nil {
		if img, ok := cache.Get(key); ok {
			return img, nil
		}
	}
	img, err := renderer.Render(ctx, key.PageIndex, dpi, pdfsource.ColorModelRGB)
	if err != nil {
		return similarity.Image{}, fmt.Errorf("rendering page %d: %w", key.PageIndex, err)
	}
	if cache != nil {
		cache.Add(key, img)
	}
	return img, nil
}
