package pdfsource

import (
	"context"

	"github.com/guraa/pdf-compare-tool-sub002/pkg/similarity"
)

// NullRenderer is the degenerate reference Renderer: it never rasterises
// anything and always returns an empty Image. Pairing it with a matcher
// still produces a complete comparison, since an empty image on either
// side makes VisualSimilarity return 0 without invoking the SSIM kernel
// (spec §7's "Render" failure is a degrade, not a job failure) — so a
// deployment with no rasteriser wired in falls back to text-only
// matching instead of refusing to run.
type NullRenderer struct{}

func (NullRenderer) Render(ctx context.Context, pageIndex int, dpi int, model ColorModel) (similarity.Image, error) {
	return similarity.Image{}, nil
}
