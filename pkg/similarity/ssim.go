package similarity

import "math"

// BasicSSIMKernel is the reference SSIMKernel: a single-window structural
// similarity index computed over the whole image rather than the usual
// sliding 8x8/11x11 windows, since no imaging/windowing library appears
// anywhere in the retrieval pack. It still captures luminance, contrast
// and structure the way windowed SSIM does, just at one global scale; a
// production deployment wanting windowed SSIM injects its own SSIMKernel
// in place of this one (SSIMKernel is an external collaborator per
// spec §6).
type BasicSSIMKernel struct{}

// constants from the original Wang et al. SSIM paper, scaled for 8-bit
// channels (L = 255).
const (
	ssimC1 = (0.01 * 255) * (0.01 * 255)
	ssimC2 = (0.03 * 255) * (0.03 * 255)
)

func (BasicSSIMKernel) Score(a, b Image) (float64, error) {
	if a.Empty() || b.Empty() {
		return 0, nil
	}
	n := len(a.Bytes)
	if len(b.Bytes) < n {
		n = len(b.Bytes)
	}
	if n == 0 {
		return 0, nil
	}

	var sumA, sumB float64
	for i := 0; i < n; i++ {
		sumA += float64(a.Bytes[i])
		sumB += float64(b.Bytes[i])
	}
	meanA := sumA / float64(n)
	meanB := sumB / float64(n)

	var varA, varB, covAB float64
	for i := 0; i < n; i++ {
		da := float64(a.Bytes[i]) - meanA
		db := float64(b.Bytes[i]) - meanB
		varA += da * da
		varB += db * db
		covAB += da * db
	}
	varA /= float64(n)
	varB /= float64(n)
	covAB /= float64(n)

	numerator := (2*meanA*meanB + ssimC1) * (2*covAB + ssimC2)
	denominator := (meanA*meanA + meanB*meanB + ssimC1) * (varA + varB + ssimC2)
	if denominator == 0 {
		return 1, nil
	}

	score := numerator / denominator
	return math.Max(0, math.Min(1, score)), nil
}
