package vardct

import "github.com/jxlgo/jxl/internal/modular"

// PredictDC returns the 2-neighbor DC prediction for block (bx,by)
// given a lookup of already-decoded DC values at lower indices.
func PredictDC(bx, by int, dcAt func(bx, by int) int32) int32 {
	switch {
	case bx == 0 && by == 0:
		return 0
	case by == 0:
		return dcAt(bx-1, by)
	case bx == 0:
		return dcAt(bx, by-1)
	default:
		left := dcAt(bx-1, by)
		above := dcAt(bx, by-1)
		return (left + above) / 2 // integer truncation toward zero, not floor
	}
}

// EncodeDCResidual zigzag-folds the residual between an actual DC
// value and its prediction.
func EncodeDCResidual(actual, predicted int32) uint32 {
	return modular.Zigzag(actual - predicted)
}

// DecodeDCResidual reconstructs the actual DC value from a
// zigzag-folded residual and the same prediction the encoder used.
func DecodeDCResidual(residual uint32, predicted int32) int32 {
	return predicted + modular.UnZigzag(residual)
}
