// Package vardct implements the lossy compression pipeline: BT.601
// YCbCr conversion, an 8x8 DCT/IDCT expressed as gonum matrix
// multiplies, distance-parametrized quantization matrices, a 2-
// neighbor DC predictor, Chroma-from-Luma residual prediction and the
// canonical zigzag scan. The transform step follows the same
// separable-matrix shape the codec's other numeric core uses for its
// own multi-component color transform, generalized from an integer
// reversible mapping to a floating-point basis-matrix product.
package vardct

// ChromaCenter is added to Cb/Cr after BT.601 conversion so chroma is
// centered at this value (scaled for 16-bit storage) instead of 0.
const ChromaCenter = 0.5

// bt601 holds the standard RGB->YCbCr coefficients.
var bt601 = [3][3]float64{
	{0.299, 0.587, 0.114},
	{-0.168736, -0.331264, 0.5},
	{0.5, -0.418688, -0.081312},
}

var bt601Inv = [3][3]float64{
	{1.0, 0.0, 1.402},
	{1.0, -0.344136, -0.714136},
	{1.0, 1.772, 0.0},
}

// ForwardYCbCr converts one RGB triple to YCbCr, with chroma centered
// at +ChromaCenter. Single-channel frames never call this; the
// orchestrator passes them through unchanged.
func ForwardYCbCr(r, g, b float64) (y, cb, cr float64) {
	y = bt601[0][0]*r + bt601[0][1]*g + bt601[0][2]*b
	cb = bt601[1][0]*r + bt601[1][1]*g + bt601[1][2]*b + ChromaCenter
	cr = bt601[2][0]*r + bt601[2][1]*g + bt601[2][2]*b + ChromaCenter
	return y, cb, cr
}

// InverseYCbCr is the approximate dual of ForwardYCbCr; VarDCT is a
// lossy path so this is not required to round-trip bit-exactly.
func InverseYCbCr(y, cb, cr float64) (r, g, b float64) {
	cb -= ChromaCenter
	cr -= ChromaCenter
	r = bt601Inv[0][0]*y + bt601Inv[0][1]*cb + bt601Inv[0][2]*cr
	g = bt601Inv[1][0]*y + bt601Inv[1][1]*cb + bt601Inv[1][2]*cr
	b = bt601Inv[2][0]*y + bt601Inv[2][1]*cb + bt601Inv[2][2]*cr
	return r, g, b
}
