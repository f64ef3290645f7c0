package vardct

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

const BlockSize = 8

var dctBasis *mat.Dense
var dctBasisT *mat.Dense

func init() {
	data := make([]float64, BlockSize*BlockSize)
	for u := 0; u < BlockSize; u++ {
		scale := math.Sqrt(2.0 / BlockSize)
		if u == 0 {
			scale = math.Sqrt(1.0 / BlockSize) // sqrt2/2 relative DC scaling
		}
		for x := 0; x < BlockSize; x++ {
			data[u*BlockSize+x] = scale * math.Cos(math.Pi*float64(2*x+1)*float64(u)/(2*BlockSize))
		}
	}
	dctBasis = mat.NewDense(BlockSize, BlockSize, data)
	dctBasisT = mat.NewDense(BlockSize, BlockSize, nil)
	dctBasisT.CloneFrom(dctBasis.T())
}

// Forward2D applies a separable orthonormal 8x8 DCT-II to block
// (row-major, length 64) as the matrix product C * block * C^T.
func Forward2D(block []float64) []float64 {
	in := mat.NewDense(BlockSize, BlockSize, append([]float64(nil), block...))
	var tmp, out mat.Dense
	tmp.Mul(dctBasis, in)
	out.Mul(&tmp, dctBasisT)
	return flatten(&out)
}

// Inverse2D applies the corresponding IDCT: C^T * coeffs * C.
func Inverse2D(coeffs []float64) []float64 {
	in := mat.NewDense(BlockSize, BlockSize, append([]float64(nil), coeffs...))
	var tmp, out mat.Dense
	tmp.Mul(dctBasisT, in)
	out.Mul(&tmp, dctBasis)
	return flatten(&out)
}

func flatten(m *mat.Dense) []float64 {
	r, c := m.Dims()
	out := make([]float64, r*c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			out[i*c+j] = m.At(i, j)
		}
	}
	return out
}

// PadToBlock pads a w x h plane (row-major) to the next multiple of
// BlockSize in each dimension by repeating the edge value (clamped
// edge extension), returning the padded plane and its dimensions.
func PadToBlock(plane []float64, w, h int) (padded []float64, pw, ph int) {
	pw = ((w + BlockSize - 1) / BlockSize) * BlockSize
	ph = ((h + BlockSize - 1) / BlockSize) * BlockSize
	padded = make([]float64, pw*ph)
	for y := 0; y < ph; y++ {
		sy := y
		if sy >= h {
			sy = h - 1
		}
		for x := 0; x < pw; x++ {
			sx := x
			if sx >= w {
				sx = w - 1
			}
			padded[y*pw+x] = plane[sy*w+sx]
		}
	}
	return padded, pw, ph
}

// CropFromBlock crops a padded plane back to its original w x h.
func CropFromBlock(padded []float64, pw, w, h int) []float64 {
	out := make([]float64, w*h)
	for y := 0; y < h; y++ {
		copy(out[y*w:y*w+w], padded[y*pw:y*pw+w])
	}
	return out
}
