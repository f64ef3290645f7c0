package vardct

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// quantAlpha controls how quickly quantization step size grows with
// frequency; chosen so DC < mid-frequency < high-frequency strictly.
const quantAlpha = 0.15

// BaseQuant returns the scalar quantization base for a given lossy
// distance (0 = lossless-quality).
func BaseQuant(distance float64) float64 {
	if distance*8.0 < 1.0 {
		return 1.0
	}
	return distance * 8.0
}

// LumaMatrix builds the 8x8 luma quantization matrix for a distance.
func LumaMatrix(distance float64) [64]float64 {
	var q [64]float64
	base := BaseQuant(distance)
	for v := 0; v < BlockSize; v++ {
		for u := 0; u < BlockSize; u++ {
			q[v*BlockSize+u] = base * (1 + float64(u+v)*quantAlpha)
		}
	}
	return q
}

// ChromaMatrix scales the luma matrix by 1.5, per channel rule.
func ChromaMatrix(distance float64) [64]float64 {
	q := LumaMatrix(distance)
	floats.Scale(1.5, q[:])
	return q
}

// ActivityFactor computes the adaptive per-block quantization
// multiplier from the spatial variance of a block's pixel values,
// clamped to [0.5, 2.0]. Flat blocks quantize coarsest (2.0); high
// activity (more local detail) pushes toward finer quantization down
// to 0.5, leaving distance-scale tuning to the caller via BaseQuant.
func ActivityFactor(block []float64) float64 {
	variance := stat.Variance(block, nil)
	factor := 2.0 / (1.0 + variance/500.0)
	if factor < 0.5 {
		return 0.5
	}
	if factor > 2.0 {
		return 2.0
	}
	return factor
}

// QuantizeActivity packs an activity factor into the byte the encoder
// serializes per block: factor*64 rounded, so [0.5, 2.0] maps onto
// [32, 128]. The encoder quantizes BEFORE scaling its matrix so both
// sides of the wire apply the identical factor.
func QuantizeActivity(factor float64) byte {
	v := int(factor*64 + 0.5)
	if v < 32 {
		v = 32
	}
	if v > 128 {
		v = 128
	}
	return byte(v)
}

// DequantizeActivity is the inverse of QuantizeActivity.
func DequantizeActivity(b byte) float64 {
	return float64(b) / 64.0
}

// Quantize rounds dct/q to the nearest integer, saturating to int16.
func Quantize(dct []float64, q [64]float64) []int16 {
	out := make([]int16, len(dct))
	for i, v := range dct {
		r := roundHalfAwayFromZero(v / q[i])
		out[i] = saturateInt16(r)
	}
	return out
}

// Dequantize is the exact inverse scaling (not a full inverse of
// rounding, which is lossy by construction).
func Dequantize(quantized []int16, q [64]float64) []float64 {
	out := make([]float64, len(quantized))
	for i, v := range quantized {
		out[i] = float64(v) * q[i]
	}
	return out
}

func roundHalfAwayFromZero(v float64) float64 {
	if v >= 0 {
		return float64(int64(v + 0.5))
	}
	return float64(int64(v - 0.5))
}

func saturateInt16(v float64) int16 {
	if v > 32767 {
		return 32767
	}
	if v < -32768 {
		return -32768
	}
	return int16(v)
}
