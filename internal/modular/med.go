package modular

// Predict returns the MED (median edge detector) prediction for the
// pixel at (x,y) given its already-decoded West, North and Northwest
// neighbors. Predict only implements the interior formula; PredictAt
// applies the edge rules and does not call Predict at the edges.
func Predict(w, n, nw int32) int32 {
	switch {
	case nw >= maxI32(w, n):
		return minI32(w, n)
	case nw <= minI32(w, n):
		return maxI32(w, n)
	default:
		return w + n - nw
	}
}

// PredictAt returns the MED prediction for pixel (x,y) of a plane,
// applying the boundary rules: 0 at the origin, West along the top
// row, North along the left column, full MED elsewhere.
func PredictAt(g *Grid, x, y int) int32 {
	switch {
	case x == 0 && y == 0:
		return 0
	case y == 0:
		return g.at(x-1, y)
	case x == 0:
		return g.at(x, y-1)
	default:
		return Predict(g.at(x-1, y), g.at(x, y-1), g.at(x-1, y-1))
	}
}

// ClampPrediction clamps a prediction to a channel's representable
// range: [0, 2^bits - 1] for unsigned samples, or the int16 range
// [-2^15, 2^15 - 1] for signed samples.
func ClampPrediction(pred int32, bits int, signed bool) int32 {
	if signed {
		lo, hi := int32(-1<<15), int32(1<<15-1)
		return clampI32(pred, lo, hi)
	}
	if bits >= 31 {
		return clampI32(pred, 0, 1<<31-1)
	}
	hi := int32(1<<uint(bits) - 1)
	return clampI32(pred, 0, hi)
}

// Zigzag folds a signed residual into a non-negative integer:
// 0,-1,1,-2,2,... -> 0,1,2,3,4,...
func Zigzag(v int32) uint32 {
	if v < 0 {
		return uint32(-2*v - 1)
	}
	return uint32(2 * v)
}

// UnZigzag is the inverse of Zigzag.
func UnZigzag(z uint32) int32 {
	if z%2 == 0 {
		return int32(z / 2)
	}
	return -int32((z + 1) / 2)
}

func maxI32(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}

func minI32(a, b int32) int32 {
	if a < b {
		return a
	}
	return b
}

func clampI32(v, lo, hi int32) int32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
