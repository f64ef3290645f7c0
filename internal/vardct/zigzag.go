package vardct

// zigzagOrder[i] is the (row*8+col) index of the i-th coefficient in
// canonical 8x8 zigzag order: DC first, then alternating diagonals.
var zigzagOrder = [64]int{
	0, 1, 8, 16, 9, 2, 3, 10,
	17, 24, 32, 25, 18, 11, 4, 5,
	12, 19, 26, 33, 40, 48, 41, 34,
	27, 20, 13, 6, 7, 14, 21, 28,
	35, 42, 49, 56, 57, 50, 43, 36,
	29, 22, 15, 23, 30, 37, 44, 51,
	58, 59, 52, 45, 38, 31, 39, 46,
	53, 60, 61, 54, 47, 55, 62, 63,
}

var zigzagInverse [64]int

func init() {
	for pos, idx := range zigzagOrder {
		zigzagInverse[idx] = pos
	}
}

// ZigzagScan reorders a row-major 8x8 block into zigzag order.
func ZigzagScan(block []float64) []float64 {
	out := make([]float64, 64)
	for pos, idx := range zigzagOrder {
		out[pos] = block[idx]
	}
	return out
}

// ZigzagUnscan is the inverse of ZigzagScan.
func ZigzagUnscan(scanned []float64) []float64 {
	out := make([]float64, 64)
	for pos, idx := range zigzagOrder {
		out[idx] = scanned[pos]
	}
	return out
}
