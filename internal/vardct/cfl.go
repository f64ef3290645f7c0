package vardct

import "math"

// CfLCandidates are the short-integer coefficients considered when
// searching for the best Chroma-from-Luma scale per block.
var CfLCandidates = []int{-2, -1, 0, 1, 2}

// BestCfL picks the integer c in [-2,2] minimizing
// sum((chromaAC - c*lumaAC)^2) over the AC coefficients of a block
// (index 0, the DC term, is excluded from the search since CfL never
// touches DC).
func BestCfL(chromaAC, lumaAC []float64) int {
	bestC := 0
	bestErr := math.Inf(1)
	for _, c := range CfLCandidates {
		var sum float64
		for i := range chromaAC {
			d := chromaAC[i] - float64(c)*lumaAC[i]
			sum += d * d
		}
		if sum < bestErr {
			bestErr = sum
			bestC = c
		}
	}
	return bestC
}

// ApplyCfL computes the residual AC that gets quantized in place of
// the raw chroma AC.
func ApplyCfL(chromaAC, lumaAC []float64, c int) []float64 {
	out := make([]float64, len(chromaAC))
	for i := range chromaAC {
		out[i] = chromaAC[i] - float64(c)*lumaAC[i]
	}
	return out
}

// UndoCfL recovers chromaAC from the decoded residual.
func UndoCfL(residualAC, lumaAC []float64, c int) []float64 {
	out := make([]float64, len(residualAC))
	for i := range residualAC {
		out[i] = residualAC[i] + float64(c)*lumaAC[i]
	}
	return out
}

