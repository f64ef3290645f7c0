package vardct

import "testing"

func TestYCbCrApproximateRoundTrip(t *testing.T) {
	r, g, b := 0.6, 0.2, 0.1
	y, cb, cr := ForwardYCbCr(r, g, b)
	gotR, gotG, gotB := InverseYCbCr(y, cb, cr)

	const tol = 1e-6
	if diff := gotR - r; diff > tol || diff < -tol {
		t.Errorf("R: got %v, want %v", gotR, r)
	}
	if diff := gotG - g; diff > tol || diff < -tol {
		t.Errorf("G: got %v, want %v", gotG, g)
	}
	if diff := gotB - b; diff > tol || diff < -tol {
		t.Errorf("B: got %v, want %v", gotB, b)
	}
}

func TestYCbCrChromaCentered(t *testing.T) {
	_, cb, cr := ForwardYCbCr(0, 0, 0)
	if cb != ChromaCenter || cr != ChromaCenter {
		t.Errorf("achromatic black: cb=%v cr=%v, want %v", cb, cr, ChromaCenter)
	}
}
