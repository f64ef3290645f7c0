package vardct

import "testing"

func TestPredictDCConstantGrid(t *testing.T) {
	const val = int32(512)
	dc := map[[2]int]int32{}
	dcAt := func(bx, by int) int32 { return dc[[2]int{bx, by}] }

	w, h := 4, 3
	for by := 0; by < h; by++ {
		for bx := 0; bx < w; bx++ {
			pred := PredictDC(bx, by, dcAt)
			residual := EncodeDCResidual(val, pred)
			dc[[2]int{bx, by}] = val

			if bx == 0 && by == 0 {
				if got := DecodeDCResidual(residual, pred); got != val {
					t.Fatalf("(0,0): got %d, want %d", got, val)
				}
				continue
			}
			if residual != 0 {
				t.Fatalf("(%d,%d): residual = %d, want 0 for constant DC grid", bx, by, residual)
			}
		}
	}
}

func TestPredictDCBoundaryRules(t *testing.T) {
	dc := map[[2]int]int32{
		{0, 0}: 10,
		{1, 0}: 20,
		{0, 1}: 30,
	}
	dcAt := func(bx, by int) int32 { return dc[[2]int{bx, by}] }

	if got := PredictDC(0, 0, dcAt); got != 0 {
		t.Errorf("(0,0) predict = %d, want 0", got)
	}
	if got := PredictDC(1, 0, dcAt); got != 10 {
		t.Errorf("(1,0) predict = %d, want 10 (left)", got)
	}
	if got := PredictDC(0, 1, dcAt); got != 10 {
		t.Errorf("(0,1) predict = %d, want 10 (above)", got)
	}
}
