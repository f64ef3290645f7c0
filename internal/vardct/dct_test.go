package vardct

import "testing"

func TestForwardDCTConstantBlockAllEnergyInDC(t *testing.T) {
	block := make([]float64, 64)
	for i := range block {
		block[i] = 37.0
	}
	coeffs := Forward2D(block)
	for i, v := range coeffs {
		if i == 0 {
			continue
		}
		if v > 1e-4 || v < -1e-4 {
			t.Fatalf("AC[%d] = %v, want < 1e-4", i, v)
		}
	}
	if coeffs[0] == 0 {
		t.Fatal("DC coefficient is zero for constant block")
	}
}

func TestDCTRoundTrip(t *testing.T) {
	block := make([]float64, 64)
	for i := range block {
		v := float64(i%5) - 2
		block[i] = v
	}
	coeffs := Forward2D(block)
	back := Inverse2D(coeffs)
	for i := range block {
		diff := back[i] - block[i]
		if diff > 1e-3 || diff < -1e-3 {
			t.Fatalf("index %d: got %v, want %v (diff %v)", i, back[i], block[i], diff)
		}
	}
}

func TestPadToBlockClampedEdges(t *testing.T) {
	w, h := 5, 3
	plane := make([]float64, w*h)
	for i := range plane {
		plane[i] = float64(i)
	}
	padded, pw, ph := PadToBlock(plane, w, h)
	if pw != 8 || ph != 8 {
		t.Fatalf("padded dims = %dx%d, want 8x8", pw, ph)
	}
	for y := 0; y < ph; y++ {
		for x := 0; x < pw; x++ {
			sx, sy := x, y
			if sx >= w {
				sx = w - 1
			}
			if sy >= h {
				sy = h - 1
			}
			want := plane[sy*w+sx]
			if padded[y*pw+x] != want {
				t.Fatalf("(%d,%d): got %v, want %v", x, y, padded[y*pw+x], want)
			}
		}
	}
	cropped := CropFromBlock(padded, pw, w, h)
	for i := range plane {
		if cropped[i] != plane[i] {
			t.Fatalf("crop index %d: got %v, want %v", i, cropped[i], plane[i])
		}
	}
}
