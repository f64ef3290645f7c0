package vardct

import "testing"

func TestZigzagIsBijection(t *testing.T) {
	seen := make([]bool, 64)
	for _, idx := range zigzagOrder {
		if idx < 0 || idx >= 64 {
			t.Fatalf("index %d out of range", idx)
		}
		if seen[idx] {
			t.Fatalf("index %d appears more than once", idx)
		}
		seen[idx] = true
	}
	for i, ok := range seen {
		if !ok {
			t.Fatalf("index %d never appears", i)
		}
	}
}

func TestZigzagCorners(t *testing.T) {
	if zigzagOrder[0] != 0 {
		t.Errorf("zigzagOrder[0] = %d, want 0 (position 0 is (0,0))", zigzagOrder[0])
	}
	if zigzagOrder[63] != 63 {
		t.Errorf("zigzagOrder[63] = %d, want 63 (position 63 is (7,7))", zigzagOrder[63])
	}
}

func TestZigzagScanUnscanRoundTrip(t *testing.T) {
	block := make([]float64, 64)
	for i := range block {
		block[i] = float64(i) * 1.5
	}
	scanned := ZigzagScan(block)
	back := ZigzagUnscan(scanned)
	for i := range block {
		if back[i] != block[i] {
			t.Fatalf("index %d: got %v, want %v", i, back[i], block[i])
		}
	}
}
