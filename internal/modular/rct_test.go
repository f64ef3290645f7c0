package modular

import "testing"

func TestRCTRoundTripFullByteRange(t *testing.T) {
	for r := int32(0); r <= 255; r += 5 {
		for g := int32(0); g <= 255; g += 5 {
			for b := int32(0); b <= 255; b += 5 {
				y, co, cg := ForwardRCT(r, g, b)
				gotR, gotG, gotB := InverseRCT(y, co, cg)
				if gotR != r || gotG != g || gotB != b {
					t.Fatalf("RCT(%d,%d,%d): round trip got (%d,%d,%d)", r, g, b, gotR, gotG, gotB)
				}
			}
		}
	}
}

func TestRCTRoundTripFull16BitCorners(t *testing.T) {
	vals := []int32{-32768, -1, 0, 1, 255, 32767}
	for _, r := range vals {
		for _, g := range vals {
			for _, b := range vals {
				y, co, cg := ForwardRCT(r, g, b)
				gotR, gotG, gotB := InverseRCT(y, co, cg)
				if gotR != r || gotG != g || gotB != b {
					t.Fatalf("RCT(%d,%d,%d): round trip got (%d,%d,%d)", r, g, b, gotR, gotG, gotB)
				}
			}
		}
	}
}

func TestShouldApplyRCT(t *testing.T) {
	cases := map[int]bool{1: false, 2: false, 3: true, 4: true}
	for channels, want := range cases {
		if got := ShouldApplyRCT(channels); got != want {
			t.Errorf("ShouldApplyRCT(%d) = %v, want %v", channels, got, want)
		}
	}
}
