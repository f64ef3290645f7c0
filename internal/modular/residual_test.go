package modular

import (
	"testing"

	"github.com/jxlgo/jxl/internal/ans"
)

func TestEncodeSimpleRoundTrip(t *testing.T) {
	residuals := []uint32{0, 1, 2, 500000, 1, 0, 999999}
	enc := EncodeSimple(residuals)
	got, err := DecodeSimple(enc, len(residuals))
	if err != nil {
		t.Fatal(err)
	}
	for i := range residuals {
		if got[i] != residuals[i] {
			t.Fatalf("index %d: got %d, want %d", i, got[i], residuals[i])
		}
	}
}

func TestResidualContextCausal(t *testing.T) {
	w, h := 4, 4
	g := newGrid(w, h, func(x, y int) int32 { return int32(10*y + x) })

	ctx := ResidualContext(g, 0, 0)
	if ctx < 0 || ctx >= NumResidualContexts {
		t.Fatalf("context %d out of range", ctx)
	}
	ctx2 := ResidualContext(g, 2, 2)
	if ctx2 < 0 || ctx2 >= NumResidualContexts {
		t.Fatalf("context %d out of range", ctx2)
	}
}

func TestEncodeDecodeANSRoundTrip(t *testing.T) {
	residuals := []uint32{0, 1, 0, 2, 1, 0, 3, 2}
	ctxOf := func(i int) int { return i % 3 }

	dists := make([]*ans.Distribution, 3)
	for i := range dists {
		d, err := ans.NewDistribution([]uint32{50, 30, 15, 5})
		if err != nil {
			t.Fatal(err)
		}
		dists[i] = d
	}

	streams, err := EncodeANS(residuals, ctxOf, dists)
	if err != nil {
		t.Fatal(err)
	}

	got, err := DecodeANS(streams, dists, len(residuals), ctxOf)
	if err != nil {
		t.Fatal(err)
	}
	for i := range residuals {
		if got[i] != residuals[i] {
			t.Fatalf("index %d: got %d, want %d", i, got[i], residuals[i])
		}
	}
}
