package frame

import "testing"

func makeConstFrame(w, h int, v int32) *Frame {
	f, _ := New(w, h, 1, U8, 8)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			f.Set(x, y, 0, v)
		}
	}
	return f
}

func TestDetectPatchesFindsIdenticalRegion(t *testing.T) {
	ref := makeConstFrame(64, 64, 100)
	cur := makeConstFrame(64, 64, 100)

	pool := NewReferencePool(4)
	pool.Push(ref)

	cfg := DefaultPatchConfig()
	cfg.Enabled = true
	cfg.MinPatchSize = 16
	cfg.MaxPatchSize = 32
	cfg.BlockSize = 16

	patches := DetectPatches(cur, pool, cfg)
	if len(patches) == 0 {
		t.Fatal("expected at least one patch for identical frames")
	}
	for _, p := range patches {
		if p.Similarity < 0.999 {
			t.Fatalf("similarity = %v, want ~1.0", p.Similarity)
		}
	}
}

func TestDetectPatchesDisabled(t *testing.T) {
	ref := makeConstFrame(32, 32, 50)
	cur := makeConstFrame(32, 32, 50)
	pool := NewReferencePool(4)
	pool.Push(ref)

	cfg := DefaultPatchConfig()
	cfg.Enabled = false
	if patches := DetectPatches(cur, pool, cfg); patches != nil {
		t.Fatalf("expected no patches when disabled, got %v", patches)
	}
}

func TestSelectNonOverlappingRejectsOverlaps(t *testing.T) {
	candidates := []Patch{
		{DestX: 0, DestY: 0, W: 16, H: 16, Similarity: 1},
		{DestX: 8, DestY: 8, W: 16, H: 16, Similarity: 1},
		{DestX: 32, DestY: 32, W: 16, H: 16, Similarity: 1},
	}
	selected := selectNonOverlapping(candidates, 10)
	if len(selected) != 2 {
		t.Fatalf("got %d patches, want 2 non-overlapping", len(selected))
	}
}

func TestApplyPatchesRestoresZeroedArea(t *testing.T) {
	ref := makeConstFrame(32, 32, 77)
	cur := makeConstFrame(32, 32, 77)
	pool := NewReferencePool(4)
	pool.Push(ref)

	patches := []Patch{{DestX: 0, DestY: 0, W: 16, H: 16, RefIndex: 0, SrcX: 0, SrcY: 0}}
	ZeroPatchAreas(cur, patches)
	if cur.At(0, 0, 0) != 0 {
		t.Fatal("ZeroPatchAreas did not zero the destination rect")
	}
	ApplyPatches(cur, pool, patches)
	if cur.At(0, 0, 0) != 77 {
		t.Fatalf("got %d, want 77 after ApplyPatches", cur.At(0, 0, 0))
	}
}
