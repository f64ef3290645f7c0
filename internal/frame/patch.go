package frame

// Patch is a rectangular region copy descriptor: a destination
// rectangle in the current frame sourced from a rectangle of equal
// size in a reference frame. Similarity is computational only, never
// serialized.
type Patch struct {
	DestX, DestY, W, H int
	RefIndex           int
	SrcX, SrcY         int
	Similarity         float64
}

// PatchConfig controls patch detection.
type PatchConfig struct {
	Enabled             bool
	MinPatchSize        int
	MaxPatchSize         int
	BlockSize           int
	SimilarityThreshold float64 // in [0,1]
	MaxPatchesPerFrame  int
}

// DefaultPatchConfig holds the conservative defaults used when
// patches are enabled without further tuning.
func DefaultPatchConfig() PatchConfig {
	return PatchConfig{
		MinPatchSize:        16,
		MaxPatchSize:        64,
		BlockSize:           8,
		SimilarityThreshold: 0.9,
		MaxPatchesPerFrame:  16,
	}
}

func (c Patch) overlaps(o Patch) bool {
	return c.DestX < o.DestX+o.W && o.DestX < c.DestX+c.W &&
		c.DestY < o.DestY+o.H && o.DestY < c.DestY+c.H
}

// DetectPatches scans cur for rectangular regions matching a same-
// sized region in any frame of refs, using channel 0 as the
// similarity proxy. Candidate sizes run from cfg.MaxPatchSize down to
// cfg.MinPatchSize in cfg.BlockSize steps so the largest, most
// valuable matches are found first; matches are sorted by area
// descending, filtered to reject pairwise overlaps, and capped at
// cfg.MaxPatchesPerFrame.
//
// The mean-absolute-difference threshold comparison is inclusive
// (<=).
func DetectPatches(cur *Frame, refs *ReferencePool, cfg PatchConfig) []Patch {
	if !cfg.Enabled || refs.Size() == 0 {
		return nil
	}
	maxVal := float64(cur.MaxValue())
	threshold := (1 - cfg.SimilarityThreshold) * maxVal

	var candidates []Patch
	for size := cfg.MaxPatchSize; size >= cfg.MinPatchSize; size -= cfg.BlockSize {
		if size <= 0 {
			break
		}
		for dy := 0; dy+size <= cur.Height; dy += cfg.BlockSize {
			for dx := 0; dx+size <= cur.Width; dx += cfg.BlockSize {
				best, bestRef, bestSX, bestSY, found := bestMatch(cur, refs, dx, dy, size, threshold)
				if found {
					candidates = append(candidates, Patch{
						DestX: dx, DestY: dy, W: size, H: size,
						RefIndex: bestRef, SrcX: bestSX, SrcY: bestSY,
						Similarity: 1 - best/maxVal,
					})
				}
			}
		}
	}

	return selectNonOverlapping(candidates, cfg.MaxPatchesPerFrame)
}

func bestMatch(cur *Frame, refs *ReferencePool, dx, dy, size int, threshold float64) (bestMAD float64, bestRef, bestSX, bestSY int, found bool) {
	bestMAD = threshold + 1
	for ri := 0; ri < refs.Size(); ri++ {
		ref := refs.At(ri)
		if ref == nil || ref.Width < size || ref.Height < size {
			continue
		}
		for sy := 0; sy+size <= ref.Height; sy += size {
			for sx := 0; sx+size <= ref.Width; sx += size {
				mad := meanAbsDiff(cur, ref, dx, dy, sx, sy, size)
				if mad <= threshold && mad < bestMAD {
					bestMAD, bestRef, bestSX, bestSY, found = mad, ri, sx, sy, true
				}
			}
		}
	}
	return
}

func meanAbsDiff(a, b *Frame, ax, ay, bx, by, size int) float64 {
	var sum float64
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			d := a.At(ax+x, ay+y, 0) - b.At(bx+x, by+y, 0)
			if d < 0 {
				d = -d
			}
			sum += float64(d)
		}
	}
	return sum / float64(size*size)
}

func selectNonOverlapping(candidates []Patch, maxCount int) []Patch {
	// Insertion sort by area descending; candidate counts stay small
	// enough in practice that this beats pulling in sort for one spot.
	for i := 1; i < len(candidates); i++ {
		for j := i; j > 0 && candidates[j].W*candidates[j].H > candidates[j-1].W*candidates[j-1].H; j-- {
			candidates[j], candidates[j-1] = candidates[j-1], candidates[j]
		}
	}

	var selected []Patch
	for _, c := range candidates {
		if len(selected) >= maxCount {
			break
		}
		overlap := false
		for _, s := range selected {
			if c.overlaps(s) {
				overlap = true
				break
			}
		}
		if !overlap {
			selected = append(selected, c)
		}
	}
	return selected
}

// ZeroPatchAreas zeroes every channel of every patch's destination
// rectangle in place, so the residual encoded afterward carries no
// redundant data for the regions patches already cover.
func ZeroPatchAreas(f *Frame, patches []Patch) {
	for _, p := range patches {
		for y := p.DestY; y < p.DestY+p.H; y++ {
			for x := p.DestX; x < p.DestX+p.W; x++ {
				for c := 0; c < f.Channels; c++ {
					f.Set(x, y, c, 0)
				}
			}
		}
	}
}

// ApplyPatches copies each patch's source rectangle from its
// reference frame into dst's destination rectangle, undoing
// ZeroPatchAreas during decode.
func ApplyPatches(dst *Frame, refs *ReferencePool, patches []Patch) {
	for _, p := range patches {
		ref := refs.At(p.RefIndex)
		if ref == nil {
			continue
		}
		for y := 0; y < p.H; y++ {
			for x := 0; x < p.W; x++ {
				for c := 0; c < dst.Channels; c++ {
					dst.Set(p.DestX+x, p.DestY+y, c, ref.At(p.SrcX+x, p.SrcY+y, c))
				}
			}
		}
	}
}
