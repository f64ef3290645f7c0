package modular

// Orientation identifies which axis a Squeeze step split.
type Orientation int

const (
	Horizontal Orientation = iota
	Vertical
)

// Step records one elementary Squeeze transform so the decoder can
// replay the exact sequence of splits in reverse. RegionW/RegionH are
// the dimensions of the region *before* this step was applied.
type Step struct {
	Orientation Orientation
	RegionW     int
	RegionH     int
}

// Grid is a row-major int32 image plane with a fixed stride, letting
// Squeeze operate in place on a sub-rectangle without copying the
// whole plane.
type Grid struct {
	Data   []int32
	Stride int
}

func (g *Grid) at(x, y int) int32     { return g.Data[y*g.Stride+x] }
func (g *Grid) set(x, y int, v int32) { g.Data[y*g.Stride+x] = v }

// floorDiv2 computes floor(x/2), flooring toward negative infinity.
func floorDiv2(x int32) int32 {
	if x >= 0 {
		return x / 2
	}
	return -((-x + 1) / 2)
}

// ceilDiv2 computes ceil(x/2), rounding toward positive infinity.
func ceilDiv2(x int32) int32 {
	if x >= 0 {
		return (x + 1) / 2
	}
	return -((-x) / 2)
}

// Forward applies `levels` rounds of Squeeze (one horizontal step then
// one vertical step on the resulting low-pass quadrant) to the width x
// height region of g anchored at (0,0), returning the list of steps
// applied in order. Decomposition stops early if width or height
// reaches 1.
func Forward(g *Grid, width, height, levels int) []Step {
	var steps []Step
	w, h := width, height
	for l := 0; l < levels; l++ {
		if w <= 1 || h <= 1 {
			break
		}
		steps = append(steps, Step{Orientation: Horizontal, RegionW: w, RegionH: h})
		squeezeHorizontal(g, w, h)
		w = (w + 1) / 2

		steps = append(steps, Step{Orientation: Vertical, RegionW: w, RegionH: h})
		squeezeVertical(g, w, h)
		h = (h + 1) / 2
	}
	return steps
}

// squeezeHorizontal splits each of the h rows of width w into a
// low-pass left half and a high-pass right half, written back into
// the same row.
func squeezeHorizontal(g *Grid, w, h int) {
	row := make([]int32, w)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			row[x] = g.at(x, y)
		}
		lowLen := (w + 1) / 2
		for i := 0; i < w/2; i++ {
			a, b := row[2*i], row[2*i+1]
			g.set(i, y, floorDiv2(a+b))
			g.set(lowLen+i, y, a-b)
		}
		if w%2 == 1 {
			g.set(lowLen-1, y, row[w-1])
		}
	}
}

// squeezeVertical splits each of the w columns of height h into a
// low-pass top half and a high-pass bottom half, written back into
// the same column.
func squeezeVertical(g *Grid, w, h int) {
	col := make([]int32, h)
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			col[y] = g.at(x, y)
		}
		lowLen := (h + 1) / 2
		for i := 0; i < h/2; i++ {
			a, b := col[2*i], col[2*i+1]
			g.set(x, i, floorDiv2(a+b))
			g.set(x, lowLen+i, a-b)
		}
		if h%2 == 1 {
			g.set(x, lowLen-1, col[h-1])
		}
	}
}

// Inverse replays steps in reverse, restoring the original values in
// the width x height region of g.
func Inverse(g *Grid, steps []Step) {
	for i := len(steps) - 1; i >= 0; i-- {
		s := steps[i]
		if s.Orientation == Vertical {
			unsqueezeVertical(g, s.RegionW, s.RegionH)
		} else {
			unsqueezeHorizontal(g, s.RegionW, s.RegionH)
		}
	}
}

func unsqueezeHorizontal(g *Grid, w, h int) {
	lowLen := (w + 1) / 2
	row := make([]int32, w)
	for y := 0; y < h; y++ {
		for i := 0; i < w/2; i++ {
			low := g.at(i, y)
			diff := g.at(lowLen+i, y)
			a := low + ceilDiv2(diff)
			b := a - diff
			row[2*i] = a
			row[2*i+1] = b
		}
		if w%2 == 1 {
			row[w-1] = g.at(lowLen-1, y)
		}
		for x := 0; x < w; x++ {
			g.set(x, y, row[x])
		}
	}
}

func unsqueezeVertical(g *Grid, w, h int) {
	lowLen := (h + 1) / 2
	col := make([]int32, h)
	for x := 0; x < w; x++ {
		for i := 0; i < h/2; i++ {
			low := g.at(x, i)
			diff := g.at(x, lowLen+i)
			a := low + ceilDiv2(diff)
			b := a - diff
			col[2*i] = a
			col[2*i+1] = b
		}
		if h%2 == 1 {
			col[h-1] = g.at(x, lowLen-1)
		}
		for y := 0; y < h; y++ {
			g.set(x, y, col[y])
		}
	}
}
