package frame

import "github.com/jxlgo/jxl/internal/jxlerr"

// ROI is a region of interest that boosts VarDCT quality within a
// rectangle, feathering smoothly out to the unmodified distance
// across a surrounding band.
type ROI struct {
	X, Y, W, H   int
	QualityBoost float64 // 0..50
	FeatherWidth int     // >= 0
}

// Validate checks that the ROI rectangle fits within a width x height
// frame.
func (r ROI) Validate(width, height int) error {
	if r.X < 0 || r.Y < 0 || r.X+r.W > width || r.Y+r.H > height {
		return jxlerr.ErrROIOutOfBounds()
	}
	if r.QualityBoost < 0 || r.QualityBoost > 50 {
		return jxlerr.ErrInvalidConfiguration("ROI qualityBoost must be in [0,50]")
	}
	if r.FeatherWidth < 0 {
		return jxlerr.ErrInvalidConfiguration("ROI featherWidth must be >= 0")
	}
	return nil
}

// DistanceMultiplier returns the per-block VarDCT distance multiplier
// for a block whose top-left corner is at (bx, by) in pixel
// coordinates. Inside the ROI rectangle the multiplier is
// 1/(1+qualityBoost/10); it feathers linearly back to 1.0 across
// FeatherWidth pixels outside the rectangle, and is exactly 1.0
// beyond the feather band.
func (r ROI) DistanceMultiplier(bx, by int) float64 {
	boosted := 1.0 / (1.0 + r.QualityBoost/10.0)

	dx := axisDistance(bx, r.X, r.X+r.W)
	dy := axisDistance(by, r.Y, r.Y+r.H)
	d := dx
	if dy > d {
		d = dy
	}

	if d <= 0 {
		return boosted
	}
	if r.FeatherWidth <= 0 || d >= r.FeatherWidth {
		return 1.0
	}
	t := float64(d) / float64(r.FeatherWidth)
	return boosted + t*(1.0-boosted)
}

// axisDistance returns how far coordinate v is outside [lo, hi) along
// one axis; 0 if v is inside.
func axisDistance(v, lo, hi int) int {
	if v < lo {
		return lo - v
	}
	if v >= hi {
		return v - hi + 1
	}
	return 0
}
