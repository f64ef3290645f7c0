// Package orchestrator implements the frame orchestrator: it
// chooses Modular or VarDCT per frame, drives multi-frame animation,
// reference-frame keyframe/delta scheduling and rectangular patch
// copies, and assembles the codestream (internal/codestream) and
// optional box container (internal/box) around the chosen pipeline's
// payload. It is the layer directly above internal/codec and the
// caller-facing root package never touches internal/codec,
// internal/modular or internal/vardct directly.
package orchestrator

import (
	"github.com/jxlgo/jxl/internal/frame"
	"github.com/jxlgo/jxl/internal/jxlerr"
)

// AnimationConfig drives per-frame duration ticks for a sequence.
type AnimationConfig struct {
	TicksPerSecondNum uint32
	TicksPerSecondDen uint32
	LoopCount         uint32
}

// ReferenceFrameConfig drives keyframe/delta-frame scheduling.
type ReferenceFrameConfig struct {
	Enabled             bool
	KeyframeInterval    int
	SimilarityThreshold float64
	MaxReferenceFrames  int
}

// Config is the orchestrator's view of an encode call's options,
// translated from the caller-facing jxl.Options by the root package
// (kept as a separate type here so this package never imports the
// root package, which would cycle).
type Config struct {
	Lossless             bool
	Distance             float64
	Effort               int // 1..9; cheaper tiers skip the patch search
	ModularMode          bool
	UseANS               bool
	AdaptiveQuantization bool
	Progressive          bool
	UseXYBColorSpace     bool
	NumThreads           int
	RegionOfInterest     *frame.ROI
	Animation            AnimationConfig
	ReferenceFrames      ReferenceFrameConfig
	Patches              frame.PatchConfig
}

// SqueezeLevels is the default number of Squeeze decomposition levels
// applied when progressive coding is requested.
const SqueezeLevels = 3

// Validate checks the option combinations rejected as
// InvalidConfiguration, plus ROI bounds.
func (c Config) Validate(width, height int) error {
	if c.ModularMode && c.UseXYBColorSpace {
		return jxlerr.ErrInvalidConfiguration("modularMode and useXYBColorSpace are mutually exclusive")
	}
	if c.RegionOfInterest != nil {
		if err := c.RegionOfInterest.Validate(width, height); err != nil {
			return err
		}
	}
	if c.Patches.Enabled && c.ReferenceFrames.MaxReferenceFrames <= 0 && !c.ReferenceFrames.Enabled {
		return jxlerr.ErrInvalidConfiguration("patches require reference frames to be enabled")
	}
	if c.ReferenceFrames.Enabled && (c.ReferenceFrames.MaxReferenceFrames < 0 || c.ReferenceFrames.MaxReferenceFrames > 31) {
		return jxlerr.ErrInvalidConfiguration("maxReferenceFrames must be in [0,31]")
	}
	return nil
}

// usesModular reports whether this config forces the Modular
// pipeline for a single frame: lossless always does, otherwise
// only when modularMode was explicitly requested.
func (c Config) usesModular() bool {
	return c.Lossless || c.ModularMode
}
