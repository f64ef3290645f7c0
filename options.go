package jxl

import "github.com/jxlgo/jxl/internal/frame"

// Effort selects the encoder speed/size trade-off. The nine named
// tiers mirror real JPEG XL encoder effort presets; this core
// threads the value through to decisions like whether the
// reference-frame patch search runs (lightning and thunder skip it).
type Effort int

const (
	EffortLightning Effort = iota + 1
	EffortThunder
	EffortFalcon
	EffortCheetah
	EffortHare
	EffortWombat
	EffortSquirrel
	EffortKitten
	EffortTortoise
)

// ModeKind selects whether a frame is coded losslessly or to a target
// quality/distance.
type ModeKind int

const (
	ModeLossless ModeKind = iota
	ModeLossy
	ModeDistance
)

// Mode is the encode target: exactly one of Lossless, Lossy(Quality)
// or Distance(Distance).
type Mode struct {
	Kind     ModeKind
	Quality  int     // 0..100, used when Kind == ModeLossy
	Distance float64 // >= 0, used when Kind == ModeDistance
}

// Lossless returns the lossless mode value.
func Lossless() Mode { return Mode{Kind: ModeLossless} }

// LossyQuality returns a quality-targeted lossy mode.
func LossyQuality(q int) Mode { return Mode{Kind: ModeLossy, Quality: q} }

// LossyDistance returns a distance-targeted lossy mode.
func LossyDistance(d float64) Mode { return Mode{Kind: ModeDistance, Distance: d} }

// qualityToDistance approximates the mapping from a [0,100] quality
// knob to a VarDCT distance value; 100 is visually lossless (distance
// 0), 0 is maximally compressed.
func qualityToDistance(quality int) float64 {
	if quality >= 100 {
		return 0
	}
	if quality <= 0 {
		return 15
	}
	return 15 * float64(100-quality) / 100
}

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

// NoiseConfig and SplineConfig are accepted for interface parity with
// the wider JPEG XL feature set but are not part of this core's
// scope: Encode does not read them, so they have no effect on the
// output.
type NoiseConfig struct {
	Enabled bool
}

type SplineConfig struct {
	Enabled bool
}

// Options configures a single encode call.
type Options struct {
	Mode                     Mode
	Effort                   Effort
	Progressive              bool
	ModularMode              bool
	UseANS                   bool
	AdaptiveQuantization     bool
	UseXYBColorSpace         bool
	UseHardwareAcceleration  bool
	UseAccelerate            bool
	UseMetal                 bool
	NumThreads               int
	RegionOfInterest         *frame.ROI
	NoiseConfig              NoiseConfig
	SplineConfig             SplineConfig
	AnimationConfig          AnimationConfig
	ReferenceFrameConfig     ReferenceFrameConfig
	PatchConfig              frame.PatchConfig
}

// DefaultOptions returns the baseline configuration: lossless,
// "squirrel" effort, ANS entropy coding on, everything else off.
func DefaultOptions() Options {
	return Options{
		Mode:       Lossless(),
		Effort:     EffortSquirrel,
		UseANS:     true,
		NumThreads: 0,
		ReferenceFrameConfig: ReferenceFrameConfig{
			MaxReferenceFrames: frame.DefaultMaxReferenceFrames,
		},
	}
}
