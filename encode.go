package jxl

import (
	"github.com/jxlgo/jxl/internal/frame"
	"github.com/jxlgo/jxl/internal/jxlerr"
	"github.com/jxlgo/jxl/internal/orchestrator"
)

// Stats reports the outcome of an encode call.
type Stats struct {
	EncodedBytes int
	FrameCount   int
	Lossless     bool
}

func toOrchestratorConfig(o Options) orchestrator.Config {
	effort := int(o.Effort)
	if effort == 0 {
		effort = int(EffortSquirrel)
	}
	cfg := orchestrator.Config{
		Effort:               effort,
		ModularMode:          o.ModularMode,
		UseANS:               o.UseANS,
		AdaptiveQuantization: o.AdaptiveQuantization,
		Progressive:          o.Progressive,
		UseXYBColorSpace:     o.UseXYBColorSpace,
		NumThreads:           o.NumThreads,
		RegionOfInterest:     o.RegionOfInterest,
		Animation: orchestrator.AnimationConfig{
			TicksPerSecondNum: o.AnimationConfig.TicksPerSecondNum,
			TicksPerSecondDen: o.AnimationConfig.TicksPerSecondDen,
			LoopCount:         o.AnimationConfig.LoopCount,
		},
		ReferenceFrames: orchestrator.ReferenceFrameConfig{
			Enabled:             o.ReferenceFrameConfig.Enabled,
			KeyframeInterval:    o.ReferenceFrameConfig.KeyframeInterval,
			SimilarityThreshold: o.ReferenceFrameConfig.SimilarityThreshold,
			MaxReferenceFrames:  o.ReferenceFrameConfig.MaxReferenceFrames,
		},
		Patches: o.PatchConfig,
	}

	switch o.Mode.Kind {
	case ModeLossless:
		cfg.Lossless = true
	case ModeLossy:
		cfg.Distance = qualityToDistance(o.Mode.Quality)
	case ModeDistance:
		cfg.Distance = o.Mode.Distance
	}
	return cfg
}

// Encode compresses a single frame into a raw JPEG XL codestream.
// Use EncodeContainer instead when the caller needs the ISOBMFF box
// container form.
func Encode(f *Frame, opts Options) ([]byte, Stats, error) {
	data, stats, err := EncodeSequence([]*Frame{f}, nil, opts)
	return data, stats, err
}

// validateOptions rejects out-of-range mode, quality, distance and
// effort values before they are translated into an orchestrator
// config.
func validateOptions(o Options) error {
	if o.Mode.Kind == ModeLossy && (o.Mode.Quality < 0 || o.Mode.Quality > 100) {
		return jxlerr.ErrInvalidConfiguration("lossy quality must be in [0,100]")
	}
	if o.Mode.Kind == ModeDistance && (o.Mode.Distance < 0 || o.Mode.Distance > 15) {
		return jxlerr.ErrInvalidConfiguration("distance must be in [0,15]")
	}
	if o.Effort != 0 && (o.Effort < EffortLightning || o.Effort > EffortTortoise) {
		return jxlerr.ErrInvalidConfiguration("effort must be in 1..9")
	}
	return nil
}

// EncodeSequence compresses an ordered sequence of frames — an
// animation, or a set of frames meant to share reference-frame state —
// into a single raw codestream.
func EncodeSequence(frames []*Frame, durations []uint32, opts Options) ([]byte, Stats, error) {
	if err := validateOptions(opts); err != nil {
		return nil, Stats{}, err
	}
	cfg := toOrchestratorConfig(opts)
	inner := make([]*frame.Frame, len(frames))
	for i, f := range frames {
		inner[i] = f.inner
	}
	data, err := orchestrator.EncodeSequence(inner, durations, cfg)
	if err != nil {
		return nil, Stats{}, err
	}
	return data, Stats{EncodedBytes: len(data), FrameCount: len(frames), Lossless: cfg.Lossless}, nil
}

// EncodeContainer is like Encode but wraps the codestream in a JXL
// box container, optionally carrying Exif/XMP/ICC/thumbnail
// payloads alongside it.
func EncodeContainer(f *Frame, opts Options, extras ContainerExtras) ([]byte, Stats, error) {
	data, stats, err := Encode(f, opts)
	if err != nil {
		return nil, Stats{}, err
	}
	wrapped := orchestrator.WrapContainer(data, orchestrator.ContainerExtras(extras))
	stats.EncodedBytes = len(wrapped)
	return wrapped, stats, nil
}

// ContainerExtras holds the optional boxes EncodeContainer wraps
// around a codestream.
type ContainerExtras struct {
	Exif       []byte
	XML        []byte
	ICCProfile []byte
	Thumbnail  []byte
}
