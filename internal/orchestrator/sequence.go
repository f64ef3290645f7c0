package orchestrator

import (
	"github.com/jxlgo/jxl/internal/bio"
	"github.com/jxlgo/jxl/internal/codestream"
	"github.com/jxlgo/jxl/internal/frame"
	"github.com/jxlgo/jxl/internal/jxlerr"
	"github.com/jxlgo/jxl/internal/workerpool"
)

// ImageHeader is the result of reading a codestream's header without
// touching any frame's pixel data.
type ImageHeader struct {
	Width, Height int
	Channels      int
	PixelType     frame.PixelType
	BitsPerSample int
	HasAlpha      bool
	ExtraChannels int
	Orientation   int
	Animation     bool
	TicksPerSecondNum, TicksPerSecondDen, LoopCount uint32
	ColorEncoding codestream.ColorEncoding
}

func channelsFromMetadata(m codestream.ImageMetadata) int {
	base := 3
	if m.Grayscale {
		base = 1
	}
	if m.HasAlpha {
		base++
	}
	return base
}

func buildImageMetadata(f *frame.Frame, cfg Config) codestream.ImageMetadata {
	m := codestream.DefaultImageMetadata()
	m.BitsPerSample = f.BitsPerSample
	m.Grayscale = f.Channels == 1
	m.PixelTypeTag = int(f.PixelType)
	m.HasAlpha = f.Channels == 4
	m.ExtraChannels = len(f.Extra)
	m.XYBEncoded = cfg.UseXYBColorSpace
	m.Orientation = f.Orientation
	if m.Orientation < 1 || m.Orientation > 8 {
		m.Orientation = 1
	}
	if cfg.Animation.TicksPerSecondNum > 0 {
		m.Animation = true
		m.TicksPerSecondNum = cfg.Animation.TicksPerSecondNum
		m.TicksPerSecondDen = cfg.Animation.TicksPerSecondDen
		m.LoopCount = cfg.Animation.LoopCount
	}
	if cfg.ReferenceFrames.Enabled {
		m.ReferenceFramesEnabled = true
		m.MaxReferenceFrames = cfg.ReferenceFrames.MaxReferenceFrames
	}
	return m
}

func buildColorEncoding(f *frame.Frame, cfg Config) codestream.ColorEncoding {
	c := codestream.DefaultColorEncoding()
	if f.Channels == 1 {
		c.ColorSpace = codestream.ColorSpaceGray
	}
	if cfg.UseXYBColorSpace {
		c.ColorSpace = codestream.ColorSpaceXYB
	}
	return c
}

// encodePatches serializes a frame's patch list so the decoder can
// re-apply them after reconstructing the zeroed-out residual.
func encodePatches(patches []frame.Patch) []byte {
	out := appendU32(nil, uint32(len(patches)))
	for _, p := range patches {
		out = appendU32(out, uint32(p.DestX))
		out = appendU32(out, uint32(p.DestY))
		out = appendU32(out, uint32(p.W))
		out = appendU32(out, uint32(p.H))
		out = appendU32(out, uint32(p.RefIndex))
		out = appendU32(out, uint32(p.SrcX))
		out = appendU32(out, uint32(p.SrcY))
	}
	return out
}

func decodePatches(data []byte, pos int) ([]frame.Patch, int, error) {
	n, pos, err := readU32(data, pos)
	if err != nil {
		return nil, pos, err
	}
	patches := make([]frame.Patch, n)
	for i := range patches {
		var destX, destY, w, h, ref, srcX, srcY uint32
		for _, f := range []*uint32{&destX, &destY, &w, &h, &ref, &srcX, &srcY} {
			*f, pos, err = readU32(data, pos)
			if err != nil {
				return nil, pos, err
			}
		}
		patches[i] = frame.Patch{
			DestX: int(destX), DestY: int(destY), W: int(w), H: int(h),
			RefIndex: int(ref), SrcX: int(srcX), SrcY: int(srcY),
		}
	}
	return patches, pos, nil
}

// keyframeDue reports whether frame index i should be pushed to the
// reference pool as a fresh keyframe baseline under cfg's interval.
func keyframeDue(cfg Config, i int) bool {
	if !cfg.ReferenceFrames.Enabled {
		return false
	}
	if cfg.ReferenceFrames.KeyframeInterval <= 0 {
		return true
	}
	return i%cfg.ReferenceFrames.KeyframeInterval == 0
}

// frameSimilarity returns channel-0 mean-absolute-difference similarity
// between two same-sized frames, in [0,1] (1 = identical), the same
// metric frame.DetectPatches uses per block but taken over the whole
// frame for whole-frame delta-reference selection.
func frameSimilarity(cur, ref *frame.Frame) float64 {
	if ref == nil || cur.Width != ref.Width || cur.Height != ref.Height {
		return 0
	}
	maxVal := float64(cur.MaxValue())
	if maxVal == 0 {
		return 0
	}
	var sum float64
	for y := 0; y < cur.Height; y++ {
		for x := 0; x < cur.Width; x++ {
			d := cur.At(x, y, 0) - ref.At(x, y, 0)
			if d < 0 {
				d = -d
			}
			sum += float64(d)
		}
	}
	mad := sum / float64(cur.Width*cur.Height)
	return 1 - mad/maxVal
}

// chooseDeltaReference picks the pool entry maximizing similarity to
// cur, returning ok=false when none clears threshold; callers fall
// back to a keyframe in that case.
func chooseDeltaReference(cur *frame.Frame, refs *frame.ReferencePool, threshold float64) (idx int, ok bool) {
	best := -1.0
	bestIdx := -1
	for i := 0; i < refs.Size(); i++ {
		s := frameSimilarity(cur, refs.At(i))
		if s >= threshold && s > best {
			best, bestIdx = s, i
		}
	}
	return bestIdx, bestIdx >= 0
}

// deltaModulus returns 2^bits, the wraparound used to make a delta
// frame's subtraction exactly invertible regardless of over/underflow
// (the same reversibility argument as the RCT and MED clamp: encoder
// and decoder apply the identical deterministic operation, so the
// actual range covered never has to be literally correct).
func deltaModulus(bits int) int32 {
	if bits <= 0 || bits > 30 {
		bits = 16
	}
	return int32(1) << uint(bits)
}

// buildDeltaFrame returns cur's per-sample difference from ref, wrapped
// modulo the pixel depth. Delta coding only applies to integer pixel
// types; F32 frames always fall back to keyframes since a bit-pattern
// subtraction on floats has no reversible meaning.
func buildDeltaFrame(cur, ref *frame.Frame) *frame.Frame {
	d := cur.Clone()
	mod := deltaModulus(cur.BitsPerSample)
	for y := 0; y < cur.Height; y++ {
		for x := 0; x < cur.Width; x++ {
			for c := 0; c < cur.Channels; c++ {
				diff := ((cur.At(x, y, c)-ref.At(x, y, c))%mod + mod) % mod
				d.Set(x, y, c, diff)
			}
		}
	}
	return d
}

// undoDeltaFrame is the inverse of buildDeltaFrame.
func undoDeltaFrame(diff, ref *frame.Frame) *frame.Frame {
	out := diff.Clone()
	mod := deltaModulus(diff.BitsPerSample)
	for y := 0; y < diff.Height; y++ {
		for x := 0; x < diff.Width; x++ {
			for c := 0; c < diff.Channels; c++ {
				v := ((diff.At(x, y, c)+ref.At(x, y, c))%mod + mod) % mod
				out.Set(x, y, c, v)
			}
		}
	}
	return out
}

// deltaEligible reports whether cur's pixel type supports delta
// coding against a reference frame.
func deltaEligible(f *frame.Frame) bool {
	return f.PixelType != frame.F32
}

// EncodeSequence assembles a complete raw codestream (signature, size
// header, image metadata, color encoding, then one frame header plus
// section per frame) for an animation or single-image sequence.
// durations may be nil, in which case every frame uses
// DefaultFrameHeader's duration of 0 ticks.
func EncodeSequence(frames []*frame.Frame, durations []uint32, cfg Config) ([]byte, error) {
	if len(frames) == 0 {
		return nil, jxlerr.ErrInvalidConfiguration("no frames to encode")
	}
	first := frames[0]
	if err := cfg.Validate(first.Width, first.Height); err != nil {
		return nil, err
	}

	w := bio.NewWriter()
	codestream.WriteSignature(w)
	if err := codestream.WriteSizeHeader(w, uint32(first.Width), uint32(first.Height)); err != nil {
		return nil, err
	}
	if err := codestream.WriteImageMetadata(w, buildImageMetadata(first, cfg)); err != nil {
		return nil, err
	}
	if err := codestream.WriteColorEncoding(w, buildColorEncoding(first, cfg)); err != nil {
		return nil, err
	}

	pool := workerpool.New(cfg.NumThreads)
	defer pool.Shutdown()

	refs := frame.NewReferencePool(cfg.ReferenceFrames.MaxReferenceFrames)
	for i, f := range frames {
		if f.Width != first.Width || f.Height != first.Height {
			return nil, jxlerr.ErrInvalidConfiguration("every frame in a sequence must share the canvas size")
		}

		isKeyframe := keyframeDue(cfg, i)
		deltaIdx := -1
		workFrame := f
		// Delta coding runs only through the Modular pipeline: the
		// wraparound subtraction is exactly invertible there, whereas
		// pushing mod-2^bits values through a lossy DCT would smear
		// across every wrap discontinuity.
		if !isKeyframe && cfg.usesModular() && cfg.ReferenceFrames.Enabled && deltaEligible(f) && refs.Size() > 0 {
			if idx, ok := chooseDeltaReference(f, refs, cfg.ReferenceFrames.SimilarityThreshold); ok {
				deltaIdx = idx
				workFrame = buildDeltaFrame(f, refs.At(idx))
			}
		}

		var patches []frame.Patch
		if cfg.Patches.Enabled && !isKeyframe && cfg.Effort > 2 && refs.Size() > 0 {
			patches = frame.DetectPatches(f, refs, cfg.Patches)
			if len(patches) > 0 {
				if workFrame == f {
					workFrame = f.Clone()
				}
				frame.ZeroPatchAreas(workFrame, patches)
			}
		}

		body, pipelineKind, err := EncodeFrameBody(workFrame, cfg, pool)
		if err != nil {
			return nil, err
		}

		header := codestream.DefaultFrameHeader(first.Width, first.Height)
		header.Encoding = pipelineKind
		header.IsLast = i == len(frames)-1
		if durations != nil && i < len(durations) {
			header.Duration = durations[i]
		}
		header.SaveAsReference = -1
		if isKeyframe {
			header.SaveAsReference = refs.Size() % 256
		}
		if err := codestream.WriteFrameHeader(w, header, first.Width, first.Height); err != nil {
			return nil, err
		}

		payload := []byte{0}
		if deltaIdx >= 0 {
			payload[0] = 1
			payload = appendU32(payload, uint32(deltaIdx))
		}
		payload = append(payload, encodePatches(patches)...)
		payload = append(payload, body...)
		codestream.WriteSection(w, codestream.Section{Payload: payload})

		if isKeyframe {
			// The pool must hold what the decoder will hold, which for
			// a lossy keyframe is the reconstruction, not the source.
			pushed := f
			if pipelineKind != codestreamEncodingModular {
				pushed, err = DecodeFrameBody(body, f.Width, f.Height, f.Channels, f.PixelType, f.BitsPerSample, pool)
				if err != nil {
					return nil, err
				}
			}
			refs.Push(pushed)
		}
	}

	return w.Bytes(), nil
}

// DecodeSequence parses a complete raw codestream produced by
// EncodeSequence and reconstructs every frame in order. It takes
// no options: the pipeline
// choice, VarDCT distance/adaptive-quantization/ROI settings, and
// reference-frame pool sizing all travel inside the codestream itself,
// written there by EncodeSequence for exactly this reason.
func DecodeSequence(data []byte) ([]*frame.Frame, error) {
	r := bio.NewReader(data)
	if err := codestream.ReadSignature(r); err != nil {
		return nil, err
	}
	width, height, err := codestream.ReadSizeHeader(r)
	if err != nil {
		return nil, err
	}
	meta, err := codestream.ReadImageMetadata(r)
	if err != nil {
		return nil, err
	}
	if _, err := codestream.ReadColorEncoding(r); err != nil {
		return nil, err
	}

	channels := channelsFromMetadata(meta)
	pixelType := frame.PixelType(meta.PixelTypeTag)

	pool := workerpool.New(0)
	defer pool.Shutdown()

	refs := frame.NewReferencePool(meta.MaxReferenceFrames)
	var frames []*frame.Frame
	for {
		header, err := codestream.ReadFrameHeader(r, int(width), int(height))
		if err != nil {
			return nil, err
		}
		section, err := codestream.ReadSection(r)
		if err != nil {
			return nil, err
		}
		if len(section.Payload) < 1 {
			return nil, jxlerr.ErrTruncatedData()
		}
		pos := 1
		hasDelta := section.Payload[0] != 0
		deltaIdx := -1
		if hasDelta {
			var v uint32
			v, pos, err = readU32(section.Payload, pos)
			if err != nil {
				return nil, err
			}
			deltaIdx = int(v)
		}

		patches, pos, err := decodePatches(section.Payload, pos)
		if err != nil {
			return nil, err
		}
		decoded, err := DecodeFrameBody(section.Payload[pos:], int(header.CropW), int(header.CropH), channels, pixelType, meta.BitsPerSample, pool)
		if err != nil {
			return nil, err
		}

		f := decoded
		if hasDelta {
			ref := refs.At(deltaIdx)
			if ref == nil {
				return nil, jxlerr.ErrDecodingFailed("delta frame references a missing reference frame")
			}
			f = undoDeltaFrame(decoded, ref)
		}
		f.Orientation = meta.Orientation

		if len(patches) > 0 {
			frame.ApplyPatches(f, refs, patches)
		}

		frames = append(frames, f)
		if header.SaveAsReference >= 0 {
			refs.Push(f)
		}
		if header.IsLast {
			break
		}
	}
	return frames, nil
}

// ParseImageHeader reads a codestream's leading metadata without
// decoding any frame payload.
func ParseImageHeader(data []byte) (ImageHeader, error) {
	r := bio.NewReader(data)
	if err := codestream.ReadSignature(r); err != nil {
		return ImageHeader{}, err
	}
	width, height, err := codestream.ReadSizeHeader(r)
	if err != nil {
		return ImageHeader{}, err
	}
	meta, err := codestream.ReadImageMetadata(r)
	if err != nil {
		return ImageHeader{}, err
	}
	color, err := codestream.ReadColorEncoding(r)
	if err != nil {
		return ImageHeader{}, err
	}
	return ImageHeader{
		Width: int(width), Height: int(height),
		Channels:      channelsFromMetadata(meta),
		PixelType:     frame.PixelType(meta.PixelTypeTag),
		BitsPerSample: meta.BitsPerSample,
		HasAlpha:      meta.HasAlpha,
		ExtraChannels: meta.ExtraChannels,
		Orientation:   meta.Orientation,
		Animation:     meta.Animation,
		TicksPerSecondNum: meta.TicksPerSecondNum,
		TicksPerSecondDen: meta.TicksPerSecondDen,
		LoopCount:         meta.LoopCount,
		ColorEncoding:     color,
	}, nil
}
