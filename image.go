package jxl

import (
	"github.com/jxlgo/jxl/internal/codestream"
	"github.com/jxlgo/jxl/internal/frame"
	"github.com/jxlgo/jxl/internal/jxlerr"
)

// PixelType tags which sample representation a Frame's Data buffer
// holds.
type PixelType = frame.PixelType

const (
	U8  = frame.U8
	U16 = frame.U16
	I16 = frame.I16
	F32 = frame.F32
)

// AlphaMode distinguishes straight from premultiplied alpha.
type AlphaMode = frame.AlphaMode

const (
	AlphaStraight      = frame.AlphaStraight
	AlphaPremultiplied = frame.AlphaPremultiplied
)

// ExtraChannel is a caller-supplied plane beyond the base color
// channels (depth, thermal, a selection mask, ...).
type ExtraChannel = frame.ExtraChannel

// MedicalMetadata passes through untransformed; the core never
// interprets it.
type MedicalMetadata = frame.MedicalMetadata

// ROI is a region of interest that boosts VarDCT quality within a
// rectangle.
type ROI = frame.ROI

// Frame is the caller-visible image unit: a dense,
// channel-interleaved pixel buffer plus the metadata needed to
// round-trip it through the codestream.
type Frame struct {
	inner *frame.Frame
}

// NewFrame allocates a zeroed frame of the given geometry and pixel
// representation.
func NewFrame(width, height, channels int, pixelType PixelType, bitsPerSample int) (*Frame, error) {
	f, err := frame.New(width, height, channels, pixelType, bitsPerSample)
	if err != nil {
		return nil, err
	}
	return &Frame{inner: f}, nil
}

func (f *Frame) Width() int         { return f.inner.Width }
func (f *Frame) Height() int        { return f.inner.Height }
func (f *Frame) Channels() int      { return f.inner.Channels }
func (f *Frame) PixelType() PixelType { return f.inner.PixelType }
func (f *Frame) BitsPerSample() int { return f.inner.BitsPerSample }

// At returns the sample at (x, y, channel) widened to int32.
func (f *Frame) At(x, y, channel int) int32 { return f.inner.At(x, y, channel) }

// Set writes the sample at (x, y, channel).
func (f *Frame) Set(x, y, channel int, v int32) { f.inner.Set(x, y, channel, v) }

// AtFloat/SetFloat address F32 frames without a lossy int32 round trip.
func (f *Frame) AtFloat(x, y, channel int) float64    { return f.inner.AtFloat(x, y, channel) }
func (f *Frame) SetFloat(x, y, channel int, v float64) { f.inner.SetFloat(x, y, channel, v) }

// Data exposes the raw channel-interleaved buffer directly.
func (f *Frame) Data() []byte { return f.inner.Data }

// SetAlpha marks the frame as carrying an alpha channel and its
// blending mode. The caller is still responsible for storing alpha
// samples in the last channel of a 4-channel frame.
func (f *Frame) SetAlpha(mode AlphaMode) {
	f.inner.HasAlpha = true
	f.inner.AlphaMode = mode
}

// SetOrientation records the EXIF orientation tag (1..8).
func (f *Frame) SetOrientation(o int) error {
	if o < 1 || o > 8 {
		return jxlerr.ErrInvalidOrientation(o)
	}
	f.inner.Orientation = o
	return nil
}

// AddExtraChannel appends a caller-populated extra channel plane.
func (f *Frame) AddExtraChannel(e ExtraChannel) {
	f.inner.Extra = append(f.inner.Extra, e)
}

// SetMedicalMetadata attaches pass-through medical metadata.
func (f *Frame) SetMedicalMetadata(m *MedicalMetadata) {
	f.inner.Medical = m
}

// SetColorSpace records the enumerated color space tag (see
// ColorSpace* constants) used when no ICC profile is supplied.
func (f *Frame) SetColorSpace(cs int) {
	f.inner.ColorSpace = cs
}

// Clone returns a deep copy of f.
func (f *Frame) Clone() *Frame {
	return &Frame{inner: f.inner.Clone()}
}

// Re-exported enumerated color encoding tags.
const (
	ColorSpaceRGB     = codestream.ColorSpaceRGB
	ColorSpaceGray    = codestream.ColorSpaceGray
	ColorSpaceXYB     = codestream.ColorSpaceXYB
	ColorSpaceUnknown = codestream.ColorSpaceUnknown
)
