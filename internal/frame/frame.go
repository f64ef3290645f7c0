package frame

import (
	"encoding/binary"
	"math"

	"github.com/jxlgo/jxl/internal/jxlerr"
)

// MaxDimension is the largest representable width or height (2^20;
// the codestream header itself can address up to 2^30, but
// the in-memory frame model caps lower to bound allocation size).
const MaxDimension = 1 << 20

// ExtraChannel is a caller-supplied plane beyond the base color
// channels: depth, thermal, a selection mask, and similar. It carries
// its own bit depth and is passed through untransformed by the core.
type ExtraChannel struct {
	Name          string
	BitsPerSample int
	Data          []byte
}

// AlphaMode distinguishes how an alpha extra channel composites.
type AlphaMode int

const (
	AlphaStraight AlphaMode = iota
	AlphaPremultiplied
)

// MedicalMetadata is passed through untransformed; the core never
// interprets it.
type MedicalMetadata struct {
	Modality   string
	PatientID  string
	StudyUID   string
	WindowCenter float64
	WindowWidth  float64
}

// Frame is the caller-visible image unit: a dense, channel-interleaved
// byte buffer addressed by (x, y, channel), plus the metadata the
// codestream header needs to round-trip it.
type Frame struct {
	Width, Height int
	Channels      int // 1, 3, or 4
	PixelType     PixelType
	BitsPerSample int

	Data []byte // len == Width*Height*Channels*PixelType.BytesPerSample()

	HasAlpha   bool
	AlphaMode  AlphaMode
	Extra      []ExtraChannel
	Medical    *MedicalMetadata
	Orientation int // 1..8

	ColorSpace int // see internal/codestream enumerated ColorSpace* constants
}

// New allocates a zeroed frame, validating dimensions, channel count
// and bit depth (InvalidImageDimensions / UnsupportedPixelFormat).
func New(width, height, channels int, pixelType PixelType, bitsPerSample int) (*Frame, error) {
	if width <= 0 || height <= 0 || width > MaxDimension || height > MaxDimension {
		return nil, jxlerr.ErrInvalidImageDimensions(width, height)
	}
	if channels != 1 && channels != 3 && channels != 4 {
		return nil, jxlerr.ErrUnsupportedPixelFormat("channel count must be 1, 3, or 4")
	}
	if bitsPerSample < 1 || bitsPerSample > 32 {
		return nil, jxlerr.ErrUnsupportedPixelFormat("bitsPerSample must be in 1..32")
	}
	f := &Frame{
		Width: width, Height: height, Channels: channels,
		PixelType: pixelType, BitsPerSample: bitsPerSample,
		Orientation: 1,
	}
	f.Data = make([]byte, width*height*channels*pixelType.BytesPerSample())
	return f, nil
}

// index returns the byte offset of sample (x, y, c).
func (f *Frame) index(x, y, c int) int {
	return (y*f.Width+x)*f.Channels*f.PixelType.BytesPerSample() + c*f.PixelType.BytesPerSample()
}

// At returns the sample at (x, y, c) widened to int32 (or truncated
// from float32 bit pattern for F32 frames, see AtFloat).
func (f *Frame) At(x, y, c int) int32 {
	off := f.index(x, y, c)
	switch f.PixelType {
	case U8:
		return int32(f.Data[off])
	case U16:
		return int32(binary.LittleEndian.Uint16(f.Data[off:]))
	case I16:
		return int32(int16(binary.LittleEndian.Uint16(f.Data[off:])))
	case F32:
		return int32(math.Float32frombits(binary.LittleEndian.Uint32(f.Data[off:])))
	default:
		return 0
	}
}

// Set writes v at (x, y, c), narrowing to the frame's pixel type.
func (f *Frame) Set(x, y, c int, v int32) {
	off := f.index(x, y, c)
	switch f.PixelType {
	case U8:
		f.Data[off] = byte(v)
	case U16:
		binary.LittleEndian.PutUint16(f.Data[off:], uint16(v))
	case I16:
		binary.LittleEndian.PutUint16(f.Data[off:], uint16(int16(v)))
	case F32:
		binary.LittleEndian.PutUint32(f.Data[off:], math.Float32bits(float32(v)))
	}
}

// AtBits returns the sample at (x, y, c) as its raw stored bit
// pattern widened to int32: for F32 frames this is
// math.Float32bits(v), not a truncated integer conversion, so it
// round-trips exactly through SetBits regardless of pixel type. The
// Modular pipeline uses this instead of At/Set so float
// frames stay bit-exact through lossless compression.
func (f *Frame) AtBits(x, y, c int) int32 {
	if f.PixelType == F32 {
		off := f.index(x, y, c)
		return int32(binary.LittleEndian.Uint32(f.Data[off:]))
	}
	return f.At(x, y, c)
}

// SetBits is the inverse of AtBits.
func (f *Frame) SetBits(x, y, c int, v int32) {
	if f.PixelType == F32 {
		off := f.index(x, y, c)
		binary.LittleEndian.PutUint32(f.Data[off:], uint32(v))
		return
	}
	f.Set(x, y, c, v)
}

// AtFloat returns the sample at (x, y, c) as float64, exact for F32
// frames and a widening conversion for integer frames.
func (f *Frame) AtFloat(x, y, c int) float64 {
	off := f.index(x, y, c)
	switch f.PixelType {
	case F32:
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(f.Data[off:])))
	default:
		return float64(f.At(x, y, c))
	}
}

// SetFloat writes v at (x, y, c), exact for F32 frames and rounding
// to the nearest integer for integer frames.
func (f *Frame) SetFloat(x, y, c int, v float64) {
	if f.PixelType == F32 {
		off := f.index(x, y, c)
		binary.LittleEndian.PutUint32(f.Data[off:], math.Float32bits(float32(v)))
		return
	}
	f.Set(x, y, c, int32(math.Round(v)))
}

// MaxValue returns the largest representable sample value for the
// frame's bit depth (unsigned types only; used for frame and patch
// similarity thresholds and VarDCT sample normalization).
func (f *Frame) MaxValue() int32 {
	if f.BitsPerSample >= 31 {
		return math.MaxInt32
	}
	return int32(1)<<uint(f.BitsPerSample) - 1
}

// Clone returns a deep copy of f.
func (f *Frame) Clone() *Frame {
	g := *f
	g.Data = append([]byte(nil), f.Data...)
	g.Extra = make([]ExtraChannel, len(f.Extra))
	for i, e := range f.Extra {
		g.Extra[i] = ExtraChannel{Name: e.Name, BitsPerSample: e.BitsPerSample, Data: append([]byte(nil), e.Data...)}
	}
	return &g
}

// NewExtraChannel allocates a zeroed extra channel plane sized by
// width*height*(bitsPerSample/8), rounding the byte width up.
func NewExtraChannel(name string, width, height, bitsPerSample int) ExtraChannel {
	bytesPerSample := (bitsPerSample + 7) / 8
	return ExtraChannel{Name: name, BitsPerSample: bitsPerSample, Data: make([]byte, width*height*bytesPerSample)}
}
