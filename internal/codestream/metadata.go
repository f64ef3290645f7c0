package codestream

import (
	"github.com/jxlgo/jxl/internal/bio"
	"github.com/jxlgo/jxl/internal/jxlerr"
)

// bitsPerSampleTable maps a 3-bit selector to a common bit depth;
// selector 7 means "custom", followed by a raw 6-bit (value-1) field.
var bitsPerSampleTable = [7]int{8, 10, 12, 16, 32, 0, 0}

// ImageMetadata holds the non-geometric per-image fields. Defaults
// match what a conforming all-default fast path implies.
type ImageMetadata struct {
	BitsPerSample    int
	Grayscale        bool
	PixelTypeTag     int // frame.PixelType: 0=U8, 1=U16, 2=I16, 3=F32
	HasAlpha         bool
	ExtraChannels    int
	XYBEncoded       bool
	Orientation      int // 1..8
	Animation        bool
	TicksPerSecondNum uint32
	TicksPerSecondDen uint32
	LoopCount        uint32

	ReferenceFramesEnabled bool
	MaxReferenceFrames     int // 0..31
}

// DefaultImageMetadata is the value assumed when the "all default"
// bit is set.
func DefaultImageMetadata() ImageMetadata {
	return ImageMetadata{
		BitsPerSample: 8,
		Orientation:   1,
	}
}

func (m ImageMetadata) isDefault() bool {
	return m == DefaultImageMetadata()
}

// WriteImageMetadata serializes m, using the single-bit fast path
// when m equals DefaultImageMetadata().
func WriteImageMetadata(w *bio.Writer, m ImageMetadata) error {
	if m.isDefault() {
		w.Append(1, 1)
		return nil
	}
	w.Append(0, 1)

	if m.Orientation < 1 || m.Orientation > 8 {
		return jxlerr.ErrInvalidOrientation(m.Orientation)
	}

	sel, custom := bitsPerSampleSelector(m.BitsPerSample)
	w.Append(uint32(sel), 3)
	if sel == 7 {
		if m.BitsPerSample < 1 || m.BitsPerSample > 32 {
			return jxlerr.ErrInvalidBitDepth(m.BitsPerSample)
		}
		w.Append(uint32(custom-1), 6)
	}

	w.Append(boolBit(m.Grayscale), 1)
	w.Append(uint32(m.PixelTypeTag), 2)
	w.Append(boolBit(m.HasAlpha), 1)
	w.Append(uint32(m.ExtraChannels), 8)
	w.Append(boolBit(m.XYBEncoded), 1)
	w.Append(uint32(m.Orientation-1), 3)

	w.Append(boolBit(m.Animation), 1)
	if m.Animation {
		w.Append(m.TicksPerSecondNum, 32)
		w.Append(m.TicksPerSecondDen, 32)
		w.Append(m.LoopCount, 32)
	}

	w.Append(boolBit(m.ReferenceFramesEnabled), 1)
	if m.ReferenceFramesEnabled {
		w.Append(uint32(m.MaxReferenceFrames), 5)
	}
	return nil
}

// ReadImageMetadata is the inverse of WriteImageMetadata.
func ReadImageMetadata(r *bio.Reader) (ImageMetadata, error) {
	allDefault, err := r.ReadBool()
	if err != nil {
		return ImageMetadata{}, err
	}
	if allDefault {
		return DefaultImageMetadata(), nil
	}

	var m ImageMetadata
	sel, err := r.Read(3)
	if err != nil {
		return m, err
	}
	if sel == 7 {
		v, err := r.Read(6)
		if err != nil {
			return m, err
		}
		m.BitsPerSample = int(v) + 1
	} else if int(sel) < len(bitsPerSampleTable) {
		m.BitsPerSample = bitsPerSampleTable[sel]
	} else {
		return m, jxlerr.ErrDecodingFailed("invalid bits-per-sample selector")
	}
	if m.BitsPerSample < 1 || m.BitsPerSample > 32 {
		return m, jxlerr.ErrInvalidBitDepth(m.BitsPerSample)
	}

	gray, err := r.ReadBool()
	if err != nil {
		return m, err
	}
	m.Grayscale = gray

	tag, err := r.Read(2)
	if err != nil {
		return m, err
	}
	m.PixelTypeTag = int(tag)

	alpha, err := r.ReadBool()
	if err != nil {
		return m, err
	}
	m.HasAlpha = alpha

	extra, err := r.Read(8)
	if err != nil {
		return m, err
	}
	m.ExtraChannels = int(extra)

	xyb, err := r.ReadBool()
	if err != nil {
		return m, err
	}
	m.XYBEncoded = xyb

	orient, err := r.Read(3)
	if err != nil {
		return m, err
	}
	m.Orientation = int(orient) + 1

	anim, err := r.ReadBool()
	if err != nil {
		return m, err
	}
	m.Animation = anim
	if anim {
		if m.TicksPerSecondNum, err = r.Read(32); err != nil {
			return m, err
		}
		if m.TicksPerSecondDen, err = r.Read(32); err != nil {
			return m, err
		}
		if m.LoopCount, err = r.Read(32); err != nil {
			return m, err
		}
	}

	refEnabled, err := r.ReadBool()
	if err != nil {
		return m, err
	}
	m.ReferenceFramesEnabled = refEnabled
	if refEnabled {
		maxRefs, err := r.Read(5)
		if err != nil {
			return m, err
		}
		m.MaxReferenceFrames = int(maxRefs)
	}
	return m, nil
}

func bitsPerSampleSelector(bits int) (sel int, custom int) {
	for i, b := range bitsPerSampleTable {
		if b == bits && i != 5 && i != 6 {
			return i, 0
		}
	}
	return 7, bits
}

func boolBit(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}
