package codestream

import (
	"github.com/jxlgo/jxl/internal/bio"
	"github.com/jxlgo/jxl/internal/jxlerr"
)

// Enumerated color encoding fields. The numeric values are arbitrary
// but stable within this codec; they are not required to match any
// external registry since conformance to the full ISO enumeration is
// explicitly out of scope.
const (
	ColorSpaceRGB = iota
	ColorSpaceGray
	ColorSpaceXYB
	ColorSpaceUnknown
)

const (
	WhitePointD65 = iota
	WhitePointCustom
	WhitePointE
	WhitePointDCI
)

const (
	PrimariesSRGB = iota
	PrimariesCustom
	Primaries2100
	PrimariesP3
)

const (
	TransferFunctionSRGB = iota
	TransferFunctionLinear
	TransferFunctionPQ
	TransferFunctionHLG
)

const (
	RenderingIntentPerceptual = iota
	RenderingIntentRelative
	RenderingIntentSaturation
	RenderingIntentAbsolute
)

// ColorEncoding is either an embedded ICC profile or a small set of
// enumerated tags. The "all default" fast path is a bare sRGB
// enumerated encoding.
type ColorEncoding struct {
	UseICC          bool
	ICCProfile      []byte
	ColorSpace      int
	WhitePoint      int
	Primaries       int
	TransferFunc    int
	RenderingIntent int
}

// DefaultColorEncoding is the value assumed when the "all default"
// bit is set: enumerated sRGB with a relative rendering intent.
func DefaultColorEncoding() ColorEncoding {
	return ColorEncoding{
		ColorSpace:      ColorSpaceRGB,
		WhitePoint:      WhitePointD65,
		Primaries:       PrimariesSRGB,
		TransferFunc:    TransferFunctionSRGB,
		RenderingIntent: RenderingIntentRelative,
	}
}

func (c ColorEncoding) isDefault() bool {
	if c.UseICC {
		return false
	}
	d := DefaultColorEncoding()
	return c.ColorSpace == d.ColorSpace && c.WhitePoint == d.WhitePoint &&
		c.Primaries == d.Primaries && c.TransferFunc == d.TransferFunc &&
		c.RenderingIntent == d.RenderingIntent
}

// WriteColorEncoding serializes c, using the one-bit fast path when
// c equals DefaultColorEncoding().
func WriteColorEncoding(w *bio.Writer, c ColorEncoding) error {
	if c.isDefault() {
		w.Append(1, 1)
		return nil
	}
	w.Append(0, 1)

	w.Append(boolBit(c.UseICC), 1)
	if c.UseICC {
		w.Append(uint32(len(c.ICCProfile)), 32)
		for _, b := range c.ICCProfile {
			w.AppendByte(b)
		}
		return nil
	}

	w.Append(uint32(c.ColorSpace), 2)
	w.Append(uint32(c.WhitePoint), 2)
	w.Append(uint32(c.Primaries), 2)
	w.Append(uint32(c.TransferFunc), 2)
	w.Append(uint32(c.RenderingIntent), 2)
	return nil
}

// ReadColorEncoding is the inverse of WriteColorEncoding.
func ReadColorEncoding(r *bio.Reader) (ColorEncoding, error) {
	allDefault, err := r.ReadBool()
	if err != nil {
		return ColorEncoding{}, err
	}
	if allDefault {
		return DefaultColorEncoding(), nil
	}

	useICC, err := r.ReadBool()
	if err != nil {
		return ColorEncoding{}, err
	}
	if useICC {
		n, err := r.Read(32)
		if err != nil {
			return ColorEncoding{}, err
		}
		icc := make([]byte, n)
		for i := range icc {
			b, err := r.Read(8)
			if err != nil {
				return ColorEncoding{}, err
			}
			icc[i] = byte(b)
		}
		return ColorEncoding{UseICC: true, ICCProfile: icc}, nil
	}

	var c ColorEncoding
	fields := []*int{&c.ColorSpace, &c.WhitePoint, &c.Primaries, &c.TransferFunc, &c.RenderingIntent}
	for _, f := range fields {
		v, err := r.Read(2)
		if err != nil {
			return ColorEncoding{}, err
		}
		*f = int(v)
	}
	if c.ColorSpace > ColorSpaceUnknown {
		return ColorEncoding{}, jxlerr.ErrDecodingFailed("invalid color space tag")
	}
	return c, nil
}
