package orchestrator

import (
	"github.com/jxlgo/jxl/internal/box"
	"github.com/jxlgo/jxl/internal/jxlerr"
)

// ContainerExtras holds the optional boxes a caller may want wrapped
// around a raw codestream.
type ContainerExtras struct {
	Exif       []byte
	XML        []byte
	ICCProfile []byte
	Thumbnail  []byte
}

// IsContainer reports whether data begins with the ISOBMFF box
// signature ("JXL " at offset 4, per the container-vs-codestream
// probe) rather than the bare two-byte codestream signature.
func IsContainer(data []byte) bool {
	return len(data) >= 8 && string(data[4:8]) == "JXL "
}

// WrapContainer assembles a full JXL box container around a raw
// codestream: signature, ftyp, any optional boxes extras supplies,
// then the codestream itself in one "jxlc" box.
func WrapContainer(codestreamBytes []byte, extras ContainerExtras) []byte {
	var out []byte
	out = append(out, box.NewSignatureBox().Bytes()...)
	out = append(out, box.NewFileTypeBox().Bytes()...)
	if len(extras.ICCProfile) > 0 {
		out = append(out, box.NewColorBox(extras.ICCProfile).Bytes()...)
	}
	if len(extras.Exif) > 0 {
		out = append(out, box.NewExifBox(extras.Exif).Bytes()...)
	}
	if len(extras.XML) > 0 {
		out = append(out, box.NewXMLBox(extras.XML).Bytes()...)
	}
	if len(extras.Thumbnail) > 0 {
		out = append(out, box.NewThumbnailBox(extras.Thumbnail).Bytes()...)
	}
	out = append(out, box.NewCodestreamBox(codestreamBytes).Bytes()...)
	return out
}

// UnwrapContainer extracts the codestream and optional boxes from a
// full JXL container.
func UnwrapContainer(data []byte) ([]byte, ContainerExtras, error) {
	c, err := box.ParseContainer(data)
	if err != nil {
		return nil, ContainerExtras{}, jxlerr.Wrap(jxlerr.DecodingFailed, err, "parsing box container")
	}
	if len(c.Codestream) == 0 {
		return nil, ContainerExtras{}, jxlerr.ErrDecodingFailed("container has no codestream box")
	}
	return c.Codestream, ContainerExtras{
		Exif:       c.Exif,
		XML:        c.XML,
		ICCProfile: c.ICCProfile,
		Thumbnail:  c.Thumbnail,
	}, nil
}
