package jxl

import (
	"github.com/jxlgo/jxl/internal/orchestrator"
)

// MIMEType and FileExtension identify JPEG XL files to callers that
// route by content type.
const (
	MIMEType      = "image/jxl"
	FileExtension = "jxl"
)

// ImageHeader is the result of ParseImageHeader: the codestream's
// leading metadata, read without decoding any frame's pixel data.
type ImageHeader = orchestrator.ImageHeader

func splitContainer(data []byte) ([]byte, ContainerExtras, error) {
	if !orchestrator.IsContainer(data) {
		return data, ContainerExtras{}, nil
	}
	codestreamBytes, extras, err := orchestrator.UnwrapContainer(data)
	if err != nil {
		return nil, ContainerExtras{}, err
	}
	return codestreamBytes, ContainerExtras(extras), nil
}

// Decode parses either a raw codestream or a box container and
// returns its first (or only) frame.
// Unlike Encode, Decode takes no options: the pipeline choice and
// every setting that affects reconstruction (VarDCT distance,
// adaptive quantization, ROI, reference-frame pool sizing) is written
// into the codestream by Encode and read back here. Use DecodeSequence
// for animations or reference-frame sequences where every frame
// matters.
func Decode(data []byte) (*Frame, error) {
	frames, err := DecodeSequence(data)
	if err != nil {
		return nil, err
	}
	return frames[0], nil
}

// DecodeSequence parses either a raw codestream or a box container
// and reconstructs every frame in order. The signature probe
// distinguishes a bare codestream
// (leading 0xFF 0x0A) from a box container (leading "00 00 00 0C
// \"JXL \"").
func DecodeSequence(data []byte) ([]*Frame, error) {
	codestreamBytes, _, err := splitContainer(data)
	if err != nil {
		return nil, err
	}
	inner, err := orchestrator.DecodeSequence(codestreamBytes)
	if err != nil {
		return nil, err
	}
	frames := make([]*Frame, len(inner))
	for i, f := range inner {
		frames[i] = &Frame{inner: f}
	}
	return frames, nil
}

// ParseImageHeader reads a codestream or container's leading metadata
// without decoding any frame's pixel data.
func ParseImageHeader(data []byte) (ImageHeader, error) {
	codestreamBytes, _, err := splitContainer(data)
	if err != nil {
		return ImageHeader{}, err
	}
	return orchestrator.ParseImageHeader(codestreamBytes)
}
