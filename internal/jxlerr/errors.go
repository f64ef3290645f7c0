// Package jxlerr implements the tagged error taxonomy shared by every
// layer of the codec. Leaf packages construct a *CodecError directly;
// composite layers (frame orchestrator, container) pass it through
// unchanged via %w wrapping.
package jxlerr

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind tags the condition that produced a CodecError.
type Kind int

const (
	InvalidImageDimensions Kind = iota
	InvalidConfiguration
	UnsupportedPixelFormat
	InvalidDimensions
	InvalidBitDepth
	InvalidOrientation
	InvalidFrameHeader
	EmptyDistribution
	AllZeroFrequencies
	SymbolOutOfRange
	InvalidDistributionSum
	TruncatedData
	TruncatedBitstream
	DecodingFailed
	InvalidContext
	InsufficientMemory
	ROIOutOfBounds
)

func (k Kind) String() string {
	switch k {
	case InvalidImageDimensions:
		return "InvalidImageDimensions"
	case InvalidConfiguration:
		return "InvalidConfiguration"
	case UnsupportedPixelFormat:
		return "UnsupportedPixelFormat"
	case InvalidDimensions:
		return "InvalidDimensions"
	case InvalidBitDepth:
		return "InvalidBitDepth"
	case InvalidOrientation:
		return "InvalidOrientation"
	case InvalidFrameHeader:
		return "InvalidFrameHeader"
	case EmptyDistribution:
		return "EmptyDistribution"
	case AllZeroFrequencies:
		return "AllZeroFrequencies"
	case SymbolOutOfRange:
		return "SymbolOutOfRange"
	case InvalidDistributionSum:
		return "InvalidDistributionSum"
	case TruncatedData:
		return "TruncatedData"
	case TruncatedBitstream:
		return "TruncatedBitstream"
	case DecodingFailed:
		return "DecodingFailed"
	case InvalidContext:
		return "InvalidContext"
	case InsufficientMemory:
		return "InsufficientMemory"
	case ROIOutOfBounds:
		return "ROIOutOfBounds"
	default:
		return "Unknown"
	}
}

// CodecError is the value every codec-core failure is reported as.
// It is never thrown as a panic and the core never logs it; callers
// inspect Kind or match on Error()'s substrings.
type CodecError struct {
	Kind Kind
	Msg  string
	Err  error // wrapped cause, if any
}

func (e *CodecError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *CodecError) Unwrap() error { return e.Err }

// Description returns the human-readable, substring-testable message.
func (e *CodecError) Description() string { return e.Msg }

func New(kind Kind, msg string) *CodecError {
	return &CodecError{Kind: kind, Msg: msg}
}

// Wrap tags err with kind and msg, attaching a stack trace via
// errors.Wrap so a DecodingFailed surfaced from deep inside
// container/codestream parsing still shows its origin.
func Wrap(kind Kind, err error, msg string) *CodecError {
	return &CodecError{Kind: kind, Msg: msg, Err: errors.Wrap(err, msg)}
}

func Newf(kind Kind, format string, args ...interface{}) *CodecError {
	return &CodecError{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Convenience constructors naming the failing condition.

func ErrInvalidImageDimensions(w, h int) *CodecError {
	return Newf(InvalidImageDimensions, "invalid image dimensions %dx%d", w, h)
}

func ErrInvalidConfiguration(msg string) *CodecError {
	return Newf(InvalidConfiguration, "invalid configuration: %s", msg)
}

func ErrUnsupportedPixelFormat(msg string) *CodecError {
	return Newf(UnsupportedPixelFormat, "unsupported pixel format: %s", msg)
}

func ErrInvalidDimensions(w, h int) *CodecError {
	return Newf(InvalidDimensions, "invalid dimensions %dx%d", w, h)
}

func ErrInvalidBitDepth(b int) *CodecError {
	return Newf(InvalidBitDepth, "invalid bit depth %d", b)
}

func ErrInvalidOrientation(o int) *CodecError {
	return Newf(InvalidOrientation, "invalid orientation %d", o)
}

func ErrInvalidFrameHeader(msg string) *CodecError {
	return Newf(InvalidFrameHeader, "invalid frame header: %s", msg)
}

func ErrEmptyDistribution() *CodecError {
	return New(EmptyDistribution, "distribution built from empty or all-zero input")
}

func ErrAllZeroFrequencies() *CodecError {
	return New(AllZeroFrequencies, "all frequencies are zero")
}

func ErrSymbolOutOfRange(sym, n int) *CodecError {
	return Newf(SymbolOutOfRange, "symbol %d out of range [0,%d)", sym, n)
}

func ErrInvalidDistributionSum(expected, got int) *CodecError {
	return Newf(InvalidDistributionSum, "distribution sum %d, expected %d", got, expected)
}

func ErrTruncatedData() *CodecError {
	return New(TruncatedData, "truncated data")
}

func ErrTruncatedBitstream() *CodecError {
	return New(TruncatedBitstream, "truncated bitstream")
}

func ErrDecodingFailed(msg string) *CodecError {
	return Newf(DecodingFailed, "decoding failed: %s", msg)
}

func ErrInvalidContext(i int) *CodecError {
	return Newf(InvalidContext, "invalid context index %d", i)
}

func ErrInsufficientMemory() *CodecError {
	return New(InsufficientMemory, "insufficient memory")
}

func ErrROIOutOfBounds() *CodecError {
	return New(ROIOutOfBounds, "region of interest extends past frame edge")
}
