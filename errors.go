package jxl

import "github.com/jxlgo/jxl/internal/jxlerr"

// CodecError is the value every codec-core failure is reported as.
// Callers can type-assert to it or use errors.As.
type CodecError = jxlerr.CodecError

// Error kind constants re-exported from the internal taxonomy so
// callers can match on err.Kind without importing an internal
// package.
const (
	InvalidImageDimensions  = jxlerr.InvalidImageDimensions
	InvalidConfiguration    = jxlerr.InvalidConfiguration
	UnsupportedPixelFormat  = jxlerr.UnsupportedPixelFormat
	InvalidDimensions       = jxlerr.InvalidDimensions
	InvalidBitDepth         = jxlerr.InvalidBitDepth
	InvalidOrientation      = jxlerr.InvalidOrientation
	InvalidFrameHeader      = jxlerr.InvalidFrameHeader
	EmptyDistribution       = jxlerr.EmptyDistribution
	AllZeroFrequencies      = jxlerr.AllZeroFrequencies
	SymbolOutOfRange        = jxlerr.SymbolOutOfRange
	InvalidDistributionSum  = jxlerr.InvalidDistributionSum
	TruncatedData           = jxlerr.TruncatedData
	TruncatedBitstream      = jxlerr.TruncatedBitstream
	DecodingFailed          = jxlerr.DecodingFailed
	InvalidContext          = jxlerr.InvalidContext
	InsufficientMemory      = jxlerr.InsufficientMemory
	ROIOutOfBounds          = jxlerr.ROIOutOfBounds
)
