package pool

import (
	"sync"

	"github.com/jxlgo/jxl/internal/jxllog"
)

// SharedEncodingPools is the process-wide set of recyclable buffer
// pools, one per element type the pipelines churn through: float64
// DCT/quantization scratch, byte bitstream scratch, int32 Modular
// plane scratch. It is initialized lazily and every mutation is
// guarded by the owning EncoderBufferPool's own mutex; no
// package-level mutable state exists beyond this single guarded
// singleton.
type SharedEncodingPools struct {
	Float *EncoderBufferPool[float64]
	Byte  *EncoderBufferPool[byte]
	Int32 *EncoderBufferPool[int32]
}

const defaultMaxPoolSize = 64

var (
	sharedOnce sync.Once
	shared     *SharedEncodingPools
)

// Shared returns the process-wide SharedEncodingPools, constructing it
// on first use.
func Shared() *SharedEncodingPools {
	sharedOnce.Do(func() {
		shared = &SharedEncodingPools{
			Float: NewEncoderBufferPool[float64](defaultMaxPoolSize),
			Byte:  NewEncoderBufferPool[byte](defaultMaxPoolSize),
			Int32: NewEncoderBufferPool[int32](defaultMaxPoolSize),
		}
		jxllog.L().Debugw("shared encoding pools created", "maxPoolSize", defaultMaxPoolSize)
	})
	return shared
}

// DrainAll releases every buffer held by the shared pools and resets
// the singleton so a subsequent Shared() call rebuilds from scratch.
// Intended for process teardown or test isolation.
func DrainAll() {
	if shared != nil {
		jxllog.L().Debugw("shared encoding pools drained")
	}
	sharedOnce = sync.Once{}
	shared = nil
}
