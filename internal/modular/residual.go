package modular

import (
	"github.com/jxlgo/jxl/internal/ans"
	"github.com/jxlgo/jxl/internal/bio"
)

// NumResidualContexts is the size of the coarse (|W-N|, |N-NW|)
// classifier used to pick an ANS context for a residual, keeping
// context selection causal: both differences are computed from
// already-decoded neighbors.
const NumResidualContexts = 9

// ResidualContext buckets the local gradient magnitude around
// (x,y) into one of NumResidualContexts states using only decoded
// neighbors, so encoder and decoder derive the same context index
// independently.
func ResidualContext(g *Grid, x, y int) int {
	w, n, nw := neighborValues(g, x, y)
	dwn := absI32(w - n)
	dnnw := absI32(n - nw)
	return bucket(dwn)*3 + bucket(dnnw)
}

func neighborValues(g *Grid, x, y int) (w, n, nw int32) {
	if x > 0 {
		w = g.at(x-1, y)
	}
	if y > 0 {
		n = g.at(x, y-1)
	}
	if x > 0 && y > 0 {
		nw = g.at(x-1, y-1)
	}
	return w, n, nw
}

func bucket(d int32) int {
	switch {
	case d <= 2:
		return 0
	case d <= 16:
		return 1
	default:
		return 2
	}
}

func absI32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

// EncodeSimple writes zigzag-folded residuals as a flat 32-bit-per-
// value stream with no entropy coding; used when useANS is false or a
// residual exceeds the ANS alphabet ceiling (32-bit source planes can
// fold to the full uint32 range, so nothing narrower is safe here).
func EncodeSimple(residuals []uint32) []byte {
	w := bio.NewWriter()
	for _, z := range residuals {
		w.Append(z, 32)
	}
	return w.Bytes()
}

// DecodeSimple is the inverse of EncodeSimple.
func DecodeSimple(data []byte, count int) ([]uint32, error) {
	r := bio.NewReader(data)
	out := make([]uint32, count)
	for i := range out {
		v, err := r.Read(32)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// EncodeANS entropy-codes zigzag residuals using one ANS context per
// classifier bucket, interleaved into a single byte stream. ctxOf(i)
// must return the same context the decoder will derive for sample i
// from already-reconstructed neighbors.
func EncodeANS(residuals []uint32, ctxOf func(i int) int, dists []*ans.Distribution) ([]byte, error) {
	mc := ans.NewMultiContext(dists)
	for i, z := range residuals {
		if err := mc.PutSymbol(ctxOf(i), int(z)); err != nil {
			return nil, err
		}
	}
	return mc.Finish(), nil
}

// DecodeANS decodes count residuals back out of an interleaved
// stream, deriving the context for sample i the same way the encoder
// did.
func DecodeANS(stream []byte, dists []*ans.Distribution, count int, ctxOf func(i int) int) ([]uint32, error) {
	dec, err := ans.NewMultiContextDecoder(dists, stream)
	if err != nil {
		return nil, err
	}
	out := make([]uint32, count)
	for i := 0; i < count; i++ {
		sym, err := dec.GetSymbol(ctxOf(i))
		if err != nil {
			return nil, err
		}
		out[i] = uint32(sym)
	}
	return out, nil
}
