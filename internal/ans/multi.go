package ans

import "github.com/jxlgo/jxl/internal/jxlerr"

// MultiContext interleaves symbols from K independent distributions
// into a single rANS state machine and a single output byte stream,
// selecting a context per symbol the way the modular and VarDCT
// pipelines do (neighbor-derived context indices chosen by the
// caller). Unlike running K separate encoders, there is exactly one
// state variable x shared across every pushed symbol regardless of
// which context it belongs to; only the (freq, cum) pair looked up
// per step changes.
type MultiContext struct {
	dists []*Distribution
	ctxs  []int
	syms  []int
}

// NewMultiContext builds a multi-context encoder over the given
// per-context distributions. A context that never receives a symbol
// still contributes nothing to the stream; the decoder never queries
// it, so no placeholder distribution is required.
func NewMultiContext(dists []*Distribution) *MultiContext {
	return &MultiContext{dists: dists}
}

// PutSymbol queues sym under the distribution selected by ctx.
func (m *MultiContext) PutSymbol(ctx int, sym int) error {
	if ctx < 0 || ctx >= len(m.dists) {
		return jxlerr.ErrInvalidContext(ctx)
	}
	d := m.dists[ctx]
	if sym < 0 || sym >= d.N || d.Freq[sym] == 0 {
		return jxlerr.ErrSymbolOutOfRange(sym, d.N)
	}
	m.ctxs = append(m.ctxs, ctx)
	m.syms = append(m.syms, sym)
	return nil
}

// Finish runs the shared state machine over the queued (context,
// symbol) pairs in reverse order, producing one interleaved byte
// stream that the decoder reads forward given the same context
// sequence.
func (m *MultiContext) Finish() []byte {
	x := uint64(StateInit)
	var emitted []byte

	for i := len(m.syms) - 1; i >= 0; i-- {
		d := m.dists[m.ctxs[i]]
		sym := m.syms[i]
		freq := uint64(d.Freq[sym])
		cum := uint64(d.Cum[sym])

		upper := freq * ((StateLower / TabSize) << 8)
		for x >= upper {
			emitted = append(emitted, byte(x))
			x >>= 8
		}
		x = (x/freq)*TabSize + (x % freq) + cum
	}

	out := make([]byte, 0, len(emitted)+4)
	for i := len(emitted) - 1; i >= 0; i-- {
		out = append(out, emitted[i])
	}
	out = append(out, byte(x), byte(x>>8), byte(x>>16), byte(x>>24))
	return out
}

// MultiContextDecoder replays a MultiContext stream. The caller
// supplies the context for each GetSymbol call in the same order the
// symbols were originally pushed; contexts are derived causally from
// already-decoded output, so encoder and decoder agree on the
// sequence without it being serialized.
type MultiContextDecoder struct {
	dists []*Distribution
	data  []byte
	pos   int
	x     uint64
}

// NewMultiContextDecoder reads the final 4-byte state from the end of
// a single interleaved stream produced by MultiContext.Finish and
// prepares to consume renormalization bytes forward from the front.
func NewMultiContextDecoder(dists []*Distribution, stream []byte) (*MultiContextDecoder, error) {
	if len(stream) < 4 {
		return nil, jxlerr.ErrTruncatedData()
	}
	n := len(stream)
	state := uint64(stream[n-4]) | uint64(stream[n-3])<<8 | uint64(stream[n-2])<<16 | uint64(stream[n-1])<<24
	return &MultiContextDecoder{
		dists: dists,
		data:  stream[:n-4],
		x:     state,
	}, nil
}

// GetSymbol decodes the next symbol using context ctx's distribution.
func (m *MultiContextDecoder) GetSymbol(ctx int) (int, error) {
	if ctx < 0 || ctx >= len(m.dists) {
		return 0, jxlerr.ErrInvalidContext(ctx)
	}
	d := m.dists[ctx]
	slot := uint32(m.x % TabSize)
	sym, freq, cumBase := d.Lookup(slot)

	m.x = uint64(freq)*(m.x/TabSize) + uint64(m.x%TabSize) - uint64(cumBase)

	for m.x < StateLower {
		if m.pos >= len(m.data) {
			return 0, jxlerr.ErrTruncatedData()
		}
		m.x = (m.x << 8) | uint64(m.data[m.pos])
		m.pos++
	}

	return sym, nil
}
