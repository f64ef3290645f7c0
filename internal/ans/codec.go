package ans

import (
	"github.com/jxlgo/jxl/internal/jxlerr"
)

// Encoder accumulates symbols and emits a single rANS stream on
// Finish. Symbols must be pushed in the order they will be decoded;
// internally they are processed in reverse so the decoder can run
// forward, mirroring the table coder's trick of walking the input
// backwards to keep the state machine causal in the other direction.
type Encoder struct {
	dist *Distribution
	syms []int
}

// NewEncoder creates an encoder against a fixed distribution.
func NewEncoder(dist *Distribution) *Encoder {
	return &Encoder{dist: dist}
}

// PutSymbol queues a symbol for encoding. A symbol whose distribution
// entry has zero probability mass can never be produced by the state
// machine and is rejected the same as an out-of-range index.
func (e *Encoder) PutSymbol(sym int) error {
	if sym < 0 || sym >= e.dist.N || e.dist.Freq[sym] == 0 {
		return jxlerr.ErrSymbolOutOfRange(sym, e.dist.N)
	}
	e.syms = append(e.syms, sym)
	return nil
}

// Finish runs the state machine over the queued symbols in reverse
// order and returns the serialized byte stream: emitted renormalization
// bytes (in final forward order) followed by the 4-byte little-endian
// final state.
func (e *Encoder) Finish() []byte {
	x := uint64(StateInit)
	var emitted []byte

	for i := len(e.syms) - 1; i >= 0; i-- {
		sym := e.syms[i]
		freq := uint64(e.dist.Freq[sym])
		cum := uint64(e.dist.Cum[sym])

		// Keeps x in [StateLower, StateLower<<8), the interval the
		// decoder's byte-wise refill below StateLower restores.
		upper := freq * ((StateLower / TabSize) << 8)
		for x >= upper {
			emitted = append(emitted, byte(x))
			x >>= 8
		}
		x = (x/freq)*TabSize + (x % freq) + cum
	}

	// Reverse emitted bytes so the decoder, reading forward, replays
	// the renormalization steps in the same order they were produced
	// (the encoder ran the symbol list backwards).
	out := make([]byte, 0, len(emitted)+4)
	for i := len(emitted) - 1; i >= 0; i-- {
		out = append(out, emitted[i])
	}

	out = append(out,
		byte(x),
		byte(x>>8),
		byte(x>>16),
		byte(x>>24),
	)
	return out
}

// Decoder replays an rANS stream against a fixed distribution,
// yielding symbols in original (forward) order.
type Decoder struct {
	dist *Distribution
	data []byte
	pos  int
	x    uint64
}

// NewDecoder reads the final 4-byte state from the end of data and
// prepares to consume renormalization bytes forward from the front
// (Finish already reversed them into forward decode order).
func NewDecoder(dist *Distribution, data []byte) (*Decoder, error) {
	if len(data) < 4 {
		return nil, jxlerr.ErrTruncatedData()
	}
	n := len(data)
	state := uint64(data[n-4]) | uint64(data[n-3])<<8 | uint64(data[n-2])<<16 | uint64(data[n-1])<<24
	return &Decoder{
		dist: dist,
		data: data[:n-4],
		x:    state,
	}, nil
}

// GetSymbol decodes the next symbol.
func (d *Decoder) GetSymbol() (int, error) {
	slot := uint32(d.x % TabSize)
	sym, freq, cumBase := d.dist.Lookup(slot)

	d.x = uint64(freq)*(d.x/TabSize) + uint64(d.x%TabSize) - uint64(cumBase)

	for d.x < StateLower {
		if d.pos >= len(d.data) {
			return 0, jxlerr.ErrTruncatedData()
		}
		d.x = (d.x << 8) | uint64(d.data[d.pos])
		d.pos++
	}

	return sym, nil
}

// serialization modes for a Distribution's wire encoding.
const (
	modeUncompressed = 0
	modeRLE          = 1
)

// EncodeDistribution serializes a frequency table as a leading 2-byte
// little-endian alphabet size (large enough for the full 4096-entry
// maxAlphabetSize, unlike a single size byte), a mode byte (0
// uncompressed, 1 RLE), and the payload for whichever mode is
// smaller: uncompressed writes every frequency as 2 bytes
// little-endian; RLE writes (0x0000, run-length) pairs for runs of
// zero frequencies and the literal 2-byte value otherwise.
func EncodeDistribution(freq []uint16) []byte {
	plain := encodeUncompressed(freq)
	rle := encodeRLE(freq)
	if len(rle) < len(plain) {
		return rle
	}
	return plain
}

func encodeUncompressed(freq []uint16) []byte {
	out := make([]byte, 0, 3+2*len(freq))
	out = appendSizeAndMode(out, len(freq), modeUncompressed)
	for _, f := range freq {
		out = append(out, byte(f), byte(f>>8))
	}
	return out
}

func encodeRLE(freq []uint16) []byte {
	out := appendSizeAndMode(nil, len(freq), modeRLE)
	i := 0
	for i < len(freq) {
		if freq[i] == 0 {
			run := 0
			for i < len(freq) && freq[i] == 0 {
				run++
				i++
			}
			out = append(out, 0, 0, byte(run), byte(run>>8))
		} else {
			f := freq[i]
			out = append(out, byte(f), byte(f>>8))
			i++
		}
	}
	return out
}

func appendSizeAndMode(out []byte, n int, mode byte) []byte {
	return append(out, byte(n), byte(n>>8), mode)
}

// DecodeDistribution parses a distribution serialized by
// EncodeDistribution.
func DecodeDistribution(data []byte) ([]uint16, error) {
	if len(data) < 3 {
		return nil, jxlerr.ErrTruncatedData()
	}
	n := int(data[0]) | int(data[1])<<8
	mode := data[2]
	rest := data[3:]

	freq := make([]uint16, n)
	if mode == modeUncompressed {
		if len(rest) < 2*n {
			return nil, jxlerr.ErrTruncatedData()
		}
		for i := range freq {
			freq[i] = uint16(rest[2*i]) | uint16(rest[2*i+1])<<8
		}
		return freq, nil
	}
	if mode != modeRLE {
		return nil, jxlerr.ErrInvalidDistributionSum(TabSize, -1)
	}

	i := 0
	pos := 0
	for i < n {
		if pos+2 > len(rest) {
			return nil, jxlerr.ErrTruncatedData()
		}
		lo, hi := rest[pos], rest[pos+1]
		pos += 2
		if lo == 0 && hi == 0 {
			if pos+2 > len(rest) {
				return nil, jxlerr.ErrTruncatedData()
			}
			run := int(rest[pos]) | int(rest[pos+1])<<8
			pos += 2
			i += run
			continue
		}
		freq[i] = uint16(lo) | uint16(hi)<<8
		i++
	}
	return freq, nil
}
