package vardct

import "github.com/jxlgo/jxl/internal/modular"

// Channel distinguishes luma from chroma for context selection.
type Channel int

const (
	Luma Channel = iota
	Chroma
)

// Band buckets a zigzag AC position into low/mid/high frequency.
type Band int

const (
	BandLow Band = iota
	BandMid
	BandHigh
)

// NumBlockContexts is the size of the (channel, band) context space
// used to select an ANS distribution for AC run/value tokens.
const NumBlockContexts = 2 * 3

func bandOf(zigzagPos int) Band {
	switch {
	case zigzagPos < 6:
		return BandLow
	case zigzagPos < 28:
		return BandMid
	default:
		return BandHigh
	}
}

// BlockContext returns the ANS context index for an AC coefficient at
// the given zigzag position on the given channel.
func BlockContext(ch Channel, zigzagPos int) int {
	return int(ch)*3 + int(bandOf(zigzagPos))
}

// ACToken is a (run, value) pair: run is the count of zero
// coefficients immediately preceding a nonzero one in zigzag order,
// value is the zigzag-folded nonzero residual.
type ACToken struct {
	Run   int
	Value uint32
}

// EncodeBlock emits run-length tokens for the 63 AC coefficients in
// zigzag order (scanned[0] is DC, ignored
// here; callers encode DC separately via dc.go).
func EncodeBlock(quantizedZigzag []int16) (acTokens []ACToken) {
	run := 0
	for i := 1; i < 64; i++ {
		v := quantizedZigzag[i]
		if v == 0 {
			run++
			continue
		}
		acTokens = append(acTokens, ACToken{Run: run, Value: modular.Zigzag(int32(v))})
		run = 0
	}
	if run > 0 {
		// Trailing zero run: encoded as an explicit end-of-block
		// marker (run, eobMarker) rather than an infinite tail.
		acTokens = append(acTokens, ACToken{Run: run, Value: eobMarker})
	}
	return acTokens
}

// eobMarker is an out-of-band value signalling "rest of block is
// zero"; legitimate zigzag-folded residual values never collide with
// it because callers cap per-coefficient residual magnitude well
// below this range during quantization.
const eobMarker = 1<<31 - 1

// DecodeBlock reconstructs the 64-entry zigzag-order quantized block
// (DC left as zero; callers overwrite index 0 from the DC stream)
// from AC tokens.
func DecodeBlock(acTokens []ACToken) []int16 {
	out := make([]int16, 64)
	pos := 1
	for _, tok := range acTokens {
		pos += tok.Run
		if tok.Value == eobMarker || pos >= 64 {
			break
		}
		out[pos] = int16(modular.UnZigzag(tok.Value))
		pos++
	}
	return out
}
