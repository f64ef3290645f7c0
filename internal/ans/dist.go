// Package ans implements an asymmetric numeral systems entropy coder
// with a 4096-slot normalized distribution table: a small fixed-size
// table of transition data, hot state kept in scalar fields rather
// than nested structs.
package ans

import (
	"github.com/jxlgo/jxl/internal/jxlerr"
)

const (
	LogTabSize      = 12
	TabSize         = 1 << LogTabSize // 4096
	StateLower      = 1 << 16
	StateUpper      = 1 << 31
	StateInit       = StateLower
	MaxAlphabetSize = 4096
)

// Distribution is a normalized ANS entropy model over an alphabet of
// size N. Freq sums to TabSize; Cum is the prefix sum with
// Cum[N] == TabSize; LUT maps a table slot directly to its symbol,
// frequency and cumulative base so decode is a single table lookup.
type Distribution struct {
	N    int
	Freq []uint16 // len N, each a 12-bit unsigned count
	Cum  []uint32 // len N+1, Cum[N] == TabSize

	lutSym []uint16 // len TabSize
	lutFrq []uint16
	lutCum []uint32
}

// NewDistribution builds a normalized Distribution from raw
// (unnormalized) frequency counts. raw must have at least one nonzero
// entry.
func NewDistribution(raw []uint32) (*Distribution, error) {
	n := len(raw)
	if n == 0 {
		return nil, jxlerr.ErrEmptyDistribution()
	}
	if n > MaxAlphabetSize {
		return nil, jxlerr.ErrEmptyDistribution()
	}

	var total uint64
	for _, v := range raw {
		total += uint64(v)
	}
	if total == 0 {
		return nil, jxlerr.ErrEmptyDistribution()
	}

	freq := make([]uint16, n)
	var sum int64
	for i, v := range raw {
		if v == 0 {
			continue
		}
		f := int64(v) * TabSize / int64(total)
		if f < 1 {
			f = 1
		}
		freq[i] = uint16(f)
		sum += f
	}

	driftCorrect(freq, raw, sum)

	return finalizeDistribution(freq)
}

// driftCorrect adjusts freq in place, one unit at a time, until the
// sum is exactly TabSize, preserving freq[i] >= 1 for any raw[i] > 0
// and freq[i] == 0 for raw[i] == 0.
func driftCorrect(freq []uint16, raw []uint32, sum int64) {
	delta := sum - TabSize
	for delta != 0 {
		if delta > 0 {
			// Find the largest entry we can lower by one without
			// pushing a nonzero-raw symbol to zero.
			best := -1
			for i, f := range freq {
				if raw[i] == 0 {
					continue
				}
				if f <= 1 {
					continue
				}
				if best == -1 || f > freq[best] {
					best = i
				}
			}
			if best == -1 {
				break
			}
			freq[best]--
			delta--
		} else {
			best := -1
			for i, f := range freq {
				if raw[i] == 0 {
					continue
				}
				if best == -1 || f > freq[best] {
					best = i
				}
			}
			if best == -1 {
				break
			}
			freq[best]++
			delta++
		}
	}
}

func finalizeDistribution(freq []uint16) (*Distribution, error) {
	n := len(freq)
	d := &Distribution{N: n, Freq: freq, Cum: make([]uint32, n+1)}

	var cum uint32
	for i, f := range freq {
		d.Cum[i] = cum
		cum += uint32(f)
	}
	d.Cum[n] = cum
	if cum != TabSize {
		return nil, jxlerr.ErrInvalidDistributionSum(TabSize, int(cum))
	}

	d.buildLUT()
	return d, nil
}

func (d *Distribution) buildLUT() {
	d.lutSym = make([]uint16, TabSize)
	d.lutFrq = make([]uint16, TabSize)
	d.lutCum = make([]uint32, TabSize)
	for sym := 0; sym < d.N; sym++ {
		base := d.Cum[sym]
		f := d.Freq[sym]
		for slot := uint32(0); slot < uint32(f); slot++ {
			idx := base + slot
			d.lutSym[idx] = uint16(sym)
			d.lutFrq[idx] = f
			d.lutCum[idx] = base
		}
	}
}

// Lookup returns the (symbol, freq, cumBase) triple for a table slot
// in [0, TabSize).
func (d *Distribution) Lookup(slot uint32) (sym int, freq uint32, cumBase uint32) {
	return int(d.lutSym[slot]), uint32(d.lutFrq[slot]), d.lutCum[slot]
}
