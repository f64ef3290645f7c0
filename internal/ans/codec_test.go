package ans

import (
	"math/rand"
	"testing"

	"github.com/jxlgo/jxl/internal/jxlerr"
)

func TestEncodeEmptySymbolListProducesFourBytes(t *testing.T) {
	d, err := NewDistribution([]uint32{100})
	if err != nil {
		t.Fatal(err)
	}
	e := NewEncoder(d)
	out := e.Finish()
	if len(out) != 4 {
		t.Fatalf("len(out) = %d, want 4", len(out))
	}
}

func TestPutSymbolZeroFrequencyRejected(t *testing.T) {
	d, err := NewDistribution([]uint32{100, 0, 100})
	if err != nil {
		t.Fatal(err)
	}
	e := NewEncoder(d)
	if err := e.PutSymbol(1); err == nil {
		t.Fatal("expected SymbolOutOfRange for zero-frequency symbol")
	}
}

func TestPutSymbolOutOfRangeRejected(t *testing.T) {
	d, err := NewDistribution([]uint32{100, 100})
	if err != nil {
		t.Fatal(err)
	}
	e := NewEncoder(d)
	if err := e.PutSymbol(2); err == nil {
		t.Fatal("expected SymbolOutOfRange for index past alphabet")
	}
	if err := e.PutSymbol(-1); err == nil {
		t.Fatal("expected SymbolOutOfRange for negative index")
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	d, err := NewDistribution([]uint32{50, 20, 200, 5, 1})
	if err != nil {
		t.Fatal(err)
	}

	syms := []int{0, 2, 2, 1, 4, 0, 3, 2, 2, 2, 0, 1}
	e := NewEncoder(d)
	for _, s := range syms {
		if err := e.PutSymbol(s); err != nil {
			t.Fatal(err)
		}
	}
	stream := e.Finish()

	dec, err := NewDecoder(d, stream)
	if err != nil {
		t.Fatal(err)
	}
	for i, want := range syms {
		got, err := dec.GetSymbol()
		if err != nil {
			t.Fatalf("symbol %d: %v", i, err)
		}
		if got != want {
			t.Fatalf("symbol %d: got %d, want %d", i, got, want)
		}
	}
}

func TestEncodeDecodeRandomRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	raw := make([]uint32, 16)
	for i := range raw {
		raw[i] = uint32(rng.Intn(500) + 1)
	}
	d, err := NewDistribution(raw)
	if err != nil {
		t.Fatal(err)
	}

	n := 2000
	syms := make([]int, n)
	for i := range syms {
		syms[i] = rng.Intn(len(raw))
	}

	e := NewEncoder(d)
	for _, s := range syms {
		if err := e.PutSymbol(s); err != nil {
			t.Fatal(err)
		}
	}
	stream := e.Finish()

	dec, err := NewDecoder(d, stream)
	if err != nil {
		t.Fatal(err)
	}
	for i, want := range syms {
		got, err := dec.GetSymbol()
		if err != nil {
			t.Fatalf("symbol %d: %v", i, err)
		}
		if got != want {
			t.Fatalf("symbol %d: got %d, want %d", i, got, want)
		}
	}
}

func TestDecoderTruncatedData(t *testing.T) {
	d, err := NewDistribution([]uint32{1, 1})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewDecoder(d, []byte{1, 2}); err == nil {
		t.Fatal("expected TruncatedData error for stream shorter than 4 bytes")
	}
}

func TestDecoderTruncatedMidRenormalization(t *testing.T) {
	d, err := NewDistribution([]uint32{1, 1})
	if err != nil {
		t.Fatal(err)
	}

	// Enough symbols that the encoder's state overflows and emits
	// renormalization bytes ahead of the final 4-byte state.
	const n = 64
	e := NewEncoder(d)
	for i := 0; i < n; i++ {
		if err := e.PutSymbol(i % 2); err != nil {
			t.Fatal(err)
		}
	}
	stream := e.Finish()
	if len(stream) <= 4 {
		t.Fatalf("len(stream) = %d, expected renormalization bytes beyond the 4-byte state", len(stream))
	}

	// Keep the final state but drop every renormalization byte, so
	// decode underruns partway through the symbol sequence.
	dec, err := NewDecoder(d, stream[len(stream)-4:])
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < n; i++ {
		if _, err := dec.GetSymbol(); err != nil {
			ce, ok := err.(*jxlerr.CodecError)
			if !ok {
				t.Fatalf("GetSymbol error %T, want *jxlerr.CodecError", err)
			}
			if ce.Kind != jxlerr.TruncatedData {
				t.Fatalf("error kind = %v, want TruncatedData", ce.Kind)
			}
			return
		}
	}
	t.Fatal("decoded every symbol from a stream missing its renormalization bytes")
}

func TestMultiContextRoundTrip(t *testing.T) {
	d0, err := NewDistribution([]uint32{10, 10, 10})
	if err != nil {
		t.Fatal(err)
	}
	d1, err := NewDistribution([]uint32{1, 99})
	if err != nil {
		t.Fatal(err)
	}
	dists := []*Distribution{d0, d1}

	mc := NewMultiContext(dists)
	plan := []struct {
		ctx, sym int
	}{
		{0, 0}, {1, 1}, {0, 2}, {1, 1}, {0, 1}, {1, 0},
	}
	for _, p := range plan {
		if err := mc.PutSymbol(p.ctx, p.sym); err != nil {
			t.Fatal(err)
		}
	}
	stream := mc.Finish()

	dec, err := NewMultiContextDecoder(dists, stream)
	if err != nil {
		t.Fatal(err)
	}

	for i, p := range plan {
		got, err := dec.GetSymbol(p.ctx)
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if got != p.sym {
			t.Fatalf("step %d (ctx %d): got %d, want %d", i, p.ctx, got, p.sym)
		}
	}
}

func TestMultiContextInvalidContextRejected(t *testing.T) {
	d, err := NewDistribution([]uint32{1, 1})
	if err != nil {
		t.Fatal(err)
	}
	mc := NewMultiContext([]*Distribution{d})
	if err := mc.PutSymbol(5, 0); err == nil {
		t.Fatal("expected InvalidContext error")
	}
}

func TestDistributionSerializationRoundTrip(t *testing.T) {
	freq := []uint16{10, 0, 0, 0, 0, 20, 5, 0, 0, 0, 0, 0, 0, 0, 0, 1}
	enc := EncodeDistribution(freq)
	got, err := DecodeDistribution(enc)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(freq) {
		t.Fatalf("len(got) = %d, want %d", len(got), len(freq))
	}
	for i := range freq {
		if got[i] != freq[i] {
			t.Fatalf("index %d: got %d, want %d", i, got[i], freq[i])
		}
	}
}

func TestDistributionSerializationRLESmallerForSparseTable(t *testing.T) {
	freq := make([]uint16, 128)
	freq[3] = 4000
	freq[100] = 96

	plain := encodeUncompressed(freq)
	rle := encodeRLE(freq)
	if len(rle) >= len(plain) {
		t.Fatalf("RLE (%d bytes) not smaller than uncompressed (%d bytes) for sparse table", len(rle), len(plain))
	}

	chosen := EncodeDistribution(freq)
	if len(chosen) != len(rle) {
		t.Fatalf("EncodeDistribution did not pick the smaller RLE encoding")
	}
}
