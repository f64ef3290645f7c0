package frame

import "testing"

func TestReferencePoolFIFO(t *testing.T) {
	p := NewReferencePool(2)
	a, _ := New(1, 1, 1, U8, 8)
	b, _ := New(1, 1, 1, U8, 8)
	c, _ := New(1, 1, 1, U8, 8)

	p.Push(a)
	p.Push(b)
	if p.Size() != 2 {
		t.Fatalf("size = %d, want 2", p.Size())
	}
	p.Push(c)
	if p.Size() != 2 {
		t.Fatalf("size after overflow = %d, want 2", p.Size())
	}
	if p.At(0) != b || p.At(1) != c {
		t.Fatalf("FIFO rotation did not evict oldest entry")
	}
}

func TestReferencePoolOutOfRange(t *testing.T) {
	p := NewReferencePool(4)
	if p.At(0) != nil {
		t.Fatal("empty pool should return nil for any index")
	}
}

func TestReferencePoolDrain(t *testing.T) {
	p := NewReferencePool(4)
	f, _ := New(1, 1, 1, U8, 8)
	p.Push(f)
	p.Drain()
	if p.Size() != 0 {
		t.Fatalf("size after drain = %d, want 0", p.Size())
	}
}
