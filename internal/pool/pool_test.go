package pool

import "testing"

func TestAcquireReleaseRoundTrip(t *testing.T) {
	p := NewEncoderBufferPool[float64](4)

	buf := p.Acquire(64)
	if len(buf) != 64 {
		t.Fatalf("len = %d, want 64", len(buf))
	}
	p.Release(&buf)
	if buf != nil {
		t.Fatalf("Release did not clear caller handle")
	}

	acquire, hit := p.Stats()
	if acquire != 1 || hit != 0 {
		t.Fatalf("acquire=%d hit=%d, want 1,0", acquire, hit)
	}

	buf2 := p.Acquire(32)
	if cap(buf2) < 32 {
		t.Fatalf("reused buffer too small: cap=%d", cap(buf2))
	}
	acquire, hit = p.Stats()
	if acquire != 2 || hit != 1 {
		t.Fatalf("acquire=%d hit=%d, want 2,1", acquire, hit)
	}
}

func TestMaxPoolSizeDropsExcess(t *testing.T) {
	p := NewEncoderBufferPool[byte](1)
	a := p.Acquire(8)
	b := p.Acquire(8)
	p.Release(&a)
	p.Release(&b)
	if p.Size() != 1 {
		t.Fatalf("pool size = %d, want 1 (capped)", p.Size())
	}
}

func TestSharedPoolsSingleton(t *testing.T) {
	DrainAll()
	s1 := Shared()
	s2 := Shared()
	if s1 != s2 {
		t.Fatalf("Shared() returned distinct instances")
	}
	DrainAll()
	s3 := Shared()
	if s3 == s1 {
		t.Fatalf("DrainAll did not reset singleton")
	}
}
