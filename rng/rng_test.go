package rng

import "testing"

func TestStreamDeterminism(t *testing.T) {
	svc := NewService(42)
	a := svc.StreamByID(7)
	b := svc.StreamByID(7)
	for i := 0; i < 100; i++ {
		if av, bv := a.NextUint64(), b.NextUint64(); av != bv {
			t.Fatalf("step %d: streams diverged: %d != %d", i, av, bv)
		}
	}
}

func TestStreamIndependence(t *testing.T) {
	svc := NewService(42)
	a := svc.StreamByID(1)
	b := svc.StreamByID(2)
	same := 0
	for i := 0; i < 64; i++ {
		if a.NextUint64() == b.NextUint64() {
			same++
		}
	}
	if same > 0 {
		t.Errorf("distinct ids produced %d identical values in 64 draws", same)
	}
}

func TestStreamByNameMatchesHash(t *testing.T) {
	svc := NewService(99)
	byName := svc.StreamByName("particles")
	byID := svc.StreamByID(fnv1a64("particles"))
	if byName.NextUint64() != byID.NextUint64() {
		t.Error("StreamByName and StreamByID(fnv1a64) disagree")
	}
}

func TestFNV1a64KnownValues(t *testing.T) {
	tests := []struct {
		in   string
		want uint64
	}{
		{"", 0xcbf29ce484222325},
		{"a", 0xaf63dc4c8601ec8c},
		{"foobar", 0x85944171f73967e8},
	}
	for _, tt := range tests {
		if got := fnv1a64(tt.in); got != tt.want {
			t.Errorf("fnv1a64(%q) = %#x, want %#x", tt.in, got, tt.want)
		}
	}
}

func TestZeroStateForcedNonzero(t *testing.T) {
	// Find the pathological case where splitmix yields zero by
	// feeding the seed that produces it; easiest is to check the
	// invariant directly on a few ids.
	svc := NewService(0)
	for id := uint64(0); id < 1000; id++ {
		s := svc.StreamByID(id)
		if s.state == 0 {
			t.Fatalf("id %d produced zero state", id)
		}
	}
}

func TestNextFloat32Range(t *testing.T) {
	s := NewService(7).StreamByID(1)
	for i := 0; i < 10000; i++ {
		v := s.NextFloat32()
		if v < 0 || v >= 1 {
			t.Fatalf("NextFloat32() = %v out of [0,1)", v)
		}
	}
}

func TestIntNRange(t *testing.T) {
	s := NewService(7).StreamByID(2)
	seen := make(map[int]bool)
	for i := 0; i < 10000; i++ {
		v := s.IntN(10)
		if v < 0 || v >= 10 {
			t.Fatalf("IntN(10) = %d", v)
		}
		seen[v] = true
	}
	if len(seen) != 10 {
		t.Errorf("IntN(10) hit %d distinct values in 10000 draws", len(seen))
	}
}

func TestIntNPanicsOnNonPositive(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("IntN(0) did not panic")
		}
	}()
	NewService(1).StreamByID(1).IntN(0)
}

func TestShufflePermutes(t *testing.T) {
	s := NewService(3).StreamByID(5)
	vals := []int{0, 1, 2, 3, 4, 5, 6, 7}
	s.Shuffle(len(vals), func(i, j int) {
		vals[i], vals[j] = vals[j], vals[i]
	})

	seen := make(map[int]bool)
	for _, v := range vals {
		seen[v] = true
	}
	if len(seen) != 8 {
		t.Errorf("shuffle lost elements: %v", vals)
	}

	// Same seed reproduces the same permutation.
	s2 := NewService(3).StreamByID(5)
	vals2 := []int{0, 1, 2, 3, 4, 5, 6, 7}
	s2.Shuffle(len(vals2), func(i, j int) {
		vals2[i], vals2[j] = vals2[j], vals2[i]
	})
	for i := range vals {
		if vals[i] != vals2[i] {
			t.Fatalf("shuffle not deterministic: %v vs %v", vals, vals2)
		}
	}
}
