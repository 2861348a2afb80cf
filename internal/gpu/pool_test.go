package gpu

import "testing"

func TestTransformPoolAlloc(t *testing.T) {
	p := NewTransformPool(nil, nil)
	if p.Used() != 0 {
		t.Fatalf("new pool used = %d, want 0", p.Used())
	}

	u := TransformUniform{Model: Identity()}
	u.Model[12] = 0.5 // translation x
	idx := p.Alloc(u)
	if idx != 0 {
		t.Errorf("first alloc idx = %d, want 0", idx)
	}
	if got := p.At(idx); got.Model != u.Model {
		t.Errorf("At(%d) = %v, want %v", idx, got.Model, u.Model)
	}

	idx2 := p.Alloc(TransformUniform{Model: Identity()})
	if idx2 != 1 {
		t.Errorf("second alloc idx = %d, want 1", idx2)
	}
}

func TestTransformPoolReset(t *testing.T) {
	p := NewTransformPool(nil, nil)
	for i := 0; i < 10; i++ {
		p.Alloc(TransformUniform{Model: Identity()})
	}
	p.Reset()
	if p.Used() != 0 {
		t.Errorf("used after reset = %d, want 0", p.Used())
	}
	if idx := p.Alloc(TransformUniform{Model: Identity()}); idx != 0 {
		t.Errorf("alloc after reset = %d, want 0", idx)
	}
}

func TestTransformPoolGrowth(t *testing.T) {
	p := NewTransformPool(nil, nil)
	startCap := p.Cap()

	var want TransformUniform
	for i := 0; i <= startCap; i++ {
		u := TransformUniform{Model: Identity()}
		u.Model[12] = float32(i)
		if i == 7 {
			want = u
		}
		p.Alloc(u)
	}

	if p.Cap() != startCap*2 {
		t.Errorf("cap after growth = %d, want %d", p.Cap(), startCap*2)
	}
	if p.Used() != startCap+1 {
		t.Errorf("used = %d, want %d", p.Used(), startCap+1)
	}
	// Existing slots survive the grow.
	if got := p.At(7); got.Model != want.Model {
		t.Errorf("slot 7 after growth = %v, want %v", got.Model, want.Model)
	}
}

func TestTransformPoolFlushWithoutDevice(t *testing.T) {
	p := NewTransformPool(nil, nil)
	p.Alloc(TransformUniform{Model: Identity()})
	if err := p.Flush(); err != nil {
		t.Fatalf("Flush() without device: %v", err)
	}
	if p.Buffer() != nil {
		t.Error("Buffer() non-nil without device")
	}
}
