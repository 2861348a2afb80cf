package quad

import (
	"testing"

	"github.com/google/uuid"

	"github.com/gogpu/quad/internal/gpu"
)

func spriteItem(tex uuid.UUID, z int, marker float32) renderItem {
	it := renderItem{kind: gpu.BatchSprite, z: z, texture: tex}
	it.sprite.Tint = [4]float32{marker, 1, 1, 1}
	return it
}

func rectItem(z int) renderItem {
	return renderItem{kind: gpu.BatchRect, z: z}
}

func TestBatchesEmptyQueue(t *testing.T) {
	var q renderQueue
	if got := q.batches(); got != nil {
		t.Errorf("batches = %v, want nil", got)
	}
}

func TestBatchesMergesSameTexture(t *testing.T) {
	tex := uuid.New()
	var q renderQueue
	q.push(spriteItem(tex, 0, 1))
	q.push(spriteItem(tex, 0, 2))
	q.push(spriteItem(tex, 0, 3))

	got := q.batches()
	if len(got) != 1 {
		t.Fatalf("got %d batches, want 1", len(got))
	}
	if got[0].InstanceCount() != 3 {
		t.Errorf("instances = %d, want 3", got[0].InstanceCount())
	}
}

func TestBatchesBreaksOnTextureChange(t *testing.T) {
	texA, texB := uuid.New(), uuid.New()
	var q renderQueue
	q.push(spriteItem(texA, 0, 1))
	q.push(spriteItem(texB, 0, 2))
	q.push(spriteItem(texA, 0, 3))

	got := q.batches()
	if len(got) != 3 {
		t.Fatalf("got %d batches, want 3", len(got))
	}
}

func TestBatchesBreaksOnKindChange(t *testing.T) {
	tex := uuid.New()
	var q renderQueue
	q.push(spriteItem(tex, 0, 1))
	q.push(rectItem(0))
	q.push(spriteItem(tex, 0, 2))

	got := q.batches()
	if len(got) != 3 {
		t.Fatalf("got %d batches, want 3", len(got))
	}
	if got[1].Kind != gpu.BatchRect || len(got[1].Rects) != 1 {
		t.Errorf("middle batch = %+v, want one rect", got[1])
	}
}

func TestBatchesZSortReordersAcrossTextures(t *testing.T) {
	texA, texB := uuid.New(), uuid.New()
	var q renderQueue
	// Interleaved by submission, separable by z.
	q.push(spriteItem(texA, 1, 1))
	q.push(spriteItem(texB, 0, 2))
	q.push(spriteItem(texA, 1, 3))
	q.push(spriteItem(texB, 0, 4))

	got := q.batches()
	if len(got) != 2 {
		t.Fatalf("got %d batches, want 2", len(got))
	}
	if got[0].Texture != texB || got[0].InstanceCount() != 2 {
		t.Errorf("low z batch = %+v", got[0])
	}
	if got[1].Texture != texA || got[1].InstanceCount() != 2 {
		t.Errorf("high z batch = %+v", got[1])
	}
}

func TestBatchesEqualZKeepsSubmissionOrder(t *testing.T) {
	tex := uuid.New()
	var q renderQueue
	for i := 1; i <= 4; i++ {
		q.push(spriteItem(tex, 7, float32(i)))
	}

	got := q.batches()
	if len(got) != 1 {
		t.Fatalf("got %d batches, want 1", len(got))
	}
	for i, in := range got[0].Instances {
		if in.Tint[0] != float32(i+1) {
			t.Fatalf("instance %d marker = %v, want %v", i, in.Tint[0], i+1)
		}
	}
}

func TestBatchesBreaksOnClipChange(t *testing.T) {
	tex := uuid.New()
	clipped := spriteItem(tex, 0, 1)
	clipped.hasClip = true
	clipped.scissor = gpu.Scissor{X: 0, Y: 0, Width: 10, Height: 10}

	var q renderQueue
	q.push(spriteItem(tex, 0, 1))
	q.push(clipped)
	q.push(clipped)

	got := q.batches()
	if len(got) != 2 {
		t.Fatalf("got %d batches, want 2", len(got))
	}
	if got[0].Scissor != nil {
		t.Error("first batch should be unclipped")
	}
	if got[1].Scissor == nil || got[1].Scissor.Width != 10 {
		t.Errorf("second batch scissor = %+v", got[1].Scissor)
	}
	if got[1].InstanceCount() != 2 {
		t.Errorf("clipped run = %d instances, want 2", got[1].InstanceCount())
	}
}

func TestBatchesZeroClipBreaksFromNoClip(t *testing.T) {
	tex := uuid.New()
	zeroClip := spriteItem(tex, 0, 1)
	zeroClip.hasClip = true

	var q renderQueue
	q.push(spriteItem(tex, 0, 1))
	q.push(zeroClip)

	if got := q.batches(); len(got) != 2 {
		t.Fatalf("got %d batches, want 2", len(got))
	}
}

func TestBatchesMergeMixedTiles(t *testing.T) {
	// Tile selection rides in the per-instance UV window, so draws of
	// different tiles from one atlas stay in a single batch.
	atlas := uuid.New()
	tileItem := func(off float32) renderItem {
		it := spriteItem(atlas, 0, 1)
		it.sprite.UVOffset = [2]float32{off, 0}
		return it
	}

	var q renderQueue
	q.push(tileItem(0))
	q.push(tileItem(0.25))
	got := q.batches()
	if len(got) != 1 || got[0].InstanceCount() != 2 {
		t.Fatalf("mixed tiles: batches = %+v", got)
	}
	if got[0].Instances[1].UVOffset != [2]float32{0.25, 0} {
		t.Errorf("second instance window = %v", got[0].Instances[1].UVOffset)
	}
}

func TestQueueReset(t *testing.T) {
	var q renderQueue
	q.push(rectItem(0))
	q.reset()
	if q.len() != 0 {
		t.Errorf("len after reset = %d", q.len())
	}
}
