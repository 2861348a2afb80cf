package gpu

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/google/uuid"
)

func TestTransformUniformBytes(t *testing.T) {
	u := TransformUniform{Model: Identity()}
	buf := make([]byte, TransformUniformSize)
	u.Bytes(buf, 0)

	// Column-major identity: 1 at indices 0, 5, 10, 15.
	for i := 0; i < 16; i++ {
		got := math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
		want := float32(0)
		if i%5 == 0 {
			want = 1
		}
		if got != want {
			t.Errorf("element %d = %v, want %v", i, got, want)
		}
	}
}

func TestReadTransformUniformRoundTrip(t *testing.T) {
	var u TransformUniform
	for i := range u.Model {
		u.Model[i] = float32(i) * 0.25
	}
	buf := make([]byte, UniformAlign*2)
	u.Bytes(buf, UniformAlign)

	got := readTransformUniform(buf, UniformAlign)
	if got.Model != u.Model {
		t.Errorf("round trip mismatch: got %v want %v", got.Model, u.Model)
	}
}

func TestInstanceRawBytes(t *testing.T) {
	in := InstanceRaw{
		Model:    Identity(),
		UVOffset: [2]float32{0.25, 0.5},
		UVScale:  [2]float32{0.125, 0.0625},
		Tint:     [4]float32{1, 0.5, 0.25, 1},
	}
	buf := make([]byte, InstanceRawSize)
	in.Bytes(buf, 0)

	readAt := func(off int) float32 {
		return math.Float32frombits(binary.LittleEndian.Uint32(buf[off:]))
	}
	if got := readAt(64); got != 0.25 {
		t.Errorf("uv offset x = %v, want 0.25", got)
	}
	if got := readAt(76); got != 0.0625 {
		t.Errorf("uv scale y = %v, want 0.0625", got)
	}
	if got := readAt(84); got != 0.5 {
		t.Errorf("tint g = %v, want 0.5", got)
	}
}

func TestRectInstanceRawSize(t *testing.T) {
	// The struct must serialize to a 16-byte multiple for storage
	// buffer array indexing.
	if RectInstanceRawSize%16 != 0 {
		t.Fatalf("RectInstanceRawSize %d not a 16-byte multiple", RectInstanceRawSize)
	}
	in := RectInstanceRaw{
		Model:             Identity(),
		Color:             [4]float32{1, 0, 0, 1},
		CornerRadiusPx:    8,
		BorderThicknessPx: 2,
		BorderColor:       [4]float32{0, 0, 0, 1},
		RectSizePx:        [2]float32{100, 40},
	}
	buf := make([]byte, RectInstanceRawSize)
	in.Bytes(buf, 0)

	readAt := func(off int) float32 {
		return math.Float32frombits(binary.LittleEndian.Uint32(buf[off:]))
	}
	if got := readAt(80); got != 8 {
		t.Errorf("corner radius = %v, want 8", got)
	}
	if got := readAt(84); got != 2 {
		t.Errorf("border thickness = %v, want 2", got)
	}
	if got := readAt(112); got != 100 {
		t.Errorf("rect width = %v, want 100", got)
	}
}

func TestBatchInstanceCount(t *testing.T) {
	tests := []struct {
		name  string
		batch Batch
		want  int
	}{
		{"empty sprite", Batch{Kind: BatchSprite}, 0},
		{"two sprites", Batch{Kind: BatchSprite, Instances: make([]InstanceRaw, 2)}, 2},
		{"three rects", Batch{Kind: BatchRect, Rects: make([]RectInstanceRaw, 3)}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.batch.InstanceCount(); got != tt.want {
				t.Errorf("InstanceCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestBatchSpriteBytes(t *testing.T) {
	b := Batch{
		Kind:    BatchSprite,
		Texture: uuid.New(),
		Instances: []InstanceRaw{
			{Model: Identity(), UVScale: [2]float32{1, 1}, Tint: [4]float32{1, 1, 1, 1}},
			{Model: Identity(), UVScale: [2]float32{1, 1}, Tint: [4]float32{1, 1, 1, 1}},
		},
	}
	data := b.SpriteBytes()
	if len(data) != 2*InstanceRawSize {
		t.Fatalf("len = %d, want %d", len(data), 2*InstanceRawSize)
	}
}

func TestAlignUp(t *testing.T) {
	tests := []struct {
		v, align, want int
	}{
		{0, 256, 0},
		{1, 256, 256},
		{256, 256, 256},
		{257, 256, 512},
		{100, 4, 100},
		{101, 4, 104},
	}
	for _, tt := range tests {
		if got := AlignUp(tt.v, tt.align); got != tt.want {
			t.Errorf("AlignUp(%d, %d) = %d, want %d", tt.v, tt.align, got, tt.want)
		}
	}
}

func TestAlignRow(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{4, 256},
		{256, 256},
		{260, 512},
		{1024, 1024},
	}
	for _, tt := range tests {
		if got := alignRow(tt.in); got != tt.want {
			t.Errorf("alignRow(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestQuadGeometryData(t *testing.T) {
	sprite := spriteQuadVertexData()
	if len(sprite) != 4*spriteVertexStride {
		t.Errorf("sprite vertex data = %d bytes, want %d", len(sprite), 4*spriteVertexStride)
	}
	rect := rectQuadVertexData()
	if len(rect) != 4*rectVertexStride {
		t.Errorf("rect vertex data = %d bytes, want %d", len(rect), 4*rectVertexStride)
	}
	idx := quadIndexData()
	if len(idx)%4 != 0 {
		t.Errorf("index data = %d bytes, not 4-byte aligned", len(idx))
	}
	if got := binary.LittleEndian.Uint16(idx[0:]); got != 0 {
		t.Errorf("first index = %d, want 0", got)
	}
	if got := binary.LittleEndian.Uint16(idx[10:]); got != 3 {
		t.Errorf("last index = %d, want 3", got)
	}
}
