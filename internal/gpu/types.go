// Package gpu owns the wgpu-hal resource layer: device wrapping,
// shader compilation, textures, per-frame buffers and the batched draw
// list submitted each frame.
package gpu

import (
	"encoding/binary"
	"math"

	"github.com/google/uuid"
)

// UniformAlign is the required alignment for dynamic uniform buffer
// offsets. Per-slot data in the transform pool and the atlas UV table
// is laid out at multiples of this.
const UniformAlign = 256

// Mat4 is a column-major 4x4 matrix as the shaders consume it.
// Element (row, col) lives at index col*4+row.
type Mat4 [16]float32

// Identity returns the identity matrix.
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// TransformUniform is the per-slot transform pool payload.
// Must match TransformUniform in sprite.wgsl.
type TransformUniform struct {
	Model Mat4
}

// TransformUniformSize is the byte size of one transform slot payload.
const TransformUniformSize = 64

// Bytes serializes the uniform into buf at offset, little-endian.
func (u *TransformUniform) Bytes(buf []byte, offset int) {
	for i, v := range u.Model {
		writeFloat32(buf, offset+i*4, v)
	}
}

// InstanceRaw is one sprite instance in the per-batch storage buffer.
// Must match Instance in sprite.wgsl.
type InstanceRaw struct {
	Model    Mat4       // Placement in NDC
	UVOffset [2]float32 // UV window origin within the texture
	UVScale  [2]float32 // UV window extent within the texture
	Tint     [4]float32 // Per-instance color multiplier, 1,1,1,1 = none
}

// InstanceRawSize is the byte size of one sprite instance.
const InstanceRawSize = 96

// Bytes serializes the instance into buf at offset, little-endian.
func (in *InstanceRaw) Bytes(buf []byte, offset int) {
	for i, v := range in.Model {
		writeFloat32(buf, offset+i*4, v)
	}
	writeFloat32(buf, offset+64, in.UVOffset[0])
	writeFloat32(buf, offset+68, in.UVOffset[1])
	writeFloat32(buf, offset+72, in.UVScale[0])
	writeFloat32(buf, offset+76, in.UVScale[1])
	for i, v := range in.Tint {
		writeFloat32(buf, offset+80+i*4, v)
	}
}

// RectInstanceRaw is one rounded-rectangle instance.
// Must match RectInstance in rect.wgsl, padding included.
type RectInstanceRaw struct {
	Model             Mat4       // Placement in NDC
	Color             [4]float32 // Fill color
	CornerRadiusPx    float32    // Corner radius in physical pixels
	BorderThicknessPx float32    // Border ring width in physical pixels
	Pad0              [2]float32 // Alignment padding
	BorderColor       [4]float32 // Ring color
	RectSizePx        [2]float32 // Rectangle extent in physical pixels
	Pad1              [2]float32 // Alignment padding
	Pad2              [4]float32 // Trailing pad to a 16-byte multiple
}

// RectInstanceRawSize is the byte size of one rect instance.
const RectInstanceRawSize = 144

// Bytes serializes the rect instance into buf at offset, little-endian.
func (in *RectInstanceRaw) Bytes(buf []byte, offset int) {
	o := offset
	for _, v := range in.Model {
		writeFloat32(buf, o, v)
		o += 4
	}
	for _, v := range in.Color {
		writeFloat32(buf, o, v)
		o += 4
	}
	writeFloat32(buf, o, in.CornerRadiusPx)
	writeFloat32(buf, o+4, in.BorderThicknessPx)
	writeFloat32(buf, o+8, in.Pad0[0])
	writeFloat32(buf, o+12, in.Pad0[1])
	o += 16
	for _, v := range in.BorderColor {
		writeFloat32(buf, o, v)
		o += 4
	}
	writeFloat32(buf, o, in.RectSizePx[0])
	writeFloat32(buf, o+4, in.RectSizePx[1])
	writeFloat32(buf, o+8, in.Pad1[0])
	writeFloat32(buf, o+12, in.Pad1[1])
	o += 16
	for _, v := range in.Pad2 {
		writeFloat32(buf, o, v)
		o += 4
	}
}

// UVWindow addresses a sub-rectangle of a texture in normalized UV
// space. The full texture is the zero offset with unit scale.
type UVWindow struct {
	Offset [2]float32
	Scale  [2]float32
}

// FullWindow is the UV window covering the whole texture.
func FullWindow() UVWindow {
	return UVWindow{Scale: [2]float32{1, 1}}
}

// Scissor is a clip rectangle in physical pixels, already clamped to
// the render target.
type Scissor struct {
	X, Y, Width, Height uint32
}

// BatchKind discriminates the pipeline a batch runs on.
type BatchKind uint8

const (
	// BatchSprite draws textured quads (textures and atlas tiles).
	BatchSprite BatchKind = iota
	// BatchRect draws SDF rounded rectangles, no texture bound.
	BatchRect
)

// Batch is one instanced draw: a run of consecutive render queue items
// that share kind, texture and clip state.
type Batch struct {
	Kind    BatchKind
	Texture uuid.UUID // Texture or atlas id; zero for rects
	Nearest bool      // Sample nearest instead of linear (font atlases)
	Scissor *Scissor  // nil means no clipping

	Instances []InstanceRaw
	Rects     []RectInstanceRaw
}

// InstanceCount returns the number of instances the batch draws.
func (b *Batch) InstanceCount() int {
	if b.Kind == BatchRect {
		return len(b.Rects)
	}
	return len(b.Instances)
}

// SpriteBytes serializes all sprite instances, tightly packed.
func (b *Batch) SpriteBytes() []byte {
	buf := make([]byte, len(b.Instances)*InstanceRawSize)
	for i := range b.Instances {
		b.Instances[i].Bytes(buf, i*InstanceRawSize)
	}
	return buf
}

// RectBytes serializes all rect instances, tightly packed.
func (b *Batch) RectBytes() []byte {
	buf := make([]byte, len(b.Rects)*RectInstanceRawSize)
	for i := range b.Rects {
		b.Rects[i].Bytes(buf, i*RectInstanceRawSize)
	}
	return buf
}

// AlignUp rounds v up to the next multiple of align.
func AlignUp(v, align int) int {
	return (v + align - 1) / align * align
}

// readTransformUniform deserializes a transform slot written by Bytes.
func readTransformUniform(buf []byte, offset int) TransformUniform {
	var u TransformUniform
	for i := range u.Model {
		u.Model[i] = readFloat32(buf, offset+i*4)
	}
	return u
}

func readFloat32(buf []byte, offset int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(buf[offset:]))
}

func writeUint32(buf []byte, offset int, val uint32) {
	binary.LittleEndian.PutUint32(buf[offset:], val)
}

func writeFloat32(buf []byte, offset int, val float32) {
	writeUint32(buf, offset, math.Float32bits(val))
}
