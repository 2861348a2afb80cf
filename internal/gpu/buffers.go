package gpu

// Quad index order shared by the sprite and rect pipelines: two CCW
// triangles covering the quad.
var quadIndices = [6]uint16{0, 1, 2, 0, 2, 3}

// spriteQuadVertexData returns the unit quad used by the sprite
// pipeline. Positions span (0,0)-(1,1) so the instance model matrix
// carries the full placement; tex coords map the quad onto the texture
// with V growing downward.
func spriteQuadVertexData() []byte {
	verts := [4][4]float32{
		{0, 0, 0, 0},
		{1, 0, 1, 0},
		{1, 1, 1, 1},
		{0, 1, 0, 1},
	}
	buf := make([]byte, len(verts)*spriteVertexStride)
	off := 0
	for _, v := range verts {
		for _, f := range v {
			writeFloat32(buf, off, f)
			off += 4
		}
	}
	return buf
}

// rectQuadVertexData returns the centered quad used by the rect
// pipeline, spanning (-1,-1)-(1,1). The fragment shader reconstructs
// pixel coordinates from this local position and the per-instance rect
// size.
func rectQuadVertexData() []byte {
	verts := [4][2]float32{
		{-1, -1},
		{1, -1},
		{1, 1},
		{-1, 1},
	}
	buf := make([]byte, len(verts)*rectVertexStride)
	off := 0
	for _, v := range verts {
		for _, f := range v {
			writeFloat32(buf, off, f)
			off += 4
		}
	}
	return buf
}

// quadIndexData serializes quadIndices little-endian, padded to a
// 4-byte multiple as required for buffer uploads.
func quadIndexData() []byte {
	buf := make([]byte, (len(quadIndices)*2+3)&^3)
	for i, idx := range quadIndices {
		buf[i*2] = byte(idx)
		buf[i*2+1] = byte(idx >> 8)
	}
	return buf
}
