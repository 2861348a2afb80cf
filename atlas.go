package quad

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/gogpu/quad/internal/gpu"
)

// textureAtlas addresses fixed-size tiles within a backing texture.
// Tiles are indexed row-major, left to right, top to bottom. Trailing
// texture area that does not fill a whole tile is unreachable.
type textureAtlas struct {
	id      uuid.UUID
	texture uuid.UUID

	// tileSize is the logical tile extent callers draw with.
	tileSize Size
	// tileWPx and tileHPx are the physical tile extent in the texture.
	tileWPx, tileHPx int

	cols, rows int
}

func newTextureAtlas(id, texture uuid.UUID, texW, texH int, tileSize Size, dpi float32) (*textureAtlas, error) {
	tw := int(tileSize.Width * dpi)
	th := int(tileSize.Height * dpi)
	if tw <= 0 || th <= 0 {
		return nil, fmt.Errorf("%w: tile size %vx%v", ErrInvalidDimensions, tileSize.Width, tileSize.Height)
	}
	cols := texW / tw
	rows := texH / th
	if cols == 0 || rows == 0 {
		return nil, fmt.Errorf("%w: tile %dx%d larger than texture %dx%d",
			ErrInvalidDimensions, tw, th, texW, texH)
	}
	return &textureAtlas{
		id:       id,
		texture:  texture,
		tileSize: tileSize,
		tileWPx:  tw,
		tileHPx:  th,
		cols:     cols,
		rows:     rows,
	}, nil
}

func (a *textureAtlas) tileCount() int {
	return a.cols * a.rows
}

// tileUV returns the normalized UV window of a tile, or false for an
// out-of-range index.
func (a *textureAtlas) tileUV(tile int, texW, texH int) (gpu.UVWindow, bool) {
	if tile < 0 || tile >= a.tileCount() {
		return gpu.UVWindow{}, false
	}
	col := tile % a.cols
	row := tile / a.cols
	return gpu.UVWindow{
		Offset: [2]float32{
			float32(col*a.tileWPx) / float32(texW),
			float32(row*a.tileHPx) / float32(texH),
		},
		Scale: [2]float32{
			float32(a.tileWPx) / float32(texW),
			float32(a.tileHPx) / float32(texH),
		},
	}, true
}
