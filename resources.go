package quad

import (
	"errors"
	"fmt"
	"image"
	"os"

	"github.com/google/uuid"

	"github.com/gogpu/quad/internal/gpu"
	"github.com/gogpu/quad/internal/vector"
	"github.com/gogpu/quad/text"
)

// TextureID identifies a loaded texture.
type TextureID = uuid.UUID

// AtlasID identifies a loaded texture atlas.
type AtlasID = uuid.UUID

// CreateTextureFromSVG rasterizes an SVG file into a texture. The
// output resolution is the document's viewbox scaled by scale and the
// dpi factor, so the texture draws at viewbox*scale logical units.
func (e *Engine) CreateTextureFromSVG(path string, scale float32) (TextureID, error) {
	if e.closed {
		return uuid.Nil, ErrEngineClosed
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s: %v", ErrResourceNotFound, path, err)
	}
	img, err := vector.RasterizeSVG(data, scale*e.dpi)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s: %v", ErrVectorParse, path, err)
	}
	return e.addTexture(img, false, path)
}

// CreateTextureFromSVGData rasterizes in-memory SVG data, with the
// same resolution rules as CreateTextureFromSVG.
func (e *Engine) CreateTextureFromSVGData(data []byte, scale float32) (TextureID, error) {
	if e.closed {
		return uuid.Nil, ErrEngineClosed
	}
	img, err := vector.RasterizeSVG(data, scale*e.dpi)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %v", ErrVectorParse, err)
	}
	return e.addTexture(img, false, "svg-data")
}

// CreateTextureFromImage decodes a PNG or JPEG file into a texture.
func (e *Engine) CreateTextureFromImage(path string) (TextureID, error) {
	if e.closed {
		return uuid.Nil, ErrEngineClosed
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s: %v", ErrResourceNotFound, path, err)
	}
	img, err := vector.DecodeImage(data)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s: %v", ErrImageDecode, path, err)
	}
	return e.addTexture(img, false, path)
}

// CreateTextureFromPixels wraps ready RGBA pixels as a texture. The
// image is used as-is, not copied.
func (e *Engine) CreateTextureFromPixels(img *image.RGBA) (TextureID, error) {
	if e.closed {
		return uuid.Nil, ErrEngineClosed
	}
	return e.addTexture(img, false, "pixels")
}

func (e *Engine) addTexture(img *image.RGBA, nearest bool, label string) (TextureID, error) {
	b := img.Bounds()
	if b.Dx() > e.maxTextureDim || b.Dy() > e.maxTextureDim {
		return uuid.Nil, fmt.Errorf("%w: %dx%d exceeds %d", ErrPixmapTooLarge,
			b.Dx(), b.Dy(), e.maxTextureDim)
	}
	id := uuid.New()
	tex, err := gpu.NewTexture(e.device, e.queue, id, img, nearest, label)
	if err != nil {
		return uuid.Nil, err
	}
	e.textures[id] = tex
	e.log.Info("texture created", "id", id, "label", label,
		"size", fmt.Sprintf("%dx%d", b.Dx(), b.Dy()))
	return id, nil
}

// CreateTextureAtlas loads an image file as a grid of fixed-size
// tiles. tileSize is logical; the grid is cut in physical pixels.
func (e *Engine) CreateTextureAtlas(path string, tileSize Size) (AtlasID, error) {
	if e.closed {
		return uuid.Nil, ErrEngineClosed
	}
	texID, err := e.CreateTextureFromImage(path)
	if err != nil {
		return uuid.Nil, err
	}
	return e.addAtlas(texID, tileSize)
}

// CreateTextureAtlasFromSVG rasterizes an SVG file at the dpi factor
// and cuts it into a grid of fixed-size tiles. A document whose
// viewbox is a whole multiple of tileSize keeps every tile reachable.
func (e *Engine) CreateTextureAtlasFromSVG(path string, tileSize Size) (AtlasID, error) {
	if e.closed {
		return uuid.Nil, ErrEngineClosed
	}
	texID, err := e.CreateTextureFromSVG(path, 1)
	if err != nil {
		return uuid.Nil, err
	}
	return e.addAtlas(texID, tileSize)
}

// CreateTextureAtlasFromSVGData is the in-memory variant of
// CreateTextureAtlasFromSVG.
func (e *Engine) CreateTextureAtlasFromSVGData(data []byte, tileSize Size) (AtlasID, error) {
	if e.closed {
		return uuid.Nil, ErrEngineClosed
	}
	texID, err := e.CreateTextureFromSVGData(data, 1)
	if err != nil {
		return uuid.Nil, err
	}
	return e.addAtlas(texID, tileSize)
}

// CreateTextureAtlasFromPixels wraps ready RGBA pixels as a tile grid.
func (e *Engine) CreateTextureAtlasFromPixels(img *image.RGBA, tileSize Size) (AtlasID, error) {
	if e.closed {
		return uuid.Nil, ErrEngineClosed
	}
	texID, err := e.CreateTextureFromPixels(img)
	if err != nil {
		return uuid.Nil, err
	}
	return e.addAtlas(texID, tileSize)
}

func (e *Engine) addAtlas(texID TextureID, tileSize Size) (AtlasID, error) {
	tex := e.textures[texID]
	id := uuid.New()
	a, err := newTextureAtlas(id, texID, tex.Width, tex.Height, tileSize, e.dpi)
	if err != nil {
		e.removeTexture(texID)
		return uuid.Nil, err
	}
	e.atlases[id] = a
	return id, nil
}

// LoadFont reads a TTF or OTF file and builds its glyph atlas at size
// logical units, registered under key.
func (e *Engine) LoadFont(path string, size float32, key string) error {
	if e.closed {
		return ErrEngineClosed
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrResourceNotFound, path, err)
	}
	return e.LoadFontFromBytes(data, size, key)
}

// LoadFontFromBytes builds a glyph atlas from in-memory font data.
func (e *Engine) LoadFontFromBytes(data []byte, size float32, key string) error {
	if e.closed {
		return ErrEngineClosed
	}
	f, err := text.NewFont(data, size, e.dpi)
	if err != nil {
		switch {
		case errors.Is(err, text.ErrAtlasRender):
			return fmt.Errorf("%w: font %q: %v", ErrAtlasRender, key, err)
		default:
			return fmt.Errorf("%w: font %q: %v", ErrInvalidFontData, key, err)
		}
	}

	return e.registerFont(f, key)
}

// LoadFontAtlas registers a preassembled glyph sheet under key. data
// holds width*height tightly packed RGBA pixels, tileSize is the cell
// extent in logical units and chars maps runes to tiles in the sheet.
func (e *Engine) LoadFontAtlas(data []byte, width, height int, tileSize Size,
	chars map[rune]text.CharacterInfo, size float32, key string) error {

	if e.closed {
		return ErrEngineClosed
	}
	if width <= 0 || height <= 0 || len(data) != width*height*4 {
		return fmt.Errorf("%w: %dx%d atlas with %d bytes", ErrInvalidDimensions,
			width, height, len(data))
	}
	img := &image.RGBA{
		Pix:    data,
		Stride: width * 4,
		Rect:   image.Rect(0, 0, width, height),
	}
	cellW := int(tileSize.Width * e.dpi)
	cellH := int(tileSize.Height * e.dpi)
	f, err := text.NewFontFromAtlas(img, size, e.dpi, cellW, cellH, chars)
	if err != nil {
		return fmt.Errorf("%w: font %q: %v", ErrInvalidFontData, key, err)
	}
	return e.registerFont(f, key)
}

// registerFont uploads a font's atlas and claims key, replacing any
// earlier font registered under it.
func (e *Engine) registerFont(f *text.Font, key string) error {
	// Font atlases sample nearest so glyph edges stay crisp.
	texID, err := e.addTexture(f.Atlas, true, "font:"+key)
	if err != nil {
		return err
	}

	if old, ok := e.fonts[key]; ok {
		e.removeTexture(old.texture)
	}
	e.fonts[key] = &loadedFont{font: f, texture: texID}
	e.log.Info("font loaded", "key", key, "size", f.Size)
	return nil
}

// MeasureText returns the logical extent of text laid out with the
// given font key. Unknown keys measure as zero.
func (e *Engine) MeasureText(s, key string) Size {
	lf, ok := e.fonts[key]
	if !ok {
		e.log.Debug("measure with unknown font", "key", key)
		return Size{}
	}
	w, h := text.Measure(lf.font, s)
	return Size{Width: w, Height: h}
}

// UnloadTexture removes a texture. Queued draws referencing it are
// dropped at render time.
func (e *Engine) UnloadTexture(id TextureID) {
	if e.closed {
		return
	}
	e.removeTexture(id)
}

// UnloadAtlas removes an atlas and its backing texture.
func (e *Engine) UnloadAtlas(id AtlasID) {
	if e.closed {
		return
	}
	a, ok := e.atlases[id]
	if !ok {
		return
	}
	delete(e.atlases, id)
	e.removeTexture(a.texture)
}

// UnloadFont removes a font and its atlas texture.
func (e *Engine) UnloadFont(key string) {
	if e.closed {
		return
	}
	lf, ok := e.fonts[key]
	if !ok {
		return
	}
	delete(e.fonts, key)
	e.removeTexture(lf.texture)
}

func (e *Engine) removeTexture(id TextureID) {
	if t, ok := e.textures[id]; ok {
		t.Release()
		delete(e.textures, id)
	}
}
