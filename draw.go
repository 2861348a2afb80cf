package quad

import (
	"github.com/gogpu/quad/internal/gpu"
	"github.com/gogpu/quad/text"
)

// DrawTexture queues a texture at pos. The sprite's logical size is
// the texture's pixel size divided by the dpi factor, multiplied by
// params.Scale. Unknown ids are dropped silently.
func (e *Engine) DrawTexture(id TextureID, pos Position, params DrawParams) error {
	if err := e.drawGuard(); err != nil {
		return err
	}
	tex, ok := e.textures[id]
	if !ok {
		e.log.Debug("draw with unknown texture", "id", id)
		return nil
	}
	scale := params.effectiveScale()
	sizePx := Size{
		Width:  float32(tex.Width) * scale,
		Height: float32(tex.Height) * scale,
	}
	e.queueSprite(id, pos, sizePx, params.Rotation, gpu.FullWindow(),
		params.effectiveTint(), tex.Nearest, params.Z)
	return nil
}

// DrawTile queues one atlas tile at pos at the tile's logical size
// multiplied by params.Scale. Unknown atlas ids and out-of-range tile
// indices are dropped silently.
func (e *Engine) DrawTile(id AtlasID, tile int, pos Position, params DrawParams) error {
	if err := e.drawGuard(); err != nil {
		return err
	}
	a, ok := e.atlases[id]
	if !ok {
		e.log.Debug("draw with unknown atlas", "id", id)
		return nil
	}
	tex, ok := e.textures[a.texture]
	if !ok {
		e.log.Debug("atlas texture missing", "atlas", id)
		return nil
	}
	uv, ok := a.tileUV(tile, tex.Width, tex.Height)
	if !ok {
		e.log.Debug("tile index out of range", "atlas", id, "tile", tile, "count", a.tileCount())
		return nil
	}
	scale := params.effectiveScale()
	sizePx := Size{
		Width:  float32(a.tileWPx) * scale,
		Height: float32(a.tileHPx) * scale,
	}
	e.queueSprite(a.texture, pos, sizePx, params.Rotation, uv,
		params.effectiveTint(), tex.Nearest, params.Z)
	return nil
}

// DrawRect queues a rounded rectangle. Radius and border are logical
// units, evaluated as a signed distance field at render time.
func (e *Engine) DrawRect(rect Rectangle, style RectStyle) error {
	if err := e.drawGuard(); err != nil {
		return err
	}
	if rect.IsEmpty() {
		return nil
	}
	scissor, hasClip, clippedOut := e.effectiveScissor()
	if clippedOut {
		return nil
	}

	it := renderItem{
		kind:    gpu.BatchRect,
		z:       style.Z,
		scissor: scissor,
		hasClip: hasClip,
	}
	it.rect = gpu.RectInstanceRaw{
		Model:             buildRectModel(rect, e.camera.GetPos(1), e.viewport(), e.dpi),
		Color:             [4]float32(style.Fill),
		CornerRadiusPx:    style.CornerRadius * e.dpi,
		BorderThicknessPx: style.BorderThickness * e.dpi,
		BorderColor:       [4]float32(style.BorderColor),
		RectSizePx:        [2]float32{rect.Width * e.dpi, rect.Height * e.dpi},
	}
	e.items.push(it)
	return nil
}

// DrawNinePatch stretches a 3x3 atlas over rect: corners at the inset
// size, edges stretched along one axis, the center along both. Zero
// insets mean one atlas tile per side.
func (e *Engine) DrawNinePatch(id AtlasID, rect Rectangle, insets Insets, params DrawParams) error {
	if err := e.drawGuard(); err != nil {
		return err
	}
	a, ok := e.atlases[id]
	if !ok {
		e.log.Debug("draw with unknown atlas", "id", id)
		return nil
	}
	tex, ok := e.textures[a.texture]
	if !ok {
		e.log.Debug("atlas texture missing", "atlas", id)
		return nil
	}
	if a.tileCount() < 9 {
		e.log.Debug("nine patch needs 9 tiles", "atlas", id, "count", a.tileCount())
		return nil
	}
	if insets == (Insets{}) {
		insets = Insets{
			Left:   a.tileSize.Width,
			Top:    a.tileSize.Height,
			Right:  a.tileSize.Width,
			Bottom: a.tileSize.Height,
		}
	}
	tint := params.effectiveTint()
	for _, cell := range ninePatchCells(rect, insets) {
		uv, ok := a.tileUV(cell.tile, tex.Width, tex.Height)
		if !ok {
			continue
		}
		e.queueSprite(a.texture, cell.dst.Pos(), cell.dst.Size().Scale(e.dpi),
			0, uv, tint, tex.Nearest, params.Z)
	}
	return nil
}

// QueueText lays out text with a loaded font and queues one glyph
// sprite per laid-out rune. The container rectangle is relative to
// pos. Unknown font keys are dropped silently.
func (e *Engine) QueueText(s, key string, pos Position, container TextContainer) error {
	if err := e.drawGuard(); err != nil {
		return err
	}
	lf, ok := e.fonts[key]
	if !ok {
		e.log.Debug("queue text with unknown font", "key", key)
		return nil
	}
	tex, ok := e.textures[lf.texture]
	if !ok {
		e.log.Debug("font texture missing", "key", key)
		return nil
	}

	placed := text.Layout(lf.font, s, text.Container{
		X:         pos.X + container.Rect.X,
		Y:         pos.Y + container.Rect.Y,
		Width:     container.Rect.Width,
		Height:    container.Rect.Height,
		HAlign:    text.HAlign(container.HAlign),
		VAlign:    text.VAlign(container.VAlign),
		WrapWords: container.WrapWords,
	})
	if len(placed) == 0 {
		return nil
	}

	tint := container.Color
	if tint == (Color{}) {
		tint = White
	}
	cellPx := Size{
		Width:  float32(lf.font.CellWidth),
		Height: float32(lf.font.CellHeight),
	}
	for _, g := range placed {
		ox, oy, sx, sy := lf.font.TileUV(g.Tile)
		uv := gpu.UVWindow{Offset: [2]float32{ox, oy}, Scale: [2]float32{sx, sy}}
		e.queueSprite(lf.texture, Position{X: g.X, Y: g.Y}, cellPx,
			0, uv, tint, tex.Nearest, container.Z)
	}
	return nil
}

// PushClip intersects subsequent draws with rect (logical). Clips
// nest; the effective clip is the intersection of the stack.
func (e *Engine) PushClip(rect Rectangle) error {
	if err := e.drawGuard(); err != nil {
		return err
	}
	e.clips = append(e.clips, rect)
	return nil
}

// PopClip removes the innermost clip. Popping an empty stack is a
// no-op.
func (e *Engine) PopClip() error {
	if err := e.drawGuard(); err != nil {
		return err
	}
	if len(e.clips) == 0 {
		e.log.Debug("pop on empty clip stack")
		return nil
	}
	e.clips = e.clips[:len(e.clips)-1]
	return nil
}

func (e *Engine) drawGuard() error {
	if e.closed {
		return ErrEngineClosed
	}
	if !e.frameActive {
		return ErrNoActiveFrame
	}
	return nil
}

// queueSprite builds and queues one sprite instance.
func (e *Engine) queueSprite(tex TextureID, pos Position, sizePx Size,
	rotation float32, uv gpu.UVWindow, tint Color, nearest bool, z int) {

	scissor, hasClip, clippedOut := e.effectiveScissor()
	if clippedOut {
		return
	}

	model := buildModel(pos, sizePx, rotation, e.camera.GetPos(1), e.viewport(), e.dpi)

	it := renderItem{
		kind:    gpu.BatchSprite,
		z:       z,
		texture: tex,
		nearest: nearest,
		scissor: scissor,
		hasClip: hasClip,
	}
	it.sprite = gpu.InstanceRaw{
		Model:    model,
		UVOffset: uv.Offset,
		UVScale:  uv.Scale,
		Tint:     [4]float32(tint),
	}
	e.items.push(it)
}

// effectiveScissor intersects the clip stack and converts it to
// physical pixels clamped to the viewport. clippedOut reports that the
// intersection is empty and the draw should be skipped.
func (e *Engine) effectiveScissor() (scissor gpu.Scissor, hasClip, clippedOut bool) {
	if len(e.clips) == 0 {
		return gpu.Scissor{}, false, false
	}
	clip := e.clips[0]
	for _, r := range e.clips[1:] {
		clip = clip.Intersect(r)
	}
	if clip.IsEmpty() {
		return gpu.Scissor{}, true, true
	}

	v := e.viewport()
	phys := Rectangle{
		X:      clip.X * e.dpi,
		Y:      clip.Y * e.dpi,
		Width:  clip.Width * e.dpi,
		Height: clip.Height * e.dpi,
	}.Intersect(Rect(0, 0, v.Width, v.Height))
	if phys.IsEmpty() {
		return gpu.Scissor{}, true, true
	}
	return gpu.Scissor{
		X:      uint32(phys.X),
		Y:      uint32(phys.Y),
		Width:  uint32(phys.Width),
		Height: uint32(phys.Height),
	}, true, false
}
