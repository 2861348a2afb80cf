package quad

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/quad/internal/gpu"
	"github.com/gogpu/quad/internal/raster"
	"github.com/gogpu/quad/text"
	"github.com/gogpu/wgpu/hal"
)

// Engine is the immediate-mode renderer. Draw calls between BeginFrame
// and EndFrame queue instanced quads; EndFrame sorts them by z,
// batches adjacent draws sharing texture and clip state, and renders
// the batch list on the GPU or the CPU reference rasterizer.
//
// An Engine is confined to the goroutine that created it.
type Engine struct {
	target Target
	size   Size
	dpi    float32

	clearColor    Color
	maxTextureDim int

	// GPU path, nil on the CPU path.
	device   hal.Device
	queue    hal.Queue
	renderer *gpu.Renderer
	frame    *gpu.OffscreenTarget

	// CPU path, nil on the GPU path.
	cpu    *raster.Renderer
	pixels *image.RGBA

	pool *gpu.TransformPool

	textures map[uuid.UUID]*gpu.Texture
	atlases  map[uuid.UUID]*textureAtlas
	fonts    map[string]*loadedFont

	camera *Camera
	items  renderQueue
	clips  []Rectangle

	metrics     *FrameTimeMetrics
	frameActive bool
	closed      bool
	log         *slog.Logger
}

// loadedFont pairs a font's layout data with its atlas texture.
type loadedFont struct {
	font    *text.Font
	texture uuid.UUID
}

// New creates an engine rendering to target at the given logical size
// and dpi factor.
func New(target Target, size Size, dpi float32, opts ...Option) (*Engine, error) {
	if size.IsEmpty() {
		return nil, fmt.Errorf("%w: %vx%v", ErrInvalidDimensions, size.Width, size.Height)
	}
	if dpi <= 0 {
		return nil, fmt.Errorf("%w: dpi factor %v", ErrInvalidDimensions, dpi)
	}

	e := &Engine{
		target:        target,
		size:          size,
		dpi:           dpi,
		clearColor:    defaultClearColor,
		maxTextureDim: defaultMaxTextureDim,
		textures:      make(map[uuid.UUID]*gpu.Texture),
		atlases:       make(map[uuid.UUID]*textureAtlas),
		fonts:         make(map[string]*loadedFont),
		camera:        NewCamera(),
		metrics:       NewFrameTimeMetrics(0),
		log:           Logger(),
	}
	for _, opt := range opts {
		opt(e)
	}

	switch t := target.(type) {
	case *SurfaceTarget:
		e.device = t.device
		e.queue = t.queue
		r, err := gpu.NewRenderer(t.device, t.queue, t.format, e.log)
		if err != nil {
			return nil, err
		}
		e.renderer = r
		if err := e.configureTargets(); err != nil {
			r.Destroy()
			return nil, err
		}
	case OffscreenTarget:
		if err := e.configureTargets(); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("quad: unsupported target %T", target)
	}

	e.pool = gpu.NewTransformPool(e.device, e.queue)
	return e, nil
}

// viewport returns the physical render size.
func (e *Engine) viewport() Size {
	return e.size.Scale(e.dpi)
}

func (e *Engine) viewportPixels() (int, int) {
	v := e.viewport()
	return int(v.Width), int(v.Height)
}

// configureTargets (re)creates the render destination at the current
// physical size.
func (e *Engine) configureTargets() error {
	w, h := e.viewportPixels()
	if w <= 0 || h <= 0 {
		return fmt.Errorf("%w: viewport %dx%d", ErrInvalidDimensions, w, h)
	}

	if e.renderer != nil {
		if e.frame != nil {
			e.frame.Destroy()
			e.frame = nil
		}
		frame, err := gpu.NewOffscreenTarget(e.device, uint32(w), uint32(h))
		if err != nil {
			return fmt.Errorf("%w: %v", ErrSurfaceLost, err)
		}
		e.frame = frame
		return nil
	}

	e.cpu = raster.NewRenderer(w, h)
	e.pixels = image.NewRGBA(image.Rect(0, 0, w, h))
	return nil
}

// Size returns the logical render size.
func (e *Engine) Size() Size { return e.size }

// DPIFactor returns the logical-to-physical scale.
func (e *Engine) DPIFactor() float32 { return e.dpi }

// Camera returns the engine camera for direct control.
func (e *Engine) Camera() *Camera { return e.camera }

// SetCameraPos moves the camera, honoring its boundary.
func (e *Engine) SetCameraPos(p Position) { e.camera.SetPos(p) }

// SetCameraTarget records the id of the object the camera follows.
func (e *Engine) SetCameraTarget(id uuid.UUID) { e.camera.SetTetherTarget(id) }

// Metrics returns the engine's frame-time metrics.
func (e *Engine) Metrics() *FrameTimeMetrics { return e.metrics }

// Resize changes the logical render size and rebuilds the render
// target. Not allowed mid-frame.
func (e *Engine) Resize(size Size) error {
	if e.closed {
		return ErrEngineClosed
	}
	if e.frameActive {
		return ErrFrameActive
	}
	if size.IsEmpty() {
		return fmt.Errorf("%w: %vx%v", ErrInvalidDimensions, size.Width, size.Height)
	}
	old := e.size
	e.size = size
	if err := e.configureTargets(); err != nil {
		e.size = old
		return err
	}
	return nil
}

// SetDPIFactor changes the logical-to-physical scale and rebuilds the
// render target. Fonts and SVG textures keep the resolution they were
// created at.
func (e *Engine) SetDPIFactor(dpi float32) error {
	if e.closed {
		return ErrEngineClosed
	}
	if e.frameActive {
		return ErrFrameActive
	}
	if dpi <= 0 {
		return fmt.Errorf("%w: dpi factor %v", ErrInvalidDimensions, dpi)
	}
	old := e.dpi
	e.dpi = dpi
	if err := e.configureTargets(); err != nil {
		e.dpi = old
		return err
	}
	return nil
}

// BeginFrame starts a frame. Draw calls are only valid until the
// matching EndFrame.
func (e *Engine) BeginFrame() error {
	if e.closed {
		return ErrEngineClosed
	}
	if e.frameActive {
		return ErrFrameActive
	}
	e.items.reset()
	e.pool.Reset()
	// Slot 0 is the frame's view transform, bound for every pipeline.
	// Placement rides in the per-instance models, so the view itself is
	// identity.
	e.pool.Alloc(gpu.TransformUniform{Model: gpu.Identity()})
	e.clips = e.clips[:0]
	e.frameActive = true
	return nil
}

// EndFrame sorts and batches the queued draws and renders them. On
// surface targets, ErrSurfaceLost and ErrSurfaceOutdated reconfigure
// the target and skip the frame; ErrSurfaceTimeout skips the frame.
func (e *Engine) EndFrame() error {
	if e.closed {
		return ErrEngineClosed
	}
	if !e.frameActive {
		return ErrNoActiveFrame
	}
	e.frameActive = false

	start := time.Now()
	batches := e.items.batches()

	var err error
	if e.renderer != nil {
		err = e.renderGPU(batches)
	} else {
		e.cpu.Render(e.pixels, [4]float32(e.clearColor), batches, e.lookupTexture)
	}
	e.metrics.Record(time.Since(start))

	if err == nil {
		return nil
	}
	if errors.Is(err, ErrSurfaceLost) || errors.Is(err, ErrSurfaceOutdated) {
		if cfgErr := e.configureTargets(); cfgErr != nil {
			e.log.Warn("surface reconfigure failed", "error", cfgErr)
		}
		return err
	}
	if errors.Is(err, gpu.ErrWaitTimeout) {
		return fmt.Errorf("%w: %v", ErrSurfaceTimeout, err)
	}
	return err
}

func (e *Engine) renderGPU(batches []gpu.Batch) error {
	w, h := e.viewportPixels()
	clear := gputypes.Color{
		R: float64(e.clearColor[0]),
		G: float64(e.clearColor[1]),
		B: float64(e.clearColor[2]),
		A: float64(e.clearColor[3]),
	}
	return e.renderer.RenderFrame(e.frame.View(), uint32(w), uint32(h), clear,
		batches, e.pool, e.lookupTexture)
}

// lookupTexture resolves batch texture ids for both render paths.
func (e *Engine) lookupTexture(id uuid.UUID) (*gpu.Texture, bool) {
	t, ok := e.textures[id]
	return t, ok
}

// FrameView returns the GPU texture view holding the last rendered
// frame on a surface target, for the host to composite. Nil on the
// CPU path.
func (e *Engine) FrameView() hal.TextureView {
	if e.frame == nil {
		return nil
	}
	return e.frame.View()
}

// ReadPixels returns a copy of the last rendered frame.
func (e *Engine) ReadPixels() (*image.RGBA, error) {
	if e.closed {
		return nil, ErrEngineClosed
	}
	w, h := e.viewportPixels()
	out := image.NewRGBA(image.Rect(0, 0, w, h))

	if e.renderer != nil {
		if err := e.renderer.Readback(e.frame, out.Pix); err != nil {
			if errors.Is(err, gpu.ErrWaitTimeout) {
				return nil, fmt.Errorf("%w: %v", ErrSurfaceTimeout, err)
			}
			return nil, err
		}
		return out, nil
	}
	copy(out.Pix, e.pixels.Pix)
	return out, nil
}

// Close releases every resource the engine owns. Further calls on the
// engine return ErrEngineClosed.
func (e *Engine) Close() error {
	if e.closed {
		return ErrEngineClosed
	}
	e.closed = true
	e.frameActive = false

	for id, t := range e.textures {
		t.Release()
		delete(e.textures, id)
	}
	e.atlases = nil
	e.fonts = nil

	if e.pool != nil {
		e.pool.Destroy()
	}
	if e.frame != nil {
		e.frame.Destroy()
		e.frame = nil
	}
	if e.renderer != nil {
		e.renderer.Destroy()
		e.renderer = nil
	}
	return nil
}
