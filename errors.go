package quad

import "errors"

// Errors returned by engine operations. Callers classify with errors.Is;
// wrapped variants carry path or resource detail.
var (
	// ErrResourceNotFound is returned when a file backing a texture,
	// atlas or font cannot be read.
	ErrResourceNotFound = errors.New("quad: resource not found")

	// ErrInvalidFontData is returned when font bytes fail to parse.
	ErrInvalidFontData = errors.New("quad: invalid font data")

	// ErrAtlasRender is returned when glyph rasterization produces no
	// usable coverage for a font atlas.
	ErrAtlasRender = errors.New("quad: atlas render failed")

	// ErrVectorParse is returned when an SVG document fails to parse.
	ErrVectorParse = errors.New("quad: vector parse failed")

	// ErrImageDecode is returned when a raster image fails to decode.
	ErrImageDecode = errors.New("quad: image decode failed")

	// ErrPixmapTooLarge is returned when a decoded pixmap exceeds the
	// maximum texture dimension.
	ErrPixmapTooLarge = errors.New("quad: pixmap too large")

	// ErrNoActiveFrame is returned by draw operations outside a
	// BeginFrame/EndFrame pair.
	ErrNoActiveFrame = errors.New("quad: no active frame")

	// ErrFrameActive is returned by BeginFrame when the previous frame
	// was never ended.
	ErrFrameActive = errors.New("quad: frame already active")

	// ErrEngineClosed is returned by operations on a closed engine.
	ErrEngineClosed = errors.New("quad: engine is closed")

	// ErrInvalidDimensions is returned when a size or viewport is not
	// positive.
	ErrInvalidDimensions = errors.New("quad: invalid dimensions")
)

// Surface acquisition errors surfaced by EndFrame on presentable targets.
var (
	// ErrSurfaceLost means the swapchain surface is gone and must be
	// reconfigured. EndFrame reconfigures and skips the frame.
	ErrSurfaceLost = errors.New("quad: surface lost")

	// ErrSurfaceOutdated means the surface no longer matches the window.
	// EndFrame reconfigures and skips the frame.
	ErrSurfaceOutdated = errors.New("quad: surface outdated")

	// ErrSurfaceTimeout means frame acquisition timed out. The frame is
	// skipped; the next frame retries.
	ErrSurfaceTimeout = errors.New("quad: surface acquire timeout")

	// ErrSurfaceOutOfMemory is fatal; the engine cannot recover.
	ErrSurfaceOutOfMemory = errors.New("quad: surface out of memory")
)
