package quad

// defaultMaxTextureDim caps texture width and height in physical
// pixels.
const defaultMaxTextureDim = 8192

// defaultClearColor is the frame background when none is configured.
var defaultClearColor = Color{0.1, 0.2, 0.3, 1.0}

// Option configures an Engine at construction.
type Option func(*Engine)

// WithClearColor sets the color EndFrame clears the target to.
func WithClearColor(c Color) Option {
	return func(e *Engine) { e.clearColor = c }
}

// WithMaxTextureDim overrides the maximum texture dimension in
// physical pixels. Larger pixmaps fail with ErrPixmapTooLarge.
func WithMaxTextureDim(dim int) Option {
	return func(e *Engine) {
		if dim > 0 {
			e.maxTextureDim = dim
		}
	}
}

// WithMetricsReport makes the engine log a frame-time summary at Debug
// every n frames.
func WithMetricsReport(n int) Option {
	return func(e *Engine) { e.metrics.ReportEvery(n) }
}
