// Package quad is an immediate-mode 2D sprite and UI renderer over a
// wgpu-style GPU API.
//
// The engine owns textures, texture atlases and font atlases, and draws
// them as instanced quads. Each frame the caller queues draws between
// BeginFrame and EndFrame; EndFrame sorts the queue by z, batches
// adjacent items that share a texture and clip state, and submits one
// instanced draw per batch.
//
// Coordinates are logical units. The engine multiplies by the DPI
// factor exactly once when building GPU transforms, so callers never
// deal with physical pixels directly.
//
// A CPU reference rasterizer executes the same batched draw list for
// offscreen targets, which is what the snapshot tests run against.
package quad
