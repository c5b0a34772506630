// Package imaging is the image side of the MCP server: it decodes files,
// caches them with their precomputed gradient fields, samples pixels, and
// renders query overlays.
//
// The numeric work lives in package tensor, which never touches files.
// This package turns any decodable image into the packed RGBA buffer tensor
// expects and keeps the result for reuse.
//
// # Coordinate System
//
// All pixel coordinates are 0-based with the origin at the top-left corner:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//
// Points outside the image are clamped to the nearest pixel, both for
// pixel samples and for overlay anchors.
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. Cached images are never mutated;
// RenderOverlay draws on a copy.
//
// # Error Handling
//
// Load returns errors for unreadable or undecodable files and for images
// that the tensor package rejects. RenderOverlay returns errors for invalid
// colours and for scale factors that would produce an empty image.
package imaging
