package render

import "github.com/gogpu/gg"

// RendererOption configures a renderer at construction.
type RendererOption func(*renderer)

// WithZoom sets the world-units-to-pixels scale factor.
//
// Parameters:
//   - zoom: pixels per world unit, clamped to a small positive minimum
//
// Returns:
//   - RendererOption: the option to apply
func WithZoom(zoom float64) RendererOption {
	return func(r *renderer) {
		if zoom < 1e-6 {
			zoom = 1e-6
		}
		r.zoom = zoom
	}
}

// WithBackground sets the canvas clear color. The default is transparent.
//
// Parameters:
//   - col: the background color
//
// Returns:
//   - RendererOption: the option to apply
func WithBackground(col gg.RGBA) RendererOption {
	return func(r *renderer) {
		r.background = col
	}
}

// WithBoneOverlay enables drawing bone segments and joints on top of the
// attachments.
//
// Parameters:
//   - enabled: whether to draw the overlay
//
// Returns:
//   - RendererOption: the option to apply
func WithBoneOverlay(enabled bool) RendererOption {
	return func(r *renderer) {
		r.drawBones = enabled
	}
}
