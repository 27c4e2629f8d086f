package animator

// AnimatorOption configures an animator at construction.
type AnimatorOption func(*animator)

// WithSpeed sets the initial playback speed multiplier.
//
// Parameters:
//   - s: the multiplier; 1 is real time
//
// Returns:
//   - AnimatorOption: the option to apply
func WithSpeed(s float64) AnimatorOption {
	return func(a *animator) {
		a.state.speed = s
	}
}
