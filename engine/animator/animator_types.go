package animator

// playbackState holds the playback cursor for one clip: the clock, the speed
// multiplier, and the crossfade bookkeeping when a transition is in flight.
type playbackState struct {
	time         float64
	speed        float64
	playing      bool
	blending     bool
	blendElapsed float64
	blendTime    float64
	blendLength  float64
}
