package clip

import (
	"sort"

	"github.com/Carmen-Shannon/rig-go/engine/skeleton"
)

// animationClip is the implementation of the AnimationClip interface.
type animationClip struct {
	name     string
	duration float64
	looping  bool

	tracks     map[string]*KeyframeTrack // keyed by target path
	trackOrder []string                  // insertion order, for deterministic iteration

	events []AnimationEvent // sorted ascending by time
}

// AnimationClip defines the interface for a named collection of keyframe
// tracks (one per bone-property pair) plus a sequence of timed events.
//
// Authored track times are expected to lie within [0, Duration]. Editing the
// duration does not retroactively delete out-of-range keyframes; they become
// unreachable but are preserved until an explicit TrimToDuration call.
type AnimationClip interface {
	// Name retrieves the clip identifier.
	//
	// Returns:
	//   - string: the clip name
	Name() string

	// Duration retrieves the clip length in seconds.
	//
	// Returns:
	//   - float64: the duration in seconds
	Duration() float64

	// SetDuration changes the clip length. Keyframes beyond the new duration
	// are kept (unreachable, not deleted).
	//
	// Parameters:
	//   - seconds: the new duration
	SetDuration(seconds float64)

	// Looping reports whether the clip is authored to loop.
	//
	// Returns:
	//   - bool: true if the clip loops
	Looping() bool

	// SetLooping changes the clip's looping flag.
	//
	// Parameters:
	//   - looping: true to loop
	SetLooping(looping bool)

	// Track retrieves the track for a bone-property pair, creating it on
	// first use.
	//
	// Parameters:
	//   - boneName: the target bone's name
	//   - property: the animated property
	//
	// Returns:
	//   - *KeyframeTrack: the track
	Track(boneName string, property PropertyType) *KeyframeTrack

	// TrackAt retrieves an existing track by target path.
	//
	// Parameters:
	//   - path: the "<boneName>.<property>" target path
	//
	// Returns:
	//   - *KeyframeTrack: the track, or nil
	//   - bool: true if the track exists
	TrackAt(path string) (*KeyframeTrack, bool)

	// RemoveTrack removes a track by target path.
	//
	// Parameters:
	//   - path: the "<boneName>.<property>" target path
	//
	// Returns:
	//   - bool: true if a track was removed
	RemoveTrack(path string) bool

	// TrackPaths retrieves all target paths in insertion order.
	//
	// Returns:
	//   - []string: the target paths
	TrackPaths() []string

	// Apply samples every track at the given time and writes the values into
	// the matching bones' local transforms. Tracks whose target bone no
	// longer exists are skipped silently: missing targets are expected during
	// editing, not errors. Bones without a track for a property keep their
	// current value; callers needing a clean pose reset to setup pose first.
	//
	// Parameters:
	//   - skel: the target skeleton
	//   - time: the sample time in seconds
	Apply(skel skeleton.Skeleton, time float64)

	// AddEvent adds a timed event, keeping events sorted by time.
	//
	// Parameters:
	//   - event: the event to add
	AddEvent(event AnimationEvent)

	// Events retrieves all events sorted ascending by time. The slice is
	// shared, not copied; callers treat it as read-only.
	//
	// Returns:
	//   - []AnimationEvent: the events
	Events() []AnimationEvent

	// EventsBetween collects events with time in the half-open interval
	// (from, to]. Used by the animator to report events crossed during an
	// Advance step.
	//
	// Parameters:
	//   - from: exclusive lower bound in seconds
	//   - to: inclusive upper bound in seconds
	//
	// Returns:
	//   - []AnimationEvent: the crossed events in time order
	EventsBetween(from, to float64) []AnimationEvent

	// TrimToDuration deletes keyframes and events beyond the clip duration.
	// This is the explicit counterpart to SetDuration's keep-everything
	// policy.
	TrimToDuration()
}

var _ AnimationClip = &animationClip{}

// NewAnimationClip creates a new AnimationClip with the specified options applied.
//
// Parameters:
//   - name: the clip identifier
//   - options: a variadic list of ClipBuilderOption functions to configure the clip
//
// Returns:
//   - AnimationClip: a new clip configured with the provided options
func NewAnimationClip(name string, options ...ClipBuilderOption) AnimationClip {
	c := &animationClip{
		name:   name,
		tracks: make(map[string]*KeyframeTrack),
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

func (c *animationClip) Name() string {
	return c.name
}

func (c *animationClip) Duration() float64 {
	return c.duration
}

func (c *animationClip) SetDuration(seconds float64) {
	c.duration = seconds
}

func (c *animationClip) Looping() bool {
	return c.looping
}

func (c *animationClip) SetLooping(looping bool) {
	c.looping = looping
}

func (c *animationClip) Track(boneName string, property PropertyType) *KeyframeTrack {
	path := TargetPath(boneName, property)
	if tr, ok := c.tracks[path]; ok {
		return tr
	}
	tr := NewKeyframeTrack(property)
	c.tracks[path] = tr
	c.trackOrder = append(c.trackOrder, path)
	return tr
}

func (c *animationClip) TrackAt(path string) (*KeyframeTrack, bool) {
	tr, ok := c.tracks[path]
	return tr, ok
}

func (c *animationClip) RemoveTrack(path string) bool {
	if _, ok := c.tracks[path]; !ok {
		return false
	}
	delete(c.tracks, path)
	for i, p := range c.trackOrder {
		if p == path {
			c.trackOrder = append(c.trackOrder[:i], c.trackOrder[i+1:]...)
			break
		}
	}
	return true
}

func (c *animationClip) TrackPaths() []string {
	return c.trackOrder
}

func (c *animationClip) Apply(skel skeleton.Skeleton, time float64) {
	for _, path := range c.trackOrder {
		tr := c.tracks[path]
		boneName, property, err := SplitTargetPath(path)
		if err != nil {
			continue
		}
		bone, ok := skel.Bone(boneName)
		if !ok {
			// Deleted since authoring; an expected editing gap, not an error.
			continue
		}
		if tr.Len() == 0 {
			continue
		}
		property.applyTo(bone, tr.Sample(time, 0))
	}
}

func (c *animationClip) AddEvent(event AnimationEvent) {
	idx := sort.Search(len(c.events), func(i int) bool { return c.events[i].Time > event.Time })
	c.events = append(c.events, AnimationEvent{})
	copy(c.events[idx+1:], c.events[idx:])
	c.events[idx] = event
}

func (c *animationClip) Events() []AnimationEvent {
	return c.events
}

func (c *animationClip) EventsBetween(from, to float64) []AnimationEvent {
	if to < from {
		return nil
	}
	var out []AnimationEvent
	for i := range c.events {
		ev := &c.events[i]
		if ev.Time > from && ev.Time <= to {
			out = append(out, *ev)
		}
	}
	return out
}

func (c *animationClip) TrimToDuration() {
	for _, tr := range c.tracks {
		keys := tr.Keyframes()
		cut := sort.Search(len(keys), func(i int) bool { return keys[i].Time > c.duration })
		tr.keys = keys[:cut]
	}
	cut := sort.Search(len(c.events), func(i int) bool { return c.events[i].Time > c.duration })
	c.events = c.events[:cut]
}

// ClipBuilderOption is a functional option for configuring an AnimationClip
// via NewAnimationClip.
type ClipBuilderOption func(*animationClip)

// WithDuration is an option builder that sets the clip duration in seconds.
//
// Parameters:
//   - seconds: the clip duration
//
// Returns:
//   - ClipBuilderOption: a function that applies the duration option to a clip
func WithDuration(seconds float64) ClipBuilderOption {
	return func(c *animationClip) {
		c.duration = seconds
	}
}

// WithLooping is an option builder that sets whether the clip loops.
//
// Parameters:
//   - looping: true to loop
//
// Returns:
//   - ClipBuilderOption: a function that applies the looping option to a clip
func WithLooping(looping bool) ClipBuilderOption {
	return func(c *animationClip) {
		c.looping = looping
	}
}
