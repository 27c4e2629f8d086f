// package animator drives clip playback for a single skeleton: a clock with
// a speed multiplier, loop wrap, event reporting, and crossfade transitions
// between clips. The animator samples clips into bone-local transforms; it
// never touches world transforms, which the owner recomputes after applying.
package animator

import (
	"math"

	"github.com/Carmen-Shannon/rig-go/common"
	"github.com/Carmen-Shannon/rig-go/engine/clip"
	"github.com/Carmen-Shannon/rig-go/engine/skeleton"
)

// Animator owns the playback state for one skeleton.
type Animator interface {
	// Play starts a clip from time zero at the current speed.
	//
	// Parameters:
	//   - c: the clip to play
	Play(c clip.AnimationClip)

	// CrossFade transitions from the current clip to a new one over a blend
	// window. The outgoing clip keeps advancing during the blend; when the
	// window elapses the incoming clip becomes current. With no current clip,
	// or a non-positive duration, CrossFade behaves like Play.
	//
	// Parameters:
	//   - c: the incoming clip
	//   - duration: blend window in seconds
	CrossFade(c clip.AnimationClip, duration float64)

	// Stop clears the current clip and resets the clock.
	Stop()

	// Pause halts the clock without losing position.
	Pause()

	// Resume restarts a paused clock.
	Resume()

	// Playing reports whether Advance moves the clock.
	//
	// Returns:
	//   - bool: true while a clip is playing
	Playing() bool

	// Clip returns the current clip, or nil when stopped.
	//
	// Returns:
	//   - clip.AnimationClip: the current clip
	Clip() clip.AnimationClip

	// Time returns the playback position in seconds.
	//
	// Returns:
	//   - float64: the clock position
	Time() float64

	// SetTime moves the clock without firing events. Negative values clamp
	// to zero.
	//
	// Parameters:
	//   - t: the new position in seconds
	SetTime(t float64)

	// Speed returns the playback speed multiplier.
	//
	// Returns:
	//   - float64: the multiplier (1 is real time)
	Speed() float64

	// SetSpeed sets the playback speed multiplier.
	//
	// Parameters:
	//   - s: the multiplier; 0 freezes the clock, negative plays backwards
	SetSpeed(s float64)

	// Advance moves the clock by a frame delta and returns the animation
	// events whose trigger time was crossed, in order. Looping clips wrap
	// the clock by modulo and report events across the wrap; non-looping
	// clips clamp at the duration and stop.
	//
	// Parameters:
	//   - dt: elapsed seconds since the previous frame
	//
	// Returns:
	//   - []clip.AnimationEvent: events crossed this frame, possibly nil
	Advance(dt float64) []clip.AnimationEvent

	// Apply samples the current clip (and the incoming clip during a
	// crossfade) into the skeleton's bone-local transforms. The caller
	// recomputes world transforms afterwards.
	Apply()
}

type animator struct {
	skel    skeleton.Skeleton
	current clip.AnimationClip
	next    clip.AnimationClip
	state   playbackState

	// blendScratch holds the outgoing pose while blending two clips.
	blendScratch []common.Transform
}

var _ Animator = &animator{}

// NewAnimator creates an animator bound to a skeleton, with no clip playing.
//
// Parameters:
//   - skel: the skeleton the animator samples into
//   - options: optional configuration
//
// Returns:
//   - Animator: the idle animator
func NewAnimator(skel skeleton.Skeleton, options ...AnimatorOption) Animator {
	a := &animator{
		skel:  skel,
		state: playbackState{speed: 1},
	}
	for _, opt := range options {
		opt(a)
	}
	return a
}

func (a *animator) Play(c clip.AnimationClip) {
	a.current = c
	a.next = nil
	a.state.time = 0
	a.state.playing = c != nil
	a.state.blending = false
	a.state.blendElapsed = 0
	a.state.blendTime = 0
}

func (a *animator) CrossFade(c clip.AnimationClip, duration float64) {
	if a.current == nil || duration <= 0 {
		a.Play(c)
		return
	}
	a.next = c
	a.state.blending = true
	a.state.blendElapsed = 0
	a.state.blendTime = 0
	a.state.blendLength = duration
	a.state.playing = true
}

func (a *animator) Stop() {
	a.current = nil
	a.next = nil
	a.state.time = 0
	a.state.playing = false
	a.state.blending = false
}

func (a *animator) Pause() {
	a.state.playing = false
}

func (a *animator) Resume() {
	if a.current != nil {
		a.state.playing = true
	}
}

func (a *animator) Playing() bool {
	return a.state.playing
}

func (a *animator) Clip() clip.AnimationClip {
	return a.current
}

func (a *animator) Time() float64 {
	return a.state.time
}

func (a *animator) SetTime(t float64) {
	if t < 0 {
		t = 0
	}
	a.state.time = t
}

func (a *animator) Speed() float64 {
	return a.state.speed
}

func (a *animator) SetSpeed(s float64) {
	a.state.speed = s
}

func (a *animator) Advance(dt float64) []clip.AnimationEvent {
	if !a.state.playing || a.current == nil {
		return nil
	}

	prev := a.state.time
	a.state.time += dt * a.state.speed

	var events []clip.AnimationEvent
	duration := a.current.Duration()
	switch {
	case a.current.Looping() && duration > 0 && a.state.time > duration:
		events = append(events, a.current.EventsBetween(prev, duration)...)
		a.state.time = math.Mod(a.state.time, duration)
		events = append(events, a.current.EventsBetween(-1, a.state.time)...)
	case !a.current.Looping() && a.state.time >= duration:
		a.state.time = duration
		a.state.playing = false
		events = append(events, a.current.EventsBetween(prev, duration)...)
	default:
		events = append(events, a.current.EventsBetween(prev, a.state.time)...)
	}

	if a.state.blending && a.next != nil {
		a.state.blendElapsed += dt
		blendPrev := a.state.blendTime
		a.state.blendTime += dt * a.state.speed
		if d := a.next.Duration(); a.next.Looping() && d > 0 && a.state.blendTime > d {
			events = append(events, a.next.EventsBetween(blendPrev, d)...)
			a.state.blendTime = math.Mod(a.state.blendTime, d)
			events = append(events, a.next.EventsBetween(-1, a.state.blendTime)...)
		} else {
			events = append(events, a.next.EventsBetween(blendPrev, a.state.blendTime)...)
		}

		if a.state.blendElapsed >= a.state.blendLength {
			a.current = a.next
			a.next = nil
			a.state.time = a.state.blendTime
			a.state.blending = false
		}
	}

	return events
}

func (a *animator) Apply() {
	if a.current == nil {
		return
	}
	a.current.Apply(a.skel, a.state.time)
	if !a.state.blending || a.next == nil {
		return
	}

	// Snapshot the outgoing pose, sample the incoming clip on top, then lerp
	// bone locals between the two by blend progress.
	bones := a.skel.Bones()
	if cap(a.blendScratch) < len(bones) {
		a.blendScratch = make([]common.Transform, len(bones))
	}
	a.blendScratch = a.blendScratch[:len(bones)]
	for i, b := range bones {
		a.blendScratch[i] = b.Local
	}

	a.next.Apply(a.skel, a.state.blendTime)

	progress := common.Clamp(a.state.blendElapsed/a.state.blendLength, 0, 1)
	for i, b := range bones {
		from := a.blendScratch[i]
		b.Local.X = common.Lerp(from.X, b.Local.X, progress)
		b.Local.Y = common.Lerp(from.Y, b.Local.Y, progress)
		b.Local.Rotation = common.LerpAngle(from.Rotation, b.Local.Rotation, progress)
		b.Local.ScaleX = common.Lerp(from.ScaleX, b.Local.ScaleX, progress)
		b.Local.ScaleY = common.Lerp(from.ScaleY, b.Local.ScaleY, progress)
	}
}
