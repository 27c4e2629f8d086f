package animator

import (
	"math"
	"testing"

	"github.com/Carmen-Shannon/rig-go/engine/clip"
	"github.com/Carmen-Shannon/rig-go/engine/curve"
	"github.com/Carmen-Shannon/rig-go/engine/skeleton"
)

const epsilon = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) <= epsilon
}

func buildRig(t *testing.T) skeleton.Skeleton {
	t.Helper()
	skel := skeleton.NewSkeleton("rig")
	if _, err := skel.AddBone("root", ""); err != nil {
		t.Fatalf("AddBone: %v", err)
	}
	return skel
}

// rotationClip keys root rotation linearly from 0 at t=0 to 90 at t=duration.
func rotationClip(t *testing.T, duration float64, looping bool) clip.AnimationClip {
	t.Helper()
	c := clip.NewAnimationClip("turn", clip.WithDuration(duration), clip.WithLooping(looping))
	tr := c.Track("root", clip.PropRotation)
	tr.SetKeyframe(0, 0, curve.Linear())
	tr.SetKeyframe(duration, 90, curve.Linear())
	return c
}

func TestAdvanceLoopWrap(t *testing.T) {
	// Looping clip of duration 2.0 advanced past the end wraps by modulo and
	// samples as if at the wrapped time.
	skel := buildRig(t)
	a := NewAnimator(skel)
	a.Play(rotationClip(t, 2.0, true))

	a.Advance(2.5)
	if !almostEqual(a.Time(), 0.5) {
		t.Fatalf("Time() = %v, want 0.5", a.Time())
	}

	a.Apply()
	b, _ := skel.Bone("root")
	if !almostEqual(b.Local.Rotation, 22.5) {
		t.Errorf("rotation = %v, want 22.5 (sample at 0.5 of 2.0)", b.Local.Rotation)
	}
}

func TestAdvanceNonLoopingClampsAndStops(t *testing.T) {
	skel := buildRig(t)
	a := NewAnimator(skel)
	a.Play(rotationClip(t, 2.0, false))

	a.Advance(3.0)
	if !almostEqual(a.Time(), 2.0) {
		t.Errorf("Time() = %v, want clamped 2.0", a.Time())
	}
	if a.Playing() {
		t.Error("Playing() = true after the clip finished, want false")
	}

	a.Apply()
	b, _ := skel.Bone("root")
	if !almostEqual(b.Local.Rotation, 90) {
		t.Errorf("rotation = %v, want 90", b.Local.Rotation)
	}
}

func TestAdvanceSpeedMultiplier(t *testing.T) {
	skel := buildRig(t)
	a := NewAnimator(skel, WithSpeed(2))
	a.Play(rotationClip(t, 10, false))

	a.Advance(1)
	if !almostEqual(a.Time(), 2) {
		t.Errorf("Time() = %v, want 2", a.Time())
	}

	a.SetSpeed(0.5)
	a.Advance(1)
	if !almostEqual(a.Time(), 2.5) {
		t.Errorf("Time() = %v, want 2.5", a.Time())
	}
}

func TestAdvanceFiresCrossedEvents(t *testing.T) {
	skel := buildRig(t)
	c := rotationClip(t, 2.0, true)
	c.AddEvent(clip.AnimationEvent{Time: 0.5, Name: "step"})
	c.AddEvent(clip.AnimationEvent{Time: 1.5, Name: "plant"})

	a := NewAnimator(skel)
	a.Play(c)

	events := a.Advance(1.0)
	if len(events) != 1 || events[0].Name != "step" {
		t.Fatalf("events = %v, want [step]", events)
	}

	events = a.Advance(0.25)
	if len(events) != 0 {
		t.Fatalf("events = %v, want none", events)
	}

	// 1.25 -> 2.0 -> wraps to 0.75: crosses plant before the wrap and step
	// after it, in that order.
	events = a.Advance(1.5)
	if len(events) != 2 || events[0].Name != "plant" || events[1].Name != "step" {
		t.Fatalf("events = %v, want [plant step]", events)
	}
}

func TestEventAtTimeZeroFiresAfterWrap(t *testing.T) {
	skel := buildRig(t)
	c := rotationClip(t, 1.0, true)
	c.AddEvent(clip.AnimationEvent{Time: 0, Name: "start"})

	a := NewAnimator(skel)
	a.Play(c)

	events := a.Advance(1.25)
	if len(events) != 1 || events[0].Name != "start" {
		t.Fatalf("events = %v, want [start]", events)
	}
}

func TestSetTimeDoesNotFireEvents(t *testing.T) {
	skel := buildRig(t)
	c := rotationClip(t, 2.0, false)
	c.AddEvent(clip.AnimationEvent{Time: 0.5, Name: "step"})

	a := NewAnimator(skel)
	a.Play(c)
	a.SetTime(1.0)

	if events := a.Advance(0.1); len(events) != 0 {
		t.Fatalf("events = %v, want none after seeking past the trigger", events)
	}
}

func TestPauseResume(t *testing.T) {
	skel := buildRig(t)
	a := NewAnimator(skel)
	a.Play(rotationClip(t, 2.0, false))

	a.Advance(0.5)
	a.Pause()
	a.Advance(0.5)
	if !almostEqual(a.Time(), 0.5) {
		t.Errorf("Time() = %v, want 0.5 while paused", a.Time())
	}

	a.Resume()
	a.Advance(0.5)
	if !almostEqual(a.Time(), 1.0) {
		t.Errorf("Time() = %v, want 1.0 after resume", a.Time())
	}
}

func TestCrossFadeBlendsPoses(t *testing.T) {
	skel := buildRig(t)

	// Two constant-pose clips: rotation held at 0 and at 90.
	from := clip.NewAnimationClip("from", clip.WithDuration(10))
	from.Track("root", clip.PropRotation).SetKeyframe(0, 0, curve.Linear())
	to := clip.NewAnimationClip("to", clip.WithDuration(10))
	to.Track("root", clip.PropRotation).SetKeyframe(0, 90, curve.Linear())

	a := NewAnimator(skel)
	a.Play(from)
	a.CrossFade(to, 1.0)

	a.Advance(0.5)
	a.Apply()
	b, _ := skel.Bone("root")
	if !almostEqual(b.Local.Rotation, 45) {
		t.Errorf("rotation mid-blend = %v, want 45", b.Local.Rotation)
	}

	a.Advance(0.5)
	if a.Clip() != to {
		t.Error("incoming clip did not become current after the blend window")
	}
	a.Apply()
	if !almostEqual(b.Local.Rotation, 90) {
		t.Errorf("rotation after blend = %v, want 90", b.Local.Rotation)
	}
}

func TestCrossFadeWithoutCurrentActsAsPlay(t *testing.T) {
	skel := buildRig(t)
	c := rotationClip(t, 2.0, false)

	a := NewAnimator(skel)
	a.CrossFade(c, 1.0)
	if a.Clip() != c {
		t.Error("CrossFade with no current clip should start the clip directly")
	}
	if !a.Playing() {
		t.Error("Playing() = false, want true")
	}
}

func TestStopClearsState(t *testing.T) {
	skel := buildRig(t)
	a := NewAnimator(skel)
	a.Play(rotationClip(t, 2.0, true))
	a.Advance(1)
	a.Stop()

	if a.Clip() != nil || a.Playing() || a.Time() != 0 {
		t.Errorf("Stop() left state: clip=%v playing=%v time=%v", a.Clip(), a.Playing(), a.Time())
	}
	if events := a.Advance(1); events != nil {
		t.Errorf("Advance after Stop returned events: %v", events)
	}
}
