// package clip implements keyframe tracks and the animation clips that group
// them, plus timeline events. A clip samples its tracks at a time value and
// writes the results into a skeleton's bone-local transforms.
package clip

import (
	"sort"

	"github.com/Carmen-Shannon/rig-go/common"
	"github.com/Carmen-Shannon/rig-go/engine/curve"
)

// KeyframeTrack is an ordered, time-unique sequence of keyframes for one
// scalar bone property. The sequence is always sorted ascending by time;
// inserting at an existing time replaces that keyframe.
type KeyframeTrack struct {
	// Property is the bone-local field this track animates.
	Property PropertyType

	keys []Keyframe
}

// NewKeyframeTrack creates an empty track for one property.
//
// Parameters:
//   - property: the animated property
//
// Returns:
//   - *KeyframeTrack: the new track
func NewKeyframeTrack(property PropertyType) *KeyframeTrack {
	return &KeyframeTrack{Property: property}
}

// SetKeyframe inserts a keyframe, keeping the sequence sorted by time.
// A keyframe already at the same time is replaced.
//
// Parameters:
//   - time: the keyframe timestamp in seconds
//   - value: the property value
//   - in: the easing curve toward the next keyframe
func (tr *KeyframeTrack) SetKeyframe(time, value float64, in curve.Interpolator) {
	idx := sort.Search(len(tr.keys), func(i int) bool { return tr.keys[i].Time >= time })
	key := Keyframe{Time: time, Value: value, Interpolator: in}

	if idx < len(tr.keys) && tr.keys[idx].Time == time {
		tr.keys[idx] = key
		return
	}
	tr.keys = append(tr.keys, Keyframe{})
	copy(tr.keys[idx+1:], tr.keys[idx:])
	tr.keys[idx] = key
}

// RemoveKeyframe removes the keyframe at an exact time, if present.
//
// Parameters:
//   - time: the keyframe timestamp in seconds
//
// Returns:
//   - bool: true if a keyframe was removed
func (tr *KeyframeTrack) RemoveKeyframe(time float64) bool {
	idx := sort.Search(len(tr.keys), func(i int) bool { return tr.keys[i].Time >= time })
	if idx >= len(tr.keys) || tr.keys[idx].Time != time {
		return false
	}
	tr.keys = append(tr.keys[:idx], tr.keys[idx+1:]...)
	return true
}

// KeyframeAt retrieves the keyframe at an exact time.
//
// Parameters:
//   - time: the keyframe timestamp in seconds
//
// Returns:
//   - Keyframe: the keyframe, or zero value
//   - bool: true if a keyframe exists at that time
func (tr *KeyframeTrack) KeyframeAt(time float64) (Keyframe, bool) {
	idx := sort.Search(len(tr.keys), func(i int) bool { return tr.keys[i].Time >= time })
	if idx >= len(tr.keys) || tr.keys[idx].Time != time {
		return Keyframe{}, false
	}
	return tr.keys[idx], true
}

// Keyframes returns the sorted keyframe sequence. The slice is shared, not
// copied; callers treat it as read-only.
//
// Returns:
//   - []Keyframe: the keyframes in ascending time order
func (tr *KeyframeTrack) Keyframes() []Keyframe {
	return tr.keys
}

// Len returns the number of keyframes.
//
// Returns:
//   - int: the keyframe count
func (tr *KeyframeTrack) Len() int {
	return len(tr.keys)
}

// Sample evaluates the track at a time value. The bracketing pair is found by
// binary search, the left keyframe's interpolator eases the normalized
// progress, and the result is the lerp of the two bracketing values.
//
// Boundary policy: times at or before the first keyframe return the first
// value, times at or after the last return the last value. There is no
// extrapolation or wraparound; looping is the caller's responsibility via
// modulo on time before sampling. An empty track returns the fallback.
//
// Parameters:
//   - time: the sample time in seconds
//   - fallback: the value returned when the track has no keyframes
//
// Returns:
//   - float64: the sampled value
func (tr *KeyframeTrack) Sample(time, fallback float64) float64 {
	n := len(tr.keys)
	switch {
	case n == 0:
		return fallback
	case n == 1:
		return tr.keys[0].Value
	}

	if time <= tr.keys[0].Time {
		return tr.keys[0].Value
	}
	if time >= tr.keys[n-1].Time {
		return tr.keys[n-1].Value
	}

	// First index with key time strictly greater than the sample time; the
	// bracket is then (idx-1, idx) with kA.Time <= time < kB.Time.
	idx := sort.Search(n, func(i int) bool { return tr.keys[i].Time > time })
	kA := &tr.keys[idx-1]
	kB := &tr.keys[idx]

	t := (time - kA.Time) / (kB.Time - kA.Time)
	return common.Lerp(kA.Value, kB.Value, kA.Interpolator.Ease(t))
}
