package clip

import (
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/rig-go/engine/curve"
	"github.com/Carmen-Shannon/rig-go/engine/skeleton"
)

// PropertyType identifies which bone-local field a track animates.
// Values are stable names used by serialization layers outside this module.
type PropertyType string

const (
	// PropTranslationX animates the bone's local X translation.
	PropTranslationX PropertyType = "translation-x"

	// PropTranslationY animates the bone's local Y translation.
	PropTranslationY PropertyType = "translation-y"

	// PropRotation animates the bone's local rotation in degrees.
	PropRotation PropertyType = "rotation"

	// PropScaleX animates the bone's local X scale.
	PropScaleX PropertyType = "scale-x"

	// PropScaleY animates the bone's local Y scale.
	PropScaleY PropertyType = "scale-y"
)

// applyTo writes a sampled value into the matching local-transform field.
func (p PropertyType) applyTo(b *skeleton.Bone, value float64) {
	switch p {
	case PropTranslationX:
		b.Local.X = value
	case PropTranslationY:
		b.Local.Y = value
	case PropRotation:
		b.Local.Rotation = value
	case PropScaleX:
		b.Local.ScaleX = value
	case PropScaleY:
		b.Local.ScaleY = value
	}
}

// TargetPath formats the "<boneName>.<property>" key a clip uses to map a
// track onto a bone field.
//
// Parameters:
//   - boneName: the target bone's name
//   - property: the animated property
//
// Returns:
//   - string: the target path
func TargetPath(boneName string, property PropertyType) string {
	return boneName + "." + string(property)
}

// SplitTargetPath parses a "<boneName>.<property>" target path.
// Bone names may themselves contain dots; the property is the suffix after
// the final dot.
//
// Parameters:
//   - path: the target path
//
// Returns:
//   - string: the bone name
//   - PropertyType: the property
//   - error: error if the path has no property suffix
func SplitTargetPath(path string) (string, PropertyType, error) {
	idx := strings.LastIndex(path, ".")
	if idx <= 0 || idx == len(path)-1 {
		return "", "", fmt.Errorf("clip: malformed target path %q", path)
	}
	return path[:idx], PropertyType(path[idx+1:]), nil
}

// Keyframe is a single (time, value, interpolator) sample on a track.
// The interpolator describes the easing used when interpolating from this
// keyframe to the next.
type Keyframe struct {
	// Time is the keyframe timestamp in seconds.
	Time float64

	// Value is the property value at this keyframe.
	Value float64

	// Interpolator is the easing curve toward the next keyframe.
	Interpolator curve.Interpolator
}

// AnimationEvent is a named marker on the clip's timeline with an optional
// payload, reported by the animator when playback crosses its time.
type AnimationEvent struct {
	// Time is the event timestamp in seconds.
	Time float64

	// Name is the event identifier.
	Name string

	// IntPayload, FloatPayload, and StringPayload are optional event data.
	IntPayload    int
	FloatPayload  float64
	StringPayload string
}
