package skeleton

import "github.com/Carmen-Shannon/rig-go/common"

// BoneOption is a functional option for configuring a Bone via AddBone.
type BoneOption func(*Bone)

// WithLength is an option builder that sets the bone's length along local +X.
//
// Parameters:
//   - length: the bone length in world units
//
// Returns:
//   - BoneOption: a function that applies the length option to a bone
func WithLength(length float64) BoneOption {
	return func(b *Bone) {
		b.Length = length
	}
}

// WithSetupTransform is an option builder that sets the bone's setup pose.
// The local transform is initialized to the same pose.
//
// Parameters:
//   - tf: the setup transform
//
// Returns:
//   - BoneOption: a function that applies the setup transform option to a bone
func WithSetupTransform(tf common.Transform) BoneOption {
	return func(b *Bone) {
		b.Setup = tf
		b.Local = tf
	}
}

// WithInheritRotation is an option builder that sets whether the parent's
// world rotation propagates to this bone.
//
// Parameters:
//   - inherit: true to inherit parent rotation
//
// Returns:
//   - BoneOption: a function that applies the inherit-rotation option to a bone
func WithInheritRotation(inherit bool) BoneOption {
	return func(b *Bone) {
		b.InheritRotation = inherit
	}
}

// WithInheritScale is an option builder that sets whether the parent's world
// scale propagates to this bone.
//
// Parameters:
//   - inherit: true to inherit parent scale
//
// Returns:
//   - BoneOption: a function that applies the inherit-scale option to a bone
func WithInheritScale(inherit bool) BoneOption {
	return func(b *Bone) {
		b.InheritScale = inherit
	}
}

// WithBoneDrawOrder is an option builder that sets the bone's draw order key.
//
// Parameters:
//   - order: the stable sort key
//
// Returns:
//   - BoneOption: a function that applies the draw order option to a bone
func WithBoneDrawOrder(order int) BoneOption {
	return func(b *Bone) {
		b.DrawOrder = order
	}
}

// SlotOption is a functional option for configuring a Slot via AddSlot.
type SlotOption func(*Slot)

// WithAttachment is an option builder that sets the slot's attachment.
//
// Parameters:
//   - a: the attachment to bind, or nil
//
// Returns:
//   - SlotOption: a function that applies the attachment option to a slot
func WithAttachment(a *Attachment) SlotOption {
	return func(s *Slot) {
		s.Attachment = a
	}
}

// WithDrawOrder is an option builder that sets the slot's draw order key.
//
// Parameters:
//   - order: the stable sort key
//
// Returns:
//   - SlotOption: a function that applies the draw order option to a slot
func WithDrawOrder(order int) SlotOption {
	return func(s *Slot) {
		s.DrawOrder = order
	}
}

// WithBlend is an option builder that sets the slot's blend mode.
//
// Parameters:
//   - mode: the compositing blend mode
//
// Returns:
//   - SlotOption: a function that applies the blend option to a slot
func WithBlend(mode BlendMode) SlotOption {
	return func(s *Slot) {
		s.Blend = mode
	}
}

// WithTint is an option builder that sets the slot's RGBA tint.
//
// Parameters:
//   - tint: the tint color
//
// Returns:
//   - SlotOption: a function that applies the tint option to a slot
func WithTint(tint Color) SlotOption {
	return func(s *Slot) {
		s.Tint = tint
	}
}
