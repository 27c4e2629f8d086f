package skeleton

import (
	"github.com/Carmen-Shannon/rig-go/common"
	"github.com/Carmen-Shannon/rig-go/engine/mesh"
)

// --- Bone Types ---

// Bone represents a single bone in a skeleton hierarchy.
// Bones are owned by their Skeleton and stored in a flat, topologically
// ordered container; the parent link is an index into that container rather
// than a pointer, which makes cycles impossible by construction.
type Bone struct {
	// Name is the bone's identifier, unique within its skeleton.
	Name string

	// ParentIndex is the index of the parent bone (-1 for root bones).
	ParentIndex int

	// Length is the bone's length along its local +X axis, used for the
	// end-effector position during IK and for rendering.
	Length float64

	// Local is the bone's transform relative to its parent.
	// Updated each frame during animation playback.
	Local common.Transform

	// Setup is the bind/reference pose. It is immutable after rig authoring
	// except through an explicit BindSetupPose call.
	Setup common.Transform

	// World is the bone's transform composed through its ancestor chain.
	// Derived state: valid only after UpdateWorldTransforms, never persisted.
	World common.Transform

	// WorldMat is the affine matrix form of World, cached for the skinning pass.
	WorldMat common.Matrix

	// InheritRotation controls whether the parent's world rotation propagates.
	InheritRotation bool

	// InheritScale controls whether the parent's world scale propagates.
	InheritScale bool

	// DrawOrder is a stable sort key independent of hierarchy depth.
	DrawOrder int
}

// WorldPosition returns the bone's world-space origin.
//
// Returns:
//   - common.Vec2: the world position (valid after UpdateWorldTransforms)
func (b *Bone) WorldPosition() common.Vec2 {
	return common.V2(b.World.X, b.World.Y)
}

// TipPosition returns the world-space position of the bone's end effector,
// Length units along the bone's local +X axis.
//
// Returns:
//   - common.Vec2: the world tip position (valid after UpdateWorldTransforms)
func (b *Bone) TipPosition() common.Vec2 {
	return b.WorldMat.TransformPoint(common.V2(b.Length, 0))
}

// --- Slot Types ---

// BlendMode selects how a slot's attachment is composited by a renderer.
type BlendMode int

const (
	// BlendNormal performs standard alpha blending.
	BlendNormal BlendMode = iota

	// BlendAdditive adds source color to the destination.
	BlendAdditive

	// BlendMultiply multiplies source and destination color.
	BlendMultiply
)

// Color is an RGBA tint with components in [0, 1].
type Color struct {
	R, G, B, A float64
}

// White returns the neutral tint.
//
// Returns:
//   - Color: opaque white
func White() Color {
	return Color{R: 1, G: 1, B: 1, A: 1}
}

// Slot is a named binding of one bone to zero-or-one attachment, plus the
// draw order, blend mode, and tint a renderer needs to composite it.
type Slot struct {
	// Name is the slot's identifier, unique within its skeleton.
	Name string

	// BoneName identifies the bone this slot follows. A weak reference:
	// the slot never owns the bone.
	BoneName string

	// Attachment is the currently bound attachment, or nil.
	// Reassigning does not destroy the previous attachment object, so an
	// editor's undo stack can restore it.
	Attachment *Attachment

	// DrawOrder is the slot's stable compositing sort key.
	DrawOrder int

	// Blend is the compositing mode for this slot.
	Blend BlendMode

	// Tint is the RGBA tint applied to the attachment.
	Tint Color
}

// --- Attachment Types ---

// AttachmentKind identifies an attachment variant. Kinds are stable names
// used by serialization layers outside this module.
type AttachmentKind string

const (
	// KindRegion is a rectangular image attachment.
	KindRegion AttachmentKind = "region"

	// KindMesh is a deformable mesh attachment.
	KindMesh AttachmentKind = "mesh"
)

// Attachment is a closed tagged union over the attachment variants.
// Exactly one of Region or Mesh is non-nil, matching Kind.
type Attachment struct {
	// Kind selects the variant.
	Kind AttachmentKind

	// Region holds the rectangular image variant when Kind is KindRegion.
	Region *RegionAttachment

	// Mesh holds the deformable mesh variant when Kind is KindMesh.
	Mesh *mesh.DeformableMesh
}

// NewRegionAttachment wraps a RegionAttachment in the union.
//
// Parameters:
//   - r: the region to wrap (must not be nil)
//
// Returns:
//   - *Attachment: the wrapped attachment
func NewRegionAttachment(r *RegionAttachment) *Attachment {
	return &Attachment{Kind: KindRegion, Region: r}
}

// NewMeshAttachment wraps a DeformableMesh in the union.
//
// Parameters:
//   - m: the mesh to wrap (must not be nil)
//
// Returns:
//   - *Attachment: the wrapped attachment
func NewMeshAttachment(m *mesh.DeformableMesh) *Attachment {
	return &Attachment{Kind: KindMesh, Mesh: m}
}

// RegionAttachment is a rectangular image placed relative to a bone.
// The image itself is resolved by the excluded asset layer; the core only
// carries the geometry a renderer needs.
type RegionAttachment struct {
	// Name identifies the image region (an atlas key or file stem).
	Name string

	// Width and Height are the region's size in world units.
	Width, Height float64

	// PivotX and PivotY locate the rotation pivot inside the region,
	// normalized to [0, 1] with (0.5, 0.5) at the center.
	PivotX, PivotY float64

	// Offset is the region's transform relative to its slot's bone.
	Offset common.Transform
}

// Corners returns the region's four corners in bone-local space, in
// counter-clockwise order starting at the bottom-left, with the pivot and
// offset applied.
//
// Returns:
//   - [4]common.Vec2: the bone-local corner positions
func (r *RegionAttachment) Corners() [4]common.Vec2 {
	m := r.Offset.Matrix()
	x0 := -r.PivotX * r.Width
	y0 := -r.PivotY * r.Height
	x1 := x0 + r.Width
	y1 := y0 + r.Height
	return [4]common.Vec2{
		m.TransformPoint(common.V2(x0, y0)),
		m.TransformPoint(common.V2(x1, y0)),
		m.TransformPoint(common.V2(x1, y1)),
		m.TransformPoint(common.V2(x0, y1)),
	}
}
