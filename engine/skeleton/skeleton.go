// package skeleton implements the bone hierarchy at the center of the engine.
// A skeleton owns its bones in a flat, topologically ordered container
// (parents strictly before children) so world transforms are computed in a
// single O(n) pass, plus the slots that bind attachments to bones.
package skeleton

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/Carmen-Shannon/rig-go/common"
)

// Structural errors. These break invariants that transform evaluation depends
// on, so the operation is rejected instead of corrupting the skeleton.
var (
	// ErrDuplicateName is returned when adding a bone or slot whose name is taken.
	ErrDuplicateName = errors.New("skeleton: duplicate name")

	// ErrUnknownBone is returned when an operation references a bone that does not exist.
	ErrUnknownBone = errors.New("skeleton: unknown bone")

	// ErrUnknownSlot is returned when an operation references a slot that does not exist.
	ErrUnknownSlot = errors.New("skeleton: unknown slot")
)

// skeleton is the implementation of the Skeleton interface.
type skeleton struct {
	name        string
	bones       []*Bone // topological order: parents strictly before children
	nameToIndex map[string]int
	slots       []*Slot
	slotByName  map[string]*Slot
}

// Skeleton defines the interface for a named tree of bones and the slots
// attached to them. Bones are kept in topological order as a maintained
// invariant, not computed on demand.
//
// World transforms follow an explicit invalidation contract: setters never
// trigger recomputation, callers invoke UpdateWorldTransforms after local
// mutations and before reading world positions.
type Skeleton interface {
	// Name retrieves the skeleton identifier.
	//
	// Returns:
	//   - string: the skeleton name
	Name() string

	// AddBone adds a bone under the named parent, maintaining topological
	// order. The parent must already be present; an absent parent is a
	// structural error. Pass an empty parent name to add a root bone.
	//
	// Parameters:
	//   - name: the new bone's unique name
	//   - parentName: the parent bone's name, or "" for a root bone
	//   - options: bone configuration options
	//
	// Returns:
	//   - *Bone: the new bone
	//   - error: ErrDuplicateName or ErrUnknownBone on structural errors
	AddBone(name, parentName string, options ...BoneOption) (*Bone, error)

	// RemoveBone removes a bone. Children are reparented to the removed
	// bone's parent (or become roots when a root is removed); slots bound to
	// the bone are rebound the same way, or removed when no parent exists.
	// Meshes weighted against this skeleton must be rebound afterwards, since
	// bone indices shift.
	//
	// Parameters:
	//   - name: the bone to remove
	//
	// Returns:
	//   - error: ErrUnknownBone if the bone does not exist
	RemoveBone(name string) error

	// Bone retrieves a bone by name.
	//
	// Parameters:
	//   - name: the bone name
	//
	// Returns:
	//   - *Bone: the bone, or nil
	//   - bool: true if the bone exists
	Bone(name string) (*Bone, bool)

	// BoneIndex retrieves a bone's index in topological order, or -1.
	//
	// Parameters:
	//   - name: the bone name
	//
	// Returns:
	//   - int: the index, or -1 if the bone does not exist
	BoneIndex(name string) int

	// Bones retrieves all bones in topological order. The slice is shared,
	// not copied; callers treat it as read-only.
	//
	// Returns:
	//   - []*Bone: the bones, parents before children
	Bones() []*Bone

	// UpdateWorldTransforms recomputes every bone's world transform in a
	// single topological pass, composing each local transform with its
	// parent's already-computed world transform.
	UpdateWorldTransforms()

	// SetLocalTransform replaces a bone's local transform. World transforms
	// are not recomputed; call UpdateWorldTransforms before reading them.
	//
	// Parameters:
	//   - name: the bone to modify
	//   - local: the new local transform
	//
	// Returns:
	//   - error: ErrUnknownBone if the bone does not exist
	SetLocalTransform(name string, local common.Transform) error

	// SetToSetupPose resets every bone's local transform to its setup pose.
	// Callers that need a clean pose call this before applying a clip; apply
	// never resets implicitly.
	SetToSetupPose()

	// BindSetupPose re-binds the setup pose from the current local
	// transforms. This is the only way setup transforms change after
	// authoring.
	BindSetupPose()

	// FindBoneAtPosition performs a linear nearest-bone-origin scan in world
	// space, valid after UpdateWorldTransforms.
	//
	// Parameters:
	//   - x, y: the query position in world space
	//   - threshold: the maximum pick distance
	//
	// Returns:
	//   - *Bone: the nearest bone within threshold, or nil
	FindBoneAtPosition(x, y, threshold float64) *Bone

	// WorldMatrices gathers the current bone world matrices in bone order,
	// for the skinning pass. Valid after UpdateWorldTransforms. The
	// destination slice is reused when capacity allows.
	//
	// Parameters:
	//   - dst: destination slice, may be nil
	//
	// Returns:
	//   - []common.Matrix: world matrices indexed by bone index
	WorldMatrices(dst []common.Matrix) []common.Matrix

	// SetupWorldMatrices computes the setup-pose world matrices in bone
	// order, for mesh binding. The current pose is not disturbed.
	//
	// Returns:
	//   - []common.Matrix: setup-pose world matrices indexed by bone index
	SetupWorldMatrices() []common.Matrix

	// AddSlot adds a named slot bound to a bone.
	//
	// Parameters:
	//   - name: the new slot's unique name
	//   - boneName: the bone the slot follows
	//   - options: slot configuration options
	//
	// Returns:
	//   - *Slot: the new slot
	//   - error: ErrDuplicateName or ErrUnknownBone on structural errors
	AddSlot(name, boneName string, options ...SlotOption) (*Slot, error)

	// RemoveSlot removes a slot by name. The slot's attachment object is not
	// destroyed.
	//
	// Parameters:
	//   - name: the slot to remove
	//
	// Returns:
	//   - error: ErrUnknownSlot if the slot does not exist
	RemoveSlot(name string) error

	// Slot retrieves a slot by name.
	//
	// Parameters:
	//   - name: the slot name
	//
	// Returns:
	//   - *Slot: the slot, or nil
	//   - bool: true if the slot exists
	Slot(name string) (*Slot, bool)

	// Slots retrieves all slots in insertion order. The slice is shared,
	// not copied; callers treat it as read-only.
	//
	// Returns:
	//   - []*Slot: the slots
	Slots() []*Slot

	// SlotsByDrawOrder retrieves the slots sorted by draw order. The sort is
	// stable: slots sharing a draw order keep insertion order.
	//
	// Returns:
	//   - []*Slot: a new slice of slots in compositing order
	SlotsByDrawOrder() []*Slot
}

var _ Skeleton = &skeleton{}

// NewSkeleton creates an empty skeleton.
//
// Parameters:
//   - name: the skeleton identifier
//
// Returns:
//   - Skeleton: the new skeleton
func NewSkeleton(name string) Skeleton {
	return &skeleton{
		name:        name,
		nameToIndex: make(map[string]int),
		slotByName:  make(map[string]*Slot),
	}
}

func (s *skeleton) Name() string {
	return s.name
}

func (s *skeleton) AddBone(name, parentName string, options ...BoneOption) (*Bone, error) {
	if _, exists := s.nameToIndex[name]; exists {
		return nil, fmt.Errorf("%w: bone %q", ErrDuplicateName, name)
	}

	parentIndex := -1
	if parentName != "" {
		idx, ok := s.nameToIndex[parentName]
		if !ok {
			return nil, fmt.Errorf("%w: parent %q of %q", ErrUnknownBone, parentName, name)
		}
		parentIndex = idx
	}

	bone := &Bone{
		Name:            name,
		ParentIndex:     parentIndex,
		Local:           common.IdentityTransform(),
		Setup:           common.IdentityTransform(),
		InheritRotation: true,
		InheritScale:    true,
	}
	for _, opt := range options {
		opt(bone)
	}

	// Appending keeps topological order: the parent is already present,
	// so its index is strictly smaller.
	s.bones = append(s.bones, bone)
	s.nameToIndex[name] = len(s.bones) - 1
	return bone, nil
}

func (s *skeleton) RemoveBone(name string) error {
	idx, ok := s.nameToIndex[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownBone, name)
	}
	removed := s.bones[idx]

	// Reparent children to the removed bone's parent. Children always sit
	// after the removed bone, and its parent before it, so the topological
	// order survives the splice below.
	for _, b := range s.bones {
		if b.ParentIndex == idx {
			b.ParentIndex = removed.ParentIndex
		}
	}

	s.bones = append(s.bones[:idx], s.bones[idx+1:]...)
	for _, b := range s.bones {
		if b.ParentIndex > idx {
			b.ParentIndex--
		}
	}

	delete(s.nameToIndex, name)
	for i, b := range s.bones {
		s.nameToIndex[b.Name] = i
	}

	// Rebind slots that followed the removed bone; drop them when the bone
	// was a root.
	parentName := ""
	if removed.ParentIndex >= 0 {
		parentName = s.bones[removed.ParentIndex].Name
	}
	kept := s.slots[:0]
	for _, slot := range s.slots {
		if slot.BoneName == name {
			if parentName == "" {
				delete(s.slotByName, slot.Name)
				continue
			}
			slot.BoneName = parentName
		}
		kept = append(kept, slot)
	}
	s.slots = kept
	return nil
}

func (s *skeleton) Bone(name string) (*Bone, bool) {
	idx, ok := s.nameToIndex[name]
	if !ok {
		return nil, false
	}
	return s.bones[idx], true
}

func (s *skeleton) BoneIndex(name string) int {
	idx, ok := s.nameToIndex[name]
	if !ok {
		return -1
	}
	return idx
}

func (s *skeleton) Bones() []*Bone {
	return s.bones
}

func (s *skeleton) UpdateWorldTransforms() {
	for _, b := range s.bones {
		b.World = composeWorld(b, s.parentWorld(b))
		b.WorldMat = b.World.Matrix()
	}
}

// parentWorld returns the parent's world transform, or nil for roots.
func (s *skeleton) parentWorld(b *Bone) *common.Transform {
	if b.ParentIndex < 0 {
		return nil
	}
	return &s.bones[b.ParentIndex].World
}

// composeWorld composes a bone's local transform with its parent's world
// transform: position rotates and scales through the parent, rotation and
// scale compose only when the bone inherits them.
func composeWorld(b *Bone, parent *common.Transform) common.Transform {
	if parent == nil {
		return b.Local
	}

	cos := math.Cos(common.DegToRad(parent.Rotation))
	sin := math.Sin(common.DegToRad(parent.Rotation))
	sx := b.Local.X * parent.ScaleX
	sy := b.Local.Y * parent.ScaleY

	world := common.Transform{
		X:        parent.X + cos*sx - sin*sy,
		Y:        parent.Y + sin*sx + cos*sy,
		Rotation: b.Local.Rotation,
		ScaleX:   b.Local.ScaleX,
		ScaleY:   b.Local.ScaleY,
	}
	if b.InheritRotation {
		world.Rotation += parent.Rotation
	}
	if b.InheritScale {
		world.ScaleX *= parent.ScaleX
		world.ScaleY *= parent.ScaleY
	}
	return world
}

func (s *skeleton) SetLocalTransform(name string, local common.Transform) error {
	bone, ok := s.Bone(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownBone, name)
	}
	bone.Local = local
	return nil
}

func (s *skeleton) SetToSetupPose() {
	for _, b := range s.bones {
		b.Local = b.Setup
	}
}

func (s *skeleton) BindSetupPose() {
	for _, b := range s.bones {
		b.Setup = b.Local
	}
}

func (s *skeleton) FindBoneAtPosition(x, y, threshold float64) *Bone {
	// Linear scan: rigs are tens of bones, a spatial index would be noise.
	query := common.V2(x, y)
	var best *Bone
	bestDist := threshold
	for _, b := range s.bones {
		if d := b.WorldPosition().Distance(query); d <= bestDist {
			best = b
			bestDist = d
		}
	}
	return best
}

func (s *skeleton) WorldMatrices(dst []common.Matrix) []common.Matrix {
	if cap(dst) < len(s.bones) {
		dst = make([]common.Matrix, len(s.bones))
	}
	dst = dst[:len(s.bones)]
	for i, b := range s.bones {
		dst[i] = b.WorldMat
	}
	return dst
}

func (s *skeleton) SetupWorldMatrices() []common.Matrix {
	// Compose setup transforms through the hierarchy without touching the
	// bones' current pose state.
	worlds := make([]common.Transform, len(s.bones))
	mats := make([]common.Matrix, len(s.bones))
	for i, b := range s.bones {
		setupBone := Bone{
			Local:           b.Setup,
			InheritRotation: b.InheritRotation,
			InheritScale:    b.InheritScale,
		}
		var parent *common.Transform
		if b.ParentIndex >= 0 {
			parent = &worlds[b.ParentIndex]
		}
		worlds[i] = composeWorld(&setupBone, parent)
		mats[i] = worlds[i].Matrix()
	}
	return mats
}

func (s *skeleton) AddSlot(name, boneName string, options ...SlotOption) (*Slot, error) {
	if _, exists := s.slotByName[name]; exists {
		return nil, fmt.Errorf("%w: slot %q", ErrDuplicateName, name)
	}
	if _, ok := s.nameToIndex[boneName]; !ok {
		return nil, fmt.Errorf("%w: %q for slot %q", ErrUnknownBone, boneName, name)
	}

	slot := &Slot{
		Name:     name,
		BoneName: boneName,
		Tint:     White(),
	}
	for _, opt := range options {
		opt(slot)
	}

	s.slots = append(s.slots, slot)
	s.slotByName[name] = slot
	return slot, nil
}

func (s *skeleton) RemoveSlot(name string) error {
	if _, ok := s.slotByName[name]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownSlot, name)
	}
	delete(s.slotByName, name)
	for i, slot := range s.slots {
		if slot.Name == name {
			s.slots = append(s.slots[:i], s.slots[i+1:]...)
			break
		}
	}
	return nil
}

func (s *skeleton) Slot(name string) (*Slot, bool) {
	slot, ok := s.slotByName[name]
	return slot, ok
}

func (s *skeleton) Slots() []*Slot {
	return s.slots
}

func (s *skeleton) SlotsByDrawOrder() []*Slot {
	ordered := make([]*Slot, len(s.slots))
	copy(ordered, s.slots)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].DrawOrder < ordered[j].DrawOrder
	})
	return ordered
}
