package stage

import (
	"fmt"

	"github.com/Carmen-Shannon/rig-go/common"
	"github.com/Carmen-Shannon/rig-go/engine/animator"
	"github.com/Carmen-Shannon/rig-go/engine/clip"
	"github.com/Carmen-Shannon/rig-go/engine/ik"
	"github.com/Carmen-Shannon/rig-go/engine/skeleton"
)

// Actor bundles one skeleton with its playback and constraint state. An actor
// is single-threaded: all of its methods must be called from one goroutine at
// a time. The stage guarantees this during Advance by giving each actor to
// exactly one worker.
type Actor interface {
	// Name returns the actor's stage-unique identifier.
	//
	// Returns:
	//   - string: the name
	Name() string

	// Skeleton returns the actor's skeleton.
	//
	// Returns:
	//   - skeleton.Skeleton: the skeleton
	Skeleton() skeleton.Skeleton

	// Animator returns the actor's playback state.
	//
	// Returns:
	//   - animator.Animator: the animator
	Animator() animator.Animator

	// IK returns the actor's constraint manager.
	//
	// Returns:
	//   - ik.Manager: the manager, bound to the actor's skeleton
	IK() ik.Manager

	// BindMeshes binds every not-yet-bound mesh attachment to the skeleton's
	// setup pose, caching the bind-space offsets used for skinning. Call once
	// after authoring weights, before the first Update.
	//
	// Returns:
	//   - error: the first bind failure, if any
	BindMeshes() error

	// Update runs the fixed per-frame evaluation pass: reset to setup pose,
	// sample the current clip, solve constraints, recompute world transforms,
	// and skin bound mesh attachments.
	//
	// Parameters:
	//   - dt: elapsed seconds since the previous frame
	//
	// Returns:
	//   - []clip.AnimationEvent: events crossed this frame, possibly nil
	Update(dt float64) []clip.AnimationEvent

	// SkinnedVertices returns the posed vertex positions of a slot's mesh
	// attachment as of the last Update. The slice is reused across frames.
	//
	// Parameters:
	//   - slotName: the slot holding the mesh attachment
	//
	// Returns:
	//   - []common.Vec2: the skinned positions, or nil if the slot has no
	//     bound mesh
	SkinnedVertices(slotName string) []common.Vec2
}

type actor struct {
	name    string
	skel    skeleton.Skeleton
	anim    animator.Animator
	ikMgr   ik.Manager
	worldUL []common.Matrix
	skinned map[string][]common.Vec2
}

var _ Actor = &actor{}

// NewActor creates an actor around a skeleton, with an idle animator and an
// empty constraint manager.
//
// Parameters:
//   - name: the stage-unique identifier
//   - skel: the skeleton to drive
//
// Returns:
//   - Actor: the actor
func NewActor(name string, skel skeleton.Skeleton) Actor {
	return &actor{
		name:    name,
		skel:    skel,
		anim:    animator.NewAnimator(skel),
		ikMgr:   ik.NewManager(skel),
		skinned: make(map[string][]common.Vec2),
	}
}

func (a *actor) Name() string {
	return a.name
}

func (a *actor) Skeleton() skeleton.Skeleton {
	return a.skel
}

func (a *actor) Animator() animator.Animator {
	return a.anim
}

func (a *actor) IK() ik.Manager {
	return a.ikMgr
}

func (a *actor) BindMeshes() error {
	setup := a.skel.SetupWorldMatrices()
	for _, slot := range a.skel.Slots() {
		att := slot.Attachment
		if att == nil || att.Mesh == nil || att.Mesh.Bound() {
			continue
		}
		if err := att.Mesh.BindToSkeleton(setup); err != nil {
			return fmt.Errorf("bind mesh on slot %q: %w", slot.Name, err)
		}
	}
	return nil
}

func (a *actor) Update(dt float64) []clip.AnimationEvent {
	a.skel.SetToSetupPose()
	events := a.anim.Advance(dt)
	a.anim.Apply()
	a.skel.UpdateWorldTransforms()
	a.ikMgr.Apply()

	a.worldUL = a.skel.WorldMatrices(a.worldUL[:0])
	for _, slot := range a.skel.Slots() {
		att := slot.Attachment
		if att == nil || att.Mesh == nil || !att.Mesh.Bound() {
			continue
		}
		dst := a.skinned[slot.Name]
		a.skinned[slot.Name] = att.Mesh.Skin(a.worldUL, dst[:0])
	}
	return events
}

func (a *actor) SkinnedVertices(slotName string) []common.Vec2 {
	return a.skinned[slotName]
}
