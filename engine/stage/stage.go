// package stage evaluates many actors per frame. Actors are independent, so
// the per-frame pass fans out across a reusable dynamic worker pool and joins
// on a WaitGroup barrier before returning. Mutating the actor registry is
// guarded separately and must not overlap Advance.
package stage

import (
	"fmt"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/rig-go/common"
	"github.com/Carmen-Shannon/rig-go/engine/clip"
	"github.com/Carmen-Shannon/rig-go/engine/profiler"
	"github.com/Carmen-Shannon/rig-go/engine/skeleton"
)

// ErrDuplicateActor is returned when adding an actor whose name is taken.
var ErrDuplicateActor = fmt.Errorf("duplicate actor name")

// ErrUnknownActor is returned when looking up an actor the stage does not hold.
var ErrUnknownActor = fmt.Errorf("unknown actor")

// ActorEvent pairs an animation event with the actor whose clip fired it.
type ActorEvent struct {
	// Actor is the name of the actor that fired the event.
	Actor string

	// Event is the crossed animation event.
	Event clip.AnimationEvent
}

// RenderItem is one drawable slot in back-to-front order, with the skinned
// vertex positions when the slot holds a bound mesh attachment.
type RenderItem struct {
	// Actor is the owning actor's name.
	Actor string

	// Slot is the drawable slot.
	Slot *skeleton.Slot

	// Bone is the slot's bone, posed as of the last Advance.
	Bone *skeleton.Bone

	// SkinnedVertices holds posed mesh vertex positions, nil for region
	// attachments.
	SkinnedVertices []common.Vec2
}

// Stage owns a set of actors and advances them together each frame.
type Stage interface {
	// AddActor registers an actor. Names are unique per stage.
	//
	// Parameters:
	//   - a: the actor to register
	//
	// Returns:
	//   - error: ErrDuplicateActor if the name is taken
	AddActor(a Actor) error

	// RemoveActor unregisters an actor by name.
	//
	// Parameters:
	//   - name: the actor name
	//
	// Returns:
	//   - error: ErrUnknownActor if no actor has that name
	RemoveActor(name string) error

	// Actor looks up an actor by name.
	//
	// Parameters:
	//   - name: the actor name
	//
	// Returns:
	//   - Actor: the actor, or nil
	//   - bool: whether the actor exists
	Actor(name string) (Actor, bool)

	// Actors returns the registered actors in insertion order.
	//
	// Returns:
	//   - []Actor: the actors
	Actors() []Actor

	// Advance runs the per-frame pass on every actor, in parallel across
	// actors, and returns the animation events crossed this frame grouped
	// in actor insertion order.
	//
	// Parameters:
	//   - dt: elapsed seconds since the previous frame
	//
	// Returns:
	//   - []ActorEvent: events crossed this frame, possibly nil
	Advance(dt float64) []ActorEvent

	// RenderList collects every actor's slots into one back-to-front list,
	// ordered by slot draw order (stable across actors for equal values).
	// Valid after Advance.
	//
	// Returns:
	//   - []RenderItem: the drawables, back to front
	RenderList() []RenderItem
}

type stage struct {
	mu      sync.RWMutex
	actors  []Actor
	byName  map[string]Actor
	workers int
	pool    worker.DynamicWorkerPool
	prof    *profiler.Profiler
}

var _ Stage = &stage{}

// NewStage creates an empty stage. The worker pool is sized to the machine
// unless WithWorkers overrides it.
//
// Parameters:
//   - options: optional configuration
//
// Returns:
//   - Stage: the empty stage
func NewStage(options ...StageOption) Stage {
	s := &stage{
		byName:  make(map[string]Actor),
		workers: max(runtime.NumCPU()-1, 1),
	}
	for _, option := range options {
		option(s)
	}

	// Queue size of 256 accommodates typical actor counts with headroom;
	// idle workers exit after a second and respawn on demand.
	s.pool = worker.NewDynamicWorkerPool(s.workers, 256, 1*time.Second)
	return s
}

func (s *stage) AddActor(a Actor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byName[a.Name()]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateActor, a.Name())
	}
	s.actors = append(s.actors, a)
	s.byName[a.Name()] = a
	return nil
}

func (s *stage) RemoveActor(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byName[name]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownActor, name)
	}
	delete(s.byName, name)
	for i, a := range s.actors {
		if a.Name() == name {
			s.actors = append(s.actors[:i], s.actors[i+1:]...)
			break
		}
	}
	return nil
}

func (s *stage) Actor(name string) (Actor, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.byName[name]
	return a, ok
}

func (s *stage) Actors() []Actor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Actor, len(s.actors))
	copy(out, s.actors)
	return out
}

func (s *stage) Advance(dt float64) []ActorEvent {
	s.mu.RLock()
	actors := make([]Actor, len(s.actors))
	copy(actors, s.actors)
	s.mu.RUnlock()

	// Fan out one task per actor. Workers are reused across frames; a
	// WaitGroup provides the per-frame barrier since the pool itself never
	// drains between frames.
	perActor := make([][]clip.AnimationEvent, len(actors))
	var wg sync.WaitGroup
	for i, a := range actors {
		wg.Add(1)
		idx, act := i, a
		s.pool.SubmitTask(worker.Task{
			ID: idx,
			Do: func() (any, error) {
				defer wg.Done()
				perActor[idx] = act.Update(dt)
				return nil, nil
			},
		})
	}
	wg.Wait()

	if s.prof != nil {
		s.prof.Tick(len(actors))
	}

	var events []ActorEvent
	for i, evs := range perActor {
		for _, ev := range evs {
			events = append(events, ActorEvent{Actor: actors[i].Name(), Event: ev})
		}
	}
	return events
}

func (s *stage) RenderList() []RenderItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var items []RenderItem
	for _, a := range s.actors {
		skel := a.Skeleton()
		for _, slot := range skel.Slots() {
			bone, ok := skel.Bone(slot.BoneName)
			if !ok {
				continue
			}
			item := RenderItem{Actor: a.Name(), Slot: slot, Bone: bone}
			if slot.Attachment != nil && slot.Attachment.Mesh != nil {
				item.SkinnedVertices = a.SkinnedVertices(slot.Name)
			}
			items = append(items, item)
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Slot.DrawOrder < items[j].Slot.DrawOrder
	})
	return items
}
