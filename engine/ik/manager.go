package ik

import (
	"fmt"

	"github.com/Carmen-Shannon/rig-go/engine/skeleton"
)

// ErrDuplicateConstraint is returned when adding a constraint whose name is
// already registered with the manager.
var ErrDuplicateConstraint = fmt.Errorf("duplicate constraint name")

// ErrUnknownConstraint is returned when removing a constraint the manager
// does not hold.
var ErrUnknownConstraint = fmt.Errorf("unknown constraint")

// Manager holds the ordered set of constraints for one skeleton and applies
// them each frame. Constraints are applied in insertion order; a constraint
// added later sees the bone rotations produced by the constraints before it.
type Manager interface {
	// AddConstraint registers a constraint. Names are unique per manager.
	//
	// Parameters:
	//   - c: the constraint to register
	//
	// Returns:
	//   - error: ErrDuplicateConstraint if the name is taken
	AddConstraint(c *Constraint) error

	// RemoveConstraint unregisters a constraint by name.
	//
	// Parameters:
	//   - name: the constraint name
	//
	// Returns:
	//   - error: ErrUnknownConstraint if no constraint has that name
	RemoveConstraint(name string) error

	// Constraint looks up a constraint by name.
	//
	// Parameters:
	//   - name: the constraint name
	//
	// Returns:
	//   - *Constraint: the constraint, or nil
	//   - bool: whether the constraint exists
	Constraint(name string) (*Constraint, bool)

	// Constraints returns the constraints in application order.
	//
	// Returns:
	//   - []*Constraint: the registered constraints
	Constraints() []*Constraint

	// Apply solves every constraint in insertion order. World transforms are
	// refreshed before each constraint so later constraints see the effect of
	// earlier ones, and once more after the last so the skeleton's world
	// state matches its locals when Apply returns.
	Apply()
}

type manager struct {
	skel        skeleton.Skeleton
	constraints []*Constraint
	byName      map[string]*Constraint
}

var _ Manager = &manager{}

// NewManager creates a constraint manager bound to a skeleton.
//
// Parameters:
//   - skel: the skeleton the constraints solve against
//
// Returns:
//   - Manager: the empty manager
func NewManager(skel skeleton.Skeleton) Manager {
	return &manager{
		skel:   skel,
		byName: make(map[string]*Constraint),
	}
}

func (m *manager) AddConstraint(c *Constraint) error {
	if _, ok := m.byName[c.Name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateConstraint, c.Name)
	}
	m.constraints = append(m.constraints, c)
	m.byName[c.Name] = c
	return nil
}

func (m *manager) RemoveConstraint(name string) error {
	if _, ok := m.byName[name]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownConstraint, name)
	}
	delete(m.byName, name)
	for i, c := range m.constraints {
		if c.Name == name {
			m.constraints = append(m.constraints[:i], m.constraints[i+1:]...)
			break
		}
	}
	return nil
}

func (m *manager) Constraint(name string) (*Constraint, bool) {
	c, ok := m.byName[name]
	return c, ok
}

func (m *manager) Constraints() []*Constraint {
	out := make([]*Constraint, len(m.constraints))
	copy(out, m.constraints)
	return out
}

func (m *manager) Apply() {
	for _, c := range m.constraints {
		m.skel.UpdateWorldTransforms()
		Apply(m.skel, c)
	}
	m.skel.UpdateWorldTransforms()
}
