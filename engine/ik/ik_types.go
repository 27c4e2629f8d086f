package ik

// DefaultMaxIterations bounds the cyclic solve for chains longer than two
// bones when the constraint does not specify its own cap.
const DefaultMaxIterations = 10

// Constraint configures one inverse-kinematics constraint: an ordered chain
// of bones solved so the chain's end effector reaches a target bone.
//
// Bones are referenced by name, never by pointer: the constraint's lifecycle
// is independent of the bones it references, and a chain or target bone that
// has been deleted simply leaves the constraint inert until the reference is
// fixed or the constraint removed.
type Constraint struct {
	// Name is the constraint's identifier, unique within its manager.
	Name string

	// BoneNames is the chain in root-to-leaf order, length >= 1.
	BoneNames []string

	// TargetName identifies the bone used purely as a position marker.
	TargetName string

	// Mix blends the solved pose against the pre-solve (animated) pose.
	// 0 is a no-op, 1 is the full IK result.
	Mix float64

	// BendPositive selects between the two mirror-image two-bone solutions:
	// true bends the elbow counter-clockwise.
	BendPositive bool

	// Stretch allows the chain to lengthen to reach distant targets.
	Stretch bool

	// Compress allows the chain to shorten for targets inside its minimum reach.
	Compress bool

	// Softness is a blend radius near the reach limits that eases the elbow
	// toward full extension instead of snapping.
	Softness float64

	// MaxIterations caps the cyclic solve for chains longer than two bones.
	// Zero means DefaultMaxIterations.
	MaxIterations int
}

// ConstraintOption is a functional option for configuring a Constraint via
// NewConstraint.
type ConstraintOption func(*Constraint)

// WithMix is an option builder that sets the constraint's mix factor.
//
// Parameters:
//   - mix: the blend factor in [0, 1]
//
// Returns:
//   - ConstraintOption: a function that applies the mix option to a constraint
func WithMix(mix float64) ConstraintOption {
	return func(c *Constraint) {
		c.Mix = mix
	}
}

// WithBendPositive is an option builder that selects the elbow bend direction.
//
// Parameters:
//   - positive: true to bend counter-clockwise
//
// Returns:
//   - ConstraintOption: a function that applies the bend option to a constraint
func WithBendPositive(positive bool) ConstraintOption {
	return func(c *Constraint) {
		c.BendPositive = positive
	}
}

// WithStretch is an option builder that allows the chain to lengthen.
//
// Parameters:
//   - stretch: true to allow stretching
//
// Returns:
//   - ConstraintOption: a function that applies the stretch option to a constraint
func WithStretch(stretch bool) ConstraintOption {
	return func(c *Constraint) {
		c.Stretch = stretch
	}
}

// WithCompress is an option builder that allows the chain to shorten.
//
// Parameters:
//   - compress: true to allow compression
//
// Returns:
//   - ConstraintOption: a function that applies the compress option to a constraint
func WithCompress(compress bool) ConstraintOption {
	return func(c *Constraint) {
		c.Compress = compress
	}
}

// WithSoftness is an option builder that sets the reach-limit blend radius.
//
// Parameters:
//   - softness: the blend radius in world units
//
// Returns:
//   - ConstraintOption: a function that applies the softness option to a constraint
func WithSoftness(softness float64) ConstraintOption {
	return func(c *Constraint) {
		c.Softness = softness
	}
}

// WithMaxIterations is an option builder that caps the cyclic N-bone solve.
//
// Parameters:
//   - iterations: the iteration cap (values < 1 fall back to DefaultMaxIterations)
//
// Returns:
//   - ConstraintOption: a function that applies the iteration option to a constraint
func WithMaxIterations(iterations int) ConstraintOption {
	return func(c *Constraint) {
		c.MaxIterations = iterations
	}
}

// NewConstraint creates a constraint with the specified options applied.
// The default configuration is full mix, positive bend, no stretch or
// compression, and DefaultMaxIterations.
//
// Parameters:
//   - name: the constraint identifier
//   - boneNames: the chain in root-to-leaf order
//   - targetName: the target bone's name
//   - options: a variadic list of ConstraintOption functions
//
// Returns:
//   - *Constraint: the configured constraint
func NewConstraint(name string, boneNames []string, targetName string, options ...ConstraintOption) *Constraint {
	c := &Constraint{
		Name:         name,
		BoneNames:    boneNames,
		TargetName:   targetName,
		Mix:          1,
		BendPositive: true,
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// iterationCap resolves the effective iteration bound.
func (c *Constraint) iterationCap() int {
	if c.MaxIterations < 1 {
		return DefaultMaxIterations
	}
	return c.MaxIterations
}
