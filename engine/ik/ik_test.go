package ik

import (
	"math"
	"testing"

	"github.com/Carmen-Shannon/rig-go/common"
	"github.com/Carmen-Shannon/rig-go/engine/skeleton"
)

const epsilon = 1e-6

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func setupAt(x, y float64) common.Transform {
	tf := common.IdentityTransform()
	tf.X = x
	tf.Y = y
	return tf
}

// buildArm creates a two-bone chain rooted at the origin plus a target bone:
// upper (length l1) with lower (length l2) at its tip, and "target" placed at
// the given world position.
func buildArm(t *testing.T, l1, l2, targetX, targetY float64) skeleton.Skeleton {
	t.Helper()
	skel := skeleton.NewSkeleton("arm")
	if _, err := skel.AddBone("upper", "", skeleton.WithLength(l1)); err != nil {
		t.Fatalf("AddBone(upper): %v", err)
	}
	if _, err := skel.AddBone("lower", "upper",
		skeleton.WithLength(l2),
		skeleton.WithSetupTransform(setupAt(l1, 0)),
	); err != nil {
		t.Fatalf("AddBone(lower): %v", err)
	}
	if _, err := skel.AddBone("target", "",
		skeleton.WithSetupTransform(setupAt(targetX, targetY)),
	); err != nil {
		t.Fatalf("AddBone(target): %v", err)
	}
	skel.UpdateWorldTransforms()
	return skel
}

func mustBone(t *testing.T, skel skeleton.Skeleton, name string) *skeleton.Bone {
	t.Helper()
	b, ok := skel.Bone(name)
	if !ok {
		t.Fatalf("bone %q not found", name)
	}
	return b
}

func TestTwoBoneFullExtension(t *testing.T) {
	// Target exactly at maximum reach: the chain must be perfectly straight,
	// with a zero elbow angle and the tip on the target.
	skel := buildArm(t, 100, 100, 200, 0)
	m := NewManager(skel)
	if err := m.AddConstraint(NewConstraint("reach", []string{"upper", "lower"}, "target")); err != nil {
		t.Fatalf("AddConstraint: %v", err)
	}
	m.Apply()

	upper := mustBone(t, skel, "upper")
	lower := mustBone(t, skel, "lower")
	elbow := common.NormalizeDegrees(lower.World.Rotation - upper.World.Rotation)
	if !almostEqual(elbow, 0, epsilon) {
		t.Errorf("elbow angle = %v, want 0", elbow)
	}
	tip := lower.TipPosition()
	if !almostEqual(tip.X, 200, epsilon) || !almostEqual(tip.Y, 0, epsilon) {
		t.Errorf("tip = %v, want (200, 0)", tip)
	}
}

func TestTwoBoneTargetInsideMinimumReach(t *testing.T) {
	// d < |l1-l2| has no triangle solution. The solve must clamp instead of
	// producing NaN.
	skel := buildArm(t, 100, 40, 30, 0)
	m := NewManager(skel)
	if err := m.AddConstraint(NewConstraint("reach", []string{"upper", "lower"}, "target")); err != nil {
		t.Fatalf("AddConstraint: %v", err)
	}
	m.Apply()

	for _, name := range []string{"upper", "lower"} {
		b := mustBone(t, skel, name)
		if math.IsNaN(b.Local.Rotation) || math.IsNaN(b.World.Rotation) {
			t.Errorf("bone %q rotation is NaN", name)
		}
		tip := b.TipPosition()
		if math.IsNaN(tip.X) || math.IsNaN(tip.Y) {
			t.Errorf("bone %q tip is NaN", name)
		}
	}
}

func TestTwoBoneBendDirection(t *testing.T) {
	tests := []struct {
		name         string
		bendPositive bool
	}{
		{name: "positive", bendPositive: true},
		{name: "negative", bendPositive: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			skel := buildArm(t, 100, 100, 100, 100)
			m := NewManager(skel)
			c := NewConstraint("reach", []string{"upper", "lower"}, "target",
				WithBendPositive(tt.bendPositive))
			if err := m.AddConstraint(c); err != nil {
				t.Fatalf("AddConstraint: %v", err)
			}
			m.Apply()

			upper := mustBone(t, skel, "upper")
			lower := mustBone(t, skel, "lower")
			elbow := common.NormalizeDegrees(lower.World.Rotation - upper.World.Rotation)
			if tt.bendPositive && elbow <= 0 {
				t.Errorf("elbow angle = %v, want > 0", elbow)
			}
			if !tt.bendPositive && elbow >= 0 {
				t.Errorf("elbow angle = %v, want < 0", elbow)
			}
			tip := lower.TipPosition()
			if !almostEqual(tip.X, 100, 1e-4) || !almostEqual(tip.Y, 100, 1e-4) {
				t.Errorf("tip = %v, want (100, 100)", tip)
			}
		})
	}
}

func TestTwoBoneMix(t *testing.T) {
	t.Run("zero is a no-op", func(t *testing.T) {
		skel := buildArm(t, 100, 100, 0, 200)
		m := NewManager(skel)
		c := NewConstraint("reach", []string{"upper", "lower"}, "target", WithMix(0))
		if err := m.AddConstraint(c); err != nil {
			t.Fatalf("AddConstraint: %v", err)
		}
		m.Apply()

		for _, name := range []string{"upper", "lower"} {
			b := mustBone(t, skel, name)
			if !almostEqual(b.Local.Rotation, 0, epsilon) {
				t.Errorf("bone %q local rotation = %v, want 0", name, b.Local.Rotation)
			}
		}
	})

	t.Run("half blends halfway", func(t *testing.T) {
		// Target straight up at full reach: the full solve rotates the upper
		// bone to 90 degrees, so half mix lands at 45.
		skel := buildArm(t, 100, 100, 0, 200)
		m := NewManager(skel)
		c := NewConstraint("reach", []string{"upper", "lower"}, "target", WithMix(0.5))
		if err := m.AddConstraint(c); err != nil {
			t.Fatalf("AddConstraint: %v", err)
		}
		m.Apply()

		upper := mustBone(t, skel, "upper")
		if !almostEqual(upper.Local.Rotation, 45, epsilon) {
			t.Errorf("upper local rotation = %v, want 45", upper.Local.Rotation)
		}
	})
}

func TestTwoBoneStretch(t *testing.T) {
	skel := buildArm(t, 100, 100, 300, 0)
	m := NewManager(skel)
	c := NewConstraint("reach", []string{"upper", "lower"}, "target", WithStretch(true))
	if err := m.AddConstraint(c); err != nil {
		t.Fatalf("AddConstraint: %v", err)
	}
	m.Apply()

	upper := mustBone(t, skel, "upper")
	lower := mustBone(t, skel, "lower")
	if !almostEqual(upper.Local.ScaleX, 1.5, epsilon) {
		t.Errorf("upper scale = %v, want 1.5", upper.Local.ScaleX)
	}
	tip := lower.TipPosition()
	if !almostEqual(tip.X, 300, 1e-4) || !almostEqual(tip.Y, 0, 1e-4) {
		t.Errorf("tip = %v, want (300, 0)", tip)
	}
}

func TestTwoBoneUnreachableWithoutStretch(t *testing.T) {
	// Beyond reach with stretch off: the chain straightens toward the target
	// but keeps its length.
	skel := buildArm(t, 100, 100, 300, 0)
	m := NewManager(skel)
	if err := m.AddConstraint(NewConstraint("reach", []string{"upper", "lower"}, "target")); err != nil {
		t.Fatalf("AddConstraint: %v", err)
	}
	m.Apply()

	lower := mustBone(t, skel, "lower")
	tip := lower.TipPosition()
	if !almostEqual(tip.X, 200, 1e-4) || !almostEqual(tip.Y, 0, 1e-4) {
		t.Errorf("tip = %v, want (200, 0)", tip)
	}
}

func TestTwoBoneTargetCoincidentWithRoot(t *testing.T) {
	skel := buildArm(t, 100, 100, 0, 0)
	m := NewManager(skel)
	if err := m.AddConstraint(NewConstraint("reach", []string{"upper", "lower"}, "target")); err != nil {
		t.Fatalf("AddConstraint: %v", err)
	}
	m.Apply()

	upper := mustBone(t, skel, "upper")
	if !almostEqual(upper.Local.Rotation, 0, epsilon) {
		t.Errorf("upper local rotation = %v, want unchanged 0", upper.Local.Rotation)
	}
}

func TestOneBoneAim(t *testing.T) {
	skel := skeleton.NewSkeleton("aim")
	if _, err := skel.AddBone("bone", "", skeleton.WithLength(50)); err != nil {
		t.Fatalf("AddBone: %v", err)
	}
	if _, err := skel.AddBone("target", "",
		skeleton.WithSetupTransform(setupAt(0, 10)),
	); err != nil {
		t.Fatalf("AddBone(target): %v", err)
	}
	skel.UpdateWorldTransforms()

	m := NewManager(skel)
	if err := m.AddConstraint(NewConstraint("aim", []string{"bone"}, "target")); err != nil {
		t.Fatalf("AddConstraint: %v", err)
	}
	m.Apply()

	b := mustBone(t, skel, "bone")
	if !almostEqual(b.World.Rotation, 90, epsilon) {
		t.Errorf("world rotation = %v, want 90", b.World.Rotation)
	}
}

func TestDanglingReferencesAreInert(t *testing.T) {
	tests := []struct {
		name       string
		constraint *Constraint
	}{
		{name: "missing target", constraint: NewConstraint("c", []string{"upper", "lower"}, "gone")},
		{name: "missing chain bone", constraint: NewConstraint("c", []string{"upper", "gone"}, "target")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			skel := buildArm(t, 100, 100, 100, 100)
			m := NewManager(skel)
			if err := m.AddConstraint(tt.constraint); err != nil {
				t.Fatalf("AddConstraint: %v", err)
			}
			m.Apply()

			for _, name := range []string{"upper", "lower"} {
				b := mustBone(t, skel, name)
				if !almostEqual(b.Local.Rotation, 0, epsilon) {
					t.Errorf("bone %q local rotation = %v, want unchanged 0", name, b.Local.Rotation)
				}
			}
		})
	}
}

func TestCCDReachableTarget(t *testing.T) {
	skel := skeleton.NewSkeleton("chain")
	parent := ""
	names := []string{"a", "b", "c", "d"}
	for i, name := range names {
		opts := []skeleton.BoneOption{skeleton.WithLength(50)}
		if i > 0 {
			opts = append(opts, skeleton.WithSetupTransform(setupAt(50, 0)))
		}
		if _, err := skel.AddBone(name, parent, opts...); err != nil {
			t.Fatalf("AddBone(%s): %v", name, err)
		}
		parent = name
	}
	if _, err := skel.AddBone("target", "",
		skeleton.WithSetupTransform(setupAt(100, 100)),
	); err != nil {
		t.Fatalf("AddBone(target): %v", err)
	}
	skel.UpdateWorldTransforms()

	m := NewManager(skel)
	if err := m.AddConstraint(NewConstraint("chain", names, "target")); err != nil {
		t.Fatalf("AddConstraint: %v", err)
	}
	m.Apply()

	leaf := mustBone(t, skel, "d")
	if dist := leaf.TipPosition().Distance(common.V2(100, 100)); dist > 1 {
		t.Errorf("tip distance to target = %v, want < 1", dist)
	}
}

func TestCCDUnreachableTargetTerminates(t *testing.T) {
	skel := skeleton.NewSkeleton("chain")
	parent := ""
	names := []string{"a", "b", "c"}
	for i, name := range names {
		opts := []skeleton.BoneOption{skeleton.WithLength(50)}
		if i > 0 {
			opts = append(opts, skeleton.WithSetupTransform(setupAt(50, 0)))
		}
		if _, err := skel.AddBone(name, parent, opts...); err != nil {
			t.Fatalf("AddBone(%s): %v", name, err)
		}
		parent = name
	}
	if _, err := skel.AddBone("target", "",
		skeleton.WithSetupTransform(setupAt(1000, 0)),
	); err != nil {
		t.Fatalf("AddBone(target): %v", err)
	}
	skel.UpdateWorldTransforms()

	m := NewManager(skel)
	c := NewConstraint("chain", names, "target", WithMaxIterations(100))
	if err := m.AddConstraint(c); err != nil {
		t.Fatalf("AddConstraint: %v", err)
	}
	m.Apply()

	// The chain straightens along +X as far as it can reach.
	leaf := mustBone(t, skel, "c")
	tip := leaf.TipPosition()
	if math.IsNaN(tip.X) || math.IsNaN(tip.Y) {
		t.Fatalf("tip is NaN")
	}
	if !almostEqual(tip.X, 150, 1e-3) || !almostEqual(tip.Y, 0, 1e-3) {
		t.Errorf("tip = %v, want (150, 0)", tip)
	}
}

func TestManagerLifecycle(t *testing.T) {
	skel := buildArm(t, 100, 100, 100, 100)
	m := NewManager(skel)

	c := NewConstraint("reach", []string{"upper", "lower"}, "target")
	if err := m.AddConstraint(c); err != nil {
		t.Fatalf("AddConstraint: %v", err)
	}
	if err := m.AddConstraint(NewConstraint("reach", nil, "target")); err == nil {
		t.Error("expected duplicate name error")
	}
	if got, ok := m.Constraint("reach"); !ok || got != c {
		t.Errorf("Constraint(reach) = %v, %v", got, ok)
	}
	if n := len(m.Constraints()); n != 1 {
		t.Errorf("len(Constraints()) = %d, want 1", n)
	}
	if err := m.RemoveConstraint("nope"); err == nil {
		t.Error("expected unknown constraint error")
	}
	if err := m.RemoveConstraint("reach"); err != nil {
		t.Errorf("RemoveConstraint: %v", err)
	}
	if n := len(m.Constraints()); n != 0 {
		t.Errorf("len(Constraints()) after removal = %d, want 0", n)
	}
}
