// package ik implements the inverse-kinematics solvers: a closed-form
// two-bone solve, a single-bone aim, and a cyclic iterative solve for longer
// chains. Solvers run after the animation sampler has written local
// transforms and mutate bone-local rotations (and, with stretch or compress,
// scales) in place; the caller recomputes world transforms afterwards.
package ik

import (
	"math"

	"github.com/Carmen-Shannon/rig-go/common"
	"github.com/Carmen-Shannon/rig-go/engine/skeleton"
)

const (
	// coincidentEpsilon is the distance below which the target is treated as
	// coincident with a chain origin; the triangle is undefined there, so the
	// solve is skipped and rotations are left unchanged.
	coincidentEpsilon = 1e-6

	// ccdEpsilon is the per-pass distance improvement below which the cyclic
	// solve stops early.
	ccdEpsilon = 1e-4
)

// Apply solves one constraint against a skeleton. The skeleton's world
// transforms must be current when called; the solve mutates local transforms,
// so the caller recomputes world transforms afterwards.
//
// A constraint whose target or chain bones are missing is inert: the dangling
// reference is an expected editing state, not an error. Unreachable targets
// are likewise not errors; the chain approaches as far as its geometry allows.
//
// Parameters:
//   - skel: the skeleton to solve against
//   - c: the constraint to apply
func Apply(skel skeleton.Skeleton, c *Constraint) {
	if c.Mix <= 0 || len(c.BoneNames) == 0 {
		return
	}

	target, ok := skel.Bone(c.TargetName)
	if !ok {
		common.Logger().Debug("ik constraint inert: missing target",
			"constraint", c.Name, "target", c.TargetName)
		return
	}
	chain := make([]*skeleton.Bone, len(c.BoneNames))
	for i, name := range c.BoneNames {
		b, ok := skel.Bone(name)
		if !ok {
			common.Logger().Debug("ik constraint inert: missing chain bone",
				"constraint", c.Name, "bone", name)
			return
		}
		chain[i] = b
	}

	tp := target.WorldPosition()
	switch len(chain) {
	case 1:
		solveAim(chain[0], tp, c)
	case 2:
		solveTwoBone(skel, chain[0], chain[1], tp, c)
	default:
		solveCCD(skel, chain, tp, c)
	}
}

// solveAim rotates a single bone so its +X axis points at the target,
// optionally stretching or compressing its length to reach it.
func solveAim(b *skeleton.Bone, tp common.Vec2, c *Constraint) {
	p := b.WorldPosition()
	dvec := tp.Sub(p)
	d := dvec.Length()
	if d < coincidentEpsilon {
		return
	}

	delta := common.NormalizeDegrees(dvec.Angle() - b.World.Rotation)
	b.Local.Rotation += c.Mix * delta

	length := b.Length * math.Abs(b.World.ScaleX)
	if length <= 0 {
		return
	}
	if (c.Stretch && d > length) || (c.Compress && d < length) {
		factor := d / length
		b.Local.ScaleX = common.Lerp(b.Local.ScaleX, b.Local.ScaleX*factor, c.Mix)
	}
}

// solveTwoBone is the closed-form law-of-cosines solve for the common
// upper-arm/forearm case. BendPositive selects between the two mirror-image
// elbow solutions.
func solveTwoBone(skel skeleton.Skeleton, b1, b2 *skeleton.Bone, tp common.Vec2, c *Constraint) {
	p1 := b1.WorldPosition()
	dvec := tp.Sub(p1)
	d := dvec.Length()
	if d < coincidentEpsilon {
		return
	}

	l1 := b1.Length * math.Abs(b1.World.ScaleX)
	l2 := b2.Length * math.Abs(b2.World.ScaleX)
	if l1 <= 0 || l2 <= 0 {
		return
	}

	pre1 := b1.Local.Rotation
	pre2 := b2.Local.Rotation

	reach := l1 + l2
	minReach := math.Abs(l1 - l2)

	if c.Stretch && d > reach {
		factor := d / reach
		scaleChain(b1, b2, factor, c.Mix)
		l1 *= factor
		l2 *= factor
		reach = d
		minReach = math.Abs(l1 - l2)
	} else if c.Compress && minReach > 0 && d < minReach {
		factor := d / minReach
		scaleChain(b1, b2, factor, c.Mix)
		l1 *= factor
		l2 *= factor
		reach = l1 + l2
		minReach = d
	}

	// Triangle side used for the angle solve. Clamping keeps acos in range
	// for unreachable targets (too far or inside the minimum reach) so the
	// solve degrades to pointing at the target instead of producing NaN.
	dTri := common.Clamp(d, minReach, reach)
	if c.Softness > 0 && dTri > reach-c.Softness {
		// Ease the last stretch of extension instead of snapping straight.
		over := dTri - (reach - c.Softness)
		dTri = reach - c.Softness + c.Softness*(1-math.Exp(-over/c.Softness))
	}

	angle0 := dvec.Angle()
	cos1 := common.Clamp((dTri*dTri+l1*l1-l2*l2)/(2*dTri*l1), -1, 1)
	angle1 := common.RadToDeg(math.Acos(cos1))
	cosElbow := common.Clamp((l1*l1+l2*l2-dTri*dTri)/(2*l1*l2), -1, 1)
	bend := 180 - common.RadToDeg(math.Acos(cosElbow))

	bendDir := 1.0
	if !c.BendPositive {
		bendDir = -1
	}
	desired1 := angle0 - bendDir*angle1
	desired2 := desired1 + bendDir*bend

	// Solve fully first, then blend against the pre-solve pose by mix.
	// The second bone's world rotation depends on the first bone's update,
	// so the chain is applied sequentially with a world refresh in between.
	delta1 := common.NormalizeDegrees(desired1 - b1.World.Rotation)
	b1.Local.Rotation = pre1 + delta1
	skel.UpdateWorldTransforms()
	delta2 := common.NormalizeDegrees(desired2 - b2.World.Rotation)

	b1.Local.Rotation = pre1 + c.Mix*delta1
	b2.Local.Rotation = pre2 + c.Mix*delta2
}

// scaleChain applies a length factor to a two-bone chain. Only the parent's
// local scale changes when the child inherits scale, since the factor then
// propagates through the hierarchy; otherwise both bones scale.
func scaleChain(b1, b2 *skeleton.Bone, factor, mix float64) {
	b1.Local.ScaleX = common.Lerp(b1.Local.ScaleX, b1.Local.ScaleX*factor, mix)
	if !b2.InheritScale {
		b2.Local.ScaleX = common.Lerp(b2.Local.ScaleX, b2.Local.ScaleX*factor, mix)
	}
}

// solveCCD is the iterative cyclic solve for chains longer than two bones.
// Each pass rotates every bone in turn to swing the end effector toward the
// target; passes stop at the iteration cap or when the per-pass distance
// improvement drops below ccdEpsilon. Termination is deterministic regardless
// of reachability.
func solveCCD(skel skeleton.Skeleton, chain []*skeleton.Bone, tp common.Vec2, c *Constraint) {
	pre := make([]float64, len(chain))
	for i, b := range chain {
		pre[i] = b.Local.Rotation
	}

	leaf := chain[len(chain)-1]
	maxIter := c.iterationCap()
	prevDist := math.Inf(1)
	iterations := 0

	for iter := 0; iter < maxIter; iter++ {
		iterations++
		for i := len(chain) - 1; i >= 0; i-- {
			skel.UpdateWorldTransforms()
			b := chain[i]
			p := b.WorldPosition()
			toEnd := leaf.TipPosition().Sub(p)
			toTarget := tp.Sub(p)
			if toEnd.Length() < coincidentEpsilon || toTarget.Length() < coincidentEpsilon {
				continue
			}
			b.Local.Rotation += common.NormalizeDegrees(toTarget.Angle() - toEnd.Angle())
		}

		skel.UpdateWorldTransforms()
		dist := leaf.TipPosition().Distance(tp)
		if prevDist-dist < ccdEpsilon {
			break
		}
		prevDist = dist
	}

	common.Logger().Debug("ik ccd solve",
		"constraint", c.Name, "iterations", iterations, "distance", leaf.TipPosition().Distance(tp))

	for i, b := range chain {
		b.Local.Rotation = pre[i] + c.Mix*common.NormalizeDegrees(b.Local.Rotation-pre[i])
	}
}
