// package curve provides the easing interpolators applied between keyframes.
// Interpolators form a small closed set (linear, stepped, cubic Bezier)
// dispatched by kind rather than by interface, since the variant set is fixed
// and serialized by name.
package curve

import "math"

// Kind identifies an interpolator variant. Kinds are stable names used by
// serialization layers outside this module.
type Kind string

const (
	// KindLinear interpolates at constant speed.
	KindLinear Kind = "linear"

	// KindStepped holds the previous keyframe's value until the next keyframe.
	KindStepped Kind = "stepped"

	// KindBezier eases along a cubic Bezier curve through (0,0), (X1,Y1), (X2,Y2), (1,1).
	KindBezier Kind = "bezier"
)

// Interpolator describes the easing curve applied when interpolating from one
// keyframe to the next. The zero value is a linear interpolator.
type Interpolator struct {
	// Kind selects the variant. An empty Kind behaves as KindLinear.
	Kind Kind

	// X1, Y1, X2, Y2 are the Bezier control points, used only when Kind is KindBezier.
	// X coordinates are clamped to [0, 1] at construction; Y coordinates may lie
	// outside [0, 1] to produce overshoot.
	X1, Y1, X2, Y2 float64
}

// Linear returns the linear interpolator.
//
// Returns:
//   - Interpolator: an interpolator with KindLinear
func Linear() Interpolator {
	return Interpolator{Kind: KindLinear}
}

// Stepped returns the stepped (hold) interpolator.
//
// Returns:
//   - Interpolator: an interpolator with KindStepped
func Stepped() Interpolator {
	return Interpolator{Kind: KindStepped}
}

// Bezier returns a cubic Bezier interpolator through (0,0), (x1,y1), (x2,y2), (1,1).
// The x control coordinates are clamped to [0, 1] so the curve remains a
// function of time; the y coordinates are left unclamped for overshoot.
//
// Parameters:
//   - x1, y1: the first control point
//   - x2, y2: the second control point
//
// Returns:
//   - Interpolator: an interpolator with KindBezier
func Bezier(x1, y1, x2, y2 float64) Interpolator {
	return Interpolator{
		Kind: KindBezier,
		X1:   clamp01(x1), Y1: y1,
		X2: clamp01(x2), Y2: y2,
	}
}

// Ease maps a normalized progress value to an eased progress value.
// The input is expected in [0, 1]; output is typically in [0, 1] but Bezier
// curves may exceed that range for overshoot.
//
// Parameters:
//   - t: normalized progress in [0, 1]
//
// Returns:
//   - float64: the eased progress
func (in Interpolator) Ease(t float64) float64 {
	switch in.Kind {
	case KindStepped:
		if t >= 1 {
			return 1
		}
		return 0
	case KindBezier:
		return bezierEase(in.X1, in.Y1, in.X2, in.Y2, t)
	default:
		return t
	}
}

const (
	// bezierNewtonIterations bounds the Newton-Raphson refinement of the
	// time parameter; four iterations keep the error below 1e-7 for the
	// control ranges produced by Bezier.
	bezierNewtonIterations = 4

	// bezierBisectIterations bounds the bisection fallback used when the
	// derivative is too flat for Newton to converge.
	bezierBisectIterations = 24

	bezierEpsilon = 1e-7
)

// bezierEase evaluates the easing curve defined by control points (x1,y1) and
// (x2,y2) at horizontal position x. The curve is parametric, so the parameter
// u with sampleX(u) == x is solved for first, then the eased value is
// sampleY(u). Newton-Raphson is tried first and bisection is the fallback for
// flat-derivative regions.
func bezierEase(x1, y1, x2, y2, x float64) float64 {
	if x <= 0 {
		return 0
	}
	if x >= 1 {
		return 1
	}

	u := x
	for i := 0; i < bezierNewtonIterations; i++ {
		slope := bezierDerivative(x1, x2, u)
		if math.Abs(slope) < bezierEpsilon {
			break
		}
		u -= (bezierEval(x1, x2, u) - x) / slope
	}

	if err := bezierEval(x1, x2, u) - x; math.Abs(err) > bezierEpsilon {
		lo, hi := 0.0, 1.0
		for i := 0; i < bezierBisectIterations; i++ {
			u = (lo + hi) / 2
			if bezierEval(x1, x2, u) < x {
				lo = u
			} else {
				hi = u
			}
		}
	}

	return bezierEval(y1, y2, u)
}

// bezierEval evaluates a 1D cubic Bezier with endpoints 0 and 1 and control
// values c1, c2 at parameter u, using the expanded polynomial form.
func bezierEval(c1, c2, u float64) float64 {
	// B(u) = 3(1-u)²u·c1 + 3(1-u)u²·c2 + u³
	inv := 1 - u
	return 3*inv*inv*u*c1 + 3*inv*u*u*c2 + u*u*u
}

// bezierDerivative evaluates dB/du for the same 1D cubic Bezier.
func bezierDerivative(c1, c2, u float64) float64 {
	inv := 1 - u
	return 3*inv*inv*c1 + 6*inv*u*(c2-c1) + 3*u*u*(1-c2)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
