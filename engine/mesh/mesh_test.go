package mesh

import (
	"errors"
	"math"
	"testing"

	"github.com/Carmen-Shannon/rig-go/common"
)

const epsilon = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) <= epsilon
}

// identityBones returns n identity setup matrices.
func identityBones(n int) []common.Matrix {
	out := make([]common.Matrix, n)
	for i := range out {
		out[i] = common.IdentityMatrix()
	}
	return out
}

// rotation returns a world matrix rotating by degrees about the origin.
func rotation(degrees float64) common.Matrix {
	tf := common.IdentityTransform()
	tf.Rotation = degrees
	return tf.Matrix()
}

func TestAddTriangleValidatesIndices(t *testing.T) {
	m := NewDeformableMesh("patch")
	v0 := m.AddVertex(0, 0, 0, 0)
	v1 := m.AddVertex(1, 0, 1, 0)
	v2 := m.AddVertex(0, 1, 0, 1)

	if err := m.AddTriangle(v0, v1, v2); err != nil {
		t.Fatalf("AddTriangle: %v", err)
	}
	if m.TriangleCount() != 1 {
		t.Errorf("TriangleCount() = %d, want 1", m.TriangleCount())
	}

	tests := []struct {
		name       string
		i0, i1, i2 int
	}{
		{name: "negative", i0: -1, i1: 0, i2: 1},
		{name: "past end", i0: 0, i1: 1, i2: 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := m.AddTriangle(tt.i0, tt.i1, tt.i2); !errors.Is(err, ErrIndexOutOfRange) {
				t.Errorf("AddTriangle(%d,%d,%d) = %v, want ErrIndexOutOfRange", tt.i0, tt.i1, tt.i2, err)
			}
		})
	}
}

func TestSetWeightsValidation(t *testing.T) {
	m := NewDeformableMesh("patch")
	v := m.AddVertex(0, 0, 0, 0)

	if err := m.SetWeights(v+1, []int{0}, []float64{1}); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("bad vertex index: got %v, want ErrIndexOutOfRange", err)
	}
	if err := m.SetWeights(v, []int{0, 1}, []float64{1}); err == nil {
		t.Error("mismatched bones/weights lengths accepted")
	}
	if err := m.SetWeights(v, []int{0, 1, 2, 3, 4}, []float64{1, 1, 1, 1, 1}); err == nil {
		t.Error("more than MaxInfluences influences accepted")
	}
}

func TestAddWeightedVertexRollsBackOnError(t *testing.T) {
	m := NewDeformableMesh("patch")
	if _, err := m.AddWeightedVertex(0, 0, 0, 0, []int{0, 1}, []float64{1}); err == nil {
		t.Fatal("expected error for mismatched influence lists")
	}
	if m.VertexCount() != 0 {
		t.Errorf("VertexCount() = %d after failed add, want 0", m.VertexCount())
	}
}

func TestPaintWeight(t *testing.T) {
	m := NewDeformableMesh("patch")
	v := m.AddVertex(0, 0, 0, 0)

	// Append up to the cap.
	for bone := 0; bone < MaxInfluences; bone++ {
		if err := m.PaintWeight(v, bone, float64(bone+1)); err != nil {
			t.Fatalf("PaintWeight: %v", err)
		}
	}
	vert := m.Vertices()[v]
	if vert.InfluenceCount != MaxInfluences {
		t.Fatalf("InfluenceCount = %d, want %d", vert.InfluenceCount, MaxInfluences)
	}

	// Updating an existing bone stays in place.
	if err := m.PaintWeight(v, 2, 9); err != nil {
		t.Fatalf("PaintWeight: %v", err)
	}
	vert = m.Vertices()[v]
	if vert.InfluenceCount != MaxInfluences {
		t.Errorf("InfluenceCount = %d after in-place update, want %d", vert.InfluenceCount, MaxInfluences)
	}

	// Painting a new bone on a full vertex evicts the smallest weight,
	// which is bone 0 with weight 1.
	if err := m.PaintWeight(v, 7, 5); err != nil {
		t.Fatalf("PaintWeight: %v", err)
	}
	vert = m.Vertices()[v]
	for i := 0; i < vert.InfluenceCount; i++ {
		if vert.Influences[i].BoneIndex == 0 {
			t.Error("smallest-weight influence was not evicted")
		}
	}
	found := false
	for i := 0; i < vert.InfluenceCount; i++ {
		if vert.Influences[i].BoneIndex == 7 && vert.Influences[i].Weight == 5 {
			found = true
		}
	}
	if !found {
		t.Error("painted influence not present after eviction")
	}
}

func TestNormalizeWeights(t *testing.T) {
	m := NewDeformableMesh("patch")
	v, err := m.AddWeightedVertex(0, 0, 0, 0, []int{0, 1}, []float64{3, 1})
	if err != nil {
		t.Fatalf("AddWeightedVertex: %v", err)
	}
	zero := m.AddVertex(1, 1, 0, 0)

	m.NormalizeWeights()

	vert := m.Vertices()[v]
	if !almostEqual(vert.Influences[0].Weight, 0.75) || !almostEqual(vert.Influences[1].Weight, 0.25) {
		t.Errorf("weights = %v, %v, want 0.75, 0.25", vert.Influences[0].Weight, vert.Influences[1].Weight)
	}

	// A vertex with no influences (zero weight sum) is left untouched.
	if m.Vertices()[zero].InfluenceCount != 0 {
		t.Errorf("unweighted vertex gained influences")
	}
}

func TestBindToSkeletonValidatesBoneIndices(t *testing.T) {
	m := NewDeformableMesh("patch")
	if _, err := m.AddWeightedVertex(0, 0, 0, 0, []int{5}, []float64{1}); err != nil {
		t.Fatalf("AddWeightedVertex: %v", err)
	}
	if err := m.BindToSkeleton(identityBones(2)); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("BindToSkeleton = %v, want ErrIndexOutOfRange", err)
	}
	if m.Bound() {
		t.Error("Bound() = true after failed bind")
	}
}

func TestSkinRigidSingleWeight(t *testing.T) {
	// A vertex fully weighted to one bone must follow that bone's transform
	// exactly: rotating the bone 90 degrees about the origin carries the
	// vertex from (10, 0) to (0, 10).
	m := NewDeformableMesh("patch")
	if _, err := m.AddWeightedVertex(10, 0, 0, 0, []int{0}, []float64{1}); err != nil {
		t.Fatalf("AddWeightedVertex: %v", err)
	}
	if err := m.BindToSkeleton(identityBones(1)); err != nil {
		t.Fatalf("BindToSkeleton: %v", err)
	}

	out := m.Skin([]common.Matrix{rotation(90)}, nil)
	if !almostEqual(out[0].X, 0) || !almostEqual(out[0].Y, 10) {
		t.Errorf("skinned = %v, want (0, 10)", out[0])
	}
}

func TestSkinBlendsTwoBones(t *testing.T) {
	// Equal weights to a stationary bone and a bone translated by (10, 0)
	// land the vertex at the midpoint of the two rigid results.
	m := NewDeformableMesh("patch")
	if _, err := m.AddWeightedVertex(0, 0, 0, 0, []int{0, 1}, []float64{0.5, 0.5}); err != nil {
		t.Fatalf("AddWeightedVertex: %v", err)
	}
	if err := m.BindToSkeleton(identityBones(2)); err != nil {
		t.Fatalf("BindToSkeleton: %v", err)
	}

	moved := common.IdentityTransform()
	moved.X = 10
	out := m.Skin([]common.Matrix{common.IdentityMatrix(), moved.Matrix()}, nil)
	if !almostEqual(out[0].X, 5) || !almostEqual(out[0].Y, 0) {
		t.Errorf("skinned = %v, want (5, 0)", out[0])
	}
}

func TestSkinKeepsUnweightedVertices(t *testing.T) {
	m := NewDeformableMesh("patch")
	m.AddVertex(3, 4, 0, 0)
	if err := m.BindToSkeleton(identityBones(1)); err != nil {
		t.Fatalf("BindToSkeleton: %v", err)
	}

	out := m.Skin([]common.Matrix{rotation(90)}, nil)
	if !almostEqual(out[0].X, 3) || !almostEqual(out[0].Y, 4) {
		t.Errorf("skinned = %v, want authored (3, 4)", out[0])
	}
}

func TestSkinReusesDestination(t *testing.T) {
	m := NewDeformableMesh("patch")
	if _, err := m.AddWeightedVertex(1, 2, 0, 0, []int{0}, []float64{1}); err != nil {
		t.Fatalf("AddWeightedVertex: %v", err)
	}
	if err := m.BindToSkeleton(identityBones(1)); err != nil {
		t.Fatalf("BindToSkeleton: %v", err)
	}

	dst := make([]common.Vec2, 0, 8)
	out := m.Skin([]common.Matrix{common.IdentityMatrix()}, dst)
	if &out[0] != &dst[:1][0] {
		t.Error("Skin allocated a new slice despite sufficient capacity")
	}
}

func TestWeightEditInvalidatesBind(t *testing.T) {
	m := NewDeformableMesh("patch")
	v, err := m.AddWeightedVertex(0, 0, 0, 0, []int{0}, []float64{1})
	if err != nil {
		t.Fatalf("AddWeightedVertex: %v", err)
	}
	if err := m.BindToSkeleton(identityBones(1)); err != nil {
		t.Fatalf("BindToSkeleton: %v", err)
	}
	if !m.Bound() {
		t.Fatal("Bound() = false after bind")
	}

	if err := m.PaintWeight(v, 0, 0.5); err != nil {
		t.Fatalf("PaintWeight: %v", err)
	}
	if m.Bound() {
		t.Error("Bound() = true after a weight edit")
	}
}
