// package mesh implements deformable meshes and the linear-blend skinning
// pass that produces render-ready vertex positions from bone world transforms.
// The package is deliberately skeleton-agnostic: bone transforms are handed in
// as flat matrix slices indexed the same way the skeleton orders its bones.
package mesh

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/rig-go/common"
)

// ErrIndexOutOfRange is returned when a triangle or weight references a
// vertex or bone index outside the valid range. These are structural errors:
// accepting them would corrupt the mesh, so they fail fast at insertion.
var ErrIndexOutOfRange = errors.New("mesh: index out of range")

// DeformableMesh is a weighted triangle mesh deformed by a skeleton.
// It is mutated by mesh-editing operations and consumed every frame by the
// skinning pass, which never mutates it.
type DeformableMesh struct {
	name      string
	vertices  []Vertex
	triangles []int // flat triples into the vertex array
	bound     bool
}

// NewDeformableMesh creates an empty deformable mesh.
//
// Parameters:
//   - name: the mesh identifier
//
// Returns:
//   - *DeformableMesh: the new mesh
func NewDeformableMesh(name string) *DeformableMesh {
	return &DeformableMesh{name: name}
}

// Name returns the mesh identifier.
//
// Returns:
//   - string: the mesh name
func (m *DeformableMesh) Name() string {
	return m.name
}

// AddVertex appends an unweighted vertex and returns its index.
// Weights are assigned afterwards via SetWeights or PaintWeight.
//
// Parameters:
//   - x, y: the authored position in world units
//   - u, v: the texture coordinates
//
// Returns:
//   - int: the new vertex index
func (m *DeformableMesh) AddVertex(x, y, u, v float64) int {
	m.vertices = append(m.vertices, Vertex{Position: common.V2(x, y), U: u, V: v})
	return len(m.vertices) - 1
}

// AddWeightedVertex appends a vertex with bone weights and returns its index.
//
// Parameters:
//   - x, y: the authored position in world units
//   - u, v: the texture coordinates
//   - bones: the influencing bone indices (at most MaxInfluences)
//   - weights: the weight for each bone, same length as bones
//
// Returns:
//   - int: the new vertex index
//   - error: error if the influence lists are invalid
func (m *DeformableMesh) AddWeightedVertex(x, y, u, v float64, bones []int, weights []float64) (int, error) {
	idx := m.AddVertex(x, y, u, v)
	if err := m.SetWeights(idx, bones, weights); err != nil {
		m.vertices = m.vertices[:idx]
		return 0, err
	}
	return idx, nil
}

// AddTriangle appends a triangle referencing three vertices by index.
// Out-of-range indices are rejected here, never at render time.
//
// Parameters:
//   - i0, i1, i2: vertex indices
//
// Returns:
//   - error: ErrIndexOutOfRange if any index is invalid
func (m *DeformableMesh) AddTriangle(i0, i1, i2 int) error {
	n := len(m.vertices)
	for _, i := range [3]int{i0, i1, i2} {
		if i < 0 || i >= n {
			return fmt.Errorf("%w: triangle vertex %d with %d vertices", ErrIndexOutOfRange, i, n)
		}
	}
	m.triangles = append(m.triangles, i0, i1, i2)
	return nil
}

// SetWeights replaces a vertex's bone influences.
// The weights are stored as given; call NormalizeWeights before skinning.
// Any cached bind offsets are invalidated, so BindToSkeleton must run again.
//
// Parameters:
//   - vertexIndex: the vertex to modify
//   - bones: the influencing bone indices (at most MaxInfluences)
//   - weights: the weight for each bone, same length as bones
//
// Returns:
//   - error: error if the vertex index or influence lists are invalid
func (m *DeformableMesh) SetWeights(vertexIndex int, bones []int, weights []float64) error {
	if vertexIndex < 0 || vertexIndex >= len(m.vertices) {
		return fmt.Errorf("%w: vertex %d with %d vertices", ErrIndexOutOfRange, vertexIndex, len(m.vertices))
	}
	if len(bones) != len(weights) {
		return fmt.Errorf("mesh: %d bones with %d weights", len(bones), len(weights))
	}
	if len(bones) > MaxInfluences {
		return fmt.Errorf("mesh: %d influences exceeds maximum %d", len(bones), MaxInfluences)
	}

	vert := &m.vertices[vertexIndex]
	vert.Influences = [MaxInfluences]Influence{}
	vert.InfluenceCount = len(bones)
	for i := range bones {
		vert.Influences[i] = Influence{BoneIndex: bones[i], Weight: weights[i]}
	}
	m.bound = false
	return nil
}

// PaintWeight adds weight for one bone on one vertex, the primitive behind an
// editor's weight brush. An existing influence for the bone is updated in
// place; otherwise the influence is appended, evicting the smallest-weight
// influence when the vertex is already full.
//
// Parameters:
//   - vertexIndex: the vertex to modify
//   - boneIndex: the bone receiving weight
//   - weight: the new weight for that bone
//
// Returns:
//   - error: ErrIndexOutOfRange if the vertex index is invalid
func (m *DeformableMesh) PaintWeight(vertexIndex, boneIndex int, weight float64) error {
	if vertexIndex < 0 || vertexIndex >= len(m.vertices) {
		return fmt.Errorf("%w: vertex %d with %d vertices", ErrIndexOutOfRange, vertexIndex, len(m.vertices))
	}

	vert := &m.vertices[vertexIndex]
	for i := 0; i < vert.InfluenceCount; i++ {
		if vert.Influences[i].BoneIndex == boneIndex {
			vert.Influences[i].Weight = weight
			m.bound = false
			return nil
		}
	}

	if vert.InfluenceCount < MaxInfluences {
		vert.Influences[vert.InfluenceCount] = Influence{BoneIndex: boneIndex, Weight: weight}
		vert.InfluenceCount++
		m.bound = false
		return nil
	}

	// Vertex is full: evict the smallest influence.
	smallest := 0
	for i := 1; i < MaxInfluences; i++ {
		if vert.Influences[i].Weight < vert.Influences[smallest].Weight {
			smallest = i
		}
	}
	vert.Influences[smallest] = Influence{BoneIndex: boneIndex, Weight: weight}
	m.bound = false
	return nil
}

// NormalizeWeights rescales every vertex's weights to sum to 1.
// This is an explicit operation, never run implicitly by the skinning pass;
// reading with non-normalized weights is a caller bug, not auto-corrected.
// Vertices whose weights sum to zero are left untouched.
func (m *DeformableMesh) NormalizeWeights() {
	for vi := range m.vertices {
		vert := &m.vertices[vi]
		sum := 0.0
		for i := 0; i < vert.InfluenceCount; i++ {
			sum += vert.Influences[i].Weight
		}
		if sum == 0 {
			continue
		}
		for i := 0; i < vert.InfluenceCount; i++ {
			vert.Influences[i].Weight /= sum
		}
	}
}

// BindToSkeleton caches each influence's bind-space offset: the vertex's
// authored position expressed relative to the influencing bone's setup-pose
// world transform. Computed once here, not per frame. Bone indices are
// validated against the matrix slice, failing fast on structural errors.
//
// Parameters:
//   - setupWorld: setup-pose world matrices, indexed by bone index
//
// Returns:
//   - error: ErrIndexOutOfRange if an influence references an invalid bone
func (m *DeformableMesh) BindToSkeleton(setupWorld []common.Matrix) error {
	inverses := make([]common.Matrix, len(setupWorld))
	computed := make([]bool, len(setupWorld))

	for vi := range m.vertices {
		vert := &m.vertices[vi]
		for i := 0; i < vert.InfluenceCount; i++ {
			inf := &vert.Influences[i]
			if inf.BoneIndex < 0 || inf.BoneIndex >= len(setupWorld) {
				return fmt.Errorf("%w: bone %d with %d bones", ErrIndexOutOfRange, inf.BoneIndex, len(setupWorld))
			}
			if !computed[inf.BoneIndex] {
				inverses[inf.BoneIndex] = setupWorld[inf.BoneIndex].Invert()
				computed[inf.BoneIndex] = true
			}
			inf.BindOffset = inverses[inf.BoneIndex].TransformPoint(vert.Position)
		}
	}
	m.bound = true
	return nil
}

// Bound reports whether bind offsets are cached for the current weights.
//
// Returns:
//   - bool: true if BindToSkeleton has run since the last weight edit
func (m *DeformableMesh) Bound() bool {
	return m.bound
}

// Skin computes deformed vertex positions by linear-blend skinning:
// each vertex is the weight-blended sum of its bind offsets pushed through
// the current bone world matrices. Vertices without influences keep their
// authored position. The hot path is allocation-free when dst has capacity.
//
// Parameters:
//   - world: current bone world matrices, indexed by bone index
//   - dst: destination slice, reused when capacity allows (may be nil)
//
// Returns:
//   - []common.Vec2: the deformed positions, one per vertex
func (m *DeformableMesh) Skin(world []common.Matrix, dst []common.Vec2) []common.Vec2 {
	if cap(dst) < len(m.vertices) {
		dst = make([]common.Vec2, len(m.vertices))
	}
	dst = dst[:len(m.vertices)]

	for vi := range m.vertices {
		vert := &m.vertices[vi]
		if vert.InfluenceCount == 0 {
			dst[vi] = vert.Position
			continue
		}
		var out common.Vec2
		for i := 0; i < vert.InfluenceCount; i++ {
			inf := &vert.Influences[i]
			p := world[inf.BoneIndex].TransformPoint(inf.BindOffset)
			out.X += p.X * inf.Weight
			out.Y += p.Y * inf.Weight
		}
		dst[vi] = out
	}
	return dst
}

// Vertices returns the mesh's vertex array. The slice is shared, not copied;
// callers treat it as read-only.
//
// Returns:
//   - []Vertex: the vertices
func (m *DeformableMesh) Vertices() []Vertex {
	return m.vertices
}

// Triangles returns the flat triangle index triples. The slice is shared,
// not copied; callers treat it as read-only.
//
// Returns:
//   - []int: vertex indices, three per triangle
func (m *DeformableMesh) Triangles() []int {
	return m.triangles
}

// VertexCount returns the number of vertices.
//
// Returns:
//   - int: the vertex count
func (m *DeformableMesh) VertexCount() int {
	return len(m.vertices)
}

// TriangleCount returns the number of triangles.
//
// Returns:
//   - int: the triangle count
func (m *DeformableMesh) TriangleCount() int {
	return len(m.triangles) / 3
}
