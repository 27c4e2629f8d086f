package mesh

import "github.com/Carmen-Shannon/rig-go/common"

// MaxInfluences is the maximum number of bones that may influence one vertex.
const MaxInfluences = 4

// Influence is a single (bone, weight) pair acting on a vertex.
type Influence struct {
	// BoneIndex is the index of the influencing bone in the skeleton's
	// topologically ordered bone list.
	BoneIndex int

	// Weight is the influence weight. Weights across a vertex's influences
	// are expected to sum to 1; NormalizeWeights enforces this explicitly.
	Weight float64

	// BindOffset is the vertex's authored position expressed in the
	// influencing bone's setup-pose space. Computed once by BindToSkeleton
	// and cached; the skinning pass never recomputes it.
	BindOffset common.Vec2
}

// Vertex is a single deformable mesh vertex.
type Vertex struct {
	// Position is the authored (bind-pose) position in world units.
	Position common.Vec2

	// U and V are the texture coordinates.
	U, V float64

	// Influences are the bone weights acting on this vertex.
	// InfluenceCount gives the number of valid entries.
	Influences [MaxInfluences]Influence

	// InfluenceCount is the number of valid entries in Influences.
	InfluenceCount int
}
