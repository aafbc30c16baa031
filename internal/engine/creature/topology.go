package creature

import (
	"fmt"
	"math"
)

// MeshTopology is the fixed point count and triangle list of a creature mesh.
// It is immutable after construction.
type MeshTopology struct {
	pointCount uint32
	indices    []uint16
}

// FrameSample is one tick of deformed positions and UVs from the animation engine.
// Positions have stride 3 (x, y, z) and UVs stride 2. The adapter copies out of it
// immediately, so engines may reuse the backing arrays between ticks.
type FrameSample struct {
	Positions []float32
	UVs       []float32
}

// NewTopology validates indices against pointCount and copies them.
func NewTopology(pointCount uint32, indices []uint16) (*MeshTopology, error) {
	if pointCount > math.MaxUint16+1 {
		return nil, fmt.Errorf("%w: %d points exceed 16-bit indexing", ErrInvalidIndices, pointCount)
	}
	if err := checkIndices(indices, pointCount); err != nil {
		return nil, err
	}
	return &MeshTopology{
		pointCount: pointCount,
		indices:    append([]uint16(nil), indices...),
	}, nil
}

// PointCount returns the number of mesh points.
func (t *MeshTopology) PointCount() uint32 { return t.pointCount }

// Indices returns a copy of the global triangle list.
func (t *MeshTopology) Indices() []uint16 {
	return append([]uint16(nil), t.indices...)
}

// IndexCount returns the length of the global triangle list.
func (t *MeshTopology) IndexCount() int { return len(t.indices) }

// checkIndices requires a whole triangle list within pointCount.
func checkIndices(indices []uint16, pointCount uint32) error {
	if len(indices)%3 != 0 {
		return fmt.Errorf("%w: %d indices is not a triangle list", ErrInvalidIndices, len(indices))
	}
	for i, idx := range indices {
		if uint32(idx) >= pointCount {
			return fmt.Errorf("%w: indices[%d]=%d, point count %d", ErrInvalidIndices, i, idx, pointCount)
		}
	}
	return nil
}
