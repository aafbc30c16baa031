package creature

import "fmt"

// RenderBuffers holds the CPU-side buffers handed to the device every draw.
//
// Vertices and UVs are packed pairs, Colors packed quadruples, all sized from the
// topology's point count. Indices change length with the skin swap state.
type RenderBuffers struct {
	Vertices []float32
	UVs      []float32
	Colors   []float32
	Indices  []uint16

	// dirty means the device copy needs a full reallocation, not a partial update.
	dirty bool
}

// NewRenderBuffers sizes buffers for topo. Colors start at 1.0 and the object is dirty.
func NewRenderBuffers(topo *MeshTopology) *RenderBuffers {
	n := int(topo.PointCount())
	b := &RenderBuffers{
		Vertices: make([]float32, n*2),
		UVs:      make([]float32, n*2),
		Colors:   make([]float32, n*4),
		Indices:  topo.Indices(),
		dirty:    true,
	}
	for i := range b.Colors {
		b.Colors[i] = 1.0
	}
	return b
}

// Dirty reports whether the next sync must reallocate device storage.
func (b *RenderBuffers) Dirty() bool { return b.dirty }

// MarkDirty forces a full reallocation on the next sync.
func (b *RenderBuffers) MarkDirty() { b.dirty = true }

func (b *RenderBuffers) clearDirty() { b.dirty = false }

// replaceIndices swaps the index buffer wholesale. The byte length may change,
// so the device copy must be reallocated.
func (b *RenderBuffers) replaceIndices(indices []uint16) {
	b.Indices = append(b.Indices[:0:0], indices...)
	b.dirty = true
}

// PointCount returns the number of points the buffers were sized for.
func (b *RenderBuffers) PointCount() int { return len(b.Vertices) / 2 }

// validate checks the length invariants between the per-point buffers.
func (b *RenderBuffers) validate() error {
	n := b.PointCount()
	if len(b.Vertices)%2 != 0 || len(b.UVs) != n*2 || len(b.Colors) != n*4 {
		return fmt.Errorf("%w: vertices=%d uvs=%d colors=%d",
			ErrBufferSize, len(b.Vertices), len(b.UVs), len(b.Colors))
	}
	if len(b.Indices)%3 != 0 {
		return fmt.Errorf("%w: %d indices", ErrBufferSize, len(b.Indices))
	}
	return nil
}
