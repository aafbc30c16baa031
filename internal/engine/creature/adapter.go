package creature

import "fmt"

// ApplySample writes a frame sample into buf. Positions lose their z component and
// have y inverted; UVs pass through unchanged.
//
// A sample whose lengths disagree with topo is rejected with ErrShapeMismatch and
// buf is left untouched. The dirty flag is never set here: content changes keep
// every buffer the same size.
func ApplySample(buf *RenderBuffers, topo *MeshTopology, sample FrameSample) error {
	n := int(topo.PointCount())
	if len(sample.Positions) != n*3 {
		return fmt.Errorf("%w: %d positions, want %d", ErrShapeMismatch, len(sample.Positions), n*3)
	}
	if len(sample.UVs) != n*2 {
		return fmt.Errorf("%w: %d uvs, want %d", ErrShapeMismatch, len(sample.UVs), n*2)
	}
	if len(buf.Vertices) != n*2 || len(buf.UVs) != n*2 {
		return fmt.Errorf("%w: buffers sized for %d points, topology has %d", ErrBufferSize, buf.PointCount(), n)
	}

	for i := 0; i < n; i++ {
		buf.Vertices[2*i] = sample.Positions[3*i]
		buf.Vertices[2*i+1] = -sample.Positions[3*i+1]
	}
	copy(buf.UVs, sample.UVs)
	return nil
}
