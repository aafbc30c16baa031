package creature

import "fmt"

// SwapState is either Global or Swapped.
type SwapState interface {
	swapState()
}

// Global renders with the topology's own triangle list.
type Global struct{}

// Swapped renders with an engine-provided index list for a named swap.
type Swapped struct {
	Name    string
	Indices []uint16
}

func (Global) swapState()  {}
func (Swapped) swapState() {}

// SkinSwapper switches a creature's index buffer between the global topology and
// engine-computed swap lists.
type SkinSwapper struct {
	source SwapSource
	topo   *MeshTopology
	state  SwapState
	meta   bool
}

// NewSkinSwapper starts in the Global state with no metadata attached.
func NewSkinSwapper(source SwapSource, topo *MeshTopology) *SkinSwapper {
	return &SkinSwapper{source: source, topo: topo, state: Global{}}
}

// State returns the active swap state.
func (s *SkinSwapper) State() SwapState { return s.state }

// Active returns the active swap name, or "" in the Global state.
func (s *SkinSwapper) Active() string {
	if sw, ok := s.state.(Swapped); ok {
		return sw.Name
	}
	return ""
}

// MetaDataAttached reports whether swap calls are allowed.
func (s *SkinSwapper) MetaDataAttached() bool { return s.meta }

// AttachMetaData allows swap calls. A swap active from previous metadata is
// dropped back to Global, since its indices may no longer exist.
func (s *SkinSwapper) AttachMetaData(buf *RenderBuffers) {
	if _, ok := s.state.(Swapped); ok {
		s.restoreGlobal(buf)
	}
	s.meta = true
}

// Enable replaces the index buffer with the swap list for name. A rejected
// list leaves both the creature and the engine on the previous state.
func (s *SkinSwapper) Enable(name string, buf *RenderBuffers) error {
	if !s.meta {
		return ErrMetaDataMissing
	}
	indices, ok := s.source.SkinSwapIndices(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrSwapUnsupported, name)
	}
	if err := checkIndices(indices, s.topo.PointCount()); err != nil {
		s.restoreSource()
		return fmt.Errorf("swap %q: %w", name, err)
	}
	s.state = Swapped{Name: name, Indices: append([]uint16(nil), indices...)}
	buf.replaceIndices(indices)
	return nil
}

// Disable restores the global triangle list.
func (s *SkinSwapper) Disable(buf *RenderBuffers) error {
	if !s.meta {
		return ErrMetaDataMissing
	}
	s.restoreGlobal(buf)
	return nil
}

func (s *SkinSwapper) restoreGlobal(buf *RenderBuffers) {
	s.source.ClearSkinSwap()
	s.state = Global{}
	buf.replaceIndices(s.topo.indices)
}

// restoreSource points the engine back at the active state.
func (s *SkinSwapper) restoreSource() {
	if sw, ok := s.state.(Swapped); ok {
		s.source.SkinSwapIndices(sw.Name)
		return
	}
	s.source.ClearSkinSwap()
}
