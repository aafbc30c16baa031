package creature

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// Slot names a float vertex attribute buffer.
type Slot int

const (
	SlotVertices Slot = iota
	SlotUVs
	SlotColors
)

func (s Slot) String() string {
	switch s {
	case SlotUVs:
		return "uvs"
	case SlotColors:
		return "colors"
	default:
		return "vertices"
	}
}

// Uniforms are the per-draw shading inputs.
type Uniforms struct {
	World   mgl32.Mat3
	Tint    mgl32.Vec3
	Alpha   float32
	Texture uint32
}

// Device creates per-object buffer sets on the GPU.
type Device interface {
	CreateBuffers() (DeviceBuffers, error)
}

// DeviceBuffers is the device-side storage of one creature.
type DeviceBuffers interface {
	// AllocateFloats (re)allocates slot's storage sized to data and uploads it.
	AllocateFloats(slot Slot, data []float32)
	// UpdateFloats overwrites slot's existing storage from a same-sized buffer.
	UpdateFloats(slot Slot, data []float32)
	// AllocateIndices (re)allocates the index storage.
	AllocateIndices(data []uint16)
	// DrawTriangles draws indexCount indices as a triangle list.
	DrawTriangles(indexCount int, u Uniforms)
	Release()
}

// SyncMode reports what a Sync call uploaded.
type SyncMode int

const (
	// SyncAllocate is the first upload, creating device storage.
	SyncAllocate SyncMode = iota + 1
	// SyncFull reallocates all four buffers after a size-changing event.
	SyncFull
	// SyncPartial rewrites vertices, UVs and colors in place; indices are untouched.
	SyncPartial
)

func (m SyncMode) String() string {
	switch m {
	case SyncAllocate:
		return "allocate"
	case SyncFull:
		return "full"
	case SyncPartial:
		return "partial"
	default:
		return "none"
	}
}

// BufferSynchronizer keeps one creature's device buffers in step with its CPU
// buffers. Device storage is created lazily on the first Sync and released by
// Destroy.
type BufferSynchronizer struct {
	device  Device
	handles DeviceBuffers

	// Lengths of the allocated float storage, to catch partial updates that
	// would write past it.
	vertLen, uvLen, colorLen int

	log *zap.Logger
}

// NewBufferSynchronizer returns a synchronizer in the uninitialized state.
func NewBufferSynchronizer(device Device, log *zap.Logger) *BufferSynchronizer {
	if log == nil {
		log = zap.NewNop()
	}
	return &BufferSynchronizer{device: device, log: log}
}

// Allocated reports whether device storage exists.
func (s *BufferSynchronizer) Allocated() bool { return s.handles != nil }

// Sync uploads buf. Clean buffers get a partial update; dirty or first-time
// buffers get a full allocation, after which the dirty flag is cleared.
func (s *BufferSynchronizer) Sync(buf *RenderBuffers) (SyncMode, error) {
	if err := buf.validate(); err != nil {
		return 0, err
	}

	if s.handles == nil {
		h, err := s.device.CreateBuffers()
		if err != nil {
			return 0, fmt.Errorf("creating device buffers: %w", err)
		}
		s.handles = h
		s.allocate(buf)
		s.log.Debug("device buffers allocated",
			zap.Int("points", buf.PointCount()),
			zap.Int("indices", len(buf.Indices)))
		return SyncAllocate, nil
	}

	if buf.Dirty() {
		s.allocate(buf)
		s.log.Debug("device buffers reallocated", zap.Int("indices", len(buf.Indices)))
		return SyncFull, nil
	}

	if len(buf.Vertices) != s.vertLen || len(buf.UVs) != s.uvLen || len(buf.Colors) != s.colorLen {
		return 0, fmt.Errorf("%w: clean buffers changed size since allocation", ErrBufferSize)
	}
	s.handles.UpdateFloats(SlotVertices, buf.Vertices)
	s.handles.UpdateFloats(SlotUVs, buf.UVs)
	// Region painting may touch any point, so colors always go up whole.
	s.handles.AllocateFloats(SlotColors, buf.Colors)
	return SyncPartial, nil
}

func (s *BufferSynchronizer) allocate(buf *RenderBuffers) {
	s.handles.AllocateFloats(SlotVertices, buf.Vertices)
	s.handles.AllocateFloats(SlotUVs, buf.UVs)
	s.handles.AllocateFloats(SlotColors, buf.Colors)
	s.handles.AllocateIndices(buf.Indices)
	s.vertLen, s.uvLen, s.colorLen = len(buf.Vertices), len(buf.UVs), len(buf.Colors)
	buf.clearDirty()
}

// Draw issues the draw call for the last synced buffers.
func (s *BufferSynchronizer) Draw(indexCount int, u Uniforms) {
	if s.handles == nil {
		return
	}
	s.handles.DrawTriangles(indexCount, u)
}

// Destroy releases device storage. A later Sync allocates again.
func (s *BufferSynchronizer) Destroy() {
	if s.handles == nil {
		return
	}
	s.handles.Release()
	s.handles = nil
	s.vertLen, s.uvLen, s.colorLen = 0, 0, 0
}
