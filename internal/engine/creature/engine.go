package creature

import "github.com/go-gl/mathgl/mgl32"

// Axis selects an anchor axis.
type Axis int

const (
	AxisX Axis = iota
	AxisY
)

func (a Axis) String() string {
	if a == AxisY {
		return "y"
	}
	return "x"
}

// Playback is the control surface the anchor sequence drives.
type Playback interface {
	Stop()
	RunToTime(t float32)
	SetAnchor(axis Axis, value float32, animation string)
	Play(loop bool)
}

// SwapSource computes skin swap index lists.
type SwapSource interface {
	// SkinSwapIndices returns the index list for a swap name, or false when the
	// name is not supported.
	SkinSwapIndices(name string) ([]uint16, bool)
	// ClearSkinSwap returns the engine to its global index list.
	ClearSkinSwap()
}

// Engine is the skeletal animation playback engine a Creature renders.
type Engine interface {
	Playback
	SwapSource

	// Topology returns the point count and global triangle list.
	Topology() (pointCount uint32, indices []uint16)
	// Advance moves playback time forward when playing.
	Advance(dt float32)
	// Sample returns the current pose.
	Sample() FrameSample
	// Regions returns the regions with their current opacity.
	Regions() []RegionDefinition
	// Bounds returns the pose's bounding box in engine coordinates.
	Bounds() (min, max mgl32.Vec2)

	IsPlaying() bool
	Looping() bool
	SetActiveAnimation(name string, blend bool) error
	SetAnchorPointEnabled(enabled bool)

	// AttachMetaData loads a metadata document by asset key.
	AttachMetaData(key string) error
	// LoadAnimations adds every clip from another mesh document.
	LoadAnimations(meshKey string) error
	SetItemSwap(region string, index int)
	RemoveItemSwap(region string)
	// PixelScaling returns the scale that makes the rest pose width x height pixels.
	PixelScaling(width, height float32) (sx, sy float32)
}
