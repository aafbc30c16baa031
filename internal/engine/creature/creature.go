// Package creature renders meshes animated by a skeletal playback engine.
//
// Each tick Update advances the engine, copies its pose into the CPU buffers
// and repaints region opacity. Draw then synchronizes the device buffers and
// issues one indexed draw call. Everything runs on the render thread.
package creature

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Faultbox/creature-render/internal/logger"
)

// DefaultTimeDelta is how far the animation advances per Update.
const DefaultTimeDelta = 0.05

// Options configures a new Creature.
type Options struct {
	Animation string  // Clip to activate, "default" when empty
	TimeDelta float32 // Playback advance per Update, DefaultTimeDelta when zero
}

// Creature is one animated mesh render object. It owns its buffers, swap state
// and device storage exclusively.
type Creature struct {
	id     uuid.UUID
	engine Engine

	topo    *MeshTopology
	buffers *RenderBuffers
	swapper *SkinSwapper
	anchors *AnchorController
	sync    *BufferSynchronizer

	animation string
	timeDelta float32

	position mgl32.Vec2
	rotation float32
	scale    mgl32.Vec2
	width    float32
	height   float32

	tint    uint32
	alpha   float32
	visible bool
	texture uint32

	boundsMin mgl32.Vec2
	boundsMax mgl32.Vec2

	log *zap.Logger
}

// New builds a creature over engine. The rest pose is copied into the buffers
// immediately; device storage is created on the first Draw.
func New(engine Engine, device Device, opts Options) (*Creature, error) {
	if opts.Animation == "" {
		opts.Animation = "default"
	}
	if opts.TimeDelta == 0 {
		opts.TimeDelta = DefaultTimeDelta
	}

	pointCount, indices := engine.Topology()
	topo, err := NewTopology(pointCount, indices)
	if err != nil {
		return nil, fmt.Errorf("creature topology: %w", err)
	}

	id := uuid.New()
	log := logger.Named("creature").With(zap.String("id", id.String()))

	c := &Creature{
		id:        id,
		engine:    engine,
		topo:      topo,
		buffers:   NewRenderBuffers(topo),
		swapper:   NewSkinSwapper(engine, topo),
		anchors:   NewAnchorController(engine),
		sync:      NewBufferSynchronizer(device, log),
		animation: opts.Animation,
		timeDelta: opts.TimeDelta,
		scale:     mgl32.Vec2{1, 1},
		tint:      0xFFFFFF,
		alpha:     1,
		visible:   true,
		log:       log,
	}
	c.anchors.OnPhase = func(axis Axis, phase AnchorPhase, v float32) {
		c.log.Debug("anchor phase", zap.Stringer("axis", axis), zap.Stringer("phase", phase), zap.Float32("value", v))
	}

	if err := c.refresh(); err != nil {
		return nil, err
	}
	if err := engine.SetActiveAnimation(opts.Animation, false); err != nil {
		return nil, err
	}

	log.Info("creature created",
		zap.Uint32("points", pointCount),
		zap.Int("indices", len(indices)),
		zap.String("animation", opts.Animation))
	return c, nil
}

// ID returns the creature's instance identifier.
func (c *Creature) ID() uuid.UUID { return c.id }

// Topology returns the creature's immutable topology.
func (c *Creature) Topology() *MeshTopology { return c.topo }

// Buffers returns the CPU-side render buffers.
func (c *Creature) Buffers() *RenderBuffers { return c.buffers }

// Update advances playback by the time delta and refreshes the CPU buffers.
// A rejected frame leaves the previous frame's buffers in place.
func (c *Creature) Update() error {
	c.engine.Advance(c.timeDelta)
	return c.refresh()
}

func (c *Creature) refresh() error {
	if err := ApplySample(c.buffers, c.topo, c.engine.Sample()); err != nil {
		c.log.Warn("frame rejected", zap.Error(err))
		return err
	}
	PaintRegions(c.buffers.Colors, c.engine.Regions())
	c.updateBounds()
	return nil
}

// Draw uploads the buffers and issues the draw call. Invisible or fully
// transparent creatures draw nothing and leave device buffers untouched.
func (c *Creature) Draw() (SyncMode, error) {
	if !c.visible || c.alpha <= 0 {
		return 0, nil
	}
	mode, err := c.sync.Sync(c.buffers)
	if err != nil {
		c.log.Error("buffer sync failed", zap.Error(err))
		return 0, err
	}
	c.sync.Draw(len(c.buffers.Indices), c.uniforms())
	return mode, nil
}

func (c *Creature) uniforms() Uniforms {
	return Uniforms{
		World:   c.World(),
		Tint:    TintVector(c.tint),
		Alpha:   c.alpha,
		Texture: c.texture,
	}
}

// ResetBuffers forces a full reallocation on the next Draw.
func (c *Creature) ResetBuffers() { c.buffers.MarkDirty() }

// Destroy releases device storage.
func (c *Creature) Destroy() {
	c.sync.Destroy()
	c.log.Debug("creature destroyed")
}

// SetAnimation switches the active clip. Anchors are stored per clip by the
// engine, so both axes read as unset afterwards.
func (c *Creature) SetAnimation(name string) error {
	if err := c.engine.SetActiveAnimation(name, true); err != nil {
		return err
	}
	c.anchors.Reset()
	c.animation = name
	return nil
}

// Animation returns the active clip name.
func (c *Creature) Animation() string { return c.animation }

// SetAnimationPlaySpeed sets the per-Update time delta. Zero is ignored.
func (c *Creature) SetAnimationPlaySpeed(speed float32) {
	if speed != 0 {
		c.timeDelta = speed
	}
}

// TimeDelta returns the per-Update time delta.
func (c *Creature) TimeDelta() float32 { return c.timeDelta }

// Play starts the active clip from time zero.
func (c *Creature) Play(loop bool) { c.engine.Play(loop) }

// Stop halts time advance. The last frame's buffers stay as they are.
func (c *Creature) Stop() { c.engine.Stop() }

// IsPlaying reports whether the engine is advancing.
func (c *Creature) IsPlaying() bool { return c.engine.IsPlaying() }

// Loop reports whether the active clip loops.
func (c *Creature) Loop() bool { return c.engine.Looping() }

// SetAnchorX recenters the horizontal pivot.
func (c *Creature) SetAnchorX(v float32) error { return c.setAnchor(AxisX, v) }

// SetAnchorY recenters the vertical pivot.
func (c *Creature) SetAnchorY(v float32) error { return c.setAnchor(AxisY, v) }

func (c *Creature) setAnchor(axis Axis, v float32) error {
	changed, err := c.anchors.Set(axis, v, c.animation)
	if err != nil {
		return err
	}
	if changed {
		return c.refresh()
	}
	return nil
}

// AnchorX returns the horizontal anchor.
func (c *Creature) AnchorX() Anchor { return c.anchors.Get(AxisX) }

// AnchorY returns the vertical anchor.
func (c *Creature) AnchorY() Anchor { return c.anchors.Get(AxisY) }

// SetAnchorPointEnabled toggles whether the engine applies anchors at all.
func (c *Creature) SetAnchorPointEnabled(enabled bool) {
	c.engine.SetAnchorPointEnabled(enabled)
}

// SetMetaData attaches region metadata by asset key. On failure the creature
// keeps rendering but skin swaps stay unavailable.
func (c *Creature) SetMetaData(key string) error {
	if err := c.engine.AttachMetaData(key); err != nil {
		if errors.Is(err, ErrResourceNotFound) {
			c.log.Warn("metadata not found", zap.String("key", key))
		}
		return err
	}
	c.swapper.AttachMetaData(c.buffers)
	return nil
}

// EnableSkinSwap renders the named swap's index list.
func (c *Creature) EnableSkinSwap(name string) error {
	if err := c.swapper.Enable(name, c.buffers); err != nil {
		c.log.Warn("skin swap rejected", zap.String("swap", name), zap.Error(err))
		return err
	}
	c.log.Debug("skin swap enabled", zap.String("swap", name), zap.Int("indices", len(c.buffers.Indices)))
	return nil
}

// DisableSkinSwap restores the global triangle list.
func (c *Creature) DisableSkinSwap() error {
	if err := c.swapper.Disable(c.buffers); err != nil {
		c.log.Warn("skin swap rejected", zap.Error(err))
		return err
	}
	return nil
}

// SkinSwap returns the active swap state.
func (c *Creature) SkinSwap() SwapState { return c.swapper.State() }

// SetActiveItemSwap selects an alternate UV set for region.
func (c *Creature) SetActiveItemSwap(region string, index int) {
	c.engine.SetItemSwap(region, index)
}

// RemoveActiveItemSwap restores region's own UVs.
func (c *Creature) RemoveActiveItemSwap(region string) {
	c.engine.RemoveItemSwap(region)
}

// CreateAllAnimations loads every clip from another mesh document.
func (c *Creature) CreateAllAnimations(meshKey string) error {
	if err := c.engine.LoadAnimations(meshKey); err != nil {
		c.log.Warn("animations not loaded", zap.String("key", meshKey), zap.Error(err))
		return err
	}
	return nil
}

// SetSize scales the creature so its rest pose spans width x height pixels.
// A zero dimension follows the other one.
func (c *Creature) SetSize(width, height float32) {
	sx, sy := c.engine.PixelScaling(width, height)
	c.scale = mgl32.Vec2{sx, sy}
	c.width, c.height = width, height
	c.updateBounds()
}

// Size returns the last size passed to SetSize.
func (c *Creature) Size() (width, height float32) { return c.width, c.height }

// SetPosition moves the creature in its parent's space.
func (c *Creature) SetPosition(x, y float32) {
	c.position = mgl32.Vec2{x, y}
	c.updateBounds()
}

// SetRotation sets the rotation in radians.
func (c *Creature) SetRotation(rad float32) {
	c.rotation = rad
	c.updateBounds()
}

// SetScale sets the scale directly.
func (c *Creature) SetScale(sx, sy float32) {
	c.scale = mgl32.Vec2{sx, sy}
	c.updateBounds()
}

// World returns the local-to-world transform.
func (c *Creature) World() mgl32.Mat3 {
	return mgl32.Translate2D(c.position.X(), c.position.Y()).
		Mul3(mgl32.HomogRotate2D(c.rotation)).
		Mul3(mgl32.Scale2D(c.scale.X(), c.scale.Y()))
}

// SetTint sets the 0xRRGGBB color multiplied into every pixel.
func (c *Creature) SetTint(rgb uint32) { c.tint = rgb & 0xFFFFFF }

// Tint returns the 0xRRGGBB tint.
func (c *Creature) Tint() uint32 { return c.tint }

// SetAlpha sets the global opacity.
func (c *Creature) SetAlpha(a float32) { c.alpha = a }

// Alpha returns the global opacity.
func (c *Creature) Alpha() float32 { return c.alpha }

// SetVisible shows or hides the creature.
func (c *Creature) SetVisible(v bool) { c.visible = v }

// Visible reports whether the creature draws.
func (c *Creature) Visible() bool { return c.visible }

// SetTexture sets the device texture sampled by the draw call.
func (c *Creature) SetTexture(id uint32) { c.texture = id }

// Bounds returns the world-space bounding box of the current pose.
func (c *Creature) Bounds() (min, max mgl32.Vec2) { return c.boundsMin, c.boundsMax }

func (c *Creature) updateBounds() {
	lo, hi := c.engine.Bounds()
	world := c.World()
	a := world.Mul3x1(mgl32.Vec3{lo.X(), -lo.Y(), 1})
	b := world.Mul3x1(mgl32.Vec3{hi.X(), -hi.Y(), 1})
	c.boundsMin = mgl32.Vec2{min(a.X(), b.X()), min(a.Y(), b.Y())}
	c.boundsMax = mgl32.Vec2{max(a.X(), b.X()), max(a.Y(), b.Y())}
}

// TintVector converts 0xRRGGBB to normalized RGB.
func TintVector(rgb uint32) mgl32.Vec3 {
	return mgl32.Vec3{
		float32((rgb>>16)&0xFF) / 255,
		float32((rgb>>8)&0xFF) / 255,
		float32(rgb&0xFF) / 255,
	}
}
