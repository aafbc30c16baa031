// Package anim is a keyframe playback engine that drives creature meshes
// loaded from asset documents.
package anim

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/creature-render/internal/assets"
	"github.com/Faultbox/creature-render/internal/engine/creature"
	"github.com/Faultbox/creature-render/internal/logger"
)

// BlendTime is how long a blended clip switch takes, in playback time.
const BlendTime = 0.2

// DefaultClip is synthesized for meshes that ship without animations.
const DefaultClip = "default"

var _ creature.Engine = (*Engine)(nil)

type region struct {
	name       string
	startPoint uint32
	endPoint   uint32
	startIndex uint32
	endIndex   uint32
	opacity    float32
}

// Engine plays keyframe clips over one mesh.
type Engine struct {
	manager *assets.Manager

	pointCount uint32
	indices    []uint16
	rest       []float32
	restUVs    []float32
	restMin    mgl32.Vec2
	restMax    mgl32.Vec2

	regions   []region
	regionOut []creature.RegionDefinition
	clips     map[string]*Clip
	active    *Clip

	time    float32
	playing bool
	loop    bool

	blendFrom   []float32
	blendWeight float32

	anchors        map[string][2]float32
	anchorsEnabled bool

	meta      *assets.MetaDocument
	itemSwaps map[string]int
	skinSwap  string

	pose      []float32
	positions []float32
	uvs       []float32

	log *zap.Logger
}

// Load builds an engine from the mesh document at meshKey. Metadata and
// extra animations are later resolved through the same manager.
func Load(manager *assets.Manager, meshKey string) (*Engine, error) {
	doc, err := manager.Mesh(meshKey)
	if err != nil {
		return nil, resourceErr(err)
	}
	e := New(doc)
	e.manager = manager
	e.log.Info("mesh loaded",
		zap.String("key", meshKey),
		zap.Uint32("points", e.pointCount),
		zap.Int("clips", len(e.clips)))
	return e, nil
}

// New builds an engine over a validated document.
func New(doc *assets.MeshDocument) *Engine {
	n := doc.PointCount()
	e := &Engine{
		pointCount:     uint32(n),
		indices:        slices.Clone(doc.Indices),
		rest:           slices.Clone(doc.Points),
		restUVs:        slices.Clone(doc.UVs),
		clips:          make(map[string]*Clip, len(doc.Animations)),
		anchors:        make(map[string][2]float32),
		anchorsEnabled: true,
		itemSwaps:      make(map[string]int),
		blendWeight:    1,
		pose:           make([]float32, len(doc.Points)),
		positions:      make([]float32, len(doc.Points)),
		uvs:            slices.Clone(doc.UVs),
		log:            logger.Named("anim"),
	}

	for _, r := range doc.Regions {
		op := float32(100)
		if r.Opacity != nil {
			op = *r.Opacity
		}
		e.regions = append(e.regions, region{
			name:       r.Name,
			startPoint: r.StartPoint,
			endPoint:   r.EndPoint,
			startIndex: r.StartIndex,
			endIndex:   r.EndIndex,
			opacity:    op,
		})
		e.regionOut = append(e.regionOut, creature.RegionDefinition{
			Name:            r.Name,
			StartPointIndex: r.StartPoint,
			EndPointIndex:   r.EndPoint,
			OpacityPercent:  op,
		})
	}

	for name, clip := range doc.Animations {
		e.clips[name] = newClip(name, clip)
	}
	if len(e.clips) == 0 {
		e.clips[DefaultClip] = &Clip{Name: DefaultClip}
	}

	e.restMin, e.restMax = extent(e.rest)
	e.evaluate()
	return e
}

func resourceErr(err error) error {
	if errors.Is(err, assets.ErrNotFound) {
		return fmt.Errorf("%w: %w", creature.ErrResourceNotFound, err)
	}
	return err
}

// Topology returns the point count and a copy of the global triangle list.
func (e *Engine) Topology() (uint32, []uint16) {
	return e.pointCount, slices.Clone(e.indices)
}

// Clips returns the clip names in sorted order.
func (e *Engine) Clips() []string {
	names := make([]string, 0, len(e.clips))
	for name := range e.clips {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Animation returns the active clip name, or "" before one is set.
func (e *Engine) Animation() string {
	if e.active == nil {
		return ""
	}
	return e.active.Name
}

// Time returns the playback time.
func (e *Engine) Time() float32 { return e.time }

// SetActiveAnimation switches clips and rewinds to the clip start. With
// blend the previous pose fades out over BlendTime. The clip's anchor
// starts over at zero.
func (e *Engine) SetActiveAnimation(name string, blend bool) error {
	clip, ok := e.clips[name]
	if !ok {
		return fmt.Errorf("%w: animation %q", creature.ErrResourceNotFound, name)
	}

	if blend && e.active != nil && e.active != clip {
		e.blendFrom = append(e.blendFrom[:0], e.pose...)
		e.blendWeight = 0
	} else {
		e.blendWeight = 1
	}
	e.active = clip
	e.time = clip.Start
	delete(e.anchors, name)
	e.evaluate()
	return nil
}

// Advance moves playback forward by dt while playing. Looping clips wrap;
// others stop on their last frame.
func (e *Engine) Advance(dt float32) {
	if !e.playing || e.active == nil {
		return
	}

	if e.blendWeight < 1 {
		e.blendWeight = min(1, e.blendWeight+dt/BlendTime)
	}

	e.time += dt
	if e.time > e.active.End {
		length := e.active.Length()
		switch {
		case !e.loop:
			e.time = e.active.End
			e.playing = false
		case length <= 0:
			e.time = e.active.Start
		default:
			e.time = e.active.Start + float32(math.Mod(float64(e.time-e.active.Start), float64(length)))
		}
	}
	e.evaluate()
}

// Play starts the active clip from its first frame.
func (e *Engine) Play(loop bool) {
	e.loop = loop
	e.playing = true
	if e.active != nil {
		e.time = e.active.Start
	}
	e.evaluate()
}

// Stop halts playback on the current frame.
func (e *Engine) Stop() { e.playing = false }

// IsPlaying reports whether Advance moves time.
func (e *Engine) IsPlaying() bool { return e.playing }

// Looping reports whether the clip wraps at its end.
func (e *Engine) Looping() bool { return e.loop }

// RunToTime poses the active clip at t, clamped to the clip's range.
func (e *Engine) RunToTime(t float32) {
	if e.active != nil {
		t = max(e.active.Start, min(t, e.active.End))
	}
	e.time = t
	e.evaluate()
}

// SetAnchor adds value to animation's anchor on axis. Anchors shift the
// pose by -anchor * rest extent.
func (e *Engine) SetAnchor(axis creature.Axis, value float32, animation string) {
	a := e.anchors[animation]
	a[axis] += value
	e.anchors[animation] = a
	e.evaluate()
}

// Anchor returns the accumulated anchor of animation.
func (e *Engine) Anchor(animation string) (x, y float32) {
	a := e.anchors[animation]
	return a[0], a[1]
}

// SetAnchorPointEnabled toggles anchor offsets.
func (e *Engine) SetAnchorPointEnabled(enabled bool) {
	e.anchorsEnabled = enabled
	e.evaluate()
}

// Sample returns the current pose. The slices are owned by the engine and
// valid until the next call that changes the pose.
func (e *Engine) Sample() creature.FrameSample {
	return creature.FrameSample{Positions: e.positions, UVs: e.uvs}
}

// Regions returns every region with its current opacity.
func (e *Engine) Regions() []creature.RegionDefinition { return e.regionOut }

// Bounds returns the current pose's bounding box.
func (e *Engine) Bounds() (min, max mgl32.Vec2) { return extent(e.positions) }

// PixelScaling returns the scale that makes the rest pose width x height.
// A zero dimension keeps the aspect ratio of the other.
func (e *Engine) PixelScaling(width, height float32) (sx, sy float32) {
	size := e.restMax.Sub(e.restMin)
	sx, sy = 1, 1
	if width > 0 && size.X() > 0 {
		sx = width / size.X()
	}
	if height > 0 && size.Y() > 0 {
		sy = height / size.Y()
	}
	switch {
	case width <= 0 && height > 0:
		sx = sy
	case height <= 0 && width > 0:
		sy = sx
	}
	return sx, sy
}

// LoadAnimations adds every clip of another mesh document with the same
// point count. Clips with existing names are replaced.
func (e *Engine) LoadAnimations(meshKey string) error {
	if e.manager == nil {
		return fmt.Errorf("%w: %s", creature.ErrResourceNotFound, meshKey)
	}
	doc, err := e.manager.Mesh(meshKey)
	if err != nil {
		return resourceErr(err)
	}
	if doc.PointCount() != int(e.pointCount) {
		return fmt.Errorf("%w: %s has %d points, want %d",
			creature.ErrShapeMismatch, meshKey, doc.PointCount(), e.pointCount)
	}

	for name, clip := range doc.Animations {
		c := newClip(name, clip)
		if e.active != nil && e.active.Name == name {
			e.active = c
		}
		e.clips[name] = c
	}
	e.log.Debug("animations loaded", zap.String("key", meshKey), zap.Int("clips", len(doc.Animations)))
	e.evaluate()
	return nil
}

func (e *Engine) evaluate() {
	if e.active == nil {
		copy(e.pose, e.rest)
	} else {
		e.active.pose(e.time, e.rest, e.pose)
	}
	if e.blendWeight < 1 {
		w := e.blendWeight
		for i := range e.pose {
			e.pose[i] = e.blendFrom[i] + w*(e.pose[i]-e.blendFrom[i])
		}
	}

	copy(e.positions, e.pose)
	if e.anchorsEnabled && e.active != nil {
		a := e.anchors[e.active.Name]
		size := e.restMax.Sub(e.restMin)
		dx, dy := -a[0]*size.X(), -a[1]*size.Y()
		for i := 0; i+1 < len(e.positions); i += 3 {
			e.positions[i] += dx
			e.positions[i+1] += dy
		}
	}

	for i, r := range e.regions {
		op := r.opacity
		if e.active != nil {
			op = e.active.regionOpacity(e.time, r.name, op)
		}
		e.regionOut[i].OpacityPercent = op
	}
}

// extent returns the x/y bounding box of stride-3 points.
func extent(points []float32) (lo, hi mgl32.Vec2) {
	if len(points) < 3 {
		return lo, hi
	}
	lo = mgl32.Vec2{points[0], points[1]}
	hi = lo
	for i := 3; i+1 < len(points); i += 3 {
		x, y := points[i], points[i+1]
		lo = mgl32.Vec2{min(lo.X(), x), min(lo.Y(), y)}
		hi = mgl32.Vec2{max(hi.X(), x), max(hi.Y(), y)}
	}
	return lo, hi
}
