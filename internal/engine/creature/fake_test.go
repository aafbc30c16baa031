package creature

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// fakeEngine is a scripted Engine that records playback calls.
type fakeEngine struct {
	pointCount uint32
	indices    []uint16
	sample     FrameSample
	regions    []RegionDefinition
	swaps      map[string][]uint16
	metaKeys   map[string]bool
	animations map[string]bool

	playing  bool
	loop     bool
	time     float32
	advanced float32
	cleared  int
	swap     string
	calls    []string
	min, max mgl32.Vec2
}

func newFakeEngine(pointCount int) *fakeEngine {
	e := &fakeEngine{
		pointCount: uint32(pointCount),
		swaps:      map[string][]uint16{},
		metaKeys:   map[string]bool{"meta": true},
		animations: map[string]bool{"default": true, "walk": true},
		min:        mgl32.Vec2{-1, -2},
		max:        mgl32.Vec2{3, 4},
	}
	for i := 0; i+2 < pointCount; i += 3 {
		e.indices = append(e.indices, uint16(i), uint16(i+1), uint16(i+2))
	}
	e.sample = sampleFor(pointCount, 0)
	return e
}

// sampleFor builds a sample where point i sits at (i+shift, 2i+shift, 7).
func sampleFor(pointCount int, shift float32) FrameSample {
	s := FrameSample{
		Positions: make([]float32, pointCount*3),
		UVs:       make([]float32, pointCount*2),
	}
	for i := 0; i < pointCount; i++ {
		s.Positions[3*i] = float32(i) + shift
		s.Positions[3*i+1] = float32(2*i) + shift
		s.Positions[3*i+2] = 7
		s.UVs[2*i] = float32(i) / 10
		s.UVs[2*i+1] = 1 - float32(i)/10
	}
	return s
}

func (e *fakeEngine) record(format string, args ...any) {
	e.calls = append(e.calls, fmt.Sprintf(format, args...))
}

func (e *fakeEngine) Stop()               { e.playing = false; e.record("stop") }
func (e *fakeEngine) RunToTime(t float32) { e.time = t; e.record("run %g", t) }
func (e *fakeEngine) Play(loop bool)      { e.playing, e.loop = true, loop; e.record("play %t", loop) }
func (e *fakeEngine) SetAnchor(axis Axis, v float32, anim string) {
	e.record("anchor %s %g %s", axis, v, anim)
}

func (e *fakeEngine) SkinSwapIndices(name string) ([]uint16, bool) {
	idx, ok := e.swaps[name]
	if ok {
		e.swap = name
	}
	return idx, ok
}
func (e *fakeEngine) ClearSkinSwap() { e.cleared++; e.swap = "" }

func (e *fakeEngine) Topology() (uint32, []uint16) { return e.pointCount, e.indices }
func (e *fakeEngine) Advance(dt float32) {
	if e.playing {
		e.advanced += dt
	}
}
func (e *fakeEngine) Sample() FrameSample                { return e.sample }
func (e *fakeEngine) Regions() []RegionDefinition        { return e.regions }
func (e *fakeEngine) Bounds() (mgl32.Vec2, mgl32.Vec2)   { return e.min, e.max }
func (e *fakeEngine) IsPlaying() bool                    { return e.playing }
func (e *fakeEngine) Looping() bool                      { return e.loop }
func (e *fakeEngine) SetAnchorPointEnabled(enabled bool) { e.record("anchors %t", enabled) }
func (e *fakeEngine) SetActiveAnimation(name string, blend bool) error {
	if !e.animations[name] {
		return fmt.Errorf("%w: animation %q", ErrResourceNotFound, name)
	}
	e.record("animation %s %t", name, blend)
	return nil
}
func (e *fakeEngine) AttachMetaData(key string) error {
	if !e.metaKeys[key] {
		return fmt.Errorf("%w: %s", ErrResourceNotFound, key)
	}
	return nil
}
func (e *fakeEngine) LoadAnimations(key string) error {
	return fmt.Errorf("%w: %s", ErrResourceNotFound, key)
}
func (e *fakeEngine) SetItemSwap(region string, index int) { e.record("item %s %d", region, index) }
func (e *fakeEngine) RemoveItemSwap(region string)         { e.record("item %s off", region) }
func (e *fakeEngine) PixelScaling(w, h float32) (float32, float32) {
	return w / 4, h / 6
}

// anchorCalls filters the recorded calls down to the playback surface.
func (e *fakeEngine) anchorCalls() []string {
	var out []string
	for _, c := range e.calls {
		if strings.HasPrefix(c, "stop") || strings.HasPrefix(c, "run") ||
			strings.HasPrefix(c, "play") || strings.HasPrefix(c, "anchor ") {
			out = append(out, c)
		}
	}
	return out
}

// fakeDevice records every buffer operation.
type fakeDevice struct {
	created int
	failNew error
	bufs    []*fakeBuffers
}

func (d *fakeDevice) CreateBuffers() (DeviceBuffers, error) {
	if d.failNew != nil {
		return nil, d.failNew
	}
	d.created++
	b := &fakeBuffers{floats: map[Slot][]float32{}}
	d.bufs = append(d.bufs, b)
	return b, nil
}

func (d *fakeDevice) last() *fakeBuffers { return d.bufs[len(d.bufs)-1] }

type fakeBuffers struct {
	ops      []string
	floats   map[Slot][]float32
	indices  []uint16
	draws    []int
	uniforms Uniforms
	released bool
}

func (b *fakeBuffers) AllocateFloats(slot Slot, data []float32) {
	b.ops = append(b.ops, "alloc "+slot.String())
	b.floats[slot] = append([]float32(nil), data...)
}

func (b *fakeBuffers) UpdateFloats(slot Slot, data []float32) {
	b.ops = append(b.ops, "update "+slot.String())
	copy(b.floats[slot], data)
}

func (b *fakeBuffers) AllocateIndices(data []uint16) {
	b.ops = append(b.ops, "alloc indices")
	b.indices = append([]uint16(nil), data...)
}

func (b *fakeBuffers) DrawTriangles(indexCount int, u Uniforms) {
	b.draws = append(b.draws, indexCount)
	b.uniforms = u
}

func (b *fakeBuffers) Release() { b.released = true }

func (b *fakeBuffers) takeOps() []string {
	ops := b.ops
	b.ops = nil
	return ops
}
