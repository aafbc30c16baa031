package anim

import (
	"slices"

	"github.com/Faultbox/creature-render/internal/assets"
)

type keyframe struct {
	time    float32
	points  []float32 // nil holds the rest pose
	opacity map[string]float32
}

// Clip is one named animation: keyframed poses between Start and End.
type Clip struct {
	Name  string
	Start float32
	End   float32
	keys  []keyframe
}

func newClip(name string, doc assets.ClipDocument) *Clip {
	c := &Clip{Name: name, Start: doc.StartTime, End: doc.EndTime}
	for _, k := range doc.Keyframes {
		c.keys = append(c.keys, keyframe{time: k.Time, points: k.Points, opacity: k.Opacity})
	}
	slices.SortStableFunc(c.keys, func(a, b keyframe) int {
		switch {
		case a.time < b.time:
			return -1
		case a.time > b.time:
			return 1
		}
		return 0
	})
	return c
}

// Length returns the clip's duration.
func (c *Clip) Length() float32 { return c.End - c.Start }

// Keyframes returns the number of keyframes.
func (c *Clip) Keyframes() int { return len(c.keys) }

// bracket finds the keyframes surrounding t and the blend factor between
// them. Before the first key or past the last, both keys are the same.
func (c *Clip) bracket(t float32) (k0, k1 *keyframe, f float32) {
	var prev, next int
	for i := range c.keys {
		if c.keys[i].time > t {
			next = i
			break
		}
		prev = i
		next = i
	}

	k0, k1 = &c.keys[prev], &c.keys[next]
	if prev == next || k1.time == k0.time {
		return k0, k1, 0
	}
	return k0, k1, (t - k0.time) / (k1.time - k0.time)
}

// pose writes the interpolated point positions at t into out.
func (c *Clip) pose(t float32, rest, out []float32) {
	if len(c.keys) == 0 {
		copy(out, rest)
		return
	}

	k0, k1, f := c.bracket(t)
	p0, p1 := k0.points, k1.points
	if p0 == nil {
		p0 = rest
	}
	if p1 == nil {
		p1 = rest
	}
	for i := range out {
		out[i] = p0[i] + f*(p1[i]-p0[i])
	}
}

// regionOpacity interpolates a region's opacity percent at t. Keys that do
// not name the region contribute base.
func (c *Clip) regionOpacity(t float32, region string, base float32) float32 {
	if len(c.keys) == 0 {
		return base
	}

	k0, k1, f := c.bracket(t)
	o0, ok := k0.opacity[region]
	if !ok {
		o0 = base
	}
	o1, ok := k1.opacity[region]
	if !ok {
		o1 = base
	}
	return o0 + f*(o1-o0)
}
