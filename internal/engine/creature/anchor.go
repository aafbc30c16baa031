package creature

import (
	"fmt"
	"math"
)

// Anchor values at the exact edges read as "unset" to the engine, so they are
// moved just inside.
const (
	anchorLow  = 0.01
	anchorHigh = 0.99
)

// AnchorPhase is the state of one axis's recentering sequence.
type AnchorPhase int

const (
	AnchorIdle AnchorPhase = iota
	AnchorReverting
	AnchorApplying
)

func (p AnchorPhase) String() string {
	switch p {
	case AnchorReverting:
		return "reverting"
	case AnchorApplying:
		return "applying"
	default:
		return "idle"
	}
}

// Anchor is an optional pivot offset on one axis.
type Anchor struct {
	Value float32
	Set   bool
}

// AnchorController recenters the mesh pivot. The engine bakes the anchor into
// its pose, so every change replays a scripted stop/rewind/apply/play sequence,
// first undoing the previous anchor by applying its negation.
type AnchorController struct {
	playback Playback
	anchors  [2]Anchor
	phases   [2]AnchorPhase

	// OnPhase, when set, observes every phase transition.
	OnPhase func(axis Axis, phase AnchorPhase, value float32)
}

// NewAnchorController returns a controller with both axes unset.
func NewAnchorController(playback Playback) *AnchorController {
	return &AnchorController{playback: playback}
}

// Get returns the current anchor on axis.
func (a *AnchorController) Get(axis Axis) Anchor { return a.anchors[axis] }

// Phase returns the sequence phase of axis. Outside Set it is always AnchorIdle.
func (a *AnchorController) Phase(axis Axis) AnchorPhase { return a.phases[axis] }

// Reset forgets both anchors without touching the engine. Used when the active
// animation changes, since engine anchors are stored per animation.
func (a *AnchorController) Reset() {
	a.anchors = [2]Anchor{}
}

// NormalizeAnchor clamps v into the open interval the engine accepts.
func NormalizeAnchor(v float32) (float32, error) {
	if math.IsNaN(float64(v)) {
		return 0, ErrInvalidAnchor
	}
	if v <= 0 {
		return anchorLow, nil
	}
	if v >= 1 {
		return anchorHigh, nil
	}
	return v, nil
}

// Set changes the anchor on axis for animation. It returns false without touching
// the engine when the normalized value equals the current one.
func (a *AnchorController) Set(axis Axis, value float32, animation string) (bool, error) {
	v, err := NormalizeAnchor(value)
	if err != nil {
		return false, fmt.Errorf("anchor %s: %w", axis, err)
	}
	cur := a.anchors[axis]
	if cur.Set && cur.Value == v {
		return false, nil
	}

	p := a.playback
	p.Stop()
	p.RunToTime(0)

	if cur.Set {
		a.enter(axis, AnchorReverting, cur.Value)
		a.apply(axis, -cur.Value, animation)
		// One loop cycle flushes the engine's cached pivot.
		p.Play(true)
		p.Stop()
		p.RunToTime(0)
	}

	a.enter(axis, AnchorApplying, v)
	a.apply(axis, v, animation)
	p.Play(true)

	a.anchors[axis] = Anchor{Value: v, Set: true}
	a.enter(axis, AnchorIdle, v)
	return true, nil
}

func (a *AnchorController) apply(axis Axis, v float32, animation string) {
	a.playback.SetAnchor(axis, v, animation)
}

func (a *AnchorController) enter(axis Axis, phase AnchorPhase, v float32) {
	a.phases[axis] = phase
	if a.OnPhase != nil {
		a.OnPhase(axis, phase, v)
	}
}
