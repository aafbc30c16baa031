// Package input maps SDL2 events to viewer actions.
package input

import "github.com/veandco/go-sdl2/sdl"

// Action is something the viewer can be asked to do.
type Action int

const (
	ActionNone Action = iota
	ActionQuit
	ActionResize
	ActionTogglePlay
	ActionToggleSkinSwap
	ActionNextAnimation
	ActionAnchorLeft
	ActionAnchorRight
	ActionAnchorUp
	ActionAnchorDown
	ActionToggleAnchors
	ActionScreenshot
	ActionReload
)

var actionNames = [...]string{
	ActionNone:           "none",
	ActionQuit:           "quit",
	ActionResize:         "resize",
	ActionTogglePlay:     "toggle-play",
	ActionToggleSkinSwap: "toggle-skin-swap",
	ActionNextAnimation:  "next-animation",
	ActionAnchorLeft:     "anchor-left",
	ActionAnchorRight:    "anchor-right",
	ActionAnchorUp:       "anchor-up",
	ActionAnchorDown:     "anchor-down",
	ActionToggleAnchors:  "toggle-anchors",
	ActionScreenshot:     "screenshot",
	ActionReload:         "reload",
}

func (a Action) String() string {
	if a < 0 || int(a) >= len(actionNames) {
		return "unknown"
	}
	return actionNames[a]
}

// Bindings maps key presses to actions.
var Bindings = map[sdl.Scancode]Action{
	sdl.SCANCODE_ESCAPE: ActionQuit,
	sdl.SCANCODE_SPACE:  ActionTogglePlay,
	sdl.SCANCODE_S:      ActionToggleSkinSwap,
	sdl.SCANCODE_N:      ActionNextAnimation,
	sdl.SCANCODE_LEFT:   ActionAnchorLeft,
	sdl.SCANCODE_RIGHT:  ActionAnchorRight,
	sdl.SCANCODE_UP:     ActionAnchorUp,
	sdl.SCANCODE_DOWN:   ActionAnchorDown,
	sdl.SCANCODE_A:      ActionToggleAnchors,
	sdl.SCANCODE_F12:    ActionScreenshot,
	sdl.SCANCODE_R:      ActionReload,
}

// Event is one action from the last Update. Width and Height are set for
// ActionResize.
type Event struct {
	Action Action
	Width  int
	Height int
}

// Input polls SDL once per frame.
type Input struct {
	events []Event
}

// New creates an input handler.
func New() *Input {
	return &Input{events: make([]Event, 0, 16)}
}

// Update drains the SDL queue. It returns true when the viewer should quit.
func (i *Input) Update() bool {
	i.events = i.events[:0]
	quit := false

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			quit = true
		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
				i.events = append(i.events, Event{Action: ActionResize, Width: int(e.Data1), Height: int(e.Data2)})
			}
		case *sdl.KeyboardEvent:
			if e.Type != sdl.KEYDOWN || e.Repeat != 0 {
				continue
			}
			if a, ok := Bindings[e.Keysym.Scancode]; ok {
				if a == ActionQuit {
					quit = true
				}
				i.events = append(i.events, Event{Action: a})
			}
		}
	}
	return quit
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event { return i.events }
