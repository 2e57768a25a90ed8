// Package input translates SDL2 events into editor events.
package input

import (
	"strings"

	"github.com/veandco/go-sdl2/sdl"
)

// EventType identifies an editor input event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventKeyUp
	EventPointerMove
	EventClick
	EventOrbit
	EventZoom
)

// clickSlop is how far, in pixels, the pointer may travel between left
// button down and up for the release to count as a click.
const clickSlop = 4

// Event is a processed input event.
type Event struct {
	Type EventType

	// Key is the lower-case SDL key name ("a", "delete", "left shift").
	Key string

	Width  int
	Height int

	// Pointer position in window pixels.
	X, Y float32

	// Pointer travel for EventOrbit, wheel steps for EventZoom.
	DX, DY float32
}

// Input polls SDL and keeps the events of the current frame.
type Input struct {
	events []Event

	leftDown  bool
	travelled int32
	rightDown bool
}

// New creates a new input handler.
func New() *Input {
	return &Input{
		events: make([]Event, 0, 16),
	}
}

// KeyName returns the lower-case name of an SDL keycode.
func KeyName(k sdl.Keycode) string {
	return strings.ToLower(sdl.GetKeyName(k))
}

// Update polls SDL events and converts them to editor events.
// Returns true if the editor should quit.
func (i *Input) Update() bool {
	i.events = i.events[:0]

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			i.events = append(i.events, Event{Type: EventQuit})
			return true

		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_RESIZED || e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
				i.events = append(i.events, Event{
					Type:   EventWindowResize,
					Width:  int(e.Data1),
					Height: int(e.Data2),
				})
			}

		case *sdl.KeyboardEvent:
			// Gesture keys toggle; auto-repeat would flip them every few frames.
			if e.Repeat != 0 {
				continue
			}
			t := EventKeyDown
			if e.Type == sdl.KEYUP {
				t = EventKeyUp
			}
			i.events = append(i.events, Event{Type: t, Key: KeyName(e.Keysym.Sym)})

		case *sdl.MouseMotionEvent:
			if i.leftDown {
				i.travelled += abs32(e.XRel) + abs32(e.YRel)
			}
			if i.rightDown {
				i.events = append(i.events, Event{
					Type: EventOrbit,
					DX:   float32(e.XRel),
					DY:   float32(e.YRel),
				})
			}
			i.events = append(i.events, Event{
				Type: EventPointerMove,
				X:    float32(e.X),
				Y:    float32(e.Y),
			})

		case *sdl.MouseButtonEvent:
			i.button(e)

		case *sdl.MouseWheelEvent:
			i.events = append(i.events, Event{Type: EventZoom, DY: float32(e.Y)})
		}
	}

	return false
}

func (i *Input) button(e *sdl.MouseButtonEvent) {
	switch e.Button {
	case sdl.BUTTON_LEFT:
		if e.Type == sdl.MOUSEBUTTONDOWN {
			i.leftDown = true
			i.travelled = 0
			return
		}
		if i.leftDown && i.travelled <= clickSlop {
			i.events = append(i.events, Event{
				Type: EventClick,
				X:    float32(e.X),
				Y:    float32(e.Y),
			})
		}
		i.leftDown = false

	case sdl.BUTTON_RIGHT:
		i.rightDown = e.Type == sdl.MOUSEBUTTONDOWN
	}
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}

// IsKeyPressed reports whether key went down this frame.
func (i *Input) IsKeyPressed(key string) bool {
	for _, e := range i.events {
		if e.Type == EventKeyDown && e.Key == key {
			return true
		}
	}
	return false
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}
