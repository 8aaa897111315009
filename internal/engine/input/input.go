// Package input maps window events to camera motion and viewer actions.
// Events are produced by the window package; nothing here touches SDL.
package input

// EventType identifies an Event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventKeyUp
	EventMouseMove
	EventMouseDown
	EventMouseUp
	EventMouseWheel
	EventPinch
)

// Mouse buttons, numbered as SDL numbers them.
const (
	ButtonLeft   uint8 = 1
	ButtonMiddle uint8 = 2
	ButtonRight  uint8 = 3
)

// Event represents a processed input event.
type Event struct {
	Type   EventType
	Key    string // Key name, e.g. "W", "F12", "Escape"
	Repeat bool   // Key auto-repeat
	Width  int
	Height int
	MouseX int
	MouseY int
	DeltaX float32 // Relative mouse motion in pixels
	DeltaY float32
	Button uint8
	Wheel  float32 // Wheel delta in lines, positive away from the user
	Pinch  float32 // Pinch delta in pixels, positive when spreading
}

// Action is a viewer command bound to a key.
type Action int

const (
	ActionNone Action = iota
	ActionToggleWireframe
	ActionOpenFile
	ActionResetCamera
	ActionScreenshot
	ActionQuit
)

func (a Action) String() string {
	switch a {
	case ActionToggleWireframe:
		return "toggle-wireframe"
	case ActionOpenFile:
		return "open-file"
	case ActionResetCamera:
		return "reset-camera"
	case ActionScreenshot:
		return "screenshot"
	case ActionQuit:
		return "quit"
	default:
		return "none"
	}
}

// Bindings maps key names to actions.
type Bindings map[string]Action

// DefaultBindings returns the viewer key map.
func DefaultBindings() Bindings {
	return Bindings{
		"W":      ActionToggleWireframe,
		"O":      ActionOpenFile,
		"R":      ActionResetCamera,
		"F12":    ActionScreenshot,
		"Q":      ActionQuit,
		"Escape": ActionQuit,
	}
}

// Camera is the part of the orbit camera the controls drive.
type Camera interface {
	HandleDrag(deltaX, deltaY float32)
	HandleZoom(lines float32)
	HandlePixelZoom(pixels float32)
}

// Controls turns events into camera motion and actions. Left-drag orbits,
// the wheel and pinch gestures zoom.
type Controls struct {
	bindings Bindings
	dragging bool
}

// NewControls creates controls with the given key map.
func NewControls(b Bindings) *Controls {
	if b == nil {
		b = DefaultBindings()
	}
	return &Controls{bindings: b}
}

// Dragging reports whether the left button is held.
func (c *Controls) Dragging() bool {
	return c.dragging
}

// Apply routes e. Camera events update cam; key presses and quit requests
// return the bound action. Key repeats are ignored so a held W toggles once.
func (c *Controls) Apply(e Event, cam Camera) Action {
	switch e.Type {
	case EventQuit:
		return ActionQuit
	case EventKeyDown:
		if e.Repeat {
			return ActionNone
		}
		return c.bindings[e.Key]
	case EventMouseDown:
		if e.Button == ButtonLeft {
			c.dragging = true
		}
	case EventMouseUp:
		if e.Button == ButtonLeft {
			c.dragging = false
		}
	case EventMouseMove:
		if c.dragging {
			cam.HandleDrag(e.DeltaX, e.DeltaY)
		}
	case EventMouseWheel:
		cam.HandleZoom(e.Wheel)
	case EventPinch:
		cam.HandlePixelZoom(e.Pinch)
	}
	return ActionNone
}
