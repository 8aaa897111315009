package window

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/objview/internal/engine/input"
)

// PollEvents drains the SDL queue and converts it to input events. The
// returned slice is reused by the next call.
func (w *Window) PollEvents() []input.Event {
	w.events = w.events[:0]

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			w.events = append(w.events, input.Event{Type: input.EventQuit})

		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
				width, height := w.DrawableSize()
				w.events = append(w.events, input.Event{
					Type:   input.EventWindowResize,
					Width:  width,
					Height: height,
				})
			}

		case *sdl.KeyboardEvent:
			ev := input.Event{
				Key:    sdl.GetScancodeName(e.Keysym.Scancode),
				Repeat: e.Repeat != 0,
			}
			switch e.Type {
			case sdl.KEYDOWN:
				ev.Type = input.EventKeyDown
			case sdl.KEYUP:
				ev.Type = input.EventKeyUp
			default:
				continue
			}
			w.events = append(w.events, ev)

		case *sdl.MouseMotionEvent:
			w.events = append(w.events, input.Event{
				Type:   input.EventMouseMove,
				MouseX: int(e.X),
				MouseY: int(e.Y),
				DeltaX: float32(e.XRel),
				DeltaY: float32(e.YRel),
			})

		case *sdl.MouseButtonEvent:
			ev := input.Event{
				MouseX: int(e.X),
				MouseY: int(e.Y),
				Button: e.Button,
			}
			if e.Type == sdl.MOUSEBUTTONDOWN {
				ev.Type = input.EventMouseDown
			} else {
				ev.Type = input.EventMouseUp
			}
			w.events = append(w.events, ev)

		case *sdl.MouseWheelEvent:
			lines := e.PreciseY
			if e.Direction == sdl.MOUSEWHEEL_FLIPPED {
				lines = -lines
			}
			w.events = append(w.events, input.Event{
				Type:  input.EventMouseWheel,
				Wheel: lines,
			})

		case *sdl.MultiGestureEvent:
			// DDist is normalized to the touch device, scale it to window pixels
			if e.NumFingers == 2 && e.DDist != 0 {
				_, height := w.GetSize()
				w.events = append(w.events, input.Event{
					Type:  input.EventPinch,
					Pinch: e.DDist * float32(height),
				})
			}
		}
	}

	return w.events
}
