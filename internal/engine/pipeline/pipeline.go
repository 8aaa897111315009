// Package pipeline selects between the solid and wireframe render pipelines.
package pipeline

import (
	"fmt"
	"strings"
)

// Mode is the active draw mode.
type Mode int

const (
	ModeSolid Mode = iota
	ModeWireframe
)

func (m Mode) String() string {
	switch m {
	case ModeSolid:
		return "solid"
	case ModeWireframe:
		return "wireframe"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode parses "solid" or "wireframe" (also "wire"), case-insensitive.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "solid", "":
		return ModeSolid, nil
	case "wireframe", "wire":
		return ModeWireframe, nil
	default:
		return ModeSolid, fmt.Errorf("unknown render mode %q", s)
	}
}

// Topology is the primitive type a pipeline draws.
type Topology int

const (
	Triangles Topology = iota
	Lines
)

// DepthCompare is the depth test function.
type DepthCompare int

const (
	DepthLess DepthCompare = iota
	DepthLessEqual
)

// Descriptor is the fixed-function configuration of one pipeline.
type Descriptor struct {
	Mode      Mode
	Topology  Topology
	DepthTest bool
	Depth     DepthCompare
	DepthBits int
	Lit       bool // Phong fragment stage; unlit pass-through otherwise
}

// Describe returns the pipeline configuration for a mode.
// Both pipelines depth test against the same 32-bit buffer.
func Describe(m Mode) Descriptor {
	d := Descriptor{
		Mode:      m,
		DepthTest: true,
		Depth:     DepthLess,
		DepthBits: 32,
	}
	if m == ModeWireframe {
		d.Topology = Lines
		return d
	}
	d.Topology = Triangles
	d.Lit = true
	return d
}

// Selector holds the current mode. It starts in ModeSolid and toggles
// indefinitely. Not safe for concurrent use; the event loop owns it.
type Selector struct {
	mode Mode
}

// NewSelector returns a selector in the given mode.
func NewSelector(initial Mode) *Selector {
	return &Selector{mode: initial}
}

// Mode returns the current mode.
func (s *Selector) Mode() Mode {
	return s.mode
}

// Toggle flips between solid and wireframe and returns the new mode.
func (s *Selector) Toggle() Mode {
	if s.mode == ModeSolid {
		s.mode = ModeWireframe
	} else {
		s.mode = ModeSolid
	}
	return s.mode
}

// Set switches to a specific mode.
func (s *Selector) Set(m Mode) {
	s.mode = m
}

// Descriptor returns the configuration of the active pipeline.
func (s *Selector) Descriptor() Descriptor {
	return Describe(s.mode)
}
