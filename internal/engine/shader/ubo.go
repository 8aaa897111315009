package shader

import (
	"github.com/go-gl/gl/v4.1-core/gl"
)

// UniformBuffer is a std140 uniform buffer attached to a fixed binding point.
type UniformBuffer struct {
	id      uint32
	binding uint32
	size    int
}

// NewUniformBuffer allocates a buffer of floats floats and binds it to binding.
func NewUniformBuffer(binding uint32, floats int) *UniformBuffer {
	b := &UniformBuffer{binding: binding, size: floats * 4}
	gl.GenBuffers(1, &b.id)
	gl.BindBuffer(gl.UNIFORM_BUFFER, b.id)
	gl.BufferData(gl.UNIFORM_BUFFER, b.size, nil, gl.DYNAMIC_DRAW)
	gl.BindBuffer(gl.UNIFORM_BUFFER, 0)
	gl.BindBufferBase(gl.UNIFORM_BUFFER, binding, b.id)
	return b
}

// Update overwrites the buffer contents. data must hold exactly the
// allocated number of floats.
func (b *UniformBuffer) Update(data []float32) {
	if len(data)*4 != b.size {
		panic("shader: uniform buffer size mismatch")
	}
	gl.BindBuffer(gl.UNIFORM_BUFFER, b.id)
	gl.BufferSubData(gl.UNIFORM_BUFFER, 0, b.size, gl.Ptr(data))
	gl.BindBuffer(gl.UNIFORM_BUFFER, 0)
}

// Binding returns the binding point.
func (b *UniformBuffer) Binding() uint32 {
	return b.binding
}

// Destroy releases the buffer.
func (b *UniformBuffer) Destroy() {
	if b.id != 0 {
		gl.DeleteBuffers(1, &b.id)
		b.id = 0
	}
}
