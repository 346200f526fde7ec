package opengl

import (
	gl "github.com/go-gl/gl/v4.1-core/gl"

	"vector-engine/gpu"
)

func (d *Device) CreateVertexArray() gpu.VertexArray {
	var id uint32
	gl.GenVertexArrays(1, &id)
	return gpu.VertexArray(id)
}

func (d *Device) DeleteVertexArray(vao gpu.VertexArray) {
	id := uint32(vao)
	gl.DeleteVertexArrays(1, &id)
}

func (d *Device) BindVertexArray(vao gpu.VertexArray) {
	gl.BindVertexArray(uint32(vao))
}

func (d *Device) CreateBuffer() gpu.Buffer {
	var id uint32
	gl.GenBuffers(1, &id)
	return gpu.Buffer(id)
}

func (d *Device) DeleteBuffer(b gpu.Buffer) {
	id := uint32(b)
	gl.DeleteBuffers(1, &id)
}

// ArrayBufferData replaces the contents of b. b stays bound to ARRAY_BUFFER
// so a following VertexAttribPointer sources from it.
func (d *Device) ArrayBufferData(b gpu.Buffer, data []float32, usage gpu.Usage) {
	hint := uint32(gl.STATIC_DRAW)
	if usage == gpu.DynamicDraw {
		hint = gl.DYNAMIC_DRAW
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, uint32(b))
	if len(data) == 0 {
		gl.BufferData(gl.ARRAY_BUFFER, 0, nil, hint)
		return
	}
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), hint)
}

func (d *Device) ArrayBufferSubData(b gpu.Buffer, data []float32) {
	gl.BindBuffer(gl.ARRAY_BUFFER, uint32(b))
	if len(data) == 0 {
		return
	}
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(data)*4, gl.Ptr(data))
}

// ElementBufferData binds b as the element buffer of the bound vertex array and fills it.
func (d *Device) ElementBufferData(b gpu.Buffer, indices []uint32) {
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, uint32(b))
	if len(indices) == 0 {
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, 0, nil, gl.STATIC_DRAW)
		return
	}
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, gl.Ptr(indices), gl.STATIC_DRAW)
}

// VertexAttribPointer describes a float attribute read from the bound array
// buffer. Stride and offset are in bytes.
func (d *Device) VertexAttribPointer(index uint32, size, stride, offset int) {
	gl.VertexAttribPointer(index, int32(size), gl.FLOAT, false, int32(stride), gl.PtrOffset(offset))
}

func (d *Device) EnableVertexAttrib(index uint32)  { gl.EnableVertexAttribArray(index) }
func (d *Device) DisableVertexAttrib(index uint32) { gl.DisableVertexAttribArray(index) }

func (d *Device) VertexAttribDivisor(index, divisor uint32) {
	gl.VertexAttribDivisor(index, divisor)
}

func (d *Device) DrawElements(count int32) {
	gl.DrawElements(gl.TRIANGLES, count, gl.UNSIGNED_INT, nil)
}

func (d *Device) DrawElementsInstanced(count, instances int32) {
	gl.DrawElementsInstanced(gl.TRIANGLES, count, gl.UNSIGNED_INT, nil, instances)
}
