// Package gpu describes the graphics API surface used by the rendering core.
//
// The core never talks to a graphics library directly. Everything it needs
// goes through Device, which is implemented on OpenGL by internal/opengl and
// in memory by gpu/gputest.
package gpu

import "github.com/go-gl/mathgl/mgl32"

// Handle types. The zero value of every handle is the null object.
type (
	Texture      uint32
	Framebuffer  uint32
	Renderbuffer uint32
	VertexArray  uint32
	Buffer       uint32
	Program      uint32
)

// DefaultFramebuffer is the window's own framebuffer.
const DefaultFramebuffer Framebuffer = 0

// FramebufferStatus is the result of a completeness check.
type FramebufferStatus uint32

const (
	FramebufferComplete FramebufferStatus = iota
	FramebufferIncompleteAttachment
	FramebufferMissingAttachment
	FramebufferUnsupported
	FramebufferUndefined
)

func (s FramebufferStatus) String() string {
	switch s {
	case FramebufferComplete:
		return "complete"
	case FramebufferIncompleteAttachment:
		return "incomplete attachment"
	case FramebufferMissingAttachment:
		return "missing attachment"
	case FramebufferUnsupported:
		return "unsupported"
	case FramebufferUndefined:
		return "undefined"
	}
	return "unknown"
}

// Filter selects texture sampling.
type Filter uint8

const (
	FilterNearest Filter = iota
	FilterLinear
)

// TextureDesc describes RGBA8 storage for a texture. Pixels may be nil to
// allocate uninitialised storage, as render targets do.
type TextureDesc struct {
	Width, Height int
	Pixels        []byte
	Filter        Filter
	Mipmaps       bool
}

// Usage hints buffer update frequency.
type Usage uint8

const (
	StaticDraw Usage = iota
	DynamicDraw
)

// ClearMask selects which buffers Clear resets.
type ClearMask uint8

const (
	ClearColor ClearMask = 1 << iota
	ClearDepth
	ClearStencil
)

// ClearAll clears color, depth and stencil.
const ClearAll = ClearColor | ClearDepth | ClearStencil

// Attrib binds a vertex attribute location to a shader input name before link.
type Attrib struct {
	Location uint32
	Name     string
}

// Device is the graphics API used by the core. All calls are made from the
// thread that owns the graphics context.
type Device interface {
	// Textures
	CreateTexture() Texture
	DeleteTexture(t Texture)
	UploadTexture(t Texture, desc TextureDesc)
	BindTexture(unit uint32, t Texture)

	// Render targets
	CreateRenderbuffer() Renderbuffer
	DeleteRenderbuffer(rb Renderbuffer)
	RenderbufferStorage(rb Renderbuffer, width, height int)
	CreateFramebuffer() Framebuffer
	DeleteFramebuffer(fb Framebuffer)
	BindFramebuffer(fb Framebuffer)
	AttachColorTexture(t Texture)
	AttachDepthStencil(rb Renderbuffer)
	CheckFramebufferStatus() FramebufferStatus

	// Frame state
	Viewport(x, y, width, height int)
	SetClearColor(r, g, b, a float32)
	Clear(mask ClearMask)
	SetDepthTest(enabled bool)
	SetBlend(enabled bool)

	// Geometry
	CreateVertexArray() VertexArray
	DeleteVertexArray(vao VertexArray)
	BindVertexArray(vao VertexArray)
	CreateBuffer() Buffer
	DeleteBuffer(b Buffer)
	ArrayBufferData(b Buffer, data []float32, usage Usage)
	ArrayBufferSubData(b Buffer, data []float32)
	ElementBufferData(b Buffer, indices []uint32)
	VertexAttribPointer(index uint32, size, stride, offset int)
	EnableVertexAttrib(index uint32)
	DisableVertexAttrib(index uint32)
	VertexAttribDivisor(index, divisor uint32)
	DrawElements(count int32)
	DrawElementsInstanced(count, instances int32)

	// Programs
	CompileProgram(vertSrc, fragSrc string, attribs []Attrib) (Program, error)
	DeleteProgram(p Program)
	UseProgram(p Program)
	UniformLocation(p Program, name string) int32

	// Uniform writes target the bound program.
	Uniform1f(loc int32, v float32)
	Uniform1i(loc int32, v int32)
	Uniform2f(loc int32, v mgl32.Vec2)
	Uniform3f(loc int32, v mgl32.Vec3)
	Uniform4f(loc int32, v mgl32.Vec4)
	Uniform3fv(loc int32, v []mgl32.Vec3)
	Uniform1fv(loc int32, v []float32)
	UniformMatrix4(loc int32, m mgl32.Mat4)
}
