// Package resource owns every GPU-side object the engine creates.
//
// The Registry records each handle it hands out so that TeardownAll can
// release them at shutdown. Deleting a handle the registry does not know is
// a no-op.
package resource

import (
	"slices"

	"vector-engine/gpu"
	"vector-engine/log"
)

var logger = log.New("resource")

type handleSet[T ~uint32] map[T]struct{}

func (s handleSet[T]) add(h T) { s[h] = struct{}{} }

// remove reports whether h was tracked.
func (s handleSet[T]) remove(h T) bool {
	if _, ok := s[h]; !ok {
		return false
	}
	delete(s, h)
	return true
}

func (s handleSet[T]) has(h T) bool {
	_, ok := s[h]
	return ok
}

// drain returns the tracked handles in ascending order and empties the set.
func (s handleSet[T]) drain() []T {
	out := make([]T, 0, len(s))
	for h := range s {
		out = append(out, h)
	}
	slices.Sort(out)
	clear(s)
	return out
}

// Counts is the number of live handles per kind.
type Counts struct {
	Textures      int
	Framebuffers  int
	Renderbuffers int
	VertexArrays  int
	Buffers       int
	Programs      int
}

// Total is the sum of all kinds.
func (c Counts) Total() int {
	return c.Textures + c.Framebuffers + c.Renderbuffers + c.VertexArrays + c.Buffers + c.Programs
}

// Registry tracks GPU handles created through it. It is not safe for concurrent use.
type Registry struct {
	ctx *gpu.Context

	// TextureRoot is prepended to relative paths given to LoadTexture.
	TextureRoot string

	textures      handleSet[gpu.Texture]
	framebuffers  handleSet[gpu.Framebuffer]
	renderbuffers handleSet[gpu.Renderbuffer]
	vertexArrays  handleSet[gpu.VertexArray]
	buffers       handleSet[gpu.Buffer]
	programs      handleSet[gpu.Program]
}

// NewRegistry returns an empty registry creating objects on ctx.
func NewRegistry(ctx *gpu.Context) *Registry {
	return &Registry{
		ctx:           ctx,
		textures:      handleSet[gpu.Texture]{},
		framebuffers:  handleSet[gpu.Framebuffer]{},
		renderbuffers: handleSet[gpu.Renderbuffer]{},
		vertexArrays:  handleSet[gpu.VertexArray]{},
		buffers:       handleSet[gpu.Buffer]{},
		programs:      handleSet[gpu.Program]{},
	}
}

// Context returns the context objects are created on.
func (r *Registry) Context() *gpu.Context { return r.ctx }

func (r *Registry) CreateTexture() gpu.Texture {
	t := r.ctx.CreateTexture()
	r.textures.add(t)
	return t
}

// DeleteTexture releases t. It returns false, doing nothing, if t is not tracked.
func (r *Registry) DeleteTexture(t gpu.Texture) bool {
	if !r.textures.remove(t) {
		return false
	}
	r.ctx.DeleteTexture(t)
	return true
}

func (r *Registry) CreateFramebuffer() gpu.Framebuffer {
	fb := r.ctx.CreateFramebuffer()
	r.framebuffers.add(fb)
	return fb
}

func (r *Registry) DeleteFramebuffer(fb gpu.Framebuffer) bool {
	if !r.framebuffers.remove(fb) {
		return false
	}
	r.ctx.DeleteFramebuffer(fb)
	return true
}

func (r *Registry) CreateRenderbuffer() gpu.Renderbuffer {
	rb := r.ctx.CreateRenderbuffer()
	r.renderbuffers.add(rb)
	return rb
}

func (r *Registry) DeleteRenderbuffer(rb gpu.Renderbuffer) bool {
	if !r.renderbuffers.remove(rb) {
		return false
	}
	r.ctx.DeleteRenderbuffer(rb)
	return true
}

// CompileProgram compiles and links a program and tracks it.
func (r *Registry) CompileProgram(vertSrc, fragSrc string, attribs []gpu.Attrib) (gpu.Program, error) {
	p, err := r.ctx.CompileProgram(vertSrc, fragSrc, attribs)
	if err != nil {
		return 0, err
	}
	r.programs.add(p)
	return p, nil
}

func (r *Registry) DeleteProgram(p gpu.Program) bool {
	if !r.programs.remove(p) {
		return false
	}
	r.ctx.DeleteProgram(p)
	return true
}

func (r *Registry) createVertexArray() gpu.VertexArray {
	vao := r.ctx.CreateVertexArray()
	r.vertexArrays.add(vao)
	return vao
}

func (r *Registry) deleteVertexArray(vao gpu.VertexArray) {
	if r.vertexArrays.remove(vao) {
		r.ctx.DeleteVertexArray(vao)
	}
}

func (r *Registry) createBuffer() gpu.Buffer {
	b := r.ctx.CreateBuffer()
	r.buffers.add(b)
	return b
}

func (r *Registry) deleteBuffer(b gpu.Buffer) {
	if r.buffers.remove(b) {
		r.ctx.DeleteBuffer(b)
	}
}

// Counts reports how many handles of each kind are tracked.
func (r *Registry) Counts() Counts {
	return Counts{
		Textures:      len(r.textures),
		Framebuffers:  len(r.framebuffers),
		Renderbuffers: len(r.renderbuffers),
		VertexArrays:  len(r.vertexArrays),
		Buffers:       len(r.buffers),
		Programs:      len(r.programs),
	}
}

// TeardownAll releases every tracked handle exactly once and leaves the
// registry empty. Programs go first and vertex arrays last; handles of one
// kind are released in ascending order.
func (r *Registry) TeardownAll() {
	c := r.Counts()
	for _, p := range r.programs.drain() {
		r.ctx.DeleteProgram(p)
	}
	for _, fb := range r.framebuffers.drain() {
		r.ctx.DeleteFramebuffer(fb)
	}
	for _, rb := range r.renderbuffers.drain() {
		r.ctx.DeleteRenderbuffer(rb)
	}
	for _, t := range r.textures.drain() {
		r.ctx.DeleteTexture(t)
	}
	for _, b := range r.buffers.drain() {
		r.ctx.DeleteBuffer(b)
	}
	for _, vao := range r.vertexArrays.drain() {
		r.ctx.DeleteVertexArray(vao)
	}
	logger.Infof("released %d GPU objects", c.Total())
}
