// Package gputest provides an in-memory gpu.Device that records every call.
package gputest

import (
	"fmt"
	"regexp"

	"github.com/go-gl/mathgl/mgl32"

	"vector-engine/gpu"
)

// Viewport is a recorded viewport rectangle.
type Viewport struct {
	X, Y, Width, Height int
}

// Draw is a snapshot of the pipeline state at a draw call.
type Draw struct {
	Framebuffer gpu.Framebuffer
	Program     gpu.Program
	VertexArray gpu.VertexArray
	Texture     gpu.Texture // unit 0
	Viewport    Viewport
	Count       int32
	Instances   int32 // 0 for non-instanced draws
	Uniforms    map[string]any
}

// Storage is the last storage upload of a texture or renderbuffer.
type Storage struct {
	Width, Height int
}

type program struct {
	uniforms map[string]int32
	names    map[int32]string
	values   map[string]any
}

var uniformDecl = regexp.MustCompile(`uniform\s+\w+\s+(\w+)`)

// Recorder implements gpu.Device in memory. Uniforms of a program are the
// ones declared in the sources given to CompileProgram.
type Recorder struct {
	// Incomplete marks framebuffers whose completeness check fails.
	Incomplete map[gpu.Framebuffer]bool
	// CompileError, when set, is returned by CompileProgram.
	CompileError error

	// Calls lists the method name of every call in order.
	Calls []string
	// Draws lists every draw call in order.
	Draws []Draw
	// Lookups counts UniformLocation calls per uniform name.
	Lookups map[string]int

	TextureStorage      map[gpu.Texture]Storage
	RenderbufferSizes   map[gpu.Renderbuffer]Storage
	Attachments         map[gpu.Framebuffer][2]uint32 // color texture, depth-stencil renderbuffer
	Live                map[string]int                // live handles per kind

	next        uint32
	programs    map[gpu.Program]*program
	bound       gpu.Program
	framebuffer gpu.Framebuffer
	vertexArray gpu.VertexArray
	textures    map[uint32]gpu.Texture
	viewport    Viewport
	enabled     map[uint32]bool
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		Incomplete:          map[gpu.Framebuffer]bool{},
		Lookups:             map[string]int{},
		TextureStorage:      map[gpu.Texture]Storage{},
		RenderbufferSizes:   map[gpu.Renderbuffer]Storage{},
		Attachments:         map[gpu.Framebuffer][2]uint32{},
		Live:                map[string]int{},
		programs:            map[gpu.Program]*program{},
		textures:            map[uint32]gpu.Texture{},
		enabled:             map[uint32]bool{},
	}
}

func (r *Recorder) call(name string) { r.Calls = append(r.Calls, name) }

func (r *Recorder) alloc(kind string) uint32 {
	r.next++
	r.Live[kind]++
	return r.next
}

func (r *Recorder) free(kind string, h uint32) {
	if h != 0 {
		r.Live[kind]--
	}
}

// Count returns how many times the named method was called.
func (r *Recorder) Count(name string) int {
	n := 0
	for _, c := range r.Calls {
		if c == name {
			n++
		}
	}
	return n
}

// Reset forgets recorded calls and draws but keeps live objects.
func (r *Recorder) Reset() {
	r.Calls = nil
	r.Draws = nil
	r.Lookups = map[string]int{}
}

// Uniform returns the last value written to name on program p.
func (r *Recorder) Uniform(p gpu.Program, name string) (any, bool) {
	prog, ok := r.programs[p]
	if !ok {
		return nil, false
	}
	v, ok := prog.values[name]
	return v, ok
}

// AttribEnabled reports whether a vertex attribute is currently enabled.
func (r *Recorder) AttribEnabled(index uint32) bool { return r.enabled[index] }

// ── Textures ─────────────────────────────────────────────────────────────────

func (r *Recorder) CreateTexture() gpu.Texture {
	r.call("CreateTexture")
	return gpu.Texture(r.alloc("texture"))
}

func (r *Recorder) DeleteTexture(t gpu.Texture) {
	r.call("DeleteTexture")
	r.free("texture", uint32(t))
	delete(r.TextureStorage, t)
}

func (r *Recorder) UploadTexture(t gpu.Texture, desc gpu.TextureDesc) {
	r.call("UploadTexture")
	r.TextureStorage[t] = Storage{Width: desc.Width, Height: desc.Height}
	r.textures[0] = t
}

func (r *Recorder) BindTexture(unit uint32, t gpu.Texture) {
	r.call("BindTexture")
	r.textures[unit] = t
}

// ── Render targets ───────────────────────────────────────────────────────────

func (r *Recorder) CreateRenderbuffer() gpu.Renderbuffer {
	r.call("CreateRenderbuffer")
	return gpu.Renderbuffer(r.alloc("renderbuffer"))
}

func (r *Recorder) DeleteRenderbuffer(rb gpu.Renderbuffer) {
	r.call("DeleteRenderbuffer")
	r.free("renderbuffer", uint32(rb))
	delete(r.RenderbufferSizes, rb)
}

func (r *Recorder) RenderbufferStorage(rb gpu.Renderbuffer, width, height int) {
	r.call("RenderbufferStorage")
	r.RenderbufferSizes[rb] = Storage{Width: width, Height: height}
}

func (r *Recorder) CreateFramebuffer() gpu.Framebuffer {
	r.call("CreateFramebuffer")
	return gpu.Framebuffer(r.alloc("framebuffer"))
}

func (r *Recorder) DeleteFramebuffer(fb gpu.Framebuffer) {
	r.call("DeleteFramebuffer")
	r.free("framebuffer", uint32(fb))
	delete(r.Attachments, fb)
}

func (r *Recorder) BindFramebuffer(fb gpu.Framebuffer) {
	r.call("BindFramebuffer")
	r.framebuffer = fb
}

func (r *Recorder) AttachColorTexture(t gpu.Texture) {
	r.call("AttachColorTexture")
	a := r.Attachments[r.framebuffer]
	a[0] = uint32(t)
	r.Attachments[r.framebuffer] = a
}

func (r *Recorder) AttachDepthStencil(rb gpu.Renderbuffer) {
	r.call("AttachDepthStencil")
	a := r.Attachments[r.framebuffer]
	a[1] = uint32(rb)
	r.Attachments[r.framebuffer] = a
}

func (r *Recorder) CheckFramebufferStatus() gpu.FramebufferStatus {
	r.call("CheckFramebufferStatus")
	if r.Incomplete[r.framebuffer] {
		return gpu.FramebufferIncompleteAttachment
	}
	return gpu.FramebufferComplete
}

// ── Frame state ──────────────────────────────────────────────────────────────

func (r *Recorder) Viewport(x, y, width, height int) {
	r.call("Viewport")
	r.viewport = Viewport{x, y, width, height}
}

func (r *Recorder) SetClearColor(_, _, _, _ float32) { r.call("SetClearColor") }
func (r *Recorder) Clear(gpu.ClearMask)             { r.call("Clear") }
func (r *Recorder) SetDepthTest(bool)               { r.call("SetDepthTest") }
func (r *Recorder) SetBlend(bool)                   { r.call("SetBlend") }

// ── Geometry ─────────────────────────────────────────────────────────────────

func (r *Recorder) CreateVertexArray() gpu.VertexArray {
	r.call("CreateVertexArray")
	return gpu.VertexArray(r.alloc("vertexarray"))
}

func (r *Recorder) DeleteVertexArray(vao gpu.VertexArray) {
	r.call("DeleteVertexArray")
	r.free("vertexarray", uint32(vao))
}

func (r *Recorder) BindVertexArray(vao gpu.VertexArray) {
	r.call("BindVertexArray")
	r.vertexArray = vao
}

func (r *Recorder) CreateBuffer() gpu.Buffer {
	r.call("CreateBuffer")
	return gpu.Buffer(r.alloc("buffer"))
}

func (r *Recorder) DeleteBuffer(b gpu.Buffer) {
	r.call("DeleteBuffer")
	r.free("buffer", uint32(b))
}

func (r *Recorder) ArrayBufferData(gpu.Buffer, []float32, gpu.Usage) { r.call("ArrayBufferData") }
func (r *Recorder) ArrayBufferSubData(gpu.Buffer, []float32)         { r.call("ArrayBufferSubData") }
func (r *Recorder) ElementBufferData(gpu.Buffer, []uint32)           { r.call("ElementBufferData") }
func (r *Recorder) VertexAttribPointer(uint32, int, int, int)        { r.call("VertexAttribPointer") }
func (r *Recorder) VertexAttribDivisor(uint32, uint32)               { r.call("VertexAttribDivisor") }

func (r *Recorder) EnableVertexAttrib(index uint32) {
	r.call("EnableVertexAttrib")
	r.enabled[index] = true
}

func (r *Recorder) DisableVertexAttrib(index uint32) {
	r.call("DisableVertexAttrib")
	delete(r.enabled, index)
}

func (r *Recorder) DrawElements(count int32) {
	r.call("DrawElements")
	r.draw(count, 0)
}

func (r *Recorder) DrawElementsInstanced(count, instances int32) {
	r.call("DrawElementsInstanced")
	r.draw(count, instances)
}

func (r *Recorder) draw(count, instances int32) {
	d := Draw{
		Framebuffer: r.framebuffer,
		Program:     r.bound,
		VertexArray: r.vertexArray,
		Texture:     r.textures[0],
		Viewport:    r.viewport,
		Count:       count,
		Instances:   instances,
		Uniforms:    map[string]any{},
	}
	if prog, ok := r.programs[r.bound]; ok {
		for k, v := range prog.values {
			d.Uniforms[k] = v
		}
	}
	r.Draws = append(r.Draws, d)
}

// ── Programs ─────────────────────────────────────────────────────────────────

func (r *Recorder) CompileProgram(vertSrc, fragSrc string, _ []gpu.Attrib) (gpu.Program, error) {
	r.call("CompileProgram")
	if r.CompileError != nil {
		return 0, r.CompileError
	}
	p := gpu.Program(r.alloc("program"))
	prog := &program{
		uniforms: map[string]int32{},
		names:    map[int32]string{},
		values:   map[string]any{},
	}
	for _, src := range []string{vertSrc, fragSrc} {
		for _, m := range uniformDecl.FindAllStringSubmatch(src, -1) {
			if _, ok := prog.uniforms[m[1]]; ok {
				continue
			}
			loc := int32(len(prog.uniforms))
			prog.uniforms[m[1]] = loc
			prog.names[loc] = m[1]
		}
	}
	r.programs[p] = prog
	return p, nil
}

func (r *Recorder) DeleteProgram(p gpu.Program) {
	r.call("DeleteProgram")
	r.free("program", uint32(p))
	delete(r.programs, p)
}

func (r *Recorder) UseProgram(p gpu.Program) {
	r.call("UseProgram")
	r.bound = p
}

func (r *Recorder) UniformLocation(p gpu.Program, name string) int32 {
	r.call("UniformLocation")
	r.Lookups[name]++
	prog, ok := r.programs[p]
	if !ok {
		return -1
	}
	loc, ok := prog.uniforms[name]
	if !ok {
		return -1
	}
	return loc
}

func (r *Recorder) set(loc int32, v any) {
	r.call("Uniform")
	if loc < 0 {
		return
	}
	prog, ok := r.programs[r.bound]
	if !ok {
		panic(fmt.Sprintf("gputest: uniform write at %d with no program bound", loc))
	}
	name, ok := prog.names[loc]
	if !ok {
		panic(fmt.Sprintf("gputest: uniform location %d not in program %d", loc, r.bound))
	}
	prog.values[name] = v
}

func (r *Recorder) Uniform1f(loc int32, v float32)       { r.set(loc, v) }
func (r *Recorder) Uniform1i(loc int32, v int32)         { r.set(loc, v) }
func (r *Recorder) Uniform2f(loc int32, v mgl32.Vec2)    { r.set(loc, v) }
func (r *Recorder) Uniform3f(loc int32, v mgl32.Vec3)    { r.set(loc, v) }
func (r *Recorder) Uniform4f(loc int32, v mgl32.Vec4)    { r.set(loc, v) }
func (r *Recorder) UniformMatrix4(loc int32, m mgl32.Mat4) { r.set(loc, m) }

func (r *Recorder) Uniform3fv(loc int32, v []mgl32.Vec3) {
	r.set(loc, append([]mgl32.Vec3(nil), v...))
}

func (r *Recorder) Uniform1fv(loc int32, v []float32) {
	r.set(loc, append([]float32(nil), v...))
}

var _ gpu.Device = (*Recorder)(nil)
