package shader

import (
	"embed"
	"fmt"
	"io/fs"
	"os"

	"vector-engine/gpu"
	"vector-engine/log"
	"vector-engine/resource"
)

var logger = log.New("shader")

//go:embed glsl/*.vert glsl/*.frag
var embedded embed.FS

// Source file names looked up in a shader directory.
const (
	StaticVert   = "static.vert"
	StaticFrag   = "static.frag"
	ParticleVert = "particle.vert"
	ParticleFrag = "particle.frag"
	UIVert       = "ui.vert"
	UIFrag       = "ui.frag"
	RedrawVert   = "redraw.vert"
	RedrawFrag   = "redraw.frag"
	InvertedFrag = "inverted.frag"
)

// Library builds the engine's built-in programs from a source tree.
type Library struct {
	reg  *resource.Registry
	fsys fs.FS
}

// NewLibrary reads sources from dir, or from the embedded sources when dir is empty.
func NewLibrary(reg *resource.Registry, dir string) *Library {
	if dir == "" {
		sub, err := fs.Sub(embedded, "glsl")
		if err != nil {
			panic(err)
		}
		return &Library{reg: reg, fsys: sub}
	}
	return &Library{reg: reg, fsys: os.DirFS(dir)}
}

// Load compiles the program made of two source files.
func (l *Library) Load(name, vertPath, fragPath string, hooks Hooks) (*Program, error) {
	vert, err := fs.ReadFile(l.fsys, vertPath)
	if err != nil {
		return nil, fmt.Errorf("shader %q: %w", name, err)
	}
	frag, err := fs.ReadFile(l.fsys, fragPath)
	if err != nil {
		return nil, fmt.Errorf("shader %q: %w", name, err)
	}
	return Compile(l.reg, name, string(vert), string(frag), hooks)
}

// Static is the lit, textured program for individually placed meshes.
func (l *Library) Static(texture gpu.Texture) (*Program, error) {
	return l.Load("static", StaticVert, StaticFrag, TexturedHooks(texture,
		resource.AttribPosition, resource.AttribTexCoord, resource.AttribNormal))
}

// Particle is the instanced, textured program used by particle systems.
func (l *Library) Particle(texture gpu.Texture) (*Program, error) {
	return l.Load("particle", ParticleVert, ParticleFrag, TexturedHooks(texture,
		resource.AttribPosition, resource.AttribTexCoord))
}

// UI draws textured 2D meshes such as text.
func (l *Library) UI(texture gpu.Texture) (*Program, error) {
	return l.Load("ui", UIVert, UIFrag, TexturedHooks(texture,
		resource.AttribPosition, resource.AttribTexCoord))
}

// Redraw copies an offscreen color texture into the window.
func (l *Library) Redraw() (*Program, error) {
	return l.Load("redraw", RedrawVert, RedrawFrag, AttribHooks(
		resource.AttribPosition, resource.AttribTexCoord))
}

// InvertedColor is a post-processing program inverting a camera's image.
func (l *Library) InvertedColor() (*Program, error) {
	return l.Load("inverted", RedrawVert, InvertedFrag, AttribHooks(
		resource.AttribPosition, resource.AttribTexCoord))
}

// AttribHooks enables the given attributes around each mesh.
func AttribHooks(attribs ...uint32) Hooks {
	return Hooks{
		IndividualBegin: func(p *Program) {
			for _, a := range attribs {
				p.ctx.EnableVertexAttrib(a)
			}
		},
		IndividualEnd: func(p *Program) {
			for _, a := range attribs {
				p.ctx.DisableVertexAttrib(a)
			}
		},
	}
}

// TexturedHooks is AttribHooks that also binds texture on unit 0 before each mesh.
func TexturedHooks(texture gpu.Texture, attribs ...uint32) Hooks {
	h := AttribHooks(attribs...)
	enable := h.IndividualBegin
	h.IndividualBegin = func(p *Program) {
		p.ctx.BindTexture(0, texture)
		enable(p)
	}
	return h
}
