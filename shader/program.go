// Package shader wraps linked GPU programs and the hooks run around their draws.
package shader

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"vector-engine/gpu"
	"vector-engine/resource"
)

// Attribs are the input names bound to the shared attribute locations.
var Attribs = []gpu.Attrib{
	{Location: resource.AttribPosition, Name: "position"},
	{Location: resource.AttribTexCoord, Name: "texCoords"},
	{Location: resource.AttribNormal, Name: "normal"},
	{Location: resource.AttribInstance, Name: "instanceTransform"},
}

// Hooks run at fixed points of a draw sequence. The renderer calls
// GroupBegin once per program use, IndividualBegin and IndividualEnd around
// the draws of every mesh, and GroupEnd after the last mesh. Nil hooks are skipped.
type Hooks struct {
	GroupBegin      func(p *Program)
	IndividualBegin func(p *Program)
	IndividualEnd   func(p *Program)
	GroupEnd        func(p *Program)
}

// Program is a linked shader program.
type Program struct {
	Name  string
	Hooks Hooks

	reg *resource.Registry
	ctx *gpu.Context
	id  gpu.Program
}

// Compile builds a program from GLSL sources. The program is tracked by reg.
func Compile(reg *resource.Registry, name, vertSrc, fragSrc string, hooks Hooks) (*Program, error) {
	id, err := reg.CompileProgram(vertSrc, fragSrc, Attribs)
	if err != nil {
		return nil, fmt.Errorf("shader %q: %w", name, err)
	}
	logger.Debugf("compiled shader %q as program %d", name, id)
	return &Program{
		Name:  name,
		Hooks: hooks,
		reg:   reg,
		ctx:   reg.Context(),
		id:    id,
	}, nil
}

func (p *Program) ID() gpu.Program { return p.id }

// Context returns the context the program was compiled on.
func (p *Program) Context() *gpu.Context { return p.ctx }

// Use binds the program.
func (p *Program) Use() { p.ctx.UseProgram(p.id) }

// Bound reports whether the program is currently bound.
func (p *Program) Bound() bool { return p.ctx.CurrentProgram() == p.id }

// UniformLocation asks the GPU for the location of name, -1 if absent.
func (p *Program) UniformLocation(name string) int32 {
	return p.ctx.UniformLocation(p.id, name)
}

func (p *Program) BeginGroup() {
	if p.Hooks.GroupBegin != nil {
		p.Hooks.GroupBegin(p)
	}
}

func (p *Program) BeginIndividual() {
	if p.Hooks.IndividualBegin != nil {
		p.Hooks.IndividualBegin(p)
	}
}

func (p *Program) EndIndividual() {
	if p.Hooks.IndividualEnd != nil {
		p.Hooks.IndividualEnd(p)
	}
}

func (p *Program) EndGroup() {
	if p.Hooks.GroupEnd != nil {
		p.Hooks.GroupEnd(p)
	}
}

// ── Uniform writes ────────────────────────────────────────────────────────────
// These write to the bound program, which must be p.

func (p *Program) SetFloat(loc int32, v float32) {
	p.ctx.AssertProgram(p.id)
	p.ctx.Uniform1f(loc, v)
}

func (p *Program) SetInt(loc int32, v int32) {
	p.ctx.AssertProgram(p.id)
	p.ctx.Uniform1i(loc, v)
}

func (p *Program) SetVec2(loc int32, v mgl32.Vec2) {
	p.ctx.AssertProgram(p.id)
	p.ctx.Uniform2f(loc, v)
}

func (p *Program) SetVec3(loc int32, v mgl32.Vec3) {
	p.ctx.AssertProgram(p.id)
	p.ctx.Uniform3f(loc, v)
}

func (p *Program) SetVec4(loc int32, v mgl32.Vec4) {
	p.ctx.AssertProgram(p.id)
	p.ctx.Uniform4f(loc, v)
}

func (p *Program) SetVec3Array(loc int32, v []mgl32.Vec3) {
	p.ctx.AssertProgram(p.id)
	p.ctx.Uniform3fv(loc, v)
}

func (p *Program) SetFloatArray(loc int32, v []float32) {
	p.ctx.AssertProgram(p.id)
	p.ctx.Uniform1fv(loc, v)
}

func (p *Program) SetMat4(loc int32, m mgl32.Mat4) {
	p.ctx.AssertProgram(p.id)
	p.ctx.UniformMatrix4(loc, m)
}

// Destroy releases the program.
func (p *Program) Destroy() {
	if p.id == 0 {
		return
	}
	p.reg.DeleteProgram(p.id)
	p.id = 0
}
