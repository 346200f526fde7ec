package gpu

import "errors"

// ErrProgramNotBound is raised in debug mode when a uniform is written while
// another program is bound.
var ErrProgramNotBound = errors.New("gpu: uniform write without bound program")

// maxTextureUnits is the number of units whose bindings are tracked.
const maxTextureUnits = 16

// Context wraps a Device and tracks what is currently bound. Redundant binds
// are skipped. It is not safe for concurrent use.
type Context struct {
	Device

	// Debug enables binding assertions.
	Debug bool

	program     Program
	framebuffer Framebuffer
	vertexArray VertexArray
	textures    [maxTextureUnits]Texture
}

// NewContext returns a Context over dev with nothing bound.
func NewContext(dev Device) *Context {
	return &Context{Device: dev}
}

// UseProgram binds p unless it is already bound.
func (c *Context) UseProgram(p Program) {
	if c.program == p {
		return
	}
	c.Device.UseProgram(p)
	c.program = p
}

// BindFramebuffer binds fb unless it is already bound.
func (c *Context) BindFramebuffer(fb Framebuffer) {
	if c.framebuffer == fb {
		return
	}
	c.Device.BindFramebuffer(fb)
	c.framebuffer = fb
}

// BindVertexArray binds vao unless it is already bound.
func (c *Context) BindVertexArray(vao VertexArray) {
	if c.vertexArray == vao {
		return
	}
	c.Device.BindVertexArray(vao)
	c.vertexArray = vao
}

// BindTexture binds t on unit. Units beyond the tracked range are always forwarded.
func (c *Context) BindTexture(unit uint32, t Texture) {
	if unit < maxTextureUnits {
		if c.textures[unit] == t {
			return
		}
		c.textures[unit] = t
	}
	c.Device.BindTexture(unit, t)
}

// UploadTexture specifies storage for t. Devices leave t bound on unit 0.
func (c *Context) UploadTexture(t Texture, desc TextureDesc) {
	c.Device.UploadTexture(t, desc)
	c.textures[0] = t
}

func (c *Context) CurrentProgram() Program         { return c.program }
func (c *Context) CurrentFramebuffer() Framebuffer { return c.framebuffer }
func (c *Context) CurrentVertexArray() VertexArray { return c.vertexArray }

// AssertProgram panics with ErrProgramNotBound when Debug is set and p is not
// the bound program.
func (c *Context) AssertProgram(p Program) {
	if c.Debug && c.program != p {
		panic(ErrProgramNotBound)
	}
}

// DeleteProgram deletes p and forgets it if it was bound.
func (c *Context) DeleteProgram(p Program) {
	c.Device.DeleteProgram(p)
	if c.program == p {
		c.program = 0
	}
}

// DeleteFramebuffer deletes fb and falls back to the default framebuffer if it was bound.
func (c *Context) DeleteFramebuffer(fb Framebuffer) {
	c.Device.DeleteFramebuffer(fb)
	if c.framebuffer == fb {
		c.framebuffer = DefaultFramebuffer
	}
}

// DeleteVertexArray deletes vao and forgets it if it was bound.
func (c *Context) DeleteVertexArray(vao VertexArray) {
	c.Device.DeleteVertexArray(vao)
	if c.vertexArray == vao {
		c.vertexArray = 0
	}
}

// DeleteTexture deletes t and clears every unit it was bound to.
func (c *Context) DeleteTexture(t Texture) {
	c.Device.DeleteTexture(t)
	for i := range c.textures {
		if c.textures[i] == t {
			c.textures[i] = 0
		}
	}
}

// Reset forgets every tracked binding so the next bind of each kind is forwarded.
func (c *Context) Reset() {
	c.program = 0
	c.framebuffer = DefaultFramebuffer
	c.vertexArray = 0
	c.textures = [maxTextureUnits]Texture{}
}
