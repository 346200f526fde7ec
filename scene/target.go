package scene

import (
	"errors"
	"fmt"

	"vector-engine/gpu"
	"vector-engine/resource"
)

var ErrIncompleteFramebuffer = errors.New("framebuffer incomplete")

// Target is an offscreen color texture and depth-stencil renderbuffer
// attached to one framebuffer. The three handles are allocated and released together.
type Target struct {
	Texture     gpu.Texture
	Depth       gpu.Renderbuffer
	Framebuffer gpu.Framebuffer
	Width       int
	Height      int

	reg *resource.Registry
}

// NewTarget allocates the handles. Storage is specified on the first Bind.
func NewTarget(reg *resource.Registry) *Target {
	return &Target{
		Texture:     reg.CreateTexture(),
		Depth:       reg.CreateRenderbuffer(),
		Framebuffer: reg.CreateFramebuffer(),
		reg:         reg,
	}
}

// Bind makes the target the draw framebuffer at width x height. Storage is
// reallocated when the size changed; both attachments are reattached and the
// framebuffer checked. An incomplete target returns an error wrapping
// ErrIncompleteFramebuffer.
func (t *Target) Bind(width, height int) error {
	ctx := t.reg.Context()
	ctx.BindFramebuffer(t.Framebuffer)

	if width != t.Width || height != t.Height {
		ctx.UploadTexture(t.Texture, gpu.TextureDesc{
			Width:  width,
			Height: height,
			Filter: gpu.FilterLinear,
		})
		ctx.RenderbufferStorage(t.Depth, width, height)
		t.Width, t.Height = width, height
	}
	ctx.AttachColorTexture(t.Texture)
	ctx.AttachDepthStencil(t.Depth)

	if status := ctx.CheckFramebufferStatus(); status != gpu.FramebufferComplete {
		return fmt.Errorf("%w: framebuffer %d %dx%d: %s", ErrIncompleteFramebuffer, t.Framebuffer, width, height, status)
	}
	return nil
}

// Release frees all three handles.
func (t *Target) Release() {
	t.reg.DeleteFramebuffer(t.Framebuffer)
	t.reg.DeleteRenderbuffer(t.Depth)
	t.reg.DeleteTexture(t.Texture)
	*t = Target{reg: t.reg}
}
