// Package opengl implements gpu.Device on OpenGL 4.1 core.
package opengl

import (
	"fmt"
	"unsafe"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"vector-engine/gpu"
	"vector-engine/log"
)

var logger = log.New("opengl")

// Device issues gpu.Device calls on the current OpenGL context.
type Device struct {
	Version string
}

// NewDevice loads the OpenGL function pointers.
// Must be called after the GLFW window context is made current.
func NewDevice() (*Device, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	d := &Device{Version: gl.GoStr(gl.GetString(gl.VERSION))}
	logger.Noticef("OpenGL version: %s", d.Version)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	return d, nil
}

// ── Textures ──────────────────────────────────────────────────────────────────

func (d *Device) CreateTexture() gpu.Texture {
	var id uint32
	gl.GenTextures(1, &id)
	return gpu.Texture(id)
}

func (d *Device) DeleteTexture(t gpu.Texture) {
	id := uint32(t)
	gl.DeleteTextures(1, &id)
}

// UploadTexture specifies RGBA8 storage and sampling for t. The unit 0
// binding is left pointing at t.
func (d *Device) UploadTexture(t gpu.Texture, desc gpu.TextureDesc) {
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, uint32(t))

	filter := int32(gl.LINEAR)
	if desc.Filter == gpu.FilterNearest {
		filter = gl.NEAREST
	}
	minFilter := filter
	if desc.Mipmaps {
		minFilter = gl.LINEAR_MIPMAP_LINEAR
		if desc.Filter == gpu.FilterNearest {
			minFilter = gl.NEAREST_MIPMAP_NEAREST
		}
	}
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, minFilter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, filter)

	var pixels unsafe.Pointer
	if len(desc.Pixels) > 0 {
		pixels = unsafe.Pointer(&desc.Pixels[0])
	}
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8,
		int32(desc.Width), int32(desc.Height), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, pixels)
	if desc.Mipmaps {
		gl.GenerateMipmap(gl.TEXTURE_2D)
	}
}

func (d *Device) BindTexture(unit uint32, t gpu.Texture) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	gl.BindTexture(gl.TEXTURE_2D, uint32(t))
}

// ── Render targets ────────────────────────────────────────────────────────────

func (d *Device) CreateRenderbuffer() gpu.Renderbuffer {
	var id uint32
	gl.GenRenderbuffers(1, &id)
	return gpu.Renderbuffer(id)
}

func (d *Device) DeleteRenderbuffer(rb gpu.Renderbuffer) {
	id := uint32(rb)
	gl.DeleteRenderbuffers(1, &id)
}

// RenderbufferStorage allocates 24-bit depth and 8-bit stencil storage.
func (d *Device) RenderbufferStorage(rb gpu.Renderbuffer, width, height int) {
	gl.BindRenderbuffer(gl.RENDERBUFFER, uint32(rb))
	gl.RenderbufferStorage(gl.RENDERBUFFER, gl.DEPTH24_STENCIL8, int32(width), int32(height))
	gl.BindRenderbuffer(gl.RENDERBUFFER, 0)
}

func (d *Device) CreateFramebuffer() gpu.Framebuffer {
	var id uint32
	gl.GenFramebuffers(1, &id)
	return gpu.Framebuffer(id)
}

func (d *Device) DeleteFramebuffer(fb gpu.Framebuffer) {
	id := uint32(fb)
	gl.DeleteFramebuffers(1, &id)
}

func (d *Device) BindFramebuffer(fb gpu.Framebuffer) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, uint32(fb))
}

// AttachColorTexture attaches t as color attachment 0 of the bound framebuffer.
func (d *Device) AttachColorTexture(t gpu.Texture) {
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, uint32(t), 0)
}

// AttachDepthStencil attaches rb as the depth-stencil attachment of the bound framebuffer.
func (d *Device) AttachDepthStencil(rb gpu.Renderbuffer) {
	gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.DEPTH_STENCIL_ATTACHMENT, gl.RENDERBUFFER, uint32(rb))
}

func (d *Device) CheckFramebufferStatus() gpu.FramebufferStatus {
	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	switch status {
	case gl.FRAMEBUFFER_COMPLETE:
		return gpu.FramebufferComplete
	case gl.FRAMEBUFFER_INCOMPLETE_ATTACHMENT:
		return gpu.FramebufferIncompleteAttachment
	case gl.FRAMEBUFFER_INCOMPLETE_MISSING_ATTACHMENT:
		return gpu.FramebufferMissingAttachment
	case gl.FRAMEBUFFER_UNSUPPORTED:
		return gpu.FramebufferUnsupported
	}
	logger.Debugf("framebuffer status=0x%X", status)
	return gpu.FramebufferUndefined
}

// ── Frame state ───────────────────────────────────────────────────────────────

func (d *Device) Viewport(x, y, width, height int) {
	gl.Viewport(int32(x), int32(y), int32(width), int32(height))
}

func (d *Device) SetClearColor(r, g, b, a float32) {
	gl.ClearColor(r, g, b, a)
}

func (d *Device) Clear(mask gpu.ClearMask) {
	var bits uint32
	if mask&gpu.ClearColor != 0 {
		bits |= gl.COLOR_BUFFER_BIT
	}
	if mask&gpu.ClearDepth != 0 {
		bits |= gl.DEPTH_BUFFER_BIT
	}
	if mask&gpu.ClearStencil != 0 {
		bits |= gl.STENCIL_BUFFER_BIT
	}
	gl.Clear(bits)
}

func (d *Device) SetDepthTest(enabled bool) { toggle(gl.DEPTH_TEST, enabled) }
func (d *Device) SetBlend(enabled bool)     { toggle(gl.BLEND, enabled) }

func toggle(capability uint32, enabled bool) {
	if enabled {
		gl.Enable(capability)
	} else {
		gl.Disable(capability)
	}
}

var _ gpu.Device = (*Device)(nil)
