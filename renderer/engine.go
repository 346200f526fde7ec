package renderer

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"vector-engine/asset"
	"vector-engine/core"
	"vector-engine/gpu"
	"vector-engine/log"
	"vector-engine/material"
	"vector-engine/resource"
	"vector-engine/scene"
	"vector-engine/shader"
)

var logger = log.New("renderer")

// Uniforms of the compositing programs.
const (
	uniformViewportOffset = "viewportOffset"
	uniformViewportSize   = "viewportSize"
)

// WindowSizer reports the current drawable size in pixels.
type WindowSizer interface {
	FramebufferSize() (width, height int)
}

// Options configures an Engine.
type Options struct {
	// ClearColor is the color of window areas no camera covers.
	ClearColor core.Color
	// UI enables the UI layer composited over every camera.
	UI bool
}

// Stats describes the last frame RenderAll produced.
type Stats struct {
	Cameras        int
	Materials      int
	OffscreenDraws int
	InstancedDraws int
	CompositeDraws int
	// Aborted is set when a camera target was incomplete and the frame was dropped.
	Aborted bool
}

// Engine batches submissions for one frame and renders them through every
// submitted camera, then composites the camera images and the UI layer into
// the window. Everything submitted is cleared after RenderAll.
type Engine struct {
	reg    *resource.Registry
	ctx    *gpu.Context
	window WindowSizer
	opts   Options

	queue   *Queue
	ui      *Queue
	lights  []core.Light
	cameras []*scene.Camera
	time    float64

	quad     *resource.Mesh
	redraw   *material.Material
	uiCamera *scene.Camera

	stats Stats
}

// New builds an Engine drawing on reg's context. The default compositing
// program comes from lib.
func New(reg *resource.Registry, lib *shader.Library, window WindowSizer, opts Options) (*Engine, error) {
	quadData := asset.ScreenQuad()
	quad, err := reg.LoadMeshData2D(quadData.Positions, quadData.Indices, quadData.TexCoords, nil)
	if err != nil {
		return nil, fmt.Errorf("screen quad: %w", err)
	}
	prog, err := lib.Redraw()
	if err != nil {
		return nil, err
	}

	e := &Engine{
		reg:    reg,
		ctx:    reg.Context(),
		window: window,
		opts:   opts,
		queue:  NewQueue(),
		ui:     NewQueue(),
		quad:   quad,
		redraw: material.New("redraw", prog, 0),
	}
	if opts.UI {
		e.uiCamera = scene.NewCamera(reg)
		e.uiCamera.Perspective = false
		e.uiCamera.NearPlane = -1
		e.uiCamera.FarPlane = 1
		e.uiCamera.ClearColor = core.ColorTransparent
	}
	logger.Infof("render engine ready (ui %v)", opts.UI)
	return e, nil
}

// AddToRenderQueue queues one draw of mesh with m at transform.
func (e *Engine) AddToRenderQueue(m *material.Material, mesh *resource.Mesh, transform mgl32.Mat4) {
	e.queue.Add(m, mesh, transform)
}

// AddToRenderQueueInstanced queues one instanced draw of mesh.
func (e *Engine) AddToRenderQueueInstanced(m *material.Material, mesh *resource.Mesh, transforms []mgl32.Mat4) {
	e.queue.AddInstanced(m, mesh, transforms, 0)
}

// AddToRenderQueueInstancedTextured queues one instanced draw with texture
// bound on unit 0 in place of the material's own.
func (e *Engine) AddToRenderQueueInstancedTextured(m *material.Material, mesh *resource.Mesh, transforms []mgl32.Mat4, texture gpu.Texture) {
	e.queue.AddInstanced(m, mesh, transforms, texture)
}

// AddToUIQueue queues a UI draw. Positions are pixels from the window center.
// It is a no-op when the UI layer is disabled.
func (e *Engine) AddToUIQueue(m *material.Material, mesh *resource.Mesh, transform mgl32.Mat4) {
	if e.uiCamera == nil {
		return
	}
	e.ui.Add(m, mesh, transform)
}

// AddToUIQueueInstanced queues an instanced UI draw.
func (e *Engine) AddToUIQueueInstanced(m *material.Material, mesh *resource.Mesh, transforms []mgl32.Mat4) {
	if e.uiCamera == nil {
		return
	}
	e.ui.AddInstanced(m, mesh, transforms, 0)
}

// AddLight adds a light for this frame.
func (e *Engine) AddLight(l core.Light) { e.lights = append(e.lights, l) }

// AddCamera adds a camera for this frame. Cameras render and composite in
// the order they are added.
func (e *Engine) AddCamera(c *scene.Camera) {
	if c == nil {
		return
	}
	e.cameras = append(e.cameras, c)
}

// SetTimeData sets the seconds since start pushed to time-aware materials.
func (e *Engine) SetTimeData(seconds float64) { e.time = seconds }

// LastFrame returns the statistics of the previous RenderAll.
func (e *Engine) LastFrame() Stats { return e.stats }

// RenderAll renders every camera offscreen, then composites them and the UI
// layer into the window. Submissions are cleared whatever the outcome.
//
// An incomplete camera target drops the frame and returns nil. A uniform the
// material's shader does not expose is returned as an error wrapping
// material.ErrInvalidUniform.
func (e *Engine) RenderAll() error {
	defer e.reset()
	e.stats = Stats{Cameras: len(e.cameras), Materials: e.queue.Len()}

	w, h := e.window.FramebufferSize()
	if w <= 0 || h <= 0 {
		return nil
	}

	var cameras []*scene.Camera
	for _, c := range e.cameras {
		if c.Target() == nil {
			logger.Warning("skipping destroyed camera")
			continue
		}
		cameras = append(cameras, c)
	}

	for i, c := range cameras {
		if err := e.renderCamera(c, e.queue, e.lights); err != nil {
			if errors.Is(err, scene.ErrIncompleteFramebuffer) {
				logger.Warningf("camera %d: %v; dropping frame", i, err)
				e.stats.Aborted = true
				return nil
			}
			return fmt.Errorf("camera %d: %w", i, err)
		}
	}

	drawUI := e.uiCamera != nil && e.ui.Len() > 0
	if drawUI {
		if err := e.renderCamera(e.uiCamera, e.ui, nil); err != nil {
			if errors.Is(err, scene.ErrIncompleteFramebuffer) {
				logger.Warningf("ui layer: %v; dropping frame", err)
				e.stats.Aborted = true
				return nil
			}
			return fmt.Errorf("ui layer: %w", err)
		}
	}

	return e.composite(w, h, cameras, drawUI)
}

// renderCamera draws q into the camera's target.
func (e *Engine) renderCamera(c *scene.Camera, q *Queue, lights []core.Light) error {
	// Each camera pass sees the current window size.
	ww, wh := e.window.FramebufferSize()
	pw, ph := c.PixelSize(ww, wh)

	target := c.Target()
	if err := target.Bind(pw, ph); err != nil {
		return err
	}
	// Storage upload leaves the target texture on unit 0.
	e.ctx.BindTexture(0, 0)

	e.ctx.Viewport(0, 0, pw, ph)
	e.ctx.SetClearColor(c.ClearColor.R, c.ClearColor.G, c.ClearColor.B, c.ClearColor.A)
	e.ctx.Clear(gpu.ClearAll)

	projection := c.ProjectionMatrix(ww, wh)
	view := c.ViewMatrix()

	for _, g := range q.Groups() {
		if err := e.drawGroup(g, projection, view, lights); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) drawGroup(g *Group, projection, view mgl32.Mat4, lights []core.Light) error {
	m := g.Material
	caps := m.Capabilities()
	prog := m.Shader()

	m.Use()
	if caps.Has(material.UsesLights) {
		if err := m.SetLights(lights); err != nil {
			return err
		}
	}
	if caps.Has(material.UsesTime) {
		if err := m.SetTimeData(e.time); err != nil {
			return err
		}
	}
	if caps.Has(material.UsesViewMatrix) {
		if err := m.SetViewMatrix(view); err != nil {
			return err
		}
	}
	if err := m.SetMatrix(material.UniformProjection, projection); err != nil {
		return err
	}

	prog.BeginGroup()
	for _, b := range g.Buckets {
		e.ctx.BindVertexArray(b.Mesh.VertexArray())
		prog.BeginIndividual()

		for _, t := range b.Transforms {
			if err := m.SetMatrix(material.UniformTransformation, t); err != nil {
				return err
			}
			e.ctx.DrawElements(b.Mesh.ElementCount())
			e.stats.OffscreenDraws++
		}

		for _, batch := range b.Batches {
			if err := e.drawBatch(m, b.Mesh, batch); err != nil {
				return err
			}
		}

		prog.EndIndividual()
	}
	prog.EndGroup()
	return nil
}

// drawBatch issues one instanced draw, or one draw per transform for
// materials that do not read per-instance attributes.
func (e *Engine) drawBatch(m *material.Material, mesh *resource.Mesh, batch Batch) error {
	if batch.Texture != 0 {
		e.ctx.BindTexture(0, batch.Texture)
	}
	if !m.Capabilities().Has(material.Instanced) {
		for _, t := range batch.Transforms {
			if err := m.SetMatrix(material.UniformTransformation, t); err != nil {
				return err
			}
			e.ctx.DrawElements(mesh.ElementCount())
			e.stats.OffscreenDraws++
		}
		return nil
	}
	e.reg.UploadInstances(mesh, batch.Transforms)
	e.ctx.DrawElementsInstanced(mesh.ElementCount(), int32(len(batch.Transforms)))
	e.stats.OffscreenDraws++
	e.stats.InstancedDraws++
	return nil
}

// composite draws every camera image into the window, then the UI layer.
func (e *Engine) composite(w, h int, cameras []*scene.Camera, drawUI bool) error {
	e.ctx.BindFramebuffer(gpu.DefaultFramebuffer)
	e.ctx.Viewport(0, 0, w, h)
	cc := e.opts.ClearColor
	e.ctx.SetClearColor(cc.R, cc.G, cc.B, cc.A)
	e.ctx.Clear(gpu.ClearAll)

	e.ctx.SetDepthTest(false)
	e.ctx.SetBlend(true)
	defer func() {
		e.ctx.SetBlend(false)
		e.ctx.SetDepthTest(true)
	}()

	for i, c := range cameras {
		m := e.redraw
		if c.PostProcess != nil {
			m = c.PostProcess
		}
		if err := e.drawImage(m, c.Target().Texture, c.ViewportOffset, c.ViewportSize); err != nil {
			return fmt.Errorf("composite camera %d: %w", i, err)
		}
	}
	if drawUI {
		if err := e.drawImage(e.redraw, e.uiCamera.Target().Texture, mgl32.Vec2{0, 0}, mgl32.Vec2{1, 1}); err != nil {
			return fmt.Errorf("composite ui layer: %w", err)
		}
	}
	return nil
}

// drawImage draws texture as a quad at offset with size, both fractions of the window.
func (e *Engine) drawImage(m *material.Material, texture gpu.Texture, offset, size mgl32.Vec2) error {
	prog := m.Shader()
	m.Use()
	if m.Capabilities().Has(material.UsesTime) {
		if err := m.SetTimeData(e.time); err != nil {
			return err
		}
	}
	if err := m.SetVector2(uniformViewportOffset, offset); err != nil {
		return err
	}
	if err := m.SetVector2(uniformViewportSize, size); err != nil {
		return err
	}

	prog.BeginGroup()
	e.ctx.BindVertexArray(e.quad.VertexArray())
	prog.BeginIndividual()
	e.ctx.BindTexture(0, texture)
	e.ctx.DrawElements(e.quad.ElementCount())
	e.stats.CompositeDraws++
	prog.EndIndividual()
	prog.EndGroup()
	return nil
}

func (e *Engine) reset() {
	e.queue.Reset()
	e.ui.Reset()
	clear(e.lights)
	e.lights = e.lights[:0]
	clear(e.cameras)
	e.cameras = e.cameras[:0]
}

// Destroy releases the engine's own GPU objects. Cameras added by the
// caller are not touched.
func (e *Engine) Destroy() {
	if e.uiCamera != nil {
		e.uiCamera.Destroy()
		e.uiCamera = nil
	}
	e.reg.DeleteMesh(e.quad)
	e.redraw.Shader().Destroy()
}
