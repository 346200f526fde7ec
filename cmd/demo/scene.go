package main

import (
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"

	"vector-engine/core"
	"vector-engine/engine"
	"vector-engine/gpu"
	"vector-engine/material"
	"vector-engine/particles"
	"vector-engine/renderer"
	"vector-engine/resource"
	"vector-engine/scene"
)

const (
	moveSpeed  = 5.0  // units per second
	turnSpeed  = 90.0 // degrees per second
	lookSpeed  = 0.15 // degrees per pixel
	cubeSpin   = 25.0 // degrees per second
	maxSparks  = 256
	sparkBurst = 4
)

// sceneLayer owns the cameras and world geometry of the demo.
type sceneLayer struct {
	engine.BaseLayer

	input    *core.Input
	eng      *renderer.Engine
	quit     func()
	dayNight *DayNight

	main, inset *scene.Camera
	showInset   bool

	window renderer.WindowSizer
	cube   *resource.Mesh
	bounds scene.AABB
	crate  *material.Material
	blocks []core.Transform
	culled int

	quad      *resource.Mesh
	sparks    *particles.System
	sparkMat  *material.Material
	sparkTex  gpu.Texture
	sparkBase mgl32.Mat4
}

func newSparks(rng *rand.Rand) (*particles.System, error) {
	spawn := func(alive int, _ float32) int {
		return min(sparkBurst, maxSparks-alive)
	}
	create := func() (mgl32.Vec3, mgl32.Vec3, float32) {
		vel := mgl32.Vec3{
			rng.Float32()*2 - 1,
			3 + rng.Float32()*2,
			rng.Float32()*2 - 1,
		}
		return mgl32.Vec3{}, vel, 1.5 + rng.Float32()
	}
	sys, err := particles.New(maxSparks, spawn, create)
	if err != nil {
		return nil, err
	}
	sys.SetScale(0.1)
	sys.SetScaleOverLifetime(func(remaining float32) float32 { return min(remaining, 1) })
	sys.SetVelocityChange(mgl32.Vec3{0, -4, 0})
	return sys, nil
}

func (s *sceneLayer) OnUpdate(dt float64) {
	in, step := s.input, float32(dt)
	if in.KeyPressed(core.KeyEscape) {
		s.quit()
		return
	}
	if in.KeyPressed(core.KeyTab) {
		s.showInset = !s.showInset
	}
	if in.KeyPressed(core.KeyP) {
		s.dayNight.Active = !s.dayNight.Active
	}

	var move mgl32.Vec3
	for key, dir := range map[int]mgl32.Vec3{
		core.KeyW:         {0, 0, -1},
		core.KeyS:         {0, 0, 1},
		core.KeyA:         {-1, 0, 0},
		core.KeyD:         {1, 0, 0},
		core.KeySpace:     {0, 1, 0},
		core.KeyLeftShift: {0, -1, 0},
	} {
		if in.KeyDown(key) {
			move = move.Add(dir)
		}
	}
	if move.Len() > 0 {
		s.main.MoveDirectionBased(move.Normalize().Mul(moveSpeed * step))
	}

	yaw, pitch := float32(0), float32(0)
	if in.KeyDown(core.KeyQ) {
		yaw -= turnSpeed * step
	}
	if in.KeyDown(core.KeyE) {
		yaw += turnSpeed * step
	}
	if in.MouseDown(core.MouseRight) {
		yaw += float32(in.MouseDeltaX) * lookSpeed
		pitch += float32(in.MouseDeltaY) * lookSpeed
	}
	rot := s.main.Rotation
	s.main.Rotation = mgl32.Vec3{mgl32.Clamp(rot.X()+pitch, -89, 89), rot.Y() + yaw, rot.Z()}

	for i := range s.blocks {
		s.blocks[i].Rotation[1] += cubeSpin * step
	}
	s.sparks.Update(step)
	s.dayNight.Update(step)
}

func (s *sceneLayer) OnRender(float64) {
	sky := s.dayNight.Sky()
	s.main.ClearColor = sky
	s.inset.ClearColor = sky
	s.inset.Position = s.main.Position.Add(mgl32.Vec3{0, 6, 0})
	s.inset.Rotation = mgl32.Vec3{89, s.main.Rotation.Y(), 0}

	s.eng.AddCamera(s.main)
	if s.showInset {
		s.eng.AddCamera(s.inset)
	}
	for _, l := range s.dayNight.Lights(mgl32.Vec3{}) {
		s.eng.AddLight(l)
	}
	w, h := s.window.FramebufferSize()
	view := s.main.Frustum(w, h)
	s.culled = 0
	for _, b := range s.blocks {
		m := b.Matrix()
		if !s.bounds.Transform(m).IntersectsFrustum(&view) {
			s.culled++
			continue
		}
		s.eng.AddToRenderQueue(s.crate, s.cube, m)
	}
	s.sparks.Render(s.eng, s.sparkMat, s.sparkBase, s.quad, s.sparkTex)
}

func (s *sceneLayer) OnEvent(ev engine.Event) bool {
	if ev.Kind == engine.EventResize {
		logger.Infof("window resized to %dx%d", ev.Width, ev.Height)
	}
	return false
}

func (s *sceneLayer) destroy(reg *resource.Registry) {
	s.main.Destroy()
	s.inset.Destroy()
	reg.DeleteMesh(s.cube)
	reg.DeleteMesh(s.quad)
}
