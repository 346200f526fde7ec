package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"vector-engine/core"
	"vector-engine/material"
	"vector-engine/resource"
)

// Camera renders the scene into its own offscreen target, which is later
// composited into the window rectangle given by ViewportOffset and
// ViewportSize (fractions of the window, origin bottom-left).
type Camera struct {
	Position mgl32.Vec3
	// Rotation is pitch (X), yaw (Y) and roll (Z) in degrees.
	Rotation    mgl32.Vec3
	FOV         float32 // degrees
	NearPlane   float32
	FarPlane    float32
	Perspective bool

	ViewportOffset mgl32.Vec2
	ViewportSize   mgl32.Vec2
	ClearColor     core.Color

	// PostProcess replaces the plain copy when the image is composited.
	PostProcess *material.Material

	target *Target
}

// NewCamera returns a full-window perspective camera with its offscreen
// target allocated on reg.
func NewCamera(reg *resource.Registry) *Camera {
	return &Camera{
		FOV:          60,
		NearPlane:    0.01,
		FarPlane:     1000,
		Perspective:  true,
		ViewportSize: mgl32.Vec2{1, 1},
		ClearColor:   core.ColorPurple,
		target:       NewTarget(reg),
	}
}

// Target returns the camera's offscreen target, nil after Destroy.
func (c *Camera) Target() *Target { return c.target }

// PixelSize is the viewport size in pixels for a window, at least 1x1.
func (c *Camera) PixelSize(windowW, windowH int) (int, int) {
	w := int(c.ViewportSize.X() * float32(windowW))
	h := int(c.ViewportSize.Y() * float32(windowH))
	return max(w, 1), max(h, 1)
}

// ProjectionMatrix uses the aspect ratio of the camera's pixel viewport.
// Orthographic cameras span the viewport in pixels, centered on the camera.
func (c *Camera) ProjectionMatrix(windowW, windowH int) mgl32.Mat4 {
	w, h := c.PixelSize(windowW, windowH)
	if !c.Perspective {
		hw, hh := float32(w)/2, float32(h)/2
		return mgl32.Ortho(-hw, hw, -hh, hh, c.NearPlane, c.FarPlane)
	}
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), float32(w)/float32(h), c.NearPlane, c.FarPlane)
}

// ViewMatrix translates by -Position, then applies yaw, pitch and roll.
func (c *Camera) ViewMatrix() mgl32.Mat4 {
	return mgl32.HomogRotate3DZ(mgl32.DegToRad(c.Rotation.Z())).
		Mul4(mgl32.HomogRotate3DX(mgl32.DegToRad(c.Rotation.X()))).
		Mul4(mgl32.HomogRotate3DY(mgl32.DegToRad(c.Rotation.Y()))).
		Mul4(mgl32.Translate3D(-c.Position.X(), -c.Position.Y(), -c.Position.Z()))
}

// MoveDirectionBased moves the camera by delta expressed relative to its yaw.
func (c *Camera) MoveDirectionBased(delta mgl32.Vec3) {
	q := mgl32.QuatRotate(mgl32.DegToRad(-c.Rotation.Y()), mgl32.Vec3{0, 1, 0})
	c.Position = c.Position.Add(q.Rotate(delta))
}

// Destroy releases the offscreen target. The camera must not be rendered afterwards.
func (c *Camera) Destroy() {
	if c.target != nil {
		c.target.Release()
		c.target = nil
	}
}
