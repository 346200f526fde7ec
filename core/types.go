package core

import (
	"github.com/go-gl/mathgl/mgl32"
)

type Color struct {
	R, G, B, A float32
}

var (
	ColorWhite       = Color{1, 1, 1, 1}
	ColorBlack       = Color{0, 0, 0, 1}
	ColorTransparent = Color{0, 0, 0, 0}
	ColorRed         = Color{1, 0, 0, 1}
	ColorGreen       = Color{0, 1, 0, 1}
	ColorBlue        = Color{0, 0, 1, 1}
	ColorPurple      = Color{0.25, 0, 0.5, 1}
)

// Vec3 returns the RGB components.
func (c Color) Vec3() mgl32.Vec3 { return mgl32.Vec3{c.R, c.G, c.B} }

// Light is a point light. At most twelve are used per draw.
type Light struct {
	Position  mgl32.Vec3
	Color     mgl32.Vec3
	Distance  float32
	Intensity float32
}

// Transform places an object. Rotation is Euler angles in degrees, applied X then Y then Z.
type Transform struct {
	Position mgl32.Vec3
	Rotation mgl32.Vec3
	Scale    mgl32.Vec3
}

func NewTransform() Transform {
	return Transform{Scale: mgl32.Vec3{1, 1, 1}}
}

// Matrix returns translation * rotX * rotY * rotZ * scale.
func (t Transform) Matrix() mgl32.Mat4 {
	return TransformationMatrix(t.Position, t.Rotation, t.Scale)
}

// TransformationMatrix builds a model matrix from a position, Euler rotation in degrees and scale.
func TransformationMatrix(position, rotation, scale mgl32.Vec3) mgl32.Mat4 {
	return mgl32.Translate3D(position.X(), position.Y(), position.Z()).
		Mul4(mgl32.HomogRotate3DX(mgl32.DegToRad(rotation.X()))).
		Mul4(mgl32.HomogRotate3DY(mgl32.DegToRad(rotation.Y()))).
		Mul4(mgl32.HomogRotate3DZ(mgl32.DegToRad(rotation.Z()))).
		Mul4(mgl32.Scale3D(scale.X(), scale.Y(), scale.Z()))
}

type Rect struct {
	X, Y, Width, Height int
}
