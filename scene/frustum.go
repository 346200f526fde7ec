package scene

import "github.com/go-gl/mathgl/mgl32"

// Plane is the half-space Normal·p + D >= 0.
type Plane struct {
	Normal mgl32.Vec3
	D      float32
}

// DistanceTo returns the signed distance from pt to the plane, positive inside.
func (p Plane) DistanceTo(pt mgl32.Vec3) float32 {
	return p.Normal.Dot(pt) + p.D
}

// Frustum holds the six clip planes of a view volume: left, right, bottom,
// top, near and far.
type Frustum struct {
	Planes [6]Plane
}

// FrustumFromVP extracts normalized planes from a projection*view matrix
// (Gribb/Hartmann).
func FrustumFromVP(vp mgl32.Mat4) Frustum {
	r0, r1, r2, r3 := vp.Row(0), vp.Row(1), vp.Row(2), vp.Row(3)
	return Frustum{Planes: [6]Plane{
		normalizePlane(r3.Add(r0)),
		normalizePlane(r3.Sub(r0)),
		normalizePlane(r3.Add(r1)),
		normalizePlane(r3.Sub(r1)),
		normalizePlane(r3.Add(r2)),
		normalizePlane(r3.Sub(r2)),
	}}
}

func normalizePlane(v mgl32.Vec4) Plane {
	n := v.Vec3()
	l := n.Len()
	if l == 0 {
		return Plane{}
	}
	return Plane{Normal: n.Mul(1 / l), D: v.W() / l}
}

// Frustum returns the camera's view volume for a window size.
func (c *Camera) Frustum(windowW, windowH int) Frustum {
	return FrustumFromVP(c.ProjectionMatrix(windowW, windowH).Mul4(c.ViewMatrix()))
}

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min, Max mgl32.Vec3
}

// BoundsOf returns the box enclosing positions, or the zero box when empty.
func BoundsOf(positions []mgl32.Vec3) AABB {
	if len(positions) == 0 {
		return AABB{}
	}
	box := AABB{Min: positions[0], Max: positions[0]}
	for _, p := range positions[1:] {
		box = box.extend(p)
	}
	return box
}

func (box AABB) extend(p mgl32.Vec3) AABB {
	for i := 0; i < 3; i++ {
		box.Min[i] = min(box.Min[i], p[i])
		box.Max[i] = max(box.Max[i], p[i])
	}
	return box
}

// Transform returns the world-space box enclosing the eight transformed corners.
func (box AABB) Transform(m mgl32.Mat4) AABB {
	mn, mx := box.Min, box.Max
	out := AABB{Min: mgl32.TransformCoordinate(mn, m)}
	out.Max = out.Min
	for i := 1; i < 8; i++ {
		corner := mn
		if i&1 != 0 {
			corner[0] = mx[0]
		}
		if i&2 != 0 {
			corner[1] = mx[1]
		}
		if i&4 != 0 {
			corner[2] = mx[2]
		}
		out = out.extend(mgl32.TransformCoordinate(corner, m))
	}
	return out
}

// IntersectsFrustum reports false only when the box is entirely outside one
// of the planes, using the corner furthest along each plane normal.
func (box AABB) IntersectsFrustum(f *Frustum) bool {
	for _, p := range f.Planes {
		pv := box.Max
		for i := 0; i < 3; i++ {
			if p.Normal[i] < 0 {
				pv[i] = box.Min[i]
			}
		}
		if p.DistanceTo(pv) < 0 {
			return false
		}
	}
	return true
}
