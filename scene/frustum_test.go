package scene

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestBoundsAndTransform(t *testing.T) {
	box := BoundsOf([]mgl32.Vec3{{1, -1, 0}, {-2, 3, 4}, {0, 0, -1}})
	if box.Min != (mgl32.Vec3{-2, -1, -1}) || box.Max != (mgl32.Vec3{1, 3, 4}) {
		t.Fatalf("unexpected bounds %+v", box)
	}

	unit := AABB{Min: mgl32.Vec3{-1, -1, -1}, Max: mgl32.Vec3{1, 1, 1}}
	moved := unit.Transform(mgl32.Translate3D(5, 0, 0).Mul4(mgl32.Scale3D(2, 1, 1)))
	if moved.Min.Sub(mgl32.Vec3{3, -1, -1}).Len() > 1e-5 || moved.Max.Sub(mgl32.Vec3{7, 1, 1}).Len() > 1e-5 {
		t.Fatalf("unexpected transformed bounds %+v", moved)
	}
}

func TestFrustumCulling(t *testing.T) {
	cam, _, _ := newTestCamera()
	f := cam.Frustum(800, 600)

	type spec struct {
		center  mgl32.Vec3
		visible bool
	}
	specs := []spec{
		{mgl32.Vec3{0, 0, -5}, true},
		{mgl32.Vec3{0, 0, 5}, false},
		{mgl32.Vec3{50, 0, -5}, false},
		// Straddles the left plane.
		{mgl32.Vec3{-3.5, 0, -5}, true},
		{mgl32.Vec3{0, 0, -2000}, false},
	}
	for specIndex, s := range specs {
		box := AABB{Min: s.center.Sub(mgl32.Vec3{1, 1, 1}), Max: s.center.Add(mgl32.Vec3{1, 1, 1})}
		if got := box.IntersectsFrustum(&f); got != s.visible {
			t.Errorf("[spec %d] expected visible=%v for box at %v; got %v", specIndex, s.visible, s.center, got)
		}
	}
}
