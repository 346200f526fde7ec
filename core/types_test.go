package core

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestTransformMatrix(t *testing.T) {
	tr := NewTransform()
	if !tr.Matrix().ApproxEqual(mgl32.Ident4()) {
		t.Fatalf("expected identity for default transform; got %v", tr.Matrix())
	}

	tr.Position = mgl32.Vec3{1, 2, 3}
	tr.Scale = mgl32.Vec3{2, 2, 2}
	got := tr.Matrix().Mul4x1(mgl32.Vec4{1, 0, 0, 1})
	if exp := (mgl32.Vec4{3, 2, 3, 1}); !got.ApproxEqual(exp) {
		t.Fatalf("expected %v; got %v", exp, got)
	}

	tr = NewTransform()
	tr.Rotation = mgl32.Vec3{0, 90, 0}
	got = tr.Matrix().Mul4x1(mgl32.Vec4{1, 0, 0, 1})
	if exp := (mgl32.Vec4{0, 0, -1, 1}); got.Sub(exp).Len() > 1e-5 {
		t.Fatalf("expected %v after yaw; got %v", exp, got)
	}
}
