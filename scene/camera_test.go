package scene

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"vector-engine/gpu"
	"vector-engine/gpu/gputest"
	"vector-engine/resource"
)

func newTestCamera() (*Camera, *gputest.Recorder, *resource.Registry) {
	rec := gputest.NewRecorder()
	reg := resource.NewRegistry(gpu.NewContext(rec))
	return NewCamera(reg), rec, reg
}

func TestCameraDefaults(t *testing.T) {
	cam, _, reg := newTestCamera()
	if cam.FOV != 60 || cam.NearPlane != 0.01 || cam.FarPlane != 1000 || !cam.Perspective {
		t.Fatalf("unexpected defaults %+v", cam)
	}
	if cam.ViewportSize != (mgl32.Vec2{1, 1}) || cam.ViewportOffset != (mgl32.Vec2{}) {
		t.Fatalf("expected a full-window viewport; got %v at %v", cam.ViewportSize, cam.ViewportOffset)
	}
	exp := resource.Counts{Textures: 1, Renderbuffers: 1, Framebuffers: 1}
	if got := reg.Counts(); got != exp {
		t.Fatalf("expected the target triple allocated; got %+v", got)
	}
}

func TestCameraDestroyReleasesTriple(t *testing.T) {
	cam, rec, reg := newTestCamera()
	cam.Destroy()
	cam.Destroy()
	if got := reg.Counts().Total(); got != 0 {
		t.Fatalf("expected no tracked handles; got %d", got)
	}
	if rec.Count("DeleteFramebuffer") != 1 || rec.Count("DeleteRenderbuffer") != 1 || rec.Count("DeleteTexture") != 1 {
		t.Fatal("expected each handle released once")
	}
	if cam.Target() != nil {
		t.Fatal("expected no target after destroy")
	}
}

func TestPixelSizeAndProjection(t *testing.T) {
	cam, _, _ := newTestCamera()
	cam.ViewportSize = mgl32.Vec2{0.5, 0.25}

	w, h := cam.PixelSize(800, 600)
	if w != 400 || h != 150 {
		t.Fatalf("expected 400x150; got %dx%d", w, h)
	}
	cam.ViewportSize = mgl32.Vec2{0, 0}
	if w, h := cam.PixelSize(800, 600); w != 1 || h != 1 {
		t.Fatalf("expected a 1x1 minimum; got %dx%d", w, h)
	}

	cam.ViewportSize = mgl32.Vec2{0.5, 1}
	exp := mgl32.Perspective(mgl32.DegToRad(60), 400.0/600.0, 0.01, 1000)
	if got := cam.ProjectionMatrix(800, 600); !got.ApproxEqual(exp) {
		t.Fatalf("expected aspect from pixel viewport; got %v", got)
	}

	cam.Perspective = false
	cam.NearPlane, cam.FarPlane = -1, 1
	p := cam.ProjectionMatrix(800, 600).Mul4x1(mgl32.Vec4{200, 300, 0, 1})
	if !p.ApproxEqual(mgl32.Vec4{1, 1, 0, 1}) {
		t.Fatalf("expected the pixel corner to map to clip corner; got %v", p)
	}
}

func TestViewMatrixAndMovement(t *testing.T) {
	cam, _, _ := newTestCamera()
	cam.Position = mgl32.Vec3{0, 0, 5}
	p := cam.ViewMatrix().Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	if !p.ApproxEqual(mgl32.Vec4{0, 0, -5, 1}) {
		t.Fatalf("expected origin 5 units ahead; got %v", p)
	}

	cam.Position = mgl32.Vec3{}
	cam.Rotation = mgl32.Vec3{0, 90, 0}
	cam.MoveDirectionBased(mgl32.Vec3{0, 0, -1})
	if d := cam.Position.Sub(mgl32.Vec3{1, 0, 0}).Len(); d > 1e-5 {
		t.Fatalf("expected forward motion along +X after a 90 degree yaw; got %v", cam.Position)
	}
	// The view agrees with the movement: the point the camera moved towards is ahead.
	cam.Position = mgl32.Vec3{}
	ahead := cam.ViewMatrix().Mul4x1(mgl32.Vec4{1, 0, 0, 1})
	if d := ahead.Sub(mgl32.Vec4{0, 0, -1, 1}).Len(); d > 1e-5 {
		t.Fatalf("expected +X in front of the camera; got %v", ahead)
	}
}

func TestTargetBind(t *testing.T) {
	cam, rec, _ := newTestCamera()
	tgt := cam.Target()

	if err := tgt.Bind(320, 200); err != nil {
		t.Fatal(err)
	}
	if got := rec.TextureStorage[tgt.Texture]; got != (gputest.Storage{Width: 320, Height: 200}) {
		t.Fatalf("unexpected texture storage %+v", got)
	}
	if got := rec.Attachments[tgt.Framebuffer]; got != [2]uint32{uint32(tgt.Texture), uint32(tgt.Depth)} {
		t.Fatalf("unexpected attachments %v", got)
	}

	// Same size: no reallocation.
	if err := tgt.Bind(320, 200); err != nil {
		t.Fatal(err)
	}
	if got := rec.Count("RenderbufferStorage"); got != 1 {
		t.Fatalf("expected storage allocated once; got %d", got)
	}

	rec.Incomplete[tgt.Framebuffer] = true
	if err := tgt.Bind(640, 400); !errors.Is(err, ErrIncompleteFramebuffer) {
		t.Fatalf("expected ErrIncompleteFramebuffer; got %v", err)
	}
}
