package particles

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"vector-engine/gpu"
	"vector-engine/material"
	"vector-engine/resource"
)

type batch struct {
	transforms []mgl32.Mat4
	texture    gpu.Texture
}

type fakeSubmitter struct {
	batches []batch
}

func (f *fakeSubmitter) AddToRenderQueueInstancedTextured(_ *material.Material, _ *resource.Mesh, transforms []mgl32.Mat4, texture gpu.Texture) {
	f.batches = append(f.batches, batch{append([]mgl32.Mat4(nil), transforms...), texture})
}

func spawnN(n int) SpawnFunc {
	return func(int, float32) int { return n }
}

func counter() (CreateFunc, *int) {
	created := 0
	return func() (mgl32.Vec3, mgl32.Vec3, float32) {
		created++
		return mgl32.Vec3{float32(created), 0, 0}, mgl32.Vec3{}, 10
	}, &created
}

func TestNewValidates(t *testing.T) {
	create, _ := counter()
	if _, err := New(0, spawnN(1), create); !errors.Is(err, ErrInvalidCapacity) {
		t.Fatalf("expected ErrInvalidCapacity; got %v", err)
	}
	if _, err := New(-3, spawnN(1), create); !errors.Is(err, ErrInvalidCapacity) {
		t.Fatalf("expected ErrInvalidCapacity; got %v", err)
	}
	if _, err := New(4, nil, create); !errors.Is(err, ErrNilPolicy) {
		t.Fatalf("expected ErrNilPolicy; got %v", err)
	}
	if _, err := New(4, spawnN(1), nil); !errors.Is(err, ErrNilPolicy) {
		t.Fatalf("expected ErrNilPolicy; got %v", err)
	}
}

func TestCapacityIsNeverExceeded(t *testing.T) {
	create, _ := counter()
	s, err := New(4, spawnN(5), create)
	if err != nil {
		t.Fatal(err)
	}
	s.Update(0.1)
	if s.Alive() != 4 {
		t.Fatalf("expected 4 alive; got %d", s.Alive())
	}
	// The fifth particle wrapped around into slot 0.
	if got := s.positions[0].X(); got != 5 {
		t.Fatalf("expected slot 0 overwritten by particle 5; got particle %v", got)
	}
	for j := 0; j < 10; j++ {
		s.Update(0.1)
		if s.Alive() > s.Capacity() {
			t.Fatalf("alive %d exceeds capacity %d", s.Alive(), s.Capacity())
		}
	}
}

func TestLifetimeExpiry(t *testing.T) {
	spawned := false
	s, err := New(8, func(alive int, lifetime float32) int {
		if spawned {
			return 0
		}
		spawned = true
		return 3
	}, func() (mgl32.Vec3, mgl32.Vec3, float32) {
		return mgl32.Vec3{}, mgl32.Vec3{}, 0.15
	})
	if err != nil {
		t.Fatal(err)
	}

	s.Update(0.1)
	if s.Alive() != 3 {
		t.Fatalf("expected 3 alive; got %d", s.Alive())
	}
	s.Update(0.1)
	s.Update(0.1)
	if s.Alive() != 0 {
		t.Fatalf("expected all particles expired; got %d", s.Alive())
	}
	if got := s.Lifetime(); got < 0.299 || got > 0.301 {
		t.Fatalf("expected system lifetime 0.3; got %v", got)
	}
}

func TestSpawnSeesLiveCountAndLifetime(t *testing.T) {
	type call struct {
		alive    int
		lifetime float32
	}
	var calls []call
	create, _ := counter()
	s, _ := New(10, func(alive int, lifetime float32) int {
		calls = append(calls, call{alive, lifetime})
		return 2
	}, create)

	s.Update(0.5)
	s.Update(0.5)
	if len(calls) != 2 || calls[0] != (call{0, 0}) || calls[1] != (call{2, 0.5}) {
		t.Fatalf("unexpected spawn calls %v", calls)
	}
}

func TestVelocityModes(t *testing.T) {
	s, _ := New(1, spawnN(1), func() (mgl32.Vec3, mgl32.Vec3, float32) {
		return mgl32.Vec3{}, mgl32.Vec3{1, 0, 0}, 100
	})
	s.SetVelocityChange(mgl32.Vec3{0, 2, 0})
	s.Update(0.5) // spawn
	s.spawn = spawnN(0)
	s.Update(0.5)
	if got := s.positions[0]; got != (mgl32.Vec3{0, 2, 0}) {
		t.Fatalf("expected constant per-tick delta; got %v", got)
	}

	s.SetVelocityOverLifetime(func(float32, mgl32.Vec3) mgl32.Vec3 { return mgl32.Vec3{0, 0, 2} })
	s.Update(0.5)
	// velocity (1,0,0) + (0,0,2)*0.5 = (1,0,1); position += velocity*0.5
	if got := s.positions[0]; !got.ApproxEqual(mgl32.Vec3{0.5, 2, 0.5}) {
		t.Fatalf("expected integrated motion; got %v", got)
	}
}

func TestRenderSubmitsOneBatch(t *testing.T) {
	create, _ := counter()
	s, _ := New(5, spawnN(3), create)
	sub := &fakeSubmitter{}

	s.Render(sub, nil, mgl32.Ident4(), nil, 7)
	if len(sub.batches) != 0 {
		t.Fatal("expected nothing submitted for an empty system")
	}

	s.Update(0.1)
	s.SetScaleOverLifetime(func(remaining float32) float32 { return 2 })
	s.Render(sub, nil, mgl32.Translate3D(0, 10, 0), nil, 7)
	if len(sub.batches) != 1 {
		t.Fatalf("expected a single batch; got %d", len(sub.batches))
	}
	b := sub.batches[0]
	if len(b.transforms) != 3 || b.texture != 7 {
		t.Fatalf("expected 3 transforms with texture 7; got %d with %d", len(b.transforms), b.texture)
	}
	p := b.transforms[0].Mul4x1(mgl32.Vec4{1, 0, 0, 1})
	if !p.ApproxEqual(mgl32.Vec4{3, 10, 0, 1}) {
		t.Fatalf("expected base * translate * scale; got %v", p)
	}
}
