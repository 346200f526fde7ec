// Package particles simulates fixed-capacity particle systems and submits
// them as a single instanced draw.
package particles

import (
	"errors"

	"github.com/go-gl/mathgl/mgl32"

	"vector-engine/gpu"
	"vector-engine/material"
	"vector-engine/resource"
)

var (
	ErrInvalidCapacity = errors.New("particles: max particles must be positive")
	ErrNilPolicy       = errors.New("particles: spawn and create functions must not be nil")
)

// SpawnFunc returns how many particles to create this tick given the live
// count and the seconds the system has been running.
type SpawnFunc func(alive int, systemLifetime float32) int

// CreateFunc returns the initial state of one new particle.
type CreateFunc func() (position, velocity mgl32.Vec3, lifetime float32)

// ScaleFunc maps remaining lifetime to a uniform scale.
type ScaleFunc func(remaining float32) float32

// VelocityFunc returns the acceleration of a particle from its remaining
// lifetime and position.
type VelocityFunc func(remaining float32, position mgl32.Vec3) mgl32.Vec3

// Submitter receives the instanced batch produced by Render.
type Submitter interface {
	AddToRenderQueueInstancedTextured(m *material.Material, mesh *resource.Mesh, transforms []mgl32.Mat4, texture gpu.Texture)
}

// System stores particles in parallel fixed-length arrays indexed by slot.
// New particles claim slots in circular order, replacing the oldest when
// the system is full.
type System struct {
	spawn  SpawnFunc
	create CreateFunc

	scale            float32
	scaleOverLife    ScaleFunc
	velocityDelta    mgl32.Vec3
	velocityOverLife VelocityFunc

	positions  []mgl32.Vec3
	velocities []mgl32.Vec3
	remaining  []float32
	enabled    []bool
	alive      int
	last       int
	lifetime   float32

	transforms []mgl32.Mat4
}

// New returns an empty system of maxParticles slots.
func New(maxParticles int, spawn SpawnFunc, create CreateFunc) (*System, error) {
	if maxParticles <= 0 {
		return nil, ErrInvalidCapacity
	}
	if spawn == nil || create == nil {
		return nil, ErrNilPolicy
	}
	return &System{
		spawn:      spawn,
		create:     create,
		scale:      1,
		positions:  make([]mgl32.Vec3, maxParticles),
		velocities: make([]mgl32.Vec3, maxParticles),
		remaining:  make([]float32, maxParticles),
		enabled:    make([]bool, maxParticles),
		last:       -1,
		transforms: make([]mgl32.Mat4, 0, maxParticles),
	}, nil
}

// SetScale uses a constant scale for every particle.
func (s *System) SetScale(scale float32) {
	s.scale = scale
	s.scaleOverLife = nil
}

// SetScaleOverLifetime derives each particle's scale from its remaining lifetime.
func (s *System) SetScaleOverLifetime(f ScaleFunc) {
	s.scaleOverLife = f
}

// SetVelocityOverLifetime integrates f as an acceleration every tick.
func (s *System) SetVelocityOverLifetime(f VelocityFunc) {
	s.velocityOverLife = f
}

// SetVelocityChange moves every particle by delta each tick, independent of
// the tick duration.
func (s *System) SetVelocityChange(delta mgl32.Vec3) {
	s.velocityDelta = delta
	s.velocityOverLife = nil
}

func (s *System) Alive() int        { return s.alive }
func (s *System) Capacity() int     { return len(s.enabled) }
func (s *System) Lifetime() float32 { return s.lifetime }

// Update advances the simulation by dt seconds and spawns new particles.
func (s *System) Update(dt float32) {
	for i := range s.enabled {
		if !s.enabled[i] {
			continue
		}
		s.remaining[i] -= dt
		if s.remaining[i] <= 0 {
			s.enabled[i] = false
			s.alive--
		}

		if s.velocityOverLife != nil {
			s.velocities[i] = s.velocities[i].Add(s.velocityOverLife(s.remaining[i], s.positions[i]).Mul(dt))
			s.positions[i] = s.positions[i].Add(s.velocities[i].Mul(dt))
		} else {
			s.positions[i] = s.positions[i].Add(s.velocityDelta)
		}
	}

	n := s.spawn(s.alive, s.lifetime)
	for j := 0; j < n; j++ {
		pos, vel, life := s.create()
		s.last++
		if s.last >= len(s.enabled) {
			s.last = 0
		}
		if s.enabled[s.last] {
			s.alive--
		}
		s.positions[s.last] = pos
		s.velocities[s.last] = vel
		s.remaining[s.last] = life
		s.enabled[s.last] = true
		s.alive++
	}

	s.lifetime += dt
}

// Transforms returns base * translate(position) * scale for every live
// particle in slot order. The slice is reused by the next call.
func (s *System) Transforms(base mgl32.Mat4) []mgl32.Mat4 {
	s.transforms = s.transforms[:0]
	size := s.scale
	for i := range s.enabled {
		if !s.enabled[i] {
			continue
		}
		if s.scaleOverLife != nil {
			size = s.scaleOverLife(s.remaining[i])
		}
		p := s.positions[i]
		s.transforms = append(s.transforms,
			base.Mul4(mgl32.Translate3D(p[0], p[1], p[2])).Mul4(mgl32.Scale3D(size, size, size)))
	}
	return s.transforms
}

// Render submits every live particle as one instanced batch drawn with texture.
func (s *System) Render(sub Submitter, m *material.Material, base mgl32.Mat4, mesh *resource.Mesh, texture gpu.Texture) {
	transforms := s.Transforms(base)
	if len(transforms) == 0 {
		return
	}
	sub.AddToRenderQueueInstancedTextured(m, mesh, transforms, texture)
}
