// Package material pairs a shader program with capability flags and a
// per-material cache of uniform locations.
package material

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"vector-engine/core"
	"vector-engine/shader"
)

// MaxLights is the number of light slots packed into a draw.
const MaxLights = 12

// Uniform names written by the engine.
const (
	UniformProjection     = "projectionMatrix"
	UniformView           = "viewMatrix"
	UniformTransformation = "transformationMatrix"
	UniformTime           = "timeSinceStart"
	UniformLightPositions = "lightPositions"
	UniformLightColors    = "lightColors"
	UniformLightDistances = "lightDistances"
	UniformLightIntensity = "lightIntensities"
)

// Capabilities selects which per-frame state the renderer pushes into a material.
type Capabilities uint8

const (
	UsesLights Capabilities = 1 << iota
	UsesViewMatrix
	UsesTime
	// Instanced materials read per-instance transforms from vertex attributes.
	Instanced
)

// DefaultCapabilities matches a lit, camera-relative, animated material.
const DefaultCapabilities = UsesLights | UsesViewMatrix | UsesTime

func (c Capabilities) Has(flag Capabilities) bool { return c&flag == flag }

func (c Capabilities) String() string {
	var parts []string
	for _, f := range []struct {
		flag Capabilities
		name string
	}{
		{UsesLights, "lights"},
		{UsesViewMatrix, "view"},
		{UsesTime, "time"},
		{Instanced, "instanced"},
	} {
		if c.Has(f.flag) {
			parts = append(parts, f.name)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// ErrInvalidUniform is wrapped by every error caused by a uniform the shader does not expose.
var ErrInvalidUniform = errors.New("uniform location invalid")

// UniformError names the material and uniform that could not be resolved.
type UniformError struct {
	Material string
	Uniform  string
}

func (e *UniformError) Error() string {
	return fmt.Sprintf("material %q: uniform %q: %v", e.Material, e.Uniform, ErrInvalidUniform)
}

func (e *UniformError) Unwrap() error { return ErrInvalidUniform }

// Material is a shader plus the state the renderer needs to drive it.
// Materials are compared by identity; two materials over one shader are
// distinct render queue keys.
type Material struct {
	Name string

	shader    *shader.Program
	caps      Capabilities
	locations map[string]int32

	lightPositions   [MaxLights]mgl32.Vec3
	lightColors      [MaxLights]mgl32.Vec3
	lightDistances   [MaxLights]float32
	lightIntensities [MaxLights]float32
}

// New returns a material over program. Capabilities cannot change afterwards.
func New(name string, program *shader.Program, caps Capabilities) *Material {
	return &Material{
		Name:      name,
		shader:    program,
		caps:      caps,
		locations: make(map[string]int32),
	}
}

func (m *Material) Shader() *shader.Program     { return m.shader }
func (m *Material) Capabilities() Capabilities { return m.caps }

// Use binds the material's program.
func (m *Material) Use() { m.shader.Use() }

// location resolves name, asking the shader only on a cache miss. Missing
// uniforms are not cached.
func (m *Material) location(name string) (int32, error) {
	if loc, ok := m.locations[name]; ok {
		return loc, nil
	}
	loc := m.shader.UniformLocation(name)
	if loc < 0 {
		return -1, &UniformError{Material: m.Name, Uniform: name}
	}
	m.locations[name] = loc
	return loc, nil
}

// The setters below write to the bound program, which must be the material's shader.

func (m *Material) SetScalar(name string, v float32) error {
	loc, err := m.location(name)
	if err != nil {
		return err
	}
	m.shader.SetFloat(loc, v)
	return nil
}

func (m *Material) SetInt(name string, v int32) error {
	loc, err := m.location(name)
	if err != nil {
		return err
	}
	m.shader.SetInt(loc, v)
	return nil
}

func (m *Material) SetMatrix(name string, v mgl32.Mat4) error {
	loc, err := m.location(name)
	if err != nil {
		return err
	}
	m.shader.SetMat4(loc, v)
	return nil
}

func (m *Material) SetVector(name string, v mgl32.Vec3) error {
	loc, err := m.location(name)
	if err != nil {
		return err
	}
	m.shader.SetVec3(loc, v)
	return nil
}

func (m *Material) SetVector2(name string, v mgl32.Vec2) error {
	loc, err := m.location(name)
	if err != nil {
		return err
	}
	m.shader.SetVec2(loc, v)
	return nil
}

func (m *Material) SetVector4(name string, v mgl32.Vec4) error {
	loc, err := m.location(name)
	if err != nil {
		return err
	}
	m.shader.SetVec4(loc, v)
	return nil
}

// SetLights packs up to MaxLights lights into the light arrays. Unused slots
// are zeroed and lights past MaxLights are dropped.
func (m *Material) SetLights(lights []core.Light) error {
	if len(lights) > MaxLights {
		lights = lights[:MaxLights]
	}
	for i := 0; i < MaxLights; i++ {
		var l core.Light
		if i < len(lights) {
			l = lights[i]
		}
		m.lightPositions[i] = l.Position
		m.lightColors[i] = l.Color
		m.lightDistances[i] = l.Distance
		m.lightIntensities[i] = l.Intensity
	}

	pos, err := m.location(UniformLightPositions)
	if err != nil {
		return err
	}
	col, err := m.location(UniformLightColors)
	if err != nil {
		return err
	}
	dist, err := m.location(UniformLightDistances)
	if err != nil {
		return err
	}
	intensity, err := m.location(UniformLightIntensity)
	if err != nil {
		return err
	}
	m.shader.SetVec3Array(pos, m.lightPositions[:])
	m.shader.SetVec3Array(col, m.lightColors[:])
	m.shader.SetFloatArray(dist, m.lightDistances[:])
	m.shader.SetFloatArray(intensity, m.lightIntensities[:])
	return nil
}

// SetTimeData writes the seconds elapsed since start.
func (m *Material) SetTimeData(seconds float64) error {
	return m.SetScalar(UniformTime, float32(seconds))
}

// SetViewMatrix writes the camera view matrix.
func (m *Material) SetViewMatrix(view mgl32.Mat4) error {
	return m.SetMatrix(UniformView, view)
}
