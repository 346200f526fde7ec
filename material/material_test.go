package material

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"vector-engine/core"
	"vector-engine/gpu"
	"vector-engine/gpu/gputest"
	"vector-engine/resource"
	"vector-engine/shader"
)

const testVert = `
uniform mat4 X;
uniform mat4 viewMatrix;
uniform float timeSinceStart;
`

const testFrag = `
uniform vec3 lightPositions[12];
uniform vec3 lightColors[12];
uniform float lightDistances[12];
uniform float lightIntensities[12];
`

func newTestMaterial(t *testing.T, caps Capabilities) (*Material, *gputest.Recorder) {
	t.Helper()
	rec := gputest.NewRecorder()
	reg := resource.NewRegistry(gpu.NewContext(rec))
	p, err := shader.Compile(reg, "test", testVert, testFrag, shader.Hooks{})
	if err != nil {
		t.Fatal(err)
	}
	m := New("test", p, caps)
	m.Use()
	return m, rec
}

func TestUniformLocationIsCached(t *testing.T) {
	m, rec := newTestMaterial(t, DefaultCapabilities)

	if err := m.SetMatrix("X", mgl32.Ident4()); err != nil {
		t.Fatal(err)
	}
	if err := m.SetMatrix("X", mgl32.Translate3D(1, 2, 3)); err != nil {
		t.Fatal(err)
	}
	if got := rec.Lookups["X"]; got != 1 {
		t.Fatalf("expected exactly one location lookup; got %d", got)
	}
	v, _ := rec.Uniform(m.Shader().ID(), "X")
	if v != mgl32.Translate3D(1, 2, 3) {
		t.Fatalf("expected last matrix written; got %v", v)
	}
}

func TestMissingUniformIsAnError(t *testing.T) {
	m, rec := newTestMaterial(t, DefaultCapabilities)

	err := m.SetScalar("doesNotExist", 1)
	if !errors.Is(err, ErrInvalidUniform) {
		t.Fatalf("expected ErrInvalidUniform; got %v", err)
	}
	var uerr *UniformError
	if !errors.As(err, &uerr) || uerr.Uniform != "doesNotExist" || uerr.Material != "test" {
		t.Fatalf("expected UniformError naming the uniform; got %#v", err)
	}

	// Failures are not cached.
	_ = m.SetScalar("doesNotExist", 1)
	if got := rec.Lookups["doesNotExist"]; got != 2 {
		t.Fatalf("expected a new lookup after a miss; got %d", got)
	}
}

func TestSetLightsPacksAndTruncates(t *testing.T) {
	m, rec := newTestMaterial(t, DefaultCapabilities)

	lights := make([]core.Light, 15)
	for i := range lights {
		lights[i] = core.Light{
			Position:  mgl32.Vec3{float32(i), 0, 0},
			Color:     mgl32.Vec3{1, 1, 1},
			Distance:  10,
			Intensity: float32(i + 1),
		}
	}
	if err := m.SetLights(lights); err != nil {
		t.Fatal(err)
	}

	v, _ := rec.Uniform(m.Shader().ID(), UniformLightIntensity)
	intensities := v.([]float32)
	if len(intensities) != MaxLights {
		t.Fatalf("expected %d intensities; got %d", MaxLights, len(intensities))
	}
	if intensities[MaxLights-1] != MaxLights {
		t.Fatalf("expected the twelfth light packed last; got %v", intensities[MaxLights-1])
	}

	if err := m.SetLights(lights[:2]); err != nil {
		t.Fatal(err)
	}
	v, _ = rec.Uniform(m.Shader().ID(), UniformLightPositions)
	positions := v.([]mgl32.Vec3)
	if positions[1] != (mgl32.Vec3{1, 0, 0}) || positions[2] != (mgl32.Vec3{}) {
		t.Fatalf("expected unused slots zeroed; got %v", positions)
	}
	if got := rec.Lookups[UniformLightPositions]; got != 1 {
		t.Fatalf("expected light locations cached; got %d lookups", got)
	}
}

func TestTimeAndView(t *testing.T) {
	m, rec := newTestMaterial(t, DefaultCapabilities)

	if err := m.SetTimeData(2.5); err != nil {
		t.Fatal(err)
	}
	if err := m.SetViewMatrix(mgl32.Ident4()); err != nil {
		t.Fatal(err)
	}
	if v, _ := rec.Uniform(m.Shader().ID(), UniformTime); v != float32(2.5) {
		t.Fatalf("expected time 2.5; got %v", v)
	}
	if v, _ := rec.Uniform(m.Shader().ID(), UniformView); v != mgl32.Ident4() {
		t.Fatalf("expected identity view; got %v", v)
	}
}

func TestCapabilities(t *testing.T) {
	type spec struct {
		caps Capabilities
		str  string
	}
	specs := []spec{
		{0, "none"},
		{DefaultCapabilities, "lights|view|time"},
		{UsesViewMatrix | Instanced, "view|instanced"},
	}
	for index, s := range specs {
		if got := s.caps.String(); got != s.str {
			t.Fatalf("[spec %d] expected %q; got %q", index, s.str, got)
		}
	}
	if !DefaultCapabilities.Has(UsesTime) || DefaultCapabilities.Has(Instanced) {
		t.Fatal("unexpected default capabilities")
	}
}
