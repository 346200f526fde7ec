package main

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func near(a, b float32) bool { return math.Abs(float64(a-b)) < 1e-4 }

func TestSamplePalette(t *testing.T) {
	type spec struct {
		t         float32
		intensity float32
	}
	specs := []spec{
		{0, 1.2},
		{0.11, 1.05},
		{0.5, 0.12},
		{0.78, 0.7},
		// Between sunrise and the wrapped noon keyframe.
		{0.89, 0.95},
	}
	for specIndex, s := range specs {
		if got := samplePalette(s.t).sunIntensity; !near(got, s.intensity) {
			t.Errorf("[spec %d] expected intensity %v at t=%v; got %v", specIndex, s.intensity, s.t, got)
		}
	}
}

func TestDayNightUpdateWraps(t *testing.T) {
	dn := &DayNight{Time: 0.9, Speed: 10, Active: true}
	dn.Update(2)
	if !near(dn.Time, 0.1) {
		t.Fatalf("expected time to wrap to 0.1; got %v", dn.Time)
	}

	dn.Active = false
	dn.Update(5)
	if !near(dn.Time, 0.1) {
		t.Fatalf("expected paused cycle to hold; got %v", dn.Time)
	}
}

func TestTimeOfDayStr(t *testing.T) {
	type spec struct {
		t   float32
		exp string
	}
	specs := []spec{
		{0, "12:00 PM"},
		{0.25, "06:00 PM"},
		{0.5, "12:00 AM"},
		{0.75, "06:00 AM"},
	}
	for specIndex, s := range specs {
		dn := &DayNight{Time: s.t}
		if got := dn.TimeOfDayStr(); got != s.exp {
			t.Errorf("[spec %d] expected %q; got %q", specIndex, s.exp, got)
		}
	}
}

func TestLightsFollowSun(t *testing.T) {
	focus := mgl32.Vec3{1, 0, 2}

	noon := (&DayNight{}).Lights(focus)
	if len(noon) != 2 {
		t.Fatalf("expected sun and fill lights; got %d", len(noon))
	}
	if sun := noon[0].Position.Sub(focus); sun.Y() <= 0 {
		t.Errorf("expected the sun above the scene at noon; got offset %v", sun)
	}

	midnight := (&DayNight{Time: 0.5}).Lights(focus)
	if sun := midnight[0].Position.Sub(focus); sun.Y() >= 0 {
		t.Errorf("expected the sun below the scene at midnight; got offset %v", sun)
	}
	if midnight[0].Intensity >= noon[0].Intensity {
		t.Errorf("expected a dimmer sun at midnight; got %v >= %v", midnight[0].Intensity, noon[0].Intensity)
	}
}

func TestDebugOverlay(t *testing.T) {
	var do DebugOverlay
	do.AddLine("%d fps", 60)
	do.AddLine("time %s", "12:00 PM")
	if got := do.GetText(); got != "60 fps\ntime 12:00 PM" {
		t.Fatalf("unexpected overlay text %q", got)
	}
	do.Clear()
	if got := do.GetText(); got != "" {
		t.Fatalf("expected empty overlay after clear; got %q", got)
	}
}
