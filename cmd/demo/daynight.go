package main

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"vector-engine/core"
)

// dayPalette holds the sky and light values for one key time of day.
type dayPalette struct {
	t            float32 // normalised time 0..1
	sky          core.Color
	sunColor     core.Color
	sunIntensity float32
	fillColor    core.Color
}

// palettes are ordered by t and wrap (0 == 1).
var palettes = []dayPalette{
	{ // noon
		t:            0.00,
		sky:          core.Color{R: 0.58, G: 0.75, B: 0.95, A: 1},
		sunColor:     core.Color{R: 1.00, G: 0.98, B: 0.92, A: 1},
		sunIntensity: 1.20,
		fillColor:    core.Color{R: 0.16, G: 0.18, B: 0.26, A: 1},
	},
	{ // golden hour
		t:            0.22,
		sky:          core.Color{R: 0.90, G: 0.52, B: 0.18, A: 1},
		sunColor:     core.Color{R: 1.00, G: 0.65, B: 0.25, A: 1},
		sunIntensity: 0.90,
		fillColor:    core.Color{R: 0.10, G: 0.12, B: 0.20, A: 1},
	},
	{ // dusk
		t:            0.30,
		sky:          core.Color{R: 0.50, G: 0.22, B: 0.28, A: 1},
		sunColor:     core.Color{R: 0.70, G: 0.40, B: 0.55, A: 1},
		sunIntensity: 0.25,
		fillColor:    core.Color{R: 0.06, G: 0.07, B: 0.14, A: 1},
	},
	{ // midnight, the sun stands in for the moon
		t:            0.50,
		sky:          core.Color{R: 0.04, G: 0.04, B: 0.08, A: 1},
		sunColor:     core.Color{R: 0.40, G: 0.45, B: 0.65, A: 1},
		sunIntensity: 0.12,
		fillColor:    core.Color{R: 0.03, G: 0.04, B: 0.09, A: 1},
	},
	{ // pre-dawn
		t:            0.70,
		sky:          core.Color{R: 0.40, G: 0.18, B: 0.24, A: 1},
		sunColor:     core.Color{R: 0.75, G: 0.42, B: 0.60, A: 1},
		sunIntensity: 0.20,
		fillColor:    core.Color{R: 0.06, G: 0.07, B: 0.14, A: 1},
	},
	{ // sunrise
		t:            0.78,
		sky:          core.Color{R: 0.88, G: 0.45, B: 0.22, A: 1},
		sunColor:     core.Color{R: 1.00, G: 0.60, B: 0.28, A: 1},
		sunIntensity: 0.70,
		fillColor:    core.Color{R: 0.09, G: 0.10, B: 0.17, A: 1},
	},
}

const (
	sunDistance   = 60
	sunReach      = 400
	fillReach     = 25
	fillIntensity = 1
)

// DayNight drives the animated day/night cycle.
type DayNight struct {
	Time   float32 // 0..1: 0=noon, 0.25=sunset, 0.5=midnight, 0.75=sunrise
	Speed  float32 // full-cycle duration in seconds
	Active bool    // auto-advance when true
}

func NewDayNight() *DayNight {
	return &DayNight{Speed: 120, Active: true}
}

func (dn *DayNight) Update(dt float32) {
	if !dn.Active || dn.Speed <= 0 {
		return
	}
	dn.Time += dt / dn.Speed
	for dn.Time >= 1 {
		dn.Time -= 1
	}
}

func lerpColor(a, b core.Color, t float32) core.Color {
	return core.Color{
		R: a.R + (b.R-a.R)*t,
		G: a.G + (b.G-a.G)*t,
		B: a.B + (b.B-a.B)*t,
		A: 1,
	}
}

// samplePalette interpolates between the keyframes around t.
func samplePalette(t float32) dayPalette {
	n := len(palettes)
	a, b := palettes[n-1], palettes[0]
	span := 1 - a.t + b.t
	local := t - a.t
	if local < 0 {
		local += 1
	}
	for i := 0; i < n-1; i++ {
		if t >= palettes[i].t && t < palettes[i+1].t {
			a, b = palettes[i], palettes[i+1]
			span = b.t - a.t
			local = t - a.t
			break
		}
	}
	f := local / span

	return dayPalette{
		t:            t,
		sky:          lerpColor(a.sky, b.sky, f),
		sunColor:     lerpColor(a.sunColor, b.sunColor, f),
		sunIntensity: a.sunIntensity + (b.sunIntensity-a.sunIntensity)*f,
		fillColor:    lerpColor(a.fillColor, b.fillColor, f),
	}
}

// SunDirection points from the scene towards the sun. It sweeps the XY plane
// once per cycle: straight up at noon and straight down at midnight.
func (dn *DayNight) SunDirection() mgl32.Vec3 {
	angle := float64(dn.Time) * 2 * math.Pi
	return mgl32.Vec3{float32(math.Sin(angle)), float32(math.Cos(angle)), 0.35}.Normalize()
}

// Lights returns the sun and a fill light placed above focus.
func (dn *DayNight) Lights(focus mgl32.Vec3) []core.Light {
	p := samplePalette(dn.Time)
	return []core.Light{
		{
			Position:  focus.Add(dn.SunDirection().Mul(sunDistance)),
			Color:     p.sunColor.Vec3(),
			Distance:  sunReach,
			Intensity: p.sunIntensity,
		},
		{
			Position:  focus.Add(mgl32.Vec3{0, 4, 0}),
			Color:     p.fillColor.Vec3(),
			Distance:  fillReach,
			Intensity: fillIntensity,
		},
	}
}

// Sky is the clear color for the current time.
func (dn *DayNight) Sky() core.Color {
	return samplePalette(dn.Time).sky
}

// TimeOfDayStr returns a 12-hour clock label with noon at Time 0.
func (dn *DayNight) TimeOfDayStr() string {
	minutes := int(dn.Time*24*60+12*60) % (24 * 60)
	h, m := minutes/60, minutes%60
	period := "AM"
	if h >= 12 {
		period = "PM"
	}
	displayH := h % 12
	if displayH == 0 {
		displayH = 12
	}
	return fmt.Sprintf("%02d:%02d %s", displayH, m, period)
}
