package main

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"vector-engine/asset"
	"vector-engine/engine"
	"vector-engine/material"
	"vector-engine/renderer"
	"vector-engine/resource"
)

const (
	hudMargin     = 10
	hudFontSize   = 1
	hudLineHeight = 13
	hudRefresh    = 0.25 // seconds between text rebuilds
)

// DebugOverlay collects the lines shown by the HUD.
type DebugOverlay struct {
	lines []string
}

func (do *DebugOverlay) AddLine(format string, args ...interface{}) {
	do.lines = append(do.lines, fmt.Sprintf(format, args...))
}

func (do *DebugOverlay) Clear() {
	do.lines = do.lines[:0]
}

func (do *DebugOverlay) GetText() string {
	return strings.Join(do.lines, "\n")
}

// hudLayer draws frame statistics in the top-left corner of the window.
type hudLayer struct {
	engine.BaseLayer

	reg    *resource.Registry
	eng    *renderer.Engine
	window renderer.WindowSizer
	world  *sceneLayer

	font    *asset.FontData
	mat     *material.Material
	mesh    *resource.Mesh
	overlay DebugOverlay
	text    string

	elapsed float64
	frames  int
	fps     float64
	hidden  bool
}

func (h *hudLayer) OnUpdate(dt float64) {
	h.elapsed += dt
	h.frames++
	if h.elapsed < hudRefresh {
		return
	}
	h.fps = float64(h.frames) / h.elapsed
	h.elapsed, h.frames = 0, 0

	stats := h.eng.LastFrame()
	h.overlay.Clear()
	h.overlay.AddLine("%.0f fps", h.fps)
	h.overlay.AddLine("cameras %d  materials %d", stats.Cameras, stats.Materials)
	h.overlay.AddLine("draws %d  instanced %d", stats.OffscreenDraws, stats.InstancedDraws)
	h.overlay.AddLine("culled %d of %d", h.world.culled, len(h.world.blocks))
	h.overlay.AddLine("time %s", h.world.dayNight.TimeOfDayStr())
	if stats.Aborted {
		h.overlay.AddLine("frame dropped")
	}

	text := h.overlay.GetText()
	if text == h.text && h.mesh != nil {
		return
	}
	mesh, err := asset.RegenerateText(h.reg, text, h.font, h.mesh, hudFontSize, hudLineHeight)
	if err != nil {
		logger.Warningf("hud text: %v", err)
		return
	}
	h.mesh, h.text = mesh, text
}

func (h *hudLayer) OnRender(float64) {
	if h.hidden || h.mesh == nil {
		return
	}
	w, hh := h.window.FramebufferSize()
	// The UI camera is centered on the window and spans it in pixels.
	origin := mgl32.Translate3D(float32(-w/2+hudMargin), float32(hh/2-hudMargin), 0)
	h.eng.AddToUIQueue(h.mat, h.mesh, origin)
}

func (h *hudLayer) OnEvent(ev engine.Event) bool {
	if ev.Kind == engine.EventFocus {
		h.hidden = !ev.Focused
	}
	return false
}

func (h *hudLayer) destroy() {
	if h.mesh != nil {
		h.reg.DeleteMesh(h.mesh)
		h.mesh = nil
	}
}
