package platform

import (
	"testing"

	"github.com/go-gl/glfw/v3.3/glfw"

	"vector-engine/core"
)

var _ core.InputSource = (*Window)(nil)

func TestKeyCodesMatchGLFW(t *testing.T) {
	type spec struct {
		name string
		core int
		glfw int
	}
	specs := []spec{
		{"space", core.KeySpace, int(glfw.KeySpace)},
		{"1", core.Key1, int(glfw.Key1)},
		{"2", core.Key2, int(glfw.Key2)},
		{"3", core.Key3, int(glfw.Key3)},
		{"a", core.KeyA, int(glfw.KeyA)},
		{"d", core.KeyD, int(glfw.KeyD)},
		{"e", core.KeyE, int(glfw.KeyE)},
		{"p", core.KeyP, int(glfw.KeyP)},
		{"q", core.KeyQ, int(glfw.KeyQ)},
		{"s", core.KeyS, int(glfw.KeyS)},
		{"w", core.KeyW, int(glfw.KeyW)},
		{"escape", core.KeyEscape, int(glfw.KeyEscape)},
		{"enter", core.KeyEnter, int(glfw.KeyEnter)},
		{"tab", core.KeyTab, int(glfw.KeyTab)},
		{"right", core.KeyRight, int(glfw.KeyRight)},
		{"left", core.KeyLeft, int(glfw.KeyLeft)},
		{"down", core.KeyDown, int(glfw.KeyDown)},
		{"up", core.KeyUp, int(glfw.KeyUp)},
		{"f1", core.KeyF1, int(glfw.KeyF1)},
		{"left shift", core.KeyLeftShift, int(glfw.KeyLeftShift)},
		{"last", core.KeyLast, int(glfw.KeyLast)},
		{"mouse left", core.MouseLeft, int(glfw.MouseButtonLeft)},
		{"mouse right", core.MouseRight, int(glfw.MouseButtonRight)},
		{"mouse middle", core.MouseMiddle, int(glfw.MouseButtonMiddle)},
	}
	for specIndex, s := range specs {
		if s.core != s.glfw {
			t.Errorf("[spec %d: %s] expected code %d; got %d", specIndex, s.name, s.glfw, s.core)
		}
	}
}
