package engine

import (
	"context"
	"fmt"

	"vector-engine/core"
)

// Window is the part of the platform window the loop drives.
type Window interface {
	core.InputSource
	FramebufferSize() (width, height int)
	ShouldClose() bool
	PollEvents()
	SwapBuffers()
	// Time is seconds since the window was created.
	Time() float64
}

// Renderer renders everything submitted during a frame.
type Renderer interface {
	SetTimeData(seconds float64)
	RenderAll() error
}

// Loop runs frames until the window closes or the context is cancelled.
type Loop struct {
	Layers *LayerStack
	Input  *core.Input

	window   Window
	renderer Renderer
	pacer    *Pacer

	lastTime      float64
	started       bool
	width, height int
	focused       bool
	frames        uint64
}

// NewLoop builds a loop over window. input is updated once per frame and
// may be nil.
func NewLoop(window Window, renderer Renderer, input *core.Input, pacer *Pacer) *Loop {
	if pacer == nil {
		pacer = NewPacer(0)
	}
	return &Loop{
		Layers:   NewLayerStack(),
		Input:    input,
		window:   window,
		renderer: renderer,
		pacer:    pacer,
	}
}

// Frames is the number of completed frames.
func (l *Loop) Frames() uint64 { return l.frames }

// Run steps frames until the window asks to close or ctx is done. A render
// error stops the loop and is returned.
func (l *Loop) Run(ctx context.Context) error {
	logger.Noticef("frame loop started (interval %v)", l.pacer.Interval)
	for !l.window.ShouldClose() {
		select {
		case <-ctx.Done():
			logger.Notice("frame loop cancelled")
			return ctx.Err()
		default:
		}

		start := l.pacer.clock()
		now := l.window.Time()
		dt := 0.0
		if l.started {
			dt = now - l.lastTime
		}
		l.lastTime, l.started = now, true

		if err := l.Step(dt); err != nil {
			return err
		}
		l.pacer.Wait(start)
	}
	l.Layers.Dispatch(Event{Kind: EventClose})
	logger.Noticef("frame loop finished after %d frames", l.frames)
	return nil
}

// Step runs one frame of dt seconds: events, input, layer update and render,
// then RenderAll and the buffer swap.
func (l *Loop) Step(dt float64) error {
	l.window.PollEvents()
	l.dispatchWindowEvents()
	if l.Input != nil {
		l.Input.Update()
	}

	l.Layers.Update(dt)
	l.Layers.Render(dt)

	l.renderer.SetTimeData(l.window.Time())
	if err := l.renderer.RenderAll(); err != nil {
		return fmt.Errorf("frame %d: %w", l.frames, err)
	}
	l.window.SwapBuffers()
	l.frames++
	return nil
}

func (l *Loop) dispatchWindowEvents() {
	w, h := l.window.FramebufferSize()
	if w != l.width || h != l.height {
		l.width, l.height = w, h
		logger.Debugf("framebuffer resized to %dx%d", w, h)
		l.Layers.Dispatch(Event{Kind: EventResize, Width: w, Height: h})
	}
	if f := l.window.Focused(); f != l.focused {
		l.focused = f
		l.Layers.Dispatch(Event{Kind: EventFocus, Focused: f})
	}
}

