// Package engine drives the frame loop: input, layers, rendering and pacing.
package engine

import (
	"fmt"
	"slices"

	"vector-engine/log"
)

var logger = log.New("engine")

// EventKind identifies a window event.
type EventKind uint8

const (
	EventResize EventKind = iota
	EventFocus
	EventClose
)

func (k EventKind) String() string {
	switch k {
	case EventResize:
		return "resize"
	case EventFocus:
		return "focus"
	case EventClose:
		return "close"
	}
	return "unknown"
}

// Event is dispatched to layers by LayerStack.Dispatch.
type Event struct {
	Kind          EventKind
	Width, Height int  // EventResize
	Focused       bool // EventFocus
}

// Layer is one slice of game logic driven by the loop.
type Layer interface {
	Name() string
	OnUpdate(dt float64)
	OnRender(dt float64)
	// OnEvent returns true to stop the event reaching layers beneath.
	OnEvent(ev Event) bool
}

// BaseLayer implements Layer with no-ops so layers only override what they need.
type BaseLayer struct {
	LayerName string
}

func (b BaseLayer) Name() string     { return b.LayerName }
func (BaseLayer) OnUpdate(float64)   {}
func (BaseLayer) OnRender(float64)   {}
func (BaseLayer) OnEvent(Event) bool { return false }

// LayerStack holds normal layers and overlay layers drawn above them.
// Update and render visit the normal layers from last to first, then the
// overlays the same way. Events go to overlays first, in insertion order.
// A panicking layer is logged and the remaining layers still run.
type LayerStack struct {
	normal  []Layer
	overlay []Layer
}

func NewLayerStack() *LayerStack { return &LayerStack{} }

// Push adds a normal layer at the back, or at the front when prioritize is set.
func (s *LayerStack) Push(l Layer, prioritize bool) {
	s.normal = insert(s.normal, l, prioritize)
}

// PushOverlay adds an overlay layer at the back, or at the front when prioritize is set.
func (s *LayerStack) PushOverlay(l Layer, prioritize bool) {
	s.overlay = insert(s.overlay, l, prioritize)
}

// Remove drops l from the normal layers and reports whether it was found.
func (s *LayerStack) Remove(l Layer) bool {
	var ok bool
	s.normal, ok = remove(s.normal, l)
	return ok
}

// RemoveOverlay drops l from the overlay layers and reports whether it was found.
func (s *LayerStack) RemoveOverlay(l Layer) bool {
	var ok bool
	s.overlay, ok = remove(s.overlay, l)
	return ok
}

// Len is the number of layers of both kinds.
func (s *LayerStack) Len() int { return len(s.normal) + len(s.overlay) }

func (s *LayerStack) Update(dt float64) {
	s.visit("update", func(l Layer) { l.OnUpdate(dt) })
}

func (s *LayerStack) Render(dt float64) {
	s.visit("render", func(l Layer) { l.OnRender(dt) })
}

// Dispatch delivers ev until a layer eats it and reports whether one did.
func (s *LayerStack) Dispatch(ev Event) bool {
	for _, group := range [][]Layer{s.overlay, s.normal} {
		for _, l := range group {
			var eaten bool
			if err := guard(func() { eaten = l.OnEvent(ev) }); err != nil {
				logger.Errorf("layer %q %s event: %v", l.Name(), ev.Kind, err)
				continue
			}
			if eaten {
				return true
			}
		}
	}
	return false
}

func (s *LayerStack) visit(stage string, fn func(Layer)) {
	for _, group := range [][]Layer{s.normal, s.overlay} {
		for i := len(group) - 1; i >= 0; i-- {
			l := group[i]
			if err := guard(func() { fn(l) }); err != nil {
				logger.Errorf("layer %q %s: %v", l.Name(), stage, err)
			}
		}
	}
}

func guard(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	fn()
	return nil
}

func insert(layers []Layer, l Layer, front bool) []Layer {
	if front {
		return slices.Insert(layers, 0, l)
	}
	return append(layers, l)
}

func remove(layers []Layer, l Layer) ([]Layer, bool) {
	i := slices.Index(layers, l)
	if i < 0 {
		return layers, false
	}
	return slices.Delete(layers, i, i+1), true
}
