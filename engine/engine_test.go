package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"vector-engine/core"
)

type recordingLayer struct {
	BaseLayer
	log   *[]string
	eat   bool
	panic bool
}

func (l *recordingLayer) OnUpdate(float64) {
	*l.log = append(*l.log, "update:"+l.LayerName)
	if l.panic {
		panic("boom")
	}
}

func (l *recordingLayer) OnRender(float64) {
	*l.log = append(*l.log, "render:"+l.LayerName)
}

func (l *recordingLayer) OnEvent(Event) bool {
	*l.log = append(*l.log, "event:"+l.LayerName)
	if l.panic {
		panic("boom")
	}
	return l.eat
}

func newLayer(name string, log *[]string) *recordingLayer {
	return &recordingLayer{BaseLayer: BaseLayer{LayerName: name}, log: log}
}

func expectLog(t *testing.T, got, exp []string) {
	t.Helper()
	if len(got) != len(exp) {
		t.Fatalf("expected %v; got %v", exp, got)
	}
	for i := range exp {
		if got[i] != exp[i] {
			t.Fatalf("expected %v; got %v", exp, got)
		}
	}
}

func TestLayerStackOrder(t *testing.T) {
	var log []string
	s := NewLayerStack()
	s.Push(newLayer("a", &log), false)
	s.Push(newLayer("b", &log), false)
	s.Push(newLayer("first", &log), true)
	s.PushOverlay(newLayer("hud", &log), false)

	s.Update(0.016)
	expectLog(t, log, []string{"update:b", "update:a", "update:first", "update:hud"})

	log = log[:0]
	s.Dispatch(Event{Kind: EventResize})
	expectLog(t, log, []string{"event:hud", "event:first", "event:a", "event:b"})
}

func TestLayerStackEventEaten(t *testing.T) {
	var log []string
	s := NewLayerStack()
	s.Push(newLayer("world", &log), false)
	hud := newLayer("hud", &log)
	hud.eat = true
	s.PushOverlay(hud, false)

	if !s.Dispatch(Event{Kind: EventFocus}) {
		t.Fatal("expected event to be eaten")
	}
	expectLog(t, log, []string{"event:hud"})
}

func TestLayerStackRecoversPanics(t *testing.T) {
	var log []string
	s := NewLayerStack()
	s.Push(newLayer("a", &log), false)
	bad := newLayer("bad", &log)
	bad.panic = true
	s.Push(bad, false)
	s.Push(newLayer("b", &log), false)

	s.Update(0)
	s.Dispatch(Event{})
	expectLog(t, log, []string{"update:b", "update:bad", "update:a", "event:a", "event:bad", "event:b"})
}

func TestLayerStackRemove(t *testing.T) {
	var log []string
	s := NewLayerStack()
	a, hud := newLayer("a", &log), newLayer("hud", &log)
	s.Push(a, false)
	s.PushOverlay(hud, false)

	if !s.Remove(a) || s.Remove(a) {
		t.Fatal("expected layer to be removed exactly once")
	}
	if s.Remove(hud) {
		t.Fatal("expected overlay not to be found among normal layers")
	}
	if !s.RemoveOverlay(hud) || s.Len() != 0 {
		t.Fatal("expected empty stack")
	}
}

func TestPacerSleepsRemainder(t *testing.T) {
	start := time.Unix(100, 0)
	var slept []time.Duration
	p := NewPacer(16 * time.Millisecond)
	p.sleep = func(d time.Duration) { slept = append(slept, d) }

	type spec struct {
		elapsed time.Duration
		exp     time.Duration
	}
	specs := []spec{
		{4 * time.Millisecond, 12 * time.Millisecond},
		{16 * time.Millisecond, 0},
		{30 * time.Millisecond, 0},
	}
	for i, s := range specs {
		p.now = func() time.Time { return start.Add(s.elapsed) }
		if got := p.Wait(start); got != s.exp {
			t.Errorf("[spec %d] expected to sleep %v; got %v", i, s.exp, got)
		}
	}
	if len(slept) != 1 {
		t.Errorf("expected a single sleep; got %v", slept)
	}

	if NewPacer(0).Wait(time.Now()) != 0 {
		t.Error("expected zero interval not to sleep")
	}
}

type fakeWindow struct {
	frames, closeAfter int
	w, h               int
	focused            bool
	polls, swaps       int
	keys               map[int]bool
}

func (w *fakeWindow) Focused() bool                    { return w.focused }
func (w *fakeWindow) IsKeyPressed(key int) bool        { return w.keys[key] }
func (w *fakeWindow) IsMouseButtonPressed(int) bool    { return false }
func (w *fakeWindow) GetCursorPos() (float64, float64) { return 0, 0 }
func (w *fakeWindow) FramebufferSize() (int, int)      { return w.w, w.h }
func (w *fakeWindow) ShouldClose() bool                { return w.frames >= w.closeAfter }
func (w *fakeWindow) PollEvents()                      { w.polls++ }
func (w *fakeWindow) Time() float64                    { return float64(w.frames) * 0.5 }

func (w *fakeWindow) SwapBuffers() {
	w.swaps++
	w.frames++
}

type fakeRenderer struct {
	renders int
	times   []float64
	err     error
}

func (r *fakeRenderer) SetTimeData(t float64) { r.times = append(r.times, t) }
func (r *fakeRenderer) RenderAll() error {
	r.renders++
	return r.err
}

type dtLayer struct {
	BaseLayer
	dts    []float64
	events []Event
}

func (l *dtLayer) OnUpdate(dt float64) { l.dts = append(l.dts, dt) }
func (l *dtLayer) OnEvent(ev Event) bool {
	l.events = append(l.events, ev)
	return false
}

func TestLoopRunsUntilClose(t *testing.T) {
	win := &fakeWindow{closeAfter: 3, w: 640, h: 480, focused: true, keys: map[int]bool{core.KeyW: true}}
	ren := &fakeRenderer{}
	input := core.NewInput(win, core.KeyW)
	loop := NewLoop(win, ren, input, nil)
	layer := &dtLayer{BaseLayer: BaseLayer{LayerName: "game"}}
	loop.Layers.Push(layer, false)

	if err := loop.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if loop.Frames() != 3 || ren.renders != 3 || win.swaps != 3 || win.polls != 3 {
		t.Fatalf("expected 3 full frames; got frames %d renders %d swaps %d polls %d",
			loop.Frames(), ren.renders, win.swaps, win.polls)
	}
	expDT := []float64{0, 0.5, 0.5}
	for i, dt := range layer.dts {
		if dt != expDT[i] {
			t.Errorf("frame %d: expected dt %v; got %v", i, expDT[i], dt)
		}
	}
	if !input.KeyDown(core.KeyW) {
		t.Error("expected input to be polled")
	}

	kinds := []EventKind{EventResize, EventFocus, EventClose}
	if len(layer.events) != len(kinds) {
		t.Fatalf("expected events %v; got %v", kinds, layer.events)
	}
	for i, k := range kinds {
		if layer.events[i].Kind != k {
			t.Errorf("event %d: expected %s; got %s", i, k, layer.events[i].Kind)
		}
	}
	if layer.events[0].Width != 640 || layer.events[0].Height != 480 {
		t.Errorf("expected resize to 640x480; got %+v", layer.events[0])
	}
}

func TestLoopStopsOnRenderError(t *testing.T) {
	errRender := errors.New("render failed")
	win := &fakeWindow{closeAfter: 10}
	ren := &fakeRenderer{err: errRender}
	loop := NewLoop(win, ren, nil, nil)

	if err := loop.Run(context.Background()); !errors.Is(err, errRender) {
		t.Fatalf("expected render error; got %v", err)
	}
	if win.swaps != 0 {
		t.Errorf("expected no swap after a failed render; got %d", win.swaps)
	}
}

func TestLoopCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	loop := NewLoop(&fakeWindow{closeAfter: 10}, &fakeRenderer{}, nil, nil)
	if err := loop.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled; got %v", err)
	}
	if loop.Frames() != 0 {
		t.Errorf("expected no frames; got %d", loop.Frames())
	}
}
