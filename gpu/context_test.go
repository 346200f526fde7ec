package gpu_test

import (
	"errors"
	"testing"

	"vector-engine/gpu"
	"vector-engine/gpu/gputest"
)

func TestContextSkipsRedundantBinds(t *testing.T) {
	rec := gputest.NewRecorder()
	ctx := gpu.NewContext(rec)

	ctx.UseProgram(3)
	ctx.UseProgram(3)
	ctx.BindFramebuffer(2)
	ctx.BindFramebuffer(2)
	ctx.BindVertexArray(7)
	ctx.BindVertexArray(7)
	ctx.BindTexture(0, 4)
	ctx.BindTexture(0, 4)
	ctx.BindTexture(1, 4)

	for name, want := range map[string]int{
		"UseProgram":      1,
		"BindFramebuffer": 1,
		"BindVertexArray": 1,
		"BindTexture":     2,
	} {
		if got := rec.Count(name); got != want {
			t.Errorf("%s: expected %d calls; got %d", name, want, got)
		}
	}
	if ctx.CurrentProgram() != 3 || ctx.CurrentFramebuffer() != 2 || ctx.CurrentVertexArray() != 7 {
		t.Errorf("unexpected tracked state: program %d framebuffer %d vao %d",
			ctx.CurrentProgram(), ctx.CurrentFramebuffer(), ctx.CurrentVertexArray())
	}
}

func TestContextDeleteForgetsBinding(t *testing.T) {
	rec := gputest.NewRecorder()
	ctx := gpu.NewContext(rec)

	ctx.UseProgram(5)
	ctx.DeleteProgram(5)
	if ctx.CurrentProgram() != 0 {
		t.Fatalf("expected no bound program after delete; got %d", ctx.CurrentProgram())
	}
	ctx.BindFramebuffer(9)
	ctx.DeleteFramebuffer(9)
	if ctx.CurrentFramebuffer() != gpu.DefaultFramebuffer {
		t.Fatalf("expected default framebuffer after delete; got %d", ctx.CurrentFramebuffer())
	}
	ctx.BindTexture(2, 8)
	ctx.DeleteTexture(8)
	ctx.BindTexture(2, 8)
	if got := rec.Count("BindTexture"); got != 2 {
		t.Fatalf("expected rebind after texture delete; got %d binds", got)
	}
}

func TestAssertProgram(t *testing.T) {
	ctx := gpu.NewContext(gputest.NewRecorder())
	ctx.UseProgram(1)

	// Without debug mode nothing is checked.
	ctx.AssertProgram(2)

	ctx.Debug = true
	ctx.AssertProgram(1)

	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, gpu.ErrProgramNotBound) {
			t.Fatalf("expected ErrProgramNotBound panic; got %v", r)
		}
	}()
	ctx.AssertProgram(2)
}

func TestFramebufferStatusString(t *testing.T) {
	if got := gpu.FramebufferComplete.String(); got != "complete" {
		t.Errorf("expected complete; got %q", got)
	}
	if got := gpu.FramebufferStatus(99).String(); got != "unknown" {
		t.Errorf("expected unknown; got %q", got)
	}
}
