package reconcile

import (
	"testing"
	"time"
)

func TestApply_NeverRegresses(t *testing.T) {
	r := New()

	for _, step := range []struct {
		raw  float64
		want float64
	}{
		{40, 40},
		{25, 40}, // out-of-order update must not move the bar backwards
		{60, 60},
		{60, 60},
		{59.9, 60},
	} {
		r.Apply(step.raw)
		if got := r.Progress(); got != step.want {
			t.Fatalf("after Apply(%v): Progress() = %v, want %v", step.raw, got, step.want)
		}
	}

	if r.Terminal() {
		t.Fatal("reconciler terminal before any terminal event")
	}
}

func TestApply_ClampsOutOfRange(t *testing.T) {
	r := New()

	tr := r.Apply(-0.5)
	if tr.To != 0 {
		t.Fatalf("Apply(-0.5).To = %v, want 0", tr.To)
	}
	if r.State() != Streaming {
		t.Fatalf("state = %v after negative non-sentinel value, want streaming", r.State())
	}

	tr = r.Apply(250)
	if tr.To != 100 {
		t.Fatalf("Apply(250).To = %v, want 100", tr.To)
	}
	if r.State() != Succeeded {
		t.Fatalf("state = %v after clamped 100, want succeeded", r.State())
	}
}

func TestApply_FailureSentinelIsRaw(t *testing.T) {
	r := New()
	r.Apply(70)

	tr := r.Apply(-1)
	if tr.Terminal != Failed {
		t.Fatalf("Apply(-1).Terminal = %v, want Failed", tr.Terminal)
	}
	if got := r.Progress(); got != 70 {
		t.Fatalf("Progress() = %v after failure, want last good value 70", got)
	}
}

func TestApply_SuccessOnExactHundred(t *testing.T) {
	r := New()
	r.Apply(99.5)
	if r.Terminal() {
		t.Fatal("terminal at 99.5")
	}

	tr := r.Apply(100)
	if tr.Terminal != Succeeded {
		t.Fatalf("Apply(100).Terminal = %v, want Succeeded", tr.Terminal)
	}
}

func TestApply_TerminalIsFinal(t *testing.T) {
	r := New()
	r.Apply(100)

	// Nothing after a terminal event may change state or progress.
	for _, raw := range []float64{-1, 30, 100, 500} {
		tr := r.Apply(raw)
		if tr.Terminal != Succeeded || tr.From != 100 || tr.To != 100 {
			t.Fatalf("Apply(%v) after success = %+v, want inert transition", raw, tr)
		}
	}

	r2 := New()
	r2.Apply(-1)
	if tr := r2.Apply(100); tr.Terminal != Failed {
		t.Fatalf("Apply(100) after failure: Terminal = %v, want Failed", tr.Terminal)
	}
}

func TestFail_OnlyBeforeTerminal(t *testing.T) {
	r := New()
	r.Apply(50)

	if tr := r.Fail(); tr.Terminal != Failed {
		t.Fatalf("Fail().Terminal = %v, want Failed", tr.Terminal)
	}

	r2 := New()
	r2.Apply(100)
	if tr := r2.Fail(); tr.Terminal != Succeeded {
		t.Fatalf("Fail() after success: Terminal = %v, want Succeeded", tr.Terminal)
	}
}

func TestTransition_Advanced(t *testing.T) {
	r := New()

	if tr := r.Apply(40); !tr.Advanced() {
		t.Fatal("0 -> 40 should report Advanced")
	}
	if tr := r.Apply(30); tr.Advanced() {
		t.Fatal("clamped 40 -> 40 should not report Advanced")
	}
	if tr := r.Apply(-1); tr.Advanced() {
		t.Fatal("failure event should not report Advanced")
	}
}

func TestAnimation_Interpolates(t *testing.T) {
	start := time.Now()
	a := NewAnimation(20, 60, start)

	if got := a.ValueAt(start); got != 20 {
		t.Fatalf("ValueAt(start) = %v, want 20", got)
	}
	if got := a.ValueAt(start.Add(AnimationDuration / 2)); got != 40 {
		t.Fatalf("ValueAt(midpoint) = %v, want 40", got)
	}
	if got := a.ValueAt(start.Add(AnimationDuration)); got != 60 {
		t.Fatalf("ValueAt(end) = %v, want 60", got)
	}
	if got := a.ValueAt(start.Add(time.Hour)); got != 60 {
		t.Fatalf("ValueAt(past end) = %v, want clamped 60", got)
	}
}

func TestAnimation_Done(t *testing.T) {
	start := time.Now()
	a := NewAnimation(0, 100, start)

	if a.Done(start.Add(AnimationDuration - time.Millisecond)) {
		t.Fatal("Done before the duration elapsed")
	}
	if !a.Done(start.Add(AnimationDuration)) {
		t.Fatal("not Done after the duration elapsed")
	}
}

func TestAnimation_RetargetStartsFromVisibleValue(t *testing.T) {
	start := time.Now()
	a := NewAnimation(0, 40, start)

	mid := start.Add(AnimationDuration / 2)
	b := a.Retarget(80, mid)

	// The retargeted animation must start where the bar currently sits,
	// not jump to the previous target.
	if got := b.ValueAt(mid); got != 20 {
		t.Fatalf("retargeted ValueAt(now) = %v, want 20", got)
	}
	if got := b.Target(); got != 80 {
		t.Fatalf("Target() = %v, want 80", got)
	}
	if got := b.ValueAt(mid.Add(AnimationDuration)); got != 80 {
		t.Fatalf("retargeted end value = %v, want 80", got)
	}
}
