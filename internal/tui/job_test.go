package tui

import (
	"testing"
	"time"

	"github.com/financiallyruined/trimtui/internal/api"
	"github.com/financiallyruined/trimtui/internal/model"
	"github.com/financiallyruined/trimtui/internal/reconcile"
)

func appWithJob(t *testing.T, jobID string) App {
	t.Helper()
	client := api.NewClient("http://localhost:5000")
	if client == nil {
		t.Fatal("NewClient returned nil")
	}
	return App{
		client: client,
		job: &jobState{
			job:         model.Job{ID: jobID, FileName: "trimmed_a.mp4"},
			sourcePath:  "clips/a.mp4",
			submittedAt: time.Now(),
			rec:         reconcile.New(),
		},
	}
}

func event(jobID string, progress float64) StreamEventMsg {
	return StreamEventMsg{JobID: jobID, Event: api.ProgressEvent{Progress: progress}, OK: true}
}

func TestHandleStreamEvent_IgnoresSupersededJob(t *testing.T) {
	a := appWithJob(t, "job-new")

	m, _ := a.handleStreamEvent(event("job-old", 80))
	got := m.(App)

	if got.job.rec.Progress() != 0 {
		t.Fatalf("stale event moved progress to %v", got.job.rec.Progress())
	}
}

func TestHandleStreamEvent_AdvanceStartsAnimation(t *testing.T) {
	a := appWithJob(t, "job-1")

	m, cmd := a.handleStreamEvent(event("job-1", 40))
	got := m.(App)

	if !got.job.animating {
		t.Fatal("an advancing event should start the animation")
	}
	if got.job.anim.Target() != 40 {
		t.Fatalf("animation target = %v, want 40", got.job.anim.Target())
	}
	if cmd == nil {
		t.Fatal("expected a batch with the animation tick and the next stream wait")
	}
}

func TestHandleStreamEvent_RegressionDoesNotAnimate(t *testing.T) {
	a := appWithJob(t, "job-1")
	a.job.sub = &api.Subscription{}

	m, _ := a.handleStreamEvent(event("job-1", 60))
	a = m.(App)
	a.job.animating = false // pretend the first animation finished

	m, _ = a.handleStreamEvent(event("job-1", 45))
	got := m.(App)

	if got.job.animating {
		t.Fatal("a clamped (non-advancing) event must not restart the animation")
	}
	if got.job.rec.Progress() != 60 {
		t.Fatalf("Progress() = %v, want 60", got.job.rec.Progress())
	}
}

func TestHandleStreamEvent_FailureSentinel(t *testing.T) {
	a := appWithJob(t, "job-1")

	m, _ := a.handleStreamEvent(event("job-1", 70))
	a = m.(App)
	m, _ = a.handleStreamEvent(event("job-1", -1))
	got := m.(App)

	if got.job.rec.State() != reconcile.Failed {
		t.Fatalf("state = %v, want Failed", got.job.rec.State())
	}
	if got.errMsg == "" {
		t.Fatal("failure should surface a message")
	}
	if got.job.rec.Progress() != 70 {
		t.Fatalf("failure changed progress to %v", got.job.rec.Progress())
	}
}

func TestHandleStreamEvent_Success(t *testing.T) {
	a := appWithJob(t, "job-1")

	m, cmd := a.handleStreamEvent(event("job-1", 100))
	got := m.(App)

	if got.job.rec.State() != reconcile.Succeeded {
		t.Fatalf("state = %v, want Succeeded", got.job.rec.State())
	}
	if got.job.downloadURL == "" {
		t.Fatal("success should record the download URL")
	}
	if cmd == nil {
		t.Fatal("success should schedule the size lookup and history write")
	}
}

func TestHandleStreamEvent_StreamDropMidJob(t *testing.T) {
	a := appWithJob(t, "job-1")

	m, _ := a.handleStreamEvent(event("job-1", 50))
	a = m.(App)

	// Channel closed without a terminal event: the job fails, no retry.
	m, _ = a.handleStreamEvent(StreamEventMsg{JobID: "job-1", OK: false})
	got := m.(App)

	if got.job.rec.State() != reconcile.Failed {
		t.Fatalf("state = %v after stream drop, want Failed", got.job.rec.State())
	}
}

func TestHandleStreamEvent_CleanCloseAfterTerminal(t *testing.T) {
	a := appWithJob(t, "job-1")

	m, _ := a.handleStreamEvent(event("job-1", 100))
	a = m.(App)

	// The close that follows our own teardown must not flip the outcome.
	m, _ = a.handleStreamEvent(StreamEventMsg{JobID: "job-1", OK: false})
	got := m.(App)

	if got.job.rec.State() != reconcile.Succeeded {
		t.Fatalf("state = %v, want Succeeded preserved", got.job.rec.State())
	}
	if got.errMsg != "" {
		t.Fatalf("errMsg = %q after a clean post-success close", got.errMsg)
	}
}

func TestHandleVideoInfo_GuardsJobAndOutcome(t *testing.T) {
	a := appWithJob(t, "job-1")
	m, _ := a.handleStreamEvent(event("job-1", 100))
	a = m.(App)

	m, _ = a.handleVideoInfo(VideoInfoMsg{JobID: "job-other", Size: 42})
	a = m.(App)
	if a.job.sizeKnown {
		t.Fatal("size from another job was applied")
	}

	m, _ = a.handleVideoInfo(VideoInfoMsg{JobID: "job-1", Size: 2400000})
	a = m.(App)
	if !a.job.sizeKnown || a.job.outputSize != 2400000 {
		t.Fatalf("size not applied: known=%v size=%d", a.job.sizeKnown, a.job.outputSize)
	}
}

func TestHandleAnimTick_StopsWhenDone(t *testing.T) {
	a := appWithJob(t, "job-1")
	m, _ := a.handleStreamEvent(event("job-1", 30))
	a = m.(App)

	_, cmd := a.handleAnimTick(time.Now())
	if cmd == nil {
		t.Fatal("tick during an animation should reschedule")
	}

	_, cmd = a.handleAnimTick(time.Now().Add(reconcile.AnimationDuration + time.Second))
	if cmd != nil {
		t.Fatal("tick after the animation finished should not reschedule")
	}
}
