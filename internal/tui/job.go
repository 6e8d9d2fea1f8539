package tui

import (
	"time"

	"github.com/financiallyruined/trimtui/internal/api"
	"github.com/financiallyruined/trimtui/internal/model"
	"github.com/financiallyruined/trimtui/internal/reconcile"
	"github.com/financiallyruined/trimtui/internal/store"

	tea "github.com/charmbracelet/bubbletea"
)

const trimFailureMsg = "An error occurred while trimming the video."

// jobState tracks a single submitted job from creation to its terminal
// outcome. A new submission replaces the whole struct; there is never more
// than one live stream.
type jobState struct {
	job          model.Job
	sourcePath   string
	segmentCount int
	submittedAt  time.Time

	rec *reconcile.Reconciler
	sub *api.Subscription

	anim      reconcile.Animation
	animating bool

	downloadURL string
	outputSize  int64
	sizeKnown   bool
}

// visibleProgress returns the percentage the bar should show right now:
// the animated value while an animation is running, the reconciled value
// otherwise.
func (js *jobState) visibleProgress(now time.Time) float64 {
	if js.animating {
		return js.anim.ValueAt(now)
	}
	return js.rec.Progress()
}

func (a App) handleSubmitResult(msg SubmitResultMsg) (tea.Model, tea.Cmd) {
	a.trim.submitting = false

	if msg.Err != nil {
		a.errMsg = "Submission failed: " + msg.Err.Error()
		return a, nil
	}

	a.job = &jobState{
		job:          msg.Job,
		sourcePath:   a.pendingSource,
		segmentCount: a.pendingSegments,
		submittedAt:  time.Now(),
		rec:          reconcile.New(),
	}
	return a, a.subscribeCmd(msg.Job.ID)
}

func (a App) handleStreamOpened(msg StreamOpenedMsg) (tea.Model, tea.Cmd) {
	// A newer submission may have superseded this job while the connection
	// was being established.
	if a.job == nil || a.job.job.ID != msg.JobID {
		if msg.Sub != nil {
			msg.Sub.Close()
		}
		return a, nil
	}

	if msg.Err != nil {
		a.job.rec.Fail()
		a.errMsg = trimFailureMsg
		return a, a.saveHistoryCmd(a.historyRecord(store.OutcomeFailed))
	}

	a.job.sub = msg.Sub
	return a, waitForStreamCmd(msg.Sub, msg.JobID)
}

func (a App) handleStreamEvent(msg StreamEventMsg) (tea.Model, tea.Cmd) {
	js := a.job
	if js == nil || js.job.ID != msg.JobID {
		return a, nil // stale event from a superseded job
	}

	// Channel closed: either we reached a terminal state and closed the
	// subscription ourselves, or the connection dropped mid-stream.
	if !msg.OK {
		if !js.rec.Terminal() {
			js.rec.Fail()
			js.animating = false
			a.closeStream()
			a.errMsg = trimFailureMsg
			return a, a.saveHistoryCmd(a.historyRecord(store.OutcomeFailed))
		}
		return a, nil
	}

	tr := js.rec.Apply(msg.Event.Progress)

	var cmds []tea.Cmd
	if tr.Advanced() {
		now := time.Now()
		if js.animating {
			js.anim = js.anim.Retarget(tr.To, now)
		} else {
			js.anim = reconcile.NewAnimation(tr.From, tr.To, now)
			js.animating = true
			cmds = append(cmds, animTickCmd())
		}
	}

	switch js.rec.State() {
	case reconcile.Succeeded:
		a.closeStream()
		js.downloadURL = a.client.DownloadURL(js.job.FileName)
		cmds = append(cmds,
			a.videoInfoCmd(js.job.ID),
			a.saveHistoryCmd(a.historyRecord(store.OutcomeSucceeded)),
		)
	case reconcile.Failed:
		a.closeStream()
		js.animating = false
		a.errMsg = trimFailureMsg
		cmds = append(cmds, a.saveHistoryCmd(a.historyRecord(store.OutcomeFailed)))
	default:
		cmds = append(cmds, waitForStreamCmd(js.sub, js.job.ID))
	}

	return a, tea.Batch(cmds...)
}

// handleVideoInfo records the output size after a successful trim. A failed
// lookup never alters the job outcome.
func (a App) handleVideoInfo(msg VideoInfoMsg) (tea.Model, tea.Cmd) {
	js := a.job
	if js == nil || js.job.ID != msg.JobID || js.rec.State() != reconcile.Succeeded {
		return a, nil
	}
	if msg.Err != nil {
		return a, nil
	}

	js.outputSize = msg.Size
	js.sizeKnown = true

	// Refresh the stored record with the size; Save replaces by job id.
	return a, a.saveHistoryCmd(a.historyRecord(store.OutcomeSucceeded))
}

func (a App) handleAnimTick(now time.Time) (tea.Model, tea.Cmd) {
	js := a.job
	if js == nil || !js.animating {
		return a, nil
	}
	if js.anim.Done(now) {
		js.animating = false
		return a, nil
	}
	return a, animTickCmd()
}

// historyRecord builds the local history row for the active job.
func (a App) historyRecord(outcome string) store.Record {
	js := a.job
	return store.Record{
		JobID:        js.job.ID,
		SourcePath:   js.sourcePath,
		OutputName:   js.job.FileName,
		OutputSize:   js.outputSize,
		SegmentCount: js.segmentCount,
		Outcome:      outcome,
		SubmittedAt:  js.submittedAt,
		FinishedAt:   time.Now(),
	}
}
