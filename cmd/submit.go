package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/financiallyruined/trimtui/internal/api"
	"github.com/financiallyruined/trimtui/internal/cli"
	"github.com/financiallyruined/trimtui/internal/config"
	"github.com/financiallyruined/trimtui/internal/model"
	"github.com/financiallyruined/trimtui/internal/reconcile"
	"github.com/financiallyruined/trimtui/internal/store"

	"github.com/spf13/cobra"
)

var (
	flagSegments   []string
	flagCustomPath bool
	flagUpload     bool
)

var submitCmd = &cobra.Command{
	Use:   "submit <file>",
	Short: "Submit a trimming job and watch it finish",
	Long: `Submit a trimming job without the TUI and stream its progress.

The file argument is a path relative to the server's video directory,
an absolute server-side path with --custom-path, or a local file to
upload with --upload. Each --segment is a start-end pair of timecodes:

  trimtui submit recordings/match.mp4 -t 00:01:30-00:02:45 -t 05:00-06:10`,
	Args: cobra.ExactArgs(1),
	RunE: runSubmit,
}

func init() {
	submitCmd.Flags().StringArrayVarP(&flagSegments, "segment", "t", nil, "Time segment START-END (repeatable)")
	submitCmd.Flags().BoolVar(&flagCustomPath, "custom-path", false, "Treat the file argument as an absolute server path")
	submitCmd.Flags().BoolVarP(&flagUpload, "upload", "u", false, "Upload the file argument from the local machine")
	submitCmd.MarkFlagsMutuallyExclusive("custom-path", "upload")
	rootCmd.AddCommand(submitCmd)
}

// parseSegments turns START-END flag values into time segments.
func parseSegments(raw []string) ([]model.TimeSegment, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("at least one --segment is required")
	}

	segs := make([]model.TimeSegment, 0, len(raw))
	for _, s := range raw {
		start, end, ok := strings.Cut(s, "-")
		if !ok {
			return nil, fmt.Errorf("segment %q: expected START-END", s)
		}
		start = strings.TrimSpace(start)
		end = strings.TrimSpace(end)
		if !model.ValidTimecode(start) || !model.ValidTimecode(end) {
			return nil, fmt.Errorf("segment %q: timecodes must look like HH:MM:SS", s)
		}
		segs = append(segs, model.TimeSegment{StartTime: start, EndTime: end})
	}
	return segs, nil
}

func runSubmit(_ *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	segs, err := parseSegments(flagSegments)
	if err != nil {
		return err
	}

	req := api.SubmitRequest{Segments: segs}
	switch {
	case flagUpload:
		if !model.AllowedFile(args[0]) {
			return fmt.Errorf("%s: unsupported video format", args[0])
		}
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
		req.Upload = f
		req.UploadName = filepath.Base(args[0])
	case flagCustomPath:
		req.CustomPath = args[0]
	default:
		req.FilePath = args[0]
	}

	submittedAt := time.Now()
	job, err := client.SubmitJob(context.Background(), req)
	if err != nil {
		return fmt.Errorf("submitting job: %w", err)
	}

	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Job %s created, trimming %s\n", job.ID, job.FileName)
	}

	rec, err := watchJob(client, job.ID)
	if err != nil {
		return err
	}

	outcome := store.OutcomeFailed
	if rec.State() == reconcile.Succeeded {
		outcome = store.OutcomeSucceeded
	}

	var size int64
	if outcome == store.OutcomeSucceeded {
		// Size lookup is informational; a failure here never fails the job.
		size, _ = client.VideoInfo(context.Background(), job.ID)
	}

	recordJob(store.Record{
		JobID:        job.ID,
		SourcePath:   args[0],
		OutputName:   job.FileName,
		OutputSize:   size,
		SegmentCount: len(segs),
		Outcome:      outcome,
		SubmittedAt:  submittedAt,
		FinishedAt:   time.Now(),
	})

	if outcome == store.OutcomeFailed {
		return fmt.Errorf("trimming failed")
	}

	fmt.Printf("  Done: %s\n", client.DownloadURL(job.FileName))
	if size > 0 {
		fmt.Printf("  Size: %s\n", cli.FormatBytes(size))
	}
	return nil
}

// watchJob consumes the progress stream until the job reaches a terminal
// state, rendering a progress bar as updates arrive.
func watchJob(client *api.Client, jobID string) (*reconcile.Reconciler, error) {
	sub, err := client.Subscribe(context.Background(), jobID)
	if err != nil {
		return nil, fmt.Errorf("opening progress stream: %w", err)
	}
	defer sub.Close()

	rec := reconcile.New()
	for ev := range sub.Events() {
		rec.Apply(ev.Progress)
		if !flagQuiet {
			fmt.Fprintf(os.Stderr, "\r  %s", cli.Bar(rec.Progress(), 40))
		}
		if rec.Terminal() {
			break
		}
	}
	if !flagQuiet {
		fmt.Fprintln(os.Stderr)
	}

	// Stream ended without a terminal event: treat as failure, no retry.
	if !rec.Terminal() {
		rec.Fail()
	}
	return rec, nil
}

// recordJob saves the terminal job to local history, best-effort.
func recordJob(r store.Record) {
	cfg, _ := config.Load()
	hist, err := store.Open(config.HistoryPath(cfg))
	if err != nil {
		return
	}
	defer func() { _ = hist.Close() }()
	_ = hist.Save(r)
}
