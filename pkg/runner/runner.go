package runner

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yaklabco/gotypstyle/internal/logging"
	"github.com/yaklabco/gotypstyle/pkg/format"
)

// Runner formats many files in parallel through one pipeline.
type Runner struct {
	Pipeline *format.Pipeline
}

// New creates a runner.
func New(pipeline *format.Pipeline) *Runner {
	return &Runner{Pipeline: pipeline}
}

// Run discovers the files selected by opts and formats them.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}
	return r.RunFiles(ctx, files, opts.Jobs)
}

// RunFiles formats files using at most jobs goroutines; jobs <= 0 means one
// per CPU. Outcomes keep the order of files. When ctx is cancelled the
// outcomes gathered so far are returned with the context error.
func (r *Runner) RunFiles(ctx context.Context, files []string, jobs int) (*Result, error) {
	start := time.Now()
	result := &Result{Files: make([]FileOutcome, 0, len(files))}
	result.Stats.FilesDiscovered = len(files)
	if len(files) == 0 {
		return result, nil
	}
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	jobs = min(jobs, len(files))

	outcomes := make([]FileOutcome, len(files))
	var g errgroup.Group
	g.SetLimit(jobs)
	for i, path := range files {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if ctx.Err() == nil {
				outcomes[i] = r.process(ctx, path)
			}
			return nil
		})
	}
	_ = g.Wait()

	for _, outcome := range outcomes {
		if outcome.Path != "" {
			result.accumulate(outcome)
		}
	}

	logging.FromContext(ctx).Debug("run complete",
		logging.FieldFiles, len(files),
		logging.FieldJobs, jobs,
		logging.FieldFilesChanged, result.Stats.FilesChanged,
		logging.FieldFilesFailed, result.Stats.FilesErrored,
		logging.FieldDuration, time.Since(start),
	)

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("run cancelled: %w", err)
	}
	return result, nil
}

func (r *Runner) process(ctx context.Context, path string) FileOutcome {
	res, err := r.Pipeline.ProcessFile(logging.WithFields(ctx, logging.FieldPath, path), path)
	return FileOutcome{Path: path, Result: res, Error: err}
}
