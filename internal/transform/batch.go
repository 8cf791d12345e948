package transform

import (
	"context"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Job pairs one input file with its output path.
type Job struct {
	Input  string `json:"input"`
	Output string `json:"output"`
}

const (
	StatusOK      = "ok"
	StatusFailed  = "failed"
	StatusSkipped = "skipped"
)

// Outcome is the per-file record of a batch run.
type Outcome struct {
	Job
	Status  string    `json:"status"`
	Kind    Kind      `json:"kind,omitempty"`
	Error   string    `json:"error,omitempty"`
	Result  *Result   `json:"result,omitempty"`
	Started time.Time `json:"started"`
	Err     error     `json:"-"`
}

// Summary aggregates a batch run.
type Summary struct {
	RunID     string        `json:"run_id"`
	Started   time.Time     `json:"started"`
	Duration  time.Duration `json:"duration_ns"`
	Files     []Outcome     `json:"files"`
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
	Skipped   int           `json:"skipped"`
	Rows      int64         `json:"rows"`
	Bytes     int64         `json:"bytes"`
}

// Runner processes jobs one after another. Failures are logged and recorded,
// and the batch moves on to the next file.
type Runner struct {
	Options Options
	Logger  *zap.Logger
	// OnFile, when set, is called after every attempted or skipped file.
	OnFile func(ctx context.Context, runID string, o Outcome)
}

func (r *Runner) Run(ctx context.Context, jobs []Job) Summary {
	logger := r.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	s := Summary{
		RunID:   uuid.NewString(),
		Started: time.Now(),
		Files:   make([]Outcome, 0, len(jobs)),
	}
	logger = logger.With(zap.String("run_id", s.RunID))
	logger.Info("batch started", zap.Int("files", len(jobs)))

	for i, job := range jobs {
		o := Outcome{Job: job, Started: time.Now()}
		if err := ctx.Err(); err != nil {
			o.Status, o.Kind, o.Error, o.Err = StatusSkipped, KindCanceled, err.Error(), err
			s.Skipped++
			r.emit(ctx, s.RunID, &s, o)
			continue
		}

		log := logger.With(zap.String("file", job.Input), zap.Int("index", i+1))
		log.Info("transforming", zap.String("output", job.Output))
		res, err := File(ctx, job.Input, job.Output, r.Options, logger)
		if err != nil {
			o.Status, o.Kind, o.Error, o.Err = StatusFailed, KindOf(err), err.Error(), err
			s.Failed++
			log.Error("file failed, continuing with next", zap.String("kind", string(o.Kind)), zap.Error(err))
		} else {
			o.Status, o.Result = StatusOK, res
			s.Succeeded++
			s.Rows += res.Rows
			s.Bytes += res.Bytes
			log.Info("file done",
				zap.Int64("rows", res.Rows),
				zap.Int("columns", res.OutputColumns),
				zap.Strings("appended", res.Appended),
				zap.String("size", humanize.Bytes(uint64(res.Bytes))),
				zap.Duration("took", res.Duration))
		}
		r.emit(ctx, s.RunID, &s, o)
	}

	s.Duration = time.Since(s.Started)
	logger.Info("batch finished",
		zap.Int("succeeded", s.Succeeded),
		zap.Int("failed", s.Failed),
		zap.Int("skipped", s.Skipped),
		zap.Int64("rows", s.Rows),
		zap.Duration("took", s.Duration))
	return s
}

func (r *Runner) emit(ctx context.Context, runID string, s *Summary, o Outcome) {
	s.Files = append(s.Files, o)
	if r.OnFile != nil {
		r.OnFile(context.WithoutCancel(ctx), runID, o)
	}
}
