// Package transform streams CUR exports through header normalization and
// optional required-column reconciliation, one file at a time.
package transform

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"curfmt/internal/csvin"
	"curfmt/internal/csvout"
	"curfmt/internal/iox"
	"curfmt/internal/mapper"
	"curfmt/internal/normalize"
)

// DefaultProgressEvery is the row interval between progress log lines.
const DefaultProgressEvery = 100_000

const cancelCheckEvery = 4096

type Options struct {
	Normalizer normalize.Func
	// Reconcile appends missing Required columns to the output header.
	Reconcile bool
	Required  []string
	Match     mapper.Match
	// ProgressEvery <= 0 selects DefaultProgressEvery.
	ProgressEvery int
}

func (o Options) withDefaults() Options {
	if o.Normalizer == nil {
		o.Normalizer = normalize.Symbol
	}
	if o.Match == "" {
		o.Match = mapper.MatchExact
	}
	if o.ProgressEvery <= 0 {
		o.ProgressEvery = DefaultProgressEvery
	}
	return o
}

// Result describes one successfully written output file.
type Result struct {
	Input         string        `json:"input"`
	Output        string        `json:"output"`
	Rows          int64         `json:"rows"`
	InputColumns  int           `json:"input_columns"`
	OutputColumns int           `json:"output_columns"`
	Appended      []string      `json:"appended,omitempty"`
	Duplicates    []string      `json:"duplicates,omitempty"`
	Bytes         int64         `json:"bytes"`
	Checksum      string        `json:"xxh3"`
	Duration      time.Duration `json:"duration_ns"`
}

// File rewrites inPath into outPath. The output has the canonical header and
// exactly one line per input data line, in input order. On failure the partial
// output is removed and a *FileError is returned.
func File(ctx context.Context, inPath, outPath string, opts Options, logger *zap.Logger) (*Result, error) {
	opts = opts.withDefaults()
	if logger == nil {
		logger = zap.NewNop()
	}
	if inPath == "" || outPath == "" {
		return nil, fileErr(inPath, KindConfig, errors.New("input and output paths are required"))
	}
	if samePath(inPath, outPath) {
		return nil, fileErr(inPath, KindConfig, fmt.Errorf("input and output paths must differ (got %q)", inPath))
	}

	start := time.Now()
	in, err := iox.OpenAuto(inPath)
	if err != nil {
		return nil, fileErr(inPath, KindIO, fmt.Errorf("open input: %w", err))
	}
	defer in.Close()

	reader := csvin.New(in)
	header, err := reader.Header()
	if err != nil {
		if err == io.EOF {
			return nil, fileErr(inPath, KindEmpty, errors.New("input has no header line"))
		}
		return nil, fileErr(inPath, KindIO, fmt.Errorf("read header: %w", err))
	}

	var required []string
	if opts.Reconcile {
		required = opts.Required
	}
	plan := mapper.Build(header, opts.Normalizer, required, opts.Match)
	log := logger.With(zap.String("file", inPath))
	log.Debug("header mapped",
		zap.Int("input_columns", plan.InputWidth),
		zap.Int("output_columns", plan.Width()),
		zap.Strings("appended", plan.Appended))
	if d := plan.Duplicates(); len(d) > 0 {
		log.Warn("input columns share a canonical name; all are kept", zap.Strings("names", d))
	}

	out, err := iox.CreateAuto(outPath)
	if err != nil {
		return nil, fileErr(inPath, KindIO, fmt.Errorf("create output: %w", err))
	}
	fail := func(kind Kind, err error) (*Result, error) {
		_ = out.Close()
		_ = os.Remove(outPath)
		return nil, fileErr(inPath, kind, err)
	}

	writer := csvout.New(out)
	if err := writer.WriteHeader(plan.Output); err != nil {
		return fail(KindIO, fmt.Errorf("write header: %w", err))
	}

	var rows int64
	for {
		if rows%cancelCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return fail(KindCanceled, err)
			}
		}
		fields, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fail(KindIO, fmt.Errorf("read line %d: %w", reader.Lines()+1, err))
		}
		if err := writer.WriteRow(mapper.Map(plan, fields)); err != nil {
			return fail(KindIO, fmt.Errorf("write row %d: %w", rows+1, err))
		}
		rows++
		if rows%int64(opts.ProgressEvery) == 0 {
			log.Info("progress", zap.Int64("rows", rows))
		}
	}

	if err := writer.Flush(); err != nil {
		return fail(KindIO, fmt.Errorf("flush: %w", err))
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(outPath)
		return nil, fileErr(inPath, KindIO, fmt.Errorf("close output: %w", err))
	}

	return &Result{
		Input:         inPath,
		Output:        outPath,
		Rows:          rows,
		InputColumns:  plan.InputWidth,
		OutputColumns: plan.Width(),
		Appended:      plan.Appended,
		Duplicates:    plan.Duplicates(),
		Bytes:         writer.Bytes(),
		Checksum:      fmt.Sprintf("%016x", writer.Sum64()),
		Duration:      time.Since(start),
	}, nil
}

func samePath(a, b string) bool {
	aa, err1 := filepath.Abs(a)
	bb, err2 := filepath.Abs(b)
	if err1 != nil || err2 != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return aa == bb
}
