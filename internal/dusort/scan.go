package dusort

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/idelchi/dusort/internal/logging"
)

// Scan sizes every immediate entry of opt.Path. Files and symlinks are sized
// from their own metadata, directories recursively by a Walker.
//
// The only error Scan returns is a failure to read the root itself, or the
// context error if ctx is cancelled. Failures below the root are collected in
// the report instead. Up to opt.Jobs top-level directories are walked
// concurrently. Progress updates are sent to progressHook if provided.
func Scan(ctx context.Context, opt Options, progressHook ProgressFunc) (*Report, error) {
	log := orNop(opt.Logger)

	if opt.Path == "" {
		opt.Path = "."
	}

	opt.Path = filepath.Clean(opt.Path)

	if info, err := os.Stat(opt.Path); err != nil {
		return nil, fmt.Errorf("accessing path %q: %w", opt.Path, err)
	} else if !info.IsDir() {
		return nil, fmt.Errorf("path %q is not a directory", opt.Path)
	}

	children, err := os.ReadDir(opt.Path)
	if err != nil {
		return nil, fmt.Errorf("reading root %q: %w", opt.Path, err)
	}

	jobs := opt.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}

	scanID := uuid.NewString()
	log = log.WithTraceID(scanID)
	log.Info("scan started", logging.F("root", opt.Path), logging.F("entries", len(children)), logging.F("jobs", jobs))

	progress := &counter{}

	stopProgress := startProgressReporter(ctx, progress, progressHook, opt.ProgressInterval)
	defer stopProgress()

	env := walkEnv{root: opt.Path, progress: progress, log: log}
	walker := newWalker(env, jobs)

	start := time.Now()

	// Each goroutine owns one slot, results are merged after Wait.
	entries := make([]Entry, len(children))
	sem := make(chan struct{}, jobs)

	var wg sync.WaitGroup

	for i, child := range children {
		path := filepath.Join(opt.Path, child.Name())

		info, err := child.Info()
		if err != nil {
			entries[i] = Entry{
				Name:   child.Name(),
				Kind:   kindOf(child.Type()),
				Errors: []ScanError{env.fail(path, err)},
			}

			continue
		}

		kind := kindOf(info.Mode())
		if kind != KindDirectory {
			entries[i] = Entry{Name: child.Name(), Kind: kind, Size: env.leaf(info)}

			continue
		}

		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
		}

		if ctx.Err() != nil {
			break
		}

		wg.Add(1)

		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			log.Debug("walking", logging.F("path", path))

			res := walker.Walk(ctx, path)
			entries[i] = Entry{Name: child.Name(), Kind: KindDirectory, Size: res.Size, Errors: res.Errors}
		}()
	}

	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report := &Report{
		ScanID:    scanID,
		Root:      opt.Path,
		Entries:   entries,
		Errors:    []ScanError{},
		FileCount: progress.files.Load(),
		Elapsed:   time.Since(start),
	}

	for _, e := range entries {
		report.TotalBytes += e.Size
		report.Errors = append(report.Errors, e.Errors...)
	}

	sortErrors(report.Errors)

	log.Info("scan finished",
		logging.F("files", report.FileCount),
		logging.F("bytes", report.TotalBytes),
		logging.F("errors", len(report.Errors)),
		logging.F("elapsed", report.Elapsed))

	return report, nil
}
