package dusort

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/charlievieth/fastwalk"

	"github.com/idelchi/dusort/internal/logging"
)

// Walker computes the total apparent size of a single filesystem node.
type Walker interface {
	// Walk returns the best-effort size of path and every failure met below it.
	// It never fails as a whole: unreadable nodes contribute zero.
	Walk(ctx context.Context, path string) Result
}

// NewWalker returns the sequential depth-first walker for jobs == 1 and a
// fastwalk-backed parallel walker otherwise.
func NewWalker(root string, jobs int, log logging.Logger) Walker {
	return newWalker(walkEnv{root: filepath.Clean(root), log: orNop(log)}, jobs)
}

func newWalker(env walkEnv, jobs int) Walker {
	if jobs == 1 {
		return sequentialWalker{env}
	}

	return fastWalker{walkEnv: env, workers: jobs}
}

// walkEnv is the state shared by both walkers.
type walkEnv struct {
	root     string
	progress *counter
	log      logging.Logger
}

// fail turns a filesystem error on path into a ScanError.
func (e walkEnv) fail(path string, err error) ScanError {
	se := ScanError{Path: e.rel(path), Cause: classify(err), Err: err}

	e.log.Warn("cannot read", logging.F("path", se.Path), logging.F("cause", se.Cause))

	return se
}

// rel returns path relative to the scan root, in slash form.
func (e walkEnv) rel(path string) string {
	rel, err := filepath.Rel(e.root, path)
	if err != nil {
		rel = path
	}

	return strings.TrimPrefix(filepath.ToSlash(rel), "./")
}

// leaf returns the contribution of a non-directory node. Regular files count
// with their length, symlinks with the length of the link itself, anything
// else with zero.
func (e walkEnv) leaf(info fs.FileInfo) int64 {
	mode := info.Mode()
	if !mode.IsRegular() && mode&fs.ModeSymlink == 0 {
		return 0
	}

	e.progress.record(info.Size())

	return info.Size()
}

// sequentialWalker is the single-threaded depth-first reference walker.
type sequentialWalker struct {
	walkEnv
}

func (w sequentialWalker) Walk(ctx context.Context, path string) Result {
	info, err := os.Lstat(path)
	if err != nil {
		return Result{Errors: []ScanError{w.fail(path, err)}}
	}

	return w.walk(ctx, path, info)
}

func (w sequentialWalker) walk(ctx context.Context, path string, info fs.FileInfo) Result {
	if !info.IsDir() {
		return Result{Size: w.leaf(info)}
	}

	children, err := os.ReadDir(path)
	if err != nil {
		return Result{Errors: []ScanError{w.fail(path, err)}}
	}

	var res Result

	for _, child := range children {
		if ctx.Err() != nil {
			return res
		}

		childPath := filepath.Join(path, child.Name())

		childInfo, err := child.Info()
		if err != nil {
			res.Errors = append(res.Errors, w.fail(childPath, err))

			continue
		}

		res.add(w.walk(ctx, childPath, childInfo))
	}

	return res
}

// fastWalker walks with fastwalk, spreading directory reads over workers.
type fastWalker struct {
	walkEnv
	workers int
}

// tally accumulates the result of one fastwalk traversal. fastwalk invokes
// its callback from several goroutines, so the tally is safe for concurrent
// use. It is never shared between two Walk calls.
type tally struct {
	size atomic.Int64

	mu     sync.Mutex
	seen   map[string]struct{}
	errors []ScanError
}

func (t *tally) fail(se ScanError) {
	t.mu.Lock()
	defer t.mu.Unlock()

	// fastwalk may report a directory read failure both to the callback and
	// as its return value.
	if _, dup := t.seen[se.Path]; dup {
		return
	}

	t.seen[se.Path] = struct{}{}
	t.errors = append(t.errors, se)
}

func (t *tally) result() Result {
	t.mu.Lock()
	defer t.mu.Unlock()

	errs := slices.Clone(t.errors)
	sortErrors(errs)

	return Result{Size: t.size.Load(), Errors: errs}
}

func (w fastWalker) Walk(ctx context.Context, path string) Result {
	// fastwalk only traverses directories.
	info, err := os.Lstat(path)
	if err != nil {
		return Result{Errors: []ScanError{w.fail(path, err)}}
	}

	if !info.IsDir() {
		return Result{Size: w.leaf(info)}
	}

	t := &tally{seen: make(map[string]struct{})}

	conf := &fastwalk.Config{
		Follow:     false, // Don't follow symlinks
		NumWorkers: w.workers,
	}

	//nolint:varnamelen // d is standard for DirEntry
	err = fastwalk.Walk(conf, path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			t.fail(w.fail(p, err))

			return nil
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}

		if d.IsDir() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			t.fail(w.fail(p, err))

			return nil
		}

		t.size.Add(w.leaf(info))

		return nil
	})
	if err != nil && ctx.Err() == nil {
		t.fail(w.fail(path, err))
	}

	return t.result()
}

func orNop(log logging.Logger) logging.Logger {
	if log == nil {
		return logging.Nop()
	}

	return log
}
