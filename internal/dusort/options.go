package dusort

import (
	"time"

	"github.com/idelchi/dusort/internal/logging"
)

// Options configures a scan and CLI behavior.
type Options struct {
	// Path is the directory to scan.
	Path string
	// Jobs bounds parallelism (0 = number of CPUs, 1 = sequential walk).
	// Up to Jobs top-level directories are walked at once, each with Jobs
	// fastwalk workers, so at most Jobs*Jobs directory reads run concurrently.
	Jobs int
	// ProgressInterval controls progress callback cadence.
	ProgressInterval time.Duration
	// Logger receives scan diagnostics. Nil discards them.
	Logger logging.Logger

	// SI selects decimal units instead of binary ones.
	SI bool
	// Total appends the sum of all entries to the report.
	Total bool
	// Output represents output format (plain, table or json).
	Output string
	// Errors lists unreadable paths after the sizes.
	Errors bool
	// Strict makes partial scans exit non-zero.
	Strict bool
	// NoProgress disables the progress spinner.
	NoProgress bool
	// Verbose enables info-level logging.
	Verbose bool
	// Debug enables debug-level logging.
	Debug bool
	// Integration indicates whether to output integration script.
	Integration bool
}

// Scale returns the unit scale selected by the options.
func (o Options) Scale() Scale {
	if o.SI {
		return Decimal
	}

	return Binary
}

// FormatOptions returns the report formatting selected by the options.
func (o Options) FormatOptions() FormatOptions {
	return FormatOptions{Scale: o.Scale(), Total: o.Total, HideErrors: !o.Errors}
}

// Report is the outcome of a scan.
type Report struct {
	// ScanID uniquely identifies the scan.
	ScanID string `json:"scan_id"`
	// Root is the scanned directory as given.
	Root string `json:"root"`
	// Entries holds one entry per immediate child of Root, in listing order.
	Entries []Entry `json:"entries"`
	// Errors combines the errors of all entries, sorted by path.
	Errors []ScanError `json:"errors"`
	// FileCount is the number of files and symlinks that were sized.
	FileCount int64 `json:"file_count"`
	// TotalBytes is the sum of all entry sizes.
	TotalBytes int64 `json:"total_bytes"`
	// Elapsed is the total time taken for the scan.
	Elapsed time.Duration `json:"elapsed"`
}

// Partial reports whether any node could not be read.
func (r *Report) Partial() bool {
	return len(r.Errors) > 0
}
