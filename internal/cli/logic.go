package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"github.com/idelchi/dusort/internal/dusort"
	"github.com/idelchi/dusort/internal/logging"
)

func newLogger(options dusort.Options, stderr io.Writer) logging.Logger {
	level := logging.WARN

	switch {
	case options.Debug:
		level = logging.DEBUG
	case options.Verbose:
		level = logging.INFO
	}

	return logging.NewConsoleLogger(logging.ConsoleLoggerConfig{
		Writer:           stderr,
		Level:            level,
		TimestampEnabled: options.Debug,
	})
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)

	return ok && isatty.IsTerminal(f.Fd())
}

func logic(ctx context.Context, options dusort.Options, stdout, stderr io.Writer) error {
	log := newLogger(options, stderr)
	options.Logger = log

	enableProgress := !options.NoProgress &&
		options.Output != "json" &&
		!options.Debug &&
		!options.Verbose &&
		isTerminal(stderr)

	var (
		progressHook dusort.ProgressFunc
		stopProgress = func() {}
	)

	if enableProgress {
		spin := newSpinner(stderr)
		progressHook = spin.Update
		stopProgress = spin.Close
	}

	report, err := dusort.Scan(ctx, options, progressHook)

	stopProgress()

	if err != nil {
		if ctx.Err() != nil {
			return &ExitError{Code: ExitInterrupted, Err: fmt.Errorf("scan interrupted: %w", err)}
		}

		return err
	}

	log.Info("report ready",
		logging.F("entries", len(report.Entries)),
		logging.F("total", humanize.IBytes(uint64(report.TotalBytes))), //nolint:gosec // Sizes are never negative
	)

	format := options.FormatOptions()

	switch options.Output {
	case "json":
		err = PrintJSON(report, format, stdout)
	case "table":
		err = PrintTable(report, format, stdout)
	default:
		err = PrintPlain(report, format, stdout)
	}

	if err != nil {
		return err
	}

	if options.Strict && report.Partial() {
		return &ExitError{
			Code: ExitPartial,
			Err:  fmt.Errorf("%d path(s) could not be read", len(report.Errors)),
		}
	}

	return nil
}
