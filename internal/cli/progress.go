package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/schollz/progressbar/v3"
)

// spinner shows scan progress on stderr while the total is unknown.
type spinner struct {
	bar *progressbar.ProgressBar
}

func newSpinner(w io.Writer) *spinner {
	bar := progressbar.NewOptions64(
		-1,
		progressbar.OptionSetWriter(w),
		progressbar.OptionUseANSICodes(true),
		progressbar.OptionSetDescription("Scanning…"),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)

	return &spinner{bar: bar}
}

// Update matches dusort.ProgressFunc.
func (s *spinner) Update(files, bytes int64) {
	s.bar.Describe(fmt.Sprintf("Scanning… %s files, %s",
		humanize.Comma(files), humanize.IBytes(uint64(bytes)))) //nolint:gosec // Bytes is always positive
	_ = s.bar.Add64(1)
}

// Close clears the spinner line.
func (s *spinner) Close() {
	_ = s.bar.Finish()
}
