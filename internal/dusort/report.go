package dusort

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// TotalName labels the summary line of a report.
const TotalName = "Total"

// Sort returns a copy of entries ordered by ascending size, ties broken by
// name.
func Sort(entries []Entry) []Entry {
	sorted := slices.Clone(entries)

	slices.SortStableFunc(sorted, func(a, b Entry) int {
		if c := cmp.Compare(a.Size, b.Size); c != 0 {
			return c
		}

		return strings.Compare(a.Name, b.Name)
	})

	return sorted
}

// sortErrors orders errs by path, in place.
func sortErrors(errs []ScanError) {
	slices.SortStableFunc(errs, func(a, b ScanError) int {
		return strings.Compare(a.Path, b.Path)
	})
}

// Total sums the sizes of entries.
func Total(entries []Entry) int64 {
	var total int64

	for _, e := range entries {
		total += e.Size
	}

	return total
}

// DisplayName returns the entry name with a kind marker: a trailing "/" for
// directories and "@" for symlinks.
func DisplayName(e Entry) string {
	switch e.Kind {
	case KindDirectory:
		return e.Name + "/"
	case KindSymlink:
		return e.Name + "@"
	default:
		return e.Name
	}
}

// FormatOptions controls FormatReport.
type FormatOptions struct {
	// Scale selects the units. The zero value means Binary.
	Scale Scale
	// Total appends a line with the sum of all entries.
	Total bool
	// HideErrors drops the error section.
	HideErrors bool
}

// FormatReport renders entries ascending by size, one per line, followed by
// an optional total line and a listing of the paths that could not be read.
func FormatReport(entries []Entry, errs []ScanError, opt FormatOptions) []string {
	sorted := Sort(entries)

	rows := make([][3]string, 0, len(sorted)+1)

	for _, e := range sorted {
		value, unit := opt.Scale.Split(e.Size)
		rows = append(rows, [3]string{value, unit, DisplayName(e)})
	}

	if opt.Total {
		value, unit := opt.Scale.Split(Total(sorted))
		rows = append(rows, [3]string{value, unit, TotalName})
	}

	var valueWidth, unitWidth int

	for _, r := range rows {
		valueWidth = max(valueWidth, len(r[0]))
		unitWidth = max(unitWidth, len(r[1]))
	}

	lines := make([]string, 0, len(rows)+len(errs)+2)

	for _, r := range rows {
		lines = append(lines, fmt.Sprintf("%*s %-*s  %s", valueWidth, r[0], unitWidth, r[1], r[2]))
	}

	if len(errs) == 0 || opt.HideErrors {
		return lines
	}

	sortedErrs := slices.Clone(errs)
	sortErrors(sortedErrs)

	lines = append(lines, "", fmt.Sprintf("errors (%d):", len(sortedErrs)))

	for _, se := range sortedErrs {
		lines = append(lines, fmt.Sprintf("  %s: %s", se.Path, se.Cause))
	}

	return lines
}
