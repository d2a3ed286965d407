package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"

	"github.com/idelchi/dusort/internal/dusort"
)

// PrintPlain writes the report lines, one per entry.
func PrintPlain(report *dusort.Report, opt dusort.FormatOptions, writer io.Writer) error {
	for _, line := range dusort.FormatReport(report.Entries, report.Errors, opt) {
		if _, err := fmt.Fprintln(writer, line); err != nil {
			return err
		}
	}

	return nil
}

// jsonEntry adds the rendered size to an entry.
type jsonEntry struct {
	dusort.Entry

	Human string `json:"human"`
}

type jsonReport struct {
	*dusort.Report

	Entries []jsonEntry  `json:"entries"`
	Scale   dusort.Scale `json:"scale"`
}

// PrintJSON outputs the report in JSON format, entries sorted ascending.
func PrintJSON(report *dusort.Report, opt dusort.FormatOptions, writer io.Writer) error {
	out := jsonReport{Report: report, Scale: opt.Scale, Entries: []jsonEntry{}}

	for _, e := range dusort.Sort(report.Entries) {
		out.Entries = append(out.Entries, jsonEntry{Entry: e, Human: opt.Scale.Format(e.Size)})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding JSON output: %w", err)
	}

	if _, err := fmt.Fprintln(writer, string(data)); err != nil {
		return err
	}

	return nil
}

func newTable(writer io.Writer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(writer)
	table.SetHeader(header)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetBorder(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetTablePadding("  ")
	table.SetNoWhiteSpace(true)

	return table
}

// PrintTable outputs the report as an aligned table with exact byte counts.
func PrintTable(report *dusort.Report, opt dusort.FormatOptions, writer io.Writer) error {
	table := newTable(writer, []string{"SIZE", "BYTES", "NAME"})
	table.SetColumnAlignment([]int{tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_LEFT})

	for _, e := range dusort.Sort(report.Entries) {
		table.Append([]string{opt.Scale.Format(e.Size), humanize.Comma(e.Size), dusort.DisplayName(e)})
	}

	if opt.Total {
		total := dusort.Total(report.Entries)
		table.Append([]string{opt.Scale.Format(total), humanize.Comma(total), dusort.TotalName})
	}

	table.Render()

	if len(report.Errors) == 0 || opt.HideErrors {
		return nil
	}

	errs := slices.Clone(report.Errors)
	slices.SortFunc(errs, func(a, b dusort.ScanError) int {
		return strings.Compare(a.Path, b.Path)
	})

	if _, err := fmt.Fprintf(writer, "\nerrors (%d):\n", len(errs)); err != nil {
		return err
	}

	errTable := newTable(writer, []string{"PATH", "CAUSE"})

	for _, se := range errs {
		errTable.Append([]string{se.Path, se.Cause.String()})
	}

	errTable.Render()

	return nil
}
