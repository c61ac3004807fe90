package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"

	"pilesort/internal/materialize"
)

const timeRounding = time.Millisecond

// renderStats summarizes a sort run. Interactive terminals get a table;
// everything else gets the plain report body so output stays grep-friendly.
func renderStats(report materialize.Report) string {
	if !isTerminal(os.Stdout) {
		return report.Render()
	}

	rows := [][]string{
		{"images", strconv.Itoa(report.Stats.Images)},
		{"piles", strconv.Itoa(report.Stats.Piles)},
		{"skipped", strconv.Itoa(report.Skipped)},
		{"avg pile size", fmt.Sprintf("%.1f", report.Stats.AvgSize)},
		{"median pile size", strconv.Itoa(report.Stats.MedianSize)},
		{"largest pile", strconv.Itoa(report.Stats.MaxSize)},
		{"longest spread", fmt.Sprintf("%dmin", int64(report.Stats.LongestSpread.Minutes()))},
		{"duration", report.Duration.Round(timeRounding).String()},
	}
	return renderTable([]string{"Metric", "Value"}, rows)
}

func renderTable(headers []string, rows [][]string) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, len(row))
		for i, cell := range row {
			r[i] = cell
		}
		tw.AppendRow(r)
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
		{Number: 2, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})

	return tw.Render()
}

func isTerminal(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
