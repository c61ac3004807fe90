package materialize

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"pilesort/internal/piles"
)

// ReportFileName is the statistics file written into the destination root.
const ReportFileName = "pilesort-report.txt"

// Report captures the aggregate outcome of one sort run.
type Report struct {
	RunID     string
	StartedAt time.Time
	Duration  time.Duration
	Source    string
	Stats     piles.Stats
	Skipped   int
}

// Render produces the human-readable report body.
func (r Report) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "pilesort run %s\n", r.RunID)
	fmt.Fprintf(&b, "started:  %s\n", r.StartedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "duration: %s\n", r.Duration.Round(time.Millisecond))
	fmt.Fprintf(&b, "source:   %s\n", r.Source)
	b.WriteString("\n")
	fmt.Fprintf(&b, "images:  %d\n", r.Stats.Images)
	fmt.Fprintf(&b, "piles:   %d\n", r.Stats.Piles)
	fmt.Fprintf(&b, "skipped: %d\n", r.Skipped)
	fmt.Fprintf(&b, "pile size (avg/med/max): %.1f/%d/%d\n",
		r.Stats.AvgSize, r.Stats.MedianSize, r.Stats.MaxSize)
	fmt.Fprintf(&b, "longest time spread: %dmin\n",
		int64(r.Stats.LongestSpread.Minutes()))
	return b.String()
}

// WriteReport persists the report into the destination root.
func WriteReport(dest string, report Report) error {
	path := filepath.Join(dest, ReportFileName)
	if err := os.WriteFile(path, []byte(report.Render()), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
