package output

import (
	"fmt"
	"io"
	"strconv"

	"github.com/aurceive/weaponmeta/internal/domain"
	"github.com/aurceive/weaponmeta/internal/metrics"
)

const missing = "-"

type statRow struct {
	label string
	value func(metrics.ComparisonStats) string
}

var comparisonRows = []statRow{
	{"Rate of Fire", func(s metrics.ComparisonStats) string { return fmt.Sprintf("%.1f RPM", s.RateOfFire) }},
	{"DPS (Body)", func(s metrics.ComparisonStats) string { return fmt.Sprintf("%.1f", s.DPSBody) }},
	{"DPS (Head)", func(s metrics.ComparisonStats) string { return fmt.Sprintf("%.1f", s.DPSHead) }},
	{"BTK (Body)", func(s metrics.ComparisonStats) string { return formatBullets(s.Body) }},
	{"TTK (Body)", func(s metrics.ComparisonStats) string { return formatSeconds(s.Body) }},
	{"BTK (Head)", func(s metrics.ComparisonStats) string { return formatBullets(s.Head) }},
	{"TTK (Head)", func(s metrics.ComparisonStats) string { return formatSeconds(s.Head) }},
}

func formatBullets(k metrics.Kill) string {
	if !k.Valid {
		return missing
	}
	return strconv.Itoa(k.Bullets)
}

func formatSeconds(k metrics.Kill) string {
	if !k.Valid {
		return missing
	}
	return fmt.Sprintf("%.3fs", k.Seconds)
}

func columnTitle(w *metrics.WeaponReport) string {
	if w == nil {
		return "---"
	}
	name := domain.DisplayName(w.Name)
	if len(name) > 8 {
		name = name[:8]
	}
	return name
}

// PrintComparison writes the primary/compare stats table.
func PrintComparison(out io.Writer, r metrics.Report) {
	if r.Primary == nil {
		fmt.Fprintln(out, "Select a primary weapon to view stats")
		return
	}

	fmt.Fprintf(out, "Target: %.0f HP\n", r.TotalEffectiveHP)
	fmt.Fprintf(out, "%-14s %14s %14s\n", "METRIC", columnTitle(r.Primary), columnTitle(r.Compare))
	for _, row := range comparisonRows {
		cmp := missing
		if r.Compare != nil {
			cmp = row.value(r.Compare.Stats)
		}
		fmt.Fprintf(out, "%-14s %14s %14s\n", row.label, row.value(r.Primary.Stats), cmp)
	}
}
