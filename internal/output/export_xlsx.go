package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/aurceive/weaponmeta/internal/domain"
	"github.com/aurceive/weaponmeta/internal/metrics"

	"github.com/xuri/excelize/v2"
)

const (
	SheetWeapons    = "Weapons"
	SheetComparison = "Comparison"
	SheetDamage     = "Damage"
	SheetTTK        = "TTK"
)

func colName(n int) string {
	// 1-indexed: 1 -> A, 26 -> Z, 27 -> AA
	if n <= 0 {
		return ""
	}
	out := ""
	for n > 0 {
		n--
		out = string(rune('A'+(n%26))) + out
		n /= 26
	}
	return out
}

func cell(col, row int) string {
	return fmt.Sprintf("%s%d", colName(col), row)
}

// ExportReportXLSX writes the weapon table, the comparison stats and both
// charts (damage over distance, time to kill) into one workbook.
func ExportReportXLSX(path string, records []domain.WeaponRecord, r metrics.Report) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SheetWeapons); err != nil {
		return err
	}
	for _, sheet := range []string{SheetComparison, SheetDamage, SheetTTK} {
		if _, err := f.NewSheet(sheet); err != nil {
			return err
		}
	}

	if err := writeWeaponsSheet(f, records); err != nil {
		return fmt.Errorf("sheet %s: %w", SheetWeapons, err)
	}
	if err := writeComparisonSheet(f, r); err != nil {
		return fmt.Errorf("sheet %s: %w", SheetComparison, err)
	}
	if err := writeDamageSheet(f, r); err != nil {
		return fmt.Errorf("sheet %s: %w", SheetDamage, err)
	}
	if err := writeTTKSheet(f, r); err != nil {
		return fmt.Errorf("sheet %s: %w", SheetTTK, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return f.SaveAs(path)
}

// writeWeaponsSheet uses field keys as headers so ImportWeaponsXLSX can map
// columns back to fields.
func writeWeaponsSheet(f *excelize.File, records []domain.WeaponRecord) error {
	for i, field := range domain.Fields {
		if err := f.SetCellValue(SheetWeapons, cell(i+1, 1), field.Key); err != nil {
			return err
		}
	}
	for rowIdx := range records {
		row := rowIdx + 2
		for i, field := range domain.Fields {
			var v any
			if field.Kind == domain.FieldText {
				v = *field.Text(&records[rowIdx])
			} else {
				v = *field.Number(&records[rowIdx])
			}
			if err := f.SetCellValue(SheetWeapons, cell(i+1, row), v); err != nil {
				return err
			}
		}
	}
	headerStyleID, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetWeapons, "A1", cell(len(domain.Fields), 1), headerStyleID); err != nil {
		return err
	}
	return f.SetPanes(SheetWeapons, &excelize.Panes{Freeze: true, XSplit: 1, YSplit: 1, TopLeftCell: "B2", ActivePane: "bottomRight"})
}

func writeComparisonSheet(f *excelize.File, r metrics.Report) error {
	header := []any{"Metric", columnTitle(r.Primary), columnTitle(r.Compare)}
	if err := f.SetSheetRow(SheetComparison, "A1", &header); err != nil {
		return err
	}
	if err := f.SetCellValue(SheetComparison, "E1", "Target HP"); err != nil {
		return err
	}
	if err := f.SetCellValue(SheetComparison, "F1", r.TotalEffectiveHP); err != nil {
		return err
	}
	for i, row := range comparisonRows {
		values := []any{row.label, missing, missing}
		if r.Primary != nil {
			values[1] = row.value(r.Primary.Stats)
		}
		if r.Compare != nil {
			values[2] = row.value(r.Compare.Stats)
		}
		if err := f.SetSheetRow(SheetComparison, cell(1, i+2), &values); err != nil {
			return err
		}
	}
	return nil
}

type seriesColumn struct {
	title  string
	points []metrics.Point
}

func damageColumns(r metrics.Report) []seriesColumn {
	var cols []seriesColumn
	if w := r.Primary; w != nil {
		cols = append(cols,
			seriesColumn{"Body Damage", w.Damage.Body},
			seriesColumn{"Head Damage", w.Damage.Head},
			seriesColumn{"Limb Damage", w.Damage.Limb},
		)
	}
	if w := r.Compare; w != nil {
		cols = append(cols,
			seriesColumn{"Compare Body", w.Damage.Body},
			seriesColumn{"Compare Head", w.Damage.Head},
		)
	}
	return cols
}

func writeDamageSheet(f *excelize.File, r metrics.Report) error {
	cols := damageColumns(r)
	if len(cols) == 0 {
		return f.SetCellValue(SheetDamage, "A1", "No weapon selected")
	}
	if err := f.SetCellValue(SheetDamage, "A1", "Distance (m)"); err != nil {
		return err
	}
	n := len(cols[0].points)
	for i, p := range cols[0].points {
		if err := f.SetCellValue(SheetDamage, cell(1, i+2), p.X); err != nil {
			return err
		}
	}
	for c, col := range cols {
		if err := f.SetCellValue(SheetDamage, cell(c+2, 1), col.title); err != nil {
			return err
		}
		for i, p := range col.points {
			if err := f.SetCellValue(SheetDamage, cell(c+2, i+2), p.Y); err != nil {
				return err
			}
		}
	}
	return addLineChart(f, SheetDamage, len(cols), n, "Damage Analysis", "Damage")
}

type killColumn struct {
	title  string
	points []metrics.KillPoint
}

func writeTTKSheet(f *excelize.File, r metrics.Report) error {
	var cols []killColumn
	if r.Primary != nil {
		title := "Primary TTK (" + strconv.FormatFloat(r.TotalEffectiveHP, 'f', -1, 64) + " HP)"
		cols = append(cols, killColumn{title, r.Primary.TimeToKill})
	}
	if r.Compare != nil {
		cols = append(cols, killColumn{"Compare TTK", r.Compare.TimeToKill})
	}
	if len(cols) == 0 {
		return f.SetCellValue(SheetTTK, "A1", "No weapon selected")
	}

	if err := f.SetCellValue(SheetTTK, "A1", "Distance (m)"); err != nil {
		return err
	}
	n := len(cols[0].points)
	for i, p := range cols[0].points {
		if err := f.SetCellValue(SheetTTK, cell(1, i+2), p.Distance); err != nil {
			return err
		}
	}
	for c, col := range cols {
		if err := f.SetCellValue(SheetTTK, cell(c+2, 1), col.title); err != nil {
			return err
		}
		for i, p := range col.points {
			// Invalid kills stay blank so the chart shows a gap.
			if !p.Valid {
				continue
			}
			if err := f.SetCellValue(SheetTTK, cell(c+2, i+2), p.Seconds); err != nil {
				return err
			}
		}
	}
	return addLineChart(f, SheetTTK, len(cols), n, "Time-To-Kill", "Seconds")
}

// addLineChart plots columns B.. against the distance column A.
func addLineChart(f *excelize.File, sheet string, seriesCount, rows int, title, yTitle string) error {
	if rows == 0 {
		return nil
	}
	lastRow := rows + 1
	categories := fmt.Sprintf("%s!$A$2:$A$%d", sheet, lastRow)
	series := make([]excelize.ChartSeries, 0, seriesCount)
	for c := 0; c < seriesCount; c++ {
		col := colName(c + 2)
		series = append(series, excelize.ChartSeries{
			Name:       fmt.Sprintf("%s!$%s$1", sheet, col),
			Categories: categories,
			Values:     fmt.Sprintf("%s!$%s$2:$%s$%d", sheet, col, col, lastRow),
		})
	}
	return f.AddChart(sheet, cell(seriesCount+3, 2), &excelize.Chart{
		Type:   excelize.Line,
		Series: series,
		Title:  []excelize.RichTextRun{{Text: title}},
		XAxis:  excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: "Distance (m)"}}},
		YAxis:  excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: yTitle}}},
		Dimension: excelize.ChartDimension{
			Width:  720,
			Height: 360,
		},
	})
}
