// Package report computes profile metrics for every row of a spreadsheet.
package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"fitness-insights-go/internal/bodymetrics"
	"fitness-insights-go/internal/logger"
	"fitness-insights-go/internal/types"
)

const OutputSheet = "Metrics"

// Row is one profile read from the input workbook.
type Row struct {
	Line    int
	Name    string
	Profile types.ProfileSnapshot
}

// Result pairs a row with its metrics. OK is false when the row lacked the
// measurements the engine needs.
type Result struct {
	Row
	Metrics types.ProfileMetrics
	OK      bool
}

type columns struct {
	name, age, gender, weight, height, activity int
}

// Load reads profiles from sheet (the first sheet when empty), locating
// columns by header name.
func Load(path, sheet string) ([]Row, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("no sheets")
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	if len(rows) <= 1 {
		return nil, fmt.Errorf("no data rows")
	}

	cols := detectColumns(rows[0])
	if cols.age < 0 || cols.weight < 0 || cols.height < 0 {
		return nil, fmt.Errorf("missing age, weight or height column in header %v", rows[0])
	}

	var out []Row
	for i, r := range rows {
		if i == 0 {
			continue
		}
		if isBlank(r) {
			continue
		}
		out = append(out, Row{
			Line: i + 1,
			Name: cell(r, cols.name),
			Profile: types.ProfileSnapshot{
				Age:           int(parseNumber(cell(r, cols.age))),
				Gender:        strings.ToLower(cell(r, cols.gender)),
				WeightKg:      parseNumber(cell(r, cols.weight)),
				HeightCm:      parseNumber(cell(r, cols.height)),
				ActivityLevel: strings.ToLower(cell(r, cols.activity)),
			},
		})
	}
	return out, nil
}

// Compute runs the metrics engine over rows.
func Compute(rows []Row) []Result {
	out := make([]Result, 0, len(rows))
	for _, r := range rows {
		m, ok := bodymetrics.FromSnapshot(r.Profile)
		out = append(out, Result{Row: r, Metrics: m, OK: ok})
	}
	return out
}

// Write saves results to a new workbook at path.
func Write(path string, results []Result) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", OutputSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	header := []any{"Row", "Name", "Age", "Gender", "Weight (kg)", "Height (cm)", "Activity level",
		"BMI", "BMR", "Daily calories", "Status"}
	if err := f.SetSheetRow(OutputSheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, res := range results {
		p := res.Profile
		line := []any{res.Line, res.Name, p.Age, p.Gender, p.WeightKg, p.HeightCm, p.ActivityLevel}
		if res.OK {
			line = append(line, res.Metrics.BMI, res.Metrics.BMR, res.Metrics.DailyCalories, "ok")
		} else {
			line = append(line, nil, nil, nil, "insufficient data")
		}
		axis, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(OutputSheet, axis, &line); err != nil {
			return fmt.Errorf("write row %d: %w", res.Line, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// Run loads, computes and writes, logging a summary.
func Run(in, out, sheet string, log *logger.Logger) ([]Result, error) {
	log = log.WithComponent("report")
	rows, err := Load(in, sheet)
	if err != nil {
		log.WithError(err).Error("load failed")
		return nil, err
	}
	results := Compute(rows)

	skipped := 0
	for _, r := range results {
		if !r.OK {
			skipped++
			log.WithField("row", r.Line).Warn("insufficient profile data")
		}
	}
	if err := Write(out, results); err != nil {
		log.WithError(err).Error("write failed")
		return nil, err
	}
	log.WithField("rows", len(results)).WithField("skipped", skipped).WithField("out", out).Info("metrics report written")
	return results, nil
}

func detectColumns(header []string) columns {
	c := columns{name: -1, age: -1, gender: -1, weight: -1, height: -1, activity: -1}
	for i, h := range header {
		l := strings.ToLower(strings.TrimSpace(h))
		switch {
		case strings.Contains(l, "name") && c.name == -1:
			c.name = i
		case strings.Contains(l, "age") && c.age == -1:
			c.age = i
		case (strings.Contains(l, "gender") || strings.Contains(l, "sex")) && c.gender == -1:
			c.gender = i
		case strings.Contains(l, "weight") && c.weight == -1:
			c.weight = i
		case strings.Contains(l, "height") && c.height == -1:
			c.height = i
		case strings.Contains(l, "activity") && c.activity == -1:
			c.activity = i
		}
	}
	return c
}

func cell(r []string, idx int) string {
	if idx < 0 || idx >= len(r) {
		return ""
	}
	return strings.TrimSpace(r[idx])
}

func parseNumber(s string) float64 {
	f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil {
		return 0
	}
	return f
}

func isBlank(r []string) bool {
	for _, v := range r {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
