package engine

// ============================================================================
// CHART BUILDER — Produces ChartConfig from a Result
// ============================================================================
// One series per top-level group (its subtotal when there are several levels,
// else its leaf), one point per period, for a single measure.
// ============================================================================

// Default color palette for chart series.
var defaultColors = []string{
	"#4F46E5", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6",
	"#06B6D4", "#EC4899", "#84CC16", "#F97316", "#6366F1",
}

// ChartConfig defines how to render a chart.
type ChartConfig struct {
	ChartType  string        `json:"chartType"`
	Title      string        `json:"title"`
	XAxis      string        `json:"xAxis,omitempty"`
	YAxis      string        `json:"yAxis,omitempty"`
	Series     []ChartSeries `json:"series"`
	Colors     []string      `json:"colors,omitempty"`
	ShowLegend bool          `json:"showLegend"`
	ShowGrid   bool          `json:"showGrid"`
}

// ChartSeries represents a data series in a chart.
type ChartSeries struct {
	Name  string       `json:"name"`
	Data  []ChartPoint `json:"data"`
	Color string       `json:"color,omitempty"`
}

// ChartPoint represents a single data point.
type ChartPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// BuildChart produces a line chart of one measure over the periods.
// An empty measure selects the first one. Returns nil when there is nothing to plot.
func BuildChart(result *Result, measure string) *ChartConfig {
	if result == nil || len(result.Periods) == 0 || len(result.Measures) == 0 {
		return nil
	}
	if measure == "" {
		measure = result.Measures[0]
	}

	var groups []*SummaryRecord
	for i := range result.Records {
		rec := &result.Records[i]
		switch {
		case rec.IsGrandTotal():
			continue
		case result.Levels > 1 && rec.IsSubtotal():
			groups = append(groups, rec)
		case result.Levels <= 1 && rec.IsLeaf():
			groups = append(groups, rec)
		}
	}
	if len(groups) == 0 {
		return nil
	}

	series := make([]ChartSeries, 0, len(groups))
	for i, rec := range groups {
		points := make([]ChartPoint, 0, len(result.Periods))
		for _, p := range result.Periods {
			points = append(points, ChartPoint{
				Label: p.Label,
				Value: RoundTo2(rec.Value(p.Label, measure)),
			})
		}
		name := rec.Label(0)
		if name == "" {
			name = string(rec.Key)
		}
		series = append(series, ChartSeries{
			Name:  name,
			Data:  points,
			Color: defaultColors[i%len(defaultColors)],
		})
	}

	return &ChartConfig{
		ChartType:  "line",
		Title:      result.Title,
		XAxis:      "Period",
		YAxis:      measure,
		Series:     series,
		Colors:     assignColors(len(series)),
		ShowLegend: len(series) > 1,
		ShowGrid:   true,
	}
}

func assignColors(count int) []string {
	colors := make([]string, count)
	for i := 0; i < count; i++ {
		colors[i] = defaultColors[i%len(defaultColors)]
	}
	return colors
}
