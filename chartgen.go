package main

import (
	"fmt"
	"io"
	"math"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ChartType names the rendering shapes the UI understands.
type ChartType string

const (
	ChartTable     ChartType = "table"
	ChartMetric    ChartType = "metric"
	ChartBar       ChartType = "bar"
	ChartLine      ChartType = "line"
	ChartPie       ChartType = "pie"
	ChartScatter   ChartType = "scatter"
	ChartHistogram ChartType = "histogram"
)

// ValidChartType reports whether s names a renderable chart type.
func ValidChartType(s string) bool {
	switch ChartType(s) {
	case ChartTable, ChartMetric, ChartBar, ChartLine, ChartPie, ChartScatter, ChartHistogram:
		return true
	}
	return false
}

// DetectChartType picks the best default rendering for a result table.
func DetectChartType(t *ResultTable) ChartType {
	if t == nil || t.Empty() {
		return ChartTable
	}

	kinds := t.ColumnKinds()
	numeric := 0
	timeCols := 0
	for _, k := range kinds {
		switch k {
		case KindNumber:
			numeric++
		case KindTime:
			timeCols++
		}
	}
	other := len(kinds) - numeric

	// A single numeric column reads best as a headline number.
	if len(kinds) == 1 && numeric == 1 {
		return ChartMetric
	}

	if len(kinds) == 2 && numeric == 1 && other == 1 {
		if t.RowCount() <= 20 {
			return ChartBar
		}
		return ChartLine
	}

	if numeric >= 2 {
		return ChartLine
	}

	if timeCols > 0 && numeric > 0 {
		return ChartLine
	}

	return ChartTable
}

const (
	chartWidth  = 900
	chartHeight = 500
	maxPieSlices = 12
)

var chartPalette = []drawing.Color{
	{R: 0x8d, G: 0xd3, B: 0xc7, A: 255},
	{R: 0xfb, G: 0x80, B: 0x72, A: 255},
	{R: 0x80, G: 0xb1, B: 0xd3, A: 255},
	{R: 0xfd, G: 0xb4, B: 0x62, A: 255},
	{R: 0xb3, G: 0xde, B: 0x69, A: 255},
	{R: 0xbc, G: 0x80, B: 0xbd, A: 255},
}

// RenderChartPNG draws the table as the requested chart type. Callers
// pass empty column names to accept the defaults.
func RenderChartPNG(w io.Writer, t *ResultTable, kind ChartType, title, xColumn, yColumn string) error {
	if t == nil || t.Empty() {
		return fmt.Errorf("no data to chart")
	}

	switch kind {
	case ChartBar:
		return renderBarPNG(w, t, title, xColumn, yColumn)
	case ChartMetric:
		// A headline number draws as a bar of one value.
		return renderBarPNG(w, t, title, xColumn, yColumn)
	case ChartLine:
		return renderLinePNG(w, t, title, xColumn, yColumn)
	case ChartPie:
		return renderPiePNG(w, t, title, xColumn, yColumn)
	case ChartScatter:
		return renderScatterPNG(w, t, title, xColumn, yColumn)
	case ChartHistogram:
		return renderHistogramPNG(w, t, title, yColumn)
	default:
		return fmt.Errorf("chart type %q is not renderable", kind)
	}
}

// xyColumns resolves the label and value columns, defaulting to the
// first column and the second (or first numeric) column.
func xyColumns(t *ResultTable, xColumn, yColumn string) (int, int, error) {
	x := 0
	if xColumn != "" {
		if x = t.ColumnIndex(xColumn); x < 0 {
			return 0, 0, fmt.Errorf("column %q not in result", xColumn)
		}
	}

	y := -1
	if yColumn != "" {
		if y = t.ColumnIndex(yColumn); y < 0 {
			return 0, 0, fmt.Errorf("column %q not in result", yColumn)
		}
	} else if t.ColumnCount() > 1 {
		y = 1
		if numeric := t.NumericColumns(); len(numeric) > 0 {
			y = numeric[0]
			if y == x && len(numeric) > 1 {
				y = numeric[1]
			}
		}
	} else {
		y = 0
	}
	return x, y, nil
}

func renderBarPNG(w io.Writer, t *ResultTable, title, xColumn, yColumn string) error {
	x, y, err := xyColumns(t, xColumn, yColumn)
	if err != nil {
		return err
	}

	var bars []chart.Value
	for i := range t.Rows {
		v, ok := t.Float64At(i, y)
		if !ok {
			continue
		}
		bars = append(bars, chart.Value{
			Label: t.StringAt(i, x),
			Value: v,
			Style: chart.Style{FillColor: chartPalette[i%len(chartPalette)], StrokeWidth: 0},
		})
	}
	if len(bars) == 0 {
		return fmt.Errorf("no numeric values in column %q", t.Columns[y])
	}

	// Anchor bars at zero. An explicit range also keeps single-value
	// results renderable, where the library rejects a zero span.
	lo, hi := 0.0, 0.0
	for _, b := range bars {
		lo = math.Min(lo, b.Value)
		hi = math.Max(hi, b.Value)
	}
	if hi == lo {
		hi = lo + 1
	}

	graph := chart.BarChart{
		Title:    title,
		Width:    chartWidth,
		Height:   chartHeight,
		BarWidth: 40,
		Bars:     bars,
		XAxis:    chart.Style{TextRotationDegrees: 45},
		YAxis:    chart.YAxis{Range: &chart.ContinuousRange{Min: lo, Max: hi}},
	}
	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("bar chart render failed: %w", err)
	}
	return nil
}

func renderLinePNG(w io.Writer, t *ResultTable, title, xColumn, yColumn string) error {
	x, _, err := xyColumns(t, xColumn, yColumn)
	if err != nil {
		return err
	}

	// Every numeric column becomes a series unless one was requested.
	var yCols []int
	if yColumn != "" {
		yCols = []int{t.ColumnIndex(yColumn)}
	} else {
		for _, c := range t.NumericColumns() {
			if c != x {
				yCols = append(yCols, c)
			}
		}
	}
	if len(yCols) == 0 {
		return fmt.Errorf("no numeric columns to plot")
	}

	xs := make([]float64, len(t.Rows))
	ticks := make([]chart.Tick, 0, len(t.Rows))
	for i := range t.Rows {
		xs[i] = float64(i)
		if len(t.Rows) <= 30 || i%int(math.Ceil(float64(len(t.Rows))/30)) == 0 {
			ticks = append(ticks, chart.Tick{Value: float64(i), Label: t.StringAt(i, x)})
		}
	}

	var series []chart.Series
	for n, col := range yCols {
		ys := make([]float64, len(t.Rows))
		for i := range t.Rows {
			v, _ := t.Float64At(i, col)
			ys[i] = v
		}
		series = append(series, chart.ContinuousSeries{
			Name:    t.Columns[col],
			XValues: xs,
			YValues: ys,
			Style: chart.Style{
				StrokeColor: chartPalette[n%len(chartPalette)],
				StrokeWidth: 2,
			},
		})
	}

	graph := chart.Chart{
		Title:  title,
		Width:  chartWidth,
		Height: chartHeight,
		XAxis:  chart.XAxis{Ticks: ticks},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}
	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("line chart render failed: %w", err)
	}
	return nil
}

func renderPiePNG(w io.Writer, t *ResultTable, title, xColumn, yColumn string) error {
	x, y, err := xyColumns(t, xColumn, yColumn)
	if err != nil {
		return err
	}

	var values []chart.Value
	for i := range t.Rows {
		if len(values) >= maxPieSlices {
			break
		}
		v, ok := t.Float64At(i, y)
		if !ok || v <= 0 {
			continue
		}
		values = append(values, chart.Value{Label: t.StringAt(i, x), Value: v})
	}
	if len(values) == 0 {
		return fmt.Errorf("no positive values in column %q", t.Columns[y])
	}

	graph := chart.PieChart{
		Title:  title,
		Width:  chartHeight,
		Height: chartHeight,
		Values: values,
	}
	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("pie chart render failed: %w", err)
	}
	return nil
}

func renderScatterPNG(w io.Writer, t *ResultTable, title, xColumn, yColumn string) error {
	numeric := t.NumericColumns()
	if len(numeric) == 0 {
		return fmt.Errorf("no numeric columns to plot")
	}

	x := numeric[0]
	if xColumn != "" {
		if x = t.ColumnIndex(xColumn); x < 0 {
			return fmt.Errorf("column %q not in result", xColumn)
		}
	}
	y := x
	if len(numeric) > 1 {
		y = numeric[1]
	}
	if yColumn != "" {
		if y = t.ColumnIndex(yColumn); y < 0 {
			return fmt.Errorf("column %q not in result", yColumn)
		}
	}

	xs := make([]float64, 0, len(t.Rows))
	ys := make([]float64, 0, len(t.Rows))
	for i := range t.Rows {
		xv, okX := t.Float64At(i, x)
		yv, okY := t.Float64At(i, y)
		if okX && okY {
			xs = append(xs, xv)
			ys = append(ys, yv)
		}
	}
	if len(xs) == 0 {
		return fmt.Errorf("no plottable points")
	}

	graph := chart.Chart{
		Title:  title,
		Width:  chartWidth,
		Height: chartHeight,
		XAxis:  chart.XAxis{Name: t.Columns[x]},
		YAxis:  chart.YAxis{Name: t.Columns[y]},
		Series: []chart.Series{
			chart.ContinuousSeries{
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeWidth: chart.Disabled,
					DotWidth:    4,
					DotColor:    chartPalette[2],
				},
			},
		},
	}
	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("scatter plot render failed: %w", err)
	}
	return nil
}

func renderHistogramPNG(w io.Writer, t *ResultTable, title, column string) error {
	numeric := t.NumericColumns()
	col := -1
	if column != "" {
		if col = t.ColumnIndex(column); col < 0 {
			return fmt.Errorf("column %q not in result", column)
		}
	} else if len(numeric) > 0 {
		col = numeric[0]
	} else {
		return fmt.Errorf("no numeric column to bin")
	}

	var values []float64
	min, max := math.Inf(1), math.Inf(-1)
	for i := range t.Rows {
		v, ok := t.Float64At(i, col)
		if !ok {
			continue
		}
		values = append(values, v)
		min = math.Min(min, v)
		max = math.Max(max, v)
	}
	if len(values) == 0 {
		return fmt.Errorf("no numeric values in column %q", t.Columns[col])
	}

	binCount := 10
	if len(values) < binCount {
		binCount = len(values)
	}
	width := (max - min) / float64(binCount)
	if width == 0 {
		width = 1
	}
	bins := make([]int, binCount)
	for _, v := range values {
		b := int((v - min) / width)
		if b >= binCount {
			b = binCount - 1
		}
		bins[b]++
	}

	bars := make([]chart.Value, binCount)
	for i, count := range bins {
		lo := min + float64(i)*width
		bars[i] = chart.Value{
			Label: fmt.Sprintf("%.4g", lo),
			Value: float64(count),
			Style: chart.Style{FillColor: chartPalette[2], StrokeWidth: 0},
		}
	}

	graph := chart.BarChart{
		Title:    title,
		Width:    chartWidth,
		Height:   chartHeight,
		BarWidth: (chartWidth - 100) / binCount,
		Bars:     bars,
	}
	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("histogram render failed: %w", err)
	}
	return nil
}
