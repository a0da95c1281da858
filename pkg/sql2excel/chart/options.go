package chart

import (
	"strings"
)

// Limit bounds an axis.
type Limit struct {
	Min float64
	Max float64
}

// Options customizes a single data block and its chart. The zero value keeps
// every configuration default; pointer fields distinguish "unset" from an
// explicit false or zero.
type Options struct {
	// Data block placement and labelling.
	SectionHeading   string
	Headings         []string
	TableTitles      []string
	HeadingsPerFrame [][]string
	RowStart         int
	ColumnStart      int
	ColumnLetter     string

	// Data range selection. Column indexes are 1-based positions within the
	// data block; DataColumns selects non-adjacent columns.
	DataColumnStart int
	DataColumnEnd   int
	DataColumns     []int

	// Chart text.
	Title  string
	XLabel string
	YLabel string

	// Axes.
	XLim       *Limit
	YLim       *Limit
	Rotation   *int
	XLogBase   float64
	YLogBase   float64
	ReverseY   bool
	YMajorUnit float64
	XTickLabelPosition string
	YTickLabelPosition string

	// Dimensions in pixels.
	Width  uint
	Height uint

	// Legend.
	ShowLegend     *bool
	LegendPosition string

	// Placement of the chart relative to its data block: "right" or "bottom".
	Position                string
	SuppressPositionWarning bool

	// Colors and lines.
	VaryColors    *bool
	DefaultColors bool
	NoFill        bool
	LineColor     string
	LineWidth     float64
	Smooth        *bool

	// Markers.
	MarkerSymbol  string
	MarkerSymbols []string
	MarkerSize    int

	// Reference (baseline) series detection toggle.
	UseRefLine *bool

	// Kind-specific settings. ChartType is the bar direction ("col"/"bar")
	// or the radar variant; Grouping is "stacked" or "percentStacked".
	ChartType string
	Grouping  string

	// Pie data labels.
	ShowPercent   *bool
	ShowCatName   *bool
	ShowLegendKey *bool
	ShowVal       *bool
	ShowSerName   *bool

	// Radar y-axis unit: explicit value or number of steps over the data
	// extent.
	RadarUnit      float64
	RadarUnitSteps int

	// Two-axes charts: settings for the secondary y-axis.
	YLabel2     string
	YLim2       *Limit
	YMajorUnit2 float64
	YLogBase2   float64
	ReverseY2   bool

	// Embedded figures.
	ImagePath  string
	FigureKind string
}

// OptionsFromMap builds Options from untyped key/value pairs, as produced by
// the annotated SQL script parser. Unknown keys are ignored; they may be
// meaningful to the report layer (chart, sheetname, pivot columns).
func OptionsFromMap(m map[string]any) Options {
	var o Options
	for key, v := range m {
		switch key {
		case "section_heading":
			o.SectionHeading = asString(v)
		case "headings":
			o.Headings = asStringSlice(v)
		case "df_headings", "table_titles":
			o.TableTitles = asStringSlice(v)
		case "row_start":
			o.RowStart = asInt(v)
		case "column_start":
			if n := asInt(v); n > 0 {
				o.ColumnStart = n
			} else {
				o.ColumnLetter = asString(v)
			}
		case "data_column_start":
			o.DataColumnStart = asInt(v)
		case "data_column_end":
			o.DataColumnEnd = asInt(v)
		case "data_columns":
			o.DataColumns = asIntSlice(v)
		case "title":
			o.Title = asString(v)
		case "xlabel":
			o.XLabel = asString(v)
		case "ylabel":
			o.YLabel = asString(v)
		case "ylabel2":
			o.YLabel2 = asString(v)
		case "xlim":
			o.XLim = asLimit(v)
		case "ylim":
			o.YLim = asLimit(v)
		case "ylim2":
			o.YLim2 = asLimit(v)
		case "rotation":
			n := asInt(v)
			o.Rotation = &n
		case "x_log_base":
			o.XLogBase = asFloat(v)
		case "y_log_base":
			o.YLogBase = asFloat(v)
		case "y_log_base2":
			o.YLogBase2 = asFloat(v)
		case "y_orientation":
			o.ReverseY = asString(v) == "maxMin"
		case "y_orientation2":
			o.ReverseY2 = asString(v) == "maxMin"
		case "yaxis_major_unit":
			o.YMajorUnit = asFloat(v)
		case "yaxis_major_unit2":
			o.YMajorUnit2 = asFloat(v)
		case "xtick_label_position":
			o.XTickLabelPosition = asString(v)
		case "ytick_label_position":
			o.YTickLabelPosition = asString(v)
		case "width":
			o.Width = uint(asInt(v))
		case "height":
			o.Height = uint(asInt(v))
		case "show_legend":
			b := asBool(v)
			o.ShowLegend = &b
		case "no_legend":
			b := !asBool(v)
			o.ShowLegend = &b
		case "legend_position":
			o.LegendPosition = LegendPosition(asString(v))
		case "chart_position":
			o.Position = asString(v)
		case "vary_color", "vary_colors":
			b := asBool(v)
			o.VaryColors = &b
		case "default_colors", "excel_colors":
			o.DefaultColors = asBool(v)
		case "nofill":
			o.NoFill = asBool(v)
		case "line_color":
			o.LineColor = asString(v)
		case "line_width":
			o.LineWidth = asFloat(v)
		case "smooth":
			b := asBool(v)
			o.Smooth = &b
		case "marker_symbol":
			o.MarkerSymbol = asString(v)
		case "marker_symbols":
			o.MarkerSymbols = asStringSlice(v)
		case "marker_size":
			o.MarkerSize = asInt(v)
		case "use_ref_line":
			b := asBool(v)
			o.UseRefLine = &b
		case "chart_type":
			o.ChartType = asString(v)
		case "chart_grouping":
			o.Grouping = asString(v)
		case "show_percentage":
			b := asBool(v)
			o.ShowPercent = &b
		case "show_category":
			b := asBool(v)
			o.ShowCatName = &b
		case "show_legend_key":
			b := asBool(v)
			o.ShowLegendKey = &b
		case "show_values":
			b := asBool(v)
			o.ShowVal = &b
		case "show_series_name":
			b := asBool(v)
			o.ShowSerName = &b
		case "radar_unit":
			o.RadarUnit = asFloat(v)
		case "radar_unit_steps":
			o.RadarUnitSteps = asInt(v)
		case "image", "image_path":
			o.ImagePath = asString(v)
		case "figure_kind":
			o.FigureKind = asString(v)
		}
	}
	return o
}

// LegendPosition maps short legend position codes to excelize values. Full
// names pass through unchanged.
func LegendPosition(pos string) string {
	switch pos {
	case "b":
		return "bottom"
	case "t":
		return "top"
	case "l":
		return "left"
	case "r":
		return "right"
	case "tr":
		return "top_right"
	default:
		return pos
	}
}

func asString(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

func asInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return 0
	}
}

func asFloat(v any) float64 {
	switch n := v.(type) {
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case float64:
		return n
	default:
		return 0
	}
}

func asBool(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		return strings.EqualFold(b, "true")
	default:
		return false
	}
}

func asIntSlice(v any) []int {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]int, 0, len(items))
	for _, item := range items {
		out = append(out, asInt(item))
	}
	return out
}

func asStringSlice(v any) []string {
	switch items := v.(type) {
	case []string:
		return items
	case []any:
		out := make([]string, 0, len(items))
		for _, item := range items {
			if s, ok := item.(string); ok {
				out = append(out, s)
			} else {
				out = append(out, asString(item))
			}
		}
		return out
	default:
		return nil
	}
}

func asLimit(v any) *Limit {
	items, ok := v.([]any)
	if !ok || len(items) != 2 {
		return nil
	}
	return &Limit{Min: asFloat(items[0]), Max: asFloat(items[1])}
}
