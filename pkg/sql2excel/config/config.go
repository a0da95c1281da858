// Package config defines formatting, chart and layout defaults for report
// generation, with optional overrides loaded from a YAML file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Chart position values.
const (
	PositionRight  = "right"
	PositionBottom = "bottom"
)

// Font describes a cell or chart text font.
type Font struct {
	Name  string  `yaml:"name"`
	Size  float64 `yaml:"size"`
	Bold  bool    `yaml:"bold"`
	Color string  `yaml:"color"`
}

// Config carries all defaults used while writing data and charts. Any chart
// option left unset on a per-query basis falls back to these values.
type Config struct {
	// Cell fonts.
	SectionHeadingFont Font `yaml:"section_heading_font"`
	TableTitleFont     Font `yaml:"table_title_font"`

	// Chart text fonts.
	ChartTitleFont Font `yaml:"chart_title_font"`
	AxisFont       Font `yaml:"axis_font"`

	// Layout. ChartPosition is "right" (next to the data block) or "bottom"
	// (below it). Separators count blank rows or columns between blocks.
	ChartPosition      string `yaml:"chart_position"`
	SectionSeparator   int    `yaml:"section_separator"`
	DataChartSeparator int    `yaml:"data_chart_separator"`
	DataDataSeparator  int    `yaml:"data_data_separator"`

	// RowHeight approximates worksheet row height in pixels and drives how
	// many rows an anchored chart is assumed to cover.
	RowHeight float64 `yaml:"row_height"`

	// Chart dimensions in pixels. Zero keeps the excelize default.
	ChartWidth  uint `yaml:"chart_width"`
	ChartHeight uint `yaml:"chart_height"`

	// Series colors. DefaultColors leaves coloring to excelize.
	Palette       []string `yaml:"palette"`
	DefaultColors bool     `yaml:"default_colors"`

	// Legend.
	ShowLegend     bool   `yaml:"show_legend"`
	LegendPosition string `yaml:"legend_position"`

	// X-axis tick label rotation in degrees.
	TickRotation int `yaml:"tick_rotation"`

	// Line charts.
	LineWidth  float64 `yaml:"line_width"`
	LineSmooth bool    `yaml:"line_smooth"`

	// Reference (baseline) series styling. A data column holding a single
	// repeated value is drawn as a comparison line in this color and width
	// instead of taking a palette slot.
	UseRefLine   bool    `yaml:"use_ref_line"`
	RefLineColor string  `yaml:"ref_line_color"`
	RefLineWidth float64 `yaml:"ref_line_width"`

	// Markers.
	MarkerSize    int      `yaml:"marker_size"`
	MarkerSymbols []string `yaml:"marker_symbols"`

	// Radar charts.
	RadarUnitSteps int     `yaml:"radar_unit_steps"`
	RadarRefWidth  float64 `yaml:"radar_ref_width"`

	// Pie data labels.
	ShowPercent   bool `yaml:"show_percent"`
	ShowCatName   bool `yaml:"show_cat_name"`
	ShowLegendKey bool `yaml:"show_legend_key"`
	ShowVal       bool `yaml:"show_val"`
	ShowSerName   bool `yaml:"show_ser_name"`

	// Bar charts.
	BarVaryColors bool `yaml:"bar_vary_colors"`

	// Rendered figure dimensions in pixels.
	ImageWidth  int `yaml:"image_width"`
	ImageHeight int `yaml:"image_height"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		SectionHeadingFont: Font{Name: "Calibri", Size: 11, Bold: true, Color: "1A1A1A"},
		TableTitleFont:     Font{Name: "Calibri", Size: 10, Bold: true, Color: "1A1A1A"},
		ChartTitleFont:     Font{Name: "Calibri", Size: 11, Bold: true, Color: "1A1A1A"},
		AxisFont:           Font{Name: "Calibri", Size: 10, Color: "000000"},

		ChartPosition:      PositionRight,
		SectionSeparator:   2,
		DataChartSeparator: 1,
		DataDataSeparator:  1,
		RowHeight:          20,

		ChartWidth:  480,
		ChartHeight: 290,

		Palette: []string{
			"0078D7",
			"FD625E",
			"73B761",
			"FF8C00",
			"A66999",
			"00BFFF",
			"D83B01",
			"2FBE8F",
			"FE9666",
			"D8BFD8",
		},

		ShowLegend:     true,
		LegendPosition: "bottom",

		TickRotation: -45,

		LineWidth:  1.5,
		LineSmooth: true,

		UseRefLine:   true,
		RefLineColor: "1A1A1A",
		RefLineWidth: 1.5,

		MarkerSize: 6,
		MarkerSymbols: []string{
			"circle",
			"triangle",
			"star",
			"diamond",
			"plus",
			"x",
			"square",
			"dot",
			"dash",
		},

		RadarRefWidth: 2,

		ShowPercent: true,
		ShowCatName: true,

		ImageWidth:  480,
		ImageHeight: 290,
	}
}

// Load reads a YAML file and overlays it on the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
