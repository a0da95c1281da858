package chart

import (
	"go.uber.org/zap"

	"github.com/sql2excel/sql2excel-go/pkg/sql2excel/config"
	"github.com/sql2excel/sql2excel-go/pkg/sql2excel/excel"
)

// constructor builds a plotter for one chart kind.
type constructor func(cfg config.Config, helper *excel.Helper, log *zap.Logger) Plotter

var kinds = map[string]constructor{
	"chart": func(cfg config.Config, h *excel.Helper, l *zap.Logger) Plotter { return NewWriter(cfg, h, l) },
	"table": func(cfg config.Config, h *excel.Helper, l *zap.Logger) Plotter { return NewWriter(cfg, h, l) },
	"line":  func(cfg config.Config, h *excel.Helper, l *zap.Logger) Plotter { return NewLine(cfg, h, l) },
	"bar":   func(cfg config.Config, h *excel.Helper, l *zap.Logger) Plotter { return NewBar(cfg, h, l) },
	"stackedbar": func(cfg config.Config, h *excel.Helper, l *zap.Logger) Plotter {
		return NewStackedBar(cfg, h, l)
	},
	"pie":     func(cfg config.Config, h *excel.Helper, l *zap.Logger) Plotter { return NewPie(cfg, h, l) },
	"area":    func(cfg config.Config, h *excel.Helper, l *zap.Logger) Plotter { return NewArea(cfg, h, l) },
	"scatter": func(cfg config.Config, h *excel.Helper, l *zap.Logger) Plotter { return NewScatter(cfg, h, l) },
	"bubble":  func(cfg config.Config, h *excel.Helper, l *zap.Logger) Plotter { return NewBubble(cfg, h, l) },
	"radar":   func(cfg config.Config, h *excel.Helper, l *zap.Logger) Plotter { return NewRadar(cfg, h, l) },
	"barline": func(cfg config.Config, h *excel.Helper, l *zap.Logger) Plotter { return NewBarLine(cfg, h, l) },
	"image":   func(cfg config.Config, h *excel.Helper, l *zap.Logger) Plotter { return NewFigure(cfg, h, l) },
	"figure":  func(cfg config.Config, h *excel.Helper, l *zap.Logger) Plotter { return NewFigure(cfg, h, l) },
}

// New returns the plotter for the given kind name, or false when the kind is
// unknown. Kind names are case-insensitive.
func New(kind string, cfg config.Config, helper *excel.Helper, log *zap.Logger) (Plotter, bool) {
	build, ok := kinds[normalizeKind(kind)]
	if !ok {
		return nil, false
	}
	return build(cfg, helper, log), true
}

// Kinds lists the registered kind names.
func Kinds() []string {
	names := make([]string, 0, len(kinds))
	for name := range kinds {
		names = append(names, name)
	}
	return names
}

func normalizeKind(kind string) string {
	out := make([]rune, 0, len(kind))
	for _, r := range kind {
		switch {
		case r >= 'A' && r <= 'Z':
			out = append(out, r+('a'-'A'))
		case r == ' ' || r == '_' || r == '-':
		default:
			out = append(out, r)
		}
	}
	return string(out)
}
