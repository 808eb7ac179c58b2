// Package chart turns a product's price history into plottable series,
// summary figures and data table rows, and renders them as PNG images or
// terminal plots.
package chart

import (
	"github.com/Veraticus/kahvi/internal/model"
)

// DefaultMaxLabels is the number of x axis labels kept visible when no other
// limit is configured.
const DefaultMaxLabels = 8

// Series names used in legends.
const (
	NormalSeriesName = "Normal price"
	BatchSeriesName  = "Batch price"
)

// Options controls how a Series is prepared.
type Options struct {
	MaxLabels   int
	BatchSeries bool
}

// Option configures Options.
type Option func(*Options)

// WithMaxLabels sets the visible label limit. Values below one fall back to
// DefaultMaxLabels.
func WithMaxLabels(n int) Option {
	return func(o *Options) {
		o.MaxLabels = n
	}
}

// WithBatchSeries enables the batch price series.
func WithBatchSeries(enabled bool) Option {
	return func(o *Options) {
		o.BatchSeries = enabled
	}
}

// LegendEntry pairs a series name with its position in the legend.
type LegendEntry struct {
	Name  string
	Index int
}

// Series is the chart-ready form of a price history. Labels, Values and,
// when present, Batch all have one entry per observation. Only every Step-th
// label is non-blank.
type Series struct {
	Product string
	Labels  []string
	Values  []float64
	Batch   []float64
	Legend  []LegendEntry
	Step    int
}

// HasBatch reports whether the batch price series is present.
func (s *Series) HasBatch() bool {
	return s != nil && s.Batch != nil
}

// Len returns the number of points.
func (s *Series) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Values)
}

// Prepare converts history into a Series. It returns nil for an empty
// history, meaning there is nothing to chart. Absent prices plot as zero.
// The history is expected in valid_from order and is not reordered.
func Prepare(history []model.PriceObservation, opts ...Option) *Series {
	if len(history) == 0 {
		return nil
	}

	options := Options{MaxLabels: DefaultMaxLabels}
	for _, opt := range opts {
		opt(&options)
	}
	if options.MaxLabels < 1 {
		options.MaxLabels = DefaultMaxLabels
	}

	n := len(history)
	step := max(1, n/options.MaxLabels)

	s := &Series{
		Product: history[0].NameFinnish,
		Labels:  make([]string, n),
		Values:  make([]float64, n),
		Step:    step,
		Legend:  []LegendEntry{{Name: NormalSeriesName, Index: 0}},
	}

	anyBatch := false
	for i, obs := range history {
		if i%step == 0 {
			s.Labels[i] = obs.ValidFrom.DayMonthYear()
		}
		s.Values[i] = valueOrZero(obs.NormalPrice)
		anyBatch = anyBatch || obs.HasBatchPrice()
	}

	if options.BatchSeries && anyBatch {
		s.Batch = make([]float64, n)
		for i, obs := range history {
			s.Batch[i] = valueOrZero(obs.BatchPrice)
		}
		s.Legend = append(s.Legend, LegendEntry{Name: BatchSeriesName, Index: 1})
	}

	return s
}

func valueOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
