package chart

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/Veraticus/kahvi/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func observations(n int) []model.PriceObservation {
	start := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	out := make([]model.PriceObservation, n)
	for i := range out {
		out[i] = model.PriceObservation{
			NameFinnish: "Juhla Mokka",
			DataSource:  "K-Ruoka",
			NormalPrice: model.Float(5 + float64(i)/10),
			ValidFrom:   model.NewTimestamp(start.AddDate(0, 0, 7*i)),
		}
	}
	return out
}

func TestPrepare_Empty(t *testing.T) {
	assert.Nil(t, Prepare(nil))
	assert.Nil(t, Prepare([]model.PriceObservation{}))
}

func TestPrepare_SingleObservation(t *testing.T) {
	s := Prepare(observations(1))
	require.NotNil(t, s)

	assert.Equal(t, 1, s.Step)
	assert.Equal(t, []string{"1.1.2024"}, s.Labels)
	assert.Equal(t, []float64{5}, s.Values)
	assert.Equal(t, "Juhla Mokka", s.Product)
}

func TestPrepare_Thinning(t *testing.T) {
	tests := []struct {
		name      string
		n         int
		maxLabels int
		wantStep  int
	}{
		{name: "forty points", n: 40, maxLabels: 8, wantStep: 5},
		{name: "fewer than limit", n: 5, maxLabels: 8, wantStep: 1},
		{name: "exactly the limit", n: 8, maxLabels: 8, wantStep: 1},
		{name: "floor division", n: 23, maxLabels: 8, wantStep: 2},
		{name: "custom limit", n: 40, maxLabels: 4, wantStep: 10},
		{name: "invalid limit falls back", n: 40, maxLabels: 0, wantStep: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Prepare(observations(tt.n), WithMaxLabels(tt.maxLabels))
			require.NotNil(t, s)

			assert.Equal(t, tt.wantStep, s.Step)
			assert.Len(t, s.Labels, tt.n)
			assert.Len(t, s.Values, tt.n)
			for i, label := range s.Labels {
				if i%tt.wantStep == 0 {
					assert.NotEmpty(t, label, "index %d", i)
				} else {
					assert.Empty(t, label, "index %d", i)
				}
			}
		})
	}
}

func TestPrepare_FortyPointsKeepsEveryValue(t *testing.T) {
	history := observations(40)
	s := Prepare(history)
	require.NotNil(t, s)

	var visible []int
	for i, label := range s.Labels {
		if label != "" {
			visible = append(visible, i)
		}
	}
	assert.Equal(t, []int{0, 5, 10, 15, 20, 25, 30, 35}, visible)
	for i, obs := range history {
		assert.InDelta(t, *obs.NormalPrice, s.Values[i], 1e-9)
	}
}

func TestPrepare_AbsentPriceDefaultsToZero(t *testing.T) {
	history := observations(3)
	history[1].NormalPrice = nil

	s := Prepare(history)
	require.NotNil(t, s)
	assert.Equal(t, 0.0, s.Values[1])

	summary, ok := Summarize(history)
	require.True(t, ok)
	assert.Equal(t, 2, summary.Count)
	assert.InDelta(t, 5.0, summary.Min, 1e-9)
}

func TestPrepare_BatchSeries(t *testing.T) {
	withBatch := observations(3)
	withBatch[2].BatchPrice = model.Float(4.5)

	tests := []struct {
		name      string
		history   []model.PriceObservation
		enabled   bool
		wantBatch []float64
		wantNames []string
	}{
		{
			name:      "flag on with batch prices",
			history:   withBatch,
			enabled:   true,
			wantBatch: []float64{0, 0, 4.5},
			wantNames: []string{NormalSeriesName, BatchSeriesName},
		},
		{
			name:      "flag on without batch prices",
			history:   observations(3),
			enabled:   true,
			wantNames: []string{NormalSeriesName},
		},
		{
			name:      "flag off",
			history:   withBatch,
			enabled:   false,
			wantNames: []string{NormalSeriesName},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Prepare(tt.history, WithBatchSeries(tt.enabled))
			require.NotNil(t, s)

			assert.Equal(t, tt.wantBatch, s.Batch)
			assert.Equal(t, tt.wantBatch != nil, s.HasBatch())

			var got []string
			for _, entry := range s.Legend {
				got = append(got, entry.Name)
			}
			assert.Equal(t, tt.wantNames, got)
		})
	}
}

func TestPrepare_LabelsUseEncodedZone(t *testing.T) {
	ts, err := model.ParseTimestamp("2024-06-30 23:45:00+03")
	require.NoError(t, err)

	s := Prepare([]model.PriceObservation{{ValidFrom: ts, NormalPrice: model.Float(6)}})
	require.NotNil(t, s)
	assert.Equal(t, "30.6.2024", s.Labels[0])
}

func TestSummarize_NoPrices(t *testing.T) {
	_, ok := Summarize([]model.PriceObservation{{}})
	assert.False(t, ok)
}

func TestDataPoints(t *testing.T) {
	closed := model.NewTimestamp(time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC))
	history := []model.PriceObservation{
		{
			ValidFrom:      model.NewTimestamp(time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)),
			ValidTo:        &closed,
			NormalPrice:    model.Float(5.9),
			PricePerWeight: model.Float(11.8),
		},
		{
			ValidFrom:   closed,
			NormalPrice: model.Float(6.25),
		},
	}

	rows := DataPoints(history)

	assert.Equal(t, []DataPoint{
		{From: "5.1.2024", To: "10.2.2024", Price: "5.90 €", PerWeight: "11.80"},
		{From: "10.2.2024", To: OpenEnded, Price: "6.25 €", PerWeight: ""},
	}, rows)
}

func TestPlot(t *testing.T) {
	s := Prepare(observations(10), WithMaxLabels(2))
	require.NotNil(t, s)

	out := Plot(s, 40, 6)
	lines := strings.Split(out, "\n")

	require.Len(t, lines, 8)
	assert.Contains(t, lines[0], "│")
	assert.Contains(t, lines[6], "└")
	assert.Contains(t, lines[7], "1.1.2024")
	assert.Equal(t, 10, strings.Count(out, string(NormalGlyph)))
}

func TestPlot_Degenerate(t *testing.T) {
	assert.Empty(t, Plot(nil, 40, 10))
	assert.Empty(t, Plot(Prepare(observations(2)), 4, 10))

	single := Plot(Prepare(observations(1)), 20, 3)
	assert.Equal(t, 1, strings.Count(single, string(NormalGlyph)))
}

func TestRenderPNG(t *testing.T) {
	var buf bytes.Buffer
	require.ErrorIs(t, RenderPNG(&buf, nil, PNGOptions{}), ErrNoSeries)

	history := observations(12)
	history[3].BatchPrice = model.Float(4.99)
	s := Prepare(history, WithBatchSeries(true))

	require.NoError(t, RenderPNG(&buf, s, DefaultPNGOptions(s)))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")))
}

func TestRenderPNG_SinglePeriod(t *testing.T) {
	history := observations(1)
	history[0].BatchPrice = model.Float(4.5)
	s := Prepare(history, WithBatchSeries(true))
	require.Equal(t, 1, s.Len())

	var buf bytes.Buffer
	require.NoError(t, RenderPNG(&buf, s, DefaultPNGOptions(s)))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")))

	xs, ys := linePoints(s.Values)
	assert.Equal(t, []float64{-0.5, 0.5}, xs)
	assert.Equal(t, []float64{s.Values[0], s.Values[0]}, ys)
}
