package chart

import (
	"fmt"

	"github.com/Veraticus/kahvi/internal/model"
)

// OpenEnded marks a price period that is still current.
const OpenEnded = "—"

// Summary holds statistics over the normal prices that were actually
// recorded. Absent prices are skipped, never counted as zero.
type Summary struct {
	Min    float64
	Max    float64
	Latest float64
	Count  int
}

// Summarize computes a Summary. It reports false when no observation carries
// a normal price.
func Summarize(history []model.PriceObservation) (Summary, bool) {
	var s Summary
	for _, obs := range history {
		if obs.NormalPrice == nil {
			continue
		}
		v := *obs.NormalPrice
		if s.Count == 0 {
			s.Min, s.Max = v, v
		}
		s.Min = min(s.Min, v)
		s.Max = max(s.Max, v)
		s.Latest = v
		s.Count++
	}
	return s, s.Count > 0
}

// String renders the summary line shown under a chart.
func (s Summary) String() string {
	return fmt.Sprintf("Lowest %s · Highest %s · Latest %s · %d periods",
		model.FormatPrice(s.Min),
		model.FormatPrice(s.Max),
		model.FormatPrice(s.Latest),
		s.Count,
	)
}

// DataPoint is one row of the history data table, already formatted.
type DataPoint struct {
	From      string
	To        string
	Price     string
	PerWeight string
}

// DataPoints formats every observation for the data table. Open periods show
// OpenEnded in the To column and absent values are left blank.
func DataPoints(history []model.PriceObservation) []DataPoint {
	rows := make([]DataPoint, 0, len(history))
	for _, obs := range history {
		row := DataPoint{
			From:      obs.ValidFrom.DayMonthYear(),
			To:        OpenEnded,
			PerWeight: model.FormatOptionalAmount(obs.PricePerWeight),
		}
		if !obs.IsOpen() {
			row.To = obs.ValidTo.DayMonthYear()
		}
		if obs.NormalPrice != nil {
			row.Price = model.FormatPrice(*obs.NormalPrice)
		}
		rows = append(rows, row)
	}
	return rows
}
