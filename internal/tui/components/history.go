package components

import (
	"fmt"

	"github.com/Veraticus/kahvi/internal/chart"
	"github.com/Veraticus/kahvi/internal/common"
	"github.com/Veraticus/kahvi/internal/model"
	"github.com/Veraticus/kahvi/internal/tui/themes"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"
)

// HistoryModel is the price history screen: a product picker, a chart of the
// selected product and its data points.
type HistoryModel struct {
	selector   SelectionWidget
	err        error
	series     *chart.Series
	theme      themes.Theme
	productID  string
	label      string
	chartOpts  []chart.Option
	points     []chart.DataPoint
	summary    chart.Summary
	width      int
	height     int
	hasSummary bool
	loading    bool
}

// NewHistoryModel creates the screen around selector.
func NewHistoryModel(selector SelectionWidget, theme themes.Theme, opts ...chart.Option) HistoryModel {
	return HistoryModel{
		selector:  selector,
		theme:     theme,
		chartOpts: opts,
		width:     80,
		height:    24,
	}
}

// SetProducts feeds the picker.
func (m *HistoryModel) SetProducts(products []model.ProductSummary) {
	m.selector.SetOptions(ProductOptions(products))
}

// Request marks productID as the product being loaded. Results for any other
// product are ignored from now on.
func (m *HistoryModel) Request(productID, label string) {
	m.productID = productID
	m.label = label
	m.loading = true
	m.err = nil
	m.series = nil
	m.points = nil
	m.hasSummary = false
	m.selector.SetSelected(productID)
}

// Pending returns the product whose history was last requested.
func (m HistoryModel) Pending() string {
	return m.productID
}

// Loading reports whether a history fetch is outstanding.
func (m HistoryModel) Loading() bool {
	return m.loading
}

// SetHistory delivers the history of productID. It reports false and changes
// nothing when productID is no longer the requested product.
func (m *HistoryModel) SetHistory(productID string, history []model.PriceObservation) bool {
	if productID != m.productID {
		return false
	}
	m.loading = false
	m.err = nil
	m.series = chart.Prepare(history, m.chartOpts...)
	m.points = chart.DataPoints(history)
	m.summary, m.hasSummary = chart.Summarize(history)
	if m.label == "" && len(history) > 0 {
		m.label = history[0].NameFinnish
	}
	return true
}

// SetError records a failed fetch for productID.
func (m *HistoryModel) SetError(productID string, err error) bool {
	if productID != m.productID {
		return false
	}
	m.loading = false
	m.err = err
	return true
}

// Series returns the prepared chart, nil when there is nothing to plot.
func (m HistoryModel) Series() *chart.Series {
	return m.series
}

// Focused reports whether the picker consumes text keys.
func (m HistoryModel) Focused() bool {
	return m.selector.Focused()
}

// Selector exposes the picker.
func (m HistoryModel) Selector() SelectionWidget {
	return m.selector
}

// Resize adapts the chart to the terminal.
func (m *HistoryModel) Resize(width, height int) {
	m.width = width
	m.height = height
}

// Update forwards keys to the picker.
func (m HistoryModel) Update(msg tea.Msg) (HistoryModel, tea.Cmd) {
	return m, m.selector.Update(msg)
}

// View renders the screen.
func (m HistoryModel) View() string {
	sections := []string{m.selector.View()}
	if m.selector.Focused() {
		return lipgloss.JoinVertical(lipgloss.Left, sections...)
	}

	switch {
	case m.productID == "":
		sections = append(sections, m.theme.StatusPending.Render("Pick a product to see its price history."))
	case m.loading:
		sections = append(sections, m.theme.StatusPending.Render("Loading price history…"))
	case m.err != nil:
		sections = append(sections, m.theme.StatusError.Render("Error: "+common.UserMessage(m.err)))
	case m.series == nil:
		sections = append(sections, m.theme.StatusPending.Render("No price history for this product."))
	default:
		sections = append(sections, m.renderChart(), m.renderSummary(), m.renderPoints())
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m HistoryModel) renderChart() string {
	title := m.theme.Title.Render(fmt.Sprintf("%s: Price over time", m.label))
	plot := chart.Plot(m.series, max(m.width-4, 30), max(m.height/3, 6))

	legend := m.theme.NormalSeries.Render(fmt.Sprintf("%c %s", chart.NormalGlyph, chart.NormalSeriesName))
	if m.series.HasBatch() {
		legend += "   " + m.theme.BatchSeries.Render(fmt.Sprintf("%c %s", chart.BatchGlyph, chart.BatchSeriesName))
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, plot, legend)
}

func (m HistoryModel) renderSummary() string {
	if !m.hasSummary {
		return ""
	}
	return lipgloss.NewStyle().Foreground(m.theme.Muted).Render(m.summary.String())
}

func (m HistoryModel) renderPoints() string {
	t := ltable.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(m.theme.Border)).
		Headers("From", "To", "Price", "Per kg")
	for _, p := range m.points {
		t.Row(p.From, p.To, p.Price, p.PerWeight)
	}
	return t.Render()
}
