package tui

import (
	"context"

	"github.com/Veraticus/kahvi/internal/common"
	tea "github.com/charmbracelet/bubbletea"
)

// fetchContext bounds one fetch by the configured timeout.
func (m Model) fetchContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), m.config.FetchTimeout)
}

// loadWelcome fetches the API greeting.
func (m Model) loadWelcome(screenID int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.fetchContext()
		defer cancel()

		welcome, err := m.source.Welcome(ctx)
		return welcomeLoadedMsg{screenID: screenID, welcome: welcome, err: err}
	}
}

// loadEndpoints fetches the API route listing.
func (m Model) loadEndpoints(screenID int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.fetchContext()
		defer cancel()

		endpoints, err := m.source.Endpoints(ctx)
		return endpointsLoadedMsg{screenID: screenID, endpoints: endpoints, err: err}
	}
}

// loadCoffees fetches the product table.
func (m Model) loadCoffees(screenID int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.fetchContext()
		defer cancel()

		coffees, err := m.source.Coffees(ctx)
		return coffeesLoadedMsg{screenID: screenID, coffees: coffees, err: err}
	}
}

// loadProducts fetches the picker options of the history screen.
func (m Model) loadProducts(screenID int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.fetchContext()
		defer cancel()

		products, err := m.source.Products(ctx)
		return productsLoadedMsg{screenID: screenID, products: products, err: err}
	}
}

// loadHistory fetches the price history of one product.
func (m Model) loadHistory(screenID int, productID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.fetchContext()
		defer cancel()

		history, err := m.source.History(ctx, productID)
		if err != nil {
			common.LogDebug("History fetch failed", common.Fields{"product_id": productID, "error": err})
		}
		return historyLoadedMsg{screenID: screenID, productID: productID, history: history, err: err}
	}
}
