package tui

import "github.com/Veraticus/kahvi/internal/model"

// Fetch results. Each carries the id of the screen instance that asked for
// it; results for any other instance are dropped.

type welcomeLoadedMsg struct {
	err      error
	welcome  *model.Welcome
	screenID int
}

type endpointsLoadedMsg struct {
	err       error
	endpoints *model.EndpointList
	screenID  int
}

type coffeesLoadedMsg struct {
	err      error
	coffees  []model.Coffee
	screenID int
}

type productsLoadedMsg struct {
	err      error
	products []model.ProductSummary
	screenID int
}

type historyLoadedMsg struct {
	err       error
	productID string
	history   []model.PriceObservation
	screenID  int
}
