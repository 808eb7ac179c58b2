package testutil

import (
	"time"

	"github.com/Veraticus/kahvi/internal/model"
)

// SampleCoffees returns a small product listing from two stores.
func SampleCoffees() []model.Coffee {
	return []model.Coffee{
		{ID: "1", NameFinnish: "Juhla Mokka", NormalPrice: 5.95, NetWeight: 0.5, DataSource: "K-Ruoka"},
		{ID: "2", NameFinnish: "Presidentti", NormalPrice: 6.45, NetWeight: 0.5, DataSource: "S-Kaupat"},
		{ID: "3", NameFinnish: "Kulta Katriina", NormalPrice: 4.99, NetWeight: 0.5, DataSource: "S-Kaupat"},
	}
}

// SampleProducts returns the product summaries matching SampleCoffees.
func SampleProducts() []model.ProductSummary {
	coffees := SampleCoffees()
	out := make([]model.ProductSummary, len(coffees))
	for i, c := range coffees {
		out[i] = model.ProductSummary{ID: c.ID, NameFinnish: c.NameFinnish, DataSource: c.DataSource}
	}
	return out
}

// SampleHistory returns three price periods of Juhla Mokka, the last one open
// and one carrying a batch price.
func SampleHistory() []model.PriceObservation {
	day := func(m time.Month, d int) model.Timestamp {
		return model.NewTimestamp(time.Date(2024, m, d, 0, 0, 0, 0, time.UTC))
	}
	feb, mar := day(time.February, 1), day(time.March, 1)

	return []model.PriceObservation{
		{
			NameFinnish:    "Juhla Mokka",
			DataSource:     "K-Ruoka",
			NormalPrice:    model.Float(5.49),
			NetWeight:      model.Float(0.5),
			PricePerWeight: model.Float(10.98),
			ValidFrom:      day(time.January, 1),
			ValidTo:        &feb,
		},
		{
			NameFinnish:       "Juhla Mokka",
			DataSource:        "K-Ruoka",
			NormalPrice:       model.Float(5.79),
			BatchPrice:        model.Float(4.99),
			BatchDiscountType: model.String("2 kpl"),
			NetWeight:         model.Float(0.5),
			PricePerWeight:    model.Float(9.98),
			ValidFrom:         feb,
			ValidTo:           &mar,
		},
		{
			NameFinnish:    "Juhla Mokka",
			DataSource:     "K-Ruoka",
			NormalPrice:    model.Float(5.95),
			NetWeight:      model.Float(0.5),
			PricePerWeight: model.Float(11.9),
			ValidFrom:      mar,
		},
	}
}

// SampleEndpoints returns the route listing served by the API.
func SampleEndpoints() *model.EndpointList {
	return &model.EndpointList{
		Message: "TonnoCoffeeAPI endpoints:",
		AvailableEndpoints: []model.Endpoint{
			{Path: "/", Name: "root", Methods: []string{"GET"}},
			{Path: "/coffees", Name: "get_coffees", Methods: []string{"GET"}},
			{Path: "/coffees/products", Name: "get_products", Methods: []string{"GET"}},
			{Path: "/coffees/{product_id}/history", Name: "get_price_history", Methods: []string{"GET"}},
		},
	}
}
