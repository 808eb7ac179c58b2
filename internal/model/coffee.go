// Package model defines the coffee price records shared by the client, cache and API server.
package model

import (
	"fmt"
	"strings"
)

// Coffee is one product row as returned by the product listing endpoint.
// Records are immutable once fetched; views derive new orderings and subsets
// but never modify them.
type Coffee struct {
	ID          string  `json:"id,omitempty"`
	NameFinnish string  `json:"name_finnish"`
	DataSource  string  `json:"data_source"`
	NormalPrice float64 `json:"normal_price"`
	NetWeight   float64 `json:"net_weight"`
}

// ProductSummary identifies a currently listed product for selection lists.
type ProductSummary struct {
	ID          string `json:"id"`
	NameFinnish string `json:"name_finnish"`
	DataSource  string `json:"data_source"`
}

// Label returns the human readable selection label, e.g. "Juhla Mokka (K-Ruoka)".
func (p ProductSummary) Label() string {
	return fmt.Sprintf("%s (%s)", p.NameFinnish, p.DataSource)
}

// filterBagMarkers identify coffee filter products that share the coffee shelf
// but are not coffee.
var filterBagMarkers = []string{"suodatinpussi", "kahvinsuodatin"}

// IsFilterBag reports whether the product name denotes coffee filters rather than coffee.
func IsFilterBag(name string) bool {
	lower := strings.ToLower(name)
	for _, marker := range filterBagMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
