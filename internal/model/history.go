package model

// PriceObservation is one price period of a product. A product's history is
// delivered sorted by ValidFrom ascending.
type PriceObservation struct {
	ValidTo           *Timestamp `json:"valid_to"`
	NormalPrice       *float64   `json:"normal_price"`
	BatchPrice        *float64   `json:"batch_price"`
	BatchDiscountPct  *float64   `json:"batch_discount_pct"`
	BatchDiscountType *string    `json:"batch_discount_type"`
	NetWeight         *float64   `json:"net_weight"`
	ContentUnit       *string    `json:"content_unit"`
	PricePerWeight    *float64   `json:"price_per_weight"`
	ValidFrom         Timestamp  `json:"valid_from"`
	NameFinnish       string     `json:"name_finnish"`
	DataSource        string     `json:"data_source"`
}

// IsOpen reports whether the observation is still the current price.
func (o PriceObservation) IsOpen() bool {
	return o.ValidTo == nil || o.ValidTo.IsZero()
}

// HasBatchPrice reports whether a multi-buy price was recorded.
func (o PriceObservation) HasBatchPrice() bool {
	return o.BatchPrice != nil
}

// Float returns a pointer to v, for building optional price fields.
func Float(v float64) *float64 {
	return &v
}

// String returns a pointer to v.
func String(v string) *string {
	return &v
}
