package fetcher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
)

// KRuokaDataSource labels rows scraped from K-Ruoka.
const KRuokaDataSource = "K-ruoka"

// KRuokaEndpoint searches filter coffee in one K-Citymarket store.
const KRuokaEndpoint = "https://www.k-ruoka.fi/kr-api/v2/product-search/suodatinkahvi?storeId=N106&offset=0&limit=100"

// KRuoka scrapes the K-Ruoka product search.
type KRuoka struct {
	client *storeClient
}

var _ Fetcher = (*KRuoka)(nil)

// NewKRuoka creates a K-Ruoka fetcher.
func NewKRuoka(opts ...Option) *KRuoka {
	headers := map[string]string{
		"Accept":           "application/json",
		"X-K-Build-Number": "24596",
		"Origin":           "https://www.k-ruoka.fi",
		"Referer":          "https://www.k-ruoka.fi/haku?q=suodatinkahvi",
		"Accept-Language":  "fi-FI,fi;q=0.9,en-US;q=0.8,en;q=0.7",
		"Sec-Fetch-Dest":   "empty",
		"Sec-Fetch-Mode":   "cors",
		"Sec-Fetch-Site":   "same-origin",
	}
	return &KRuoka{client: newStoreClient(KRuokaEndpoint, headers, opts)}
}

// DataSource implements Fetcher.
func (k *KRuoka) DataSource() string {
	return KRuokaDataSource
}

// Fetch implements Fetcher.
func (k *KRuoka) Fetch(ctx context.Context) ([]Product, error) {
	var resp kRuokaResponse
	if err := k.client.post(ctx, &resp); err != nil {
		return nil, err
	}
	return resp.products(), nil
}

type kRuokaResponse struct {
	Result []kRuokaItem `json:"result"`
}

type kRuokaItem struct {
	ID      flexibleID `json:"id"`
	Product struct {
		LocalizedName struct {
			Finnish *string `json:"finnish"`
			English *string `json:"english"`
		} `json:"localizedName"`
		Availability struct {
			Store *bool `json:"store"`
			Web   *bool `json:"web"`
		} `json:"availability"`
		ProductAttributes struct {
			Measurements struct {
				NetWeight   *float64 `json:"netWeight"`
				ContentUnit *string  `json:"contentUnit"`
			} `json:"measurements"`
			Image struct {
				URL *string `json:"url"`
			} `json:"image"`
		} `json:"productAttributes"`
		Brand struct {
			Name *string `json:"name"`
		} `json:"brand"`
		Mobilescan *struct {
			Pricing *struct {
				Normal   *kRuokaPrice `json:"normal"`
				Discount *kRuokaPrice `json:"discount"`
				Batch    *kRuokaPrice `json:"batch"`
			} `json:"pricing"`
		} `json:"mobilescan"`
	} `json:"product"`
}

type kRuokaPrice struct {
	Unit                  *string  `json:"unit"`
	Price                 *float64 `json:"price"`
	DiscountPercentage    *float64 `json:"discountPercentage"`
	DiscountType          *string  `json:"discountType"`
	ValidNumberOfDaysLeft *int64   `json:"validNumberOfDaysLeft"`
}

// products maps the search result onto table rows. Items without an id are
// skipped. A batch offer overrides a plain discount when both are listed.
func (r kRuokaResponse) products() []Product {
	products := make([]Product, 0, len(r.Result))
	for _, item := range r.Result {
		if item.ID == "" {
			continue
		}
		src := item.Product
		p := Product{
			ID:             string(item.ID),
			NameFinnish:    src.LocalizedName.Finnish,
			NameEnglish:    src.LocalizedName.English,
			AvailableStore: src.Availability.Store,
			AvailableWeb:   src.Availability.Web,
			NetWeight:      src.ProductAttributes.Measurements.NetWeight,
			ContentUnit:    src.ProductAttributes.Measurements.ContentUnit,
			ImageURL:       src.ProductAttributes.Image.URL,
			BrandName:      src.Brand.Name,
		}

		if src.Mobilescan != nil && src.Mobilescan.Pricing != nil {
			pricing := src.Mobilescan.Pricing
			if pricing.Normal != nil {
				p.NormalPriceUnit = pricing.Normal.Unit
				p.NormalPrice = pricing.Normal.Price
			}
			for _, offer := range []*kRuokaPrice{pricing.Discount, pricing.Batch} {
				if offer == nil {
					continue
				}
				p.BatchPrice = offer.Price
				p.BatchDiscountPct = offer.DiscountPercentage
				p.BatchDiscountType = offer.DiscountType
				p.BatchDaysLeft = offer.ValidNumberOfDaysLeft
			}
		}
		products = append(products, p)
	}
	return products
}

// flexibleID accepts an id sent either as a JSON string or a number.
type flexibleID string

func (id *flexibleID) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = flexibleID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("product id must be a string or number: %w", err)
	}
	*id = flexibleID(n.String())
	return nil
}
