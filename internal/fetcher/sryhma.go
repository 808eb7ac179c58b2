package fetcher

import (
	"context"

	"github.com/shopspring/decimal"
)

// SRyhmaDataSource labels rows scraped from S-kaupat.
const SRyhmaDataSource = "S-Ryhma"

// SRyhmaEndpoint runs the persisted RemoteFilteredProducts query for filter
// coffee in one Prisma store.
const SRyhmaEndpoint = "https://api.s-kaupat.fi/?operationName=RemoteFilteredProducts" +
	"&variables=%7B%22includeStoreEdgePricing%22%3Atrue%2C%22storeEdgeId%22%3A%22513971200%22%2C" +
	"%22facets%22%3A%5B%7B%22key%22%3A%22brandName%22%2C%22order%22%3A%22asc%22%7D%2C%7B%22key%22%3A%22category%22%7D%2C" +
	"%7B%22key%22%3A%22labels%22%7D%5D%2C%22generatedSessionId%22%3A%22fb741e50-639f-4cd1-8fab-c8b8f5101c21%22%2C" +
	"%22includeAgeLimitedByAlcohol%22%3Atrue%2C%22limit%22%3A24%2C%22queryString%22%3A%22suodatinkahvi%22%2C" +
	"%22storeId%22%3A%22513971200%22%2C%22useRandomId%22%3Afalse%7D" +
	"&extensions=%7B%22persistedQuery%22%3A%7B%22version%22%3A1%2C" +
	"%22sha256Hash%22%3A%22abbeaf3143217630082d1c0ba36033999b196679bff4b310a0418e290c141426%22%7D%7D"

// S-kaupat does not expose product images.
const sRyhmaNoImage = "not available in S-Ryhma"

// SRyhma scrapes the S-kaupat GraphQL API.
type SRyhma struct {
	client *storeClient
}

var _ Fetcher = (*SRyhma)(nil)

// NewSRyhma creates an S-kaupat fetcher.
func NewSRyhma(opts ...Option) *SRyhma {
	headers := map[string]string{
		"Accept":           "*/*",
		"Content-Type":     "application/json",
		"Origin":           "https://www.s-kaupat.fi",
		"x-client-name":    "skaupat-web",
		"x-client-version": "production-e14c351ce120b6fca5d16451b7a06bae74b4b0f2",
	}
	return &SRyhma{client: newStoreClient(SRyhmaEndpoint, headers, opts)}
}

// DataSource implements Fetcher.
func (s *SRyhma) DataSource() string {
	return SRyhmaDataSource
}

// Fetch implements Fetcher.
func (s *SRyhma) Fetch(ctx context.Context) ([]Product, error) {
	var resp sRyhmaResponse
	if err := s.client.post(ctx, &resp); err != nil {
		return nil, err
	}
	return resp.products(), nil
}

type sRyhmaResponse struct {
	Data struct {
		Store struct {
			Products struct {
				Items []sRyhmaItem `json:"items"`
			} `json:"products"`
		} `json:"store"`
	} `json:"data"`
}

type sRyhmaItem struct {
	ID              flexibleID `json:"id"`
	Name            *string    `json:"name"`
	StoreID         string     `json:"storeId"`
	BrandName       *string    `json:"brandName"`
	Price           *float64   `json:"price"`
	ComparisonPrice *float64   `json:"comparisonPrice"`
	ComparisonUnit  *string    `json:"comparisonUnit"`
	Pricing         struct {
		ComparisonUnit *string  `json:"comparisonUnit"`
		RegularPrice   *float64 `json:"regularPrice"`
		CurrentPrice   *float64 `json:"currentPrice"`
	} `json:"pricing"`
}

// products maps the GraphQL items onto table rows. The listing has no
// English names, web availability or discount details; the net weight is
// derived from the package and comparison prices.
func (r sRyhmaResponse) products() []Product {
	items := r.Data.Store.Products.Items
	products := make([]Product, 0, len(items))
	for _, item := range items {
		if item.ID == "" {
			continue
		}
		inStore := item.StoreID != ""
		image := sRyhmaNoImage
		products = append(products, Product{
			ID:              string(item.ID),
			NameFinnish:     item.Name,
			NameEnglish:     item.Name,
			AvailableStore:  &inStore,
			NetWeight:       netWeight(item.Price, item.ComparisonPrice),
			ContentUnit:     item.ComparisonUnit,
			ImageURL:        &image,
			BrandName:       item.BrandName,
			NormalPriceUnit: item.Pricing.ComparisonUnit,
			NormalPrice:     item.Pricing.RegularPrice,
			BatchPrice:      item.Pricing.CurrentPrice,
		})
	}
	return products
}

// netWeight returns price / comparison price in units of the comparison
// unit, or nil when either is missing or zero.
func netWeight(price, comparison *float64) *float64 {
	if price == nil || comparison == nil || *comparison == 0 {
		return nil
	}
	w, _ := decimal.NewFromFloat(*price).DivRound(decimal.NewFromFloat(*comparison), 3).Float64()
	return &w
}
