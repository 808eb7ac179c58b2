package fetcher

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Veraticus/kahvi/internal/common"
	"github.com/Veraticus/kahvi/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const kRuokaFixture = `{
  "result": [
    {
      "id": "6411300000494",
      "product": {
        "localizedName": {"finnish": "Juhla Mokka suodatinkahvi 500g", "english": "Juhla Mokka filter coffee 500g"},
        "availability": {"store": true, "web": false},
        "productAttributes": {
          "measurements": {"netWeight": 0.5, "contentUnit": "kg"},
          "image": {"url": "https://cdn.example/juhla.png"}
        },
        "brand": {"name": "Paulig"},
        "mobilescan": {
          "pricing": {
            "normal": {"unit": "kpl", "price": 5.79},
            "discount": {"price": 5.29, "discountPercentage": 8, "discountType": "PLUSSA", "validNumberOfDaysLeft": 9},
            "batch": {"price": 4.99, "discountPercentage": 14, "discountType": "2 kpl", "validNumberOfDaysLeft": 3}
          }
        }
      }
    },
    {
      "id": 6410405000000,
      "product": {
        "localizedName": {"finnish": "Pirkka kahvi"},
        "brand": {"name": "Pirkka"}
      }
    },
    {"id": null, "product": {}}
  ]
}`

const sRyhmaFixture = `{
  "data": {"store": {"products": {"items": [
    {
      "id": "6420101441609",
      "name": "Kulta Katriina suodatinkahvi 500g",
      "storeId": "513971200",
      "brandName": "Kulta Katriina",
      "price": 6.49,
      "comparisonPrice": 12.98,
      "comparisonUnit": "KGM",
      "pricing": {"comparisonUnit": "KGM", "regularPrice": 6.49, "currentPrice": 5.99}
    },
    {
      "id": "6420101441610",
      "name": "Presidentti 0,5kg",
      "price": 7.1,
      "comparisonPrice": 0,
      "pricing": {"regularPrice": 7.1}
    }
  ]}}}
}`

func fastRetry() service.RetryOptions {
	return service.RetryOptions{MaxAttempts: 3, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond, Multiplier: 1}
}

func storeServer(t *testing.T, body string, check func(*http.Request)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			check(r)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestKRuoka_Fetch(t *testing.T) {
	srv := storeServer(t, kRuokaFixture, func(r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "24596", r.Header.Get("X-K-Build-Number"))
		assert.Equal(t, "https://www.k-ruoka.fi", r.Header.Get("Origin"))
		assert.Contains(t, r.Header.Get("User-Agent"), "Firefox")
	})

	products, err := NewKRuoka(WithEndpoint(srv.URL)).Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2, "items without an id are skipped")

	juhla := products[0]
	assert.Equal(t, "6411300000494", juhla.ID)
	assert.Equal(t, "Juhla Mokka suodatinkahvi 500g", *juhla.NameFinnish)
	assert.Equal(t, "Juhla Mokka filter coffee 500g", *juhla.NameEnglish)
	assert.True(t, *juhla.AvailableStore)
	assert.False(t, *juhla.AvailableWeb)
	assert.InDelta(t, 0.5, *juhla.NetWeight, 1e-9)
	assert.Equal(t, "kg", *juhla.ContentUnit)
	assert.Equal(t, "https://cdn.example/juhla.png", *juhla.ImageURL)
	assert.Equal(t, "Paulig", *juhla.BrandName)
	assert.Equal(t, "kpl", *juhla.NormalPriceUnit)
	assert.InDelta(t, 5.79, *juhla.NormalPrice, 1e-9)
	assert.InDelta(t, 4.99, *juhla.BatchPrice, 1e-9, "batch offer wins over discount")
	assert.InDelta(t, 14, *juhla.BatchDiscountPct, 1e-9)
	assert.Equal(t, "2 kpl", *juhla.BatchDiscountType)
	assert.Equal(t, int64(3), *juhla.BatchDaysLeft)

	pirkka := products[1]
	assert.Equal(t, "6410405000000", pirkka.ID)
	assert.Nil(t, pirkka.NameEnglish)
	assert.Nil(t, pirkka.NormalPrice)
	assert.Nil(t, pirkka.BatchPrice)
}

func TestSRyhma_Fetch(t *testing.T) {
	srv := storeServer(t, sRyhmaFixture, func(r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "skaupat-web", r.Header.Get("x-client-name"))
	})

	products, err := NewSRyhma(WithEndpoint(srv.URL)).Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)

	katriina := products[0]
	assert.Equal(t, "Kulta Katriina suodatinkahvi 500g", *katriina.NameFinnish)
	assert.Equal(t, *katriina.NameFinnish, *katriina.NameEnglish)
	assert.True(t, *katriina.AvailableStore)
	assert.Nil(t, katriina.AvailableWeb)
	assert.InDelta(t, 0.5, *katriina.NetWeight, 1e-9)
	assert.Equal(t, "KGM", *katriina.ContentUnit)
	assert.Equal(t, sRyhmaNoImage, *katriina.ImageURL)
	assert.InDelta(t, 6.49, *katriina.NormalPrice, 1e-9)
	assert.InDelta(t, 5.99, *katriina.BatchPrice, 1e-9)

	presidentti := products[1]
	assert.False(t, *presidentti.AvailableStore)
	assert.Nil(t, presidentti.NetWeight, "zero comparison price has no weight")
}

func TestFetch_Errors(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantCalls int32
		check     func(t *testing.T, err error)
	}{
		{
			name:      "blocked",
			status:    http.StatusForbidden,
			wantCalls: 1,
			check: func(t *testing.T, err error) {
				var statusErr *StatusError
				require.ErrorAs(t, err, &statusErr)
				assert.Equal(t, http.StatusForbidden, statusErr.StatusCode)
				assert.Contains(t, statusErr.Error(), "Just a moment")
			},
		},
		{
			name:      "unavailable",
			status:    http.StatusServiceUnavailable,
			wantCalls: 3,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, common.ErrUnavailable)
				assert.ErrorIs(t, err, common.ErrMaxRetries)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				calls.Add(1)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte("Just a moment..."))
			}))
			defer srv.Close()

			_, err := NewKRuoka(WithEndpoint(srv.URL), WithRetryOptions(fastRetry())).Fetch(context.Background())
			require.Error(t, err)
			tt.check(t, err)
			assert.Equal(t, tt.wantCalls, calls.Load())
		})
	}
}

func TestFetch_RecoversAfterTransientFailure(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(sRyhmaFixture))
	}))
	defer srv.Close()

	products, err := NewSRyhma(WithEndpoint(srv.URL), WithRetryOptions(fastRetry())).Fetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, products, 2)
	assert.Equal(t, int32(2), calls.Load())
}

func TestProduct_RowHash(t *testing.T) {
	price := func(v float64) *float64 { return &v }
	base := Product{ID: "1", NormalPrice: price(5.49)}

	assert.Equal(t, base.RowHash(), Product{ID: "1", NormalPrice: price(5.49)}.RowHash())
	assert.Len(t, base.RowHash(), 64)

	changed := base
	changed.NormalPrice = price(5.79)
	assert.NotEqual(t, base.RowHash(), changed.RowHash())

	withBatch := base
	withBatch.BatchPrice = price(4.99)
	assert.NotEqual(t, base.RowHash(), withBatch.RowHash())

	assert.Len(t, productRow(base), len(productColumns))
}

type fakeFetcher struct {
	source   string
	products []Product
	err      error
}

func (f fakeFetcher) DataSource() string { return f.source }

func (f fakeFetcher) Fetch(context.Context) ([]Product, error) { return f.products, f.err }

type fakeWriter struct {
	hasData   bool
	hasErr    error
	writeErr  error
	initial   []Product
	updated   []Product
	loadedAt  time.Time
	updateRes UpdateResult
}

func (w *fakeWriter) HasData(context.Context, string) (bool, error) {
	return w.hasData, w.hasErr
}

func (w *fakeWriter) InsertInitial(_ context.Context, _ string, products []Product, loadedAt time.Time) (int, error) {
	w.initial, w.loadedAt = products, loadedAt
	return len(products), w.writeErr
}

func (w *fakeWriter) Update(_ context.Context, _ string, products []Product, loadedAt time.Time) (UpdateResult, error) {
	w.updated, w.loadedAt = products, loadedAt
	return w.updateRes, w.writeErr
}

func TestRunner_Run(t *testing.T) {
	now := time.Date(2024, 3, 5, 6, 0, 0, 0, time.UTC)
	listing := []Product{{ID: "1"}, {ID: "2"}}

	tests := []struct {
		name     string
		fetcher  fakeFetcher
		writer   *fakeWriter
		want     Result
		wantErr  bool
		wantText string
	}{
		{
			name:     "first load inserts",
			fetcher:  fakeFetcher{source: KRuokaDataSource, products: listing},
			writer:   &fakeWriter{},
			want:     Result{DataSource: KRuokaDataSource, Fetched: 2, Initial: true, UpdateResult: UpdateResult{Inserted: 2}},
			wantText: "K-ruoka: initial load of 2 products, inserted 2",
		},
		{
			name:    "later loads update",
			fetcher: fakeFetcher{source: SRyhmaDataSource, products: listing},
			writer: &fakeWriter{
				hasData:   true,
				updateRes: UpdateResult{Inserted: 1, Updated: 1, Disappeared: 3},
			},
			want:     Result{DataSource: SRyhmaDataSource, Fetched: 2, UpdateResult: UpdateResult{Inserted: 1, Updated: 1, Disappeared: 3}},
			wantText: "S-Ryhma: inserted 1, new versions 1, disappeared 3",
		},
		{
			name:     "empty listing writes nothing",
			fetcher:  fakeFetcher{source: KRuokaDataSource},
			writer:   &fakeWriter{hasData: true},
			want:     Result{DataSource: KRuokaDataSource},
			wantText: "K-ruoka: no products from source, nothing written",
		},
		{
			name:     "fetch failure",
			fetcher:  fakeFetcher{source: KRuokaDataSource, err: errors.New("blocked")},
			writer:   &fakeWriter{},
			wantErr:  true,
			wantText: "K-ruoka: failed: fetching listing: blocked",
		},
		{
			name:     "existing data check failure",
			fetcher:  fakeFetcher{source: KRuokaDataSource, products: listing},
			writer:   &fakeWriter{hasErr: errors.New("connection refused")},
			wantErr:  true,
			wantText: "checking existing rows: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRunner(tt.writer)
			r.now = func() time.Time { return now }

			res := r.Run(context.Background(), tt.fetcher)

			assert.Contains(t, res.String(), tt.wantText)
			if tt.wantErr {
				require.Error(t, res.Err)
				assert.Nil(t, tt.writer.initial)
				assert.Nil(t, tt.writer.updated)
				return
			}
			require.NoError(t, res.Err)
			assert.Equal(t, tt.want, res)
			if res.Fetched > 0 {
				assert.Equal(t, now, tt.writer.loadedAt)
			} else {
				assert.Nil(t, tt.writer.initial)
				assert.Nil(t, tt.writer.updated)
			}
		})
	}
}
