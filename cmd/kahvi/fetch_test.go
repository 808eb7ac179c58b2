package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Veraticus/kahvi/internal/common"
	"github.com/Veraticus/kahvi/internal/config"
	"github.com/Veraticus/kahvi/internal/fetcher"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const kRuokaListing = `{"result": [
  {"id": "1", "product": {
    "localizedName": {"finnish": "Juhla Mokka"},
    "mobilescan": {"pricing": {
      "normal": {"unit": "kpl", "price": 5.79},
      "batch": {"price": 4.99, "discountType": "2 kpl"}
    }}
  }},
  {"id": "2", "product": {
    "localizedName": {"finnish": "Kulta Katriina"},
    "mobilescan": {"pricing": {"normal": {"unit": "kpl", "price": 6.49}}}
  }}
]}`

// recordingWriter keeps every listing it is handed.
type recordingWriter struct {
	existing map[string]bool
	initial  map[string][]fetcher.Product
	updated  map[string][]fetcher.Product
}

func newRecordingWriter() *recordingWriter {
	return &recordingWriter{
		existing: map[string]bool{},
		initial:  map[string][]fetcher.Product{},
		updated:  map[string][]fetcher.Product{},
	}
}

func (w *recordingWriter) HasData(_ context.Context, source string) (bool, error) {
	return w.existing[source], nil
}

func (w *recordingWriter) InsertInitial(_ context.Context, source string, products []fetcher.Product, _ time.Time) (int, error) {
	w.initial[source] = products
	w.existing[source] = true
	return len(products), nil
}

func (w *recordingWriter) Update(_ context.Context, source string, products []fetcher.Product, _ time.Time) (fetcher.UpdateResult, error) {
	w.updated[source] = products
	return fetcher.UpdateResult{Inserted: 1, Updated: 1}, nil
}

func listingServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRunFetch(t *testing.T) {
	srv := listingServer(t, http.StatusOK, kRuokaListing)
	fetchers := []fetcher.Fetcher{fetcher.NewKRuoka(fetcher.WithEndpoint(srv.URL))}
	writer := newRecordingWriter()

	results, err := runFetch(context.Background(), &bytes.Buffer{}, fetchers, writer)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].Initial)
	require.Len(t, writer.initial[fetcher.KRuokaDataSource], 2)
	assert.InDelta(t, 4.99, *writer.initial[fetcher.KRuokaDataSource][0].BatchPrice, 1e-9)

	results, err = runFetch(context.Background(), &bytes.Buffer{}, fetchers, writer)
	require.NoError(t, err)
	assert.False(t, results[0].Initial)
	assert.Len(t, writer.updated[fetcher.KRuokaDataSource], 2)
	assert.Contains(t, formatFetchResults(results), "K-ruoka: inserted 1, new versions 1, disappeared 0")
}

func TestRunFetch_OneStoreFails(t *testing.T) {
	good := listingServer(t, http.StatusOK, kRuokaListing)
	blocked := listingServer(t, http.StatusForbidden, "Just a moment...")
	fetchers := []fetcher.Fetcher{
		fetcher.NewSRyhma(fetcher.WithEndpoint(blocked.URL)),
		fetcher.NewKRuoka(fetcher.WithEndpoint(good.URL)),
	}
	writer := newRecordingWriter()

	results, err := runFetch(context.Background(), &bytes.Buffer{}, fetchers, writer)
	require.NoError(t, err)
	require.Len(t, results, 2)
	require.Error(t, results[0].Err)
	assert.NoError(t, results[1].Err)
	assert.Len(t, writer.initial[fetcher.KRuokaDataSource], 2)

	summary := formatFetchResults(results)
	assert.Contains(t, summary, "S-Ryhma: failed")
	assert.Contains(t, summary, "K-ruoka: initial load of 2 products")
}

func TestRunFetch_EveryStoreFails(t *testing.T) {
	blocked := listingServer(t, http.StatusForbidden, "denied")
	fetchers := []fetcher.Fetcher{fetcher.NewKRuoka(fetcher.WithEndpoint(blocked.URL))}

	results, err := runFetch(context.Background(), &bytes.Buffer{}, fetchers, newRecordingWriter())
	require.Error(t, err)
	assert.Len(t, results, 1)
	assert.Equal(t, "No store listing could be stored.", common.UserMessage(err))
}

func TestRunFetch_Canceled(t *testing.T) {
	srv := listingServer(t, http.StatusOK, kRuokaListing)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	writer := newRecordingWriter()
	_, err := runFetch(ctx, &bytes.Buffer{}, []fetcher.Fetcher{fetcher.NewKRuoka(fetcher.WithEndpoint(srv.URL))}, writer)
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, writer.initial)
}

func TestPreviewListings(t *testing.T) {
	srv := listingServer(t, http.StatusOK, kRuokaListing)
	var out bytes.Buffer

	err := previewListings(context.Background(), &out, []fetcher.Fetcher{fetcher.NewKRuoka(fetcher.WithEndpoint(srv.URL))})
	require.NoError(t, err)

	for _, want := range []string{"K-ruoka", "Juhla Mokka", "5.79", "4.99", "2 kpl", "Kulta Katriina", "2 products"} {
		assert.Contains(t, out.String(), want)
	}
}

func TestNewFetchers(t *testing.T) {
	v := viper.New()
	config.SetDefaults(v)
	v.Set("fetch.sources", []string{config.FetchSourceSRyhma, config.FetchSourceKRuoka})
	settings, err := config.Load(v)
	require.NoError(t, err)

	fetchers := newFetchers(settings)
	require.Len(t, fetchers, 2)
	assert.Equal(t, fetcher.SRyhmaDataSource, fetchers[0].DataSource())
	assert.Equal(t, fetcher.KRuokaDataSource, fetchers[1].DataSource())
}
