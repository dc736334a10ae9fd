package universe

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pi5dash/evescan/internal/atomicio"
)

func TestTickersCuratedOnly(t *testing.T) {
	p := NewProvider(filepath.Join(t.TempDir(), "universe.json"), 0)

	tickers := p.Tickers()
	assert.Equal(t, Curated(), tickers)
	assert.Contains(t, tickers, "AAPL")
}

func TestTickersMergesCacheWithoutDuplicates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "universe.json")
	require.NoError(t, atomicio.WriteJSONAtomic(path, Cache{
		UpdatedAt: time.Now(),
		Source:    "alpaca",
		Tickers:   []string{"AAPL", "ZZTOP", "NVDA", "ACME"},
	}))

	tickers := NewProvider(path, 0).Tickers()

	assert.Len(t, tickers, len(Curated())+2)
	assert.Equal(t, "ZZTOP", tickers[len(tickers)-2])
	assert.Equal(t, "ACME", tickers[len(tickers)-1])
}

func TestTickersCapped(t *testing.T) {
	p := NewProvider(filepath.Join(t.TempDir(), "universe.json"), 10)
	assert.Len(t, p.Tickers(), 10)
}

func TestTickersCorruptCacheFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "universe.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))

	assert.Equal(t, Curated(), NewProvider(path, 0).Tickers())
}

func TestCuratedReturnsCopy(t *testing.T) {
	first := Curated()
	first[0] = "MUTATED"
	assert.NotEqual(t, "MUTATED", Curated()[0])
}

func assetsHandler(t *testing.T, assets []map[string]any) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v2/assets", r.URL.Path)
		require.Equal(t, "active", r.URL.Query().Get("status"))
		require.Equal(t, "us_equity", r.URL.Query().Get("asset_class"))
		require.Equal(t, "key", r.Header.Get("APCA-API-KEY-ID"))
		require.Equal(t, "secret", r.Header.Get("APCA-API-SECRET-KEY"))
		json.NewEncoder(w).Encode(assets)
	})
}

func TestTradeableSymbolsFilters(t *testing.T) {
	srv := httptest.NewServer(assetsHandler(t, []map[string]any{
		{"symbol": "GOODX", "tradable": true, "fractionable": true},
		{"symbol": "HALTD", "tradable": false, "fractionable": true},
		{"symbol": "NOFRAC", "tradable": true, "fractionable": false},
		{"symbol": "WARRW", "tradable": true, "fractionable": true},
		{"symbol": "TOOLONG", "tradable": true, "fractionable": true},
	}))
	defer srv.Close()

	client := NewAlpacaClient(srv.URL, "key", "secret")
	symbols, err := client.TradeableSymbols(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"GOODX"}, symbols)
}

func TestTradeableSymbolsRequiresCredentials(t *testing.T) {
	client := NewAlpacaClient("http://127.0.0.1:1", "", "")
	_, err := client.TradeableSymbols(context.Background())
	assert.ErrorIs(t, err, ErrNoCredentials)
}

func TestRefreshMergesAndCaps(t *testing.T) {
	var assets []map[string]any
	// More fresh symbols than the merge cap allows.
	for i := 0; i < maxNewTickers+50; i++ {
		assets = append(assets, map[string]any{
			"symbol": fmt.Sprintf("N%04d", i), "tradable": true, "fractionable": true,
		})
	}
	assets = append(assets, map[string]any{"symbol": "AAPL", "tradable": true, "fractionable": true})

	srv := httptest.NewServer(assetsHandler(t, assets))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "universe.json")
	provider := NewProvider(path, 0)
	client := NewAlpacaClient(srv.URL, "key", "secret")

	cache, err := Refresh(context.Background(), client, provider)
	require.NoError(t, err)

	assert.Equal(t, "alpaca", cache.Source)
	assert.Equal(t, maxNewTickers+51, cache.TotalAvailable)
	// Curated list plus the cap; AAPL deduped.
	assert.Len(t, cache.Tickers, len(Curated())+maxNewTickers)
	assert.False(t, cache.UpdatedAt.IsZero())

	var onDisk Cache
	require.NoError(t, atomicio.ReadJSON(path, &onDisk))
	assert.Equal(t, cache.Tickers, onDisk.Tickers)
}
