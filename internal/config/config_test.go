package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWhenNoFile(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 50.0, cfg.MaxStockPrice)
	assert.Equal(t, 2.00, cfg.MaxOptionPremium)
	assert.Equal(t, 2.0, cfg.MinScore)
	assert.Equal(t, 100, cfg.MaxTickers)
	assert.True(t, cfg.UseAISentiment)
	assert.Equal(t, time.Second, cfg.AIRateLimitDelay)
	assert.Equal(t, 5, cfg.AITopN)
	assert.False(t, cfg.ForceAIAll)
	assert.Equal(t, 30, cfg.JournalMaxEntries)
}

func TestLoad_OverlayOnlyTouchesSetKeys(t *testing.T) {
	dir := t.TempDir()
	doc := `{"max_stock_price": 25, "ai_top_n": 3, "ai_rate_limit_delay": 0.5}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte(doc), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, 25.0, cfg.MaxStockPrice)
	assert.Equal(t, 3, cfg.AITopN)
	assert.Equal(t, 500*time.Millisecond, cfg.AIRateLimitDelay)
	// Untouched keys keep defaults
	assert.Equal(t, 2.00, cfg.MaxOptionPremium)
	assert.Equal(t, 100, cfg.MaxTickers)
}

func TestLoad_MalformedFileIsAnError(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte("{nope"), 0644))

	_, err := Load(dir)
	assert.Error(t, err)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(dir)
	require.NoError(t, err)

	cfg.MaxStockPrice = 75
	cfg.ForceAIAll = true
	require.NoError(t, cfg.Save())

	got, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 75.0, got.MaxStockPrice)
	assert.True(t, got.ForceAIAll)
}

func TestProvidersFromEnv_Fallbacks(t *testing.T) {
	t.Setenv("ALPACA_API_KEY", "")
	t.Setenv("ALPACA_API_KEY_ID", "alt-key")
	t.Setenv("OPENAI_BASE_URL", "")
	t.Setenv("OPENAI_MODEL", "")

	p := providersFromEnv()
	assert.Equal(t, "alt-key", p.AlpacaKey)
	assert.Equal(t, "https://api.openai.com/v1", p.OpenAIBaseURL)
	assert.Equal(t, "gpt-4o-mini", p.OpenAIModel)
}
