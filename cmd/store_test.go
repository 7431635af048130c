package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/campaign-cli/internal/config"
	"github.com/sells-group/campaign-cli/internal/store"
)

func withConfig(t *testing.T, c *config.Config) {
	t.Helper()
	prev := cfg
	cfg = c
	t.Cleanup(func() { cfg = prev })
}

func TestOpenStoreSQLite(t *testing.T) {
	withConfig(t, &config.Config{Store: config.StoreConfig{
		Driver:      "sqlite",
		DatabaseURL: filepath.Join(t.TempDir(), "campaign.db"),
	}})

	st, err := openStore(context.Background())
	require.NoError(t, err)
	defer st.Close()

	leads, err := st.LoadLeads(context.Background())
	require.NoError(t, err)
	assert.Empty(t, leads)
}

func TestOpenStoreCSV(t *testing.T) {
	withConfig(t, &config.Config{Store: config.StoreConfig{
		Driver:  "csv",
		CSVPath: filepath.Join(t.TempDir(), "leads.csv"),
	}})

	st, err := openStore(context.Background())
	require.NoError(t, err)
	defer st.Close()

	_, ok := st.(*store.CSVStore)
	assert.True(t, ok)
}

func TestOpenStoreUnknownDriver(t *testing.T) {
	withConfig(t, &config.Config{Store: config.StoreConfig{Driver: "redis"}})

	_, err := openStore(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown store driver")
}

func TestInitLLMUnknownProvider(t *testing.T) {
	withConfig(t, &config.Config{LLM: config.LLMConfig{Provider: "openai"}})

	_, err := initLLM()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown llm provider")
}
