// config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rovshanmuradov/solana-dex-sdk/poller"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, `{"rpc_list": ["https://api.mainnet-beta.solana.com"]}`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, DefaultMaxHops, cfg.MaxHops)
	assert.Equal(t, DefaultSlippageBps, cfg.DefaultSlippageBps)
	assert.Equal(t, DefaultMaxRetries, cfg.MaxRetries)
	assert.Equal(t, string(poller.StrategyFixed), cfg.PollStrategy)
	assert.Equal(t, DefaultPollAttempts, cfg.PollAttempts)
	assert.Equal(t, 60*time.Second, cfg.QuoteTTL())
}

func TestLoadOverrides(t *testing.T) {
	path := writeConfig(t, `{
		"rpc_list": ["https://rpc.example"],
		"max_hops": 2,
		"default_slippage_bps": 100,
		"max_retries": 5,
		"base_delay_ms": 250,
		"poll_strategy": "exponential",
		"poll_backoff_factor": 2.0,
		"debug_logging": true
	}`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.MaxHops)
	assert.Equal(t, 100, cfg.DefaultSlippageBps)
	assert.True(t, cfg.DebugLogging)

	retryOpts := cfg.RetryOptions()
	assert.Equal(t, 5, retryOpts.MaxRetries)
	assert.Equal(t, 250*time.Millisecond, retryOpts.BaseDelay)

	pollOpts := cfg.PollingOptions()
	assert.Equal(t, poller.StrategyExponential, pollOpts.Strategy)
	assert.Equal(t, 2.0, pollOpts.BackoffFactor)
}

func TestLoadEnvironmentOverride(t *testing.T) {
	path := writeConfig(t, `{"rpc_list": ["https://rpc.example"]}`)

	t.Setenv("SOLANA_DEX_SDK_RPC_LIST", "https://one.example, https://two.example")
	t.Setenv("SOLANA_DEX_SDK_POSTGRES_URL", "postgres://db.example/sdk")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"https://one.example", "https://two.example"}, cfg.RPCList)
	assert.Equal(t, "postgres://db.example/sdk", cfg.PostgresURL)
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty rpc list", `{"rpc_list": []}`},
		{"bad rpc scheme", `{"rpc_list": ["ftp://rpc.example"]}`},
		{"bad max_hops", `{"rpc_list": ["https://rpc.example"], "max_hops": 0}`},
		{"bad slippage", `{"rpc_list": ["https://rpc.example"], "default_slippage_bps": 10001}`},
		{"bad multiplier", `{"rpc_list": ["https://rpc.example"], "backoff_multiplier": 0.5}`},
		{"bad poll strategy", `{"rpc_list": ["https://rpc.example"], "poll_strategy": "linear"}`},
		{"bad poll attempts", `{"rpc_list": ["https://rpc.example"], "poll_max_attempts": 0}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.content)
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
