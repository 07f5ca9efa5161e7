// config/config.go
package config

import (
	"errors"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"

	"github.com/rovshanmuradov/solana-dex-sdk/poller"
	"github.com/rovshanmuradov/solana-dex-sdk/retry"
)

// Config holds every tunable of the SDK. Loaded from a config file with
// SOLANA_DEX_SDK_* environment overrides.
type Config struct {
	RPCList   []string `mapstructure:"rpc_list"`
	PoolsFile string   `mapstructure:"pools_file"`

	MaxHops            int   `mapstructure:"max_hops"`
	DefaultSlippageBps int   `mapstructure:"default_slippage_bps"`
	QuoteTTLSeconds    int64 `mapstructure:"quote_ttl_seconds"`

	MaxRetries     int     `mapstructure:"max_retries"`
	BaseDelayMs    int64   `mapstructure:"base_delay_ms"`
	MaxDelayMs     int64   `mapstructure:"max_delay_ms"`
	Multiplier     float64 `mapstructure:"backoff_multiplier"`
	RetryJitter    float64 `mapstructure:"retry_jitter"`
	PollStrategy   string  `mapstructure:"poll_strategy"`
	PollIntervalMs int64   `mapstructure:"poll_interval_ms"`
	PollAttempts   int     `mapstructure:"poll_max_attempts"`
	PollBackoff    float64 `mapstructure:"poll_backoff_factor"`
	PollMaxMs      int64   `mapstructure:"poll_max_interval_ms"`

	PostgresURL  string `mapstructure:"postgres_url"`
	DebugLogging bool   `mapstructure:"debug_logging"`
}

const (
	DefaultMaxHops      = 3
	DefaultSlippageBps  = 50
	DefaultQuoteTTL     = 60
	DefaultMaxRetries   = 3
	DefaultBaseDelayMs  = 500
	DefaultMaxDelayMs   = 10_000
	DefaultMultiplier   = 2.0
	DefaultPollInterval = 500
	DefaultPollAttempts = 30
	DefaultPollBackoff  = 1.5
	DefaultPollMaxMs    = 5_000
)

// Load читает конфигурацию из файла и переменных окружения.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	defaults := map[string]interface{}{
		"max_hops":             DefaultMaxHops,
		"default_slippage_bps": DefaultSlippageBps,
		"quote_ttl_seconds":    DefaultQuoteTTL,
		"max_retries":          DefaultMaxRetries,
		"base_delay_ms":        DefaultBaseDelayMs,
		"max_delay_ms":         DefaultMaxDelayMs,
		"backoff_multiplier":   DefaultMultiplier,
		"retry_jitter":         0.5,
		"poll_strategy":        string(poller.StrategyFixed),
		"poll_interval_ms":     DefaultPollInterval,
		"poll_max_attempts":    DefaultPollAttempts,
		"poll_backoff_factor":  DefaultPollBackoff,
		"poll_max_interval_ms": DefaultPollMaxMs,
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := loadEnvironmentVariables(v, &cfg); err != nil {
		return nil, err
	}

	return &cfg, validate(&cfg)
}

// RetryOptions translates the config knobs into a retry policy.
func (c *Config) RetryOptions() retry.Options {
	return retry.Options{
		MaxRetries: c.MaxRetries,
		BaseDelay:  time.Duration(c.BaseDelayMs) * time.Millisecond,
		MaxDelay:   time.Duration(c.MaxDelayMs) * time.Millisecond,
		Multiplier: c.Multiplier,
		Jitter:     c.RetryJitter,
	}
}

// PollingOptions translates the config knobs into a polling policy.
func (c *Config) PollingOptions() poller.Options {
	return poller.Options{
		Strategy:      poller.Strategy(c.PollStrategy),
		Interval:      time.Duration(c.PollIntervalMs) * time.Millisecond,
		MaxAttempts:   c.PollAttempts,
		BackoffFactor: c.PollBackoff,
		MaxInterval:   time.Duration(c.PollMaxMs) * time.Millisecond,
	}
}

// QuoteTTL is the default quote deadline horizon.
func (c *Config) QuoteTTL() time.Duration {
	return time.Duration(c.QuoteTTLSeconds) * time.Second
}

func validate(cfg *Config) error {
	if len(cfg.RPCList) == 0 {
		return errors.New("rpc_list is empty")
	}
	for _, rpcURL := range cfg.RPCList {
		if err := validateURLWithCache(rpcURL, "http"); err != nil {
			return errors.New("invalid RPC URL protocol")
		}
	}
	return validateNumericParams(cfg)
}

func validateNumericParams(cfg *Config) error {
	if cfg.MaxHops <= 0 {
		return errors.New("invalid max_hops")
	}
	if cfg.DefaultSlippageBps < 0 || cfg.DefaultSlippageBps > 10000 {
		return errors.New("invalid default_slippage_bps")
	}
	if cfg.MaxRetries < 0 {
		return errors.New("invalid max_retries")
	}
	if cfg.BaseDelayMs <= 0 || cfg.MaxDelayMs <= 0 {
		return errors.New("invalid retry delays")
	}
	if cfg.Multiplier < 1 {
		return errors.New("invalid backoff_multiplier")
	}
	if cfg.PollIntervalMs <= 0 || cfg.PollAttempts <= 0 {
		return errors.New("invalid polling parameters")
	}
	if cfg.PollBackoff < 1 {
		return errors.New("invalid poll_backoff_factor")
	}
	switch poller.Strategy(cfg.PollStrategy) {
	case poller.StrategyFixed, poller.StrategyExponential:
	default:
		return errors.New("invalid poll_strategy")
	}
	return nil
}

var urlCache sync.Map

func validateURLWithCache(rawURL string, protocol string) error {
	if _, ok := urlCache.Load(rawURL); ok {
		return nil
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return errors.New("invalid URL format")
	}
	if !strings.HasPrefix(parsed.Scheme, protocol) {
		return errors.New("invalid URL protocol")
	}
	urlCache.Store(rawURL, parsed)
	return nil
}

func loadEnvironmentVariables(v *viper.Viper, cfg *Config) error {
	v.AutomaticEnv()
	v.SetEnvPrefix("SOLANA_DEX_SDK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	envRPCList := v.GetString("RPC_LIST")
	if envRPCList != "" {
		rpcs := strings.Split(envRPCList, ",")
		var cleanRPCs []string
		for _, rpc := range rpcs {
			clean := strings.TrimSpace(rpc)
			if clean != "" {
				cleanRPCs = append(cleanRPCs, clean)
			}
		}
		if len(cleanRPCs) > 0 {
			cfg.RPCList = cleanRPCs
		}
	}

	envPostgres := v.GetString("POSTGRES_URL")
	if envPostgres != "" {
		cfg.PostgresURL = envPostgres
	}
	return nil
}
