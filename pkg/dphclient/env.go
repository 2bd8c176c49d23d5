package dphclient

import (
	"context"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/fivetwenty-io/dph-client/internal/constants"
	"github.com/fivetwenty-io/dph-client/pkg/dph"
)

// EnvPrefix prefixes every environment variable read by NewFromEnvironment.
const EnvPrefix = "DPH_"

// EnvConfig is the client configuration read from DPH_* environment variables.
type EnvConfig struct {
	URL              string        `env:"URL"`
	APIKey           string        `env:"APIKEY"`
	BearerToken      string        `env:"BEARER_TOKEN"`
	AuthURL          string        `env:"AUTH_URL"`
	AuthClientID     string        `env:"AUTH_CLIENT_ID"`
	AuthClientSecret string        `env:"AUTH_CLIENT_SECRET"`
	RetryMax         int           `env:"RETRY_MAX"`
	RetryWaitMin     time.Duration `env:"RETRY_WAIT_MIN"`
	RetryWaitMax     time.Duration `env:"RETRY_WAIT_MAX"`
	Debug            bool          `env:"DEBUG"`
	UserAgent        string        `env:"USER_AGENT"`

	Cache CacheEnvConfig `envPrefix:"CACHE_"`
}

// CacheEnvConfig selects the response cache.
type CacheEnvConfig struct {
	Type       dph.CacheType `env:"TYPE"        envDefault:"none"`
	Size       int           `env:"SIZE"        envDefault:"1000"`
	TTL        time.Duration `env:"TTL"         envDefault:"5m"`
	NATSURL    string        `env:"NATS_URL"`
	NATSBucket string        `env:"NATS_BUCKET" envDefault:"dph_cache"`
}

// LoadEnvConfig parses the DPH_* variables of the process environment.
func LoadEnvConfig() (*EnvConfig, error) {
	return loadEnvConfig(env.Options{Prefix: EnvPrefix})
}

func loadEnvConfig(opts env.Options) (*EnvConfig, error) {
	var cfg EnvConfig

	err := env.ParseWithOptions(&cfg, opts)
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}

	return &cfg, nil
}

// ToConfig converts the environment configuration into a dph.Config,
// opening the configured cache backend.
func (c *EnvConfig) ToConfig() (*dph.Config, error) {
	config := &dph.Config{
		ServiceURL:       c.URL,
		APIKey:           c.APIKey,
		BearerToken:      c.BearerToken,
		AuthURL:          c.AuthURL,
		AuthClientID:     c.AuthClientID,
		AuthClientSecret: c.AuthClientSecret,
		RetryMax:         c.RetryMax,
		RetryWaitMin:     c.RetryWaitMin,
		RetryWaitMax:     c.RetryWaitMax,
		Debug:            c.Debug,
		UserAgent:        c.UserAgent,
		CacheTTL:         c.Cache.TTL,
	}

	if config.ServiceURL == "" {
		config.ServiceURL = constants.DefaultServiceURL
	}

	if c.Cache.Type == "" || c.Cache.Type == dph.CacheTypeNone {
		return config, nil
	}

	cache, err := dph.NewCacheFromConfig(&dph.CacheConfig{
		Type:   c.Cache.Type,
		Memory: &dph.MemoryCacheConfig{MaxSize: c.Cache.Size},
		NATS: &dph.NATSKVConfig{
			URL:    c.Cache.NATSURL,
			Bucket: c.Cache.NATSBucket,
			TTL:    c.Cache.TTL,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("creating %s cache: %w", c.Cache.Type, err)
	}

	config.Cache = cache

	return config, nil
}

// NewFromEnvironment creates a client configured from DPH_* environment variables.
//
//	DPH_URL                 service URL (defaults to the public service)
//	DPH_APIKEY              IAM API key
//	DPH_BEARER_TOKEN        pre-issued access token
//	DPH_AUTH_URL            IAM token endpoint
//	DPH_RETRY_MAX           retries for transient failures
//	DPH_CACHE_TYPE          none, memory or nats
//	DPH_CACHE_NATS_URL      NATS server for the nats cache
func NewFromEnvironment(ctx context.Context) (dph.Client, error) {
	envConfig, err := LoadEnvConfig()
	if err != nil {
		return nil, err
	}

	config, err := envConfig.ToConfig()
	if err != nil {
		return nil, err
	}

	return New(ctx, config)
}
