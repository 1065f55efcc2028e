package metric

import (
	"strings"
	"sync"
	"time"

	"github.com/DataDog/datadog-go/v5/statsd"
	"github.com/rs/zerolog/log"
)

const (
	ApiRequestCount           = "api_request_count"
	ApiRequestLatency         = "api_request_latency"
	ExternalApiRequestCount   = "external_api_request_count"
	ExternalApiRequestLatency = "external_api_request_latency"
)

type Config struct {
	Address      string  `split_words:"true"`
	SamplingRate float64 `split_words:"true" default:"1"`
	Env          string  `envconfig:"APP_ENV"`
	Service      string  `envconfig:"APP_NAME" default:"crm-insights-gateway"`
}

var (
	// safe for concurrent use
	client       statsd.ClientInterface = &statsd.NoOpClient{}
	samplingRate                        = 1.0
	mu           sync.RWMutex
)

// Init swaps the no-op client for a statsd client when an address is configured.
func Init(cfg Config) error {
	addr := strings.TrimSpace(cfg.Address)
	if addr == "" {
		log.Debug().Msg("metric address not set, metrics disabled")
		return nil
	}

	c, err := statsd.New(addr, statsd.WithTags([]string{
		TagAsString(TagEnv, cfg.Env),
		TagAsString(TagService, cfg.Service),
	}))
	if err != nil {
		return err
	}

	mu.Lock()
	client = c
	if cfg.SamplingRate > 0 {
		samplingRate = cfg.SamplingRate
	}
	mu.Unlock()

	log.Info().Str("address", addr).Float64("samplingRate", cfg.SamplingRate).Msg("metrics client initialized")
	return nil
}

// Use replaces the client, mostly for tests.
func Use(c statsd.ClientInterface) {
	mu.Lock()
	client = c
	mu.Unlock()
}

func current() (statsd.ClientInterface, float64) {
	mu.RLock()
	defer mu.RUnlock()
	return client, samplingRate
}

func Timing(name string, value time.Duration, tags []string) {
	c, rate := current()
	if err := c.Timing(name, value, tags, rate); err != nil {
		log.Warn().Err(err).Str("metric", name).Msg("statsd timing failed")
	}
}

func Count(name string, value int64, tags []string) {
	c, rate := current()
	if err := c.Count(name, value, tags, rate); err != nil {
		log.Warn().Err(err).Str("metric", name).Msg("statsd count failed")
	}
}

func Incr(name string, tags []string) {
	Count(name, 1, tags)
}

func Close() error {
	c, _ := current()
	return c.Close()
}
