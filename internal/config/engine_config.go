package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type EngineConfig struct {
	SourceMaxRequestsPerSecond float32       `mapstructure:"source_max_requests_per_second"`
	SearchConcurrency          int           `mapstructure:"search_concurrency"`
	SourceTimeout              time.Duration `mapstructure:"source_timeout"`
	CacheTTL                   time.Duration `mapstructure:"cache_ttl"`
	MaxResults                 int           `mapstructure:"max_results"`
	AlertPollInterval          time.Duration `mapstructure:"alert_poll_interval"`
	NotifiedCap                int           `mapstructure:"notified_cap"`
	NotificationCap            int           `mapstructure:"notification_cap"`
	RetentionDays              int           `mapstructure:"retention_days"`
	MetricsAddress             string        `mapstructure:"metrics_address"`
}

func (config *EngineConfig) applyDefaults() {
	if config.SearchConcurrency == 0 {
		config.SearchConcurrency = 3
	}
	if config.SourceTimeout == 0 {
		config.SourceTimeout = 15 * time.Second
	}
	if config.CacheTTL == 0 {
		config.CacheTTL = 5 * time.Minute
	}
	if config.MaxResults == 0 {
		config.MaxResults = 50
	}
	if config.AlertPollInterval == 0 {
		config.AlertPollInterval = 5 * time.Minute
	}
	if config.NotifiedCap == 0 {
		config.NotifiedCap = 1000
	}
	if config.NotificationCap == 0 {
		config.NotificationCap = 200
	}
	if config.RetentionDays == 0 {
		config.RetentionDays = 30
	}
	if config.MetricsAddress == "" {
		config.MetricsAddress = ":8080"
	}
}

func (config EngineConfig) validate() error {

	if config.SearchConcurrency < 1 {
		return fmt.Errorf("search_concurrency must be at least 1")
	}

	if config.RetentionDays < 1 {
		return fmt.Errorf("retention_days must be at least 1")
	}

	return nil
}

func (config EngineConfig) bindEnvironmentVariables() error {
	var errs []error

	if err := viper.BindEnv("engine.source_max_requests_per_second", "SOURCE_MAX_REQUESTS_PER_SECOND"); err != nil {
		errs = append(errs, err)
	}

	if err := viper.BindEnv("engine.search_concurrency", "SEARCH_CONCURRENCY"); err != nil {
		errs = append(errs, err)
	}

	if err := viper.BindEnv("engine.cache_ttl", "CACHE_TTL"); err != nil {
		errs = append(errs, err)
	}

	if err := viper.BindEnv("engine.alert_poll_interval", "ALERT_POLL_INTERVAL"); err != nil {
		errs = append(errs, err)
	}

	if err := viper.BindEnv("engine.retention_days", "RETENTION_DAYS"); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return createMultiError(errs)
	}

	return nil
}
