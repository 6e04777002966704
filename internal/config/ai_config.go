package config

import "github.com/spf13/viper"

// AIConfig is optional: with an empty key the engine skips AI summaries
// entirely.
type AIConfig struct {
	Key                  string  `mapstructure:"key"`
	Model                string  `mapstructure:"model"`
	MaxRequestsPerMinute float32 `mapstructure:"max_requests_per_minute"`
	MaxRequestsPerDay    float32 `mapstructure:"max_requests_per_day"`
}

func (config AIConfig) Enabled() bool {
	return config.Key != ""
}

func (config AIConfig) bindEnvironmentVariables() error {
	var errs []error

	if err := viper.BindEnv("ai.key", "AI_KEY"); err != nil {
		errs = append(errs, err)
	}

	if err := viper.BindEnv("ai.model", "AI_MODEL"); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return createMultiError(errs)
	}

	return nil
}
