package config

import "github.com/spf13/viper"

// NotifierConfig is optional: with an empty token notifications stay in
// the store and nothing is pushed out.
type NotifierConfig struct {
	TelegramToken  string `mapstructure:"telegram_token"`
	TelegramChatID int64  `mapstructure:"telegram_chat_id"`
}

func (config NotifierConfig) Enabled() bool {
	return config.TelegramToken != "" && config.TelegramChatID != 0
}

func (config NotifierConfig) bindEnvironmentVariables() error {
	var errs []error

	if err := viper.BindEnv("notifier.telegram_token", "TELEGRAM_TOKEN"); err != nil {
		errs = append(errs, err)
	}

	if err := viper.BindEnv("notifier.telegram_chat_id", "TELEGRAM_CHAT_ID"); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return createMultiError(errs)
	}

	return nil
}
