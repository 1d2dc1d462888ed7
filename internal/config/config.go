package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config carries the runtime settings of the CLI. Every value has a default
// and can be overridden through SITEWORK_-prefixed environment variables
// (SITEWORK_DB_PATH, SITEWORK_CALENDAR_MODE, SITEWORK_LOG_USE_CASES).
type Config struct {
	DBPath       string
	CalendarMode string
	LogUseCases  bool
}

// Load builds the configuration from defaults and the environment.
func Load() (*Config, error) {
	v := viper.New()
	v.SetTypeByDefaultValue(true)

	v.SetDefault("db_path", defaultDBPath())
	v.SetDefault("calendar_mode", "BUSINESS_DAYS")
	v.SetDefault("log_use_cases", false)

	v.SetEnvPrefix("SITEWORK")
	v.AutomaticEnv()

	return &Config{
		DBPath:       v.GetString("db_path"),
		CalendarMode: v.GetString("calendar_mode"),
		LogUseCases:  v.GetBool("log_use_cases"),
	}, nil
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "sitework.db"
	}
	return filepath.Join(home, ".sitework", "sitework.db")
}
