package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"currency-event-impact/internal/logging"
)

// Config materialises application configuration.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Logging  logging.Config `mapstructure:"logging"`
	Database DatabaseConfig `mapstructure:"database"`
	Engine   EngineConfig   `mapstructure:"engine"`
	Input    InputConfig    `mapstructure:"input"`
	Export   ExportConfig   `mapstructure:"export"`
}

// AppConfig general metadata.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
}

// DatabaseConfig encapsulates PostgreSQL connectivity. Persistence is
// optional: an empty DSN disables the store.
type DatabaseConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	AdvisoryLockKey int64         `mapstructure:"advisory_lock_key"`
}

// EngineConfig tunes the statistical pipeline.
type EngineConfig struct {
	ZThreshold  float64 `mapstructure:"z_threshold"`
	LagDays     int     `mapstructure:"lag_days"`
	TopN        int     `mapstructure:"top_n"`
	NeutralBand float64 `mapstructure:"neutral_band"`
	// CurrencyCountryMap must be supplied unless UseBuiltinMap is set;
	// there is no silent default.
	CurrencyCountryMap map[string][]string `mapstructure:"currency_country_map"`
	UseBuiltinMap      bool                `mapstructure:"use_builtin_map"`
}

// InputConfig points at the already-downloaded data files.
type InputConfig struct {
	RatesPath  string `mapstructure:"rates_path"`
	EventsPath string `mapstructure:"events_path"`
}

// ExportConfig sets output rendering behaviour.
type ExportConfig struct {
	Dir string `mapstructure:"dir"`
}

// Load builds configuration from file, environment, and defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("FXIMPACT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, decodeHook()); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func readConfig(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "fximpact")
	v.SetDefault("app.environment", "development")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("engine.z_threshold", 2.0)
	v.SetDefault("engine.lag_days", 1)
	v.SetDefault("engine.top_n", 3)
	v.SetDefault("engine.neutral_band", 1e-6)
	v.SetDefault("engine.use_builtin_map", false)

	v.SetDefault("export.dir", "results")

	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("database.advisory_lock_key", int64(0x66786d70))
}

func decodeHook() viper.DecoderConfigOption {
	return func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}
}

// Validate performs basic sanity checks on the configuration values.
func (c *Config) Validate() error {
	if c.Engine.ZThreshold <= 0 {
		return fmt.Errorf("engine.z_threshold must be greater than zero")
	}
	if c.Engine.LagDays <= 0 {
		return fmt.Errorf("engine.lag_days must be greater than zero")
	}
	if c.Engine.TopN <= 0 {
		return fmt.Errorf("engine.top_n must be greater than zero")
	}
	if c.Engine.NeutralBand < 0 {
		return fmt.Errorf("engine.neutral_band cannot be negative")
	}
	return nil
}

// RequireCountryMap enforces that the caller supplied a currency to country
// mapping, either explicitly or by opting into the built-in table. Commands
// that run the engine call this; config-only commands do not.
func (c *Config) RequireCountryMap() error {
	if c.Engine.UseBuiltinMap {
		return nil
	}
	if len(c.Engine.CurrencyCountryMap) == 0 {
		return fmt.Errorf("engine.currency_country_map is required (or set engine.use_builtin_map)")
	}
	for code, countries := range c.Engine.CurrencyCountryMap {
		if len(countries) == 0 {
			return fmt.Errorf("engine.currency_country_map[%s] maps to no countries", code)
		}
	}
	return nil
}
