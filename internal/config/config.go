package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

type Config struct {
	App struct {
		Env      string
		Timezone string
	} `mapstructure:"app"`

	Telegram struct {
		Token      string
		TimeoutSec int `mapstructure:"timeout_sec"`
		Debug      bool
	} `mapstructure:"telegram"`

	API struct {
		BaseURL string        `mapstructure:"base_url"`
		Timeout time.Duration `mapstructure:"timeout"`
	} `mapstructure:"api"`

	HTTP struct {
		Addr string
	} `mapstructure:"http"`

	Postgres struct {
		DSN string
	} `mapstructure:"postgres"`

	Metrics struct {
		Enabled bool
	} `mapstructure:"metrics"`

	Store struct {
		Driver   string
		BoltPath string `mapstructure:"bolt_path"`
	} `mapstructure:"store"`

	Planner struct {
		BatchSize    int `mapstructure:"batch_size"`
		BreakMinutes int `mapstructure:"break_minutes"`
	} `mapstructure:"planner"`
}

const (
	StorePostgres = "postgres"
	StoreBolt     = "bolt"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "dev")
	v.SetDefault("app.timezone", "America/Guayaquil")
	v.SetDefault("telegram.timeout_sec", 30)
	v.SetDefault("api.base_url", "http://192.168.0.3:8000/api")
	v.SetDefault("api.timeout", 15*time.Second)
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("store.driver", StorePostgres)
	v.SetDefault("store.bolt_path", "data/store.db")
	v.SetDefault("planner.batch_size", 10)
	v.SetDefault("planner.break_minutes", 15)
}

// Load reads the YAML file at path. A .env file in the same directory is applied
// to the process environment first, so APP_* variables from it override the file.
func Load(path string) (Config, error) {
	var c Config

	dotEnv := filepath.Join(filepath.Dir(path), ".env")
	if err := gotenv.Load(dotEnv); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return c, err
	}

	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return c, err
	}
	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}
	if c.Telegram.Token == "" {
		c.Telegram.Token = os.Getenv("TELEGRAM_TOKEN")
	}
	return c, nil
}

// Location returns the configured timezone, UTC if it cannot be loaded.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
