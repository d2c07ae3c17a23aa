// Package config loads runtime settings through viper and scenario seeds from YAML.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const EnvPrefix = "MARKETSIM"

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"

	OracleGroq      = "groq"
	OracleAutopilot = "autopilot"
)

type Config struct {
	HTTP    HTTPConfig
	Stream  StreamConfig
	Store   StoreConfig
	Oracle  OracleConfig
	Sim     SimConfig
	Archive ArchiveConfig
	Log     LogConfig
}

type HTTPConfig struct {
	Addr string
}

type StreamConfig struct {
	Addr string
}

type StoreConfig struct {
	Driver        string
	DSN           string
	MigrationsDir string
}

type OracleConfig struct {
	Provider     string
	BaseURL      string
	APIKeys      []string
	AgentModel   string
	CEOModel     string
	Timeout      time.Duration
	Concurrency  int
	MaxPerMinute int
}

type SimConfig struct {
	AutoTick time.Duration
	Seed     int64
	Scenario string
}

type ArchiveConfig struct {
	Dir string
}

type LogConfig struct {
	Level  string
	Format string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("stream.addr", ":8081")
	v.SetDefault("store.driver", StoreMemory)
	v.SetDefault("store.dsn", "")
	v.SetDefault("store.migrations_dir", "")
	v.SetDefault("oracle.provider", "")
	v.SetDefault("oracle.base_url", "https://api.groq.com/openai/v1")
	v.SetDefault("oracle.api_keys", []string{})
	v.SetDefault("oracle.agent_model", "llama-3.1-8b-instant")
	v.SetDefault("oracle.ceo_model", "llama-3.3-70b-versatile")
	v.SetDefault("oracle.timeout", 20*time.Second)
	v.SetDefault("oracle.concurrency", 4)
	v.SetDefault("oracle.max_per_minute", 30)
	v.SetDefault("sim.auto_tick", time.Duration(0))
	v.SetDefault("sim.seed", int64(1))
	v.SetDefault("sim.scenario", DefaultScenario)
	v.SetDefault("archive.dir", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// Load reads defaults, the optional config file at path and MARKETSIM_* env vars,
// in increasing precedence. A nil v uses a fresh viper instance.
func Load(v *viper.Viper, path string) (Config, error) {
	if v == nil {
		v = viper.New()
	}
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := Config{
		HTTP:   HTTPConfig{Addr: v.GetString("http.addr")},
		Stream: StreamConfig{Addr: v.GetString("stream.addr")},
		Store: StoreConfig{
			Driver:        strings.ToLower(v.GetString("store.driver")),
			DSN:           v.GetString("store.dsn"),
			MigrationsDir: v.GetString("store.migrations_dir"),
		},
		Oracle: OracleConfig{
			Provider:     strings.ToLower(v.GetString("oracle.provider")),
			BaseURL:      v.GetString("oracle.base_url"),
			APIKeys:      splitKeys(v.GetStringSlice("oracle.api_keys")),
			AgentModel:   v.GetString("oracle.agent_model"),
			CEOModel:     v.GetString("oracle.ceo_model"),
			Timeout:      v.GetDuration("oracle.timeout"),
			Concurrency:  v.GetInt("oracle.concurrency"),
			MaxPerMinute: v.GetInt("oracle.max_per_minute"),
		},
		Sim: SimConfig{
			AutoTick: v.GetDuration("sim.auto_tick"),
			Seed:     v.GetInt64("sim.seed"),
			Scenario: v.GetString("sim.scenario"),
		},
		Archive: ArchiveConfig{Dir: v.GetString("archive.dir")},
		Log: LogConfig{
			Level:  strings.ToLower(v.GetString("log.level")),
			Format: strings.ToLower(v.GetString("log.format")),
		},
	}
	if cfg.Oracle.Provider == "" {
		cfg.Oracle.Provider = OracleAutopilot
		if len(cfg.Oracle.APIKeys) > 0 {
			cfg.Oracle.Provider = OracleGroq
		}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// splitKeys accepts both list values and a single comma separated env value.
func splitKeys(raw []string) []string {
	var keys []string
	for _, r := range raw {
		for _, k := range strings.Split(r, ",") {
			if k = strings.TrimSpace(k); k != "" {
				keys = append(keys, k)
			}
		}
	}
	return keys
}

func (c Config) Validate() error {
	var errs []error
	switch c.Store.Driver {
	case StoreMemory:
	case StorePostgres, StoreSQLite:
		if c.Store.DSN == "" {
			errs = append(errs, fmt.Errorf("store.dsn is required for driver %s", c.Store.Driver))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown store.driver %q", c.Store.Driver))
	}
	switch c.Oracle.Provider {
	case OracleAutopilot:
	case OracleGroq:
		if len(c.Oracle.APIKeys) == 0 {
			errs = append(errs, errors.New("oracle.api_keys is required for the groq provider"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown oracle.provider %q", c.Oracle.Provider))
	}
	if c.Oracle.Timeout <= 0 {
		errs = append(errs, errors.New("oracle.timeout must be positive"))
	}
	if c.Oracle.Concurrency <= 0 {
		errs = append(errs, errors.New("oracle.concurrency must be positive"))
	}
	if c.Sim.AutoTick < 0 {
		errs = append(errs, errors.New("sim.auto_tick must not be negative"))
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		errs = append(errs, fmt.Errorf("unknown log.format %q", c.Log.Format))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

func parseLevel(raw string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(raw)); err != nil {
		return 0, fmt.Errorf("unknown log.level %q", raw)
	}
	return lvl, nil
}

// NewLogger builds the process logger described by c.
func (c LogConfig) NewLogger() *slog.Logger {
	lvl, err := parseLevel(c.Level)
	if err != nil {
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if c.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
