package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const dateLayout = "2006-01-02"

// Cache backends.
const (
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Data providers a chart can draw from.
const (
	ProviderFRED  = "fred"
	ProviderYahoo = "yahoo"
)

// ChartConfig describes one rendered chart.
type ChartConfig struct {
	Name       string            `yaml:"name"`
	Title      string            `yaml:"title"`
	Output     string            `yaml:"output"`
	Provider   string            `yaml:"provider"`
	Series     map[string]string `yaml:"series"` // logical name -> provider symbol
	Column     string            `yaml:"column"` // Yahoo column to plot
	Start      string            `yaml:"start"`
	Leftmost   string            `yaml:"leftmost"`
	Source     string            `yaml:"source"`
	YLabel     string            `yaml:"y_label"`
	Fill       bool              `yaml:"fill"`
	Recessions bool              `yaml:"recessions"`
	QE         bool              `yaml:"qe"`
	Width      int               `yaml:"width"`
	Height     int               `yaml:"height"`
}

// Config holds all application configuration.
type Config struct {
	Cache struct {
		Backend     string        `yaml:"backend"`
		Path        string        `yaml:"path"`
		ExpireAfter time.Duration `yaml:"expire_after"`
	} `yaml:"cache"`
	History struct {
		Start string `yaml:"start"`
	} `yaml:"history"`
	FRED struct {
		APIKey string `yaml:"api_key"`
	} `yaml:"fred"`
	Annotation struct {
		Entity            string `yaml:"entity"`
		CopyrightSince    int    `yaml:"copyright_since"`
		IncludeTwistTaper bool   `yaml:"include_twist_taper"`
	} `yaml:"annotation"`
	Schedule struct {
		RenderCron string `yaml:"render_cron"`
		PurgeCron  string `yaml:"purge_cron"`
	} `yaml:"schedule"`
	Charts []ChartConfig `yaml:"charts"`
	Proxy  string        `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
// A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("FRED_API_KEY"); v != "" {
		cfg.FRED.APIKey = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("PRELUDE_CACHE_BACKEND"); v != "" {
		cfg.Cache.Backend = v
	}
	if v := os.Getenv("PRELUDE_CACHE_PATH"); v != "" {
		cfg.Cache.Path = v
	}
	if v := os.Getenv("PRELUDE_CACHE_EXPIRE"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("PRELUDE_CACHE_EXPIRE: %w", err)
		}
		cfg.Cache.ExpireAfter = d
	}

	// Defaults
	if cfg.Cache.Backend == "" {
		cfg.Cache.Backend = BackendSQLite
	}
	if cfg.Cache.Path == "" {
		cfg.Cache.Path = "data/cache.db"
	}
	if cfg.Cache.ExpireAfter == 0 {
		cfg.Cache.ExpireAfter = 12 * time.Hour
	}
	if cfg.History.Start == "" {
		cfg.History.Start = "1990-06-01"
	}
	if cfg.Annotation.Entity == "" {
		cfg.Annotation.Entity = "Bateman Capital"
	}
	if cfg.Annotation.CopyrightSince == 0 {
		cfg.Annotation.CopyrightSince = 2019
	}
	if cfg.Schedule.RenderCron == "" {
		cfg.Schedule.RenderCron = "0 0 7 * * *"
	}
	if cfg.Schedule.PurgeCron == "" {
		cfg.Schedule.PurgeCron = "0 15 * * * *"
	}
	for i := range cfg.Charts {
		c := &cfg.Charts[i]
		if c.Provider == "" {
			c.Provider = ProviderFRED
		}
		if c.Provider == ProviderYahoo && c.Column == "" {
			c.Column = "Adj Close"
		}
		if c.Source == "" {
			c.Source = defaultSource(c.Provider)
		}
		if c.Title == "" {
			c.Title = c.Name
		}
	}

	return cfg, nil
}

func defaultSource(provider string) string {
	switch provider {
	case ProviderYahoo:
		return "Yahoo Finance"
	default:
		return "FRED"
	}
}

// Validate checks that all fields hold usable values.
func (c *Config) Validate() error {
	switch c.Cache.Backend {
	case BackendSQLite:
		if c.Cache.Path == "" {
			return fmt.Errorf("cache.path is required for the sqlite backend")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("cache.backend %q is not one of sqlite, memory", c.Cache.Backend)
	}
	if c.Cache.ExpireAfter <= 0 {
		return fmt.Errorf("cache.expire_after must be positive")
	}
	if _, err := ParseDate(c.History.Start); err != nil {
		return fmt.Errorf("history.start: %w", err)
	}

	seen := make(map[string]bool, len(c.Charts))
	for i, ch := range c.Charts {
		if ch.Name == "" {
			return fmt.Errorf("charts[%d].name is required", i)
		}
		if seen[ch.Name] {
			return fmt.Errorf("charts[%d]: duplicate chart name %q", i, ch.Name)
		}
		seen[ch.Name] = true
		if ch.Output == "" {
			return fmt.Errorf("chart %s: output is required", ch.Name)
		}
		if len(ch.Series) == 0 {
			return fmt.Errorf("chart %s: at least one series is required", ch.Name)
		}
		switch ch.Provider {
		case ProviderFRED:
		case ProviderYahoo:
			if len(ch.Series) != 1 {
				return fmt.Errorf("chart %s: yahoo charts take exactly one series", ch.Name)
			}
		default:
			return fmt.Errorf("chart %s: unknown provider %q", ch.Name, ch.Provider)
		}
		for field, v := range map[string]string{"start": ch.Start, "leftmost": ch.Leftmost} {
			if v == "" {
				continue
			}
			if _, err := ParseDate(v); err != nil {
				return fmt.Errorf("chart %s: %s: %w", ch.Name, field, err)
			}
		}
	}
	return nil
}

// Chart returns the chart with the given name.
func (c *Config) Chart(name string) (ChartConfig, bool) {
	for _, ch := range c.Charts {
		if ch.Name == name {
			return ch, true
		}
	}
	return ChartConfig{}, false
}

// ParseDate parses a YYYY-MM-DD date. An empty string yields the zero time.
func ParseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", s)
	}
	return t, nil
}
