package application

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	schedule "flight-analytics/internal/schedule/domain"
)

// CatalogConfig defines the enumerations used for generation and classification.
type CatalogConfig struct {
	Carriers     []string `yaml:"carriers"`
	Destinations []string `yaml:"destinations"`
	RegionSet    []string `yaml:"region_set"`
}

// Config defines schedule configuration.
type Config struct {
	Catalog      CatalogConfig `yaml:"catalog"`
	HistoryLimit int           `yaml:"history_limit"`
	// Seed fixes the generation seed when a request does not carry one. Zero means random.
	Seed int64 `yaml:"seed"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return Config{
		Catalog: CatalogConfig{
			Carriers:     append([]string(nil), schedule.DefaultCarriers...),
			Destinations: append([]string(nil), schedule.DefaultDestinations...),
			RegionSet:    append([]string(nil), schedule.DefaultRegionSet...),
		},
		HistoryLimit: 50,
	}
}

// LoadConfig loads config from yaml (SCHEDULE_CONFIG) and env.
func LoadConfig() (Config, error) {
	cfg, err := LoadConfigFile(os.Getenv("SCHEDULE_CONFIG"))
	if err != nil {
		return cfg, err
	}
	if limit := getenvIntDefault("SCHEDULE_HISTORY_LIMIT", 0); limit > 0 {
		cfg.HistoryLimit = limit
	}
	if seed := os.Getenv("SCHEDULE_SEED"); seed != "" {
		parsed, err := strconv.ParseInt(seed, 10, 64)
		if err != nil {
			return cfg, err
		}
		cfg.Seed = parsed
	}
	return cfg, nil
}

// LoadConfigFile overlays a yaml file on the defaults. An empty path returns the defaults.
func LoadConfigFile(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = DefaultConfig().HistoryLimit
	}
	return cfg, nil
}

// BuildCatalog validates the configured enumerations.
func (c Config) BuildCatalog() (schedule.Catalog, error) {
	return schedule.NewCatalog(c.Catalog.Carriers, c.Catalog.Destinations, c.Catalog.RegionSet)
}

func getenvIntDefault(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
