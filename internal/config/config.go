package config

import (
	"os"

	"github.com/BurntSushi/toml"
)

// Config holds all user-facing configuration for the dashboard.
type Config struct {
	Data   DataConfig   `toml:"data"`
	Server ServerConfig `toml:"server"`
	Ingest IngestConfig `toml:"ingest"`
	Fetch  FetchConfig  `toml:"fetch"`
}

type DataConfig struct {
	Dir string `toml:"dir"`
}

type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

type IngestConfig struct {
	PricesCSV         string `toml:"prices_csv"`
	MunicipalitiesCSV string `toml:"municipalities_csv"`
	JoinMode          string `toml:"join_mode"`
}

type FetchConfig struct {
	IndexURL  string  `toml:"index_url"`
	RateLimit float64 `toml:"rate_limit"`
}

// Defaults returns a Config populated with built-in default values.
// The inner join is the default because the cross-region aggregation
// feeding the map needs coordinates on every row.
func Defaults() *Config {
	return &Config{
		Data:   DataConfig{Dir: "data"},
		Server: ServerConfig{Host: "localhost", Port: 8080},
		Ingest: IngestConfig{
			PricesCSV:         "data/dados-ANP-2013-2020.csv",
			MunicipalitiesCSV: "data/dados-IBGE-municipios.csv",
			JoinMode:          "inner",
		},
		Fetch: FetchConfig{RateLimit: 1.0},
	}
}

// Load reads a TOML config file. If the file does not exist, built-in
// defaults are returned without error.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
