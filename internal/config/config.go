package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/cosmoprep/internal/cosmology"
)

const (
	DefaultNumThermo = 1000
	DefaultRTol      = 1e-5
	DefaultATol      = 1e-7
	DefaultOrder     = 5
)

type Config struct {
	Cosmology CosmologyConfig `yaml:"cosmology"`
	Tables    TablesConfig    `yaml:"tables"`
}

type CosmologyConfig struct {
	Omegam float64 `yaml:"omega_m"`
	Omegab float64 `yaml:"omega_b"`
	OmegaL float64 `yaml:"omega_l"`
	H0     float64 `yaml:"h0"`
	Tcmb   float64 `yaml:"tcmb"`
	YHe    float64 `yaml:"yhe"`
	Neff   float64 `yaml:"neff"`
	Nmnu   int     `yaml:"nmnu"`
	Mnu    float64 `yaml:"mnu"`
}

type TablesConfig struct {
	NumThermo int     `yaml:"num_thermo"`
	RTol      float64 `yaml:"rtol"`
	ATol      float64 `yaml:"atol"`
	Order     int     `yaml:"order"`
}

func DefaultConfig() *Config {
	return &Config{
		Cosmology: CosmologyConfig{
			Omegam: 0.3,
			Omegab: 0.05,
			OmegaL: 0.7,
			H0:     67.0,
			Tcmb:   2.725,
			YHe:    0.245,
			Neff:   3.046,
		},
		Tables: TablesConfig{
			NumThermo: DefaultNumThermo,
			RTol:      DefaultRTol,
			ATol:      DefaultATol,
			Order:     DefaultOrder,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Params() cosmology.Params {
	return cosmology.Params{
		Omegam: c.Cosmology.Omegam,
		Omegab: c.Cosmology.Omegab,
		OmegaL: c.Cosmology.OmegaL,
		H0:     c.Cosmology.H0,
		Tcmb:   c.Cosmology.Tcmb,
		YHe:    c.Cosmology.YHe,
		Neff:   c.Cosmology.Neff,
		Nmnu:   c.Cosmology.Nmnu,
		Mnu:    c.Cosmology.Mnu,
	}
}

func (c *Config) Options() cosmology.Options {
	opt := cosmology.DefaultOptions()
	if c.Tables.NumThermo > 0 {
		opt.NumThermo = c.Tables.NumThermo
	}
	if c.Tables.RTol > 0 {
		opt.RTol = c.Tables.RTol
	}
	if c.Tables.ATol > 0 {
		opt.ATol = c.Tables.ATol
	}
	if c.Tables.Order > 0 {
		opt.Order = c.Tables.Order
	}
	return opt
}
