// Package config loads the run configuration shared by the report
// generators. Settings come from econlab.yaml in the working directory
// (or an explicit path), with ECONLAB_-prefixed environment variables
// taking precedence and per-command flags on top of that.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config is the full run configuration.
type Config struct {
	DataDir string `mapstructure:"data_dir"`
	OutDir  string `mapstructure:"out_dir"`
	Seed    uint64 `mapstructure:"seed"`
	Figure  Figure `mapstructure:"figure"`
	MCMC    MCMC   `mapstructure:"mcmc"`
}

// Figure sets the rendered size of every figure, in inches.
type Figure struct {
	Width  float64 `mapstructure:"width"`
	Height float64 `mapstructure:"height"`
}

// MCMC sets the sampler lengths used by the posterior sections.
type MCMC struct {
	Iterations int `mapstructure:"iterations"`
	BurnIn     int `mapstructure:"burn_in"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		DataDir: "data",
		OutDir:  "out",
		Seed:    42,
		Figure:  Figure{Width: 5, Height: 4},
		MCMC:    MCMC{Iterations: 10000, BurnIn: 2000},
	}
}

// Load reads the configuration. An empty path searches the working
// directory for econlab.yaml and quietly falls back to defaults when
// there is none; an explicit path must exist.
func Load(path string) (Config, error) {
	cfg := Default()
	v := viper.New()
	v.SetDefault("data_dir", cfg.DataDir)
	v.SetDefault("out_dir", cfg.OutDir)
	v.SetDefault("seed", cfg.Seed)
	v.SetDefault("figure.width", cfg.Figure.Width)
	v.SetDefault("figure.height", cfg.Figure.Height)
	v.SetDefault("mcmc.iterations", cfg.MCMC.Iterations)
	v.SetDefault("mcmc.burn_in", cfg.MCMC.BurnIn)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("econlab")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	v.SetEnvPrefix("ECONLAB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("config: read: %w", err)
		}
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Figure.Width <= 0 || c.Figure.Height <= 0 {
		return fmt.Errorf("config: figure size %gx%g must be positive", c.Figure.Width, c.Figure.Height)
	}
	if c.MCMC.Iterations <= 0 {
		return fmt.Errorf("config: mcmc iterations must be positive, got %d", c.MCMC.Iterations)
	}
	if c.MCMC.BurnIn < 0 {
		return fmt.Errorf("config: mcmc burn-in must not be negative, got %d", c.MCMC.BurnIn)
	}
	return nil
}
