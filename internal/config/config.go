package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultSize           = 32
	DefaultJ              = 1.0
	DefaultBeta           = 0.44
	DefaultSteps          = 1000
	DefaultStepsPerSample = 1
	DefaultBetaStart      = 0.35
	DefaultBetaEnd        = 0.55
	DefaultMCTimes        = 100
	DefaultPoints         = 100
	DefaultImagesDir      = "./images"
)

type Config struct {
	Size           int     `yaml:"size"`
	J              float64 `yaml:"j"`
	Beta           float64 `yaml:"beta"`
	Steps          int     `yaml:"steps"`
	StepsPerSample int     `yaml:"steps_per_sample"`

	Scan ScanConfig `yaml:"scan"`

	Seed      int64  `yaml:"seed"`
	Workers   int    `yaml:"workers"`
	ImagesDir string `yaml:"images_dir"`
	DataDir   string `yaml:"data_dir"`
}

type ScanConfig struct {
	BetaStart    float64 `yaml:"beta_start"`
	BetaEnd      float64 `yaml:"beta_end"`
	MCTimes      int     `yaml:"mc_times"`
	Points       int     `yaml:"points"`
	Sweeps       int     `yaml:"sweeps"`
	ScalingSizes []int   `yaml:"scaling_sizes"`
}

func DefaultConfig() *Config {
	return &Config{
		Size:           DefaultSize,
		J:              DefaultJ,
		Beta:           DefaultBeta,
		Steps:          DefaultSteps,
		StepsPerSample: DefaultStepsPerSample,
		Scan: ScanConfig{
			BetaStart:    DefaultBetaStart,
			BetaEnd:      DefaultBetaEnd,
			MCTimes:      DefaultMCTimes,
			Points:       DefaultPoints,
			Sweeps:       1,
			ScalingSizes: []int{10, 20, 30, 40, 50},
		},
		ImagesDir: DefaultImagesDir,
	}
}

func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := LoadInto(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadInto overlays the fields present in the yaml file at path onto cfg.
func LoadInto(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the fields shared by both tools. Lattice sizes are checked
// again where lattices are built.
func (c *Config) Validate() error {
	if c.Size <= 0 {
		return fmt.Errorf("%w: size must be positive, got %d", ErrInvalidConfig, c.Size)
	}
	if c.Steps < 0 {
		return fmt.Errorf("%w: steps must not be negative, got %d", ErrInvalidConfig, c.Steps)
	}
	if c.StepsPerSample <= 0 {
		return fmt.Errorf("%w: steps_per_sample must be positive, got %d", ErrInvalidConfig, c.StepsPerSample)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative, got %d", ErrInvalidConfig, c.Workers)
	}
	return nil
}

// ValidateScan checks the scan section.
func (c *Config) ValidateScan() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Size/2 == 0 {
		return fmt.Errorf("%w: size must be at least 2 for a binder scan, got %d", ErrInvalidConfig, c.Size)
	}
	if c.Scan.MCTimes <= 0 {
		return fmt.Errorf("%w: mc_times must be positive, got %d", ErrInvalidConfig, c.Scan.MCTimes)
	}
	if c.Scan.Points <= 0 {
		return fmt.Errorf("%w: points must be positive, got %d", ErrInvalidConfig, c.Scan.Points)
	}
	if c.Scan.Sweeps <= 0 {
		return fmt.Errorf("%w: sweeps must be positive, got %d", ErrInvalidConfig, c.Scan.Sweeps)
	}
	if len(c.Scan.ScalingSizes) == 0 {
		return fmt.Errorf("%w: scaling_sizes must not be empty", ErrInvalidConfig)
	}
	for _, size := range c.Scan.ScalingSizes {
		if size <= 0 {
			return fmt.Errorf("%w: scaling size must be positive, got %d", ErrInvalidConfig, size)
		}
	}
	return nil
}
