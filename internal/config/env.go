package config

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Env holds the settings that may come from the environment. Unset variables
// leave the corresponding Config field untouched.
type Env struct {
	Seed      *int64  `env:"ISING_SEED"`
	Workers   *int    `env:"ISING_WORKERS"`
	ImagesDir *string `env:"ISING_IMAGES_DIR"`
	DataDir   *string `env:"ISING_DATA_DIR"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// ApplyEnv overlays ISING_* variables onto c.
func (c *Config) ApplyEnv() error {
	var e Env
	if err := ParseEnv(&e); err != nil {
		return err
	}
	if e.Seed != nil {
		c.Seed = *e.Seed
	}
	if e.Workers != nil {
		c.Workers = *e.Workers
	}
	if e.ImagesDir != nil {
		c.ImagesDir = *e.ImagesDir
	}
	if e.DataDir != nil {
		c.DataDir = *e.DataDir
	}
	return nil
}

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

// ResolveSeed replaces a zero seed with a fresh random one and returns the
// seed in use.
func (c *Config) ResolveSeed() (int64, error) {
	for c.Seed == 0 {
		s, err := NewSeed()
		if err != nil {
			return 0, err
		}
		c.Seed = s
	}
	return c.Seed, nil
}
