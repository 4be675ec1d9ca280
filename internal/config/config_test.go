package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Size <= 0 {
		t.Error("size should be positive")
	}
	if cfg.J != 1.0 {
		t.Errorf("expected J 1.0, got %f", cfg.J)
	}
	if cfg.Scan.Points != 100 {
		t.Errorf("expected 100 points, got %d", cfg.Scan.Points)
	}
	if err := cfg.ValidateScan(); err != nil {
		t.Errorf("default config should validate, got %v", err)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("critical")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Beta != 0.4406868 {
		t.Errorf("expected beta 0.4406868, got %f", cfg.Beta)
	}
	if cfg.ImagesDir != DefaultImagesDir {
		t.Errorf("expected default images dir, got %q", cfg.ImagesDir)
	}

	scan := GetPreset("quick-scan")
	require.NotNil(t, scan)
	assert.Equal(t, 25, scan.Scan.Points)
	scan.Scan.ScalingSizes[0] = 99
	assert.Equal(t, 8, Presets["quick-scan"].Scan.ScalingSizes[0], "preset must not be mutated through a copy")
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	assert.Equal(t, []string{"critical", "disordered", "ordered", "quick-scan"}, ListPresets())
	for _, name := range ListPresets() {
		assert.NoError(t, GetPreset(name).ValidateScan(), name)
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")

	cfg := DefaultConfig()
	cfg.Size = 48
	cfg.Beta = 0.5
	cfg.Seed = 77
	cfg.Scan.ScalingSizes = []int{6, 12}
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero size", func(c *Config) { c.Size = 0 }},
		{"negative size", func(c *Config) { c.Size = -3 }},
		{"negative steps", func(c *Config) { c.Steps = -1 }},
		{"zero steps per sample", func(c *Config) { c.StepsPerSample = 0 }},
		{"negative workers", func(c *Config) { c.Workers = -2 }},
		{"size one scan", func(c *Config) { c.Size = 1 }},
		{"zero mc times", func(c *Config) { c.Scan.MCTimes = 0 }},
		{"zero points", func(c *Config) { c.Scan.Points = 0 }},
		{"zero sweeps", func(c *Config) { c.Scan.Sweeps = 0 }},
		{"bad scaling size", func(c *Config) { c.Scan.ScalingSizes = []int{10, 0} }},
		{"no scaling sizes", func(c *Config) { c.Scan.ScalingSizes = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.ValidateScan()
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("ISING_SEED", "1234")
	t.Setenv("ISING_WORKERS", "3")
	t.Setenv("ISING_IMAGES_DIR", "/tmp/plots")

	cfg := DefaultConfig()
	cfg.DataDir = "keep"
	require.NoError(t, cfg.ApplyEnv())

	assert.Equal(t, int64(1234), cfg.Seed)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, "/tmp/plots", cfg.ImagesDir)
	assert.Equal(t, "keep", cfg.DataDir)
}

func TestApplyEnvInvalid(t *testing.T) {
	t.Setenv("ISING_WORKERS", "many")
	assert.Error(t, DefaultConfig().ApplyEnv())
}

func TestResolveSeed(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 5
	seed, err := cfg.ResolveSeed()
	require.NoError(t, err)
	assert.Equal(t, int64(5), seed)

	cfg.Seed = 0
	seed, err = cfg.ResolveSeed()
	require.NoError(t, err)
	assert.NotZero(t, seed)
	assert.Equal(t, seed, cfg.Seed)
}

func TestLoadIntoKeepsUnsetFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	require.NoError(t, os.WriteFile(path, []byte("beta: 0.6\nscan:\n  mc_times: 7\n"), 0644))

	cfg := GetPreset("critical")
	require.NoError(t, LoadInto(path, cfg))

	assert.Equal(t, 0.6, cfg.Beta)
	assert.Equal(t, 64, cfg.Size)
	assert.Equal(t, 7, cfg.Scan.MCTimes)
	assert.Equal(t, DefaultPoints, cfg.Scan.Points)
}
