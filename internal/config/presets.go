package config

import "sort"

var Presets = map[string]*Config{
	"ordered": {
		Size: 32, J: 1.0, Beta: 0.7, Steps: 500, StepsPerSample: 1,
	},
	"critical": {
		Size: 64, J: 1.0, Beta: 0.4406868, Steps: 2000, StepsPerSample: 1,
	},
	"disordered": {
		Size: 32, J: 1.0, Beta: 0.2, Steps: 500, StepsPerSample: 4,
	},
	"quick-scan": {
		Size: 16, J: 1.0, Steps: DefaultSteps, StepsPerSample: 1,
		Scan: ScanConfig{
			BetaStart: 0.38, BetaEnd: 0.50, MCTimes: 20, Points: 25, Sweeps: 2,
			ScalingSizes: []int{8, 12, 16},
		},
	},
}

// GetPreset returns a copy of the named preset merged over the defaults, or
// nil if there is no such preset.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.Size = p.Size
	cfg.J = p.J
	if p.Beta != 0 {
		cfg.Beta = p.Beta
	}
	cfg.Steps = p.Steps
	cfg.StepsPerSample = p.StepsPerSample
	if p.Scan.MCTimes != 0 {
		cfg.Scan = p.Scan
		cfg.Scan.ScalingSizes = append([]int(nil), p.Scan.ScalingSizes...)
	}
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
