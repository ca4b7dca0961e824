package tblfill

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FileConfig is the YAML form of a Config.
//
//	tolerance: 0.01
//	pitch_mode: average      # or "first"
//	classifier: statistical  # or "fixed"
//	table_fallback: largest-box  # or "bounding-rect"
//	fixed_roles: {table: 1, header: 2, data: 0}
//	format: append           # or "separate", "json"
type FileConfig struct {
	Tolerance     float64  `yaml:"tolerance"`
	PitchMode     string   `yaml:"pitch_mode"`
	Classifier    string   `yaml:"classifier"`
	TableFallback string   `yaml:"table_fallback"`
	FixedRoles    *RoleIDs `yaml:"fixed_roles"`
	Format        string   `yaml:"format"`
}

// RoleIDs are the class ids of the FixedClassifier roles.
type RoleIDs struct {
	Table  int `yaml:"table"`
	Header int `yaml:"header"`
	Data   int `yaml:"data"`
}

// LoadConfig reads a YAML configuration from path. Unset values keep their DefaultConfig value.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("cannot read config %q: %w", path, err)
	}

	var fc FileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return Config{}, fmt.Errorf("failed to parse config %q: %w", path, err)
	}

	cfg, err := fc.Config()
	if err != nil {
		return Config{}, fmt.Errorf("invalid config %q: %w", path, err)
	}
	return cfg, nil
}

// Config converts fc to a Config, starting from DefaultConfig.
func (fc FileConfig) Config() (Config, error) {
	cfg := DefaultConfig()
	var err error

	if fc.Tolerance < 0 {
		return Config{}, fmt.Errorf("negative tolerance %v", fc.Tolerance)
	} else if fc.Tolerance > 0 {
		cfg.Tolerance = fc.Tolerance
	}
	if cfg.PitchMode, err = ParsePitchMode(fc.PitchMode); err != nil {
		return Config{}, err
	}
	if cfg.Format, err = ParseFormat(fc.Format); err != nil {
		return Config{}, err
	}

	fallback, err := ParseTableFallback(fc.TableFallback)
	if err != nil {
		return Config{}, err
	}

	switch fc.Classifier {
	case "statistical", "":
		cfg.Classifier = StatisticalClassifier{Fallback: fallback}
	case "fixed":
		if fc.FixedRoles == nil {
			return Config{}, fmt.Errorf("classifier \"fixed\" requires fixed_roles")
		}
		cfg.Classifier = FixedClassifier{
			Table:  ClassID(fc.FixedRoles.Table),
			Header: ClassID(fc.FixedRoles.Header),
			Data:   ClassID(fc.FixedRoles.Data),
		}
	default:
		return Config{}, fmt.Errorf("unknown classifier %q", fc.Classifier)
	}

	return cfg, nil
}

// ParseTableFallback parses "largest-box" or "bounding-rect".
func ParseTableFallback(s string) (TableFallback, error) {
	switch s {
	case "largest-box", "":
		return FallbackLargestBox, nil
	case "bounding-rect":
		return FallbackBoundingRect, nil
	}
	return 0, fmt.Errorf("unknown table fallback %q", s)
}
