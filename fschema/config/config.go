package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	internal "github.com/ZanzyTHEbar/featureschema/fschema"
	"github.com/ZanzyTHEbar/featureschema/fschema/preprocessing"
	"github.com/ZanzyTHEbar/featureschema/fschema/registry"
	"github.com/ZanzyTHEbar/featureschema/fschema/schema"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// outputSuffix selects the output variant of a feature type's schema.
const outputSuffix = "_output"

// ErrFeatureName is returned for features declared without a name.
var ErrFeatureName = errors.New("feature name cannot be empty")

// Config is a model configuration as read from file.
type Config struct {
	Preprocessing  map[string]map[string]any `mapstructure:"preprocessing"`
	InputFeatures  []FeatureConfig           `mapstructure:"input_features"`
	OutputFeatures []FeatureConfig           `mapstructure:"output_features"`

	// Features holds every input then output feature with validated preprocessing.
	Features []Feature `mapstructure:"-"`
}

// FeatureConfig is one entry of input_features / output_features.
type FeatureConfig struct {
	Name          string         `mapstructure:"name"`
	Type          string         `mapstructure:"type"`
	Preprocessing map[string]any `mapstructure:"preprocessing"`
}

// Feature is a feature whose preprocessing section passed validation.
type Feature struct {
	Name          string
	Type          string
	Output        bool
	SchemaKey     string
	Schema        *schema.Schema
	Preprocessing schema.Values
}

// Sequence decodes the preprocessing of a sequence feature.
func (f Feature) Sequence() (*preprocessing.SequenceConfig, error) {
	switch f.SchemaKey {
	case preprocessing.SequenceKey, preprocessing.SequenceOutputKey:
		return preprocessing.FromValues(f.Preprocessing)
	}
	return nil, fmt.Errorf("feature %q: schema %q is not a sequence schema", f.Name, f.SchemaKey)
}

// Loader reads model configs and validates them against a registry.
type Loader struct {
	reg    *registry.Registry
	logger zerolog.Logger
}

// NewLoader creates a loader dispatching on reg.
func NewLoader(reg *registry.Registry, logger zerolog.Logger) *Loader {
	return &Loader{reg: reg, logger: logger.With().Str("component", "config").Logger()}
}

// LoadConfig reads a model config from configPath, or searches the default
// locations for model.yaml when configPath is empty. A missing file is only an
// error when the path was given explicitly.
func (l *Loader) LoadConfig(configPath string) (*Config, error) {
	v := viper.New()
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("..")
		v.AddConfigPath(internal.DefaultConfigPath)
		v.SetConfigName(internal.DefaultConfigName)
		v.SetConfigType("yaml")
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		l.logger.Debug().Msg("no model config found, using an empty config")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}
	if used := v.ConfigFileUsed(); used != "" {
		if err := restoreOptionKeys(used, &cfg); err != nil {
			return nil, err
		}
	}
	if err := l.Resolve(&cfg); err != nil {
		if used := v.ConfigFileUsed(); used != "" {
			return nil, fmt.Errorf("%s: %w", filepath.Base(used), err)
		}
		return nil, err
	}

	l.logger.Info().
		Str("file", v.ConfigFileUsed()).
		Int("input_features", len(cfg.InputFeatures)).
		Int("output_features", len(cfg.OutputFeatures)).
		Msg("model config loaded")
	return &cfg, nil
}

// Resolve validates the preprocessing section of every feature and fills cfg.Features.
// Global defaults under preprocessing.<type> sit beneath each feature's own values.
// cfg.Features is left untouched when any feature fails.
func (l *Loader) Resolve(cfg *Config) error {
	features := make([]Feature, 0, len(cfg.InputFeatures)+len(cfg.OutputFeatures))
	for _, fc := range cfg.InputFeatures {
		f, err := l.resolveFeature(cfg, fc, false)
		if err != nil {
			return err
		}
		features = append(features, f)
	}
	for _, fc := range cfg.OutputFeatures {
		f, err := l.resolveFeature(cfg, fc, true)
		if err != nil {
			return err
		}
		features = append(features, f)
	}
	cfg.Features = features
	return nil
}

// rawModel mirrors the preprocessing sections of a model file with their keys
// exactly as written; viper lowercases every key it reads.
type rawModel struct {
	Preprocessing  map[string]map[string]any `yaml:"preprocessing"`
	InputFeatures  []rawFeature              `yaml:"input_features"`
	OutputFeatures []rawFeature              `yaml:"output_features"`
}

type rawFeature struct {
	Preprocessing map[string]any `yaml:"preprocessing"`
}

// restoreOptionKeys replaces the preprocessing maps decoded by viper with the
// case-preserved ones from a YAML or JSON file, so option names are matched
// exactly. Other formats keep viper's maps.
func restoreOptionKeys(path string, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
	default:
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	var raw rawModel
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	cfg.Preprocessing = raw.Preprocessing
	restore := func(features []FeatureConfig, rawFeatures []rawFeature) {
		for i := range features {
			if i < len(rawFeatures) {
				features[i].Preprocessing = rawFeatures[i].Preprocessing
			}
		}
	}
	restore(cfg.InputFeatures, raw.InputFeatures)
	restore(cfg.OutputFeatures, raw.OutputFeatures)
	return nil
}

func (l *Loader) resolveFeature(cfg *Config, fc FeatureConfig, output bool) (Feature, error) {
	if fc.Name == "" {
		return Feature{}, ErrFeatureName
	}

	key := l.schemaKey(fc.Type, output)
	s, err := l.reg.Lookup(key)
	if err != nil {
		return Feature{}, fmt.Errorf("feature %q: %w", fc.Name, err)
	}

	raw := make(map[string]any, len(fc.Preprocessing))
	for k, v := range cfg.Preprocessing[fc.Type] {
		raw[k] = v
	}
	for k, v := range fc.Preprocessing {
		raw[k] = v
	}

	values, err := s.Validate(raw)
	if err != nil {
		return Feature{}, fmt.Errorf("feature %q preprocessing: %w", fc.Name, err)
	}

	l.logger.Debug().
		Str("feature", fc.Name).
		Str("schema", key).
		Bool("output", output).
		Msg("feature preprocessing validated")

	return Feature{
		Name:          fc.Name,
		Type:          fc.Type,
		Output:        output,
		SchemaKey:     key,
		Schema:        s,
		Preprocessing: values,
	}, nil
}

// schemaKey picks "<type>_output" for output features when such a variant is
// registered, and the plain type otherwise.
func (l *Loader) schemaKey(featureType string, output bool) string {
	if output && l.reg.Has(featureType+outputSuffix) {
		return featureType + outputSuffix
	}
	return featureType
}
