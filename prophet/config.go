package prophet

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const defaultConfigFile = "config.json"

// Config is the persisted run configuration.
type Config struct {
	ReferencePath string        `json:"referencePath,omitempty"`
	CandidatePath string        `json:"candidatePath,omitempty"`
	OutputDir     string        `json:"outputDir,omitempty"`
	Fields        []FieldWeight `json:"fields,omitempty"`
	Eps           float64       `json:"eps"`
	MinSamples    int           `json:"minSamples"`
	Metric        string        `json:"metric,omitempty"`
	Workers       int           `json:"workers,omitempty"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	cfg := numericDefaults()
	cfg.ApplyDefaults()
	return cfg
}

func numericDefaults() Config {
	return Config{Eps: DefaultEps, MinSamples: DefaultMinSamples}
}

// ApplyDefaults fills unset fields, metric and output directory. Eps and
// MinSamples are kept as given so that an explicit zero fails validation.
func (c *Config) ApplyDefaults() {
	if len(c.Fields) == 0 {
		c.Fields = DefaultFieldWeights()
	}
	if c.Metric == "" {
		c.Metric = MetricName(DefaultParams().Metric)
	}
	if c.OutputDir == "" {
		c.OutputDir = "."
	}
}

// Params converts the clustering settings.
func (c Config) Params() (Params, error) {
	metric, err := ParseMetric(c.Metric)
	if err != nil {
		return Params{}, err
	}
	p := Params{Eps: c.Eps, MinSamples: c.MinSamples, Metric: metric, Workers: c.Workers}
	if err := p.Validate(); err != nil {
		return Params{}, err
	}
	return p, nil
}

// Job converts the configuration into a validated job.
func (c Config) Job() (Job, error) {
	params, err := c.Params()
	if err != nil {
		return Job{}, err
	}
	job := Job{
		ReferencePath: c.ReferencePath,
		CandidatePath: c.CandidatePath,
		OutputDir:     c.OutputDir,
		Fields:        append([]FieldWeight(nil), c.Fields...),
		Params:        params,
	}
	if err := job.Validate(); err != nil {
		return Job{}, err
	}
	return job, nil
}

// LoadConfig loads configuration from path or the default config.json. A
// missing file yields the defaults, as do keys absent from the file.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		path = defaultConfigFile
	}
	cfg := numericDefaults()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg.ApplyDefaults()
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("decode config: %w", err)
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

// SaveConfig persists configuration to disk.
func SaveConfig(path string, cfg Config) error {
	if path == "" {
		path = defaultConfigFile
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config dir: %w", err)
		}
	}
	cfg.ApplyDefaults()
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp config: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename config: %w", err)
	}
	return nil
}
