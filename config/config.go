// Package config holds the training pipeline configuration.
//
// Every value has a default matching the reference run: 1000 samples of 20
// features (15 informative, 5 redundant) in 3 classes, an 80/20 stratified
// split and a 100 tree forest of depth 10, all seeded with 42. A YAML file
// may override any subset of the keys.
package config

import (
	"bytes"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/neurlang/mldeploy/datasets/synthetic"
	"github.com/neurlang/mldeploy/forest"
)

// DatasetConfig controls synthetic data generation.
type DatasetConfig struct {
	Samples          int     `yaml:"samples"`
	Features         int     `yaml:"features"`
	Informative      int     `yaml:"informative"`
	Redundant        int     `yaml:"redundant"`
	Repeated         int     `yaml:"repeated"`
	Classes          int     `yaml:"classes"`
	ClustersPerClass int     `yaml:"clusters_per_class"`
	FlipY            float64 `yaml:"flip_y"`
	ClassSep         float64 `yaml:"class_sep"`
	Seed             int64   `yaml:"seed"`
}

// SplitConfig controls the stratified train/test split.
type SplitConfig struct {
	TestSize float64 `yaml:"test_size"`
	Seed     int64   `yaml:"seed"`
}

// OutputConfig names the artifacts written after training.
type OutputConfig struct {
	Dir          string `yaml:"dir"`
	ModelFile    string `yaml:"model_file"`
	FeaturesFile string `yaml:"features_file"`
}

// Config models the pipeline configuration file.
type Config struct {
	Dataset DatasetConfig          `yaml:"dataset"`
	Split   SplitConfig            `yaml:"split"`
	Model   forest.HyperParameters `yaml:"model"`
	Output  OutputConfig           `yaml:"output"`
}

// Default returns the reference configuration.
func Default() Config {
	d := synthetic.Defaults()
	return Config{
		Dataset: DatasetConfig{
			Samples:          d.Samples,
			Features:         d.Features,
			Informative:      d.Informative,
			Redundant:        d.Redundant,
			Repeated:         d.Repeated,
			Classes:          d.Classes,
			ClustersPerClass: d.ClustersPerClass,
			FlipY:            d.FlipY,
			ClassSep:         d.ClassSep,
			Seed:             d.Seed,
		},
		Split: SplitConfig{
			TestSize: 0.2,
			Seed:     42,
		},
		Model: forest.Defaults(),
		Output: OutputConfig{
			Dir:          "models",
			ModelFile:    "rf_classifier.pkl",
			FeaturesFile: "feature_names.pkl",
		},
	}
}

// Load reads a YAML file over the defaults. Keys absent from the file keep their default value.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "config")
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return Config{}, errors.Wrap(err, "parse")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.Synthetic().Validate(); err != nil {
		return err
	}
	if c.Split.TestSize <= 0 || c.Split.TestSize >= 1 {
		return errors.Errorf("config: split.test_size %v out of range (0, 1)", c.Split.TestSize)
	}
	if err := c.Model.Validate(); err != nil {
		return err
	}
	if c.Output.Dir == "" || c.Output.ModelFile == "" || c.Output.FeaturesFile == "" {
		return errors.New("config: output dir, model_file and features_file must be set")
	}
	if c.Output.ModelFile == c.Output.FeaturesFile {
		return errors.New("config: model_file and features_file must differ")
	}
	return nil
}

// Synthetic returns the generator parameters.
func (c Config) Synthetic() synthetic.Params {
	p := synthetic.Defaults()
	p.Samples = c.Dataset.Samples
	p.Features = c.Dataset.Features
	p.Informative = c.Dataset.Informative
	p.Redundant = c.Dataset.Redundant
	p.Repeated = c.Dataset.Repeated
	p.Classes = c.Dataset.Classes
	p.ClustersPerClass = c.Dataset.ClustersPerClass
	p.FlipY = c.Dataset.FlipY
	p.ClassSep = c.Dataset.ClassSep
	p.Seed = c.Dataset.Seed
	return p
}

// ModelPath returns the path of the serialized model.
func (c Config) ModelPath() string {
	return filepath.Join(c.Output.Dir, c.Output.ModelFile)
}

// FeaturesPath returns the path of the serialized feature name list.
func (c Config) FeaturesPath() string {
	return filepath.Join(c.Output.Dir, c.Output.FeaturesFile)
}
