package forest

import (
	"io"
	"log"
	"math"

	"github.com/pkg/errors"

	"github.com/neurlang/mldeploy/parallel"
	"github.com/neurlang/mldeploy/tree"
)

// MaxFeaturesSqrt selects floor(sqrt(features)) candidate features per split.
const MaxFeaturesSqrt = -1

// HyperParameters configures forest training.
type HyperParameters struct {
	Estimators      int            `json:"n_estimators" yaml:"estimators"`
	MaxDepth        int            `json:"max_depth" yaml:"max_depth"` // 0 => grow until pure
	MinSamplesSplit int            `json:"min_samples_split" yaml:"min_samples_split"`
	MinSamplesLeaf  int            `json:"min_samples_leaf" yaml:"min_samples_leaf"`
	MaxFeatures     int            `json:"max_features" yaml:"max_features"` // MaxFeaturesSqrt, 0 => all, >0 => that many
	Criterion       tree.Criterion `json:"criterion" yaml:"criterion"`
	Bootstrap       bool           `json:"bootstrap" yaml:"bootstrap"`
	Seed            int64          `json:"random_state" yaml:"seed"`

	Threads int `json:"-" yaml:"threads"` // number of trees fitted at once, 0 => all logical cores

	l *log.Logger
}

// Defaults returns 100 bootstrapped gini trees of depth at most 10, seed 42.
func Defaults() HyperParameters {
	return HyperParameters{
		Estimators:      100,
		MaxDepth:        10,
		MinSamplesSplit: 2,
		MinSamplesLeaf:  1,
		MaxFeatures:     MaxFeaturesSqrt,
		Criterion:       tree.Gini,
		Bootstrap:       true,
		Seed:            42,
	}
}

// SetLogger sends per-tree progress lines to l. A nil logger silences them.
func (h *HyperParameters) SetLogger(l *log.Logger) {
	h.l = l
}

func (h *HyperParameters) logger() *log.Logger {
	if h.l == nil {
		return log.New(io.Discard, "", 0)
	}
	return h.l
}

// Validate reports hyperparameters no forest can be trained with.
func (h HyperParameters) Validate() error {
	switch {
	case h.Estimators <= 0:
		return errors.Errorf("forest: estimators must be positive, got %d", h.Estimators)
	case h.MaxDepth < 0:
		return errors.Errorf("forest: max depth must not be negative, got %d", h.MaxDepth)
	case h.MinSamplesSplit < 2:
		return errors.Errorf("forest: min samples split must be at least 2, got %d", h.MinSamplesSplit)
	case h.MinSamplesLeaf < 1:
		return errors.Errorf("forest: min samples leaf must be at least 1, got %d", h.MinSamplesLeaf)
	case h.MaxFeatures < MaxFeaturesSqrt:
		return errors.Errorf("forest: invalid max features %d", h.MaxFeatures)
	case h.Threads < 0:
		return errors.Errorf("forest: threads must not be negative, got %d", h.Threads)
	}
	switch h.Criterion {
	case tree.Gini, tree.Entropy:
	default:
		return errors.Errorf("forest: unknown criterion %q", h.Criterion)
	}
	return nil
}

// features resolves MaxFeatures for p input columns.
func (h HyperParameters) features(p int) int {
	switch {
	case h.MaxFeatures == MaxFeaturesSqrt:
		k := int(math.Sqrt(float64(p)))
		if k < 1 {
			k = 1
		}
		return k
	case h.MaxFeatures == 0 || h.MaxFeatures > p:
		return p
	}
	return h.MaxFeatures
}

func (h HyperParameters) threads() int {
	if h.Threads > 0 {
		return h.Threads
	}
	return parallel.Threads()
}
