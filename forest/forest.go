// Package forest implements a random forest classifier: bootstrapped CART trees with soft voting
package forest

import (
	"math/rand"
	"sort"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"

	"github.com/neurlang/mldeploy/hash"
	"github.com/neurlang/mldeploy/parallel"
	"github.com/neurlang/mldeploy/tree"
)

var (
	// ErrNotFitted is returned when predicting with a forest that has no trees.
	ErrNotFitted = errors.New("forest: not fitted")
	// ErrFeatureMismatch is returned when input width differs from the training width.
	ErrFeatureMismatch = errors.New("forest: feature count mismatch")
)

// Forest is a fitted random forest.
type Forest struct {
	Params    HyperParameters                `json:"hyperparameters"`
	Classes   []int                          `json:"classes"`
	NFeatures int                            `json:"n_features"`
	Trees     []*tree.DecisionTreeClassifier `json:"trees"`
}

// Training fits a forest on X (n x p) and y.
// Tree i draws its bootstrap sample and split features from its own seed, derived
// from h.Seed and i, so the result does not depend on h.Threads.
func (h *HyperParameters) Training(X [][]float64, y []int) (*Forest, error) {
	if err := h.Validate(); err != nil {
		return nil, err
	}
	if len(X) == 0 {
		return nil, errors.New("forest: empty X")
	}
	if len(y) != len(X) {
		return nil, errors.Errorf("forest: %d rows but %d labels", len(X), len(y))
	}
	p := len(X[0])

	var set = make(map[int]struct{})
	for _, v := range y {
		set[v] = struct{}{}
	}
	var classes = make([]int, 0, len(set))
	for c := range set {
		classes = append(classes, c)
	}
	sort.Ints(classes)

	f := &Forest{
		Params:    *h,
		Classes:   classes,
		NFeatures: p,
		Trees:     make([]*tree.DecisionTreeClassifier, h.Estimators),
	}
	maxFeatures := h.features(p)
	l := h.logger()

	err := parallel.ForEachErr(h.Estimators, h.threads(), func(i int) error {
		seed := hash.Seed(h.Seed, i)
		rnd := rand.New(rand.NewSource(seed))

		n := len(X)
		sample := make([]int, n)
		for j := range sample {
			if h.Bootstrap {
				sample[j] = rnd.Intn(n)
			} else {
				sample[j] = j
			}
		}

		t := tree.New(
			tree.WithMaxDepth(h.MaxDepth),
			tree.WithMinSamplesSplit(h.MinSamplesSplit),
			tree.WithMinSamplesLeaf(h.MinSamplesLeaf),
			tree.WithMaxFeatures(maxFeatures),
			tree.WithCriterion(h.Criterion),
			tree.WithClasses(classes),
			tree.WithRandomState(rnd.Int63()),
		)
		if err := t.FitSample(X, y, sample); err != nil {
			return errors.Wrapf(err, "forest: tree %d", i)
		}
		f.Trees[i] = t
		l.Printf("tree %d fitted: depth %d, %d leaves", i, t.Depth(), t.Leaves())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return f, nil
}

// Features returns the number of input columns the forest expects.
func (f *Forest) Features() int {
	return f.NFeatures
}

// PredictProba averages the class probabilities of all trees, aligned with Classes.
func (f *Forest) PredictProba(X [][]float64) ([][]float64, error) {
	if len(f.Trees) == 0 {
		return nil, ErrNotFitted
	}
	var out = make([][]float64, len(X))
	for i, x := range X {
		if len(x) != f.NFeatures {
			return nil, errors.Wrapf(ErrFeatureMismatch, "row %d has %d features, want %d", i, len(x), f.NFeatures)
		}
		acc := make([]float64, len(f.Classes))
		for _, t := range f.Trees {
			t.ProbaInto(x, acc)
		}
		floats.Scale(1/float64(len(f.Trees)), acc)
		out[i] = acc
	}
	return out, nil
}

// Predict returns the class with the highest mean probability for every row.
// Ties go to the smaller label.
func (f *Forest) Predict(X [][]float64) ([]int, error) {
	proba, err := f.PredictProba(X)
	if err != nil {
		return nil, err
	}
	var out = make([]int, len(X))
	for i, p := range proba {
		out[i] = f.Classes[floats.MaxIdx(p)]
	}
	return out, nil
}
