package synthetic

import (
	"math/rand"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/neurlang/mldeploy/datasets"
)

// Params controls the generated problem.
type Params struct {
	Samples          int     // number of rows
	Features         int     // total number of feature columns
	Informative      int     // columns carrying the class signal
	Redundant        int     // linear combinations of informative columns
	Repeated         int     // copies of informative or redundant columns
	Classes          int     // number of class labels
	ClustersPerClass int     // gaussian clusters per class
	FlipY            float64 // fraction of labels replaced at random
	ClassSep         float64 // half the hypercube side length
	Shift            float64 // added to every feature
	Scale            float64 // multiplies every feature after shifting
	Shuffle          bool    // shuffle rows and columns
	Seed             int64   // prng seed
}

// Defaults returns 1000 samples of 20 features (15 informative, 5 redundant) in 3 classes, seed 42.
func Defaults() Params {
	return Params{
		Samples:          1000,
		Features:         20,
		Informative:      15,
		Redundant:        5,
		Classes:          3,
		ClustersPerClass: 2,
		FlipY:            0.01,
		ClassSep:         1.0,
		Scale:            1.0,
		Shuffle:          true,
		Seed:             42,
	}
}

// Validate reports parameter combinations that cannot produce a table.
func (p Params) Validate() error {
	switch {
	case p.Samples <= 0:
		return errors.Errorf("synthetic: samples must be positive, got %d", p.Samples)
	case p.Classes <= 0:
		return errors.Errorf("synthetic: classes must be positive, got %d", p.Classes)
	case p.ClustersPerClass <= 0:
		return errors.Errorf("synthetic: clusters per class must be positive, got %d", p.ClustersPerClass)
	case p.Informative <= 0:
		return errors.Errorf("synthetic: informative features must be positive, got %d", p.Informative)
	case p.Redundant < 0 || p.Repeated < 0:
		return errors.New("synthetic: redundant and repeated features must not be negative")
	case p.Informative+p.Redundant+p.Repeated > p.Features:
		return errors.Errorf("synthetic: %d informative, %d redundant and %d repeated features exceed %d features",
			p.Informative, p.Redundant, p.Repeated, p.Features)
	case p.FlipY < 0 || p.FlipY > 1:
		return errors.Errorf("synthetic: flip_y %v out of range [0, 1]", p.FlipY)
	}
	if p.Informative < 31 && p.Classes*p.ClustersPerClass > 1<<uint(p.Informative) {
		return errors.Errorf("synthetic: %d classes times %d clusters exceed 2^%d hypercube vertices",
			p.Classes, p.ClustersPerClass, p.Informative)
	}
	return nil
}

// Classification generates a labelled table. Columns are named feature_0..feature_{n-1}.
func Classification(p Params) (*datasets.Table, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	rnd := rand.New(rand.NewSource(p.Seed))

	var nInf = p.Informative
	var nClusters = p.Classes * p.ClustersPerClass

	// balanced classes, leftover samples go round-robin over the clusters
	var perCluster = make([]int, nClusters)
	var total int
	for k := range perCluster {
		perCluster[k] = p.Samples / nClusters
		total += perCluster[k]
	}
	for i := 0; i < p.Samples-total; i++ {
		perCluster[i%nClusters]++
	}

	centroids := hypercube(nClusters, nInf, rnd)
	for _, c := range centroids {
		floats.Scale(2*p.ClassSep, c)
		floats.AddConst(-p.ClassSep, c)
	}

	// standard normal draws, then every cluster gets its own covariance and moves to its vertex
	gauss := mat.NewDense(p.Samples, nInf, nil)
	for i := 0; i < p.Samples; i++ {
		for j := 0; j < nInf; j++ {
			gauss.Set(i, j, rnd.NormFloat64())
		}
	}
	informative := mat.NewDense(p.Samples, nInf, nil)
	var y = make([]int, p.Samples)
	var start int
	for k := 0; k < nClusters; k++ {
		stop := start + perCluster[k]
		a := uniformMatrix(nInf, nInf, rnd)
		if stop == start {
			continue
		}
		informative.Slice(start, stop, 0, nInf).(*mat.Dense).Mul(gauss.Slice(start, stop, 0, nInf), a)
		for i := start; i < stop; i++ {
			y[i] = k % p.Classes
			floats.Add(informative.RawRowView(i), centroids[k])
		}
		start = stop
	}

	var x = make([][]float64, p.Samples)
	for i := range x {
		x[i] = make([]float64, p.Features)
		copy(x[i], informative.RawRowView(i))
	}

	if p.Redundant > 0 {
		var redundant mat.Dense
		redundant.Mul(informative, uniformMatrix(nInf, p.Redundant, rnd))
		for i := range x {
			copy(x[i][nInf:], redundant.RawRowView(i))
		}
	}

	var filled = nInf + p.Redundant
	if p.Repeated > 0 {
		var src = make([]int, p.Repeated)
		for r := range src {
			src[r] = int(float64(filled-1)*rnd.Float64() + 0.5)
		}
		for i := range x {
			for r, j := range src {
				x[i][filled+r] = x[i][j]
			}
		}
		filled += p.Repeated
	}

	for i := range x {
		for j := filled; j < p.Features; j++ {
			x[i][j] = rnd.NormFloat64()
		}
	}

	if p.FlipY > 0 {
		for i := range y {
			if rnd.Float64() < p.FlipY {
				y[i] = rnd.Intn(p.Classes)
			}
		}
	}

	for i := range x {
		for j := range x[i] {
			x[i][j] = (x[i][j] + p.Shift) * p.Scale
		}
	}

	if p.Shuffle {
		rnd.Shuffle(len(x), func(i, j int) {
			x[i], x[j] = x[j], x[i]
			y[i], y[j] = y[j], y[i]
		})
		perm := rnd.Perm(p.Features)
		for i := range x {
			var row = make([]float64, p.Features)
			for j, k := range perm {
				row[j] = x[i][k]
			}
			x[i] = row
		}
	}

	return datasets.NewTable(datasets.FeatureNames(p.Features), x, y)
}

// hypercube returns n distinct vertices of the unit hypercube in dim dimensions, in random order.
func hypercube(n, dim int, rnd *rand.Rand) [][]float64 {
	var seen = make(map[string]struct{}, n)
	var out = make([][]float64, 0, n)
	var key = make([]byte, dim)
	for len(out) < n {
		var v = make([]float64, dim)
		for j := range v {
			key[j] = byte(rnd.Intn(2))
			v[j] = float64(key[j])
		}
		if _, dup := seen[string(key)]; dup {
			continue
		}
		seen[string(key)] = struct{}{}
		out = append(out, v)
	}
	return out
}

// uniformMatrix returns a rows x cols matrix with entries uniform in [-1, 1).
func uniformMatrix(rows, cols int, rnd *rand.Rand) *mat.Dense {
	m := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			m.Set(i, j, 2*rnd.Float64()-1)
		}
	}
	return m
}
