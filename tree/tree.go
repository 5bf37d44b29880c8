// Package tree implements a CART decision tree classifier
package tree

import (
	"math"
	"math/rand"
	"sort"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Criterion names the impurity measure used to score splits.
type Criterion string

const (
	Gini    Criterion = "gini"
	Entropy Criterion = "entropy"
)

// Node is one node of a fitted tree. Leaves have Left == Right == -1.
type Node struct {
	Feature   int       `json:"feature"`
	Threshold float64   `json:"threshold"`
	Left      int       `json:"left"`
	Right     int       `json:"right"`
	Samples   int       `json:"samples"`
	Value     []float64 `json:"value,omitempty"` // class probabilities, leaves only
}

// IsLeaf reports whether the node has no children.
func (n Node) IsLeaf() bool {
	return n.Left < 0
}

// DecisionTreeClassifier is a CART-style classifier over numeric features.
type DecisionTreeClassifier struct {
	MaxDepth            int       `json:"max_depth"`         // root depth = 0, 0 => no limit
	MinSamplesSplit     int       `json:"min_samples_split"` // minimum samples to attempt a split
	MinSamplesLeaf      int       `json:"min_samples_leaf"`  // minimum samples in each child
	MaxFeatures         int       `json:"max_features"`      // features sampled per split, 0 => all
	Criterion           Criterion `json:"criterion"`
	MinImpurityDecrease float64   `json:"min_impurity_decrease"`
	RandomState         int64     `json:"random_state"`

	Classes   []int  `json:"classes"`
	NFeatures int    `json:"n_features"`
	Nodes     []Node `json:"nodes"`
}

// Option configures a DecisionTreeClassifier.
type Option func(*DecisionTreeClassifier)

func WithMaxDepth(d int) Option { return func(t *DecisionTreeClassifier) { t.MaxDepth = d } }
func WithMinSamplesSplit(n int) Option {
	return func(t *DecisionTreeClassifier) { t.MinSamplesSplit = n }
}
func WithMinSamplesLeaf(n int) Option {
	return func(t *DecisionTreeClassifier) { t.MinSamplesLeaf = n }
}
func WithCriterion(c Criterion) Option { return func(t *DecisionTreeClassifier) { t.Criterion = c } }
func WithMaxFeatures(k int) Option     { return func(t *DecisionTreeClassifier) { t.MaxFeatures = k } }
func WithMinImpurityDecrease(v float64) Option {
	return func(t *DecisionTreeClassifier) { t.MinImpurityDecrease = v }
}
func WithRandomState(seed int64) Option {
	return func(t *DecisionTreeClassifier) { t.RandomState = seed }
}

// WithClasses fixes the label set, so probability vectors of several trees line up.
func WithClasses(classes []int) Option {
	return func(t *DecisionTreeClassifier) { t.Classes = append([]int(nil), classes...) }
}

// New returns a classifier that grows until leaves are pure.
func New(opts ...Option) *DecisionTreeClassifier {
	t := &DecisionTreeClassifier{
		MinSamplesSplit: 2,
		MinSamplesLeaf:  1,
		Criterion:       Gini,
	}
	for _, o := range opts {
		o(t)
	}
	return t
}

// Fit trains the tree on every row of X.
func (t *DecisionTreeClassifier) Fit(X [][]float64, y []int) error {
	var sample = make([]int, len(X))
	for i := range sample {
		sample[i] = i
	}
	return t.FitSample(X, y, sample)
}

// FitSample trains the tree on the rows listed in sample. Indices may repeat (bootstrap).
func (t *DecisionTreeClassifier) FitSample(X [][]float64, y []int, sample []int) error {
	if len(X) == 0 || len(sample) == 0 {
		return errors.New("tree: empty X")
	}
	if len(y) != len(X) {
		return errors.Errorf("tree: %d rows but %d labels", len(X), len(y))
	}
	p := len(X[0])
	for i := range X {
		if len(X[i]) != p {
			return errors.Errorf("tree: row %d has %d features, want %d", i, len(X[i]), p)
		}
	}
	switch t.Criterion {
	case "":
		t.Criterion = Gini
	case Gini, Entropy:
	default:
		return errors.Errorf("tree: unknown criterion %q", t.Criterion)
	}
	if t.MaxFeatures < 0 || t.MinSamplesLeaf < 0 || t.MaxDepth < 0 {
		return errors.New("tree: negative hyperparameter")
	}

	if t.Classes == nil {
		var set = make(map[int]struct{})
		for _, i := range sample {
			set[y[i]] = struct{}{}
		}
		for c := range set {
			t.Classes = append(t.Classes, c)
		}
		sort.Ints(t.Classes)
	}
	var classIndex = make(map[int]int, len(t.Classes))
	for i, c := range t.Classes {
		classIndex[c] = i
	}
	var label = make([]int, len(y))
	for i, v := range y {
		ci, ok := classIndex[v]
		if !ok {
			ci = -1
		}
		label[i] = ci
	}
	for _, i := range sample {
		if label[i] < 0 {
			return errors.Errorf("tree: label %d not among classes %v", y[i], t.Classes)
		}
	}

	b := builder{
		tree:     t,
		x:        X,
		label:    label,
		nClasses: len(t.Classes),
		nFeat:    p,
		rnd:      rand.New(rand.NewSource(t.RandomState)),
		impurity: giniFromCounts,
	}
	if t.Criterion == Entropy {
		b.impurity = entropyFromCounts
	}
	t.NFeatures = p
	t.Nodes = t.Nodes[:0]
	b.build(append([]int(nil), sample...), 0)
	return nil
}

// Predict returns the most probable class of every row.
func (t *DecisionTreeClassifier) Predict(X [][]float64) []int {
	var out = make([]int, len(X))
	for i := range X {
		out[i] = t.Classes[floats.MaxIdx(t.leaf(X[i]).Value)]
	}
	return out
}

// PredictProba returns the class probabilities of every row, aligned with Classes.
func (t *DecisionTreeClassifier) PredictProba(X [][]float64) [][]float64 {
	var out = make([][]float64, len(X))
	for i := range X {
		out[i] = append([]float64(nil), t.leaf(X[i]).Value...)
	}
	return out
}

// ProbaInto adds the class probabilities of x to acc.
func (t *DecisionTreeClassifier) ProbaInto(x []float64, acc []float64) {
	floats.Add(acc, t.leaf(x).Value)
}

// Depth returns the length of the longest root to leaf path.
func (t *DecisionTreeClassifier) Depth() int {
	if len(t.Nodes) == 0 {
		return 0
	}
	var walk func(n, d int) int
	walk = func(n, d int) int {
		node := t.Nodes[n]
		if node.IsLeaf() {
			return d
		}
		l, r := walk(node.Left, d+1), walk(node.Right, d+1)
		if l > r {
			return l
		}
		return r
	}
	return walk(0, 0)
}

// Leaves returns the number of leaf nodes.
func (t *DecisionTreeClassifier) Leaves() (n int) {
	for _, node := range t.Nodes {
		if node.IsLeaf() {
			n++
		}
	}
	return
}

func (t *DecisionTreeClassifier) leaf(x []float64) *Node {
	node := &t.Nodes[0]
	for !node.IsLeaf() {
		if x[node.Feature] <= node.Threshold {
			node = &t.Nodes[node.Left]
		} else {
			node = &t.Nodes[node.Right]
		}
	}
	return node
}

type builder struct {
	tree     *DecisionTreeClassifier
	x        [][]float64
	label    []int
	nClasses int
	nFeat    int
	rnd      *rand.Rand
	impurity func(counts []int, n int) float64
}

type split struct {
	gain      float64
	feature   int
	threshold float64
	pos       int // rows sorted[:pos] go left
}

// build appends the subtree for idx in preorder and returns its node index.
func (b *builder) build(idx []int, depth int) int {
	t := b.tree
	var self = len(t.Nodes)
	t.Nodes = append(t.Nodes, Node{Feature: -1, Left: -1, Right: -1, Samples: len(idx)})

	counts := make([]int, b.nClasses)
	for _, i := range idx {
		counts[b.label[i]]++
	}

	minLeaf := t.MinSamplesLeaf
	if minLeaf < 1 {
		minLeaf = 1
	}
	if isPure(counts) || len(idx) < t.MinSamplesSplit || len(idx) < 2*minLeaf ||
		(t.MaxDepth > 0 && depth >= t.MaxDepth) {
		t.Nodes[self].Value = countsToProbas(counts)
		return self
	}

	best := b.bestSplit(idx, counts, minLeaf)
	if best.feature < 0 || best.gain <= t.MinImpurityDecrease {
		t.Nodes[self].Value = countsToProbas(counts)
		return self
	}

	sortByFeature(b.x, idx, best.feature)
	left := append([]int(nil), idx[:best.pos]...)
	right := append([]int(nil), idx[best.pos:]...)

	t.Nodes[self].Feature = best.feature
	t.Nodes[self].Threshold = best.threshold
	l := b.build(left, depth+1)
	r := b.build(right, depth+1)
	t.Nodes[self].Left = l
	t.Nodes[self].Right = r
	return self
}

// bestSplit scans sorted thresholds of the candidate features with running class counts.
// At least MaxFeatures features are tried, more when none of them separates the rows.
func (b *builder) bestSplit(idx []int, counts []int, minLeaf int) split {
	best := split{feature: -1}
	n := len(idx)
	parent := b.impurity(counts, n)

	features := b.candidates()
	k := b.tree.MaxFeatures
	if k <= 0 || k > len(features) {
		k = len(features)
	}
	sorted := make([]int, n)
	leftCounts := make([]int, b.nClasses)
	rightCounts := make([]int, b.nClasses)

	for tried, f := range features {
		// past k features, keep drawing only until some split is valid
		if tried >= k && best.feature >= 0 {
			break
		}
		copy(sorted, idx)
		sortByFeature(b.x, sorted, f)
		for c := range leftCounts {
			leftCounts[c] = 0
			rightCounts[c] = counts[c]
		}
		for s := 1; s < n; s++ {
			moved := b.label[sorted[s-1]]
			leftCounts[moved]++
			rightCounts[moved]--

			lo, hi := b.x[sorted[s-1]][f], b.x[sorted[s]][f]
			if lo >= hi {
				continue
			}
			if s < minLeaf || n-s < minLeaf {
				continue
			}
			weighted := (float64(s)*b.impurity(leftCounts, s) + float64(n-s)*b.impurity(rightCounts, n-s)) / float64(n)
			gain := parent - weighted
			if gain > best.gain {
				thr := lo/2 + hi/2
				if thr >= hi || math.IsInf(thr, 0) {
					thr = lo
				}
				best = split{gain: gain, feature: f, threshold: thr, pos: s}
			}
		}
	}
	return best
}

// candidates returns every feature index, shuffled when MaxFeatures limits the features tried per split.
func (b *builder) candidates() []int {
	p := b.nFeat
	k := b.tree.MaxFeatures
	feat := make([]int, p)
	for j := range feat {
		feat[j] = j
	}
	if k <= 0 || k >= p {
		return feat
	}
	b.rnd.Shuffle(p, func(i, j int) { feat[i], feat[j] = feat[j], feat[i] })
	return feat
}

func sortByFeature(x [][]float64, idx []int, f int) {
	sort.SliceStable(idx, func(a, c int) bool { return x[idx[a]][f] < x[idx[c]][f] })
}

func giniFromCounts(counts []int, n int) float64 {
	if n == 0 {
		return 0
	}
	res := 1.0
	for _, c := range counts {
		p := float64(c) / float64(n)
		res -= p * p
	}
	return res
}

func entropyFromCounts(counts []int, n int) float64 {
	if n == 0 {
		return 0
	}
	p := make([]float64, len(counts))
	for i, c := range counts {
		p[i] = float64(c) / float64(n)
	}
	return stat.Entropy(p) / math.Ln2
}

func isPure(counts []int) bool {
	nonZero := 0
	for _, c := range counts {
		if c > 0 {
			nonZero++
		}
	}
	return nonZero <= 1
}

func countsToProbas(counts []int) []float64 {
	p := make([]float64, len(counts))
	for i, c := range counts {
		p[i] = float64(c)
	}
	if n := floats.Sum(p); n > 0 {
		floats.Scale(1/n, p)
	}
	return p
}
