package synthetic

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestClassificationShape(t *testing.T) {
	table, err := Classification(Defaults())
	if err != nil {
		t.Fatal(err)
	}
	if table.Len() != 1000 {
		t.Errorf("got %d rows", table.Len())
	}
	if cols := table.Columns(); len(cols) != 21 {
		t.Errorf("got %d columns", len(cols))
	}
	counts := table.ClassCounts()
	if len(counts) != 3 {
		t.Fatalf("got classes %v", counts)
	}
	for c, n := range counts {
		if c < 0 || c > 2 {
			t.Errorf("class %d out of range", c)
		}
		// 1% label noise keeps classes within a few rows of 1000/3
		if n < 310 || n > 357 {
			t.Errorf("class %d has %d rows, not balanced", c, n)
		}
	}
}

func TestClassificationDeterministic(t *testing.T) {
	a, err := Classification(Defaults())
	if err != nil {
		t.Fatal(err)
	}
	b, err := Classification(Defaults())
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < a.Len(); i++ {
		xa, ya := a.Row(i)
		xb, yb := b.Row(i)
		if ya != yb {
			t.Fatalf("row %d label %d != %d", i, ya, yb)
		}
		for j := range xa {
			if xa[j] != xb[j] {
				t.Fatalf("row %d column %d: %v != %v", i, j, xa[j], xb[j])
			}
		}
	}
}

func TestClassificationSeedMatters(t *testing.T) {
	p := Defaults()
	a, _ := Classification(p)
	p.Seed++
	b, _ := Classification(p)
	xa, _ := a.Row(0)
	xb, _ := b.Row(0)
	if xa[0] == xb[0] && xa[1] == xb[1] {
		t.Error("different seeds produced the same first row")
	}
}

func TestClassificationNoiseFeatures(t *testing.T) {
	p := Defaults()
	p.Samples = 2000
	p.Features = 8
	p.Informative = 2
	p.Redundant = 1
	p.Repeated = 1
	p.Classes = 2
	p.Shuffle = false
	p.FlipY = 0
	table, err := Classification(p)
	if err != nil {
		t.Fatal(err)
	}
	x := table.X()
	// repeated column copies one of the first three
	for i := range x {
		if x[i][3] != x[i][0] && x[i][3] != x[i][1] && x[i][3] != x[i][2] {
			t.Fatalf("row %d repeated column %v not a copy", i, x[i][3])
		}
	}
	// trailing useless columns are standard normal
	var sum, sq float64
	for i := range x {
		sum += x[i][7]
		sq += x[i][7] * x[i][7]
	}
	mean := sum / float64(len(x))
	variance := sq/float64(len(x)) - mean*mean
	if math.Abs(mean) > 0.1 || math.Abs(variance-1) > 0.15 {
		t.Errorf("noise column mean %.3f variance %.3f", mean, variance)
	}
}

// redundant columns are exact linear combinations of the informative ones
func TestClassificationRedundantSpan(t *testing.T) {
	p := Defaults()
	p.Samples = 200
	p.Features = 8
	p.Informative = 4
	p.Redundant = 2
	p.Classes = 2
	p.Shuffle = false
	table, err := Classification(p)
	if err != nil {
		t.Fatal(err)
	}
	inf := mat.NewDense(p.Samples, 4, nil)
	red := mat.NewDense(p.Samples, 2, nil)
	for i, row := range table.X() {
		inf.SetRow(i, row[:4])
		red.SetRow(i, row[4:6])
	}
	var w, fit mat.Dense
	if err := w.Solve(inf, red); err != nil {
		t.Fatal(err)
	}
	fit.Mul(inf, &w)
	for i := 0; i < p.Samples; i++ {
		for j := 0; j < 2; j++ {
			if d := math.Abs(fit.At(i, j) - red.At(i, j)); d > 1e-8 {
				t.Fatalf("row %d redundant column %d off the informative span by %v", i, j, d)
			}
		}
	}
	// the noise columns are not in the span
	noise := mat.NewDense(p.Samples, 1, nil)
	for i, row := range table.X() {
		noise.Set(i, 0, row[7])
	}
	var wn, fitn mat.Dense
	if err := wn.Solve(inf, noise); err != nil {
		t.Fatal(err)
	}
	fitn.Mul(inf, &wn)
	var resid float64
	for i := 0; i < p.Samples; i++ {
		resid += math.Abs(fitn.At(i, 0) - noise.At(i, 0))
	}
	if resid < 1 {
		t.Errorf("noise column fits the informative span, residual %v", resid)
	}
}

func TestValidate(t *testing.T) {
	p := Defaults()
	p.Redundant = 10
	if p.Validate() == nil {
		t.Error("15+10 features out of 20 accepted")
	}
	p = Defaults()
	p.Informative = 2
	p.Redundant = 0
	if p.Validate() == nil {
		t.Error("6 clusters on 4 vertices accepted")
	}
	p = Defaults()
	p.Samples = 0
	if _, err := Classification(p); err == nil {
		t.Error("zero samples accepted")
	}
}

func BenchmarkClassification(b *testing.B) {
	for i := 0; i < b.N; i++ {
		Classification(Defaults())
	}
}
