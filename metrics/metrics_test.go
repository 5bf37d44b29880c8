package metrics

import (
	"math"
	"strings"
	"testing"
)

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestAccuracy(t *testing.T) {
	acc, err := Accuracy([]int{0, 1, 2, 2}, []int{0, 2, 2, 2})
	if err != nil {
		t.Fatal(err)
	}
	if acc != 0.75 {
		t.Errorf("accuracy %v", acc)
	}
	if _, err := Accuracy([]int{0}, nil); err == nil {
		t.Error("length mismatch accepted")
	}
	if acc, _ := Accuracy(nil, nil); acc != 0 {
		t.Errorf("empty accuracy %v", acc)
	}
}

func TestClassificationReport(t *testing.T) {
	yTrue := []int{0, 0, 0, 1, 1, 2}
	yPred := []int{0, 0, 1, 1, 2, 2}
	r, err := ClassificationReport(yTrue, yPred)
	if err != nil {
		t.Fatal(err)
	}
	if len(r.Classes) != 3 {
		t.Fatalf("got %d classes", len(r.Classes))
	}
	c0, c1, c2 := r.Classes[0], r.Classes[1], r.Classes[2]
	if !near(c0.Precision, 1) || !near(c0.Recall, 2.0/3) || c0.Support != 3 {
		t.Errorf("class 0: %+v", c0)
	}
	if !near(c1.Precision, 0.5) || !near(c1.Recall, 0.5) || !near(c1.F1, 0.5) || c1.Support != 2 {
		t.Errorf("class 1: %+v", c1)
	}
	if !near(c2.Precision, 0.5) || !near(c2.Recall, 1) || c2.Support != 1 {
		t.Errorf("class 2: %+v", c2)
	}
	if !near(r.Accuracy, 4.0/6) {
		t.Errorf("accuracy %v", r.Accuracy)
	}
	if !near(r.Macro.Recall, (2.0/3+0.5+1)/3) {
		t.Errorf("macro recall %v", r.Macro.Recall)
	}
	if !near(r.Weighted.Recall, r.Accuracy) {
		t.Errorf("weighted recall %v should equal accuracy %v", r.Weighted.Recall, r.Accuracy)
	}
}

func TestReportPredictedOnlyClass(t *testing.T) {
	r, err := ClassificationReport([]int{0, 0}, []int{0, 5})
	if err != nil {
		t.Fatal(err)
	}
	last := r.Classes[len(r.Classes)-1]
	if last.Label != "5" || last.Support != 0 || last.Precision != 0 || last.Recall != 0 {
		t.Errorf("unsupported class: %+v", last)
	}
}

func TestReportText(t *testing.T) {
	r, err := ClassificationReport([]int{0, 1, 2}, []int{0, 1, 1})
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range []string{r.String(), r.Render()} {
		for _, want := range []string{"precision", "recall", "f1-score", "support", "accuracy", "macro avg", "weighted avg", "0.67"} {
			if !strings.Contains(s, want) {
				t.Errorf("report lacks %q:\n%s", want, s)
			}
		}
	}
}

func FuzzAccuracyRange(f *testing.F) {
	f.Add([]byte{0, 1, 2}, []byte{0, 2, 2})
	f.Fuzz(func(t *testing.T, a, b []byte) {
		if len(a) != len(b) {
			return
		}
		yt := make([]int, len(a))
		yp := make([]int, len(b))
		for i := range a {
			yt[i], yp[i] = int(a[i]%4), int(b[i]%4)
		}
		acc, err := Accuracy(yt, yp)
		if err != nil {
			t.Fatal(err)
		}
		if acc < 0 || acc > 1 {
			t.Errorf("accuracy %v out of [0, 1]", acc)
		}
	})
}
