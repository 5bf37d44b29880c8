package trainer

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/neurlang/mldeploy/config"
	"github.com/neurlang/mldeploy/datasets"
	"github.com/neurlang/mldeploy/forest"
)

func quiet(t *testing.T, cfg config.Config) (*Training, *bytes.Buffer) {
	t.Helper()
	cfg.Output.Dir = filepath.Join(t.TempDir(), "models")
	var out bytes.Buffer
	tr := New(cfg)
	tr.Out = &out
	tr.Log = log.New(io.Discard, "", 0)
	return tr, &out
}

func TestCreateSampleData(t *testing.T) {
	tr, _ := quiet(t, config.Default())
	table, err := tr.CreateSampleData()
	if err != nil {
		t.Fatal(err)
	}
	if table.Len() != 1000 || len(table.Columns()) != 21 {
		t.Errorf("got %d rows, %d columns", table.Len(), len(table.Columns()))
	}
	if cols := table.Columns(); cols[20] != datasets.TargetColumn {
		t.Errorf("last column %q", cols[20])
	}
	for c := range table.ClassCounts() {
		if c < 0 || c > 2 {
			t.Errorf("class %d out of {0,1,2}", c)
		}
	}
}

func TestTrainModel(t *testing.T) {
	tr, out := quiet(t, config.Default())
	acc, err := tr.TrainModel()
	if err != nil {
		t.Fatal(err)
	}
	if acc < 0 || acc > 1 {
		t.Fatalf("accuracy %v out of [0, 1]", acc)
	}
	if acc < 0.6 {
		t.Errorf("accuracy %v is barely above chance", acc)
	}

	text := out.String()
	for _, want := range []string{
		"Creating sample dataset...",
		"Training set size: 800",
		"Test set size: 200",
		"Training Random Forest model...",
		fmt.Sprintf("Model Accuracy: %.4f", acc),
		"Classification Report:",
		"Model saved to " + tr.Config.ModelPath(),
		"Feature names saved",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("output lacks %q:\n%s", want, text)
		}
	}

	entries, err := os.ReadDir(tr.Config.Output.Dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Errorf("output directory holds %d entries, want 2", len(entries))
	}

	names, err := LoadFeatureNames(tr.Config.FeaturesPath())
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 20 {
		t.Fatalf("got %d feature names", len(names))
	}
	var seen = make(map[string]bool)
	for i, n := range names {
		if n != fmt.Sprintf("feature_%d", i) {
			t.Errorf("feature %d named %q", i, n)
		}
		if seen[n] {
			t.Errorf("duplicate feature name %q", n)
		}
		seen[n] = true
	}

	model, err := forest.ReadZlibWeightsFromFile(tr.Config.ModelPath())
	if err != nil {
		t.Fatal(err)
	}
	if model.Features() != len(names) || len(model.Trees) != 100 {
		t.Errorf("model: %d features, %d trees", model.Features(), len(model.Trees))
	}
}

func TestTrainModelDeterministic(t *testing.T) {
	a, _ := quiet(t, config.Default())
	b, _ := quiet(t, config.Default())
	b.Config.Model.Threads = 1
	accA, err := a.TrainModel()
	if err != nil {
		t.Fatal(err)
	}
	accB, err := b.TrainModel()
	if err != nil {
		t.Fatal(err)
	}
	if fmt.Sprintf("%.4f", accA) != fmt.Sprintf("%.4f", accB) {
		t.Errorf("accuracy %.4f then %.4f", accA, accB)
	}
}

func TestTrainModelOverwrites(t *testing.T) {
	cfg := config.Default()
	cfg.Model.Estimators = 5
	tr, _ := quiet(t, cfg)
	if err := os.MkdirAll(tr.Config.Output.Dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(tr.Config.ModelPath(), []byte("stale"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := tr.TrainModel(); err != nil {
		t.Fatal(err)
	}
	if _, err := forest.ReadZlibWeightsFromFile(tr.Config.ModelPath()); err != nil {
		t.Errorf("stale model not replaced: %v", err)
	}
}

func TestTrainModelFailsOnBlockedOutput(t *testing.T) {
	cfg := config.Default()
	cfg.Model.Estimators = 3
	tr, _ := quiet(t, cfg)
	// a regular file where the output directory should be
	if err := os.WriteFile(tr.Config.Output.Dir, nil, 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := tr.TrainModel(); err == nil {
		t.Error("training succeeded without an output directory")
	}
}

func TestTrainModelInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Dataset.Classes = 0
	tr, _ := quiet(t, cfg)
	if _, err := tr.TrainModel(); err == nil {
		t.Error("zero classes accepted")
	}
}

func TestSaveRejectsWrongNameCount(t *testing.T) {
	cfg := config.Default()
	cfg.Model.Estimators = 2
	tr, _ := quiet(t, cfg)
	x := [][]float64{{0, 1}, {1, 0}, {0, 0}, {1, 1}}
	y := []int{0, 1, 0, 1}
	model, err := cfg.Model.Training(x, y)
	if err != nil {
		t.Fatal(err)
	}
	if err := tr.save(model, []string{"only_one"}); err == nil {
		t.Error("feature name list of wrong length saved")
	}
}
