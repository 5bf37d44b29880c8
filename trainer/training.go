package trainer

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/neurlang/mldeploy/config"
	"github.com/neurlang/mldeploy/datasets"
	"github.com/neurlang/mldeploy/datasets/synthetic"
	"github.com/neurlang/mldeploy/parallel"
)

// Training runs the pipeline described by Config.
type Training struct {
	Config config.Config

	// Out receives progress and metric lines, Log receives diagnostics.
	Out io.Writer
	Log *log.Logger

	// Verbose logs one line per fitted tree.
	Verbose bool

	RunID string
}

// New returns a training run printing to stdout and logging to stderr.
func New(cfg config.Config) *Training {
	return &Training{
		Config: cfg,
		Out:    os.Stdout,
		Log:    log.New(os.Stderr, "", log.LstdFlags),
		RunID:  uuid.NewString(),
	}
}

func (t *Training) printf(format string, args ...interface{}) {
	if t.Out != nil {
		fmt.Fprintf(t.Out, format, args...)
	}
}

func (t *Training) logf(format string, args ...interface{}) {
	if t.Log != nil {
		t.Log.Printf("[%s] "+format, append([]interface{}{t.RunID}, args...)...)
	}
}

// CreateSampleData generates the labelled dataset.
func (t *Training) CreateSampleData() (*datasets.Table, error) {
	t.printf("Creating sample dataset...\n")
	table, err := synthetic.Classification(t.Config.Synthetic())
	if err != nil {
		return nil, errors.Wrap(err, "create sample data")
	}
	return table, nil
}

// TrainModel trains, evaluates and saves the model, returning its test accuracy.
func (t *Training) TrainModel() (float64, error) {
	if err := t.Config.Validate(); err != nil {
		return 0, err
	}
	table, err := t.CreateSampleData()
	if err != nil {
		return 0, err
	}

	split, err := datasets.Split(table, t.Config.Split.TestSize, t.Config.Split.Seed)
	if err != nil {
		return 0, errors.Wrap(err, "split")
	}
	t.printf("Training set size: %d\n", split.Train.Len())
	t.printf("Test set size: %d\n", split.Test.Len())

	t.printf("Training Random Forest model...\n")
	h := t.Config.Model
	threads := h.Threads
	if threads == 0 {
		threads = parallel.Threads()
	}
	t.logf("fitting %d trees on %d threads, cpu: %s", h.Estimators, threads, parallel.CPU())
	if t.Verbose {
		h.SetLogger(t.Log)
	}
	model, err := h.Training(split.Train.X(), split.Train.Y())
	if err != nil {
		return 0, errors.Wrap(err, "fit")
	}

	ev, err := Evaluate(model, split.Test, threads)
	if err != nil {
		return 0, errors.Wrap(err, "evaluate")
	}
	t.printf("Model Accuracy: %.4f\n", ev.Accuracy)
	t.printf("\nClassification Report:\n")
	t.printf("%s\n", ev.Report.Render())
	t.logf("prediction digest %x", ev.Digest)

	if err := t.save(model, table.Features()); err != nil {
		return 0, err
	}
	return ev.Accuracy, nil
}
