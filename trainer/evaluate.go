package trainer

import (
	"github.com/neurlang/mldeploy/datasets"
	"github.com/neurlang/mldeploy/forest"
	"github.com/neurlang/mldeploy/metrics"
	"github.com/neurlang/mldeploy/parallel"
)

// Evaluation is the outcome of scoring a model on held out rows.
type Evaluation struct {
	Accuracy    float64
	Report      *metrics.Report
	Predictions []int

	// Digest is a SHA-256 of the predictions; equal digests mean identical runs.
	Digest [32]byte
}

// Evaluate predicts the test rows and scores the predictions against their targets.
func Evaluate(model *forest.Forest, test *datasets.Table, threads int) (*Evaluation, error) {
	pred, err := model.Predict(test.X())
	if err != nil {
		return nil, err
	}
	acc, err := metrics.Accuracy(test.Y(), pred)
	if err != nil {
		return nil, err
	}
	report, err := metrics.ClassificationReport(test.Y(), pred)
	if err != nil {
		return nil, err
	}
	return &Evaluation{
		Accuracy:    acc,
		Report:      report,
		Predictions: pred,
		Digest:      parallel.DigestLabels(pred, threads),
	}, nil
}
