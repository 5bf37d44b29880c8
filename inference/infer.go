// Package inference loads persisted forest artifacts and predicts labels for named feature rows
package inference

import (
	"encoding/csv"
	"io"
	"path/filepath"
	"strconv"

	"github.com/pkg/errors"

	"github.com/neurlang/mldeploy/forest"
)

// ErrMissingFeature is returned when an input lacks a feature the model was trained on.
var ErrMissingFeature = errors.New("inference: missing feature")

// Model is a fitted forest together with the ordered names of its input columns.
type Model struct {
	Forest *forest.Forest
	Names  []string
}

// New pairs a forest with its feature names, checking that the widths match.
func New(f *forest.Forest, names []string) (*Model, error) {
	if f.Features() != len(names) {
		return nil, errors.Wrapf(forest.ErrFeatureMismatch, "model expects %d features, %d names", f.Features(), len(names))
	}
	return &Model{Forest: f, Names: names}, nil
}

// Load reads the model and feature name artifacts from dir.
func Load(dir, modelFile, featuresFile string) (*Model, error) {
	f, err := forest.ReadZlibWeightsFromFile(filepath.Join(dir, modelFile))
	if err != nil {
		return nil, errors.Wrap(err, "load model")
	}
	var names []string
	if err := forest.ReadZlibJSONFromFile(filepath.Join(dir, featuresFile), &names); err != nil {
		return nil, errors.Wrap(err, "load feature names")
	}
	return New(f, names)
}

// Row orders values by the model's feature names. Unknown keys are ignored.
func (m *Model) Row(values map[string]float64) ([]float64, error) {
	row := make([]float64, len(m.Names))
	for i, n := range m.Names {
		v, ok := values[n]
		if !ok {
			return nil, errors.Wrap(ErrMissingFeature, n)
		}
		row[i] = v
	}
	return row, nil
}

// ReadCSV reads rows with a header line and reorders the columns by feature name.
// Columns not used by the model, such as a target, are skipped.
func (m *Model) ReadCSV(r io.Reader) ([][]float64, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "csv header")
	}
	var index = make(map[string]int, len(header))
	for i, h := range header {
		index[h] = i
	}
	var cols = make([]int, len(m.Names))
	for i, n := range m.Names {
		c, ok := index[n]
		if !ok {
			return nil, errors.Wrap(ErrMissingFeature, n)
		}
		cols[i] = c
	}

	var rows [][]float64
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return nil, errors.Wrapf(err, "csv line %d", line)
		}
		row := make([]float64, len(cols))
		for i, c := range cols {
			row[i], err = strconv.ParseFloat(rec[c], 64)
			if err != nil {
				return nil, errors.Wrapf(err, "csv line %d column %s", line, m.Names[i])
			}
		}
		rows = append(rows, row)
	}
}

// Predict returns the class label of every row.
func (m *Model) Predict(rows [][]float64) ([]int, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	return m.Forest.Predict(rows)
}

// PredictMap predicts a single row given by feature name.
func (m *Model) PredictMap(values map[string]float64) (int, error) {
	row, err := m.Row(values)
	if err != nil {
		return 0, err
	}
	pred, err := m.Forest.Predict([][]float64{row})
	if err != nil {
		return 0, err
	}
	return pred[0], nil
}
