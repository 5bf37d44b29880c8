package forest

import (
	"compress/zlib"
	"encoding/json"
	"io"
	"os"

	"github.com/pkg/errors"
)

// WriteZlibWeightsToFile writes the forest to a zlib compressed json file
func (f *Forest) WriteZlibWeightsToFile(name string) error {
	return WriteZlibJSONToFile(name, f)
}

// WriteZlibWeights writes the forest to a writer
func (f *Forest) WriteZlibWeights(w io.Writer) error {
	return WriteZlibJSON(w, f)
}

// ReadZlibWeightsFromFile reads a forest from a zlib compressed json file
func ReadZlibWeightsFromFile(name string) (*Forest, error) {
	file, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	f, err := ReadZlibWeights(file)
	if err != nil {
		return nil, errors.Wrap(err, name)
	}
	return f, nil
}

// ReadZlibWeights reads a forest from a reader and checks it is usable for prediction
func ReadZlibWeights(r io.Reader) (*Forest, error) {
	var f Forest
	if err := ReadZlibJSON(r, &f); err != nil {
		return nil, err
	}
	if err := f.check(); err != nil {
		return nil, err
	}
	return &f, nil
}

func (f *Forest) check() error {
	if len(f.Trees) == 0 {
		return ErrNotFitted
	}
	for i, t := range f.Trees {
		if t == nil || len(t.Nodes) == 0 {
			return errors.Errorf("forest: tree %d is empty", i)
		}
		if t.NFeatures != f.NFeatures {
			return errors.Wrapf(ErrFeatureMismatch, "tree %d expects %d features, forest %d", i, t.NFeatures, f.NFeatures)
		}
		if len(t.Classes) != len(f.Classes) {
			return errors.Errorf("forest: tree %d has %d classes, forest %d", i, len(t.Classes), len(f.Classes))
		}
		for j, n := range t.Nodes {
			if n.IsLeaf() {
				if len(n.Value) != len(f.Classes) {
					return errors.Errorf("forest: tree %d leaf %d has %d probabilities", i, j, len(n.Value))
				}
				continue
			}
			if n.Feature < 0 || n.Feature >= f.NFeatures || n.Left <= j || n.Right <= j ||
				n.Left >= len(t.Nodes) || n.Right >= len(t.Nodes) {
				return errors.Errorf("forest: tree %d node %d is malformed", i, j)
			}
		}
	}
	return nil
}

// WriteZlibJSONToFile writes v as zlib compressed json, truncating any existing file
func WriteZlibJSONToFile(name string, v interface{}) error {
	file, err := os.Create(name)
	if err != nil {
		return err
	}
	err = WriteZlibJSON(file, v)
	if cerr := file.Close(); err == nil {
		err = cerr
	}
	return err
}

// WriteZlibJSON writes v as zlib compressed json to a writer
func WriteZlibJSON(w io.Writer, v interface{}) error {
	zw := zlib.NewWriter(w)
	if err := json.NewEncoder(zw).Encode(v); err != nil {
		zw.Close()
		return errors.Wrap(err, "encode")
	}
	return zw.Close()
}

// ReadZlibJSONFromFile decodes zlib compressed json from a file into v
func ReadZlibJSONFromFile(name string, v interface{}) error {
	file, err := os.Open(name)
	if err != nil {
		return err
	}
	defer file.Close()
	return errors.Wrap(ReadZlibJSON(file, v), name)
}

// ReadZlibJSON decodes zlib compressed json from a reader into v
func ReadZlibJSON(r io.Reader, v interface{}) error {
	zr, err := zlib.NewReader(r)
	if err != nil {
		return errors.Wrap(err, "zlib")
	}
	defer zr.Close()
	if err := json.NewDecoder(zr).Decode(v); err != nil {
		return errors.Wrap(err, "decode")
	}
	return nil
}
