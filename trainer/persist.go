package trainer

import (
	"os"

	"github.com/pkg/errors"

	"github.com/neurlang/mldeploy/forest"
)

// save writes the model and its feature names into the output directory, creating it if needed.
func (t *Training) save(model *forest.Forest, names []string) error {
	if model.Features() != len(names) {
		return errors.Wrapf(forest.ErrFeatureMismatch, "model expects %d features, %d names", model.Features(), len(names))
	}
	if err := os.MkdirAll(t.Config.Output.Dir, 0755); err != nil {
		return errors.Wrap(err, "create output directory")
	}

	modelPath := t.Config.ModelPath()
	if err := model.WriteZlibWeightsToFile(modelPath); err != nil {
		return errors.Wrap(err, "save model")
	}
	t.printf("Model saved to %s\n", modelPath)

	if err := SaveFeatureNames(t.Config.FeaturesPath(), names); err != nil {
		return errors.Wrap(err, "save feature names")
	}
	t.printf("Feature names saved\n")
	t.logf("artifacts written to %s", t.Config.Output.Dir)
	return nil
}

// SaveFeatureNames writes the ordered feature names.
func SaveFeatureNames(path string, names []string) error {
	return forest.WriteZlibJSONToFile(path, names)
}

// LoadFeatureNames reads the ordered feature names.
func LoadFeatureNames(path string) ([]string, error) {
	var names []string
	if err := forest.ReadZlibJSONFromFile(path, &names); err != nil {
		return nil, err
	}
	return names, nil
}
