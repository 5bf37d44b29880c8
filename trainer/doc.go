// Package trainer runs the training pipeline: it synthesizes a labelled dataset,
// splits it stratified into train and test partitions, fits a random forest,
// evaluates it on the test partition and persists the model together with the
// ordered feature names a consumer needs to rebuild the input columns.
package trainer
