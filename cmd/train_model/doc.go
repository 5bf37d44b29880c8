// Package main provides the training pipeline.
// It fits a random forest on a synthetic three class dataset, prints the test accuracy
// and classification report, and saves the model and its feature names under models/.
package main
