// Package main predicts labels with a model saved by train_model.
// Input is a CSV file whose header names the feature columns; one label is printed per row.
package main
