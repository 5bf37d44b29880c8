// Package main provides the project scaffold generator.
// It creates the empty placeholder files of a model deployment project in the working directory.
package main
