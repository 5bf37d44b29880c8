// Package synthetic generates random n-class classification problems.
//
// Points are drawn from normally distributed clusters placed on the vertices of
// a hypercube in the informative subspace. Redundant features are random linear
// combinations of the informative ones, repeated features copy earlier columns
// and the remaining features are pure noise. A fixed seed reproduces the same
// table bit for bit.
package synthetic
