// Package model defines the shared primitives of the clustering core:
// image identifiers, semantic labels, signal weights and breakdowns, and
// the validated batch configuration.
//
// The package has no dependencies on the rest of the module so that every
// other package can import it freely.
package model
