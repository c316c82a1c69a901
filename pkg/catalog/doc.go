// Package catalog holds the static part tables of the supported staging
// systems and the shared part palette. Everything here is immutable after
// package initialisation and safe to share between goroutines.
//
// A lookup never fails: a nominal length that is not in a table yields a
// PartSpec with a linearly estimated weight and the CUSTOM catalog number.
package catalog
