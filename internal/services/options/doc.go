// Package options loads and holds the reference data (cities, property
// types, neighborhoods) that the prediction form chooses from.
package options
