// Package history keeps the current user's list of past predictions.
package history
