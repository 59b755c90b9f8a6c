// Package predict drives a single valuation request from the current draft
// to a stored result, and refreshes the history log after each success.
package predict
