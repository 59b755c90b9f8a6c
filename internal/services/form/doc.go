// Package form holds the in-progress prediction draft and keeps its
// dependent fields consistent with the loaded reference options.
//
// The neighborhood always belongs to the selected city's list, or is empty
// when that city has none. Reconcile is the single place this is enforced;
// every city change and every options load runs through it.
package form
