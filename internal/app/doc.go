// Package app wires application dependencies for the CLI.
//
// It builds the token store, the scoring service client and the
// high-level services from Config, exposing them via the Wire struct, and
// runs the concurrent startup (session restore alongside options load)
// through Client.
package app
