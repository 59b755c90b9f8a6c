// Package main runs the in-memory development scoring service used by
// landval during development and demos.
//
// It serves the same HTTP API as the real service (see package devserver):
// accounts, password and federated logins, reference options, valuations and
// per-account history. All state is held in memory and lost on exit.
//
// Flags
//
//	--addr        listen address (default :8000)
//	--secret      HMAC secret for session tokens (env LANDVAL_DEV_SECRET)
//	--token-ttl   session token lifetime (default 30m)
//	--options     JSON file with {cities, types, neighborhood_mapping}
//
// Every request is written to the access log with method, path, remote,
// status, bytes, duration and request id.
package main
