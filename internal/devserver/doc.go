// Package devserver is an in-memory stand-in for the valuation service.
//
// It serves the same HTTP API the client speaks, keeps all state in memory
// and prices listings with a fixed linear model. It backs
// cmd/landval-devserver and the end-to-end tests.
//
// HTTP API
//
//	GET  /options         reference cities, types and neighborhood mapping
//	POST /register        create an account (JSON username, email, password)
//	POST /token           password grant (form username, password)
//	POST /google-login    trade an unsigned dev ID token for a session token
//	GET  /me              the account behind the bearer token
//	POST /predict         price a listing and record it in the caller's history
//	GET  /history         the caller's predictions, newest first
//
// Errors are JSON objects with a "detail" string, or a "detail" list of
// {"loc", "msg"} objects for malformed requests.
package devserver
