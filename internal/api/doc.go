// Package api provides an HTTP implementation of the domain.ValuationAPI
// interface used by landval.
//
// Supported operations include:
//   - Fetching reference options (cities, property types, neighborhoods).
//   - Resolving the user behind a bearer token.
//   - Exchanging a password or a federated credential for a session token.
//   - Registering an account.
//   - Submitting a prediction and listing past predictions.
//
// All requests are JSON over HTTP (the password grant is form-encoded) and
// accept a context for cancellation and deadlines. Failures are returned as
// *RequestError, classified by Kind, with the server's detail message when
// one was sent. Nothing is retried.
package api
