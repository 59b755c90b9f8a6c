// Package commands defines the landval CLI and wires dependencies for subcommands.
//
// Commands
//
//   - register      Create an account
//   - login         Log in with username and password
//   - google-login  Log in with an identity-provider credential
//   - logout        Forget the stored session
//   - whoami        Show the session user and token expiry
//   - options       List cities, property types and neighborhoods
//   - predict       Request a valuation for a listing
//   - history       List past valuations
//
// # Implementation
//
// The root command loads settings, opens the log and builds the dependency
// graph before any subcommand runs. Startup restores the session and loads
// the reference options concurrently, so every handler starts from a
// resolved session and a reconciled form.
package commands
