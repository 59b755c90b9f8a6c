// Package auth exchanges user credentials for a session token.
//
// Password and federated logins hand the issued token to the session
// service; registration only creates the account. Failures carry a message
// fit to show the user as-is.
package auth
