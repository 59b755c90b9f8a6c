// Package domain defines the session, form and valuation models shared
// across landval, and the contracts between its components.
//
// Plain types live in the types subpackage and interfaces in the
// interfaces subpackage; this package re-exports both so callers import
// a single path.
package domain
