// Package logging provides the structured logger shared by every component.
//
// Entries carry a module name and a details map. The file sink is JSON and
// rotated with lumberjack; the console sink goes to stderr so command output
// on stdout stays clean.
package logging
