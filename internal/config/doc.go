// Package config loads landval settings.
//
// Precedence, lowest first: built-in defaults, a TOML file
// ($LANDVAL_CONFIG or <user config dir>/landval/config.toml), a .env file in
// the working directory, then LANDVAL_* environment variables. Command-line
// flags are applied on top by the CLI.
package config
