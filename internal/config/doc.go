// Package config loads, normalizes, and validates glprint CLI settings.
//
// Values are layered: repository defaults, then a TOML file, then GLPRINT_*
// environment variables (a .env file in the working directory is read
// first when present). Command-line flags are applied on top by the CLI.
package config
