// Package config loads recode's settings from defaults, an optional config
// file, a .env file, RECODE_* environment variables and command-line flags,
// in increasing order of precedence, and validates the result.
package config
