// Package config loads, normalizes, and validates wrapped configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// OMDB_API_KEY (optionally sourced from a .env file in the working
// directory). The Config type centralizes the artifact locations, OMDb client
// tuning, and log settings the CLI needs.
//
// Always obtain settings through this package so downstream code receives
// resolved artifact paths and clear validation errors.
package config
