// Package config loads, normalizes, and validates Dubber configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// ELEVEN_API_KEY. The Config type centralizes every knob the daemon and CLI
// need, allowing staging/output directories, model service endpoints, and the
// voice table to be discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
