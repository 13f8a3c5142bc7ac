// Package config loads, normalizes, and validates tsvmend configuration data.
//
// It supplies defaults that match the reference conversion (five tab-separated
// columns, UTF-16LE in, UTF-8 out), expands user paths including tilde
// shortcuts, reads TOML files, and lets command-line flags override file values
// through Apply. Always obtain settings through this package so the repair pass
// receives absolute paths, canonical names, and clear validation errors.
package config
