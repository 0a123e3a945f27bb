// Package daemon hosts the long-running dubber process: it enforces
// single-instance execution via a lock file, runs the workflow manager,
// and serves the HTTP API used by the CLI and the progress feed.
package daemon
