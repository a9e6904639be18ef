// Package application wires the entrypoint together: it resolves the
// connection URLs from a loaded configuration, optionally waits for the
// backing services, exports the results into the process environment and
// hands control to the wrapped command.
package application
