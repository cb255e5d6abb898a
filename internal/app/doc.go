// Package app wires configuration, logging, services, middleware and the
// chi router into a runnable HTTP application with graceful shutdown.
package app
