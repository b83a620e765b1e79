// Package app bootstraps and runs the MaestroChat server.
//
// NewApplication loads configuration (defaults, then config.yaml, then the
// environment), validates it, initializes logging and wires the services in
// dependency order. Run serves HTTP until the context is cancelled or the
// process receives SIGINT or SIGTERM, then shuts the server down gracefully
// and releases the session store.
package app
