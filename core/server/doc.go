// Package server holds the HTTP server configuration.
//
// The cmd package starts the Fiber app; this package only defines the listen
// address, the API key and the request body limit, and is embedded in
// core/config.
package server
