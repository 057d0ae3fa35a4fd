// Package cmd implements the command-line interface for the searchmeta
// registry. It provides a hierarchical command structure with operations
// for running the server and interacting with it as a client.
//
// The package is organized into several subpackages:
//
//   - engine: Commands for engine configuration operations (put, get, delete, list, diff)
//   - serve: Commands for starting and configuring the searchmeta server
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// See searchmeta -help for a list of all commands.
package cmd
