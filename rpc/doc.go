// Package rpc provides a framework for remote procedure calls in the search
// engine registry. It acts as the communication layer between clients and
// servers, enabling registry operations across network boundaries.
//
// The package is organized into several subpackages:
//
//   - common: Core data structures and utilities used across the RPC system,
//     including the Message protocol, configuration structures, and logging.
//
//   - transport: Network communication abstractions with a pluggable HTTP
//     implementation.
//
//   - serializer: Message serialization with multiple format options (Binary, JSON, GOB)
//     for converting between Message objects and byte arrays.
//
//   - client: RPC client implementation of the registry interface, allowing
//     applications to interact with remote registries transparently.
//
//   - server: RPC server components that handle incoming requests, including
//     the adapter for registry operations.
package rpc
