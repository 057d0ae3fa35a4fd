// Package server implements the RPC server for the search engine registry.
// It provides an adapter for handling RPC requests against a registry, along
// with the core server implementation that manages shards and request routing.
//
// The package focuses on:
//   - Server-side RPC request handling for registry operations
//   - Adapter pattern to decouple application logic from RPC mechanisms
//   - Flexible shard configuration with support for local and replicated registries
//   - Dynamic creation of registries based on shard configuration
//
// Key Components:
//
//   - IRPCServerAdapter: Interface defining the contract for all server adapters,
//     with the Handle method that processes incoming requests against a
//     registry.IRegistry.
//
//   - NewRegistryServerAdapter: Factory function creating an adapter for registry
//     operations, translating RPC requests to registry.IRegistry method calls.
//
//   - NewRPCServer: Factory function creating a configured server with the specified
//     transport and serializer mechanisms.
//
// Usage Example:
//
//	// Create server configuration
//	config := common.ServerConfig{
//	  Shards: []common.ServerShard{
//	    {ShardID: 100, Type: common.ShardTypeLocalRegistry},
//	  },
//	  Endpoint: "0.0.0.0:8080",
//	  TimeoutSecond: 5,
//	  LogLevel: "info",
//	}
//
//	// Create and start the server
//	s := server.NewRPCServer(
//	  config,
//	  http.NewHttpServerTransport(),
//	  serializer.NewBinarySerializer(),
//	)
//
//	// Start the server
//	if err := s.Serve(); err != nil {
//	  log.Fatalf("Server error: %v", err)
//	}
//
// The server supports two types of shards, which can be mixed within a single server:
//
//   - ShardTypeLocalRegistry: A local registry implementation, suitable for
//     single-node deployments or development environments.
//
//   - ShardTypeReplicatedRegistry: A replicated registry implementation using Raft
//     consensus, providing strong consistency across multiple nodes. When using
//     this type, Raft configuration (RTTMillisecond, SnapshotEntries,
//     CompactionOverhead, DataDir, ReplicaID, and ClusterMembers) must be properly
//     configured.
//
// Thread Safety:
//
//	The server implementation is thread-safe and can handle concurrent requests
//	across multiple connections. Each request is processed independently.
//	The Listen method is not thread-safe and should be called only once.
package server
