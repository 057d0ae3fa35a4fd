// Package client implements the RPC client for the search engine registry.
// It provides an implementation of the registry.IRegistry interface that
// communicates with remote servers via RPC.
//
// The package focuses on:
//   - Transparent RPC access to registry implementations
//   - Integration with the transport and serialization layers
//   - Error handling and conversion between RPC and domain errors
//
// Key Components:
//
//   - NewRPCRegistry: Factory function that creates a client implementing the
//     registry.IRegistry interface. This client forwards all operations to remote
//     servers via the configured transport layer. Engine configurations cross the
//     wire in their JSON document form.
//
// Usage Example:
//
//	// Configure the client
//	config := common.ClientConfig{
//	  Endpoints:              []string{"http://localhost:8080"},
//	  TimeoutSecond:          5,
//	  RetryCount:             3,
//	  ConnectionsPerEndpoint: 1,
//	}
//
//	// Create a serializer
//	serializer := serializer.NewBinarySerializer()
//
//	// Create registry client
//	reg, _ := client.NewRPCRegistry(100, config, http.NewHttpClientTransport(), serializer)
//
//	// Use the registry
//	reg.Put(eng)
//	eng, found, _ := reg.Get("my-engine")
//
// Thread Safety:
//
//	The client implementation is thread-safe and can be used concurrently from
//	multiple goroutines without additional synchronization.
package client
