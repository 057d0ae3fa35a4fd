package server

import (
	"fmt"
	"net/http"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/VictoriaMetrics/metrics"
	"github.com/lni/dragonboat/v4"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/puzpuzpuz/xsync/v3"
	"github.com/tbergmann/searchmeta/lib/registry"
	"github.com/tbergmann/searchmeta/lib/registry/dregistry"
	"github.com/tbergmann/searchmeta/lib/registry/lregistry"
	"github.com/tbergmann/searchmeta/rpc/common"
	"github.com/tbergmann/searchmeta/rpc/serializer"
	"github.com/tbergmann/searchmeta/rpc/transport"
)

var Logger = logger.GetLogger("rpc")

// serverShard is a struct that represents a shard in the RPC server
// It contains the registry the shard encapsulates and the adapter
// that handles requests for the registry
type serverShard struct {
	Registry registry.IRegistry
	Adapter  IRPCServerAdapter
}

// NewRPCServer creates a new RPC server
// It takes a config, transport and serializer as parameters
//
// Usage:
//
//	s := server.NewRPCServer(
//		*config,
//		http.NewHttpServerTransport(),
//		serializer.NewJSONSerializer(),
//	)
//
//	if err := s.Serve(); err != nil {
//		panic(err)
//	 }
func NewRPCServer(
	config common.ServerConfig,
	transport transport.IRPCServerTransport,
	serializer serializer.IRPCSerializer,
) rpcServer {
	// https://github.com/golang/go/issues/17393
	if runtime.GOOS == "darwin" {
		signal.Ignore(syscall.Signal(0xd))
	}

	// Create shards map
	shardMap := xsync.NewMapOf[uint64, serverShard]()

	Logger.Infof("Created RPC Server")
	Logger.Infof(config.String())

	// Create the RPC server
	return rpcServer{
		config:     config,
		transport:  transport,
		serializer: serializer,
		shards:     shardMap,
	}
}

type rpcServer struct {
	config     common.ServerConfig
	transport  transport.IRPCServerTransport
	serializer serializer.IRPCSerializer
	shards     *xsync.MapOf[uint64, serverShard]
}

func (s *rpcServer) registerTransportHandler() {
	s.transport.RegisterHandler(func(shardId uint64, req []byte) []byte {
		var msg common.Message
		var respMsg common.Message

		// Get appropriate shard
		shard, ok := s.shards.Load(shardId)

		// Case shard does not exist -> error
		if !ok {
			respMsg = common.Message{
				MsgType: common.MsgTError,
				Err:     "shard not found",
			}
		} else {
			// Decode the request
			err := s.serializer.Deserialize(req, &msg)

			if err != nil {
				respMsg = common.Message{
					MsgType: common.MsgTError,
					Err:     fmt.Sprintf("failed to deserialize request: %s", err),
				}
			} else {
				// Let the adapter handle the request
				respMsg = *shard.Adapter.Handle(&msg, shard.Registry)
			}
		}

		// Return result
		val, err := s.serializer.Serialize(respMsg)
		if err != nil {
			respMsg = common.Message{
				MsgType: common.MsgTError,
				Err:     fmt.Sprintf("failed to serialize response: %s", err),
			}
		}
		return val
	})
}

// serveMetrics exposes all collected metrics in Prometheus text format
func (s *rpcServer) serveMetrics() {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /metrics", func(w http.ResponseWriter, r *http.Request) {
		metrics.WritePrometheus(w, true)
	})

	Logger.Infof("Starting metrics server on %s", s.config.MetricsEndpoint)
	Logger.Errorf("metrics server stopped: %v", http.ListenAndServe(s.config.MetricsEndpoint, mux))
}

func (s *rpcServer) init() error {

	// Init logger
	common.InitLoggers(s.config)

	// Create the Dragonboat NodeHost
	var nodeHost *dragonboat.NodeHost
	var err error
	if s.config.HasReplicatedShard() {
		// Only create the NodeHost if we have replicated shards
		nodeHost, err = dragonboat.NewNodeHost(s.config.ToNodeHostConfig())
		if err != nil {
			return fmt.Errorf("failed to create node host: %w", err)
		}
	}

	// Configure the timeout for the distributed registry
	timeout := time.Duration(s.config.TimeoutSecond) * time.Second

	// CREATE SHARDS

	/*
		Note: A single RPC Server can have any number of replicated and or local
		shards. The following loop creates all the shards and stores them for
		the RPC server.
	*/

	for _, shardConfig := range s.config.Shards {

		// Case local registry
		if shardConfig.Type == common.ShardTypeLocalRegistry {
			s.shards.Store(shardConfig.ShardID, serverShard{
				Registry: lregistry.NewLocalRegistry(),
				Adapter:  NewRegistryServerAdapter(),
			})
			Logger.Infof("created local registry for shard %d", shardConfig.ShardID)

			// Case replicated registry
		} else if shardConfig.Type == common.ShardTypeReplicatedRegistry {
			if nodeHost == nil {
				return fmt.Errorf("node host is nil, cannot create replicated registry")
			}

			// Start Raft for the shard
			if err := nodeHost.StartConcurrentReplica(s.config.ClusterMembers, false, dregistry.CreateStateMachineFactory(), s.config.ToDragonboatConfig(shardConfig.ShardID)); err != nil {
				Logger.Errorf("failed to start shard %v: %v", shardConfig.ShardID, err)
			}

			s.shards.Store(shardConfig.ShardID, serverShard{
				Registry: dregistry.NewDistributedRegistry(nodeHost, shardConfig.ShardID, timeout),
				Adapter:  NewRegistryServerAdapter(),
			})
		} else {
			return fmt.Errorf("invalid shard type: %s", shardConfig.Type)
		}
	}

	Logger.Infof("searchmeta setup completed successfully")

	// Configure the transport layer
	s.registerTransportHandler()

	// Start the metrics endpoint if configured
	if s.config.MetricsEndpoint != "" {
		go s.serveMetrics()
	}

	return nil
}

// Serve starts the RPC server
// This function will also initialize the server plus the shards and start the transport layer
func (s *rpcServer) Serve() error {
	err := s.init()
	if err != nil {
		return err
	}
	return s.transport.Listen(s.config)
}
