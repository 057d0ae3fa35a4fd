package client

import (
	"github.com/tbergmann/searchmeta/lib/engine"
	"github.com/tbergmann/searchmeta/lib/registry"
	"github.com/tbergmann/searchmeta/rpc/common"
	"github.com/tbergmann/searchmeta/rpc/serializer"
	"github.com/tbergmann/searchmeta/rpc/transport"
)

// NewRPCRegistry creates a new RPC registry client
// The function takes a shard ID, a config, a transport and a serializer as parameters
// It returns a registry.IRegistry and an error
func NewRPCRegistry(
	shardId uint64,
	config common.ClientConfig,
	transport transport.IRPCClientTransport,
	serializer serializer.IRPCSerializer,
) (registry.IRegistry, error) {

	// Connect the transport
	err := transport.Connect(config)
	if err != nil {
		return nil, err
	}

	// Create a new RPC registry
	r := rpcRegistry{
		rpcClientAdapter{
			shardId:    shardId,
			config:     config,
			transport:  transport,
			serializer: serializer,
		},
	}

	// Return the RPC registry
	return &r, nil
}

type rpcRegistry struct {
	rpcClientAdapter
}

// --------------------------------------------------------------------------
// Interface Methods (docu see the registry package in interface.go)
// --------------------------------------------------------------------------

func (i *rpcRegistry) Put(eng *engine.SearchEngine) (err error) {
	// Engine configurations cross the wire in their JSON document form
	doc, err := eng.EmitJSON()
	if err != nil {
		return err
	}
	req := common.NewPutRequest(doc)
	_, err = invokeRPCRequest(i.shardId, req, i.transport, i.serializer)
	return err
}

func (i *rpcRegistry) Get(name string) (eng *engine.SearchEngine, loaded bool, err error) {
	req := common.NewGetRequest(name)
	resp, err := invokeRPCRequest(i.shardId, req, i.transport, i.serializer)
	if err != nil {
		return nil, false, err
	}
	if !resp.Ok {
		return nil, false, nil
	}
	eng, err = engine.ParseJSON(resp.Document)
	if err != nil {
		return nil, false, err
	}
	return eng, true, nil
}

func (i *rpcRegistry) Delete(name string) (err error) {
	req := common.NewDeleteRequest(name)
	_, err = invokeRPCRequest(i.shardId, req, i.transport, i.serializer)
	return err
}

func (i *rpcRegistry) Names() (names []string, err error) {
	req := common.NewListRequest()
	resp, err := invokeRPCRequest(i.shardId, req, i.transport, i.serializer)
	if err != nil {
		return nil, err
	}
	return resp.Names, nil
}
