package server

import (
	"fmt"

	"github.com/VictoriaMetrics/metrics"
	"github.com/tbergmann/searchmeta/lib/engine"
	"github.com/tbergmann/searchmeta/lib/registry"
	"github.com/tbergmann/searchmeta/rpc/common"
)

func NewRegistryServerAdapter() IRPCServerAdapter {
	return &registryServerAdapterImpl{}
}

type registryServerAdapterImpl struct{}

func (adapter *registryServerAdapterImpl) Handle(req *common.Message, reg registry.IRegistry) *common.Message {
	// Check for nil registry
	if reg == nil {
		return common.NewErrorResponse("handler: registry is nil")
	}

	// Count handled requests per operation
	metrics.GetOrCreateCounter(
		fmt.Sprintf(`searchmeta_rpc_requests_total{op=%q}`, req.MsgType.String()),
	).Inc()

	// Handle different message types
	switch req.MsgType {
	case common.MsgTEnginePut:
		eng, err := engine.ParseJSON(req.Document)
		if err != nil {
			return common.NewPutResponse(err)
		}
		return common.NewPutResponse(reg.Put(eng))
	case common.MsgTEngineGet:
		eng, ok, err := reg.Get(req.Name)
		if err != nil || !ok {
			return common.NewGetResponse(nil, ok, err)
		}
		doc, err := eng.EmitJSON()
		return common.NewGetResponse(doc, ok, err)
	case common.MsgTEngineDelete:
		return common.NewDeleteResponse(reg.Delete(req.Name))
	case common.MsgTEngineList:
		names, err := reg.Names()
		return common.NewListResponse(names, err)
	default:
		return common.NewErrorResponse(
			fmt.Sprintf("RPC RegistryAdapter - Unsuported message type: %s", req.MsgType),
		)
	}
}
