package engine

import (
	"github.com/spf13/cobra"
	"github.com/tbergmann/searchmeta/cmd/util"
	"github.com/tbergmann/searchmeta/lib/registry"
	"github.com/tbergmann/searchmeta/rpc/client"
)

var (
	rpcRegistry registry.IRegistry

	// EngineCommands represents the engine command group
	EngineCommands = &cobra.Command{
		Use:               "engine",
		Short:             "Manage search engine configurations",
		PersistentPreRunE: setupRegistryClient,
	}
)

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitClientConfig)

	// Add common RPC flags to the engine command
	util.SetupRPCClientFlags(EngineCommands)

	// Set default shard ID for engine operations
	EngineCommands.PersistentFlags().Int("shard", 100, util.WrapString("ID of the shard to connect to"))

	// Add subcommands
	EngineCommands.AddCommand(putCmd)
	EngineCommands.AddCommand(getCmd)
	EngineCommands.AddCommand(delCmd)
	EngineCommands.AddCommand(listCmd)
	EngineCommands.AddCommand(diffCmd)
}

// setupRegistryClient initializes the RPC registry client
func setupRegistryClient(cmd *cobra.Command, _ []string) error {
	// Bind command flags to viper
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	// The diff command works on local files only
	if cmd.Name() == "diff" {
		return nil
	}

	// Get client configuration components
	config := util.GetClientConfig()
	shardId := util.GetShardID()

	// Get serializer
	s, err := util.GetSerializer()
	if err != nil {
		return err
	}

	// Create the registry client
	rpcRegistry, err = client.NewRPCRegistry(
		shardId,
		*config,
		util.GetTransport(),
		s,
	)

	return err
}
