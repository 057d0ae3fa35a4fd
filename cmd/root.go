package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tbergmann/searchmeta/cmd/engine"
	"github.com/tbergmann/searchmeta/cmd/serve"
	"github.com/tbergmann/searchmeta/cmd/util"
)

const (
	Version = "0.3.1"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "searchmeta",
		Short: "replicated search engine registry",
		Long: fmt.Sprintf(`searchmeta (v%s)

A replicated registry for search engine configurations, written in Go,
leveraging RAFT consensus for linearizability and fault tolerance.`, Version),
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of searchmeta",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("searchmeta v%s\n", Version)
		},
	}
)

func init() {
	// Add Commands
	RootCmd.AddCommand(serve.ServeCmd)
	RootCmd.AddCommand(engine.EngineCommands)
	RootCmd.AddCommand(versionCmd)

	// Add Flags
	key := "serializer"
	RootCmd.PersistentFlags().String(key, "json", util.WrapString("serializer to use (json, gob, binary)"))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
