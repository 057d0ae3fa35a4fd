package engine

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/tbergmann/searchmeta/lib/engine"
)

// readDocument reads an engine JSON document from a file, or from stdin if
// the path is "-"
func readDocument(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

var (
	putCmd = &cobra.Command{
		Use:   "put [file]",
		Short: "Stores an engine configuration from a JSON document (use '-' for stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readDocument(args[0])
			if err != nil {
				return err
			}

			// Validate the document locally before sending it
			eng, err := engine.ParseJSON(doc)
			if err != nil {
				return err
			}

			if err := rpcRegistry.Put(eng); err != nil {
				return err
			}
			fmt.Printf("stored engine %q\n", eng.Name())
			return nil
		},
	}
	getCmd = &cobra.Command{
		Use:   "get [name]",
		Short: "Reads an engine configuration and prints its JSON document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			eng, ok, err := rpcRegistry.Get(name)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("engine %q not found", name)
			}
			doc, err := eng.EmitJSON()
			if err != nil {
				return err
			}
			fmt.Println(string(doc))
			return nil
		},
	}
	delCmd = &cobra.Command{
		Use:   "del [name]",
		Short: "Deletes an engine configuration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if err := rpcRegistry.Delete(name); err != nil {
				return err
			}
			fmt.Println("delete successfully")
			return nil
		},
	}
	listCmd = &cobra.Command{
		Use:   "list",
		Short: "Lists the names of all stored engine configurations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := rpcRegistry.Names()
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Println(name)
			}
			return nil
		},
	}
	diffCmd = &cobra.Command{
		Use:   "diff [old file] [new file]",
		Short: "Computes the field-level diff between two engine JSON documents",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			oldDoc, err := readDocument(args[0])
			if err != nil {
				return err
			}
			newDoc, err := readDocument(args[1])
			if err != nil {
				return err
			}

			oldEng, err := engine.ParseJSON(oldDoc)
			if err != nil {
				return fmt.Errorf("invalid document %s: %w", args[0], err)
			}
			newEng, err := engine.ParseJSON(newDoc)
			if err != nil {
				return fmt.Errorf("invalid document %s: %w", args[1], err)
			}

			d := engine.ComputeDiff(oldEng, newEng)
			if d.Unchanged() {
				fmt.Println("no changes")
				return nil
			}

			fmt.Printf("base hash: %016x\n", d.BaseHash())
			fmt.Printf("changed fields:\n")
			for _, field := range d.ChangedFields() {
				fmt.Printf("  %s\n", field)
			}
			fmt.Printf("encoded size: %d bytes\n", len(d.EncodeBinary()))
			return nil
		},
	}
)
