// Package cmd contains the spv tooling commands.
package cmd

import (
	"fmt"
	"os"

	"github.com/ardanlabs/spvchain/foundation/blockchain/database/storage"
	"github.com/ardanlabs/spvchain/foundation/blockchain/genesis"
	"github.com/ardanlabs/spvchain/foundation/blockchain/pow"
	"github.com/ardanlabs/spvchain/foundation/blockchain/state"
	"github.com/spf13/cobra"
)

var (
	genesisPath string
	engine      string
	storePath   string
	verbose     bool
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&genesisPath, "genesis", "g", "zblock/genesis.json", "Path to the genesis file.")
	rootCmd.PersistentFlags().StringVarP(&engine, "engine", "e", storage.EngineBolt, "Storage engine: memory, disk or bolt.")
	rootCmd.PersistentFlags().StringVarP(&storePath, "store", "s", "zblock/headers.db", "Path to the header store.")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print chain events.")
}

var rootCmd = &cobra.Command{
	Use:   "spv",
	Short: "Header chain tooling",
}

// Execute runs the root command.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// openState opens the header chain stored at the configured location.
func openState(listeners ...state.Listener) (*state.State, error) {
	gen, err := genesis.Load(genesisPath)
	if err != nil {
		return nil, err
	}

	serializer, err := storage.Open(engine, storePath)
	if err != nil {
		return nil, err
	}

	var ev state.EventHandler
	if verbose {
		ev = func(v string, args ...any) {
			rootCmd.Println(fmt.Sprintf(v, args...))
		}
	}

	st, err := state.New(state.Config{
		Genesis:    gen,
		Serializer: serializer,
		Consensus:  pow.Engine{},
		Listeners:  listeners,
		EvHandler:  ev,
	})
	if err != nil {
		serializer.Close()
		return nil, err
	}

	return st, nil
}
