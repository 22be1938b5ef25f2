package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/ardanlabs/spvchain/foundation/blockchain/monitor"
	"github.com/ardanlabs/spvchain/foundation/blockchain/worker"
	"github.com/spf13/cobra"
)

var (
	blocks int
	miner  string
)

var mineCmd = &cobra.Command{
	Use:   "mine",
	Short: "Mine blocks on top of the chain head of the store.",
	Run:   mineRun,
}

func init() {
	rootCmd.AddCommand(mineCmd)
	mineCmd.Flags().IntVarP(&blocks, "blocks", "n", 1, "Number of blocks to mine.")
	mineCmd.Flags().StringVarP(&miner, "miner", "m", "miner1", "Address paid by the pop transaction.")
}

func mineRun(cmd *cobra.Command, args []string) {
	st, err := openState()
	if err != nil {
		log.Fatal(err)
	}
	defer st.Shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	bodies := monitor.NewBodies()
	for range blocks {
		block, err := worker.MineBlock(ctx, st, bodies, miner, nil, nil)
		if err != nil {
			log.Fatal(err)
		}

		fmt.Printf("%d %s\n", block.Header.Height, block.Hash)
	}
}
