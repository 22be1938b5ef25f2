package cmd

import (
	"fmt"
	"log"

	"github.com/ardanlabs/spvchain/foundation/blockchain/merkle"
	"github.com/spf13/cobra"
)

var verifyCmd = &cobra.Command{
	Use:   "verify BRANCH ROOT",
	Short: "Verify a compact merkle branch against a merkle root.",
	Args:  cobra.ExactArgs(2),
	Run:   verifyRun,
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}

func verifyRun(cmd *cobra.Command, args []string) {
	branch, err := merkle.ParseBranch(args[0])
	if err != nil {
		log.Fatal(err)
	}

	root, err := merkle.ParseRoot(args[1])
	if err != nil {
		log.Fatal(err)
	}

	if !branch.Verify(root) {
		fmt.Println("INVALID")
		return
	}

	fmt.Println("VALID")
}
