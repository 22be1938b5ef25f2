package cmd

import (
	"fmt"
	"log"

	"github.com/ardanlabs/spvchain/foundation/blockchain/merkle"
	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
)

var (
	metapackage string
	popIDs      []string
	regularIDs  []string
)

var proofCmd = &cobra.Command{
	Use:   "proof TXID",
	Short: "Build the merkle tree of a block and print the branch of a transaction.",
	Args:  cobra.ExactArgs(1),
	Run:   proofRun,
}

func init() {
	rootCmd.AddCommand(proofCmd)
	proofCmd.Flags().StringVar(&metapackage, "metapackage", "", "Metapackage hash of the block.")
	proofCmd.Flags().StringSliceVar(&popIDs, "pop", nil, "Pop transaction ids in block order.")
	proofCmd.Flags().StringSliceVar(&regularIDs, "regular", nil, "Regular transaction ids in block order.")
}

func proofRun(cmd *cobra.Command, args []string) {
	meta, err := parseHash(metapackage)
	if err != nil {
		log.Fatal(err)
	}

	pop, err := parseHashes(popIDs)
	if err != nil {
		log.Fatal(err)
	}

	regular, err := parseHashes(regularIDs)
	if err != nil {
		log.Fatal(err)
	}

	leaf, err := parseHash(args[0])
	if err != nil {
		log.Fatal(err)
	}

	tree := merkle.Build(meta, pop, regular)

	branch, exists := tree.Path(leaf)
	if !exists {
		log.Fatalf("transaction %s is not part of the block", leaf)
	}

	fmt.Println("root:  ", tree.RootHex())
	fmt.Println("branch:", branch)
}

// parseHash decodes a hash flag, an empty flag is the zero hash.
func parseHash(s string) (common.Hash, error) {
	if s == "" {
		return common.Hash{}, nil
	}

	return merkle.ParseHash(s)
}

func parseHashes(list []string) ([]common.Hash, error) {
	hashes := make([]common.Hash, len(list))
	for i, s := range list {
		h, err := parseHash(s)
		if err != nil {
			return nil, err
		}
		hashes[i] = h
	}

	return hashes, nil
}
