package cmd

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/ardanlabs/spvchain/foundation/blockchain/database"
	"github.com/spf13/cobra"
)

var headCmd = &cobra.Command{
	Use:   "head",
	Short: "Print the chain head of the store.",
	Run:   headRun,
}

func init() {
	rootCmd.AddCommand(headCmd)
}

func headRun(cmd *cobra.Command, args []string) {
	st, err := openState()
	if err != nil {
		log.Fatal(err)
	}
	defer st.Shutdown()

	first, tip, length := st.WindowBounds()

	out := struct {
		Head   database.BlockData `json:"head"`
		First  uint64             `json:"first_height"`
		Window int                `json:"window_size"`
		Stored uint64             `json:"stored"`
	}{
		Head:   database.NewBlockData(tip),
		First:  first.Height(),
		Window: length,
		Stored: st.Size(),
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(string(data))
}
