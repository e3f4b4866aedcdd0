package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/emerald-tools/shinyhunt/internal/ledger"
)

func init() {
	cmd := &cobra.Command{
		Use:   "finds",
		Short: "List recorded finds, most recent first",
		Run:   runFinds,
	}

	cmd.Flags().StringP("species", "s", "", "Filter by species name")
	cmd.Flags().IntP("limit", "l", 20, "Max results")

	RootCmd.AddCommand(cmd)
}

func runFinds(cmd *cobra.Command, args []string) {
	species, _ := cmd.Flags().GetString("species")
	limit, _ := cmd.Flags().GetInt("limit")

	l, err := openLedger()
	if err != nil {
		exitErr("open ledger", err)
	}
	defer l.Close()

	finds, err := l.List(cmd.Context(), ledger.ListParams{
		Species: species,
		Limit:   limit,
	})
	if err != nil {
		exitErr("list finds", err)
	}

	b, _ := json.MarshalIndent(finds, "", "  ")
	fmt.Println(string(b))
}
