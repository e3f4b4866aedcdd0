package cli

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "locations",
		Short: "List configured hunt locations",
		Run:   runLocations,
	}

	cmd.Flags().Bool("keys-only", false, "Only output location keys")

	RootCmd.AddCommand(cmd)
}

func runLocations(cmd *cobra.Command, args []string) {
	keysOnly, _ := cmd.Flags().GetBool("keys-only")

	cfg, err := loadConfig()
	if err != nil {
		exitErr("load config", err)
	}

	keys := make([]string, 0, len(cfg.Locations))
	for k := range cfg.Locations {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	if keysOnly {
		for _, k := range keys {
			fmt.Println(k)
		}
		return
	}

	type row struct {
		Key     string   `json:"key"`
		Name    string   `json:"name"`
		Method  string   `json:"method"`
		Species []string `json:"species"`
	}
	rows := make([]row, 0, len(keys))
	for _, k := range keys {
		loc := cfg.Locations[k]
		rows = append(rows, row{Key: k, Name: loc.Name, Method: loc.Method, Species: loc.Species})
	}

	b, _ := json.MarshalIndent(rows, "", "  ")
	fmt.Println(string(b))
}
