package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/emerald-tools/shinyhunt/internal/boxfile"
	"github.com/emerald-tools/shinyhunt/internal/pokerec"
)

func init() {
	cmd := &cobra.Command{
		Use:   "organize <container>",
		Short: "Group a container by species, best duplicates first",
		Long: "Rebuild a container grouped by species, each group ordered by " +
			"total effort descending. Slot positions are not preserved, so " +
			"records to drop must be named explicitly with --discard.",
		Args: cobra.ExactArgs(1),
		Run:  runOrganize,
	}

	cmd.Flags().StringP("out", "o", "", "Output container path (default: <container>.<timestamp>)")
	cmd.Flags().String("discard", "", "Comma-separated bank:slot refs to drop (1-based)")
	cmd.Flags().Bool("list", false, "Only list occupied slots, change nothing")

	RootCmd.AddCommand(cmd)
}

func runOrganize(cmd *cobra.Command, args []string) {
	outPath, _ := cmd.Flags().GetString("out")
	discardStr, _ := cmd.Flags().GetString("discard")
	listOnly, _ := cmd.Flags().GetBool("list")

	base, err := boxfile.Load(args[0])
	if err != nil {
		exitErr("load container", err)
	}

	if listOnly {
		listContainer(base)
		return
	}

	discard := make(map[boxfile.SlotRef]bool)
	if discardStr != "" {
		for _, part := range strings.Split(discardStr, ",") {
			ref, err := parseSlotRef(strings.TrimSpace(part))
			if err != nil {
				exitErr("discard", err)
			}
			discard[ref] = true
		}
	}

	out, err := boxfile.Reorganize(base, discard)
	if err != nil {
		exitErr("organize", err)
	}

	if outPath == "" {
		outPath = fmt.Sprintf("%s.%s", args[0], time.Now().Format("20060102-150405"))
	}
	if err := out.WriteFile(outPath); err != nil {
		exitErr("write container", err)
	}
	fmt.Println(outPath)
}

func parseSlotRef(s string) (boxfile.SlotRef, error) {
	var bank, slot int
	if _, err := fmt.Sscanf(s, "%d:%d", &bank, &slot); err != nil {
		return boxfile.SlotRef{}, fmt.Errorf("bad slot ref %q (want bank:slot)", s)
	}
	if bank < 1 || bank > boxfile.Banks || slot < 1 || slot > boxfile.SlotsPerBank {
		return boxfile.SlotRef{}, fmt.Errorf("slot ref %q out of range", s)
	}
	return boxfile.SlotRef{Bank: bank - 1, Slot: slot - 1}, nil
}

func listContainer(c *boxfile.Container) {
	type row struct {
		Slot    string `json:"slot"`
		Species string `json:"species"`
		PV      uint32 `json:"pv"`
		Nature  string `json:"nature"`
		Effort  int    `json:"effort_total"`
		Error   string `json:"error,omitempty"`
	}
	occupied, _ := c.Scan()
	rows := make([]row, 0, len(occupied))
	for _, ref := range occupied {
		rec, err := c.Record(ref)
		if err != nil {
			rows = append(rows, row{Slot: ref.String(), Error: err.Error()})
			continue
		}
		rows = append(rows, row{
			Slot:    ref.String(),
			Species: pokerec.SpeciesName(rec.Species),
			PV:      rec.PV,
			Nature:  pokerec.NatureName(rec.Nature),
			Effort:  rec.Effort.Total(),
		})
	}
	b, _ := json.MarshalIndent(rows, "", "  ")
	fmt.Println(string(b))
}
