package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/emerald-tools/shinyhunt/internal/boxfile"
	"github.com/emerald-tools/shinyhunt/internal/pokerec"
)

func init() {
	cmd := &cobra.Command{
		Use:   "merge <container> <record.pk3>...",
		Short: "Merge record dumps into a box container",
		Long: "Merge raw record dumps into the empty slots of a box container. " +
			"The base file is never modified; output goes to a new file and " +
			"consumed dumps are moved into the archive directory. Dumps that " +
			"did not fit are reported as unplaced and stay where they are.",
		Args: cobra.MinimumNArgs(2),
		Run:  runMerge,
	}

	cmd.Flags().StringP("out", "o", "", "Output container path (default: <container>.<timestamp>)")
	cmd.Flags().String("archive", "archive", "Directory consumed dumps are moved into (empty disables)")

	RootCmd.AddCommand(cmd)
}

func runMerge(cmd *cobra.Command, args []string) {
	outPath, _ := cmd.Flags().GetString("out")
	archiveDir, _ := cmd.Flags().GetString("archive")

	basePath := args[0]
	base, err := loadOrNewContainer(basePath)
	if err != nil {
		exitErr("load container", err)
	}

	inputs := args[1:]
	incoming := make([][]byte, 0, len(inputs))
	for _, path := range inputs {
		raw, err := os.ReadFile(path)
		if err != nil {
			exitErr("read dump", err)
		}
		// party-format dumps carry 20 trailing bytes of battle state
		if len(raw) > pokerec.BoxRecordSize {
			if raw, err = pokerec.PartyToBox(raw); err != nil {
				exitErr(fmt.Sprintf("dump %s", path), err)
			}
		}
		incoming = append(incoming, raw)
	}

	out, placements, unplaced, err := boxfile.MergePlacements(base, incoming)
	if err != nil && !errors.Is(err, boxfile.ErrNoCapacity) {
		exitErr("merge", err)
	}

	if outPath == "" {
		outPath = fmt.Sprintf("%s.%s", basePath, time.Now().Format("20060102-150405"))
	}
	if werr := out.WriteFile(outPath); werr != nil {
		exitErr("write merged container", werr)
	}

	if archiveDir != "" {
		if aerr := archiveConsumed(inputs, unplaced, archiveDir); aerr != nil {
			exitErr("archive", aerr)
		}
	}

	type placed struct {
		Input   string `json:"input"`
		Slot    string `json:"slot"`
		Species string `json:"species"`
		PV      uint32 `json:"pv"`
	}
	report := struct {
		Output   string   `json:"output"`
		Placed   []placed `json:"placed"`
		Unplaced []string `json:"unplaced,omitempty"`
	}{Output: outPath}
	for _, p := range placements {
		report.Placed = append(report.Placed, placed{
			Input:   inputs[p.Index],
			Slot:    p.Ref.String(),
			Species: pokerec.SpeciesName(p.Rec.Species),
			PV:      p.Rec.PV,
		})
	}
	for _, i := range unplaced {
		report.Unplaced = append(report.Unplaced, inputs[i])
	}

	logger.Info("merge complete",
		zap.String("output", outPath),
		zap.Int("placed", len(placements)),
		zap.Int("unplaced", len(unplaced)))

	b, _ := json.MarshalIndent(report, "", "  ")
	fmt.Println(string(b))
}

// archiveConsumed moves the dump files that were actually placed into the
// archive directory. Unplaced dumps stay in the working directory so a
// follow-up merge still has its inputs.
func archiveConsumed(inputs []string, unplaced []int, dir string) error {
	skip := make(map[int]bool, len(unplaced))
	for _, i := range unplaced {
		skip[i] = true
	}
	for i, path := range inputs {
		if skip[i] {
			continue
		}
		if err := boxfile.Archive(path, dir); err != nil {
			return err
		}
	}
	return nil
}

// loadOrNewContainer starts from an empty grid when the base file does not
// exist yet, so a first merge needs no separate init step.
func loadOrNewContainer(path string) (*boxfile.Container, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return boxfile.New(), nil
	}
	return boxfile.Load(path)
}
