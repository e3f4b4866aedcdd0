package cli

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/emerald-tools/shinyhunt/internal/hunt"
	"github.com/emerald-tools/shinyhunt/internal/ledger"
	"github.com/emerald-tools/shinyhunt/internal/pokerec"
)

func init() {
	cmd := &cobra.Command{
		Use:   "hunt <location>",
		Short: "Run a shiny hunt at a configured location",
		Long: "Run a shiny hunt at a configured location. The hunt stops on the " +
			"first shiny of any species; --target only marks which species you " +
			"are after in the result.",
		Args: cobra.ExactArgs(1),
		Run:  runHunt,
	}

	cmd.Flags().StringP("target", "t", "", "Target species name")
	cmd.Flags().StringP("snapshot", "s", "", "Save snapshot reloaded on reset (required)")
	cmd.Flags().String("bridge", "", "Emulator bridge command (required)")
	cmd.Flags().Int("max-attempts", 0, "Stop after N attempts (0 = unbounded)")
	cmd.Flags().Int("retries", 3, "Consecutive capability failures tolerated")
	cmd.Flags().Int("status-every", 25, "Attempts between progress reports")
	cmd.Flags().String("dump-dir", "", "Directory for raw record dumps of finds")

	cmd.MarkFlagRequired("snapshot")
	cmd.MarkFlagRequired("bridge")

	RootCmd.AddCommand(cmd)
}

func runHunt(cmd *cobra.Command, args []string) {
	target, _ := cmd.Flags().GetString("target")
	snapshot, _ := cmd.Flags().GetString("snapshot")
	bridgeCmd, _ := cmd.Flags().GetString("bridge")
	maxAttempts, _ := cmd.Flags().GetInt("max-attempts")
	retries, _ := cmd.Flags().GetInt("retries")
	statusEvery, _ := cmd.Flags().GetInt("status-every")
	dumpDir, _ := cmd.Flags().GetString("dump-dir")

	cfg, err := loadConfig()
	if err != nil {
		exitErr("load config", err)
	}
	loc, ok := cfg.Locations[args[0]]
	if !ok {
		exitErr("hunt", fmt.Errorf("unknown location %q (see `shinyhunt locations`)", args[0]))
	}

	br, err := startBridge(bridgeCmd)
	if err != nil {
		exitErr("start bridge", err)
	}
	defer br.Close()

	sess, err := hunt.New(br, hunt.Config{
		Owner:        cfg.Owner.Pair(),
		Location:     loc,
		LocationKey:  args[0],
		Target:       target,
		SnapshotPath: snapshot,
		MaxAttempts:  maxAttempts,
		RetryLimit:   retries,
		StatusEvery:  statusEvery,
	}, logger, rand.New(rand.NewSource(time.Now().UnixNano())))
	if err != nil {
		exitErr("hunt", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	find, err := sess.Run(ctx)
	if err != nil {
		exitErr("hunt", err)
	}

	dumpPath := ""
	if dumpDir != "" {
		if err := os.MkdirAll(dumpDir, 0o755); err != nil {
			exitErr("dump dir", err)
		}
		name := fmt.Sprintf("%s-%08x.pk3",
			strings.ToLower(pokerec.SpeciesName(find.Rec.Species)), find.Rec.PV)
		dumpPath = filepath.Join(dumpDir, name)
		if err := os.WriteFile(dumpPath, find.Raw, 0o644); err != nil {
			exitErr("write dump", err)
		}
		logger.Info("record dumped", zap.String("path", dumpPath))
	}

	l, err := openLedger()
	if err != nil {
		exitErr("open ledger", err)
	}
	defer l.Close()

	row, err := l.Record(cmd.Context(), ledger.RecordParams{
		Rec:        find.Rec,
		ShinyValue: find.ShinyValue,
		Attempts:   find.Attempts,
		Elapsed:    find.Elapsed,
		Location:   loc.Name,
		Method:     loc.Method,
		Snapshot:   dumpPath,
	})
	if err != nil {
		exitErr("record find", err)
	}

	b, _ := json.MarshalIndent(row, "", "  ")
	fmt.Println(string(b))
}
