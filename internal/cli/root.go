// Package cli implements the shinyhunt CLI commands.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/emerald-tools/shinyhunt/internal/config"
	"github.com/emerald-tools/shinyhunt/internal/ledger"
)

var (
	dbPath  string
	cfgPath string
	verbose bool

	logger = zap.NewNop()
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "shinyhunt",
	Short: "Automated shiny hunting against an emulated game",
	Long: "Drives an external emulator bridge through repeated encounters, " +
		"decodes the records it finds and stops on the first shiny. " +
		"Containers of found records are merged and organized offline.",
	PersistentPreRun: setupLogger,
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Find ledger path (default: $SHINYHUNT_DB or ~/.shinyhunt/finds.db)")
	RootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "Location config file (default: built-in tables)")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging")
}

func setupLogger(cmd *cobra.Command, args []string) {
	zcfg := zap.NewProductionConfig()
	if verbose {
		zcfg = zap.NewDevelopmentConfig()
	}
	l, err := zcfg.Build()
	if err != nil {
		exitErr("logger", err)
	}
	logger = l
}

func getDBPath() string {
	if dbPath != "" {
		return dbPath
	}
	if env := os.Getenv("SHINYHUNT_DB"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".shinyhunt", "finds.db")
}

func openLedger() (*ledger.Ledger, error) {
	return ledger.Open(getDBPath())
}

func loadConfig() (*config.Config, error) {
	if cfgPath != "" {
		return config.Load(cfgPath)
	}
	return config.Default()
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
