package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/emerald-tools/shinyhunt/internal/boxfile"
	"github.com/emerald-tools/shinyhunt/internal/emu"
)

func init() {
	cmd := &cobra.Command{
		Use:   "export <output>",
		Short: "Export the live box container to a file",
		Long: "Read box storage out of the running game over the emulator " +
			"bridge and write it as a container file, ready for merge and " +
			"organize.",
		Args: cobra.ExactArgs(1),
		Run:  runExport,
	}

	cmd.Flags().String("bridge", "", "Emulator bridge command (required)")
	cmd.MarkFlagRequired("bridge")

	RootCmd.AddCommand(cmd)
}

func runExport(cmd *cobra.Command, args []string) {
	bridgeCmd, _ := cmd.Flags().GetString("bridge")

	br, err := startBridge(bridgeCmd)
	if err != nil {
		exitErr("start bridge", err)
	}
	defer br.Close()

	base, err := emu.StorageBase(br)
	if err != nil {
		exitErr("locate box storage", err)
	}
	raw, err := br.ReadBytes(base, boxfile.Size)
	if err != nil {
		exitErr("read box storage", err)
	}

	c, err := boxfile.FromBytes(raw)
	if err != nil {
		exitErr("export", err)
	}
	if err := c.WriteFile(args[0]); err != nil {
		exitErr("write container", err)
	}

	occupied, _ := c.Scan()
	logger.Info("container exported",
		zap.String("path", args[0]),
		zap.Int("occupied", len(occupied)))
	fmt.Println(args[0])
}

// startBridge splits a bridge command line and launches it.
func startBridge(command string) (*emu.Bridge, error) {
	parts := strings.Fields(command)
	if len(parts) == 0 {
		return nil, fmt.Errorf("empty bridge command")
	}
	return emu.StartBridge(parts[0], parts[1:]...)
}
