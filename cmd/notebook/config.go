package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/aretw0/notebook/internal/platform"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the resolved host and client preferences",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		host := platform.ResolveHost(hostConfig, slog.Default())
		policy, err := platform.LoadPreferences(prefsPath, slog.Default())
		if err != nil {
			slog.Warn("preferences couldn't be loaded, showing defaults", "error", err)
		}

		fmt.Printf("host:                             %s\n", host.HostWithPort())
		fmt.Printf("autoSave:                         %t\n", policy.AutoSave)
		fmt.Printf("alwaysAskToSaveBeforeClosingNote: %t\n", policy.AskBeforeClosing)
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
