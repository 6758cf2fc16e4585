package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/notebook"
	"github.com/aretw0/notebook/internal/platform"
	"github.com/aretw0/notebook/pkg/core"
)

var (
	verbose    bool
	hostConfig string
	prefsPath  string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "notebook",
	Short: "A personal note-taking client for a remote note store",
	Long: `Notebook keeps headlines, text, priorities, execution and reminder dates
on a note server addressed by notebook.host.yaml (HOST_URL, HOST_PORT).
Run "notebook serve" to start a server backed by memory, sqlite or plain YAML files.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&hostConfig, "host-config", "", "Host configuration file (default: search "+platform.HostConfigFile+" upwards)")
	rootCmd.PersistentFlags().StringVar(&prefsPath, "prefs", platform.PreferencesFile, "Client preferences file")
}

// openManager builds a manager against the configured host and loads it.
func openManager(ctx context.Context) *core.Manager {
	m, err := notebook.Open(ctx,
		notebook.WithHostConfigFile(hostConfig),
		notebook.WithLogger(slog.Default()),
	)
	if err != nil {
		fatal("Error loading notes", err)
	}
	return m
}
