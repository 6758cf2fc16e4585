package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aretw0/notebook/internal/platform"
	"github.com/aretw0/notebook/pkg/server"
)

var (
	serveAddr    string
	serveBackend string
	servePath    string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a note server",
	Long: `Serve exposes a note store over HTTP for notebook clients.

Backends:
  memory  notes live in memory and are lost on exit
  sqlite  notes live in a SQLite database at --path
  fs      one YAML file per note under --path, watched for external edits`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		logger := slog.Default()
		store, closeStore, err := platform.OpenBackend(ctx, serveBackend, servePath, logger)
		if err != nil {
			fatal("Error opening backend", err)
		}
		defer func() {
			if err := closeStore(); err != nil {
				logger.Error("closing backend failed", "error", err)
			}
		}()

		addr := serveAddr
		if addr == "" {
			addr = ":" + strconv.Itoa(platform.ResolveHost(hostConfig, logger).Port)
		}

		logger.Info("serving notes", "addr", addr, "backend", serveBackend)
		if err := server.New(store, logger).Run(ctx, addr); err != nil {
			logger.Error("server stopped", "error", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default: the configured HOST_PORT)")
	serveCmd.Flags().StringVar(&serveBackend, "backend", platform.BackendMemory, "Store backend: memory, sqlite, fs")
	serveCmd.Flags().StringVar(&servePath, "path", "", "Database file or notes directory")
}
