package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/notebook"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of notebook",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("notebook version %s\n", notebook.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
