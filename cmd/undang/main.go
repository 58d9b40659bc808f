package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/undangapp/undang/internal/build"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "undang",
		Short:   "A self-hosted wedding invitation service",
		Long:    "Undang serves wedding invitation pages at short memorable addresses, with RSVP and guestbook intake.",
		Version: fmt.Sprintf("%s (%s)", build.Version, build.Commit),
	}

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newMigrateCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
