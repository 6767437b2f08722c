package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	lumenerrors "github.com/lumen-go/lumen/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "lumen",
		Short: "Universal web server for SSR and SPA frontends",
		Long: `Lumen serves a single-page frontend and its JSON API from one binary.

In development it serves source assets with hot reload and a
cache-busted HTML shell. In production it serves the built asset
directory with long-lived cache headers. Server-rendered content is
injected into the shell in both modes.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		serveCmd(),
		deployCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "\033[31m✗\033[0m %s\n", lumenerrors.Format(err))
		os.Exit(1)
	}
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}
