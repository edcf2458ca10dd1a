// Command mediasearch searches a tagged multimedia catalog by tag intersection,
// records views and collects 1-5 ratings, either from an interactive shell or over HTTP.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// envFile is set by the --env-file flag
	envFile string
	// logLevel is set by the --log-level flag and overrides LOG_LEVEL
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "mediasearch",
	Short: "Search tagged images, audio and video by tag intersection",
	Long: `mediasearch finds every media item tagged with all of the given tags,
prints its details and absolute file path, records the view in a history log
and asks for a 1-5 rating.

Without a subcommand an interactive shell session is started.`,
	SilenceUsage: true,
	Args:         cobra.NoArgs,
	RunE:         runShell,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "path to an env file (default: .env when present)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn or error (default: LOG_LEVEL)")

	rootCmd.AddCommand(shellCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(userCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "[ERROR]", err)
		os.Exit(1)
	}
}
