package main

import (
	"github.com/spf13/cobra"
	"github.com/tagvault/mediasearch/internal/logger"
	"github.com/tagvault/mediasearch/internal/shell"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive search session (default)",
	Long: `Log in and enter comma-separated tags to search, "history" (or "h")
to list recently viewed media, or "exit" to quit.`,
	Args: cobra.NoArgs,
	RunE: runShell,
}

func runShell(cmd *cobra.Command, args []string) error {
	// logs share the terminal with the session, so only warnings show by default
	cfg, err := setup("warn")
	if err != nil {
		return err
	}
	defer logger.Sync()

	// one session, one connection
	db, err := openStore(cfg, 1)
	if err != nil {
		return err
	}
	defer db.Close()

	c := buildComponents(db, cfg, logger.Logger)
	sh := shell.New(c.auth, c.search, c.history, cmd.InOrStdin(), cmd.OutOrStdout(), logger.Logger)

	return sh.Run(cmd.Context())
}
