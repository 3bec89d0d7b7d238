package main

import (
	"os"

	"github.com/spf13/cobra"

	"planedge/backend/internal/maintenance"
)

const defaultLogFile = "storage/logs/app.log"

func clearLogsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear-logs",
		Short: "Truncate the application log file",
		Long: `Truncate the application log file to zero bytes.

The file itself is kept. If it does not exist nothing is changed.

Examples:
  planectl clear-logs
  planectl clear-logs --file /var/log/planedge/app.log`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("file")
			return maintenance.ClearLog(path, cmd.OutOrStdout())
		},
	}

	def := os.Getenv("LOG_FILE")
	if def == "" {
		def = defaultLogFile
	}
	cmd.Flags().StringP("file", "f", def, "Log file to clear (default from LOG_FILE)")
	return cmd
}
