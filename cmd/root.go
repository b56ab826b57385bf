package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "metanotes",
	Short: "Study notes to explanation and quiz",
	Long:  "MetaNotes turns raw study notes (pasted text or PDF) into one unified explanation plus a short quiz, and scores quiz answers.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite usage database (overrides METANOTES_DB env var)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(llmCmd)
}
