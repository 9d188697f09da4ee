package cmd

import (
	"cubie-assistant/internal/config"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "assistantctl",
	Short: "Operate the Cubie assistant",
	Long:  color.CyanString("assistantctl") + "\nIndex the help corpus, migrate the schema and try the router offline.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg = config.Load()
	},
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(navigateCmd)
	rootCmd.AddCommand(migrateCmd)
}
