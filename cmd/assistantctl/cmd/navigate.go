package cmd

import (
	"fmt"
	"strings"

	"cubie-assistant/pkg/navigation"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var navigateCmd = &cobra.Command{
	Use:   "navigate <request>",
	Short: "Resolve a navigation request against the route table",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		table, err := navigation.LoadTable(cfg.Assistant.NavigationTable)
		if err != nil {
			return err
		}
		res := navigation.NewResolver(table, cfg.Assistant.NavigationMinimum).Resolve(strings.Join(args, " "))
		if !res.Found {
			color.Yellow("%s", res.Message)
			for _, s := range res.Suggestions {
				fmt.Println("  -", s)
			}
			return nil
		}
		color.Green("%s (score %.2f)", res.Target.Name, res.Score)
		fmt.Println(res.Target.URL)
		return nil
	},
}
