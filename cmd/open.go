package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/lootctl/internal/ui/styles"
)

var openCmd = &cobra.Command{
	Use:       "open <readme|logs>",
	Short:     "Open the readme or the log folder",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"readme", "logs"},
	RunE: func(cmd *cobra.Command, args []string) error {
		router, _, err := newRouter()
		if err != nil {
			return err
		}

		request := "openReadme"
		if args[0] == "logs" {
			request = "openLogLocation"
		}
		if _, err := router.Handle(request); err != nil {
			return err
		}
		fmt.Println(styles.FormatSuccess("Opened " + args[0]))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(openCmd)
}
