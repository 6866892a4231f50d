package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/lootctl/internal/query"
	"github.com/bnema/lootctl/internal/ui/styles"
)

var clearAll bool

var clearCmd = &cobra.Command{
	Use:   "clear [plugin]",
	Short: "Remove user metadata",
	Long: `Removes the userlist entry of a plugin, or the whole userlist with --all.
Masterlist metadata is not affected.

Examples:
  lootctl clear Unofficial\ Skyrim\ Patch.esp
  lootctl clear --all`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if clearAll == (len(args) == 1) {
			return errors.New("pass either a plugin name or --all")
		}

		router, s, err := newRouter()
		if err != nil {
			return err
		}
		defer saveSession(s)

		if clearAll {
			if _, err := router.Handle("clearAllMetadata"); err != nil {
				return err
			}
			fmt.Println(styles.FormatSuccess("Cleared all user metadata"))
			return nil
		}

		if _, err := router.Dispatch(query.Request{Name: "clearPluginMetadata", Args: args}); err != nil {
			return err
		}
		fmt.Println(styles.FormatSuccess(fmt.Sprintf("Cleared user metadata of %s", args[0])))
		return nil
	},
}

func init() {
	clearCmd.Flags().BoolVar(&clearAll, "all", false, "Clear the whole userlist")
	rootCmd.AddCommand(clearCmd)
}
