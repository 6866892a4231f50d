package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/lootctl/internal/query"
	"github.com/bnema/lootctl/internal/ui/styles"
)

var copyMetadataCmd = &cobra.Command{
	Use:   "copy-metadata <plugin>",
	Short: "Copy a plugin's metadata to the clipboard",
	Long: `Copies the combined masterlist and userlist metadata of a plugin to the
clipboard, in the format used by metadata files.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		router, s, err := newRouter()
		if err != nil {
			return err
		}
		defer saveSession(s)

		if _, err := router.Dispatch(query.Request{Name: "copyMetadata", Args: args}); err != nil {
			return err
		}
		fmt.Println(styles.FormatSuccess("Copied metadata of " + args[0]))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(copyMetadataCmd)
}
