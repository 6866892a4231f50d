package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/lootctl/internal/query"
	"github.com/bnema/lootctl/internal/ui/styles"
)

var conflictsCmd = &cobra.Command{
	Use:   "conflicts <plugin>",
	Short: "List plugins that edit the same records as a plugin",
	Long: `Lists the installed plugins whose records overlap those of the given
plugin. Plugin records are read on first use.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		router, s, err := newRouter()
		if err != nil {
			return err
		}
		defer saveSession(s)

		p, err := router.Dispatch(query.Request{Name: "getConflictingPlugins", Args: args})
		if err != nil {
			return err
		}

		conflicts := p.(query.Conflicts)
		if len(conflicts) == 0 {
			fmt.Println(styles.MutedText.Render("No conflicts with " + args[0]))
			return nil
		}
		for _, name := range conflicts {
			fmt.Println(styles.Bullet.String() + " " + name)
		}
		fmt.Printf("\n%d plugin(s) conflict with %s\n", len(conflicts), args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(conflictsCmd)
}
