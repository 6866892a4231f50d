package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/bnema/lootctl/internal/query"
	"github.com/bnema/lootctl/internal/resolver"
	"github.com/bnema/lootctl/internal/ui/styles"
)

var dataJSON bool

var dataCmd = &cobra.Command{
	Use:     "data",
	Aliases: []string{"game-data"},
	Short:   "Show the resolved metadata of every installed plugin",
	Long: `Resolves the masterlist and userlist against the installed plugins of
the active game and prints the result in load order.

Examples:
  lootctl data                  # Table of plugins and global messages
  lootctl data --json           # Full game data payload
  lootctl --game Skyrim data    # Use a specific game`,
	RunE: func(cmd *cobra.Command, args []string) error {
		router, s, err := newRouter()
		if err != nil {
			return err
		}
		defer saveSession(s)

		p, err := router.Handle("getGameData")
		if err != nil {
			return err
		}
		data := resolver.GameData(p.(query.GameData))

		if dataJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(data)
		}
		printGameData(data)
		return nil
	},
}

func printGameData(data resolver.GameData) {
	fmt.Printf("%s %s\n", styles.Title.Render(data.Folder),
		styles.MutedText.Render("masterlist "+data.Masterlist.Revision+" "+data.Masterlist.Date))

	if len(data.GlobalMessages) > 0 {
		fmt.Println()
		for _, m := range data.GlobalMessages {
			fmt.Println(styles.FormatMessage(m.Type, messageText(m)))
		}
	}
	fmt.Println()

	if len(data.Plugins) == 0 {
		fmt.Println("No plugins installed")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
		styles.Title.Render("NAME"),
		styles.Title.Render("PRIORITY"),
		styles.Title.Render("STATUS"),
		styles.Title.Render("CRC"),
		styles.Title.Render("TAGS"),
	)
	for _, p := range data.Plugins {
		name := p.Name
		if p.IsDirty {
			name += " " + styles.FormatDirtyBadge()
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			name,
			styles.FormatPriority(p.ModPriority, p.IsGlobalPriority),
			styles.FormatActive(p.IsActive),
			p.CRC,
			styles.FormatTags(tagNames(p.Tags)),
		)
	}
	_ = w.Flush()

	for _, p := range data.Plugins {
		if len(p.Messages) == 0 {
			continue
		}
		fmt.Printf("\n%s\n", styles.PluginName.Render(p.Name))
		for _, m := range p.Messages {
			fmt.Println("  " + styles.FormatMessage(m.Type, messageText(m)))
		}
	}

	fmt.Printf("\n%d plugin(s) installed\n", len(data.Plugins))
}

func messageText(m resolver.MessageData) string {
	if len(m.Content) == 0 {
		return ""
	}
	return m.Content[0].Text
}

func tagNames(tags []resolver.TagData) []string {
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = t.Name
		if !t.IsAddition {
			out[i] = "-" + t.Name
		}
	}
	return out
}

func init() {
	dataCmd.Flags().BoolVar(&dataJSON, "json", false, "Print the game data as JSON")
	rootCmd.AddCommand(dataCmd)
}
