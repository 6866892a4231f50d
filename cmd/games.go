package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/bnema/lootctl/internal/session"
	"github.com/bnema/lootctl/internal/ui/styles"
)

var gamesCmd = &cobra.Command{
	Use:   "games",
	Short: "List configured games",
	Long:  `Lists the games configured in the settings file and whether they are installed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := session.New(settings, session.Options{SettingsPath: settingsPath, Logger: getLogger()})
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			styles.Title.Render("FOLDER"),
			styles.Title.Render("NAME"),
			styles.Title.Render("STATUS"),
			styles.Title.Render("PATH"),
		)
		for _, g := range s.Games() {
			status := styles.MutedText.Render("not installed")
			if g.IsInstalled() {
				status = styles.SuccessText.Render("installed")
			}
			if g.Folder == settings.LastGame {
				status += " " + styles.Selected.Render("(last)")
			}
			path := g.Path
			if path == "" {
				path = "-"
			}
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", g.Folder, g.Name, status, path)
		}
		_ = w.Flush()

		fmt.Printf("\n%d of %d game(s) installed\n", len(s.InstalledGames()), len(s.Games()))
		fmt.Printf("Settings: %s\n", settingsPath)
		return nil
	},
}

var languagesCmd = &cobra.Command{
	Use:   "languages",
	Short: "List message languages",
	Run: func(cmd *cobra.Command, args []string) {
		current := session.MatchLanguage(settings.Language)
		for _, l := range session.Languages() {
			line := fmt.Sprintf("%-6s %s", l.Locale, l.Name)
			if l.Locale == current {
				line = styles.Selected.Render(line + " *")
			}
			fmt.Println(line)
		}
	},
}

func init() {
	rootCmd.AddCommand(gamesCmd)
	rootCmd.AddCommand(languagesCmd)
}
