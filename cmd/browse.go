package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	pluginsui "github.com/bnema/lootctl/internal/ui/plugins"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse resolved plugin metadata interactively",
	Long: `Opens an interactive list of the installed plugins with their resolved
metadata. From the list you can inspect a plugin, find its conflicts, copy
its metadata, clear user metadata and switch games.

The masterlist is updated first when updateMasterlist is enabled in the
settings and the game has a masterlist repository.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		router, s, err := newRouter()
		if err != nil {
			return err
		}
		defer saveSession(s)

		state, err := s.ActiveGame()
		if err != nil {
			return err
		}
		if s.Settings.UpdateMasterlist && state.Game.MasterlistRepo != "" {
			if err := updateMasterlist(state.Game); err != nil {
				getLogger().Warn("Masterlist update failed", "error", err)
			}
		}

		p := tea.NewProgram(pluginsui.NewModel(router), tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("error running TUI: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(browseCmd)
}
