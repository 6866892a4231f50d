package cmd

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/bnema/lootctl/internal/game"
	"github.com/bnema/lootctl/internal/ui/progress"
)

var updateMasterlistCmd = &cobra.Command{
	Use:     "update-masterlist",
	Aliases: []string{"update"},
	Short:   "Update the masterlist of the active game",
	Long: `Fetches the masterlist repository configured for the active game and
fast-forwards the local copy. A locally edited masterlist is not touched.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession()
		if err != nil {
			return err
		}
		defer saveSession(s)

		state, err := s.ActiveGame()
		if err != nil {
			return err
		}
		return updateMasterlist(state.Game)
	},
}

// updateMasterlist runs the update with a progress display on terminals
// and plain step lines otherwise
func updateMasterlist(g game.Game) error {
	log := getLogger().With("game", g.Folder, "repo", g.MasterlistRepo)
	title := "Updating " + g.Name + " masterlist"

	if !isatty.IsTerminal(os.Stdout.Fd()) {
		progress.PrintStep(os.Stdout, progress.StateInProgress, title)
		changed, err := game.UpdateMasterlist(g.MasterlistRepo, g.LocalPath, nil)
		if err != nil {
			progress.PrintStep(os.Stdout, progress.StateError, err.Error())
			return err
		}
		printUpdateResult(g, changed)
		return nil
	}

	model := progress.NewModel(title, "Fetching masterlist", "Reading revision")
	p := tea.NewProgram(model)

	var changed bool
	go func() {
		p.Send(progress.StartStepMsg{})
		c, err := game.UpdateMasterlist(g.MasterlistRepo, g.LocalPath, progress.NewGitWriter(p))
		if err != nil {
			log.Error("Masterlist update failed", "error", err)
			p.Send(progress.FailStepMsg{Err: err})
			return
		}
		changed = c
		p.Send(progress.CompleteStepMsg{})
		p.Send(progress.StartStepMsg{})
		p.Send(progress.CompleteStepMsg{})
	}()

	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("error running progress display: %w", err)
	}
	if err := final.(progress.Model).Err(); err != nil {
		return err
	}
	printUpdateResult(g, changed)
	return nil
}

func printUpdateResult(g game.Game, changed bool) {
	prov := game.ReadProvenance(g.LocalPath)
	if changed {
		progress.PrintStep(os.Stdout, progress.StateComplete, fmt.Sprintf("Masterlist updated to %s (%s)", prov.Revision, prov.Date))
		return
	}
	progress.PrintStep(os.Stdout, progress.StateComplete, fmt.Sprintf("Masterlist already up to date at %s", prov.Revision))
}

func init() {
	rootCmd.AddCommand(updateMasterlistCmd)
}
