package progress

import (
	"fmt"
	"io"

	"github.com/bnema/lootctl/internal/ui/styles"
)

// FormatStep returns a step line for non-interactive output
func FormatStep(state State, message string) string {
	return fmt.Sprintf("  %s %s", StyledIcon(state), StepStyle(state).Render(message))
}

// FormatWarning returns a warning line
func FormatWarning(message string) string {
	icon := iconStyles[StateInProgress].Foreground(styles.Warning).Render(GetIcons().Warning)
	return fmt.Sprintf("  %s %s", icon, styles.WarningText.Render(message))
}

// PrintStep writes a step line to w
func PrintStep(w io.Writer, state State, message string) {
	fmt.Fprintln(w, FormatStep(state, message))
}
