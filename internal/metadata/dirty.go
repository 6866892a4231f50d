package metadata

import "fmt"

// Message renders the cleaning advice for d as a warning.
func (d DirtyInfo) Message() Message {
	return Message{
		Level:   LevelWarn,
		Content: []Content{{Text: d.text(), Language: DefaultLanguage}},
	}
}

func (d DirtyInfo) text() string {
	clean := fmt.Sprintf("Clean with %s.", d.Utility)
	itm := fmt.Sprintf("%d ITM records", d.ITMs)
	udr := fmt.Sprintf("%d UDR records", d.UDRs)
	nav := fmt.Sprintf("%d deleted navmeshes", d.Navmeshes)

	switch {
	case d.ITMs > 0 && d.UDRs > 0 && d.Navmeshes > 0:
		return fmt.Sprintf("Contains %s, %s and %s. %s", itm, udr, nav, clean)
	case d.ITMs > 0 && d.UDRs > 0:
		return fmt.Sprintf("Contains %s and %s. %s", itm, udr, clean)
	case d.ITMs > 0 && d.Navmeshes > 0:
		return fmt.Sprintf("Contains %s and %s. %s", itm, nav, clean)
	case d.UDRs > 0 && d.Navmeshes > 0:
		return fmt.Sprintf("Contains %s and %s. %s", udr, nav, clean)
	case d.ITMs > 0:
		return fmt.Sprintf("Contains %s. %s", itm, clean)
	case d.UDRs > 0:
		return fmt.Sprintf("Contains %s. %s", udr, clean)
	case d.Navmeshes > 0:
		return fmt.Sprintf("Contains %s. %s", nav, clean)
	}
	return clean
}
