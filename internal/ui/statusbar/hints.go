package statusbar

import "github.com/taskwire/taskwire/internal/types"

// GetHints returns the keybinding hints for the given mode
func GetHints(mode types.Mode) string {
	switch mode {
	case types.ModeNormal:
		return "j/k: tasks  enter: open  n: new  s: sort  f: filter  q: quit"
	case types.ModeSelect:
		return "Space: toggle  a: all  n: none  Esc: cancel"
	case types.ModeSearch:
		return "Type to search  Enter: confirm  Esc: cancel"
	case types.ModeEdit:
		return "Enter/Tab: commit  Esc: stop editing"
	default:
		return ""
	}
}
