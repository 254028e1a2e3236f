// Package types contains shared types used across the application.
package types

// Mode represents the current interaction mode of the list view.
type Mode int

const (
	ModeNormal Mode = iota
	ModeSelect
	ModeSearch
	ModeEdit
)

// String returns the string representation of the mode
func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "NORMAL"
	case ModeSelect:
		return "SELECT"
	case ModeSearch:
		return "SEARCH"
	case ModeEdit:
		return "EDIT"
	default:
		return "UNKNOWN"
	}
}
