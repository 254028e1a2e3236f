package domain

// Canonical status values. A project's configured statuses are free-form
// names, but each one maps onto exactly one canonical value; sorting and
// completion semantics key off the canonical value, never the display name.
const (
	CanonicalTodo   = "todo"
	CanonicalActive = "active"
	CanonicalReview = "review"
	CanonicalDone   = "done"
)

// Status is one entry of a project's configured status list.
type Status struct {
	Name      string `json:"name"`
	Color     string `json:"color"`
	Canonical string `json:"canonical"`
}

// Done reports whether the status maps to the canonical completed value.
func (s Status) Done() bool {
	return s.Canonical == CanonicalDone
}

// Rank returns the fixed canonical sort rank. Status sorts are by workflow
// position, not alphabetical.
func (s Status) Rank() int {
	switch s.Canonical {
	case CanonicalTodo:
		return 0
	case CanonicalActive:
		return 1
	case CanonicalReview:
		return 2
	case CanonicalDone:
		return 3
	default:
		return 4
	}
}

// DefaultStatuses returns the documented default status set used when a
// project carries no configured list of its own.
func DefaultStatuses() []Status {
	return []Status{
		{Name: "To Do", Color: "blue", Canonical: CanonicalTodo},
		{Name: "In Progress", Color: "yellow", Canonical: CanonicalActive},
		{Name: "Review", Color: "mauve", Canonical: CanonicalReview},
		{Name: "Done", Color: "green", Canonical: CanonicalDone},
	}
}

// ResolveStatus maps a status onto the given catalog by name. A status whose
// name is not in the catalog resolves to the catalog entry with the same
// canonical value, falling back to the first catalog entry. The displayed
// status therefore always resolves to a configured status.
func ResolveStatus(s Status, catalog []Status) Status {
	if len(catalog) == 0 {
		catalog = DefaultStatuses()
	}
	for _, c := range catalog {
		if c.Name == s.Name {
			return c
		}
	}
	for _, c := range catalog {
		if c.Canonical == s.Canonical {
			return c
		}
	}
	return catalog[0]
}
