package collections

import "github.com/desertthunder/skipify/internal/models"

// Resolved is a membership id paired with the best label available for it.
type Resolved struct {
	ID     string
	Label  string
	Source models.Source // empty when the id matched nothing
}

// Found reports whether the id resolved to a known entity.
func (r Resolved) Found() bool { return r.Source != "" }

// MergedView resolves each mark against the local sequence first, then the remote one. Unknown ids keep
// the bare id as their label.
func MergedView[T models.Entity](marks []string, local, remote []T) []Resolved {
	out := make([]Resolved, 0, len(marks))
	for _, id := range marks {
		r := Resolved{ID: id, Label: id}
		if item, ok := find(local, id); ok {
			r.Label, r.Source = item.DisplayLabel(), models.SourceLocal
		} else if item, ok := find(remote, id); ok {
			r.Label, r.Source = item.DisplayLabel(), models.SourceRemote
		}
		out = append(out, r)
	}
	return out
}
