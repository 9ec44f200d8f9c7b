package alertdesk

import (
	"go-pm/pkg/pmclient"
)

// ExpandSet tracks which alert cards are expanded. It is keyed by alert id so
// it survives filtering and sorting.
type ExpandSet struct {
	ids map[string]bool
}

func NewExpandSet() *ExpandSet {
	return &ExpandSet{ids: make(map[string]bool)}
}

func (e *ExpandSet) Toggle(id string) bool {
	e.ids[id] = !e.ids[id]
	if !e.ids[id] {
		delete(e.ids, id)
	}
	return e.ids[id]
}

func (e *ExpandSet) Collapse(id string) {
	delete(e.ids, id)
}

func (e *ExpandSet) Expanded(id string) bool {
	return e.ids[id]
}

// Reset collapses everything and then re-expands the given ids.
func (e *ExpandSet) Reset(keep ...string) {
	clear(e.ids)
	for _, id := range keep {
		e.ids[id] = true
	}
}

func (e *ExpandSet) Len() int {
	return len(e.ids)
}

type PhaseNamer interface {
	PhaseName(phase string) string
}

type PhaseGroup struct {
	Phase  string
	Alerts []pmclient.Alert
}

// GroupByPhase groups alerts under their phase display name, keeping the
// order in which phases first appear.
func GroupByPhase(alerts []pmclient.Alert, names PhaseNamer) []PhaseGroup {
	var groups []PhaseGroup
	index := make(map[string]int)
	for _, a := range alerts {
		name := a.Phase
		if names != nil {
			name = names.PhaseName(a.Phase)
		}
		i, ok := index[name]
		if !ok {
			i = len(groups)
			index[name] = i
			groups = append(groups, PhaseGroup{Phase: name})
		}
		groups[i].Alerts = append(groups[i].Alerts, a)
	}
	return groups
}
