package alertdesk

import (
	"slices"
	"strings"
	"time"

	"go-pm/internal/features/taxonomy"
	"go-pm/pkg/pmclient"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type SortKey string

const (
	SortNone     SortKey = ""
	SortProject  SortKey = "project"
	SortSubject  SortKey = "subject"
	SortDate     SortKey = "date"
	SortPriority SortKey = "priority"
)

type Direction int

const (
	Ascending Direction = iota
	Descending
)

func (d Direction) String() string {
	if d == Descending {
		return "desc"
	}
	return "asc"
}

// SortState is the active sort column and direction.
type SortState struct {
	Key SortKey
	Dir Direction
}

// Toggle flips the direction when key is already active and otherwise
// switches to key ascending.
func (s SortState) Toggle(key SortKey) SortState {
	if s.Key == key {
		if s.Dir == Ascending {
			return SortState{Key: key, Dir: Descending}
		}
		return SortState{Key: key, Dir: Ascending}
	}
	return SortState{Key: key, Dir: Ascending}
}

// RoleMine selects alerts whose responsible role is the viewer's.
const RoleMine = "mine"

// Query holds the client-side filters. All set filters must match.
type Query struct {
	// Project matches the alert's project id or display name.
	Project string
	// Role is a responsibility role, RoleMine, or "all"/empty for no filter.
	Role    string
	Subject string
	Viewer  taxonomy.Role
	Sort    SortState
}

// Presenter filters and orders alerts for display. It does not modify its
// input.
type Presenter struct {
	tax taxonomy.Resolver
	tag language.Tag
}

func NewPresenter(tax taxonomy.Resolver, tag language.Tag) *Presenter {
	return &Presenter{tax: tax, tag: tag}
}

// ResponsibleRole resolves the role owning an alert's step.
func (p *Presenter) ResponsibleRole(a pmclient.Alert) taxonomy.Role {
	if p.tax == nil {
		if a.ResponsibleRole == "" {
			return taxonomy.RoleUnknown
		}
		return taxonomy.Role(a.ResponsibleRole)
	}
	return p.tax.Resolve(a.StepName, a.Phase).ResponsibleRole
}

// PhaseName maps a phase code to its display name when the taxonomy knows it.
func (p *Presenter) PhaseName(phase string) string {
	if names, ok := p.tax.(PhaseNamer); ok {
		return names.PhaseName(phase)
	}
	return phase
}

func (p *Presenter) Present(alerts []pmclient.Alert, q Query) []pmclient.Alert {
	out := make([]pmclient.Alert, 0, len(alerts))
	for _, a := range alerts {
		if p.matches(a, q) {
			out = append(out, a)
		}
	}
	p.sort(out, q.Sort)
	return out
}

func (p *Presenter) matches(a pmclient.Alert, q Query) bool {
	if q.Project != "" && a.ProjectID != q.Project && !strings.EqualFold(a.ProjectName(), q.Project) {
		return false
	}

	switch role := strings.TrimSpace(q.Role); {
	case role == "" || strings.EqualFold(role, "all"):
	case strings.EqualFold(role, RoleMine):
		if p.ResponsibleRole(a) != q.Viewer {
			return false
		}
	default:
		if !strings.EqualFold(string(p.ResponsibleRole(a)), role) {
			return false
		}
	}

	if q.Subject != "" {
		subject := strings.ToLower(q.Subject)
		if !strings.Contains(strings.ToLower(a.StepName), subject) &&
			!strings.Contains(strings.ToLower(a.Message), subject) {
			return false
		}
	}
	return true
}

func (p *Presenter) sort(alerts []pmclient.Alert, s SortState) {
	var cmp func(a, b pmclient.Alert) int
	switch s.Key {
	case SortProject:
		// Collators are not safe for concurrent use.
		col := collate.New(p.tag, collate.IgnoreCase)
		cmp = func(a, b pmclient.Alert) int {
			return col.CompareString(a.ProjectName(), b.ProjectName())
		}
	case SortSubject:
		cmp = func(a, b pmclient.Alert) int {
			return strings.Compare(a.StepName, b.StepName)
		}
	case SortDate:
		cmp = func(a, b pmclient.Alert) int {
			return a.CreatedAt.Compare(b.CreatedAt)
		}
	case SortPriority:
		cmp = func(a, b pmclient.Alert) int {
			return priorityRank(a.Priority) - priorityRank(b.Priority)
		}
	default:
		return
	}

	if s.Dir == Descending {
		asc := cmp
		cmp = func(a, b pmclient.Alert) int { return asc(b, a) }
	}
	slices.SortStableFunc(alerts, cmp)
}

// priorityRank orders high before medium before low; unknown values last.
func priorityRank(p pmclient.Priority) int {
	switch p {
	case pmclient.PriorityHigh:
		return 0
	case pmclient.PriorityMedium:
		return 1
	case pmclient.PriorityLow:
		return 2
	default:
		return 3
	}
}

// Age is how long ago the alert was raised, for relative timestamps.
func Age(a pmclient.Alert, now time.Time) time.Duration {
	if a.CreatedAt.IsZero() {
		return 0
	}
	return now.Sub(a.CreatedAt)
}
