// Package taxonomy maps workflow alerts onto the phase / section / line item
// structure of a project and the role responsible for each step.
package taxonomy

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

type Role string

const (
	RoleOffice         Role = "Office"
	RoleAdministration Role = "Administration"
	RoleProjectManager Role = "ProjectManager"
	RoleFieldCrew      Role = "FieldCrew"
	RoleRoofSupervisor Role = "RoofSupervisor"
	RoleFieldDirector  Role = "FieldDirector"
	RoleUnknown        Role = "Unknown"
)

// UnknownSection is reported for steps whose phase is not in the table.
const UnknownSection = "Unknown Section"

var knownRoles = map[Role]bool{
	RoleOffice:         true,
	RoleAdministration: true,
	RoleProjectManager: true,
	RoleFieldCrew:      true,
	RoleRoofSupervisor: true,
	RoleFieldDirector:  true,
}

// IsKnownRole reports whether r is one of the assignable responsibility roles.
func IsKnownRole(r Role) bool {
	return knownRoles[r]
}

//go:embed taxonomy.yaml
var defaultDocument []byte

// Document is the on-disk and over-the-wire form of the table.
type Document struct {
	PhaseCodes map[string]string `yaml:"phaseCodes" json:"phaseCodes"`
	Phases     []Phase           `yaml:"phases" json:"phases"`
}

type Phase struct {
	Name  string  `yaml:"name" json:"name"`
	Steps []Entry `yaml:"steps" json:"steps"`
}

type Entry struct {
	StepName        string `yaml:"stepName" json:"stepName"`
	Section         string `yaml:"section" json:"section"`
	LineItem        string `yaml:"lineItem" json:"lineItem"`
	ResponsibleRole Role   `yaml:"responsibleRole" json:"responsibleRole"`
}

// Resolution is what an alert's step maps to.
type Resolution struct {
	Section         string `json:"section"`
	LineItem        string `json:"lineItem"`
	ResponsibleRole Role   `json:"responsibleRole"`
}

// Resolver is satisfied by *Taxonomy and *Store.
type Resolver interface {
	Resolve(stepName, phase string) Resolution
}

// Taxonomy is an immutable, validated lookup table.
type Taxonomy struct {
	doc    Document
	phases map[string][]Entry
}

// Parse decodes and validates a YAML document.
func Parse(data []byte) (*Taxonomy, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse taxonomy: %w", err)
	}
	return New(doc)
}

// New validates doc and builds the lookup table.
func New(doc Document) (*Taxonomy, error) {
	if len(doc.Phases) == 0 {
		return nil, errors.New("taxonomy has no phases")
	}

	phases := make(map[string][]Entry, len(doc.Phases))
	for i, p := range doc.Phases {
		if strings.TrimSpace(p.Name) == "" {
			return nil, fmt.Errorf("phase %d has no name", i)
		}
		if _, dup := phases[p.Name]; dup {
			return nil, fmt.Errorf("phase %q defined twice", p.Name)
		}
		for j, e := range p.Steps {
			if strings.TrimSpace(e.StepName) == "" {
				return nil, fmt.Errorf("phase %q step %d has no stepName", p.Name, j)
			}
			if !IsKnownRole(e.ResponsibleRole) {
				return nil, fmt.Errorf("phase %q step %q has unknown role %q", p.Name, e.StepName, e.ResponsibleRole)
			}
		}
		phases[p.Name] = append([]Entry(nil), p.Steps...)
	}

	for code, name := range doc.PhaseCodes {
		if _, ok := phases[name]; !ok {
			return nil, fmt.Errorf("phase code %q points at undefined phase %q", code, name)
		}
	}

	return &Taxonomy{doc: doc, phases: phases}, nil
}

// Default returns the built-in table.
func Default() *Taxonomy {
	t, err := Parse(defaultDocument)
	if err != nil {
		panic(fmt.Sprintf("embedded taxonomy is invalid: %v", err))
	}
	return t
}

// Document returns the table as loaded.
func (t *Taxonomy) Document() Document {
	return t.doc
}

// PhaseName maps a phase code (LEAD, SUPPLEMENT, ...) to its display name.
// Unmapped values pass through unchanged.
func (t *Taxonomy) PhaseName(phase string) string {
	if name, ok := t.doc.PhaseCodes[phase]; ok {
		return name
	}
	return phase
}

// Steps returns the entries of a phase, by code or display name.
func (t *Taxonomy) Steps(phase string) []Entry {
	return t.phases[t.PhaseName(phase)]
}

// Resolve looks up stepName within phase: exact case-insensitive match first,
// then the first fuzzy match, then the raw step name with an unknown role.
func (t *Taxonomy) Resolve(stepName, phase string) Resolution {
	steps, ok := t.phases[t.PhaseName(phase)]
	if !ok {
		return Resolution{Section: UnknownSection, LineItem: stepName, ResponsibleRole: RoleUnknown}
	}

	for _, e := range steps {
		if strings.EqualFold(e.StepName, stepName) {
			return e.resolution()
		}
	}

	for _, e := range steps {
		if FuzzyMatch(stepName, e.StepName) {
			return e.resolution()
		}
	}

	return Resolution{Section: stepName, LineItem: stepName, ResponsibleRole: RoleUnknown}
}

func (e Entry) resolution() Resolution {
	return Resolution{Section: e.Section, LineItem: e.LineItem, ResponsibleRole: e.ResponsibleRole}
}

// FuzzyMatch reports whether two step names share at least two significant
// words (longer than two characters) or one contains the other, ignoring case.
// Empty names never match.
func FuzzyMatch(a, b string) bool {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == "" || b == "" {
		return false
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return true
	}

	candidate := make(map[string]bool)
	for _, w := range significantWords(b) {
		candidate[w] = true
	}
	overlap := 0
	for _, w := range significantWords(a) {
		if candidate[w] {
			overlap++
			delete(candidate, w)
		}
	}
	return overlap >= 2
}

func significantWords(s string) []string {
	fields := strings.Fields(s)
	words := fields[:0]
	for _, w := range fields {
		if utf8.RuneCountInString(w) > 2 {
			words = append(words, w)
		}
	}
	return words
}
