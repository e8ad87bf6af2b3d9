package catalog

import (
	"sort"

	"github.com/goliatone/go-careforms/pkg/model"
)

// Names of the section sets bundled with the module.
const (
	SetReentry  = "reentry"
	SetAdult    = "adult"
	SetJuvenile = "juvenile"
	SetGeneric  = "generic"
)

// Catalog keeps the parsed section sets. It is safe for concurrent readers
// when treated as immutable after construction.
type Catalog struct {
	sets map[string]Set
}

// Set is one static section table plus the candidate pool offered with it.
type Set struct {
	Name       string
	Title      string
	Source     string
	Sections   []model.Section
	Candidates []model.Candidate
}

// Set returns the named section set.
func (c *Catalog) Set(name string) (Set, bool) {
	if c == nil {
		return Set{}, false
	}
	set, ok := c.sets[name]
	if !ok {
		return Set{}, false
	}
	return cloneSet(set), true
}

// Names lists the set names in sorted order.
func (c *Catalog) Names() []string {
	if c == nil {
		return nil
	}
	names := make([]string, 0, len(c.sets))
	for name := range c.sets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Empty reports whether the catalog holds any sets.
func (c *Catalog) Empty() bool {
	return c == nil || len(c.sets) == 0
}

func cloneSet(set Set) Set {
	out := set
	out.Sections = make([]model.Section, len(set.Sections))
	for i, section := range set.Sections {
		out.Sections[i] = model.Section{
			Title:  section.Title,
			Fields: append([]string(nil), section.Fields...),
		}
	}
	out.Candidates = append([]model.Candidate(nil), set.Candidates...)
	return out
}
