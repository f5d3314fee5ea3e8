// Package fileset resolves named filesets: ordered lists of asset paths
// that may extend other filesets ("home<base") and may reference
// aggregators whose generated files are spliced in place.
package fileset

import (
	"sort"
	"strings"

	"github.com/arthur-debert/assetpack/pkg/config"
	"github.com/arthur-debert/assetpack/pkg/errors"
)

// ExtendOperator separates a fileset name from the filesets it extends
const ExtendOperator = "<"

// Entry is one configured fileset before resolution
type Entry struct {
	// Name is the fileset name
	Name string
	// Parents are the extended filesets, nearest first as written
	Parents []string
	// Members are the raw member tokens in declared order
	Members []string
}

// ParseKey splits a configuration key such as `home < "base"` into the
// fileset name and its parents.
func ParseKey(key string) (string, []string) {
	segments := strings.Split(key, ExtendOperator)
	for i := range segments {
		segments[i] = unquote(strings.TrimSpace(segments[i]))
	}
	parents := make([]string, 0, len(segments)-1)
	for _, s := range segments[1:] {
		if s != "" {
			parents = append(parents, s)
		}
	}
	return segments[0], parents
}

func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}

// Graph is the set of configured filesets, in a deterministic order
type Graph struct {
	order   []string
	entries map[string]Entry
}

// NewGraph indexes entries; names must be unique and non-empty
func NewGraph(entries ...Entry) (*Graph, error) {
	g := &Graph{entries: make(map[string]Entry, len(entries))}
	for _, e := range entries {
		if e.Name == "" {
			return nil, errors.New(errors.ErrConfigInvalid, "fileset name cannot be empty")
		}
		if _, exists := g.entries[e.Name]; exists {
			return nil, errors.Newf(errors.ErrConfigInvalid, "fileset %q is declared more than once", e.Name).
				WithDetail("fileset", e.Name)
		}
		g.entries[e.Name] = Entry{
			Name:    e.Name,
			Parents: append([]string(nil), e.Parents...),
			Members: append([]string(nil), e.Members...),
		}
		g.order = append(g.order, e.Name)
	}
	return g, nil
}

// FromConfig reads the assets.fileset block; each value is a member list or
// a single member. The config tree does not keep declaration order, so
// filesets are ordered by name.
func FromConfig(conf *config.Config) (*Graph, error) {
	var entries []Entry
	for _, key := range conf.Keys(config.FilesetKey) {
		members, err := conf.Get(config.FilesetKey + config.Delim + key).AsStrings()
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigInvalid, "bad members for fileset %q", key)
		}
		name, parents := ParseKey(key)
		entries = append(entries, Entry{Name: name, Parents: parents, Members: members})
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return NewGraph(entries...)
}

// Names returns fileset names in graph order
func (g *Graph) Names() []string {
	return append([]string(nil), g.order...)
}

// Entry returns the configured entry for name
func (g *Graph) Entry(name string) (Entry, bool) {
	e, ok := g.entries[name]
	return e, ok
}
