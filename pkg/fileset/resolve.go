package fileset

import (
	"strings"

	"github.com/arthur-debert/assetpack/pkg/errors"
	"github.com/arthur-debert/assetpack/pkg/logging"
	"github.com/arthur-debert/assetpack/pkg/paths"
	"github.com/rs/zerolog"
)

// AggregatorMarker may prefix a member token naming an aggregator
const AggregatorMarker = "/"

// Contributor is the part of an aggregator the resolver needs
type Contributor interface {
	Name() string
	Fileset() []string
}

// Filesets is the resolved, immutable name -> members mapping
type Filesets struct {
	order       []string
	members     map[string][]string
	literals    []string
	contributed []string
}

type resolver struct {
	graph        *Graph
	aggregators  map[string]Contributor
	contribution map[string][]string
	resolved     map[string][]string
	visiting     map[string]bool
	logger       zerolog.Logger
}

// Resolve expands aggregator tokens and extension chains. The result for a
// fileset is the resolution of each parent, furthest first, followed by
// its own members. Each aggregator's Fileset is asked for at most once.
func Resolve(g *Graph, aggregators []Contributor) (*Filesets, error) {
	r := &resolver{
		graph:        g,
		aggregators:  make(map[string]Contributor, len(aggregators)),
		contribution: make(map[string][]string, len(aggregators)),
		resolved:     make(map[string][]string, len(g.order)),
		visiting:     make(map[string]bool),
		logger:       logging.GetLogger("fileset"),
	}
	for _, a := range aggregators {
		r.aggregators[a.Name()] = a
	}

	fs := &Filesets{
		order:   g.Names(),
		members: make(map[string][]string, len(g.order)),
	}

	seenLiteral := make(map[string]bool)
	for _, name := range g.order {
		for _, token := range g.entries[name].Members {
			if _, ok := r.aggregatorFor(token); ok {
				continue
			}
			literal := paths.Normalize(token)
			if !seenLiteral[literal] {
				seenLiteral[literal] = true
				fs.literals = append(fs.literals, literal)
			}
		}
	}

	for _, name := range g.order {
		members, err := r.resolve(name, nil)
		if err != nil {
			return nil, err
		}
		fs.members[name] = members
	}

	for _, a := range aggregators {
		fs.contributed = append(fs.contributed, r.contributionOf(a)...)
	}
	return fs, nil
}

// aggregatorFor returns the aggregator a member token refers to
func (r *resolver) aggregatorFor(token string) (Contributor, bool) {
	name := strings.TrimPrefix(token, AggregatorMarker)
	a, ok := r.aggregators[name]
	return a, ok
}

func (r *resolver) contributionOf(a Contributor) []string {
	if files, ok := r.contribution[a.Name()]; ok {
		return files
	}
	files := make([]string, 0)
	for _, f := range a.Fileset() {
		files = append(files, paths.Normalize(f))
	}
	r.contribution[a.Name()] = files
	r.logger.Debug().
		Str("aggregator", a.Name()).
		Strs("files", files).
		Msg("aggregator contributes files")
	return files
}

// own expands the fileset's own member tokens
func (r *resolver) own(e Entry) []string {
	out := make([]string, 0, len(e.Members))
	for _, token := range e.Members {
		if a, ok := r.aggregatorFor(token); ok {
			out = append(out, r.contributionOf(a)...)
			continue
		}
		out = append(out, paths.Normalize(token))
	}
	return out
}

func (r *resolver) resolve(name string, chain []string) ([]string, error) {
	if members, ok := r.resolved[name]; ok {
		return members, nil
	}

	entry, ok := r.graph.entries[name]
	if !ok {
		from := ""
		if len(chain) > 0 {
			from = chain[len(chain)-1]
		}
		return nil, errors.Newf(errors.ErrFilesetMissing, "fileset %q extends undeclared fileset %q", from, name).
			WithDetail("fileset", from).
			WithDetail("missing", name)
	}

	chain = append(chain, name)
	if r.visiting[name] {
		return nil, errors.Newf(errors.ErrFilesetCycle, "cyclic fileset extension: %s", strings.Join(chain, " < ")).
			WithDetail("fileset", chain[0])
	}
	r.visiting[name] = true
	defer delete(r.visiting, name)

	var members []string
	for i := len(entry.Parents) - 1; i >= 0; i-- {
		inherited, err := r.resolve(entry.Parents[i], chain)
		if err != nil {
			return nil, err
		}
		members = append(members, inherited...)
	}
	members = append(members, r.own(entry)...)
	if members == nil {
		members = []string{}
	}

	r.resolved[name] = members
	r.logger.Trace().
		Str("fileset", name).
		Strs("parents", entry.Parents).
		Int("members", len(members)).
		Msg("resolved fileset")
	return members, nil
}

// Names returns fileset names in resolution order
func (f *Filesets) Names() []string {
	return append([]string(nil), f.order...)
}

// Has reports whether name is a fileset
func (f *Filesets) Has(name string) bool {
	_, ok := f.members[name]
	return ok
}

// Get returns the resolved members of name, or an empty list
func (f *Filesets) Get(name string) []string {
	return append([]string{}, f.members[name]...)
}

// Literals returns every member written literally in configuration,
// deduplicated, in first-seen order
func (f *Filesets) Literals() []string {
	return append([]string(nil), f.literals...)
}

// Contributed returns every file generated by aggregators
func (f *Filesets) Contributed() []string {
	return append([]string(nil), f.contributed...)
}
