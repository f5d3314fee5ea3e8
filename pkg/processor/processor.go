package processor

import (
	"github.com/arthur-debert/assetpack/pkg/config"
	"github.com/arthur-debert/assetpack/pkg/fingerprint"
	"github.com/arthur-debert/assetpack/pkg/paths"
	"github.com/arthur-debert/assetpack/pkg/route"
	"github.com/arthur-debert/assetpack/pkg/types"
	"github.com/spf13/afero"
)

// ExcludeMethod is the method exclude patterns are evaluated for
const ExcludeMethod = "GET"

// Processor transforms the content of one file. Implementations must not
// keep per-file state: the same instance processes every file of a build.
type Processor interface {
	// Name is the configured name, used in logs and AssetError IDs
	Name() string

	// Options returns the snapshot the processor was built with
	Options() Options

	// Matches reports whether the processor handles this media type
	Matches(media types.MediaType) bool

	// Excludes reports whether path is covered by the excludes option
	Excludes(path string) bool

	// Process returns the transformed content of filename
	Process(filename, source string, conf *config.Config) (string, error)
}

// Runtime is what an Aggregator may touch while running
type Runtime struct {
	Config  *config.Config
	FS      afero.Fs
	Basedir string
	Charset fingerprint.Charset
}

// Path resolves an asset path against the base directory
func (rt Runtime) Path(asset string) string {
	return paths.Join(rt.Basedir, asset)
}

// Aggregator generates files once per build and contributes them to the
// filesets that reference it.
type Aggregator interface {
	// Name is the configured name; filesets reference it as a member token
	Name() string

	// Options returns the snapshot the aggregator was built with
	Options() Options

	// Fileset lists the asset paths the aggregator produces. It depends
	// only on options so filesets can be resolved before Run.
	Fileset() []string

	// Run generates the files listed by Fileset
	Run(rt Runtime) error
}

// Base carries what every plugin shares: its name, options and compiled
// exclude patterns. Plugins embed it.
type Base struct {
	name     string
	options  Options
	excludes route.Set
}

// NewBase validates the excludes option and builds a Base
func NewBase(name string, options Options) (Base, error) {
	patterns, err := options.Strings(ExcludesKey)
	if err != nil {
		return Base{}, err
	}
	excludes, err := route.CompileAll(ExcludeMethod, patterns)
	if err != nil {
		return Base{}, err
	}
	return Base{name: name, options: options, excludes: excludes}, nil
}

// Name returns the plugin name
func (b Base) Name() string { return b.name }

// Options returns the option snapshot
func (b Base) Options() Options { return b.options }

// Get returns an option, or config.Null when absent
func (b Base) Get(key string) config.Value { return b.options.Get(key) }

// Excludes reports whether path matches one of the exclude patterns
func (b Base) Excludes(path string) bool {
	return b.excludes.Matches(ExcludeMethod + paths.Normalize(path))
}
