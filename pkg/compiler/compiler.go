// Package compiler turns filesets into fingerprinted output files.
//
// A Compiler is built once from configuration: it resolves the filesets,
// assembles the per-environment pipelines and instantiates the
// aggregators. Build compiles every fileset for one environment into an
// output directory; Compile runs a single asset through the dev pipeline
// without touching the disk.
package compiler

import (
	stderrors "errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/assetpack/pkg/builtin"
	"github.com/arthur-debert/assetpack/pkg/config"
	"github.com/arthur-debert/assetpack/pkg/errors"
	"github.com/arthur-debert/assetpack/pkg/fileset"
	"github.com/arthur-debert/assetpack/pkg/filesystem"
	"github.com/arthur-debert/assetpack/pkg/fingerprint"
	"github.com/arthur-debert/assetpack/pkg/logging"
	"github.com/arthur-debert/assetpack/pkg/paths"
	"github.com/arthur-debert/assetpack/pkg/pipeline"
	"github.com/arthur-debert/assetpack/pkg/processor"
	"github.com/arthur-debert/assetpack/pkg/route"
	"github.com/arthur-debert/assetpack/pkg/types"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// Compiler is the asset pipeline built from one configuration
type Compiler struct {
	conf      *config.Config
	settings  config.Settings
	filter    types.MediaFilter
	fs        *filesystem.FS
	hasher    *fingerprint.Hasher
	encodings []Encoding
	filesets  *fileset.Filesets
	registry  *pipeline.Registry
	patterns  []string
	routes    []*route.Pattern
	logger    zerolog.Logger
}

type options struct {
	fs       afero.Fs
	bindings *processor.Bindings
}

// Option customizes New
type Option func(*options)

// WithFS reads sources and writes outputs through fs instead of the OS
// filesystem
func WithFS(fs afero.Fs) Option {
	return func(o *options) { o.fs = fs }
}

// WithBindings replaces the built-in plugin table
func WithBindings(b *processor.Bindings) Option {
	return func(o *options) { o.bindings = b }
}

// New builds a Compiler. Configuration problems (unknown plugins, missing
// or cyclic filesets, bad settings) fail here.
func New(conf *config.Config, opts ...Option) (*Compiler, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.fs == nil {
		o.fs = afero.NewOsFs()
	}
	if o.bindings == nil {
		scripts := o.fs
		if conf.Dir() != "" {
			scripts = afero.NewBasePathFs(o.fs, conf.Dir())
		}
		o.bindings = builtin.Bindings(scripts)
	}

	logger := logging.GetLogger("compiler")

	settings, err := conf.Settings()
	if err != nil {
		return nil, err
	}
	if len(settings.Scripts) == 0 {
		settings.Scripts = types.DefaultScriptExtensions
	}
	if len(settings.Styles) == 0 {
		settings.Styles = types.DefaultStyleExtensions
	}
	hasher, err := fingerprint.New(settings.Fingerprint, settings.Charset)
	if err != nil {
		return nil, err
	}
	encodings, err := ParseEncodings(settings.Compress)
	if err != nil {
		return nil, err
	}

	registry, err := pipeline.Build(conf, o.bindings)
	if err != nil {
		return nil, err
	}

	graph, err := fileset.FromConfig(conf)
	if err != nil {
		return nil, err
	}
	aggregators := registry.Aggregators()
	contributors := make([]fileset.Contributor, len(aggregators))
	for i, a := range aggregators {
		contributors[i] = a
	}
	filesets, err := fileset.Resolve(graph, contributors)
	if err != nil {
		return nil, err
	}

	patterns := patternsOf(filesets.Literals())
	routes, err := route.CompileAll(processor.ExcludeMethod, patterns)
	if err != nil {
		return nil, err
	}

	c := &Compiler{
		conf:      conf,
		settings:  settings,
		filter:    types.NewMediaFilter(settings.Scripts, settings.Styles),
		fs:        filesystem.New(o.fs, hasher.Charset()),
		hasher:    hasher,
		encodings: encodings,
		filesets:  filesets,
		registry:  registry,
		patterns:  patterns,
		routes:    routes,
		logger:    logger,
	}
	logger.Debug().
		Strs("filesets", filesets.Names()).
		Strs("environments", registry.Environments()).
		Str("basedir", settings.Basedir).
		Msg("compiler ready")
	return c, nil
}

func patternsOf(literals []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range literals {
		seg := paths.FirstSegment(p)
		if seg == "" {
			continue
		}
		pattern := "/" + seg + "/**"
		if !seen[pattern] {
			seen[pattern] = true
			out = append(out, pattern)
		}
	}
	return out
}

// Config returns the configuration the compiler was built from
func (c *Compiler) Config() *config.Config { return c.conf }

// Settings returns the decoded assets block
func (c *Compiler) Settings() config.Settings { return c.settings }

// FilesetNames lists the filesets in build order
func (c *Compiler) FilesetNames() []string { return c.filesets.Names() }

// Assets returns the resolved members of a fileset, or an empty list
func (c *Compiler) Assets(name string) []string { return c.filesets.Get(name) }

// Scripts returns the script members of a fileset
func (c *Compiler) Scripts(name string) []string {
	return c.members(name, types.MediaScript)
}

// Styles returns the style members of a fileset
func (c *Compiler) Styles(name string) []string {
	return c.members(name, types.MediaStyle)
}

func (c *Compiler) members(name string, media types.MediaType) []string {
	out := []string{}
	for _, p := range c.filesets.Get(name) {
		if c.filter.Classify(p) == media {
			out = append(out, p)
		}
	}
	return out
}

// Patterns returns one "/<dir>/**" route pattern per top-level directory
// holding a literal fileset member, in first-seen order
func (c *Compiler) Patterns() []string {
	return append([]string(nil), c.patterns...)
}

// Contains reports whether path ends with a file generated by an
// aggregator or with a literal fileset member
func (c *Compiler) Contains(path string) bool {
	for _, f := range c.filesets.Contributed() {
		if strings.HasSuffix(path, f) {
			return true
		}
	}
	for _, name := range c.filesets.Names() {
		for _, member := range c.filesets.Get(name) {
			if strings.HasSuffix(path, member) {
				return true
			}
		}
	}
	return false
}

// Pipeline returns the processors of env
func (c *Compiler) Pipeline(env string) []processor.Processor {
	return c.registry.Pipeline(env)
}

// Environments lists the environments with a pipeline
func (c *Compiler) Environments() []string {
	return c.registry.Environments()
}

// Aggregators returns the declared aggregators
func (c *Compiler) Aggregators() []processor.Aggregator {
	return c.registry.Aggregators()
}

func (c *Compiler) runtime() processor.Runtime {
	return processor.Runtime{
		Config:  c.conf,
		FS:      c.fs.Afero(),
		Basedir: c.settings.Basedir,
		Charset: c.hasher.Charset(),
	}
}

// RunAggregators runs every aggregator once, in declared order
func (c *Compiler) RunAggregators() error {
	rt := c.runtime()
	for _, a := range c.registry.Aggregators() {
		done := logging.LogOperationStart(c.logger, "aggregator "+a.Name())
		err := a.Run(rt)
		done()
		if err != nil {
			if errors.IsErrorCode(err, errors.ErrAggregatorRun) {
				return err
			}
			return errors.Wrapf(err, errors.ErrAggregatorRun, "aggregator %s failed", a.Name()).
				WithDetail("aggregator", a.Name())
		}
	}
	return nil
}

// Build compiles every fileset for env into dir. Aggregators run first.
// For each fileset the scripts, then the styles, are processed, joined
// and written as <fileset>.<fingerprint>.<ext>; media types without
// content produce no file. On failure the outputs written so far are
// returned along with the error.
func (c *Compiler) Build(env, dir string) (*Manifest, error) {
	logger := logging.WithBuild(c.logger, env, dir)
	done := logging.LogOperationStart(logger, "build")
	defer done()

	manifest := newManifest(env, dir)
	if err := c.RunAggregators(); err != nil {
		return manifest, err
	}

	chain := c.registry.Pipeline(env)
	logger.Debug().
		Int("processors", len(chain)).
		Msg("building filesets")

	for _, name := range c.filesets.Names() {
		for _, media := range []types.MediaType{types.MediaScript, types.MediaStyle} {
			out, err := c.buildOne(chain, name, media, dir)
			if err != nil {
				return manifest, err
			}
			if out != nil {
				manifest.add(name, *out)
			}
		}
	}
	return manifest, nil
}

func (c *Compiler) buildOne(chain []processor.Processor, name string, media types.MediaType, dir string) (*Output, error) {
	sources := c.members(name, media)
	if len(sources) == 0 {
		return nil, nil
	}

	var b strings.Builder
	for _, src := range sources {
		content, err := c.compileFile(chain, src, media)
		if err != nil {
			return nil, err
		}
		b.WriteString(content)
		b.WriteString(media.Separator())
	}
	content := b.String()
	if content == "" {
		c.logger.Debug().Str("fileset", name).Str("media", media.String()).Msg("empty output skipped")
		return nil, nil
	}

	encoded, err := c.hasher.Charset().Encode(content)
	if err != nil {
		return nil, err
	}
	fp := c.hasher.SumBytes(encoded)
	target := filepath.Join(c.outputDir(dir, sources[0]), fmt.Sprintf("%s.%s.%s", name, fp, media.Ext()))
	if err := c.fs.WriteBytes(target, encoded); err != nil {
		return nil, err
	}

	out := &Output{
		Path:        target,
		Size:        int64(len(encoded)),
		Fingerprint: fp,
		Media:       media.String(),
		Sources:     sources,
	}
	for _, enc := range c.encodings {
		compressed, err := enc.Compress(encoded)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrFileWrite, "cannot %s %s", enc, target)
		}
		if err := c.fs.WriteBytes(target+enc.Ext(), compressed); err != nil {
			return nil, err
		}
		out.Compressed = append(out.Compressed, target+enc.Ext())
	}

	c.logger.Debug().
		Str("fileset", name).
		Str("path", target).
		Int64("bytes", out.Size).
		Msg("output written")
	return out, nil
}

// outputDir is the directory of the first pattern matching the first
// source, or dir itself
func (c *Compiler) outputDir(dir, first string) string {
	for _, p := range c.routes {
		if p.MatchPath(first) {
			return paths.Join(dir, strings.TrimSuffix(p.String(), "/**"))
		}
	}
	return dir
}

// compileFile reads one source and runs it through the processors of
// chain that handle its media type and do not exclude it
func (c *Compiler) compileFile(chain []processor.Processor, src string, media types.MediaType) (string, error) {
	content, err := c.fs.ReadText(paths.Join(c.settings.Basedir, src))
	if err != nil {
		return "", err
	}
	return c.process(chain, src, content, media)
}

func (c *Compiler) process(chain []processor.Processor, src, content string, media types.MediaType) (string, error) {
	for _, p := range chain {
		if !p.Matches(media) || p.Excludes(src) {
			continue
		}
		out, err := p.Process(src, content, c.conf)
		if err != nil {
			return "", assetError(p.Name(), src, err)
		}
		c.logger.Trace().Str("processor", p.Name()).Str("path", src).Msg("processed")
		content = out
	}
	return content, nil
}

// assetError makes sure a processor failure carries the processor name
func assetError(id, src string, err error) error {
	var assetErr *types.AssetError
	if stderrors.As(err, &assetErr) {
		return assetErr
	}
	return types.NewAssetError(id, types.NewProblem(src, -1, -1, err.Error())).WithCause(err)
}
