package compiler

import (
	"io"

	"github.com/arthur-debert/assetpack/pkg/errors"
	"github.com/arthur-debert/assetpack/pkg/pipeline"
	"github.com/arthur-debert/assetpack/pkg/types"
)

// Compile runs one asset through the dev pipeline and returns the result
// in memory. Assets that are neither scripts nor styles, and every asset
// when the dev pipeline is empty, are returned unchanged.
func (c *Compiler) Compile(asset types.Asset) (types.Asset, error) {
	chain := c.registry.Pipeline(pipeline.Dev)
	if len(chain) == 0 {
		return asset, nil
	}
	media := c.filter.Classify(asset.Path())
	if media == types.MediaUnknown {
		return asset, nil
	}

	rc, err := asset.Open()
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileRead, "cannot open %s", asset.Path())
	}
	defer func() { _ = rc.Close() }()
	raw, err := io.ReadAll(rc)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileRead, "cannot read %s", asset.Path())
	}

	charset := c.hasher.Charset()
	source, err := charset.Decode(raw)
	if err != nil {
		return nil, err
	}
	out, err := c.process(chain, asset.Path(), source, media)
	if err != nil {
		return nil, err
	}
	encoded, err := charset.Encode(out)
	if err != nil {
		return nil, err
	}
	return types.NewMemoryAsset(asset, encoded), nil
}

// Live serves fileset members compiled on each request, for development
type Live struct {
	compiler *Compiler
}

// NewLive wraps a compiler
func NewLive(c *Compiler) *Live {
	return &Live{compiler: c}
}

// Serve compiles the asset at request path p. Paths that are not part of
// any fileset fail with NOT_FOUND.
func (l *Live) Serve(p string) (types.Asset, error) {
	if !l.compiler.Contains(p) {
		return nil, errors.Newf(errors.ErrNotFound, "%s is not part of any fileset", p).
			WithDetail("path", p)
	}
	asset, err := l.compiler.fs.Asset(l.compiler.settings.Basedir, p)
	if err != nil {
		return nil, err
	}
	return l.compiler.Compile(asset)
}
