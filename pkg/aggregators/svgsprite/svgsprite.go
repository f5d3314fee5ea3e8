// Package svgsprite implements an aggregator that merges a directory of
// SVG icons into one sprite and a stylesheet with a class per icon.
//
// Icons are stacked vertically in the sprite. Each one gets a <symbol>
// for <use> references and a <view> so stylesheets can address it as
// url(sprite.svg#<prefix>-<icon>-view).
package svgsprite

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/arthur-debert/assetpack/pkg/errors"
	"github.com/arthur-debert/assetpack/pkg/logging"
	"github.com/arthur-debert/assetpack/pkg/paths"
	"github.com/arthur-debert/assetpack/pkg/processor"
	"github.com/beevik/etree"
	"github.com/spf13/afero"
)

// Options and their defaults
const (
	DirKey    = "dir"
	SpriteKey = "sprite"
	CSSKey    = "css"
	PrefixKey = "prefix"
	URLKey    = "url"

	DefaultDir    = "/img/icons"
	DefaultSprite = "/img/sprite.svg"
	DefaultCSS    = "/css/sprite.css"
	DefaultPrefix = "icon"
)

const svgNS = "http://www.w3.org/2000/svg"

// SVGSprite builds the sprite and its stylesheet
type SVGSprite struct {
	processor.Base
	dir    string
	sprite string
	css    string
	prefix string
	url    string
}

type icon struct {
	id      string
	width   float64
	height  float64
	viewBox string
	root    *etree.Element
}

// New is the aggregator factory
func New(name string, options processor.Options) (processor.Aggregator, error) {
	base, err := processor.NewBase(name, options)
	if err != nil {
		return nil, err
	}
	s := &SVGSprite{
		Base:   base,
		dir:    paths.Normalize(options.String(DirKey, DefaultDir)),
		sprite: paths.Normalize(options.String(SpriteKey, DefaultSprite)),
		css:    paths.Normalize(options.String(CSSKey, DefaultCSS)),
		prefix: options.String(PrefixKey, DefaultPrefix),
	}
	s.url = options.String(URLKey, s.sprite)
	if paths.Ext(s.css) != "css" {
		return nil, errors.Newf(errors.ErrConfigInvalid, "%s.%s must name a .css file", name, CSSKey)
	}
	return s, nil
}

// Fileset is the generated stylesheet; the sprite itself is an image and
// is referenced from it.
func (s *SVGSprite) Fileset() []string {
	return []string{s.css}
}

// Run writes the sprite and the stylesheet
func (s *SVGSprite) Run(rt processor.Runtime) error {
	logger := logging.GetLogger("svg-sprite")

	icons, err := s.load(rt)
	if err != nil {
		return errors.Wrapf(err, errors.ErrAggregatorRun, "%s failed", s.Name()).
			WithDetail("aggregator", s.Name())
	}

	sprite, err := s.renderSprite(icons)
	if err != nil {
		return err
	}
	if err := write(rt, s.sprite, sprite); err != nil {
		return err
	}

	css, err := rt.Charset.Encode(s.renderCSS(icons))
	if err != nil {
		return err
	}
	if err := write(rt, s.css, css); err != nil {
		return err
	}

	logger.Debug().
		Str("sprite", s.sprite).
		Str("css", s.css).
		Int("icons", len(icons)).
		Msg("svg sprite written")
	return nil
}

func (s *SVGSprite) load(rt processor.Runtime) ([]icon, error) {
	root := rt.Path(s.dir)
	exists, err := afero.DirExists(rt.FS, root)
	if err != nil || !exists {
		return nil, err
	}

	var files []string
	err = afero.Walk(rt.FS, root, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && strings.EqualFold(filepath.Ext(p), ".svg") {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)

	icons := make([]icon, 0, len(files))
	for _, f := range files {
		raw, err := afero.ReadFile(rt.FS, f)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrFileRead, "cannot read %s", f)
		}
		doc := etree.NewDocument()
		if err := doc.ReadFromBytes(raw); err != nil {
			return nil, errors.Wrapf(err, errors.ErrInvalidInput, "cannot parse %s", f)
		}
		svg := doc.Root()
		if svg == nil || svg.Tag != "svg" {
			return nil, errors.Newf(errors.ErrInvalidInput, "%s has no <svg> root", f)
		}
		rel, err := filepath.Rel(root, f)
		if err != nil {
			return nil, err
		}
		ic, err := s.iconOf(filepath.ToSlash(strings.TrimSuffix(rel, filepath.Ext(rel))), svg)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrInvalidInput, "bad icon %s", f)
		}
		icons = append(icons, ic)
	}
	return icons, nil
}

func (s *SVGSprite) iconOf(name string, svg *etree.Element) (icon, error) {
	ic := icon{
		id:   s.prefix + "-" + strings.ReplaceAll(name, "/", "-"),
		root: svg,
	}
	ic.viewBox = svg.SelectAttrValue("viewBox", "")
	ic.width = length(svg.SelectAttrValue("width", ""))
	ic.height = length(svg.SelectAttrValue("height", ""))

	if ic.viewBox != "" && (ic.width == 0 || ic.height == 0) {
		fields := strings.Fields(strings.ReplaceAll(ic.viewBox, ",", " "))
		if len(fields) == 4 {
			if ic.width == 0 {
				ic.width = length(fields[2])
			}
			if ic.height == 0 {
				ic.height = length(fields[3])
			}
		}
	}
	if ic.width == 0 || ic.height == 0 {
		return icon{}, errors.New(errors.ErrInvalidInput, "icon needs width/height or a viewBox")
	}
	if ic.viewBox == "" {
		ic.viewBox = fmt.Sprintf("0 0 %s %s", num(ic.width), num(ic.height))
	}
	return ic, nil
}

// length parses an SVG length, ignoring a px unit
func length(v string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(v), "px"), 64)
	if err != nil || f < 0 {
		return 0
	}
	return f
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func (s *SVGSprite) renderSprite(icons []icon) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	svg := doc.CreateElement("svg")
	svg.CreateAttr("xmlns", svgNS)
	svg.CreateAttr("xmlns:xlink", "http://www.w3.org/1999/xlink")

	var width, y float64
	defs := svg.CreateElement("defs")
	for _, ic := range icons {
		symbol := defs.CreateElement("symbol")
		symbol.CreateAttr("id", ic.id)
		symbol.CreateAttr("viewBox", ic.viewBox)
		for _, child := range ic.root.ChildElements() {
			symbol.AddChild(child.Copy())
		}
		if ic.width > width {
			width = ic.width
		}
	}
	for _, ic := range icons {
		view := svg.CreateElement("view")
		view.CreateAttr("id", ic.id+"-view")
		view.CreateAttr("viewBox", fmt.Sprintf("0 %s %s %s", num(y), num(ic.width), num(ic.height)))

		use := svg.CreateElement("use")
		use.CreateAttr("xlink:href", "#"+ic.id)
		use.CreateAttr("x", "0")
		use.CreateAttr("y", num(y))
		use.CreateAttr("width", num(ic.width))
		use.CreateAttr("height", num(ic.height))
		y += ic.height
	}
	svg.CreateAttr("width", num(width))
	svg.CreateAttr("height", num(y))

	doc.Indent(2)
	return doc.WriteToBytes()
}

func (s *SVGSprite) renderCSS(icons []icon) string {
	var b strings.Builder
	for _, ic := range icons {
		fmt.Fprintf(&b, ".%s {\n", ic.id)
		fmt.Fprintf(&b, "  background: url(%q) no-repeat;\n", s.url+"#"+ic.id+"-view")
		fmt.Fprintf(&b, "  width: %spx;\n", num(ic.width))
		fmt.Fprintf(&b, "  height: %spx;\n", num(ic.height))
		b.WriteString("}\n")
	}
	return b.String()
}

func write(rt processor.Runtime, asset string, content []byte) error {
	target := rt.Path(asset)
	if err := rt.FS.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "cannot create %s", filepath.Dir(target))
	}
	if err := afero.WriteFile(rt.FS, target, content, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "cannot write %s", target)
	}
	return nil
}
