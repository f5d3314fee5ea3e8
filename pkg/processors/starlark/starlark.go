// Package starlark runs processors written in Starlark. A script defines
//
//	def process(filename, content):
//	    return content.replace("DEBUG = True", "DEBUG = False")
//
// and may call config(key, default=None) to read the build configuration
// and option(key, default=None) to read its own options. fail() reports a
// problem at the calling line.
package starlark

import (
	stderrors "errors"
	"fmt"

	"github.com/arthur-debert/assetpack/pkg/config"
	"github.com/arthur-debert/assetpack/pkg/errors"
	"github.com/arthur-debert/assetpack/pkg/logging"
	"github.com/arthur-debert/assetpack/pkg/processor"
	"github.com/arthur-debert/assetpack/pkg/types"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Option names
const (
	ScriptKey = "script"
	SourceKey = "source"
	MediaKey  = "media"
)

// EntryPoint is the function every script must define
const EntryPoint = "process"

const configLocal = "assetpack.config"

// Starlark is a processor backed by a Starlark script
type Starlark struct {
	processor.Base
	script  string
	media   map[types.MediaType]bool
	process starlark.Callable
	logger  zerolog.Logger
}

// Factory returns a processor factory reading scripts from fs
func Factory(fs afero.Fs) processor.ProcessorFactory {
	return func(name string, options processor.Options) (processor.Processor, error) {
		return New(fs, name, options)
	}
}

// New loads and freezes the script named by the "script" option, or the
// inline "source" option.
func New(fs afero.Fs, name string, options processor.Options) (*Starlark, error) {
	base, err := processor.NewBase(name, options)
	if err != nil {
		return nil, err
	}

	filename := options.String(ScriptKey, "")
	var src []byte
	switch {
	case filename != "":
		src, err = afero.ReadFile(fs, filename)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrFileRead, "cannot read script %s", filename)
		}
	case options.Has(SourceKey):
		filename = name + ".star"
		src = []byte(options.String(SourceKey, ""))
	default:
		return nil, errors.Newf(errors.ErrConfigInvalid, "%s needs a %q or %q option", name, ScriptKey, SourceKey)
	}

	media, err := mediaOf(options)
	if err != nil {
		return nil, err
	}

	s := &Starlark{
		Base:   base,
		script: filename,
		media:  media,
		logger: logging.GetLogger("starlark"),
	}
	thread := s.thread()
	globals, err := starlark.ExecFileOptions(&syntax.FileOptions{}, thread, filename, src, s.predeclared())
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrProcessorInvalid, "cannot load %s", filename).
			WithDetail("processor", name)
	}
	globals.Freeze()

	fn, ok := globals[EntryPoint].(starlark.Callable)
	if !ok {
		return nil, errors.Newf(errors.ErrProcessorInvalid, "%s does not define %s(filename, content)", filename, EntryPoint).
			WithDetail("processor", name)
	}
	s.process = fn
	return s, nil
}

func mediaOf(options processor.Options) (map[types.MediaType]bool, error) {
	names, err := options.Strings(MediaKey)
	if err != nil {
		return nil, err
	}
	media := make(map[types.MediaType]bool, 2)
	if len(names) == 0 {
		media[types.MediaScript] = true
		media[types.MediaStyle] = true
		return media, nil
	}
	for _, n := range names {
		m := types.ParseMediaType(n)
		if m == types.MediaUnknown {
			return nil, errors.Newf(errors.ErrConfigInvalid, "unknown media type %q", n)
		}
		media[m] = true
	}
	return media, nil
}

// Script returns the script file name
func (s *Starlark) Script() string { return s.script }

// Matches reports whether the script is configured for media
func (s *Starlark) Matches(media types.MediaType) bool { return s.media[media] }

// Process calls the script's process function
func (s *Starlark) Process(filename, source string, conf *config.Config) (string, error) {
	thread := s.thread()
	thread.SetLocal(configLocal, conf)

	result, err := starlark.Call(thread, s.process, starlark.Tuple{starlark.String(filename), starlark.String(source)}, nil)
	if err != nil {
		return "", types.NewAssetError(s.Name(), s.problem(filename, err)).WithCause(err)
	}
	out, ok := starlark.AsString(result)
	if !ok {
		msg := fmt.Sprintf("%s returned %s, want string", EntryPoint, result.Type())
		return "", types.NewAssetError(s.Name(), types.NewProblem(filename, -1, -1, msg))
	}
	return out, nil
}

func (s *Starlark) thread() *starlark.Thread {
	return &starlark.Thread{
		Name:  s.Name(),
		Print: func(t *starlark.Thread, msg string) {
			s.logger.Debug().Str("processor", t.Name).Msg(msg)
		},
	}
}

// problem locates a script failure at the innermost script frame
func (s *Starlark) problem(filename string, err error) types.Problem {
	var evalErr *starlark.EvalError
	if stderrors.As(err, &evalErr) {
		for i := 0; i < len(evalErr.CallStack); i++ {
			pos := evalErr.CallStack.At(i).Pos
			if pos.Filename() != s.script {
				continue
			}
			p := types.NewProblem(filename, int(pos.Line), int(pos.Col), evalErr.Msg)
			p.Evidence = fmt.Sprintf("%s:%d:%d", s.script, pos.Line, pos.Col)
			return p
		}
		return types.NewProblem(filename, -1, -1, evalErr.Msg)
	}
	var syntaxErr syntax.Error
	if stderrors.As(err, &syntaxErr) {
		return types.NewProblem(filename, int(syntaxErr.Pos.Line), int(syntaxErr.Pos.Col), syntaxErr.Msg)
	}
	return types.NewProblem(filename, -1, -1, err.Error())
}

func (s *Starlark) predeclared() starlark.StringDict {
	return starlark.StringDict{
		"config": starlark.NewBuiltin("config", builtinConfig),
		"option": starlark.NewBuiltin("option", s.builtinOption),
	}
}

func builtinConfig(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var key string
	var def starlark.Value = starlark.None
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "key", &key, "default?", &def); err != nil {
		return nil, err
	}
	conf, _ := thread.Local(configLocal).(*config.Config)
	if conf == nil || !conf.Has(key) {
		return def, nil
	}
	return toStarlark(conf.Get(key)), nil
}

func (s *Starlark) builtinOption(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var key string
	var def starlark.Value = starlark.None
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "key", &key, "default?", &def); err != nil {
		return nil, err
	}
	v := s.Get(key)
	if v.IsNull() {
		return def, nil
	}
	return toStarlark(v), nil
}

// toStarlark converts a configuration value into a frozen Starlark value
func toStarlark(v config.Value) starlark.Value {
	switch v.Kind() {
	case config.KindString:
		s, _ := v.AsString()
		return starlark.String(s)
	case config.KindNumber:
		if i, err := v.AsInt(); err == nil {
			return starlark.MakeInt(i)
		}
		f, _ := v.AsFloat()
		return starlark.Float(f)
	case config.KindBool:
		b, _ := v.AsBool()
		return starlark.Bool(b)
	case config.KindList:
		items, _ := v.AsList()
		elems := make([]starlark.Value, len(items))
		for i, item := range items {
			elems[i] = toStarlark(item)
		}
		list := starlark.NewList(elems)
		list.Freeze()
		return list
	case config.KindMap:
		m, _ := v.AsMap()
		dict := starlark.NewDict(len(m))
		for k, item := range m {
			_ = dict.SetKey(starlark.String(k), toStarlark(item))
		}
		dict.Freeze()
		return dict
	}
	return starlark.None
}
