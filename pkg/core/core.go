// Package core provides a minimal shared API for loading documents,
// delving paths into them, and rendering the results.
package core

import (
	"fmt"

	"github.com/go-logr/logr"
	"github.com/oakwood-commons/delvex/internal/formatter"
	"github.com/oakwood-commons/delvex/pkg/delver"
	"github.com/oakwood-commons/delvex/pkg/loader"
)

// Resolver walks a path into a node tree.
type Resolver interface {
	Resolve(root delver.Node, path delver.Path) delver.Node
	ResolveAll(roots []delver.Node, path delver.Path) []delver.Node
}

// Formatter defines rendering and stringify behavior.
type Formatter interface {
	RenderRows(rows [][]string, noColor bool, pathColWidth, valueColWidth int) string
	Stringify(node interface{}) string
}

// Engine provides a shared API for loading, resolving, and rendering data.
type Engine struct {
	Resolver  Resolver
	Formatter Formatter
	Delimiter string

	reporter    logr.Logger
	hasReporter bool
	strict      bool
}

// Option configures the Engine.
type Option func(*Engine)

// WithResolver sets a custom resolver.
func WithResolver(r Resolver) Option {
	return func(e *Engine) {
		e.Resolver = r
	}
}

// WithFormatter sets a custom formatter.
func WithFormatter(f Formatter) Option {
	return func(e *Engine) {
		e.Formatter = f
	}
}

// WithDelimiter sets the path segment delimiter.
func WithDelimiter(delim string) Option {
	return func(e *Engine) {
		e.Delimiter = delim
	}
}

// WithReporter routes resolution diagnostics to the given logger. Ignored
// when WithResolver supplies a resolver of its own.
func WithReporter(lgr logr.Logger) Option {
	return func(e *Engine) {
		e.reporter = lgr
		e.hasReporter = true
	}
}

// WithStrictPresence makes field presence alone decide traversal, so falsy
// values no longer read as missing. Ignored when WithResolver supplies a
// resolver of its own.
func WithStrictPresence() Option {
	return func(e *Engine) {
		e.strict = true
	}
}

// New creates an Engine with defaults.
func New(opts ...Option) *Engine {
	engine := &Engine{
		Delimiter: delver.DefaultDelimiter,
	}
	for _, opt := range opts {
		opt(engine)
	}
	if engine.Resolver == nil {
		var resolverOpts []delver.Option
		if engine.hasReporter {
			resolverOpts = append(resolverOpts, delver.WithReporter(engine.reporter))
		}
		if engine.strict {
			resolverOpts = append(resolverOpts, delver.WithStrictPresence())
		}
		engine.Resolver = delver.New(resolverOpts...)
	}
	if engine.Formatter == nil {
		engine.Formatter = defaultFormatter{}
	}
	return engine
}

// LoadRoot parses input into a single root node; multi-doc inputs return a slice.
func LoadRoot(input string) (interface{}, error) {
	return loader.LoadRoot(input)
}

// LoadRootBytes parses input bytes into a single root node.
func LoadRootBytes(data []byte) (interface{}, error) {
	return loader.LoadRootBytes(data)
}

// LoadRootBytesWithLogger is like LoadRootBytes but accepts a logger for
// recording fallback parse attempts.
func LoadRootBytesWithLogger(data []byte, lgr logr.Logger) (interface{}, error) {
	return loader.LoadRootBytesWithLogger(data, lgr)
}

// LoadFile reads a file and parses it into a single root node.
func LoadFile(path string) (interface{}, error) {
	return loader.LoadFile(path)
}

// LoadFileWithLogger is like LoadFile but accepts a logger for recording
// fallback parse attempts and extension-based dispatch.
func LoadFileWithLogger(path string, lgr logr.Logger) (interface{}, error) {
	return loader.LoadFileWithLogger(path, lgr)
}

// LoadObject accepts an already parsed object and returns it directly.
// Strings and byte slices are parsed using the shared loader to preserve auto-detection.
func LoadObject(value interface{}) (interface{}, error) {
	return loader.LoadObject(value)
}

// Resolve walks the path expression into the root value. Missing or falsy
// properties yield nil; arrays broadcast the remaining path across their
// elements.
func (e *Engine) Resolve(root interface{}, expr string) (interface{}, error) {
	if e == nil || e.Resolver == nil {
		return nil, fmt.Errorf("resolver is not configured")
	}
	path := delver.SplitPath(expr, e.Delimiter)
	result := e.Resolver.Resolve(delver.FromValue(root), path)
	return result.Interface(), nil
}

// ResolveAll resolves the path expression against each record independently.
func (e *Engine) ResolveAll(records []interface{}, expr string) ([]interface{}, error) {
	if e == nil || e.Resolver == nil {
		return nil, fmt.Errorf("resolver is not configured")
	}
	path := delver.SplitPath(expr, e.Delimiter)
	results := e.Resolver.ResolveAll(delver.FromValues(records), path)
	out := make([]interface{}, len(results))
	for i, node := range results {
		out[i] = node.Interface()
	}
	return out, nil
}

// ExtractRows resolves each path expression against each record and returns
// one row per record, one cell per expression, stringified for tabular
// output. Missing values become empty cells.
func (e *Engine) ExtractRows(records []interface{}, exprs []string) ([][]string, error) {
	if e == nil || e.Resolver == nil {
		return nil, fmt.Errorf("resolver is not configured")
	}
	paths := make([]delver.Path, len(exprs))
	for i, expr := range exprs {
		paths[i] = delver.SplitPath(expr, e.Delimiter)
	}

	rows := make([][]string, len(records))
	for i, record := range records {
		root := delver.FromValue(record)
		row := make([]string, len(paths))
		for j, path := range paths {
			row[j] = e.Stringify(e.Resolver.Resolve(root, path).Interface())
		}
		rows[i] = row
	}
	return rows, nil
}

// RenderRows renders a two-column PATH/VALUE table.
func (e *Engine) RenderRows(rows [][]string, noColor bool, pathColWidth, valueColWidth int) string {
	e.ensureFormatter()
	if e == nil || e.Formatter == nil {
		return ""
	}
	return e.Formatter.RenderRows(rows, noColor, pathColWidth, valueColWidth)
}

// Stringify renders a node into a display string.
func (e *Engine) Stringify(node interface{}) string {
	e.ensureFormatter()
	if e == nil || e.Formatter == nil {
		return ""
	}
	return e.Formatter.Stringify(node)
}

type defaultFormatter struct{}

func (defaultFormatter) RenderRows(rows [][]string, noColor bool, pathColWidth, valueColWidth int) string {
	return formatter.RenderRows(rows, noColor, pathColWidth, valueColWidth)
}

func (defaultFormatter) Stringify(node interface{}) string {
	return formatter.Stringify(node)
}

func (e *Engine) ensureFormatter() {
	if e == nil {
		return
	}
	if e.Formatter == nil {
		e.Formatter = defaultFormatter{}
	}
}
