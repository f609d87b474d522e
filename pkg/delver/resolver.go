package delver

import "github.com/go-logr/logr"

// Resolver walks Node trees along Paths. It carries an injected reporter for
// missing-property diagnostics so the traversal itself stays pure: no global
// sinks, no mutation of either input, no fatal errors.
type Resolver struct {
	reporter logr.Logger
	strict   bool
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithReporter sets the diagnostic sink for missing-property warnings.
// Without it, diagnostics are discarded.
func WithReporter(lgr logr.Logger) Option {
	return func(r *Resolver) {
		r.reporter = lgr
	}
}

// WithStrictPresence makes a key count as found whenever it exists on the
// object, regardless of its value. By default a key holding a falsy value
// (0, "", false, null) is treated the same as a missing key, which keeps
// falsy leaves out of downstream cells; strict mode is the corrected
// reading where only absence counts as missing.
func WithStrictPresence() Option {
	return func(r *Resolver) {
		r.strict = true
	}
}

// New builds a Resolver. With no options it discards diagnostics and uses
// loose presence.
func New(opts ...Option) *Resolver {
	r := &Resolver{reporter: logr.Discard()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve follows path through root and returns the reachable value.
//
// An empty path returns root itself. Object nodes consume one segment per
// level. Array nodes consume nothing: they broadcast the entire remaining
// path to each element, wrapping the per-element results in a fresh array,
// so the result gains one nesting level per array crossed. A lookup that
// cannot proceed emits a single diagnostic for that branch and resolves to
// absent; sibling branches are unaffected.
func (r *Resolver) Resolve(root Node, path Path) Node {
	return r.resolve(root, path, 0)
}

// ResolveAll resolves the same path independently against each root,
// preserving input order. This is the entry point for the common case of a
// feed returning an array of records interrogated with one set of paths.
func (r *Resolver) ResolveAll(roots []Node, path Path) []Node {
	results := make([]Node, len(roots))
	for i, root := range roots {
		results[i] = r.Resolve(root, path)
	}
	return results
}

func (r *Resolver) resolve(root Node, path Path, index int) Node {
	if index >= len(path) {
		return root
	}
	if root.kind == KindAbsent {
		// Reported when the branch first went missing; stay quiet here.
		return Node{}
	}

	segment := path[index]
	if root.kind == KindObject {
		if child, ok := root.Field(segment); ok && (r.strict || child.truthy()) {
			return r.resolve(child, path, index+1)
		}
	}
	if root.kind == KindArray {
		results := make([]Node, len(root.array))
		for i, elem := range root.array {
			results[i] = r.resolve(elem, path, index)
		}
		return Node{kind: KindArray, array: results}
	}

	r.reporter.Info("property not found",
		"segment", segment,
		"segment_index", index,
		"path", path.String(),
		"parent", root.Interface(),
	)
	return Node{}
}
