package livecss

import "github.com/yacobolo/livecss/internal/engine"

// Compiler turns the full known class-name set into stylesheet text. Build
// must be a pure function of its input: the same set of names, in any
// order, yields the same output.
type Compiler interface {
	Build(classNames []string) (string, error)
}

// newEngine constructs the built-in CSS engine from the given source, with
// the closed resource table wired in for @import resolution.
func newEngine(source string) (*engine.Engine, error) {
	return engine.New(source, engine.Options{
		Resolve: func(identifier, base string) (engine.Source, error) {
			r, err := resolveResource(identifier, base)
			if err != nil {
				return engine.Source{}, err
			}
			return engine.Source{Path: r.path, Base: r.base, Content: r.content}, nil
		},
		ResolveModule: resolveModule,
	})
}

func newDefaultCompiler(source string) (Compiler, error) {
	return newEngine(source)
}
