package middleware

import "github.com/aretw0/inertia/pkg/props"

// Middleware allows wrapping a partial resolver to add behavior.
type Middleware func(props.Resolver) props.Resolver

// Chain wraps r with mws. The first middleware is the outermost one.
func Chain(r props.Resolver, mws ...Middleware) props.Resolver {
	for i := len(mws) - 1; i >= 0; i-- {
		r = mws[i](r)
	}
	return r
}

// resolverFunc adapts a function to props.Resolver.
type resolverFunc func(name string) (props.Partial, error)

func (f resolverFunc) Lookup(name string) (props.Partial, error) { return f(name) }
