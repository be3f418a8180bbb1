package server

import (
	"net/http"
	"slices"
)

var _ Router = (*BasicRouter)(nil)

// BasicRouter routes with [http.ServeMux] method patterns and wraps every route in the shared middleware stack.
type BasicRouter struct {
	mux         *http.ServeMux
	middlewares []Middleware
	patterns    []string
}

// NewBasicRouter creates a new [BasicRouter] instance.
func NewBasicRouter() *BasicRouter {
	return &BasicRouter{
		mux:         http.NewServeMux(),
		middlewares: []Middleware{},
	}
}

// Use adds [Middleware] to the shared stack, applied in the order it's added.
// Routes registered before the call are not affected.
func (r *BasicRouter) Use(middleware ...Middleware) {
	r.middlewares = append(r.middlewares, middleware...)
}

// Handle registers a handler for method and path. The mux answers 405 for other methods on the same path.
func (r *BasicRouter) Handle(method, path string, handler http.Handler) {
	r.register(method+" "+path, r.Apply(handler))
}

// Handler registers every pattern from [Handler.Routes].
//
// Guards run inside the shared stack, closest to the handler, so a guard's
// rejection is still logged and recovered.
func (r *BasicRouter) Handler(handler Handler, guards ...Middleware) {
	var inner http.Handler = handler
	for i := len(guards) - 1; i >= 0; i-- {
		inner = guards[i](inner)
	}

	wrapped := r.Apply(inner)
	for _, route := range handler.Routes() {
		r.register(route, wrapped)
	}
}

func (r *BasicRouter) register(pattern string, h http.Handler) {
	r.mux.Handle(pattern, h)
	r.patterns = append(r.patterns, pattern)
}

// Patterns lists the registered patterns in sorted order.
func (r *BasicRouter) Patterns() []string {
	out := slices.Clone(r.patterns)
	slices.Sort(out)
	return out
}

// ServeHTTP implements [http.Handler] for the entire router.
func (r *BasicRouter) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// Apply wraps a handler with all registered middleware.
//
// Middleware is applied in reverse order (last added wraps first).
func (r *BasicRouter) Apply(handler http.Handler) http.Handler {
	wrapped := handler

	for i := len(r.middlewares) - 1; i >= 0; i-- {
		wrapped = r.middlewares[i](wrapped)
	}

	return wrapped
}
