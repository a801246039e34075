package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aretw0/inertia/pkg/props"
)

// Route binds a path to a page component.
type Route struct {
	Method    string // default GET
	Path      string
	Component string
	Build     props.BuildFunc
}

// NewRouter creates a chi router serving routes through rs, behind the
// version and redirect middlewares. Builders can read path parameters with
// chi.URLParamFromCtx(s.Context(), name).
func NewRouter(rs *Responder, routes []Route, middlewares ...func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(VersionMiddleware(rs.engine.Version()), RedirectMiddleware)
	r.Use(middlewares...)

	for _, route := range routes {
		method := route.Method
		if method == "" {
			method = http.MethodGet
		}
		r.Method(method, route.Path, rs.Handler(route.Component, route.Build))
	}
	return r
}
