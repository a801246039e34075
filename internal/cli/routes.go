package cli

import (
	"fmt"
	"net/http"
	"strings"

	inertiahttp "github.com/aretw0/inertia/pkg/adapters/http"
)

// Routes turns pages into HTTP routes. Every page needs a path, and no two
// pages may share a method and path.
func Routes(pages []*PageFile) ([]inertiahttp.Route, error) {
	seen := make(map[string]string, len(pages))
	routes := make([]inertiahttp.Route, 0, len(pages))

	for _, page := range pages {
		if page.Path == "" {
			return nil, fmt.Errorf("page %q has no path", page.Component)
		}
		method := strings.ToUpper(page.Method)
		if method == "" {
			method = http.MethodGet
		}

		id := method + " " + page.Path
		if other, ok := seen[id]; ok {
			return nil, fmt.Errorf("collision detected: %s is served by both %q and %q", id, other, page.Component)
		}
		seen[id] = page.Component

		routes = append(routes, inertiahttp.Route{
			Method:    method,
			Path:      page.Path,
			Component: page.Component,
			Build:     page.Build(),
		})
	}
	return routes, nil
}
