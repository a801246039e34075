package http

import (
	"net/http"
	"strings"

	"github.com/aretw0/inertia/pkg/domain"
)

// IsInertia reports whether r comes from a protocol-aware client.
func IsInertia(r *http.Request) bool {
	return r.Header.Get(domain.HeaderInertia) == "true"
}

// ReloadModeFromRequest reads the partial reload headers of r.
// A request that is not protocol-aware, or names no partial component, is a full load.
func ReloadModeFromRequest(r *http.Request) domain.ReloadMode {
	if !IsInertia(r) {
		return domain.FullReload()
	}
	component := r.Header.Get(domain.HeaderPartialComponent)
	if component == "" {
		return domain.FullReload()
	}

	mode := domain.PartialReload(component, splitList(r.Header.Get(domain.HeaderPartialData))...)
	if except := splitList(r.Header.Get(domain.HeaderPartialExcept)); len(except) > 0 {
		mode = mode.WithExcept(except...)
	}
	return mode
}

func splitList(header string) []string {
	if header == "" {
		return nil
	}
	parts := strings.Split(header, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// addVary appends value to the Vary header unless it is already listed.
func addVary(h http.Header, value string) {
	for _, line := range h.Values("Vary") {
		for _, v := range strings.Split(line, ",") {
			if strings.EqualFold(strings.TrimSpace(v), value) {
				return
			}
		}
	}
	h.Add("Vary", value)
}
