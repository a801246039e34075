package http

import (
	"net/http"

	"github.com/aretw0/inertia/pkg/domain"
)

// VersionMiddleware answers protocol-aware GET requests carrying a stale asset
// version with 409 Conflict and X-Inertia-Location, so the client reloads the
// page in full. An empty version disables the check.
func VersionMiddleware(version string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet && CheckVersion(r, version) != nil {
				w.Header().Set(domain.HeaderLocation, r.URL.RequestURI())
				w.WriteHeader(http.StatusConflict)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RedirectMiddleware turns 302 responses to protocol-aware PUT, PATCH and
// DELETE requests into 303, so the client follows them with a GET.
func RedirectMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !IsInertia(r) {
			next.ServeHTTP(w, r)
			return
		}
		switch r.Method {
		case http.MethodPut, http.MethodPatch, http.MethodDelete:
			next.ServeHTTP(&seeOtherWriter{ResponseWriter: w}, r)
		default:
			next.ServeHTTP(w, r)
		}
	})
}

type seeOtherWriter struct {
	http.ResponseWriter
}

func (w *seeOtherWriter) WriteHeader(code int) {
	if code == http.StatusFound {
		code = http.StatusSeeOther
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *seeOtherWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// CheckVersion returns domain.ErrVersionMismatch when r is a protocol-aware
// request whose asset version differs from version.
func CheckVersion(r *http.Request, version string) error {
	if version != "" && IsInertia(r) && r.Header.Get(domain.HeaderVersion) != version {
		return domain.ErrVersionMismatch
	}
	return nil
}
