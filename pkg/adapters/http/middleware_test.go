package http_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	inertiahttp "github.com/aretw0/inertia/pkg/adapters/http"
	"github.com/aretw0/inertia/pkg/domain"
)

var ok = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestVersionMiddleware(t *testing.T) {
	handler := inertiahttp.VersionMiddleware("v2")(ok)

	tests := []struct {
		name     string
		method   string
		inertia  bool
		version  string
		wantCode int
	}{
		{"stale inertia get", http.MethodGet, true, "v1", http.StatusConflict},
		{"current inertia get", http.MethodGet, true, "v2", http.StatusOK},
		{"plain get", http.MethodGet, false, "v1", http.StatusOK},
		{"stale inertia post", http.MethodPost, true, "v1", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/page?x=1", nil)
			if tt.inertia {
				req.Header.Set(domain.HeaderInertia, "true")
			}
			req.Header.Set(domain.HeaderVersion, tt.version)
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.wantCode, w.Code)
			if tt.wantCode == http.StatusConflict {
				assert.Equal(t, "/page?x=1", w.Header().Get(domain.HeaderLocation))
			}
		})
	}
}

func TestVersionMiddleware_Disabled(t *testing.T) {
	handler := inertiahttp.VersionMiddleware("")(ok)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(domain.HeaderInertia, "true")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCheckVersion(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(domain.HeaderInertia, "true")
	req.Header.Set(domain.HeaderVersion, "old")

	assert.ErrorIs(t, inertiahttp.CheckVersion(req, "new"), domain.ErrVersionMismatch)
	assert.NoError(t, inertiahttp.CheckVersion(req, "old"))
}

func TestRedirectMiddleware(t *testing.T) {
	redirect := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/users", http.StatusFound)
	})
	handler := inertiahttp.RedirectMiddleware(redirect)

	for method, want := range map[string]int{
		http.MethodPut:    http.StatusSeeOther,
		http.MethodPatch:  http.StatusSeeOther,
		http.MethodDelete: http.StatusSeeOther,
		http.MethodPost:   http.StatusFound,
	} {
		req := httptest.NewRequest(method, "/users/1", nil)
		req.Header.Set(domain.HeaderInertia, "true")
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)
		assert.Equal(t, want, w.Code, method)
	}

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/users/1", nil))
	assert.Equal(t, http.StatusFound, w.Code, "plain requests are untouched")
}
