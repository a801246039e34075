package http

import (
	"bytes"
	"context"
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/aretw0/inertia/internal/logging"
	"github.com/aretw0/inertia/pkg/domain"
	"github.com/aretw0/inertia/pkg/props"
)

// Renderer produces page envelopes. It is implemented by the root inertia.Engine.
type Renderer interface {
	Render(ctx context.Context, meta domain.PageMeta, mode domain.ReloadMode, build props.BuildFunc) (*domain.Page, error)
	Version() string
}

// Shell is the data handed to a layout template.
type Shell struct {
	Page   *domain.Page
	RootID string
	// Body is the root element carrying the serialized page.
	Body template.HTML
}

var rootTemplate = template.Must(template.New("root").Parse(`<div id="{{.RootID}}" data-page="{{.JSON}}"></div>`))

// Responder writes rendered pages as JSON for protocol-aware requests and as
// an HTML document otherwise.
type Responder struct {
	engine Renderer
	layout *template.Template
	rootID string
	logger *slog.Logger
}

// ResponderOption configures a Responder.
type ResponderOption func(*Responder)

// WithLayout wraps the root element in layout, executed with a Shell.
func WithLayout(layout *template.Template) ResponderOption {
	return func(rs *Responder) {
		rs.layout = layout
	}
}

// WithRootID sets the id of the root element (default: "app").
func WithRootID(id string) ResponderOption {
	return func(rs *Responder) {
		if id != "" {
			rs.rootID = id
		}
	}
}

// WithLogger sets the logger used for render and encode failures.
func WithLogger(logger *slog.Logger) ResponderOption {
	return func(rs *Responder) {
		if logger != nil {
			rs.logger = logger
		}
	}
}

// NewResponder creates a Responder rendering through engine.
func NewResponder(engine Renderer, opts ...ResponderOption) *Responder {
	rs := &Responder{
		engine: engine,
		rootID: "app",
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(rs)
	}
	return rs
}

// Handler returns a handler rendering component with build.
func (rs *Responder) Handler(component string, build props.BuildFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rs.Render(w, r, component, build)
	}
}

// Render renders component for the current request URL.
func (rs *Responder) Render(w http.ResponseWriter, r *http.Request, component string, build props.BuildFunc) {
	rs.RenderPage(w, r, domain.PageMeta{Component: component}, build)
}

// RenderPage renders a page with caller-supplied metadata. An empty URL is
// filled from the request.
func (rs *Responder) RenderPage(w http.ResponseWriter, r *http.Request, meta domain.PageMeta, build props.BuildFunc) {
	if meta.URL == "" {
		meta.URL = r.URL.RequestURI()
	}

	page, err := rs.engine.Render(r.Context(), meta, ReloadModeFromRequest(r), build)
	if err != nil {
		rs.logger.Error("Render failed", "component", meta.Component, "url", meta.URL, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	addVary(w.Header(), domain.HeaderInertia)
	if IsInertia(r) {
		rs.writeJSON(w, page)
		return
	}
	rs.writeHTML(w, page)
}

// Location sends the client to url. Protocol-aware clients get a 409 with
// X-Inertia-Location so they perform a full visit; others get a redirect.
func (rs *Responder) Location(w http.ResponseWriter, r *http.Request, url string) {
	if IsInertia(r) {
		w.Header().Set(domain.HeaderLocation, url)
		w.WriteHeader(http.StatusConflict)
		return
	}
	http.Redirect(w, r, url, http.StatusFound)
}

func (rs *Responder) writeJSON(w http.ResponseWriter, page *domain.Page) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set(domain.HeaderInertia, "true")
	if err := json.NewEncoder(w).Encode(page); err != nil {
		rs.logger.Error("Page encode failed", "component", page.Component, "error", err)
	}
}

func (rs *Responder) writeHTML(w http.ResponseWriter, page *domain.Page) {
	body, err := rs.RootElement(page)
	if err != nil {
		rs.logger.Error("Page encode failed", "component", page.Component, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if rs.layout == nil {
		buf.WriteString(string(body))
	} else if err := rs.layout.Execute(&buf, Shell{Page: page, RootID: rs.rootID, Body: body}); err != nil {
		rs.logger.Error("Layout execution failed", "component", page.Component, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(buf.Bytes()); err != nil {
		rs.logger.Warn("Response write failed", "error", err)
	}
}

// RootElement returns the root element with the page serialized, HTML-escaped,
// into its data-page attribute.
func (rs *Responder) RootElement(page *domain.Page) (template.HTML, error) {
	data, err := json.Marshal(page)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := rootTemplate.Execute(&buf, struct {
		RootID string
		JSON   string
	}{rs.rootID, string(data)}); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}
