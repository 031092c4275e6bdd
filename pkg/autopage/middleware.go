package autopage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
)

// Context holds the key-value data handed to the template engine when a
// matched page is rendered.
type Context map[string]any

// ContextBuilder assembles the render context for one intercepted request.
// It is called once per matched GET request and receives that request's
// context, so cancellation from the host server (client disconnect, shutdown)
// reaches it. A builder may read shared application state such as a database
// handle, but must not mutate middleware state.
type ContextBuilder func(ctx context.Context, r *http.Request) (Context, error)

// Engine is the template engine the middleware renders through. The registered
// name set is re-queried on every request, so engines that hot-reload their
// templates (like templating.Manager) are picked up without restarts.
// The middleware never mutates the engine.
type Engine interface {
	// TemplateNames returns the identifiers of all currently registered templates.
	TemplateNames() []string
	// Execute renders the named template with the given data into w.
	Execute(w io.Writer, name string, data any) error
}

// Middleware matches GET request paths to registered templates and renders
// them, delegating everything else to the wrapped handler. Construct with New;
// the zero value is not usable. A single Middleware is safe for concurrent use:
// its fields are set once at construction and only read afterwards.
type Middleware struct {
	engine  Engine
	builder ContextBuilder
	prefix  string
	logger  *slog.Logger
}

// Option configures a Middleware created by New.
type Option func(*Middleware)

// WithLogger sets the logger used for per-request debug output and render
// failures. By default, log output is discarded.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Middleware) {
		m.logger = logger
	}
}

// New creates a Middleware that looks templates up under the given prefix
// (leading and trailing slashes are stripped once, here). A nil engine or
// builder is a wiring bug and fails construction instead of surfacing on the
// first request.
func New(engine Engine, prefix string, builder ContextBuilder, opts ...Option) (*Middleware, error) {
	if engine == nil {
		return nil, errors.New("autopage: template engine must not be nil")
	}
	if builder == nil {
		return nil, errors.New("autopage: context builder must not be nil")
	}
	m := &Middleware{
		engine:  engine,
		builder: builder,
		prefix:  strings.Trim(prefix, "/"),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Wrap returns a handler that serves matched pages itself and passes every
// other request to next unchanged.
func (m *Middleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			next.ServeHTTP(w, r)
			return
		}

		path := strings.TrimRight(r.URL.Path, "/")
		candidates := Candidates(path, m.prefix)
		m.logger.Debug("Checking template candidates", "path", r.URL.Path, "candidates", candidates)

		registered := make(map[string]struct{})
		for _, name := range m.engine.TemplateNames() {
			registered[name] = struct{}{}
		}

		// The last registered candidate wins: if both "x.html" and
		// "x/index.html" exist, the directory index is served.
		var matched string
		for _, c := range candidates {
			if _, ok := registered[c]; ok {
				matched = c
			}
		}

		if matched == "" {
			m.logger.Debug("No matching template for path", "path", r.URL.Path)
			next.ServeHTTP(w, r)
			return
		}

		m.logger.Debug("Matched path to template", "path", r.URL.Path, "template", matched)

		pageCtx, err := m.builder(r.Context(), r)
		if err != nil {
			m.logger.Error("Context builder failed", "template", matched, "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		// Render to a buffer first so a mid-render failure can still become
		// a clean 500 instead of a truncated page.
		var buf bytes.Buffer
		if err = m.engine.Execute(&buf, matched, pageCtx); err != nil {
			m.logger.Error("Failed to execute template", "template", matched, "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = buf.WriteTo(w)
	})
}
