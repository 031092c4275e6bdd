package main

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/CTAG07/autopage/pkg/autopage"
	"github.com/CTAG07/autopage/pkg/templating"
)

// Server wires the template manager, the site state, and the page middleware
// together, and exposes the two handlers the HTTP listeners serve.
type Server struct {
	cm          *ConfigManager
	db          *sql.DB
	logger      *slog.Logger
	tm          *templating.Manager
	sd          *SiteData
	serverAPI   *ServerAPI
	templateAPI *TemplateAPI
	siteHandler http.Handler
	apiMux      *http.ServeMux
}

func NewServer(cm *ConfigManager, logger *slog.Logger, db *sql.DB, actionChan chan string) (*Server, error) {
	config := cm.Get()

	tm, err := templating.NewManager(logger, config.TemplateDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create template manager: %w", err)
	}

	sd := NewSiteData(db, logger)

	server := &Server{
		cm:     cm,
		db:     db,
		logger: logger,
		tm:     tm,
		sd:     sd,
		apiMux: http.NewServeMux(),
	}

	mw, err := autopage.New(tm, config.TemplatePrefix, server.baseContext, autopage.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to create page middleware: %w", err)
	}

	// Explicit routes run only when no page template claims the path first.
	siteMux := http.NewServeMux()
	siteMux.HandleFunc("/profile", server.handleProfile)
	siteMux.HandleFunc("/favicon.ico", handleFavicon)
	server.siteHandler = mw.Wrap(siteMux)

	// api initialization
	server.serverAPI = NewServerAPI(cm, actionChan, logger)
	server.templateAPI = NewTemplateAPI(tm, logger)
	server.serverAPI.RegisterRoutes(server.apiMux)
	server.templateAPI.RegisterRoutes(server.apiMux)

	return server, nil
}

// baseContext assembles the render context shared by every auto-served page:
// the site owner's name, the request path, and that path's view counter. It
// runs once per intercepted request, on the request's own context.
func (s *Server) baseContext(ctx context.Context, r *http.Request) (autopage.Context, error) {
	owner, err := s.sd.OwnerName(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load owner name: %w", err)
	}
	views, err := s.sd.CountView(ctx, r.URL.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to count page view: %w", err)
	}
	return autopage.Context{
		"username": owner,
		"path":     r.URL.Path,
		"views":    views,
	}, nil
}

// handleProfile serves a page with requirements beyond the base context. It
// reuses baseContext as a starting point and layers the site's busiest pages
// on top before rendering an explicitly chosen template.
func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	pageCtx, err := s.baseContext(r.Context(), r)
	if err != nil {
		s.logger.Error("Failed to build profile context", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	top, err := s.sd.TopPages(r.Context(), 5)
	if err != nil {
		s.logger.Error("Failed to load top pages", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	pageCtx["topPages"] = top

	var buf bytes.Buffer
	if err = s.tm.Execute(&buf, "profile.html", pageCtx); err != nil {
		s.logger.Error("Failed to execute template", "template", "profile.html", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

// handleFavicon returns no content so favicon requests don't inflate the
// page-view counters.
func handleFavicon(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}
