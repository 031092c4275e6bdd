package templating

import (
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
)

// Manager is the central controller for the templating engine. It loads every
// .html file under its template directory, keeps the set addressable by
// relative path, and executes templates on demand. All methods are
// concurrent-safe.
type Manager struct {
	logger      *slog.Logger
	templateDir string
	templates   *template.Template
	names       []string
	funcMap     template.FuncMap
	mu          sync.RWMutex
}

// NewManager creates, initializes, and returns a new Manager rooted at the
// given template directory. It performs an initial Refresh; a missing
// directory or an empty one is logged as a warning rather than treated as an
// error, so a server can start before its first template is deployed.
func NewManager(logger *slog.Logger, templateDir string) (*Manager, error) {
	m := &Manager{
		logger:      logger,
		templateDir: templateDir,
	}
	m.funcMap = makeFuncMap()

	if err := m.Refresh(); err != nil {
		return nil, err
	}

	logger.Info("Template manager initialized", "dir", templateDir)
	return m, nil
}

// Refresh reloads all templates from the filesystem. This allows for updates
// to templates without restarting the application. On a parse error the
// previously loaded set stays active.
func (m *Manager) Refresh() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.logger.Info("Loading template files...", "dir", m.templateDir)

	root := template.New("").Funcs(m.funcMap)
	var names []string

	err := filepath.WalkDir(m.templateDir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".html") {
			return nil
		}

		rel, err := filepath.Rel(m.templateDir, path)
		if err != nil {
			return err
		}
		// Template identifiers are always slash-separated, also on Windows.
		name := filepath.ToSlash(rel)

		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if _, err = root.New(name).Parse(string(content)); err != nil {
			m.logger.Error("failed to parse template file", "file", path, "error", err)
			return err
		}
		names = append(names, name)
		return nil
	})
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			m.logger.Warn("Template directory does not exist", "dir", m.templateDir)
			m.templates = root
			m.names = nil
			return nil
		}
		return fmt.Errorf("failed to load templates from %s: %w", m.templateDir, err)
	}

	if len(names) == 0 {
		m.logger.Warn("No template files found", "dir", m.templateDir)
	}
	slices.Sort(names)

	m.templates = root
	m.names = names
	m.logger.Info("Loaded template files", "count", len(names))
	return nil
}

// Execute renders a specific template by name, writing the output to the
// provided io.Writer. The data argument is passed to the template and can be
// used to provide context or dynamic values.
func (m *Manager) Execute(w io.Writer, name string, data any) error {
	if name == "" {
		return nil
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.templates.ExecuteTemplate(w, name, data)
}

// TemplateNames returns a copy of the loaded template identifiers, sorted.
// The copy mainly exists for concurrency-safety reasons.
func (m *Manager) TemplateNames() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.names)
}

// TemplateDir returns the template dir that the Manager loads from.
func (m *Manager) TemplateDir() string {
	return m.templateDir
}

// ExecuteString parses and executes a raw template string using the manager's
// function map. This is ideal for testing or previewing a template without
// saving it to disk. The string is parsed into a clone of the loaded set, so
// it may reference deployed templates but cannot redefine them in place.
func (m *Manager) ExecuteString(w io.Writer, content string, data any) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	tempSet, err := m.templates.Clone()
	if err != nil {
		return fmt.Errorf("failed to clone templates for string execution: %w", err)
	}

	t, err := tempSet.Parse(content)
	if err != nil {
		return fmt.Errorf("failed to parse string template: %w", err)
	}

	return t.Execute(w, data)
}
