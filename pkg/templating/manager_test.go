package templating

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

// setupTestManager creates a Manager over a temp directory pre-populated with
// a small page tree.
func setupTestManager(tb testing.TB) (*Manager, string) {
	tb.Helper()

	dir := tb.TempDir()
	writeTemplate(tb, dir, "index.html", "<h1>home</h1>")
	writeTemplate(tb, dir, "pages/about.html", "about {{.Name}}")
	writeTemplate(tb, dir, "pages/docs/index.html", "docs index")

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	m, err := NewManager(logger, dir)
	if err != nil {
		tb.Fatalf("NewManager failed: %v", err)
	}
	return m, dir
}

func writeTemplate(tb testing.TB, dir, name, content string) {
	tb.Helper()
	path := filepath.Join(dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		tb.Fatalf("failed to create template dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		tb.Fatalf("failed to write template %s: %v", name, err)
	}
}

func TestNewManager(t *testing.T) {
	m, _ := setupTestManager(t)

	want := []string{"index.html", "pages/about.html", "pages/docs/index.html"}
	if got := m.TemplateNames(); !slices.Equal(got, want) {
		t.Errorf("TemplateNames() = %v, want %v", got, want)
	}
}

func TestNewManagerMissingDir(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	m, err := NewManager(logger, filepath.Join(t.TempDir(), "does-not-exist"))
	if err != nil {
		t.Fatalf("a missing template dir should not fail construction: %v", err)
	}
	if names := m.TemplateNames(); len(names) != 0 {
		t.Errorf("expected no templates, got %v", names)
	}
}

func TestExecute(t *testing.T) {
	m, _ := setupTestManager(t)

	var buf bytes.Buffer
	if err := m.Execute(&buf, "pages/about.html", map[string]any{"Name": "sam"}); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if buf.String() != "about sam" {
		t.Errorf("Execute output = %q", buf.String())
	}
}

func TestExecuteUnknownName(t *testing.T) {
	m, _ := setupTestManager(t)

	var buf bytes.Buffer
	if err := m.Execute(&buf, "pages/missing.html", nil); err == nil {
		t.Error("Execute of an unregistered template should fail")
	}
}

func TestExecuteEmptyName(t *testing.T) {
	m, _ := setupTestManager(t)

	var buf bytes.Buffer
	if err := m.Execute(&buf, "", nil); err != nil {
		t.Errorf("Execute with empty name should be a no-op, got %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("Execute with empty name wrote %q", buf.String())
	}
}

func TestRefreshPicksUpNewTemplates(t *testing.T) {
	m, dir := setupTestManager(t)

	writeTemplate(t, dir, "pages/contact.html", "contact us")
	if err := m.Refresh(); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	if !slices.Contains(m.TemplateNames(), "pages/contact.html") {
		t.Errorf("new template not loaded, names = %v", m.TemplateNames())
	}

	var buf bytes.Buffer
	if err := m.Execute(&buf, "pages/contact.html", nil); err != nil {
		t.Fatalf("Execute of refreshed template failed: %v", err)
	}
	if buf.String() != "contact us" {
		t.Errorf("Execute output = %q", buf.String())
	}
}

func TestRefreshRejectsBadTemplate(t *testing.T) {
	m, dir := setupTestManager(t)

	writeTemplate(t, dir, "broken.html", "{{if}}")
	if err := m.Refresh(); err == nil {
		t.Fatal("Refresh should fail on an unparsable template")
	}

	// The previously loaded set must stay usable.
	var buf bytes.Buffer
	if err := m.Execute(&buf, "index.html", nil); err != nil {
		t.Errorf("previous template set unusable after failed refresh: %v", err)
	}
}

func TestTemplateNamesReturnsCopy(t *testing.T) {
	m, _ := setupTestManager(t)

	names := m.TemplateNames()
	names[0] = "mutated"
	if m.TemplateNames()[0] == "mutated" {
		t.Error("TemplateNames exposed internal state")
	}
}

func TestExecuteString(t *testing.T) {
	m, _ := setupTestManager(t)

	var buf bytes.Buffer
	if err := m.ExecuteString(&buf, `{{add 2 3}}`, nil); err != nil {
		t.Fatalf("ExecuteString failed: %v", err)
	}
	if buf.String() != "5" {
		t.Errorf("ExecuteString output = %q, want \"5\"", buf.String())
	}

	if err := m.ExecuteString(&buf, `{{if}}`, nil); err == nil {
		t.Error("ExecuteString should fail on an unparsable string")
	}
}
