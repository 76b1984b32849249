package i18n

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultCatalog(t *testing.T) {
	c := Default()

	got := c.Message("validation.required", map[string]any{"Label": "Name"})
	if got != "Name is required" {
		t.Fatalf("required message = %q", got)
	}

	one, err := c.Translate("summary.heading", 1, map[string]any{"Count": 1})
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	if one != "There is 1 error that needs to be fixed" {
		t.Fatalf("singular heading = %q", one)
	}

	many, err := c.Translate("summary.heading", 3, map[string]any{"Count": 3})
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	if many != "There are 3 errors that need to be fixed" {
		t.Fatalf("plural heading = %q", many)
	}

	if got := c.Message("does.not.exist", nil); got != "does.not.exist" {
		t.Fatalf("missing message = %q", got)
	}
}

func TestCatalog_LocaleOverrides(t *testing.T) {
	dir := t.TempDir()
	content := `
[validation]
[validation.required]
other = "{{.Label}} es obligatorio"
`
	if err := os.WriteFile(filepath.Join(dir, "active.es.toml"), []byte(content), 0o600); err != nil {
		t.Fatalf("write locale: %v", err)
	}

	c, err := New("es", WithDir(dir))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if got := c.Message("validation.required", map[string]any{"Label": "Nombre"}); got != "Nombre es obligatorio" {
		t.Fatalf("spanish message = %q", got)
	}
	// Falls back to English for ids the locale does not define.
	if got := c.Message("validation.email", nil); got != "Please enter a valid email address" {
		t.Fatalf("fallback message = %q", got)
	}
	if got := c.Message("login.identity", nil); got == "login.identity" {
		t.Fatalf("prompt copy not resolved: %q", got)
	}
	if got, err := c.Translate("summary.heading", 2, map[string]any{"Count": 2}); err != nil || got != "There are 2 errors that need to be fixed" {
		t.Fatalf("plural fallback = %q, %v", got, err)
	}

	if err := c.SetLanguage("en"); err != nil {
		t.Fatalf("set language: %v", err)
	}
	if c.Language() != "en" {
		t.Fatalf("language = %q", c.Language())
	}
}

func TestCatalog_UnsupportedLanguage(t *testing.T) {
	if _, err := New("fr"); !errors.Is(err, ErrUnsupportedLanguage) {
		t.Fatalf("expected ErrUnsupportedLanguage, got %v", err)
	}
}

func TestCatalog_InMemoryFile(t *testing.T) {
	c, err := New("de", WithMessageFile("active.de.toml", []byte("[action]\n[action.next]\nother = \"Weiter\"\n")))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if got := c.Message("action.next", nil); got != "Weiter" {
		t.Fatalf("message = %q", got)
	}
}
