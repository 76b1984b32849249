package template_test

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-formwizard/pkg/render/template/gotemplate"
	"github.com/goliatone/go-formwizard/pkg/testsupport"
)

var templates = fstest.MapFS{
	"hello.html":      {Data: []byte("Hello {{ name }}!")},
	"use-global.html": {Data: []byte("env={{ settings.env }}")},
	"use-filter.html": {Data: []byte("{{ name|shout }}")},
	"struct.html":     {Data: []byte("{% for s in Steps %}{{ s.Title }}{% if not forloop.Last %},{% endif %}{% endfor %}")},
}

func TestGoTemplateEngine_RenderTemplate(t *testing.T) {
	engine := newEngine(t)

	result, written := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("hello", map[string]any{"name": "Ada"}, w)
	})
	if result != "Hello Ada!" || written != result {
		t.Fatalf("render template mismatch: result %q written %q", result, written)
	}
}

func TestGoTemplateEngine_RenderStructData(t *testing.T) {
	engine := newEngine(t)
	type step struct{ Title string }
	data := struct{ Steps []step }{Steps: []step{{"One"}, {"Two"}}}

	out, err := engine.Render("struct", data)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if diff := testsupport.CompareGolden("One,Two", out); diff != "" {
		t.Fatalf("struct render mismatch (-want +got):\n%s", diff)
	}
}

func TestGoTemplateEngine_GlobalContext(t *testing.T) {
	engine := newEngine(t)
	if err := engine.GlobalContext(map[string]any{
		"settings": map[string]any{"env": "staging"},
	}); err != nil {
		t.Fatalf("global context: %v", err)
	}

	out, err := engine.RenderTemplate("use-global", nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "env=staging" {
		t.Fatalf("global context not applied: %q", out)
	}
}

func TestGoTemplateEngine_RegisterFilter(t *testing.T) {
	engine := newEngine(t)
	err := engine.RegisterFilter("shout", func(input any, _ any) (any, error) {
		if input == nil {
			return "", nil
		}
		return fmt.Sprintf("%s!", strings.ToUpper(fmt.Sprint(input))), nil
	})
	if err != nil {
		t.Fatalf("register filter: %v", err)
	}

	out, err := engine.RenderTemplate("use-filter", map[string]any{"name": "Ada"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "ADA!" {
		t.Fatalf("filter not applied: %q", out)
	}
}

func TestGoTemplateEngine_RenderString(t *testing.T) {
	engine := newEngine(t)
	out, err := engine.Render("{{ a }}-{{ b }}", map[string]any{"a": 1, "b": "x"})
	if err != nil {
		t.Fatalf("render string: %v", err)
	}
	if out != "1-x" {
		t.Fatalf("render string = %q", out)
	}
}

func TestNew_RequiresTemplates(t *testing.T) {
	if _, err := gotemplate.New(); !errors.Is(err, gotemplate.ErrNoTemplates) {
		t.Fatalf("expected ErrNoTemplates, got %v", err)
	}
}

func TestGoTemplateEngine_WithGlobalsKeepsFunctions(t *testing.T) {
	engine, err := gotemplate.New(
		gotemplate.WithFS(templates),
		gotemplate.WithGlobals(map[string]any{
			"settings": map[string]any{"env": "prod"},
			"greet":    func(name string) string { return "hi " + name },
		}),
	)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	out, err := engine.Render("{{ greet(name) }} ({{ settings.env }})", map[string]any{"name": "Ada"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "hi Ada (prod)" {
		t.Fatalf("globals not applied: %q", out)
	}
}

func TestGoTemplateEngine_BaseDirOverridesFS(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "hello.html"), []byte("Howdy {{ name }}"), 0o600); err != nil {
		t.Fatalf("write override: %v", err)
	}
	engine, err := gotemplate.New(gotemplate.WithBaseDir(dir), gotemplate.WithFS(templates))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	out, err := engine.RenderTemplate("hello", map[string]any{"name": "Ada"})
	if err != nil || out != "Howdy Ada" {
		t.Fatalf("override = %q, %v", out, err)
	}
	out, err = engine.RenderTemplate("use-global", map[string]any{"settings": map[string]any{"env": "dev"}})
	if err != nil || out != "env=dev" {
		t.Fatalf("fallback = %q, %v", out, err)
	}
}

func newEngine(t *testing.T) *gotemplate.Engine {
	t.Helper()

	engine, err := gotemplate.New(gotemplate.WithFS(templates))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}
