// Package testsupport holds fixtures and golden-file helpers shared by the
// package tests.
package testsupport

import (
	"bytes"
	"context"
	_ "embed"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formwizard/pkg/model"
	"github.com/goliatone/go-formwizard/pkg/schema"
)

//go:embed testdata/registration.json
var registrationJSON []byte

// RegistrationJSON returns the raw retrieval response for the two-section
// registration fixture.
func RegistrationJSON() []byte {
	return bytes.Clone(registrationJSON)
}

// RegistrationSchema decodes the registration fixture. It covers every field
// type: section 1 holds text, email, tel and date; section 2 holds dropdown,
// radio, a checkbox group, textarea and a single checkbox.
func RegistrationSchema(t testing.TB) model.FormSchema {
	t.Helper()
	form, err := schema.Decode(registrationJSON)
	if err != nil {
		t.Fatalf("decode registration fixture: %v", err)
	}
	return form
}

// LoadSchema decodes a JSON or YAML schema fixture from disk.
func LoadSchema(t testing.TB, path string) model.FormSchema {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read schema fixture: %v", err)
	}
	form, err := schema.Decode(data)
	if err != nil {
		t.Fatalf("decode schema fixture %s: %v", path, err)
	}
	return form
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t testing.TB, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t testing.TB, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// CaptureTemplateOutput executes a render function that writes to an io.Writer,
// returning both the string result and the writer contents.
func CaptureTemplateOutput(t testing.TB, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}
	return out, buf.String()
}
