package vanilla

import (
	"context"
	"io/fs"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-formwizard/pkg/appearance"
	"github.com/goliatone/go-formwizard/pkg/render"
	"github.com/goliatone/go-formwizard/pkg/session"
	"github.com/goliatone/go-formwizard/pkg/testsupport"
	"github.com/goliatone/go-formwizard/pkg/view"
	"github.com/goliatone/go-formwizard/pkg/wizard"
)

type noopTask struct{}

func (noopTask) Cancel() bool { return true }

type manualScheduler struct{}

func (manualScheduler) Schedule(time.Duration, func()) wizard.Task { return noopTask{} }

func registrationController(t *testing.T) *wizard.Controller {
	t.Helper()
	c, err := wizard.New(session.Session{Identity: "r1", DisplayName: "Ada"},
		wizard.WithFetcher(wizard.StaticFetcher(testsupport.RegistrationSchema(t))),
		wizard.WithScheduler(manualScheduler{}),
		wizard.WithSink(wizard.SinkFunc(func(context.Context, wizard.Submission) error { return nil })),
	)
	require.NoError(t, err)
	<-c.Load(context.Background())
	t.Cleanup(c.Close)
	return c
}

func renderPage(t *testing.T, page view.Page, opts render.RenderOptions) string {
	t.Helper()
	r, err := New()
	require.NoError(t, err)
	out, err := r.Render(testsupport.Context(), page, opts)
	require.NoError(t, err)
	return string(out)
}

func TestRenderer_Metadata(t *testing.T) {
	r, err := New()
	require.NoError(t, err)
	assert.Equal(t, "vanilla", r.Name())
	assert.Equal(t, "text/html; charset=utf-8", r.ContentType())
}

func TestRenderer_SectionPage(t *testing.T) {
	c := registrationController(t)
	page, err := view.NewBuilder().Page(c)
	require.NoError(t, err)

	html := renderPage(t, page, render.RenderOptions{
		Hidden: []render.HiddenField{render.CSRFToken("_csrf", "tok")},
	})

	assert.Contains(t, html, "Student Registration Form")
	assert.Contains(t, html, `data-testid="full-name"`)
	assert.Contains(t, html, `type="email"`)
	assert.Contains(t, html, `name="action" value="next"`)
	assert.NotContains(t, html, `data-testid="previous"`)
	assert.Contains(t, html, `name="_csrf" value="tok"`)
	assert.Contains(t, html, "1 of 2")
	assert.Contains(t, html, `aria-valuenow="50"`)
	assert.Contains(t, html, "novalidate")
}

func TestRenderer_SanitizesDescription(t *testing.T) {
	c := registrationController(t)
	page, err := view.NewBuilder().Page(c)
	require.NoError(t, err)

	html := renderPage(t, page, render.RenderOptions{})

	assert.Contains(t, html, "<b>who</b>")
	assert.NotContains(t, html, "<script>alert(1)</script>")
	assert.NotContains(t, html, "alert(1)")
}

func TestRenderer_ErrorsAndSummary(t *testing.T) {
	c := registrationController(t)
	result, err := c.Next()
	require.NoError(t, err)
	require.False(t, result.Valid)

	page, err := view.NewBuilder().Page(c)
	require.NoError(t, err)
	html := renderPage(t, page, render.RenderOptions{})

	assert.Contains(t, html, `data-testid="error-summary"`)
	assert.Contains(t, html, `data-testid="full-name-error"`)
	assert.Contains(t, html, "Full Name is required")
	assert.Contains(t, html, `href="#field-fullName"`)
	assert.Contains(t, html, `aria-invalid="true"`)
}

func TestRenderer_LoginAndTheme(t *testing.T) {
	themes, err := appearance.NewThemes()
	require.NoError(t, err)
	cfg, err := themes.Config("", appearance.ModeDark)
	require.NoError(t, err)

	page := view.NewBuilder().Login("r1", "", "Name is required")
	html := renderPage(t, page, render.RenderOptions{
		Theme: cfg,
		Mode:  appearance.ModeDark,
		Paths: map[string]string{"login": "/app/login"},
	})

	assert.Contains(t, html, `class="dark"`)
	assert.Contains(t, html, `href="/assets/formwizard.css"`)
	assert.Contains(t, html, "--background: #111827;")
	assert.Contains(t, html, `action="/app/login"`)
	assert.Contains(t, html, `value="r1"`)
	assert.Contains(t, html, `data-testid="login-error"`)
	assert.NotContains(t, html, `data-testid="logout"`)
}

func TestRenderer_InlineStylesheetWithoutTheme(t *testing.T) {
	html := renderPage(t, view.NewBuilder().Login("", "", ""), render.RenderOptions{})
	assert.Contains(t, html, "<style>")
	assert.Contains(t, html, ".fw-body")
	assert.Contains(t, html, `class="light"`)
}

func TestRenderer_SuccessRefresh(t *testing.T) {
	r, err := New(WithSuccessRefresh(3 * time.Second))
	require.NoError(t, err)

	out, err := r.Render(context.Background(), view.Page{Kind: view.PageSuccess, Title: "Done"}, render.RenderOptions{})
	require.NoError(t, err)
	assert.Contains(t, string(out), `content="3;url=/"`)

	out, err = r.Render(context.Background(), view.Page{Kind: view.PageLoading, Title: "Loading"}, render.RenderOptions{})
	require.NoError(t, err)
	assert.Contains(t, string(out), `content="1;url=/form"`)

	out, err = r.Render(context.Background(), view.Page{Kind: view.PageError, Title: "Error"}, render.RenderOptions{})
	require.NoError(t, err)
	assert.NotContains(t, string(out), "http-equiv")
}

func TestRenderer_CustomTemplates(t *testing.T) {
	r, err := New(WithTemplatesFS(fstest.MapFS{
		"page.tmpl": {Data: []byte(`{{ page.Kind }}|{{ paths.form }}`)},
	}))
	require.NoError(t, err)

	out, err := r.Render(context.Background(), view.Page{Kind: view.PageError}, render.RenderOptions{})
	require.NoError(t, err)
	assert.Equal(t, "error|/form", strings.TrimSpace(string(out)))
}

func TestAssetsFS(t *testing.T) {
	data, err := fs.ReadFile(AssetsFS(), StylesheetName)
	require.NoError(t, err)
	assert.Contains(t, string(data), "--accent")
}

func TestSanitizeDescription(t *testing.T) {
	assert.Equal(t, "", sanitizeDescription("   "))
	assert.Equal(t, "plain", sanitizeDescription("plain"))
	assert.Equal(t, "<em>hi</em>", sanitizeDescription(`<em onclick="x()">hi</em>`))
	assert.NotContains(t, sanitizeDescription(`<a href="javascript:alert(1)">x</a>`), "javascript")
}
