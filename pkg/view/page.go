package view

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-formwizard/pkg/session"
	"github.com/goliatone/go-formwizard/pkg/validation"
	"github.com/goliatone/go-formwizard/pkg/wizard"
)

// ErrUnknownAction is returned by Forward for an unrecognised action.
var ErrUnknownAction = errors.New("view: unknown action")

// Additional actions used outside the section view.
const (
	ActionBackToLogin Action = "back_to_login"
	ActionLogout      Action = "logout"
	ActionLogin       Action = "login"
)

// PageKind selects which full page a renderer draws.
type PageKind string

const (
	PageLogin   PageKind = "login"
	PageLoading PageKind = "loading"
	PageError   PageKind = "error"
	PageSuccess PageKind = "success"
	PageSection PageKind = "section"
)

// LoginView carries the copy and sticky values of the login page.
type LoginView struct {
	IdentityLabel    string
	DisplayNameLabel string
	Identity         string
	DisplayName      string
	Error            string
}

// Page is everything a renderer needs to draw one screen.
type Page struct {
	Kind    PageKind
	Title   string
	Message string
	// Action is the page-level button: back to login on errors, start on the
	// login page.
	Action  *Button
	Logout  *Button
	Section *SectionView
	Login   *LoginView
	Session session.Session
}

// Login builds the login page. errMsg is shown above the form when set.
func (b *Builder) Login(identity, displayName, errMsg string) Page {
	return Page{
		Kind:   PageLogin,
		Title:  b.text("page.login_title", -1, nil),
		Action: &Button{Action: ActionLogin, Label: b.text("action.login", -1, nil)},
		Login: &LoginView{
			IdentityLabel:    b.text("login.identity", -1, nil),
			DisplayNameLabel: b.text("login.display_name", -1, nil),
			Identity:         identity,
			DisplayName:      displayName,
			Error:            errMsg,
		},
	}
}

// Page builds the page for the controller's current state.
func (b *Builder) Page(c *wizard.Controller) (Page, error) {
	state := c.Snapshot()
	page := Page{
		Session: c.Session(),
		Logout:  &Button{Action: ActionLogout, Label: b.text("action.logout", -1, nil)},
	}

	switch state.Phase {
	case wizard.PhaseLoading:
		page.Kind = PageLoading
		page.Title = b.text("page.loading", -1, nil)
	case wizard.PhaseError:
		page.Kind = PageError
		page.Title = b.text("page.error_title", -1, nil)
		page.Message = b.text(reasonMessage(state.Reason), -1, nil)
		page.Action = &Button{Action: ActionBackToLogin, Label: b.text("action.back_to_login", -1, nil)}
		page.Logout = nil
	case wizard.PhaseSubmitted:
		page.Kind = PageSuccess
		page.Title = b.text("page.success_title", -1, nil)
		page.Message = b.text("page.success_redirect", -1, nil)
		page.Logout = nil
	case wizard.PhaseReady:
		form, ok := c.Schema()
		if !ok {
			return Page{}, fmt.Errorf("view: schema unavailable in %s", state.Phase)
		}
		section, err := b.Section(form, state)
		if err != nil {
			return Page{}, err
		}
		page.Kind = PageSection
		page.Title = form.Title
		page.Section = &section
	default:
		return Page{}, fmt.Errorf("view: unsupported phase %s", state.Phase)
	}
	return page, nil
}

func reasonMessage(r wizard.Reason) string {
	if r == wizard.ReasonNoSections {
		return "error.no_sections"
	}
	return "error.fetch_failed"
}

// Forward hands a navigation action to the controller. The returned result is
// the validation outcome of next and submit. Previous never validates and
// reports a valid result. ActionBackToLogin ends the session and belongs to
// the caller; Forward rejects it with ErrUnknownAction.
func Forward(ctx context.Context, c *wizard.Controller, action Action) (validation.SectionResult, error) {
	switch action {
	case ActionPrevious:
		return validation.SectionResult{Valid: true}, c.Dispatch(ctx, wizard.PreviousRequested{})
	case ActionNext:
		return c.Next()
	case ActionSubmit:
		return c.Submit(ctx)
	default:
		return validation.SectionResult{}, fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}
}
