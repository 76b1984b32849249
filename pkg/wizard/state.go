package wizard

import (
	"github.com/goliatone/go-formwizard/pkg/model"
	"github.com/goliatone/go-formwizard/pkg/validation"
)

// Phase is the controller's coarse state.
type Phase int

const (
	PhaseLoading Phase = iota
	PhaseReady
	PhaseSubmitted
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	case PhaseSubmitted:
		return "submitted"
	case PhaseError:
		return "error"
	default:
		return "unknown"
	}
}

// Reason identifies why the controller entered PhaseError.
type Reason string

const (
	ReasonNone        Reason = ""
	ReasonFetchFailed Reason = "fetch_failed"
	ReasonNoSections  Reason = "no_sections"
)

// State is an immutable snapshot of the controller.
type State struct {
	Phase     Phase
	Index     int
	Count     int
	Errors    []validation.FieldError
	Submitted bool
	Reason    Reason
	Err       error
	Values    *model.ValueStore
}

// IsFirst reports whether the current section is the first.
func (s State) IsFirst() bool { return s.Index == 0 }

// IsLast reports whether the current section is the last.
func (s State) IsLast() bool { return s.Count > 0 && s.Index == s.Count-1 }

// ErrorFor returns the displayed error for fieldID.
func (s State) ErrorFor(fieldID string) (validation.FieldError, bool) {
	for _, err := range s.Errors {
		if err.FieldID == fieldID {
			return err, true
		}
	}
	return validation.FieldError{}, false
}
