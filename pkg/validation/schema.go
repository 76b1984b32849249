package validation

import (
	"context"
	"errors"

	"github.com/goliatone/go-formwizard/pkg/model"
	"github.com/goliatone/go-formwizard/pkg/schema"
)

// SchemaIssue represents a structural problem with optional location metadata.
type SchemaIssue struct {
	Path    string `json:"path,omitempty"`
	Message string `json:"message"`
}

// SchemaValidationResult captures the outcome of CheckSchema.
type SchemaValidationResult struct {
	Valid    bool             `json:"valid"`
	Title    string           `json:"title,omitempty"`
	Sections int              `json:"sections"`
	Fields   int              `json:"fields"`
	Issues   []SchemaIssue    `json:"issues,omitempty"`
	Form     model.FormSchema `json:"-"`
}

// CheckSchema decodes raw and reports every structural issue instead of
// stopping at the first one.
func CheckSchema(_ context.Context, src schema.Source, raw []byte) SchemaValidationResult {
	if src == nil {
		src = schema.SourceFromFS("schema.json")
	}
	doc, err := schema.NewDocument(src, raw)
	if err != nil {
		return failed(err)
	}
	form, err := doc.Decode()
	if err != nil {
		return failed(err)
	}
	return CheckForm(form)
}

// CheckForm reports the structural issues of an already decoded form.
func CheckForm(form model.FormSchema) SchemaValidationResult {
	result := SchemaValidationResult{
		Valid:    true,
		Title:    form.Title,
		Sections: len(form.Sections),
		Fields:   len(form.FieldIDs()),
		Form:     form,
	}
	err := form.Validate()
	if err == nil {
		return result
	}

	result.Valid = false
	var schemaErr *model.SchemaError
	if errors.As(err, &schemaErr) {
		for _, issue := range schemaErr.Issues {
			result.Issues = append(result.Issues, SchemaIssue{Path: issue.Path, Message: issue.Message})
		}
		return result
	}
	result.Issues = []SchemaIssue{{Message: err.Error()}}
	return result
}

func failed(err error) SchemaValidationResult {
	return SchemaValidationResult{Valid: false, Issues: []SchemaIssue{{Message: err.Error()}}}
}
