package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-formwizard"
	"github.com/goliatone/go-formwizard/pkg/schema"
	"github.com/goliatone/go-formwizard/pkg/validation"
)

var errInvalidSchema = errors.New("schema is invalid")

var (
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#16a34a")).Bold(true)
	failStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#dc2626")).Bold(true)
	pathStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#f97316"))
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280"))
)

type checkFlags struct {
	openapi     bool
	operationID string
	asJSON      bool
}

func checkCmd(flags *rootFlags) *cobra.Command {
	cf := &checkFlags{}

	cmd := &cobra.Command{
		Use:   "check <source>",
		Short: "Check a form schema for structural problems",
		Long: "Check loads a schema from a file path, an http(s) URL or an fs: name and\n" +
			"reports every structural issue. OpenAPI documents are converted first.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.loadConfig()
			if err != nil {
				return err
			}
			src, err := schema.ParseSource(args[0])
			if err != nil {
				return err
			}
			loader := formwizard.NewLoader(schema.WithHTTPFallback(cfg.API.Timeout.Duration))
			doc, err := loader.Load(cmd.Context(), src)
			if err != nil {
				return err
			}

			var result validation.SchemaValidationResult
			if cf.openapi {
				form, err := schema.FromOpenAPI(cmd.Context(), doc, cf.operationID)
				if err != nil {
					result = validation.SchemaValidationResult{Issues: []validation.SchemaIssue{{Message: err.Error()}}}
				} else {
					result = validation.CheckForm(form)
				}
			} else {
				result = validation.CheckSchema(cmd.Context(), src, doc.Raw())
			}

			out := cmd.OutOrStdout()
			if cf.asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(result); err != nil {
					return err
				}
			} else {
				writeCheckResult(out, doc.Location(), result)
			}
			if !result.Valid {
				return errInvalidSchema
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&cf.openapi, "openapi", false, "Treat the source as an OpenAPI document")
	cmd.Flags().StringVar(&cf.operationID, "operation", "", "OpenAPI operation id (required when the document has several operations)")
	cmd.Flags().BoolVar(&cf.asJSON, "json", false, "Print the result as JSON")
	return cmd
}

func writeCheckResult(w io.Writer, location string, result validation.SchemaValidationResult) {
	if result.Valid {
		fmt.Fprintf(w, "%s %s\n", okStyle.Render("ok"), location)
		fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf("  %q: %d sections, %d fields", result.Title, result.Sections, result.Fields)))
		return
	}
	fmt.Fprintf(w, "%s %s\n", failStyle.Render("invalid"), location)
	for _, issue := range result.Issues {
		if issue.Path != "" {
			fmt.Fprintf(w, "  %s %s\n", pathStyle.Render(issue.Path), issue.Message)
			continue
		}
		fmt.Fprintf(w, "  %s\n", issue.Message)
	}
}
