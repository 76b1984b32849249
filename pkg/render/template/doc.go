// Package template defines the template engine contract used by the HTML
// renderer; gotemplate provides the pongo2 implementation.
package template
