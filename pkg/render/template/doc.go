// Package template wraps a pongo2 template set behind TemplateRenderer. It is
// used for the plain-text template output and the user-facing message
// catalog.
package template
