// Package derive maps the current (step, assessment type, candidate name)
// onto a field template. Every function here is pure: the same input always
// yields the same template and nothing outside the return value changes.
package derive
