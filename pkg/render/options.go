package render

// RenderOptions describe per-request data renderers can use without
// changing the template itself.
type RenderOptions struct {
	// Title heads the output, typically the workflow step.
	Title string
	// Candidate is the resolved candidate name, if any.
	Candidate string
	// Selected marks field ids as checked.
	Selected []string
	// Query is the active search filter, echoed for context.
	Query string
}
