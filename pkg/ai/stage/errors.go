package stage

import "fmt"

// TemplateFetchError means the prompt store could not produce the named
// template (unknown name or store unreachable).
type TemplateFetchError struct {
	Template string
	Err      error
}

func (e *TemplateFetchError) Error() string {
	return fmt.Sprintf("failed to fetch template %s: %v", e.Template, e.Err)
}

func (e *TemplateFetchError) Unwrap() error {
	return e.Err
}

// ModelCallError covers everything that goes wrong talking to the backend:
// unreachable, timeout, or a reply that is not valid JSON.
type ModelCallError struct {
	Template string
	Err      error
}

func (e *ModelCallError) Error() string {
	return fmt.Sprintf("model call for template %s failed: %v", e.Template, e.Err)
}

func (e *ModelCallError) Unwrap() error {
	return e.Err
}
