package genre

import "fmt"

// UnknownGenreError means a ring lookup used a name outside the catalog. This is a data or config bug.
type UnknownGenreError struct {
	Name       string
	Suggestion string // closest known name, may be empty
}

func (e *UnknownGenreError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("unknown genre %q (did you mean %q?)", e.Name, e.Suggestion)
	}
	return fmt.Sprintf("unknown genre %q", e.Name)
}

// ResourceLoadError wraps a missing or malformed tendency source.
type ResourceLoadError struct {
	Source string
	Err    error
}

func (e *ResourceLoadError) Error() string {
	return fmt.Sprintf("load genre tendencies from %s: %v", e.Source, e.Err)
}

func (e *ResourceLoadError) Unwrap() error { return e.Err }
