package project

import "fmt"

// NotFoundError is returned when the input spec does not exist or is not a regular file.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("spec file not found: %s", e.Path)
}

// SetupError wraps a filesystem failure while bootstrapping the project layout.
type SetupError struct {
	Op   string
	Path string
	Err  error
}

func (e *SetupError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("setup failed: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("setup failed: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *SetupError) Unwrap() error {
	return e.Err
}
