package api

import (
	"errors"
	"fmt"
)

// NotFoundError reports a named resource (a workflow, a run) that does not
// exist.
type NotFoundError struct {
	// ResourceType is the kind of resource, e.g. "workflow" or "run"
	ResourceType string
	ResourceName string
	// Message replaces the default message when set
	Message string
}

func (e *NotFoundError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s %q not found", e.ResourceType, e.ResourceName)
}

// IsNotFound reports whether err is or wraps a NotFoundError.
//
//	if _, err := lookup(name); api.IsNotFound(err) {
//	    // offer the available names
//	}
func IsNotFound(err error) bool {
	var notFoundErr *NotFoundError
	return errors.As(err, &notFoundErr)
}

// NewNotFoundError creates a NotFoundError for the given resource.
func NewNotFoundError(resourceType, resourceName string) *NotFoundError {
	return &NotFoundError{ResourceType: resourceType, ResourceName: resourceName}
}

// NewWorkflowNotFoundError creates a NotFoundError for a workflow name.
func NewWorkflowNotFoundError(name string) *NotFoundError {
	return NewNotFoundError("workflow", name)
}
