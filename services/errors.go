package services

import "errors"

// Sentinel errors returned by the service layer. Controllers translate them
// to HTTP status codes with errors.Is.
var (
	ErrNotFound            = errors.New("record not found")
	ErrUnauthorized        = errors.New("you do not have permission to perform this action")
	ErrInvalidDependency   = errors.New("a task cannot depend on itself")
	ErrBlockedByDependency = errors.New("task is blocked by incomplete dependencies")
	ErrNestedSubtask       = errors.New("subtasks cannot be nested")
	ErrInvalidStatus       = errors.New("invalid status value")
	ErrInvalidPriority     = errors.New("invalid priority value")
)
