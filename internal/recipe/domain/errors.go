package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures surfaced to callers.
type ErrorKind string

const (
	KindUnauthenticated     ErrorKind = "unauthenticated"
	KindForbidden           ErrorKind = "forbidden"
	KindNotFound            ErrorKind = "not_found"
	KindConflict            ErrorKind = "conflict"
	KindInvalidRelationship ErrorKind = "invalid_relationship"
	KindValidation          ErrorKind = "validation"
)

// UnauthenticatedMessage is the fixed message shown to anonymous callers of identity-scoped actions.
const UnauthenticatedMessage = "Authentication credentials were not provided"

// Error is a classified domain failure. Store errors never leak through it.
type Error struct {
	Kind    ErrorKind
	Message string
	Fields  map[string]string
}

func (e *Error) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Fields)
}

// Unauthenticated is returned when an actor is required but absent.
func Unauthenticated() *Error {
	return &Error{Kind: KindUnauthenticated, Message: UnauthenticatedMessage}
}

// Forbidden is returned when the actor may not modify the resource.
func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

// NotFound is returned when a referenced entity does not exist.
func NotFound(entity string) *Error {
	return &Error{Kind: KindNotFound, Message: entity + " not found"}
}

// Conflict covers uniqueness violations and "nothing to remove".
func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

// InvalidRelationship is returned for self-referencing relations.
func InvalidRelationship(message string) *Error {
	return &Error{Kind: KindInvalidRelationship, Message: message}
}

// Validation reports field constraint violations.
func Validation(message string, fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: message, Fields: fields}
}

// KindOf returns the kind of a domain error, or "" for anything else.
func KindOf(err error) ErrorKind {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Kind
	}
	return ""
}

// IsKind reports whether err is a domain error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}
