package container

import (
	"errors"
	"fmt"
	"strings"
)

// ── Error kinds ───────────────────────────────────────────────────────────────

// EntryNotFoundError is returned whenever a lookup assertion fails: Get on an
// unregistered identifier, or Alias/BindInterface targeting one.
type EntryNotFoundError struct {
	ID string
}

func (e *EntryNotFoundError) Error() string {
	return fmt.Sprintf("container: no entry registered for [%s]", e.ID)
}

// ContainerError is returned for structural failures: an invalid interface
// binding target, an unnormalizable callable, an identifier that names no
// constructible type, an undefined method, or a bound callable that fails
// when invoked. Cause carries the underlying failure where one exists.
type ContainerError struct {
	Op      string // failing operation: "get", "make", "call", "bind-interface"
	ID      string // offending identifier or parameter name, if any
	Message string
	Cause   error
}

func (e *ContainerError) Error() string {
	var b strings.Builder
	b.WriteString("container: ")
	b.WriteString(e.Op)
	if e.ID != "" {
		fmt.Fprintf(&b, " [%s]", e.ID)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

func (e *ContainerError) Unwrap() error { return e.Cause }

// ── Helpers ───────────────────────────────────────────────────────────────────

// IsNotFound reports whether err is an EntryNotFoundError.
func IsNotFound(err error) bool {
	var e *EntryNotFoundError
	return errors.As(err, &e)
}

// IsContainerError reports whether err is a ContainerError.
func IsContainerError(err error) bool {
	var e *ContainerError
	return errors.As(err, &e)
}

func notFound(id string) error {
	return &EntryNotFoundError{ID: id}
}

func containerErr(op, id, message string, cause error) error {
	return &ContainerError{Op: op, ID: id, Message: message, Cause: cause}
}
