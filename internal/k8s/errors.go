package k8s

import (
	"context"
	"errors"
	"fmt"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
)

var (
	// ErrOperationNotAllowed is returned when a mutating operation is refused
	// by the client's safety settings.
	ErrOperationNotAllowed = errors.New("operation not allowed")

	// ErrNamespaceRestricted is returned when a namespace is on the
	// restricted list.
	ErrNamespaceRestricted = errors.New("namespace is restricted")
)

// FailureKind classifies a cluster API failure.
type FailureKind string

const (
	FailureNotFound      FailureKind = "NotFound"
	FailureForbidden     FailureKind = "Forbidden"
	FailureUnauthorized  FailureKind = "Unauthorized"
	FailureConflict      FailureKind = "Conflict"
	FailureAlreadyExists FailureKind = "AlreadyExists"
	FailureInvalid       FailureKind = "Invalid"
	FailureTimeout       FailureKind = "Timeout"
	FailureTransport     FailureKind = "Transport"
	FailureAPI           FailureKind = "APIError"
)

// ClusterAPIError describes a failed round trip to the cluster API.
type ClusterAPIError struct {
	// Operation is the client operation that failed, e.g. "get".
	Operation string
	// Resource is the resource kind, e.g. "pod".
	Resource  string
	Namespace string
	Name      string

	Kind    FailureKind
	Code    int32
	Reason  string
	Message string

	Err error
}

func (e *ClusterAPIError) Error() string {
	target := e.Resource
	switch {
	case e.Namespace != "" && e.Name != "":
		target = fmt.Sprintf("%s %s/%s", e.Resource, e.Namespace, e.Name)
	case e.Name != "":
		target = fmt.Sprintf("%s %s", e.Resource, e.Name)
	case e.Namespace != "":
		target = fmt.Sprintf("%s in namespace %s", e.Resource, e.Namespace)
	}

	if e.Code != 0 {
		return fmt.Sprintf("failed to %s %s: %s (%d): %s", e.Operation, target, e.Kind, e.Code, e.Message)
	}
	return fmt.Sprintf("failed to %s %s: %s: %s", e.Operation, target, e.Kind, e.Message)
}

func (e *ClusterAPIError) Unwrap() error {
	return e.Err
}

// newClusterAPIError wraps err with the operation context. A nil err yields
// nil, and an existing ClusterAPIError is returned unchanged.
func newClusterAPIError(operation, resource, namespace, name string, err error) error {
	if err == nil {
		return nil
	}

	var existing *ClusterAPIError
	if errors.As(err, &existing) {
		return err
	}

	apiErr := &ClusterAPIError{
		Operation: operation,
		Resource:  resource,
		Namespace: namespace,
		Name:      name,
		Kind:      classify(err),
		Message:   err.Error(),
		Err:       err,
	}

	var status apierrors.APIStatus
	if errors.As(err, &status) {
		s := status.Status()
		apiErr.Code = s.Code
		apiErr.Reason = string(s.Reason)
		if s.Message != "" {
			apiErr.Message = s.Message
		}
	}

	return apiErr
}

func classify(err error) FailureKind {
	switch {
	case apierrors.IsNotFound(err):
		return FailureNotFound
	case apierrors.IsForbidden(err):
		return FailureForbidden
	case apierrors.IsUnauthorized(err):
		return FailureUnauthorized
	case apierrors.IsAlreadyExists(err):
		return FailureAlreadyExists
	case apierrors.IsConflict(err):
		return FailureConflict
	case apierrors.IsInvalid(err), apierrors.IsBadRequest(err):
		return FailureInvalid
	case apierrors.IsTimeout(err), apierrors.IsServerTimeout(err), errors.Is(err, context.DeadlineExceeded):
		return FailureTimeout
	}

	var status apierrors.APIStatus
	if errors.As(err, &status) {
		return FailureAPI
	}
	return FailureTransport
}

// FailureKindOf returns the failure kind of err, or the empty string when
// err is not a ClusterAPIError.
func FailureKindOf(err error) FailureKind {
	var apiErr *ClusterAPIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return ""
}

// IsNotFound reports whether err is a cluster not-found failure.
func IsNotFound(err error) bool {
	return FailureKindOf(err) == FailureNotFound
}

// IsForbidden reports whether err is a cluster authorization failure.
func IsForbidden(err error) bool {
	kind := FailureKindOf(err)
	return kind == FailureForbidden || kind == FailureUnauthorized
}

// ValidationError reports malformed or missing input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NewValidationError creates a ValidationError.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidationError reports whether err is a ValidationError.
func IsValidationError(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

func requireField(field, value string) error {
	if value == "" {
		return NewValidationError(field, "is required")
	}
	return nil
}

func requireTarget(namespace, name string) error {
	if err := requireField("namespace", namespace); err != nil {
		return err
	}
	return requireField("name", name)
}
