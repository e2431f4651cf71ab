package domain

import "fmt"

// The pipeline error taxonomy. All four are local to a single launch or
// trade operation; none is retried by the components that raise it.

// ValidationError reports a malformed LaunchRequest. It is raised before
// any network call.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid request: %s %s", e.Field, e.Reason)
}

// UploadError reports a failed asset or metadata push to the
// content-addressing service. It aborts the current launch only.
type UploadError struct {
	Kind string // "image" or "metadata"
	Err  error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload %s: %v", e.Kind, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

// ServiceError reports a non-success response from the launch service,
// including a missing transaction field.
type ServiceError struct {
	Operation  string // "create", "buy", "sell"
	StatusCode int    // 0 when the failure is not an HTTP status
	Message    string
}

func (e *ServiceError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("launch service %s: status %d: %s", e.Operation, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("launch service %s: %s", e.Operation, e.Message)
}

// SigningError reports a wallet capability failure after transaction
// construction. The unsigned transaction is discarded.
type SigningError struct {
	Err error
}

func (e *SigningError) Error() string {
	return fmt.Sprintf("wallet signing: %v", e.Err)
}

func (e *SigningError) Unwrap() error { return e.Err }
