package orderapi

import (
	"fmt"

	"github.com/polkiloo/storefront/internal/domain/model"
)

// StatusError reports an unexpected order service response.
type StatusError struct {
	Operation  string
	StatusCode int
	Status     string
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("order service %s: %s", e.Operation, e.Status)
}

// Temporary reports whether the failure is on the server side.
func (e *StatusError) Temporary() bool {
	return e.StatusCode >= 500
}

// ConflictError is returned by Redo when the service answers 409 with a
// reorder report describing why nothing could be reordered.
type ConflictError struct {
	Report *model.ReorderReport
}

func (e *ConflictError) Error() string {
	if e.Report == nil || e.Report.Message == "" {
		return "reorder conflict"
	}
	return "reorder conflict: " + e.Report.Message
}

// ConflictReport returns the report sent with the conflict.
func (e *ConflictError) ConflictReport() *model.ReorderReport {
	return e.Report
}
