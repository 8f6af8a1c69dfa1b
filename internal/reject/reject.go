// Package reject defines the shared rejection vocabulary for the query
// validation pipeline. A query is either fully accepted (nil error) or fully
// rejected with a Rejection carrying a machine-readable reason code and a
// human-readable message, never partially applied.
package reject

import (
	"errors"
	"fmt"
)

// Reason is a machine-readable rejection code.
type Reason string

const (
	NotASelect         Reason = "NOT_A_SELECT"
	DangerousKeyword   Reason = "DANGEROUS_KEYWORD"
	MissingFrom        Reason = "MISSING_FROM"
	InvalidIdentifier  Reason = "INVALID_IDENTIFIER"
	MissingOwnerPrefix Reason = "MISSING_OWNER_PREFIX"
	UnauthorizedOwner  Reason = "UNAUTHORIZED_OWNER"
	LimitExceedsCeiling Reason = "LIMIT_EXCEEDS_CEILING"
)

// Rejection is a validation rejection. It is detected before any database
// call and is never fatal to the host process.
type Rejection struct {
	Reason  Reason
	Message string
}

func (r *Rejection) Error() string {
	return fmt.Sprintf("%s: %s", r.Reason, r.Message)
}

// New creates a Rejection with a formatted message.
func New(reason Reason, format string, args ...interface{}) *Rejection {
	return &Rejection{Reason: reason, Message: fmt.Sprintf(format, args...)}
}

// ReasonOf extracts the rejection reason from err, or "" if err is not a
// Rejection.
func ReasonOf(err error) Reason {
	var r *Rejection
	if errors.As(err, &r) {
		return r.Reason
	}
	return ""
}
