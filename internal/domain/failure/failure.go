// Package failure classifies errors into the coarse buckets surfaced to users.
package failure

import (
	"context"
	"database/sql/driver"
	"errors"
	"net"
	"syscall"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Kind string

const (
	KindValidation       Kind = "validation"
	KindPermissionDenied Kind = "permission-denied"
	KindUnauthenticated  Kind = "unauthenticated"
	KindNetwork          Kind = "network"
	KindUnavailable      Kind = "unavailable"
	KindNotFound         Kind = "not-found"
	KindWrongCredential  Kind = "wrong-credential"
	KindEmailInUse       Kind = "email-in-use"
	KindWeakPassword     Kind = "weak-password"
	KindTooManyRequests  Kind = "too-many-requests"
	KindConflict         Kind = "conflict"
	KindUnknown          Kind = "unknown"
)

var messages = map[Kind]string{
	KindValidation:       "Please fill in all required fields correctly.",
	KindPermissionDenied: "You do not have permission to perform this action.",
	KindUnauthenticated:  "Please log in to continue.",
	KindNetwork:          "Network error. Please check your connection and try again.",
	KindUnavailable:      "The service is temporarily unavailable. Please try again later.",
	KindNotFound:         "The requested record was not found.",
	KindWrongCredential:  "Invalid email or password.",
	KindEmailInUse:       "An account with this email already exists.",
	KindWeakPassword:     "Password should be at least 6 characters.",
	KindTooManyRequests:  "Too many attempts. Please wait a moment and try again.",
	KindConflict:         "This record was changed by someone else. Reload it and try again.",
	KindUnknown:          "Something went wrong. Please try again.",
}

// Message returns the fixed user-facing sentence for k.
func Message(k Kind) string {
	if m, ok := messages[k]; ok {
		return m
	}
	return messages[KindUnknown]
}

// Error tags an underlying error with a Kind. Op names the failing operation.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Op != "" && e.Err != nil:
		return e.Op + ": " + e.Err.Error()
	case e.Err != nil:
		return e.Err.Error()
	case e.Op != "":
		return e.Op + ": " + string(e.Kind)
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Newf builds a tagged error from a plain message.
func Newf(kind Kind, op, msg string) *Error {
	return &Error{Kind: kind, Op: op, Err: errors.New(msg)}
}

// KindOf returns the Kind of the first *Error in err's chain, or KindUnknown.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindUnknown
}

// Is reports whether err carries kind k.
func Is(err error, k Kind) bool { return KindOf(err) == k }

// FromStore classifies a database or cache error. Already-tagged errors pass
// through untouched.
func FromStore(op string, err error) error {
	if err == nil {
		return nil
	}
	var fe *Error
	if errors.As(err, &fe) {
		return err
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound), errors.Is(err, redis.Nil):
		return New(KindNotFound, op, err)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return New(KindConflict, op, err)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return New(KindNetwork, op, err)
	case errors.Is(err, driver.ErrBadConn), errors.Is(err, syscall.ECONNREFUSED):
		return New(KindUnavailable, op, err)
	}
	var ne net.Error
	if errors.As(err, &ne) {
		if ne.Timeout() {
			return New(KindNetwork, op, err)
		}
		return New(KindUnavailable, op, err)
	}
	var oe *net.OpError
	if errors.As(err, &oe) {
		return New(KindUnavailable, op, err)
	}
	return New(KindUnknown, op, err)
}
