package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies every failure surfaced by the manager layer.
type ErrorKind string

const (
	KindStorageOpen             ErrorKind = "StorageOpenError"
	KindStorageWrite            ErrorKind = "StorageWriteError"
	KindStorageRead             ErrorKind = "StorageReadError"
	KindQueryExecution          ErrorKind = "QueryExecutionError"
	KindNoCurrentDatabase       ErrorKind = "NoCurrentDatabaseError"
	KindInvalidEndpoint         ErrorKind = "InvalidEndpointError"
	KindReplicatorNotConfigured ErrorKind = "ReplicatorNotConfiguredError"
	KindMissingSessionID        ErrorKind = "MissingSessionIdError"
	KindAlreadyRunning          ErrorKind = "AlreadyRunningError"
	KindInvalidDirection        ErrorKind = "InvalidDirectionError"
	KindReplication             ErrorKind = "ReplicationError"
	KindInvalidArgument         ErrorKind = "InvalidArgumentError"
	KindUnknownMethod           ErrorKind = "UnknownMethodError"
)

// Sentinels for errors.Is. Any *Error with the same Kind matches.
var (
	ErrStorageOpen             = &Error{Kind: KindStorageOpen}
	ErrStorageWrite            = &Error{Kind: KindStorageWrite}
	ErrStorageRead             = &Error{Kind: KindStorageRead}
	ErrQueryExecution          = &Error{Kind: KindQueryExecution}
	ErrNoCurrentDatabase       = &Error{Kind: KindNoCurrentDatabase}
	ErrInvalidEndpoint         = &Error{Kind: KindInvalidEndpoint}
	ErrReplicatorNotConfigured = &Error{Kind: KindReplicatorNotConfigured}
	ErrMissingSessionID        = &Error{Kind: KindMissingSessionID}
	ErrAlreadyRunning          = &Error{Kind: KindAlreadyRunning}
	ErrInvalidDirection        = &Error{Kind: KindInvalidDirection}
	ErrReplication             = &Error{Kind: KindReplication}
	ErrInvalidArgument         = &Error{Kind: KindInvalidArgument}
	ErrUnknownMethod           = &Error{Kind: KindUnknownMethod}
)

// Error is a typed failure carrying its kind, the operation that failed
// and a human-readable message.
//
// The underlying engine error (if any) can be accessed via errors.Unwrap.
type Error struct {
	Kind    ErrorKind
	Op      string
	Message string
	Err     error
}

// NewError builds an *Error.
func NewError(kind ErrorKind, op, message string, err error) *Error {
	return &Error{Kind: kind, Op: op, Message: message, Err: err}
}

// Errorf builds an *Error with a formatted message and no cause.
func Errorf(kind ErrorKind, op, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Op: op, Message: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// KindOf returns the kind of the first *Error in err's chain, or "".
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
