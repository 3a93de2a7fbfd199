package accounts

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why an account operation failed.
type ErrorKind string

const (
	// KindRemote is any failure reported by the directory service.
	KindRemote ErrorKind = "remote"
	// KindCache is a failure of the cache backing the account store.
	KindCache ErrorKind = "cache"
	// KindNotFound is a miss on the cached lookup path.
	KindNotFound ErrorKind = "not_found"
	// KindInvalid is a rejected input or a malformed snapshot.
	KindInvalid ErrorKind = "invalid"
)

// Op names the operation that failed, it prefixes the error message.
type Op string

const (
	OpLoadAll         Op = "load account list"
	OpLoad            Op = "load account"
	OpAdd             Op = "add account"
	OpAddAlias        Op = "add alias"
	OpDelete          Op = "delete account"
	OpChangePassword  Op = "change password"
	OpClear           Op = "clear accounts"
	OpSaveSnapshot    Op = "save snapshot"
	OpRestoreSnapshot Op = "restore snapshot"
)

var (
	ErrAccountNotFound = errors.New("account not found")
)

// Error is returned by every Manager operation.
type Error struct {
	Op   Op
	Kind ErrorKind
	// Partial is set when the operation took effect in part before failing:
	// an account created without its alias, a bulk load that stopped after
	// some pages, or a snapshot restored without its undecodable records.
	Partial bool
	Err     error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return string(e.Op)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(op Op, kind ErrorKind, err error) *Error {
	return &Error{Op: op, Kind: kind, Err: err}
}

// KindOf returns the kind of err, or an empty kind when err is not an *Error.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsNotFound reports whether err is a cached lookup miss.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrAccountNotFound)
}

// IsPartial reports whether err describes an operation that took partial effect.
func IsPartial(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Partial
}
