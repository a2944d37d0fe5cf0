package domain

import (
	"errors"
	"fmt"
)

// ErrNoRecord is returned by repository lookups that match nothing.
var ErrNoRecord = errors.New("no matching record")

// StoreErrorKind classifies a constraint violation reported by the store.
type StoreErrorKind int

const (
	// StoreErrOther is any other error the store recognised as its own.
	StoreErrOther StoreErrorKind = iota
	StoreErrUnique
	// StoreErrRecordNotFound is a missing record on update or delete.
	StoreErrRecordNotFound
	StoreErrForeignKey
	// StoreErrRelation is a write that would break a required relation.
	StoreErrRelation
)

func (k StoreErrorKind) String() string {
	switch k {
	case StoreErrUnique:
		return "unique violation"
	case StoreErrRecordNotFound:
		return "record not found"
	case StoreErrForeignKey:
		return "foreign key violation"
	case StoreErrRelation:
		return "relation violation"
	default:
		return "store error"
	}
}

// StoreError is the typed failure storage adapters translate driver errors
// into. Field names the offending column or key when the driver reports it.
type StoreError struct {
	Kind  StoreErrorKind
	Field string
	Err   error
}

func (e *StoreError) Error() string {
	msg := "store: " + e.Kind.String()
	if e.Field != "" {
		msg += " on " + e.Field
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *StoreError) Unwrap() error { return e.Err }

// IsStoreKind reports whether err is a StoreError of the given kind.
func IsStoreKind(err error, kind StoreErrorKind) bool {
	var se *StoreError
	return errors.As(err, &se) && se.Kind == kind
}
