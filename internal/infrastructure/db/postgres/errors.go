package postgres

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/buildtrack/procurement-api/internal/core/domain"
)

var (
	// reKeyField extracts the column from "Key (field)=(value) already exists.".
	reKeyField = regexp.MustCompile(`Key \(([^)]+)\)=`)
	// reReferencedFrom detects a parent still referenced by children.
	reReferencedFrom = regexp.MustCompile(`is still referenced from table`)
)

// translateError maps pgx errors onto the domain store errors. Errors the
// driver does not own are wrapped unchanged.
func translateError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNoRecord
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return &domain.StoreError{Kind: pgErrorKind(pgErr), Field: pgErrorField(pgErr), Err: fmt.Errorf("%s: %w", op, err)}
	}

	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) || pgconn.Timeout(err) {
		return &domain.StoreError{Kind: domain.StoreErrOther, Err: fmt.Errorf("%s: %w", op, err)}
	}
	return fmt.Errorf("%s: %w", op, err)
}

func pgErrorKind(pgErr *pgconn.PgError) domain.StoreErrorKind {
	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		return domain.StoreErrUnique
	case pgerrcode.ForeignKeyViolation:
		// Deleting or re-keying a parent that still has children breaks a
		// relation; inserting a child with a missing parent is a foreign key error.
		if reReferencedFrom.MatchString(pgErr.Detail) {
			return domain.StoreErrRelation
		}
		return domain.StoreErrForeignKey
	case pgerrcode.RestrictViolation:
		return domain.StoreErrRelation
	case pgerrcode.NoData:
		return domain.StoreErrRecordNotFound
	default:
		return domain.StoreErrOther
	}
}

// pgErrorField prefers the column metadata, then the Detail message, then
// the constraint name ("users_email_key" -> "email").
func pgErrorField(pgErr *pgconn.PgError) string {
	if pgErr.ColumnName != "" {
		return pgErr.ColumnName
	}
	if m := reKeyField.FindStringSubmatch(pgErr.Detail); len(m) == 2 {
		return m[1]
	}
	name := pgErr.ConstraintName
	if pgErr.TableName != "" {
		name = strings.TrimPrefix(name, pgErr.TableName+"_")
	}
	for _, suffix := range []string{"_key", "_fkey", "_pkey"} {
		name = strings.TrimSuffix(name, suffix)
	}
	return name
}
