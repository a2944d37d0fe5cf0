package mongo

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/buildtrack/procurement-api/internal/core/domain"
)

// reDupIndex extracts the index name from an E11000 message:
// "E11000 duplicate key error collection: db.users index: email_unique dup key: ...".
var reDupIndex = regexp.MustCompile(`index: (\S+)`)

// translateError maps driver errors onto the domain store errors. Errors the
// driver does not own (context cancellation, programming errors) are wrapped
// unchanged.
func translateError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.ErrNoRecord
	}
	if mongo.IsDuplicateKeyError(err) {
		return &domain.StoreError{Kind: domain.StoreErrUnique, Field: duplicateField(err), Err: err}
	}

	var serverErr mongo.ServerError
	if errors.As(err, &serverErr) || mongo.IsNetworkError(err) || mongo.IsTimeout(err) {
		return &domain.StoreError{Kind: domain.StoreErrOther, Err: fmt.Errorf("%s: %w", op, err)}
	}
	return fmt.Errorf("%s: %w", op, err)
}

// duplicateField derives the offending field from the unique index name;
// indexes are named "<field>_unique".
func duplicateField(err error) string {
	m := reDupIndex.FindStringSubmatch(err.Error())
	if len(m) != 2 {
		return ""
	}
	return strings.TrimSuffix(m[1], "_unique")
}
