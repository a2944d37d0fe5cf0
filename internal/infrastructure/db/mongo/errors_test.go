package mongo

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/buildtrack/procurement-api/internal/core/domain"
)

func TestTranslateError(t *testing.T) {
	dup := mongo.WriteException{WriteErrors: mongo.WriteErrors{{
		Code:    11000,
		Message: "E11000 duplicate key error collection: procurement.users index: username_unique dup key: { username: \"admin\" }",
	}}}

	err := translateError("insert user", dup)
	var se *domain.StoreError
	if assert.ErrorAs(t, err, &se) {
		assert.Equal(t, domain.StoreErrUnique, se.Kind)
		assert.Equal(t, "username", se.Field)
	}

	assert.ErrorIs(t, translateError("find user", mongo.ErrNoDocuments), domain.ErrNoRecord)

	cmdErr := mongo.CommandError{Code: 13, Message: "not authorized"}
	assert.True(t, domain.IsStoreKind(translateError("find user", cmdErr), domain.StoreErrOther))

	plain := translateError("find user", context.Canceled)
	assert.ErrorIs(t, plain, context.Canceled)
	assert.False(t, errors.As(plain, &se))

	assert.NoError(t, translateError("noop", nil))
}

func TestDuplicateField(t *testing.T) {
	assert.Equal(t, "email", duplicateField(errors.New("E11000 duplicate key error collection: x.users index: email_unique dup key")))
	assert.Equal(t, "code", duplicateField(errors.New("E11000 duplicate key error collection: x.projects index: code_unique dup key")))
	assert.Equal(t, "", duplicateField(errors.New("E11000 duplicate key")))
}
