package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestStoreErrClassification(t *testing.T) {
	assert.NoError(t, storeErr(nil))

	assert.ErrorIs(t, storeErr(gorm.ErrRecordNotFound), ErrNotFound)

	cause := errors.New("connection refused")
	err := storeErr(cause)
	assert.ErrorIs(t, err, ErrTransientFailure)
	// The underlying cause stays reachable for logging.
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrNotFound)
}
