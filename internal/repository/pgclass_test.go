package repository

import (
	"context"
	"database/sql/driver"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	appErrors "github.com/talentdesk/intake-api/pkg/errors"
)

func TestIsUniqueViolation(t *testing.T) {
	err := &pq.Error{Code: "23505", Constraint: "applications_email_key"}
	assert.True(t, isUniqueViolation(err, "applications_email_key"))
	assert.True(t, isUniqueViolation(err, ""))
	assert.False(t, isUniqueViolation(err, "other_constraint"))
	assert.False(t, isUniqueViolation(fmt.Errorf("plain"), ""))
	assert.False(t, isUniqueViolation(&pq.Error{Code: "23503"}, ""))
}

func TestClassifyStoreError(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantCode   string
		wantStatus int
	}{
		{"auth spec", &pq.Error{Code: "28000"}, "STORE_UNAVAILABLE", 401},
		{"bad password", &pq.Error{Code: "28P01"}, "STORE_UNAVAILABLE", 401},
		{"too many conns", &pq.Error{Code: "53300"}, "STORE_UNAVAILABLE", 503},
		{"shutting down", &pq.Error{Code: "57P01"}, "STORE_UNAVAILABLE", 503},
		{"unique violation", &pq.Error{Code: "23505"}, "CONFLICT", 409},
		{"bad conn", driver.ErrBadConn, "STORE_UNAVAILABLE", 503},
		{"deadline", context.DeadlineExceeded, "STORE_UNAVAILABLE", 503},
		{"unknown", fmt.Errorf("boom"), "INTERNAL_ERROR", 500},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := classifyStoreError(tc.err)
			assert.Equal(t, tc.wantCode, got.Code)
			assert.Equal(t, tc.wantStatus, got.Status)
		})
	}

	assert.Nil(t, classifyStoreError(nil))
}

func TestClassifyStoreErrorKeepsHint(t *testing.T) {
	unavailable := classifyStoreError(&pq.Error{Code: "53300"})
	assert.Equal(t, appErrors.ErrStoreUnavailable.Hint, unavailable.Hint)
	assert.NotEmpty(t, unavailable.Hint)

	unauthorized := classifyStoreError(&pq.Error{Code: "28P01"})
	assert.Equal(t, appErrors.ErrStoreUnauthorized.Hint, unauthorized.Hint)
	assert.NotEmpty(t, unauthorized.Hint)

	assert.Equal(t, appErrors.ErrStoreUnavailable.Hint, classifyStoreError(driver.ErrBadConn).Hint)
}
