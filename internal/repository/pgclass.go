package repository

import (
	"context"
	"database/sql/driver"
	"errors"
	"net"

	"github.com/lib/pq"

	appErrors "github.com/talentdesk/intake-api/pkg/errors"
)

// Postgres error codes relevant to the intake pipeline. Classification is
// by code, never by matching message text.
const (
	pgUniqueViolation  = "23505"
	pgInvalidAuthSpec  = "28000"
	pgInvalidPassword  = "28P01"
	pgTooManyConns     = "53300"
	pgCannotConnectNow = "57P03"
	pgAdminShutdown    = "57P01"
)

// isUniqueViolation reports whether the error is a unique-constraint
// violation, optionally restricted to one named constraint.
func isUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	if string(pqErr.Code) != pgUniqueViolation {
		return false
	}
	return constraint == "" || pqErr.Constraint == constraint
}

// classifyStoreError maps low-level persistence failures into the error
// taxonomy. Unrecognized errors fall through to the internal bucket.
func classifyStoreError(err error) *appErrors.Error {
	if err == nil {
		return nil
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case pgInvalidAuthSpec, pgInvalidPassword:
			return storeFailure(appErrors.ErrStoreUnauthorized, err)
		case pgTooManyConns, pgCannotConnectNow, pgAdminShutdown:
			return storeFailure(appErrors.ErrStoreUnavailable, err)
		case pgUniqueViolation:
			return storeFailure(appErrors.ErrConflict, err)
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) ||
		errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, context.DeadlineExceeded) {
		return storeFailure(appErrors.ErrStoreUnavailable, err)
	}

	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "datastore operation failed")
}

// storeFailure copies the sentinel, keeping its remediation hint, and
// attaches the underlying cause.
func storeFailure(base *appErrors.Error, err error) *appErrors.Error {
	failure := appErrors.Clone(base, "")
	failure.Err = err
	return failure
}
