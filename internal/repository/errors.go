// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as handlers
// to distinguish between different failure scenarios. Uniqueness sentinels
// are produced by mapping MySQL duplicate-key errors (code 1062), so the
// guarantees hold under concurrent requests: the UNIQUE keys in the schema
// decide the winner, not an application-level pre-check.
package repository

import (
	"errors"
	"strings"
)

// ErrUsernameExists is returned when inserting a user whose username is
// already taken (case-sensitive exact match).
var ErrUsernameExists = errors.New("username already exists")

// ErrEmailExists is returned when inserting a user whose email is already
// registered (case-sensitive exact match).
var ErrEmailExists = errors.New("email already exists")

// ErrCarExists is returned when registering a car whose plate number is
// already present.
var ErrCarExists = errors.New("car already exists")

// ErrPaymentExists is returned when inserting a payment for a service
// record that already has one. The payments.record_number UNIQUE key makes
// this race-safe: of two concurrent creates exactly one succeeds.
var ErrPaymentExists = errors.New("payment for this service record already exists")

// ErrConflict is returned when a delete cannot be performed because of
// conflicting state, such as deleting a service record that has a payment.
// Handlers translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")

// isChildRowConstraint reports whether err is a MySQL restrict error
// (code 1451): the row cannot be deleted because child rows still
// reference it.
func isChildRowConstraint(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1451")
}

// isDuplicateKey reports whether err is a MySQL duplicate-entry error
// (code 1062) on the given key name. An empty key matches any duplicate.
func isDuplicateKey(err error, key string) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	if !strings.Contains(msg, "1062") {
		return false
	}
	return key == "" || strings.Contains(msg, key)
}
