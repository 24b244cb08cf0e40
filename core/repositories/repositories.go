// Package repositories holds the errors shared by every repository and its
// stores.
package repositories

import "errors"

// Stores wrap these so repositories can match them with errors.Is.
var (
	ErrNotFound        = errors.New("record not found")
	ErrInvalidArgument = errors.New("invalid argument")
)
