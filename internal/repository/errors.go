package repository

import "errors"

// ErrNotFound is returned when an operation targets a row that no longer
// exists, e.g. an item deleted by a concurrent request.
var ErrNotFound = errors.New("record not found")
