package repositories

import "errors"

// ErrNotFound is returned when a query matches no record.
// Callers match it with errors.Is and translate it to their own error kinds.
var ErrNotFound = errors.New("record not found")
