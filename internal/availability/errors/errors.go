package errors

import "errors"

var (
	ErrNotFound = errors.New("availability window not found")

	ErrInvalidID = errors.New("invalid availability ID format")
)
