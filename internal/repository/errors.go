package repository

import "errors"

// Store-error kinds. Implementations translate driver-specific constraint
// failures into these so that handlers can branch without importing pgconn.
var (
	// ErrDuplicate means a unique constraint was violated
	// (external subject id or username already taken).
	ErrDuplicate = errors.New("duplicate key")

	// ErrForeignKey means a referenced row does not exist.
	ErrForeignKey = errors.New("foreign key violation")
)
