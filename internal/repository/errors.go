package repository

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrDuplicate reports a unique constraint violation
var ErrDuplicate = errors.New("repository: duplicate key")

// isDuplicateKey recognizes unique violations whether or not the dialect translated them
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint")
}
