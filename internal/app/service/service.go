package service

import (
	"errors"

	"codeclash/internal/common"

	"github.com/google/uuid"
)

// failed attaches a client message to storage failures and leaves every
// other error kind untouched.
func failed(message string, err error) error {
	if errors.Is(err, common.ErrStorage) {
		return common.WithMessage(message, err)
	}
	return err
}

// isID reports whether s can be a row id. Malformed ids can never match a row.
func isID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
