package repositories

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"

	"gorm.io/gorm"
)

// Store error kinds. Repository errors wrap exactly one of these so callers
// can branch with errors.Is without inspecting driver errors.
var (
	ErrNotFound          = errors.New("record not found")
	ErrDuplicate         = errors.New("duplicate record")
	ErrInUse             = errors.New("record is still referenced")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrTransient         = errors.New("store temporarily unavailable")
)

// storeError wraps err with the kind it belongs to. The database must be
// opened with gorm.Config{TranslateError: true} for duplicates to be detected.
func storeError(op string, err error) error {
	if kind := classify(err); kind != nil {
		return fmt.Errorf("%s: %w: %w", op, kind, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func classify(err error) error {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrDuplicate), errors.Is(err, ErrInUse),
		errors.Is(err, ErrInsufficientStock), errors.Is(err, ErrTransient):
		return nil // already classified
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return ErrInUse
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, driver.ErrBadConn), errors.Is(err, sql.ErrConnDone):
		return ErrTransient
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return ErrTransient
	}
	return nil
}
