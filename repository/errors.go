package repository

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrLineNotFound      = errors.New("line not found")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrCheckoutConflict  = errors.New("cart changed during checkout")
	ErrDuplicateReview   = errors.New("review already exists for this user and boardgame")
	ErrDuplicateName     = errors.New("name already exists")
	ErrBoardgameNotFound = errors.New("boardgame not found")
	ErrInUse             = errors.New("record is referenced by existing orders")
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// IsUniqueViolation reports whether err came from a unique index.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, pgUniqueViolation)
}

// IsForeignKeyViolation reports whether err came from a foreign key.
func IsForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgForeignKeyViolation
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "foreign key") || strings.Contains(msg, pgForeignKeyViolation)
}
