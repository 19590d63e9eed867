package gorm

import (
	"errors"

	"github.com/jackc/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/taskhub/rbac/pkg/apperror"
	"github.com/taskhub/rbac/pkg/store"
)

// Ensure Store implements store.Store
var _ store.Store = (*Store)(nil)

// Store implements store.Store using GORM.
type Store struct {
	db *gorm.DB
}

// NewStore creates a new Store.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB returns the underlying GORM handle (for status checks and tests).
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Ping verifies database connectivity.
func (s *Store) Ping() error {
	return s.db.Exec("SELECT 1").Error
}

func (s *Store) Roles() store.RolesStore             { return &RolesStore{db: s.db} }
func (s *Store) Permissions() store.PermissionsStore { return &PermissionsStore{db: s.db} }
func (s *Store) Workflows() store.WorkflowsStore     { return &WorkflowsStore{db: s.db} }
func (s *Store) Overrides() store.OverridesStore     { return &OverridesStore{db: s.db} }

// Transaction wraps operations in a database transaction.
func (s *Store) Transaction(fn func(store.Store) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

// uniqueViolation is the PostgreSQL error code for unique constraint
// violations. Both pgx (GORM driver) and lib/pq error types are checked;
// which one surfaces depends on the connection in use.
const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolation
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == uniqueViolation
	}
	return false
}

// conflictOrInternal maps a write error to Conflict when the store rejected
// it on a uniqueness constraint, Internal otherwise.
func conflictOrInternal(err error, format string, args ...interface{}) error {
	if isUniqueViolation(err) {
		return apperror.Wrap(apperror.KindConflict, err, format, args...)
	}
	return apperror.Wrap(apperror.KindInternal, err, format, args...)
}
