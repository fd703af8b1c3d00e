package postgres

import (
	"database/sql"
	"errors"

	"inventrack-backend/internal/repository"

	"github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.UserRepository
	repository.ResourceRepository
	repository.TransactionRepository
	repository.ActivityRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                    db,
		UserRepository:        NewUserRepository(db),
		ResourceRepository:    NewResourceRepository(db),
		TransactionRepository: NewTransactionRepository(db),
		ActivityRepository:    NewActivityRepository(db),
	}
}

// isUniqueViolation reports whether err is a Postgres unique constraint error.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}
