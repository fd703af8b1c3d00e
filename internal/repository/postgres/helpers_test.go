package postgres_test

import "github.com/lib/pq"

func uniqueViolation() error {
	return &pq.Error{Code: "23505"}
}
