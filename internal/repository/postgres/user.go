package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"inventrack-backend/internal/domain"
	"inventrack-backend/internal/repository"
)

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, username, email, password_hash, first_name, last_name, COALESCE(department, ''), role, is_active, last_login, created_on, updated_on`

func scanUser(row interface{ Scan(...any) error }) (*domain.User, error) {
	u := &domain.User{}
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName,
		&u.Department, &u.Role, &u.IsActive, &u.LastLogin, &u.CreatedOn, &u.UpdatedOn)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	query := `INSERT INTO users (username, email, password_hash, first_name, last_name, department, role, is_active, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9) RETURNING id`
	now := time.Now()
	err := r.db.QueryRowContext(ctx, query, u.Username, u.Email, u.PasswordHash, u.FirstName,
		u.LastName, u.Department, u.Role, u.IsActive, now).Scan(&u.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateKey
		}
		return err
	}
	u.CreatedOn = now
	u.UpdatedOn = now
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	u, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return u, err
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE lower(email) = lower($1)`
	u, err := scanUser(r.db.QueryRowContext(ctx, query, email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return u, err
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	u, err := scanUser(r.db.QueryRowContext(ctx, query, username))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return u, err
}

func (r *userRepository) Update(ctx context.Context, u *domain.User) error {
	query := `UPDATE users SET username=$1, email=$2, first_name=$3, last_name=$4, department=$5,
	          role=$6, is_active=$7, last_login=$8, updated_on=$9 WHERE id=$10`
	_, err := r.db.ExecContext(ctx, query, u.Username, u.Email, u.FirstName, u.LastName,
		u.Department, u.Role, u.IsActive, u.LastLogin, time.Now(), u.ID)
	if err != nil && isUniqueViolation(err) {
		return domain.ErrDuplicateKey
	}
	return err
}

func (r *userRepository) UpdatePassword(ctx context.Context, id int32, passwordHash string) error {
	query := `UPDATE users SET password_hash=$1, updated_on=$2 WHERE id=$3`
	_, err := r.db.ExecContext(ctx, query, passwordHash, time.Now(), id)
	return err
}

func (r *userRepository) List(ctx context.Context, f repository.UserFilter) ([]domain.User, int32, error) {
	where := ` WHERE 1=1`
	args := []interface{}{}
	argIdx := 1

	if f.Search != "" {
		where += fmt.Sprintf(" AND (username ILIKE $%d OR first_name ILIKE $%d OR last_name ILIKE $%d OR email ILIKE $%d)", argIdx, argIdx, argIdx, argIdx)
		args = append(args, "%"+f.Search+"%")
		argIdx++
	}
	if f.Role != "" {
		where += fmt.Sprintf(" AND role = $%d", argIdx)
		args = append(args, f.Role)
		argIdx++
	}
	if f.IsActive != nil {
		where += fmt.Sprintf(" AND is_active = $%d", argIdx)
		args = append(args, *f.IsActive)
		argIdx++
	}

	var count int32
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM users`+where, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + userColumns + ` FROM users` + where + orderClause(f.SortBy, f.SortDesc, map[string]string{
		"username": "username", "email": "email", "created_on": "created_on", "last_login": "last_login",
	})
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, pageLimit(f.PageSize), pageOffset(f.Page, f.PageSize))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, *u)
	}
	return users, count, rows.Err()
}

func (r *userRepository) ListActiveByEmailSuffix(ctx context.Context, suffix string) ([]domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE is_active = true AND lower(email) LIKE $1`
	rows, err := r.db.QueryContext(ctx, query, "%"+suffix)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}
