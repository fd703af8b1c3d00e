package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"inventrack-backend/internal/domain"
	"inventrack-backend/internal/repository"
)

type activityRepository struct {
	db *sql.DB
}

func NewActivityRepository(db *sql.DB) repository.ActivityRepository {
	return &activityRepository{db: db}
}

const activityColumns = `id, user_id, resource_id, transaction_id, target_user_id, action,
	COALESCE(details, ''), COALESCE(ip_address, ''), COALESCE(user_agent, ''), severity, category,
	metadata, is_successful, COALESCE(error_message, ''), created_on`

func (r *activityRepository) Create(ctx context.Context, entry *domain.ActivityLog) error {
	var metadata []byte
	if len(entry.Metadata) > 0 {
		var err error
		metadata, err = json.Marshal(entry.Metadata)
		if err != nil {
			return err
		}
	}
	query := `INSERT INTO activity_logs (user_id, resource_id, transaction_id, target_user_id, action,
	          details, ip_address, user_agent, severity, category, metadata, is_successful,
	          error_message, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	          RETURNING id`
	now := time.Now()
	err := r.db.QueryRowContext(ctx, query, entry.UserID, entry.ResourceID, entry.TransactionID,
		entry.TargetUserID, entry.Action, entry.Details, entry.IPAddress, entry.UserAgent,
		entry.Severity, entry.Category, metadata, entry.IsSuccessful, entry.ErrorMessage,
		now).Scan(&entry.ID)
	if err != nil {
		return err
	}
	entry.CreatedOn = now
	return nil
}

func (r *activityRepository) List(ctx context.Context, f repository.ActivityFilter) ([]domain.ActivityLog, error) {
	where := ` WHERE 1=1`
	args := []interface{}{}
	argIdx := 1

	if f.UserID != 0 {
		where += fmt.Sprintf(" AND user_id = $%d", argIdx)
		args = append(args, f.UserID)
		argIdx++
	}
	if f.ResourceID != 0 {
		where += fmt.Sprintf(" AND resource_id = $%d", argIdx)
		args = append(args, f.ResourceID)
		argIdx++
	}
	if f.Category != "" {
		where += fmt.Sprintf(" AND category = $%d", argIdx)
		args = append(args, f.Category)
		argIdx++
	}
	if f.Action != "" {
		where += fmt.Sprintf(" AND action = $%d", argIdx)
		args = append(args, f.Action)
		argIdx++
	}
	if f.Severity != "" {
		where += fmt.Sprintf(" AND severity = $%d", argIdx)
		args = append(args, f.Severity)
		argIdx++
	}
	if f.From != nil {
		where += fmt.Sprintf(" AND created_on >= $%d", argIdx)
		args = append(args, *f.From)
		argIdx++
	}
	if f.To != nil {
		where += fmt.Sprintf(" AND created_on <= $%d", argIdx)
		args = append(args, *f.To)
		argIdx++
	}

	limit := f.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	query := `SELECT ` + activityColumns + ` FROM activity_logs` + where +
		fmt.Sprintf(" ORDER BY created_on DESC LIMIT $%d", argIdx)
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.ActivityLog
	for rows.Next() {
		var entry domain.ActivityLog
		var metadata []byte
		err := rows.Scan(&entry.ID, &entry.UserID, &entry.ResourceID, &entry.TransactionID,
			&entry.TargetUserID, &entry.Action, &entry.Details, &entry.IPAddress, &entry.UserAgent,
			&entry.Severity, &entry.Category, &metadata, &entry.IsSuccessful, &entry.ErrorMessage,
			&entry.CreatedOn)
		if err != nil {
			return nil, err
		}
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &entry.Metadata); err != nil {
				return nil, err
			}
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
