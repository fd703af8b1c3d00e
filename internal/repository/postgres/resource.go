package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"inventrack-backend/internal/domain"
	"inventrack-backend/internal/repository"
)

type resourceRepository struct {
	db *sql.DB
}

func NewResourceRepository(db *sql.DB) repository.ResourceRepository {
	return &resourceRepository{db: db}
}

const resourceColumns = `id, name, type, COALESCE(category, ''), quantity, available_quantity,
	COALESCE(location, ''), status, COALESCE(description, ''), purchase_date, purchase_price_cents,
	COALESCE(supplier, ''), warranty_expiry, maintenance_schedule, last_maintenance, next_maintenance,
	barcode, tags, is_active, created_by, last_modified_by, created_on, updated_on`

func scanResource(row interface{ Scan(...any) error }) (*domain.Resource, error) {
	res := &domain.Resource{}
	var tags pq.StringArray
	err := row.Scan(&res.ID, &res.Name, &res.Type, &res.Category, &res.Quantity, &res.AvailableQuantity,
		&res.Location, &res.Status, &res.Description, &res.PurchaseDate, &res.PurchasePriceCents,
		&res.Supplier, &res.WarrantyExpiry, &res.MaintenanceSchedule, &res.LastMaintenance,
		&res.NextMaintenance, &res.Barcode, &tags, &res.IsActive, &res.CreatedBy,
		&res.LastModifiedBy, &res.CreatedOn, &res.UpdatedOn)
	if err != nil {
		return nil, err
	}
	res.Tags = tags
	return res, nil
}

func (r *resourceRepository) Create(ctx context.Context, res *domain.Resource) error {
	query := `INSERT INTO resources (name, type, category, quantity, available_quantity, location,
	          status, description, purchase_date, purchase_price_cents, supplier, warranty_expiry,
	          maintenance_schedule, last_maintenance, next_maintenance, barcode, tags, is_active,
	          created_by, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $20)
	          RETURNING id`
	now := time.Now()
	err := r.db.QueryRowContext(ctx, query, res.Name, res.Type, res.Category, res.Quantity,
		res.AvailableQuantity, res.Location, res.Status, res.Description, res.PurchaseDate,
		res.PurchasePriceCents, res.Supplier, res.WarrantyExpiry, res.MaintenanceSchedule,
		res.LastMaintenance, res.NextMaintenance, res.Barcode, pq.Array(res.Tags), res.IsActive,
		res.CreatedBy, now).Scan(&res.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateKey
		}
		return err
	}
	res.CreatedOn = now
	res.UpdatedOn = now
	return nil
}

func (r *resourceRepository) GetByID(ctx context.Context, id int32) (*domain.Resource, error) {
	query := `SELECT ` + resourceColumns + ` FROM resources WHERE id = $1`
	res, err := scanResource(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return res, err
}

func (r *resourceRepository) Update(ctx context.Context, res *domain.Resource) error {
	query := `UPDATE resources SET name=$1, type=$2, category=$3, quantity=$4, available_quantity=$5,
	          location=$6, status=$7, description=$8, purchase_date=$9, purchase_price_cents=$10,
	          supplier=$11, warranty_expiry=$12, maintenance_schedule=$13, last_maintenance=$14,
	          next_maintenance=$15, barcode=$16, tags=$17, is_active=$18, last_modified_by=$19,
	          updated_on=$20 WHERE id=$21`
	result, err := r.db.ExecContext(ctx, query, res.Name, res.Type, res.Category, res.Quantity,
		res.AvailableQuantity, res.Location, res.Status, res.Description, res.PurchaseDate,
		res.PurchasePriceCents, res.Supplier, res.WarrantyExpiry, res.MaintenanceSchedule,
		res.LastMaintenance, res.NextMaintenance, res.Barcode, pq.Array(res.Tags), res.IsActive,
		res.LastModifiedBy, time.Now(), res.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateKey
		}
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *resourceRepository) SoftDelete(ctx context.Context, id, actorID int32) error {
	query := `UPDATE resources SET is_active=false, last_modified_by=$1, updated_on=$2 WHERE id=$3 AND is_active=true`
	result, err := r.db.ExecContext(ctx, query, actorID, time.Now(), id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *resourceRepository) List(ctx context.Context, f repository.ResourceFilter) ([]domain.Resource, int32, error) {
	where := ` WHERE 1=1`
	args := []interface{}{}
	argIdx := 1

	if !f.IncludeInactive {
		where += " AND is_active = true"
	}
	if f.Search != "" {
		where += fmt.Sprintf(" AND (name ILIKE $%d OR description ILIKE $%d OR supplier ILIKE $%d)", argIdx, argIdx, argIdx)
		args = append(args, "%"+f.Search+"%")
		argIdx++
	}
	if f.Type != "" {
		where += fmt.Sprintf(" AND type = $%d", argIdx)
		args = append(args, f.Type)
		argIdx++
	}
	if f.Status != "" {
		where += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, f.Status)
		argIdx++
	}
	if f.Location != "" {
		where += fmt.Sprintf(" AND location = $%d", argIdx)
		args = append(args, f.Location)
		argIdx++
	}

	var count int32
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM resources`+where, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + resourceColumns + ` FROM resources` + where + orderClause(f.SortBy, f.SortDesc, map[string]string{
		"name": "name", "type": "type", "quantity": "quantity", "status": "status", "created_on": "created_on", "updated_on": "updated_on",
	})
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, pageLimit(f.PageSize), pageOffset(f.Page, f.PageSize))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var resources []domain.Resource
	for rows.Next() {
		res, err := scanResource(rows)
		if err != nil {
			return nil, 0, err
		}
		resources = append(resources, *res)
	}
	return resources, count, rows.Err()
}

func (r *resourceRepository) ListLowStock(ctx context.Context, threshold int32) ([]domain.Resource, error) {
	query := `SELECT ` + resourceColumns + ` FROM resources
	          WHERE is_active = true AND status <> 'Discontinued' AND available_quantity <= $1
	          ORDER BY available_quantity ASC, name ASC`
	return r.queryResources(ctx, query, threshold)
}

func (r *resourceRepository) ListMaintenanceDue(ctx context.Context, asOf time.Time) ([]domain.Resource, error) {
	query := `SELECT ` + resourceColumns + ` FROM resources
	          WHERE is_active = true AND maintenance_schedule <> 'None'
	          AND next_maintenance IS NOT NULL AND next_maintenance <= $1
	          ORDER BY next_maintenance ASC`
	return r.queryResources(ctx, query, asOf)
}

func (r *resourceRepository) queryResources(ctx context.Context, query string, args ...interface{}) ([]domain.Resource, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var resources []domain.Resource
	for rows.Next() {
		res, err := scanResource(rows)
		if err != nil {
			return nil, err
		}
		resources = append(resources, *res)
	}
	return resources, rows.Err()
}

func (r *resourceRepository) Stats(ctx context.Context) (*repository.ResourceStats, error) {
	stats := &repository.ResourceStats{
		ByType:   map[domain.ResourceType]int32{},
		ByStatus: map[domain.ResourceStatus]int32{},
	}

	query := `SELECT count(*), COALESCE(sum(quantity), 0), COALESCE(sum(available_quantity), 0)
	          FROM resources WHERE is_active = true`
	if err := r.db.QueryRowContext(ctx, query).Scan(&stats.TotalResources, &stats.TotalQuantity, &stats.TotalAvailable); err != nil {
		return nil, err
	}
	stats.TotalCheckedOut = stats.TotalQuantity - stats.TotalAvailable

	rows, err := r.db.QueryContext(ctx, `SELECT type, count(*) FROM resources WHERE is_active = true GROUP BY type`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var typ domain.ResourceType
		var n int32
		if err := rows.Scan(&typ, &n); err != nil {
			return nil, err
		}
		stats.ByType[typ] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	statusRows, err := r.db.QueryContext(ctx, `SELECT status, count(*) FROM resources WHERE is_active = true GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer statusRows.Close()
	for statusRows.Next() {
		var status domain.ResourceStatus
		var n int32
		if err := statusRows.Scan(&status, &n); err != nil {
			return nil, err
		}
		stats.ByStatus[status] = n
	}
	return stats, statusRows.Err()
}

// The stock guards are shared with the combined ledger operations in
// transaction.go. The decrement only ever runs there, inside the same
// database transaction as a ledger write.
const applyCheckoutSQL = `UPDATE resources SET
	            available_quantity = available_quantity - $1,
	            status = CASE WHEN available_quantity - $1 = 0 THEN 'Out of Stock' ELSE status END,
	            updated_on = $2
	          WHERE id = $3 AND is_active = true AND status = 'Available' AND available_quantity >= $1`

const applyCheckinSQL = `UPDATE resources SET
	            available_quantity = LEAST(available_quantity + $1, quantity),
	            status = CASE WHEN status = 'Out of Stock' AND LEAST(available_quantity + $1, quantity) > 0
	                          THEN 'Available' ELSE status END,
	            updated_on = $2
	          WHERE id = $3`

// ApplyCheckin restores availability, clamped to the total quantity, and lifts
// an Out of Stock status once units come back.
func (r *resourceRepository) ApplyCheckin(ctx context.Context, id, qty int32) error {
	result, err := r.db.ExecContext(ctx, applyCheckinSQL, qty, time.Now(), id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *resourceRepository) SetMaintenance(ctx context.Context, id int32, last time.Time, next *time.Time) error {
	query := `UPDATE resources SET last_maintenance=$1, next_maintenance=$2, updated_on=$3 WHERE id=$4`
	result, err := r.db.ExecContext(ctx, query, last, next, time.Now(), id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
