package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"inventrack-backend/internal/domain"
	"inventrack-backend/internal/repository/postgres"
)

var resourceRows = []string{"id", "name", "type", "category", "quantity", "available_quantity",
	"location", "status", "description", "purchase_date", "purchase_price_cents", "supplier",
	"warranty_expiry", "maintenance_schedule", "last_maintenance", "next_maintenance", "barcode",
	"tags", "is_active", "created_by", "last_modified_by", "created_on", "updated_on"}

func addResourceRow(rows *sqlmock.Rows, id int32, name string, qty, avail int32, status string) *sqlmock.Rows {
	now := time.Now()
	return rows.AddRow(id, name, "Electronics", "", qty, avail, "Storage A", status, "",
		nil, nil, "", nil, "None", nil, nil, nil, "{}", true, 1, nil, now, now)
}

func TestResourceRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewResourceRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		res := &domain.Resource{
			Name:              "Projector",
			Type:              domain.ResourceTypeElectronics,
			Quantity:          5,
			AvailableQuantity: 5,
			Location:          "Storage A",
			Status:            domain.ResourceStatusAvailable,
			IsActive:          true,
			CreatedBy:         1,
		}

		mock.ExpectQuery("INSERT INTO resources").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

		err := repo.Create(ctx, res)
		assert.NoError(t, err)
		assert.Equal(t, int32(1), res.ID)
	})

	t.Run("DuplicateBarcode", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO resources").
			WillReturnError(uniqueViolation())

		err := repo.Create(ctx, &domain.Resource{Name: "Projector"})
		assert.ErrorIs(t, err, domain.ErrDuplicateKey)
	})
}

func TestResourceRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewResourceRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM resources WHERE id = \\$1").
			WithArgs(int32(1)).
			WillReturnRows(addResourceRow(sqlmock.NewRows(resourceRows), 1, "Projector", 5, 3, "Available"))

		res, err := repo.GetByID(ctx, 1)
		assert.NoError(t, err)
		assert.Equal(t, "Projector", res.Name)
		assert.Equal(t, int32(3), res.AvailableQuantity)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM resources WHERE id = \\$1").
			WithArgs(int32(404)).
			WillReturnRows(sqlmock.NewRows(resourceRows))

		_, err := repo.GetByID(ctx, 404)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestResourceRepository_ApplyCheckin(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewResourceRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec("UPDATE resources SET").
			WithArgs(int32(2), sqlmock.AnyArg(), int32(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.ApplyCheckin(ctx, 1, 2))
	})

	t.Run("UnknownResource", func(t *testing.T) {
		mock.ExpectExec("UPDATE resources SET").
			WithArgs(int32(2), sqlmock.AnyArg(), int32(404)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.ApplyCheckin(ctx, 404, 2)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestResourceRepository_SoftDelete(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewResourceRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec("UPDATE resources SET is_active=false").
			WithArgs(int32(9), sqlmock.AnyArg(), int32(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.SoftDelete(ctx, 1, 9))
	})

	t.Run("AlreadyInactive", func(t *testing.T) {
		mock.ExpectExec("UPDATE resources SET is_active=false").
			WithArgs(int32(9), sqlmock.AnyArg(), int32(1)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.SoftDelete(ctx, 1, 9)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestResourceRepository_ListLowStock(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewResourceRepository(db)
	ctx := context.Background()

	rows := addResourceRow(sqlmock.NewRows(resourceRows), 1, "Projector", 5, 1, "Available")
	rows = addResourceRow(rows, 2, "Whiteboard", 3, 0, "Out of Stock")
	mock.ExpectQuery("status <> 'Discontinued' AND available_quantity <= \\$1").
		WithArgs(int32(2)).
		WillReturnRows(rows)

	low, err := repo.ListLowStock(ctx, 2)
	assert.NoError(t, err)
	assert.Len(t, low, 2)
}
