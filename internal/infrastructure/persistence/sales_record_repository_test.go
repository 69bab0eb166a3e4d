package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vendite/backend/internal/domain/sales"
	"github.com/vendite/backend/internal/domain/shared"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&sales.SalesRecord{}))
	return db
}

func mustRecord(t *testing.T, email string, year, quarter int, product, region string, quantity int, revenue string) *sales.SalesRecord {
	t.Helper()
	record, err := sales.NewSalesRecord(
		"Mario Rossi", email, year, quarter, product, region,
		quantity, decimal.RequireFromString(revenue),
	)
	require.NoError(t, err)
	return record
}

func TestInsertAssignsID(t *testing.T) {
	repo := NewGormSalesRecordRepository(setupTestDB(t))
	ctx := context.Background()

	first := mustRecord(t, "mario.rossi@azienda.it", 2023, 1, "Software CRM", "Nord Italia", 10, "15000.50")
	require.NoError(t, repo.Insert(ctx, first))
	assert.Equal(t, int64(1), first.ID)

	second := mustRecord(t, "mario.rossi@azienda.it", 2023, 2, "Cloud Storage", "Sud Italia", 5, "7200.00")
	require.NoError(t, repo.Insert(ctx, second))
	assert.Equal(t, int64(2), second.ID)
}

func TestInsertRejectsInvalidRecord(t *testing.T) {
	repo := NewGormSalesRecordRepository(setupTestDB(t))
	ctx := context.Background()

	record := mustRecord(t, "mario.rossi@azienda.it", 2023, 1, "Software CRM", "Nord Italia", 10, "100")
	record.Quarter = 7

	err := repo.Insert(ctx, record)
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, shared.CodeConstraintViolation, domainErr.Code)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestFindAllOrdersByID(t *testing.T) {
	repo := NewGormSalesRecordRepository(setupTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, mustRecord(t, "a@azienda.it", 2023, 1, "P1", "Nord", 1, "10")))
	require.NoError(t, repo.Insert(ctx, mustRecord(t, "b@azienda.it", 2023, 2, "P2", "Sud", 2, "20")))
	require.NoError(t, repo.Insert(ctx, mustRecord(t, "a@azienda.it", 2024, 3, "P3", "Centro", 3, "30")))

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, int64(1), all[0].ID)
	assert.Equal(t, int64(2), all[1].ID)
	assert.Equal(t, int64(3), all[2].ID)
}

func TestFindAllEmptyTable(t *testing.T) {
	repo := NewGormSalesRecordRepository(setupTestDB(t))

	all, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)
}

func TestFindByEmailScopesExactly(t *testing.T) {
	repo := NewGormSalesRecordRepository(setupTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, mustRecord(t, "mario.rossi@azienda.it", 2023, 1, "P1", "Nord", 1, "10")))
	require.NoError(t, repo.Insert(ctx, mustRecord(t, "laura.bianchi@azienda.it", 2023, 1, "P1", "Nord", 1, "10")))
	require.NoError(t, repo.Insert(ctx, mustRecord(t, "mario.rossi@azienda.it", 2024, 2, "P2", "Sud", 2, "20")))

	records, err := repo.FindByEmail(ctx, "mario.rossi@azienda.it")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, 2023, records[0].Year)
	assert.Equal(t, 2024, records[1].Year)

	// Unknown email yields an empty slice, not an error.
	none, err := repo.FindByEmail(ctx, "nessuno@azienda.it")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestFindByEmailRoundTripsRevenue(t *testing.T) {
	repo := NewGormSalesRecordRepository(setupTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, mustRecord(t, "mario.rossi@azienda.it", 2023, 1, "P1", "Nord", 1, "15000.50")))

	records, err := repo.FindByEmail(ctx, "mario.rossi@azienda.it")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.True(t, records[0].Revenue.Equal(decimal.RequireFromString("15000.50")))
}

func TestSelectorOptions(t *testing.T) {
	repo := NewGormSalesRecordRepository(setupTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, mustRecord(t, "mario.rossi@azienda.it", 2024, 3, "Software CRM", "Nord Italia", 1, "10")))
	require.NoError(t, repo.Insert(ctx, mustRecord(t, "mario.rossi@azienda.it", 2023, 1, "Cloud Storage", "Sud Italia", 1, "10")))
	require.NoError(t, repo.Insert(ctx, mustRecord(t, "mario.rossi@azienda.it", 2023, 1, "Cloud Storage", "Sud Italia", 2, "20")))
	// Another salesperson's values must not leak in.
	require.NoError(t, repo.Insert(ctx, mustRecord(t, "laura.bianchi@azienda.it", 2022, 4, "Consulenza", "Isole", 1, "10")))

	opts, err := repo.SelectorOptions(ctx, "mario.rossi@azienda.it")
	require.NoError(t, err)

	assert.Equal(t, []int{2023, 2024}, opts.Years)
	assert.Equal(t, []int{1, 3}, opts.Quarters)
	assert.Equal(t, []string{"Cloud Storage", "Software CRM"}, opts.Products)
	assert.Equal(t, []string{"Nord Italia", "Sud Italia"}, opts.Regions)
}

func TestSelectorOptionsEmpty(t *testing.T) {
	repo := NewGormSalesRecordRepository(setupTestDB(t))

	opts, err := repo.SelectorOptions(context.Background(), "nessuno@azienda.it")
	require.NoError(t, err)
	assert.Empty(t, opts.Years)
	assert.Empty(t, opts.Quarters)
	assert.Empty(t, opts.Products)
	assert.Empty(t, opts.Regions)
}

func TestExistsByNaturalKey(t *testing.T) {
	repo := NewGormSalesRecordRepository(setupTestDB(t))
	ctx := context.Background()

	stored := mustRecord(t, "mario.rossi@azienda.it", 2023, 1, "Software CRM", "Nord Italia", 10, "15000.50")
	require.NoError(t, repo.Insert(ctx, stored))

	// Same natural key, different measures: still a duplicate.
	dup := mustRecord(t, "mario.rossi@azienda.it", 2023, 1, "Software CRM", "Nord Italia", 99, "1.00")
	exists, err := repo.ExistsByNaturalKey(ctx, dup)
	require.NoError(t, err)
	assert.True(t, exists)

	other := mustRecord(t, "mario.rossi@azienda.it", 2023, 2, "Software CRM", "Nord Italia", 10, "15000.50")
	exists, err = repo.ExistsByNaturalKey(ctx, other)
	require.NoError(t, err)
	assert.False(t, exists)
}

func newMockRepository(t *testing.T) (*GormSalesRecordRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormSalesRecordRepository(gormDB), mock, mockDB
}

func TestFindByEmailPropagatesReadFailure(t *testing.T) {
	repo, mock, mockDB := newMockRepository(t)
	defer mockDB.Close()

	mock.ExpectQuery(`SELECT \* FROM "vendite"`).
		WillReturnError(sql.ErrConnDone)

	_, err := repo.FindByEmail(context.Background(), "mario.rossi@azienda.it")
	require.Error(t, err)
	assert.ErrorIs(t, err, sql.ErrConnDone)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSelectorOptionsPropagatesReadFailure(t *testing.T) {
	repo, mock, mockDB := newMockRepository(t)
	defer mockDB.Close()

	mock.ExpectQuery(`SELECT DISTINCT "anno" FROM "vendite"`).
		WillReturnError(sql.ErrConnDone)

	_, err := repo.SelectorOptions(context.Background(), "mario.rossi@azienda.it")
	require.Error(t, err)
	assert.ErrorIs(t, err, sql.ErrConnDone)
}
