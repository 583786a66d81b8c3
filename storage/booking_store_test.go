package storage_test

import (
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/abhijitkayal/safar-hub-sub001/models"
	"github.com/abhijitkayal/safar-hub-sub001/services"
	"github.com/abhijitkayal/safar-hub-sub001/storage"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	require.NoError(t, err)
	return gormDB, mock
}

func TestGetListing_NotFoundIsNil(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	store := storage.NewGormBookingStore(gormDB)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "listings"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	listing, err := store.GetListing(99)
	assert.NoError(t, err)
	assert.Nil(t, listing)
}

func TestListOverlapping_QueryShape(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	store := storage.NewGormBookingStore(gormDB)

	start := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, time.June, 5, 0, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"id", "listing_id", "status", "start_date", "end_date", "quantities"}).
		AddRow(1, 7, models.BookingStatusConfirmed, start, end, []byte(`{"3":2}`))

	// Half-open overlap: start_date < query end, end_date > query start, and
	// cancelled bookings excluded in SQL.
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "bookings"`)).
		WithArgs(uint(7), models.BookingStatusCancelled, end, start).
		WillReturnRows(rows)

	bookings, err := store.ListOverlapping(7, start, end)
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, models.OptionQuantities{"3": 2}, bookings[0].Quantities)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithListingLock_LocksRow(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	store := storage.NewGormBookingStore(gormDB)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "listings".*FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "vendor_id", "service_type"}).
			AddRow(7, 10, models.ServiceTypeStay))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "bookable_options"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "listing_id", "name", "available"}).
			AddRow(3, 7, "Deluxe", 2))
	mock.ExpectCommit()

	err := store.WithListingLock(7, func(tx services.BookingStore, listing *models.Listing) error {
		require.NotNil(t, listing)
		assert.Equal(t, uint(7), listing.ID)
		require.Len(t, listing.Options, 1)
		assert.Equal(t, 2, listing.Options[0].Available)
		return nil
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithListingLock_MissingListingPassesNil(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	store := storage.NewGormBookingStore(gormDB)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "listings"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectCommit()

	called := false
	err := store.WithListingLock(99, func(tx services.BookingStore, listing *models.Listing) error {
		called = true
		assert.Nil(t, listing)
		return nil
	})
	assert.NoError(t, err)
	assert.True(t, called)
}

func TestWithListingLock_ErrorRollsBack(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	store := storage.NewGormBookingStore(gormDB)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "listings"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "vendor_id"}).AddRow(7, 10))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "bookable_options"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "listing_id"}))
	mock.ExpectRollback()

	sentinel := services.NewListingUnavailableError()
	err := store.WithListingLock(7, func(tx services.BookingStore, listing *models.Listing) error {
		return sentinel
	})
	assert.Equal(t, sentinel, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBooking_Insert(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	store := storage.NewGormBookingStore(gormDB)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "bookings"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	booking := &models.Booking{
		Reference:  "ref-1",
		ListingID:  7,
		CustomerID: 42,
		StartDate:  time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2026, time.June, 5, 0, 0, 0, 0, time.UTC),
		Quantities: models.OptionQuantities{"3": 1},
		Status:     models.BookingStatusConfirmed,
	}
	err := store.CreateBooking(booking)
	assert.NoError(t, err)
	assert.Equal(t, uint(1), booking.ID)
}

func TestGetProduct_LocksInsideTransaction(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	store := storage.NewGormOrderStore(gormDB)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "products".*FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "stock"}).
			AddRow(3, "Trekking Poles", 5))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "product_variants"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "product_id"}))
	mock.ExpectCommit()

	err := store.Transaction(func(tx services.OrderStore) error {
		product, err := tx.GetProduct(3)
		require.NoError(t, err)
		require.NotNil(t, product)
		assert.Equal(t, 5, product.Stock)
		return nil
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetProduct_NoLockOutsideTransaction(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	store := storage.NewGormOrderStore(gormDB)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "products" WHERE "products"."id" = $1`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "stock"}).
			AddRow(3, "Trekking Poles", 5))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "product_variants"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "product_id"}))

	product, err := store.GetProduct(3)
	require.NoError(t, err)
	require.NotNil(t, product)
	assert.False(t, product.OutOfStock)
}
