package booking

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"ceylon-tours-be/internal/payment"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var bookingRowColumns = []string{
	"id", "reference", "tour_id", "name", "customer_name", "email", "phone",
	"address", "city", "country", "travelers", "travel_date", "amount",
	"currency", "payment_status", "created_at", "updated_at",
}

func TestRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	now := time.Now()
	travel := time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC)

	b := &Booking{
		Reference: "BOOK-1001", TourID: 4, CustomerName: "Nimal", Email: "n@example.com",
		Phone: "077", Country: "Sri Lanka", Travelers: 2, TravelDate: travel,
		Amount: decimal.NewFromInt(200), Currency: "LKR", PaymentStatus: payment.StatusPending,
	}

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery(`INSERT INTO bookings .* RETURNING id, created_at, updated_at`).
			WithArgs("BOOK-1001", 4, "Nimal", "n@example.com", "077", "", "", "Sri Lanka", 2, travel, sqlmock.AnyArg(), "LKR", "pending").
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(11, now, now))

		require.NoError(t, repo.Create(context.Background(), b))
		assert.Equal(t, uint(11), b.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Duplicate reference", func(t *testing.T) {
		mock.ExpectQuery(`INSERT INTO bookings`).WillReturnError(errors.New("duplicate key"))
		assert.Error(t, repo.Create(context.Background(), b))
	})
}

func TestRepository_GetByReference(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()
	now := time.Now()

	t.Run("Found", func(t *testing.T) {
		mock.ExpectQuery(`SELECT .* FROM bookings b JOIN tours t ON t.id = b.tour_id WHERE b.reference = \$1`).
			WithArgs("BOOK-1001").
			WillReturnRows(sqlmock.NewRows(bookingRowColumns).AddRow(
				1, "BOOK-1001", 4, "Sigiriya", "Nimal", "n@example.com", "077",
				"", "Colombo", "Sri Lanka", 2, now, "25001.00",
				"LKR", "paid", now, now,
			))

		b, err := repo.GetByReference(ctx, "BOOK-1001")
		require.NoError(t, err)
		assert.Equal(t, payment.StatusPaid, b.PaymentStatus)
		assert.Equal(t, "Sigiriya", b.TourName)
		assert.Equal(t, "25001.00", b.Amount.StringFixed(2))
	})

	t.Run("Not found", func(t *testing.T) {
		mock.ExpectQuery(`SELECT .* FROM bookings b`).
			WithArgs("BOOK-404").
			WillReturnError(sql.ErrNoRows)

		_, err := repo.GetByReference(ctx, "BOOK-404")
		assert.ErrorIs(t, err, ErrBookingNotFound)
	})
}

func TestRepository_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	now := time.Now()

	mock.ExpectQuery(`SELECT .* FROM bookings b JOIN tours t ON t.id = b.tour_id WHERE b.payment_status = \$1 ORDER BY b.created_at DESC LIMIT \$2 OFFSET \$3`).
		WithArgs("pending", 20, 20).
		WillReturnRows(sqlmock.NewRows(append(bookingRowColumns, "total_count")).AddRow(
			1, "BOOK-1001", 4, "Sigiriya", "Nimal", "n@example.com", "077",
			"", "Colombo", "Sri Lanka", 2, now, "200",
			"LKR", "pending", now, now, 21,
		))

	list, total, err := repo.List(context.Background(), ListFilter{Status: payment.StatusPending}, 0, 2)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, int64(21), total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_UpdatePaymentStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()
	query := `UPDATE bookings SET payment_status = \$1, updated_at = NOW\(\) WHERE reference = \$2 AND payment_status = \$3`

	mock.ExpectExec(query).
		WithArgs("paid", "BOOK-1001", "pending").
		WillReturnResult(sqlmock.NewResult(0, 1))
	ok, err := repo.UpdatePaymentStatus(ctx, "BOOK-1001", payment.StatusPending, payment.StatusPaid)
	require.NoError(t, err)
	assert.True(t, ok)

	mock.ExpectExec(query).
		WithArgs("paid", "BOOK-1001", "pending").
		WillReturnResult(sqlmock.NewResult(0, 0))
	ok, err = repo.UpdatePaymentStatus(ctx, "BOOK-1001", payment.StatusPending, payment.StatusPaid)
	require.NoError(t, err)
	assert.False(t, ok)

	mock.ExpectExec(query).WillReturnError(errors.New("db down"))
	_, err = repo.UpdatePaymentStatus(ctx, "BOOK-1001", payment.StatusPending, payment.StatusPaid)
	assert.Error(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}
