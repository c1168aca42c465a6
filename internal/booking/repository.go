package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"ceylon-tours-be/internal/logger"
	"ceylon-tours-be/internal/payment"
	"ceylon-tours-be/internal/utils"

	"go.uber.org/zap"
)

type Repository interface {
	Create(ctx context.Context, b *Booking) error
	GetByReference(ctx context.Context, reference string) (*Booking, error)
	List(ctx context.Context, filter ListFilter, limit, page int) ([]Booking, int64, error)
	// UpdatePaymentStatus only writes when the stored status still equals from.
	UpdatePaymentStatus(ctx context.Context, reference string, from, to payment.Status) (bool, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const bookingColumns = `
	b.id, b.reference, b.tour_id, t.name, b.customer_name, b.email, b.phone,
	b.address, b.city, b.country, b.travelers, b.travel_date, b.amount,
	b.currency, b.payment_status, b.created_at, b.updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner, extra ...any) (Booking, error) {
	var b Booking
	dest := []any{
		&b.ID, &b.Reference, &b.TourID, &b.TourName, &b.CustomerName, &b.Email, &b.Phone,
		&b.Address, &b.City, &b.Country, &b.Travelers, &b.TravelDate, &b.Amount,
		&b.Currency, &b.PaymentStatus, &b.CreatedAt, &b.UpdatedAt,
	}
	err := row.Scan(append(dest, extra...)...)
	return b, err
}

func (r *repository) Create(ctx context.Context, b *Booking) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO bookings (
			reference, tour_id, customer_name, email, phone, address, city,
			country, travelers, travel_date, amount, currency, payment_status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at, updated_at`,
		b.Reference, b.TourID, b.CustomerName, b.Email, b.Phone, b.Address, b.City,
		b.Country, b.Travelers, b.TravelDate, b.Amount, b.Currency, string(b.PaymentStatus),
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to insert booking",
			zap.String("reference", b.Reference),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (r *repository) GetByReference(ctx context.Context, reference string) (*Booking, error) {
	row := r.db.QueryRowContext(ctx, `SELECT`+bookingColumns+`
		FROM bookings b
		JOIN tours t ON t.id = b.tour_id
		WHERE b.reference = $1`, reference)

	b, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		logger.FromCtx(ctx).Error("GetByReference failed", zap.String("reference", reference), zap.Error(err))
		return nil, err
	}
	return &b, nil
}

func (r *repository) List(ctx context.Context, filter ListFilter, limit, page int) ([]Booking, int64, error) {
	limit, page, offset := utils.Paginate(limit, page)

	log := logger.FromCtx(ctx).With(
		zap.String("status", string(filter.Status)),
		zap.Int("limit", limit),
		zap.Int("page", page),
	)

	query := `SELECT` + bookingColumns + `, COUNT(*) OVER() AS total_count
		FROM bookings b
		JOIN tours t ON t.id = b.tour_id`
	args := []any{}

	if filter.Status != "" {
		query += fmt.Sprintf(" WHERE b.payment_status = $%d", len(args)+1)
		args = append(args, string(filter.Status))
	}

	query += " ORDER BY b.created_at DESC"
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("DB query failed ListBookings", zap.Error(err))
		return nil, 0, err
	}
	defer rows.Close()

	bookings := []Booking{}
	var total int64
	for rows.Next() {
		b, err := scanBooking(rows, &total)
		if err != nil {
			log.Error("Row scan failed", zap.Error(err))
			return nil, 0, err
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		log.Error("Rows iteration failed", zap.Error(err))
		return nil, 0, err
	}

	return bookings, total, nil
}

func (r *repository) UpdatePaymentStatus(ctx context.Context, reference string, from, to payment.Status) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE bookings
		SET payment_status = $1, updated_at = NOW()
		WHERE reference = $2 AND payment_status = $3`,
		string(to), reference, string(from),
	)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to update booking payment status",
			zap.String("reference", reference),
			zap.Error(err),
		)
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
