package payment

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
)

type Repository interface {
	SavePayment(ctx context.Context, p *Payment) error
	UpdatePaymentStatus(ctx context.Context, orderID string, status Status) error
	GetLatestPayment(ctx context.Context, orderID string) (*Payment, error)
	SaveNotification(
		ctx context.Context,
		provider string,
		n Notification,
		payload json.RawMessage,
		signatureValid bool,
	) (notificationID int64, alreadyProcessed bool, err error)

	MarkNotificationProcessed(ctx context.Context, notificationID int64) error
	MarkNotificationFailed(ctx context.Context, notificationID int64, reason string) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) SavePayment(ctx context.Context, p *Payment) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO payments (order_id,
		amount,
		currency,
		hash,
		status,
		sandbox)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`,
		p.OrderID, p.Amount, p.Currency, p.Hash, string(p.Status), p.Sandbox,
	).Scan(&p.ID, &p.CreatedAt)
}

func (r *repository) UpdatePaymentStatus(ctx context.Context, orderID string, status Status) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE payments SET status = $1, updated_at = now() WHERE order_id = $2
	`, string(status), orderID)
	return err
}

func (r *repository) GetLatestPayment(ctx context.Context, orderID string) (*Payment, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, order_id, amount, currency, hash, status, sandbox, created_at, updated_at
		FROM payments WHERE order_id = $1
		ORDER BY created_at DESC LIMIT 1
	`, orderID)

	var (
		p      Payment
		status string
	)
	err := row.Scan(
		&p.ID, &p.OrderID, &p.Amount, &p.Currency, &p.Hash,
		&status, &p.Sandbox, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	p.Status = Status(status)
	return &p, nil
}

// SaveNotification records every inbound notification. Verified notifications
// are unique per (order, payment, status code); a redelivery bumps the attempt
// counter and reports whether the earlier delivery was fully processed.
// Unverified ones never take part in deduplication.
func (r *repository) SaveNotification(
	ctx context.Context,
	provider string,
	n Notification,
	payload json.RawMessage,
	signatureValid bool,
) (int64, bool, error) {

	const q = `
	INSERT INTO payment_notifications (
		provider,
		order_id,
		payment_id,
		status_code,
		amount,
		currency,
		signature_valid,
		payload
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8::jsonb)
	ON CONFLICT (order_id, payment_id, status_code) WHERE signature_valid
	DO UPDATE SET attempts = payment_notifications.attempts + 1
	RETURNING id, processed_at IS NOT NULL;
	`

	var (
		id        int64
		processed bool
	)
	err := r.db.QueryRowContext(
		ctx,
		q,
		provider,
		n.OrderID,
		n.PaymentID,
		n.StatusCode,
		n.Amount,
		n.Currency,
		signatureValid,
		string(payload),
	).Scan(&id, &processed)
	if err != nil {
		return 0, false, err
	}

	return id, processed, nil
}

func (r *repository) MarkNotificationProcessed(
	ctx context.Context,
	notificationID int64,
) error {

	const q = `
	UPDATE payment_notifications
	SET processed_at = now(), process_error = NULL
	WHERE id = $1;
	`

	_, err := r.db.ExecContext(ctx, q, notificationID)
	return err
}

func (r *repository) MarkNotificationFailed(
	ctx context.Context,
	notificationID int64,
	reason string,
) error {

	const q = `
	UPDATE payment_notifications
	SET process_error = $2
	WHERE id = $1;
	`

	_, err := r.db.ExecContext(ctx, q, notificationID, reason)
	return err
}
