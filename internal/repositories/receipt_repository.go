package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/kinnetikdevelopers-hub/almubarak/internal/models"
)

type ReceiptRepository interface {
	Create(ctx context.Context, rc *models.Receipt) error
	GetByPaymentID(ctx context.Context, paymentID uuid.UUID) (*models.Receipt, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*models.Receipt, error)
}

type receiptRepo struct {
	db DB
}

func NewReceiptRepository(db DB) ReceiptRepository {
	return &receiptRepo{db: db}
}

func (r *receiptRepo) Create(ctx context.Context, rc *models.Receipt) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO receipts (
			id, payment_id, tenant_id, receipt_number, amount, unit_number, pdf_url, generated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7, NOW())
		RETURNING generated_at
	`, rc.ID, rc.PaymentID, rc.TenantID, rc.ReceiptNumber, rc.Amount, rc.UnitNumber, rc.PDFURL,
	).Scan(&rc.GeneratedAt)
}

func (r *receiptRepo) GetByPaymentID(ctx context.Context, paymentID uuid.UUID) (*models.Receipt, error) {
	row := r.db.QueryRow(ctx, baseSelectReceipt()+" WHERE payment_id=$1 LIMIT 1", paymentID)
	rc, err := scanReceipt(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return rc, err
}

func (r *receiptRepo) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*models.Receipt, error) {
	rows, err := r.db.Query(ctx, baseSelectReceipt()+" WHERE tenant_id=$1 ORDER BY generated_at DESC", tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Receipt
	for rows.Next() {
		rc, err := scanReceipt(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rc)
	}
	return out, rows.Err()
}

func baseSelectReceipt() string {
	return `
		SELECT id, payment_id, tenant_id, receipt_number, amount, unit_number, pdf_url, generated_at
		FROM receipts`
}

func scanReceipt(row pgx.Row) (*models.Receipt, error) {
	var rc models.Receipt
	if err := row.Scan(
		&rc.ID, &rc.PaymentID, &rc.TenantID, &rc.ReceiptNumber,
		&rc.Amount, &rc.UnitNumber, &rc.PDFURL, &rc.GeneratedAt,
	); err != nil {
		return nil, err
	}
	return &rc, nil
}
