package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/kinnetikdevelopers-hub/almubarak/internal/models"
)

type InvoiceRepository interface {
	// CreateMany inserts all invoices in one statement.
	CreateMany(ctx context.Context, list []models.Invoice) error
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*models.Invoice, error)
	ListByBillingMonth(ctx context.Context, billingMonthID uuid.UUID) ([]*models.Invoice, error)
}

type invoiceRepo struct {
	db DB
}

func NewInvoiceRepository(db DB) InvoiceRepository {
	return &invoiceRepo{db: db}
}

func (r *invoiceRepo) CreateMany(ctx context.Context, list []models.Invoice) error {
	if len(list) == 0 {
		return nil
	}
	const cols = 7
	values := make([]string, 0, len(list))
	args := make([]any, 0, len(list)*cols)
	for i, inv := range list {
		base := i * cols
		values = append(values, fmt.Sprintf("($%d,$%d,$%d,$%d,$%d,$%d,$%d, NOW())",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7))
		args = append(args, inv.ID, inv.BillingMonthID, inv.TenantID, inv.InvoiceNumber,
			inv.Amount, inv.UnitNumber, inv.PDFURL)
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO invoices (
			id, billing_month_id, tenant_id, invoice_number, amount, unit_number, pdf_url, generated_at
		) VALUES `+strings.Join(values, ","), args...)
	return err
}

func (r *invoiceRepo) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*models.Invoice, error) {
	return r.list(ctx, baseSelectInvoice()+" WHERE tenant_id=$1 ORDER BY generated_at DESC", tenantID)
}

func (r *invoiceRepo) ListByBillingMonth(ctx context.Context, billingMonthID uuid.UUID) ([]*models.Invoice, error) {
	return r.list(ctx, baseSelectInvoice()+" WHERE billing_month_id=$1 ORDER BY unit_number", billingMonthID)
}

func (r *invoiceRepo) list(ctx context.Context, sql string, args ...any) ([]*models.Invoice, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Invoice
	for rows.Next() {
		var inv models.Invoice
		if err := rows.Scan(
			&inv.ID, &inv.BillingMonthID, &inv.TenantID, &inv.InvoiceNumber,
			&inv.Amount, &inv.UnitNumber, &inv.PDFURL, &inv.GeneratedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, &inv)
	}
	return out, rows.Err()
}

func baseSelectInvoice() string {
	return `
		SELECT id, billing_month_id, tenant_id, invoice_number, amount, unit_number, pdf_url, generated_at
		FROM invoices`
}
