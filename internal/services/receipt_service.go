package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/kinnetikdevelopers-hub/almubarak/internal/constants"
	"github.com/kinnetikdevelopers-hub/almubarak/internal/eventbus"
	"github.com/kinnetikdevelopers-hub/almubarak/internal/models"
	"github.com/kinnetikdevelopers-hub/almubarak/internal/repositories"
	"github.com/kinnetikdevelopers-hub/almubarak/internal/utils"
)

const fallbackUnitNumber = "N/A"

// ReceiptService issues one receipt per paid payment.
type ReceiptService struct {
	receiptRepo repositories.ReceiptRepository
	unitRepo    repositories.UnitRepository
	bus         eventbus.Publisher
	now         Clock
}

func NewReceiptService(
	receiptRepo repositories.ReceiptRepository,
	unitRepo repositories.UnitRepository,
	bus eventbus.Publisher,
) *ReceiptService {
	return &ReceiptService{receiptRepo: receiptRepo, unitRepo: unitRepo, bus: bus, now: systemClock}
}

// IssueForPayment returns the existing receipt when one was already issued.
// The amount is the unit's rent, or the payment amount when the tenant has
// no unit.
func (s *ReceiptService) IssueForPayment(ctx context.Context, p *models.Payment) (*models.Receipt, error) {
	if p.Status != models.PaymentStatusPaid {
		return nil, fmt.Errorf("receipt requested for %s payment %s", p.Status, p.ID)
	}

	existing, err := s.receiptRepo.GetByPaymentID(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	unit, err := s.unitRepo.GetByTenantID(ctx, p.TenantID)
	if err != nil {
		utils.Logger.WithError(err).Warnf("Receipt for payment %s: unit lookup failed, using payment amount", p.ID)
		unit = nil
	}

	rc := &models.Receipt{
		ID:            uuid.New(),
		PaymentID:     p.ID,
		TenantID:      p.TenantID,
		ReceiptNumber: receiptNumber(s.now().UnixMilli(), p.TenantID),
		Amount:        p.Amount,
		UnitNumber:    fallbackUnitNumber,
	}
	if unit != nil {
		rc.Amount = unit.RentAmount
		rc.UnitNumber = unit.UnitNumber
	}

	if err := s.receiptRepo.Create(ctx, rc); err != nil {
		return nil, err
	}
	publish(ctx, s.bus, eventbus.TableReceipts, eventbus.EventInsert, rc.ID, &rc.TenantID)
	utils.Logger.Infof("Issued receipt %s for payment %s", rc.ReceiptNumber, p.ID)
	return rc, nil
}

func (s *ReceiptService) ListForTenant(ctx context.Context, tenantID uuid.UUID) ([]*models.Receipt, error) {
	return s.receiptRepo.ListByTenant(ctx, tenantID)
}

// receiptNumber renders RCP-{millis}-{first 8 chars of tenant id}.
func receiptNumber(millis int64, tenantID uuid.UUID) string {
	return fmt.Sprintf("%s-%d-%s", constants.ReceiptNumberPrefix, millis, tenantID.String()[:8])
}
