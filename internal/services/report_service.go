package services

import (
	"context"
	"math"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kinnetikdevelopers-hub/almubarak/internal/dtos"
	"github.com/kinnetikdevelopers-hub/almubarak/internal/models"
	"github.com/kinnetikdevelopers-hub/almubarak/internal/repositories"
	"github.com/kinnetikdevelopers-hub/almubarak/internal/utils"
)

// ReportService computes dashboard and per-period figures. Every figure is
// recomputed from current rows, so repeated calls agree.
type ReportService struct {
	unitRepo    repositories.UnitRepository
	profileRepo repositories.ProfileRepository
	paymentRepo repositories.PaymentRepository
	billingRepo repositories.BillingMonthRepository
	payments    *PaymentService
}

func NewReportService(
	unitRepo repositories.UnitRepository,
	profileRepo repositories.ProfileRepository,
	paymentRepo repositories.PaymentRepository,
	billingRepo repositories.BillingMonthRepository,
	payments *PaymentService,
) *ReportService {
	return &ReportService{
		unitRepo:    unitRepo,
		profileRepo: profileRepo,
		paymentRepo: paymentRepo,
		billingRepo: billingRepo,
		payments:    payments,
	}
}

// DashboardStats never fails. A statistic whose query errors is logged and
// reported as zero.
func (s *ReportService) DashboardStats(ctx context.Context) *dtos.DashboardStats {
	stats := &dtos.DashboardStats{TotalCollected: decimal.Zero, ExpectedMonthly: decimal.Zero}

	if units, err := s.unitRepo.List(ctx, nil); err != nil {
		utils.Logger.WithError(err).Warn("Dashboard: unit stats unavailable")
	} else {
		stats.TotalUnits = len(units)
		for _, u := range units {
			switch u.Status {
			case models.UnitStatusOccupied:
				stats.OccupiedUnits++
			case models.UnitStatusVacant:
				stats.VacantUnits++
			case models.UnitStatusMaintenance:
				stats.MaintenanceUnits++
			}
		}
		stats.OccupancyRate = OccupancyRate(stats.OccupiedUnits, stats.TotalUnits)
		stats.ExpectedMonthly = ExpectedRent(units)
	}

	approved := models.ProfileStatusApproved
	if tenants, err := s.profileRepo.List(ctx, models.RoleTenant, &approved); err != nil {
		utils.Logger.WithError(err).Warn("Dashboard: tenant count unavailable")
	} else {
		stats.ApprovedTenants = len(tenants)
	}

	if pending, err := s.paymentRepo.List(ctx, repositories.PaymentFilter{
		Statuses: []models.PaymentStatusType{models.PaymentStatusPending},
	}); err != nil {
		utils.Logger.WithError(err).Warn("Dashboard: pending payments unavailable")
	} else {
		stats.PendingPayments = len(pending)
	}

	if received, err := s.paymentRepo.List(ctx, repositories.PaymentFilter{
		Statuses: []models.PaymentStatusType{models.PaymentStatusPaid, models.PaymentStatusPartial},
	}); err != nil {
		utils.Logger.WithError(err).Warn("Dashboard: collected total unavailable")
	} else {
		stats.TotalCollected = SumCollected(received)
	}

	return stats
}

// BillingMonthReport scopes the collection figures to one period.
// Expected is based on the units occupied now.
func (s *ReportService) BillingMonthReport(ctx context.Context, billingMonthID uuid.UUID) (*dtos.BillingMonthReport, error) {
	bm, err := s.billingRepo.GetByID(ctx, billingMonthID)
	if err != nil {
		return nil, err
	}
	if bm == nil {
		return nil, utils.NewNotFoundError("Billing month not found")
	}

	report := &dtos.BillingMonthReport{
		BillingMonth: bm,
		Expected:     decimal.Zero,
		Collected:    decimal.Zero,
		Pending:      decimal.Zero,
		Outstanding:  decimal.Zero,
		StatusCounts: map[string]int{},
		Payments:     []*dtos.PaymentView{},
	}

	if units, err := s.unitRepo.List(ctx, nil); err != nil {
		utils.Logger.WithError(err).Warnf("Report %s: expected rent unavailable", bm.Label())
	} else {
		report.Expected = ExpectedRent(units)
	}

	views, err := s.payments.ListPayments(ctx, dtos.ListPaymentsQuery{BillingMonthID: &bm.ID})
	if err != nil {
		utils.Logger.WithError(err).Warnf("Report %s: payments unavailable", bm.Label())
	} else {
		report.Payments = views
		list := make([]*models.Payment, len(views))
		for i, v := range views {
			list[i] = v.Payment
			report.StatusCounts[string(v.Status)]++
			if v.Status == models.PaymentStatusPending {
				report.Pending = report.Pending.Add(v.Amount)
			}
		}
		report.Collected = SumCollected(list)
	}

	report.Outstanding = RemainingBalance(report.Expected, report.Collected)
	report.CollectionRate = CollectionRate(report.Collected, report.Expected)
	return report, nil
}

// OccupancyRate is round(occupied/total*100), or 0 with no units.
func OccupancyRate(occupied, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(occupied) / float64(total) * 100))
}

// CollectionRate is collected/expected*100 to one decimal place, or 0 when
// nothing is expected.
func CollectionRate(collected, expected decimal.Decimal) float64 {
	if !expected.IsPositive() {
		return 0
	}
	return collected.Div(expected).Mul(decimal.NewFromInt(100)).Round(1).InexactFloat64()
}

// SumCollected totals money actually received: paid and partial payments.
func SumCollected(payments []*models.Payment) decimal.Decimal {
	total := decimal.Zero
	for _, p := range payments {
		if p.Status == models.PaymentStatusPaid || p.Status == models.PaymentStatusPartial {
			total = total.Add(p.Amount)
		}
	}
	return total
}

// ExpectedRent sums rent over occupied units.
func ExpectedRent(units []*models.Unit) decimal.Decimal {
	total := decimal.Zero
	for _, u := range units {
		if u.IsOccupied() {
			total = total.Add(u.RentAmount)
		}
	}
	return total
}
