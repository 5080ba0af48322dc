package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/shopspring/decimal"

	"github.com/kinnetikdevelopers-hub/almubarak/internal/eventbus"
	"github.com/kinnetikdevelopers-hub/almubarak/internal/models"
	"github.com/kinnetikdevelopers-hub/almubarak/internal/utils"
)

// Clock is swapped in tests.
type Clock func() time.Time

func systemClock() time.Time { return time.Now() }

func isNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows) || errors.Is(err, utils.ErrNoRowsUpdated)
}

func publish(ctx context.Context, bus eventbus.Publisher, table string, evt eventbus.EventType, id uuid.UUID, tenantID *uuid.UUID) {
	if bus == nil {
		return
	}
	bus.Publish(ctx, eventbus.ChangeEvent{Table: table, Event: evt, RowID: id, TenantID: tenantID})
}

func forbidden(msg string) *utils.AppError {
	return &utils.AppError{StatusCode: http.StatusForbidden, Code: utils.ErrCodeForbidden, Message: msg}
}

// rentOf returns the rent for a tenant's unit, or zero when unassigned.
func rentOf(unit *models.Unit) decimal.Decimal {
	if unit == nil {
		return decimal.Zero
	}
	return unit.RentAmount
}

// maxMoney is the exclusive upper bound of a NUMERIC(12,2) column.
var maxMoney = decimal.New(1, 10)

// validateMoney rejects amounts a money column cannot store exactly: the
// database would otherwise round them or fail the write.
func validateMoney(label string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return utils.NewValidationError(label + " must be greater than zero.")
	}
	if !amount.Equal(amount.Round(2)) {
		return utils.NewValidationError(label + " can have at most two decimal places.")
	}
	if amount.GreaterThanOrEqual(maxMoney) {
		return utils.NewValidationError(fmt.Sprintf("%s must be less than KES %s.", label, formatKES(maxMoney)))
	}
	return nil
}

// checkPartial holds a partial payment strictly below the unit's rent.
func checkPartial(amount, rent decimal.Decimal) error {
	if amount.GreaterThanOrEqual(rent) {
		return utils.NewValidationError(fmt.Sprintf(
			`Partial payment must be less than KES %s. Use "Paid" for full payments.`, formatKES(rent)))
	}
	return nil
}

// formatKES renders an amount with thousands separators and no trailing
// zeros, e.g. 20000 -> "20,000" and 12500.50 -> "12,500.5".
func formatKES(d decimal.Decimal) string {
	s := d.String()
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}
	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return sign + b.String() + frac
}
