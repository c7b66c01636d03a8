package bonus

import (
	"fmt"
	"strconv"

	"bonus-service/internal/domain"

	"github.com/shopspring/decimal"
)

// ComputeBonuses applies the configured rule set to each record, preserving
// order. The pass is pure: the same records under the same rules always yield
// the same bonuses, and values are kept exact to the cent.
func (svc *service) ComputeBonuses(records []domain.TripRecord) ([]domain.AugmentedRecord, error) {
	out := make([]domain.AugmentedRecord, 0, len(records))
	for _, rec := range records {
		bonus, err := svc.bonusFor(rec)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.AugmentedRecord{
			TripRecord: rec,
			Bonus:      bonus,
			Worked:     worked(rec),
		})
	}
	return out, nil
}

// worked reports whether the record stands for an actual paid trip: a positive
// quantity or a positive revenue. Zeroed or blank rows mark no work.
func worked(rec domain.TripRecord) bool {
	if rec.Quantity.Valid && rec.Quantity.Decimal.IsPositive() {
		return true
	}
	return rec.Revenue.Valid && rec.Revenue.Decimal.IsPositive()
}

func (svc *service) bonusFor(rec domain.TripRecord) (decimal.Decimal, error) {
	// valores negativos invalidam o registro, nunca são truncados para zero
	if rec.Quantity.Valid && rec.Quantity.Decimal.IsNegative() {
		return decimal.Zero, calcError(rec, colQuantity, "is negative")
	}
	if rec.Revenue.Valid && rec.Revenue.Decimal.IsNegative() {
		return decimal.Zero, calcError(rec, colRevenue, "is negative")
	}

	rule := svc.index.ruleFor(rec.CostCenter)
	if rule == nil {
		return decimal.Zero, nil
	}

	switch rule.Kind {
	case KindPerUnit:
		if !rec.Quantity.Valid {
			return decimal.Zero, calcError(rec, colQuantity, "is required by rule "+strconv.Quote(rule.Name))
		}
		return rule.Rate.Mul(rec.Quantity.Decimal).Round(2), nil
	case KindPercentRevenue:
		if !rec.Revenue.Valid {
			return decimal.Zero, calcError(rec, colRevenue, "is required by rule "+strconv.Quote(rule.Name))
		}
		return rule.Rate.Mul(rec.Revenue.Decimal).Round(2), nil
	case KindFlatPerTrip:
		return rule.Rate.Round(2), nil
	default:
		return decimal.Zero, fmt.Errorf("bonus rule %q: unknown kind %q", rule.Name, rule.Kind)
	}
}

func calcError(rec domain.TripRecord, field, reason string) error {
	return domain.CalculationError{
		Source:     rec.Source,
		Row:        rec.Row,
		Driver:     rec.Driver,
		CostCenter: rec.CostCenter,
		Field:      field,
		Reason:     reason,
	}
}
