package bonus

import (
	"sort"
	"time"

	"bonus-service/internal/domain"

	"github.com/shopspring/decimal"
)

// Summarize folds the augmented records into the summary tables. All tables
// are built from the same records in one pass, so their bonus totals agree by
// construction.
func (svc *service) Summarize(records []domain.AugmentedRecord) domain.Summary {
	type pairKey struct {
		driver     string
		costCenter string
	}

	pairs := make(map[pairKey]*domain.DriverCostCenterRow)
	drivers := make(map[string]*domain.DriverRow)
	centers := make(map[string]*domain.CostCenterRow)
	workedDays := make(map[string]map[time.Time]bool)
	revenueByDay := make(map[time.Time]decimal.Decimal)

	var summary domain.Summary

	for _, rec := range records {
		pk := pairKey{rec.Driver, rec.CostCenter}
		pair := pairs[pk]
		if pair == nil {
			pair = &domain.DriverCostCenterRow{Driver: rec.Driver, CostCenter: rec.CostCenter}
			pairs[pk] = pair
		}
		driver := drivers[rec.Driver]
		if driver == nil {
			driver = &domain.DriverRow{Driver: rec.Driver}
			drivers[rec.Driver] = driver
			workedDays[rec.Driver] = make(map[time.Time]bool)
		}
		center := centers[rec.CostCenter]
		if center == nil {
			center = &domain.CostCenterRow{CostCenter: rec.CostCenter}
			centers[rec.CostCenter] = center
		}

		pair.Trips++
		driver.Trips++
		center.Trips++

		if rec.Quantity.Valid {
			pair.Quantity = pair.Quantity.Add(rec.Quantity.Decimal)
			driver.Quantity = driver.Quantity.Add(rec.Quantity.Decimal)
		}
		if rec.Revenue.Valid {
			pair.Revenue = pair.Revenue.Add(rec.Revenue.Decimal)
			driver.Revenue = driver.Revenue.Add(rec.Revenue.Decimal)
			center.Revenue = center.Revenue.Add(rec.Revenue.Decimal)
			revenueByDay[rec.Date] = revenueByDay[rec.Date].Add(rec.Revenue.Decimal)
			summary.TotalRevenue = summary.TotalRevenue.Add(rec.Revenue.Decimal)
		}

		pair.Bonus = pair.Bonus.Add(rec.Bonus)
		driver.Bonus = driver.Bonus.Add(rec.Bonus)
		center.Bonus = center.Bonus.Add(rec.Bonus)
		summary.TotalBonus = summary.TotalBonus.Add(rec.Bonus)

		if rec.Worked {
			workedDays[rec.Driver][rec.Date] = true
		}
	}

	summary.ByDriverCostCenter = make([]domain.DriverCostCenterRow, 0, len(pairs))
	for _, pair := range pairs {
		pair.Quantity = pair.Quantity.Round(2)
		pair.Revenue = pair.Revenue.Round(2)
		pair.Bonus = pair.Bonus.Round(2)
		summary.ByDriverCostCenter = append(summary.ByDriverCostCenter, *pair)
	}
	sort.Slice(summary.ByDriverCostCenter, func(i, j int) bool {
		a, b := summary.ByDriverCostCenter[i], summary.ByDriverCostCenter[j]
		if a.Driver != b.Driver {
			return a.Driver < b.Driver
		}
		return a.CostCenter < b.CostCenter
	})

	summary.ByDriver = make([]domain.DriverRow, 0, len(drivers))
	for _, driver := range drivers {
		driver.Quantity = driver.Quantity.Round(2)
		driver.Revenue = driver.Revenue.Round(2)
		driver.Bonus = driver.Bonus.Round(2)
		summary.ByDriver = append(summary.ByDriver, *driver)
	}
	sort.Slice(summary.ByDriver, func(i, j int) bool {
		a, b := summary.ByDriver[i], summary.ByDriver[j]
		if c := a.Bonus.Cmp(b.Bonus); c != 0 {
			return c > 0
		}
		return a.Driver < b.Driver
	})

	summary.ByCostCenter = make([]domain.CostCenterRow, 0, len(centers))
	for _, center := range centers {
		center.Revenue = center.Revenue.Round(2)
		center.Bonus = center.Bonus.Round(2)
		summary.ByCostCenter = append(summary.ByCostCenter, *center)
	}
	sort.Slice(summary.ByCostCenter, func(i, j int) bool {
		a, b := summary.ByCostCenter[i], summary.ByCostCenter[j]
		if c := a.Bonus.Cmp(b.Bonus); c != 0 {
			return c > 0
		}
		return a.CostCenter < b.CostCenter
	})

	summary.DaysWorked = make([]domain.DaysWorkedRow, 0, len(drivers))
	for name := range drivers {
		summary.DaysWorked = append(summary.DaysWorked, domain.DaysWorkedRow{
			Driver: name,
			Days:   len(workedDays[name]),
		})
	}
	sort.Slice(summary.DaysWorked, func(i, j int) bool {
		return summary.DaysWorked[i].Driver < summary.DaysWorked[j].Driver
	})

	summary.RevenueByDay = make([]domain.RevenueByDayRow, 0, len(revenueByDay))
	for date, revenue := range revenueByDay {
		summary.RevenueByDay = append(summary.RevenueByDay, domain.RevenueByDayRow{
			Date:    date,
			Revenue: revenue.Round(2),
		})
	}
	sort.Slice(summary.RevenueByDay, func(i, j int) bool {
		return summary.RevenueByDay[i].Date.Before(summary.RevenueByDay[j].Date)
	})

	summary.Workdays = workMatrix(summary.DaysWorked, workedDays)
	summary.TotalBonus = summary.TotalBonus.Round(2)
	summary.TotalRevenue = summary.TotalRevenue.Round(2)
	return summary
}

// workMatrix pivots the worked-day sets into a drivers x dates boolean grid.
func workMatrix(daysRows []domain.DaysWorkedRow, workedDays map[string]map[time.Time]bool) domain.WorkMatrix {
	dateSet := make(map[time.Time]bool)
	for _, days := range workedDays {
		for date := range days {
			dateSet[date] = true
		}
	}

	matrix := domain.WorkMatrix{
		Drivers: make([]string, 0, len(daysRows)),
		Dates:   make([]time.Time, 0, len(dateSet)),
	}
	for _, row := range daysRows {
		matrix.Drivers = append(matrix.Drivers, row.Driver)
	}
	for date := range dateSet {
		matrix.Dates = append(matrix.Dates, date)
	}
	sort.Slice(matrix.Dates, func(i, j int) bool {
		return matrix.Dates[i].Before(matrix.Dates[j])
	})

	matrix.Cells = make([][]bool, len(matrix.Drivers))
	for i, driver := range matrix.Drivers {
		cells := make([]bool, len(matrix.Dates))
		for j, date := range matrix.Dates {
			cells[j] = workedDays[driver][date]
		}
		matrix.Cells[i] = cells
	}
	return matrix
}
