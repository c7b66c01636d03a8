package bonus

import (
	"sort"
	"time"

	"bonus-service/internal/domain"
)

// Service define a interface do serviço de bônus de motoristas.
type Service interface {
	// LoadRecords ingests the source workbooks into normalized trip records.
	LoadRecords(sources []domain.Source) ([]domain.TripRecord, domain.LoadReport, error)
	// FilterByDate keeps the records inside the inclusive [start, end] window.
	FilterByDate(records []domain.TripRecord, start, end time.Time) ([]domain.TripRecord, error)
	// ComputeBonuses applies the rule set and flags worked records.
	ComputeBonuses(records []domain.TripRecord) ([]domain.AugmentedRecord, error)
	// Summarize builds the consistent summary tables from augmented records.
	Summarize(records []domain.AugmentedRecord) domain.Summary
	// Inspect loads the sources without computing anything, returning the data
	// bounds a caller needs to pick a period.
	Inspect(sources []domain.Source) (domain.Inspection, error)
	// Process runs the full pipeline: load, filter, compute, summarize.
	Process(sources []domain.Source, start, end time.Time) (domain.Result, error)
	// ExportWorkbook renders a result as a multi-sheet workbook.
	ExportWorkbook(result domain.Result) ([]byte, string, error)
	// ExportDetailCSV renders the detail table as a semicolon CSV (cp1252).
	ExportDetailCSV(result domain.Result) ([]byte, string, error)
}

type service struct {
	rules *RuleSet
	index *ruleIndex
}

// NewService cria uma nova instância do serviço de bônus. A nil rule set falls
// back to the built-in rules.
func NewService(rules *RuleSet) Service {
	if rules == nil {
		rules = DefaultRules()
	}
	return &service{rules: rules, index: compileRules(rules)}
}

func (svc *service) Inspect(sources []domain.Source) (domain.Inspection, error) {
	records, report, err := svc.LoadRecords(sources)
	if err != nil {
		return domain.Inspection{}, err
	}
	return domain.Inspection{Bounds: dataBounds(records), Report: report}, nil
}

func (svc *service) Process(sources []domain.Source, start, end time.Time) (domain.Result, error) {
	startDay, endDay := dateOnly(start), dateOnly(end)
	if startDay.After(endDay) {
		return domain.Result{}, domain.InvalidRangeError{Start: startDay, End: endDay}
	}

	records, report, err := svc.LoadRecords(sources)
	if err != nil {
		return domain.Result{}, err
	}
	filtered, err := svc.FilterByDate(records, startDay, endDay)
	if err != nil {
		return domain.Result{}, err
	}
	augmented, err := svc.ComputeBonuses(filtered)
	if err != nil {
		return domain.Result{}, err
	}

	return domain.Result{
		Period: domain.Period{
			Start: startDay,
			End:   endDay,
			Label: PeriodLabel(startDay, endDay),
		},
		Report:  report,
		Records: augmented,
		Summary: svc.Summarize(augmented),
	}, nil
}

func dataBounds(records []domain.TripRecord) domain.DataBounds {
	var b domain.DataBounds
	driverSet := make(map[string]bool)
	centerSet := make(map[string]bool)

	for i, rec := range records {
		if i == 0 || rec.Date.Before(b.MinDate) {
			b.MinDate = rec.Date
		}
		if i == 0 || rec.Date.After(b.MaxDate) {
			b.MaxDate = rec.Date
		}
		driverSet[rec.Driver] = true
		centerSet[rec.CostCenter] = true
	}

	for name := range driverSet {
		b.Drivers = append(b.Drivers, name)
	}
	for name := range centerSet {
		b.CostCenters = append(b.CostCenters, name)
	}
	sort.Strings(b.Drivers)
	sort.Strings(b.CostCenters)
	return b
}
