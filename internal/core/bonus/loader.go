package bonus

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"bonus-service/internal/domain"

	"github.com/google/uuid"
	"github.com/schollz/closestmatch"
	"github.com/shakinm/xlsReader/xls"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// Colunas obrigatórias da aba "Controle de viagens".
const (
	colDate       = "DATA"
	colDriver     = "MOTORISTA"
	colCostCenter = "CENTRO DE CUSTO"
	colQuantity   = "QUANT."
	colRevenue    = "TOTAL (R$)"
)

// headerSearchRows limits how deep into a sheet the header row is looked for.
// The real sheets carry a two-row title banner above the header.
const headerSearchRows = 10

// LoadRecords ingests every source workbook and returns the normalized trip
// records plus a per-source load report. A source that cannot be read is
// reported and skipped; the call only fails when every source fails.
func (svc *service) LoadRecords(sources []domain.Source) ([]domain.TripRecord, domain.LoadReport, error) {
	report := domain.LoadReport{RunID: uuid.NewString()}

	var records []domain.TripRecord
	var firstErr error
	failed := 0

	for _, src := range sources {
		sr, recs, err := svc.loadSource(src)
		if err != nil {
			sr.Error = err.Error()
			failed++
			if firstErr == nil {
				firstErr = err
			}
		}
		report.Sources = append(report.Sources, sr)
		report.Records += sr.RowsKept
		report.Excluded += sr.RowsRead - sr.RowsKept
		records = append(records, recs...)
	}

	if len(sources) > 0 && failed == len(sources) {
		return nil, report, firstErr
	}
	return records, report, nil
}

func (svc *service) loadSource(src domain.Source) (domain.SourceReport, []domain.TripRecord, error) {
	sr := domain.SourceReport{Source: src.Name}

	rows, sheet, err := loadWorkbookSheet(src)
	if err != nil {
		return sr, nil, err
	}
	sr.Sheet = sheet

	headerIdx := findHeaderRow(rows)
	if headerIdx == -1 {
		var scanned []string
		for i := 0; i < len(rows) && i < headerSearchRows; i++ {
			scanned = append(scanned, rows[i]...)
		}
		return sr, nil, domain.SchemaError{
			Source:  src.Name,
			Sheet:   sheet,
			Column:  colDriver,
			Closest: closestHeader(scanned, colDriver),
		}
	}

	cols, err := mapColumns(src.Name, sheet, rows[headerIdx])
	if err != nil {
		return sr, nil, err
	}

	var recs []domain.TripRecord
	for i := headerIdx + 1; i < len(rows); i++ {
		row := rows[i]
		if emptyRow(row) {
			continue
		}
		sr.RowsRead++

		rec, issues, ok := svc.parseRow(src.Name, i+1, row, cols)
		sr.Issues = append(sr.Issues, issues...)
		if !ok {
			continue
		}
		sr.RowsKept++
		recs = append(recs, rec)
	}
	return sr, recs, nil
}

// loadWorkbookSheet opens a workbook by extension, falling back to content
// sniffing, and returns the rows of the "Controle de viagens" sheet.
func loadWorkbookSheet(src domain.Source) ([][]string, string, error) {
	data, err := io.ReadAll(src.Reader)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read %s: %w", src.Name, err)
	}

	ext := strings.ToLower(filepath.Ext(src.Name))
	switch ext {
	case ".xlsx", ".xlsm":
		return sheetFromXLSX(src.Name, data)
	case ".xls":
		rows, sheet, err := sheetFromXLS(src.Name, data)
		if err != nil && !domain.IsMissingSheet(err) {
			// alguns uploads .xls são xlsx renomeados; tentar excelize
			if rowsX, sheetX, errX := sheetFromXLSX(src.Name, data); errX == nil {
				return rowsX, sheetX, nil
			}
		}
		return rows, sheet, err
	default:
		if rows, sheet, err := sheetFromXLSX(src.Name, data); err == nil || domain.IsMissingSheet(err) {
			return rows, sheet, err
		}
		if rows, sheet, err := sheetFromXLS(src.Name, data); err == nil || domain.IsMissingSheet(err) {
			return rows, sheet, err
		}
		return nil, "", fmt.Errorf("%s: unsupported workbook file format", src.Name)
	}
}

func sheetFromXLSX(name string, data []byte) ([][]string, string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("failed to open %s: %w", name, err)
	}
	defer f.Close()

	sheet := ""
	for _, s := range f.GetSheetList() {
		if strings.EqualFold(strings.TrimSpace(s), domain.SheetName) {
			sheet = s
			break
		}
	}
	if sheet == "" {
		return nil, "", domain.MissingSheetError{Source: name, Sheet: domain.SheetName}
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read sheet %q of %s: %w", sheet, name, err)
	}
	return rows, sheet, nil
}

func sheetFromXLS(name string, data []byte) ([][]string, string, error) {
	workbook, err := xls.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("failed to open %s: %w", name, err)
	}

	for _, sh := range workbook.GetSheets() {
		if !strings.EqualFold(strings.TrimSpace(sh.GetName()), domain.SheetName) {
			continue
		}
		var rows [][]string
		for _, row := range sh.GetRows() {
			var cells []string
			for _, cell := range row.GetCols() {
				cells = append(cells, cell.GetString())
			}
			rows = append(rows, cells)
		}
		return rows, sh.GetName(), nil
	}
	return nil, "", domain.MissingSheetError{Source: name, Sheet: domain.SheetName}
}

// findHeaderRow returns the index of the first row carrying both the DATA and
// MOTORISTA headers, or -1.
func findHeaderRow(rows [][]string) int {
	maxRowsSearch := headerSearchRows
	if len(rows) < maxRowsSearch {
		maxRowsSearch = len(rows)
	}
	for i := 0; i < maxRowsSearch; i++ {
		hasDate, hasDriver := false, false
		for _, cell := range rows[i] {
			switch normalizeText(cell) {
			case colDate:
				hasDate = true
			case colDriver:
				hasDriver = true
			}
		}
		if hasDate && hasDriver {
			return i
		}
	}
	return -1
}

type columnIndexes struct {
	date       int
	driver     int
	costCenter int
	quantity   int
	revenue    int
}

func mapColumns(source, sheet string, header []string) (columnIndexes, error) {
	normCols := make([]string, len(header))
	for i, h := range header {
		normCols[i] = normalizeText(h)
	}

	find := func(name string) int {
		want := normalizeText(name)
		for idx, nc := range normCols {
			if nc == want {
				return idx
			}
		}
		for idx, nc := range normCols {
			if nc != "" && strings.Contains(nc, want) {
				return idx
			}
		}
		return -1
	}

	cols := columnIndexes{
		date:       find(colDate),
		driver:     find(colDriver),
		costCenter: find(colCostCenter),
		quantity:   find(colQuantity),
		revenue:    find(colRevenue),
	}

	required := []struct {
		name string
		idx  int
	}{
		{colDate, cols.date},
		{colDriver, cols.driver},
		{colCostCenter, cols.costCenter},
		{colQuantity, cols.quantity},
		{colRevenue, cols.revenue},
	}
	for _, req := range required {
		if req.idx == -1 {
			return cols, domain.SchemaError{
				Source:  source,
				Sheet:   sheet,
				Column:  req.name,
				Closest: closestHeader(header, req.name),
			}
		}
	}
	return cols, nil
}

// closestHeader suggests the most similar existing header for an error message.
func closestHeader(header []string, name string) string {
	var candidates []string
	for _, h := range header {
		if n := normalizeText(h); n != "" {
			candidates = append(candidates, n)
		}
	}
	if len(candidates) == 0 {
		return ""
	}
	cm := closestmatch.New(candidates, []int{2, 3})
	return cm.Closest(normalizeText(name))
}

func emptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func (svc *service) parseRow(source string, rowNum int, row []string, cols columnIndexes) (domain.TripRecord, []domain.RowIssue, bool) {
	cell := func(idx int) string {
		if idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}

	var issues []domain.RowIssue
	issue := func(field, reason string) {
		issues = append(issues, domain.RowIssue{Source: source, Row: rowNum, Field: field, Reason: reason})
	}

	rec := domain.TripRecord{Source: source, Row: rowNum}

	driver := cell(cols.driver)
	if driver == "" {
		issue(colDriver, "missing driver name")
		return rec, issues, false
	}
	normDriver := normalizeText(driver)
	if strings.Contains(normDriver, "TOTAL") || strings.Contains(normDriver, "TOTAIS") {
		issue(colDriver, "summary row")
		return rec, issues, false
	}
	rec.Driver = svc.index.applyAliases(strings.ToUpper(driver))

	costCenter := cell(cols.costCenter)
	if costCenter == "" {
		issue(colCostCenter, "missing cost center")
		return rec, issues, false
	}
	rec.CostCenter = strings.ToUpper(costCenter)

	date, ok := parseDate(cell(cols.date))
	if !ok {
		issue(colDate, "missing or unparseable date")
		return rec, issues, false
	}
	rec.Date = date

	if raw := cell(cols.quantity); raw != "" {
		if q, err := parseDecimal(raw); err == nil {
			rec.Quantity = decimal.NewNullDecimal(q)
		} else {
			issue(colQuantity, fmt.Sprintf("unparseable number %q", raw))
		}
	}
	if raw := cell(cols.revenue); raw != "" {
		if v, err := parseDecimal(raw); err == nil {
			rec.Revenue = decimal.NewNullDecimal(v)
		} else {
			issue(colRevenue, fmt.Sprintf("unparseable number %q", raw))
		}
	}

	return rec, issues, true
}
