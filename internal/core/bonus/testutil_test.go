package bonus

import (
	"bytes"
	"testing"
	"time"

	"bonus-service/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

var tripHeader = []string{"DATA", "MOTORISTA", "CENTRO DE CUSTO", "QUANT.", "TOTAL (R$)"}

// tripWorkbook builds an in-memory workbook in the real sheet layout: a title
// banner on the first row, the header on the third, data from the fourth on.
func tripWorkbook(t *testing.T, sheetName string, rows [][]interface{}) []byte {
	t.Helper()
	return workbookWithHeader(t, sheetName, tripHeader, 3, rows)
}

func workbookWithHeader(t *testing.T, sheetName string, header []string, headerRow int, rows [][]interface{}) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	_, err := f.NewSheet(sheetName)
	require.NoError(t, err)
	require.NoError(t, f.DeleteSheet("Sheet1"))

	if headerRow > 1 {
		require.NoError(t, f.SetCellValue(sheetName, "A1", "CONTROLE DE VIAGENS LOGARTE"))
	}
	for c, h := range header {
		cell, err := excelize.CoordinatesToCellName(c+1, headerRow)
		require.NoError(t, err)
		require.NoError(t, f.SetCellValue(sheetName, cell, h))
	}
	for r, row := range rows {
		for c, v := range row {
			if v == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, headerRow+1+r)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheetName, cell, v))
		}
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func singleSource(name string, data []byte) []domain.Source {
	return []domain.Source{{Name: name, Reader: bytes.NewReader(data)}}
}

func assertDecimalEqual(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, got.Equal(decimal.RequireFromString(want)), "expected %s, got %s", want, got)
}

func mustQuantity(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

// record builds a parsed trip record the way the loader emits them.
func record(driver, costCenter string, day time.Time, quantity, revenue string) domain.TripRecord {
	rec := domain.TripRecord{
		Source:     "viagens.xlsx",
		Row:        4,
		Driver:     driver,
		CostCenter: costCenter,
		Date:       day,
	}
	if quantity != "" {
		rec.Quantity = mustQuantity(quantity)
	}
	if revenue != "" {
		rec.Revenue = mustQuantity(revenue)
	}
	return rec
}
